package main

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

//
// Optional YAML configuration for the front-end.  Every field has a
// sensible default, so no config file is required at all
//

type config struct {
	Prompt    string `yaml:"prompt"`
	Root      string `yaml:"root"`
	Folder    string `yaml:"folder"`
	Width     int    `yaml:"width"`
	InputMode string `yaml:"input_mode"`
}

func defaultConfig() config {

	root := "programs"

	if home, err := os.UserHomeDir(); err == nil {
		root = filepath.Join(home, ".gobasic")
	}

	return config{
		Prompt:    "> ",
		Root:      root,
		Folder:    "programs",
		InputMode: "line",
	}
}

//
// loadConfig reads the file at path, or the default location when
// path is empty.  A missing file is not an error
//

func loadConfig(path string) (config, error) {

	cfg := defaultConfig()

	explicit := path != ""

	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return cfg, nil
		}
		path = filepath.Join(home, ".gobasic.yaml")
	}

	contents, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && !explicit {
			return cfg, nil
		}
		return cfg, err
	}

	if err := yaml.Unmarshal(contents, &cfg); err != nil {
		return cfg, err
	}

	if cfg.InputMode != "line" && cfg.InputMode != "unbuffered" {
		cfg.InputMode = "line"
	}

	return cfg, nil
}

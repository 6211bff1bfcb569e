package gobasic

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

//
// Storage persists programs as plain text, one source line per file
// line, grouped into named folders.  Names pass the legality check
// before ever reaching an implementation
//

type Storage interface {
	Load(folder, name string) ([]string, error)
	Save(folder, name string, lines []string) error
	Remove(folder, name string) error
	Files(folder string) ([]string, error)
	Folders() ([]string, error)
}

//
// A file or folder name is 1 to 40 characters drawn from letters,
// digits, dash, underscore, dot and space, with no space at either end
//

func legalFileName(name string) bool {

	if len(name) < 1 || len(name) > 40 {
		return false
	}

	if name[0] == ' ' || name[len(name)-1] == ' ' {
		return false
	}

	for i := 0; i < len(name); i++ {
		ch := name[i]

		switch {
		case isLetter(ch) || isDigit(ch):

		case ch == '-' || ch == '_' || ch == '.' || ch == ' ':

		default:
			return false
		}
	}

	return true
}

//
// DirStorage keeps each folder as a directory under a fixed root and
// each program as a .bas file inside it
//

type DirStorage struct {
	Root string
}

const programExt = ".bas"

func NewDirStorage(root string) *DirStorage {
	return &DirStorage{Root: root}
}

func (d *DirStorage) path(folder, name string) string {
	return filepath.Join(d.Root, folder, name+programExt)
}

func (d *DirStorage) Load(folder, name string) ([]string, error) {

	f, err := os.Open(d.path(folder, name))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var lines []string

	sc := bufio.NewScanner(f)
	for sc.Scan() {
		lines = append(lines, sc.Text())
	}

	return lines, sc.Err()
}

func (d *DirStorage) Save(folder, name string, lines []string) error {

	dir := filepath.Join(d.Root, folder)

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	var b strings.Builder

	for _, line := range lines {
		fmt.Fprintln(&b, line)
	}

	return os.WriteFile(d.path(folder, name), []byte(b.String()), 0o644)
}

func (d *DirStorage) Remove(folder, name string) error {
	return os.Remove(d.path(folder, name))
}

func (d *DirStorage) Files(folder string) ([]string, error) {

	entries, err := os.ReadDir(filepath.Join(d.Root, folder))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var names []string

	for _, e := range entries {
		if e.IsDir() {
			continue
		}

		name := e.Name()
		if strings.HasSuffix(name, programExt) {
			names = append(names, strings.TrimSuffix(name, programExt))
		}
	}

	sort.Strings(names)

	return names, nil
}

func (d *DirStorage) Folders() ([]string, error) {

	entries, err := os.ReadDir(d.Root)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var names []string

	for _, e := range entries {
		if e.IsDir() {
			names = append(names, e.Name())
		}
	}

	sort.Strings(names)

	return names, nil
}

package main

import (
	"fmt"
	"sort"
)

//
// The help command belongs to the front-end, not the language: it
// describes the immediate commands a user types at the prompt
//

var helpTopics = map[string]string{
	"bye":     "Exit the interpreter",
	"clear":   "Erase all variables, keeping the program",
	"delete":  "Delete a line or range of lines",
	"dump":    "Print interpreter state for debugging",
	"files":   "List the programs in the current folder",
	"folder":  "Show or change the current folder",
	"folders": "List all storage folders",
	"list":    "List the program, or a range of lines",
	"load":    "Load a program from the current folder",
	"new":     "Erase the program and all variables",
	"remove":  "Delete a saved program",
	"renum":   "RENUM [range] TO start[, step]: renumber, fixing references",
	"run":     "Run the program from the start, or a given line",
	"save":    "Save the program to the current folder",
	"stats":   "Toggle CPU statistics for each run",
	"troff":   "Turn statement tracing off",
	"tron":    "Turn statement tracing on",
}

func printHelp(topic string) {

	if topic == "" {
		names := make([]string, 0, len(helpTopics))

		for name := range helpTopics {
			names = append(names, name)
		}
		sort.Strings(names)

		for _, name := range names {
			fmt.Println(name)
		}

		return
	}

	if text, ok := helpTopics[topic]; ok {
		fmt.Println(text)
		return
	}

	fmt.Printf("no help for %q\n", topic)
}

package gobasic

import (
	"fmt"
	"sort"

	"github.com/goforj/godump"
)

//
// The DUMP command: a debugging peek at the interpreter state.
// Variables print sorted by name; the control stacks go through the
// structured dumper
//

func (s *Session) execDump() {

	s.out.Write(fmt.Sprintf("state: %s\n", s.state))

	var names []string

	for name := range s.env.scalars {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		s.out.Write(fmt.Sprintf("%s = %s\n", name, s.env.scalars[name]))
	}

	for name, a := range s.env.arrays {
		s.out.Write(fmt.Sprintf("%s(): %d dimension(s)\n",
			name, len(a.dims)))
	}

	for name := range s.env.functions {
		s.out.Write(fmt.Sprintf("%s(): user function\n", name))
	}

	if len(s.forStack) > 0 {
		s.out.Write(godump.DumpStr(s.forStack))
	}

	if len(s.gosubStack) > 0 {
		s.out.Write(fmt.Sprintf("gosub depth: %d\n", len(s.gosubStack)))
	}

	if len(s.data) > 0 {
		s.out.Write(fmt.Sprintf("data cursor: %d of %d\n",
			s.dataCursor, len(s.data)))
	}
}

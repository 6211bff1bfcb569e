package gobasic

import (
	"strconv"
	"strings"
)

//
// PRINT output.  The column counter feeds POS and TAB and drives the
// comma print zones.  Escape sequences emitted by the screen
// statements go straight to the sink and deliberately bypass the
// counter
//

const zoneWidth = 14

//
// writeText sends text to the output sink, tracking the column.  A
// newline resets it
//

func (s *Session) writeText(text string) {

	s.out.Write(text)

	if i := strings.LastIndexByte(text, '\n'); i >= 0 {
		s.printCol = len(text) - i - 1
	} else {
		s.printCol += len(text)
	}
}

//
// nextZone pads with spaces to the start of the next print zone,
// wrapping to a fresh line when the zone would not fit in the width
//

func (s *Session) nextZone() {

	resid := zoneWidth - s.printCol%zoneWidth

	if s.printCol+resid+zoneWidth > s.width {
		s.writeText("\n")
		return
	}

	s.writeText(strings.Repeat(" ", resid))
}

func (s *Session) execPrint(st sPrint) error {

	for _, item := range st.items {
		if item.expr != nil {
			v, err := s.evalExpr(item.expr, s.env)
			if err != nil {
				return err
			}

			s.writeText(formatValue(v))
		}

		if item.sep == sepComma {
			s.nextZone()
		}
	}

	if len(st.items) == 0 ||
		st.items[len(st.items)-1].sep == sepNone {
		s.writeText("\n")
	}

	return nil
}

//
// formatValue renders a value for PRINT: a leading space stands in for
// the sign on non-negative numbers, and every number gets a trailing
// space.  Strings print exactly as they are
//

func formatValue(v value) string {

	switch v.kind {
	default:
		return ""

	case kindString:
		return v.s

	case kindInt:
		if v.i < 0 {
			return strconv.FormatInt(v.i, 10) + " "
		}
		return " " + strconv.FormatInt(v.i, 10) + " "

	case kindFloat:
		text := formatFloat(v.f)
		if v.f < 0 {
			return text + " "
		}
		return " " + text + " "
	}
}

//
// formatFloat keeps a float inside a print zone, trimming mantissa
// digits rather than spilling over, and never leaves ugly trailing
// zeros behind
//

func formatFloat(f float64) string {

	text := strconv.FormatFloat(f, 'g', -1, 64)

	if len(text) <= zoneWidth-2 || strings.ContainsAny(text, "eE") {
		return text
	}

	text = strconv.FormatFloat(f, 'g', zoneWidth-2, 64)

	if strings.Contains(text, ".") && !strings.ContainsAny(text, "eE") {
		text = strings.TrimRight(text, "0")
		text = strings.TrimSuffix(text, ".")
	}

	return text
}

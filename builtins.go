package gobasic

import (
	"math"
	"strconv"
	"strings"
	"time"
)

//
// Builtin functions.  The arity table is consulted by the parser, so a
// call with the wrong argument count never reaches evaluation.  min and
// max bound the legal count; most builtins have min == max
//

type arity struct {
	min, max int
}

var builtinArity = map[string]arity{
	"ABS":     {1, 1},
	"ACOS":    {1, 1},
	"ASC":     {1, 1},
	"ASIN":    {1, 1},
	"ATAN":    {1, 1},
	"ATAN2":   {2, 2},
	"BIN$":    {1, 1},
	"CHR$":    {1, 1},
	"COS":     {1, 1},
	"DATE$":   {0, 0},
	"EXP":     {1, 1},
	"HEX$":    {1, 1},
	"INSTR":   {2, 3},
	"INT":     {1, 1},
	"LEFT$":   {2, 2},
	"LEN":     {1, 1},
	"LOG":     {1, 1},
	"MID$":    {2, 3},
	"POS":     {0, 0},
	"RIGHT$":  {2, 2},
	"RND":     {0, 1},
	"SGN":     {1, 1},
	"SIN":     {1, 1},
	"SPACE$":  {0, 1},
	"SQR":     {1, 1},
	"STR$":    {1, 1},
	"STRING$": {2, 2},
	"TAB":     {1, 1},
	"TAN":     {1, 1},
	"TIME$":   {0, 0},
	"VAL":     {1, 1},
}

//
// evalBuiltin dispatches a builtin call.  Arguments are evaluated left
// to right before the name is examined
//

func (s *Session) evalBuiltin(e eCall, env *environment) (value, error) {

	args := make([]value, len(e.args))

	for i, a := range e.args {
		v, err := s.evalExpr(a, env)
		if err != nil {
			return value{}, err
		}
		args[i] = v
	}

	switch e.name {
	default:
		return value{}, internalError("unknown builtin %s", e.name)

	case "ABS":
		if args[0].isInt() && !args[0].isFloat() {
			n, _ := args[0].asInt()
			if n < 0 {
				n = -n
			}
			return intValue(n), nil
		}
		return floatFn(math.Abs, args[0])

	case "ACOS":
		return floatFn(math.Acos, args[0])

	case "ASC":
		str, err := args[0].asString()
		if err != nil {
			return value{}, err
		}
		if len(str) == 0 {
			return value{}, runtimeErrorf(EILLEGALFUNCTION)
		}
		return intValue(int64(str[0])), nil

	case "ASIN":
		return floatFn(math.Asin, args[0])

	case "ATAN":
		return floatFn(math.Atan, args[0])

	case "ATAN2":
		y, err := args[0].asFloat()
		if err != nil {
			return value{}, err
		}
		x, err := args[1].asFloat()
		if err != nil {
			return value{}, err
		}
		return floatValue(math.Atan2(y, x)), nil

	case "BIN$":
		n, err := args[0].asInt()
		if err != nil {
			return value{}, err
		}
		return stringValue(strconv.FormatInt(n, 2)), nil

	case "CHR$":
		n, err := args[0].asInt()
		if err != nil {
			return value{}, err
		}
		return stringValue(string(rune(n))), nil

	case "COS":
		return floatFn(math.Cos, args[0])

	case "DATE$":
		return stringValue(time.Now().Format("01-02-2006")), nil

	case "EXP":
		return floatFn(math.Exp, args[0])

	case "HEX$":
		n, err := args[0].asInt()
		if err != nil {
			return value{}, err
		}
		return stringValue(strings.ToUpper(
			strconv.FormatInt(n, 16))), nil

	case "INSTR":
		return instrFn(args)

	case "INT":
		f, err := args[0].asFloat()
		if err != nil {
			return value{}, err
		}
		return intValue(int64(math.Floor(f))), nil

	case "LEFT$":
		str, n, err := stringCount(args)
		if err != nil {
			return value{}, err
		}
		if n > int64(len(str)) {
			n = int64(len(str))
		}
		return stringValue(str[:n]), nil

	case "LEN":
		str, err := args[0].asString()
		if err != nil {
			return value{}, err
		}
		return intValue(int64(len(str))), nil

	case "LOG":
		f, err := args[0].asFloat()
		if err != nil {
			return value{}, err
		}
		if f <= 0 {
			return value{}, runtimeErrorf(EILLEGALFUNCTION)
		}
		return floatValue(math.Log(f)), nil

	case "MID$":
		return midFn(args)

	case "POS":
		return intValue(int64(s.printCol)), nil

	case "RIGHT$":
		str, n, err := stringCount(args)
		if err != nil {
			return value{}, err
		}
		if n > int64(len(str)) {
			n = int64(len(str))
		}
		return stringValue(str[int64(len(str))-n:]), nil

	case "RND":
		if len(args) == 0 {
			return floatValue(s.rng.Float64()), nil
		}
		n, err := args[0].asInt()
		if err != nil {
			return value{}, err
		}
		if n < 1 {
			return value{}, runtimeErrorf(EILLEGALFUNCTION)
		}
		return intValue(s.rng.Int63n(n) + 1), nil

	case "SGN":
		f, err := args[0].asFloat()
		if err != nil {
			return value{}, err
		}
		switch {
		case f < 0:
			return intValue(-1), nil
		case f > 0:
			return intValue(1), nil
		}
		return intValue(0), nil

	case "SIN":
		return floatFn(math.Sin, args[0])

	case "SPACE$":
		n := int64(1)
		if len(args) == 1 {
			var err error
			n, err = args[0].asInt()
			if err != nil {
				return value{}, err
			}
		}
		if n < 0 {
			return value{}, runtimeErrorf(EILLEGALFUNCTION)
		}
		return stringValue(strings.Repeat(" ", int(n))), nil

	case "SQR":
		f, err := args[0].asFloat()
		if err != nil {
			return value{}, err
		}
		if f < 0 {
			return value{}, runtimeErrorf(EILLEGALFUNCTION)
		}
		return floatValue(math.Sqrt(f)), nil

	case "STR$":
		if !args[0].isNumeric() {
			return value{}, typeError(ETYPEMISMATCH)
		}
		return stringValue(args[0].String()), nil

	case "STRING$":
		return stringRepeat(args)

	case "TAB":
		n, err := args[0].asInt()
		if err != nil {
			return value{}, err
		}
		if n <= int64(s.printCol) {
			return stringValue(""), nil
		}
		return stringValue(strings.Repeat(" ",
			int(n)-s.printCol)), nil

	case "TAN":
		return floatFn(math.Tan, args[0])

	case "TIME$":
		return stringValue(time.Now().Format("15:04:05")), nil

	case "VAL":
		return valFn(args[0])
	}
}

func floatFn(fn func(float64) float64, v value) (value, error) {

	f, err := v.asFloat()
	if err != nil {
		return value{}, err
	}

	return floatValue(fn(f)), nil
}

//
// Shared argument shape for LEFT$ and RIGHT$: a string and a count.  A
// negative count is illegal
//

func stringCount(args []value) (string, int64, error) {

	str, err := args[0].asString()
	if err != nil {
		return "", 0, err
	}

	n, err := args[1].asInt()
	if err != nil {
		return "", 0, err
	}

	if n < 0 {
		return "", 0, runtimeErrorf(EILLEGALFUNCTION)
	}

	return str, n, nil
}

//
// INSTR(haystack, needle [, start]).  Positions are one based; zero
// means not found
//

func instrFn(args []value) (value, error) {

	haystack, err := args[0].asString()
	if err != nil {
		return value{}, err
	}

	needle, err := args[1].asString()
	if err != nil {
		return value{}, err
	}

	start := int64(1)
	if len(args) == 3 {
		start, err = args[2].asInt()
		if err != nil {
			return value{}, err
		}
	}

	if start < 1 || start > int64(len(haystack)) {
		return intValue(0), nil
	}

	idx := strings.Index(haystack[start-1:], needle)
	if idx < 0 {
		return intValue(0), nil
	}

	return intValue(start + int64(idx)), nil
}

//
// MID$(str, start [, count]).  start is one based; with no count the
// rest of the string is taken
//

func midFn(args []value) (value, error) {

	str, err := args[0].asString()
	if err != nil {
		return value{}, err
	}

	start, err := args[1].asInt()
	if err != nil {
		return value{}, err
	}

	if start < 1 {
		return value{}, runtimeErrorf(EILLEGALFUNCTION)
	}

	if start > int64(len(str)) {
		return stringValue(""), nil
	}

	rest := str[start-1:]

	if len(args) == 2 {
		return stringValue(rest), nil
	}

	count, err := args[2].asInt()
	if err != nil {
		return value{}, err
	}

	if count < 0 {
		return value{}, runtimeErrorf(EILLEGALFUNCTION)
	}

	if count > int64(len(rest)) {
		count = int64(len(rest))
	}

	return stringValue(rest[:count]), nil
}

//
// STRING$(count, seed).  The seed is either a character code or a
// string whose first character repeats
//

func stringRepeat(args []value) (value, error) {

	n, err := args[0].asInt()
	if err != nil {
		return value{}, err
	}

	if n < 0 {
		return value{}, runtimeErrorf(EILLEGALFUNCTION)
	}

	var ch string

	if args[1].isString() && !args[1].isNull() {
		str, _ := args[1].asString()
		if len(str) == 0 {
			return value{}, runtimeErrorf(EILLEGALFUNCTION)
		}
		ch = str[:1]
	} else {
		code, err := args[1].asInt()
		if err != nil {
			return value{}, err
		}
		ch = string(rune(code))
	}

	return stringValue(strings.Repeat(ch, int(n))), nil
}

//
// VAL parses the leading number out of a string.  An unparsable string
// is zero, never an error
//

func valFn(v value) (value, error) {

	str, err := v.asString()
	if err != nil {
		return value{}, err
	}

	str = strings.TrimSpace(str)

	if n, err := strconv.ParseInt(str, 10, 64); err == nil {
		return intValue(n), nil
	}

	if f, err := strconv.ParseFloat(str, 64); err == nil {
		return floatValue(f), nil
	}

	return intValue(0), nil
}

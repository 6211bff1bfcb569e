package gobasic

import (
	"fmt"
	"time"
)

//
// The execution engine.  A position is a line plus a stack of
// statement frames: the bottom frame is the line's own statement list,
// and executing an IF pushes the chosen branch as a new frame.  All
// jump targets and continuations are positions, so GOSUB and the
// AwaitingInput suspension both work from inside a branch
//

type frame struct {
	stmts []statement
	idx   int
}

type position struct {
	line   *programLine
	frames []frame
}

func clonePos(p position) position {

	frames := make([]frame, len(p.frames))
	copy(frames, p.frames)

	return position{line: p.line, frames: frames}
}

//
// forFrame remembers one active FOR loop.  resume is the position just
// after the FOR statement; NEXT jumps back to a fresh copy of it
//

type forFrame struct {
	name   string
	kind   tokenKind
	limit  value
	step   value
	resume position
}

//
// flow is what a statement tells the run loop to do next
//

type flow int

const (
	flowNext flow = iota
	flowJumped
	flowAwait
	flowStop
	flowEnd
)

//
// execImmediate runs an unnumbered statement list.  Falling off the
// end returns the session to Ready unless a RUN or GOTO moved
// execution into the program, in which case the run plays out here too
//

func (s *Session) execImmediate(stmts []statement) error {

	s.pos = position{frames: []frame{{stmts: stmts}}}
	s.state = StateRunning

	return s.runLoop()
}

//
// runLoop executes statements until the state leaves Running: the
// program ends, stops, faults, or suspends for input
//

func (s *Session) runLoop() error {

	var traced int64

	for s.state == StateRunning {
		if s.interrupted.Swap(false) {
			s.state = StateStopped
			if s.pos.line != nil {
				s.out.Write(fmt.Sprintf("Stopped at line %d\n",
					s.pos.line.num))
			}
			return nil
		}

		st, ok := s.nextStatement()
		if !ok {
			if s.pos.line == nil {
				s.state = StateReady
			} else {
				s.endRun()
			}
			return nil
		}

		if s.trace && s.pos.line != nil && s.pos.line.num != traced {
			traced = s.pos.line.num
			s.out.Write(fmt.Sprintf("[%d]", traced))
		}

		fl, err := s.execStatement(st)
		if err != nil {
			return s.haltRun(err)
		}

		switch fl {
		case flowEnd:
			s.endRun()

		case flowStop:
			s.state = StateStopped
			if s.pos.line != nil {
				s.out.Write(fmt.Sprintf("Stopped at line %d\n",
					s.pos.line.num))
			}

		case flowAwait:
			s.state = StateAwaitingInput
		}
	}

	return nil
}

//
// nextStatement advances the position to the next statement, popping
// exhausted frames and crossing line boundaries.  false means there is
// nothing left to execute
//

func (s *Session) nextStatement() (statement, bool) {

	for {
		if len(s.pos.frames) == 0 {
			if s.pos.line == nil {
				return nil, false
			}

			next := s.prog.next(s.pos.line)
			if next == nil {
				return nil, false
			}

			s.pos.line = next
			s.pos.frames = []frame{{stmts: next.stmts}}
			continue
		}

		top := &s.pos.frames[len(s.pos.frames)-1]

		if top.idx >= len(top.stmts) {
			s.pos.frames = s.pos.frames[:len(s.pos.frames)-1]
			continue
		}

		st := top.stmts[top.idx]
		top.idx++

		return st, true
	}
}

func (s *Session) endRun() {

	s.state = StateEnded
	s.pending = nil

	if s.stats {
		s.printRunStats()
	}
}

//
// snapshot captures the current position as a continuation.  The
// statement indices have already advanced past the statement being
// executed, so resuming lands on the one after it
//

func (s *Session) snapshot() position {
	return clonePos(s.pos)
}

func (s *Session) jumpTo(num int64) (flow, error) {

	line := s.prog.lookup(num)
	if line == nil {
		return flowNext, lineError(num)
	}

	s.pos = position{line: line, frames: []frame{{stmts: line.stmts}}}

	return flowJumped, nil
}

//
// execStatement is the single dispatch point for every statement kind
//

func (s *Session) execStatement(st statement) (flow, error) {

	switch st := st.(type) {
	default:
		return flowNext, internalError("unknown statement %T", st)

	case sComment, sData:
		return flowNext, nil

	case sLet:
		v, err := s.evalExpr(st.expr, s.env)
		if err != nil {
			return flowNext, err
		}
		return flowNext, s.assign(st.target, s.env, v)

	case sPrint:
		return flowNext, s.execPrint(st)

	case sIf:
		cond, err := s.evalExpr(st.cond, s.env)
		if err != nil {
			return flowNext, err
		}

		truth, err := cond.isTrue()
		if err != nil {
			return flowNext, err
		}

		branch := st.then
		if !truth {
			branch = st.els
		}

		if len(branch) > 0 {
			s.pos.frames = append(s.pos.frames, frame{stmts: branch})
		}

		return flowNext, nil

	case sGoto:
		return s.jumpTo(st.line)

	case sGosub:
		return s.execGosub(st.line)

	case sReturn:
		if len(s.gosubStack) == 0 {
			return flowNext, underflowError(ERETURNNOGOSUB)
		}
		s.pos = s.gosubStack[len(s.gosubStack)-1]
		s.gosubStack = s.gosubStack[:len(s.gosubStack)-1]
		return flowJumped, nil

	case sOn:
		return s.execOn(st)

	case sFor:
		return s.execFor(st)

	case sNext:
		return s.execNext(st)

	case sWhile:
		return s.execWhile(st)

	case sWend:
		return s.execWend()

	case sRead:
		return flowNext, s.execRead(st)

	case sRestore:
		s.execRestore(st.line)
		return flowNext, nil

	case sDim:
		return flowNext, s.execDim(st)

	case sDef:
		fn := st.fn
		s.env.setFunction(fn.name, &fn)
		return flowNext, nil

	case sInput:
		if st.prompt != "" {
			s.writeText(st.prompt)
		}
		s.writeText("? ")
		s.pending = &pendingInput{refs: st.refs}
		return flowAwait, nil

	case sGet:
		s.pending = &pendingInput{refs: []lvalueRef{st.ref}, key: true}
		return flowAwait, nil

	case sEnd:
		return flowEnd, nil

	case sStop:
		return flowStop, nil

	case sRun:
		if err := s.cmdRun(st.line); err != nil {
			return flowNext, err
		}
		return flowJumped, nil

	case sNew:
		s.cmdNew()
		return flowJumped, nil

	case sClear:
		s.cmdClear()
		return flowNext, nil

	case sList:
		s.cmdList(st.rng)
		return flowNext, nil

	case sDelete:
		return flowNext, s.cmdDelete(st.rng)

	case sRenum:
		return flowNext, s.prog.renum(st.rng, st.start, st.step)

	case sLoad:
		name, err := s.evalString(st.name, s.env)
		if err != nil {
			return flowNext, err
		}
		if err := s.cmdLoad(name); err != nil {
			return flowNext, err
		}
		return flowJumped, nil

	case sSave:
		name, err := s.evalString(st.name, s.env)
		if err != nil {
			return flowNext, err
		}
		return flowNext, s.cmdSave(name)

	case sRemove:
		name, err := s.evalString(st.name, s.env)
		if err != nil {
			return flowNext, err
		}
		return flowNext, s.cmdRemove(name)

	case sFiles:
		return flowNext, s.cmdFiles()

	case sFolder:
		if st.name == nil {
			return flowNext, s.cmdFolder("")
		}
		name, err := s.evalString(st.name, s.env)
		if err != nil {
			return flowNext, err
		}
		return flowNext, s.cmdFolder(name)

	case sFolders:
		return flowNext, s.cmdFolders()

	case sCls:
		s.out.Write("\x1b[2J\x1b[H")
		s.printCol = 0
		return flowNext, nil

	case sColor:
		return flowNext, s.execColor(st)

	case sLocate:
		return flowNext, s.execLocate(st)

	case sCursor:
		if st.on {
			s.out.Write("\x1b[?25h")
		} else {
			s.out.Write("\x1b[?25l")
		}
		return flowNext, nil

	case sWidth:
		cols, err := s.evalInt(st.cols, s.env)
		if err != nil {
			return flowNext, err
		}
		if cols < zoneWidth {
			return flowNext, runtimeErrorf(EILLEGALFUNCTION)
		}
		if st.rows != nil {
			if _, err := s.evalInt(st.rows, s.env); err != nil {
				return flowNext, err
			}
		}
		s.width = int(cols)
		return flowNext, nil

	case sPause:
		seconds, err := s.evalNumeric(st.seconds, s.env)
		if err != nil {
			return flowNext, err
		}
		f, err := seconds.asFloat()
		if err != nil {
			return flowNext, err
		}
		if f > 0 {
			time.Sleep(time.Duration(f * float64(time.Second)))
		}
		return flowNext, nil

	case sRandomize:
		return flowNext, s.execRandomize(st)

	case sTron:
		s.trace = true
		return flowNext, nil

	case sTroff:
		s.trace = false
		return flowNext, nil

	case sDump:
		s.execDump()
		return flowNext, nil

	case sStats:
		s.stats = !s.stats
		if s.stats {
			s.out.Write("Statistics on\n")
		} else {
			s.out.Write("Statistics off\n")
		}
		return flowNext, nil
	}
}

func (s *Session) execGosub(num int64) (flow, error) {

	cont := s.snapshot()

	fl, err := s.jumpTo(num)
	if err != nil {
		return fl, err
	}

	s.gosubStack = append(s.gosubStack, cont)

	return flowJumped, nil
}

//
// ON with an out-of-range index falls through without complaint
//

func (s *Session) execOn(st sOn) (flow, error) {

	n, err := s.evalInt(st.expr, s.env)
	if err != nil {
		return flowNext, err
	}

	if n < 1 || n > int64(len(st.lines)) {
		return flowNext, nil
	}

	if st.isGosub {
		return s.execGosub(st.lines[n-1])
	}

	return s.jumpTo(st.lines[n-1])
}

//
// FOR evaluates its bounds once.  If the start value is already past
// the limit for the step's sign, the body is skipped entirely by
// scanning ahead to the matching NEXT
//

func (s *Session) execFor(st sFor) (flow, error) {

	from, err := s.evalNumeric(st.from, s.env)
	if err != nil {
		return flowNext, err
	}

	limit, err := s.evalNumeric(st.to, s.env)
	if err != nil {
		return flowNext, err
	}

	step := intValue(1)
	if st.step != nil {
		step, err = s.evalNumeric(st.step, s.env)
		if err != nil {
			return flowNext, err
		}
	}

	if err := s.assign(st.ref, s.env, from); err != nil {
		return flowNext, err
	}

	if !forInRange(from, limit, step) {
		return s.skipForBody()
	}

	s.forStack = append(s.forStack, forFrame{
		name:   st.ref.name,
		kind:   st.ref.kind,
		limit:  limit,
		step:   step,
		resume: s.snapshot(),
	})

	return flowNext, nil
}

func forInRange(v, limit, step value) bool {

	vf, _ := v.asFloat()
	lf, _ := limit.asFloat()
	sf, _ := step.asFloat()

	if sf >= 0 {
		return vf <= lf
	}

	return vf >= lf
}

//
// skipForBody moves the position just past the NEXT matching this FOR,
// counting FOR/NEXT nesting along the way
//

func (s *Session) skipForBody() (flow, error) {

	sc := newScanner(s)

	depth := 0

	for {
		st, ok := sc.next()
		if !ok {
			return flowNext, runtimeErrorf(ENOMATCHINGNEXT)
		}

		switch st.(type) {
		case sFor:
			depth++

		case sNext:
			if depth == 0 {
				s.pos = sc.pos
				return flowJumped, nil
			}
			depth--
		}
	}
}

func (s *Session) execNext(st sNext) (flow, error) {

	idx := len(s.forStack) - 1

	if st.ref != nil {
		for idx >= 0 && s.forStack[idx].name != st.ref.name {
			idx--
		}
	}

	if idx < 0 {
		return flowNext, runtimeErrorf(ENEXTWITHOUTFOR)
	}

	//
	// A named NEXT discards any inner loops it jumps over
	//

	s.forStack = s.forStack[:idx+1]

	f := &s.forStack[idx]

	cur, ok := s.env.get(f.name)
	if !ok {
		cur = zeroFor(f.kind)
	}

	next, err := addValues(cur, f.step)
	if err != nil {
		return flowNext, err
	}

	if err := s.assign(lvalueRef{name: f.name, kind: f.kind},
		s.env, next); err != nil {
		return flowNext, err
	}

	if forInRange(next, f.limit, f.step) {
		s.pos = clonePos(f.resume)
		return flowJumped, nil
	}

	s.forStack = s.forStack[:idx]

	return flowNext, nil
}

//
// WHILE and WEND carry no stack frame; they are matched positionally.
// A false test scans forward past the matching WEND.  WEND finds its
// WHILE by replaying the top-level statement sequence from the start
// of the program and jumps back to re-test it
//

func (s *Session) execWhile(st sWhile) (flow, error) {

	cond, err := s.evalExpr(st.cond, s.env)
	if err != nil {
		return flowNext, err
	}

	truth, err := cond.isTrue()
	if err != nil {
		return flowNext, err
	}

	if truth {
		return flowNext, nil
	}

	sc := newScanner(s)

	depth := 0

	for {
		st, ok := sc.next()
		if !ok {
			return flowNext, runtimeErrorf(ENOMATCHINGWEND)
		}

		switch st.(type) {
		case sWhile:
			depth++

		case sWend:
			if depth == 0 {
				s.pos = sc.pos
				return flowJumped, nil
			}
			depth--
		}
	}
}

func (s *Session) execWend() (flow, error) {

	if s.pos.line == nil || len(s.pos.frames) != 1 {
		return flowNext, runtimeErrorf(EWENDNOWHILE)
	}

	wendIdx := s.pos.frames[0].idx - 1

	var stack []position

	for line := s.prog.first(); line != nil; line = s.prog.next(line) {
		for idx, st := range line.stmts {
			if line == s.pos.line && idx == wendIdx {
				if len(stack) == 0 {
					return flowNext, runtimeErrorf(EWENDNOWHILE)
				}
				s.pos = stack[len(stack)-1]
				return flowJumped, nil
			}

			switch st.(type) {
			case sWhile:
				stack = append(stack, position{
					line:   line,
					frames: []frame{{stmts: line.stmts, idx: idx}},
				})

			case sWend:
				if len(stack) > 0 {
					stack = stack[:len(stack)-1]
				}
			}
		}
	}

	return flowNext, runtimeErrorf(EWENDNOWHILE)
}

func (s *Session) execRead(st sRead) error {

	for _, ref := range st.refs {
		if s.dataCursor >= len(s.data) {
			return dataError()
		}

		item := s.data[s.dataCursor]
		s.dataCursor++

		if err := s.assign(ref, s.env, item.val); err != nil {
			return err
		}
	}

	return nil
}

func (s *Session) execRestore(num int64) {

	if num == 0 {
		s.dataCursor = 0
		return
	}

	for i, item := range s.data {
		if item.line >= num {
			s.dataCursor = i
			return
		}
	}

	s.dataCursor = len(s.data)
}

func (s *Session) execDim(st sDim) error {

	for _, decl := range st.decls {
		dims, err := s.evalSubscripts(decl.dims, s.env)
		if err != nil {
			return err
		}

		if err := s.env.makeArray(decl.name, decl.kind, dims); err != nil {
			return err
		}
	}

	return nil
}

//
// ANSI SGR colors.  0-7 are the normal intensities, 8-15 bright
//

func (s *Session) execColor(st sColor) error {

	fg, err := s.evalInt(st.fg, s.env)
	if err != nil {
		return err
	}

	code, ok := sgrCode(fg, false)
	if !ok {
		return runtimeErrorf(EILLEGALFUNCTION)
	}

	out := fmt.Sprintf("\x1b[%dm", code)

	if st.bg != nil {
		bg, err := s.evalInt(st.bg, s.env)
		if err != nil {
			return err
		}

		code, ok := sgrCode(bg, true)
		if !ok {
			return runtimeErrorf(EILLEGALFUNCTION)
		}

		out += fmt.Sprintf("\x1b[%dm", code)
	}

	s.out.Write(out)

	return nil
}

func sgrCode(color int64, background bool) (int64, bool) {

	if color < 0 || color > 15 {
		return 0, false
	}

	base := int64(30)
	if color > 7 {
		base = 90
		color -= 8
	}

	if background {
		base += 10
	}

	return base + color, true
}

func (s *Session) execLocate(st sLocate) error {

	row, err := s.evalInt(st.row, s.env)
	if err != nil {
		return err
	}

	col, err := s.evalInt(st.col, s.env)
	if err != nil {
		return err
	}

	if row < 1 || col < 1 {
		return runtimeErrorf(EILLEGALFUNCTION)
	}

	s.out.Write(fmt.Sprintf("\x1b[%d;%dH", row, col))
	s.printCol = int(col) - 1

	return nil
}

func (s *Session) execRandomize(st sRandomize) error {

	if st.seed == nil {
		s.rng.Seed(time.Now().UnixNano())
		return nil
	}

	seed, err := s.evalInt(st.seed, s.env)
	if err != nil {
		return err
	}

	s.rng.Seed(seed)

	return nil
}

//
// scanner walks the statement sequence ahead of the current position
// without executing anything.  It finishes the open frames first, then
// continues across line boundaries at the top level.  IF branches are
// not entered: loop keywords hidden inside a branch do not take part
// in skip matching
//

type scanner struct {
	s   *Session
	pos position
}

func newScanner(s *Session) *scanner {
	return &scanner{s: s, pos: clonePos(s.pos)}
}

func (sc *scanner) next() (statement, bool) {

	for {
		if len(sc.pos.frames) == 0 {
			if sc.pos.line == nil {
				return nil, false
			}

			next := sc.s.prog.next(sc.pos.line)
			if next == nil {
				return nil, false
			}

			sc.pos.line = next
			sc.pos.frames = []frame{{stmts: next.stmts}}
			continue
		}

		top := &sc.pos.frames[len(sc.pos.frames)-1]

		if top.idx >= len(top.stmts) {
			sc.pos.frames = sc.pos.frames[:len(sc.pos.frames)-1]
			continue
		}

		st := top.stmts[top.idx]
		top.idx++

		return st, true
	}
}

package gobasic

import (
	"fmt"
	"math/rand"
	"strconv"
	"strings"
	"sync/atomic"
	"time"
)

//
// RunState is the externally visible execution state.  The only state
// a caller must act on is AwaitingInput, which it leaves by calling
// ResumeInput or ResumeKey
//

type RunState int

const (
	StateReady RunState = iota
	StateRunning
	StateAwaitingInput
	StateStopped
	StateEnded
)

func (st RunState) String() string {

	switch st {
	default:
		return "unknown"

	case StateReady:
		return "ready"

	case StateRunning:
		return "running"

	case StateAwaitingInput:
		return "awaiting input"

	case StateStopped:
		return "stopped"

	case StateEnded:
		return "ended"
	}
}

//
// Output is where all user-visible text goes: PRINT, LIST, error
// reports, statistics.  The front-end decides what a terminal is
//

type Output interface {
	Write(text string)
}

//
// WriterOutput adapts any io.Writer-shaped function to the Output
// interface
//

type WriterOutput func(text string)

func (f WriterOutput) Write(text string) { f(text) }

//
// pendingInput records why execution is suspended.  key is true for a
// single-keystroke GET, false for a line-oriented INPUT
//

type pendingInput struct {
	refs []lvalueRef
	key  bool
}

//
// A Session owns one interpreter instance: the program store, the
// variable environment, the control stacks and the DATA cursor.  It is
// not safe for concurrent use; callers serialize access themselves
//

type Session struct {
	prog   *program
	env    *environment
	out    Output
	store  Storage
	folder string

	state   RunState
	pos     position
	pending *pendingInput

	gosubStack []position
	forStack   []forFrame

	data       []dataItem
	dataCursor int

	printCol int
	width    int
	rng      *rand.Rand
	trace    bool
	stats    bool
	fnActive bool

	interrupted atomic.Bool

	runStart time.Time
	runTicks cpuTimes
}

const defaultWidth = 80

//
// NewSession builds a ready interpreter writing to out and persisting
// through store.  A nil store disables LOAD, SAVE and friends; a nil
// out discards output
//

func NewSession(out Output, store Storage) *Session {

	if out == nil {
		out = WriterOutput(func(string) {})
	}

	folder := "programs"

	return &Session{
		prog:   newProgram(),
		env:    newEnvironment(folder),
		out:    out,
		store:  store,
		folder: folder,
		width:  defaultWidth,
		rng:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (s *Session) State() RunState {
	return s.state
}

//
// AwaitingKey reports whether the pending suspension wants a single
// keystroke rather than a line of text
//

func (s *Session) AwaitingKey() bool {
	return s.state == StateAwaitingInput && s.pending != nil && s.pending.key
}

//
// SetWidth adjusts the output width used by the print zones.  Values
// below one zone are ignored
//

func (s *Session) SetWidth(cols int) {

	if cols >= zoneWidth {
		s.width = cols
	}
}

//
// Interrupt asks a running program to stop at the next statement
// boundary, as if it had hit STOP.  Unlike the rest of the Session it
// may be called from another goroutine, so a signal handler can drive
// it
//

func (s *Session) Interrupt() {
	s.interrupted.Store(true)
}

//
// SetFolder changes the active storage folder, like the FOLDER
// statement
//

func (s *Session) SetFolder(name string) error {
	return s.cmdFolder(name)
}

//
// Execute handles one line of user input.  A numbered line edits the
// program: statements replace the line, a bare number deletes it.
// Anything else executes immediately.  Errors coming back are reported
// through the output sink as well, so interactive callers need not
// print them again
//

func (s *Session) Execute(text string) error {

	if s.state == StateAwaitingInput {
		return s.report(runtimeErrorf("execution is awaiting input"))
	}

	if strings.TrimSpace(text) == "" {
		return nil
	}

	num, stmts, err := parseLine(text)
	if err != nil {
		return s.report(err)
	}

	if num > 0 {
		if stmts == nil {
			if !s.prog.remove(num) {
				return s.report(lineError(num))
			}
			return nil
		}
		s.prog.add(num, stmts)
		return nil
	}

	return s.execImmediate(stmts)
}

//
// ResumeInput feeds a line of text to a suspended INPUT.  Values are
// comma separated; a value that does not fit its target's kind leaves
// the session suspended and asks again
//

func (s *Session) ResumeInput(text string) error {

	if s.state != StateAwaitingInput || s.pending == nil || s.pending.key {
		return runtimeErrorf("no input is pending")
	}

	values, ok := splitInput(text, s.pending.refs)
	if !ok {
		s.out.Write("?Redo from start\n")
		return nil
	}

	refs := s.pending.refs

	s.pending = nil
	s.state = StateRunning

	for i, ref := range refs {
		if err := s.assign(ref, s.env, values[i]); err != nil {
			return s.haltRun(err)
		}
	}

	return s.runLoop()
}

//
// ResumeKey feeds one keystroke to a suspended GET.  A string target
// receives the character, a numeric target its code
//

func (s *Session) ResumeKey(ch byte) error {

	if s.state != StateAwaitingInput || s.pending == nil || !s.pending.key {
		return runtimeErrorf("no key read is pending")
	}

	ref := s.pending.refs[0]

	s.pending = nil
	s.state = StateRunning

	var v value
	if ref.kind == tokIDString {
		v = stringValue(string(ch))
	} else {
		v = intValue(int64(ch))
	}

	if err := s.assign(ref, s.env, v); err != nil {
		return s.haltRun(err)
	}

	return s.runLoop()
}

//
// splitInput carves an input line into one value per target.  The last
// target swallows the rest of the line, so a single string variable
// can take text containing commas
//

func splitInput(text string, refs []lvalueRef) ([]value, bool) {

	parts := strings.SplitN(text, ",", len(refs))
	if len(parts) < len(refs) {
		return nil, false
	}

	values := make([]value, len(refs))

	for i, part := range parts {
		part = strings.TrimSpace(part)

		if refs[i].kind == tokIDString {
			values[i] = stringValue(strings.Trim(part, "\""))
			continue
		}

		if n, err := strconv.ParseInt(part, 10, 64); err == nil {
			values[i] = intValue(n)
			continue
		}

		f, err := strconv.ParseFloat(part, 64)
		if err != nil {
			return nil, false
		}

		values[i] = floatValue(f)
	}

	return values, true
}

//
// report writes an error through the output sink and returns it
//

func (s *Session) report(err error) error {

	if err == nil {
		return nil
	}

	s.out.Write(err.Error() + "\n")

	return err
}

//
// haltRun ends a run because a statement faulted.  The line number is
// attached before reporting
//

func (s *Session) haltRun(err error) error {

	s.state = StateEnded
	s.pending = nil

	return s.report(atLine(err, s.curLine()))
}

func (s *Session) curLine() int64 {

	if s.pos.line == nil {
		return 0
	}

	return s.pos.line.num
}

//
// Command implementations shared by immediate and program execution
//

func (s *Session) cmdRun(target int64) error {

	if s.prog.empty() {
		s.state = StateEnded
		return nil
	}

	start := s.prog.first()

	if target != 0 {
		start = s.prog.lookup(target)
		if start == nil {
			return lineError(target)
		}
	}

	s.cmdClear()
	s.rebuildData()
	s.interrupted.Store(false)

	s.state = StateRunning
	s.pos = position{line: start, frames: []frame{{stmts: start.stmts}}}

	if s.stats {
		s.runStart = time.Now()
		s.runTicks = readCPUTimes()
	}

	return nil
}

//
// cmdClear wipes variables and control state but keeps the program
//

func (s *Session) cmdClear() {

	s.env = newEnvironment(s.folder)
	s.gosubStack = nil
	s.forStack = nil
	s.data = nil
	s.dataCursor = 0
	s.fnActive = false
	s.pending = nil
}

func (s *Session) cmdNew() {

	s.prog.clear()
	s.cmdClear()
	s.state = StateReady
}

func (s *Session) cmdList(rng lineRange) {

	for line := s.prog.first(); line != nil; line = s.prog.next(line) {
		if rng.contains(line.num) {
			s.out.Write(fmt.Sprintf("%d %s\n", line.num, line.render()))
		}
	}
}

func (s *Session) cmdDelete(rng lineRange) error {

	if s.prog.deleteRange(rng) == 0 {
		return lineError(rng.from)
	}

	return nil
}

func (s *Session) cmdLoad(name string) error {

	if s.store == nil {
		return runtimeErrorf("no storage is attached")
	}

	if !legalFileName(name) {
		return runtimeErrorf("%s %q", EBADFILENAME, name)
	}

	lines, err := s.store.Load(s.folder, name)
	if err != nil {
		return runtimeErrorf("cannot load %q: %v", name, err)
	}

	s.cmdNew()

	for _, text := range lines {
		if strings.TrimSpace(text) == "" {
			continue
		}

		num, stmts, err := parseLine(text)
		if err != nil || num == 0 || stmts == nil {
			s.cmdNew()
			if err == nil {
				err = syntaxError("not a program line")
			}
			return wrapParse(name, err)
		}

		s.prog.add(num, stmts)
	}

	return nil
}

func (s *Session) cmdSave(name string) error {

	if s.store == nil {
		return runtimeErrorf("no storage is attached")
	}

	if !legalFileName(name) {
		return runtimeErrorf("%s %q", EBADFILENAME, name)
	}

	var lines []string

	for line := s.prog.first(); line != nil; line = s.prog.next(line) {
		lines = append(lines, fmt.Sprintf("%d %s", line.num, line.render()))
	}

	return s.store.Save(s.folder, name, lines)
}

func (s *Session) cmdRemove(name string) error {

	if s.store == nil {
		return runtimeErrorf("no storage is attached")
	}

	if !legalFileName(name) {
		return runtimeErrorf("%s %q", EBADFILENAME, name)
	}

	return s.store.Remove(s.folder, name)
}

func (s *Session) cmdFiles() error {

	if s.store == nil {
		return runtimeErrorf("no storage is attached")
	}

	names, err := s.store.Files(s.folder)
	if err != nil {
		return runtimeErrorf("cannot list %q: %v", s.folder, err)
	}

	for _, name := range names {
		s.out.Write(name + "\n")
	}

	return nil
}

func (s *Session) cmdFolders() error {

	if s.store == nil {
		return runtimeErrorf("no storage is attached")
	}

	names, err := s.store.Folders()
	if err != nil {
		return runtimeErrorf("cannot list folders: %v", err)
	}

	for _, name := range names {
		s.out.Write(name + "\n")
	}

	return nil
}

func (s *Session) cmdFolder(name string) error {

	if name == "" {
		s.out.Write(s.folder + "\n")
		return nil
	}

	if !legalFileName(name) {
		return runtimeErrorf("%s %q", EBADFILENAME, name)
	}

	s.folder = name
	s.env.set("folder$", stringValue(name))

	return nil
}

//
// rebuildData walks the program in line order collecting every DATA
// constant, including DATA inside IF branches, into the pool READ
// consumes
//

func (s *Session) rebuildData() {

	s.data = nil
	s.dataCursor = 0

	for line := s.prog.first(); line != nil; line = s.prog.next(line) {
		s.collectData(line.num, line.stmts)
	}
}

func (s *Session) collectData(num int64, stmts []statement) {

	for _, st := range stmts {
		switch st := st.(type) {
		case sData:
			for _, item := range st.items {
				s.data = append(s.data, dataItem{line: num, val: item})
			}

		case sIf:
			s.collectData(num, st.then)
			s.collectData(num, st.els)
		}
	}
}

type dataItem struct {
	line int64
	val  value
}

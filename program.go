package gobasic

import (
	"github.com/danswartzendruber/avl"
)

//
// The program store keeps numbered lines in an AVL tree ordered by
// line number.  Each node owns the parsed statement list for its line;
// the source text is re-rendered from the statements, so LIST and SAVE
// always emit canonical form
//

type programLine struct {
	avl   avl.AvlNode
	num   int64
	stmts []statement
}

func (p *programLine) render() string {
	return renderStatements(p.stmts)
}

type program struct {
	root  *avl.AvlNode
	count int
}

func newProgram() *program {
	return &program{}
}

//
// AVL comparators, in the shape the tree package wants
//

func cmpLineKey(key any, node any) int {
	return cmpLineNums(key.(int64), node.(*programLine).num)
}

func cmpLineNode(node1, node2 any) int {
	return cmpLineNums(node1.(*programLine).num, node2.(*programLine).num)
}

func cmpLineNums(a, b int64) int {

	switch {
	case a < b:
		return -1

	case a > b:
		return 1
	}

	return 0
}

//
// add stores a line, replacing any line with the same number
//

func (p *program) add(num int64, stmts []statement) {

	p.remove(num)

	line := &programLine{num: num, stmts: stmts}

	avl.AvlTreeInsert(&p.root, &line.avl, line, cmpLineNode)

	p.count++
}

func (p *program) remove(num int64) bool {

	line := p.lookup(num)
	if line == nil {
		return false
	}

	avl.AvlTreeRemove(&p.root, &line.avl)

	p.count--

	return true
}

func (p *program) clear() {

	p.root = nil
	p.count = 0
}

func (p *program) empty() bool {
	return p.count == 0
}

func (p *program) lookup(num int64) *programLine {

	n := avl.AvlTreeLookup(p.root, num, cmpLineKey)
	if n == nil {
		return nil
	}

	return n.(*programLine)
}

func (p *program) first() *programLine {

	n := avl.AvlTreeFirstInOrder(p.root)
	if n == nil {
		return nil
	}

	return n.(*programLine)
}

func (p *program) next(line *programLine) *programLine {

	n := avl.AvlTreeNextInOrder(&line.avl)
	if n == nil {
		return nil
	}

	return n.(*programLine)
}

//
// deleteRange removes every line inside the range, answering how many
// went away
//

func (p *program) deleteRange(rng lineRange) int {

	var doomed []*programLine

	for line := p.first(); line != nil; line = p.next(line) {
		if rng.contains(line.num) {
			doomed = append(doomed, line)
		}
	}

	for _, line := range doomed {
		avl.AvlTreeRemove(&p.root, &line.avl)
		p.count--
	}

	return len(doomed)
}

//
// renum renumbers the lines inside the range.  Three phases: build the
// old to new mapping, rewrite every line reference in the whole program
// through it, then rebuild the tree under the new numbers.  A reference
// to a line that does not exist is left alone and will fault at
// execution time, same as it would have before
//

func (p *program) renum(rng lineRange, start, step int64) error {

	renumberMap := make(map[int64]int64)
	kept := make(map[int64]bool)

	next := start
	for line := p.first(); line != nil; line = p.next(line) {
		if rng.contains(line.num) {
			renumberMap[line.num] = next
			next += step
		} else {
			kept[line.num] = true
		}
	}

	for _, to := range renumberMap {
		if kept[to] {
			return runtimeErrorf(ERENUMCOLLIDES)
		}
	}

	var lines []*programLine

	for line := p.first(); line != nil; line = p.next(line) {
		line.stmts = renumberStatements(line.stmts, renumberMap)
		lines = append(lines, line)
	}

	p.clear()

	for _, line := range lines {
		num := line.num
		if to, ok := renumberMap[num]; ok {
			num = to
		}
		p.add(num, line.stmts)
	}

	return nil
}

func renumberStatements(stmts []statement,
	renumberMap map[int64]int64) []statement {

	out := make([]statement, len(stmts))

	for i, st := range stmts {
		out[i] = renumberStatement(st, renumberMap)
	}

	return out
}

func renumberStatement(st statement, renumberMap map[int64]int64) statement {

	mapLine := func(num int64) int64 {
		if to, ok := renumberMap[num]; ok {
			return to
		}
		return num
	}

	switch st := st.(type) {
	default:
		return st

	case sGoto:
		return sGoto{line: mapLine(st.line)}

	case sGosub:
		return sGosub{line: mapLine(st.line)}

	case sOn:
		lines := make([]int64, len(st.lines))
		for i, num := range st.lines {
			lines[i] = mapLine(num)
		}
		return sOn{expr: st.expr, isGosub: st.isGosub, lines: lines}

	case sRestore:
		if st.line == 0 {
			return st
		}
		return sRestore{line: mapLine(st.line)}

	case sRun:
		if st.line == 0 {
			return st
		}
		return sRun{line: mapLine(st.line)}

	case sIf:
		return sIf{
			cond: st.cond,
			then: renumberStatements(st.then, renumberMap),
			els:  renumberStatements(st.els, renumberMap),
		}
	}
}

package cyk

import "fmt"

// Table is the recognition table P of a single run. P[length][start][idx] is
// true if and only if the nonterminal with index idx derives exactly the
// length input tokens beginning at position start.
//
// length ranges over 1..N(), start over 0..N()-length, and idx over
// 0..Width()-1.
type Table struct {
	n     int
	width int
	cells []bool
}

func newTable(n, width int) Table {
	return Table{
		n:     n,
		width: width,
		cells: make([]bool, n*n*width),
	}
}

// N returns the number of input tokens the table covers.
func (P Table) N() int {
	return P.n
}

// Width returns the number of nonterminals the table has a slot for.
func (P Table) Width() int {
	return P.width
}

func (P Table) offset(length, start, idx int) int {
	return ((length-1)*P.n+start)*P.width + idx
}

func (P Table) inRange(length, start, idx int) bool {
	if length < 1 || length > P.n {
		return false
	}
	if start < 0 || start+length > P.n {
		return false
	}
	return idx >= 0 && idx < P.width
}

// Get returns P[length][start][idx]. Coordinates outside of the table give
// false.
func (P Table) Get(length, start, idx int) bool {
	if !P.inRange(length, start, idx) {
		return false
	}
	return P.cells[P.offset(length, start, idx)]
}

// Cell returns the indexes of every nonterminal that derives the length tokens
// at start, in ascending order.
func (P Table) Cell(length, start int) []int {
	var idxs []int
	for idx := 0; idx < P.width; idx++ {
		if P.Get(length, start, idx) {
			idxs = append(idxs, idx)
		}
	}
	return idxs
}

func (P Table) set(length, start, idx int) {
	if !P.inRange(length, start, idx) {
		panic(fmt.Sprintf("table cell [%d][%d][%d] out of range", length, start, idx))
	}
	P.cells[P.offset(length, start, idx)] = true
}

// Package cyk decides membership of token sequences in the language of a
// NormalizedGrammar using the Cocke-Younger-Kasami method.
//
// The recognizer fills a table of every (substring, nonterminal) pair, shortest
// substrings first. Filling is synchronous unless a Recognizer is given more
// than one worker, in which case each length layer of the table is split
// across goroutines by start position.
package cyk

import (
	"fmt"
	"strings"
	"sync"

	"github.com/dekarrin/gramq/grammar"
	"github.com/dekarrin/rosed"
)

// Recognizer runs recognition over a single NormalizedGrammar. The zero-value
// is not usable; create one with New.
type Recognizer struct {
	// Workers is the number of goroutines used to fill each layer of the
	// table. Anything less than 2 fills the table on the calling goroutine.
	Workers int

	g     grammar.NormalizedGrammar
	index SymbolIndex

	// unit rules keyed by the terminal they produce, holding source indexes.
	unit map[string][]int

	// binary rules with both target symbols resolved to indexes. Rules naming
	// a symbol with no index can never apply and are not kept.
	binary []binaryRule
}

type binaryRule struct {
	a, b, c int
}

// New returns a Recognizer for g. The SymbolIndex and rule lookups are built
// once here and shared by every call to Recognize.
func New(g grammar.NormalizedGrammar) *Recognizer {
	r := &Recognizer{
		g:     g,
		index: NewSymbolIndex(g),
		unit:  map[string][]int{},
	}

	for _, rule := range g.Rules() {
		a, _ := r.index.Index(rule.Source)

		if rule.IsUnit() {
			r.unit[rule.Target[0]] = append(r.unit[rule.Target[0]], a)
			continue
		}

		b, bOK := r.index.Index(rule.Target[0])
		c, cOK := r.index.Index(rule.Target[1])
		if bOK && cOK {
			r.binary = append(r.binary, binaryRule{a: a, b: b, c: c})
		}
	}

	return r
}

// Index returns the SymbolIndex used for the table of every Result.
func (r *Recognizer) Index() SymbolIndex {
	return r.index
}

// Recognize fills the recognition table for tokens and checks whether start
// derives all of them. An empty token sequence or a start symbol that is not a
// nonterminal of the grammar is never recognized; neither is an error.
func (r *Recognizer) Recognize(start string, tokens []string) Result {
	res := Result{
		Start:  start,
		Tokens: make([]string, len(tokens)),
		Index:  r.index,
	}
	copy(res.Tokens, tokens)

	n := len(tokens)
	res.Table = newTable(n, r.index.Len())
	if n == 0 {
		return res
	}

	r.fillUnits(res.Table, res.Tokens)

	for length := 2; length <= n; length++ {
		r.fillLayer(res.Table, length)
	}

	if idx, ok := r.index.Index(start); ok {
		res.Recognized = res.Table.Get(n, 0, idx)
	}

	return res
}

func (r *Recognizer) fillUnits(P Table, tokens []string) {
	for s, tok := range tokens {
		for _, a := range r.unit[tok] {
			P.set(1, s, a)
		}
	}
}

// fillLayer sets every cell of the given length. Cells of a layer only read
// cells of shorter layers, and each start position is handled by exactly one
// goroutine, so no cell is ever written by more than one goroutine.
func (r *Recognizer) fillLayer(P Table, length int) {
	starts := P.n - length + 1

	workers := r.Workers
	if workers > starts {
		workers = starts
	}
	if workers < 2 {
		for s := 0; s < starts; s++ {
			r.fillCell(P, length, s)
		}
		return
	}

	var wg sync.WaitGroup
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func(w int) {
			defer wg.Done()
			for s := w; s < starts; s += workers {
				r.fillCell(P, length, s)
			}
		}(w)
	}
	wg.Wait()
}

func (r *Recognizer) fillCell(P Table, length, s int) {
	for k := 1; k < length; k++ {
		for _, rule := range r.binary {
			if P.Get(length, s, rule.a) {
				continue
			}
			if P.Get(k, s, rule.b) && P.Get(length-k, s+k, rule.c) {
				P.set(length, s, rule.a)
			}
		}
	}
}

// Recognize is a convenience for New(g).Recognize(start, tokens).
func Recognize(g grammar.NormalizedGrammar, start string, tokens []string) Result {
	return New(g).Recognize(start, tokens)
}

// Accepts returns whether start derives exactly tokens under g.
func Accepts(g grammar.NormalizedGrammar, start string, tokens []string) bool {
	return Recognize(g, start, tokens).Recognized
}

// Result is the outcome of one recognition run.
type Result struct {
	// Start is the start symbol that was checked.
	Start string

	// Tokens is the input that was checked.
	Tokens []string

	// Index maps nonterminals to their slots in Table.
	Index SymbolIndex

	// Table is the filled recognition table.
	Table Table

	// Recognized is whether Start derives all of Tokens.
	Recognized bool
}

// Derives returns whether sym derives the length tokens at start. Symbols
// that are not nonterminals of the grammar derive nothing.
func (res Result) Derives(sym string, length, start int) bool {
	idx, ok := res.Index.Index(sym)
	if !ok {
		return false
	}
	return res.Table.Get(length, start, idx)
}

// Derivation lists the nonterminals that derive one substring of the input.
type Derivation struct {
	Length  int
	Start   int
	Symbols []string
}

// Derivations returns one Derivation for every substring that at least one
// nonterminal derives, shortest substrings first and then by start position.
func (res Result) Derivations() []Derivation {
	var ds []Derivation
	n := res.Table.N()
	for length := 1; length <= n; length++ {
		for s := 0; s+length <= n; s++ {
			idxs := res.Table.Cell(length, s)
			if len(idxs) == 0 {
				continue
			}
			d := Derivation{Length: length, Start: s, Symbols: make([]string, len(idxs))}
			for i, idx := range idxs {
				d.Symbols[i] = res.Index.Symbol(idx)
			}
			ds = append(ds, d)
		}
	}
	return ds
}

// TableString lays out the recognition table in the usual triangular form:
// one row per substring length, longest first, and one column per start
// position, with each cell listing the nonterminals that derive it. The result
// is no wider than width.
func (res Result) TableString(width int) string {
	n := res.Table.N()
	if n == 0 {
		return "(empty input)"
	}

	data := [][]string{}

	header := []string{"len"}
	for s := 0; s < n; s++ {
		header = append(header, fmt.Sprintf("%d:%s", s, res.Tokens[s]))
	}
	data = append(data, header)

	for length := n; length >= 1; length-- {
		row := []string{fmt.Sprintf("%d", length)}
		for s := 0; s < n; s++ {
			if s+length > n {
				row = append(row, "")
				continue
			}
			var syms []string
			for _, idx := range res.Table.Cell(length, s) {
				syms = append(syms, res.Index.Symbol(idx))
			}
			if len(syms) == 0 {
				row = append(row, "-")
			} else {
				row = append(row, strings.Join(syms, ","))
			}
		}
		data = append(data, row)
	}

	return rosed.Edit("").
		InsertTableOpts(0, data, width, rosed.Options{
			TableBorders:             true,
			NoTrailingLineSeparators: true,
		}).
		String()
}

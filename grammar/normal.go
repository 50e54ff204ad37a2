package grammar

import (
	"sort"
	"strings"

	"github.com/dekarrin/gramq/internal/util"
	"github.com/dekarrin/rosed"
)

// NormalizedGrammar is a grammar whose rules each produce either one symbol or
// two symbols. It is created by Grammar.ConvertToNormalForm and is read-only
// afterwards.
//
// A unit rule A -> a is treated by the recognizer as matching the input token
// a. A binary rule A -> B C is treated as the concatenation of whatever B and C
// derive.
type NormalizedGrammar struct {
	rules []NormalizedRule
	start string
}

func (ng *NormalizedGrammar) addRule(source string, target []string) {
	r := NormalizedRule{Source: source, Target: make([]string, len(target))}
	copy(r.Target, target)
	ng.rules = append(ng.rules, r)
}

// Start returns the start symbol the grammar was normalized for.
func (ng NormalizedGrammar) Start() string {
	return ng.start
}

// Len returns the number of rules in the grammar.
func (ng NormalizedGrammar) Len() int {
	return len(ng.rules)
}

// Rules returns a copy of every rule in the order they were added.
func (ng NormalizedGrammar) Rules() []NormalizedRule {
	rules := make([]NormalizedRule, len(ng.rules))
	for i := range ng.rules {
		rules[i] = ng.rules[i].Copy()
	}
	return rules
}

// Rule returns the rule at index i. It panics if i is out of range.
func (ng NormalizedGrammar) Rule(i int) NormalizedRule {
	return ng.rules[i].Copy()
}

// NonTerminals returns every symbol that is the source of at least one rule,
// in the order each is first seen.
func (ng NormalizedGrammar) NonTerminals() []string {
	seen := map[string]bool{}
	var nts []string
	for _, r := range ng.rules {
		if !seen[r.Source] {
			seen[r.Source] = true
			nts = append(nts, r.Source)
		}
	}
	return nts
}

// Terminals returns every symbol that appears in a target but is never the
// source of a rule, sorted.
func (ng NormalizedGrammar) Terminals() []string {
	nts := map[string]bool{}
	for _, r := range ng.rules {
		nts[r.Source] = true
	}

	termSet := map[string]bool{}
	for _, r := range ng.rules {
		for _, sym := range r.Target {
			if !nts[sym] {
				termSet[sym] = true
			}
		}
	}

	terms := make([]string, 0, len(termSet))
	for t := range termSet {
		terms = append(terms, t)
	}
	sort.Strings(terms)
	return terms
}

// UnreachableNonTerminals returns every nonterminal that cannot be reached by
// any chain of rules starting from the start symbol, in the order each is first
// seen. If the start symbol is not itself a nonterminal of the grammar, every
// nonterminal is unreachable.
func (ng NormalizedGrammar) UnreachableNonTerminals() []string {
	reached := map[string]bool{ng.start: true}
	queue := []string{ng.start}

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]

		for _, r := range ng.rules {
			if r.Source != cur {
				continue
			}
			for _, sym := range r.Target {
				if !reached[sym] {
					reached[sym] = true
					queue = append(queue, sym)
				}
			}
		}
	}

	var unreachable []string
	for _, nt := range ng.NonTerminals() {
		if !reached[nt] {
			unreachable = append(unreachable, nt)
		}
	}
	return unreachable
}

// Equal returns whether the grammar has the same start symbol and the same
// rules in the same order as another value. It will not be equal if the other
// value cannot be cast to a NormalizedGrammar or *NormalizedGrammar.
func (ng NormalizedGrammar) Equal(o any) bool {
	other, ok := o.(NormalizedGrammar)
	if !ok {
		otherPtr, ok := o.(*NormalizedGrammar)
		if !ok || otherPtr == nil {
			return false
		}
		other = *otherPtr
	}

	if ng.start != other.start {
		return false
	}
	return util.EqualSlices(ng.rules, other.rules)
}

func (ng NormalizedGrammar) String() string {
	var sb strings.Builder

	sb.WriteString("(start=")
	sb.WriteString(ng.start)
	sb.WriteString(", R=[")
	for i := range ng.rules {
		sb.WriteString(ng.rules[i].String())
		if i+1 < len(ng.rules) {
			sb.WriteString(", ")
		}
	}
	sb.WriteString("])")

	return sb.String()
}

// Table returns the rules laid out as a bordered console table no wider than
// width, with each nonterminal on one row and its alternatives joined by " | ".
func (ng NormalizedGrammar) Table(width int) string {
	alts := map[string][]string{}
	for _, r := range ng.rules {
		alts[r.Source] = append(alts[r.Source], strings.Join(r.Target, " "))
	}

	data := [][]string{}
	for _, nt := range ng.NonTerminals() {
		marker := ""
		if nt == ng.start {
			marker = "*"
		}
		data = append(data, []string{marker + nt, strings.Join(alts[nt], " | ")})
	}
	if len(data) == 0 {
		return "(no rules)"
	}

	return rosed.Edit("").
		InsertTableOpts(0, data, width, rosed.Options{
			TableBorders:             true,
			NoTrailingLineSeparators: true,
		}).
		String()
}

package grammar

import (
	"fmt"
	"strings"

	"github.com/dekarrin/rezi"
	"github.com/dekarrin/rosed"
)

// Grammar is an ordered collection of raw rules. Rules are only ever
// appended; a nonterminal may have any number of rules. The zero-value is an
// empty Grammar ready for use.
type Grammar struct {
	rules []Rule
}

// AddRule appends rule to the Grammar. The rule is stored by value, so later
// changes to a caller's copy of a struct rule are not seen by the Grammar.
//
// All rules require a non-empty source; AddRule panics if given one without.
func (g *Grammar) AddRule(rule Rule) {
	if rule == nil {
		panic("nil rule not allowed")
	}
	if rule.Source() == "" {
		panic("empty source symbol not allowed for production rule")
	}

	g.rules = append(g.rules, rule)
}

// Len returns the number of rules in the Grammar.
func (g Grammar) Len() int {
	return len(g.rules)
}

// Rules returns the rules of the Grammar in the order they were added. The
// returned slice is a copy.
func (g Grammar) Rules() []Rule {
	rules := make([]Rule, len(g.rules))
	copy(rules, g.rules)
	return rules
}

// ConvertToNormalForm splits the target of every rule with split and builds a
// NormalizedGrammar out of every rule whose target came out to one or two
// symbols. Every other rule is left out and reported to sink; sink may be nil,
// in which case those reports are discarded.
//
// Rules with more than two symbols are not broken up into chains of new
// nonterminals; they are dropped.
//
// start is recorded as the start symbol of the returned NormalizedGrammar. It
// is not required to be the source of any rule.
//
// The Grammar itself is not modified.
func (g Grammar) ConvertToNormalForm(start string, split Splitter, sink DiagnosticSink) NormalizedGrammar {
	ng := NormalizedGrammar{start: start}

	for i, r := range g.rules {
		chain := split(r.Target())

		if len(chain) < 1 || len(chain) > 2 {
			if sink != nil {
				splitCopy := make([]string, len(chain))
				copy(splitCopy, chain)
				sink.Report(Diagnostic{
					Index:  i,
					Source: r.Source(),
					Target: r.Target(),
					Split:  splitCopy,
				})
			}
			continue
		}

		ng.addRule(r.Source(), chain)
	}

	return ng
}

func (g Grammar) String() string {
	var sb strings.Builder
	for i, r := range g.rules {
		sb.WriteString(r.Source())
		sb.WriteString(" => ")
		sb.WriteString(r.Target())
		if i+1 < len(g.rules) {
			sb.WriteRune('\n')
		}
	}
	return sb.String()
}

// Table returns the rules laid out as a bordered console table no wider than
// width.
func (g Grammar) Table(width int) string {
	data := [][]string{{"#", "Source", "Target"}}
	for i, r := range g.rules {
		data = append(data, []string{fmt.Sprintf("%d", i), r.Source(), r.Target()})
	}

	return rosed.Edit("").
		InsertTableOpts(0, data, width, rosed.Options{
			TableBorders:             true,
			NoTrailingLineSeparators: true,
		}).
		String()
}

// MarshalBinary encodes the rules of the Grammar. Only the source and target
// of each rule are kept; UnmarshalBinary restores every rule as a SimpleRule.
func (g Grammar) MarshalBinary() ([]byte, error) {
	var data []byte

	data = append(data, rezi.EncInt(len(g.rules))...)
	for _, r := range g.rules {
		data = append(data, rezi.EncString(r.Source())...)
		data = append(data, rezi.EncString(r.Target())...)
	}

	return data, nil
}

// UnmarshalBinary decodes rules encoded with MarshalBinary into g, replacing
// any rules it already had.
func (g *Grammar) UnmarshalBinary(data []byte) error {
	count, n, err := rezi.DecInt(data)
	if err != nil {
		return fmt.Errorf("rule count: %w", err)
	}
	data = data[n:]

	if count < 0 {
		return fmt.Errorf("rule count < 0")
	}

	rules := make([]Rule, 0, count)
	for i := 0; i < count; i++ {
		var r SimpleRule

		r.From, n, err = rezi.DecString(data)
		if err != nil {
			return fmt.Errorf("rule %d: source: %w", i, err)
		}
		data = data[n:]

		r.To, n, err = rezi.DecString(data)
		if err != nil {
			return fmt.Errorf("rule %d: target: %w", i, err)
		}
		data = data[n:]

		if r.From == "" {
			return fmt.Errorf("rule %d: empty source", i)
		}

		rules = append(rules, r)
	}

	g.rules = rules
	return nil
}

package grammar

import (
	"fmt"
	"log"
	"strings"
)

// Diagnostic describes a raw rule that was left out of a NormalizedGrammar
// because its target did not split into one or two symbols.
type Diagnostic struct {
	// Index is the position of the rule in the Grammar it came from.
	Index int

	// Source and Target are the two sides of the dropped rule as given.
	Source string
	Target string

	// Split is what the Splitter produced for Target.
	Split []string
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("unhandled rule #%d (len: %d): %s => %s", d.Index, len(d.Split), d.Source, d.Target)
}

// DiagnosticSink receives Diagnostics produced during normalization.
type DiagnosticSink interface {
	Report(d Diagnostic)
}

// Diagnostics collects every Diagnostic reported to it, in order.
type Diagnostics []Diagnostic

// Report appends d.
func (ds *Diagnostics) Report(d Diagnostic) {
	*ds = append(*ds, d)
}

// Len returns the number of collected Diagnostics.
func (ds Diagnostics) Len() int {
	return len(ds)
}

func (ds Diagnostics) String() string {
	lines := make([]string, len(ds))
	for i := range ds {
		lines[i] = ds[i].String()
	}
	return strings.Join(lines, "\n")
}

// LogSink writes each Diagnostic to a logger as a warning. If Logger is nil,
// the standard logger is used.
type LogSink struct {
	Logger *log.Logger
}

func (ls LogSink) Report(d Diagnostic) {
	if ls.Logger == nil {
		log.Printf("WARN  dropped %s", d)
		return
	}
	ls.Logger.Printf("WARN  dropped %s", d)
}

// MultiSink reports each Diagnostic to all of its sinks.
type MultiSink []DiagnosticSink

func (ms MultiSink) Report(d Diagnostic) {
	for _, s := range ms {
		if s != nil {
			s.Report(d)
		}
	}
}

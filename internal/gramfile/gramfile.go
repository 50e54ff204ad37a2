// Package gramfile loads grammars and the inputs to check against them from
// files on disk.
//
// Two formats are understood. The plain format is a list of lines of the form
// "SOURCE => TARGET", with every other non-blank line taken as an input string
// to check. The GRAMQ format is TOML-based, and is recognized by a top-level
// `format = "GRAMQ"` key.
package gramfile

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"os"
	"strings"
	"unicode"

	"github.com/BurntSushi/toml"
	"github.com/dekarrin/gramq/grammar"
	"github.com/dekarrin/gramq/split"
)

const (
	// FormatGRAMQ is the value of the format key in TOML-based grammar files.
	FormatGRAMQ = "GRAMQ"

	// TypeGrammar is the value of the type key in TOML-based grammar files.
	TypeGrammar = "GRAMMAR"

	// DefaultStart is the start symbol used when a file does not give one.
	DefaultStart = "e"

	// DefaultSplitter is the name of the splitter used when a file does not
	// give one.
	DefaultSplitter = split.NameMolecule
)

var (
	// ErrNoRules is the error returned when a file is read successfully but
	// does not define any rules.
	ErrNoRules = errors.New("does not define any rules")
)

// Bundle is everything loaded from one grammar file.
type Bundle struct {
	// Grammar holds the rules in the order they appear in the file.
	Grammar grammar.Grammar

	// Start is the start symbol to normalize and recognize with.
	Start string

	// Splitter is the name of the splitter to use for rule targets and
	// inputs. It is always a name known to split.ByName.
	Splitter string

	// Inputs are the strings the file asks to be checked, in order.
	Inputs []string
}

// Split returns the Splitter named by b.Splitter.
func (b Bundle) Split() (grammar.Splitter, error) {
	return split.ByName(b.Splitter)
}

// Normalize converts the bundle's grammar with its start symbol and splitter.
// Dropped rules are reported to sink, which may be nil.
func (b Bundle) Normalize(sink grammar.DiagnosticSink) (grammar.NormalizedGrammar, error) {
	s, err := b.Split()
	if err != nil {
		return grammar.NormalizedGrammar{}, err
	}
	return b.Grammar.ConvertToNormalForm(b.Start, s, sink), nil
}

// FileInfo contains the header keys of a TOML-based grammar file. It can be
// obtained from a file by reading it into memory and calling ScanFileInfo on
// the bytes.
type FileInfo struct {
	Format string `toml:"format"`
	Type   string `toml:"type"`
}

// LoadFile loads a grammar file of either format. The format is detected from
// the contents.
func LoadFile(path string) (Bundle, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Bundle{}, err
	}

	b, err := Parse(data)
	if err != nil {
		return Bundle{}, fmt.Errorf("%s: %w", path, err)
	}
	return b, nil
}

// Parse parses the bytes of a grammar file of either format.
func Parse(data []byte) (Bundle, error) {
	info, err := ScanFileInfo(data)
	if err == nil && strings.EqualFold(info.Format, FormatGRAMQ) {
		return parseTOML(data)
	}
	return parsePlain(data)
}

// ScanFileInfo takes the given data bytes and attempts to read the GRAMQ
// format header info from it. The bytes are read up to the first instance of
// a table definition header and those bytes are parsed for the info. If there
// is an error reading the info, returns a non-nil error.
func ScanFileInfo(data []byte) (FileInfo, error) {
	// only run the toml parser up to the end of the top-level table
	var topLevelEnd int = -1
	onNewLine := true
	for b := range data {
		if onNewLine {
			if data[b] == '[' {
				topLevelEnd = b
				break
			}
		}

		if data[b] == '\n' {
			onNewLine = true
		} else if !unicode.IsSpace(rune(data[b])) {
			onNewLine = false
		}
	}

	scanData := data
	if topLevelEnd != -1 {
		scanData = data[:topLevelEnd]
	}

	var info FileInfo
	err := toml.Unmarshal(scanData, &info)
	return info, err
}

func parsePlain(data []byte) (Bundle, error) {
	b := Bundle{
		Start:    DefaultStart,
		Splitter: DefaultSplitter,
	}

	sc := bufio.NewScanner(bytes.NewReader(data))
	lineNum := 0
	for sc.Scan() {
		lineNum++
		line := sc.Text()

		if r, err := ParseArrowRule(line); err == nil {
			r.Line = lineNum
			b.Grammar.AddRule(r)
			continue
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		b.Inputs = append(b.Inputs, line)
	}
	if err := sc.Err(); err != nil {
		return Bundle{}, err
	}

	if b.Grammar.Len() < 1 {
		return Bundle{}, ErrNoRules
	}

	return b, nil
}

func parseTOML(data []byte) (Bundle, error) {
	var tg topLevelGrammar
	if err := toml.Unmarshal(data, &tg); err != nil {
		return Bundle{}, err
	}

	if !strings.EqualFold(tg.Type, TypeGrammar) {
		return Bundle{}, fmt.Errorf("type: must be %q but is %q", TypeGrammar, tg.Type)
	}

	b := Bundle{
		Start:    strings.TrimSpace(tg.Start),
		Splitter: strings.ToLower(strings.TrimSpace(tg.Splitter)),
		Inputs:   tg.Inputs,
	}
	if b.Start == "" {
		b.Start = DefaultStart
	}
	if b.Splitter == "" {
		b.Splitter = DefaultSplitter
	}
	if _, err := split.ByName(b.Splitter); err != nil {
		return Bundle{}, fmt.Errorf("splitter: %w", err)
	}

	for i, r := range tg.Rules {
		if err := r.validate(); err != nil {
			return Bundle{}, fmt.Errorf("rules[%d]: %w", i, err)
		}
		b.Grammar.AddRule(r.toRule())
	}
	for i, p := range tg.Productions {
		r, err := ParseLooseArrowRule(p)
		if err != nil {
			return Bundle{}, fmt.Errorf("productions[%d]: %w", i, err)
		}
		b.Grammar.AddRule(r)
	}

	if b.Grammar.Len() < 1 {
		return Bundle{}, ErrNoRules
	}

	return b, nil
}

// Encode writes b out in the TOML-based GRAMQ format. Every rule is written as
// a [[rules]] table.
func Encode(b Bundle) ([]byte, error) {
	tg := topLevelGrammar{
		Format:   FormatGRAMQ,
		Type:     TypeGrammar,
		Start:    b.Start,
		Splitter: b.Splitter,
		Inputs:   b.Inputs,
	}
	for _, r := range b.Grammar.Rules() {
		tg.Rules = append(tg.Rules, tomlRule{Source: r.Source(), Target: r.Target()})
	}

	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(tg); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// SaveFile writes b to path in the TOML-based GRAMQ format.
func SaveFile(path string, b Bundle) error {
	data, err := Encode(b)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

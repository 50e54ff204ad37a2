// Package input contains the readers used to get gramq commands from a CLI or
// any other source of input.
package input

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/chzyer/readline"
)

// DefaultPrompt is the prompt shown by an InteractiveCommandReader unless
// another is given.
const DefaultPrompt = "gramq> "

// DirectCommandReader implements command.Reader and reads commands from any
// generic input stream directly. It can be used generically with any io.Reader
// but does not sanitize the input of control and escape sequences.
//
// DirectCommandReader should not be used directly; instead, create one with
// [NewDirectReader].
type DirectCommandReader struct {
	r             *bufio.Reader
	blanksAllowed bool
}

// InteractiveCommandReader implements command.Reader and reads commands from
// stdin using a go implementation of the GNU Readline library. This keeps input
// clear of all typing and editing escape sequences, enables the use of command
// history, and tab-completes command verbs. This should in general only be
// used when directly connecting to a TTY for input.
//
// InteractiveCommandReader should not be used directly; instead, create one
// with [NewInteractiveReader].
type InteractiveCommandReader struct {
	rl            *readline.Instance
	blanksAllowed bool
	prompt        string
}

// NewDirectReader creates a new DirectCommandReader with a buffered reader on
// the provided reader.
func NewDirectReader(r io.Reader) *DirectCommandReader {
	return &DirectCommandReader{
		r: bufio.NewReader(r),
	}
}

// NewInteractiveReader creates a new InteractiveCommandReader and initializes
// readline. Each of verbs is offered as a tab-completion for the first word of
// a line. If prompt is empty, DefaultPrompt is used. The returned reader must
// have Close() called on it before disposal to properly teardown readline
// resources.
func NewInteractiveReader(prompt string, verbs []string) (*InteractiveCommandReader, error) {
	if prompt == "" {
		prompt = DefaultPrompt
	}

	items := make([]readline.PrefixCompleterInterface, len(verbs))
	for i := range verbs {
		items[i] = readline.PcItem(verbs[i])
	}

	rl, err := readline.NewEx(&readline.Config{
		Prompt:       prompt,
		AutoComplete: readline.NewPrefixCompleter(items...),
	})
	if err != nil {
		return nil, fmt.Errorf("create readline config: %w", err)
	}

	return &InteractiveCommandReader{
		rl:     rl,
		prompt: prompt,
	}, nil
}

// Close cleans up resources associated with the DirectCommandReader. It does
// not close the underlying reader.
func (dcr *DirectCommandReader) Close() error {
	return nil
}

// Close cleans up readline resources and other resources associated with the
// InteractiveCommandReader.
func (icr *InteractiveCommandReader) Close() error {
	return icr.rl.Close()
}

// ReadCommand reads the next line of input. The returned string will only be
// empty if there is an error reading input or blanks are allowed, otherwise
// this function blocks until a line containing non-space characters is read.
//
// If at end of input, the returned string will be empty and error will be
// io.EOF. If any other error occurs, the returned string will be empty and
// error will be that error.
func (dcr *DirectCommandReader) ReadCommand() (string, error) {
	return readNonBlank(dcr.r.ReadString, dcr.blanksAllowed)
}

// ReadCommand reads the next command from stdin. It behaves the same as
// DirectCommandReader.ReadCommand.
func (icr *InteractiveCommandReader) ReadCommand() (string, error) {
	readLine := func(byte) (string, error) {
		return icr.rl.Readline()
	}
	return readNonBlank(readLine, icr.blanksAllowed)
}

func readNonBlank(readLine func(delim byte) (string, error), blanksAllowed bool) (string, error) {
	var line string
	var err error

	for line == "" {
		line, err = readLine('\n')
		if err != nil && (err != io.EOF || line == "") {
			return "", err
		}

		line = strings.TrimSpace(line)

		if line == "" && blanksAllowed {
			return line, nil
		}
	}

	return line, nil
}

// AllowBlank sets whether blank output is allowed. By default it is not.
func (dcr *DirectCommandReader) AllowBlank(allow bool) {
	dcr.blanksAllowed = allow
}

// AllowBlank sets whether blank output is allowed. By default it is not.
func (icr *InteractiveCommandReader) AllowBlank(allow bool) {
	icr.blanksAllowed = allow
}

// SetPrompt updates the prompt to the given text.
func (icr *InteractiveCommandReader) SetPrompt(p string) {
	icr.prompt = p
	icr.rl.SetPrompt(p)
}

// GetPrompt gets the current prompt.
func (icr *InteractiveCommandReader) GetPrompt() string {
	return icr.prompt
}

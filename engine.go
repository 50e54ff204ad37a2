// Package gramq contains a CLI-driven engine for building up a context-free
// grammar, normalizing it, and checking inputs against it until the user
// quits.
package gramq

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/dekarrin/gramq/cyk"
	"github.com/dekarrin/gramq/grammar"
	"github.com/dekarrin/gramq/internal/command"
	"github.com/dekarrin/gramq/internal/gqerrors"
	"github.com/dekarrin/gramq/internal/gramfile"
	"github.com/dekarrin/gramq/internal/input"
	"github.com/dekarrin/gramq/internal/util"
	"github.com/dekarrin/gramq/split"
	"github.com/dekarrin/rosed"
)

const consoleOutputWidth = 80

// helpText gives the usage line and description of each verb.
var helpText = map[string][2]string{
	command.VerbRule:        {"RULE SOURCE => TARGET", "Add a rule to the grammar. The target is broken into symbols with the current splitter."},
	command.VerbRules:       {"RULES", "Show every rule added so far, in order."},
	command.VerbNormal:      {"NORMAL", "Show the normalized grammar. Rules whose target splits into more than two symbols are not in it."},
	command.VerbStart:       {"START [SYMBOL]", "Show the start symbol, or set it to SYMBOL."},
	command.VerbSplit:       {"SPLIT [NAME]", "Show the splitter used for rule targets and inputs, or set it to NAME."},
	command.VerbCheck:       {"CHECK INPUT", "Check whether the start symbol derives INPUT."},
	command.VerbTable:       {"TABLE INPUT", "Check INPUT and show which symbols derive each span of it."},
	command.VerbUnreachable: {"UNREACHABLE", "Show the nonterminals that can never be reached from the start symbol."},
	command.VerbInputs:      {"INPUTS", "Check every input that was loaded from the grammar file."},
	command.VerbSave:        {"SAVE FILE", "Save the grammar, start symbol, splitter, and inputs to FILE in GRAMQ TOML format."},
	command.VerbHelp:        {"HELP [COMMAND]", "Show all commands, or more about one command."},
	command.VerbQuit:        {"QUIT", "Leave the shell."},
}

// Engine contains the things needed to run a grammar shell attached to an
// input stream and an output stream.
type Engine struct {
	session     gramfile.Bundle
	normal      grammar.NormalizedGrammar
	rec         *cyk.Recognizer
	in          command.Reader
	out         *bufio.Writer
	warn        grammar.LogSink
	forceDirect bool
	running     bool
}

// New creates a new engine ready to operate on the given input and output
// streams. It will immediately open a buffered reader on the input stream and a
// buffered writer on the output stream.
//
// If nil is given for the input stream, a bufio.Reader is opened on stdin. If
// nil is given for the output stream, a bufio.Writer is opened on stdout.
//
// If grammarFilePath is empty, the session starts with no rules, start symbol
// gramfile.DefaultStart, and splitter gramfile.DefaultSplitter. Otherwise the
// grammar file is loaded.
func New(inputStream io.Reader, outputStream io.Writer, grammarFilePath string, forceDirectInput bool) (*Engine, error) {
	if inputStream == nil {
		inputStream = os.Stdin
	}
	if outputStream == nil {
		outputStream = os.Stdout
	}

	session := gramfile.Bundle{
		Start:    gramfile.DefaultStart,
		Splitter: gramfile.DefaultSplitter,
	}
	if grammarFilePath != "" {
		var err error
		session, err = gramfile.LoadFile(grammarFilePath)
		if err != nil {
			return nil, err
		}
	}

	eng := &Engine{
		session:     session,
		out:         bufio.NewWriter(outputStream),
		forceDirect: forceDirectInput,
	}
	eng.warn = grammar.LogSink{Logger: log.New(eng.out, "", 0)}
	if err := eng.normalize(-1); err != nil {
		return nil, err
	}

	useReadline := !forceDirectInput && inputStream == os.Stdin && outputStream == os.Stdout

	if useReadline {
		var completions []string
		for _, v := range command.Verbs() {
			completions = append(completions, v, strings.ToLower(v))
		}
		var err error
		eng.in, err = input.NewInteractiveReader(input.DefaultPrompt, completions)
		if err != nil {
			return nil, fmt.Errorf("initializing interactive-mode input reader: %w", err)
		}
	} else {
		eng.in = input.NewDirectReader(inputStream)
	}

	return eng, nil
}

// Close closes all resources associated with the Engine, including any
// readline-related resources created for interactive mode.
func (eng *Engine) Close() error {
	if eng.running {
		return fmt.Errorf("cannot close a running engine")
	}

	err := eng.in.Close()
	if err != nil {
		return fmt.Errorf("close command reader: %w", err)
	}

	return nil
}

// RunUntilQuit begins reading commands from the streams and applying them to
// the grammar until the QUIT command is received or input runs out.
func (eng *Engine) RunUntilQuit() error {
	introMsg := "GramQ Grammar Shell\n"
	if eng.forceDirect {
		introMsg += "(direct input mode)\n"
	}
	introMsg += "===================\n"

	if err := eng.write(introMsg); err != nil {
		return err
	}

	// loading reports every rule that was dropped
	if err := eng.normalize(0); err != nil {
		return err
	}
	summary := fmt.Sprintf("%d rule(s), %d kept after normalizing; start symbol %q, splitter %q\n",
		eng.session.Grammar.Len(), eng.normal.Len(), eng.session.Start, eng.session.Splitter)
	if err := eng.write(summary); err != nil {
		return err
	}
	if len(eng.session.Inputs) > 0 {
		if err := eng.checkInputs(); err != nil {
			return err
		}
	}

	eng.running = true
	defer func() {
		eng.running = false
	}()

	for eng.running {
		cmd, err := command.Get(eng.in, eng.out)
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return fmt.Errorf("get user command: %w", err)
		}

		if cmd.Verb == command.VerbQuit {
			eng.running = false
			break
		}

		err = eng.Advance(cmd)
		if err != nil {
			consoleMessage := gqerrors.UserMessage(err)
			consoleMessage = rosed.Edit(consoleMessage).Wrap(consoleOutputWidth).String()
			if err := eng.write(consoleMessage + "\n"); err != nil {
				return err
			}
		}
	}

	return eng.write("Goodbye\n")
}

// Advance carries out a single command. Errors that carry a message for the
// operator are returned for the caller to show; output errors are returned
// as-is.
func (eng *Engine) Advance(cmd command.Command) error {
	switch cmd.Verb {
	case command.VerbRule:
		return eng.addRule(cmd.Arg)
	case command.VerbRules:
		if eng.session.Grammar.Len() < 1 {
			return eng.write("(no rules)\n")
		}
		return eng.write(eng.session.Grammar.Table(consoleOutputWidth) + "\n")
	case command.VerbNormal:
		out := eng.normal.Table(consoleOutputWidth) + "\n"
		out += fmt.Sprintf("%d of %d rule(s) kept; start symbol %q\n", eng.normal.Len(), eng.session.Grammar.Len(), eng.normal.Start())
		return eng.write(out)
	case command.VerbStart:
		if cmd.Arg != "" {
			if strings.ContainsAny(cmd.Arg, " \t") {
				return gqerrors.Interpreterf("The start symbol must be a single symbol, not %q", cmd.Arg)
			}
			eng.session.Start = cmd.Arg
			if err := eng.normalize(-1); err != nil {
				return err
			}
		}
		return eng.writeWrapped(fmt.Sprintf("Start symbol is %q", eng.session.Start))
	case command.VerbSplit:
		if cmd.Arg != "" {
			if _, err := split.ByName(cmd.Arg); err != nil {
				return gqerrors.WrapInterpreterf(err, "Can't split with %q; choose one of %s", cmd.Arg, util.MakeTextList(split.Names(), false))
			}
			eng.session.Splitter = strings.ToLower(strings.TrimSpace(cmd.Arg))

			// the new splitter may keep or drop a different set of rules
			if err := eng.normalize(0); err != nil {
				return err
			}
		}
		return eng.writeWrapped(fmt.Sprintf("Splitting with %q; available splitters are %s", eng.session.Splitter, util.MakeTextList(split.Names(), true)))
	case command.VerbCheck:
		res, err := eng.recognize(cmd.Arg)
		if err != nil {
			return err
		}
		return eng.write(checkLine(cmd.Arg, res))
	case command.VerbTable:
		res, err := eng.recognize(cmd.Arg)
		if err != nil {
			return err
		}
		return eng.write(res.TableString(consoleOutputWidth) + "\n" + checkLine(cmd.Arg, res))
	case command.VerbUnreachable:
		unreachable := eng.normal.UnreachableNonTerminals()
		if len(unreachable) < 1 {
			return eng.writeWrapped(fmt.Sprintf("Every nonterminal is reachable from %q", eng.session.Start))
		}
		return eng.writeWrapped(fmt.Sprintf("Not reachable from %q: %s", eng.session.Start, util.MakeTextList(unreachable, false)))
	case command.VerbInputs:
		if len(eng.session.Inputs) < 1 {
			return eng.write("(no inputs loaded)\n")
		}
		return eng.checkInputs()
	case command.VerbSave:
		if err := gramfile.SaveFile(cmd.Arg, eng.session); err != nil {
			return gqerrors.WrapInterpreterf(err, "Could not save to %s", cmd.Arg)
		}
		return eng.writeWrapped(fmt.Sprintf("Saved %d rule(s) to %s", eng.session.Grammar.Len(), cmd.Arg))
	case command.VerbHelp:
		return eng.write(helpFor(cmd.Arg))
	default:
		return gqerrors.Interpreterf("I don't know how to %s", cmd.Verb)
	}
}

func (eng *Engine) addRule(text string) error {
	r, err := gramfile.ParseLooseArrowRule(text)
	if err != nil {
		return gqerrors.WrapInterpreterf(err, "That isn't a rule; write it like: RULE S => A B")
	}

	eng.session.Grammar.AddRule(r)
	idx := eng.session.Grammar.Len() - 1
	if err := eng.normalize(idx); err != nil {
		return err
	}

	return eng.writeWrapped(fmt.Sprintf("Added rule #%d: %s => %s", idx, r.From, r.To))
}

// normalize rebuilds the normalized grammar and recognizer from the session.
// Dropped rules at index reportFrom or later are written as warnings. A
// negative reportFrom reports nothing.
func (eng *Engine) normalize(reportFrom int) error {
	var diags grammar.Diagnostics
	ng, err := eng.session.Normalize(&diags)
	if err != nil {
		return err
	}
	eng.normal = ng
	eng.rec = cyk.New(ng)

	if reportFrom < 0 {
		return nil
	}
	for _, d := range diags {
		if d.Index >= reportFrom {
			eng.warn.Report(d)
		}
	}
	if err := eng.out.Flush(); err != nil {
		return fmt.Errorf("could not flush output: %w", err)
	}
	return nil
}

func (eng *Engine) recognize(text string) (cyk.Result, error) {
	s, err := eng.session.Split()
	if err != nil {
		return cyk.Result{}, err
	}
	return eng.rec.Recognize(eng.session.Start, s(text)), nil
}

func (eng *Engine) checkInputs() error {
	var sb strings.Builder
	for _, in := range eng.session.Inputs {
		res, err := eng.recognize(in)
		if err != nil {
			return err
		}
		sb.WriteString(checkLine(in, res))
	}
	return eng.write(sb.String())
}

func checkLine(text string, res cyk.Result) string {
	verdict := "not recognized"
	if res.Recognized {
		verdict = "recognized"
	}
	if len(res.Tokens) < 1 {
		return fmt.Sprintf("%q: %s (no tokens)\n", text, verdict)
	}
	return fmt.Sprintf("%q: %s (%d token(s): %s)\n", text, verdict, len(res.Tokens), strings.Join(res.Tokens, " "))
}

func helpFor(verb string) string {
	if verb != "" {
		h := helpText[verb]
		return h[0] + "\n" + rosed.Edit(h[1]).Wrap(consoleOutputWidth).String() + "\n"
	}

	var data [][]string
	for _, v := range command.Verbs() {
		h := helpText[v]
		data = append(data, []string{h[0], h[1]})
	}
	tableOpts := rosed.Options{
		TableBorders:             true,
		NoTrailingLineSeparators: true,
	}
	return rosed.Edit("").InsertTableOpts(0, data, consoleOutputWidth, tableOpts).String() + "\n"
}

func (eng *Engine) writeWrapped(msg string) error {
	return eng.write(rosed.Edit(msg).Wrap(consoleOutputWidth).String() + "\n")
}

func (eng *Engine) write(s string) error {
	if _, err := eng.out.WriteString(s); err != nil {
		return fmt.Errorf("could not write output: %w", err)
	}
	if err := eng.out.Flush(); err != nil {
		return fmt.Errorf("could not flush output: %w", err)
	}
	return nil
}

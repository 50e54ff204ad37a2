package command

import (
	"bufio"
	"io"
	"strings"
	"testing"

	"github.com/dekarrin/gramq/internal/gqerrors"
	"github.com/stretchr/testify/assert"
)

func Test_Parse(t *testing.T) {
	testCases := []struct {
		name      string
		input     string
		expect    Command
		expectErr string
	}{
		{name: "blank", input: "   ", expect: Command{}},
		{name: "rule keeps case", input: "rule H => HO", expect: Command{Verb: VerbRule, Arg: "H => HO"}},
		{name: "add alias", input: "ADD S => A B", expect: Command{Verb: VerbRule, Arg: "S => A B"}},
		{name: "rules", input: "Rules", expect: Command{Verb: VerbRules}},
		{name: "list alias", input: "list", expect: Command{Verb: VerbRules}},
		{name: "normal", input: "NORMAL", expect: Command{Verb: VerbNormal}},
		{name: "cnf alias", input: "cnf", expect: Command{Verb: VerbNormal}},
		{name: "start with symbol", input: "START  e ", expect: Command{Verb: VerbStart, Arg: "e"}},
		{name: "start alone", input: "START", expect: Command{Verb: VerbStart}},
		{name: "split", input: "split Fields", expect: Command{Verb: VerbSplit, Arg: "Fields"}},
		{name: "check", input: "CHECK HOHOHO", expect: Command{Verb: VerbCheck, Arg: "HOHOHO"}},
		{name: "check with tab", input: "check\ta b", expect: Command{Verb: VerbCheck, Arg: "a b"}},
		{name: "test alias", input: "test HOH", expect: Command{Verb: VerbCheck, Arg: "HOH"}},
		{name: "table", input: "TABLE HOH", expect: Command{Verb: VerbTable, Arg: "HOH"}},
		{name: "unreachable", input: "unreachable", expect: Command{Verb: VerbUnreachable}},
		{name: "inputs", input: "inputs", expect: Command{Verb: VerbInputs}},
		{name: "save", input: "SAVE out.toml", expect: Command{Verb: VerbSave, Arg: "out.toml"}},
		{name: "help", input: "help", expect: Command{Verb: VerbHelp}},
		{name: "help on alias", input: "? add", expect: Command{Verb: VerbHelp, Arg: VerbRule}},
		{name: "quit", input: "bye", expect: Command{Verb: VerbQuit}},
		{name: "unknown verb", input: "FLY away", expectErr: `I don't know what you mean by "FLY"`},
		{name: "rule without rule", input: "RULE", expectErr: "Give the rule to add, like: RULE S => A B"},
		{name: "check without input", input: "CHECK  ", expectErr: "Give the input to check, like: CHECK HOH"},
		{name: "quit with arg", input: "quit now", expectErr: "quit does not take anything after it; type quit by itself"},
		{name: "help on nothing", input: "HELP FLY", expectErr: `There is no "FLY" command to get help on`},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			actual, err := Parse(tc.input)
			if tc.expectErr != "" {
				if assert.Error(err) {
					assert.Equal(tc.expectErr, gqerrors.UserMessage(err))
				}
				return
			}
			assert.NoError(err)
			assert.Equal(tc.expect, actual)
		})
	}
}

func Test_Verbs_AllParse(t *testing.T) {
	for _, v := range Verbs() {
		canon, ok := Canonical(v)
		assert.True(t, ok, v)
		assert.Equal(t, v, canon)
	}
}

type linesReader struct {
	lines []string
}

func (lr *linesReader) ReadCommand() (string, error) {
	if len(lr.lines) == 0 {
		return "", io.EOF
	}
	line := lr.lines[0]
	lr.lines = lr.lines[1:]
	return line, nil
}

func (lr *linesReader) AllowBlank(bool) {}

func (lr *linesReader) Close() error { return nil }

func Test_Get(t *testing.T) {
	assert := assert.New(t)

	r := &linesReader{lines: []string{"FLY", "CHECK HOH"}}
	var out strings.Builder
	w := bufio.NewWriter(&out)

	cmd, err := Get(r, w)
	assert.NoError(err)
	assert.Equal(Command{Verb: VerbCheck, Arg: "HOH"}, cmd)
	assert.Equal("I don't know what you mean by \"FLY\"\nTry HELP for valid commands\n", out.String())

	_, err = Get(r, w)
	assert.ErrorIs(err, io.EOF)
}

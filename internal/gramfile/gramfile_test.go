package gramfile

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/dekarrin/gramq/cyk"
	"github.com/dekarrin/gramq/grammar"
	"github.com/stretchr/testify/assert"
)

func Test_ParseArrowRule(t *testing.T) {
	testCases := []struct {
		name      string
		input     string
		expect    ArrowRule
		expectErr bool
	}{
		{name: "single symbol target", input: "e => H", expect: ArrowRule{From: "e", To: "H"}},
		{name: "concatenated target", input: "Al => ThF", expect: ArrowRule{From: "Al", To: "ThF"}},
		{name: "spaced target", input: "S => A B", expect: ArrowRule{From: "S", To: "A B"}},
		{name: "no spaces around arrow", input: "S=>A", expectErr: true},
		{name: "digits not allowed", input: "S => A1", expectErr: true},
		{name: "empty target", input: "S => ", expectErr: true},
		{name: "input line", input: "HOHOHO", expectErr: true},
		{name: "blank", input: "", expectErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			actual, err := ParseArrowRule(tc.input)
			if tc.expectErr {
				assert.Error(err)
				return
			}
			assert.NoError(err)
			assert.Equal(tc.expect, actual)
		})
	}
}

func Test_ParseLooseArrowRule(t *testing.T) {
	testCases := []struct {
		name      string
		input     string
		expect    ArrowRule
		expectErr bool
	}{
		{name: "tight arrow", input: "S=>A B", expect: ArrowRule{From: "S", To: "A B"}},
		{name: "extra space", input: "  S   =>   (  ", expect: ArrowRule{From: "S", To: "("}},
		{name: "empty target allowed", input: "S =>", expect: ArrowRule{From: "S", To: ""}},
		{name: "symbols with digits", input: "NP1 => Det N", expect: ArrowRule{From: "NP1", To: "Det N"}},
		{name: "no arrow", input: "S A B", expectErr: true},
		{name: "empty source", input: " => a", expectErr: true},
		{name: "multi-symbol source", input: "S T => a", expectErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			actual, err := ParseLooseArrowRule(tc.input)
			if tc.expectErr {
				assert.Error(err)
				return
			}
			assert.NoError(err)
			assert.Equal(tc.expect, actual)
		})
	}
}

func Test_Parse_Plain(t *testing.T) {
	assert := assert.New(t)

	data := []byte("e => H\ne => O\nH => HO\nH => OH\nO => HH\n\nHOH\n")

	b, err := Parse(data)
	if !assert.NoError(err) {
		return
	}

	assert.Equal(DefaultStart, b.Start)
	assert.Equal(DefaultSplitter, b.Splitter)
	assert.Equal([]string{"HOH"}, b.Inputs)
	assert.Equal(5, b.Grammar.Len())

	rules := b.Grammar.Rules()
	assert.Equal(ArrowRule{From: "e", To: "H", Line: 1}, rules[0])
	assert.Equal(ArrowRule{From: "O", To: "HH", Line: 5}, rules[4])

	ng, err := b.Normalize(nil)
	if !assert.NoError(err) {
		return
	}
	assert.Equal(5, ng.Len())
	assert.Equal([]string{"H", "O"}, ng.Rule(2).Target)
}

func Test_Parse_PlainDropsLongRules(t *testing.T) {
	assert := assert.New(t)

	data := []byte("e => HF\nH => CRnAlAr\nH => Ca\nCaF\n")

	b, err := Parse(data)
	if !assert.NoError(err) {
		return
	}

	var diags grammar.Diagnostics
	ng, err := b.Normalize(&diags)
	if !assert.NoError(err) {
		return
	}

	assert.Equal(2, ng.Len())
	if assert.Len(diags, 1) {
		assert.Equal(1, diags[0].Index)
		assert.Equal([]string{"C", "Rn", "Al", "Ar"}, diags[0].Split)
	}
}

func Test_Parse_TOML(t *testing.T) {
	assert := assert.New(t)

	data := []byte(`format = "GRAMQ"
type = "GRAMMAR"
start = "S"
splitter = "fields"
inputs = ["a b", "b a"]
productions = ["B => b"]

[[rules]]
source = "S"
target = "A B"

[[rules]]
source = "A"
target = "a"
`)

	b, err := Parse(data)
	if !assert.NoError(err) {
		return
	}

	assert.Equal("S", b.Start)
	assert.Equal("fields", b.Splitter)
	assert.Equal([]string{"a b", "b a"}, b.Inputs)
	assert.Equal("S => A B\nA => a\nB => b", b.Grammar.String())

	ng, err := b.Normalize(nil)
	if !assert.NoError(err) {
		return
	}
	splitter, _ := b.Split()
	assert.True(cyk.Accepts(ng, b.Start, splitter(b.Inputs[0])))
	assert.False(cyk.Accepts(ng, b.Start, splitter(b.Inputs[1])))
}

func Test_Parse_Errors(t *testing.T) {
	testCases := []struct {
		name        string
		data        string
		expectNoRul bool
	}{
		{
			name:        "plain with no rules",
			data:        "HOH\n\n",
			expectNoRul: true,
		},
		{
			name:        "toml with no rules",
			data:        "format = \"GRAMQ\"\ntype = \"GRAMMAR\"\n",
			expectNoRul: true,
		},
		{
			name: "toml with wrong type",
			data: "format = \"GRAMQ\"\ntype = \"MANIFEST\"\n[[rules]]\nsource = \"S\"\ntarget = \"a\"\n",
		},
		{
			name: "toml with unknown splitter",
			data: "format = \"GRAMQ\"\ntype = \"GRAMMAR\"\nsplitter = \"regex\"\n[[rules]]\nsource = \"S\"\ntarget = \"a\"\n",
		},
		{
			name: "toml with empty source",
			data: "format = \"GRAMQ\"\ntype = \"GRAMMAR\"\n[[rules]]\nsource = \"\"\ntarget = \"a\"\n",
		},
		{
			name: "toml with bad production",
			data: "format = \"GRAMQ\"\ntype = \"GRAMMAR\"\nproductions = [\"S\"]\n",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			_, err := Parse([]byte(tc.data))
			assert.Error(err)
			assert.Equal(tc.expectNoRul, errors.Is(err, ErrNoRules))
		})
	}
}

func Test_ScanFileInfo(t *testing.T) {
	assert := assert.New(t)

	info, err := ScanFileInfo([]byte("format = \"GRAMQ\"\ntype = \"GRAMMAR\"\n[[rules]]\nthis is not toml\n"))
	assert.NoError(err)
	assert.Equal(FileInfo{Format: "GRAMQ", Type: "GRAMMAR"}, info)

	_, err = ScanFileInfo([]byte("e => H\n"))
	assert.Error(err)
}

func Test_SaveFile_LoadFile(t *testing.T) {
	assert := assert.New(t)

	var g grammar.Grammar
	g.AddRule(grammar.NewRule("S", "A B"))
	g.AddRule(grammar.NewRule("A", "a"))
	g.AddRule(grammar.NewRule("B", "b"))

	orig := Bundle{Grammar: g, Start: "S", Splitter: "fields", Inputs: []string{"a b"}}

	path := filepath.Join(t.TempDir(), "ab.gramq")
	if !assert.NoError(SaveFile(path, orig)) {
		return
	}

	loaded, err := LoadFile(path)
	if !assert.NoError(err) {
		return
	}

	assert.Equal(orig.Start, loaded.Start)
	assert.Equal(orig.Splitter, loaded.Splitter)
	assert.Equal(orig.Inputs, loaded.Inputs)
	assert.Equal(orig.Grammar.String(), loaded.Grammar.String())
}

func Test_LoadFile_Missing(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "nope.txt"))
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

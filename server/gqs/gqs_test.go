package gqs

import (
	"context"
	"errors"
	"testing"

	"github.com/dekarrin/gramq/grammar"
	"github.com/dekarrin/gramq/server/dao"
	"github.com/dekarrin/gramq/server/dao/inmem"
	"github.com/dekarrin/gramq/server/dao/sqlite"
	"github.com/dekarrin/gramq/server/serr"
	"github.com/stretchr/testify/assert"
)

func abRules() []grammar.Rule {
	return []grammar.Rule{
		grammar.NewRule("S", "A B"),
		grammar.NewRule("A", "a"),
		grammar.NewRule("B", "b"),
		grammar.NewRule("S", "A B A"),
	}
}

func Test_Service_CreateGrammar(t *testing.T) {
	testCases := []struct {
		name      string
		gName     string
		start     string
		splitter  string
		rules     []grammar.Rule
		expectErr error
	}{
		{name: "valid", gName: "ab", start: "S", splitter: "fields", rules: abRules()},
		{name: "default splitter", gName: "ab", start: "S", rules: abRules()},
		{name: "blank name", gName: " ", start: "S", rules: abRules(), expectErr: serr.ErrBadArgument},
		{name: "blank start", gName: "ab", start: "", rules: abRules(), expectErr: serr.ErrBadArgument},
		{name: "multi-symbol start", gName: "ab", start: "S T", rules: abRules(), expectErr: serr.ErrBadArgument},
		{name: "unknown splitter", gName: "ab", start: "S", splitter: "regex", rules: abRules(), expectErr: serr.ErrBadArgument},
		{name: "no rules", gName: "ab", start: "S", expectErr: serr.ErrBadArgument},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)
			svc := Service{DB: inmem.NewDatastore()}

			n, err := svc.CreateGrammar(context.Background(), tc.gName, tc.start, tc.splitter, tc.rules)
			if tc.expectErr != nil {
				assert.ErrorIs(err, tc.expectErr)
				return
			}
			if !assert.NoError(err) {
				return
			}

			assert.Equal(DefaultSplitter, n.Grammar.Splitter)
			assert.Equal(4, n.Grammar.Rules.Len())
			assert.Equal(3, n.Normal.Len())
			if assert.Len(n.Diagnostics, 1) {
				assert.Equal(3, n.Diagnostics[0].Index)
			}
		})
	}
}

func Test_Service_CreateGrammar_DuplicateName(t *testing.T) {
	testCases := []struct {
		name  string
		store func(t *testing.T) dao.Store
	}{
		{
			name:  "inmem",
			store: func(t *testing.T) dao.Store { return inmem.NewDatastore() },
		},
		{
			name: "sqlite",
			store: func(t *testing.T) dao.Store {
				st, err := sqlite.NewDatastore(t.TempDir())
				if err != nil {
					t.Fatalf("could not open store: %v", err)
				}
				return st
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)
			ctx := context.Background()
			st := tc.store(t)
			defer st.Close()
			svc := Service{DB: st}

			_, err := svc.CreateGrammar(ctx, "ab", "S", "", abRules())
			assert.NoError(err)

			_, err = svc.CreateGrammar(ctx, "ab", "S", "", abRules())
			assert.ErrorIs(err, serr.ErrAlreadyExists)
		})
	}
}

// lateNameStore hides existing grammars from GetByName, as happens when two
// creates of one name race past the lookup, so the name clash is only seen by
// Create.
type lateNameStore struct {
	dao.Store
}

func (s lateNameStore) Grammars() dao.GrammarRepository {
	return lateNameRepo{s.Store.Grammars()}
}

type lateNameRepo struct {
	dao.GrammarRepository
}

func (r lateNameRepo) GetByName(ctx context.Context, name string) (dao.Grammar, error) {
	return dao.Grammar{}, dao.ErrNotFound
}

func Test_Service_CreateGrammar_NameClashOnInsert(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()

	st, err := sqlite.NewDatastore(t.TempDir())
	if !assert.NoError(err) {
		return
	}
	defer st.Close()
	svc := Service{DB: lateNameStore{st}}

	_, err = svc.CreateGrammar(ctx, "ab", "S", "", abRules())
	assert.NoError(err)

	_, err = svc.CreateGrammar(ctx, "ab", "S", "", abRules())
	assert.ErrorIs(err, serr.ErrAlreadyExists)
	assert.NotErrorIs(err, serr.ErrDB)
}

func Test_Service_GetAndDelete(t *testing.T) {
	assert := assert.New(t)
	svc := Service{DB: inmem.NewDatastore()}
	ctx := context.Background()

	created, err := svc.CreateGrammar(ctx, "ab", "S", "", abRules())
	if !assert.NoError(err) {
		return
	}
	id := created.Grammar.ID.String()

	got, err := svc.GetGrammar(ctx, id)
	assert.NoError(err)
	assert.True(created.Normal.Equal(got.Normal))

	all, err := svc.GetAllGrammars(ctx)
	assert.NoError(err)
	assert.Len(all, 1)

	_, err = svc.GetGrammar(ctx, "not-a-uuid")
	assert.ErrorIs(err, serr.ErrBadArgument)

	deleted, err := svc.DeleteGrammar(ctx, id)
	assert.NoError(err)
	assert.Equal("ab", deleted.Name)

	_, err = svc.GetGrammar(ctx, id)
	assert.ErrorIs(err, serr.ErrNotFound)
	_, err = svc.DeleteGrammar(ctx, id)
	assert.ErrorIs(err, serr.ErrNotFound)
}

func Test_Service_Recognize(t *testing.T) {
	testCases := []struct {
		name      string
		input     string
		tokens    []string
		workers   int
		maxTokens int
		expect    bool
		expectErr error
	}{
		{name: "split input", input: "a b", expect: true},
		{name: "split input rejected", input: "b a", expect: false},
		{name: "tokens given", tokens: []string{"a", "b"}, expect: true},
		{name: "tokens win over input", input: "b a", tokens: []string{"a", "b"}, expect: true},
		{name: "empty input", input: "", expect: false},
		{name: "parallel", input: "a b", workers: 4, expect: true},
		{name: "too many tokens", input: "a b a", maxTokens: 2, expectErr: serr.ErrBadArgument},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)
			svc := Service{DB: inmem.NewDatastore(), Workers: tc.workers, MaxInputTokens: tc.maxTokens}
			ctx := context.Background()

			created, err := svc.CreateGrammar(ctx, "ab", "S", "fields", abRules())
			if !assert.NoError(err) {
				return
			}

			_, res, err := svc.Recognize(ctx, created.Grammar.ID.String(), tc.input, tc.tokens)
			if tc.expectErr != nil {
				assert.True(errors.Is(err, tc.expectErr))
				return
			}
			assert.NoError(err)
			assert.Equal(tc.expect, res.Recognized)
		})
	}
}

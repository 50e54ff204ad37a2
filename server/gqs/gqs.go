// Package gqs has services for interacting with the gramq server backend
// decoupled from the API that accesses it.
package gqs

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dekarrin/gramq/cyk"
	"github.com/dekarrin/gramq/grammar"
	"github.com/dekarrin/gramq/server/dao"
	"github.com/dekarrin/gramq/server/serr"
	"github.com/dekarrin/gramq/split"
	"github.com/google/uuid"
)

// DefaultSplitter is the splitter used for grammars created without one.
const DefaultSplitter = split.NameFields

// Service is a service for interacting with and modifying the gramq server
// backend. It performs the actions requested and makes calls to server
// persistence to preserve the backend state.
//
// The zero-value of Service is not ready to be used; assign a valid DAO store
// to DB before attempting to use it.
type Service struct {

	// DB is the persistence store of the service.
	DB dao.Store

	// Workers is the number of goroutines each recognition may use to fill
	// its table. Values below 2 fill sequentially.
	Workers int

	// MaxInputTokens is the largest number of tokens a single recognition
	// may be given. Values below 1 mean no limit.
	MaxInputTokens int
}

// Normalized is a stored grammar along with the outcome of normalizing it.
type Normalized struct {
	Grammar     dao.Grammar
	Normal      grammar.NormalizedGrammar
	Diagnostics grammar.Diagnostics
}

// CreateGrammar validates and stores a new grammar, then normalizes it.
//
// The returned error, if non-nil, will return true for various calls to
// errors.Is depending on what caused the error. If a grammar with that name is
// already present, it will match serr.ErrAlreadyExists. If the error occured
// due to an unexpected problem with the DB, it will match serr.ErrDB. Finally,
// if one of the arguments is invalid, it will match serr.ErrBadArgument.
func (svc Service) CreateGrammar(ctx context.Context, name, start, splitter string, rules []grammar.Rule) (Normalized, error) {
	name = strings.TrimSpace(name)
	start = strings.TrimSpace(start)
	splitter = strings.ToLower(strings.TrimSpace(splitter))

	if name == "" {
		return Normalized{}, serr.New("name cannot be blank", serr.ErrBadArgument)
	}
	if start == "" {
		return Normalized{}, serr.New("start cannot be blank", serr.ErrBadArgument)
	}
	if strings.ContainsAny(start, " \t\r\n") {
		return Normalized{}, serr.New("start must be a single symbol", serr.ErrBadArgument)
	}
	if splitter == "" {
		splitter = DefaultSplitter
	}
	if _, err := split.ByName(splitter); err != nil {
		return Normalized{}, serr.New("splitter", err, serr.ErrBadArgument)
	}
	if len(rules) < 1 {
		return Normalized{}, serr.New("rules cannot be empty", serr.ErrBadArgument)
	}

	g := dao.Grammar{
		Name:     name,
		Start:    start,
		Splitter: splitter,
	}
	for i, r := range rules {
		if strings.TrimSpace(r.Source()) == "" {
			return Normalized{}, serr.New(fmt.Sprintf("rules[%d]: source cannot be blank", i), serr.ErrBadArgument)
		}
		g.Rules.AddRule(r)
	}

	_, err := svc.DB.Grammars().GetByName(ctx, name)
	if err == nil {
		return Normalized{}, serr.New("a grammar with that name already exists", serr.ErrAlreadyExists)
	} else if !errors.Is(err, dao.ErrNotFound) {
		return Normalized{}, serr.WrapDB("", err)
	}

	created, err := svc.DB.Grammars().Create(ctx, g)
	if err != nil {
		if errors.Is(err, dao.ErrConstraintViolation) {
			return Normalized{}, serr.New("a grammar with that name already exists", serr.ErrAlreadyExists)
		}
		return Normalized{}, serr.WrapDB("could not create grammar", err)
	}

	return svc.normalize(created)
}

// GetAllGrammars returns all grammars currently in persistence.
func (svc Service) GetAllGrammars(ctx context.Context) ([]dao.Grammar, error) {
	all, err := svc.DB.Grammars().GetAll(ctx)
	if err != nil {
		return nil, serr.WrapDB("", err)
	}
	return all, nil
}

// GetGrammar returns the grammar with the given ID, normalized.
//
// The returned error, if non-nil, will return true for various calls to
// errors.Is depending on what caused the error. If no grammar with that ID
// exists, it will match serr.ErrNotFound. If the error occured due to an
// unexpected problem with the DB, it will match serr.ErrDB. Finally, if the ID
// is not valid, it will match serr.ErrBadArgument.
func (svc Service) GetGrammar(ctx context.Context, id string) (Normalized, error) {
	g, err := svc.getGrammar(ctx, id)
	if err != nil {
		return Normalized{}, err
	}
	return svc.normalize(g)
}

// DeleteGrammar deletes the grammar with the given ID. It returns the grammar
// as it was just before deletion.
func (svc Service) DeleteGrammar(ctx context.Context, id string) (dao.Grammar, error) {
	uuidID, err := uuid.Parse(id)
	if err != nil {
		return dao.Grammar{}, serr.New("ID is not valid", serr.ErrBadArgument)
	}

	g, err := svc.DB.Grammars().Delete(ctx, uuidID)
	if err != nil {
		if errors.Is(err, dao.ErrNotFound) {
			return dao.Grammar{}, serr.ErrNotFound
		}
		return dao.Grammar{}, serr.WrapDB("could not delete grammar", err)
	}

	return g, nil
}

// Recognize checks input against the grammar with the given ID. If tokens is
// non-nil it is used as-is; otherwise input is split with the grammar's
// splitter.
//
// Besides the errors GetGrammar gives, the returned error matches
// serr.ErrBadArgument if there are more tokens than MaxInputTokens allows.
func (svc Service) Recognize(ctx context.Context, id string, input string, tokens []string) (dao.Grammar, cyk.Result, error) {
	n, err := svc.GetGrammar(ctx, id)
	if err != nil {
		return dao.Grammar{}, cyk.Result{}, err
	}

	if tokens == nil {
		s, err := split.ByName(n.Grammar.Splitter)
		if err != nil {
			return dao.Grammar{}, cyk.Result{}, fmt.Errorf("stored splitter: %w", err)
		}
		tokens = s(input)
	}

	if svc.MaxInputTokens > 0 && len(tokens) > svc.MaxInputTokens {
		msg := fmt.Sprintf("input has %d tokens but at most %d are allowed", len(tokens), svc.MaxInputTokens)
		return dao.Grammar{}, cyk.Result{}, serr.New(msg, serr.ErrBadArgument)
	}

	rec := cyk.New(n.Normal)
	rec.Workers = svc.Workers

	return n.Grammar, rec.Recognize(n.Grammar.Start, tokens), nil
}

func (svc Service) getGrammar(ctx context.Context, id string) (dao.Grammar, error) {
	uuidID, err := uuid.Parse(id)
	if err != nil {
		return dao.Grammar{}, serr.New("ID is not valid", serr.ErrBadArgument)
	}

	g, err := svc.DB.Grammars().GetByID(ctx, uuidID)
	if err != nil {
		if errors.Is(err, dao.ErrNotFound) {
			return dao.Grammar{}, serr.ErrNotFound
		}
		return dao.Grammar{}, serr.WrapDB("could not get grammar", err)
	}

	return g, nil
}

func (svc Service) normalize(g dao.Grammar) (Normalized, error) {
	s, err := split.ByName(g.Splitter)
	if err != nil {
		return Normalized{}, fmt.Errorf("stored splitter: %w", err)
	}

	n := Normalized{Grammar: g}
	n.Normal = g.Rules.ConvertToNormalForm(g.Start, s, &n.Diagnostics)
	return n, nil
}

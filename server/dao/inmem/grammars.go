package inmem

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/dekarrin/gramq/grammar"
	"github.com/dekarrin/gramq/server/dao"
	"github.com/google/uuid"
)

func NewGrammarsRepository() *InMemoryGrammarsRepository {
	return &InMemoryGrammarsRepository{
		grammars:    make(map[uuid.UUID]dao.Grammar),
		byNameIndex: make(map[string]uuid.UUID),
	}
}

// InMemoryGrammarsRepository is safe for concurrent use.
type InMemoryGrammarsRepository struct {
	mtx         sync.RWMutex
	grammars    map[uuid.UUID]dao.Grammar
	byNameIndex map[string]uuid.UUID
}

func (imgr *InMemoryGrammarsRepository) Close() error {
	return nil
}

func (imgr *InMemoryGrammarsRepository) Create(ctx context.Context, g dao.Grammar) (dao.Grammar, error) {
	newUUID, err := uuid.NewRandom()
	if err != nil {
		return dao.Grammar{}, fmt.Errorf("could not generate ID: %w", err)
	}

	imgr.mtx.Lock()
	defer imgr.mtx.Unlock()

	if _, ok := imgr.byNameIndex[g.Name]; ok {
		return dao.Grammar{}, dao.ErrConstraintViolation
	}

	now := time.Now()

	g.ID = newUUID
	g.Rules = copyRules(g.Rules)
	g.Created = now
	g.Modified = now

	imgr.grammars[g.ID] = g
	imgr.byNameIndex[g.Name] = g.ID

	return g, nil
}

func (imgr *InMemoryGrammarsRepository) GetAll(ctx context.Context) ([]dao.Grammar, error) {
	imgr.mtx.RLock()
	defer imgr.mtx.RUnlock()

	all := make([]dao.Grammar, 0, len(imgr.grammars))
	for k := range imgr.grammars {
		all = append(all, imgr.grammars[k])
	}

	sort.Slice(all, func(l, r int) bool {
		return all[l].Name < all[r].Name
	})

	return all, nil
}

func (imgr *InMemoryGrammarsRepository) GetByID(ctx context.Context, id uuid.UUID) (dao.Grammar, error) {
	imgr.mtx.RLock()
	defer imgr.mtx.RUnlock()

	g, ok := imgr.grammars[id]
	if !ok {
		return dao.Grammar{}, dao.ErrNotFound
	}

	return g, nil
}

func (imgr *InMemoryGrammarsRepository) GetByName(ctx context.Context, name string) (dao.Grammar, error) {
	imgr.mtx.RLock()
	defer imgr.mtx.RUnlock()

	id, ok := imgr.byNameIndex[name]
	if !ok {
		return dao.Grammar{}, dao.ErrNotFound
	}

	return imgr.grammars[id], nil
}

func (imgr *InMemoryGrammarsRepository) Delete(ctx context.Context, id uuid.UUID) (dao.Grammar, error) {
	imgr.mtx.Lock()
	defer imgr.mtx.Unlock()

	g, ok := imgr.grammars[id]
	if !ok {
		return dao.Grammar{}, dao.ErrNotFound
	}

	delete(imgr.byNameIndex, g.Name)
	delete(imgr.grammars, g.ID)

	return g, nil
}

// copyRules gives a Grammar that shares nothing with g, so callers cannot
// change what is stored.
func copyRules(g grammar.Grammar) grammar.Grammar {
	var cp grammar.Grammar
	for _, r := range g.Rules() {
		cp.AddRule(r)
	}
	return cp
}

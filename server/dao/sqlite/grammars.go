package sqlite

import (
	"context"
	"database/sql"
	"encoding/base64"
	"fmt"
	"time"

	"github.com/dekarrin/gramq/grammar"
	"github.com/dekarrin/gramq/server/dao"
	"github.com/dekarrin/rezi"
	"github.com/google/uuid"
)

// GrammarsDB is the grammars table of a store. It shares the store's
// connection, so only the store closes it.
type GrammarsDB struct {
	db *sql.DB
}

func (repo *GrammarsDB) init() error {
	_, err := repo.db.Exec(`CREATE TABLE IF NOT EXISTS grammars (
		id TEXT NOT NULL PRIMARY KEY,
		name TEXT NOT NULL UNIQUE,
		start TEXT NOT NULL,
		splitter TEXT NOT NULL,
		rules TEXT NOT NULL,
		created INTEGER NOT NULL,
		modified INTEGER NOT NULL
	);`)
	if err != nil {
		return wrapDBError(err)
	}
	return nil
}

func (repo *GrammarsDB) Create(ctx context.Context, g dao.Grammar) (dao.Grammar, error) {
	newUUID, err := uuid.NewRandom()
	if err != nil {
		return dao.Grammar{}, fmt.Errorf("could not generate ID: %w", err)
	}

	stmt, err := repo.db.Prepare(`INSERT INTO grammars (id, name, start, splitter, rules, created, modified) VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return dao.Grammar{}, wrapDBError(err)
	}
	defer stmt.Close()

	now := time.Now()

	_, err = stmt.ExecContext(ctx, newUUID.String(), g.Name, g.Start, g.Splitter, encodeRules(g.Rules), now.Unix(), now.Unix())
	if err != nil {
		return dao.Grammar{}, wrapDBError(err)
	}

	return repo.GetByID(ctx, newUUID)
}

func (repo *GrammarsDB) GetAll(ctx context.Context) ([]dao.Grammar, error) {
	rows, err := repo.db.QueryContext(ctx, `SELECT id, name, start, splitter, rules, created, modified FROM grammars ORDER BY name;`)
	if err != nil {
		return nil, wrapDBError(err)
	}
	defer rows.Close()

	var all []dao.Grammar

	for rows.Next() {
		var g dao.Grammar
		var id string
		var rules string
		var created int64
		var modified int64
		err = rows.Scan(
			&id,
			&g.Name,
			&g.Start,
			&g.Splitter,
			&rules,
			&created,
			&modified,
		)
		if err != nil {
			return nil, wrapDBError(err)
		}

		g.ID, err = uuid.Parse(id)
		if err != nil {
			return all, fmt.Errorf("stored UUID %q is invalid", id)
		}
		g.Rules, err = decodeRules(rules)
		if err != nil {
			return all, fmt.Errorf("stored rules for %s are invalid: %w", id, err)
		}
		g.Created = time.Unix(created, 0)
		g.Modified = time.Unix(modified, 0)

		all = append(all, g)
	}

	if err := rows.Err(); err != nil {
		return all, wrapDBError(err)
	}

	return all, nil
}

func (repo *GrammarsDB) GetByID(ctx context.Context, id uuid.UUID) (dao.Grammar, error) {
	row := repo.db.QueryRowContext(ctx, `SELECT id, name, start, splitter, rules, created, modified FROM grammars WHERE id = ?;`,
		id.String(),
	)
	return scanGrammar(row)
}

func (repo *GrammarsDB) GetByName(ctx context.Context, name string) (dao.Grammar, error) {
	row := repo.db.QueryRowContext(ctx, `SELECT id, name, start, splitter, rules, created, modified FROM grammars WHERE name = ?;`,
		name,
	)
	return scanGrammar(row)
}

func (repo *GrammarsDB) Delete(ctx context.Context, id uuid.UUID) (dao.Grammar, error) {
	curVal, err := repo.GetByID(ctx, id)
	if err != nil {
		return curVal, err
	}

	res, err := repo.db.ExecContext(ctx, `DELETE FROM grammars WHERE id = ?`, id.String())
	if err != nil {
		return curVal, wrapDBError(err)
	}
	rowsAff, err := res.RowsAffected()
	if err != nil {
		return curVal, wrapDBError(err)
	}
	if rowsAff < 1 {
		return curVal, dao.ErrNotFound
	}

	return curVal, nil
}

// Close does nothing; the connection is closed by the store that owns it.
func (repo *GrammarsDB) Close() error {
	return nil
}

func scanGrammar(row *sql.Row) (dao.Grammar, error) {
	var g dao.Grammar
	var id string
	var rules string
	var created int64
	var modified int64

	err := row.Scan(
		&id,
		&g.Name,
		&g.Start,
		&g.Splitter,
		&rules,
		&created,
		&modified,
	)
	if err != nil {
		return g, wrapDBError(err)
	}

	g.ID, err = uuid.Parse(id)
	if err != nil {
		return g, fmt.Errorf("stored UUID %q is invalid", id)
	}
	g.Rules, err = decodeRules(rules)
	if err != nil {
		return g, fmt.Errorf("stored rules for %s are invalid: %w", id, err)
	}
	g.Created = time.Unix(created, 0)
	g.Modified = time.Unix(modified, 0)

	return g, nil
}

// encodeRules gives the REZI encoding of the rules as base64 text.
func encodeRules(g grammar.Grammar) string {
	return base64.StdEncoding.EncodeToString(rezi.EncBinary(g))
}

func decodeRules(s string) (grammar.Grammar, error) {
	var g grammar.Grammar

	data, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return g, err
	}

	if _, err := rezi.DecBinary(data, &g); err != nil {
		return g, err
	}
	return g, nil
}

// Package sqlite provides a dao.Store that persists to SQLite database files
// in a data directory.
package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/dekarrin/gramq/server/dao"
	"modernc.org/sqlite"
)

type store struct {
	dbFilename string

	db       *sql.DB
	grammars *GrammarsDB
}

func NewDatastore(storageDir string) (dao.Store, error) {
	st := &store{
		dbFilename: "grammars.db",
	}

	fileName := filepath.Join(storageDir, st.dbFilename)

	var err error
	st.db, err = sql.Open("sqlite", fileName)
	if err != nil {
		return nil, wrapDBError(err)
	}

	st.grammars = &GrammarsDB{db: st.db}
	if err := st.grammars.init(); err != nil {
		st.db.Close()
		return nil, fmt.Errorf("%s: %w", st.dbFilename, err)
	}

	return st, nil
}

func (s *store) Grammars() dao.GrammarRepository {
	return s.grammars
}

func (s *store) Close() error {
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("%s: %w", s.dbFilename, err)
	}
	return nil
}

// sqliteConstraint is the primary result code SQLITE_CONSTRAINT. Errors carry
// extended codes, such as 2067 for a UNIQUE violation, whose low byte is the
// primary code.
const sqliteConstraint = 19

func wrapDBError(err error) error {
	sqliteErr := &sqlite.Error{}
	if errors.As(err, &sqliteErr) {
		if sqliteErr.Code()&0xff == sqliteConstraint {
			return dao.ErrConstraintViolation
		}
		if msg := sqlite.ErrorCodeString[sqliteErr.Code()]; msg != "" {
			return fmt.Errorf("%s: %w", msg, err)
		}
		return err
	} else if errors.Is(err, sql.ErrNoRows) {
		return dao.ErrNotFound
	}
	return err
}

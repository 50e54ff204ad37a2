package server

import (
	"fmt"
	"os"
	"runtime"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/dekarrin/gramq/server/dao"
	"github.com/dekarrin/gramq/server/dao/inmem"
	"github.com/dekarrin/gramq/server/dao/sqlite"
)

// DBType is the type of a Database connection.
type DBType string

func (dbt DBType) String() string {
	return string(dbt)
}

const (
	DatabaseNone     DBType = "none"
	DatabaseSQLite   DBType = "sqlite"
	DatabaseInMemory DBType = "inmem"
)

const (
	// DefaultMaxInputTokens is the token limit of a recognition when none is
	// configured. Table size grows with the square of the input length, so
	// the limit keeps a single request from tying up the server.
	DefaultMaxInputTokens = 512

	// DefaultMaxBodyBytes is the request body limit when none is configured.
	DefaultMaxBodyBytes = 1 << 20
)

// ParseDBType parses a string found in a connection string into a DBType.
func ParseDBType(s string) (DBType, error) {
	sLower := strings.ToLower(s)

	switch sLower {
	case DatabaseSQLite.String():
		return DatabaseSQLite, nil
	case DatabaseInMemory.String():
		return DatabaseInMemory, nil
	default:
		return DatabaseNone, fmt.Errorf("DB type not one of 'sqlite' or 'inmem': %q", s)
	}
}

// Database contains configuration settings for connecting to a persistence
// layer.
type Database struct {
	// Type is the type of database the config refers to. It also determines
	// which of its other fields are valid.
	Type DBType

	// DataDir is the path on disk to a directory to use to store data in. This
	// is only applicable for certain DB types: SQLite.
	DataDir string
}

// Connect performs all logic needed to connect to the configured DB and
// initialize the store for use.
func (db Database) Connect() (dao.Store, error) {
	switch db.Type {
	case DatabaseInMemory:
		return inmem.NewDatastore(), nil
	case DatabaseSQLite:
		err := os.MkdirAll(db.DataDir, 0770)
		if err != nil {
			return nil, fmt.Errorf("create data dir: %w", err)
		}

		store, err := sqlite.NewDatastore(db.DataDir)
		if err != nil {
			return nil, fmt.Errorf("initialize sqlite: %w", err)
		}

		return store, nil
	case DatabaseNone:
		return nil, fmt.Errorf("cannot connect to 'none' DB")
	default:
		return nil, fmt.Errorf("unknown database type: %q", db.Type.String())
	}
}

// Validate returns an error if the Database does not have the correct fields
// set. Its type will be checked to ensure that it is a valid type to use and
// any fields necessary for connecting to that type of DB are also checked.
func (db Database) Validate() error {
	switch db.Type {
	case DatabaseInMemory:
		return nil
	case DatabaseSQLite:
		if db.DataDir == "" {
			return fmt.Errorf("DataDir not set to path")
		}
		return nil
	case DatabaseNone:
		return fmt.Errorf("'none' DB is not valid")
	default:
		return fmt.Errorf("unknown database type: %q", db.Type.String())
	}
}

// ParseDBConnString parses a database connection string of the form
// "engine:params" (or just "engine" if no other params are required) into a
// valid Database config object. For example, "sqlite:/data" would give the DB
// type of DatabaseSQLite that stores persistence in files located in the given
// dir, and "inmem" would give the DB type of DatabaseInMemory.
func ParseDBConnString(s string) (Database, error) {
	var paramStr string
	dbParts := strings.SplitN(s, ":", 2)

	if len(dbParts) == 2 {
		paramStr = strings.TrimSpace(dbParts[1])
	}

	// parse the first section into a type, from there we can determine if
	// further params are required.
	dbEng, err := ParseDBType(strings.TrimSpace(dbParts[0]))
	if err != nil {
		return Database{}, fmt.Errorf("unsupported DB engine: %w", err)
	}

	switch dbEng {
	case DatabaseInMemory:
		if paramStr != "" {
			return Database{}, fmt.Errorf("unsupported param(s) for in-memory DB engine: %s", paramStr)
		}

		return Database{Type: DatabaseInMemory}, nil
	case DatabaseSQLite:
		if paramStr == "" {
			return Database{}, fmt.Errorf("sqlite DB engine requires path to data directory after ':'")
		}

		return Database{Type: DatabaseSQLite, DataDir: paramStr}, nil
	default:
		return Database{}, fmt.Errorf("unknown DB engine: %q", dbEng.String())
	}
}

// Config is a configuration for a server. It contains all parameters that can
// be used to configure the operation of a gramq server.
type Config struct {

	// DB is the configuration to use for connecting to the database. If not
	// provided, it will be set to a configuration for using an in-memory
	// persistence layer.
	DB Database

	// Workers is the number of goroutines each recognition fills its table
	// with. If not set it defaults to the number of CPUs. Set it to 1 to fill
	// tables sequentially.
	Workers int

	// MaxInputTokens is the largest input a recognition will accept. If not
	// set it defaults to DefaultMaxInputTokens. Set it to any negative number
	// to remove the limit.
	MaxInputTokens int

	// MaxBodyBytes is the largest request body the server will accept. If not
	// set it defaults to DefaultMaxBodyBytes. Set it to any negative number to
	// remove the limit.
	MaxBodyBytes int64

	// UnauthDelayMillis is the amount of additional time to wait
	// (in milliseconds) before sending an HTTP-500 or HTTP-405 response. This
	// is something of an "anti-flood" measure for naive clients. If not set it
	// will default to 1 second (1000ms). Set this to any negative number to
	// disable the delay.
	UnauthDelayMillis int
}

// fileConfig is the layout of a TOML config file.
type fileConfig struct {
	DB                string `toml:"db"`
	Workers           int    `toml:"workers"`
	MaxInputTokens    int    `toml:"max_input_tokens"`
	MaxBodyBytes      int64  `toml:"max_body_bytes"`
	UnauthDelayMillis int    `toml:"unauth_delay_ms"`
}

// LoadConfigFile reads a Config from the TOML file at path. Keys that are not
// in the file are left unset, so the result will usually need FillDefaults.
func LoadConfigFile(path string) (Config, error) {
	var fc fileConfig
	md, err := toml.DecodeFile(path, &fc)
	if err != nil {
		return Config{}, err
	}
	if undec := md.Undecoded(); len(undec) > 0 {
		return Config{}, fmt.Errorf("%s: unknown key %q", path, undec[0].String())
	}

	cfg := Config{
		Workers:           fc.Workers,
		MaxInputTokens:    fc.MaxInputTokens,
		MaxBodyBytes:      fc.MaxBodyBytes,
		UnauthDelayMillis: fc.UnauthDelayMillis,
	}
	if fc.DB != "" {
		cfg.DB, err = ParseDBConnString(fc.DB)
		if err != nil {
			return Config{}, fmt.Errorf("%s: db: %w", path, err)
		}
	}

	return cfg, nil
}

// UnauthDelay returns the configured time for the UnauthDelay as a
// time.Duration. If cfg.UnauthDelayMillis is set to a number less than 0, this
// will return a zero-valued time.Duration.
func (cfg Config) UnauthDelay() time.Duration {
	if cfg.UnauthDelayMillis < 1 {
		var dur time.Duration
		return dur
	}
	return time.Millisecond * time.Duration(cfg.UnauthDelayMillis)
}

// FillDefaults returns a new Config identitical to cfg but with unset values
// set to their defaults.
func (cfg Config) FillDefaults() Config {
	newCFG := cfg

	if newCFG.DB.Type == "" || newCFG.DB.Type == DatabaseNone {
		newCFG.DB = Database{Type: DatabaseInMemory}
	}
	if newCFG.Workers == 0 {
		newCFG.Workers = runtime.NumCPU()
	}
	if newCFG.MaxInputTokens == 0 {
		newCFG.MaxInputTokens = DefaultMaxInputTokens
	}
	if newCFG.MaxBodyBytes == 0 {
		newCFG.MaxBodyBytes = DefaultMaxBodyBytes
	}
	if newCFG.UnauthDelayMillis == 0 {
		newCFG.UnauthDelayMillis = 1000
	}

	return newCFG
}

// Validate returns an error if the Config has invalid field values set. Empty
// and unset values are considered invalid; if defaults are intended to be used,
// call Validate on the return value of FillDefaults.
func (cfg Config) Validate() error {
	if err := cfg.DB.Validate(); err != nil {
		return fmt.Errorf("db: %w", err)
	}
	if cfg.Workers < 1 {
		return fmt.Errorf("workers: must be at least 1 but is %d", cfg.Workers)
	}
	if cfg.MaxInputTokens == 0 {
		return fmt.Errorf("max input tokens: must be set")
	}
	if cfg.MaxBodyBytes == 0 {
		return fmt.Errorf("max body bytes: must be set")
	}

	// all possible values for UnauthDelayMillis are valid, so no need to check
	// it

	return nil
}

package profile

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/matzehuels/snapline/pkg/errors"
	"github.com/matzehuels/snapline/pkg/observability"
)

// appName names the data directory.
const appName = "snapline"

// DefaultName is the profile used when none is given.
const DefaultName = "default"

// Backend names.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
	BackendMongo  = "mongo"
	BackendNone   = "none"
)

// Backends lists every supported backend.
var Backends = []string{BackendFile, BackendSQLite, BackendRedis, BackendMongo, BackendNone}

// Store persists learning data by profile name.
type Store interface {
	// Load returns the stored data and whether it was found.
	Load(ctx context.Context, name string) ([]byte, bool, error)
	// Save replaces the stored data.
	Save(ctx context.Context, name string, data []byte) error
	// Delete removes the profile. Deleting a missing profile is not an error.
	Delete(ctx context.Context, name string) error
	// Close releases the backend's resources.
	Close() error
}

// Config selects and configures a backend.
type Config struct {
	Backend string `toml:"backend" json:"backend"`

	// Dir holds one file per profile for the file backend.
	Dir string `toml:"dir" json:"dir,omitempty"`
	// Path is the database file for the sqlite backend.
	Path string `toml:"path" json:"path,omitempty"`

	RedisURL    string `toml:"redis_url" json:"redis_url,omitempty"`
	RedisPrefix string `toml:"redis_prefix" json:"redis_prefix,omitempty"`

	MongoURI        string `toml:"mongo_uri" json:"mongo_uri,omitempty"`
	MongoDatabase   string `toml:"mongo_database" json:"mongo_database,omitempty"`
	MongoCollection string `toml:"mongo_collection" json:"mongo_collection,omitempty"`

	// TimeoutSeconds bounds connecting to remote backends, retries included.
	TimeoutSeconds int `toml:"timeout_seconds" json:"timeout_seconds,omitempty"`
	// ConnectAttempts is how often a remote backend is tried before Open
	// gives up.
	ConnectAttempts int `toml:"connect_attempts" json:"connect_attempts,omitempty"`
}

// DefaultConfig returns a file store under the data directory.
func DefaultConfig() Config {
	return Config{
		Backend:         BackendFile,
		RedisPrefix:     appName + ":profile:",
		MongoDatabase:   appName,
		MongoCollection: "profiles",
		TimeoutSeconds:  10,
		ConnectAttempts: 3,
	}
}

// Validate checks that the backend is known and has what it needs.
func (c Config) Validate() error {
	switch c.Backend {
	case BackendFile, BackendSQLite, BackendNone, "":
	case BackendRedis:
		if c.RedisURL == "" {
			return errors.New(errors.ErrCodeInvalidConfig, "store: redis backend requires redis_url")
		}
	case BackendMongo:
		if c.MongoURI == "" {
			return errors.New(errors.ErrCodeInvalidConfig, "store: mongo backend requires mongo_uri")
		}
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "store: unknown backend %q (must be one of %v)", c.Backend, Backends)
	}
	if c.TimeoutSeconds < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "store: timeout_seconds must not be negative")
	}
	if c.ConnectAttempts < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "store: connect_attempts must not be negative")
	}
	return nil
}

func (c Config) timeout() time.Duration {
	if c.TimeoutSeconds <= 0 {
		return 10 * time.Second
	}
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// Open creates the configured store. An empty backend means file.
func Open(ctx context.Context, cfg Config) (Store, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	backend := cfg.Backend
	if backend == "" {
		backend = BackendFile
	}

	var (
		s   Store
		err error
	)
	switch backend {
	case BackendNone:
		s = NewNullStore()
	case BackendFile:
		dir := cfg.Dir
		if dir == "" {
			if dir, err = DataDir(); err != nil {
				return nil, err
			}
			dir = filepath.Join(dir, "profiles")
		}
		s, err = NewFileStore(dir)
	case BackendSQLite:
		path := cfg.Path
		if path == "" {
			if path, err = DataDir(); err != nil {
				return nil, err
			}
			path = filepath.Join(path, appName+".db")
		}
		s, err = OpenSQLite(path)
	case BackendRedis:
		cctx, cancel := context.WithTimeout(ctx, cfg.timeout())
		defer cancel()
		err = retry(cctx, cfg.ConnectAttempts, retryDelay, func() error {
			rs, err := OpenRedis(cctx, cfg.RedisURL, cfg.RedisPrefix)
			if err == nil {
				s = rs
			}
			return err
		})
	case BackendMongo:
		cctx, cancel := context.WithTimeout(ctx, cfg.timeout())
		defer cancel()
		err = retry(cctx, cfg.ConnectAttempts, retryDelay, func() error {
			ms, err := OpenMongo(cctx, cfg.MongoURI, cfg.MongoDatabase, cfg.MongoCollection)
			if err == nil {
				s = ms
			}
			return err
		})
	}
	if err != nil {
		return nil, err
	}
	return Observe(backend, s), nil
}

// DataDir returns the data directory using the XDG standard
// (~/.local/share/snapline/).
func DataDir() (string, error) {
	if dataHome := os.Getenv("XDG_DATA_HOME"); dataHome != "" {
		return filepath.Join(dataHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeStorage, err, "resolve home directory")
	}
	return filepath.Join(home, ".local", "share", appName), nil
}

// Learner is the part of the engine a store exchanges data with.
type Learner interface {
	ExportLearningData() ([]byte, error)
	ImportLearningData(ctx context.Context, data []byte) error
}

// LoadInto imports the named profile into l. It reports false without error
// when the profile does not exist yet.
func LoadInto(ctx context.Context, s Store, name string, l Learner) (bool, error) {
	data, found, err := s.Load(ctx, name)
	if err != nil || !found {
		return false, err
	}
	if err := l.ImportLearningData(ctx, data); err != nil {
		return false, err
	}
	return true, nil
}

// SaveFrom exports l's learning data into the named profile.
func SaveFrom(ctx context.Context, s Store, name string, l Learner) error {
	data, err := l.ExportLearningData()
	if err != nil {
		return err
	}
	return s.Save(ctx, name, data)
}

// observed validates names and reports every call to the store hooks.
type observed struct {
	backend string
	inner   Store
}

// Observe wraps s so that every call validates the profile name and reports
// to observability.Store().
func Observe(backend string, s Store) Store {
	return &observed{backend: backend, inner: s}
}

func (o *observed) Load(ctx context.Context, name string) ([]byte, bool, error) {
	if err := errors.ValidateProfileName(name); err != nil {
		return nil, false, err
	}
	data, found, err := o.inner.Load(ctx, name)
	observability.Store().OnLoad(ctx, o.backend, found, err)
	return data, found, err
}

func (o *observed) Save(ctx context.Context, name string, data []byte) error {
	if err := errors.ValidateProfileName(name); err != nil {
		return err
	}
	err := o.inner.Save(ctx, name, data)
	observability.Store().OnSave(ctx, o.backend, len(data), err)
	return err
}

func (o *observed) Delete(ctx context.Context, name string) error {
	if err := errors.ValidateProfileName(name); err != nil {
		return err
	}
	return o.inner.Delete(ctx, name)
}

func (o *observed) Close() error { return o.inner.Close() }

var _ Store = (*observed)(nil)

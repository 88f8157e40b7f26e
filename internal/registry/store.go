// Package registry persists website project records. It keeps a JSON file
// backend for single-node deployments and a Postgres backend selected by
// REGISTRY_PG_DSN, behind one Store type.
package registry

import (
	"database/sql"
	"os"
	"strings"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
	_ "github.com/jackc/pgx/v5/stdlib"
)

type Store struct {
	path string
	db   *sql.DB

	loadOnce sync.Once
	mu       sync.RWMutex
	byID     map[string]Project

	schemaOnce sync.Once
	schemaErr  error

	projectCache *lru.Cache[string, Project]
}

func New(path string) *Store {
	return &Store{
		path: path,
		byID: make(map[string]Project),
	}
}

func NewPostgres(dsn string) (*Store, error) {
	db, err := sql.Open("pgx", strings.TrimSpace(dsn))
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, err
	}
	cache, err := lru.New[string, Project](1024)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Store{
		db:           db,
		projectCache: cache,
	}, nil
}

// NewFromEnv prefers Postgres when REGISTRY_PG_DSN is set and reachable,
// otherwise falls back to the JSON file at path.
func NewFromEnv(path string) *Store {
	dsn := strings.TrimSpace(os.Getenv("REGISTRY_PG_DSN"))
	if dsn == "" {
		return New(path)
	}
	s, err := NewPostgres(dsn)
	if err != nil {
		return New(path)
	}
	return s
}

func (s *Store) EnsureLoaded() {
	if s == nil {
		return
	}
	if s.db != nil {
		_ = s.ensureSchema()
		return
	}
	s.ensureLoadedFile()
}

func (s *Store) Save() {
	if s == nil || s.db != nil {
		return
	}
	s.saveFile()
}

func (s *Store) Get(projectID string) (Project, bool) {
	if s == nil {
		return Project{}, false
	}
	if s.db != nil {
		if s.projectCache != nil {
			if cached, ok := s.projectCache.Get(strings.TrimSpace(projectID)); ok {
				return cached, true
			}
		}
		p, ok := s.getDB(projectID)
		if ok && s.projectCache != nil {
			s.projectCache.Add(p.ID, p)
		}
		return p, ok
	}
	return s.getFile(projectID)
}

func (s *Store) Put(p Project) {
	if s == nil {
		return
	}
	if s.db != nil {
		s.putDB(p)
		if s.projectCache != nil {
			s.projectCache.Remove(strings.TrimSpace(p.ID))
		}
		return
	}
	s.putFile(p)
}

// Delete removes the record for projectID. Missing IDs are a no-op.
func (s *Store) Delete(projectID string) {
	if s == nil {
		return
	}
	if s.db != nil {
		s.deleteDB(projectID)
		if s.projectCache != nil {
			s.projectCache.Remove(strings.TrimSpace(projectID))
		}
		return
	}
	s.deleteFile(projectID)
}

// List returns every record, newest first.
func (s *Store) List() []Project {
	if s == nil {
		return nil
	}
	if s.db != nil {
		return s.listDB()
	}
	return s.listFile()
}

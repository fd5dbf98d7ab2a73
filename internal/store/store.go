package store

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/mmcdole/storyreel/internal/domain"
	bolt "go.etcd.io/bbolt"
)

// Bucket names
var (
	bucketProjects = []byte("projects")
	bucketRenders  = []byte("renders")
)

var allBuckets = [][]byte{bucketProjects, bucketRenders}

// ProjectStore implements domain.Store using BoltDB.
type ProjectStore struct {
	db *bolt.DB
	mu sync.RWMutex // Protects memory cache

	// In-memory cache for hot-path reads (promoted on access).
	// In memory-only mode it is the whole store.
	cache map[string][]byte
}

// NewProjectStore opens the store under baseDir. Projects reference asset
// paths on one backend, so each backend URL gets its own database.
// An empty baseDir keeps everything in memory.
func NewProjectStore(baseDir, backendURL string) (*ProjectStore, error) {
	if baseDir == "" {
		// Memory-only mode (no persistence)
		return &ProjectStore{cache: make(map[string][]byte)}, nil
	}

	dir := baseDir
	if backendURL != "" {
		dir = filepath.Join(baseDir, hashBackendURL(backendURL))
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}

	dbPath := filepath.Join(dir, "storyreel.db")
	db, err := bolt.Open(dbPath, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open bolt db: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		for _, bucket := range allBuckets {
			if _, err := tx.CreateBucketIfNotExists(bucket); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	return &ProjectStore{db: db, cache: make(map[string][]byte)}, nil
}

func hashBackendURL(backendURL string) string {
	normalized := strings.TrimRight(strings.ToLower(backendURL), "/")
	hash := sha256.Sum256([]byte(normalized))
	return hex.EncodeToString(hash[:6])
}

func (s *ProjectStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// === Generic helpers ===

func cacheKey(bucket []byte, key string) string {
	return string(bucket) + ":" + key
}

func (s *ProjectStore) get(bucket []byte, key string, dest interface{}) bool {
	ck := cacheKey(bucket, key)

	// Check memory cache first
	s.mu.RLock()
	if data, ok := s.cache[ck]; ok {
		s.mu.RUnlock()
		return json.Unmarshal(data, dest) == nil
	}
	s.mu.RUnlock()

	if s.db == nil {
		return false
	}

	var data []byte
	s.db.View(func(tx *bolt.Tx) error {
		if v := tx.Bucket(bucket).Get([]byte(key)); v != nil {
			data = make([]byte, len(v))
			copy(data, v)
		}
		return nil
	})

	if data == nil {
		return false
	}

	// Promote to memory cache
	s.mu.Lock()
	s.cache[ck] = data
	s.mu.Unlock()

	return json.Unmarshal(data, dest) == nil
}

func (s *ProjectStore) set(bucket []byte, key string, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}

	if s.db != nil {
		err := s.db.Update(func(tx *bolt.Tx) error {
			return tx.Bucket(bucket).Put([]byte(key), data)
		})
		if err != nil {
			return err
		}
	}

	s.mu.Lock()
	s.cache[cacheKey(bucket, key)] = data
	s.mu.Unlock()
	return nil
}

func (s *ProjectStore) delete(bucket []byte, key string) error {
	s.mu.Lock()
	delete(s.cache, cacheKey(bucket, key))
	s.mu.Unlock()

	if s.db == nil {
		return nil
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucket).Delete([]byte(key))
	})
}

// scan calls fn with every raw value in the bucket. Persistent stores read
// from BoltDB since the cache only holds what has been touched.
func (s *ProjectStore) scan(bucket []byte, fn func(key string, data []byte) error) error {
	if s.db == nil {
		prefix := string(bucket) + ":"
		s.mu.RLock()
		snapshot := make(map[string][]byte)
		for k, v := range s.cache {
			if strings.HasPrefix(k, prefix) {
				snapshot[strings.TrimPrefix(k, prefix)] = v
			}
		}
		s.mu.RUnlock()

		for k, v := range snapshot {
			if err := fn(k, v); err != nil {
				return err
			}
		}
		return nil
	}

	return s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(bucket).ForEach(func(k, v []byte) error {
			return fn(string(k), v)
		})
	})
}

// === Projects ===

func (s *ProjectStore) GetProject(name string) (*domain.Project, bool) {
	var p domain.Project
	if !s.get(bucketProjects, name, &p) {
		return nil, false
	}
	return &p, true
}

func (s *ProjectStore) SaveProject(p *domain.Project) error {
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("%w: project has no name", domain.ErrInvalidProject)
	}
	return s.set(bucketProjects, p.Name, p)
}

// ListProjects returns every saved project sorted by name
func (s *ProjectStore) ListProjects() ([]*domain.Project, error) {
	var projects []*domain.Project
	err := s.scan(bucketProjects, func(key string, data []byte) error {
		var p domain.Project
		if err := json.Unmarshal(data, &p); err != nil {
			return fmt.Errorf("corrupt project %q: %w", key, err)
		}
		projects = append(projects, &p)
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(projects, func(i, j int) bool {
		return strings.ToLower(projects[i].Name) < strings.ToLower(projects[j].Name)
	})
	return projects, nil
}

// DeleteProject removes a project and its render history
func (s *ProjectStore) DeleteProject(name string) error {
	if _, ok := s.GetProject(name); !ok {
		return domain.ErrProjectNotFound
	}
	if err := s.delete(bucketProjects, name); err != nil {
		return err
	}

	renders, err := s.ListRenders(name)
	if err != nil {
		return err
	}
	for _, r := range renders {
		if err := s.delete(bucketRenders, r.ID); err != nil {
			return err
		}
	}
	return nil
}

// === Render history ===

func (s *ProjectStore) SaveRender(rec domain.RenderRecord) error {
	if rec.ID == "" {
		return fmt.Errorf("render record has no id")
	}
	return s.set(bucketRenders, rec.ID, rec)
}

// ListRenders returns a project's renders, newest first
func (s *ProjectStore) ListRenders(project string) ([]domain.RenderRecord, error) {
	var records []domain.RenderRecord
	err := s.scan(bucketRenders, func(key string, data []byte) error {
		var rec domain.RenderRecord
		if err := json.Unmarshal(data, &rec); err != nil {
			return fmt.Errorf("corrupt render %q: %w", key, err)
		}
		if rec.Project == project {
			records = append(records, rec)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(records, func(i, j int) bool {
		return records[i].StartedAt.After(records[j].StartedAt)
	})
	return records, nil
}

var _ domain.Store = (*ProjectStore)(nil)

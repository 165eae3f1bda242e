package server

import (
	"context"
	"encoding/json"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/mcpdock/mcpdock/internal/errors"
	"github.com/mcpdock/mcpdock/internal/mcp"
	"github.com/mcpdock/mcpdock/pkg/fileutil"
)

// Store is the persisted server catalog. Lookups that find nothing
// return (nil, nil).
type Store struct {
	mu      sync.Mutex
	path    string
	servers map[string]*mcp.Server
}

// NewStore opens the catalog backed by the given JSON file, loading any
// existing entries. A missing file starts the catalog empty; an empty
// path disables persistence.
func NewStore(path string) (*Store, error) {
	s := &Store{
		path:    path,
		servers: make(map[string]*mcp.Server),
	}
	if path == "" {
		return s, nil
	}

	data, err := fileutil.ReadFileWithLimit(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return s, nil
		}
		return nil, errors.Wrap(err, "reading server catalog")
	}

	var servers []*mcp.Server
	if err := json.Unmarshal(data, &servers); err != nil {
		return nil, errors.Wrap(err, "parsing server catalog")
	}
	for _, srv := range servers {
		s.servers[srv.ID] = srv
	}

	return s, nil
}

// All returns every catalog entry, sorted by ID.
func (s *Store) All(ctx context.Context) ([]*mcp.Server, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]*mcp.Server, 0, len(s.servers))
	for _, srv := range s.servers {
		out = append(out, cloneServer(srv))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })

	return out, nil
}

// Get returns the server with the given ID, or nil.
func (s *Store) Get(ctx context.Context, id string) (*mcp.Server, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	srv, ok := s.servers[id]
	if !ok {
		return nil, nil
	}
	return cloneServer(srv), nil
}

// Add inserts a server into the catalog, stamping IsInstalled and
// InstalledAt. The ID must not already exist.
func (s *Store) Add(ctx context.Context, srv *mcp.Server) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if srv.ID == "" {
		return errors.New("server has no ID")
	}
	if _, ok := s.servers[srv.ID]; ok {
		return errors.Newf("server %q already in catalog", srv.ID)
	}

	entry := cloneServer(srv)
	entry.IsInstalled = true
	if entry.InstalledAt == nil {
		now := time.Now()
		entry.InstalledAt = &now
	}
	s.servers[srv.ID] = entry

	return s.persist()
}

// Update replaces the catalog entry with the same ID.
// Returns false when no such entry exists.
func (s *Store) Update(ctx context.Context, srv *mcp.Server) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.servers[srv.ID]; !ok {
		return false, nil
	}
	s.servers[srv.ID] = cloneServer(srv)

	return true, s.persist()
}

// Remove deletes a server from the catalog.
// Returns false when no such entry exists.
func (s *Store) Remove(ctx context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.servers[id]; !ok {
		return false, nil
	}
	delete(s.servers, id)

	return true, s.persist()
}

// Search returns catalog entries whose ID, name, description, or tags
// contain the query, case-insensitively. An empty query matches everything.
func (s *Store) Search(ctx context.Context, query string) ([]*mcp.Server, error) {
	all, err := s.All(ctx)
	if err != nil {
		return nil, err
	}
	if query == "" {
		return all, nil
	}

	q := strings.ToLower(query)
	out := all[:0]
	for _, srv := range all {
		if matches(srv, q) {
			out = append(out, srv)
		}
	}

	return out, nil
}

func matches(srv *mcp.Server, q string) bool {
	if strings.Contains(strings.ToLower(srv.ID), q) ||
		strings.Contains(strings.ToLower(srv.Name), q) ||
		strings.Contains(strings.ToLower(srv.Description), q) {
		return true
	}
	for _, tag := range srv.Tags {
		if strings.Contains(strings.ToLower(tag), q) {
			return true
		}
	}
	return false
}

// persist rewrites the backing file. Callers must hold the lock.
func (s *Store) persist() error {
	if s.path == "" {
		return nil
	}

	servers := make([]*mcp.Server, 0, len(s.servers))
	for _, srv := range s.servers {
		servers = append(servers, srv)
	}
	sort.Slice(servers, func(i, j int) bool { return servers[i].ID < servers[j].ID })

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return errors.Wrap(err, "creating data directory")
	}

	return errors.Wrap(fileutil.AtomicWriteJSON(s.path, servers), "writing server catalog")
}

func cloneServer(srv *mcp.Server) *mcp.Server {
	out := *srv
	out.Tags = append([]string(nil), srv.Tags...)
	if srv.Configuration != nil {
		out.Configuration = mcp.CloneConfig(srv.Configuration)
	}
	if srv.InstalledAt != nil {
		t := *srv.InstalledAt
		out.InstalledAt = &t
	}
	return &out
}

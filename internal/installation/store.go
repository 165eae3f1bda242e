package installation

import (
	"context"
	"encoding/json"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/mcpdock/mcpdock/internal/errors"
	"github.com/mcpdock/mcpdock/internal/mcp"
	"github.com/mcpdock/mcpdock/pkg/fileutil"
)

// Store holds installation records. Lookups that find nothing return
// (nil, nil); only I/O and encoding problems surface as errors.
type Store interface {
	// All returns every record, ordered by installation time.
	All(ctx context.Context) ([]*mcp.ServerInstallation, error)

	// Get returns the record with the given ID, or nil.
	Get(ctx context.Context, id string) (*mcp.ServerInstallation, error)

	// Find returns the record for a (server, agent) pair, or nil.
	Find(ctx context.Context, serverID, agentID string) (*mcp.ServerInstallation, error)

	// ByServer returns all records for a server, ordered by installation time.
	ByServer(ctx context.Context, serverID string) ([]*mcp.ServerInstallation, error)

	// ByAgent returns all records for an agent, ordered by installation time.
	ByAgent(ctx context.Context, agentID string) ([]*mcp.ServerInstallation, error)

	// Add inserts a new record. The ID must not already exist.
	Add(ctx context.Context, inst *mcp.ServerInstallation) error

	// Update replaces the record with the same ID.
	// Returns false when no such record exists.
	Update(ctx context.Context, inst *mcp.ServerInstallation) (bool, error)

	// Delete removes a record. Returns false when no such record exists.
	Delete(ctx context.Context, id string) (bool, error)
}

// FileStore is a mutex-guarded in-memory store persisted to a JSON file.
// Every mutation rewrites the file atomically, so a crash never leaves a
// half-written state behind. The zero value is not usable; use NewFileStore.
type FileStore struct {
	mu      sync.Mutex
	path    string
	records map[string]*mcp.ServerInstallation
}

// NewFileStore opens the store backed by the given JSON file, loading any
// existing records. A missing file starts the store empty. An empty path
// disables persistence, which the tests and the dry-run paths rely on.
func NewFileStore(path string) (*FileStore, error) {
	s := &FileStore{
		path:    path,
		records: make(map[string]*mcp.ServerInstallation),
	}
	if path == "" {
		return s, nil
	}

	data, err := fileutil.ReadFileWithLimit(path)
	if err != nil {
		// The wrapped chain must be unwrapped here; a missing file is the
		// normal first-run state, not a failure.
		if errors.Is(err, fs.ErrNotExist) {
			return s, nil
		}
		return nil, errors.Wrap(err, "reading installation records")
	}

	var records []*mcp.ServerInstallation
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, errors.Wrap(err, "parsing installation records")
	}
	for _, rec := range records {
		s.records[rec.ID] = rec
	}

	return s, nil
}

// All implements Store.
func (s *FileStore) All(ctx context.Context) ([]*mcp.ServerInstallation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.collect(func(*mcp.ServerInstallation) bool { return true }), nil
}

// Get implements Store.
func (s *FileStore) Get(ctx context.Context, id string) (*mcp.ServerInstallation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.records[id]
	if !ok {
		return nil, nil
	}
	return cloneRecord(rec), nil
}

// Find implements Store.
func (s *FileStore) Find(ctx context.Context, serverID, agentID string) (*mcp.ServerInstallation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, rec := range s.records {
		if rec.ServerID == serverID && rec.AgentID == agentID {
			return cloneRecord(rec), nil
		}
	}
	return nil, nil
}

// ByServer implements Store.
func (s *FileStore) ByServer(ctx context.Context, serverID string) ([]*mcp.ServerInstallation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.collect(func(rec *mcp.ServerInstallation) bool {
		return rec.ServerID == serverID
	}), nil
}

// ByAgent implements Store.
func (s *FileStore) ByAgent(ctx context.Context, agentID string) ([]*mcp.ServerInstallation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.collect(func(rec *mcp.ServerInstallation) bool {
		return rec.AgentID == agentID
	}), nil
}

// Add implements Store.
func (s *FileStore) Add(ctx context.Context, inst *mcp.ServerInstallation) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if inst.ID == "" {
		return errors.New("installation record has no ID")
	}
	if _, ok := s.records[inst.ID]; ok {
		return errors.Newf("installation %q already exists", inst.ID)
	}
	s.records[inst.ID] = cloneRecord(inst)

	return s.persist()
}

// Update implements Store.
func (s *FileStore) Update(ctx context.Context, inst *mcp.ServerInstallation) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.records[inst.ID]; !ok {
		return false, nil
	}
	s.records[inst.ID] = cloneRecord(inst)

	return true, s.persist()
}

// Delete implements Store.
func (s *FileStore) Delete(ctx context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.records[id]; !ok {
		return false, nil
	}
	delete(s.records, id)

	return true, s.persist()
}

// collect returns clones of all records matching keep, ordered by
// installation time with ID as tie-breaker. Callers must hold the lock.
func (s *FileStore) collect(keep func(*mcp.ServerInstallation) bool) []*mcp.ServerInstallation {
	var out []*mcp.ServerInstallation
	for _, rec := range s.records {
		if keep(rec) {
			out = append(out, cloneRecord(rec))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].InstalledAt.Equal(out[j].InstalledAt) {
			return out[i].InstalledAt.Before(out[j].InstalledAt)
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// persist rewrites the backing file. Callers must hold the lock.
func (s *FileStore) persist() error {
	if s.path == "" {
		return nil
	}

	records := make([]*mcp.ServerInstallation, 0, len(s.records))
	for _, rec := range s.records {
		records = append(records, rec)
	}
	sort.Slice(records, func(i, j int) bool { return records[i].ID < records[j].ID })

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return errors.Wrap(err, "creating data directory")
	}

	return errors.Wrap(fileutil.AtomicWriteJSON(s.path, records), "writing installation records")
}

func cloneRecord(rec *mcp.ServerInstallation) *mcp.ServerInstallation {
	out := *rec
	out.AgentSpecificConfig = mcp.CloneConfig(rec.AgentSpecificConfig)
	if rec.UpdatedAt != nil {
		t := *rec.UpdatedAt
		out.UpdatedAt = &t
	}
	return &out
}

var _ Store = (*FileStore)(nil)

package registry

import (
	"context"
	"encoding/json"
	_ "embed"
	"io"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/xeipuuv/gojsonschema"

	"github.com/mcpdock/mcpdock/internal/errors"
	"github.com/mcpdock/mcpdock/internal/logging"
	"github.com/mcpdock/mcpdock/internal/mcp"
	"github.com/mcpdock/mcpdock/pkg/fileutil"
)

//go:embed schema.json
var schemaJSON []byte

// DefaultURL is the registry endpoint used when the app config names none.
const DefaultURL = "https://registry.mcpdock.dev/servers.json"

// DefaultTTL is how long a cached registry stays fresh.
const DefaultTTL = 24 * time.Hour

// ErrInvalidRegistry is returned when a registry document fails schema
// validation. The wrapped message lists the violations.
var ErrInvalidRegistry = errors.New("invalid registry document")

// document is the registry wire format.
type document struct {
	Version int           `json:"version,omitempty"`
	Servers []*mcp.Server `json:"servers"`
}

// cacheEnvelope is what gets written to the cache file.
type cacheEnvelope struct {
	FetchedAt time.Time     `json:"fetchedAt"`
	SourceURL string        `json:"sourceUrl,omitempty"`
	Servers   []*mcp.Server `json:"servers"`
}

// Cache serves registry entries from a local cache file, refreshing it
// from the remote endpoint when stale.
type Cache struct {
	url    string
	path   string
	ttl    time.Duration
	client *http.Client
}

// Option configures a Cache.
type Option func(*Cache)

// WithHTTPClient replaces the HTTP client used for refreshes.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Cache) { c.client = client }
}

// WithTTL replaces the freshness window.
func WithTTL(ttl time.Duration) Option {
	return func(c *Cache) { c.ttl = ttl }
}

// NewCache creates a registry cache for the given endpoint, backed by the
// given cache file.
func NewCache(url, path string, opts ...Option) *Cache {
	c := &Cache{
		url:    url,
		path:   path,
		ttl:    DefaultTTL,
		client: &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Servers returns the registry entries, refreshing the cache when it is
// stale or force is set. When the refresh fails but a cache exists, the
// stale cache is served and the failure logged; with no cache at all the
// failure surfaces.
func (c *Cache) Servers(ctx context.Context, force bool) ([]*mcp.Server, error) {
	log := logging.FromContext(ctx)

	cached, err := c.readCache()
	if err != nil {
		log.Warn("discarding unreadable registry cache", "path", c.path, "error", err)
		cached = nil
	}

	if cached != nil && !force && time.Since(cached.FetchedAt) < c.ttl {
		return cached.Servers, nil
	}

	servers, err := c.fetch(ctx)
	if err != nil {
		if cached != nil {
			log.Warn("registry refresh failed, serving stale cache",
				"url", c.url, "age", time.Since(cached.FetchedAt).Round(time.Second), "error", err)
			return cached.Servers, nil
		}
		return nil, err
	}

	if err := c.writeCache(servers, c.url); err != nil {
		log.Warn("caching registry failed", "path", c.path, "error", err)
	}

	return servers, nil
}

// Search returns registry entries matching the query, case-insensitively,
// over ID, name, description, and tags. An empty query returns everything.
func (c *Cache) Search(ctx context.Context, query string) ([]*mcp.Server, error) {
	servers, err := c.Servers(ctx, false)
	if err != nil {
		return nil, err
	}
	if query == "" {
		return servers, nil
	}

	q := strings.ToLower(query)
	var out []*mcp.Server
	for _, srv := range servers {
		if matches(srv, q) {
			out = append(out, srv)
		}
	}

	return out, nil
}

// Import validates a registry file and merges its servers into the cache.
// Imported entries win over cached entries with the same ID. It returns
// the number of servers imported.
func (c *Cache) Import(ctx context.Context, path string) (int, error) {
	data, err := fileutil.ReadFileWithLimit(path)
	if err != nil {
		return 0, errors.Wrap(err, "reading registry file")
	}

	doc, err := parse(data)
	if err != nil {
		return 0, err
	}

	merged := make(map[string]*mcp.Server)
	if cached, err := c.readCache(); err == nil && cached != nil {
		for _, srv := range cached.Servers {
			merged[srv.ID] = srv
		}
	}
	for _, srv := range doc.Servers {
		merged[srv.ID] = srv
	}

	servers := make([]*mcp.Server, 0, len(merged))
	for _, srv := range merged {
		servers = append(servers, srv)
	}
	sort.Slice(servers, func(i, j int) bool { return servers[i].ID < servers[j].ID })

	if err := c.writeCache(servers, ""); err != nil {
		return 0, err
	}

	logging.FromContext(ctx).Info("registry imported",
		"path", path, "servers", len(doc.Servers), "total", len(servers))

	return len(doc.Servers), nil
}

func (c *Cache) fetch(ctx context.Context) ([]*mcp.Server, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, errors.Wrap(err, "building registry request")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, errors.Wrapf(err, "fetching registry from %s", c.url)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.Newf("registry returned %s", resp.Status)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return nil, errors.Wrap(err, "reading registry response")
	}

	doc, err := parse(data)
	if err != nil {
		return nil, err
	}

	sort.Slice(doc.Servers, func(i, j int) bool { return doc.Servers[i].ID < doc.Servers[j].ID })

	return doc.Servers, nil
}

// parse validates a registry document against the schema and decodes it.
func parse(data []byte) (*document, error) {
	result, err := gojsonschema.Validate(
		gojsonschema.NewBytesLoader(schemaJSON),
		gojsonschema.NewBytesLoader(data),
	)
	if err != nil {
		return nil, errors.Wrap(ErrInvalidRegistry, err.Error())
	}
	if !result.Valid() {
		msgs := make([]string, 0, len(result.Errors()))
		for _, desc := range result.Errors() {
			msgs = append(msgs, desc.String())
		}
		return nil, errors.Wrap(ErrInvalidRegistry, strings.Join(msgs, "; "))
	}

	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, errors.Wrap(ErrInvalidRegistry, err.Error())
	}

	return &doc, nil
}

func (c *Cache) readCache() (*cacheEnvelope, error) {
	data, err := fileutil.ReadFileWithLimit(c.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}

	var env cacheEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, errors.Wrap(err, "parsing registry cache")
	}

	return &env, nil
}

func (c *Cache) writeCache(servers []*mcp.Server, sourceURL string) error {
	if err := os.MkdirAll(filepath.Dir(c.path), 0o755); err != nil {
		return errors.Wrap(err, "creating cache directory")
	}

	env := cacheEnvelope{
		FetchedAt: time.Now(),
		SourceURL: sourceURL,
		Servers:   servers,
	}

	return errors.Wrap(fileutil.AtomicWriteJSON(c.path, env), "writing registry cache")
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

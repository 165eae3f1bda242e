package server

import (
	"path/filepath"
	"testing"

	"github.com/mcpdock/mcpdock/internal/mcp"
)

func TestStore_AddGetRemove(t *testing.T) {
	ctx := t.Context()
	s, err := NewStore("")
	if err != nil {
		t.Fatalf("NewStore() error = %v", err)
	}

	srv := &mcp.Server{
		ID:   "github",
		Name: "GitHub MCP",
		Tags: []string{"vcs", "issues"},
	}
	if err := s.Add(ctx, srv); err != nil {
		t.Fatalf("Add() error = %v", err)
	}

	got, _ := s.Get(ctx, "github")
	if got == nil {
		t.Fatal("Get() returned nil for a catalog entry")
	}
	if !got.IsInstalled || got.InstalledAt == nil {
		t.Errorf("Add() must stamp installation state, got %+v", got)
	}

	if err := s.Add(ctx, srv); err == nil {
		t.Error("adding a duplicate ID should fail")
	}

	ok, _ := s.Remove(ctx, "github")
	if !ok {
		t.Error("Remove() = false, want true")
	}
	ok, _ = s.Remove(ctx, "github")
	if ok {
		t.Error("removing twice should report false")
	}
}

func TestStore_HandsOutCopies(t *testing.T) {
	ctx := t.Context()
	s, _ := NewStore("")

	if err := s.Add(ctx, &mcp.Server{
		ID:            "github",
		Name:          "GitHub MCP",
		Configuration: map[string]string{"apiKey": "k1"},
	}); err != nil {
		t.Fatalf("Add() error = %v", err)
	}

	got, _ := s.Get(ctx, "github")
	got.Configuration["apiKey"] = "mutated"
	got.Name = "renamed"

	again, _ := s.Get(ctx, "github")
	if again.Configuration["apiKey"] != "k1" || again.Name != "GitHub MCP" {
		t.Error("mutating a returned server must not affect the catalog")
	}
}

func TestStore_Persistence(t *testing.T) {
	ctx := t.Context()
	path := filepath.Join(t.TempDir(), "servers.json")

	s, err := NewStore(path)
	if err != nil {
		t.Fatalf("NewStore() error = %v", err)
	}
	if err := s.Add(ctx, &mcp.Server{
		ID:            "github",
		Name:          "GitHub MCP",
		Configuration: map[string]string{"apiKey": "k1"},
	}); err != nil {
		t.Fatalf("Add() error = %v", err)
	}

	reopened, err := NewStore(path)
	if err != nil {
		t.Fatalf("reopening catalog: %v", err)
	}
	got, _ := reopened.Get(ctx, "github")
	if got == nil || got.Configuration["apiKey"] != "k1" {
		t.Errorf("reloaded entry = %+v", got)
	}
}

func TestStore_Search(t *testing.T) {
	ctx := t.Context()
	s, _ := NewStore("")

	for _, srv := range []*mcp.Server{
		{ID: "github", Name: "GitHub MCP", Description: "issues and pull requests", Tags: []string{"vcs"}},
		{ID: "postgres", Name: "Postgres MCP", Description: "query databases", Tags: []string{"db", "sql"}},
		{ID: "slack", Name: "Slack MCP", Tags: []string{"chat"}},
	} {
		if err := s.Add(ctx, srv); err != nil {
			t.Fatalf("Add(%s) error = %v", srv.ID, err)
		}
	}

	tests := []struct {
		query string
		want  []string
	}{
		{query: "", want: []string{"github", "postgres", "slack"}},
		{query: "GITHUB", want: []string{"github"}},
		{query: "sql", want: []string{"postgres"}},
		{query: "pull requests", want: []string{"github"}},
		{query: "nothing", want: nil},
	}

	for _, tt := range tests {
		t.Run("query="+tt.query, func(t *testing.T) {
			got, err := s.Search(ctx, tt.query)
			if err != nil {
				t.Fatalf("Search() error = %v", err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("Search(%q) = %d results, want %d", tt.query, len(got), len(tt.want))
			}
			for i, srv := range got {
				if srv.ID != tt.want[i] {
					t.Errorf("result[%d] = %q, want %q", i, srv.ID, tt.want[i])
				}
			}
		})
	}
}

func TestStore_MissingFileStartsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "never", "written", "servers.json")

	s, err := NewStore(path)
	if err != nil {
		t.Fatalf("NewStore() error = %v", err)
	}

	servers, err := s.All(t.Context())
	if err != nil {
		t.Fatalf("All() error = %v", err)
	}
	if len(servers) != 0 {
		t.Errorf("servers = %v, want empty", servers)
	}
}

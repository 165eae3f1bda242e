package configuration

import (
	"testing"

	"github.com/mcpdock/mcpdock/internal/mcp"
)

func TestEqual(t *testing.T) {
	tests := []struct {
		name string
		a    map[string]string
		b    map[string]string
		want bool
	}{
		{
			name: "identical maps",
			a:    map[string]string{"apiKey": "k1", "endpoint": "e1"},
			b:    map[string]string{"apiKey": "k1", "endpoint": "e1"},
			want: true,
		},
		{
			name: "same entries different insertion order",
			a:    map[string]string{"a": "1", "b": "2", "c": "3"},
			b:    map[string]string{"c": "3", "a": "1", "b": "2"},
			want: true,
		},
		{
			name: "subset is not equal",
			a:    map[string]string{"a": "1"},
			b:    map[string]string{"a": "1", "b": "2"},
			want: false,
		},
		{
			name: "superset is not equal",
			a:    map[string]string{"a": "1", "b": "2"},
			b:    map[string]string{"a": "1"},
			want: false,
		},
		{
			name: "differing value",
			a:    map[string]string{"a": "1"},
			b:    map[string]string{"a": "2"},
			want: false,
		},
		{
			name: "value comparison is case sensitive",
			a:    map[string]string{"a": "Value"},
			b:    map[string]string{"a": "value"},
			want: false,
		},
		{
			name: "both nil",
			a:    nil,
			b:    nil,
			want: true,
		},
		{
			name: "nil equals empty",
			a:    nil,
			b:    map[string]string{},
			want: true,
		},
		{
			name: "empty equals empty",
			a:    map[string]string{},
			b:    map[string]string{},
			want: true,
		},
		{
			name: "nil not equal to populated",
			a:    nil,
			b:    map[string]string{"a": "1"},
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Equal(tt.a, tt.b); got != tt.want {
				t.Errorf("Equal(%v, %v) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
			// Equality is symmetric.
			if got := Equal(tt.b, tt.a); got != tt.want {
				t.Errorf("Equal(%v, %v) = %v, want %v (symmetry)", tt.b, tt.a, got, tt.want)
			}
		})
	}
}

func TestEqual_Reflexive(t *testing.T) {
	m := map[string]string{"apiKey": "k1", "endpoint": "e1", "region": "us"}
	if !Equal(m, m) {
		t.Error("Equal(m, m) should always be true")
	}
}

func TestEffective(t *testing.T) {
	server := &mcp.Server{
		ID:            "s1",
		Configuration: map[string]string{"apiKey": "global"},
	}

	tests := []struct {
		name string
		inst *mcp.ServerInstallation
		want map[string]string
	}{
		{
			name: "override wins when non-empty",
			inst: &mcp.ServerInstallation{AgentSpecificConfig: map[string]string{"apiKey": "custom"}},
			want: map[string]string{"apiKey": "custom"},
		},
		{
			name: "empty override defers to global",
			inst: &mcp.ServerInstallation{AgentSpecificConfig: map[string]string{}},
			want: map[string]string{"apiKey": "global"},
		},
		{
			name: "nil override defers to global",
			inst: &mcp.ServerInstallation{},
			want: map[string]string{"apiKey": "global"},
		},
		{
			name: "nil installation defers to global",
			inst: nil,
			want: map[string]string{"apiKey": "global"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Effective(server, tt.inst)
			if !Equal(got, tt.want) {
				t.Errorf("Effective() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestEffective_ReturnsCopy(t *testing.T) {
	server := &mcp.Server{Configuration: map[string]string{"apiKey": "k1"}}
	inst := &mcp.ServerInstallation{AgentSpecificConfig: map[string]string{"apiKey": "custom"}}

	got := Effective(server, inst)
	got["apiKey"] = "mutated"

	if inst.AgentSpecificConfig["apiKey"] != "custom" {
		t.Error("mutating the effective config affected the stored override")
	}

	got = Effective(server, nil)
	got["apiKey"] = "mutated"

	if server.Configuration["apiKey"] != "k1" {
		t.Error("mutating the effective config affected the global configuration")
	}
}

func TestEffective_NothingConfigured(t *testing.T) {
	got := Effective(nil, nil)
	if got == nil {
		t.Fatal("Effective(nil, nil) should return an empty map, not nil")
	}
	if len(got) != 0 {
		t.Errorf("Effective(nil, nil) has %d entries, want 0", len(got))
	}
}

func TestMatchesGlobal(t *testing.T) {
	server := &mcp.Server{Configuration: map[string]string{"apiKey": "k1"}}

	tracking := &mcp.ServerInstallation{AgentSpecificConfig: map[string]string{"apiKey": "k1"}}
	if !MatchesGlobal(server, tracking) {
		t.Error("installation with identical override should match global")
	}

	pinned := &mcp.ServerInstallation{AgentSpecificConfig: map[string]string{"apiKey": "custom"}}
	if MatchesGlobal(server, pinned) {
		t.Error("pinned installation should not match global")
	}

	// Both empty: trivially matching.
	if !MatchesGlobal(&mcp.Server{}, &mcp.ServerInstallation{}) {
		t.Error("no config on either side should match")
	}
}

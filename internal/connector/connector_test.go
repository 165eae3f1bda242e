package connector

import (
	"reflect"
	"testing"
)

func TestSplitConfig(t *testing.T) {
	tests := []struct {
		name        string
		cfg         map[string]string
		wantCommand string
		wantArgs    []string
		wantEnv     map[string]string
	}{
		{
			name: "command args and env",
			cfg: map[string]string{
				"command":      "npx",
				"args":         "-y @modelcontextprotocol/server-github",
				"GITHUB_TOKEN": "ghp_x",
			},
			wantCommand: "npx",
			wantArgs:    []string{"-y", "@modelcontextprotocol/server-github"},
			wantEnv:     map[string]string{"GITHUB_TOKEN": "ghp_x"},
		},
		{
			name:        "env only",
			cfg:         map[string]string{"apiKey": "k1", "endpoint": "e1"},
			wantCommand: "",
			wantArgs:    nil,
			wantEnv:     map[string]string{"apiKey": "k1", "endpoint": "e1"},
		},
		{
			name:        "empty config",
			cfg:         map[string]string{},
			wantCommand: "",
			wantArgs:    nil,
			wantEnv:     nil,
		},
		{
			name:        "nil config",
			cfg:         nil,
			wantCommand: "",
			wantArgs:    nil,
			wantEnv:     nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			command, args, env := SplitConfig(tt.cfg)
			if command != tt.wantCommand {
				t.Errorf("command = %q, want %q", command, tt.wantCommand)
			}
			if !reflect.DeepEqual(args, tt.wantArgs) {
				t.Errorf("args = %v, want %v", args, tt.wantArgs)
			}
			if !reflect.DeepEqual(env, tt.wantEnv) {
				t.Errorf("env = %v, want %v", env, tt.wantEnv)
			}
		})
	}
}

func TestJoinConfig_RoundTrip(t *testing.T) {
	cfg := map[string]string{
		"command": "npx",
		"args":    "-y server",
		"TOKEN":   "abc",
	}

	command, args, env := SplitConfig(cfg)
	got := JoinConfig(command, args, env)

	if !reflect.DeepEqual(got, cfg) {
		t.Errorf("round trip = %v, want %v", got, cfg)
	}
}

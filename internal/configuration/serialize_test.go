package configuration

import (
	"testing"

	"github.com/mcpdock/mcpdock/internal/errors"
)

func TestSerialize(t *testing.T) {
	tests := []struct {
		name string
		cfg  map[string]string
		want string
	}{
		{
			name: "nil serializes to empty object",
			cfg:  nil,
			want: "{}",
		},
		{
			name: "empty serializes to empty object",
			cfg:  map[string]string{},
			want: "{}",
		},
		{
			name: "keys emitted sorted",
			cfg:  map[string]string{"b": "2", "a": "1"},
			want: `{"a":"1","b":"2"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Serialize(tt.cfg); got != tt.want {
				t.Errorf("Serialize() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDeserialize(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    map[string]string
		wantErr bool
	}{
		{
			name:  "valid object",
			input: `{"apiKey":"k1","endpoint":"e1"}`,
			want:  map[string]string{"apiKey": "k1", "endpoint": "e1"},
		},
		{
			name:  "empty object",
			input: "{}",
			want:  map[string]string{},
		},
		{
			name:  "blank input yields empty mapping",
			input: "   ",
			want:  map[string]string{},
		},
		{
			name:  "empty input yields empty mapping",
			input: "",
			want:  map[string]string{},
		},
		{
			name:    "malformed input is an error",
			input:   `{"k": `,
			wantErr: true,
		},
		{
			name:    "non-object input is an error",
			input:   `[1, 2]`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Deserialize(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error for malformed input")
				}
				if !errors.Is(err, errors.ErrMalformedConfig) {
					t.Errorf("error should wrap ErrMalformedConfig, got %v", err)
				}
				if got != nil {
					t.Errorf("malformed input should yield nil mapping, got %v", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("Deserialize() error = %v", err)
			}
			if got == nil {
				t.Fatal("valid input should never yield a nil mapping")
			}
			if !Equal(got, tt.want) {
				t.Errorf("Deserialize() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSerializeDeserialize_RoundTrip(t *testing.T) {
	cases := []map[string]string{
		{"apiKey": "k1", "endpoint": "e1"},
		{"single": ""},
		{},
		{"unicode": "日本語", "spaces": "a b c", "quotes": `"quoted"`},
	}

	for _, cfg := range cases {
		got, err := Deserialize(Serialize(cfg))
		if err != nil {
			t.Fatalf("round trip of %v failed: %v", cfg, err)
		}
		if !Equal(got, cfg) {
			t.Errorf("round trip of %v = %v", cfg, got)
		}
	}
}

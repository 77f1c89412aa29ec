package db

import "testing"

func TestMaskPassword(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", "<empty>"},
		{"postgres://ingest:s3cret@db:5432/sensors", "postgres://ingest:xxxxx@db:5432/sensors"},
		{"postgres://db:5432/sensors", "postgres://db:5432/sensors"},
	}

	for _, tt := range tests {
		if got := maskPassword(tt.in); got != tt.want {
			t.Errorf("maskPassword(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

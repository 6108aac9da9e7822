package device

import (
	"testing"

	assert "github.com/stretchr/testify/require"
)

func TestExemptMatcher(t *testing.T) {

	tests := []struct {
		pattern string
		message string
		match   bool
	}{
		{"*vlan exists*", "Error: VLAN exists already", true},
		{"*vlan exists*", "vlan missing", false},
		{"*already exists", "Interface already exists", true},
		{"*already exists", "already exists on device", false},
		{"warning:*", "WARNING: commit pending", true},
		{"warning:*", "error: warning: commit pending", false},
		{"no change", "  No change  ", true},
		{"no change", "no change made", false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.match, NewExemptMatcher(tt.pattern).Match(tt.message), "pattern %q message %q", tt.pattern, tt.message)
	}
}

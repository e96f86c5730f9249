package tools

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDenyPolicy_DefaultPatterns(t *testing.T) {
	policy := MustNewDenyPolicy(DefaultDenyPatterns())

	tests := []struct {
		name    string
		command string
		denied  bool
	}{
		{name: "recursive force delete", command: "rm -rf /tmp/build", denied: true},
		{name: "force delete", command: "rm -f important.db", denied: true},
		{name: "spaced flags", command: "rm -v -r ./cache", denied: true},
		{name: "sudo", command: "sudo apt-get install curl", denied: true},
		{name: "disk format", command: "mkfs.ext4 /dev/sdb1", denied: true},
		{name: "dd onto a device", command: "dd if=image.iso of=/dev/sda bs=4M", denied: true},
		{name: "shutdown", command: "shutdown -h now", denied: true},
		{name: "fork bomb", command: ":(){ :|:& };:", denied: true},
		{name: "world-writable root", command: "chmod -R 777 /", denied: true},

		{name: "plain delete", command: "rm scratch.txt", denied: false},
		{name: "listing", command: "ls -la", denied: false},
		{name: "grep", command: "grep -r TODO src/", denied: false},
		{name: "word containing rm", command: "echo transform", denied: false},
		{name: "format as a word", command: "go run ./cmd/format", denied: false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			pattern, denied := policy.Match(tc.command)
			assert.Equal(t, tc.denied, denied)
			if tc.denied {
				assert.NotEmpty(t, pattern)
			}
		})
	}
}

func TestNewDenyPolicy_RejectsBadPattern(t *testing.T) {
	_, err := NewDenyPolicy([]string{`valid`, `[unclosed`})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "[unclosed")
}

func TestDenyPolicy_NilDeniesNothing(t *testing.T) {
	var policy *DenyPolicy
	_, denied := policy.Match("rm -rf /")
	assert.False(t, denied)
}

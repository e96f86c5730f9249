package termagent

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTruncate(t *testing.T) {
	tests := []struct {
		name          string
		input         string
		max           int
		want          string
		wantTruncated bool
	}{
		{
			name:  "under cap returned verbatim",
			input: "hello",
			max:   10,
			want:  "hello",
		},
		{
			name:  "exactly at cap returned verbatim",
			input: "hello",
			max:   5,
			want:  "hello",
		},
		{
			name:          "over cap truncated",
			input:         "hello world",
			max:           5,
			want:          "hello",
			wantTruncated: true,
		},
		{
			name:  "zero cap disables truncation",
			input: "hello",
			max:   0,
			want:  "hello",
		},
		{
			name:          "multibyte rune not split",
			input:         "aé", // 'é' is two bytes; cutting at 2 would split it
			max:           2,
			want:          "a",
			wantTruncated: true,
		},
		{
			name:  "empty input",
			input: "",
			max:   5,
			want:  "",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, truncated := Truncate(tc.input, tc.max)
			assert.Equal(t, tc.want, got)
			assert.Equal(t, tc.wantTruncated, truncated)
		})
	}
}

func TestTruncate_LargeOutputBounded(t *testing.T) {
	big := strings.Repeat("x", 1<<20)
	got, truncated := Truncate(big, 4096)
	assert.True(t, truncated)
	assert.Len(t, got, 4096)
}

func TestObservation_Render(t *testing.T) {
	tests := []struct {
		name string
		obs  Observation
		want string
	}{
		{
			name: "success with output",
			obs:  Success("file1\nfile2", false),
			want: "file1\nfile2",
		},
		{
			name: "success with empty output",
			obs:  Success("", false),
			want: "(no output)",
		},
		{
			name: "truncated success notes truncation",
			obs:  Success("partial", true),
			want: "partial\n[output truncated]",
		},
		{
			name: "failure renders kind and message",
			obs:  Failure(ErrFileNotFound, "no such file: a.txt"),
			want: "ERROR (file_not_found): no such file: a.txt",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.obs.Render())
		})
	}
}

func TestObservation_OK(t *testing.T) {
	assert.True(t, Success("out", false).OK())
	assert.False(t, Failure(ErrPolicyDenied, "denied").OK())
	assert.False(t, Failuref(ErrToolTimeout, "timed out after %s", "5s").OK())
}

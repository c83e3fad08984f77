package main

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseOutputFormat(t *testing.T) {
	for in, want := range map[string]outputFormat{
		"":      outputTable,
		"table": outputTable,
		"JSON":  outputJSON,
		"yaml":  outputYAML,
	} {
		got, err := parseOutputFormat(in)
		require.NoError(t, err, "input %q", in)
		assert.Equal(t, want, got)
	}

	_, err := parseOutputFormat("xml")
	assert.Error(t, err)
}

func TestPrintOutputTable(t *testing.T) {
	var sb strings.Builder
	err := printOutput(&sb, outputTable, nil,
		[]string{"name", "status"},
		[][]string{{"alpha", "new"}, {"beta", "packaged"}})
	require.NoError(t, err)

	out := sb.String()
	assert.Contains(t, out, "NAME")
	assert.Contains(t, out, "STATUS")
	assert.Contains(t, out, "alpha")
	assert.Contains(t, out, "packaged")
}

func TestPrintOutputJSON(t *testing.T) {
	var sb strings.Builder
	err := printOutput(&sb, outputJSON, map[string]int{"version": 2}, nil, nil)
	require.NoError(t, err)
	assert.Contains(t, sb.String(), `"version": 2`)
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "sha256:...", truncate("sha256:abcdef012345", 10))
	assert.Equal(t, "ab", truncate("abcd", 2))
}

package track

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/repkit/appreg/pkg/fingerprint"
)

func mustDigest(t *testing.T, s string) fingerprint.Digest {
	t.Helper()
	d, err := fingerprint.ParseDigest(s)
	require.NoError(t, err)
	return d
}

func TestDetect(t *testing.T) {
	a := mustDigest(t, "sha256:9f86d081884c7d659a2feaa0c55ad015a3bf4f1b2b0b822cd15d6c15b0f00a08")
	b := mustDigest(t, "sha256:2c26b46b68ffc68ff99b453c1d30413413422d706483bfa0f98a5e886266e7ae")

	tests := []struct {
		name    string
		prior   fingerprint.Digest
		current fingerprint.Digest
		want    Kind
	}{
		{"never seen", fingerprint.Digest{}, a, New},
		{"identical", a, a, Unchanged},
		{"differs", a, b, Changed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Detect(tt.prior, tt.current))
		})
	}
}

func TestNextVersion(t *testing.T) {
	assert.Equal(t, 1, NextVersion(New, 0))
	assert.Equal(t, 1, NextVersion(New, 1))
	assert.Equal(t, 4, NextVersion(Changed, 3))
	assert.Equal(t, 3, NextVersion(Unchanged, 3))
}

package fingerprint

import (
	"bytes"
	"crypto/sha256"
	"database/sql/driver"
	"encoding/hex"
	"fmt"
)

// Algorithm is the digest algorithm used for all tree fingerprints.
const Algorithm = "sha256"

// Digest is a content fingerprint in "algo:hex" form. The zero value is
// empty and reports IsZero() == true; it is stored as an empty string.
type Digest struct {
	algo     string
	checksum []byte
}

// NewDigest wraps a raw checksum in a Digest.
func NewDigest(algo string, sum []byte) Digest {
	return Digest{algo: algo, checksum: sum}
}

// ParseDigest parses the "algo:hex" text form.
func ParseDigest(s string) (Digest, error) {
	var d Digest
	return d, d.UnmarshalText([]byte(s))
}

func (d Digest) Algorithm() string { return d.algo }

func (d Digest) Checksum() []byte { return d.checksum }

// IsZero reports whether the digest is unset.
func (d Digest) IsZero() bool { return d.algo == "" && len(d.checksum) == 0 }

// Equal reports whether two digests have the same algorithm and checksum.
func (d Digest) Equal(o Digest) bool {
	return d.algo == o.algo && bytes.Equal(d.checksum, o.checksum)
}

func (d Digest) String() string {
	if d.IsZero() {
		return ""
	}
	return d.algo + ":" + hex.EncodeToString(d.checksum)
}

// MarshalText implements encoding.TextMarshaler.
func (d Digest) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Digest) UnmarshalText(t []byte) error {
	if len(t) == 0 {
		*d = Digest{}
		return nil
	}
	i := bytes.IndexByte(t, ':')
	if i <= 0 {
		return fmt.Errorf("invalid digest %q: missing algorithm prefix", string(t))
	}
	sum := make([]byte, hex.DecodedLen(len(t)-i-1))
	if _, err := hex.Decode(sum, t[i+1:]); err != nil {
		return fmt.Errorf("invalid digest %q: %w", string(t), err)
	}
	d.algo = string(t[:i])
	d.checksum = sum
	return nil
}

// Scan implements sql.Scanner so a Digest can back a text column.
func (d *Digest) Scan(v any) error {
	switch s := v.(type) {
	case nil:
		*d = Digest{}
		return nil
	case string:
		return d.UnmarshalText([]byte(s))
	case []byte:
		return d.UnmarshalText(s)
	default:
		return fmt.Errorf("cannot scan digest from %T", v)
	}
}

// Value implements driver.Valuer.
func (d Digest) Value() (driver.Value, error) {
	return d.String(), nil
}

func sumDigest(sum [sha256.Size]byte) Digest {
	return Digest{algo: Algorithm, checksum: sum[:]}
}

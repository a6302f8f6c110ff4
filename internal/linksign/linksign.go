// Package linksign signs and verifies the expiring links the local backend
// hands out for staged files.
package linksign

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"strconv"
	"time"

	"github.com/custodia-labs/cortex-chef/internal/core/domain"
)

// KeySize is the length in bytes of a signing key.
const KeySize = 32

var (
	// ErrExpired is returned for a correctly signed link past its expiry.
	ErrExpired = errors.New("link expired")

	// ErrBadSignature is returned when the signature does not match.
	ErrBadSignature = errors.New("bad link signature")
)

// Signer computes HMAC-SHA256 signatures over a path and its expiry.
type Signer struct {
	key []byte
}

// New returns a signer for key.
func New(key []byte) (*Signer, error) {
	if len(key) < KeySize {
		return nil, fmt.Errorf("%w: signing key shorter than %d bytes", domain.ErrInvalidInput, KeySize)
	}
	return &Signer{key: key}, nil
}

// LoadOrCreate reads the key at path, generating and saving a new one when
// the file does not exist.
func LoadOrCreate(path string) (*Signer, error) {
	key, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		key = make([]byte, KeySize)
		if _, err := rand.Read(key); err != nil {
			return nil, fmt.Errorf("generating link key: %w", err)
		}
		if err := os.WriteFile(path, key, 0600); err != nil {
			return nil, fmt.Errorf("writing link key: %w", err)
		}
		return New(key)
	}
	if err != nil {
		return nil, fmt.Errorf("reading link key: %w", err)
	}
	return New(key)
}

// Query returns the expires and sig parameters for path.
func (s *Signer) Query(path string, expires time.Time) url.Values {
	unix := expires.Unix()
	return url.Values{
		"expires": {strconv.FormatInt(unix, 10)},
		"sig":     {s.sign(path, unix)},
	}
}

// Verify checks the expires and sig parameters of a link to path.
func (s *Signer) Verify(path string, query url.Values, now time.Time) error {
	raw := query.Get("expires")
	if raw == "" {
		return fmt.Errorf("%w: missing expires parameter", domain.ErrInvalidInput)
	}
	expires, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return fmt.Errorf("%w: bad expires parameter", domain.ErrInvalidInput)
	}

	got, err := hex.DecodeString(query.Get("sig"))
	if err != nil || len(got) == 0 {
		return ErrBadSignature
	}
	want, _ := hex.DecodeString(s.sign(path, expires))
	if !hmac.Equal(got, want) {
		return ErrBadSignature
	}

	if now.Unix() > expires {
		return ErrExpired
	}
	return nil
}

func (s *Signer) sign(path string, expires int64) string {
	mac := hmac.New(sha256.New, s.key)
	mac.Write([]byte(path))
	mac.Write([]byte{0})
	mac.Write([]byte(strconv.FormatInt(expires, 10)))
	return hex.EncodeToString(mac.Sum(nil))
}

// Package security contains everything related to the security of user data
package security

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
)

var ErrInvalidHash = errors.New("invalid hash format")

// ArgonHash holds the argon2id parameters new password hashes are made with.
// Stored hashes carry their own parameters, so changing these never locks
// anyone out.
type ArgonHash struct {
	Memory      uint32
	Iterations  uint32
	Parallelism uint8
	SaltLength  uint32
	KeyLength   uint32
}

func New() *ArgonHash {
	return &ArgonHash{
		Memory:      64 * 1024,
		Iterations:  3,
		Parallelism: 2,
		SaltLength:  16,
		KeyLength:   32,
	}
}

// phc is a decoded $argon2id$v=19$m=..,t=..,p=..$salt$hash string
type phc struct {
	memory      uint32
	iterations  uint32
	parallelism uint8
	salt        []byte
	hash        []byte
}

func parsePHC(encoded string) (*phc, error) {
	parts := strings.Split(encoded, "$")
	if len(parts) != 6 || parts[1] != "argon2id" {
		return nil, ErrInvalidHash
	}

	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil || version != argon2.Version {
		return nil, fmt.Errorf("%w, unsupported version %q", ErrInvalidHash, parts[2])
	}

	h := &phc{}
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &h.memory, &h.iterations, &h.parallelism); err != nil {
		return nil, fmt.Errorf("%w, %w", ErrInvalidHash, err)
	}

	var err error
	if h.salt, err = base64.RawStdEncoding.DecodeString(parts[4]); err != nil {
		return nil, fmt.Errorf("%w, %w", ErrInvalidHash, err)
	}

	if h.hash, err = base64.RawStdEncoding.DecodeString(parts[5]); err != nil {
		return nil, fmt.Errorf("%w, %w", ErrInvalidHash, err)
	}

	return h, nil
}

func (a *ArgonHash) GenerateFromPassword(p string) (string, error) {
	salt := make([]byte, a.SaltLength)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("failed to generate salt, %w", err)
	}

	hash := argon2.IDKey([]byte(p), salt, a.Iterations, a.Memory, a.Parallelism, a.KeyLength)

	return fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version,
		a.Memory, a.Iterations, a.Parallelism,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(hash),
	), nil
}

// VerifyPasswd compares a password p with the stored PHC-style encoded hash e
func (a *ArgonHash) VerifyPasswd(p, e string) (bool, error) {
	h, err := parsePHC(e)
	if err != nil {
		return false, err
	}

	calc := argon2.IDKey([]byte(p), h.salt, h.iterations, h.memory, h.parallelism, uint32(len(h.hash)))

	return subtle.ConstantTimeCompare(h.hash, calc) == 1, nil
}

// NeedsRehash reports whether e was made with parameters other than a's
func (a *ArgonHash) NeedsRehash(e string) bool {
	h, err := parsePHC(e)
	if err != nil {
		return true
	}

	return h.memory != a.Memory ||
		h.iterations != a.Iterations ||
		h.parallelism != a.Parallelism ||
		uint32(len(h.salt)) != a.SaltLength ||
		uint32(len(h.hash)) != a.KeyLength
}

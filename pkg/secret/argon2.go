// Package secret hashes shared secrets such as the admin API token so they
// never have to sit in configuration as plaintext.
package secret

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
)

const (
	prefix = "$argon2id$"

	defaultTime    uint32 = 1
	defaultMemory  uint32 = 64 * 1024
	defaultThreads uint8  = 4
	keyLen         uint32 = 32
	saltLen               = 16
)

var ErrMalformedHash = errors.New("malformed_secret_hash")

type params struct {
	memory  uint32
	time    uint32
	threads uint8
	salt    []byte
	hash    []byte
}

// Hash encodes value as a PHC-style Argon2id string.
func Hash(value string) (string, error) {
	salt := make([]byte, saltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", err
	}
	p := params{memory: defaultMemory, time: defaultTime, threads: defaultThreads, salt: salt}
	p.hash = argon2.IDKey([]byte(value), p.salt, p.time, p.memory, p.threads, keyLen)
	return p.encode(), nil
}

// IsHash reports whether configured looks like output of Hash.
func IsHash(configured string) bool {
	return strings.HasPrefix(strings.TrimSpace(configured), prefix)
}

// Matches compares a presented secret against the configured one, which may be
// either plaintext or an Argon2id hash. Comparison is constant time.
func Matches(presented, configured string) bool {
	configured = strings.TrimSpace(configured)
	if presented == "" || configured == "" {
		return false
	}
	if !IsHash(configured) {
		return subtle.ConstantTimeCompare([]byte(presented), []byte(configured)) == 1
	}
	p, err := decode(configured)
	if err != nil {
		return false
	}
	check := argon2.IDKey([]byte(presented), p.salt, p.time, p.memory, p.threads, uint32(len(p.hash)))
	return subtle.ConstantTimeCompare(p.hash, check) == 1
}

func (p params) encode() string {
	return fmt.Sprintf("%sv=%d$m=%d,t=%d,p=%d$%s$%s",
		prefix, argon2.Version, p.memory, p.time, p.threads,
		base64.RawStdEncoding.EncodeToString(p.salt),
		base64.RawStdEncoding.EncodeToString(p.hash),
	)
}

func decode(encoded string) (params, error) {
	parts := strings.Split(encoded, "$")
	if len(parts) != 6 || parts[1] != "argon2id" {
		return params{}, ErrMalformedHash
	}

	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil || version != argon2.Version {
		return params{}, ErrMalformedHash
	}

	var p params
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &p.memory, &p.time, &p.threads); err != nil {
		return params{}, ErrMalformedHash
	}
	if p.memory == 0 || p.time == 0 || p.threads == 0 {
		return params{}, ErrMalformedHash
	}

	var err error
	if p.salt, err = base64.RawStdEncoding.DecodeString(parts[4]); err != nil {
		return params{}, ErrMalformedHash
	}
	if p.hash, err = base64.RawStdEncoding.DecodeString(parts[5]); err != nil || len(p.hash) == 0 {
		return params{}, ErrMalformedHash
	}
	return p, nil
}

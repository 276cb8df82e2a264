package hash

import (
	"errors"
	"fmt"
	"strings"

	"github.com/matthewhartstonge/argon2"
	"golang.org/x/crypto/bcrypt"
)

var ErrUnknownAlgorithm = errors.New("unknown password hashing algorithm")

// Hasher hashes passwords one-way with a per-hash random salt.
type Hasher interface {
	Hash(password string) (string, error)
	Verify(password, hash string) bool
}

// New returns the hasher for algo ("bcrypt" or "argon2"). Every returned
// hasher verifies both formats so the algorithm can change without
// invalidating stored hashes.
func New(algo string) (Hasher, error) {
	switch strings.ToLower(algo) {
	case "", "bcrypt":
		return Bcrypt{Cost: bcrypt.DefaultCost}, nil
	case "argon2", "argon2id":
		return Argon2{Config: argon2.DefaultConfig()}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownAlgorithm, algo)
	}
}

type Bcrypt struct {
	Cost int
}

func (b Bcrypt) Hash(password string) (string, error) {
	hashbytes, err := bcrypt.GenerateFromPassword([]byte(password), b.Cost)
	if err != nil {
		return "", fmt.Errorf("bcrypt: %w", err)
	}
	return string(hashbytes), nil
}

func (b Bcrypt) Verify(password, hash string) bool {
	return verify(password, hash)
}

type Argon2 struct {
	Config argon2.Config
}

func (a Argon2) Hash(password string) (string, error) {
	encoded, err := a.Config.HashEncoded([]byte(password))
	if err != nil {
		return "", fmt.Errorf("argon2: %w", err)
	}
	return string(encoded), nil
}

func (a Argon2) Verify(password, hash string) bool {
	return verify(password, hash)
}

func verify(password, hash string) bool {
	if strings.HasPrefix(hash, "$argon2") {
		ok, err := argon2.VerifyEncoded([]byte(password), []byte(hash))
		return err == nil && ok
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

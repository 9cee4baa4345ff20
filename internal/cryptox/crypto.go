// Package cryptox provides the primitives behind encrypted note exports:
// password-based key derivation and authenticated JSON encryption.
package cryptox

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/json"
	"fmt"

	"golang.org/x/crypto/argon2"
)

const (
	// KeySize is the AES-256 key length used for exports.
	KeySize = 32
	// SaltSize is the length of the random salt stored in export headers.
	SaltSize = 16

	nonceSize = 12
)

// DeriveKey stretches a passphrase into an AES-256 key with Argon2id.
// The same passphrase and salt always yield the same key.
func DeriveKey(passphrase, salt []byte) []byte {
	return argon2.IDKey(passphrase, salt, 1, 64*1024, 4, KeySize)
}

// MakeVerifier returns a short digest of the key that an import can check
// before attempting decryption, so a wrong passphrase fails with a clear
// message instead of a GCM authentication error.
func MakeVerifier(key []byte) []byte {
	hash := sha256.Sum256(key)
	return hash[:]
}

// GenerateSalt returns a fresh random salt for a new export.
func GenerateSalt() ([]byte, error) {
	return randBytes(SaltSize)
}

// GenerateKey returns a fresh random AES-256 data key.
func GenerateKey() ([]byte, error) {
	return randBytes(KeySize)
}

// WrapKey seals a raw data key under a key-encryption key, so an export
// can carry its own random data key and only the wrapping depends on the
// passphrase.
func WrapKey(key, kek []byte) (wrapped, nonce []byte, err error) {
	nonce, err = randBytes(nonceSize)
	if err != nil {
		return nil, nil, err
	}

	aesgcm, err := newGCM(kek)
	if err != nil {
		return nil, nil, err
	}

	return aesgcm.Seal(nil, nonce, key, nil), nonce, nil
}

// UnwrapKey recovers a data key sealed by WrapKey.
func UnwrapKey(wrapped, nonce, kek []byte) ([]byte, error) {
	aesgcm, err := newGCM(kek)
	if err != nil {
		return nil, err
	}

	key, err := aesgcm.Open(nil, nonce, wrapped, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to unwrap key: %w", err)
	}
	return key, nil
}

// Encrypt serializes v to JSON and seals it with AES-GCM under key. A new
// random 12-byte nonce is generated per call and returned alongside the
// ciphertext.
func Encrypt(v any, key []byte) (ciphertext, nonce []byte, err error) {
	plaintext, err := json.Marshal(v)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to serialize payload: %w", err)
	}

	nonce, err = randBytes(nonceSize)
	if err != nil {
		return nil, nil, err
	}

	aesgcm, err := newGCM(key)
	if err != nil {
		return nil, nil, err
	}

	return aesgcm.Seal(nil, nonce, plaintext, nil), nonce, nil
}

// Decrypt opens an AES-GCM ciphertext produced by Encrypt and unmarshals
// the recovered JSON into v. The key and nonce must match the ones used
// at encryption time.
func Decrypt(ciphertext, nonce, key []byte, v any) error {
	aesgcm, err := newGCM(key)
	if err != nil {
		return err
	}

	plaintext, err := aesgcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return fmt.Errorf("failed to decrypt payload: %w", err)
	}

	return json.Unmarshal(plaintext, v)
}

func newGCM(key []byte) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("failed to init cipher: %w", err)
	}
	aesgcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to init cipher: %w", err)
	}
	return aesgcm, nil
}

func randBytes(n int) ([]byte, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return nil, fmt.Errorf("failed to read random bytes: %w", err)
	}
	return b, nil
}

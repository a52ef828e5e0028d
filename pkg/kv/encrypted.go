package kv

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"

	"golang.org/x/crypto/chacha20poly1305"
)

var ErrCorruptedValue = errors.New("stored value cannot be decrypted")

type encryptedStore struct {
	impl Store
	aead cipherAEAD
}

type cipherAEAD interface {
	NonceSize() int
	Seal(dst, nonce, plaintext, additionalData []byte) []byte
	Open(dst, nonce, ciphertext, additionalData []byte) ([]byte, error)
}

// NewEncryptedStore seals every value with XChaCha20-Poly1305 before it reaches impl.
// The key name is bound as additional data so values cannot be swapped between keys.
func NewEncryptedStore(impl Store, key []byte) (Store, error) {
	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return nil, fmt.Errorf("init store cipher: %w", err)
	}

	return &encryptedStore{impl: impl, aead: aead}, nil
}

func (s *encryptedStore) Get(ctx context.Context, key string) (string, bool, error) {
	sealed, found, err := s.impl.Get(ctx, key)
	if err != nil || !found {
		return "", found, err
	}

	raw, err := base64.RawStdEncoding.DecodeString(sealed)
	if err != nil || len(raw) < s.aead.NonceSize() {
		return "", false, fmt.Errorf("%w: key %s", ErrCorruptedValue, key)
	}

	nonce, ciphertext := raw[:s.aead.NonceSize()], raw[s.aead.NonceSize():]
	plaintext, err := s.aead.Open(nil, nonce, ciphertext, []byte(key))
	if err != nil {
		return "", false, fmt.Errorf("%w: key %s", ErrCorruptedValue, key)
	}

	return string(plaintext), true, nil
}

func (s *encryptedStore) Set(ctx context.Context, key, value string) error {
	sealed, err := s.seal(key, value)
	if err != nil {
		return err
	}

	return s.impl.Set(ctx, key, sealed)
}

func (s *encryptedStore) SetMany(ctx context.Context, entries map[string]string) error {
	sealedEntries := make(map[string]string, len(entries))
	for k, v := range entries {
		sealed, err := s.seal(k, v)
		if err != nil {
			return err
		}
		sealedEntries[k] = sealed
	}

	return s.impl.SetMany(ctx, sealedEntries)
}

func (s *encryptedStore) RemoveMany(ctx context.Context, keys ...string) error {
	return s.impl.RemoveMany(ctx, keys...)
}

func (s *encryptedStore) seal(key, value string) (string, error) {
	nonce := make([]byte, s.aead.NonceSize(), s.aead.NonceSize()+len(value)+chacha20poly1305.Overhead)
	if _, err := rand.Read(nonce); err != nil {
		return "", fmt.Errorf("generate nonce: %w", err)
	}

	sealed := s.aead.Seal(nonce, nonce, []byte(value), []byte(key))
	return base64.RawStdEncoding.EncodeToString(sealed), nil
}

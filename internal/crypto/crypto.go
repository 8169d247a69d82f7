// Package crypto encrypts notification tokens at rest.
//
// Values are sealed with AES-256-GCM under a key derived from a passphrase
// with PBKDF2-SHA256. Each sealed value carries its own random salt and nonce
// and is encoded as "v1:" + base64(salt || nonce || ciphertext). Values without
// the prefix are treated as plaintext written before encryption was enabled.
package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"golang.org/x/crypto/pbkdf2"
)

const (
	saltSize   = 16
	iterations = 100000
	keySize    = 32 // AES-256
	prefix     = "v1:"
)

// ErrDecrypt is returned when a sealed value cannot be opened with the key.
var ErrDecrypt = errors.New("decrypting value")

// Encryptor handles encryption and decryption of sensitive data
type Encryptor struct {
	passphrase []byte

	mu   sync.Mutex
	keys map[string][]byte // salt → derived key
}

// NewEncryptor creates a new encryptor with the given passphrase. An empty
// passphrase returns nil, and a nil Encryptor passes values through.
func NewEncryptor(passphrase string) *Encryptor {
	if passphrase == "" {
		return nil
	}
	return &Encryptor{
		passphrase: []byte(passphrase),
		keys:       make(map[string][]byte),
	}
}

// Enabled reports whether values will actually be encrypted.
func (e *Encryptor) Enabled() bool {
	return e != nil
}

// IsSealed reports whether value looks like the output of Encrypt.
func IsSealed(value string) bool {
	return strings.HasPrefix(value, prefix)
}

func (e *Encryptor) key(salt []byte) []byte {
	e.mu.Lock()
	defer e.mu.Unlock()

	if k, ok := e.keys[string(salt)]; ok {
		return k
	}
	k := pbkdf2.Key(e.passphrase, salt, iterations, keySize, sha256.New)
	e.keys[string(salt)] = k
	return k
}

func (e *Encryptor) gcm(salt []byte) (cipher.AEAD, error) {
	block, err := aes.NewCipher(e.key(salt))
	if err != nil {
		return nil, fmt.Errorf("creating cipher: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("creating GCM: %w", err)
	}
	return gcm, nil
}

// Encrypt seals plaintext. Empty strings stay empty.
func (e *Encryptor) Encrypt(plaintext string) (string, error) {
	if e == nil || plaintext == "" {
		return plaintext, nil
	}

	salt := make([]byte, saltSize)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return "", fmt.Errorf("generating salt: %w", err)
	}

	gcm, err := e.gcm(salt)
	if err != nil {
		return "", err
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", fmt.Errorf("generating nonce: %w", err)
	}

	out := make([]byte, 0, saltSize+len(nonce)+len(plaintext)+gcm.Overhead())
	out = append(out, salt...)
	out = append(out, nonce...)
	out = gcm.Seal(out, nonce, []byte(plaintext), nil)

	return prefix + base64.StdEncoding.EncodeToString(out), nil
}

// Decrypt opens a value produced by Encrypt. Unsealed values are returned as
// they are.
func (e *Encryptor) Decrypt(value string) (string, error) {
	if !IsSealed(value) {
		return value, nil
	}
	if e == nil {
		return "", fmt.Errorf("%w: no encryption key configured", ErrDecrypt)
	}

	data, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(value, prefix))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrDecrypt, err)
	}
	if len(data) < saltSize {
		return "", fmt.Errorf("%w: ciphertext too short", ErrDecrypt)
	}

	salt, rest := data[:saltSize], data[saltSize:]
	gcm, err := e.gcm(salt)
	if err != nil {
		return "", err
	}

	nonceSize := gcm.NonceSize()
	if len(rest) < nonceSize {
		return "", fmt.Errorf("%w: ciphertext too short", ErrDecrypt)
	}

	nonce, sealed := rest[:nonceSize], rest[nonceSize:]
	plaintext, err := gcm.Open(nil, nonce, sealed, nil)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrDecrypt, err)
	}

	return string(plaintext), nil
}

// Package securestore persists the session's token pair on disk. With a
// passphrase configured the vault body is AES-256-GCM encrypted under a
// scrypt-derived key; without one it falls back to plaintext, which is only
// acceptable for development.
package securestore

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"golang.org/x/crypto/scrypt"
)

var magic = []byte("HRV1")

const saltSize = 16

var ErrCorrupt = errors.New("securestore: vault corrupt or wrong passphrase")

type FileVault struct {
	path       string
	passphrase string
}

func NewFileVault(path, passphrase string) *FileVault {
	return &FileVault{path: path, passphrase: passphrase}
}

func (v *FileVault) Encrypted() bool {
	return v.passphrase != ""
}

// Get returns the stored value for name and whether it was present.
func (v *FileVault) Get(name string) (string, bool, error) {
	values, err := v.read()
	if err != nil {
		return "", false, err
	}
	value, ok := values[name]
	return value, ok, nil
}

func (v *FileVault) Set(name, value string) error {
	values, err := v.read()
	if err != nil {
		return err
	}
	values[name] = value
	return v.write(values)
}

func (v *FileVault) Delete(name string) error {
	values, err := v.read()
	if err != nil {
		return err
	}
	if _, ok := values[name]; !ok {
		return nil
	}
	delete(values, name)
	return v.write(values)
}

func (v *FileVault) read() (map[string]string, error) {
	raw, err := os.ReadFile(v.path)
	if errors.Is(err, os.ErrNotExist) {
		return map[string]string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("securestore: read vault: %w", err)
	}

	if v.Encrypted() {
		raw, err = v.decrypt(raw)
		if err != nil {
			return nil, err
		}
	}

	values := map[string]string{}
	if err := json.Unmarshal(raw, &values); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	return values, nil
}

func (v *FileVault) write(values map[string]string) error {
	raw, err := json.Marshal(values)
	if err != nil {
		return fmt.Errorf("securestore: encode vault: %w", err)
	}
	if v.Encrypted() {
		raw, err = v.encrypt(raw)
		if err != nil {
			return err
		}
	}
	if err := os.MkdirAll(filepath.Dir(v.path), 0o700); err != nil {
		return fmt.Errorf("securestore: create vault dir: %w", err)
	}
	if err := os.WriteFile(v.path, raw, 0o600); err != nil {
		return fmt.Errorf("securestore: write vault: %w", err)
	}
	return nil
}

func (v *FileVault) encrypt(plain []byte) ([]byte, error) {
	salt := make([]byte, saltSize)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return nil, fmt.Errorf("securestore: salt: %w", err)
	}
	gcm, err := v.aead(salt)
	if err != nil {
		return nil, err
	}
	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, fmt.Errorf("securestore: nonce: %w", err)
	}
	sealed := gcm.Seal(nil, nonce, plain, magic)

	out := make([]byte, 0, len(magic)+saltSize+len(nonce)+len(sealed))
	out = append(out, magic...)
	out = append(out, salt...)
	out = append(out, nonce...)
	out = append(out, sealed...)
	return out, nil
}

func (v *FileVault) decrypt(raw []byte) ([]byte, error) {
	if len(raw) < len(magic)+saltSize || !bytes.HasPrefix(raw, magic) {
		return nil, ErrCorrupt
	}
	raw = raw[len(magic):]
	salt := raw[:saltSize]
	gcm, err := v.aead(salt)
	if err != nil {
		return nil, err
	}
	raw = raw[saltSize:]
	if len(raw) < gcm.NonceSize() {
		return nil, ErrCorrupt
	}
	nonce := raw[:gcm.NonceSize()]
	plain, err := gcm.Open(nil, nonce, raw[gcm.NonceSize():], magic)
	if err != nil {
		return nil, ErrCorrupt
	}
	return plain, nil
}

func (v *FileVault) aead(salt []byte) (cipher.AEAD, error) {
	key, err := scrypt.Key([]byte(v.passphrase), salt, 1<<15, 8, 1, 32)
	if err != nil {
		return nil, fmt.Errorf("securestore: derive key: %w", err)
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}

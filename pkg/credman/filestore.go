package credman

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

const (
	keyFileName = "credman.key"
	fileMode    = 0o600
)

// fileStore keeps one AES-GCM encrypted credential per file, with the
// key in a sibling 0600 file. Used only when no OS keyring backend is
// available.
type fileStore struct {
	dir string
}

func newFileStore(dir string) *fileStore {
	return &fileStore{dir: dir}
}

func (s *fileStore) credPath(username string) string {
	return filepath.Join(s.dir, "slsk-"+username+".cred")
}

func (s *fileStore) set(username, password string) error {
	key, err := s.loadOrCreateKey()
	if err != nil {
		return err
	}
	sealed, err := encrypt([]byte(password), key)
	if err != nil {
		return err
	}
	return os.WriteFile(s.credPath(username), sealed, fileMode)
}

func (s *fileStore) get(username string) (string, error) {
	key, err := s.loadKey()
	if err != nil {
		return "", err
	}
	sealed, err := os.ReadFile(s.credPath(username))
	if err != nil {
		return "", err
	}
	pw, err := decrypt(sealed, key)
	if err != nil {
		return "", err
	}
	return string(pw), nil
}

func (s *fileStore) delete(username string) error {
	err := os.Remove(s.credPath(username))
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

func (s *fileStore) keyPath() string {
	return filepath.Join(s.dir, keyFileName)
}

func (s *fileStore) loadKey() ([]byte, error) {
	data, err := os.ReadFile(s.keyPath())
	if err != nil {
		return nil, err
	}
	key, err := hex.DecodeString(string(data))
	if err != nil {
		return nil, fmt.Errorf("invalid key format: %w", err)
	}
	if len(key) != 32 {
		return nil, fmt.Errorf("invalid key length: expected 32, got %d", len(key))
	}
	return key, nil
}

func (s *fileStore) loadOrCreateKey() ([]byte, error) {
	if key, err := s.loadKey(); err == nil {
		return key, nil
	} else if !os.IsNotExist(err) {
		return nil, err
	}

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return nil, fmt.Errorf("create credman dir: %w", err)
	}
	key := make([]byte, 32)
	if _, err := rand.Read(key); err != nil {
		return nil, fmt.Errorf("generate key: %w", err)
	}
	if err := os.WriteFile(s.keyPath(), []byte(hex.EncodeToString(key)), fileMode); err != nil {
		return nil, fmt.Errorf("write key file: %w", err)
	}
	return key, nil
}

func encrypt(plaintext, key []byte) ([]byte, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}
	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, err
	}
	return append(nonce, gcm.Seal(nil, nonce, plaintext, nil)...), nil
}

func decrypt(sealed, key []byte) ([]byte, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}
	if len(sealed) < gcm.NonceSize() {
		return nil, fmt.Errorf("ciphertext too short")
	}
	nonce, data := sealed[:gcm.NonceSize()], sealed[gcm.NonceSize():]
	return gcm.Open(nil, nonce, data, nil)
}

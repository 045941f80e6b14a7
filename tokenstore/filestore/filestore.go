package filestore

import (
	"bytes"
	"context"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/jrsteele09/go-auth-client/tokenstore"
	"github.com/pkg/errors"
	"golang.org/x/crypto/chacha20poly1305"
	"golang.org/x/crypto/hkdf"
)

const (
	sealedMagic = "GACSEAL1"
	keySalt     = "go-auth-client/token-store"
)

var _ tokenstore.Store = (*FileStore)(nil)

// FileStore keeps credentials in a single JSON document on disk. Writes go to a
// temporary file in the same directory which is then renamed over the target,
// so readers see either the old pair or the new pair.
type FileStore struct {
	path string
	aead cipher.AEAD
	lock sync.Mutex
}

type Option func(*FileStore) error

// WithPassphrase encrypts the document at rest with XChaCha20-Poly1305 using a
// key derived from passphrase. An empty passphrase leaves the store in plaintext.
func WithPassphrase(passphrase string) Option {
	return func(fs *FileStore) error {
		if passphrase == "" {
			return nil
		}
		key := make([]byte, chacha20poly1305.KeySize)
		if _, err := io.ReadFull(hkdf.New(sha256.New, []byte(passphrase), []byte(keySalt), nil), key); err != nil {
			return errors.Wrap(err, "derive key")
		}
		aead, err := chacha20poly1305.NewX(key)
		if err != nil {
			return errors.Wrap(err, "chacha20poly1305.NewX")
		}
		fs.aead = aead
		return nil
	}
}

func New(path string, options ...Option) (*FileStore, error) {
	if path == "" {
		return nil, storageErr(errors.New("token store path is empty"))
	}
	fs := &FileStore{path: path}
	for _, opt := range options {
		if err := opt(fs); err != nil {
			return nil, storageErr(errors.Wrap(err, "filestore.New"))
		}
	}
	return fs, nil
}

func (fs *FileStore) Path() string {
	return fs.path
}

func (fs *FileStore) Save(ctx context.Context, creds tokenstore.StoredCredentials) error {
	if err := ctx.Err(); err != nil {
		return storageErr(err)
	}

	data, err := json.Marshal(creds)
	if err != nil {
		return storageErr(errors.Wrap(err, "FileStore.Save json.Marshal"))
	}
	if data, err = fs.seal(data); err != nil {
		return storageErr(errors.Wrap(err, "FileStore.Save seal"))
	}

	fs.lock.Lock()
	defer fs.lock.Unlock()

	if err := writeFileAtomic(fs.path, data); err != nil {
		return storageErr(errors.Wrap(err, "FileStore.Save"))
	}
	return nil
}

func (fs *FileStore) Read(ctx context.Context) (tokenstore.StoredCredentials, bool, error) {
	if err := ctx.Err(); err != nil {
		return tokenstore.StoredCredentials{}, false, storageErr(err)
	}

	fs.lock.Lock()
	data, err := os.ReadFile(fs.path)
	fs.lock.Unlock()

	if errors.Is(err, os.ErrNotExist) {
		return tokenstore.StoredCredentials{}, false, nil
	}
	if err != nil {
		return tokenstore.StoredCredentials{}, false, storageErr(errors.Wrap(err, "FileStore.Read"))
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return tokenstore.StoredCredentials{}, false, nil
	}

	if data, err = fs.open(data); err != nil {
		return tokenstore.StoredCredentials{}, false, storageErr(errors.Wrap(err, "FileStore.Read open"))
	}

	var creds tokenstore.StoredCredentials
	if err := json.Unmarshal(data, &creds); err != nil {
		return tokenstore.StoredCredentials{}, false, storageErr(errors.Wrap(err, "FileStore.Read json.Unmarshal"))
	}
	return creds, creds.HasAccessToken(), nil
}

func (fs *FileStore) Clear(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return storageErr(err)
	}

	fs.lock.Lock()
	defer fs.lock.Unlock()

	if err := os.Remove(fs.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return storageErr(errors.Wrap(err, "FileStore.Clear"))
	}
	return nil
}

func (fs *FileStore) seal(plaintext []byte) ([]byte, error) {
	if fs.aead == nil {
		return plaintext, nil
	}
	nonce := make([]byte, fs.aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return nil, err
	}
	out := append([]byte(sealedMagic), nonce...)
	return fs.aead.Seal(out, nonce, plaintext, []byte(sealedMagic)), nil
}

func (fs *FileStore) open(data []byte) ([]byte, error) {
	if !bytes.HasPrefix(data, []byte(sealedMagic)) {
		// plaintext documents stay readable after a passphrase is configured
		return data, nil
	}
	if fs.aead == nil {
		return nil, errors.New("credentials are encrypted and no passphrase is configured")
	}
	body := data[len(sealedMagic):]
	if len(body) < fs.aead.NonceSize() {
		return nil, errors.New("encrypted credentials are truncated")
	}
	nonce, ciphertext := body[:fs.aead.NonceSize()], body[fs.aead.NonceSize():]
	return fs.aead.Open(nil, nonce, ciphertext, []byte(sealedMagic))
}

func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return errors.Wrap(err, "os.MkdirAll")
	}

	tmp, err := os.CreateTemp(dir, ".credentials-*")
	if err != nil {
		return errors.Wrap(err, "os.CreateTemp")
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) // no-op once renamed

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return errors.Wrap(err, "write")
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return errors.Wrap(err, "sync")
	}
	if err := tmp.Close(); err != nil {
		return errors.Wrap(err, "close")
	}
	if err := os.Chmod(tmpName, 0o600); err != nil {
		return errors.Wrap(err, "chmod")
	}
	return errors.Wrap(os.Rename(tmpName, path), "rename")
}

func storageErr(err error) error {
	return fmt.Errorf("%w: %w", tokenstore.ErrStorage, err)
}

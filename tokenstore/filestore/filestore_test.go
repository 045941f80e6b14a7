package filestore_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/jrsteele09/go-auth-client/tokenstore"
	"github.com/jrsteele09/go-auth-client/tokenstore/filestore"
	"github.com/stretchr/testify/require"
)

func newStore(t *testing.T, options ...filestore.Option) (*filestore.FileStore, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "nested", "credentials.json")
	fs, err := filestore.New(path, options...)
	require.NoError(t, err)
	return fs, path
}

func TestFileStore_SaveReadClear(t *testing.T) {
	ctx := context.Background()
	fs, path := newStore(t)

	_, found, err := fs.Read(ctx)
	require.NoError(t, err)
	require.False(t, found, "fresh install has no credentials")

	require.NoError(t, fs.Save(ctx, tokenstore.StoredCredentials{AccessToken: "tokA", RefreshToken: "refA"}))

	creds, found, err := fs.Read(ctx)
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, "tokA", creds.AccessToken)
	require.Equal(t, "refA", creds.RefreshToken)

	info, err := os.Stat(path)
	require.NoError(t, err)
	require.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	require.NoError(t, fs.Save(ctx, tokenstore.StoredCredentials{AccessToken: "tokB"}))
	creds, found, err = fs.Read(ctx)
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, "tokB", creds.AccessToken)
	require.Empty(t, creds.RefreshToken, "overwrite must not keep a stale refresh token")

	require.NoError(t, fs.Clear(ctx))
	require.NoError(t, fs.Clear(ctx), "clear is idempotent")
	_, found, err = fs.Read(ctx)
	require.NoError(t, err)
	require.False(t, found)
}

func TestFileStore_ToleratesMissingKeys(t *testing.T) {
	ctx := context.Background()
	fs, path := newStore(t)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o700))

	t.Run("refresh token only", func(t *testing.T) {
		require.NoError(t, os.WriteFile(path, []byte(`{"refreshToken":"r"}`), 0o600))
		creds, found, err := fs.Read(ctx)
		require.NoError(t, err)
		require.False(t, found)
		require.Equal(t, "r", creds.RefreshToken)
	})

	t.Run("access token only", func(t *testing.T) {
		require.NoError(t, os.WriteFile(path, []byte(`{"accessToken":"a"}`), 0o600))
		creds, found, err := fs.Read(ctx)
		require.NoError(t, err)
		require.True(t, found)
		require.Equal(t, "a", creds.AccessToken)
	})

	t.Run("empty file", func(t *testing.T) {
		require.NoError(t, os.WriteFile(path, nil, 0o600))
		_, found, err := fs.Read(ctx)
		require.NoError(t, err)
		require.False(t, found)
	})
}

func TestFileStore_CorruptDocument(t *testing.T) {
	ctx := context.Background()
	fs, path := newStore(t)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o700))
	require.NoError(t, os.WriteFile(path, []byte(`{"accessToken":`), 0o600))

	_, found, err := fs.Read(ctx)
	require.False(t, found)
	require.ErrorIs(t, err, tokenstore.ErrStorage)
}

func TestFileStore_Encrypted(t *testing.T) {
	ctx := context.Background()
	fs, path := newStore(t, filestore.WithPassphrase("correct horse"))

	require.NoError(t, fs.Save(ctx, tokenstore.StoredCredentials{AccessToken: "tokA", RefreshToken: "refA"}))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	require.NotContains(t, string(raw), "tokA")

	creds, found, err := fs.Read(ctx)
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, "tokA", creds.AccessToken)

	t.Run("wrong passphrase", func(t *testing.T) {
		other, err := filestore.New(path, filestore.WithPassphrase("battery staple"))
		require.NoError(t, err)
		_, _, err = other.Read(ctx)
		require.ErrorIs(t, err, tokenstore.ErrStorage)
	})

	t.Run("no passphrase", func(t *testing.T) {
		plain, err := filestore.New(path)
		require.NoError(t, err)
		_, _, err = plain.Read(ctx)
		require.ErrorIs(t, err, tokenstore.ErrStorage)
	})

	t.Run("tampered", func(t *testing.T) {
		tampered := append([]byte{}, raw...)
		tampered[len(tampered)-1] ^= 0xff
		require.NoError(t, os.WriteFile(path, tampered, 0o600))
		_, _, err := fs.Read(ctx)
		require.ErrorIs(t, err, tokenstore.ErrStorage)
	})
}

func TestFileStore_PlaintextReadableWithPassphrase(t *testing.T) {
	ctx := context.Background()
	plain, path := newStore(t)
	require.NoError(t, plain.Save(ctx, tokenstore.StoredCredentials{AccessToken: "tokA"}))

	sealed, err := filestore.New(path, filestore.WithPassphrase("secret"))
	require.NoError(t, err)
	creds, found, err := sealed.Read(ctx)
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, "tokA", creds.AccessToken)
}

func TestFileStore_Errors(t *testing.T) {
	_, err := filestore.New("")
	require.ErrorIs(t, err, tokenstore.ErrStorage)

	fs, _ := newStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.ErrorIs(t, fs.Save(ctx, tokenstore.StoredCredentials{AccessToken: "a"}), tokenstore.ErrStorage)
	_, _, err = fs.Read(ctx)
	require.ErrorIs(t, err, tokenstore.ErrStorage)
	require.ErrorIs(t, fs.Clear(ctx), tokenstore.ErrStorage)
}

package storage_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/bizledger-api/internal/infrastructure/storage"
)

func TestLocalStorage_GuardaYBorra(t *testing.T) {
	root := t.TempDir()
	s, err := storage.NewLocalStorage(root)
	require.NoError(t, err)
	ctx := context.Background()

	p, err := s.Save(ctx, "signatures", "sale-1.png", []byte("png"))
	require.NoError(t, err)
	assert.Equal(t, "/uploads/signatures/sale-1.png", p)

	data, err := os.ReadFile(filepath.Join(root, "signatures", "sale-1.png"))
	require.NoError(t, err)
	assert.Equal(t, "png", string(data))

	require.NoError(t, s.Remove(ctx, p))
	_, err = os.Stat(filepath.Join(root, "signatures", "sale-1.png"))
	assert.True(t, os.IsNotExist(err))

	// borrar dos veces no es error
	require.NoError(t, s.Remove(ctx, p))
}

func TestLocalStorage_NoSaleDelDirectorio(t *testing.T) {
	root := t.TempDir()
	s, err := storage.NewLocalStorage(filepath.Join(root, "uploads"))
	require.NoError(t, err)

	p, err := s.Save(context.Background(), "../../etc", "../passwd", []byte("x"))
	require.NoError(t, err)
	assert.Equal(t, "/uploads/etc/passwd", p)
	_, err = os.Stat(filepath.Join(root, "uploads", "etc", "passwd"))
	assert.NoError(t, err)

	require.NoError(t, s.Remove(context.Background(), "/etc/hosts"))
}

func TestLocalStorage_SubdirectorioAnidado(t *testing.T) {
	root := t.TempDir()
	s, err := storage.NewLocalStorage(root)
	require.NoError(t, err)

	p, err := s.Save(context.Background(), "signatures/biz-1", "sale-1.jpg", []byte("jpg"))
	require.NoError(t, err)
	assert.Equal(t, "/uploads/signatures/biz-1/sale-1.jpg", p)
	_, err = os.Stat(filepath.Join(root, "signatures", "biz-1", "sale-1.jpg"))
	assert.NoError(t, err)
}

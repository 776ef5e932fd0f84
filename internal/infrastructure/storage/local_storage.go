// Package storage guarda archivos subidos (avatares, firmas) en disco.
package storage

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/jhoicas/bizledger-api/internal/application/ports"
)

var _ ports.FileStorage = (*LocalStorage)(nil)

// PublicPrefix ruta bajo la que el servidor HTTP expone el directorio de subidas.
const PublicPrefix = "/uploads"

// LocalStorage escribe bajo root y devuelve rutas públicas /uploads/<dir>/<name>.
type LocalStorage struct {
	root string
}

// NewLocalStorage crea el directorio raíz si no existe.
func NewLocalStorage(root string) (*LocalStorage, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("crear directorio de subidas: %w", err)
	}
	return &LocalStorage{root: root}, nil
}

// Root directorio físico (para servir estáticos).
func (s *LocalStorage) Root() string { return s.root }

func (s *LocalStorage) Save(_ context.Context, dir, name string, data []byte) (string, error) {
	// Clean sobre una ruta absoluta descarta los ".." antes de quitar la barra inicial.
	dir = strings.TrimPrefix(path.Clean("/"+filepath.ToSlash(dir)), "/")
	name = filepath.Base(name)
	if dir == "" || name == "." || name == "/" {
		return "", fmt.Errorf("ruta de archivo inválida: %s/%s", dir, name)
	}
	full := filepath.Join(s.root, filepath.FromSlash(dir))
	if err := os.MkdirAll(full, 0o755); err != nil {
		return "", fmt.Errorf("crear directorio %s: %w", dir, err)
	}
	if err := os.WriteFile(filepath.Join(full, name), data, 0o644); err != nil {
		return "", fmt.Errorf("guardar %s: %w", name, err)
	}
	return path.Join(PublicPrefix, dir, name), nil
}

// Remove borra un archivo a partir de su ruta pública. Rutas ajenas a /uploads se ignoran.
func (s *LocalStorage) Remove(_ context.Context, publicPath string) error {
	rel := strings.TrimPrefix(path.Clean(publicPath), PublicPrefix+"/")
	if rel == publicPath || rel == "" || strings.HasPrefix(rel, "..") {
		return nil
	}
	err := os.Remove(filepath.Join(s.root, filepath.FromSlash(rel)))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("borrar %s: %w", publicPath, err)
	}
	return nil
}

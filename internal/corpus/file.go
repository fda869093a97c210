package corpus

import (
	"bytes"
	"context"
	"encoding/gob"
	"os"
	"path/filepath"

	"github.com/rotisserie/eris"
)

// FileStore keeps one gob file per bundle under a directory. It is the
// default store and needs no external service.
type FileStore struct {
	dir string
}

func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, eris.Wrapf(err, "create bundle dir %s", dir)
	}
	return &FileStore{dir: dir}, nil
}

func (s *FileStore) path(key string) string {
	return filepath.Join(s.dir, key+".gob")
}

func (s *FileStore) Save(_ context.Context, key string, b *Bundle) error {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(b); err != nil {
		return eris.Wrapf(err, "encode bundle %s", key)
	}

	// Write-then-rename so a crash never leaves a torn bundle behind.
	tmp, err := os.CreateTemp(s.dir, key+".tmp-*")
	if err != nil {
		return eris.Wrap(err, "create temp bundle file")
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(buf.Bytes()); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return eris.Wrapf(err, "write bundle %s", key)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return eris.Wrapf(err, "close bundle %s", key)
	}
	if err := os.Rename(tmpName, s.path(key)); err != nil {
		os.Remove(tmpName)
		return eris.Wrapf(err, "publish bundle %s", key)
	}
	return nil
}

func (s *FileStore) Load(_ context.Context, key string) (*Bundle, error) {
	data, err := os.ReadFile(s.path(key))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, eris.Wrapf(err, "read bundle %s", key)
	}
	var b Bundle
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&b); err != nil {
		return nil, eris.Wrapf(err, "decode bundle %s", key)
	}
	return &b, nil
}

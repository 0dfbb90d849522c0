package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"

	"internwatch/internal/domain"
)

// FileStore keeps the seen ids as a flat JSON array, rewritten in full on
// every Persist. A sibling .lock file guards readers against a half-swapped
// file when a second tool reads the state.
type FileStore struct {
	Path string
	lock *flock.Flock
}

func NewFileStore(path string) *FileStore {
	return &FileStore{
		Path: path,
		lock: flock.New(path + ".lock"),
	}
}

func (s *FileStore) Load(ctx context.Context) ([]string, error) {
	if err := s.acquire(ctx, true); err != nil {
		return nil, err
	}
	defer func() { _ = s.lock.Unlock() }()

	b, err := os.ReadFile(s.Path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %v", domain.ErrPersistence, s.Path, err)
	}

	var ids []string
	if err := json.Unmarshal(b, &ids); err != nil {
		return nil, fmt.Errorf("%w: decode %s: %v", domain.ErrPersistence, s.Path, err)
	}
	return ids, nil
}

func (s *FileStore) Persist(ctx context.Context, ids []string) error {
	if ids == nil {
		ids = []string{}
	}
	b, err := json.MarshalIndent(ids, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: encode: %v", domain.ErrPersistence, err)
	}

	if err := os.MkdirAll(filepath.Dir(s.Path), 0o755); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrPersistence, err)
	}
	if err := s.acquire(ctx, false); err != nil {
		return err
	}
	defer func() { _ = s.lock.Unlock() }()

	tmp := s.Path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		return fmt.Errorf("%w: write %s: %v", domain.ErrPersistence, tmp, err)
	}
	if err := os.Rename(tmp, s.Path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("%w: rename %s: %v", domain.ErrPersistence, tmp, err)
	}
	return nil
}

func (s *FileStore) acquire(ctx context.Context, shared bool) error {
	lctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var (
		ok  bool
		err error
	)
	if shared {
		ok, err = s.lock.TryRLockContext(lctx, 50*time.Millisecond)
	} else {
		ok, err = s.lock.TryLockContext(lctx, 50*time.Millisecond)
	}
	if err != nil {
		return fmt.Errorf("%w: lock %s: %v", domain.ErrPersistence, s.Path, err)
	}
	if !ok {
		return fmt.Errorf("%w: lock %s busy", domain.ErrPersistence, s.Path)
	}
	return nil
}

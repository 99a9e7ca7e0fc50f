// Package region implements durable, compressed, randomly-accessible chunk
// storage. Chunks are grouped 32×32 into shared region files with
// sector-granular allocation and advisory cross-process locking.
package region

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/blockforge/worldstore/pkg/world/gen"
)

type regionPos struct{ X, Z int }

// regionOf maps a chunk to its owning region by floor division. Arithmetic
// shift keeps negative coordinates correct.
func regionOf(pos gen.ChunkPos) regionPos {
	return regionPos{X: pos.X >> 5, Z: pos.Z >> 5}
}

func slotIndex(pos gen.ChunkPos) int {
	return (pos.X & (GridSize - 1)) + (pos.Z&(GridSize-1))*GridSize
}

// Store maps chunk coordinates to region files under one directory. Region
// files are created lazily on first write and kept open for reuse.
type Store struct {
	dir         string
	scheme      Scheme
	lockTimeout time.Duration
	log         *slog.Logger

	mu      sync.Mutex
	regions map[regionPos]*File
}

// Open creates a Store rooted at dir, creating the directory as needed.
func Open(dir string, scheme Scheme, lockTimeout time.Duration, log *slog.Logger) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create region dir: %w", err)
	}
	return &Store{
		dir:         dir,
		scheme:      scheme,
		lockTimeout: lockTimeout,
		log:         log,
		regions:     make(map[regionPos]*File),
	}, nil
}

func (s *Store) regionPath(rp regionPos) string {
	return filepath.Join(s.dir, fmt.Sprintf("r.%d.%d.mca", rp.X, rp.Z))
}

// region returns the open File for rp. When create is false and the file
// does not exist on disk, it returns (nil, nil): the chunk is absent.
func (s *Store) region(rp regionPos, create bool) (*File, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if rf, ok := s.regions[rp]; ok {
		return rf, nil
	}

	path := s.regionPath(rp)
	if !create {
		if _, err := os.Stat(path); err != nil {
			if os.IsNotExist(err) {
				return nil, nil
			}
			return nil, fmt.Errorf("stat region file: %w", err)
		}
	}

	rf, err := openFile(path, s.lockTimeout)
	if err != nil {
		return nil, err
	}
	s.regions[rp] = rf
	s.log.Debug("opened region file", "path", path)
	return rf, nil
}

// Load returns the stored payload for pos. The bool result is false when the
// chunk has never been stored; that is not an error. Corruption is reported
// per chunk and leaves the rest of the region file accessible.
func (s *Store) Load(pos gen.ChunkPos) ([]byte, bool, error) {
	rf, err := s.region(regionOf(pos), false)
	if err != nil {
		return nil, false, err
	}
	if rf == nil {
		return nil, false, nil
	}
	return rf.load(slotIndex(pos), pos)
}

// Store compresses and durably writes the payload for pos, creating the
// region file if needed. On return the chunk is on disk and a subsequent
// Load observes this version.
func (s *Store) Store(pos gen.ChunkPos, payload []byte) error {
	rf, err := s.region(regionOf(pos), true)
	if err != nil {
		return err
	}
	return rf.store(slotIndex(pos), pos, payload, s.scheme)
}

// Close closes all open region files.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var firstErr error
	for rp, rf := range s.regions {
		if err := rf.close(); err != nil && firstErr == nil {
			firstErr = err
		}
		delete(s.regions, rp)
	}
	return firstErr
}

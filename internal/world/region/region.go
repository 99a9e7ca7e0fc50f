package region

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"sync"
	"time"

	"github.com/gofrs/flock"

	"github.com/blockforge/worldstore/pkg/world/gen"
)

// On-disk layout: two header sectors (slot table, then timestamp table),
// followed by sector-aligned chunk payloads. A slot entry is a big-endian
// uint32 packing (firstSector<<8)|sectorCount; zero means the slot is empty.
// A payload starts with a 4-byte big-endian length (compressed size plus the
// scheme byte), one compression-scheme byte, then the compressed bytes,
// zero-padded to whole sectors.
const (
	// GridSize is the number of chunks per region file side.
	GridSize = 32

	sectorSize    = 4096
	headerSectors = 2
	slotCount     = GridSize * GridSize

	// The sector count field is a single byte.
	maxChunkSectors = 255
)

// File is one open region file. All slot-table mutation happens under mu;
// cross-process writers are excluded per store call by an advisory flock on
// the file path. The lock is cooperative: a process that bypasses it can
// still corrupt the file.
type File struct {
	path        string
	f           *os.File
	lockTimeout time.Duration

	mu         sync.Mutex
	locations  [slotCount]uint32
	timestamps [slotCount]uint32
}

func openFile(path string, lockTimeout time.Duration) (*File, error) {
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open region file: %w", err)
	}

	rf := &File{path: path, f: f, lockTimeout: lockTimeout}

	st, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("stat region file: %w", err)
	}

	if st.Size() == 0 {
		// Fresh file: reserve the header sectors.
		if _, err := f.Write(make([]byte, headerSectors*sectorSize)); err != nil {
			f.Close()
			return nil, fmt.Errorf("write region header: %w", err)
		}
		if err := f.Sync(); err != nil {
			f.Close()
			return nil, fmt.Errorf("sync region header: %w", err)
		}
		return rf, nil
	}

	if st.Size() < headerSectors*sectorSize {
		f.Close()
		return nil, &IntegrityError{Path: path, Msg: "truncated header"}
	}

	header := make([]byte, headerSectors*sectorSize)
	if _, err := f.ReadAt(header, 0); err != nil {
		f.Close()
		return nil, fmt.Errorf("read region header: %w", err)
	}
	for i := 0; i < slotCount; i++ {
		rf.locations[i] = binary.BigEndian.Uint32(header[i*4:])
		rf.timestamps[i] = binary.BigEndian.Uint32(header[sectorSize+i*4:])
	}

	if err := rf.checkSlotTable(); err != nil {
		f.Close()
		return nil, err
	}
	return rf, nil
}

type sectorRun struct {
	start, count int
}

// usedRuns returns all referenced sector runs sorted by start sector.
func (r *File) usedRuns() []sectorRun {
	runs := make([]sectorRun, 0, slotCount)
	for _, e := range r.locations {
		if e == 0 {
			continue
		}
		runs = append(runs, sectorRun{start: int(e >> 8), count: int(e & 0xFF)})
	}
	sort.Slice(runs, func(i, j int) bool { return runs[i].start < runs[j].start })
	return runs
}

// checkSlotTable verifies no slot references the header and no two slots
// reference overlapping sectors. Violations make the whole file suspect.
func (r *File) checkSlotTable() error {
	runs := r.usedRuns()
	prevEnd := headerSectors
	for _, run := range runs {
		if run.count == 0 {
			return &IntegrityError{Path: r.path, Msg: "slot with zero sector count"}
		}
		if run.start < headerSectors {
			return &IntegrityError{Path: r.path, Msg: "slot allocation inside header"}
		}
		if run.start < prevEnd {
			return &IntegrityError{
				Path: r.path,
				Msg:  fmt.Sprintf("overlapping allocations at sector %d", run.start),
			}
		}
		prevEnd = run.start + run.count
	}
	return nil
}

// allocate picks the smallest free run of at least want sectors, reusing
// holes left by shrunken chunks; with no sufficient hole it appends past the
// last allocation. Caller holds mu.
func (r *File) allocate(want int) int {
	runs := r.usedRuns()

	best, bestSize := -1, 0
	prevEnd := headerSectors
	for _, run := range runs {
		if gap := run.start - prevEnd; gap >= want {
			if best == -1 || gap < bestSize {
				best, bestSize = prevEnd, gap
			}
		}
		prevEnd = run.start + run.count
	}
	if best != -1 {
		return best
	}
	return prevEnd
}

// load reads and decompresses the chunk in slot idx. The bool result is
// false when the slot is empty.
func (r *File) load(idx int, pos gen.ChunkPos) ([]byte, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e := r.locations[idx]
	if e == 0 {
		return nil, false, nil
	}
	start := int(e >> 8)
	count := int(e & 0xFF)

	buf := make([]byte, count*sectorSize)
	if _, err := r.f.ReadAt(buf, int64(start)*sectorSize); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return nil, false, &CorruptionError{Pos: pos, Err: fmt.Errorf("allocation past end of file")}
		}
		return nil, false, fmt.Errorf("read chunk (%s): %w", pos, err)
	}

	length := int(binary.BigEndian.Uint32(buf[0:4]))
	if length < 1 || length > count*sectorSize-4 {
		return nil, false, &CorruptionError{Pos: pos, Err: fmt.Errorf("payload length %d outside sector range", length)}
	}

	scheme := Scheme(buf[4])
	payload, err := decompress(buf[5:4+length], scheme)
	if err != nil {
		return nil, false, &CorruptionError{Pos: pos, Err: err}
	}
	return payload, true, nil
}

// store compresses and writes the chunk into slot idx. The payload is fully
// written and synced before the slot entry is flipped, so a crash in between
// leaves the previous version intact.
func (r *File) store(idx int, pos gen.ChunkPos, data []byte, scheme Scheme) error {
	comp, err := compress(data, scheme)
	if err != nil {
		return fmt.Errorf("store chunk (%s): %w", pos, err)
	}

	total := 4 + 1 + len(comp)
	sectors := (total + sectorSize - 1) / sectorSize
	if sectors > maxChunkSectors {
		return fmt.Errorf("store chunk (%s): compressed payload needs %d sectors, max %d", pos, sectors, maxChunkSectors)
	}

	// Exclude other processes for the whole write sequence.
	fl := flock.New(r.path)
	ctx, cancel := context.WithTimeout(context.Background(), r.lockTimeout)
	defer cancel()
	locked, err := fl.TryLockContext(ctx, 25*time.Millisecond)
	if err != nil || !locked {
		return &LockError{Path: r.path, Timeout: r.lockTimeout}
	}
	defer fl.Unlock()

	r.mu.Lock()
	defer r.mu.Unlock()

	// The slot's current run stays reserved until the pointer flips, so the
	// new payload never lands on bytes the slot still references.
	start := r.allocate(sectors)

	buf := make([]byte, sectors*sectorSize)
	binary.BigEndian.PutUint32(buf[0:4], uint32(len(comp)+1))
	buf[4] = byte(scheme)
	copy(buf[5:], comp)

	if _, err := r.f.WriteAt(buf, int64(start)*sectorSize); err != nil {
		return fmt.Errorf("write chunk (%s): %w", pos, err)
	}
	if err := r.f.Sync(); err != nil {
		return fmt.Errorf("sync chunk (%s): %w", pos, err)
	}

	entry := uint32(start)<<8 | uint32(sectors&0xFF)
	stamp := uint32(time.Now().Unix())

	var eb [4]byte
	binary.BigEndian.PutUint32(eb[:], entry)
	if _, err := r.f.WriteAt(eb[:], int64(idx)*4); err != nil {
		return fmt.Errorf("write slot entry (%s): %w", pos, err)
	}
	binary.BigEndian.PutUint32(eb[:], stamp)
	if _, err := r.f.WriteAt(eb[:], int64(sectorSize+idx*4)); err != nil {
		return fmt.Errorf("write slot timestamp (%s): %w", pos, err)
	}
	if err := r.f.Sync(); err != nil {
		return fmt.Errorf("sync slot entry (%s): %w", pos, err)
	}

	r.locations[idx] = entry
	r.timestamps[idx] = stamp
	return nil
}

func (r *File) close() error {
	return r.f.Close()
}

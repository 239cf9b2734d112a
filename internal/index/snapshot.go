package index

import (
	"encoding/gob"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Snapshot manages a gob-serialized copy of a built index on disk, stored
// next to the transcript source it was built from:
//
//	<transcripts>.idx       (serialized index)
//	<transcripts>.idx.meta  (source file fingerprint)
//
// A snapshot is only reused while the fingerprint of the source still matches.
type Snapshot struct {
	source string // path of the transcript table the index was built from
}

// FileFingerprint holds stat-based identity for a file.
type FileFingerprint struct {
	Path    string
	Size    int64
	ModTime time.Time
}

// StatFile creates a FileFingerprint from an on-disk file.
func StatFile(path string) (FileFingerprint, error) {
	info, err := os.Stat(path)
	if err != nil {
		return FileFingerprint{}, err
	}
	return FileFingerprint{
		Path:    path,
		Size:    info.Size(),
		ModTime: info.ModTime(),
	}, nil
}

// NewSnapshot creates a snapshot handle for the given transcript source path.
func NewSnapshot(source string) *Snapshot {
	return &Snapshot{source: source}
}

func (s *Snapshot) gobPath() string {
	return s.source + ".idx"
}

func (s *Snapshot) metaPath() string {
	return s.source + ".idx.meta"
}

// Valid checks whether the stored snapshot matches the current source file.
func (s *Snapshot) Valid(fp FileFingerprint) bool {
	meta, err := s.readMeta()
	if err != nil {
		return false
	}

	checks := []struct{ key, val string }{
		{"source_size", strconv.FormatInt(fp.Size, 10)},
		{"source_modtime", fp.ModTime.UTC().Format(time.RFC3339Nano)},
	}
	for _, c := range checks {
		if meta[c.key] != c.val {
			return false
		}
	}

	if _, err := os.Stat(s.gobPath()); err != nil {
		return false
	}
	return true
}

// snapshotData is the gob wire form of an index.
type snapshotData struct {
	Transcripts map[string]Table
	Genome      map[genomeKey]location
}

// Load reads a serialized index from disk.
func (s *Snapshot) Load() (*Index, error) {
	f, err := os.Open(s.gobPath())
	if err != nil {
		return nil, fmt.Errorf("open index snapshot: %w", err)
	}
	defer f.Close()

	var data snapshotData
	if err := gob.NewDecoder(f).Decode(&data); err != nil {
		return nil, fmt.Errorf("decode index snapshot: %w", err)
	}

	return &Index{transcripts: data.Transcripts, genome: data.Genome}, nil
}

// Write serializes the index to disk along with the source fingerprint.
func (s *Snapshot) Write(idx *Index, fp FileFingerprint) error {
	f, err := os.Create(s.gobPath())
	if err != nil {
		return fmt.Errorf("create index snapshot: %w", err)
	}

	data := snapshotData{Transcripts: idx.transcripts, Genome: idx.genome}
	if err := gob.NewEncoder(f).Encode(data); err != nil {
		f.Close()
		os.Remove(s.gobPath())
		return fmt.Errorf("encode index snapshot: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close index snapshot: %w", err)
	}

	return s.writeMeta(fp)
}

// Clear removes the snapshot files.
func (s *Snapshot) Clear() {
	os.Remove(s.gobPath())
	os.Remove(s.metaPath())
}

func (s *Snapshot) writeMeta(fp FileFingerprint) error {
	lines := []string{
		"source_size=" + strconv.FormatInt(fp.Size, 10),
		"source_modtime=" + fp.ModTime.UTC().Format(time.RFC3339Nano),
		"created_at=" + time.Now().UTC().Format(time.RFC3339),
		"",
	}
	return os.WriteFile(s.metaPath(), []byte(strings.Join(lines, "\n")), 0644)
}

func (s *Snapshot) readMeta() (map[string]string, error) {
	data, err := os.ReadFile(s.metaPath())
	if err != nil {
		return nil, err
	}

	meta := make(map[string]string)
	for _, line := range strings.Split(string(data), "\n") {
		if k, v, ok := strings.Cut(line, "="); ok {
			meta[k] = v
		}
	}
	return meta, nil
}

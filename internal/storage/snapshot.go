// internal/storage/snapshot.go
package storage

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"go-tower-defense-sim/internal/app"
	"go-tower-defense-sim/pkg/logger"

	"github.com/sirupsen/logrus"
	"github.com/vmihailenco/msgpack/v5"
)

const (
	MagicHeader string = `TDSV` // 4 байта
	Version1    uint32 = 1
	// MaxBodySize guards Decode against corrupt length fields.
	MaxBodySize = 64 << 20
)

var (
	ErrBadMagic   = errors.New("not a save file")
	ErrBadVersion = errors.New("unsupported save file version")
)

// SaveFileHeader is the fixed-size prefix of a save file. binary.Write writes
// it in one call: only arrays and numbers.
type SaveFileHeader struct {
	Magic     [4]byte
	Version   uint32
	Timestamp int64
	Seed      int64
	BodyLen   uint32
}

// Encode writes header and msgpack body.
func Encode(w io.Writer, snap *app.Snapshot) error {
	if snap == nil {
		return errors.New("nil snapshot")
	}
	body, err := msgpack.Marshal(snap)
	if err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}
	if len(body) > MaxBodySize {
		return fmt.Errorf("snapshot too large: %d bytes", len(body))
	}

	header := SaveFileHeader{
		Version:   Version1,
		Timestamp: time.Now().Unix(),
		Seed:      snap.Seed,
		BodyLen:   uint32(len(body)),
	}
	copy(header.Magic[:], MagicHeader)

	if err := binary.Write(w, binary.LittleEndian, &header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	if _, err := w.Write(body); err != nil {
		return fmt.Errorf("failed to write body: %w", err)
	}
	return nil
}

// Decode reads a save written by Encode.
func Decode(r io.Reader) (*app.Snapshot, SaveFileHeader, error) {
	var header SaveFileHeader
	if err := binary.Read(r, binary.LittleEndian, &header); err != nil {
		return nil, header, fmt.Errorf("failed to read header: %w", err)
	}
	if string(header.Magic[:]) != MagicHeader {
		return nil, header, fmt.Errorf("magic %q: %w", header.Magic[:], ErrBadMagic)
	}
	if header.Version != Version1 {
		return nil, header, fmt.Errorf("version %d: %w", header.Version, ErrBadVersion)
	}
	if header.BodyLen > MaxBodySize {
		return nil, header, fmt.Errorf("body length %d exceeds limit", header.BodyLen)
	}

	body := make([]byte, header.BodyLen)
	if _, err := io.ReadFull(r, body); err != nil {
		return nil, header, fmt.Errorf("failed to read body: %w", err)
	}
	var snap app.Snapshot
	if err := msgpack.NewDecoder(bytes.NewReader(body)).Decode(&snap); err != nil {
		return nil, header, fmt.Errorf("failed to decode snapshot: %w", err)
	}
	return &snap, header, nil
}

// Store keeps save files in one directory.
type Store struct {
	Dir string
	log *logrus.Entry
}

func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create save dir: %w", err)
	}
	return &Store{Dir: dir, log: logger.Component("storage")}, nil
}

// Save writes snap under name (the .tdsv extension is added) and returns the path.
func (s *Store) Save(name string, snap *app.Snapshot) (string, error) {
	if name == "" || filepath.Base(name) != name {
		return "", fmt.Errorf("invalid save name %q", name)
	}
	path := filepath.Join(s.Dir, name+".tdsv")
	if err := Save(path, snap); err != nil {
		return "", err
	}
	s.log.WithFields(logrus.Fields{"path": path, "level": snap.Level, "mobs": len(snap.Mobs)}).Info("Game saved")
	return path, nil
}

// Load reads a save by name.
func (s *Store) Load(name string) (*app.Snapshot, error) {
	if name == "" || filepath.Base(name) != name {
		return nil, fmt.Errorf("invalid save name %q", name)
	}
	return Load(filepath.Join(s.Dir, name+".tdsv"))
}

// Save writes a snapshot to path, replacing it atomically.
func Save(path string, snap *app.Snapshot) error {
	tmp := path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("failed to create save file: %w", err)
	}
	if err := Encode(f, snap); err != nil {
		f.Close()
		os.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to close save file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("failed to move save file: %w", err)
	}
	return nil
}

// Load reads a snapshot from path.
func Load(path string) (*app.Snapshot, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open save file: %w", err)
	}
	defer f.Close()
	snap, _, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return snap, nil
}

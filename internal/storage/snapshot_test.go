package storage

import (
	"bytes"
	"encoding/binary"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"go-tower-defense-sim/internal/app"
	"go-tower-defense-sim/internal/defs"
	"go-tower-defense-sim/pkg/logger"
)

func TestMain(m *testing.M) {
	logger.Init()
	os.Exit(m.Run())
}

func newSnapshot(t *testing.T) *app.Snapshot {
	t.Helper()
	level, err := defs.LoadBuiltinMap("corridor")
	if err != nil {
		t.Fatalf("LoadBuiltinMap: %v", err)
	}
	g, err := app.NewGame(level, app.Options{Seed: 3})
	if err != nil {
		t.Fatalf("NewGame: %v", err)
	}
	if _, res := g.BuildTower("TOWER_SHOOT", 1, 7); !res.OK {
		t.Fatalf("build: %v", res)
	}
	g.CallNextWave()
	for i := 0; i < 60; i++ {
		g.Tick(0.05)
	}
	return g.Snapshot()
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	snap := newSnapshot(t)
	store, err := NewStore(filepath.Join(t.TempDir(), "saves"))
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}

	path, err := store.Save("slot1", snap)
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if filepath.Ext(path) != ".tdsv" {
		t.Errorf("Expected .tdsv file, got %s", path)
	}
	loaded, err := store.Load("slot1")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !reflect.DeepEqual(snap, loaded) {
		t.Errorf("Expected loaded snapshot to match\nwant %+v\ngot  %+v", snap, loaded)
	}

	level, _ := defs.LoadBuiltinMap("corridor")
	if _, err := app.Restore(level, loaded, app.Options{}); err != nil {
		t.Errorf("Expected loaded snapshot to restore, got %v", err)
	}
}

func TestStore_RejectsPathNames(t *testing.T) {
	store, err := NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	for _, name := range []string{"", "../escape", "a/b"} {
		if _, err := store.Save(name, &app.Snapshot{}); err == nil {
			t.Errorf("Expected error for name %q", name)
		}
	}
}

func TestDecode_RejectsBadHeaders(t *testing.T) {
	var buf bytes.Buffer
	if err := Encode(&buf, newSnapshot(t)); err != nil {
		t.Fatalf("Encode: %v", err)
	}
	good := buf.Bytes()

	bad := append([]byte(nil), good...)
	copy(bad, "NOPE")
	if _, _, err := Decode(bytes.NewReader(bad)); !errors.Is(err, ErrBadMagic) {
		t.Errorf("Expected ErrBadMagic, got %v", err)
	}

	bad = append([]byte(nil), good...)
	binary.LittleEndian.PutUint32(bad[4:8], 99)
	if _, _, err := Decode(bytes.NewReader(bad)); !errors.Is(err, ErrBadVersion) {
		t.Errorf("Expected ErrBadVersion, got %v", err)
	}

	if _, _, err := Decode(bytes.NewReader(good[:len(good)-3])); err == nil {
		t.Error("Expected error for a truncated body")
	}

	_, header, err := Decode(bytes.NewReader(good))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if header.Seed != 3 || header.Version != Version1 {
		t.Errorf("Expected seed 3 version 1, got %d %d", header.Seed, header.Version)
	}
}

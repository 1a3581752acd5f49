// Package save reads and writes game snapshots.
//
// A save file is the magic tag "SWM1", a big-endian uint32 payload length,
// and a msgpack-encoded Snapshot. Projectiles and pickups are not stored.
package save

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/tomz197/swarm/internal/config"
	"github.com/tomz197/swarm/internal/object"
)

// Magic identifies the current save format.
const Magic = "SWM1"

const headerSize = len(Magic) + 4

// maxPayload bounds the declared payload so a damaged header cannot make
// Decode allocate arbitrary memory.
const maxPayload = 1 << 20

// Unit sizes outside this range cannot come from a real game.
const (
	minUnitSize = 1
	maxUnitSize = 4 * config.HeavySize
)

var (
	ErrBadMagic  = errors.New("save: unknown format")
	ErrTruncated = errors.New("save: truncated")
	ErrCorrupt   = errors.New("save: corrupt snapshot")
)

// Unit is one live hostile unit. Speed is not stored; it follows from Kind.
type Unit struct {
	Kind         object.EnemyKind `msgpack:"kind"`
	X            float64          `msgpack:"x"`
	Y            float64          `msgpack:"y"`
	FireCooldown float64          `msgpack:"cd"`
	HP           int              `msgpack:"hp"`
	W            float64          `msgpack:"w"`
	H            float64          `msgpack:"h"`
}

// Snapshot is the persisted session state.
type Snapshot struct {
	Infinite      bool    `msgpack:"infinite"`
	PlayerX       float64 `msgpack:"px"`
	PlayerY       float64 `msgpack:"py"`
	ShootInterval float64 `msgpack:"shoot"`
	AOECount      int     `msgpack:"aoe_n"`
	AOEDamage     int     `msgpack:"aoe_dmg"`
	AOEInterval   float64 `msgpack:"aoe_cd"`
	Elapsed       float64 `msgpack:"elapsed"`
	Kills         int     `msgpack:"kills"`
	Units         []Unit  `msgpack:"units"`
}

// Encode writes s to w in the save format.
func Encode(w io.Writer, s *Snapshot) error {
	payload, err := msgpack.Marshal(s)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	var header [headerSize]byte
	copy(header[:], Magic)
	binary.BigEndian.PutUint32(header[len(Magic):], uint32(len(payload)))
	if _, err := w.Write(header[:]); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	if _, err := w.Write(payload); err != nil {
		return fmt.Errorf("write payload: %w", err)
	}
	return nil
}

// Decode reads a snapshot from r. Unit lists longer than the unit pool are
// cut to its capacity.
func Decode(r io.Reader) (*Snapshot, error) {
	var header [headerSize]byte
	if _, err := io.ReadFull(r, header[:]); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return nil, ErrTruncated
		}
		return nil, fmt.Errorf("read header: %w", err)
	}
	if string(header[:len(Magic)]) != Magic {
		return nil, ErrBadMagic
	}
	n := binary.BigEndian.Uint32(header[len(Magic):])
	if n > maxPayload {
		return nil, fmt.Errorf("%w: payload of %d bytes", ErrCorrupt, n)
	}
	payload := make([]byte, n)
	if _, err := io.ReadFull(r, payload); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return nil, ErrTruncated
		}
		return nil, fmt.Errorf("read payload: %w", err)
	}

	var s Snapshot
	if err := msgpack.Unmarshal(payload, &s); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	if len(s.Units) > config.MaxUnits {
		s.Units = s.Units[:config.MaxUnits]
	}
	if err := s.validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

func (s *Snapshot) validate() error {
	for _, v := range []float64{s.PlayerX, s.PlayerY, s.ShootInterval, s.AOEInterval, s.Elapsed} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: non-finite value", ErrCorrupt)
		}
	}
	if s.Elapsed < 0 || s.Kills < 0 {
		return fmt.Errorf("%w: negative clock or kill count", ErrCorrupt)
	}
	for i, u := range s.Units {
		if !u.Kind.Valid() {
			return fmt.Errorf("%w: unit %d has kind %d", ErrCorrupt, i, u.Kind)
		}
		for _, v := range []float64{u.X, u.Y, u.FireCooldown, u.W, u.H} {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return fmt.Errorf("%w: unit %d has a non-finite field", ErrCorrupt, i)
			}
		}
		if u.W < minUnitSize || u.H < minUnitSize || u.W > maxUnitSize || u.H > maxUnitSize {
			return fmt.Errorf("%w: unit %d has size %gx%g", ErrCorrupt, i, u.W, u.H)
		}
	}
	return nil
}

// Write stores s at path, creating parent directories. The file is replaced
// atomically.
func Write(path string, s *Snapshot) error {
	var buf bytes.Buffer
	if err := Encode(&buf, s); err != nil {
		return err
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create save dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp save: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(buf.Bytes()); err != nil {
		tmp.Close()
		return fmt.Errorf("write save: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close save: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("replace save: %w", err)
	}
	return nil
}

// Read loads the snapshot stored at path.
func Read(path string) (*Snapshot, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open save: %w", err)
	}
	defer f.Close()
	return Decode(f)
}

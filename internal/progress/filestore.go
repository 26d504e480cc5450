package progress

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/vmihailenco/msgpack/v5"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/samdwyer/arenacore/internal/telemetry"
)

const ext = ".msgpack"

// FileStore saves one msgpack file per slot under Dir.
type FileStore struct {
	Dir    string
	tracer trace.Tracer
}

// NewFileStore creates a store rooted at dir, creating it if needed.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create save dir %s: %w", dir, err)
	}
	return &FileStore{Dir: dir, tracer: telemetry.Tracer("progress")}, nil
}

func (s *FileStore) path(slot string) string {
	return filepath.Join(s.Dir, slot+ext)
}

// Load reads a slot. A missing file yields ErrNoRecord; an unreadable or partly
// corrupt file yields defaults for every field that cannot be decoded.
func (s *FileStore) Load(ctx context.Context, slot string) (Record, error) {
	_, span := s.tracer.Start(ctx, "progress.load")
	defer span.End()
	span.SetAttributes(attribute.String("progress.slot", slot))

	data, err := os.ReadFile(s.path(slot))
	if errors.Is(err, fs.ErrNotExist) {
		return Default(), ErrNoRecord
	}
	if err != nil {
		span.RecordError(err)
		return Default(), fmt.Errorf("read %s: %w", slot, err)
	}
	rec, bad := Decode(data)
	span.SetAttributes(attribute.Int("progress.bad_fields", bad))
	return rec, nil
}

// Save writes a slot atomically through a temporary file.
func (s *FileStore) Save(ctx context.Context, slot string, rec Record) error {
	_, span := s.tracer.Start(ctx, "progress.save")
	defer span.End()
	span.SetAttributes(
		attribute.String("progress.slot", slot),
		attribute.Int("progress.highest_stage", rec.HighestStage),
	)

	data, err := msgpack.Marshal(&rec)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("encode %s: %w", slot, err)
	}
	tmp := s.path(slot) + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("write %s: %w", slot, err)
	}
	if err := os.Rename(tmp, s.path(slot)); err != nil {
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("commit %s: %w", slot, err)
	}
	return nil
}

// Decode reads a msgpack record field by field. Each field that is missing or has the
// wrong shape keeps its default; the count of such present-but-bad fields is returned.
func Decode(data []byte) (Record, int) {
	rec := Default()
	var raw map[string]any
	if err := msgpack.Unmarshal(data, &raw); err != nil {
		return rec, 1
	}
	bad := 0
	for _, ok := range []bool{
		field(raw, "highest_stage", &rec.HighestStage),
		field(raw, "level", &rec.Level),
		field(raw, "experience", &rec.Experience),
		field(raw, "essence", &rec.Essence),
		field(raw, "unlocked_cores", &rec.UnlockedCores),
		field(raw, "equipped_core", &rec.EquippedCore),
		field(raw, "unlocked_powers", &rec.UnlockedPowers),
		field(raw, "talents", &rec.Talents),
		field(raw, "talent_points", &rec.TalentPoints),
	} {
		if !ok {
			bad++
		}
	}
	if rec.HighestStage < 1 {
		rec.HighestStage = 1
		bad++
	}
	if rec.Level < 1 {
		rec.Level = 1
		bad++
	}
	return rec, bad
}

// field decodes raw[key] into dst by re-encoding the generic value. It returns false
// only when the key is present but cannot be decoded; dst is left unchanged then.
func field[T any](raw map[string]any, key string, dst *T) bool {
	v, ok := raw[key]
	if !ok {
		return true
	}
	b, err := msgpack.Marshal(v)
	if err != nil {
		return false
	}
	var out T
	if err := msgpack.Unmarshal(b, &out); err != nil {
		return false
	}
	*dst = out
	return true
}

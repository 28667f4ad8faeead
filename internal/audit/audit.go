// Package audit appends structured events to the audit trail. Events
// carry metadata only: renderings, kinds, actions and hashes, never a raw
// payload.
package audit

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/arjun-29/veil/internal/types"
)

// Actions recorded in the trail.
const (
	ActionWrap         = "wrap"
	ActionUnwrap       = "unwrap"
	ActionHash         = "hash"
	ActionConfigChange = "config_change"
)

// Trail writes audit events as JSON lines. A nil Trail drops everything,
// so call sites do not have to guard for the minimal security level.
type Trail struct {
	logger *zap.Logger
}

// Open appends to the trail file at path, creating parent dirs.
func Open(path string) (*Trail, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("create audit dir: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return nil, fmt.Errorf("open audit trail: %w", err)
	}
	enc := zap.NewProductionEncoderConfig()
	enc.TimeKey = "ts"
	enc.EncodeTime = zapcore.RFC3339TimeEncoder
	core := zapcore.NewCore(zapcore.NewJSONEncoder(enc), zapcore.Lock(f), zapcore.InfoLevel)
	return &Trail{logger: zap.New(core)}, nil
}

// Record appends one event. The note must already be redacted.
func (t *Trail) Record(action, name string, kind types.Kind, note string) {
	if t == nil || t.logger == nil {
		return
	}
	fields := []zap.Field{
		zap.String("id", uuid.NewString()),
		zap.String("action", action),
	}
	if name != "" {
		fields = append(fields, zap.String("name", name))
	}
	if kind != "" {
		fields = append(fields, zap.String("kind", string(kind)))
	}
	if note != "" {
		fields = append(fields, zap.String("note", note))
	}
	t.logger.Info("audit", fields...)
}

// Close flushes buffered events.
func (t *Trail) Close() error {
	if t == nil || t.logger == nil {
		return nil
	}
	return t.logger.Sync()
}

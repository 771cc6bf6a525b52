// Package logx builds the zap logger shared by the expertsys CLI,
// following the cobra root command's PersistentPreRunE pattern of
// building a *zap.Logger once flags are parsed (grounded on codeNERD's
// cmd/nerd/main.go): a production config with a console encoder by
// default, JSON encoding for machine-readable output, and debug level
// under --debug in either encoding.
package logx

import (
	"github.com/google/uuid"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Format selects the zap encoder.
type Format string

const (
	Text Format = "text"
	JSON Format = "json"
)

// New builds a logger. format selects a human-readable console encoder
// (Text) or zap's JSON encoder (JSON); debug lowers the level to Debug in
// either case, and keeps timestamps on console lines.
func New(format Format, debug bool) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	if debug {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	if format == Text {
		cfg.Encoding = "console"
		cfg.EncoderConfig = zap.NewDevelopmentEncoderConfig()
		if !debug {
			cfg.EncoderConfig.TimeKey = ""
		}
	}
	return cfg.Build()
}

// NewCorrelationID returns a fresh id to tag one `run` invocation's audit
// trail, so solver trace lines from one query can be told apart from
// another's in aggregated log output.
func NewCorrelationID() string {
	return uuid.NewString()
}

// AuditEvent names a structured solver-trace event, following codeNERD's
// internal/logging.AuditEventType naming convention — repurposed here
// for the solver's own decisions rather than shard/tool lifecycle
// events.
type AuditEvent string

const (
	AuditCandidate AuditEvent = "solver_candidate"
	AuditWinner    AuditEvent = "solver_winner"
)

// Audit writes one structured solver-trace event at Debug level, tagged
// with the run's correlation id and whatever fields the caller supplies
// (formula, kind, value, length). It is a thin wrapper over zap rather
// than a separate file-backed log, since this project's trace volume
// (one line per candidate per query) doesn't warrant its own sink —
// --log-format already routes it to text or JSON.
func Audit(logger *zap.Logger, event AuditEvent, correlationID string, fields ...zap.Field) {
	all := make([]zap.Field, 0, len(fields)+2)
	all = append(all, zap.String("event", string(event)), zap.String("correlation_id", correlationID))
	all = append(all, fields...)
	logger.Debug("audit", all...)
}

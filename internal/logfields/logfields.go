package logfields

import "log/slog"

// Canonical log field name constants to avoid drift across packages.
const (
	KeyStage      = "stage"
	KeyPath       = "path"
	KeyFile       = "file"
	KeySource     = "source"
	KeyTarget     = "target"
	KeyDurationMS = "duration_ms"
	KeyBuildID    = "build_id"
	KeyOutcome    = "outcome"
	KeyPort       = "port"
	KeyURL        = "url"
	KeyCount      = "count"
	KeyError      = "error"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func Stage(name string) slog.Attr      { return slog.String(KeyStage, name) }
func Path(p string) slog.Attr          { return slog.String(KeyPath, p) }
func File(f string) slog.Attr          { return slog.String(KeyFile, f) }
func Source(s string) slog.Attr        { return slog.String(KeySource, s) }
func Target(t string) slog.Attr        { return slog.String(KeyTarget, t) }
func DurationMS(ms float64) slog.Attr  { return slog.Float64(KeyDurationMS, ms) }
func BuildID(id string) slog.Attr      { return slog.String(KeyBuildID, id) }
func Outcome(o string) slog.Attr       { return slog.String(KeyOutcome, o) }
func Port(p int) slog.Attr             { return slog.Int(KeyPort, p) }
func URL(u string) slog.Attr           { return slog.String(KeyURL, u) }
func Count(n int) slog.Attr            { return slog.Int(KeyCount, n) }
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}

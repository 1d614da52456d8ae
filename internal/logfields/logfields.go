package logfields

import (
	"log/slog"
	"time"
)

// Canonical log field name constants to avoid drift across packages.
const (
	KeyRunID      = "run_id"
	KeyStage      = "stage"
	KeyDurationMS = "duration_ms"
	KeyRepo       = "repository"
	KeyOwner      = "owner"
	KeyBranch     = "branch"
	KeyURL        = "url"
	KeyStatus     = "status"
	KeyPath       = "path"
	KeyReason     = "reason"
	KeyIncludes   = "includes"
	KeyCount      = "count"
	KeyError      = "error"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func RunID(id string) slog.Attr        { return slog.String(KeyRunID, id) }
func Stage(name string) slog.Attr      { return slog.String(KeyStage, name) }
func DurationMS(ms float64) slog.Attr  { return slog.Float64(KeyDurationMS, ms) }
func Repository(r string) slog.Attr    { return slog.String(KeyRepo, r) }
func Owner(o string) slog.Attr         { return slog.String(KeyOwner, o) }
func Branch(b string) slog.Attr        { return slog.String(KeyBranch, b) }
func URL(u string) slog.Attr           { return slog.String(KeyURL, u) }
func Status(code int) slog.Attr        { return slog.Int(KeyStatus, code) }
func Path(p string) slog.Attr          { return slog.String(KeyPath, p) }
func Reason(r string) slog.Attr        { return slog.String(KeyReason, r) }
func Includes(p []string) slog.Attr    { return slog.Any(KeyIncludes, p) }
func Count(n int) slog.Attr            { return slog.Int(KeyCount, n) }
func Since(start time.Time) slog.Attr  { return DurationMS(float64(time.Since(start).Microseconds()) / 1000) }

func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}

package validation

import (
	"log/slog"
	"os"
	"time"

	"cairn/internal/catalog"
	"cairn/internal/config"
	"cairn/internal/logging"
)

// Result classifies whether a cached record can still be trusted for the
// file currently at a path.
type Result struct {
	IsValid        bool
	FileExists     bool
	ContentChanged bool
	PathChanged    bool
	Confidence     float64
}

// Confidence levels assigned by the heuristic checks. The mtime+size
// comparison is a proxy for content identity, so even a clean match is
// reported below certainty.
const (
	confidenceMatch   = 0.95
	confidenceMissing = 0.8
	confidenceChanged = 0.3
)

// Engine applies staleness heuristics and computes adaptive TTLs.
type Engine struct {
	cfg    *config.Config
	logger *slog.Logger
}

// NewEngine constructs a validation engine.
func NewEngine(cfg *config.Config, logger *slog.Logger) *Engine {
	return &Engine{
		cfg:    cfg,
		logger: logging.NewComponentLogger(logger, "validation"),
	}
}

// Validate compares the file currently at path against the cached record's
// recorded modification time and size. Stat failures are treated the same as
// a content change: never silently trust stale data.
func (e *Engine) Validate(path string, rec *catalog.Record) Result {
	if rec == nil {
		return Result{ContentChanged: true, Confidence: confidenceChanged}
	}

	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{
				FileExists:  false,
				PathChanged: true,
				Confidence:  confidenceMissing,
			}
		}
		e.logger.Debug("stat failed during validation",
			logging.String(logging.FieldPath, path),
			logging.Error(err))
		return Result{
			FileExists:     true,
			ContentChanged: true,
			Confidence:     confidenceChanged,
		}
	}

	tolerance := time.Duration(e.cfg.Validation.MtimeToleranceSeconds) * time.Second
	mtimeMatch := !rec.ModTime.IsZero() && absDuration(info.ModTime().Sub(rec.ModTime)) <= tolerance
	sizeMatch := info.Size() == rec.SizeAtHash

	if mtimeMatch && sizeMatch {
		return Result{
			IsValid:    true,
			FileExists: true,
			Confidence: confidenceMatch,
		}
	}
	return Result{
		FileExists:     true,
		ContentChanged: true,
		Confidence:     confidenceChanged,
	}
}

func absDuration(d time.Duration) time.Duration {
	if d < 0 {
		return -d
	}
	return d
}

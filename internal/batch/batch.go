package batch

import (
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	"cairn/internal/config"
	"cairn/internal/logging"
)

// Operation names a kind of bulk file work with distinct cost assumptions.
// Extended metadata extraction is slow per file; renames are nearly free.
type Operation string

const (
	FastMetadata     Operation = "fast_metadata"
	ExtendedMetadata Operation = "extended_metadata"
	HashCalculation  Operation = "hash_calculation"
	RenameOperation  Operation = "rename_operation"
	FileLoading      Operation = "file_loading"
)

// Operations lists every known operation type.
var Operations = []Operation{
	FastMetadata,
	ExtendedMetadata,
	HashCalculation,
	RenameOperation,
	FileLoading,
}

// ParseOperation converts a user-supplied name to an Operation.
func ParseOperation(name string) (Operation, error) {
	op := Operation(name)
	for _, known := range Operations {
		if op == known {
			return op, nil
		}
	}
	return "", fmt.Errorf("unknown operation type %q", name)
}

// Summary is the one-shot classification of a proposed batch.
type Summary struct {
	Proceed              bool
	Warnings             []string
	NeedsRefresh         []string
	FileCount            int
	TotalSizeMB          float64
	EstimatedSeconds     float64
	RecommendedBatchSize int
}

type decisionKey struct {
	op         Operation
	fileBucket int
	sizeBucket int
}

type decision struct {
	warn    bool
	expires time.Time
}

// Validator checks proposed batches against per-operation thresholds,
// remembers recent user decisions, and estimates run time.
type Validator struct {
	cfg    *config.Config
	logger *slog.Logger

	mu        sync.Mutex
	decisions map[decisionKey]decision
}

// NewValidator constructs a batch validator.
func NewValidator(cfg *config.Config, logger *slog.Logger) *Validator {
	return &Validator{
		cfg:       cfg,
		logger:    logging.NewComponentLogger(logger, "batch"),
		decisions: make(map[decisionKey]decision),
	}
}

// ThresholdsFor returns the configured limits and throughput rates for an
// operation type. Unknown operations get the fast-metadata limits.
func (v *Validator) ThresholdsFor(op Operation) config.OperationLimits {
	switch op {
	case ExtendedMetadata:
		return v.cfg.Batch.ExtendedMetadata
	case HashCalculation:
		return v.cfg.Batch.HashCalculation
	case RenameOperation:
		return v.cfg.Batch.RenameOperation
	case FileLoading:
		return v.cfg.Batch.FileLoading
	default:
		return v.cfg.Batch.FastMetadata
	}
}

// ShouldWarn reports whether a batch of the given shape should prompt the
// user before proceeding. A live remembered decision for the same bucket is
// honored verbatim; otherwise the counts are compared against the
// operation's thresholds.
func (v *Validator) ShouldWarn(op Operation, fileCount int, totalSizeMB float64) bool {
	limits := v.ThresholdsFor(op)
	if !limits.WarningEnabled {
		return false
	}

	key := bucketKey(op, fileCount, totalSizeMB)
	v.mu.Lock()
	if d, ok := v.decisions[key]; ok {
		if time.Now().Before(d.expires) {
			v.mu.Unlock()
			return d.warn
		}
		delete(v.decisions, key)
	}
	v.mu.Unlock()

	return fileCount > limits.MaxFiles || totalSizeMB > limits.MaxSizeMB
}

// RememberChoice records a user decision for the bucket containing the given
// batch shape. "cancel" means keep warning; any other choice suppresses the
// warning until the entry expires. A non-positive ttl uses the configured
// default.
func (v *Validator) RememberChoice(op Operation, fileCount int, totalSizeMB float64, choice string, ttl time.Duration) {
	if ttl <= 0 {
		ttl = time.Duration(v.cfg.Batch.DecisionTTLSeconds) * time.Second
	}

	key := bucketKey(op, fileCount, totalSizeMB)
	v.mu.Lock()
	v.decisions[key] = decision{
		warn:    choice == "cancel",
		expires: time.Now().Add(ttl),
	}
	v.mu.Unlock()
}

// ValidateBatch sizes up a proposed batch. Files that cannot be statted are
// counted with size zero and reported in NeedsRefresh rather than failing
// the whole classification.
func (v *Validator) ValidateBatch(files []string, op Operation) Summary {
	limits := v.ThresholdsFor(op)

	var totalBytes int64
	var needsRefresh []string
	for _, path := range files {
		info, err := os.Stat(path)
		if err != nil {
			v.logger.Debug("stat failed during batch sizing",
				logging.String(logging.FieldOperation, string(op)),
				logging.String(logging.FieldPath, path),
				logging.Error(err))
			needsRefresh = append(needsRefresh, path)
			continue
		}
		totalBytes += info.Size()
	}

	fileCount := len(files)
	totalSizeMB := float64(totalBytes) / (1024 * 1024)

	var warnings []string
	if fileCount > limits.MaxFiles {
		warnings = append(warnings, fmt.Sprintf(
			"%d files exceeds the %s limit of %d", fileCount, op, limits.MaxFiles))
	}
	if totalSizeMB > limits.MaxSizeMB {
		warnings = append(warnings, fmt.Sprintf(
			"%.1f MB exceeds the %s limit of %.0f MB", totalSizeMB, op, limits.MaxSizeMB))
	}

	warn := v.ShouldWarn(op, fileCount, totalSizeMB)
	return Summary{
		Proceed:              !warn,
		Warnings:             warnings,
		NeedsRefresh:         needsRefresh,
		FileCount:            fileCount,
		TotalSizeMB:          totalSizeMB,
		EstimatedSeconds:     estimateSeconds(limits, fileCount, totalBytes),
		RecommendedBatchSize: limits.BatchSize,
	}
}

// estimateSeconds models whichever resource is the true bottleneck: file
// overhead or byte throughput, floored at one second.
func estimateSeconds(limits config.OperationLimits, fileCount int, totalBytes int64) float64 {
	estimate := 1.0
	if limits.FilesPerSecond > 0 {
		if byCount := float64(fileCount) / limits.FilesPerSecond; byCount > estimate {
			estimate = byCount
		}
	}
	if limits.MBPerSecond > 0 {
		if byBytes := float64(totalBytes) / (limits.MBPerSecond * 1024 * 1024); byBytes > estimate {
			estimate = byBytes
		}
	}
	return estimate
}

func bucketKey(op Operation, fileCount int, totalSizeMB float64) decisionKey {
	return decisionKey{
		op:         op,
		fileBucket: fileCount / 100 * 100,
		sizeBucket: int(totalSizeMB) / 100 * 100,
	}
}

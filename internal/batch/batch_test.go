package batch_test

import (
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"cairn/internal/batch"
	"cairn/internal/logging"
	"cairn/internal/testsupport"
)

func TestParseOperation(t *testing.T) {
	op, err := batch.ParseOperation("hash_calculation")
	if err != nil {
		t.Fatalf("ParseOperation: %v", err)
	}
	if op != batch.HashCalculation {
		t.Fatalf("op = %v", op)
	}
	if _, err := batch.ParseOperation("defragmentation"); err == nil {
		t.Fatal("expected error for unknown operation")
	}
}

func TestThresholdsForReflectConfig(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	validator := batch.NewValidator(cfg, logging.NewNop())

	extended := validator.ThresholdsFor(batch.ExtendedMetadata)
	rename := validator.ThresholdsFor(batch.RenameOperation)
	if extended.MaxFiles >= rename.MaxFiles {
		t.Fatalf("extended metadata limit (%d) should be tighter than rename (%d)",
			extended.MaxFiles, rename.MaxFiles)
	}
	if extended.MaxSizeMB >= rename.MaxSizeMB {
		t.Fatalf("extended metadata size limit (%v) should be tighter than rename (%v)",
			extended.MaxSizeMB, rename.MaxSizeMB)
	}
}

func TestShouldWarnThresholds(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	validator := batch.NewValidator(cfg, logging.NewNop())

	limits := validator.ThresholdsFor(batch.FileLoading)
	if validator.ShouldWarn(batch.FileLoading, limits.MaxFiles, 50) {
		t.Fatal("at-limit batch should not warn")
	}
	if !validator.ShouldWarn(batch.FileLoading, limits.MaxFiles+1, 50) {
		t.Fatal("over-limit batch should warn")
	}
	if !validator.ShouldWarn(batch.FileLoading, 10, limits.MaxSizeMB+1) {
		t.Fatal("oversized batch should warn")
	}
}

func TestShouldWarnDisabled(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	cfg.Batch.FileLoading.WarningEnabled = false
	validator := batch.NewValidator(cfg, logging.NewNop())

	if validator.ShouldWarn(batch.FileLoading, 100000, 1e6) {
		t.Fatal("disabled warnings must never fire")
	}
}

func TestRememberedChoiceSuppressesWarning(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	validator := batch.NewValidator(cfg, logging.NewNop())

	if !validator.ShouldWarn(batch.FileLoading, 1200, 50) {
		t.Fatal("1200 files should exceed the file loading limit")
	}

	validator.RememberChoice(batch.FileLoading, 1200, 50, "proceed", time.Hour)
	if validator.ShouldWarn(batch.FileLoading, 1200, 50) {
		t.Fatal("remembered proceed should suppress the warning")
	}

	// Same bucket, slightly different shape.
	if validator.ShouldWarn(batch.FileLoading, 1250, 80) {
		t.Fatal("decisions apply to the whole bucket")
	}

	// Different bucket is unaffected.
	if !validator.ShouldWarn(batch.FileLoading, 1300, 50) {
		t.Fatal("a different bucket should still warn")
	}
}

func TestRememberedCancelKeepsWarning(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	validator := batch.NewValidator(cfg, logging.NewNop())

	// Under the limits, so the threshold check alone would not warn.
	validator.RememberChoice(batch.HashCalculation, 10, 1, "cancel", time.Hour)
	if !validator.ShouldWarn(batch.HashCalculation, 10, 1) {
		t.Fatal("remembered cancel should force a warning")
	}
}

func TestRememberedChoiceExpires(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	validator := batch.NewValidator(cfg, logging.NewNop())

	validator.RememberChoice(batch.FileLoading, 1200, 50, "proceed", time.Millisecond)
	time.Sleep(10 * time.Millisecond)
	if !validator.ShouldWarn(batch.FileLoading, 1200, 50) {
		t.Fatal("expired decision should no longer suppress the warning")
	}
}

func TestValidateBatchFloorEstimate(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	validator := batch.NewValidator(cfg, logging.NewNop())

	dir := t.TempDir()
	var files []string
	for _, name := range []string{"a", "b", "c", "d", "e"} {
		path := filepath.Join(dir, name)
		testsupport.WriteFileContents(t, path, nil)
		files = append(files, path)
	}

	summary := validator.ValidateBatch(files, batch.HashCalculation)
	if summary.EstimatedSeconds != 1.0 {
		t.Fatalf("EstimatedSeconds = %v, want the 1.0 floor", summary.EstimatedSeconds)
	}
	if !summary.Proceed {
		t.Fatal("a five-file batch should proceed")
	}
	if summary.FileCount != 5 {
		t.Fatalf("FileCount = %d", summary.FileCount)
	}
	if summary.RecommendedBatchSize != validator.ThresholdsFor(batch.HashCalculation).BatchSize {
		t.Fatalf("RecommendedBatchSize = %d", summary.RecommendedBatchSize)
	}
}

func TestValidateBatchCountBoundEstimate(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	validator := batch.NewValidator(cfg, logging.NewNop())

	// 80 empty files at 8 files/s is a 10 second hash run.
	dir := t.TempDir()
	var files []string
	for i := 0; i < 80; i++ {
		path := filepath.Join(dir, fmt.Sprintf("clip-%02d.mkv", i))
		testsupport.WriteFileContents(t, path, nil)
		files = append(files, path)
	}

	summary := validator.ValidateBatch(files, batch.HashCalculation)
	if summary.EstimatedSeconds != 10.0 {
		t.Fatalf("EstimatedSeconds = %v, want 10.0", summary.EstimatedSeconds)
	}
}

func TestValidateBatchMissingFiles(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	validator := batch.NewValidator(cfg, logging.NewNop())

	dir := t.TempDir()
	present := filepath.Join(dir, "present.txt")
	testsupport.WriteFile(t, present, 2048)
	missing := filepath.Join(dir, "missing.txt")

	summary := validator.ValidateBatch([]string{present, missing}, batch.FastMetadata)
	if summary.FileCount != 2 {
		t.Fatalf("FileCount = %d, missing files still count", summary.FileCount)
	}
	if len(summary.NeedsRefresh) != 1 || summary.NeedsRefresh[0] != missing {
		t.Fatalf("NeedsRefresh = %v", summary.NeedsRefresh)
	}
	if summary.TotalSizeMB != float64(2048)/(1024*1024) {
		t.Fatalf("TotalSizeMB = %v", summary.TotalSizeMB)
	}
}

func TestValidateBatchOverLimitWarns(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	cfg.Batch.ExtendedMetadata.MaxFiles = 2
	validator := batch.NewValidator(cfg, logging.NewNop())

	dir := t.TempDir()
	var files []string
	for _, name := range []string{"a.mkv", "b.mkv", "c.mkv"} {
		path := filepath.Join(dir, name)
		testsupport.WriteFileContents(t, path, []byte("x"))
		files = append(files, path)
	}

	summary := validator.ValidateBatch(files, batch.ExtendedMetadata)
	if summary.Proceed {
		t.Fatal("over-limit batch should not proceed")
	}
	if len(summary.Warnings) == 0 {
		t.Fatal("expected a threshold warning")
	}
}

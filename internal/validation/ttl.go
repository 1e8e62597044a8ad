package validation

import (
	"os"
	"time"
)

// SmartTTL computes how long a cached validation result should be trusted
// for the file at path. The base window is chosen by category, stretched for
// large files (rehashing them is expensive) and again for files that have
// not been touched in a long time (archival content rarely changes).
func (e *Engine) SmartTTL(path string, size int64) time.Duration {
	v := e.cfg.Validation

	var baseHours int
	switch Classify(path) {
	case CategoryMedia:
		baseHours = v.MediaTTLHours
	case CategoryDocument:
		baseHours = v.DocumentTTLHours
	case CategoryTemporary:
		baseHours = v.TemporaryTTLHours
	default:
		baseHours = v.DefaultTTLHours
	}
	ttl := time.Duration(baseHours) * time.Hour

	if size > v.LargeFileThresholdMB*1024*1024 {
		ttl = time.Duration(float64(ttl) * v.LargeFileTTLMultiplier)
	}

	// Age is best effort: stat errors leave the TTL as computed so far.
	if info, err := os.Stat(path); err == nil {
		age := time.Since(info.ModTime())
		if age > time.Duration(v.AgedFileThresholdDays)*24*time.Hour {
			ttl = time.Duration(float64(ttl) * v.AgedFileTTLMultiplier)
		}
	}

	return ttl
}

package config

import (
	"path/filepath"

	"github.com/adrg/xdg"
)

const (
	defaultDatabaseFilename = "catalog.db"
	defaultAlgorithm        = "crc32"
	defaultLogFormat        = "console"
	defaultLogLevel         = "info"

	defaultMtimeToleranceSeconds = 1

	defaultMediaTTLHours     = 7 * 24
	defaultDocumentTTLHours  = 24
	defaultTemporaryTTLHours = 1
	defaultDefaultTTLHours   = 12

	defaultLargeFileThresholdMB   = 100
	defaultLargeFileTTLMultiplier = 1.5
	defaultAgedFileThresholdDays  = 365
	defaultAgedFileTTLMultiplier  = 2.0

	defaultDecisionTTLSeconds = 3600
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	dataDir := filepath.Join(xdg.DataHome, "cairn")
	return Config{
		Paths: Paths{
			DataDir:      dataDir,
			LogDir:       filepath.Join(dataDir, "logs"),
			DatabasePath: filepath.Join(dataDir, defaultDatabaseFilename),
		},
		Hashing: Hashing{
			DefaultAlgorithm: defaultAlgorithm,
		},
		Identity: Identity{
			ContentLookupEnabled: true,
		},
		Validation: Validation{
			MtimeToleranceSeconds:  defaultMtimeToleranceSeconds,
			MediaTTLHours:          defaultMediaTTLHours,
			DocumentTTLHours:       defaultDocumentTTLHours,
			TemporaryTTLHours:      defaultTemporaryTTLHours,
			DefaultTTLHours:        defaultDefaultTTLHours,
			LargeFileThresholdMB:   defaultLargeFileThresholdMB,
			LargeFileTTLMultiplier: defaultLargeFileTTLMultiplier,
			AgedFileThresholdDays:  defaultAgedFileThresholdDays,
			AgedFileTTLMultiplier:  defaultAgedFileTTLMultiplier,
		},
		Batch: Batch{
			DecisionTTLSeconds: defaultDecisionTTLSeconds,
			FastMetadata: OperationLimits{
				MaxFiles:       500,
				MaxSizeMB:      2000,
				BatchSize:      100,
				WarningEnabled: true,
				FilesPerSecond: 50,
				MBPerSecond:    200,
			},
			ExtendedMetadata: OperationLimits{
				MaxFiles:       50,
				MaxSizeMB:      500,
				BatchSize:      10,
				WarningEnabled: true,
				FilesPerSecond: 2,
				MBPerSecond:    20,
			},
			HashCalculation: OperationLimits{
				MaxFiles:       100,
				MaxSizeMB:      1024,
				BatchSize:      25,
				WarningEnabled: true,
				FilesPerSecond: 8,
				MBPerSecond:    80,
			},
			RenameOperation: OperationLimits{
				MaxFiles:       1000,
				MaxSizeMB:      10240,
				BatchSize:      200,
				WarningEnabled: true,
				FilesPerSecond: 30,
				MBPerSecond:    500,
			},
			FileLoading: OperationLimits{
				MaxFiles:       1000,
				MaxSizeMB:      5120,
				BatchSize:      200,
				WarningEnabled: true,
				FilesPerSecond: 20,
				MBPerSecond:    150,
			},
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}

package config

const (
	defaultDatabasePath     = "~/.local/share/gazlink/gazlink.db"
	defaultLogDir           = "~/.local/share/gazlink/logs"
	defaultLogLevel         = "info"
	defaultLogFormat        = "console"
	defaultThreshold        = 0.8
	defaultBatchSize        = 10000
	defaultProgressInterval = 30
	defaultWorkers          = 1
	defaultScorer           = "jarowinkler"
	defaultReportLimit      = 100
	defaultStylesheet       = "style.css"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Database: Database{
			Path:        defaultDatabasePath,
			BulkPragmas: true,
		},
		Matching: Matching{
			Threshold:        defaultThreshold,
			BatchSize:        defaultBatchSize,
			ProgressInterval: defaultProgressInterval,
			Workers:          defaultWorkers,
			Scorer:           defaultScorer,
			Transliterate:    true,
		},
		Export: Export{
			Limit:     0,
			Threshold: defaultThreshold,
		},
		Report: Report{
			Limit:      defaultReportLimit,
			Stylesheet: defaultStylesheet,
		},
		Logging: Logging{
			Dir:    defaultLogDir,
			Level:  defaultLogLevel,
			Format: defaultLogFormat,
		},
	}
}

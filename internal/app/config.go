package app

import "errors"

// DefaultSourcePath is read when no source is given on the command line.
const DefaultSourcePath = "site_model_data.xlsx"

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	SourcePath string // a table file or a directory of them
	ConfigPath string // optional HCL job file
	OutputDir  string // overrides the job file's output directory
	Sheet      string // overrides the job file's sheet
	EnvFile    string // optional .env file with publisher credentials

	LogFormat   string
	LogLevel    string
	FailOnError bool
}

// NewConfig validates cfg and returns a copy of it.
func NewConfig(cfg Config) (*Config, error) {
	if cfg.SourcePath == "" {
		return nil, errors.New("SourcePath is a required configuration field and cannot be empty")
	}
	return &cfg, nil
}

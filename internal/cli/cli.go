package cli

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/vk/sitemeta/internal/app"
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

// Parse processes command-line arguments. It returns a populated app.Config,
// a boolean indicating if the program should exit cleanly, or an ExitError.
func Parse(args []string, output io.Writer) (*app.Config, bool, error) {
	slog.Debug("CLI parser started.")
	flagSet := flag.NewFlagSet("sitemeta", flag.ContinueOnError)
	flagSet.SetOutput(output)

	flagSet.Usage = func() {
		fmt.Fprintf(output, `
sitemeta - Generate per-instance asset metadata documents from a site model table.

Usage:
  sitemeta [options] [SOURCE_PATH]

Arguments:
  SOURCE_PATH
    An .xlsx/.xlsm/.csv file, or a directory searched for them.
    Defaults to %s.

Options:
`, app.DefaultSourcePath)
		flagSet.PrintDefaults()
	}

	configFlag := flagSet.String("config", "", "Path to an HCL job file.")
	cFlag := flagSet.String("c", "", "Path to an HCL job file (shorthand).")
	outFlag := flagSet.String("out", "", "Root directory for instance folders. Defaults to the source file's directory.")
	sheetFlag := flagSet.String("sheet", "", "Workbook sheet to read. Defaults to the first sheet.")
	envFileFlag := flagSet.String("env-file", "", "Path to a .env file with publisher credentials.")
	logFormatFlag := flagSet.String("log-format", "text", "Log output format. Options: 'text' or 'json'.")
	logLevelFlag := flagSet.String("log-level", "info", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")
	failFlag := flagSet.Bool("fail-on-error", false, "Exit with a non-zero status when any source fails.")

	if err := flagSet.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}
	slog.Debug("Arguments parsed successfully.")

	if flagSet.NArg() > 1 {
		return nil, false, &ExitError{Code: 2, Message: fmt.Sprintf("expected at most one SOURCE_PATH, got %d", flagSet.NArg())}
	}
	source := app.DefaultSourcePath
	if flagSet.NArg() == 1 {
		source = flagSet.Arg(0)
	}

	configPath := *configFlag
	if configPath == "" {
		configPath = *cFlag
	}

	logFormat := strings.ToLower(*logFormatFlag)
	if logFormat != "text" && logFormat != "json" {
		return nil, false, &ExitError{Code: 2, Message: "invalid log-format: must be 'text' or 'json'"}
	}

	logLevel := strings.ToLower(*logLevelFlag)
	switch logLevel {
	case "debug", "info", "warn", "error":
	default:
		return nil, false, &ExitError{Code: 2, Message: "invalid log-level: must be 'debug', 'info', 'warn', or 'error'"}
	}
	slog.Debug("CLI parameter validation complete.", "source", source)

	config, err := app.NewConfig(app.Config{
		SourcePath:  source,
		ConfigPath:  configPath,
		OutputDir:   *outFlag,
		Sheet:       *sheetFlag,
		EnvFile:     *envFileFlag,
		LogFormat:   logFormat,
		LogLevel:    logLevel,
		FailOnError: *failFlag,
	})
	if err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	return config, false, nil
}

package errors

import (
	"context"
	"log/slog"
)

// CLIErrorAdapter turns errors into exit codes, messages and log lines for
// the docpress command.
type CLIErrorAdapter struct {
	verbose bool
	logger  *slog.Logger
}

func NewCLIErrorAdapter(verbose bool, logger *slog.Logger) *CLIErrorAdapter {
	if logger == nil {
		logger = slog.Default()
	}
	return &CLIErrorAdapter{verbose: verbose, logger: logger}
}

// ExitCodeFor returns 0 for nil, 1 for unclassified errors and the category
// exit code otherwise.
func (a *CLIErrorAdapter) ExitCodeFor(err error) int {
	if err == nil {
		return 0
	}
	classified, ok := AsClassified(err)
	if !ok {
		return 1
	}
	return classified.Category().ExitCode()
}

// FormatError renders err for stderr. Verbose output keeps the category prefix.
func (a *CLIErrorAdapter) FormatError(err error) string {
	if err == nil {
		return ""
	}
	classified, ok := AsClassified(err)
	switch {
	case !ok:
		return "Error: " + err.Error()
	case a.verbose:
		return "Error: " + classified.Error()
	case classified.Cause() != nil:
		return "Error: " + classified.Message() + ": " + classified.Cause().Error()
	default:
		return "Error: " + classified.Message()
	}
}

// LogError writes one structured line for err. Not-found failures log at
// warn level since they usually point at a typo in the user name.
func (a *CLIErrorAdapter) LogError(err error) {
	if err == nil {
		return
	}
	classified, ok := AsClassified(err)
	if !ok {
		a.logger.Error("Unclassified error", slog.Any("error", err))
		return
	}
	attrs := []slog.Attr{
		slog.String("category", string(classified.Category())),
		slog.Bool("retryable", classified.CanRetry()),
	}
	for _, k := range classified.FieldNames() {
		v, _ := classified.Field(k)
		attrs = append(attrs, slog.Any(k, v))
	}
	if cause := classified.Cause(); cause != nil {
		attrs = append(attrs, slog.String("error", cause.Error()))
	}
	level := slog.LevelError
	if classified.Category() == CategoryNotFound {
		level = slog.LevelWarn
	}
	a.logger.LogAttrs(context.Background(), level, classified.Message(), attrs...)
}

package contract

import (
	"fmt"
	"os"

	"github.com/fatih/color"

	"github.com/flowlens/flowlens/schema"
)

// Bottleneck label constants.
const (
	CriticalValue = "Critical"
	HighValue     = "High"
	ModerateValue = "Moderate"
	LowValue      = "Low"
)

// Color variables for console output.
var (
	CriticalColor = color.New(color.FgRed, color.Bold)
	HighColor     = color.New(color.FgMagenta, color.Bold)
	ModerateColor = color.New(color.FgYellow)
	LowColor      = color.New(color.FgCyan)
	SuccessColor  = color.New(color.FgGreen)
)

// GetPlainLabel returns a plain text label indicating the congestion level
// for a bottleneck score. This is the core logic used for CSV, JSON, and
// table printing.
func GetPlainLabel(score float64) string {
	switch {
	case score >= 150:
		return CriticalValue
	case score >= 120:
		return HighValue
	case score >= 100:
		return ModerateValue
	default:
		return LowValue
	}
}

// GetColorLabel returns a colored text label for console output (table).
func GetColorLabel(score float64) string {
	text := GetPlainLabel(score)

	switch text {
	case CriticalValue:
		return CriticalColor.Sprint(text)
	case HighValue:
		return HighColor.Sprint(text)
	case ModerateValue:
		return ModerateColor.Sprint(text)
	default: // "Low"
		return LowColor.Sprint(text)
	}
}

// GetSeverityLabel returns a colored severity string for table output.
func GetSeverityLabel(sev schema.Severity) string {
	switch sev {
	case schema.CriticalSeverity:
		return CriticalColor.Sprint("CRITICAL")
	case schema.WarningSeverity:
		return ModerateColor.Sprint("WARNING")
	case schema.InfoSeverity:
		return LowColor.Sprint("INFO")
	default:
		return SuccessColor.Sprint("SUCCESS")
	}
}

// SelectOutputFile returns the appropriate file handle for output, based on
// the provided file path. Empty means stdout.
func SelectOutputFile(filePath string) (*os.File, error) {
	if filePath == "" {
		return os.Stdout, nil
	}
	return os.Create(filePath)
}

// LogFatal logs an error and exits the program.
func LogFatal(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Fatal %s: %v\n", msg, err)
	os.Exit(1)
}

// LogWarn logs a warning message to stderr.
func LogWarn(msg string, err error) {
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "Warning %s: %v\n", msg, err)
		return
	}
	_, _ = fmt.Fprintf(os.Stderr, "Warning %s\n", msg)
}

package errors

import (
	"errors"
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/hashicorp/go-multierror"
)

// Formatter renders errors as one-line diagnostics for the command line.
type Formatter struct {
	// UseColor enables ANSI color codes in output.
	UseColor bool
}

// NewFormatter creates a new error formatter.
func NewFormatter(useColor bool) *Formatter {
	return &Formatter{UseColor: useColor}
}

var (
	colorTag    = color.New(color.FgRed, color.Bold)
	colorStage  = color.New(color.FgCyan)
	colorReason = color.New(color.FgWhite)
)

// Format renders err as `[ERROR]: "<stage>" <reason>`. Aggregated errors
// produce one line per error. Errors that do not originate from this package
// are rendered with the stage "bfk".
func (f *Formatter) Format(err error) string {
	if err == nil {
		return ""
	}
	var merr *multierror.Error
	if errors.As(err, &merr) {
		lines := make([]string, 0, len(merr.Errors))
		for _, e := range merr.Errors {
			lines = append(lines, f.formatOne(e))
		}
		return strings.Join(lines, "\n")
	}
	return f.formatOne(err)
}

func (f *Formatter) formatOne(err error) string {
	stage, reason := "bfk", err.Error()
	var se StageError
	if errors.As(err, &se) {
		stage = se.Stage()
		reason = strings.TrimPrefix(se.Error(), se.Stage()+": ")
	}
	tag := "[ERROR]:"
	quoted := fmt.Sprintf("%q", stage)
	if f.UseColor {
		tag = colorTag.Sprint(tag)
		quoted = colorStage.Sprint(quoted)
		reason = colorReason.Sprint(reason)
	}
	return fmt.Sprintf("%s %s %s", tag, quoted, reason)
}

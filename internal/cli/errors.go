package cli

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/scott2000/jj-analyze/internal/pipeline"
	"github.com/scott2000/jj-analyze/internal/syntax"
	"github.com/scott2000/jj-analyze/internal/ui"
)

// printError writes err as "Error: <stage>: <message>". Syntax errors in
// the input revset also show the input with a caret at the failure.
func printError(w io.Writer, mode ui.ColorMode, input string, err error) {
	ui.PrintError(w, mode, err.Error())

	var stageErr *pipeline.StageError
	var syntaxErr *syntax.Error
	if errors.As(err, &stageErr) && stageErr.Stage == pipeline.StageParse && errors.As(err, &syntaxErr) {
		for _, line := range strings.Split(syntaxErr.Caret(input), "\n") {
			fmt.Fprintf(w, "  %s\n", line)
		}
	}
}

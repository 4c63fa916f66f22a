package ui

import (
	"fmt"
	"io"
)

// PrintError writes "Error: msg" to w, the label styled when w is colored.
func PrintError(w io.Writer, mode ColorMode, msg string) {
	styles := NewStyles(NewRenderer(w, mode))
	fmt.Fprintf(w, "%s %s\n", styles.ErrorLabel.Render("Error:"), msg)
}

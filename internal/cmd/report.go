package cmd

import (
	"fmt"
	"io"

	"github.com/Iron-Ham/screencoord/internal/errors"
)

// ReportError prints err returned by Execute. Typed errors are written for
// users and print as they are; anything else points at the debug log.
func ReportError(w io.Writer, err error) {
	if err == nil {
		return
	}
	label := "Error"
	if errors.GetSeverity(err) <= errors.SeverityWarning {
		label = "Warning"
	}
	fmt.Fprintf(w, "%s: %v\n", label, err)

	switch {
	case errors.Is(err, errors.ErrItemNotFound):
		fmt.Fprintln(w, "Run 'screencoord list' to see item IDs.")
	case errors.IsNotFound(err):
		// Missing files and directories are named in the message.
	case !errors.IsUserFacing(err):
		fmt.Fprintln(w, "Run 'screencoord logs --level error' for details.")
	}
}

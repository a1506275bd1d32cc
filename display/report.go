package display

import (
	"fmt"
	"io"

	clierr "github.com/chriso345/argot/errors"
)

// Report writes err the way a command line tool shows it: one error line
// followed by any hints attached to it.
func Report(w io.Writer, err error, colored bool) {
	if err == nil {
		return
	}
	label := "error:"
	if clierr.IsRegistration(err) {
		label = "definition error:"
	}
	fmt.Fprintf(w, "%s %s\n", paint(errorColor, colored, label), err)
	for _, hint := range clierr.Hints(err) {
		fmt.Fprintf(w, "  %s %s\n", paint(hintColor, colored, "hint:"), hint)
	}
}

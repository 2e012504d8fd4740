package logs

import (
	"fmt"
	"io"
	"os"

	"github.com/reusee/tinydisplay/cmds"
)

type Writer io.Writer

var logFileFlag = cmds.Var[string]("-log-file")

// Writer is stderr, or the file named by -log-file, where frames printed
// to stdout would otherwise interleave with log lines.
func (Module) Writer() Writer {
	if path := *logFileFlag; path != "" {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err == nil {
			return f
		}
		fmt.Fprintf(os.Stderr, "open log file: %v\n", err)
	}
	return os.Stderr
}

package logger

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

var Log = logrus.New()

// InitLogger configures the shared logger. Diagnostics go to stderr so that
// stdout stays free for the progress summary.
func InitLogger(verbose bool) {
	Log.SetOutput(os.Stderr)
	Log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	if verbose {
		Log.SetLevel(logrus.DebugLevel)
		Log.Debugln("Verbose (debug) logging enabled")
	} else {
		Log.SetLevel(logrus.InfoLevel)
	}
}

// SetOutput redirects log output, used by tests to capture diagnostics.
func SetOutput(w io.Writer) {
	Log.SetOutput(w)
}

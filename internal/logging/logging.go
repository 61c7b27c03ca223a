// Package logging configures the process-wide logrus logger.
// Components log through logrus directly; this package only owns setup.
package logging

import (
	"os"

	"github.com/sirupsen/logrus"
)

// Setup configures the standard logger from a level name.
// Unknown or empty levels fall back to info. Logs go to stderr so stdout
// stays clean for answers and JSON output.
func Setup(level string) {
	logrus.SetOutput(os.Stderr)
	logrus.SetFormatter(&logrus.TextFormatter{
		DisableTimestamp: false,
		FullTimestamp:    true,
	})

	parsed, err := logrus.ParseLevel(level)
	if err != nil {
		parsed = logrus.InfoLevel
	}
	logrus.SetLevel(parsed)
}

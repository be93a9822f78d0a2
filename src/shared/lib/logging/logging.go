package logging

import (
	"os"

	"github.com/apex/log"
	"github.com/apex/log/handlers/json"
	"github.com/apex/log/handlers/text"
	"github.com/mattn/go-isatty"
)

// Setup points apex/log at stderr: human readable text on a terminal, one
// JSON object per line otherwise.
func Setup(level string) {
	if isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd()) {
		log.SetHandler(text.New(os.Stderr))
	} else {
		log.SetHandler(json.New(os.Stderr))
	}

	parsed, err := log.ParseLevel(level)
	if err != nil {
		log.WithField("level", level).Warn("Unknown log level, defaulting to info")
		parsed = log.InfoLevel
	}

	log.SetLevel(parsed)
}

package logger

import (
	"os"
	"time"

	"github.com/rs/zerolog"
)

// L is the process-wide logger. Setup replaces it once config is loaded;
// until then it writes human-readable output to stdout.
var L = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.Kitchen}).
	With().Timestamp().Logger()

// Setup configures the global logger for the given environment. Production
// emits plain JSON; development keeps the console writer.
func Setup(appEnv string) {
	if appEnv == "production" {
		L = zerolog.New(os.Stdout).With().Timestamp().Logger()
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
		return
	}
	zerolog.SetGlobalLevel(zerolog.DebugLevel)
}

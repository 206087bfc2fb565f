package command

import (
	"time"

	"github.com/kula-app/template-cli/internal/config"
	"github.com/kula-app/template-cli/internal/messages"
)

// EntryMessage records the start time in cfg and renders the entry log line.
func EntryMessage(cfg config.Configuration, now time.Time) string {
	cfg[config.KeyStartTime] = unixSeconds(now)
	return messages.Info(297, cfg.Loggable().JSON())
}

// ExitMessage records the stop and elapsed times in cfg and renders the exit
// log line. Elapsed time is never negative.
func ExitMessage(cfg config.Configuration, now time.Time) string {
	stop := unixSeconds(now)
	start, ok := cfg[config.KeyStartTime].(float64)
	if !ok {
		start = stop
	}
	cfg[config.KeyStopTime] = stop
	cfg[config.KeyElapsedTime] = max(stop-start, 0)
	return messages.Info(298, cfg.Loggable().JSON())
}

func unixSeconds(t time.Time) float64 {
	return float64(t.UnixNano()) / float64(time.Second)
}

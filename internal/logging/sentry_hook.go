package logging

import (
	"time"

	"github.com/getsentry/sentry-go"
	log "github.com/sirupsen/logrus"
)

var sentryLevels = map[log.Level]sentry.Level{
	log.TraceLevel: sentry.LevelDebug,
	log.DebugLevel: sentry.LevelDebug,
	log.InfoLevel:  sentry.LevelInfo,
	log.WarnLevel:  sentry.LevelWarning,
	log.ErrorLevel: sentry.LevelError,
	log.FatalLevel: sentry.LevelFatal,
	log.PanicLevel: sentry.LevelFatal,
}

// SentryHook forwards logrus entries of the given levels to sentry.
type SentryHook struct {
	levels []log.Level
	// ability to replace the sentry hub (for unit testing)
	hub          *sentry.Hub
	flushTimeout time.Duration
}

func NewSentryHook(levels []log.Level) *SentryHook {
	return &SentryHook{
		levels:       levels,
		hub:          sentry.CurrentHub(),
		flushTimeout: 2 * time.Second,
	}
}

func (h *SentryHook) Levels() []log.Level {
	return h.levels
}

func (h *SentryHook) Fire(entry *log.Entry) error {
	event := sentry.NewEvent()
	event.Level = sentryLevels[entry.Level]
	event.Message = entry.Message
	event.Timestamp = entry.Time
	for k, v := range entry.Data {
		if err, ok := v.(error); ok {
			event.Extra[k] = err.Error()
			continue
		}
		event.Extra[k] = v
	}

	h.hub.CaptureEvent(event)

	// the process is about to die, don't lose the event
	if entry.Level <= log.FatalLevel {
		h.hub.Flush(h.flushTimeout)
	}
	return nil
}

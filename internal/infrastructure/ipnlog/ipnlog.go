package ipnlog

import (
	"io"
	"os"

	"github.com/alimikegami/point-of-sales/checkout-service/internal/domain"
	"github.com/rs/zerolog"
)

// Logger appends every received notification to a debug file, one JSON object per line.
type Logger struct {
	logger zerolog.Logger
	closer io.Closer
}

func CreateIPNLogger(path string) (*Logger, error) {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o640)
	if err != nil {
		return nil, err
	}

	l := CreateIPNLoggerWithWriter(f)
	l.closer = f

	return l, nil
}

func CreateIPNLoggerWithWriter(w io.Writer) *Logger {
	return &Logger{
		logger: zerolog.New(zerolog.SyncWriter(w)).With().Timestamp().Logger(),
	}
}

func (l *Logger) LogNotification(n domain.Notification) {
	fields := zerolog.Dict()
	for _, key := range n.SortedKeys() {
		fields.Str(key, n[key])
	}

	l.logger.Log().Str("type", "notification").Dict("fields", fields).Msg("")
}

func (l *Logger) LogUnhandledEvent(event string) {
	l.logger.Log().Str("type", "unhandled_event").Str("event", event).Msg("")
}

func (l *Logger) Close() error {
	if l.closer == nil {
		return nil
	}
	return l.closer.Close()
}

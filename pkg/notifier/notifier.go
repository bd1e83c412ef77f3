package notifier

import "go.uber.org/zap"

// Notifier delivers out-of-band notifications about domain events.
// The core only invokes this capability; delivery is someone else's job.
type Notifier interface {
	Notify(event string, fields ...zap.Field)
}

// LogNotifier writes notifications to the service log. Swap in a real
// provider integration (Slack, email gateway) behind the same interface.
type LogNotifier struct {
	log *zap.Logger
}

// NewLogNotifier creates a log-backed notifier
func NewLogNotifier(log *zap.Logger) *LogNotifier {
	return &LogNotifier{log: log}
}

func (n *LogNotifier) Notify(event string, fields ...zap.Field) {
	n.log.Info("notification: "+event, fields...)
}

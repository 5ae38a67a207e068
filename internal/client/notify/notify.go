// Package notify reports the outcome of user actions. Notifications are
// fire-and-forget; nothing reads them back as state.
package notify

import (
	"context"

	"github.com/dmitrijs2005/quizstate/internal/logging"
)

type Severity string

const (
	Success Severity = "success"
	Error   Severity = "error"
	Info    Severity = "info"
)

type Notifier interface {
	Notify(message string, severity Severity)
}

// Notification is one message delivered by ChannelNotifier.
type Notification struct {
	Message  string
	Severity Severity
}

// ChannelNotifier queues notifications on a buffered channel. When the
// buffer is full the notification is dropped so that callers never block.
type ChannelNotifier struct {
	ch chan Notification
}

func NewChannelNotifier(buffer int) *ChannelNotifier {
	if buffer < 1 {
		buffer = 1
	}
	return &ChannelNotifier{ch: make(chan Notification, buffer)}
}

func (n *ChannelNotifier) Notify(message string, severity Severity) {
	select {
	case n.ch <- Notification{Message: message, Severity: severity}:
	default:
	}
}

// C exposes the receive side.
func (n *ChannelNotifier) C() <-chan Notification {
	return n.ch
}

// Drain returns every queued notification without waiting.
func (n *ChannelNotifier) Drain() []Notification {
	var out []Notification
	for {
		select {
		case m := <-n.ch:
			out = append(out, m)
		default:
			return out
		}
	}
}

// LogNotifier writes notifications to a logger.
type LogNotifier struct {
	log logging.Logger
}

func NewLogNotifier(l logging.Logger) *LogNotifier {
	return &LogNotifier{log: l}
}

func (n *LogNotifier) Notify(message string, severity Severity) {
	if severity == Error {
		n.log.Warn(context.Background(), "notification", "severity", string(severity), "message", message)
		return
	}
	n.log.Info(context.Background(), "notification", "severity", string(severity), "message", message)
}

// Multi fans a notification out to several notifiers; nil entries are skipped.
type Multi []Notifier

func (m Multi) Notify(message string, severity Severity) {
	for _, n := range m {
		if n != nil {
			n.Notify(message, severity)
		}
	}
}

package register

import (
	"log/slog"

	"github.com/eshaffer321/pos-register/internal/domain/cart"
)

// noticeRecorder logs operator notices and keeps the latest one so it can
// be returned with the operation's State.
type noticeRecorder struct {
	logger  *slog.Logger
	forward cart.Notifier
	last    string
}

func (n *noticeRecorder) Notify(message string) {
	n.logger.Warn("operator notice", "message", message)
	n.last = message
	if n.forward != nil {
		n.forward.Notify(message)
	}
}

func (n *noticeRecorder) reset() {
	n.last = ""
}

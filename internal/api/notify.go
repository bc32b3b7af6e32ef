package api

import (
	"time"

	"github.com/sirupsen/logrus"
)

// Notification is a non-blocking toast for the operator.
type Notification struct {
	Level   string    `json:"level"`
	Message string    `json:"message"`
	Status  int       `json:"status,omitempty"`
	Time    time.Time `json:"time"`
}

type Notifier interface {
	Notify(n Notification)
}

type NotifierFunc func(n Notification)

func (f NotifierFunc) Notify(n Notification) { f(n) }

// LogNotifier writes toasts to the log; it is the fallback when no UI is attached.
type LogNotifier struct {
	Log *logrus.Logger
}

func (l LogNotifier) Notify(n Notification) {
	l.Log.WithFields(logrus.Fields{"status": n.Status, "level": n.Level}).Warn(n.Message)
}

// Notifiers fans a toast out to every notifier in order.
type Notifiers []Notifier

func (ns Notifiers) Notify(n Notification) {
	for _, x := range ns {
		if x != nil {
			x.Notify(n)
		}
	}
}

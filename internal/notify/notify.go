// Package notify delivers user-facing notifications such as achievement
// toasts.
package notify

import (
	"context"
	"sync"

	"github.com/sirupsen/logrus"
)

type Kind string

const (
	KindAchievement Kind = "achievement"
	KindInfo        Kind = "info"
)

type Notification struct {
	Kind    Kind   `json:"kind"`
	Title   string `json:"title"`
	Message string `json:"message"`
}

type Notifier interface {
	Notify(ctx context.Context, username string, n Notification)
}

// LogNotifier writes every notification as a structured log entry.
type LogNotifier struct{}

func NewLogNotifier() *LogNotifier {
	return &LogNotifier{}
}

func (*LogNotifier) Notify(_ context.Context, username string, n Notification) {
	logrus.WithFields(logrus.Fields{
		"user":  username,
		"kind":  n.Kind,
		"title": n.Title,
	}).Info(n.Message)
}

type Delivered struct {
	Username string
	Notification
}

// Recorder keeps every notification in memory.
type Recorder struct {
	mu        sync.Mutex
	delivered []Delivered
}

func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) Notify(_ context.Context, username string, n Notification) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.delivered = append(r.delivered, Delivered{Username: username, Notification: n})
}

func (r *Recorder) Delivered() []Delivered {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Delivered, len(r.delivered))
	copy(out, r.delivered)
	return out
}

package mail

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

const (
	queueDepth  = 64
	sendTimeout = 15 * time.Second
)

// Notifier dispatches notification emails from a background worker so the
// HTTP request that produced them never waits on the mail provider.
// Delivery is at most once: if the queue is full or a send fails, the
// notification is logged and dropped. There is no retry and no dead-letter
// queue.
type Notifier struct {
	client *Client
	logger *slog.Logger

	queue     chan Notification
	wg        sync.WaitGroup
	closeOnce sync.Once
}

// NewNotifier creates a Notifier. A nil client produces a disabled notifier
// whose Notify is a no-op, for deployments without a mail API key.
func NewNotifier(client *Client, logger *slog.Logger) *Notifier {
	return &Notifier{
		client: client,
		logger: logger,
		queue:  make(chan Notification, queueDepth),
	}
}

// Start launches the background worker. Safe to call on a disabled notifier.
func (n *Notifier) Start() {
	if n.client == nil {
		return
	}
	n.wg.Add(1)
	go n.run()
}

func (n *Notifier) run() {
	defer n.wg.Done()
	for note := range n.queue {
		n.send(note)
	}
}

func (n *Notifier) send(note Notification) {
	ctx, cancel := context.WithTimeout(context.Background(), sendTimeout)
	defer cancel()

	html, err := note.Render()
	if err != nil {
		n.logger.Error("render notification email", "submission_id", note.SubmissionID, "error", err)
		return
	}

	if err := n.client.Send(ctx, note.Subject(), html, note.Email); err != nil {
		n.logger.Error("send notification email", "submission_id", note.SubmissionID, "error", err)
		return
	}
	n.logger.Info("notification email sent", "submission_id", note.SubmissionID)
}

// Notify enqueues a notification without blocking. On a full queue the
// notification is dropped and logged.
func (n *Notifier) Notify(note Notification) {
	if n.client == nil {
		return
	}
	select {
	case n.queue <- note:
	default:
		n.logger.Warn("notification queue full, dropping", "submission_id", note.SubmissionID)
	}
}

// Close stops accepting notifications and waits for the worker to drain the
// queue. Called during graceful shutdown.
func (n *Notifier) Close() {
	n.closeOnce.Do(func() {
		close(n.queue)
	})
	n.wg.Wait()
}

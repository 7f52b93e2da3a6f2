package chime

import (
	"context"

	"github.com/hammamikhairi/pocketchef/internal/domain"
	"github.com/hammamikhairi/pocketchef/internal/logger"
)

// Compile-time interface check.
var _ domain.Notifier = (*Notifier)(nil)

// Notifier wraps another notifier and plays a cue on urgent messages.
// The cue plays in the background so notifications never wait on audio.
type Notifier struct {
	next  domain.Notifier
	sound Sounder
	cue   []byte
	log   *logger.Logger
}

// NewNotifier decorates next. volume is clamped to 0..1.
func NewNotifier(next domain.Notifier, sound Sounder, volume float64, log *logger.Logger) *Notifier {
	return &Notifier{
		next:  next,
		sound: sound,
		cue:   Synth(ErrorCue, volume),
		log:   log,
	}
}

// Notify passes message through without sound.
func (n *Notifier) Notify(ctx context.Context, message string) error {
	return n.next.Notify(ctx, message)
}

// NotifyUrgent passes message through and plays the error cue.
func (n *Notifier) NotifyUrgent(ctx context.Context, message string) error {
	if err := n.next.NotifyUrgent(ctx, message); err != nil {
		return err
	}
	go func() {
		if err := n.sound.Play(n.cue); err != nil {
			n.log.Warn("chime: %v", err)
		}
	}()
	return nil
}

// Package notify provides the post-commit notification dispatcher boundary.
//
// Delivery is best effort: dispatch happens strictly after the owning
// transaction commits, and a failed dispatch never affects committed state.
package notify

import (
	"context"

	"go.uber.org/zap"
)

// EventType identifies the kind of domain event being dispatched.
type EventType string

// Dispatched event types.
const (
	EventBidAccepted          EventType = "bid_accepted"
	EventBidRejected          EventType = "bid_rejected"
	EventBidResent            EventType = "bid_resent"
	EventParticipantRemoved   EventType = "participant_removed"
	EventProjectStateChanged  EventType = "project_state_changed"
	EventRequirementCompleted EventType = "requirement_completed"
	EventProjectCompleted     EventType = "project_completed"
)

// Event carries the minimal context a notification channel needs.
type Event struct {
	Type      EventType
	ProjectID string
	// Subject is the entity the event is about (bid, member, requirement id).
	Subject string
	// Detail is a free-form human-readable note (state change, amount, reason).
	Detail string
}

// Dispatcher delivers domain events to external notification channels.
type Dispatcher interface {
	Dispatch(ctx context.Context, e Event)
}

type logDispatcher struct {
	logger *zap.SugaredLogger
}

// NewLogging creates a dispatcher that records events in the service log.
// It stands in for the external e-mail/notification delivery collaborator.
func NewLogging(logger *zap.SugaredLogger) Dispatcher {
	return &logDispatcher{logger: logger}
}

func (d *logDispatcher) Dispatch(_ context.Context, e Event) {
	d.logger.Infow("notification dispatched",
		"event", string(e.Type),
		"project_id", e.ProjectID,
		"subject", e.Subject,
		"detail", e.Detail,
	)
}

type nopDispatcher struct{}

// NewNop creates a dispatcher that drops all events. Used in tests.
func NewNop() Dispatcher {
	return nopDispatcher{}
}

func (nopDispatcher) Dispatch(context.Context, Event) {}

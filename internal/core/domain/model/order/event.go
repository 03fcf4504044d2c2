package order

import (
	"time"

	"tagging/internal/core/domain/model/kernel"
)

// EventType tags an audit trail entry.
type EventType string

const (
	EventDelivered             EventType = "delivered"
	EventCompleted             EventType = "completed"
	EventAutoCompleted         EventType = "auto_completed"
	EventRevisionRequested     EventType = "revision_requested"
	EventCancellationRequested EventType = "cancellation_requested"
	EventExtensionRequested    EventType = "extension_requested"
	EventDisputeOpened         EventType = "dispute_opened"
	EventRequestApproved       EventType = "request_approved"
	EventRequestRejected       EventType = "request_rejected"
	EventDeliveryDateUpdated   EventType = "delivery_date_updated"
)

// Event is one append-only entry of an order's audit trail. It is created by
// the Order aggregate exactly once per state transition and never mutated.
// A nil actor denotes a system-triggered transition such as auto-completion.
type Event struct {
	id                  kernel.UUID
	orderID             kernel.UUID
	eventType           EventType
	actorID             *kernel.UUID
	message             string
	cancellationReason  string
	cancellationMessage string
	extensionDays       int
	extensionReason     string
	createdAt           time.Time
}

func newEvent(orderID kernel.UUID, eventType EventType, actorID *kernel.UUID, message string, now time.Time) *Event {
	return &Event{
		id:        kernel.NewUUID(),
		orderID:   orderID,
		eventType: eventType,
		actorID:   actorID,
		message:   message,
		createdAt: now,
	}
}

// withRequest mirrors the kind specific request fields onto the event so the
// history survives clearing the pending request.
func (e *Event) withRequest(r PendingRequest) *Event {
	e.cancellationReason = r.cancellationReason
	e.cancellationMessage = r.cancellationMessage
	e.extensionDays = r.extensionDays
	e.extensionReason = r.extensionReason
	return e
}

// RestoreEvent rebuilds a persisted event.
func RestoreEvent(
	id, orderID kernel.UUID,
	eventType EventType,
	actorID *kernel.UUID,
	message, cancellationReason, cancellationMessage string,
	extensionDays int,
	extensionReason string,
	createdAt time.Time,
) *Event {
	return &Event{
		id:                  id,
		orderID:             orderID,
		eventType:           eventType,
		actorID:             actorID,
		message:             message,
		cancellationReason:  cancellationReason,
		cancellationMessage: cancellationMessage,
		extensionDays:       extensionDays,
		extensionReason:     extensionReason,
		createdAt:           createdAt,
	}
}

func (e *Event) ID() kernel.UUID             { return e.id }
func (e *Event) OrderID() kernel.UUID        { return e.orderID }
func (e *Event) Type() EventType             { return e.eventType }
func (e *Event) ActorID() *kernel.UUID       { return e.actorID }
func (e *Event) Message() string             { return e.message }
func (e *Event) CancellationReason() string  { return e.cancellationReason }
func (e *Event) CancellationMessage() string { return e.cancellationMessage }
func (e *Event) ExtensionDays() int          { return e.extensionDays }
func (e *Event) ExtensionReason() string     { return e.extensionReason }
func (e *Event) CreatedAt() time.Time        { return e.createdAt }
func (e *Event) IsSystem() bool              { return e.actorID == nil }

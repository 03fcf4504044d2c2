package order

import (
	"fmt"

	"tagging/internal/pkg/errs"
)

// Status represents the lifecycle state of an order.
//
// State transitions:
//
//	Active ──┬──> Delivered ──┬──> Completed
//	  │  ▲   │        ▲       │
//	  │  │   │        │       └──> In dispute ──> Active | Revision | Cancelled | Delivered
//	  ▼  │   │        │
//	 Late ───┘    Revision ──> Late
//
// Late is derived by the sweep from the due date and never requested by a
// user. Any non-terminal status except Delivered (for extensions) can move to
// In dispute when a resolution request is submitted; see ValidateRequest.
// Completed and Cancelled are terminal.
type Status int

const (
	// Unknown catches uninitialized Status values.
	Unknown Status = iota

	// Active is the initial status after purchase, while the admin works on the order.
	Active

	// Delivered means an admin submitted a delivery and the owner has to react.
	Delivered

	// Late is applied by the sweep when the due date passed before delivery.
	Late

	// Revision is a fresh fulfillment cycle after an approved revision request.
	Revision

	// InDispute marks an order with a pending resolution request.
	InDispute

	// Completed is terminal: accepted by the owner or auto-completed.
	Completed

	// Cancelled is terminal: an approved cancellation request.
	Cancelled
)

func getStatusStrings() map[Status]string {
	return map[Status]string{
		Unknown:   "Unknown",
		Active:    "Active",
		Delivered: "Delivered",
		Late:      "Late",
		Revision:  "Revision",
		InDispute: "In dispute",
		Completed: "Completed",
		Cancelled: "Cancelled",
	}
}

func getValidStatusStrings() map[Status]string {
	//nolint:exhaustive // Unknown is intentionally excluded as it's invalid
	return map[Status]string{
		Active:    "Active",
		Delivered: "Delivered",
		Late:      "Late",
		Revision:  "Revision",
		InDispute: "In dispute",
		Completed: "Completed",
		Cancelled: "Cancelled",
	}
}

// AllStatuses lists every valid status in display order.
func AllStatuses() []Status {
	return []Status{Active, Delivered, Late, Revision, InDispute, Completed, Cancelled}
}

// ParseStatus converts the persisted string form back into a Status.
func ParseStatus(s string) (Status, error) {
	for status, str := range getValidStatusStrings() {
		if str == s {
			return status, nil
		}
	}
	return Unknown, errs.NewValueIsInvalidErrorWithCause("status is invalid", fmt.Errorf("%q is not a valid status", s))
}

// Validate checks if the Status value is one of the defined states.
func (s Status) Validate() error {
	if _, ok := getValidStatusStrings()[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("status is invalid", fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

// String returns the persisted and displayed name of the status.
func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "Unknown"
}

// IsTerminal reports whether no further transitions are possible.
func (s Status) IsTerminal() bool {
	return s == Completed || s == Cancelled
}

// HasDueDate reports whether the due date is meaningful in this status.
func (s Status) HasDueDate() bool {
	return s == Active || s == Revision || s == Late
}

// ValidateDeliver checks whether a delivery may be submitted.
//
// Valid statuses: Active, Revision, Late. Everything else, including a pending
// dispute, is rejected with a StateIsInvalidError.
func (s Status) ValidateDeliver() error {
	if !s.HasDueDate() {
		return invalidTransition(s, "deliver")
	}
	return nil
}

// Deliver transitions the status to Delivered.
func (s Status) Deliver() (Status, error) {
	if err := s.ValidateDeliver(); err != nil {
		return Unknown, err
	}
	return Delivered, nil
}

// Complete transitions Delivered to Completed. It serves both the owner's
// acceptance and the 72h auto-completion.
func (s Status) Complete() (Status, error) {
	if s != Delivered {
		return Unknown, invalidTransition(s, "complete")
	}
	return Completed, nil
}

// MarkLate transitions Active or Revision to Late.
func (s Status) MarkLate() (Status, error) {
	if s != Active && s != Revision {
		return Unknown, invalidTransition(s, "mark late")
	}
	return Late, nil
}

// Reactivate transitions Late back to Active once the due date is in the future again.
func (s Status) Reactivate() (Status, error) {
	if s != Late {
		return Unknown, invalidTransition(s, "reactivate")
	}
	return Active, nil
}

// ValidateRequest checks whether a resolution request of the given kind may be
// submitted from this status.
//
//	cancellation     anything except Completed, Cancelled
//	extend_delivery  anything except Completed, Cancelled, Delivered
//	revision         Delivered only
//	dispute          anything except Completed, Cancelled
//
// A second request is never accepted while one is pending.
func (s Status) ValidateRequest(kind RequestKind) error {
	if err := kind.Validate(); err != nil {
		return err
	}

	if s == InDispute {
		return invalidTransition(s, fmt.Sprintf("submit a %s request", kind))
	}

	var allowed bool
	switch kind {
	case CancellationRequest, DisputeRequest:
		allowed = !s.IsTerminal()
	case ExtensionRequest:
		allowed = !s.IsTerminal() && s != Delivered
	case RevisionRequest:
		allowed = s == Delivered
	case UnknownRequest:
		allowed = false
	}

	if !allowed || s.Validate() != nil {
		return invalidTransition(s, fmt.Sprintf("submit a %s request", kind))
	}
	return nil
}

// OpenRequest transitions the status to InDispute for the given request kind.
func (s Status) OpenRequest(kind RequestKind) (Status, error) {
	if err := s.ValidateRequest(kind); err != nil {
		return Unknown, err
	}
	return InDispute, nil
}

// Resolve leaves InDispute towards the status chosen by the approval or
// rejection of the pending request.
//
// Valid targets: Active, Revision, Cancelled, Delivered.
func (s Status) Resolve(target Status) (Status, error) {
	if s != InDispute {
		return Unknown, invalidTransition(s, "resolve a request")
	}

	switch target { //nolint:exhaustive // only resolution targets are listed
	case Active, Revision, Cancelled, Delivered:
		return target, nil
	default:
		return Unknown, errs.NewValueIsInvalidErrorWithCause(
			"status is invalid",
			fmt.Errorf("%s is not a valid status to resolve a request to", target),
		)
	}
}

func invalidTransition(s Status, action string) error {
	return errs.NewStateIsInvalidErrorWithCause(
		"status",
		fmt.Errorf("%s is not a valid status to %s", s, action),
	)
}

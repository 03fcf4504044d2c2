package order

import (
	"errors"
	"fmt"
	"strings"

	"tagging/internal/pkg/errs"
	"tagging/internal/pkg/guard"
)

// ErrPendingRequestIsNotConstructed is returned for PendingRequest literals.
var ErrPendingRequestIsNotConstructed = errors.New("PendingRequest must be created via a New*Request constructor")

// RequestKind is the closed set of resolution requests.
type RequestKind int

const (
	UnknownRequest RequestKind = iota
	CancellationRequest
	ExtensionRequest
	RevisionRequest
	DisputeRequest
)

func getRequestKindStrings() map[RequestKind]string {
	return map[RequestKind]string{
		UnknownRequest:      "unknown",
		CancellationRequest: "cancellation",
		ExtensionRequest:    "extend_delivery",
		RevisionRequest:     "revision",
		DisputeRequest:      "dispute",
	}
}

// ParseRequestKind converts the persisted form ("cancellation", "extend_delivery",
// "revision", "dispute") into a RequestKind.
func ParseRequestKind(s string) (RequestKind, error) {
	for kind, str := range getRequestKindStrings() {
		if kind != UnknownRequest && str == s {
			return kind, nil
		}
	}
	return UnknownRequest, errs.NewValueIsInvalidErrorWithCause("request type", fmt.Errorf("%q is not a valid request type", s))
}

func (k RequestKind) String() string {
	if str, ok := getRequestKindStrings()[k]; ok {
		return str
	}
	return "unknown"
}

func (k RequestKind) Validate() error {
	if k <= UnknownRequest || k > DisputeRequest {
		return errs.NewValueIsInvalidErrorWithCause("request type", fmt.Errorf("%d is not a valid request type", k))
	}
	return nil
}

// requestedEventType maps the request kind to the audit event it produces.
func (k RequestKind) requestedEventType() EventType {
	switch k {
	case CancellationRequest:
		return EventCancellationRequested
	case ExtensionRequest:
		return EventExtensionRequested
	case RevisionRequest:
		return EventRevisionRequested
	case DisputeRequest, UnknownRequest:
		return EventDisputeOpened
	}
	return EventDisputeOpened
}

// PendingRequest is the resolution request an order is waiting on. Only the
// fields of its kind are populated. It is immutable; the raising side is
// stamped by Order.SubmitRequest.
type PendingRequest struct {
	kind                RequestKind
	message             string
	cancellationReason  string
	cancellationMessage string
	extensionDays       int
	extensionReason     string
	raisedByAdmin       bool

	guard guard.ConstructorGuard
}

// NewCancellationRequest asks to cancel the order. A reason is required.
func NewCancellationRequest(reason, message string) (PendingRequest, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return PendingRequest{}, errs.NewValueIsRequiredError("cancellation reason")
	}
	return PendingRequest{
		kind:                CancellationRequest,
		cancellationReason:  reason,
		cancellationMessage: strings.TrimSpace(message),
		guard:               guard.NewConstructorGuard(),
	}, nil
}

// NewExtensionRequest asks to move the due date by days (> 0).
func NewExtensionRequest(days int, reason string) (PendingRequest, error) {
	if days <= 0 {
		return PendingRequest{}, errs.NewValueIsInvalidErrorWithCause(
			"extension days",
			fmt.Errorf("%d is not greater than 0", days),
		)
	}
	return PendingRequest{
		kind:            ExtensionRequest,
		extensionDays:   days,
		extensionReason: strings.TrimSpace(reason),
		guard:           guard.NewConstructorGuard(),
	}, nil
}

// NewRevisionRequest asks for a new fulfillment cycle. The instructions are
// kept on the order after approval.
func NewRevisionRequest(message string) (PendingRequest, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return PendingRequest{}, errs.NewValueIsRequiredError("revision message")
	}
	return PendingRequest{
		kind:    RevisionRequest,
		message: message,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

// NewDisputeRequest opens a generic dispute.
func NewDisputeRequest(message string) (PendingRequest, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return PendingRequest{}, errs.NewValueIsRequiredError("dispute message")
	}
	return PendingRequest{
		kind:    DisputeRequest,
		message: message,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

// RestorePendingRequest rebuilds a persisted request without re-running the
// submit-time input checks.
func RestorePendingRequest(
	kind RequestKind,
	message, cancellationReason, cancellationMessage string,
	extensionDays int,
	extensionReason string,
	raisedByAdmin bool,
) (PendingRequest, error) {
	if err := kind.Validate(); err != nil {
		return PendingRequest{}, err
	}
	return PendingRequest{
		kind:                kind,
		message:             message,
		cancellationReason:  cancellationReason,
		cancellationMessage: cancellationMessage,
		extensionDays:       extensionDays,
		extensionReason:     extensionReason,
		raisedByAdmin:       raisedByAdmin,
		guard:               guard.NewConstructorGuard(),
	}, nil
}

func (r PendingRequest) Validate() error {
	return r.guard.Validate(ErrPendingRequestIsNotConstructed)
}

func (r PendingRequest) Kind() RequestKind           { return r.kind }
func (r PendingRequest) Message() string             { return r.message }
func (r PendingRequest) CancellationReason() string  { return r.cancellationReason }
func (r PendingRequest) CancellationMessage() string { return r.cancellationMessage }
func (r PendingRequest) ExtensionDays() int          { return r.extensionDays }
func (r PendingRequest) ExtensionReason() string     { return r.extensionReason }

// RaisedByAdmin reports whether an admin submitted the request, in which case
// the order owner is the side that resolves it.
func (r PendingRequest) RaisedByAdmin() bool { return r.raisedByAdmin }

func (r PendingRequest) raisedBy(admin bool) PendingRequest {
	r.raisedByAdmin = admin
	return r
}

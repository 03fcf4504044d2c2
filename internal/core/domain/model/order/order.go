package order

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"tagging/internal/core/domain/model/kernel"
	"tagging/internal/pkg/errs"
)

var (
	// ErrOrderIsNotConstructed is returned when an Order instance was not created
	// through NewOrder or RestoreOrder.
	ErrOrderIsNotConstructed = errors.New("Order must be created via NewOrder constructor")
)

const (
	// AutoCompleteGrace is how long a delivery may go unanswered before the
	// sweep completes the order on the owner's behalf.
	AutoCompleteGrace = 72 * time.Hour

	// RevisionWindow is the due date granted by an approved revision request,
	// independent of the package delivery days.
	RevisionWindow = 24 * time.Hour

	day = 24 * time.Hour
)

// Actor is the authenticated user performing an operation. The lifecycle only
// needs the identity and the admin flag.
type Actor interface {
	ID() kernel.UUID
	IsAdmin() bool
}

// Order is the aggregate root of the marketplace. It owns its deliveries and
// its audit events and enforces every lifecycle rule:
//   - status changes only through the transitions defined on Status
//   - status is InDispute if and only if a request is pending
//   - a review is set once, and only on a Completed order
//   - only admins deliver, only the owner completes and reviews
//   - a pending request is resolved only by the side that did not raise it
//
// Mutating methods record the Deliveries and Events they produce as
// uncommitted; the repository writes them together with the order row.
type Order struct {
	id        kernel.UUID
	userID    kernel.UUID
	packageID kernel.UUID
	details   string
	tags      []Tag
	createdAt time.Time

	// dueDate is only meaningful while the status is Active, Revision or Late
	dueDate *time.Time
	status  Status

	response      string
	deliveredFile string
	deliveries    []*Delivery

	review      *Review
	completedAt *time.Time
	cancelledAt *time.Time

	pending              *PendingRequest
	revisionInstructions string

	// version is the persisted revision used for optimistic locking
	version int

	uncommittedEvents     []*Event
	uncommittedDeliveries []*Delivery

	isConstructed bool
}

// NewOrder places an order for a package. The due date is now plus the
// package delivery days and the order starts Active.
//
//	o, err := order.NewOrder(kernel.NewUUID(), customer.ID(), pkg.ID(), pkg.DeliveryDays(),
//	    "Logo tags for my stream", tags, clock.Now())
func NewOrder(
	id, userID, packageID kernel.UUID,
	deliveryDays int,
	details string,
	tags []Tag,
	now time.Time,
) (*Order, error) {
	o := &Order{
		status:        Active,
		createdAt:     now,
		isConstructed: true,
	}

	if err := errors.Join(
		o.setID(id),
		o.setUserID(userID),
		o.setPackageID(packageID),
		o.setDetails(details),
		o.setDueDate(deliveryDays, now),
	); err != nil {
		return nil, err
	}

	o.tags = append([]Tag(nil), tags...)
	return o, nil
}

// State is the persisted form of an Order, used by RestoreOrder.
type State struct {
	ID                   kernel.UUID
	UserID               kernel.UUID
	PackageID            kernel.UUID
	Details              string
	Tags                 []Tag
	CreatedAt            time.Time
	DueDate              *time.Time
	Status               Status
	Response             string
	DeliveredFile        string
	Deliveries           []*Delivery
	Review               *Review
	CompletedAt          *time.Time
	CancelledAt          *time.Time
	Pending              *PendingRequest
	RevisionInstructions string
	Version              int
}

// RestoreOrder rehydrates an order from storage and checks the invariants that
// can be verified on a snapshot.
func RestoreOrder(s State) (*Order, error) {
	o := &Order{
		details:              s.Details,
		tags:                 append([]Tag(nil), s.Tags...),
		createdAt:            s.CreatedAt,
		dueDate:              s.DueDate,
		status:               s.Status,
		response:             s.Response,
		deliveredFile:        s.DeliveredFile,
		deliveries:           append([]*Delivery(nil), s.Deliveries...),
		review:               s.Review,
		completedAt:          s.CompletedAt,
		cancelledAt:          s.CancelledAt,
		pending:              s.Pending,
		revisionInstructions: s.RevisionInstructions,
		version:              s.Version,
		isConstructed:        true,
	}

	if err := errors.Join(
		o.setID(s.ID),
		o.setUserID(s.UserID),
		o.setPackageID(s.PackageID),
		s.Status.Validate(),
		validatePending(s.Status, s.Pending),
	); err != nil {
		return nil, err
	}

	return o, nil
}

// Validate ensures the Order instance was properly constructed.
func (o *Order) Validate() error {
	if o == nil || !o.isConstructed {
		return ErrOrderIsNotConstructed
	}
	return nil
}

// IsEqual compares two orders by identifier.
func (o *Order) IsEqual(other *Order) bool {
	return other != nil && o.id.IsEqual(other.id)
}

func (o *Order) ID() kernel.UUID         { return o.id }
func (o *Order) UserID() kernel.UUID     { return o.userID }
func (o *Order) PackageID() kernel.UUID  { return o.packageID }
func (o *Order) Details() string         { return o.details }
func (o *Order) Tags() []Tag             { return append([]Tag(nil), o.tags...) }
func (o *Order) CreatedAt() time.Time    { return o.createdAt }
func (o *Order) DueDate() *time.Time     { return copyTime(o.dueDate) }
func (o *Order) Status() Status          { return o.status }
func (o *Order) Response() string        { return o.response }
func (o *Order) DeliveredFile() string   { return o.deliveredFile }
func (o *Order) Review() *Review         { return o.review }
func (o *Order) CompletedAt() *time.Time { return copyTime(o.completedAt) }
func (o *Order) CancelledAt() *time.Time { return copyTime(o.cancelledAt) }
func (o *Order) Version() int            { return o.version }
func (o *Order) IsOwnedBy(a Actor) bool  { return a != nil && a.ID().IsEqual(o.userID) }

// PendingRequest returns the request the order is waiting on, or nil.
func (o *Order) PendingRequest() *PendingRequest {
	if o.pending == nil {
		return nil
	}
	r := *o.pending
	return &r
}

// RequestMessage is the free text of the pending request or, after an
// approved revision, the retained revision instructions.
func (o *Order) RequestMessage() string {
	if o.pending != nil {
		return o.pending.message
	}
	return o.revisionInstructions
}

// RevisionInstructions returns the message of the last approved revision
// request while no other request has been raised since.
func (o *Order) RevisionInstructions() string {
	return o.revisionInstructions
}

// Deliveries returns all deliveries ordered by number.
func (o *Order) Deliveries() []*Delivery {
	return append([]*Delivery(nil), o.deliveries...)
}

// LastDelivery returns the most recent delivery, or nil if there is none.
func (o *Order) LastDelivery() *Delivery {
	var last *Delivery
	for _, d := range o.deliveries {
		if last == nil || d.number > last.number {
			last = d
		}
	}
	return last
}

// UncommittedEvents returns events recorded since the order was loaded.
func (o *Order) UncommittedEvents() []*Event {
	return append([]*Event(nil), o.uncommittedEvents...)
}

// UncommittedDeliveries returns deliveries created since the order was loaded.
func (o *Order) UncommittedDeliveries() []*Delivery {
	return append([]*Delivery(nil), o.uncommittedDeliveries...)
}

// MarkCommitted is called by the repository once the uncommitted records and
// the new version are stored.
func (o *Order) MarkCommitted(version int) {
	o.uncommittedEvents = nil
	o.uncommittedDeliveries = nil
	o.version = version
}

// Deliver records an admin delivery.
//
// Business rules:
//   - only admins deliver
//   - at least one file is attached
//   - the status is Active, Revision or Late
//
// The delivery gets the next sequential number, the response is mirrored on
// the order, the first file becomes the legacy delivered-file reference and a
// "delivered" event is recorded.
func (o *Order) Deliver(actor Actor, response string, files []DeliveryFile, now time.Time) (*Delivery, error) {
	if actor == nil || !actor.IsAdmin() {
		return nil, errs.NewNotAuthorizedError("deliver order")
	}
	if len(files) == 0 {
		return nil, errs.NewValueIsRequiredError("delivery files")
	}

	newStatus, err := o.status.Deliver()
	if err != nil {
		return nil, err
	}

	d := &Delivery{
		id:           kernel.NewUUID(),
		orderID:      o.id,
		number:       len(o.deliveries) + 1,
		responseText: response,
		deliveredAt:  now,
		adminID:      actor.ID(),
		files:        append([]DeliveryFile(nil), files...),
	}

	o.status = newStatus
	o.response = response
	o.deliveredFile = files[0].filename
	o.deliveries = append(o.deliveries, d)
	o.uncommittedDeliveries = append(o.uncommittedDeliveries, d)
	o.record(newEvent(o.id, EventDelivered, actorID(actor), response, now))
	return d, nil
}

// Complete accepts the latest delivery on behalf of the owner.
func (o *Order) Complete(actor Actor, now time.Time) error {
	if !o.IsOwnedBy(actor) {
		return errs.NewNotAuthorizedError("complete order")
	}

	newStatus, err := o.status.Complete()
	if err != nil {
		return err
	}

	o.status = newStatus
	o.completedAt = &now
	o.record(newEvent(o.id, EventCompleted, actorID(actor), "Order marked as completed", now))
	return nil
}

// AutoComplete completes a Delivered order whose latest delivery is older
// than grace. It reports whether the order changed, so repeated sweeps are
// no-ops.
func (o *Order) AutoComplete(now time.Time, grace time.Duration) bool {
	if o.status != Delivered {
		return false
	}

	last := o.LastDelivery()
	if last == nil || !now.After(last.deliveredAt.Add(grace)) {
		return false
	}

	newStatus, err := o.status.Complete()
	if err != nil {
		return false
	}

	o.status = newStatus
	o.completedAt = &now
	o.record(newEvent(o.id, EventAutoCompleted, nil,
		fmt.Sprintf("Order automatically completed %d hours after delivery", int(grace.Hours())), now))
	return true
}

// SubmitReview stores the owner's rating of a completed order. A review can
// only be given once.
func (o *Order) SubmitReview(actor Actor, review Review) error {
	if !o.IsOwnedBy(actor) {
		return errs.NewNotAuthorizedError("review order")
	}
	if o.status != Completed {
		return invalidTransition(o.status, "review")
	}
	if o.review != nil {
		return errs.NewStateIsInvalidErrorWithCause("review", errors.New("order was already reviewed"))
	}

	o.review = &review
	return nil
}

// ReconcileLateness derives the Late status from the due date: Active and
// Revision orders past due become Late, Late orders whose due date moved into
// the future become Active again. It reports whether the status changed.
func (o *Order) ReconcileLateness(now time.Time) bool {
	if o.dueDate == nil {
		return false
	}

	var (
		next Status
		err  error
	)
	switch {
	case o.status == Late && !o.dueDate.Before(now):
		next, err = o.status.Reactivate()
	case (o.status == Active || o.status == Revision) && o.dueDate.Before(now):
		next, err = o.status.MarkLate()
	default:
		return false
	}
	if err != nil {
		return false
	}

	o.status = next
	return true
}

func (o *Order) record(e *Event) {
	o.uncommittedEvents = append(o.uncommittedEvents, e)
}

func (o *Order) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	o.id = id
	return nil
}

func (o *Order) setUserID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("user", err)
	}
	o.userID = id
	return nil
}

func (o *Order) setPackageID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("package", err)
	}
	o.packageID = id
	return nil
}

func (o *Order) setDetails(details string) error {
	details = strings.TrimSpace(details)
	if details == "" {
		return errs.NewValueIsRequiredError("details")
	}
	o.details = details
	return nil
}

func (o *Order) setDueDate(deliveryDays int, now time.Time) error {
	if deliveryDays <= 0 {
		return errs.NewValueIsInvalidErrorWithCause("delivery days", fmt.Errorf("%d is not greater than 0", deliveryDays))
	}
	due := now.Add(time.Duration(deliveryDays) * day)
	o.dueDate = &due
	return nil
}

func validatePending(status Status, pending *PendingRequest) error {
	switch {
	case status == InDispute && pending == nil:
		return errs.NewValueIsRequiredErrorWithCause("pending request", fmt.Errorf("%s order has no pending request", status))
	case status != InDispute && pending != nil:
		return errs.NewValueIsInvalidErrorWithCause("pending request", fmt.Errorf("%s order cannot have a pending request", status))
	}
	return nil
}

func actorID(a Actor) *kernel.UUID {
	if a == nil {
		return nil
	}
	id := a.ID()
	return &id
}

func copyTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	c := *t
	return &c
}

// Package order implements the Order aggregate of the tagging marketplace:
// its lifecycle, its deliveries and the resolution engine for cancellation,
// extension, revision and dispute requests.
//
// The package includes:
//   - Order: the aggregate root owning deliveries and the append-only event trail
//   - Status: the state machine enforcing valid lifecycle transitions
//   - PendingRequest: the closed set of resolution requests an order can wait on
//   - Delivery, DeliveryFile: admin fulfillment attempts and their stored assets
//   - Event: one audit trail entry per state transition
//   - Tag, Review: value objects captured at purchase and after completion
//
// Key business rules:
//   - an order is placed Active with a due date of now plus the package delivery days
//   - only admins deliver, only the owner completes, reviews or asks for a revision
//   - an order is In dispute exactly while a request is pending
//   - requests are resolved by the side that did not raise them
//   - Late is derived from the due date by the sweep, never requested
//   - Delivered orders complete automatically 72 hours after the last delivery
//
// Mutations never touch storage. They record Deliveries and Events as
// uncommitted and the repository persists them atomically with the order.
package order

// Package services provides domain services that work across aggregates of
// the tagging marketplace and hold no state of their own.
//
// The package includes:
//   - TimelineBuilder: merges deliveries and audit events into one history
//   - Analytics: dashboard statistics and revenue chart buckets over order facts
//   - NotificationDispatcher: turns order transitions into inbox notifications
//     for the owner or every admin
//
// All services are deterministic; the current time is always passed in.
package services

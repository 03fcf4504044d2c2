// Package kernel holds the value objects shared by every aggregate of the
// tagging domain:
//   - UUID: identifiers for orders, deliveries, events, packages, users and messages
//   - Money: exact two-decimal amounts for package prices and revenue
//   - Clock: the time source injected into handlers and sweeps
package kernel

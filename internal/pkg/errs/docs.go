// Package errs provides the error taxonomy shared by the tagging service.
//
// Domain failures fall into a small set of kinds, each with a sentinel that
// callers test with errors.Is:
//   - ErrObjectNotFound: a referenced order, package, user or notification is absent
//   - ErrValueIsRequired, ErrValueIsInvalid, ErrValueIsOutOfRange: malformed input
//   - ErrStateIsInvalid: an operation attempted from a status that does not permit it
//   - ErrNotAuthorized: the actor lacks the role the operation requires
//   - ErrVersionIsInvalid: an optimistic concurrency conflict on save
//
// Each kind has a struct type carrying details, constructors with and without
// cause, and an Unwrap method returning the sentinel. Anything else is an
// infrastructure failure and is propagated as is.
package errs

// Package muxtimer multiplexes the deadlines of a small, fixed set of events
// onto a single, reprogrammable alarm. Events are identified by their
// ordinal, an integer in the range [0, N), where N is the capacity of the
// Timer, fixed at construction. The mapping between ordinals and whatever
// they represent (e.g. retry, heartbeat, idle) is up to the caller.
//
// Deadlines for the same event are coalesced, to the sooner one, until it
// fires. That is, registering an event that is already pending, with a later
// (or equal) deadline, has no effect.
//
// The implementation is designed for small N (think single digits). Deadlines
// are stored in a slice allocated once, by New, which is scanned linearly, on
// each registration, and each time an event fires. There is exactly one
// underlying timer, regardless of how many events are pending.
//
// A Timer is intended to be driven by a single goroutine, e.g. the control
// loop of a protocol implementation. It is not safe for concurrent use.
package muxtimer

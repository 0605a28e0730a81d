// Package dispatch runs tasks on a single consumer goroutine.
//
// Page redraws must happen on the producer's own goroutine, one at a time,
// while HTTP handlers that need a fresh page wait for the result. Callers
// Submit a task and Wait on the returned Future with a context; a caller
// that gives up simply stops waiting and the task still runs to
// completion on the consumer. Nothing is left locked either way.
package dispatch

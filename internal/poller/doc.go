// Package poller implements the availability retry loop. It probes a small
// ordered set of health paths each cycle and waits between cycles with
// capped exponential backoff, up to a fixed attempt ceiling. Running out of
// attempts is an ordinary outcome, not an error.
package poller

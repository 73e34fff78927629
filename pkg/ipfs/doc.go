// Package ipfs exposes a client for the HTTP control-plane API of an IPFS
// daemon (kubo). Every operation is a thin, synchronous composition: build
// the request URL, perform the exchange, reduce the daemon's JSON or
// NDJSON reply into the value the caller receives.
//
// A Client is a session against one daemon. Calls block until the full
// response is observed; the only concurrency affordance is cross-goroutine
// cancellation via Abort/Reset, and Clone for sessions with independent
// abort lifecycles.
package ipfs

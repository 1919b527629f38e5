// Package sandbox provides liveness validation for transactions that may be
// running on an inconsistent snapshot ("zombies").
//
// A zombie can loop forever on values that could never coexist in a
// consistent execution. Instead of interrupting threads with timer signals,
// validation is an injected capability: a Watchdog periodically asks every
// registered transaction to validate, and a Sampler asks for validation
// every N barrier calls. Either way the request is only a flag; the owning
// transaction acts on it at its next barrier, aborting if its reads are no
// longer consistent.
package sandbox

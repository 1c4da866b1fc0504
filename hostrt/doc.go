// Package hostrt implements the host object runtime the native UI adapters
// register against.
//
// This package contains:
//   - Interned selector table and vtable-based method dispatch
//   - Named class registry with idempotent register-or-get semantics
//   - Type-encoded trampoline bindings
//   - Instance handles with release-exactly-once semantics
//   - Tag-keyed associated state storage
//   - The single-threaded cooperative run loop that delivers every event
package hostrt

// Package native implements the protocol adapters that let application code
// drive the host runtime's list, table, menu, drag, preview, and key-event
// protocols through plain callbacks.
//
// Every adapter follows the same shape: a runtime class is registered once
// per process (create-vs-reuse), trampolines are bound with their type
// encodings, and each adapter instance carries its own state block in the
// runtime's associated-state table under a tag unique to its protocol role.
// Callbacks are single-subscriber per event kind; registering again
// replaces the previous callback.
//
// All adapter operations run on the run loop thread. Construction order is
// mirrored in reverse at teardown: Close detaches state before releasing
// the instance handle, so no event can fire against freed state.
package native

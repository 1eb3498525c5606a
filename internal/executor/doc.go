// Package executor runs a resolved execution plan to completion: installs
// first, then commands, strictly sequentially, stopping at the first
// non-zero exit. There is no retry, no rollback, and no partial success; a
// failed run reports the failing step as a CommandFailure.
package executor

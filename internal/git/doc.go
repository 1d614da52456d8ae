// Package git performs the sparse checkouts of documentation.
//
// A checkout is a shallow, single-branch clone into in-memory object storage
// followed by a walk of the HEAD tree that writes only the files selected by
// the inclusion patterns. No worktree or .git directory is created on disk.
//
// Transient failures are retried with a retry.Policy; errors are classified
// into foundation/errors categories so callers can tell permanent failures
// (authentication, missing repository or branch) from retryable ones.
package git

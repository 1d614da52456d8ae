// Package state persists the records of a run as JSON files.
//
// Files live directly under the output directory:
//
//	<dir>/user-<login>.json
//	<dir>/repos-<login>.json
//
// Each run starts from a clean slate; files are overwritten, never merged.
package state

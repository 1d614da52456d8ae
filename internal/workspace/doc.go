// Package workspace manages the output directory of a run.
//
// The layout is fixed:
//
//	<root>/user-<login>.json   user record
//	<root>/repos-<login>.json  enhanced repository list
//	<root>/repos/<slug>/       sparse checkouts
//	<root>/content/<slug>/     normalized content
//	<root>/site.yaml           site configuration
//
// In clean mode the generated trees are removed before each run so nothing
// from a previous run leaks into the next one. Persisted records are kept.
package workspace

// internal/state/doc.go

// Package state provides the file-backed stores for recorded conversations:
// a JSONL transcript per session and a JSON catalog indexing them. Turns are
// never persisted; they are recomputed from transcript snapshots.
package state

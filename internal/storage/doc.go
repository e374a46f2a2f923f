// Package storage provides the SQLite-backed scenario store: the destructive
// Reset (provisioning) step, the non-destructive Ensure step, and the
// per-call connection access layer used to insert and list records.
package storage

package services

import (
	"abd/internal/models"
)

// DocumentStore owns the ledger file. Load never fails the process on a
// missing or unreadable file; it degrades to an empty document so the bot
// stays up.
type DocumentStore interface {
	Load() (*models.Document, error)
	Save(doc *models.Document) error
}

// SnapshotWriter produces timestamped backup snapshots of the ledger and
// enforces the retention policy.
type SnapshotWriter interface {
	Snapshot(doc *models.Document) (string, error)
	Prune() (int, error)
	Close()
}

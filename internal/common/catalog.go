package common

import "time"

// CatalogEntry records where a stored blob was last seen on chain.
type CatalogEntry struct {
	ContentID string    `json:"content_id"`
	Height    uint64    `json:"height"`
	Index     int       `json:"index"`
	Size      int       `json:"size"`
	StoredAt  time.Time `json:"stored_at"`
}

package ingestion

import (
	"crypto/sha256"
	"encoding/hex"
	"path/filepath"
	"time"
)

// Metadata describes where an ingested document came from.
type Metadata struct {
	Source    string `json:"source"`             // File path, archive entry or URL
	Format    Format `json:"format"`             // Extraction format used
	Platform  string `json:"platform,omitempty"` // Job board platform for URL sources
	Timestamp string `json:"timestamp"`          // RFC3339 format
	Hash      string `json:"hash"`               // SHA256 hex digest of the cleaned text
	Chars     int    `json:"chars"`              // Length of the cleaned text in bytes
}

// NewMetadata creates a new Metadata instance with current timestamp
func NewMetadata(content string, source string, format Format) *Metadata {
	return &Metadata{
		Source:    source,
		Format:    format,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Hash:      computeHash(content),
		Chars:     len(content),
	}
}

// Name returns the base name of the source.
func (m *Metadata) Name() string {
	return filepath.Base(m.Source)
}

func computeHash(content string) string {
	sum := sha256.Sum256([]byte(content))
	return hex.EncodeToString(sum[:])
}

package models

import (
	"time"
)

// Paper represents one exam paper entry in the catalog.
//
// Content holds either an externally-hosted URL or the public URL returned
// by the blob store at upload time. API responses rewrite it to the proxy
// relay path whenever BlobID is set, so clients never see provider URLs.
type Paper struct {
	ID        string    `json:"id"`
	College   string    `json:"college"`
	Degree    string    `json:"degree"`
	Stream    string    `json:"stream"`
	Subject   string    `json:"subject"`
	Year      string    `json:"year"`
	FileName  string    `json:"fileName"`
	Content   string    `json:"content"`
	BlobID    string    `json:"blobId,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// Servable reports whether the record can currently be rendered: it must
// point at an uploaded blob or carry an external URL. Records with neither
// are broken but remain listable.
func (p *Paper) Servable() bool {
	return p.BlobID != "" || p.Content != ""
}

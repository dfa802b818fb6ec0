// Package sink delivers encoded instance documents to their destinations:
// the local filesystem next to the source table, an S3-compatible bucket, or
// a socket.io endpoint.
package sink

import "context"

// Document is one encoded instance document ready for delivery.
type Document struct {
	// Instance is the instance name; it becomes a directory or key segment.
	Instance string
	// FileName is the document's file name, e.g. metadata.json.
	FileName string
	// SourcePath is the table the document was generated from.
	SourcePath string
	Data       []byte
}

// Sink is a destination for documents.
type Sink interface {
	// Name identifies the sink in logs.
	Name() string
	// Write delivers doc and returns where it was stored.
	Write(ctx context.Context, doc Document) (string, error)
	// Close releases any connection held by the sink.
	Close(ctx context.Context) error
}

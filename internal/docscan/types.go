// File path: internal/docscan/types.go

// Package docscan converts a scanned document's detected form fields into a
// flat label-to-value mapping. The analysis capability itself is a black box
// behind the Analyzer port; this package owns the block traversal that turns
// its hierarchical response into usable fields.
package docscan

import "context"

// Block roles and relationship kinds in an analysis response.
const (
	BlockKeyValueSet = "KEY_VALUE_SET"
	BlockWord        = "WORD"

	EntityKey   = "KEY"
	EntityValue = "VALUE"

	RelationshipValue = "VALUE"
	RelationshipChild = "CHILD"
)

// Relationship links a block to related blocks by id.
type Relationship struct {
	Type string   `json:"type"`
	IDs  []string `json:"ids"`
}

// Block is one node of the hierarchical analysis result: key/value set blocks
// reference their paired value and constituent word blocks through
// relationships.
type Block struct {
	ID            string         `json:"id"`
	BlockType     string         `json:"block_type"`
	EntityTypes   []string       `json:"entity_types,omitempty"`
	Text          string         `json:"text,omitempty"`
	Relationships []Relationship `json:"relationships,omitempty"`
}

// AnalysisResult is the full block structure returned for one document.
type AnalysisResult struct {
	Blocks []Block `json:"blocks"`
}

// DocumentLocation identifies a stored scanned document.
type DocumentLocation struct {
	Bucket string `json:"bucket"`
	Key    string `json:"key"`
}

// Analyzer is the port to the document-analysis capability. Implementations
// must return an error on service failure rather than a partial result.
type Analyzer interface {
	AnalyzeDocument(ctx context.Context, loc DocumentLocation) (*AnalysisResult, error)
}

// File path: internal/docscan/extract.go
package docscan

import (
	"context"
	"fmt"
	"strings"

	"github.com/camline/agreementd/internal/common"
)

// ExtractFields invokes the analyzer for the given document and flattens the
// detected key/value pairs. Service failure propagates to the caller; the
// assembler treats it as "no narrative available" for that row.
func ExtractFields(ctx context.Context, analyzer Analyzer, loc DocumentLocation) (map[string]string, error) {
	if analyzer == nil {
		return nil, fmt.Errorf("docscan: no analyzer configured")
	}
	result, err := analyzer.AnalyzeDocument(ctx, loc)
	if err != nil {
		return nil, fmt.Errorf("docscan: analyze %s/%s: %w", loc.Bucket, loc.Key, err)
	}
	fields := FlattenFields(result)
	common.Logger().Debug("docscan: fields extracted", "key", loc.Key, "fields", len(fields))
	return fields, nil
}

// FlattenFields walks the block structure and builds the label-to-value map.
// For every KEY-role block the texts of its child fragments, joined with
// single spaces, form the label; the paired VALUE block's children form the
// value the same way. Missing pairings or children contribute empty strings
// instead of failing the extraction, pairs whose label comes out empty are
// dropped, and duplicate labels resolve last-write-wins.
func FlattenFields(result *AnalysisResult) map[string]string {
	fields := make(map[string]string)
	if result == nil {
		return fields
	}
	byID := make(map[string]Block, len(result.Blocks))
	for _, block := range result.Blocks {
		byID[block.ID] = block
	}
	for _, block := range result.Blocks {
		if block.BlockType != BlockKeyValueSet || !hasEntityType(block, EntityKey) {
			continue
		}
		label := strings.TrimSpace(childText(block, byID))
		value := ""
		if valueBlock, ok := pairedValueBlock(block, byID); ok {
			value = strings.TrimSpace(childText(valueBlock, byID))
		}
		if label == "" {
			continue
		}
		fields[label] = value
	}
	return fields
}

// SerializeFields renders the extracted fields as "label: value" lines for
// narrative generation. Output is not order-stable across runs; callers that
// need determinism should sort, which the narrative prompt does not require.
func SerializeFields(fields map[string]string) string {
	lines := make([]string, 0, len(fields))
	for label, value := range fields {
		lines = append(lines, fmt.Sprintf("%s: %s", label, value))
	}
	return strings.Join(lines, "\n")
}

func hasEntityType(block Block, entity string) bool {
	for _, t := range block.EntityTypes {
		if t == entity {
			return true
		}
	}
	return false
}

func pairedValueBlock(block Block, byID map[string]Block) (Block, bool) {
	for _, rel := range block.Relationships {
		if rel.Type != RelationshipValue || len(rel.IDs) == 0 {
			continue
		}
		if valueBlock, ok := byID[rel.IDs[0]]; ok {
			return valueBlock, true
		}
	}
	return Block{}, false
}

func childText(block Block, byID map[string]Block) string {
	var sb strings.Builder
	for _, rel := range block.Relationships {
		if rel.Type != RelationshipChild {
			continue
		}
		for _, id := range rel.IDs {
			child, ok := byID[id]
			if !ok || child.Text == "" {
				continue
			}
			if sb.Len() > 0 {
				sb.WriteByte(' ')
			}
			sb.WriteString(child.Text)
		}
	}
	return sb.String()
}

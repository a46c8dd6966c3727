// File path: internal/record/merge.go
package record

import (
	"fmt"

	"github.com/camline/agreementd/internal/common"
)

// Sources carries the six tabular inputs of a pipeline run.
type Sources struct {
	Clients               *Dataset
	LoanApplications      *Dataset
	BorrowingRequests     *Dataset
	UnderwritingDecisions *Dataset
	ApprovalMemos         *Dataset
	TermSheets            *Dataset
}

// Merge produces the unified per-application record set: a left-preserving
// join chain rooted at loan applications, with clients joined on client_id
// and every remaining source joined on application_id. Each loan application
// yields exactly one output row; fields missing on the right side stay null.
// When a right-side source holds several rows for the same key, the first one
// wins. Right-side columns already present on the left are ignored, so a
// source reintroducing a join key like client_id never shadows the
// application row's value, while a column only the right side carries always
// comes through.
func Merge(src Sources) (*Dataset, error) {
	if src.LoanApplications == nil || src.LoanApplications.Len() == 0 {
		return nil, fmt.Errorf("merge: loan applications dataset is empty")
	}
	if !src.LoanApplications.HasColumn("application_id") {
		return nil, fmt.Errorf("merge: loan applications missing application_id column")
	}
	logger := common.Logger()

	merged := src.LoanApplications
	merged = leftJoin(merged, src.Clients, "client_id")
	for _, right := range []*Dataset{src.BorrowingRequests, src.UnderwritingDecisions, src.ApprovalMemos, src.TermSheets} {
		if right == nil {
			continue
		}
		merged = leftJoin(merged, right, "application_id")
	}
	logger.Debug("merge: datasets joined", "rows", merged.Len(), "columns", len(merged.Columns))
	return merged, nil
}

// leftJoin joins right onto left by the given key. Every left row appears
// exactly once in the result; unmatched rows keep the right-side columns
// null.
func leftJoin(left, right *Dataset, key string) *Dataset {
	if right == nil || right.Len() == 0 || !right.HasColumn(key) {
		return left
	}
	index := make(map[string]Row, right.Len())
	for _, row := range right.Rows {
		value, ok := row.Field(key)
		if !ok {
			continue
		}
		if _, seen := index[value]; seen {
			continue
		}
		index[value] = row
	}

	out := &Dataset{Columns: append([]string(nil), left.Columns...)}
	var added []string
	for _, col := range right.Columns {
		if col == key || out.HasColumn(col) {
			continue
		}
		out.Columns = append(out.Columns, col)
		added = append(added, col)
	}
	for _, row := range left.Rows {
		next := row.Clone()
		if value, ok := row.Field(key); ok {
			if match, found := index[value]; found {
				for _, col := range added {
					if cell, has := match[col]; has {
						next[col] = cell
					}
				}
			}
		}
		out.Append(next)
	}
	return out
}

// File path: internal/record/csv.go
package record

import (
	"encoding/csv"
	"fmt"
	"io"
)

// ReadCSV decodes a dataset from CSV. The first record is the column header;
// short rows are tolerated and their trailing columns stay null.
func ReadCSV(r io.Reader) (*Dataset, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	header, err := reader.Read()
	if err != nil {
		if err == io.EOF {
			return nil, fmt.Errorf("csv: empty input")
		}
		return nil, fmt.Errorf("csv: read header: %w", err)
	}
	ds := NewDataset(header...)
	for {
		fields, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("csv: read row %d: %w", ds.Len()+1, err)
		}
		row := make(Row, len(header))
		for i, col := range header {
			if i < len(fields) {
				row[col] = fields[i]
			}
		}
		ds.Append(row)
	}
	return ds, nil
}

// WriteCSV encodes the dataset as CSV in column order. Null cells are written
// as empty strings.
func WriteCSV(w io.Writer, ds *Dataset) error {
	if ds == nil {
		return fmt.Errorf("csv: nil dataset")
	}
	writer := csv.NewWriter(w)
	if err := writer.Write(ds.Columns); err != nil {
		return fmt.Errorf("csv: write header: %w", err)
	}
	fields := make([]string, len(ds.Columns))
	for i, row := range ds.Rows {
		for j, col := range ds.Columns {
			fields[j] = row[col]
		}
		if err := writer.Write(fields); err != nil {
			return fmt.Errorf("csv: write row %d: %w", i+1, err)
		}
	}
	writer.Flush()
	return writer.Error()
}

// Package export renders a student's diary into downloadable documents.
package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
)

// Document is a rendered export with its HTTP metadata.
type Document struct {
	ContentType string
	Filename    string
	Bytes       []byte
}

// Table is the neutral shape both renderers consume: a header row plus
// positional records, mirroring how entries live in the sheet itself.
type Table struct {
	Title   string
	Headers []string
	Records [][]string
}

// RenderCSV encodes the table as UTF-8 CSV with a BOM so spreadsheet
// applications detect the encoding of Korean text.
func RenderCSV(table Table) ([]byte, error) {
	if len(table.Headers) == 0 {
		return nil, fmt.Errorf("csv requires at least one header")
	}

	buf := &bytes.Buffer{}
	buf.Write([]byte{0xEF, 0xBB, 0xBF})
	writer := csv.NewWriter(buf)
	if err := writer.Write(table.Headers); err != nil {
		return nil, fmt.Errorf("write csv headers: %w", err)
	}
	for _, record := range table.Records {
		padded := make([]string, len(table.Headers))
		copy(padded, record)
		if err := writer.Write(padded); err != nil {
			return nil, fmt.Errorf("write csv record: %w", err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("flush csv: %w", err)
	}
	return buf.Bytes(), nil
}

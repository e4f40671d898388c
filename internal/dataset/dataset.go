// Package dataset stores uploaded CSV files and parses them back into tables.
package dataset

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
)

// utf8BOM is stripped from the first header cell; spreadsheet exports often carry it
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Dataset is the parsed content of one uploaded file
type Dataset struct {
	Columns []string
	Records [][]string
}

// Field is a single column/value pair of a row
type Field struct {
	Column string
	Value  string
}

// Row is one record in header order
type Row []Field

// Len returns the number of data rows, header excluded
func (d *Dataset) Len() int {
	return len(d.Records)
}

// Row returns the record at index i as ordered fields.
// Short records are padded with empty values, long ones cut to the header width.
func (d *Dataset) Row(i int) (Row, error) {
	if i < 0 || i >= len(d.Records) {
		return nil, fmt.Errorf("%w: %d not in [0, %d)", ErrRowOutOfRange, i, len(d.Records))
	}

	record := d.Records[i]
	row := make(Row, len(d.Columns))
	for c, name := range d.Columns {
		row[c].Column = name
		if c < len(record) {
			row[c].Value = record[c]
		}
	}
	return row, nil
}

// Parse reads a delimited table whose first record is the header
func Parse(r io.Reader) (*Dataset, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("%w: missing header", ErrDatasetLoad)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDatasetLoad, err)
	}
	if len(header) > 0 {
		header[0] = string(bytes.TrimPrefix([]byte(header[0]), utf8BOM))
	}

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDatasetLoad, err)
	}

	return &Dataset{
		Columns: header,
		Records: records,
	}, nil
}

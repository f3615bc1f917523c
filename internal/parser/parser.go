// Package parser turns uploaded CSV bytes into ordered source records for
// the import pipeline. Real-world exports arrive in assorted encodings with
// ragged rows; the parser tolerates both and reports what it had to patch.
package parser

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"

	"salescockpit/internal/models"
)

// Warning is a non-fatal issue found while parsing, addressed by 1-based
// data row number.
type Warning struct {
	Row     int    `json:"row"`
	Message string `json:"message"`
}

// Result holds the parsed records alongside any warnings. Columns lists
// the non-empty header names in file order; downstream column matching
// depends on that order being stable.
type Result struct {
	Columns  []string              `json:"columns"`
	Records  []models.SourceRecord `json:"records"`
	Warnings []Warning             `json:"warnings"`
}

// Parse decodes data to UTF-8, reads the header row, and maps every data
// row into a SourceRecord keyed by the trimmed header names. Rows with too
// few cells are padded with empty strings, rows with too many are
// truncated; both produce warnings instead of failing the file.
func Parse(data []byte) (*Result, error) {
	decoded, err := decodeToUTF8(data)
	if err != nil {
		return nil, fmt.Errorf("encoding detection failed: %w", err)
	}

	reader := csv.NewReader(bytes.NewReader(decoded))
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	headers, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("empty file: no header row found")
		}
		return nil, fmt.Errorf("failed to read header row: %w", err)
	}
	for i, h := range headers {
		headers[i] = strings.TrimSpace(h)
	}
	headerCount := len(headers)

	result := &Result{}
	headerSeen := make(map[string]bool, headerCount)
	for _, h := range headers {
		if h == "" || headerSeen[h] {
			continue
		}
		headerSeen[h] = true
		result.Columns = append(result.Columns, h)
	}
	rowNum := 0

	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		rowNum++

		if err != nil {
			result.Warnings = append(result.Warnings, Warning{
				Row:     rowNum,
				Message: fmt.Sprintf("parse error, row skipped: %v", err),
			})
			continue
		}

		if len(row) < headerCount {
			result.Warnings = append(result.Warnings, Warning{
				Row:     rowNum,
				Message: fmt.Sprintf("row has %d columns, expected %d; padded with empty values", len(row), headerCount),
			})
			padded := make([]string, headerCount)
			copy(padded, row)
			row = padded
		} else if len(row) > headerCount {
			result.Warnings = append(result.Warnings, Warning{
				Row:     rowNum,
				Message: fmt.Sprintf("row has %d columns, expected %d; extra columns dropped", len(row), headerCount),
			})
			row = row[:headerCount]
		}

		rec := make(models.SourceRecord, headerCount)
		for i, h := range headers {
			if h == "" {
				continue
			}
			rec[h] = row[i]
		}
		result.Records = append(result.Records, rec)
	}

	if len(result.Records) == 0 {
		return nil, fmt.Errorf("file contains no data rows")
	}

	return result, nil
}

// BOM prefixes.
var (
	bomUTF8    = []byte{0xEF, 0xBB, 0xBF}
	bomUTF16LE = []byte{0xFF, 0xFE}
	bomUTF16BE = []byte{0xFE, 0xFF}
)

// decodeToUTF8 strips any BOM and converts UTF-16 or Latin-1 input to
// UTF-8. Valid UTF-8 passes through unchanged; undecodable bytes fall back
// to Latin-1, which maps every byte to a code point and cannot fail.
func decodeToUTF8(data []byte) ([]byte, error) {
	switch {
	case bytes.HasPrefix(data, bomUTF8):
		return data[len(bomUTF8):], nil
	case bytes.HasPrefix(data, bomUTF16LE):
		dec := unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM).NewDecoder()
		return dec.Bytes(data[len(bomUTF16LE):])
	case bytes.HasPrefix(data, bomUTF16BE):
		dec := unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM).NewDecoder()
		return dec.Bytes(data[len(bomUTF16BE):])
	case utf8.Valid(data):
		return data, nil
	default:
		return charmap.ISO8859_1.NewDecoder().Bytes(data)
	}
}

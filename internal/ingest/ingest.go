// Package ingest decodes uploaded CSV, JSON and Parquet files into the
// tabular structure the attribution core consumes. It owns format detection,
// column recognition and basic value coercion; row-level validation stays in
// the core.
package ingest

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/parquet-go/parquet-go"

	"github.com/attrio/attribution-service/internal/attribution"
)

// Format identifies a supported file format.
type Format string

const (
	FormatCSV     Format = "csv"
	FormatJSON    Format = "json"
	FormatParquet Format = "parquet"
)

// UnsupportedFormatError indicates the uploaded file is in none of the
// supported formats.
type UnsupportedFormatError struct {
	Filename string
}

func (e *UnsupportedFormatError) Error() string {
	return fmt.Sprintf("unsupported file format: %q (supported: csv, json, parquet)", e.Filename)
}

// SchemaError indicates the decoded table is missing required columns.
type SchemaError struct {
	Missing []string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("missing required columns: %s", strings.Join(e.Missing, ", "))
}

// requiredColumns must be present in the detected schema; the remaining
// recognized columns are optional.
var requiredColumns = []string{"timestamp", "channel", "event_type"}

// columnAliases maps source column spellings onto the canonical field names.
// Unrecognized columns are ignored.
var columnAliases = map[string]string{
	"timestamp":        "timestamp",
	"time":             "timestamp",
	"datetime":         "timestamp",
	"date":             "timestamp",
	"event_time":       "timestamp",
	"ts":               "timestamp",
	"channel":          "channel",
	"source":           "channel",
	"event_type":       "event_type",
	"event":            "event_type",
	"event_name":       "event_type",
	"type":             "event_type",
	"customer_id":      "customer_id",
	"customerid":       "customer_id",
	"user_id":          "customer_id",
	"userid":           "customer_id",
	"client_id":        "customer_id",
	"session_id":       "session_id",
	"sessionid":        "session_id",
	"email":            "email",
	"email_address":    "email",
	"revenue":          "revenue",
	"conversion_value": "revenue",
	"value":            "revenue",
	"amount":           "revenue",
}

// Parse decodes file content into an attribution table, detecting the format
// from the filename extension with a content-sniffing fallback.
func Parse(data []byte, filename string) (attribution.Table, error) {
	format, err := DetectFormat(filename, data)
	if err != nil {
		return attribution.Table{}, err
	}

	switch format {
	case FormatCSV:
		return parseCSV(data)
	case FormatJSON:
		return parseJSON(data)
	case FormatParquet:
		return parseParquet(data)
	}
	return attribution.Table{}, &UnsupportedFormatError{Filename: filename}
}

// DetectFormat resolves the file format from the extension, falling back to
// content sniffing when the extension is absent or unknown.
func DetectFormat(filename string, data []byte) (Format, error) {
	switch strings.ToLower(strings.TrimPrefix(filepath.Ext(filename), ".")) {
	case "csv":
		return FormatCSV, nil
	case "json", "ndjson", "jsonl":
		return FormatJSON, nil
	case "parquet":
		return FormatParquet, nil
	}

	if bytes.HasPrefix(data, []byte("PAR1")) {
		return FormatParquet, nil
	}
	trimmed := bytes.TrimLeft(data, " \t\r\n")
	if len(trimmed) > 0 && (trimmed[0] == '[' || trimmed[0] == '{') {
		return FormatJSON, nil
	}
	if firstLine, _, _ := bytes.Cut(trimmed, []byte("\n")); bytes.Contains(firstLine, []byte(",")) {
		return FormatCSV, nil
	}
	return "", &UnsupportedFormatError{Filename: filename}
}

func parseCSV(data []byte) (attribution.Table, error) {
	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	rows, err := reader.ReadAll()
	if err != nil {
		return attribution.Table{}, fmt.Errorf("failed to read csv: %w", err)
	}
	if len(rows) == 0 {
		return attribution.Table{}, nil
	}

	header := rows[0]
	columns := make(map[int]string, len(header))
	present := make(map[string]bool)
	for i, name := range header {
		if canonical, ok := columnAliases[strings.ToLower(strings.TrimSpace(name))]; ok {
			columns[i] = canonical
			present[canonical] = true
		}
	}
	if err := checkSchema(present); err != nil {
		return attribution.Table{}, err
	}

	table := attribution.Table{Records: make([]attribution.Record, 0, len(rows)-1)}
	for _, row := range rows[1:] {
		fields := make(map[string]string, len(columns))
		for i, canonical := range columns {
			if i < len(row) {
				fields[canonical] = strings.TrimSpace(row[i])
			}
		}
		table.Records = append(table.Records, recordFromFields(fields))
	}
	return table, nil
}

func parseJSON(data []byte) (attribution.Table, error) {
	rows, err := decodeJSONRows(data)
	if err != nil {
		return attribution.Table{}, err
	}
	return tableFromMaps(rows)
}

// decodeJSONRows accepts either a top-level array of objects or
// newline-delimited objects.
func decodeJSONRows(data []byte) ([]map[string]any, error) {
	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.UseNumber()

	var rows []map[string]any
	if err := decoder.Decode(&rows); err == nil {
		return rows, nil
	}

	decoder = json.NewDecoder(bytes.NewReader(data))
	decoder.UseNumber()
	for decoder.More() {
		var row map[string]any
		if err := decoder.Decode(&row); err != nil {
			return nil, fmt.Errorf("failed to decode json rows: %w", err)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func parseParquet(data []byte) (attribution.Table, error) {
	rows, err := parquet.Read[map[string]any](bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return attribution.Table{}, fmt.Errorf("failed to read parquet: %w", err)
	}
	return tableFromMaps(rows)
}

func tableFromMaps(rows []map[string]any) (attribution.Table, error) {
	present := make(map[string]bool)
	for _, row := range rows {
		for name := range row {
			if canonical, ok := columnAliases[strings.ToLower(name)]; ok {
				present[canonical] = true
			}
		}
	}
	if len(rows) > 0 {
		if err := checkSchema(present); err != nil {
			return attribution.Table{}, err
		}
	}

	table := attribution.Table{Records: make([]attribution.Record, 0, len(rows))}
	for _, row := range rows {
		fields := make(map[string]string, len(row))
		for name, value := range row {
			canonical, ok := columnAliases[strings.ToLower(name)]
			if !ok {
				continue
			}
			if coerced := coerceValue(value); coerced != "" {
				fields[canonical] = coerced
			}
		}
		table.Records = append(table.Records, recordFromFields(fields))
	}
	return table, nil
}

func checkSchema(present map[string]bool) error {
	var missing []string
	for _, column := range requiredColumns {
		if !present[column] {
			missing = append(missing, column)
		}
	}
	if len(missing) > 0 {
		return &SchemaError{Missing: missing}
	}
	return nil
}

func recordFromFields(fields map[string]string) attribution.Record {
	return attribution.Record{
		Timestamp:  fields["timestamp"],
		Channel:    fields["channel"],
		EventType:  fields["event_type"],
		CustomerID: fields["customer_id"],
		SessionID:  fields["session_id"],
		Email:      fields["email"],
		Revenue:    fields["revenue"],
	}
}

// coerceValue renders a decoded cell as its canonical string form. Nulls
// become empty strings, which the core treats as absent.
func coerceValue(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(v)
	case json.Number:
		return v.String()
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32)
	case int:
		return strconv.Itoa(v)
	case int32:
		return strconv.FormatInt(int64(v), 10)
	case int64:
		return strconv.FormatInt(v, 10)
	case bool:
		return strconv.FormatBool(v)
	default:
		return fmt.Sprintf("%v", v)
	}
}

package ingest

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectFormat_ByExtension(t *testing.T) {
	cases := []struct {
		filename string
		want     Format
	}{
		{"touchpoints.csv", FormatCSV},
		{"touchpoints.CSV", FormatCSV},
		{"touchpoints.json", FormatJSON},
		{"touchpoints.ndjson", FormatJSON},
		{"touchpoints.jsonl", FormatJSON},
		{"touchpoints.parquet", FormatParquet},
	}

	for _, tc := range cases {
		format, err := DetectFormat(tc.filename, nil)
		require.NoError(t, err, tc.filename)
		assert.Equal(t, tc.want, format, tc.filename)
	}
}

func TestDetectFormat_BySniffing(t *testing.T) {
	parquet, err := DetectFormat("upload.bin", []byte("PAR1xxxx"))
	require.NoError(t, err)
	assert.Equal(t, FormatParquet, parquet)

	jsonArr, err := DetectFormat("upload", []byte("  [{\"channel\":\"email\"}]"))
	require.NoError(t, err)
	assert.Equal(t, FormatJSON, jsonArr)

	csvLike, err := DetectFormat("upload", []byte("timestamp,channel,event_type\n"))
	require.NoError(t, err)
	assert.Equal(t, FormatCSV, csvLike)

	_, err = DetectFormat("upload.xlsx", []byte("binary-blob"))
	var unsupported *UnsupportedFormatError
	assert.True(t, errors.As(err, &unsupported))
}

func TestParse_CSV(t *testing.T) {
	data := []byte("timestamp,channel,event_type,customer_id,conversion_value\n" +
		"2025-06-01T10:00:00Z,email,click,c1,\n" +
		"2025-06-02T10:00:00Z,direct,conversion,c1,99.90\n")

	table, err := Parse(data, "events.csv")

	require.NoError(t, err)
	require.Len(t, table.Records, 2)
	assert.Equal(t, "email", table.Records[0].Channel)
	assert.Equal(t, "c1", table.Records[0].CustomerID)
	assert.Equal(t, "99.90", table.Records[1].Revenue)
}

func TestParse_CSVColumnAliases(t *testing.T) {
	data := []byte("event_time,source,event,user_id,amount\n" +
		"2025-06-01T10:00:00Z,social,sale,u7,12.5\n")

	table, err := Parse(data, "export.csv")

	require.NoError(t, err)
	require.Len(t, table.Records, 1)
	record := table.Records[0]
	assert.Equal(t, "2025-06-01T10:00:00Z", record.Timestamp)
	assert.Equal(t, "social", record.Channel)
	assert.Equal(t, "sale", record.EventType)
	assert.Equal(t, "u7", record.CustomerID)
	assert.Equal(t, "12.5", record.Revenue)
}

func TestParse_CSVMissingRequiredColumns(t *testing.T) {
	data := []byte("channel,customer_id\nemail,c1\n")

	_, err := Parse(data, "events.csv")

	var schema *SchemaError
	require.True(t, errors.As(err, &schema))
	assert.Equal(t, []string{"timestamp", "event_type"}, schema.Missing)
}

func TestParse_JSONArray(t *testing.T) {
	data := []byte(`[
		{"timestamp": "2025-06-01T10:00:00Z", "channel": "email", "event_type": "click", "user_id": "c1"},
		{"timestamp": 1748858400, "channel": "direct", "event_type": "conversion", "user_id": "c1", "revenue": 50.5}
	]`)

	table, err := Parse(data, "events.json")

	require.NoError(t, err)
	require.Len(t, table.Records, 2)
	assert.Equal(t, "c1", table.Records[0].CustomerID)
	// Numeric cells keep their source representation.
	assert.Equal(t, "1748858400", table.Records[1].Timestamp)
	assert.Equal(t, "50.5", table.Records[1].Revenue)
}

func TestParse_NDJSON(t *testing.T) {
	data := []byte(`{"timestamp": "2025-06-01T10:00:00Z", "channel": "email", "event_type": "click"}
{"timestamp": "2025-06-02T10:00:00Z", "channel": "direct", "event_type": "conversion", "revenue": null}
`)

	table, err := Parse(data, "events.ndjson")

	require.NoError(t, err)
	require.Len(t, table.Records, 2)
	assert.Equal(t, "direct", table.Records[1].Channel)
	assert.Empty(t, table.Records[1].Revenue)
}

func TestParse_JSONMissingRequiredColumns(t *testing.T) {
	data := []byte(`[{"channel": "email", "event_type": "click"}]`)

	_, err := Parse(data, "events.json")

	var schema *SchemaError
	require.True(t, errors.As(err, &schema))
	assert.Equal(t, []string{"timestamp"}, schema.Missing)
}

func TestParse_EmptyInputs(t *testing.T) {
	table, err := Parse(nil, "events.csv")
	require.NoError(t, err)
	assert.Empty(t, table.Records)

	table, err = Parse([]byte("[]"), "events.json")
	require.NoError(t, err)
	assert.Empty(t, table.Records)
}

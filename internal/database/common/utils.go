package common

import (
	"database/sql"
	"database/sql/driver"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

// TimestampLayout keeps microseconds and the zone offset so timestamptz
// values load back unchanged under any session time zone.
const TimestampLayout = "2006-01-02 15:04:05.999999-07:00"

var validIdentifier = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

// QueryResult keeps the column order of a result set next to its rows, since
// the rows themselves are maps.
type QueryResult struct {
	Columns []string
	Rows    []map[string]interface{}
}

// SplitTableName splits "schema.table" at the last dot. The schema is empty
// for unqualified names.
func SplitTableName(name string) (string, string) {
	if pos := strings.LastIndex(name, "."); pos >= 0 {
		return name[:pos], name[pos+1:]
	}
	return "", name
}

// ValidateIdentifier rejects names that cannot be safely interpolated into
// statements that do not accept placeholders (PRAGMA, FROM clauses).
func ValidateIdentifier(name string) error {
	if !validIdentifier.MatchString(name) {
		return fmt.Errorf("invalid identifier: %s", name)
	}
	return nil
}

// ScanRows drains rows into a QueryResult, normalizing every value.
func ScanRows(rows *sql.Rows) (*QueryResult, error) {
	columns, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	result := &QueryResult{
		Columns: columns,
		Rows:    make([]map[string]interface{}, 0),
	}

	for rows.Next() {
		values := make([]interface{}, len(columns))
		valuePtrs := make([]interface{}, len(columns))
		for i := range values {
			valuePtrs[i] = &values[i]
		}

		if err := rows.Scan(valuePtrs...); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}

		row := make(map[string]interface{}, len(columns))
		for i, col := range columns {
			row[col] = NormalizeValue(values[i])
		}
		result.Rows = append(result.Rows, row)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}
	return result, nil
}

// NormalizeValue converts driver values into the scalar set the data
// templates know how to print: nil, bool, integers, floats, strings and raw
// bytes. Bytes that are valid text become strings, anything else stays
// []byte so it is written back unchanged.
func NormalizeValue(val interface{}) interface{} {
	switch v := val.(type) {
	case nil:
		return nil
	case []byte:
		if isPrintable(v) {
			return string(v)
		}
		return append([]byte(nil), v...)
	case [16]byte:
		return uuid.UUID(v).String()
	case string, bool,
		int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64,
		float32, float64:
		return v
	case time.Time:
		return v.Format(TimestampLayout)
	case driver.Valuer:
		inner, err := v.Value()
		if err != nil {
			return fmt.Sprintf("%v", v)
		}
		if _, nested := inner.(driver.Valuer); nested {
			return fmt.Sprintf("%v", inner)
		}
		return NormalizeValue(inner)
	case []interface{}:
		return FormatArray(v)
	case map[string]interface{}:
		return NormalizeJSON(v)
	default:
		return fmt.Sprintf("%v", v)
	}
}

// NormalizeJSON re-encodes a decoded json or jsonb value as JSON text.
func NormalizeJSON(val interface{}) interface{} {
	switch v := val.(type) {
	case nil:
		return nil
	case string:
		return v
	case []byte:
		return string(v)
	}
	encoded, err := json.Marshal(val)
	if err != nil {
		return fmt.Sprintf("%v", val)
	}
	return string(encoded)
}

var arrayEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`)

// FormatArray renders a decoded array as a Postgres array literal, for
// example {1,NULL,"a b"}. Every non numeric element is double quoted.
func FormatArray(items []interface{}) string {
	var b strings.Builder
	b.WriteByte('{')
	for i, item := range items {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(formatArrayElement(item))
	}
	b.WriteByte('}')
	return b.String()
}

func formatArrayElement(item interface{}) string {
	if nested, ok := item.([]interface{}); ok {
		return FormatArray(nested)
	}

	switch v := NormalizeValue(item).(type) {
	case nil:
		return "NULL"
	case bool:
		if v {
			return "t"
		}
		return "f"
	case string:
		return `"` + arrayEscaper.Replace(v) + `"`
	case []byte:
		return `"\\x` + hex.EncodeToString(v) + `"`
	default:
		return fmt.Sprint(v)
	}
}

func isPrintable(b []byte) bool {
	if !utf8.Valid(b) {
		return false
	}
	for _, r := range string(b) {
		if r < 32 && r != '\n' && r != '\r' && r != '\t' {
			return false
		}
	}
	return true
}

package render

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

var phpEscaper = strings.NewReplacer(`\`, `\\`, `'`, `\'`)

// QuoteString renders s as a single quoted PHP string literal.
func QuoteString(s string) string {
	return "'" + phpEscaper.Replace(s) + "'"
}

// QuoteBytes renders b as a double quoted PHP string. Bytes outside
// printable ASCII are written as \xNN escapes so binary data survives.
func QuoteBytes(b []byte) string {
	var sb strings.Builder
	sb.Grow(len(b) + 2)
	sb.WriteByte('"')
	for _, c := range b {
		switch {
		case c == '\\' || c == '"' || c == '$':
			sb.WriteByte('\\')
			sb.WriteByte(c)
		case c >= 0x20 && c < 0x7f:
			sb.WriteByte(c)
		default:
			fmt.Fprintf(&sb, `\x%02x`, c)
		}
	}
	sb.WriteByte('"')
	return sb.String()
}

// ExportValue renders a normalized column value as a PHP literal.
func ExportValue(v interface{}) string {
	switch val := v.(type) {
	case nil:
		return "null"
	case bool:
		if val {
			return "true"
		}
		return "false"
	case int:
		return strconv.FormatInt(int64(val), 10)
	case int8:
		return strconv.FormatInt(int64(val), 10)
	case int16:
		return strconv.FormatInt(int64(val), 10)
	case int32:
		return strconv.FormatInt(int64(val), 10)
	case int64:
		return strconv.FormatInt(val, 10)
	case uint:
		return strconv.FormatUint(uint64(val), 10)
	case uint8:
		return strconv.FormatUint(uint64(val), 10)
	case uint16:
		return strconv.FormatUint(uint64(val), 10)
	case uint32:
		return strconv.FormatUint(uint64(val), 10)
	case uint64:
		return strconv.FormatUint(val, 10)
	case float32:
		return exportFloat(float64(val), 32)
	case float64:
		return exportFloat(val, 64)
	case string:
		return QuoteString(val)
	case []byte:
		return QuoteBytes(val)
	default:
		return QuoteString(fmt.Sprint(val))
	}
}

func exportFloat(f float64, bits int) string {
	switch {
	case math.IsNaN(f):
		return "NAN"
	case math.IsInf(f, 1):
		return "INF"
	case math.IsInf(f, -1):
		return "-INF"
	}
	s := strconv.FormatFloat(f, 'f', -1, bits)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

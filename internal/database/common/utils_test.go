package common

import (
	"database/sql/driver"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

type valuer struct{ v driver.Value }

func (v valuer) Value() (driver.Value, error) { return v.v, nil }

func TestSplitTableName(t *testing.T) {
	tests := []struct {
		in     string
		schema string
		table  string
	}{
		{"user", "", "user"},
		{"public.user", "public", "user"},
		{"db.public.user", "db.public", "user"},
	}
	for _, tt := range tests {
		schema, table := SplitTableName(tt.in)
		assert.Equal(t, tt.schema, schema, tt.in)
		assert.Equal(t, tt.table, table, tt.in)
	}
}

func TestValidateIdentifier(t *testing.T) {
	assert.NoError(t, ValidateIdentifier("main"))
	assert.NoError(t, ValidateIdentifier("_archive2"))
	assert.Error(t, ValidateIdentifier("2fa"))
	assert.Error(t, ValidateIdentifier(`main"; DROP TABLE x; --`))
}

func TestNormalizeValue(t *testing.T) {
	id := uuid.MustParse("6ba7b810-9dad-11d1-80b4-00c04fd430c8")
	ts := time.Date(2024, 3, 1, 12, 30, 0, 0, time.UTC)
	precise := time.Date(2024, 3, 1, 12, 30, 0, 123456000, time.FixedZone("IST", 5*3600+1800))

	tests := []struct {
		name string
		in   interface{}
		want interface{}
	}{
		{"nil", nil, nil},
		{"text bytes", []byte("hello"), "hello"},
		{"hex looking text", []byte("0xab"), "0xab"},
		{"binary stays bytes", []byte{0x00, 0x01, 0xff, 0xfe}, []byte{0x00, 0x01, 0xff, 0xfe}},
		{"16 byte blob stays bytes", append([]byte{0xff}, make([]byte, 15)...), append([]byte{0xff}, make([]byte, 15)...)},
		{"uuid array", [16]byte(id), id.String()},
		{"int", int64(7), int64(7)},
		{"bool", true, true},
		{"float", 1.5, 1.5},
		{"time utc", ts, "2024-03-01 12:30:00+00:00"},
		{"time with fraction and zone", precise, "2024-03-01 12:30:00.123456+05:30"},
		{"valuer", valuer{int64(3)}, int64(3)},
		{"json map", map[string]interface{}{"a": 1}, `{"a":1}`},
		{"int array", []interface{}{int64(1), int64(2)}, "{1,2}"},
		{"text array", []interface{}{"a b", nil, `q"\`}, `{"a b",NULL,"q\"\\"}`},
		{"nested array", []interface{}{[]interface{}{int64(1)}, []interface{}{true, false}}, "{{1},{t,f}}"},
		{"bytea array", []interface{}{[]byte{0x00, 0xff}}, `{"\\x00ff"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeValue(tt.in))
		})
	}
}

func TestNormalizeValueCopiesBytes(t *testing.T) {
	raw := []byte{0x00, 0xff}
	got := NormalizeValue(raw).([]byte)
	raw[0] = 0x01
	assert.Equal(t, []byte{0x00, 0xff}, got)
}

func TestNormalizeJSON(t *testing.T) {
	assert.Nil(t, NormalizeJSON(nil))
	assert.Equal(t, `["a",2]`, NormalizeJSON([]interface{}{"a", 2}))
	assert.Equal(t, `{"a":{"b":true}}`, NormalizeJSON(map[string]interface{}{"a": map[string]interface{}{"b": true}}))
	assert.Equal(t, `{"raw":1}`, NormalizeJSON([]byte(`{"raw":1}`)))
	assert.Equal(t, "plain", NormalizeJSON("plain"))
}

package style

import (
	"bytes"
	"encoding/json"
	"math"
	"slices"
	"strings"
)

// MarshalJSON writes d as a JSON object with keys in description order.
func (d *Description) MarshalJSON() ([]byte, error) {
	return d.Canonical(false), nil
}

// MarshalJSON writes v the way JSON.stringify does.
func (v Value) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	writeValue(&buf, v, false)
	return buf.Bytes(), nil
}

// Canonical returns the serialization used for fingerprinting. Keys keep
// description order unless sorted is set, in which case every level is
// ordered by key.
func (d *Description) Canonical(sorted bool) []byte {
	var buf bytes.Buffer
	writeDescription(&buf, d, sorted)
	return buf.Bytes()
}

func writeDescription(buf *bytes.Buffer, d *Description, sorted bool) {
	if d == nil {
		buf.WriteString("null")
		return
	}
	entries := d.entries
	if sorted {
		entries = slices.Clone(entries)
		slices.SortFunc(entries, func(a, b Entry) int {
			return strings.Compare(a.Key, b.Key)
		})
	}
	buf.WriteByte('{')
	for i, e := range entries {
		if i > 0 {
			buf.WriteByte(',')
		}
		writeString(buf, e.Key)
		buf.WriteByte(':')
		writeValue(buf, e.Value, sorted)
	}
	buf.WriteByte('}')
}

func writeValue(buf *bytes.Buffer, v Value, sorted bool) {
	switch v.kind {
	case KindString:
		writeString(buf, v.str)
	case KindNumber:
		if math.IsNaN(v.num) || math.IsInf(v.num, 0) {
			buf.WriteString("null")
			return
		}
		buf.WriteString(FormatNumber(v.num))
	case KindList:
		buf.WriteByte('[')
		for i, item := range v.list {
			if i > 0 {
				buf.WriteByte(',')
			}
			writeValue(buf, item, sorted)
		}
		buf.WriteByte(']')
	case KindNested:
		writeDescription(buf, v.nested, sorted)
	}
}

func writeString(buf *bytes.Buffer, s string) {
	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)
	// encoding a string cannot fail
	_ = enc.Encode(s)
	// drop newline added by Encode
	buf.Truncate(buf.Len() - 1)
}

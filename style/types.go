// Package style defines nested style descriptions: ordered mappings of
// camel-cased CSS properties, selector suffixes and media queries.
package style

import (
	"fmt"
	"iter"
	"math"
	"strconv"
	"strings"
)

// Kind identifies what a Value holds.
type Kind int

const (
	KindString Kind = iota // plain CSS value text
	KindNumber             // numeric value, may receive a unit
	KindList               // ordered fallback variants of a single property
	KindNested             // nested Description (suffix or media scope)
)

// String returns the name of the kind.
func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindNumber:
		return "number"
	case KindList:
		return "list"
	case KindNested:
		return "nested"
	default:
		return "Kind(" + strconv.Itoa(int(k)) + ")"
	}
}

// Value is a single value in a Description.
type Value struct {
	kind   Kind
	str    string
	num    float64
	list   []Value
	nested *Description
}

// String returns a string value.
func String(s string) Value {
	return Value{kind: KindString, str: s}
}

// Number returns a numeric value.
func Number(n float64) Value {
	return Value{kind: KindNumber, num: n}
}

// List returns a list of variants for the same property.
func List(vs ...Value) Value {
	return Value{kind: KindList, list: append([]Value(nil), vs...)}
}

// Strings is a shorthand for a List of string values.
func Strings(ss ...string) Value {
	vs := make([]Value, len(ss))
	for i, s := range ss {
		vs[i] = String(s)
	}
	return Value{kind: KindList, list: vs}
}

// Nested returns a value holding a nested description.
func Nested(d *Description) Value {
	return Value{kind: KindNested, nested: d}
}

// Kind returns variant held by the value.
func (v Value) Kind() Kind { return v.kind }

// IsScalar is true for string and number values.
func (v Value) IsScalar() bool {
	return v.kind == KindString || v.kind == KindNumber
}

// Str returns string content, empty for other kinds.
func (v Value) Str() string { return v.str }

// Num returns numeric content, zero for other kinds.
func (v Value) Num() float64 { return v.num }

// Items returns list variants. The slice must not be modified.
func (v Value) Items() []Value { return v.list }

// Description returns the nested description or nil.
func (v Value) Description() *Description { return v.nested }

// Text returns the bare textual form of a scalar: strings as is, numbers in
// shortest round-trip form without any unit. Lists are joined with commas,
// nested descriptions have no text.
func (v Value) Text() string {
	switch v.kind {
	case KindString:
		return v.str
	case KindNumber:
		return FormatNumber(v.num)
	case KindList:
		parts := make([]string, len(v.list))
		for i, item := range v.list {
			parts[i] = item.Text()
		}
		return strings.Join(parts, ",")
	default:
		return ""
	}
}

// FormatNumber formats n the way script engines print numbers: integers
// without a fraction, everything else in the shortest exact form.
func FormatNumber(n float64) string {
	switch {
	case math.IsNaN(n):
		return "NaN"
	case math.IsInf(n, 1):
		return "Infinity"
	case math.IsInf(n, -1):
		return "-Infinity"
	case n == 0:
		// negative zero prints as 0
		return "0"
	}
	if a := math.Abs(n); a >= 1e21 || a < 1e-6 {
		s := strconv.FormatFloat(n, 'g', -1, 64)
		// exponent without zero padding: 1e-7, not 1e-07
		s = strings.Replace(s, "e-0", "e-", 1)
		return strings.Replace(s, "e+0", "e+", 1)
	}
	return strconv.FormatFloat(n, 'f', -1, 64)
}

// ValueOf converts a Go value into a Value. Accepted: Value, string, all
// integer and float types, *Description, []string, []any and []Value.
func ValueOf(v any) (Value, error) {
	switch t := v.(type) {
	case Value:
		return t, nil
	case string:
		return String(t), nil
	case int:
		return Number(float64(t)), nil
	case int8:
		return Number(float64(t)), nil
	case int16:
		return Number(float64(t)), nil
	case int32:
		return Number(float64(t)), nil
	case int64:
		return Number(float64(t)), nil
	case uint:
		return Number(float64(t)), nil
	case uint8:
		return Number(float64(t)), nil
	case uint16:
		return Number(float64(t)), nil
	case uint32:
		return Number(float64(t)), nil
	case uint64:
		return Number(float64(t)), nil
	case float32:
		return Number(float64(t)), nil
	case float64:
		return Number(t), nil
	case *Description:
		if t == nil {
			return Value{}, fmt.Errorf("nil nested description")
		}
		return Nested(t), nil
	case []string:
		return Strings(t...), nil
	case []Value:
		return List(t...), nil
	case []any:
		vs := make([]Value, 0, len(t))
		for i, item := range t {
			iv, err := ValueOf(item)
			if err != nil {
				return Value{}, fmt.Errorf("list item %d: %w", i, err)
			}
			vs = append(vs, iv)
		}
		return List(vs...), nil
	default:
		return Value{}, fmt.Errorf("unsupported style value type %T", v)
	}
}

// Entry is a single key/value pair of a Description.
type Entry struct {
	Key   string
	Value Value
}

// E builds an Entry from a Go value, see ValueOf. It panics on unsupported
// types and is meant for literal descriptions in code.
func E(key string, v any) Entry {
	val, err := ValueOf(v)
	if err != nil {
		panic(fmt.Sprintf("style entry %q: %v", key, err))
	}
	return Entry{Key: key, Value: val}
}

// Description is an ordered mapping of style keys to values. Setting an
// existing key replaces its value and keeps its original position.
type Description struct {
	entries []Entry
	index   map[string]int
}

// New creates a description from entries in order.
func New(entries ...Entry) *Description {
	d := &Description{index: make(map[string]int, len(entries))}
	for _, e := range entries {
		d.Set(e.Key, e.Value)
	}
	return d
}

// Set assigns value to key and returns d for chaining.
func (d *Description) Set(key string, v Value) *Description {
	if d.index == nil {
		d.index = make(map[string]int)
	}
	if i, ok := d.index[key]; ok {
		d.entries[i].Value = v
		return d
	}
	d.index[key] = len(d.entries)
	d.entries = append(d.entries, Entry{Key: key, Value: v})
	return d
}

// Get returns the value stored under key.
func (d *Description) Get(key string) (Value, bool) {
	if d == nil {
		return Value{}, false
	}
	i, ok := d.index[key]
	if !ok {
		return Value{}, false
	}
	return d.entries[i].Value, true
}

// Len returns number of keys.
func (d *Description) Len() int {
	if d == nil {
		return 0
	}
	return len(d.entries)
}

// Keys returns keys in order.
func (d *Description) Keys() []string {
	if d == nil {
		return nil
	}
	keys := make([]string, len(d.entries))
	for i, e := range d.entries {
		keys[i] = e.Key
	}
	return keys
}

// All iterates over entries in order.
func (d *Description) All() iter.Seq2[string, Value] {
	return func(yield func(string, Value) bool) {
		if d == nil {
			return
		}
		for _, e := range d.entries {
			if !yield(e.Key, e.Value) {
				return
			}
		}
	}
}

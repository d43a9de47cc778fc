package style

import (
	"fmt"
	"strings"

	"stylo/utils/debug"
)

// SuffixMarker starts keys whose remainder is appended to the current
// selector, e.g. "&&:hover" or "&& > li".
const SuffixMarker = "&&"

// KeyKind is the role of a description key.
type KeyKind int

const (
	KeyPlain  KeyKind = iota // camel-cased property name
	KeySuffix                // selector suffix scope
	KeyMedia                 // @-query scope
)

func (k KeyKind) String() string {
	switch k {
	case KeySuffix:
		return "suffix"
	case KeyMedia:
		return "media"
	default:
		return "plain"
	}
}

// ClassifyKey returns the role of key and its payload: the property name for
// plain keys, the selector suffix for suffix keys and the whole query for
// media keys. Media is checked first, then suffix.
func ClassifyKey(key string) (KeyKind, string) {
	switch {
	case strings.HasPrefix(key, "@"):
		return KeyMedia, key
	case strings.HasPrefix(key, SuffixMarker):
		return KeySuffix, key[len(SuffixMarker):]
	default:
		return KeyPlain, key
	}
}

// Property is a single plain declaration before prefixing and
// normalization.
type Property struct {
	Name  string
	Value Value
}

// Scoped holds declarations for the current selector with Suffix appended.
type Scoped struct {
	Suffix     string
	Properties []Property
}

// Query holds a sub-tree rendered inside an @-block.
type Query struct {
	Query string
	Tree  *Tree
}

// Tree is a description split by key role. Each group keeps the relative
// order of its keys in the source description.
type Tree struct {
	Main     []Property
	Extra    []Scoped
	Media    []Query
	Warnings []string // dropped entries of unsupported shape, all levels
}

// IsEmpty is true when tree has nothing to render.
func (t *Tree) IsEmpty() bool {
	return t == nil || (len(t.Main) == 0 && len(t.Extra) == 0 && len(t.Media) == 0)
}

// Split classifies every key of d once. Entries which do not fit their key
// role (nested value under a property, scalar under a suffix or query,
// nested value inside a suffix scope, non-scalar list items) are dropped and
// reported in Warnings.
func Split(d *Description) *Tree {
	var warnings []string
	t := split(d, "", &warnings)
	t.Warnings = warnings
	return t
}

func split(d *Description, path string, warnings *[]string) *Tree {
	t := &Tree{}
	warn := func(key, format string, args ...any) {
		*warnings = append(*warnings, fmt.Sprintf("%s: %s", key, fmt.Sprintf(format, args...)))
	}

	for key, v := range d.All() {
		kind, payload := ClassifyKey(key)
		switch kind {
		case KeyMedia:
			if v.Kind() != KindNested {
				warn(path+key, "query expects nested description, got %s", v.Kind())
				continue
			}
			t.Media = append(t.Media, Query{
				Query: payload,
				Tree:  split(v.Description(), path+key+"/", warnings),
			})
		case KeySuffix:
			if v.Kind() != KindNested {
				warn(path+key, "selector suffix expects nested description, got %s", v.Kind())
				continue
			}
			scoped := Scoped{Suffix: payload}
			for name, pv := range v.Description().All() {
				if p, ok := property(name, pv, path+key+"/", warn); ok {
					scoped.Properties = append(scoped.Properties, p)
				}
			}
			t.Extra = append(t.Extra, scoped)
		default:
			if p, ok := property(payload, v, path, warn); ok {
				t.Main = append(t.Main, p)
			}
		}
	}
	return t
}

func property(name string, v Value, path string, warn func(key, format string, args ...any)) (Property, bool) {
	switch v.Kind() {
	case KindNested:
		warn(path+name, "property expects scalar value, got nested description")
		return Property{}, false
	case KindList:
		items := make([]Value, 0, len(v.Items()))
		for i, item := range v.Items() {
			if !item.IsScalar() {
				warn(path+name, "list item %d is %s", i, item.Kind())
				continue
			}
			items = append(items, item)
		}
		if len(items) != len(v.Items()) {
			v = List(items...)
		}
	}
	return Property{Name: name, Value: v}, true
}

// String returns indented dump of the tree for diagnostics.
func (t *Tree) String() string {
	tw := debug.NewTreeWriter()
	t.dump(tw, 0)
	return tw.String()
}

func (t *Tree) dump(tw *debug.TreeWriter, depth int) {
	if t == nil {
		return
	}
	for _, p := range t.Main {
		tw.Field(depth, p.Name, p.Value.Text())
	}
	for _, s := range t.Extra {
		tw.Line(depth, "%s%s", SuffixMarker, s.Suffix)
		for _, p := range s.Properties {
			tw.Field(depth+1, p.Name, p.Value.Text())
		}
	}
	for _, q := range t.Media {
		tw.Line(depth, "%s", q.Query)
		q.Tree.dump(tw, depth+1)
	}
	for _, w := range t.Warnings {
		tw.Line(depth, "! %s", w)
	}
}

package css

import (
	"strings"

	"stylo/style"
)

// Prefixer expands declarations with vendor variants. It receives the whole
// flat declaration list of one ruleset because some decisions depend on
// other properties. Implementations may turn a scalar value into a list of
// variants but must keep property names and their order, and must not
// modify the input slice.
type Prefixer interface {
	Prefix(props []style.Property) []style.Property
}

// PrefixerFunc adapts a function to Prefixer.
type PrefixerFunc func(props []style.Property) []style.Property

// Prefix calls f.
func (f PrefixerFunc) Prefix(props []style.Property) []style.Property {
	return f(props)
}

// NopPrefixer returns declarations unchanged.
type NopPrefixer struct{}

// Prefix returns props as is.
func (NopPrefixer) Prefix(props []style.Property) []style.Property {
	return props
}

// DefaultPrefixer adds vendor variants for values which older engines only
// understand in prefixed form. Only values are expanded; property names are
// never added or renamed. Values already given as lists are left alone.
type DefaultPrefixer struct{}

var (
	displayVariants = map[string][]string{
		"flex":        {"-webkit-box", "-moz-box", "-ms-flexbox", "-webkit-flex", "flex"},
		"inline-flex": {"-webkit-inline-box", "-moz-inline-box", "-ms-inline-flexbox", "-webkit-inline-flex", "inline-flex"},
		"grid":        {"-ms-grid", "grid"},
		"inline-grid": {"-ms-inline-grid", "inline-grid"},
	}

	positionVariants = map[string][]string{
		"sticky": {"-webkit-sticky", "sticky"},
	}

	cursorValues = map[string]bool{
		"grab":     true,
		"grabbing": true,
		"zoom-in":  true,
		"zoom-out": true,
	}

	sizingProperties = map[string]bool{
		"width":       true,
		"minWidth":    true,
		"maxWidth":    true,
		"height":      true,
		"minHeight":   true,
		"maxHeight":   true,
		"flexBasis":   true,
		"columnWidth": true,
	}

	sizingValues = map[string]bool{
		"min-content": true,
		"max-content": true,
		"fit-content": true,
	}

	gradientProperties = map[string]bool{
		"background":      true,
		"backgroundImage": true,
		"borderImage":     true,
		"listStyleImage":  true,
		"maskImage":       true,
	}

	gradientFunctions = []string{
		"linear-gradient(",
		"radial-gradient(",
		"repeating-linear-gradient(",
		"repeating-radial-gradient(",
	}
)

// Prefix implements Prefixer.
func (DefaultPrefixer) Prefix(props []style.Property) []style.Property {
	out := make([]style.Property, len(props))
	for i, p := range props {
		out[i] = p
		if p.Value.Kind() != style.KindString {
			continue
		}
		if variants := valueVariants(Camel(p.Name), strings.TrimSpace(p.Value.Str())); len(variants) > 0 {
			out[i].Value = style.Strings(variants...)
		}
	}
	return out
}

func valueVariants(name, value string) []string {
	switch {
	case name == "display":
		return displayVariants[value]
	case name == "position":
		return positionVariants[value]
	case name == "cursor" && cursorValues[value]:
		return []string{"-webkit-" + value, "-moz-" + value, value}
	case sizingProperties[name] && sizingValues[value]:
		return []string{"-webkit-" + value, "-moz-" + value, value}
	case gradientProperties[name] && hasGradient(value):
		return []string{"-webkit-" + value, "-moz-" + value, value}
	}
	return nil
}

func hasGradient(value string) bool {
	for _, fn := range gradientFunctions {
		if strings.HasPrefix(value, fn) {
			return true
		}
	}
	return false
}

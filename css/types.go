package css

import (
	"io"
	"strings"
)

// Declaration is a single serialized property: kebab-cased name and final
// value text.
type Declaration struct {
	Property string
	Value    string
}

// Ruleset is a selector with its declarations in output order.
type Ruleset struct {
	Selector     string
	Declarations []Declaration
}

// IsEmpty returns true if ruleset has no declarations and renders nothing.
func (r Ruleset) IsEmpty() bool {
	return len(r.Declarations) == 0
}

// String renders "selector{prop:val;...}" or empty string when there is
// nothing to declare.
func (r Ruleset) String() string {
	var sb strings.Builder
	writeRuleset(&sb, &r) //nolint:errcheck
	return sb.String()
}

// MediaBlock is an @-block wrapping a compiled sub-stylesheet.
type MediaBlock struct {
	Query string
	Sheet *Stylesheet
}

// StylesheetItem is a single top-level item in a stylesheet.
// Exactly one of Ruleset or MediaBlock is non-nil.
type StylesheetItem struct {
	Ruleset    *Ruleset
	MediaBlock *MediaBlock
}

// Stylesheet is compiled output of a single description in render order:
// main ruleset, suffix rulesets, then media blocks.
type Stylesheet struct {
	Items    []StylesheetItem
	Warnings []string // entries dropped while splitting the description
}

// Selectors returns selectors of all non-empty rulesets including those
// nested in media blocks, in render order.
func (s *Stylesheet) Selectors() []string {
	var out []string
	for _, item := range s.Items {
		switch {
		case item.Ruleset != nil:
			out = append(out, item.Ruleset.Selector)
		case item.MediaBlock != nil && item.MediaBlock.Sheet != nil:
			out = append(out, item.MediaBlock.Sheet.Selectors()...)
		}
	}
	return out
}

// WriteTo writes compact CSS text to w, implementing io.WriterTo.
func (s *Stylesheet) WriteTo(w io.Writer) (int64, error) {
	var total int64
	for _, item := range s.Items {
		var (
			n   int
			err error
		)
		switch {
		case item.Ruleset != nil:
			n, err = writeRuleset(w, item.Ruleset)
		case item.MediaBlock != nil:
			n, err = writeMediaBlock(w, item.MediaBlock)
		}
		total += int64(n)
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// String returns the CSS text of the stylesheet.
func (s *Stylesheet) String() string {
	var sb strings.Builder
	s.WriteTo(&sb) //nolint:errcheck
	return sb.String()
}

func writeRuleset(w io.Writer, r *Ruleset) (int, error) {
	if r.IsEmpty() {
		return 0, nil
	}
	var sb strings.Builder
	sb.WriteString(r.Selector)
	sb.WriteByte('{')
	for _, d := range r.Declarations {
		sb.WriteString(d.Property)
		sb.WriteByte(':')
		sb.WriteString(d.Value)
		sb.WriteByte(';')
	}
	sb.WriteByte('}')
	return io.WriteString(w, sb.String())
}

func writeMediaBlock(w io.Writer, mb *MediaBlock) (int, error) {
	var total int
	n, err := io.WriteString(w, mb.Query+"{")
	total += n
	if err != nil {
		return total, err
	}
	if mb.Sheet != nil {
		m, err := mb.Sheet.WriteTo(w)
		total += int(m)
		if err != nil {
			return total, err
		}
	}
	n, err = io.WriteString(w, "}")
	total += n
	return total, err
}

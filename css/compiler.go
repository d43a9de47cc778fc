package css

import (
	"maps"
	"slices"
	"strings"

	"go.uber.org/zap"

	"stylo/style"
)

// Compiler turns style descriptions into scoped CSS.
type Compiler struct {
	log      *zap.Logger
	prefixer Prefixer
	unitless map[string]bool
}

// CompilerOption configures a Compiler.
type CompilerOption func(*Compiler)

// WithPrefixer replaces DefaultPrefixer. nil disables prefixing.
func WithPrefixer(p Prefixer) CompilerOption {
	return func(c *Compiler) {
		if p == nil {
			p = NopPrefixer{}
		}
		c.prefixer = p
	}
}

// WithUnitless adds property names (camel or hyphenated) whose numbers are
// written without a unit.
func WithUnitless(names ...string) CompilerOption {
	return func(c *Compiler) {
		for _, name := range names {
			c.unitless[Camel(name)] = true
		}
	}
}

// NewCompiler creates a new compiler.
func NewCompiler(log *zap.Logger, opts ...CompilerOption) *Compiler {
	if log == nil {
		log = zap.NewNop()
	}
	c := &Compiler{
		log:      log.Named("css-compiler"),
		prefixer: DefaultPrefixer{},
		unitless: maps.Clone(defaultUnitless),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Ruleset compiles flat declarations for selector. Properties are passed to
// the prefixer as a batch; list values are expanded into one declaration per
// variant with prefixed variants first, each group sorted.
func (c *Compiler) Ruleset(selector string, props []style.Property) Ruleset {
	rs := Ruleset{Selector: selector}
	if len(props) == 0 {
		return rs
	}

	prefixed := c.prefixer.Prefix(props)
	rs.Declarations = make([]Declaration, 0, len(prefixed))
	for _, p := range prefixed {
		name := Kebab(p.Name)
		if p.Value.Kind() != style.KindList {
			rs.Declarations = append(rs.Declarations, Declaration{
				Property: name,
				Value:    normalizeValue(p.Name, p.Value, c.unitless),
			})
			continue
		}
		for _, v := range orderVariants(p.Value.Items()) {
			rs.Declarations = append(rs.Declarations, Declaration{
				Property: name,
				Value:    normalizeValue(p.Name, v, c.unitless),
			})
		}
	}
	return rs
}

// orderVariants puts vendor prefixed variants (text starting with '-')
// before unprefixed ones, each group in ascending order, so the standard
// form is declared last and wins where supported.
func orderVariants(items []style.Value) []style.Value {
	var prefixed, plain []style.Value
	for _, v := range items {
		if strings.HasPrefix(v.Text(), "-") {
			prefixed = append(prefixed, v)
		} else {
			plain = append(plain, v)
		}
	}
	byText := func(a, b style.Value) int {
		return strings.Compare(a.Text(), b.Text())
	}
	slices.SortStableFunc(prefixed, byText)
	slices.SortStableFunc(plain, byText)
	return append(prefixed, plain...)
}

// Compile compiles description d scoped to selector.
func (c *Compiler) Compile(selector string, d *style.Description) *Stylesheet {
	tree := style.Split(d)
	for _, w := range tree.Warnings {
		c.log.Debug("Dropping style entry", zap.String("selector", selector), zap.String("reason", w))
	}
	sheet := c.CompileTree(selector, tree)
	sheet.Warnings = tree.Warnings
	return sheet
}

// CompileTree compiles an already split description: main declarations,
// then every suffix scope, then every media query, regardless of how keys
// were interleaved in the source.
func (c *Compiler) CompileTree(selector string, t *style.Tree) *Stylesheet {
	sheet := &Stylesheet{Items: make([]StylesheetItem, 0, 1+len(t.Extra)+len(t.Media))}

	add := func(rs Ruleset) {
		if !rs.IsEmpty() {
			sheet.Items = append(sheet.Items, StylesheetItem{Ruleset: &rs})
		}
	}

	add(c.Ruleset(selector, t.Main))
	for _, scoped := range t.Extra {
		add(c.Ruleset(selector+scoped.Suffix, scoped.Properties))
	}
	for _, q := range t.Media {
		sheet.Items = append(sheet.Items, StylesheetItem{
			MediaBlock: &MediaBlock{Query: q.Query, Sheet: c.CompileTree(selector, q.Tree)},
		})
	}
	return sheet
}

// Generate returns CSS text of d scoped to selector.
func (c *Compiler) Generate(selector string, d *style.Description) string {
	return c.Compile(selector, d).String()
}

package style_test

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	yaml "gopkg.in/yaml.v3"

	"stylo/style"
)

func TestDescription_SetKeepsFirstPosition(t *testing.T) {
	d := style.New(
		style.E("color", "red"),
		style.E("width", 10),
		style.E("color", "blue"),
	)

	if diff := cmp.Diff([]string{"color", "width"}, d.Keys()); diff != "" {
		t.Errorf("keys mismatch (-want +got):\n%s", diff)
	}
	v, ok := d.Get("color")
	if !ok || v.Str() != "blue" {
		t.Errorf("expected color=blue, got %q (found=%v)", v.Str(), ok)
	}
}

func TestDescription_NilIsEmpty(t *testing.T) {
	var d *style.Description
	if d.Len() != 0 {
		t.Errorf("nil description Len() = %d", d.Len())
	}
	for range d.All() {
		t.Fatal("nil description yielded an entry")
	}
}

func TestValueOf(t *testing.T) {
	tests := []struct {
		name string
		in   any
		kind style.Kind
		text string
	}{
		{"string", "red", style.KindString, "red"},
		{"int", 10, style.KindNumber, "10"},
		{"float", 1.5, style.KindNumber, "1.5"},
		{"uint8", uint8(3), style.KindNumber, "3"},
		{"strings", []string{"a", "b"}, style.KindList, "a,b"},
		{"mixed list", []any{"a", 2}, style.KindList, "a,2"},
		{"nested", style.New(), style.KindNested, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := style.ValueOf(tt.in)
			if err != nil {
				t.Fatalf("ValueOf(%v) error = %v", tt.in, err)
			}
			if v.Kind() != tt.kind {
				t.Errorf("kind = %s, want %s", v.Kind(), tt.kind)
			}
			if v.Text() != tt.text {
				t.Errorf("text = %q, want %q", v.Text(), tt.text)
			}
		})
	}

	if _, err := style.ValueOf(true); err == nil {
		t.Error("expected error for bool value")
	}
	if _, err := style.ValueOf((*style.Description)(nil)); err == nil {
		t.Error("expected error for nil nested description")
	}
}

func TestFormatNumber(t *testing.T) {
	tests := map[float64]string{
		0:      "0",
		10:     "10",
		-3:     "-3",
		1.5:    "1.5",
		0.25:   "0.25",
		1e21:   "1e+21",
		1e-7:   "1e-7",
		123456: "123456",
	}
	for in, want := range tests {
		if got := style.FormatNumber(in); got != want {
			t.Errorf("FormatNumber(%v) = %q, want %q", in, got, want)
		}
	}
}

func TestClassifyKey(t *testing.T) {
	tests := []struct {
		key     string
		kind    style.KeyKind
		payload string
	}{
		{"color", style.KeyPlain, "color"},
		{"&&:hover", style.KeySuffix, ":hover"},
		{"&& > li", style.KeySuffix, " > li"},
		{"@media (min-width: 100px)", style.KeyMedia, "@media (min-width: 100px)"},
		// media wins over suffix, suffix needs both marker characters
		{"@&&", style.KeyMedia, "@&&"},
		{"&hover", style.KeyPlain, "&hover"},
		{"", style.KeyPlain, ""},
	}
	for _, tt := range tests {
		kind, payload := style.ClassifyKey(tt.key)
		if kind != tt.kind || payload != tt.payload {
			t.Errorf("ClassifyKey(%q) = (%s, %q), want (%s, %q)", tt.key, kind, payload, tt.kind, tt.payload)
		}
	}
}

func TestSplit_GroupsKeepOrder(t *testing.T) {
	d := style.New(
		style.E("@media print", style.New(style.E("color", "black"))),
		style.E("color", "red"),
		style.E("&&:hover", style.New(style.E("color", "blue"))),
		style.E("width", 10),
		style.E("&&:focus", style.New(style.E("outline", "none"))),
	)

	tree := style.Split(d)

	var main []string
	for _, p := range tree.Main {
		main = append(main, p.Name)
	}
	if diff := cmp.Diff([]string{"color", "width"}, main); diff != "" {
		t.Errorf("main mismatch (-want +got):\n%s", diff)
	}

	var suffixes []string
	for _, s := range tree.Extra {
		suffixes = append(suffixes, s.Suffix)
	}
	if diff := cmp.Diff([]string{":hover", ":focus"}, suffixes); diff != "" {
		t.Errorf("suffixes mismatch (-want +got):\n%s", diff)
	}

	if len(tree.Media) != 1 || tree.Media[0].Query != "@media print" {
		t.Fatalf("unexpected media groups: %+v", tree.Media)
	}
	if len(tree.Media[0].Tree.Main) != 1 {
		t.Errorf("expected nested main declaration, got %+v", tree.Media[0].Tree.Main)
	}
	if len(tree.Warnings) != 0 {
		t.Errorf("unexpected warnings: %v", tree.Warnings)
	}
}

func TestSplit_DropsMisshapenEntries(t *testing.T) {
	d := style.New(
		style.E("color", style.New()),
		style.E("&&:hover", "blue"),
		style.E("@media print", "black"),
		style.E("&&:focus", style.New(style.E("@media print", style.New()))),
		style.E("display", style.List(style.String("flex"), style.Nested(style.New()))),
	)

	tree := style.Split(d)

	if len(tree.Main) != 1 || tree.Main[0].Name != "display" {
		t.Fatalf("expected only display in main, got %+v", tree.Main)
	}
	if n := len(tree.Main[0].Value.Items()); n != 1 {
		t.Errorf("expected nested list item dropped, got %d items", n)
	}
	if len(tree.Media) != 0 {
		t.Errorf("expected no media groups, got %d", len(tree.Media))
	}
	if len(tree.Extra) != 1 || len(tree.Extra[0].Properties) != 0 {
		t.Errorf("expected empty :focus scope, got %+v", tree.Extra)
	}
	if len(tree.Warnings) != 5 {
		t.Errorf("expected 5 warnings, got %d: %v", len(tree.Warnings), tree.Warnings)
	}
	if !strings.HasPrefix(tree.Warnings[3], "&&:focus/@media print:") {
		t.Errorf("warning should carry key path, got %q", tree.Warnings[3])
	}
}

func TestCanonical_OrderSensitive(t *testing.T) {
	a := style.New(style.E("color", "red"), style.E("width", 10))
	b := style.New(style.E("width", 10), style.E("color", "red"))

	if got, want := string(a.Canonical(false)), `{"color":"red","width":10}`; got != want {
		t.Errorf("Canonical() = %s, want %s", got, want)
	}
	if string(a.Canonical(false)) == string(b.Canonical(false)) {
		t.Error("source order canonical form should differ for reordered keys")
	}
	if string(a.Canonical(true)) != string(b.Canonical(true)) {
		t.Error("sorted canonical form should ignore key order")
	}
}

func TestCanonical_Nested(t *testing.T) {
	d := style.New(
		style.E("content", `"<a & b>"`),
		style.E("&&:hover", style.New(style.E("opacity", 0.5))),
		style.E("display", []string{"-webkit-flex", "flex"}),
	)
	want := `{"content":"\"<a & b>\"","&&:hover":{"opacity":0.5},"display":["-webkit-flex","flex"]}`

	data, err := d.MarshalJSON()
	if err != nil {
		t.Fatalf("MarshalJSON() error = %v", err)
	}
	if string(data) != want {
		t.Errorf("MarshalJSON() = %s, want %s", data, want)
	}
}

func TestUnmarshalJSON_RoundTripKeepsOrder(t *testing.T) {
	src := `{"width":10,"color":"red","&&:hover":{"color":"blue"},"display":["-webkit-flex","flex"]}`

	d := style.New()
	if err := d.UnmarshalJSON([]byte(src)); err != nil {
		t.Fatalf("UnmarshalJSON() error = %v", err)
	}
	if got := string(d.Canonical(false)); got != src {
		t.Errorf("round trip = %s, want %s", got, src)
	}
}

func TestUnmarshalJSON_Errors(t *testing.T) {
	for _, src := range []string{
		`[]`,
		`{"a":1,"a":2}`,
		`{"a":true}`,
		`{"a":[{"b":1}]}`,
		`{"a":1} junk`,
		`{"a":1}{"b":2}`,
	} {
		d := style.New()
		if err := d.UnmarshalJSON([]byte(src)); err == nil {
			t.Errorf("UnmarshalJSON(%s) expected error", src)
		}
	}
}

func TestUnmarshalYAML(t *testing.T) {
	src := `
width: 10
flexGrow: 1.5
color: red
zIndex: "3"
"&&:hover":
  color: blue
"@media (min-width: 100px)":
  color: green
display: [-webkit-flex, flex]
`
	d := style.New()
	if err := yaml.Unmarshal([]byte(src), d); err != nil {
		t.Fatalf("yaml.Unmarshal() error = %v", err)
	}

	want := `{"width":10,"flexGrow":1.5,"color":"red","zIndex":"3","&&:hover":{"color":"blue"},` +
		`"@media (min-width: 100px)":{"color":"green"},"display":["-webkit-flex","flex"]}`
	if got := string(d.Canonical(false)); got != want {
		t.Errorf("decoded = %s\nwant      %s", got, want)
	}
}

func TestUnmarshalYAML_Errors(t *testing.T) {
	for _, src := range []string{
		"- a\n- b\n",
		"color: red\ncolor: blue\n",
		"color: ~\n",
		"display: [[a]]\n",
	} {
		d := style.New()
		if err := yaml.Unmarshal([]byte(src), d); err == nil {
			t.Errorf("yaml.Unmarshal(%q) expected error", src)
		}
	}
}

func TestLoadSheet(t *testing.T) {
	src := `
button:
  color: red
  "&&:hover":
    color: blue
base: &base
  margin: 0
alias: *base
`
	sheet, err := style.LoadSheet(strings.NewReader(src))
	if err != nil {
		t.Fatalf("LoadSheet() error = %v", err)
	}

	var names []string
	for _, n := range sheet {
		names = append(names, n.Name)
	}
	if diff := cmp.Diff([]string{"button", "base", "alias"}, names); diff != "" {
		t.Errorf("names mismatch (-want +got):\n%s", diff)
	}
	if string(sheet[1].Description.Canonical(false)) != string(sheet[2].Description.Canonical(false)) {
		t.Error("alias should decode to the same description")
	}

	if sheet.Get("button") != sheet[0].Description {
		t.Error("Get() returned wrong description")
	}
	if sheet.Get("absent") != nil {
		t.Error("Get() of absent name should be nil")
	}

	empty, err := style.LoadSheet(strings.NewReader(""))
	if err != nil || len(empty) != 0 {
		t.Errorf("LoadSheet(empty) = %v, %v", empty, err)
	}

	if _, err := style.LoadSheet(strings.NewReader("a: {x: 1}\na: {y: 2}\n")); err == nil {
		t.Error("expected error for duplicate style names")
	}
}

func TestTree_String(t *testing.T) {
	d := style.New(
		style.E("color", "red"),
		style.E("&&:hover", style.New(style.E("color", "blue"))),
		style.E("@media print", style.New(style.E("display", []string{"none", "hidden"}))),
		style.E("margin", style.New()),
	)
	want := `color: "red"
&&:hover
  color: "blue"
@media print
  display: "none,hidden"
! margin: property expects scalar value, got nested description
`
	if got := style.Split(d).String(); got != want {
		t.Errorf("String() mismatch (-want +got):\n%s", cmp.Diff(want, got))
	}
}

package css_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"stylo/css"
	"stylo/style"
)

func TestDefaultPrefixer(t *testing.T) {
	tests := []struct {
		name  string
		prop  string
		value string
		want  []string // nil means value stays scalar
	}{
		{"display flex", "display", "flex", []string{"-webkit-box", "-moz-box", "-ms-flexbox", "-webkit-flex", "flex"}},
		{"display inline-flex", "display", "inline-flex", []string{"-webkit-inline-box", "-moz-inline-box", "-ms-inline-flexbox", "-webkit-inline-flex", "inline-flex"}},
		{"display grid", "display", "grid", []string{"-ms-grid", "grid"}},
		{"display block", "display", "block", nil},
		{"sticky", "position", "sticky", []string{"-webkit-sticky", "sticky"}},
		{"cursor grab", "cursor", "grab", []string{"-webkit-grab", "-moz-grab", "grab"}},
		{"cursor pointer", "cursor", "pointer", nil},
		{"intrinsic width", "maxWidth", "max-content", []string{"-webkit-max-content", "-moz-max-content", "max-content"}},
		{"hyphenated name", "min-height", "fit-content", []string{"-webkit-fit-content", "-moz-fit-content", "fit-content"}},
		{"gradient", "backgroundImage", "linear-gradient(red, blue)", []string{
			"-webkit-linear-gradient(red, blue)", "-moz-linear-gradient(red, blue)", "linear-gradient(red, blue)",
		}},
		{"url background", "backgroundImage", "url(a.png)", nil},
	}

	var p css.DefaultPrefixer
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := p.Prefix([]style.Property{{Name: tt.prop, Value: style.String(tt.value)}})
			if len(out) != 1 || out[0].Name != tt.prop {
				t.Fatalf("prefixer changed property set: %+v", out)
			}
			if tt.want == nil {
				if out[0].Value.Kind() != style.KindString || out[0].Value.Str() != tt.value {
					t.Errorf("expected scalar %q, got %s %q", tt.value, out[0].Value.Kind(), out[0].Value.Text())
				}
				return
			}
			var got []string
			for _, v := range out[0].Value.Items() {
				got = append(got, v.Str())
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("variants mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestDefaultPrefixer_KeepsOrderAndInput(t *testing.T) {
	in := []style.Property{
		{Name: "width", Value: style.Number(10)},
		{Name: "display", Value: style.String("flex")},
		{Name: "display2", Value: style.Strings("a", "b")},
		{Name: "color", Value: style.String("red")},
	}

	out := css.DefaultPrefixer{}.Prefix(in)

	var names []string
	for _, p := range out {
		names = append(names, p.Name)
	}
	if diff := cmp.Diff([]string{"width", "display", "display2", "color"}, names); diff != "" {
		t.Errorf("names mismatch (-want +got):\n%s", diff)
	}
	if in[1].Value.Kind() != style.KindString {
		t.Error("input slice has been modified")
	}
	if n := len(out[2].Value.Items()); n != 2 {
		t.Errorf("existing list should be kept, got %d items", n)
	}
}

func TestNopPrefixer(t *testing.T) {
	in := []style.Property{{Name: "display", Value: style.String("flex")}}
	out := css.NopPrefixer{}.Prefix(in)
	if out[0].Value.Kind() != style.KindString {
		t.Errorf("NopPrefixer expanded value: %s", out[0].Value.Kind())
	}
}

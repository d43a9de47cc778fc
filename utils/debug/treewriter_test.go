package debug

import "testing"

func TestTreeWriter(t *testing.T) {
	tw := NewTreeWriter()
	if tw.String() != "" {
		t.Error("Expected empty string from new TreeWriter")
	}

	tw.Line(0, "root %d", 1)
	tw.Line(1, "child")
	tw.Field(2, "color", "red")
	tw.Field(2, "content", `"x"`)
	tw.Field(1, "empty", "")

	want := "root 1\n" +
		"  child\n" +
		"    color: \"red\"\n" +
		"    content: \"\\\"x\\\"\"\n" +
		"  empty:\n"
	if got := tw.String(); got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

func TestTreeWriter_Depth(t *testing.T) {
	tests := []struct {
		depth int
		want  string
	}{
		{0, "x\n"},
		{1, "  x\n"},
		{3, "      x\n"},
	}
	for _, tt := range tests {
		tw := NewTreeWriter()
		tw.Line(tt.depth, "x")
		if got := tw.String(); got != tt.want {
			t.Errorf("depth %d: got %q, want %q", tt.depth, got, tt.want)
		}
	}
}

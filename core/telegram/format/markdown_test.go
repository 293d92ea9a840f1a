package format

import "testing"

func TestEscapeMarkdown(t *testing.T) {
	cases := []struct {
		in      string
		version int
		entity  string
		want    string
	}{
		{"@ivan_petrov", MarkdownV2, "", `@ivan\_petrov`},
		{"Сокол-1 (ЯНАО).", MarkdownV2, "", `Сокол\-1 \(ЯНАО\)\.`},
		{`a\b`, MarkdownV2, "", `a\\b`},
		{"x_y`z", MarkdownV2, "code", "x_y\\`z"},
		{"*bold* [link]", MarkdownV1, "", `\*bold\* \[link]`},
		{"обычный текст", MarkdownV2, "", "обычный текст"},
	}
	for _, tc := range cases {
		got, err := EscapeMarkdown(tc.in, tc.version, tc.entity)
		if err != nil {
			t.Fatalf("EscapeMarkdown(%q): %v", tc.in, err)
		}
		if got != tc.want {
			t.Errorf("EscapeMarkdown(%q, v%d) = %q, want %q", tc.in, tc.version, got, tc.want)
		}
	}
	if _, err := EscapeMarkdown("x", 3, ""); err == nil {
		t.Fatal("expected error for unknown version")
	}
	if EscapeV2("a.b") != `a\.b` {
		t.Fatal("EscapeV2 must escape dots")
	}
}

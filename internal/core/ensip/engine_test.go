package ensip

import (
	"strings"
	"testing"
)

func TestNormalize_Table(t *testing.T) {
	e := mustEngine(t)

	tests := []struct {
		name string
		in   string
		out  string
	}{
		{"uppercase folds", "Nick.ETH", "nick.eth"},
		{"already normalized", "nick.eth", "nick.eth"},
		{"nfc composes", "a\u0300me.eth", "\u00E0me.eth"},
		{"soft hyphen drops", "ni\u00ADck.eth", "nick.eth"},
		{"emoji loses fe0f", "\u2642\uFE0F.eth", "\u2642.eth"},
		{"zwj emoji keeps zwj", "\u00E0me\U0001F9D9\u200D\u2642\uFE0F.eth", "\u00E0me\U0001F9D9\u200D\u2642.eth"},
		{"keycap text form", "1\uFE0F\u20E32\uFE0F\u20E3.eth", "1\u20E32\u20E3.eth"},
		{"apostrophe folds to quote", "d'argent.eth", "d\u2019argent.eth"},
		{"ideographic stop becomes separator", "a\u3002b", "a.b"},
		{"empty input is the empty name", "", ""},
		{"greek stays greek", "\u03BE\u03B4.eth", "\u03BE\u03B4.eth"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := e.Normalize(tc.in)
			if err != nil {
				t.Fatalf("Normalize(%q): %v", tc.in, err)
			}
			if got != tc.out {
				t.Fatalf("Normalize(%q) = %q, want %q", tc.in, got, tc.out)
			}
			// idempotence
			again, err := e.Normalize(got)
			if err != nil {
				t.Fatalf("Normalize(%q) second pass: %v", got, err)
			}
			if again != got {
				t.Fatalf("Normalize not idempotent: %q -> %q", got, again)
			}
		})
	}
}

func TestBeautify_Table(t *testing.T) {
	e := mustEngine(t)

	tests := []struct {
		name string
		in   string
		out  string
	}{
		{"keycaps re-qualify", "1\u20E32\u20E3.eth", "1\uFE0F\u20E32\uFE0F\u20E3.eth"},
		{"zwj emoji re-qualifies", "\U0001F9D9\u200D\u2642.eth", "\U0001F9D9\u200D\u2642\uFE0F.eth"},
		{"text keeps case folding", "Nick.ETH", "nick.eth"},
		{"greek label keeps xi", "\u03BE\u03B4.eth", "\u03BE\u03B4.eth"},
		{"gender sign", "\u2642.eth", "\u2642\uFE0F.eth"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := e.Beautify(tc.in)
			if err != nil {
				t.Fatalf("Beautify(%q): %v", tc.in, err)
			}
			if got != tc.out {
				t.Fatalf("Beautify(%q) = %q, want %q", tc.in, got, tc.out)
			}
		})
	}
}

func TestBeautifyNormalizeLaw(t *testing.T) {
	e := mustEngine(t)
	inputs := []string{
		"Nick.ETH",
		"1\u20E32\u20E3.eth",
		"\u00E0me\U0001F9D9\u200D\u2642\uFE0F.eth",
		"\u03BE.eth",
		"_under.eth",
	}
	for _, in := range inputs {
		b, err := e.Beautify(in)
		if err != nil {
			t.Fatalf("Beautify(%q): %v", in, err)
		}
		n1, err := e.Normalize(b)
		if err != nil {
			t.Fatalf("Normalize(Beautify(%q)): %v", in, err)
		}
		n2, err := e.Normalize(in)
		if err != nil {
			t.Fatalf("Normalize(%q): %v", in, err)
		}
		if n1 != n2 {
			t.Fatalf("normalize(beautify(%q)) = %q, want %q", in, n1, n2)
		}
	}
}

func TestNormalizations(t *testing.T) {
	e := mustEngine(t)

	got := e.Normalizations("Nick.ETH")
	want := []NormalizableSequence{
		{Code: CodeMapped, Index: 0, Sequence: "N", Suggested: "n"},
		{Code: CodeMapped, Index: 5, Sequence: "E", Suggested: "e"},
		{Code: CodeMapped, Index: 6, Sequence: "T", Suggested: "t"},
		{Code: CodeMapped, Index: 7, Sequence: "H", Suggested: "h"},
	}
	if len(got) != len(want) {
		t.Fatalf("Normalizations = %+v, want %+v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Normalizations[%d] = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestNormalizationsKinds(t *testing.T) {
	e := mustEngine(t)

	tests := []struct {
		name string
		in   string
		want NormalizableSequence
	}{
		{
			"ignored",
			"a\u00ADb",
			NormalizableSequence{Code: CodeIgnored, Index: 1, Sequence: "\u00AD", Suggested: ""},
		},
		{
			"nfc",
			"a\u0300me",
			NormalizableSequence{Code: CodeNFC, Index: 0, Sequence: "a\u0300", Suggested: "\u00E0"},
		},
		{
			"fe0f",
			"\u2642\uFE0F",
			NormalizableSequence{Code: CodeFE0F, Index: 0, Sequence: "\u2642\uFE0F", Suggested: "\u2642"},
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := e.Normalizations(tc.in)
			if len(got) != 1 {
				t.Fatalf("Normalizations(%q) = %+v, want one entry", tc.in, got)
			}
			if got[0] != tc.want {
				t.Fatalf("Normalizations(%q)[0] = %+v, want %+v", tc.in, got[0], tc.want)
			}
		})
	}
}

func TestSeparatorOnlyFromStops(t *testing.T) {
	e := mustEngine(t)
	inputs := []string{"nick.eth", "a\u3002b", "1\uFE0F\u20E3.eth", "\U0001F44D.eth"}
	for _, in := range inputs {
		out, err := e.Normalize(in)
		if err != nil {
			t.Fatalf("Normalize(%q): %v", in, err)
		}
		wantDots := 0
		for _, cp := range in {
			if cp == '.' || cp == 0x3002 || cp == 0xFF0E {
				wantDots++
			}
		}
		if got := strings.Count(out, "."); got != wantDots {
			t.Fatalf("Normalize(%q) = %q has %d dots, want %d", in, out, got, wantDots)
		}
	}
}

func TestProcessCombined(t *testing.T) {
	e := mustEngine(t)

	res := e.Process("Nick.ETH", FlagAll)
	if res.Error != nil {
		t.Fatalf("Process error: %v", res.Error)
	}
	if res.Normalized != "nick.eth" || res.Beautified != "nick.eth" || res.Cured != "nick.eth" {
		t.Fatalf("Process outputs = %q / %q / %q", res.Normalized, res.Beautified, res.Cured)
	}
	if len(res.Tokens) == 0 {
		t.Fatalf("Process should carry tokens")
	}
	if len(res.Normalizations) != 4 {
		t.Fatalf("Process normalizations = %+v", res.Normalizations)
	}
	if len(res.Cures) != 0 {
		t.Fatalf("no cures expected, got %+v", res.Cures)
	}
}

func TestProcessCapturesError(t *testing.T) {
	e := mustEngine(t)

	res := e.Process("a?b.eth", FlagNormalize|FlagCure)
	if res.Error == nil {
		t.Fatalf("expected captured diagnostic")
	}
	if res.Normalized != "" {
		t.Fatalf("normalized must be empty on error, got %q", res.Normalized)
	}
	if res.CureError != nil {
		t.Fatalf("cure should succeed: %v", res.CureError)
	}
	if res.Cured != "ab.eth" {
		t.Fatalf("cured = %q, want %q", res.Cured, "ab.eth")
	}
	if len(res.Cures) != 1 || res.Cures[0].Code() != CodeDisallowed {
		t.Fatalf("cures = %+v", res.Cures)
	}
}

func TestTokenKindStrings(t *testing.T) {
	want := map[TokenKind]string{
		TokenValid:      "valid",
		TokenMapped:     "mapped",
		TokenIgnored:    "ignored",
		TokenDisallowed: "disallowed",
		TokenNFC:        "nfc",
		TokenEmoji:      "emoji",
		TokenStop:       "stop",
	}
	for k, s := range want {
		if k.String() != s {
			t.Fatalf("TokenKind(%d).String() = %q, want %q", k, k.String(), s)
		}
	}
}

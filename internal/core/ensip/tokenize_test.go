package ensip

import "testing"

func mustEngine(t *testing.T) *Engine {
	t.Helper()
	e, err := New()
	if err != nil {
		t.Fatalf("New(): %v", err)
	}
	return e
}

func kinds(tokens []Token) []TokenKind {
	out := make([]TokenKind, len(tokens))
	for i, tok := range tokens {
		out[i] = tok.Kind
	}
	return out
}

func TestTokenize_Table(t *testing.T) {
	e := mustEngine(t)

	tests := []struct {
		name string
		in   string
		want []TokenKind
	}{
		{
			name: "plain ascii collapses to one valid run",
			in:   "nick",
			want: []TokenKind{TokenValid},
		},
		{
			name: "mapped uppercase interleaves",
			in:   "Nick",
			want: []TokenKind{TokenMapped, TokenValid},
		},
		{
			name: "stop splits runs",
			in:   "nick.eth",
			want: []TokenKind{TokenValid, TokenStop, TokenValid},
		},
		{
			name: "ignored survives tokenization",
			in:   "a\u00ADb",
			want: []TokenKind{TokenValid, TokenIgnored, TokenValid},
		},
		{
			name: "disallowed survives tokenization",
			in:   "a?b",
			want: []TokenKind{TokenValid, TokenDisallowed, TokenValid},
		},
		{
			name: "combining sequence becomes one nfc token",
			in:   "a\u0300bc",
			want: []TokenKind{TokenNFC, TokenValid},
		},
		{
			name: "emoji cluster",
			in:   "\U0001F44Dok",
			want: []TokenKind{TokenEmoji, TokenValid},
		},
		{
			name: "keycap wins over digit",
			in:   "1\uFE0F\u20E3",
			want: []TokenKind{TokenEmoji},
		},
		{
			name: "empty input has no tokens",
			in:   "",
			want: []TokenKind{},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := e.Tokenize(tc.in)
			gk := kinds(got)
			if len(gk) != len(tc.want) {
				t.Fatalf("Tokenize(%q) kinds = %v, want %v", tc.in, gk, tc.want)
			}
			for i := range gk {
				if gk[i] != tc.want[i] {
					t.Fatalf("Tokenize(%q) kinds = %v, want %v", tc.in, gk, tc.want)
				}
			}
		})
	}
}

func TestTokenizeCoversInput(t *testing.T) {
	e := mustEngine(t)
	inputs := []string{
		"Nick.ETH",
		"a\u0300me\U0001F9D9\u200D\u2642\uFE0F.eth",
		"x\u00ADy?z.\u2019",
		"1\uFE0F\u20E32\u20E3",
	}
	for _, in := range inputs {
		cps := []rune(in)
		tokens := e.Tokenize(in)
		covered := 0
		for _, tok := range tokens {
			if tok.Start != covered {
				t.Fatalf("input %q: token %v starts at %d, want %d", in, tok.Kind, tok.Start, covered)
			}
			covered += tok.InputLen
		}
		if covered != len(cps) {
			t.Fatalf("input %q: tokens cover %d codepoints, want %d", in, covered, len(cps))
		}
	}
}

func TestTokenizeNFCBoundaries(t *testing.T) {
	e := mustEngine(t)
	tokens := e.Tokenize("xa\u0300y")
	if len(tokens) != 3 {
		t.Fatalf("want 3 tokens, got %v", kinds(tokens))
	}
	nfc := tokens[1]
	if nfc.Kind != TokenNFC {
		t.Fatalf("middle token should be nfc, got %v", nfc.Kind)
	}
	if string(nfc.Input) != "a\u0300" || string(nfc.CPs) != "\u00E0" {
		t.Fatalf("nfc token input %q cps %q", string(nfc.Input), string(nfc.CPs))
	}
	if nfc.Start != 1 || nfc.InputLen != 2 {
		t.Fatalf("nfc token covers [%d,+%d), want [1,+2)", nfc.Start, nfc.InputLen)
	}
}

func TestTokenizeEmojiFields(t *testing.T) {
	e := mustEngine(t)
	tokens := e.Tokenize("\U0001F9D9\u200D\u2642\uFE0F")
	if len(tokens) != 1 || tokens[0].Kind != TokenEmoji {
		t.Fatalf("want a single emoji token, got %v", kinds(tokens))
	}
	tok := tokens[0]
	if string(tok.Emoji) != "\U0001F9D9\u200D\u2642\uFE0F" {
		t.Fatalf("fully-qualified form %q", string(tok.Emoji))
	}
	if string(tok.CPs) != "\U0001F9D9\u200D\u2642" {
		t.Fatalf("text form %q should drop FE0F", string(tok.CPs))
	}
	if string(tok.Input) != "\U0001F9D9\u200D\u2642\uFE0F" {
		t.Fatalf("input form %q", string(tok.Input))
	}
}

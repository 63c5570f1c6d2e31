package ensip

import (
	"ensnorm/internal/core/specdata"

	"golang.org/x/text/unicode/norm"
)

// scan walks the input left to right, trying the emoji trie first at every
// position and falling back to per-codepoint classification
func (e *Engine) scan(cps []rune) []Token {
	tokens := make([]Token, 0, len(cps))
	for i := 0; i < len(cps); {
		if n, fq := e.spec.MatchEmoji(cps[i:]); n > 0 {
			input := cps[i : i+n]
			tokens = append(tokens, Token{
				Kind:     TokenEmoji,
				Emoji:    fq,
				Input:    input,
				CPs:      stripFE0F(input),
				Start:    i,
				InputLen: n,
			})
			i += n
			continue
		}

		cp := cps[i]
		tok := Token{CP: cp, Start: i, InputLen: 1}
		switch {
		case cp == specdata.CPStop:
			tok.Kind = TokenStop
		case e.spec.Valid.Has(cp):
			tok.Kind = TokenValid
			tok.CPs = []rune{cp}
		case e.spec.Ignored.Has(cp):
			tok.Kind = TokenIgnored
		default:
			if img, ok := e.spec.Mapped[cp]; ok {
				tok.Kind = TokenMapped
				tok.CPs = img
			} else {
				tok.Kind = TokenDisallowed
			}
		}
		tokens = append(tokens, tok)
		i++
	}
	return tokens
}

// nfcPass recomposes runs of valid/mapped output that fail the NFC
// quick-check. Ignored tokens inside an affected run are swallowed by the
// replacement, matching the reference implementation
func (e *Engine) nfcPass(tokens []Token) []Token {
	i := 0
	start := -1
	for i < len(tokens) {
		tok := tokens[i]
		switch tok.Kind {
		case TokenValid, TokenMapped:
			if !e.requiresNFCCheck(tok.CPs) {
				start = i
				break
			}
			end := i + 1
			for pos := end; pos < len(tokens); pos++ {
				k := tokens[pos].Kind
				if k == TokenValid || k == TokenMapped {
					if !e.requiresNFCCheck(tokens[pos].CPs) {
						break
					}
					end = pos + 1
				} else if k != TokenIgnored {
					break
				}
			}
			if start < 0 {
				start = i
			}
			run := tokens[start:end]
			var input []rune
			inputLen := 0
			for _, t := range run {
				if t.Kind == TokenValid || t.Kind == TokenMapped {
					input = append(input, t.CPs...)
				}
				inputLen += t.InputLen
			}
			composed := []rune(norm.NFC.String(string(input)))
			if runesEqual(input, composed) {
				i = end - 1
			} else {
				nfc := Token{
					Kind:     TokenNFC,
					Input:    input,
					CPs:      composed,
					Start:    tokens[start].Start,
					InputLen: inputLen,
				}
				tokens = append(tokens[:start], append([]Token{nfc}, tokens[end:]...)...)
				i = start
			}
			start = -1
		case TokenIgnored:
			// ignored tokens do not break a pending run
		default:
			start = -1
		}
		i++
	}
	return collapseValid(tokens)
}

// collapseValid fuses adjacent valid tokens into one
func collapseValid(tokens []Token) []Token {
	out := tokens[:0]
	for _, tok := range tokens {
		if tok.Kind == TokenValid && len(out) > 0 && out[len(out)-1].Kind == TokenValid {
			prev := &out[len(out)-1]
			prev.CPs = append(prev.CPs, tok.CPs...)
			prev.InputLen += tok.InputLen
			continue
		}
		out = append(out, tok)
	}
	return out
}

func (e *Engine) requiresNFCCheck(cps []rune) bool {
	for _, cp := range cps {
		if e.spec.NFCCheck.Has(cp) {
			return true
		}
	}
	return false
}

func stripFE0F(cps []rune) []rune {
	out := make([]rune, 0, len(cps))
	for _, cp := range cps {
		if cp != specdata.CPFE0F {
			out = append(out, cp)
		}
	}
	return out
}

func runesEqual(a, b []rune) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// firstTokenError reports the first disallowed codepoint in input order, the
// only rejection tokenization itself can surface
func firstTokenError(tokens []Token) *CurableSequence {
	for _, tok := range tokens {
		if tok.Kind != TokenDisallowed {
			continue
		}
		code := CodeDisallowed
		if tok.CP == 0x200C || tok.CP == 0x200D {
			code = CodeInvisible
		}
		return newCurable(code, tok.Start, string(tok.CP), "")
	}
	return nil
}

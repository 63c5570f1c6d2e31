// Package ensip implements the ENSIP-15 name normalization pipeline:
// tokenization over the compiled tables with a greedy emoji matcher, NFC
// recomposition, per-label validation, and the normalize / beautify / cure
// operations with input-attributed diagnostics
package ensip

import (
	"ensnorm/internal/core/specdata"
)

// Engine is a pure function holder over the immutable spec tables. It is safe
// for concurrent use from any number of goroutines
type Engine struct {
	spec *specdata.Spec
}

// New compiles (or reuses) the embedded spec tables and returns an engine
func New() (*Engine, error) {
	spec, err := specdata.Load()
	if err != nil {
		return nil, err
	}
	return &Engine{spec: spec}, nil
}

// runResult carries one pipeline pass over a single input
type runResult struct {
	cps    []rune
	tokens []Token
	labels []labelView
	err    error
}

func (e *Engine) run(input string) *runResult {
	cps := []rune(input)
	res := &runResult{cps: cps}
	res.tokens = e.nfcPass(e.scan(cps))
	if len(res.tokens) == 0 {
		// the empty input is the normalized empty name
		return res
	}
	res.labels = splitLabels(res.tokens, cps)
	if err := firstTokenError(res.tokens); err != nil {
		res.err = err
		return res
	}
	res.err = e.validate(res)
	return res
}

// Normalize returns the canonical form of name, or a Diagnostic error when
// the name cannot be normalized
func (e *Engine) Normalize(name string) (string, error) {
	res := e.run(name)
	if res.err != nil {
		return "", res.err
	}
	return res.render(false), nil
}

// IsNormalizable reports whether Normalize would succeed
func (e *Engine) IsNormalizable(name string) bool {
	return e.run(name).err == nil
}

// IsNormalized reports whether name is already in canonical form
func (e *Engine) IsNormalized(name string) bool {
	res := e.run(name)
	return res.err == nil && res.render(false) == name
}

// Beautify returns the normalized form re-rendered with fully-qualified
// emoji; lowercase xi becomes capital Xi in labels that are not Greek
func (e *Engine) Beautify(name string) (string, error) {
	res := e.run(name)
	if res.err != nil {
		return "", res.err
	}
	return res.render(true), nil
}

// Tokenize returns the token stream for name. Tokenization is total:
// disallowed codepoints survive as tokens and no error is possible
func (e *Engine) Tokenize(name string) []Token {
	return e.run(name).tokens
}

// Normalizations lists every transformation tokenization would apply to
// name, in input order
func (e *Engine) Normalizations(name string) []NormalizableSequence {
	return normalizations(e.run(name).tokens)
}

// render emits the output string. Labels are joined by the canonical stop;
// beautified output restores fully-qualified emoji and applies the xi rule
func (r *runResult) render(beautified bool) string {
	var out []rune
	for li := range r.labels {
		l := &r.labels[li]
		if li > 0 {
			out = append(out, specdata.CPStop)
		}
		for ti := l.tokStart; ti < l.tokEnd; ti++ {
			tok := &r.tokens[ti]
			switch tok.Kind {
			case TokenIgnored, TokenDisallowed:
				continue
			case TokenEmoji:
				if beautified {
					out = append(out, tok.Emoji...)
				} else {
					out = append(out, tok.CPs...)
				}
			default:
				if beautified && !l.isGreek {
					out = append(out, replaceXi(tok.CPs)...)
				} else {
					out = append(out, tok.CPs...)
				}
			}
		}
	}
	return string(out)
}

const (
	cpXiSmall   rune = 0x3BE
	cpXiCapital rune = 0x39E
)

func replaceXi(cps []rune) []rune {
	hasXi := false
	for _, cp := range cps {
		if cp == cpXiSmall {
			hasXi = true
			break
		}
	}
	if !hasXi {
		return cps
	}
	out := make([]rune, len(cps))
	for i, cp := range cps {
		if cp == cpXiSmall {
			out[i] = cpXiCapital
		} else {
			out[i] = cp
		}
	}
	return out
}

// normalizations walks the token stream and reports each place the output
// will differ from the input
func normalizations(tokens []Token) []NormalizableSequence {
	var out []NormalizableSequence
	for i := range tokens {
		tok := &tokens[i]
		switch tok.Kind {
		case TokenMapped:
			out = append(out, NormalizableSequence{
				Code: CodeMapped, Index: tok.Start,
				Sequence: string(tok.CP), Suggested: string(tok.CPs),
			})
		case TokenIgnored:
			out = append(out, NormalizableSequence{
				Code: CodeIgnored, Index: tok.Start,
				Sequence: string(tok.CP), Suggested: "",
			})
		case TokenNFC:
			out = append(out, NormalizableSequence{
				Code: CodeNFC, Index: tok.Start,
				Sequence: string(tok.Input), Suggested: string(tok.CPs),
			})
		case TokenEmoji:
			if !runesEqual(tok.Input, tok.CPs) {
				out = append(out, NormalizableSequence{
					Code: CodeFE0F, Index: tok.Start,
					Sequence: string(tok.Input), Suggested: string(tok.CPs),
				})
			}
		}
	}
	return out
}

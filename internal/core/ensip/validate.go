package ensip

import (
	"fmt"

	"ensnorm/internal/core/specdata"

	"golang.org/x/text/unicode/norm"
)

// srcRef maps one codepoint of a label's scanned view back to the token that
// produced it and the offset within that token's output
type srcRef struct {
	tok int
	off int
}

// labelView is one label of the token stream plus its scanned view: the
// label's output codepoints with every emoji collapsed to a single FE0F
// placeholder, the form the reference implementation runs its checks on
type labelView struct {
	tokStart, tokEnd int // token range, separators excluded
	prevSep, nextSep int // separator token indices, -1 at the boundaries

	check     []rune
	src       []srcRef
	emojiOnly bool
	isGreek   bool
}

func splitLabels(tokens []Token, cps []rune) []labelView {
	var labels []labelView
	start := 0
	prevSep := -1
	flush := func(end, nextSep int) {
		l := labelView{tokStart: start, tokEnd: end, prevSep: prevSep, nextSep: nextSep, emojiOnly: true}
		for ti := start; ti < end; ti++ {
			tok := &tokens[ti]
			switch tok.Kind {
			case TokenEmoji:
				l.check = append(l.check, specdata.CPFE0F)
				l.src = append(l.src, srcRef{tok: ti})
			case TokenValid, TokenMapped, TokenNFC:
				l.emojiOnly = false
				for off := range tok.CPs {
					l.check = append(l.check, tok.CPs[off])
					l.src = append(l.src, srcRef{tok: ti, off: off})
				}
			case TokenDisallowed:
				l.emojiOnly = false
			}
		}
		labels = append(labels, l)
	}
	for ti := range tokens {
		if tokens[ti].separator() {
			flush(ti, ti)
			start = ti + 1
			prevSep = ti
		}
	}
	flush(len(tokens), -1)
	return labels
}

// inputIndex returns the input codepoint offset attributed to check position i
func (l *labelView) inputIndex(tokens []Token, i int) int {
	ref := l.src[i]
	tok := &tokens[ref.tok]
	if tok.Kind == TokenValid {
		return tok.Start + ref.off
	}
	return tok.Start
}

// inputEnd returns the exclusive input offset covered by check position i
func (l *labelView) inputEnd(tokens []Token, i int) int {
	ref := l.src[i]
	tok := &tokens[ref.tok]
	if tok.Kind == TokenValid {
		return tok.Start + ref.off + 1
	}
	return tok.Start + tok.InputLen
}

// sequence extracts the input substring that produced check range [s, e)
func (l *labelView) sequence(r *runResult, s, e int) string {
	return string(r.cps[l.inputIndex(r.tokens, s):l.inputEnd(r.tokens, e-1)])
}

func (e *Engine) validate(r *runResult) error {
	for li := range r.labels {
		if err := e.validateLabel(r, li); err != nil {
			return err
		}
	}
	return nil
}

func (e *Engine) validateLabel(r *runResult, li int) error {
	l := &r.labels[li]
	if len(l.check) == 0 {
		return emptyLabelError(r, l)
	}
	if l.emojiOnly {
		return nil
	}
	if err := e.checkUnderscore(r, l); err != nil {
		return err
	}
	if err := e.checkHyphen(r, l); err != nil {
		return err
	}
	if err := e.checkFenced(r, l); err != nil {
		return err
	}
	if err := e.checkCombiningMarks(r, l); err != nil {
		return err
	}
	g, err := e.resolveGroup(r, l)
	if err != nil {
		return err
	}
	l.isGreek = g.Name == "Greek"
	if err := e.checkNSM(l, g); err != nil {
		return err
	}
	return e.checkWhole(l, g)
}

// emptyLabelError points the cure at the separator run around the empty
// label so that curing collapses it
func emptyLabelError(r *runResult, l *labelView) error {
	tokens := r.tokens
	switch {
	case l.prevSep >= 0 && l.nextSep >= 0:
		start := tokens[l.prevSep].Start
		end := tokens[l.nextSep].Start + tokens[l.nextSep].InputLen
		return newCurable(CodeEmptyLabel, start, string(r.cps[start:end]), ".")
	case l.nextSep >= 0:
		start := 0
		if l.tokStart < l.tokEnd {
			start = tokens[l.tokStart].Start
		} else {
			start = tokens[l.nextSep].Start
		}
		end := tokens[l.nextSep].Start + tokens[l.nextSep].InputLen
		return newCurable(CodeEmptyLabel, start, string(r.cps[start:end]), "")
	case l.prevSep >= 0:
		start := tokens[l.prevSep].Start
		return newCurable(CodeEmptyLabel, start, string(r.cps[start:]), "")
	default:
		// a name with no separators that renders empty (ignored-only input)
		return newCurable(CodeEmptyLabel, 0, string(r.cps), "")
	}
}

// checkUnderscore permits underscores only as a contiguous prefix
func (e *Engine) checkUnderscore(r *runResult, l *labelView) error {
	inMiddle := false
	for i, cp := range l.check {
		if cp != '_' {
			inMiddle = true
			continue
		}
		if !inMiddle {
			continue
		}
		end := i + 1
		for end < len(l.check) && l.check[end] == '_' {
			end++
		}
		return newCurable(CodeUnderscore, l.inputIndex(r.tokens, i), l.sequence(r, i, end), "")
	}
	return nil
}

// checkHyphen rejects '--' in the 3rd and 4th positions of an all-ASCII label
func (e *Engine) checkHyphen(r *runResult, l *labelView) error {
	if len(l.check) < 4 {
		return nil
	}
	for _, cp := range l.check {
		if cp >= 0x80 {
			return nil
		}
	}
	if l.check[2] == '-' && l.check[3] == '-' {
		return newCurable(CodeHyphen, l.inputIndex(r.tokens, 2), l.sequence(r, 2, 4), "")
	}
	return nil
}

func (e *Engine) checkFenced(r *runResult, l *labelView) error {
	fenced := func(i int) (string, bool) {
		name, ok := e.spec.Fenced[l.check[i]]
		return name, ok
	}
	if name, ok := fenced(0); ok {
		return fencedError(r, l, CodeFencedLeading, 0, 1, "", name)
	}
	n := len(l.check)
	last := -1
	for i := 1; i < n; i++ {
		if name, ok := fenced(i); ok {
			if last == i {
				return fencedError(r, l, CodeFencedMulti, i-1, i+1, string(l.check[i-1]), name)
			}
			last = i + 1
		}
	}
	if last == n {
		name, _ := fenced(n - 1)
		return fencedError(r, l, CodeFencedTrailing, n-1, n, "", name)
	}
	return nil
}

func fencedError(r *runResult, l *labelView, code Code, s, e int, suggested, name string) error {
	err := newCurable(code, l.inputIndex(r.tokens, s), l.sequence(r, s, e), suggested)
	return err.withInfo(fmt.Sprintf("%s %q", name, err.Sequence))
}

// checkCombiningMarks rejects marks at the label start or directly after an
// emoji. In the scanned view every emoji is a single FE0F, so "after an
// emoji" is "after FE0F"
func (e *Engine) checkCombiningMarks(r *runResult, l *labelView) error {
	for i, cp := range l.check {
		if !e.spec.CM.Has(cp) {
			continue
		}
		if i == 0 {
			return newCurable(CodeCMStart, l.inputIndex(r.tokens, i), l.sequence(r, i, i+1), "")
		}
		if l.check[i-1] == specdata.CPFE0F {
			return newCurable(CodeCMEmoji, l.inputIndex(r.tokens, i), l.sequence(r, i, i+1), "")
		}
	}
	return nil
}

// resolveGroup narrows the ordered group list by every distinct codepoint of
// the label and verifies the survivor covers the label entirely
func (e *Engine) resolveGroup(r *runResult, l *labelView) (*specdata.Group, error) {
	groups := e.spec.Groups
	candidates := make([]int, len(groups))
	for i := range candidates {
		candidates[i] = i
	}

	seen := make(map[rune]struct{}, len(l.check))
	unique := make([]rune, 0, len(l.check))
	for _, cp := range l.check {
		if cp == specdata.CPFE0F {
			continue
		}
		if _, dup := seen[cp]; dup {
			continue
		}
		seen[cp] = struct{}{}
		unique = append(unique, cp)
	}

	for _, cp := range unique {
		narrowed := candidates[:0:0]
		for _, gi := range candidates {
			if groups[gi].Contains(cp) {
				narrowed = append(narrowed, gi)
			}
		}
		if len(narrowed) == 0 {
			if len(candidates) == len(groups) {
				// the codepoint fits no script at all
				i := l.indexOf(cp)
				return nil, newCurable(CodeDisallowed, l.inputIndex(r.tokens, i), l.sequence(r, i, i+1), "")
			}
			return nil, e.mixedError(r, l, cp, groups[candidates[0]].Name)
		}
		candidates = narrowed
		if len(candidates) == 1 {
			break
		}
	}

	g := &groups[candidates[0]]
	for _, cp := range unique {
		if !g.Contains(cp) {
			return nil, e.mixedError(r, l, cp, g.Name)
		}
	}
	return g, nil
}

func (e *Engine) mixedError(r *runResult, l *labelView, cp rune, resolved string) error {
	other := ""
	for gi := range e.spec.Groups {
		if e.spec.Groups[gi].Contains(cp) {
			other = e.spec.Groups[gi].Name
			break
		}
	}
	i := l.indexOf(cp)
	err := newCurable(CodeConfMixed, l.inputIndex(r.tokens, i), l.sequence(r, i, i+1), "")
	if other != "" {
		return err.withInfo(fmt.Sprintf("%q is %s, the rest of the label is %s", err.Sequence, other, resolved))
	}
	return err.withInfo(fmt.Sprintf("%q does not fit the label script %s", err.Sequence, resolved))
}

// indexOf returns the first scanned position holding cp
func (l *labelView) indexOf(cp rune) int {
	for i, c := range l.check {
		if c == cp {
			return i
		}
	}
	return 0
}

// checkNSM bounds runs of non-spacing marks in the NFD form of the label for
// groups that restrict combining marks: no duplicates within a run attached
// to one base, and never more than the spec bound
func (e *Engine) checkNSM(l *labelView, g *specdata.Group) error {
	if g.CMAllowed {
		return nil
	}
	var buf []rune
	for _, cp := range l.check {
		if cp != specdata.CPFE0F {
			buf = append(buf, cp)
		}
	}
	decomposed := []rune(norm.NFD.String(string(buf)))
	for i := 1; i < len(decomposed); i++ {
		if !e.spec.NSM.Has(decomposed[i]) {
			continue
		}
		seen := map[rune]struct{}{decomposed[i]: {}}
		j := i + 1
		for j < len(decomposed) && e.spec.NSM.Has(decomposed[j]) {
			if _, dup := seen[decomposed[j]]; dup {
				return newDisallowed(CodeNSMRepeated)
			}
			seen[decomposed[j]] = struct{}{}
			if j-i+1 > e.spec.NSMMax {
				return newDisallowed(CodeNSMTooMany)
			}
			j++
		}
		i = j
	}
	return nil
}

// checkWhole is the whole-script confusable check: when every distinct
// codepoint of the label is confusable into one common foreign group, and
// the remaining shared codepoints are all members of that group too, the
// label as a whole spoofs that script
func (e *Engine) checkWhole(l *labelView, g *specdata.Group) error {
	var maker []int
	haveMaker := false
	var shared []rune

	seen := make(map[rune]struct{}, len(l.check))
	for _, cp := range l.check {
		if cp == specdata.CPFE0F {
			continue
		}
		if _, dup := seen[cp]; dup {
			continue
		}
		seen[cp] = struct{}{}

		w := e.spec.Whole[cp]
		if w == nil {
			shared = append(shared, cp)
			continue
		}
		if w.Confused {
			return nil
		}
		set := w.M[cp]
		if !haveMaker {
			maker = append([]int(nil), set...)
			haveMaker = true
		} else {
			maker = intersect(maker, set)
		}
		if len(maker) == 0 {
			return nil
		}
	}

	if !haveMaker {
		return nil
	}
	for _, gi := range maker {
		target := &e.spec.Groups[gi]
		all := true
		for _, cp := range shared {
			if !target.Contains(cp) {
				all = false
				break
			}
		}
		if all {
			return newDisallowed(CodeConfWhole)
		}
	}
	return nil
}

func intersect(a, b []int) []int {
	out := a[:0]
	for _, x := range a {
		for _, y := range b {
			if x == y {
				out = append(out, x)
				break
			}
		}
	}
	return out
}

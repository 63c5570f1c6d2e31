package ensip

import "errors"

// Cure repeatedly normalizes name, removing the offending sequence reported
// by each curable diagnostic, until the name normalizes or a non-curable
// diagnostic remains
func (e *Engine) Cure(name string) (string, error) {
	cured, _, err := e.cure(name)
	return cured, err
}

// CureDetailed is Cure plus the list of applied repairs in order
func (e *Engine) CureDetailed(name string) (string, []CurableSequence, error) {
	return e.cure(name)
}

func (e *Engine) cure(name string) (string, []CurableSequence, error) {
	var cures []CurableSequence

	// every iteration consumes at least one codepoint of diagnostic
	// attention, so the input length bounds the loop
	bound := len([]rune(name)) + 1
	var err error
	for iter := 0; iter < bound; iter++ {
		var out string
		out, err = e.Normalize(name)
		if err == nil {
			return out, cures, nil
		}
		var curable *CurableSequence
		if !errors.As(err, &curable) {
			return "", cures, err
		}

		cps := []rune(name)
		seq := []rune(curable.Sequence)
		start := curable.Index
		end := start + len(seq)
		if start < 0 || end > len(cps) || !runesEqual(cps[start:end], seq) {
			// the diagnostic no longer lines up with the input; bail out
			// rather than loop on a repair that cannot apply
			return "", cures, err
		}

		next := make([]rune, 0, len(cps))
		next = append(next, cps[:start]...)
		next = append(next, []rune(curable.Suggested)...)
		next = append(next, cps[end:]...)
		name = string(next)
		cures = append(cures, *curable)

		if name == "" {
			return "", cures, newDisallowed(CodeEmptyName)
		}
	}
	return "", cures, err
}

package ensip

// Flags selects which outputs Process computes in a single pass
type Flags uint8

const (
	// FlagNormalize computes Result.Normalized
	FlagNormalize Flags = 1 << iota
	// FlagBeautify computes Result.Beautified
	FlagBeautify
	// FlagTokenize fills Result.Tokens
	FlagTokenize
	// FlagNormalizations fills Result.Normalizations
	FlagNormalizations
	// FlagCure computes Result.Cured and Result.Cures
	FlagCure
	// FlagAll turns everything on
	FlagAll = FlagNormalize | FlagBeautify | FlagTokenize | FlagNormalizations | FlagCure
)

// Has reports whether all bits of f are set
func (fl Flags) Has(f Flags) bool { return fl&f == f }

// Result is the combined outcome of one Process call. Error captures the
// diagnostic instead of raising it; when Error is non-nil the Normalized and
// Beautified fields are empty. Cured reflects the cure loop, which may
// succeed even when Error is set
type Result struct {
	Normalized     string
	Beautified     string
	Tokens         []Token
	Normalizations []NormalizableSequence
	Cured          string
	Cures          []CurableSequence
	Error          error
	CureError      error
}

// Process runs the pipeline once and derives every requested view from it
func (e *Engine) Process(name string, flags Flags) Result {
	res := e.run(name)
	out := Result{Error: res.err}
	if flags.Has(FlagTokenize) {
		out.Tokens = res.tokens
	}
	if flags.Has(FlagNormalizations) {
		out.Normalizations = normalizations(res.tokens)
	}
	if res.err == nil {
		if flags.Has(FlagNormalize) {
			out.Normalized = res.render(false)
		}
		if flags.Has(FlagBeautify) {
			out.Beautified = res.render(true)
		}
	}
	if flags.Has(FlagCure) {
		cured, cures, err := e.cure(name)
		out.Cured, out.Cures, out.CureError = cured, cures, err
	}
	return out
}

package ensip

import "fmt"

// Code is a wire-stable diagnostic or transformation tag
type Code string

// Curable codes carry an (index, sequence, suggested) repair triple
const (
	CodeUnderscore     Code = "UNDERSCORE"
	CodeHyphen         Code = "HYPHEN"
	CodeEmptyLabel     Code = "EMPTY_LABEL"
	CodeCMStart        Code = "CM_START"
	CodeCMEmoji        Code = "CM_EMOJI"
	CodeDisallowed     Code = "DISALLOWED"
	CodeInvisible      Code = "INVISIBLE"
	CodeFencedLeading  Code = "FENCED_LEADING"
	CodeFencedMulti    Code = "FENCED_MULTI"
	CodeFencedTrailing Code = "FENCED_TRAILING"
	CodeConfMixed      Code = "CONF_MIXED"
)

// Non-curable codes reject the name outright
const (
	CodeEmptyName   Code = "EMPTY_NAME"
	CodeNSMRepeated Code = "NSM_REPEATED"
	CodeNSMTooMany  Code = "NSM_TOO_MANY"
	CodeConfWhole   Code = "CONF_WHOLE"
)

// Normalization transformation codes reported by Normalizations
const (
	CodeMapped  Code = "MAPPED"
	CodeIgnored Code = "IGNORED"
	CodeFE0F    Code = "FE0F"
	CodeNFC     Code = "NFC"
)

// generalInfo is the human summary per code
var generalInfo = map[Code]string{
	CodeUnderscore:     "contains an underscore in a disallowed position",
	CodeHyphen:         "contains the sequence '--' in a disallowed position",
	CodeEmptyLabel:     "contains a disallowed empty label",
	CodeCMStart:        "contains a combining mark at the start of a label",
	CodeCMEmoji:        "contains a combining mark directly after an emoji",
	CodeDisallowed:     "contains a disallowed character",
	CodeInvisible:      "contains a disallowed invisible character",
	CodeFencedLeading:  "contains a fenced character at the start of a label",
	CodeFencedMulti:    "contains a fenced character directly after another fenced character",
	CodeFencedTrailing: "contains a fenced character at the end of a label",
	CodeConfMixed:      "contains visually confusing characters from multiple scripts",
	CodeEmptyName:      "the name is empty",
	CodeNSMRepeated:    "contains a repeated non-spacing mark",
	CodeNSMTooMany:     "contains too many consecutive non-spacing marks",
	CodeConfWhole:      "contains visually confusing characters from another script",
	CodeMapped:         "contains a character that is replaced during normalization",
	CodeIgnored:        "contains a character that is removed during normalization",
	CodeFE0F:           "contains a misencoded emoji",
	CodeNFC:            "contains a sequence that is not in canonical form",
}

// Diagnostic is the projection shared by both error variants
type Diagnostic interface {
	error
	Code() Code
	GeneralInfo() string
}

// DisallowedSequence is a rejection with no localized repair
type DisallowedSequence struct {
	code Code
}

func newDisallowed(code Code) *DisallowedSequence {
	return &DisallowedSequence{code: code}
}

// Code returns the wire tag
func (e *DisallowedSequence) Code() Code { return e.code }

// GeneralInfo returns the human summary
func (e *DisallowedSequence) GeneralInfo() string { return generalInfo[e.code] }

// Error implements error
func (e *DisallowedSequence) Error() string {
	return fmt.Sprintf("%s: %s", e.code, e.GeneralInfo())
}

// CurableSequence is a rejection carrying a mechanical repair: replacing
// Sequence at Index (codepoint units of the original input) with Suggested
// removes this particular violation
type CurableSequence struct {
	code         Code
	Index        int
	Sequence     string
	Suggested    string
	sequenceInfo string
}

func newCurable(code Code, index int, sequence, suggested string) *CurableSequence {
	return &CurableSequence{code: code, Index: index, Sequence: sequence, Suggested: suggested}
}

func (e *CurableSequence) withInfo(info string) *CurableSequence {
	e.sequenceInfo = info
	return e
}

// Code returns the wire tag
func (e *CurableSequence) Code() Code { return e.code }

// GeneralInfo returns the human summary
func (e *CurableSequence) GeneralInfo() string { return generalInfo[e.code] }

// SequenceInfo describes the offending sequence itself
func (e *CurableSequence) SequenceInfo() string {
	if e.sequenceInfo != "" {
		return e.sequenceInfo
	}
	return fmt.Sprintf("%q at codepoint %d", e.Sequence, e.Index)
}

// Error implements error
func (e *CurableSequence) Error() string {
	return fmt.Sprintf("%s: %s (%s)", e.code, e.GeneralInfo(), e.SequenceInfo())
}

// NormalizableSequence describes one transformation tokenization would apply:
// replacing Sequence at Index with Suggested yields the normalized form
type NormalizableSequence struct {
	Code      Code   `json:"code"`
	Index     int    `json:"index"`
	Sequence  string `json:"sequence"`
	Suggested string `json:"suggested"`
}

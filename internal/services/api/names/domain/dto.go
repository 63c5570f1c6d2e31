// Package domain holds DTOs for names http and service contracts
package domain

import "ensnorm/internal/core/ensip"

// NameInput is the input for the single-operation endpoints
type NameInput struct {
	Name string `json:"name" validate:"max=512" example:"Nick.ETH"`
}

// ProcessInput selects which views to compute in one pass
type ProcessInput struct {
	Name           string `json:"name" validate:"max=512" example:"Nick.ETH"`
	Normalize      bool   `json:"normalize,omitempty"`
	Beautify       bool   `json:"beautify,omitempty"`
	Tokenize       bool   `json:"tokenize,omitempty"`
	Normalizations bool   `json:"normalizations,omitempty"`
	Cure           bool   `json:"cure,omitempty"`
}

// DiagnosticWire is the wire form of an engine diagnostic
type DiagnosticWire struct {
	Code         string  `json:"code"`
	Message      string  `json:"message"`
	Curable      bool    `json:"curable"`
	SequenceInfo string  `json:"sequence_info,omitempty"`
	Index        *int    `json:"index,omitempty"`
	Sequence     *string `json:"sequence,omitempty"`
	Suggested    *string `json:"suggested,omitempty"`
}

// TokenWire is the wire form of one tokenizer token; codepoint slices are
// emitted as integer scalars like the upstream tooling does
type TokenWire struct {
	Type  string  `json:"type"`
	CP    *int32  `json:"cp,omitempty"`
	CPs   []int32 `json:"cps,omitempty"`
	Input []int32 `json:"input,omitempty"`
	Emoji []int32 `json:"emoji,omitempty"`
	Start int     `json:"start"`
}

// NameReport is the result of a single-operation endpoint; exactly one of
// Output or Error is populated
type NameReport struct {
	Input  string          `json:"input"`
	Output *string         `json:"output,omitempty"`
	Error  *DiagnosticWire `json:"error,omitempty"`
}

// CureReport is NameReport plus the applied cures
type CureReport struct {
	NameReport
	Cures []ensip.NormalizableSequence `json:"cures,omitempty"`
}

// TokenizeReport is the total tokenization view
type TokenizeReport struct {
	Input  string      `json:"input"`
	Tokens []TokenWire `json:"tokens"`
}

// NormalizationsReport lists the transformations tokenization would apply
type NormalizationsReport struct {
	Input          string                       `json:"input"`
	Normalizations []ensip.NormalizableSequence `json:"normalizations"`
}

// ProcessReport is the combined view
type ProcessReport struct {
	Input          string                       `json:"input"`
	Normalized     *string                      `json:"normalized,omitempty"`
	Beautified     *string                      `json:"beautified,omitempty"`
	Tokens         []TokenWire                  `json:"tokens,omitempty"`
	Normalizations []ensip.NormalizableSequence `json:"normalizations,omitempty"`
	Cured          *string                      `json:"cured,omitempty"`
	Cures          []ensip.NormalizableSequence `json:"cures,omitempty"`
	Error          *DiagnosticWire              `json:"error,omitempty"`
}

// RecentInput filters the lookup journal
type RecentInput struct {
	Limit int `json:"limit,omitempty" validate:"omitempty,min=1,max=200" example:"50"`
}

// Lookup is one journal row
type Lookup struct {
	ID         string `json:"id"`
	Input      string `json:"input"`
	Normalized string `json:"normalized,omitempty"`
	ErrorCode  string `json:"error_code,omitempty"`
	CreatedAt  string `json:"created_at"`
}

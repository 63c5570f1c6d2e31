// Package service contains the names workflows: it drives the normalization
// engine and journals every decided lookup
package service

import (
	"context"
	"errors"

	"ensnorm/internal/core/ensip"
	"ensnorm/internal/platform/logger"
	"ensnorm/internal/services/api/names/domain"
	"ensnorm/internal/services/api/names/repo"

	"github.com/google/uuid"
)

// Service defines the service contract for names
type Service interface{ domain.ServicePort }

// Svc implements the Service interface
type Svc struct {
	eng  *ensip.Engine
	repo repo.Repo
	log  *logger.Logger
}

// New creates a new names service
func New(eng *ensip.Engine, r repo.Repo, log *logger.Logger) *Svc {
	if eng == nil {
		panic("names.Service requires a non nil engine")
	}
	if log == nil {
		log = logger.Named("names")
	}
	return &Svc{eng: eng, repo: r, log: log}
}

// Normalize returns the canonical form or the diagnostic that blocks it
func (s *Svc) Normalize(ctx context.Context, in domain.NameInput) (domain.NameReport, error) {
	out, err := s.eng.Normalize(in.Name)
	rep := report(in.Name, out, err)
	s.journal(ctx, in.Name, out, err)
	return rep, nil
}

// Beautify returns the display form or the diagnostic that blocks it
func (s *Svc) Beautify(ctx context.Context, in domain.NameInput) (domain.NameReport, error) {
	out, err := s.eng.Beautify(in.Name)
	return report(in.Name, out, err), nil
}

// Cure returns the repaired form plus applied cures
func (s *Svc) Cure(ctx context.Context, in domain.NameInput) (domain.CureReport, error) {
	out, cures, err := s.eng.CureDetailed(in.Name)
	rep := domain.CureReport{NameReport: report(in.Name, out, err)}
	for _, c := range cures {
		rep.Cures = append(rep.Cures, ensip.NormalizableSequence{
			Code: c.Code(), Index: c.Index, Sequence: c.Sequence, Suggested: c.Suggested,
		})
	}
	s.journal(ctx, in.Name, out, err)
	return rep, nil
}

// Tokenize returns the total token view
func (s *Svc) Tokenize(_ context.Context, in domain.NameInput) (domain.TokenizeReport, error) {
	return domain.TokenizeReport{
		Input:  in.Name,
		Tokens: wireTokens(s.eng.Tokenize(in.Name)),
	}, nil
}

// Normalizations returns the transformation list
func (s *Svc) Normalizations(_ context.Context, in domain.NameInput) (domain.NormalizationsReport, error) {
	norms := s.eng.Normalizations(in.Name)
	if norms == nil {
		norms = []ensip.NormalizableSequence{}
	}
	return domain.NormalizationsReport{Input: in.Name, Normalizations: norms}, nil
}

// Process combines any subset of views in one engine pass
func (s *Svc) Process(ctx context.Context, in domain.ProcessInput) (domain.ProcessReport, error) {
	var flags ensip.Flags
	if in.Normalize {
		flags |= ensip.FlagNormalize
	}
	if in.Beautify {
		flags |= ensip.FlagBeautify
	}
	if in.Tokenize {
		flags |= ensip.FlagTokenize
	}
	if in.Normalizations {
		flags |= ensip.FlagNormalizations
	}
	if in.Cure {
		flags |= ensip.FlagCure
	}
	res := s.eng.Process(in.Name, flags)

	rep := domain.ProcessReport{Input: in.Name}
	if res.Error == nil {
		if in.Normalize {
			rep.Normalized = &res.Normalized
		}
		if in.Beautify {
			rep.Beautified = &res.Beautified
		}
	} else {
		rep.Error = wireDiagnostic(res.Error)
	}
	if in.Tokenize {
		rep.Tokens = wireTokens(res.Tokens)
	}
	if in.Normalizations {
		rep.Normalizations = res.Normalizations
	}
	if in.Cure && res.CureError == nil {
		rep.Cured = &res.Cured
		for _, c := range res.Cures {
			rep.Cures = append(rep.Cures, ensip.NormalizableSequence{
				Code: c.Code(), Index: c.Index, Sequence: c.Sequence, Suggested: c.Suggested,
			})
		}
	}
	if in.Normalize || in.Cure {
		s.journal(ctx, in.Name, res.Normalized, res.Error)
	}
	return rep, nil
}

// Recent reads the lookup journal
func (s *Svc) Recent(ctx context.Context, in domain.RecentInput) ([]domain.Lookup, error) {
	if s.repo == nil {
		return []domain.Lookup{}, nil
	}
	rows, err := s.repo.Recent(ctx, in.Limit)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Lookup, 0, len(rows))
	for _, r := range rows {
		out = append(out, domain.Lookup{
			ID:         r.ID,
			Input:      r.Input,
			Normalized: r.Normalized,
			ErrorCode:  r.ErrorCode,
			CreatedAt:  r.CreatedAt,
		})
	}
	return out, nil
}

// journal records the lookup best effort; storage trouble never fails the call
func (s *Svc) journal(ctx context.Context, input, normalized string, diagErr error) {
	if s.repo == nil {
		return
	}
	id := uuid.NewString()
	code := ""
	outcome := "ok"
	if diagErr != nil {
		normalized = ""
		outcome = "error"
		var diag ensip.Diagnostic
		if errors.As(diagErr, &diag) {
			code = string(diag.Code())
		} else {
			code = "INTERNAL"
		}
	}
	if err := s.repo.RecordLookup(ctx, repo.LookupRow{
		ID: id, Input: input, Normalized: normalized, ErrorCode: code,
	}); err != nil {
		s.log.Error().Err(err).Str("id", id).Msg("journal write failed")
	}
	if err := s.repo.RecordEvent(ctx, repo.Event{
		ID: id, InputLen: int32(len([]rune(input))), Outcome: outcome, Code: code,
	}); err != nil {
		s.log.Error().Err(err).Str("id", id).Msg("event write failed")
	}
}

func report(input, output string, err error) domain.NameReport {
	rep := domain.NameReport{Input: input}
	if err != nil {
		rep.Error = wireDiagnostic(err)
		return rep
	}
	rep.Output = &output
	return rep
}

func wireDiagnostic(err error) *domain.DiagnosticWire {
	var curable *ensip.CurableSequence
	if errors.As(err, &curable) {
		idx := curable.Index
		seq := curable.Sequence
		sug := curable.Suggested
		return &domain.DiagnosticWire{
			Code:         string(curable.Code()),
			Message:      curable.GeneralInfo(),
			Curable:      true,
			SequenceInfo: curable.SequenceInfo(),
			Index:        &idx,
			Sequence:     &seq,
			Suggested:    &sug,
		}
	}
	var diag ensip.Diagnostic
	if errors.As(err, &diag) {
		return &domain.DiagnosticWire{
			Code:    string(diag.Code()),
			Message: diag.GeneralInfo(),
		}
	}
	return &domain.DiagnosticWire{Code: "INTERNAL", Message: err.Error()}
}

func wireTokens(tokens []ensip.Token) []domain.TokenWire {
	out := make([]domain.TokenWire, 0, len(tokens))
	for _, tok := range tokens {
		w := domain.TokenWire{
			Type:  tok.Kind.String(),
			CPs:   wireCPs(tok.CPs),
			Input: wireCPs(tok.Input),
			Emoji: wireCPs(tok.Emoji),
			Start: tok.Start,
		}
		switch tok.Kind {
		case ensip.TokenMapped, ensip.TokenIgnored, ensip.TokenDisallowed, ensip.TokenStop:
			cp := int32(tok.CP)
			w.CP = &cp
		}
		out = append(out, w)
	}
	return out
}

func wireCPs(cps []rune) []int32 {
	if cps == nil {
		return nil
	}
	out := make([]int32, len(cps))
	for i, cp := range cps {
		out[i] = int32(cp)
	}
	return out
}

package service

import (
	"context"
	"testing"

	"ensnorm/internal/core/ensip"
	"ensnorm/internal/services/api/names/domain"
	"ensnorm/internal/services/api/names/repo"
)

// fakeRepo records journal writes in memory
type fakeRepo struct {
	lookups []repo.LookupRow
	events  []repo.Event
}

func (f *fakeRepo) RecordLookup(_ context.Context, row repo.LookupRow) error {
	f.lookups = append(f.lookups, row)
	return nil
}

func (f *fakeRepo) RecordEvent(_ context.Context, ev repo.Event) error {
	f.events = append(f.events, ev)
	return nil
}

func (f *fakeRepo) Recent(_ context.Context, _ int) ([]repo.LookupRow, error) {
	return f.lookups, nil
}

func newSvc(t *testing.T) (*Svc, *fakeRepo) {
	t.Helper()
	eng, err := ensip.New()
	if err != nil {
		t.Fatalf("engine: %v", err)
	}
	fr := &fakeRepo{}
	return New(eng, fr, nil), fr
}

func TestNormalizeJournalsSuccess(t *testing.T) {
	s, fr := newSvc(t)

	rep, err := s.Normalize(context.Background(), domain.NameInput{Name: "Nick.ETH"})
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if rep.Error != nil || rep.Output == nil || *rep.Output != "nick.eth" {
		t.Fatalf("report = %+v", rep)
	}
	if len(fr.lookups) != 1 || fr.lookups[0].Normalized != "nick.eth" || fr.lookups[0].ErrorCode != "" {
		t.Fatalf("journal = %+v", fr.lookups)
	}
	if len(fr.events) != 1 || fr.events[0].Outcome != "ok" || fr.events[0].InputLen != 8 {
		t.Fatalf("events = %+v", fr.events)
	}
}

func TestNormalizeJournalsDiagnostic(t *testing.T) {
	s, fr := newSvc(t)

	rep, err := s.Normalize(context.Background(), domain.NameInput{Name: "a_b.eth"})
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if rep.Output != nil || rep.Error == nil {
		t.Fatalf("report = %+v", rep)
	}
	if rep.Error.Code != "UNDERSCORE" || !rep.Error.Curable {
		t.Fatalf("diagnostic = %+v", rep.Error)
	}
	if rep.Error.Index == nil || *rep.Error.Index != 1 {
		t.Fatalf("diagnostic index = %+v", rep.Error.Index)
	}
	if fr.lookups[0].ErrorCode != "UNDERSCORE" || fr.events[0].Outcome != "error" {
		t.Fatalf("journal = %+v / %+v", fr.lookups, fr.events)
	}
}

func TestCureReportsCures(t *testing.T) {
	s, _ := newSvc(t)

	rep, err := s.Cure(context.Background(), domain.NameInput{Name: "a?b.eth"})
	if err != nil {
		t.Fatalf("Cure: %v", err)
	}
	if rep.Output == nil || *rep.Output != "ab.eth" {
		t.Fatalf("report = %+v", rep)
	}
	if len(rep.Cures) != 1 || rep.Cures[0].Code != ensip.CodeDisallowed {
		t.Fatalf("cures = %+v", rep.Cures)
	}
}

func TestCureNonCurableSurfacesDiagnostic(t *testing.T) {
	s, _ := newSvc(t)

	rep, err := s.Cure(context.Background(), domain.NameInput{Name: "\u0430.eth"})
	if err != nil {
		t.Fatalf("Cure: %v", err)
	}
	if rep.Error == nil || rep.Error.Code != "CONF_WHOLE" || rep.Error.Curable {
		t.Fatalf("diagnostic = %+v", rep.Error)
	}
}

func TestProcessSelectsViews(t *testing.T) {
	s, _ := newSvc(t)

	rep, err := s.Process(context.Background(), domain.ProcessInput{
		Name: "Nick.ETH", Normalize: true, Tokenize: true, Normalizations: true,
	})
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if rep.Normalized == nil || *rep.Normalized != "nick.eth" {
		t.Fatalf("normalized = %+v", rep.Normalized)
	}
	if rep.Beautified != nil {
		t.Fatalf("beautified was not requested")
	}
	if len(rep.Tokens) == 0 || len(rep.Normalizations) != 4 {
		t.Fatalf("tokens/normalizations = %d/%d", len(rep.Tokens), len(rep.Normalizations))
	}
}

func TestTokenizeWireShape(t *testing.T) {
	s, _ := newSvc(t)

	rep, err := s.Tokenize(context.Background(), domain.NameInput{Name: "N.x"})
	if err != nil {
		t.Fatalf("Tokenize: %v", err)
	}
	if len(rep.Tokens) != 3 {
		t.Fatalf("tokens = %+v", rep.Tokens)
	}
	if rep.Tokens[0].Type != "mapped" || rep.Tokens[0].CP == nil || *rep.Tokens[0].CP != 'N' {
		t.Fatalf("mapped token = %+v", rep.Tokens[0])
	}
	if rep.Tokens[1].Type != "stop" || rep.Tokens[1].Start != 1 {
		t.Fatalf("stop token = %+v", rep.Tokens[1])
	}
}

func TestRecentWithoutStore(t *testing.T) {
	eng, err := ensip.New()
	if err != nil {
		t.Fatalf("engine: %v", err)
	}
	s := New(eng, nil, nil)
	rows, err := s.Recent(context.Background(), domain.RecentInput{})
	if err != nil || len(rows) != 0 {
		t.Fatalf("Recent = %v, %v", rows, err)
	}
}

package specdata

import "testing"

func TestLoadCompiles(t *testing.T) {
	s, err := Load()
	if err != nil {
		t.Fatalf("Load(): %v", err)
	}
	if s2, _ := Load(); s2 != s {
		t.Fatalf("Load() must return the cached *Spec")
	}

	if len(s.Groups) == 0 || len(s.Emoji) == 0 {
		t.Fatalf("expected groups and emoji tables")
	}
	if s.NSMMax <= 0 {
		t.Fatalf("nsm_max must be positive, got %d", s.NSMMax)
	}

	// lowercase ascii is valid, uppercase maps to it
	if !s.Valid.Has('a') {
		t.Fatalf("'a' should be valid")
	}
	if img, ok := s.Mapped['A']; !ok || len(img) != 1 || img[0] != 'a' {
		t.Fatalf("'A' should map to 'a', got %v", img)
	}

	// NFD closure pulls combining marks into the valid set
	if !s.Valid.Has(0x300) {
		t.Fatalf("U+0300 should be valid via NFD closure")
	}

	// FE0F never survives as a combining mark
	if s.CM.Has(CPFE0F) {
		t.Fatalf("FE0F must not be in the cm set")
	}

	if _, ok := s.Fenced[0x2019]; !ok {
		t.Fatalf("right single quote should be fenced")
	}
}

func TestLoadDisjointSets(t *testing.T) {
	s, err := Load()
	if err != nil {
		t.Fatalf("Load(): %v", err)
	}
	for cp := range s.Mapped {
		if s.Valid.Has(cp) || s.Ignored.Has(cp) {
			t.Fatalf("mapped %#x overlaps valid/ignored", cp)
		}
	}
	for cp := range s.Ignored {
		if s.Valid.Has(cp) {
			t.Fatalf("ignored %#x overlaps valid", cp)
		}
	}
}

func TestCompileRejectsMissingFields(t *testing.T) {
	if _, err := compile([]byte(`{"ignored":[],"mapped":[]}`)); err == nil {
		t.Fatalf("expected missing-field error")
	}
	if _, err := compile([]byte(`not json`)); err == nil {
		t.Fatalf("expected parse error")
	}
}

func TestWholeMapResolvesGroups(t *testing.T) {
	s, err := Load()
	if err != nil {
		t.Fatalf("Load(): %v", err)
	}
	w, ok := s.Whole[0x445] // cyrillic ha
	if !ok {
		t.Fatalf("whole_map should cover U+0445")
	}
	if w.Confused {
		t.Fatalf("U+0445 is a real confusable class, not the sentinel")
	}
	ids := w.M[0x445]
	if len(ids) == 0 {
		t.Fatalf("U+0445 should name at least one confusing group")
	}
	for _, id := range ids {
		if s.Groups[id].Name == "" {
			t.Fatalf("group index %d unresolved", id)
		}
	}
	if w2, ok := s.Whole[0x455]; !ok || !w2.Confused {
		t.Fatalf("U+0455 should be the confused sentinel")
	}
}

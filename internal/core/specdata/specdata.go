// Package specdata loads and compiles the ENSIP-15 normalization tables from
// the embedded spec.json. It prepares the codepoint sets, script groups,
// whole-script confusable map, and the emoji trie used by the engine
package specdata

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"strconv"
	"sync"

	"golang.org/x/text/unicode/norm"
)

//go:embed spec.json
var embedded []byte

// CPStop is the label separator
const CPStop rune = 0x2E

// CPFE0F is the emoji variation selector
const CPFE0F rune = 0xFE0F

type rawSpec struct {
	Ignored  []int32                    `json:"ignored"`
	Mapped   [][]json.RawMessage        `json:"mapped"`
	CM       []int32                    `json:"cm"`
	NSM      []int32                    `json:"nsm"`
	NSMMax   *int                       `json:"nsm_max"`
	Fenced   [][]json.RawMessage        `json:"fenced"`
	Escape   []int32                    `json:"escape"`
	NFCCheck []int32                    `json:"nfc_check"`
	Emoji    [][]int32                  `json:"emoji"`
	Groups   []rawGroup                 `json:"groups"`
	Whole    map[string]json.RawMessage `json:"whole_map"`
}

type rawGroup struct {
	Name      string  `json:"name"`
	CM        bool    `json:"cm"`
	Primary   []int32 `json:"primary"`
	Secondary []int32 `json:"secondary"`
}

type rawWhole struct {
	V []int32             `json:"V"`
	M map[string][]string `json:"M"`
}

// Set is a codepoint membership set
type Set map[rune]struct{}

// Has reports whether cp is in the set
func (s Set) Has(cp rune) bool { _, ok := s[cp]; return ok }

func newSet(cps []int32) Set {
	s := make(Set, len(cps))
	for _, cp := range cps {
		s[rune(cp)] = struct{}{}
	}
	return s
}

// Group is one ENSIP-15 script group. A codepoint belongs to the group when
// it is in Primary or Secondary
type Group struct {
	Name      string
	CMAllowed bool
	Primary   Set
	Secondary Set
}

// Contains reports whether cp belongs to the group
func (g *Group) Contains(cp rune) bool { return g.Primary.Has(cp) || g.Secondary.Has(cp) }

// Whole is one whole-script confusable class. Confused marks the sentinel
// entry that short-circuits the whole-script check for its codepoint
type Whole struct {
	Confused bool
	V        Set
	M        map[rune][]int // cp -> indices into Spec.Groups
}

// Spec holds the compiled normalization tables. It is published once by Load
// and never mutated afterwards
type Spec struct {
	Mapped   map[rune][]rune
	Ignored  Set
	Valid    Set
	CM       Set
	NSM      Set
	NSMMax   int
	Fenced   map[rune]string
	Escape   Set
	NFCCheck Set
	Groups   []Group
	Whole    map[rune]*Whole
	Emoji    [][]rune

	trie *emojiTrie
}

// MatchEmoji returns the count of leading codepoints of cps consumed by the
// longest emoji match and the fully-qualified form, or (0, nil) when cps does
// not start with an emoji
func (s *Spec) MatchEmoji(cps []rune) (int, []rune) { return s.trie.match(cps) }

var (
	once    sync.Once
	loaded  *Spec
	loadErr error
)

// Load parses and compiles the embedded spec.json. The result is cached; all
// callers share one immutable *Spec
func Load() (*Spec, error) {
	once.Do(func() { loaded, loadErr = compile(embedded) })
	return loaded, loadErr
}

func compile(data []byte) (*Spec, error) {
	var raw rawSpec
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("specdata: parse spec.json: %w", err)
	}
	if err := requireFields(&raw); err != nil {
		return nil, err
	}

	s := &Spec{
		Mapped:   make(map[rune][]rune, len(raw.Mapped)),
		Ignored:  newSet(raw.Ignored),
		CM:       newSet(raw.CM),
		NSM:      newSet(raw.NSM),
		NSMMax:   *raw.NSMMax,
		Fenced:   make(map[rune]string, len(raw.Fenced)),
		Escape:   newSet(raw.Escape),
		NFCCheck: newSet(raw.NFCCheck),
		Whole:    make(map[rune]*Whole, len(raw.Whole)),
	}

	// FE0F is carried in the upstream cm table but is handled by the emoji
	// machinery, never as a combining mark
	delete(s.CM, CPFE0F)

	for i, ent := range raw.Mapped {
		cp, img, err := parseMapped(ent)
		if err != nil {
			return nil, fmt.Errorf("specdata: mapped[%d]: %w", i, err)
		}
		s.Mapped[cp] = img
	}

	for i, ent := range raw.Fenced {
		cp, name, err := parseFenced(ent)
		if err != nil {
			return nil, fmt.Errorf("specdata: fenced[%d]: %w", i, err)
		}
		s.Fenced[cp] = name
	}

	groupIdx := make(map[string]int, len(raw.Groups))
	for i, g := range raw.Groups {
		s.Groups = append(s.Groups, Group{
			Name:      g.Name,
			CMAllowed: g.CM,
			Primary:   newSet(g.Primary),
			Secondary: newSet(g.Secondary),
		})
		groupIdx[g.Name] = i
	}

	s.Valid = computeValid(s.Groups)

	for key, rawVal := range raw.Whole {
		cp, err := strconv.ParseInt(key, 10, 32)
		if err != nil {
			return nil, fmt.Errorf("specdata: whole_map key %q: %w", key, err)
		}
		w, err := parseWhole(rawVal, groupIdx)
		if err != nil {
			return nil, fmt.Errorf("specdata: whole_map[%s]: %w", key, err)
		}
		s.Whole[rune(cp)] = w
	}

	for _, seq := range raw.Emoji {
		fq := make([]rune, len(seq))
		for i, cp := range seq {
			fq[i] = rune(cp)
		}
		s.Emoji = append(s.Emoji, fq)
	}
	s.trie = buildTrie(s.Emoji)

	if err := checkInvariants(s); err != nil {
		return nil, err
	}
	return s, nil
}

func requireFields(raw *rawSpec) error {
	missing := ""
	switch {
	case raw.Ignored == nil:
		missing = "ignored"
	case raw.Mapped == nil:
		missing = "mapped"
	case raw.CM == nil:
		missing = "cm"
	case raw.NSM == nil:
		missing = "nsm"
	case raw.NSMMax == nil:
		missing = "nsm_max"
	case raw.Fenced == nil:
		missing = "fenced"
	case raw.Escape == nil:
		missing = "escape"
	case raw.NFCCheck == nil:
		missing = "nfc_check"
	case raw.Emoji == nil:
		missing = "emoji"
	case raw.Groups == nil:
		missing = "groups"
	case raw.Whole == nil:
		missing = "whole_map"
	}
	if missing != "" {
		return fmt.Errorf("specdata: spec.json missing required field %q", missing)
	}
	return nil
}

func parseMapped(ent []json.RawMessage) (rune, []rune, error) {
	if len(ent) != 2 {
		return 0, nil, fmt.Errorf("want [cp, [cps]], got %d elements", len(ent))
	}
	var cp int32
	if err := json.Unmarshal(ent[0], &cp); err != nil {
		return 0, nil, err
	}
	var img []int32
	if err := json.Unmarshal(ent[1], &img); err != nil {
		return 0, nil, err
	}
	if len(img) == 0 {
		return 0, nil, fmt.Errorf("empty image for %#x", cp)
	}
	out := make([]rune, len(img))
	for i, c := range img {
		out[i] = rune(c)
	}
	return rune(cp), out, nil
}

func parseFenced(ent []json.RawMessage) (rune, string, error) {
	if len(ent) != 2 {
		return 0, "", fmt.Errorf("want [cp, name], got %d elements", len(ent))
	}
	var cp int32
	if err := json.Unmarshal(ent[0], &cp); err != nil {
		return 0, "", err
	}
	var name string
	if err := json.Unmarshal(ent[1], &name); err != nil {
		return 0, "", err
	}
	return rune(cp), name, nil
}

func parseWhole(raw json.RawMessage, groupIdx map[string]int) (*Whole, error) {
	var sentinel int
	if err := json.Unmarshal(raw, &sentinel); err == nil {
		if sentinel != 1 {
			return nil, fmt.Errorf("unexpected sentinel %d", sentinel)
		}
		return &Whole{Confused: true}, nil
	}
	var rw rawWhole
	if err := json.Unmarshal(raw, &rw); err != nil {
		return nil, err
	}
	w := &Whole{V: newSet(rw.V), M: make(map[rune][]int, len(rw.M))}
	for key, names := range rw.M {
		cp, err := strconv.ParseInt(key, 10, 32)
		if err != nil {
			return nil, fmt.Errorf("M key %q: %w", key, err)
		}
		ids := make([]int, 0, len(names))
		for _, name := range names {
			id, ok := groupIdx[name]
			if !ok {
				return nil, fmt.Errorf("unknown group %q", name)
			}
			ids = append(ids, id)
		}
		w.M[rune(cp)] = ids
	}
	return w, nil
}

// computeValid unions all group codepoints and closes the set under NFD so
// that decomposed forms of valid characters tokenize as valid
func computeValid(groups []Group) Set {
	valid := make(Set, 1024)
	for _, g := range groups {
		for cp := range g.Primary {
			valid[cp] = struct{}{}
		}
		for cp := range g.Secondary {
			valid[cp] = struct{}{}
		}
	}
	var buf []rune
	for cp := range valid {
		buf = append(buf, cp)
	}
	for _, cp := range buf {
		for _, d := range []rune(norm.NFD.String(string(cp))) {
			valid[d] = struct{}{}
		}
	}
	return valid
}

func checkInvariants(s *Spec) error {
	for cp := range s.Mapped {
		if s.Valid.Has(cp) {
			return fmt.Errorf("specdata: %#x is both mapped and valid", cp)
		}
		if s.Ignored.Has(cp) {
			return fmt.Errorf("specdata: %#x is both mapped and ignored", cp)
		}
	}
	for cp := range s.Ignored {
		if s.Valid.Has(cp) {
			return fmt.Errorf("specdata: %#x is both ignored and valid", cp)
		}
	}
	for cp, img := range s.Mapped {
		for _, c := range img {
			// a mapped image may contain the stop; those images act as
			// label separators downstream
			if c != CPStop && !s.Valid.Has(c) {
				return fmt.Errorf("specdata: mapped image of %#x contains non-valid %#x", cp, c)
			}
		}
	}
	for cp, w := range s.Whole {
		if w.Confused {
			continue
		}
		ids, ok := w.M[cp]
		if !ok {
			return fmt.Errorf("specdata: whole_map[%#x] lacks an M entry for its own codepoint", cp)
		}
		for _, id := range ids {
			if id < 0 || id >= len(s.Groups) {
				return fmt.Errorf("specdata: whole_map[%#x] references group %d out of range", cp, id)
			}
		}
	}
	return nil
}

// Package matching ranks counterpart items for a lost or found report.
//
// Matching is exact: categories and locations are compared case-insensitively,
// tags are compared as normalized tokens. There is no fuzzy or semantic scoring.
package matching

import (
	"sort"
	"strings"
	"time"

	"LostFound/internal/model"
)

const (
	categoryWeight = 2
	locationWeight = 1
)

// OppositeType returns the item type a report is matched against.
func OppositeType(t model.ItemType) model.ItemType {
	if t == model.ItemLost {
		return model.ItemFound
	}
	return model.ItemLost
}

// NormalizeTags splits a comma or semicolon separated tag string into a set of
// trimmed lowercase tokens. A nil or blank string yields an empty set.
func NormalizeTags(s *string) map[string]struct{} {
	set := make(map[string]struct{})
	if s == nil {
		return set
	}
	fields := strings.FieldsFunc(*s, func(r rune) bool { return r == ',' || r == ';' })
	for _, f := range fields {
		tag := strings.ToLower(strings.TrimSpace(f))
		if tag != "" {
			set[tag] = struct{}{}
		}
	}
	return set
}

// Excluded reports whether candidate can never be offered as a match for source.
// Filters run in order: same item, already matched, not open, same poster.
func Excluded(source, candidate *model.Item) bool {
	switch {
	case candidate.ID == source.ID:
		return true
	case candidate.Matched:
		return true
	case candidate.Status != "" && candidate.Status != model.StatusOpen:
		return true
	case source.PostedByID != nil && candidate.PostedByUser(*source.PostedByID):
		return true
	}
	return false
}

// Score returns the match score of candidate against source. The second value
// is false when the candidate is excluded.
func Score(source, candidate *model.Item) (int, bool) {
	if Excluded(source, candidate) {
		return 0, false
	}
	return score(source, candidate, NormalizeTags(source.Tags)), true
}

func score(source, candidate *model.Item, sourceTags map[string]struct{}) int {
	total := 0
	if source.Category != nil && candidate.Category != nil &&
		strings.EqualFold(*source.Category, *candidate.Category) {
		total += categoryWeight
	}
	if source.Location != "" && candidate.Location != "" &&
		strings.EqualFold(source.Location, candidate.Location) {
		total += locationWeight
	}
	for tag := range NormalizeTags(candidate.Tags) {
		if _, ok := sourceTags[tag]; ok {
			total++
		}
	}
	return total
}

type scored struct {
	item     model.Item
	score    int
	reported time.Time
}

// Rank scores every candidate against source and returns the ones with a positive
// score, best first. Equal scores are ordered by report date, newest first; a
// missing report date sorts as the earliest instant. The sort is stable, so
// candidates equal on both keys keep their input order.
func Rank(source model.Item, candidates []model.Item) []model.Item {
	sourceTags := NormalizeTags(source.Tags)

	ranked := make([]scored, 0, len(candidates))
	for i := range candidates {
		c := &candidates[i]
		if Excluded(&source, c) {
			continue
		}
		s := score(&source, c, sourceTags)
		if s <= 0 {
			continue
		}
		var reported time.Time
		if c.DateReported != nil {
			reported = *c.DateReported
		}
		ranked = append(ranked, scored{item: *c, score: s, reported: reported})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].score != ranked[j].score {
			return ranked[i].score > ranked[j].score
		}
		return ranked[i].reported.After(ranked[j].reported)
	})

	out := make([]model.Item, len(ranked))
	for i, r := range ranked {
		out[i] = r.item
	}
	return out
}

package services

import "sort"

// RankEntry is one row of a per-alternative teacher ranking.
type RankEntry struct {
	TeacherID   string `json:"docente_id"`
	TeacherName string `json:"docente"`
	Count       int    `json:"cantidad"`
}

// RankTeachersByAlternative projects one alternative's column out of
// the matrix, drops zero-count teachers and sorts descending by count.
// The sort is stable on purpose: the matrix carries teachers in the
// resolver's name order, so ties keep that order rather than falling
// back to ids or timestamps.
func RankTeachersByAlternative(ct *CrossTab, alternativeID string) []RankEntry {
	out := make([]RankEntry, 0, len(ct.Teachers))
	for _, t := range ct.Teachers {
		n := ct.Counts[t.ID][alternativeID]
		if n <= 0 {
			continue
		}
		out = append(out, RankEntry{TeacherID: t.ID, TeacherName: t.Nombre, Count: n})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Count > out[j].Count })
	return out
}

// PairRankEntry is one row of the flat (teacher, alternative) ranking
// used by the individual-ranking report sheet.
type PairRankEntry struct {
	TeacherName     string  `json:"docente"`
	AlternativeText string  `json:"alternativa"`
	Count           int     `json:"cantidad"`
	Percent         float64 `json:"porcentaje"`
}

// RankAllPairs flattens the matrix into non-zero (teacher, alternative)
// rows sorted descending by count, each annotated with its share of the
// alternative's column total. Ties keep matrix order (teachers by name,
// alternatives by id).
func RankAllPairs(ct *CrossTab) []PairRankEntry {
	colTotals := make(map[string]int, len(ct.Alternatives))
	for _, a := range ct.Alternatives {
		colTotals[a.ID] = ct.ColumnTotal(a.ID)
	}
	out := []PairRankEntry{}
	for _, t := range ct.Teachers {
		for _, a := range ct.Alternatives {
			n := ct.Counts[t.ID][a.ID]
			if n <= 0 {
				continue
			}
			pct := 0.0
			if colTotals[a.ID] > 0 {
				pct = float64(n) / float64(colTotals[a.ID]) * 100
			}
			out = append(out, PairRankEntry{
				TeacherName:     t.Nombre,
				AlternativeText: a.Texto,
				Count:           n,
				Percent:         pct,
			})
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Count > out[j].Count })
	return out
}

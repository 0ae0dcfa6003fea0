package services

import "github.com/LiamFranKi/sistemas-encuestas-cursor/internal/models"

// CrossTab is a dense teacher × alternative count matrix. Every
// (teacher, alternative) pair in scope has a cell, zero-filled up
// front, so tables render with no missing columns and exports match
// the on-screen view cell for cell.
type CrossTab struct {
	Teachers     []*models.Teacher
	Alternatives []AlternativeOption
	Counts       map[string]map[string]int // teacherID -> alternativeID -> count
}

func newCrossTab(teachers []*models.Teacher, alternatives []AlternativeOption) *CrossTab {
	counts := make(map[string]map[string]int, len(teachers))
	for _, t := range teachers {
		row := make(map[string]int, len(alternatives))
		for _, a := range alternatives {
			row[a.ID] = 0
		}
		counts[t.ID] = row
	}
	return &CrossTab{
		Teachers:     append([]*models.Teacher(nil), teachers...),
		Alternatives: append([]AlternativeOption(nil), alternatives...),
		Counts:       counts,
	}
}

func (ct *CrossTab) accumulate(r *models.Response) {
	row, ok := ct.Counts[r.TeacherID]
	if !ok {
		return // teacher outside scope, likely deleted after the response landed
	}
	if _, ok := row[r.AlternativeID]; !ok {
		return // orphaned alternative reference
	}
	row[r.AlternativeID]++
}

// RowTotal sums one teacher's row.
func (ct *CrossTab) RowTotal(teacherID string) int {
	sum := 0
	for _, n := range ct.Counts[teacherID] {
		sum += n
	}
	return sum
}

// ColumnTotal sums one alternative's column across all teachers.
func (ct *CrossTab) ColumnTotal(alternativeID string) int {
	sum := 0
	for _, t := range ct.Teachers {
		sum += ct.Counts[t.ID][alternativeID]
	}
	return sum
}

// GrandTotal sums every cell.
func (ct *CrossTab) GrandTotal() int {
	sum := 0
	for _, t := range ct.Teachers {
		sum += ct.RowTotal(t.ID)
	}
	return sum
}

// CrossTabulate counts responses for one question into a dense matrix.
// Responses whose teacher or alternative falls outside the resolved
// lists are excluded rather than failing the whole tabulation.
func CrossTabulate(responses []*models.Response, questionID string, teachers []*models.Teacher, alternatives []AlternativeOption) *CrossTab {
	ct := newCrossTab(teachers, alternatives)
	for _, r := range responses {
		if r.QuestionID != questionID {
			continue
		}
		ct.accumulate(r)
	}
	return ct
}

// CrossTabulateAllQuestions accumulates every response in the set into
// one matrix regardless of question, feeding the grade-wide view.
func CrossTabulateAllQuestions(responses []*models.Response, teachers []*models.Teacher, alternatives []AlternativeOption) *CrossTab {
	ct := newCrossTab(teachers, alternatives)
	for _, r := range responses {
		ct.accumulate(r)
	}
	return ct
}

// CountByAlternative tallies responses for one question per alternative.
// The map is pre-initialized from the resolved alternative list, so
// zero-count options are present and orphaned alternative ids are
// silently skipped.
func CountByAlternative(responses []*models.Response, questionID string, alternatives []AlternativeOption) map[string]int {
	counts := make(map[string]int, len(alternatives))
	for _, a := range alternatives {
		counts[a.ID] = 0
	}
	for _, r := range responses {
		if r.QuestionID != questionID {
			continue
		}
		if _, ok := counts[r.AlternativeID]; !ok {
			continue
		}
		counts[r.AlternativeID]++
	}
	return counts
}

package services

import (
	"math"

	"github.com/LiamFranKi/sistemas-encuestas-cursor/internal/models"
)

// KPIBundle is the summary block shown on the statistics screens and
// exported verbatim. Field names match the legacy frontend contract.
type KPIBundle struct {
	TotalGrados     int `json:"totalGrados,omitempty"`
	TotalDocentes   int `json:"totalDocentes"`
	TotalPreguntas  int `json:"totalPreguntas"`
	TotalRespuestas int `json:"totalRespuestas"`
	Participantes   int `json:"participantes"`
}

// EstimateParticipants derives a participant count from raw response
// volume: each respondent is assumed to answer every question for every
// teacher who received at least one response in the scope. When either
// denominator factor is zero the estimate collapses to the raw response
// count. The heuristic skews under uneven per-teacher volume; it lives
// here as a named function so the policy can change without touching
// the aggregation code.
func EstimateParticipants(totalResponses, totalQuestions, teachersWithResponses int) int {
	den := totalQuestions * teachersWithResponses
	if den <= 0 {
		den = 1
	}
	return int(math.Round(float64(totalResponses) / float64(den)))
}

// DistinctTeachersWithResponses counts teacher ids that appear in at
// least one response of the set.
func DistinctTeachersWithResponses(responses []*models.Response) int {
	seen := map[string]bool{}
	for _, r := range responses {
		if r.TeacherID != "" && !seen[r.TeacherID] {
			seen[r.TeacherID] = true
		}
	}
	return len(seen)
}

// SurveyKPIs builds the KPI bundle for one survey from pre-resolved
// inputs. teachersEligible is the union of grade rosters, not the set
// of teachers with responses; zero-response teachers still count as
// eligible to be rated.
func SurveyKPIs(questions []*models.Question, teachersEligible []*models.Teacher, responses []*models.Response) KPIBundle {
	return KPIBundle{
		TotalDocentes:   len(teachersEligible),
		TotalPreguntas:  len(questions),
		TotalRespuestas: len(responses),
		Participantes:   EstimateParticipants(len(responses), len(questions), DistinctTeachersWithResponses(responses)),
	}
}

// GradeKPIs is the per-grade analogue of SurveyKPIs.
func GradeKPIs(questions []*models.Question, teachers []*models.Teacher, responses []*models.Response) KPIBundle {
	return KPIBundle{
		TotalDocentes:   len(teachers),
		TotalPreguntas:  len(questions),
		TotalRespuestas: len(responses),
		Participantes:   EstimateParticipants(len(responses), len(questions), DistinctTeachersWithResponses(responses)),
	}
}

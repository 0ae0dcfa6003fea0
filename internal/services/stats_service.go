package services

import (
	"sort"
	"strings"
	"time"

	"github.com/LiamFranKi/sistemas-encuestas-cursor/internal/models"
	"github.com/LiamFranKi/sistemas-encuestas-cursor/internal/platform/logger"
)

// StatsStore is the slice of the document store the statistics service
// reads. Everything is plain lists; the service does all derivation.
type StatsStore interface {
	ListGrades() ([]*models.Grade, error)
	ListTeachers() ([]*models.Teacher, error)
	ListSurveys() ([]*models.Survey, error)
	ListQuestions() ([]*models.Question, error)
	GetGrade(id string) (*models.Grade, error)
	GetSurvey(id string) (*models.Survey, error)
	ListResponses(f models.ResponseFilter) ([]*models.Response, error)
}

// StatsService computes every derived view: KPI bundles, per-survey and
// per-grade breakdowns, question distributions and the grade overview
// that feeds both the screens and the export sheets.
type StatsService struct {
	store    StatsStore
	resolver *ResolverService
	log      *logger.Logger
}

func NewStatsService(store StatsStore, resolver *ResolverService, log *logger.Logger) *StatsService {
	if log == nil {
		log = logger.Nop()
	}
	return &StatsService{store: store, resolver: resolver, log: log}
}

// SurveyStats is one survey's row in the per-survey breakdown.
type SurveyStats struct {
	SurveyID  string    `json:"encuesta_id"`
	Titulo    string    `json:"titulo"`
	Estado    string    `json:"estado"`
	CreatedAt time.Time `json:"createdAt"`
	KPIBundle
}

// GradeStats is one grade's row in the per-grade breakdown.
type GradeStats struct {
	GradeID string `json:"grado_id"`
	Nombre  string `json:"nombre"`
	Nivel   string `json:"nivel"`
	KPIBundle
}

// GradeOverview bundles everything the grade statistics screen shows:
// the KPI block, one distribution and cross-tab per question, the
// grade-wide matrix and the individual ranking derived from it.
type GradeOverview struct {
	Grade     *models.Grade     `json:"grado"`
	SurveyID  string            `json:"encuesta_id"`
	KPIs      KPIBundle         `json:"kpis"`
	Questions []*QuestionDetail `json:"preguntas"`
	Overall   *CrossTabView     `json:"general"`
	Ranking   []PairRankEntry   `json:"ranking"`
}

// QuestionDetail pairs one question's distribution with its teacher ×
// alternative matrix.
type QuestionDetail struct {
	QuestionID   string                `json:"pregunta_id"`
	QuestionText string                `json:"pregunta"`
	Distribution *QuestionDistribution `json:"distribucion"`
	CrossTab     *CrossTabView         `json:"tabla"`
}

// GeneralStats is the dashboard header: catalog counts plus the
// whole-system KPI bundle.
type GeneralStats struct {
	TotalEncuestas   int `json:"totalEncuestas"`
	EncuestasActivas int `json:"encuestasActivas"`
	KPIBundle
}

// General returns the whole-system totals across every survey.
func (s *StatsService) General() (GeneralStats, error) {
	grades, err := s.store.ListGrades()
	if err != nil {
		return GeneralStats{}, err
	}
	teachers, err := s.store.ListTeachers()
	if err != nil {
		return GeneralStats{}, err
	}
	questions, err := s.store.ListQuestions()
	if err != nil {
		return GeneralStats{}, err
	}
	surveys, err := s.store.ListSurveys()
	if err != nil {
		return GeneralStats{}, err
	}
	active := 0
	for _, sv := range surveys {
		if sv.Estado == models.EncuestaActiva {
			active++
		}
	}
	responses, err := s.store.ListResponses(models.ResponseFilter{})
	if err != nil {
		return GeneralStats{}, err
	}
	return GeneralStats{
		TotalEncuestas:   len(surveys),
		EncuestasActivas: active,
		KPIBundle: KPIBundle{
			TotalGrados:     len(grades),
			TotalDocentes:   len(teachers),
			TotalPreguntas:  len(questions),
			TotalRespuestas: len(responses),
			Participantes:   EstimateParticipants(len(responses), len(questions), DistinctTeachersWithResponses(responses)),
		},
	}, nil
}

// Survey returns the KPI row of a single survey, every count scoped to
// that survey's responses.
func (s *StatsService) Survey(surveyID string) (*SurveyStats, error) {
	if surveyID == "" {
		return nil, NewInvalidError("encuesta_id requerido")
	}
	sv, err := s.store.GetSurvey(surveyID)
	if err != nil {
		return nil, err
	}
	if sv == nil {
		return nil, NewNotFoundError("encuesta no encontrada")
	}
	questions, err := s.resolver.QuestionsOfSurvey(sv.ID)
	if err != nil {
		return nil, err
	}
	teachers, err := s.store.ListTeachers()
	if err != nil {
		return nil, err
	}
	responses, err := s.store.ListResponses(models.ResponseFilter{SurveyID: sv.ID})
	if err != nil {
		return nil, err
	}
	return &SurveyStats{
		SurveyID:  sv.ID,
		Titulo:    sv.Titulo,
		Estado:    sv.Estado,
		CreatedAt: sv.CreatedAt,
		KPIBundle: SurveyKPIs(questions, teachers, responses),
	}, nil
}

// BySurvey returns one KPI row per survey, newest first.
func (s *StatsService) BySurvey() ([]*SurveyStats, error) {
	surveys, err := s.store.ListSurveys()
	if err != nil {
		return nil, err
	}
	sort.SliceStable(surveys, func(i, j int) bool {
		return surveys[i].CreatedAt.After(surveys[j].CreatedAt)
	})
	teachers, err := s.store.ListTeachers()
	if err != nil {
		return nil, err
	}
	out := make([]*SurveyStats, 0, len(surveys))
	for _, sv := range surveys {
		questions, err := s.resolver.QuestionsOfSurvey(sv.ID)
		if err != nil {
			return nil, err
		}
		responses, err := s.store.ListResponses(models.ResponseFilter{SurveyID: sv.ID})
		if err != nil {
			return nil, err
		}
		out = append(out, &SurveyStats{
			SurveyID:  sv.ID,
			Titulo:    sv.Titulo,
			Estado:    sv.Estado,
			CreatedAt: sv.CreatedAt,
			KPIBundle: SurveyKPIs(questions, teachers, responses),
		})
	}
	return out, nil
}

// ByGrade returns one KPI row per grade for the given survey, ordered
// by nivel then nombre. With an empty surveyID responses of every
// survey count.
func (s *StatsService) ByGrade(surveyID string) ([]*GradeStats, error) {
	grades, err := s.store.ListGrades()
	if err != nil {
		return nil, err
	}
	sort.SliceStable(grades, func(i, j int) bool {
		if c := compareNivel(grades[i].Nivel, grades[j].Nivel); c != 0 {
			return c < 0
		}
		return strings.ToLower(grades[i].Nombre) < strings.ToLower(grades[j].Nombre)
	})
	questions, err := s.questionScope(surveyID)
	if err != nil {
		return nil, err
	}
	out := make([]*GradeStats, 0, len(grades))
	for _, g := range grades {
		teachers, err := s.resolver.TeachersOfGrade(g.ID)
		if err != nil {
			return nil, err
		}
		responses, err := s.store.ListResponses(models.ResponseFilter{SurveyID: surveyID, GradeID: g.ID})
		if err != nil {
			return nil, err
		}
		out = append(out, &GradeStats{
			GradeID:   g.ID,
			Nombre:    g.Nombre,
			Nivel:     g.Nivel,
			KPIBundle: GradeKPIs(questions, teachers, responses),
		})
	}
	return out, nil
}

// ByQuestion returns the per-question answer distributions of one
// survey, in the survey's question order.
func (s *StatsService) ByQuestion(surveyID string) ([]*QuestionDistribution, error) {
	if surveyID == "" {
		return nil, NewInvalidError("encuesta_id requerido")
	}
	questions, err := s.resolver.QuestionsOfSurvey(surveyID)
	if err != nil {
		return nil, err
	}
	responses, err := s.store.ListResponses(models.ResponseFilter{SurveyID: surveyID})
	if err != nil {
		return nil, err
	}
	out := make([]*QuestionDistribution, 0, len(questions))
	for _, q := range questions {
		alts, err := s.resolver.AlternativesOfQuestion(q.ID)
		if err != nil {
			return nil, err
		}
		counts := CountByAlternative(responses, q.ID, alts)
		out = append(out, BuildQuestionDistribution(q, alts, counts))
	}
	return out, nil
}

// Overview assembles the full statistics package for one grade under
// one survey. An unknown grade is an error; a grade with no responses
// yields zero-filled tables, never missing ones.
func (s *StatsService) Overview(gradeID, surveyID string) (*GradeOverview, error) {
	if gradeID == "" {
		return nil, NewInvalidError("grado_id requerido")
	}
	if surveyID == "" {
		return nil, NewInvalidError("encuesta_id requerido")
	}
	grade, err := s.store.GetGrade(gradeID)
	if err != nil {
		return nil, err
	}
	if grade == nil {
		return nil, NewNotFoundError("grado no encontrado")
	}
	if sv, err := s.store.GetSurvey(surveyID); err != nil {
		return nil, err
	} else if sv == nil {
		return nil, NewNotFoundError("encuesta no encontrada")
	}
	teachers, err := s.resolver.TeachersOfGrade(gradeID)
	if err != nil {
		return nil, err
	}
	questions, err := s.resolver.QuestionsOfSurvey(surveyID)
	if err != nil {
		return nil, err
	}
	responses, err := s.store.ListResponses(models.ResponseFilter{SurveyID: surveyID, GradeID: gradeID})
	if err != nil {
		return nil, err
	}

	details := make([]*QuestionDetail, 0, len(questions))
	altUnion := []AlternativeOption{}
	seenAlt := map[string]bool{}
	for _, q := range questions {
		alts, err := s.resolver.AlternativesOfQuestion(q.ID)
		if err != nil {
			return nil, err
		}
		for _, a := range alts {
			if !seenAlt[a.ID] {
				seenAlt[a.ID] = true
				altUnion = append(altUnion, a)
			}
		}
		ct := CrossTabulate(responses, q.ID, teachers, alts)
		counts := CountByAlternative(responses, q.ID, alts)
		details = append(details, &QuestionDetail{
			QuestionID:   q.ID,
			QuestionText: q.Texto,
			Distribution: BuildQuestionDistribution(q, alts, counts),
			CrossTab:     BuildCrossTabView(ct),
		})
	}
	sort.Slice(altUnion, func(i, j int) bool { return altUnion[i].ID < altUnion[j].ID })

	overall := CrossTabulateAllQuestions(responses, teachers, altUnion)
	return &GradeOverview{
		Grade:     grade,
		SurveyID:  surveyID,
		KPIs:      GradeKPIs(questions, teachers, responses),
		Questions: details,
		Overall:   BuildCrossTabView(overall),
		Ranking:   RankAllPairs(overall),
	}, nil
}

// questionScope resolves the question set a KPI row is measured
// against: the survey's questions when scoped, every question when not.
func (s *StatsService) questionScope(surveyID string) ([]*models.Question, error) {
	if surveyID == "" {
		return s.store.ListQuestions()
	}
	return s.resolver.QuestionsOfSurvey(surveyID)
}

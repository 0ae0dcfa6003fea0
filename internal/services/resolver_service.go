package services

import (
	"sort"
	"strings"

	"github.com/LiamFranKi/sistemas-encuestas-cursor/internal/models"
	"github.com/LiamFranKi/sistemas-encuestas-cursor/internal/platform/logger"
)

// RelationStore is the slice of the document store the resolver reads.
type RelationStore interface {
	ListGradeTeacherLinks(gradeID string) ([]*models.GradeTeacherLink, error)
	GetTeacher(id string) (*models.Teacher, error)
	ListSurveyQuestionLinks(surveyID string) ([]*models.SurveyQuestionLink, error)
	GetQuestion(id string) (*models.Question, error)
	ListQuestionAlternativeLinks(questionID string) ([]*models.QuestionAlternativeLink, error)
	GetAlternative(id string) (*models.Alternative, error)
}

// ResolverService turns many-to-many link collections into concrete
// entity lists with a stable order. Downstream aggregation depends on
// that order for deterministic tables and rankings.
type ResolverService struct {
	store RelationStore
	log   *logger.Logger
}

func NewResolverService(store RelationStore, log *logger.Logger) *ResolverService {
	if log == nil {
		log = logger.Nop()
	}
	return &ResolverService{store: store, log: log}
}

// TeachersOfGrade returns the grade's teachers sorted by name (ties by
// id). Links pointing at deleted teachers are dropped with a warning;
// an unknown grade id yields an empty list.
func (s *ResolverService) TeachersOfGrade(gradeID string) ([]*models.Teacher, error) {
	if gradeID == "" {
		return []*models.Teacher{}, nil
	}
	links, err := s.store.ListGradeTeacherLinks(gradeID)
	if err != nil {
		return nil, err
	}
	seen := map[string]bool{}
	out := make([]*models.Teacher, 0, len(links))
	for _, l := range links {
		if l.TeacherID == "" || seen[l.TeacherID] {
			continue
		}
		seen[l.TeacherID] = true
		t, err := s.store.GetTeacher(l.TeacherID)
		if err != nil {
			return nil, err
		}
		if t == nil {
			s.log.Warn("grade link references missing teacher", "grado_id", gradeID, "docente_id", l.TeacherID)
			continue
		}
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool {
		ni, nj := strings.ToLower(out[i].Nombre), strings.ToLower(out[j].Nombre)
		if ni != nj {
			return ni < nj
		}
		// Names that fold to the same string still need a total order.
		return out[i].ID < out[j].ID
	})
	return out, nil
}

// QuestionsOfSurvey returns the survey's questions ordered by the link
// Orden field, then by id.
func (s *ResolverService) QuestionsOfSurvey(surveyID string) ([]*models.Question, error) {
	if surveyID == "" {
		return []*models.Question{}, nil
	}
	links, err := s.store.ListSurveyQuestionLinks(surveyID)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(links, func(i, j int) bool {
		if links[i].Orden != links[j].Orden {
			return links[i].Orden < links[j].Orden
		}
		return links[i].QuestionID < links[j].QuestionID
	})
	seen := map[string]bool{}
	out := make([]*models.Question, 0, len(links))
	for _, l := range links {
		if l.QuestionID == "" || seen[l.QuestionID] {
			continue
		}
		seen[l.QuestionID] = true
		q, err := s.store.GetQuestion(l.QuestionID)
		if err != nil {
			return nil, err
		}
		if q == nil {
			s.log.Warn("survey link references missing question", "encuesta_id", surveyID, "pregunta_id", l.QuestionID)
			continue
		}
		out = append(out, q)
	}
	return out, nil
}

// AlternativesOfQuestion resolves the question's answer options sorted
// by alternative id. Display text follows the fallback chain: text
// cached on the link, then the alternative entity's text, then the raw
// id, so no option ever renders with an empty label.
func (s *ResolverService) AlternativesOfQuestion(questionID string) ([]AlternativeOption, error) {
	if questionID == "" {
		return []AlternativeOption{}, nil
	}
	links, err := s.store.ListQuestionAlternativeLinks(questionID)
	if err != nil {
		return nil, err
	}
	seen := map[string]bool{}
	out := make([]AlternativeOption, 0, len(links))
	for _, l := range links {
		if l.AlternativeID == "" || seen[l.AlternativeID] {
			continue
		}
		seen[l.AlternativeID] = true
		text := l.Texto
		if text == "" {
			alt, err := s.store.GetAlternative(l.AlternativeID)
			if err != nil {
				return nil, err
			}
			if alt != nil {
				text = alt.Texto
			}
		}
		if text == "" {
			text = l.AlternativeID
		}
		out = append(out, AlternativeOption{ID: l.AlternativeID, Texto: text})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

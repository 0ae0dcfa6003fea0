package services

import (
	"time"

	"github.com/LiamFranKi/sistemas-encuestas-cursor/internal/models"
	"github.com/LiamFranKi/sistemas-encuestas-cursor/internal/platform/logger"
)

// ResponseStore is the slice of the document store behind submissions.
type ResponseStore interface {
	GetSurvey(id string) (*models.Survey, error)
	GetGrade(id string) (*models.Grade, error)
	AddResponses(rs []*models.Response) error
	ListResponses(f models.ResponseFilter) ([]*models.Response, error)
}

// ResponseService accepts anonymous submissions. A respondent answers
// one question for every teacher of their grade at a time; each call
// commits that page as one atomic batch.
type ResponseService struct {
	store    ResponseStore
	resolver *ResolverService
	log      *logger.Logger
	now      func() time.Time
	newID    func() string
}

func NewResponseService(store ResponseStore, resolver *ResolverService, log *logger.Logger) *ResponseService {
	if log == nil {
		log = logger.Nop()
	}
	return &ResponseService{
		store:    store,
		resolver: resolver,
		log:      log,
		now:      func() time.Time { return time.Now().UTC() },
		newID:    NewID,
	}
}

// SubmitInput is one question page: the chosen alternative per teacher.
type SubmitInput struct {
	SurveyID   string            `json:"encuesta_id" validate:"required"`
	GradeID    string            `json:"grado_id" validate:"required"`
	QuestionID string            `json:"pregunta_id" validate:"required"`
	Answers    map[string]string `json:"respuestas" validate:"required,min=1"`
}

// Submit validates the page against the live relations and stores one
// response per teacher. The batch is all-or-nothing; a single bad
// teacher or alternative id rejects the whole page.
func (s *ResponseService) Submit(in SubmitInput) ([]*models.Response, error) {
	if in.SurveyID == "" {
		return nil, NewInvalidError("encuesta_id requerido")
	}
	if in.GradeID == "" {
		return nil, NewInvalidError("grado_id requerido")
	}
	if in.QuestionID == "" {
		return nil, NewInvalidError("pregunta_id requerido")
	}
	if len(in.Answers) == 0 {
		return nil, NewInvalidError("respuestas requeridas")
	}

	sv, err := s.store.GetSurvey(in.SurveyID)
	if err != nil {
		return nil, err
	}
	if sv == nil {
		return nil, NewNotFoundError("encuesta no encontrada")
	}
	if sv.Estado != models.EncuestaActiva {
		return nil, NewConflictError("la encuesta no está activa")
	}
	g, err := s.store.GetGrade(in.GradeID)
	if err != nil {
		return nil, err
	}
	if g == nil {
		return nil, NewNotFoundError("grado no encontrado")
	}

	questions, err := s.resolver.QuestionsOfSurvey(in.SurveyID)
	if err != nil {
		return nil, err
	}
	inSurvey := false
	for _, q := range questions {
		if q.ID == in.QuestionID {
			inSurvey = true
			break
		}
	}
	if !inSurvey {
		return nil, NewInvalidError("la pregunta no pertenece a la encuesta")
	}

	roster, err := s.resolver.TeachersOfGrade(in.GradeID)
	if err != nil {
		return nil, err
	}
	inGrade := map[string]bool{}
	for _, t := range roster {
		inGrade[t.ID] = true
	}
	alts, err := s.resolver.AlternativesOfQuestion(in.QuestionID)
	if err != nil {
		return nil, err
	}
	validAlt := map[string]bool{}
	for _, a := range alts {
		validAlt[a.ID] = true
	}

	// Teachers in roster order so the stored batch is deterministic.
	batch := make([]*models.Response, 0, len(in.Answers))
	answered := 0
	for _, t := range roster {
		altID, ok := in.Answers[t.ID]
		if !ok {
			continue
		}
		answered++
		if !validAlt[altID] {
			return nil, NewInvalidError("alternativa inválida para la pregunta: " + altID)
		}
		batch = append(batch, &models.Response{
			ID:            s.newID(),
			SurveyID:      in.SurveyID,
			GradeID:       in.GradeID,
			QuestionID:    in.QuestionID,
			TeacherID:     t.ID,
			AlternativeID: altID,
			Timestamp:     s.now(),
		})
	}
	if answered != len(in.Answers) {
		return nil, NewInvalidError("respuestas incluyen docentes fuera del grado")
	}

	if err := s.store.AddResponses(batch); err != nil {
		return nil, err
	}
	s.log.Info("responses stored",
		"encuesta_id", in.SurveyID,
		"grado_id", in.GradeID,
		"pregunta_id", in.QuestionID,
		"cantidad", len(batch),
	)
	return batch, nil
}

// List returns the raw responses matching the filter.
func (s *ResponseService) List(f models.ResponseFilter) ([]*models.Response, error) {
	return s.store.ListResponses(f)
}

package services

import (
	"sort"
	"strings"
	"time"

	"github.com/LiamFranKi/sistemas-encuestas-cursor/internal/models"
	"github.com/LiamFranKi/sistemas-encuestas-cursor/internal/platform/logger"
)

// SurveyStore is the slice of the document store behind surveys.
type SurveyStore interface {
	AddSurvey(sv *models.Survey) error
	UpdateSurvey(sv *models.Survey) error
	DeleteSurvey(id string) error
	GetSurvey(id string) (*models.Survey, error)
	ListSurveys() ([]*models.Survey, error)
	ListSurveysByEstado(estado string) ([]*models.Survey, error)
}

// SurveyService manages surveys and the single-active invariant:
// activating one survey deactivates every other.
type SurveyService struct {
	store SurveyStore
	log   *logger.Logger
	now   func() time.Time
	newID func() string
}

func NewSurveyService(store SurveyStore, log *logger.Logger) *SurveyService {
	if log == nil {
		log = logger.Nop()
	}
	return &SurveyService{
		store: store,
		log:   log,
		now:   func() time.Time { return time.Now().UTC() },
		newID: NewID,
	}
}

// SurveyInput carries the writable survey fields.
type SurveyInput struct {
	Titulo      string `json:"titulo" validate:"required"`
	Descripcion string `json:"descripcion"`
}

// Create stores a new survey. Surveys start inactive; Activate is the
// only way to make one live.
func (s *SurveyService) Create(in SurveyInput) (*models.Survey, error) {
	if strings.TrimSpace(in.Titulo) == "" {
		return nil, NewInvalidError("titulo requerido")
	}
	sv := &models.Survey{
		ID:          s.newID(),
		Titulo:      strings.TrimSpace(in.Titulo),
		Descripcion: strings.TrimSpace(in.Descripcion),
		Estado:      models.EncuestaInactiva,
		CreatedAt:   s.now(),
	}
	if err := s.store.AddSurvey(sv); err != nil {
		return nil, err
	}
	return sv, nil
}

func (s *SurveyService) Update(id string, in SurveyInput) (*models.Survey, error) {
	sv, err := s.store.GetSurvey(id)
	if err != nil {
		return nil, err
	}
	if sv == nil {
		return nil, NewNotFoundError("encuesta no encontrada")
	}
	if v := strings.TrimSpace(in.Titulo); v != "" {
		sv.Titulo = v
	}
	if in.Descripcion != "" {
		sv.Descripcion = strings.TrimSpace(in.Descripcion)
	}
	if err := s.store.UpdateSurvey(sv); err != nil {
		return nil, err
	}
	return sv, nil
}

func (s *SurveyService) Delete(id string) error {
	sv, err := s.store.GetSurvey(id)
	if err != nil {
		return err
	}
	if sv == nil {
		return NewNotFoundError("encuesta no encontrada")
	}
	return s.store.DeleteSurvey(id)
}

func (s *SurveyService) Get(id string) (*models.Survey, error) {
	sv, err := s.store.GetSurvey(id)
	if err != nil {
		return nil, err
	}
	if sv == nil {
		return nil, NewNotFoundError("encuesta no encontrada")
	}
	return sv, nil
}

// List returns every survey, newest first.
func (s *SurveyService) List() ([]*models.Survey, error) {
	surveys, err := s.store.ListSurveys()
	if err != nil {
		return nil, err
	}
	sort.SliceStable(surveys, func(i, j int) bool {
		return surveys[i].CreatedAt.After(surveys[j].CreatedAt)
	})
	return surveys, nil
}

// Activate makes the survey the live one: every other active survey is
// deactivated first, then the target flips to activa. Activating the
// already-active survey is a no-op.
func (s *SurveyService) Activate(id string) (*models.Survey, error) {
	sv, err := s.store.GetSurvey(id)
	if err != nil {
		return nil, err
	}
	if sv == nil {
		return nil, NewNotFoundError("encuesta no encontrada")
	}
	active, err := s.store.ListSurveysByEstado(models.EncuestaActiva)
	if err != nil {
		return nil, err
	}
	alreadyActive := false
	for _, other := range active {
		if other.ID == id {
			alreadyActive = true
			continue
		}
		other.Estado = models.EncuestaInactiva
		if err := s.store.UpdateSurvey(other); err != nil {
			return nil, err
		}
		s.log.Info("survey deactivated", "encuesta_id", other.ID)
	}
	if alreadyActive {
		return sv, nil
	}
	sv.Estado = models.EncuestaActiva
	if err := s.store.UpdateSurvey(sv); err != nil {
		return nil, err
	}
	s.log.Info("survey activated", "encuesta_id", sv.ID)
	return sv, nil
}

// Deactivate flips the survey to inactiva, leaving no live survey.
func (s *SurveyService) Deactivate(id string) (*models.Survey, error) {
	sv, err := s.store.GetSurvey(id)
	if err != nil {
		return nil, err
	}
	if sv == nil {
		return nil, NewNotFoundError("encuesta no encontrada")
	}
	if sv.Estado != models.EncuestaInactiva {
		sv.Estado = models.EncuestaInactiva
		if err := s.store.UpdateSurvey(sv); err != nil {
			return nil, err
		}
	}
	return sv, nil
}

// Active returns the live survey, or nil when none is active. Should
// the store ever hold several active surveys at once, the newest wins
// and the anomaly is logged rather than surfaced to respondents.
func (s *SurveyService) Active() (*models.Survey, error) {
	active, err := s.store.ListSurveysByEstado(models.EncuestaActiva)
	if err != nil {
		return nil, err
	}
	if len(active) == 0 {
		return nil, nil
	}
	if len(active) > 1 {
		s.log.Warn("multiple active surveys found", "cantidad", len(active))
		sort.SliceStable(active, func(i, j int) bool {
			return active[i].CreatedAt.After(active[j].CreatedAt)
		})
	}
	return active[0], nil
}

package services

import (
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/LiamFranKi/sistemas-encuestas-cursor/internal/models"
	"github.com/LiamFranKi/sistemas-encuestas-cursor/internal/platform/logger"
)

// compareNivel orders grade levels numerically when both parse as
// numbers, so "10" sorts after "2"; mixed or textual levels fall back
// to a plain string compare.
func compareNivel(a, b string) int {
	na, errA := strconv.Atoi(strings.TrimSpace(a))
	nb, errB := strconv.Atoi(strings.TrimSpace(b))
	if errA == nil && errB == nil {
		switch {
		case na < nb:
			return -1
		case na > nb:
			return 1
		}
		return 0
	}
	return strings.Compare(a, b)
}

// SchoolStore is the slice of the document store behind the catalog:
// grades, teachers, questions, alternatives and their link collections.
type SchoolStore interface {
	AddGrade(g *models.Grade) error
	UpdateGrade(g *models.Grade) error
	DeleteGrade(id string) error
	GetGrade(id string) (*models.Grade, error)
	ListGrades() ([]*models.Grade, error)

	AddTeacher(t *models.Teacher) error
	UpdateTeacher(t *models.Teacher) error
	DeleteTeacher(id string) error
	GetTeacher(id string) (*models.Teacher, error)
	ListTeachers() ([]*models.Teacher, error)

	AddQuestion(q *models.Question) error
	UpdateQuestion(q *models.Question) error
	DeleteQuestion(id string) error
	GetQuestion(id string) (*models.Question, error)
	ListQuestions() ([]*models.Question, error)

	AddAlternative(a *models.Alternative) error
	UpdateAlternative(a *models.Alternative) error
	DeleteAlternative(id string) error
	GetAlternative(id string) (*models.Alternative, error)
	ListAlternatives() ([]*models.Alternative, error)

	ListGradeTeacherLinks(gradeID string) ([]*models.GradeTeacherLink, error)
	ApplyGradeTeacherDiff(gradeID string, add []*models.GradeTeacherLink, removeTeacherIDs []string) error

	GetSurvey(id string) (*models.Survey, error)
	ListSurveyQuestionLinks(surveyID string) ([]*models.SurveyQuestionLink, error)
	ApplySurveyQuestionDiff(surveyID string, add []*models.SurveyQuestionLink, removeQuestionIDs []string) error

	ListQuestionAlternativeLinks(questionID string) ([]*models.QuestionAlternativeLink, error)
	ApplyQuestionAlternativeDiff(questionID string, add []*models.QuestionAlternativeLink, removeAlternativeIDs []string) error
}

// SchoolService manages the catalog entities and the wholesale
// replacement of their link sets. Replacement is diff-based: only the
// links that actually change are written, so untouched links keep their
// ids and timestamps.
type SchoolService struct {
	store SchoolStore
	log   *logger.Logger
	now   func() time.Time
	newID func() string
}

func NewSchoolService(store SchoolStore, log *logger.Logger) *SchoolService {
	if log == nil {
		log = logger.Nop()
	}
	return &SchoolService{
		store: store,
		log:   log,
		now:   func() time.Time { return time.Now().UTC() },
		newID: NewID,
	}
}

// GradeInput carries the writable grade fields.
type GradeInput struct {
	Nombre string `json:"nombre" validate:"required"`
	Nivel  string `json:"nivel" validate:"required"`
	Estado string `json:"estado" validate:"omitempty,oneof=activo inactivo"`
}

func (s *SchoolService) CreateGrade(in GradeInput) (*models.Grade, error) {
	if strings.TrimSpace(in.Nombre) == "" {
		return nil, NewInvalidError("nombre requerido")
	}
	if strings.TrimSpace(in.Nivel) == "" {
		return nil, NewInvalidError("nivel requerido")
	}
	estado, err := defaultEstado(in.Estado)
	if err != nil {
		return nil, err
	}
	g := &models.Grade{
		ID:        s.newID(),
		Nombre:    strings.TrimSpace(in.Nombre),
		Nivel:     strings.TrimSpace(in.Nivel),
		Estado:    estado,
		CreatedAt: s.now(),
	}
	if err := s.store.AddGrade(g); err != nil {
		return nil, err
	}
	return g, nil
}

func (s *SchoolService) UpdateGrade(id string, in GradeInput) (*models.Grade, error) {
	g, err := s.store.GetGrade(id)
	if err != nil {
		return nil, err
	}
	if g == nil {
		return nil, NewNotFoundError("grado no encontrado")
	}
	if v := strings.TrimSpace(in.Nombre); v != "" {
		g.Nombre = v
	}
	if v := strings.TrimSpace(in.Nivel); v != "" {
		g.Nivel = v
	}
	if in.Estado != "" {
		if in.Estado != models.EstadoActivo && in.Estado != models.EstadoInactivo {
			return nil, NewInvalidError("estado inválido")
		}
		g.Estado = in.Estado
	}
	if err := s.store.UpdateGrade(g); err != nil {
		return nil, err
	}
	return g, nil
}

// DeleteGrade removes the grade together with its teacher links. The
// grade's responses stay; statistics treat them as out of scope once
// the grade is gone.
func (s *SchoolService) DeleteGrade(id string) error {
	g, err := s.store.GetGrade(id)
	if err != nil {
		return err
	}
	if g == nil {
		return NewNotFoundError("grado no encontrado")
	}
	return s.store.DeleteGrade(id)
}

func (s *SchoolService) GetGrade(id string) (*models.Grade, error) {
	g, err := s.store.GetGrade(id)
	if err != nil {
		return nil, err
	}
	if g == nil {
		return nil, NewNotFoundError("grado no encontrado")
	}
	return g, nil
}

// ListGrades returns every grade ordered by nivel then nombre, the
// order every screen and report uses.
func (s *SchoolService) ListGrades() ([]*models.Grade, error) {
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
	return grades, nil
}

// TeacherInput carries the writable teacher fields.
type TeacherInput struct {
	Nombre       string `json:"nombre" validate:"required"`
	Especialidad string `json:"especialidad"`
	Estado       string `json:"estado" validate:"omitempty,oneof=activo inactivo"`
}

func (s *SchoolService) CreateTeacher(in TeacherInput) (*models.Teacher, error) {
	if strings.TrimSpace(in.Nombre) == "" {
		return nil, NewInvalidError("nombre requerido")
	}
	estado, err := defaultEstado(in.Estado)
	if err != nil {
		return nil, err
	}
	t := &models.Teacher{
		ID:           s.newID(),
		Nombre:       strings.TrimSpace(in.Nombre),
		Especialidad: strings.TrimSpace(in.Especialidad),
		Estado:       estado,
		CreatedAt:    s.now(),
	}
	if err := s.store.AddTeacher(t); err != nil {
		return nil, err
	}
	return t, nil
}

func (s *SchoolService) UpdateTeacher(id string, in TeacherInput) (*models.Teacher, error) {
	t, err := s.store.GetTeacher(id)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, NewNotFoundError("docente no encontrado")
	}
	if v := strings.TrimSpace(in.Nombre); v != "" {
		t.Nombre = v
	}
	if in.Especialidad != "" {
		t.Especialidad = strings.TrimSpace(in.Especialidad)
	}
	if in.Estado != "" {
		if in.Estado != models.EstadoActivo && in.Estado != models.EstadoInactivo {
			return nil, NewInvalidError("estado inválido")
		}
		t.Estado = in.Estado
	}
	if err := s.store.UpdateTeacher(t); err != nil {
		return nil, err
	}
	return t, nil
}

func (s *SchoolService) DeleteTeacher(id string) error {
	t, err := s.store.GetTeacher(id)
	if err != nil {
		return err
	}
	if t == nil {
		return NewNotFoundError("docente no encontrado")
	}
	return s.store.DeleteTeacher(id)
}

// ListTeachers returns every teacher sorted by name.
func (s *SchoolService) ListTeachers() ([]*models.Teacher, error) {
	teachers, err := s.store.ListTeachers()
	if err != nil {
		return nil, err
	}
	sort.SliceStable(teachers, func(i, j int) bool {
		return strings.ToLower(teachers[i].Nombre) < strings.ToLower(teachers[j].Nombre)
	})
	return teachers, nil
}

// QuestionInput carries the writable question fields.
type QuestionInput struct {
	Texto  string `json:"texto_pregunta" validate:"required"`
	Tipo   string `json:"tipo"`
	Estado string `json:"estado" validate:"omitempty,oneof=activo inactivo"`
}

func (s *SchoolService) CreateQuestion(in QuestionInput) (*models.Question, error) {
	if strings.TrimSpace(in.Texto) == "" {
		return nil, NewInvalidError("texto_pregunta requerido")
	}
	estado, err := defaultEstado(in.Estado)
	if err != nil {
		return nil, err
	}
	q := &models.Question{
		ID:        s.newID(),
		Texto:     strings.TrimSpace(in.Texto),
		Tipo:      strings.TrimSpace(in.Tipo),
		Estado:    estado,
		CreatedAt: s.now(),
	}
	if err := s.store.AddQuestion(q); err != nil {
		return nil, err
	}
	return q, nil
}

func (s *SchoolService) UpdateQuestion(id string, in QuestionInput) (*models.Question, error) {
	q, err := s.store.GetQuestion(id)
	if err != nil {
		return nil, err
	}
	if q == nil {
		return nil, NewNotFoundError("pregunta no encontrada")
	}
	if v := strings.TrimSpace(in.Texto); v != "" {
		q.Texto = v
	}
	if in.Tipo != "" {
		q.Tipo = strings.TrimSpace(in.Tipo)
	}
	if in.Estado != "" {
		if in.Estado != models.EstadoActivo && in.Estado != models.EstadoInactivo {
			return nil, NewInvalidError("estado inválido")
		}
		q.Estado = in.Estado
	}
	if err := s.store.UpdateQuestion(q); err != nil {
		return nil, err
	}
	return q, nil
}

func (s *SchoolService) DeleteQuestion(id string) error {
	q, err := s.store.GetQuestion(id)
	if err != nil {
		return err
	}
	if q == nil {
		return NewNotFoundError("pregunta no encontrada")
	}
	return s.store.DeleteQuestion(id)
}

func (s *SchoolService) ListQuestions() ([]*models.Question, error) {
	return s.store.ListQuestions()
}

// AlternativeInput carries the writable alternative fields.
type AlternativeInput struct {
	Texto  string `json:"texto" validate:"required"`
	Estado string `json:"estado" validate:"omitempty,oneof=activo inactivo"`
}

func (s *SchoolService) CreateAlternative(in AlternativeInput) (*models.Alternative, error) {
	if strings.TrimSpace(in.Texto) == "" {
		return nil, NewInvalidError("texto requerido")
	}
	estado, err := defaultEstado(in.Estado)
	if err != nil {
		return nil, err
	}
	a := &models.Alternative{
		ID:        s.newID(),
		Texto:     strings.TrimSpace(in.Texto),
		Estado:    estado,
		CreatedAt: s.now(),
	}
	if err := s.store.AddAlternative(a); err != nil {
		return nil, err
	}
	return a, nil
}

func (s *SchoolService) UpdateAlternative(id string, in AlternativeInput) (*models.Alternative, error) {
	a, err := s.store.GetAlternative(id)
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, NewNotFoundError("alternativa no encontrada")
	}
	if v := strings.TrimSpace(in.Texto); v != "" {
		a.Texto = v
	}
	if in.Estado != "" {
		if in.Estado != models.EstadoActivo && in.Estado != models.EstadoInactivo {
			return nil, NewInvalidError("estado inválido")
		}
		a.Estado = in.Estado
	}
	if err := s.store.UpdateAlternative(a); err != nil {
		return nil, err
	}
	return a, nil
}

func (s *SchoolService) DeleteAlternative(id string) error {
	a, err := s.store.GetAlternative(id)
	if err != nil {
		return err
	}
	if a == nil {
		return NewNotFoundError("alternativa no encontrada")
	}
	return s.store.DeleteAlternative(id)
}

func (s *SchoolService) ListAlternatives() ([]*models.Alternative, error) {
	return s.store.ListAlternatives()
}

// ReplaceGradeTeachers makes teacherIDs the grade's exact roster. The
// diff against the current links is applied in one batch, so readers
// never observe a half-replaced roster.
func (s *SchoolService) ReplaceGradeTeachers(gradeID string, teacherIDs []string) error {
	g, err := s.store.GetGrade(gradeID)
	if err != nil {
		return err
	}
	if g == nil {
		return NewNotFoundError("grado no encontrado")
	}
	desired, err := s.dedupeExisting(teacherIDs, func(id string) (bool, error) {
		t, err := s.store.GetTeacher(id)
		return t != nil, err
	}, "docente no encontrado: ")
	if err != nil {
		return err
	}
	current, err := s.store.ListGradeTeacherLinks(gradeID)
	if err != nil {
		return err
	}
	have := map[string]bool{}
	for _, l := range current {
		have[l.TeacherID] = true
	}
	want := map[string]bool{}
	for _, id := range desired {
		want[id] = true
	}

	add := []*models.GradeTeacherLink{}
	for _, id := range desired {
		if !have[id] {
			add = append(add, &models.GradeTeacherLink{
				ID:        s.newID(),
				GradeID:   gradeID,
				TeacherID: id,
				CreatedAt: s.now(),
			})
		}
	}
	remove := []string{}
	for _, l := range current {
		if !want[l.TeacherID] {
			remove = append(remove, l.TeacherID)
		}
	}
	if len(add) == 0 && len(remove) == 0 {
		return nil
	}
	s.log.Info("replacing grade roster", "grado_id", gradeID, "agregar", len(add), "quitar", len(remove))
	return s.store.ApplyGradeTeacherDiff(gradeID, add, remove)
}

// ReplaceSurveyQuestions makes questionIDs the survey's exact question
// set, in the given order. Orden is rewritten from the slice position;
// links that only change position are replaced.
func (s *SchoolService) ReplaceSurveyQuestions(surveyID string, questionIDs []string) error {
	sv, err := s.store.GetSurvey(surveyID)
	if err != nil {
		return err
	}
	if sv == nil {
		return NewNotFoundError("encuesta no encontrada")
	}
	desired, err := s.dedupeExisting(questionIDs, func(id string) (bool, error) {
		q, err := s.store.GetQuestion(id)
		return q != nil, err
	}, "pregunta no encontrada: ")
	if err != nil {
		return err
	}
	current, err := s.store.ListSurveyQuestionLinks(surveyID)
	if err != nil {
		return err
	}
	orden := map[string]int{}
	for _, l := range current {
		orden[l.QuestionID] = l.Orden
	}
	want := map[string]int{}
	for i, id := range desired {
		want[id] = i + 1
	}

	add := []*models.SurveyQuestionLink{}
	remove := []string{}
	for id, pos := range want {
		if old, ok := orden[id]; !ok || old != pos {
			add = append(add, &models.SurveyQuestionLink{
				ID:         s.newID(),
				SurveyID:   surveyID,
				QuestionID: id,
				Orden:      pos,
				CreatedAt:  s.now(),
			})
			if ok {
				remove = append(remove, id)
			}
		}
	}
	for _, l := range current {
		if _, ok := want[l.QuestionID]; !ok {
			remove = append(remove, l.QuestionID)
		}
	}
	if len(add) == 0 && len(remove) == 0 {
		return nil
	}
	sort.SliceStable(add, func(i, j int) bool { return add[i].Orden < add[j].Orden })
	s.log.Info("replacing survey questions", "encuesta_id", surveyID, "agregar", len(add), "quitar", len(remove))
	return s.store.ApplySurveyQuestionDiff(surveyID, add, remove)
}

// ReplaceQuestionAlternatives makes alternativeIDs the question's exact
// option set. New links denormalize the alternative text so readers
// rarely need the extra lookup.
func (s *SchoolService) ReplaceQuestionAlternatives(questionID string, alternativeIDs []string) error {
	q, err := s.store.GetQuestion(questionID)
	if err != nil {
		return err
	}
	if q == nil {
		return NewNotFoundError("pregunta no encontrada")
	}
	texts := map[string]string{}
	desired := []string{}
	seen := map[string]bool{}
	for _, id := range alternativeIDs {
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		a, err := s.store.GetAlternative(id)
		if err != nil {
			return err
		}
		if a == nil {
			return NewInvalidError("alternativa no encontrada: " + id)
		}
		texts[id] = a.Texto
		desired = append(desired, id)
	}
	current, err := s.store.ListQuestionAlternativeLinks(questionID)
	if err != nil {
		return err
	}
	have := map[string]bool{}
	for _, l := range current {
		have[l.AlternativeID] = true
	}
	want := map[string]bool{}
	for _, id := range desired {
		want[id] = true
	}

	add := []*models.QuestionAlternativeLink{}
	for i, id := range desired {
		if !have[id] {
			add = append(add, &models.QuestionAlternativeLink{
				ID:            s.newID(),
				QuestionID:    questionID,
				AlternativeID: id,
				Texto:         texts[id],
				Orden:         i + 1,
				CreatedAt:     s.now(),
			})
		}
	}
	remove := []string{}
	for _, l := range current {
		if !want[l.AlternativeID] {
			remove = append(remove, l.AlternativeID)
		}
	}
	if len(add) == 0 && len(remove) == 0 {
		return nil
	}
	s.log.Info("replacing question alternatives", "pregunta_id", questionID, "agregar", len(add), "quitar", len(remove))
	return s.store.ApplyQuestionAlternativeDiff(questionID, add, remove)
}

// dedupeExisting drops duplicate and empty ids, verifying each id
// exists via the lookup.
func (s *SchoolService) dedupeExisting(ids []string, exists func(string) (bool, error), notFoundPrefix string) ([]string, error) {
	out := []string{}
	seen := map[string]bool{}
	for _, id := range ids {
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		ok, err := exists(id)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, NewInvalidError(notFoundPrefix + id)
		}
		out = append(out, id)
	}
	return out, nil
}

// defaultEstado validates an estado value, defaulting empty to activo.
func defaultEstado(estado string) (string, error) {
	switch estado {
	case "":
		return models.EstadoActivo, nil
	case models.EstadoActivo, models.EstadoInactivo:
		return estado, nil
	default:
		return "", NewInvalidError("estado inválido")
	}
}

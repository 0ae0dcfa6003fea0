package services

import (
	"strconv"
	"testing"
	"time"

	"github.com/LiamFranKi/sistemas-encuestas-cursor/internal/models"
	"github.com/LiamFranKi/sistemas-encuestas-cursor/internal/platform/logger"
	"github.com/LiamFranKi/sistemas-encuestas-cursor/internal/store"
)

// fixture is a small seeded school used across service tests: one grade
// with two teachers, one active survey with two questions, and three
// shared alternatives.
type fixture struct {
	store    *store.MemoryStore
	resolver *ResolverService

	grade   *models.Grade
	ana     *models.Teacher
	bruno   *models.Teacher
	survey  *models.Survey
	q1, q2  *models.Question
	excel   *models.Alternative
	bueno   *models.Alternative
	regular *models.Alternative
}

func fixedTime() time.Time {
	return time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ms := store.NewMemoryStore()
	f := &fixture{
		store:    ms,
		resolver: NewResolverService(ms, logger.Nop()),
		grade:    &models.Grade{ID: "g1", Nombre: "Primero A", Nivel: "Primaria", Estado: models.EstadoActivo, CreatedAt: fixedTime()},
		ana:      &models.Teacher{ID: "t-ana", Nombre: "Ana", Estado: models.EstadoActivo, CreatedAt: fixedTime()},
		bruno:    &models.Teacher{ID: "t-bruno", Nombre: "Bruno", Estado: models.EstadoActivo, CreatedAt: fixedTime()},
		survey:   &models.Survey{ID: "s1", Titulo: "Encuesta 2025", Estado: models.EncuestaActiva, CreatedAt: fixedTime()},
		q1:       &models.Question{ID: "q1", Texto: "¿Cómo enseña?", Estado: models.EstadoActivo, CreatedAt: fixedTime()},
		q2:       &models.Question{ID: "q2", Texto: "¿Cómo trata a los alumnos?", Estado: models.EstadoActivo, CreatedAt: fixedTime()},
		excel:    &models.Alternative{ID: "a1", Texto: "Excelente", Estado: models.EstadoActivo, CreatedAt: fixedTime()},
		bueno:    &models.Alternative{ID: "a2", Texto: "Bueno", Estado: models.EstadoActivo, CreatedAt: fixedTime()},
		regular:  &models.Alternative{ID: "a3", Texto: "Regular", Estado: models.EstadoActivo, CreatedAt: fixedTime()},
	}
	must(t, ms.AddGrade(f.grade))
	must(t, ms.AddTeacher(f.ana))
	must(t, ms.AddTeacher(f.bruno))
	must(t, ms.AddSurvey(f.survey))
	must(t, ms.AddQuestion(f.q1))
	must(t, ms.AddQuestion(f.q2))
	must(t, ms.AddAlternative(f.excel))
	must(t, ms.AddAlternative(f.bueno))
	must(t, ms.AddAlternative(f.regular))

	must(t, ms.ApplyGradeTeacherDiff("g1", []*models.GradeTeacherLink{
		{ID: "gt1", GradeID: "g1", TeacherID: "t-ana", CreatedAt: fixedTime()},
		{ID: "gt2", GradeID: "g1", TeacherID: "t-bruno", CreatedAt: fixedTime()},
	}, nil))
	must(t, ms.ApplySurveyQuestionDiff("s1", []*models.SurveyQuestionLink{
		{ID: "sq1", SurveyID: "s1", QuestionID: "q1", Orden: 1, CreatedAt: fixedTime()},
		{ID: "sq2", SurveyID: "s1", QuestionID: "q2", Orden: 2, CreatedAt: fixedTime()},
	}, nil))
	for _, q := range []string{"q1", "q2"} {
		must(t, ms.ApplyQuestionAlternativeDiff(q, []*models.QuestionAlternativeLink{
			{ID: q + "-a1", QuestionID: q, AlternativeID: "a1", Texto: "Excelente", Orden: 1, CreatedAt: fixedTime()},
			{ID: q + "-a2", QuestionID: q, AlternativeID: "a2", Texto: "Bueno", Orden: 2, CreatedAt: fixedTime()},
			{ID: q + "-a3", QuestionID: q, AlternativeID: "a3", Texto: "Regular", Orden: 3, CreatedAt: fixedTime()},
		}, nil))
	}
	return f
}

var respSeq int

// addResponse stores one response fact directly, bypassing validation.
func (f *fixture) addResponse(t *testing.T, questionID, teacherID, alternativeID string) {
	t.Helper()
	respSeq++
	must(t, f.store.AddResponses([]*models.Response{{
		ID:            "r" + strconv.Itoa(respSeq),
		SurveyID:      f.survey.ID,
		GradeID:       f.grade.ID,
		QuestionID:    questionID,
		TeacherID:     teacherID,
		AlternativeID: alternativeID,
		Timestamp:     fixedTime(),
	}}))
}

func must(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

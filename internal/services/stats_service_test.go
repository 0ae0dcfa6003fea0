package services

import (
	"testing"
	"time"

	"github.com/LiamFranKi/sistemas-encuestas-cursor/internal/models"
	"github.com/LiamFranKi/sistemas-encuestas-cursor/internal/platform/logger"
)

func newStatsService(f *fixture) *StatsService {
	return NewStatsService(f.store, f.resolver, logger.Nop())
}

func TestGeneralKPIs(t *testing.T) {
	f := newFixture(t)
	// One full page: both teachers answered for q1.
	f.addResponse(t, "q1", "t-ana", "a1")
	f.addResponse(t, "q1", "t-bruno", "a2")
	// And for q2.
	f.addResponse(t, "q2", "t-ana", "a1")
	f.addResponse(t, "q2", "t-bruno", "a1")

	k, err := newStatsService(f).General()
	if err != nil {
		t.Fatalf("General: %v", err)
	}
	if k.TotalGrados != 1 || k.TotalDocentes != 2 || k.TotalPreguntas != 2 {
		t.Fatalf("catalog totals: %+v", k)
	}
	if k.TotalEncuestas != 1 || k.EncuestasActivas != 1 {
		t.Fatalf("survey totals: %+v", k)
	}
	if k.TotalRespuestas != 4 {
		t.Fatalf("TotalRespuestas = %d, want 4", k.TotalRespuestas)
	}
	// 4 responses / (2 questions × 2 rated teachers) = 1 participant.
	if k.Participantes != 1 {
		t.Fatalf("Participantes = %d, want 1", k.Participantes)
	}
}

func TestSurveyTotalsScopedToSurvey(t *testing.T) {
	f := newFixture(t)
	f.addResponse(t, "q1", "t-ana", "a1")
	must(t, f.store.AddSurvey(&models.Survey{
		ID:        "s2",
		Titulo:    "Encuesta 2026",
		Estado:    models.EncuestaInactiva,
		CreatedAt: fixedTime(),
	}))
	must(t, f.store.AddResponses([]*models.Response{{
		ID:            "rz1",
		SurveyID:      "s2",
		GradeID:       f.grade.ID,
		QuestionID:    "q1",
		TeacherID:     "t-ana",
		AlternativeID: "a1",
		Timestamp:     fixedTime(),
	}}))

	svc := newStatsService(f)
	row, err := svc.Survey("s1")
	if err != nil {
		t.Fatalf("Survey: %v", err)
	}
	if row.TotalRespuestas != 1 {
		t.Fatalf("TotalRespuestas = %d, want 1 (s2 responses must not count)", row.TotalRespuestas)
	}
	if row.Titulo != "Encuesta 2025" {
		t.Fatalf("Titulo = %q", row.Titulo)
	}

	_, err = svc.Survey("nope")
	se, ok := AsServiceError(err)
	if !ok || se.Code != ErrorNotFound {
		t.Fatalf("unknown survey: expected not_found, got %v", err)
	}
}

func TestBySurveyNewestFirst(t *testing.T) {
	f := newFixture(t)
	must(t, f.store.AddSurvey(&models.Survey{
		ID:        "s2",
		Titulo:    "Encuesta 2026",
		Estado:    models.EncuestaInactiva,
		CreatedAt: fixedTime().Add(24 * time.Hour),
	}))

	rows, err := newStatsService(f).BySurvey()
	if err != nil {
		t.Fatalf("BySurvey: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("rows = %d", len(rows))
	}
	if rows[0].SurveyID != "s2" || rows[1].SurveyID != "s1" {
		t.Fatalf("order = %s, %s; want s2, s1", rows[0].SurveyID, rows[1].SurveyID)
	}
}

func TestByGradeOrderedByNivelThenNombre(t *testing.T) {
	f := newFixture(t)
	must(t, f.store.AddGrade(&models.Grade{ID: "g2", Nombre: "Segundo B", Nivel: "Inicial", Estado: models.EstadoActivo}))
	must(t, f.store.AddGrade(&models.Grade{ID: "g3", Nombre: "Cuarto A", Nivel: "Primaria", Estado: models.EstadoActivo}))

	rows, err := newStatsService(f).ByGrade("s1")
	if err != nil {
		t.Fatalf("ByGrade: %v", err)
	}
	got := []string{}
	for _, r := range rows {
		got = append(got, r.Nombre)
	}
	want := []string{"Segundo B", "Cuarto A", "Primero A"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("grade order = %v, want %v", got, want)
		}
	}
}

func TestByQuestionDistributions(t *testing.T) {
	f := newFixture(t)
	f.addResponse(t, "q1", "t-ana", "a1")
	f.addResponse(t, "q1", "t-bruno", "a1")
	f.addResponse(t, "q2", "t-ana", "a3")

	rows, err := newStatsService(f).ByQuestion("s1")
	if err != nil {
		t.Fatalf("ByQuestion: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("rows = %d", len(rows))
	}
	if rows[0].QuestionID != "q1" || rows[0].Total != 2 {
		t.Fatalf("q1 distribution = %+v", rows[0])
	}
	if rows[0].Rows[0].Count != 2 || rows[0].Rows[0].Percent != 100 {
		t.Fatalf("q1/a1 row = %+v", rows[0].Rows[0])
	}
	if rows[1].Total != 1 {
		t.Fatalf("q2 total = %d", rows[1].Total)
	}
}

func TestByQuestionRequiresSurvey(t *testing.T) {
	f := newFixture(t)
	_, err := newStatsService(f).ByQuestion("")
	se, ok := AsServiceError(err)
	if !ok || se.Code != ErrorInvalid {
		t.Fatalf("expected invalid, got %v", err)
	}
}

func TestOverview(t *testing.T) {
	f := newFixture(t)
	f.addResponse(t, "q1", "t-ana", "a1")
	f.addResponse(t, "q1", "t-bruno", "a2")
	f.addResponse(t, "q2", "t-ana", "a1")

	ov, err := newStatsService(f).Overview("g1", "s1")
	if err != nil {
		t.Fatalf("Overview: %v", err)
	}
	if ov.Grade.ID != "g1" || ov.SurveyID != "s1" {
		t.Fatalf("scope = %+v", ov)
	}
	if len(ov.Questions) != 2 {
		t.Fatalf("questions = %d", len(ov.Questions))
	}
	if ov.KPIs.TotalRespuestas != 3 {
		t.Fatalf("TotalRespuestas = %d", ov.KPIs.TotalRespuestas)
	}
	// The overall matrix conserves the per-question counts.
	if ov.Overall.GrandTotal != 3 {
		t.Fatalf("overall grand total = %d", ov.Overall.GrandTotal)
	}
	if len(ov.Ranking) == 0 {
		t.Fatalf("ranking empty")
	}
	if ov.Ranking[0].TeacherName != "Ana" || ov.Ranking[0].Count != 2 {
		t.Fatalf("top ranking = %+v", ov.Ranking[0])
	}
}

func TestOverviewNoResponsesZeroFilled(t *testing.T) {
	f := newFixture(t)

	ov, err := newStatsService(f).Overview("g1", "s1")
	if err != nil {
		t.Fatalf("Overview: %v", err)
	}
	if ov.KPIs.TotalRespuestas != 0 || ov.KPIs.Participantes != 0 {
		t.Fatalf("KPIs = %+v", ov.KPIs)
	}
	if len(ov.Questions) != 2 {
		t.Fatalf("questions missing: %d", len(ov.Questions))
	}
	for _, qd := range ov.Questions {
		if len(qd.CrossTab.Rows) != 2 || len(qd.CrossTab.Columns) != 3 {
			t.Fatalf("tables not dense: %+v", qd.CrossTab)
		}
		if qd.CrossTab.GrandTotal != 0 {
			t.Fatalf("grand total = %d", qd.CrossTab.GrandTotal)
		}
	}
	if len(ov.Ranking) != 0 {
		t.Fatalf("ranking = %+v, want empty", ov.Ranking)
	}
}

func TestOverviewUnknownGrade(t *testing.T) {
	f := newFixture(t)
	_, err := newStatsService(f).Overview("nope", "s1")
	se, ok := AsServiceError(err)
	if !ok || se.Code != ErrorNotFound {
		t.Fatalf("expected not_found, got %v", err)
	}
}

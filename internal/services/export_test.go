package services

import (
	"encoding/csv"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/LiamFranKi/sistemas-encuestas-cursor/internal/models"
	"github.com/LiamFranKi/sistemas-encuestas-cursor/internal/platform/logger"
)

func TestRenderTablesCSV(t *testing.T) {
	tables := []*Table{
		{Title: "Resumen", Header: []string{"Indicador", "Valor"}, Rows: [][]string{{"Total", "3"}}},
		{Header: []string{"A", "B"}, Rows: [][]string{{"1", "2"}}},
	}
	data, err := RenderTablesCSV(tables)
	if err != nil {
		t.Fatalf("RenderTablesCSV: %v", err)
	}
	r := csv.NewReader(strings.NewReader(string(data)))
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		t.Fatalf("parse back: %v", err)
	}
	// title, header, row, then the second table's header and row; the
	// blank separator line is skipped by the reader.
	if len(records) != 5 {
		t.Fatalf("record count = %d: %v", len(records), records)
	}
	if records[0][0] != "Resumen" {
		t.Fatalf("first record = %v", records[0])
	}
	if records[3][0] != "A" {
		t.Fatalf("second table header = %v", records[3])
	}
	if !strings.Contains(string(data), "\n\n") {
		t.Fatalf("missing blank separator line:\n%s", string(data))
	}
}

func TestAlternativeTotalsTable(t *testing.T) {
	d1 := BuildQuestionDistribution(nil, sampleAlternatives(), map[string]int{"a1": 2, "a2": 1})
	d2 := BuildQuestionDistribution(nil, sampleAlternatives(), map[string]int{"a1": 1})
	tab := AlternativeTotalsTable([]*QuestionDistribution{d1, d2})

	// 3 alternatives + TOTAL row.
	if len(tab.Rows) != 4 {
		t.Fatalf("rows = %d: %v", len(tab.Rows), tab.Rows)
	}
	if tab.Rows[0][0] != "Excelente" || tab.Rows[0][1] != "3" || tab.Rows[0][2] != "75.0%" {
		t.Fatalf("excelente row = %v", tab.Rows[0])
	}
	last := tab.Rows[3]
	if last[0] != "TOTAL" || last[1] != "4" || last[2] != "100%" {
		t.Fatalf("total row = %v", last)
	}
}

func TestExportSurveyCSV(t *testing.T) {
	f := newFixture(t)
	f.addResponse(t, "q1", "t-ana", "a1")
	f.addResponse(t, "q1", "t-bruno", "a2")
	f.addResponse(t, "q2", "t-ana", "a1")

	// A second survey with its own responses must not leak into the
	// exported totals.
	must(t, f.store.AddSurvey(&models.Survey{
		ID: "s2", Titulo: "Otra encuesta", Estado: models.EncuestaInactiva, CreatedAt: fixedTime(),
	}))
	for i := 0; i < 5; i++ {
		must(t, f.store.AddResponses([]*models.Response{{
			ID:            "rx" + strconv.Itoa(i),
			SurveyID:      "s2",
			GradeID:       f.grade.ID,
			QuestionID:    "q1",
			TeacherID:     "t-ana",
			AlternativeID: "a1",
			Timestamp:     fixedTime(),
		}}))
	}

	stats := NewStatsService(f.store, f.resolver, logger.Nop())
	svc := NewExportService(stats)
	svc.now = func() time.Time { return fixedTime() }

	res, err := svc.ExportSurveyCSV("s1")
	if err != nil {
		t.Fatalf("ExportSurveyCSV: %v", err)
	}
	if res.Filename != "estadisticas_encuesta_2025_2025-06-01.csv" {
		t.Fatalf("filename = %q", res.Filename)
	}
	if res.ContentType != "text/csv; charset=utf-8" {
		t.Fatalf("content type = %q", res.ContentType)
	}
	body := string(res.Data)
	for _, want := range []string{
		"Resumen General - Encuesta 2025",
		"Estadísticas por Grado",
		"¿Cómo enseña?",
		"Estadísticas Generales por Alternativa",
	} {
		if !strings.Contains(body, want) {
			t.Fatalf("export missing %q:\n%s", want, body)
		}
	}
	if !strings.Contains(body, "Total de Respuestas,3") {
		t.Fatalf("KPI sheet not scoped to the exported survey:\n%s", body)
	}
	if strings.Contains(body, "Total de Respuestas,8") {
		t.Fatalf("KPI sheet counted another survey's responses:\n%s", body)
	}
}

func TestExportGradeCSV(t *testing.T) {
	f := newFixture(t)
	f.addResponse(t, "q1", "t-ana", "a1")

	stats := NewStatsService(f.store, f.resolver, logger.Nop())
	svc := NewExportService(stats)

	res, err := svc.ExportGradeCSV("g1", "s1")
	if err != nil {
		t.Fatalf("ExportGradeCSV: %v", err)
	}
	body := string(res.Data)
	for _, want := range []string{
		"Resumen del Grado - Primero A",
		"Tabla General del Grado",
		"Ranking Individual por Alternativa",
		"TOTAL",
	} {
		if !strings.Contains(body, want) {
			t.Fatalf("export missing %q:\n%s", want, body)
		}
	}
}

func TestExportSurveyCSVUnknownSurvey(t *testing.T) {
	f := newFixture(t)
	stats := NewStatsService(f.store, f.resolver, logger.Nop())
	svc := NewExportService(stats)

	_, err := svc.ExportSurveyCSV("nope")
	se, ok := AsServiceError(err)
	if !ok || se.Code != ErrorNotFound {
		t.Fatalf("expected not_found, got %v", err)
	}
}

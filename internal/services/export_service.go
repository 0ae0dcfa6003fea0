package services

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

type ExportResult struct {
	Filename    string
	ContentType string
	Data        []byte
}

// ExportService turns the derived statistics into downloadable CSV
// documents whose sheet order matches the legacy spreadsheet report.
type ExportService struct {
	stats *StatsService
	now   func() time.Time
}

func NewExportService(stats *StatsService) *ExportService {
	return &ExportService{stats: stats, now: time.Now}
}

// ExportSurveyCSV builds the survey-wide report: the KPI summary, the
// per-grade breakdown, one distribution table per question, and the
// survey-wide alternative totals. Every sheet is scoped to the one
// survey, the KPI block included.
func (s *ExportService) ExportSurveyCSV(surveyID string) (*ExportResult, error) {
	row, err := s.stats.Survey(surveyID)
	if err != nil {
		return nil, err
	}
	byGrade, err := s.stats.ByGrade(surveyID)
	if err != nil {
		return nil, err
	}
	distributions, err := s.stats.ByQuestion(surveyID)
	if err != nil {
		return nil, err
	}

	tables := []*Table{
		KPITable("Resumen General - "+row.Titulo, row.KPIBundle),
		GradeStatsTable(byGrade),
	}
	for _, d := range distributions {
		tables = append(tables, DistributionTable(d))
	}
	tables = append(tables, AlternativeTotalsTable(distributions))

	data, err := RenderTablesCSV(tables)
	if err != nil {
		return nil, err
	}
	return &ExportResult{
		Filename:    s.filename("estadisticas", row.Titulo),
		ContentType: "text/csv; charset=utf-8",
		Data:        data,
	}, nil
}

// ExportGradeCSV builds the single-grade report: the grade KPI block,
// one teacher × alternative table per question, the grade-wide matrix
// with totals and the individual ranking.
func (s *ExportService) ExportGradeCSV(gradeID, surveyID string) (*ExportResult, error) {
	ov, err := s.stats.Overview(gradeID, surveyID)
	if err != nil {
		return nil, err
	}

	tables := []*Table{
		KPITable("Resumen del Grado - "+ov.Grade.Nombre, ov.KPIs),
	}
	for _, qd := range ov.Questions {
		tables = append(tables, DistributionTable(qd.Distribution))
		ct := crossTabFromView(qd.CrossTab)
		ct.Title = qd.QuestionText + " - Docentes"
		tables = append(tables, ct)
	}
	overall := crossTabFromView(ov.Overall)
	overall.Title = "Tabla General del Grado"
	tables = append(tables, overall, RankingTable(ov.Ranking))

	data, err := RenderTablesCSV(tables)
	if err != nil {
		return nil, err
	}
	return &ExportResult{
		Filename:    s.filename("estadisticas_grado", ov.Grade.Nombre),
		ContentType: "text/csv; charset=utf-8",
		Data:        data,
	}, nil
}

// crossTabFromView renders a display cross-tab as cells with a
// trailing Total column and TOTAL row.
func crossTabFromView(v *CrossTabView) *Table {
	header := append([]string{"Docente"}, v.Columns...)
	header = append(header, "Total")
	rows := make([][]string, 0, len(v.Rows)+1)
	for _, r := range v.Rows {
		row := []string{r.TeacherName}
		for _, n := range r.Counts {
			row = append(row, strconv.Itoa(n))
		}
		row = append(row, strconv.Itoa(r.RowTotal))
		rows = append(rows, row)
	}
	totals := []string{"TOTAL"}
	for _, n := range v.ColumnTotals {
		totals = append(totals, strconv.Itoa(n))
	}
	totals = append(totals, strconv.Itoa(v.GrandTotal))
	rows = append(rows, totals)
	return &Table{Header: header, Rows: rows}
}

func (s *ExportService) filename(prefix, label string) string {
	slug := strings.ToLower(strings.TrimSpace(label))
	slug = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			return r
		default:
			return '_'
		}
	}, slug)
	slug = strings.Trim(slug, "_")
	if slug == "" {
		slug = "reporte"
	}
	return fmt.Sprintf("%s_%s_%s.csv", prefix, slug, s.now().Format("2006-01-02"))
}

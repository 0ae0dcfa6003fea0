package services

import (
	"bytes"
	"encoding/csv"
	"strconv"
)

// RenderTablesCSV renders a sequence of tables into one CSV document.
// Each table emits its title row (when set), its header, its rows, and
// a blank separator line, mirroring the sheet layout of the legacy
// spreadsheet export so existing analysis workflows keep working.
func RenderTablesCSV(tables []*Table) ([]byte, error) {
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	for i, t := range tables {
		if i > 0 {
			_ = w.Write([]string{""})
		}
		if t.Title != "" {
			if err := w.Write([]string{t.Title}); err != nil {
				return nil, err
			}
		}
		if len(t.Header) > 0 {
			if err := w.Write(t.Header); err != nil {
				return nil, err
			}
		}
		for _, row := range t.Rows {
			if err := w.Write(row); err != nil {
				return nil, err
			}
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}

// KPITable renders a KPI bundle as a two-column label/value table. The
// grade total row only appears when the bundle carries one.
func KPITable(title string, k KPIBundle) *Table {
	rows := [][]string{}
	if k.TotalGrados > 0 {
		rows = append(rows, []string{"Total de Grados", strconv.Itoa(k.TotalGrados)})
	}
	rows = append(rows,
		[]string{"Total de Docentes", strconv.Itoa(k.TotalDocentes)},
		[]string{"Total de Preguntas", strconv.Itoa(k.TotalPreguntas)},
		[]string{"Total de Respuestas", strconv.Itoa(k.TotalRespuestas)},
		[]string{"Participantes Estimados", strconv.Itoa(k.Participantes)},
	)
	return &Table{Title: title, Header: []string{"Indicador", "Valor"}, Rows: rows}
}

// GradeStatsTable renders the per-grade KPI breakdown.
func GradeStatsTable(rows []*GradeStats) *Table {
	out := make([][]string, 0, len(rows))
	for _, g := range rows {
		out = append(out, []string{
			g.Nombre,
			g.Nivel,
			strconv.Itoa(g.TotalDocentes),
			strconv.Itoa(g.TotalRespuestas),
			strconv.Itoa(g.Participantes),
		})
	}
	return &Table{
		Title:  "Estadísticas por Grado",
		Header: []string{"Grado", "Nivel", "Docentes", "Respuestas", "Participantes"},
		Rows:   out,
	}
}

// AlternativeTotalsTable renders survey-wide counts per alternative
// text, summed across all questions in question order.
func AlternativeTotalsTable(distributions []*QuestionDistribution) *Table {
	order := []string{}
	totals := map[string]int{}
	grand := 0
	for _, d := range distributions {
		for _, r := range d.Rows {
			if _, ok := totals[r.AlternativeText]; !ok {
				order = append(order, r.AlternativeText)
			}
			totals[r.AlternativeText] += r.Count
			grand += r.Count
		}
	}
	rows := make([][]string, 0, len(order)+1)
	for _, text := range order {
		pct := 0.0
		if grand > 0 {
			pct = float64(totals[text]) / float64(grand) * 100
		}
		rows = append(rows, []string{text, strconv.Itoa(totals[text]), FormatPercent(pct)})
	}
	totalPct := "0%"
	if grand > 0 {
		totalPct = "100%"
	}
	rows = append(rows, []string{"TOTAL", strconv.Itoa(grand), totalPct})
	return &Table{
		Title:  "Estadísticas Generales por Alternativa",
		Header: []string{"Alternativa", "Total de Respuestas", "Porcentaje"},
		Rows:   rows,
	}
}

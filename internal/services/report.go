package services

import (
	"strconv"

	"github.com/LiamFranKi/sistemas-encuestas-cursor/internal/models"
)

// Table is the neutral row/column shape every display and export sink
// consumes. Keeping one shaping point guarantees the screen and the
// exported file carry identical content.
type Table struct {
	Title  string     `json:"titulo,omitempty"`
	Header []string   `json:"cabecera"`
	Rows   [][]string `json:"filas"`
}

// DistributionRow is one alternative's slice of a question distribution.
type DistributionRow struct {
	AlternativeID   string  `json:"alternativa_id"`
	AlternativeText string  `json:"alternativa"`
	Count           int     `json:"cantidad"`
	Percent         float64 `json:"porcentaje"`
}

// QuestionDistribution is the per-question alternative-count view.
type QuestionDistribution struct {
	QuestionID   string            `json:"pregunta_id"`
	QuestionText string            `json:"pregunta"`
	Rows         []DistributionRow `json:"filas"`
	Total        int               `json:"total"`
}

// CrossTabRow is one teacher's row in the cross-tab view.
type CrossTabRow struct {
	TeacherName string `json:"docente"`
	Counts      []int  `json:"conteos"`
	RowTotal    int    `json:"total"`
}

// CrossTabView is the teacher × alternative table in display form.
type CrossTabView struct {
	Columns      []string      `json:"columnas"`
	Rows         []CrossTabRow `json:"filas"`
	ColumnTotals []int         `json:"totalesColumna"`
	GrandTotal   int           `json:"totalGeneral"`
}

// BuildQuestionDistribution shapes per-alternative counts for one
// question, preserving the resolver's alternative order. Percent is the
// alternative's share of the question total; with no responses every
// percent is zero.
func BuildQuestionDistribution(q *models.Question, alternatives []AlternativeOption, counts map[string]int) *QuestionDistribution {
	total := 0
	for _, a := range alternatives {
		total += counts[a.ID]
	}
	rows := make([]DistributionRow, 0, len(alternatives))
	for _, a := range alternatives {
		n := counts[a.ID]
		pct := 0.0
		if total > 0 {
			pct = float64(n) / float64(total) * 100
		}
		rows = append(rows, DistributionRow{
			AlternativeID:   a.ID,
			AlternativeText: a.Texto,
			Count:           n,
			Percent:         pct,
		})
	}
	d := &QuestionDistribution{Rows: rows, Total: total}
	if q != nil {
		d.QuestionID = q.ID
		d.QuestionText = q.Texto
	}
	return d
}

// BuildCrossTabView projects the dense matrix into display rows in
// matrix order.
func BuildCrossTabView(ct *CrossTab) *CrossTabView {
	cols := make([]string, 0, len(ct.Alternatives))
	colTotals := make([]int, 0, len(ct.Alternatives))
	for _, a := range ct.Alternatives {
		cols = append(cols, a.Texto)
		colTotals = append(colTotals, ct.ColumnTotal(a.ID))
	}
	rows := make([]CrossTabRow, 0, len(ct.Teachers))
	for _, t := range ct.Teachers {
		counts := make([]int, 0, len(ct.Alternatives))
		for _, a := range ct.Alternatives {
			counts = append(counts, ct.Counts[t.ID][a.ID])
		}
		rows = append(rows, CrossTabRow{TeacherName: t.Nombre, Counts: counts, RowTotal: ct.RowTotal(t.ID)})
	}
	return &CrossTabView{Columns: cols, Rows: rows, ColumnTotals: colTotals, GrandTotal: ct.GrandTotal()}
}

// DistributionTable renders a question distribution with a trailing
// TOTAL row; percentages carry one decimal as the reports always have.
func DistributionTable(d *QuestionDistribution) *Table {
	rows := make([][]string, 0, len(d.Rows)+1)
	for _, r := range d.Rows {
		rows = append(rows, []string{r.AlternativeText, strconv.Itoa(r.Count), FormatPercent(r.Percent)})
	}
	totalPct := "0%"
	if d.Total > 0 {
		totalPct = "100%"
	}
	rows = append(rows, []string{"TOTAL", strconv.Itoa(d.Total), totalPct})
	return &Table{
		Title:  d.QuestionText,
		Header: []string{"Alternativa", "Cantidad de Respuestas", "Porcentaje"},
		Rows:   rows,
	}
}

// RankingTable renders the flat pair ranking with 1-based positions.
func RankingTable(entries []PairRankEntry) *Table {
	rows := make([][]string, 0, len(entries))
	for i, e := range entries {
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			e.TeacherName,
			e.AlternativeText,
			strconv.Itoa(e.Count),
			FormatPercent(e.Percent),
		})
	}
	return &Table{
		Title:  "Ranking Individual por Alternativa",
		Header: []string{"Posición", "Docente", "Alternativa", "Cantidad", "Porcentaje del Total"},
		Rows:   rows,
	}
}

// FormatPercent renders a percentage with one decimal, e.g. "33.3%".
func FormatPercent(v float64) string {
	return strconv.FormatFloat(v, 'f', 1, 64) + "%"
}

package api

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/LiamFranKi/sistemas-encuestas-cursor/internal/services"
)

type StatsHandler struct {
	stats *services.StatsService
}

func NewStatsHandler(stats *services.StatsService) *StatsHandler {
	return &StatsHandler{stats: stats}
}

func (h *StatsHandler) General(c echo.Context) error {
	k, err := h.stats.General()
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, k)
}

func (h *StatsHandler) BySurvey(c echo.Context) error {
	rows, err := h.stats.BySurvey()
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, rows)
}

func (h *StatsHandler) ByGrade(c echo.Context) error {
	rows, err := h.stats.ByGrade(c.QueryParam("encuesta_id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, rows)
}

func (h *StatsHandler) ByQuestion(c echo.Context) error {
	rows, err := h.stats.ByQuestion(c.QueryParam("encuesta_id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, rows)
}

// GradeOverview serves the full statistics package for one grade under
// one survey.
func (h *StatsHandler) GradeOverview(c echo.Context) error {
	ov, err := h.stats.Overview(c.Param("id"), c.QueryParam("encuesta_id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, ov)
}

package api

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/LiamFranKi/sistemas-encuestas-cursor/internal/services"
)

type SurveyHandler struct {
	surveys  *services.SurveyService
	school   *services.SchoolService
	resolver *services.ResolverService
}

func NewSurveyHandler(surveys *services.SurveyService, school *services.SchoolService, resolver *services.ResolverService) *SurveyHandler {
	return &SurveyHandler{surveys: surveys, school: school, resolver: resolver}
}

func (h *SurveyHandler) Create(c echo.Context) error {
	var in services.SurveyInput
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, map[string]any{"error": "cuerpo inválido"})
	}
	sv, err := h.surveys.Create(in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, sv)
}

func (h *SurveyHandler) Update(c echo.Context) error {
	var in services.SurveyInput
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, map[string]any{"error": "cuerpo inválido"})
	}
	sv, err := h.surveys.Update(c.Param("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, sv)
}

func (h *SurveyHandler) Delete(c echo.Context) error {
	if err := h.surveys.Delete(c.Param("id")); err != nil {
		return respondError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *SurveyHandler) Get(c echo.Context) error {
	sv, err := h.surveys.Get(c.Param("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, sv)
}

func (h *SurveyHandler) List(c echo.Context) error {
	surveys, err := h.surveys.List()
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, surveys)
}

func (h *SurveyHandler) Activate(c echo.Context) error {
	sv, err := h.surveys.Activate(c.Param("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, sv)
}

func (h *SurveyHandler) Deactivate(c echo.Context) error {
	sv, err := h.surveys.Deactivate(c.Param("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, sv)
}

// Active returns the live survey; 404 when none is active.
func (h *SurveyHandler) Active(c echo.Context) error {
	sv, err := h.surveys.Active()
	if err != nil {
		return respondError(c, err)
	}
	if sv == nil {
		return c.JSON(http.StatusNotFound, map[string]any{"error": "no hay encuesta activa"})
	}
	return c.JSON(http.StatusOK, sv)
}

// Questions returns the survey's resolved questions in order.
func (h *SurveyHandler) Questions(c echo.Context) error {
	questions, err := h.resolver.QuestionsOfSurvey(c.Param("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, questions)
}

// ReplaceQuestions swaps the survey's question set, in posted order.
func (h *SurveyHandler) ReplaceQuestions(c echo.Context) error {
	var p idListPayload
	if err := c.Bind(&p); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, map[string]any{"error": "cuerpo inválido"})
	}
	if err := h.school.ReplaceSurveyQuestions(c.Param("id"), p.IDs); err != nil {
		return respondError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

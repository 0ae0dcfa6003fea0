package api

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/LiamFranKi/sistemas-encuestas-cursor/internal/models"
	"github.com/LiamFranKi/sistemas-encuestas-cursor/internal/services"
)

type ResponseHandler struct {
	responses *services.ResponseService
}

func NewResponseHandler(responses *services.ResponseService) *ResponseHandler {
	return &ResponseHandler{responses: responses}
}

// Submit accepts one question page from an anonymous respondent.
func (h *ResponseHandler) Submit(c echo.Context) error {
	var in services.SubmitInput
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, map[string]any{"error": "cuerpo inválido"})
	}
	if err := c.Validate(&in); err != nil {
		return err
	}
	batch, err := h.responses.Submit(in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, map[string]any{"guardadas": len(batch)})
}

// List returns raw responses filtered by query parameters.
func (h *ResponseHandler) List(c echo.Context) error {
	f := models.ResponseFilter{
		SurveyID:      c.QueryParam("encuesta_id"),
		GradeID:       c.QueryParam("grado_id"),
		QuestionID:    c.QueryParam("pregunta_id"),
		TeacherID:     c.QueryParam("docente_id"),
		AlternativeID: c.QueryParam("alternativa_id"),
	}
	responses, err := h.responses.List(f)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, responses)
}

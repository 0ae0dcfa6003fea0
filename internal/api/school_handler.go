package api

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/LiamFranKi/sistemas-encuestas-cursor/internal/services"
)

// SchoolHandler serves the catalog: grades, teachers, questions,
// alternatives and their link collections.
type SchoolHandler struct {
	school   *services.SchoolService
	resolver *services.ResolverService
}

func NewSchoolHandler(school *services.SchoolService, resolver *services.ResolverService) *SchoolHandler {
	return &SchoolHandler{school: school, resolver: resolver}
}

// Grades

func (h *SchoolHandler) CreateGrade(c echo.Context) error {
	var in services.GradeInput
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, map[string]any{"error": "cuerpo inválido"})
	}
	g, err := h.school.CreateGrade(in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, g)
}

func (h *SchoolHandler) UpdateGrade(c echo.Context) error {
	var in services.GradeInput
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, map[string]any{"error": "cuerpo inválido"})
	}
	g, err := h.school.UpdateGrade(c.Param("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, g)
}

func (h *SchoolHandler) DeleteGrade(c echo.Context) error {
	if err := h.school.DeleteGrade(c.Param("id")); err != nil {
		return respondError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *SchoolHandler) GetGrade(c echo.Context) error {
	g, err := h.school.GetGrade(c.Param("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, g)
}

func (h *SchoolHandler) ListGrades(c echo.Context) error {
	grades, err := h.school.ListGrades()
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, grades)
}

// GradeTeachers returns the grade's resolved roster in display order.
func (h *SchoolHandler) GradeTeachers(c echo.Context) error {
	teachers, err := h.resolver.TeachersOfGrade(c.Param("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, teachers)
}

type idListPayload struct {
	IDs []string `json:"ids"`
}

// ReplaceGradeTeachers swaps the grade's roster for the posted set.
func (h *SchoolHandler) ReplaceGradeTeachers(c echo.Context) error {
	var p idListPayload
	if err := c.Bind(&p); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, map[string]any{"error": "cuerpo inválido"})
	}
	if err := h.school.ReplaceGradeTeachers(c.Param("id"), p.IDs); err != nil {
		return respondError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// Teachers

func (h *SchoolHandler) CreateTeacher(c echo.Context) error {
	var in services.TeacherInput
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, map[string]any{"error": "cuerpo inválido"})
	}
	t, err := h.school.CreateTeacher(in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, t)
}

func (h *SchoolHandler) UpdateTeacher(c echo.Context) error {
	var in services.TeacherInput
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, map[string]any{"error": "cuerpo inválido"})
	}
	t, err := h.school.UpdateTeacher(c.Param("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, t)
}

func (h *SchoolHandler) DeleteTeacher(c echo.Context) error {
	if err := h.school.DeleteTeacher(c.Param("id")); err != nil {
		return respondError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *SchoolHandler) ListTeachers(c echo.Context) error {
	teachers, err := h.school.ListTeachers()
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, teachers)
}

// Questions

func (h *SchoolHandler) CreateQuestion(c echo.Context) error {
	var in services.QuestionInput
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, map[string]any{"error": "cuerpo inválido"})
	}
	q, err := h.school.CreateQuestion(in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, q)
}

func (h *SchoolHandler) UpdateQuestion(c echo.Context) error {
	var in services.QuestionInput
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, map[string]any{"error": "cuerpo inválido"})
	}
	q, err := h.school.UpdateQuestion(c.Param("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, q)
}

func (h *SchoolHandler) DeleteQuestion(c echo.Context) error {
	if err := h.school.DeleteQuestion(c.Param("id")); err != nil {
		return respondError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *SchoolHandler) ListQuestions(c echo.Context) error {
	questions, err := h.school.ListQuestions()
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, questions)
}

// QuestionAlternatives returns the question's resolved options.
func (h *SchoolHandler) QuestionAlternatives(c echo.Context) error {
	alts, err := h.resolver.AlternativesOfQuestion(c.Param("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, alts)
}

// ReplaceQuestionAlternatives swaps the question's option set.
func (h *SchoolHandler) ReplaceQuestionAlternatives(c echo.Context) error {
	var p idListPayload
	if err := c.Bind(&p); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, map[string]any{"error": "cuerpo inválido"})
	}
	if err := h.school.ReplaceQuestionAlternatives(c.Param("id"), p.IDs); err != nil {
		return respondError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// Alternatives

func (h *SchoolHandler) CreateAlternative(c echo.Context) error {
	var in services.AlternativeInput
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, map[string]any{"error": "cuerpo inválido"})
	}
	a, err := h.school.CreateAlternative(in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, a)
}

func (h *SchoolHandler) UpdateAlternative(c echo.Context) error {
	var in services.AlternativeInput
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, map[string]any{"error": "cuerpo inválido"})
	}
	a, err := h.school.UpdateAlternative(c.Param("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, a)
}

func (h *SchoolHandler) DeleteAlternative(c echo.Context) error {
	if err := h.school.DeleteAlternative(c.Param("id")); err != nil {
		return respondError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *SchoolHandler) ListAlternatives(c echo.Context) error {
	alts, err := h.school.ListAlternatives()
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, alts)
}

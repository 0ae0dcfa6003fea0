package api

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/LiamFranKi/sistemas-encuestas-cursor/internal/middleware"
	"github.com/LiamFranKi/sistemas-encuestas-cursor/internal/platform/logger"
	"github.com/LiamFranKi/sistemas-encuestas-cursor/internal/services"
)

// Deps bundles everything the router needs.
type Deps struct {
	Auth      *services.AuthService
	School    *services.SchoolService
	Surveys   *services.SurveyService
	Responses *services.ResponseService
	Stats     *services.StatsService
	Export    *services.ExportService
	Resolver  *services.ResolverService

	Log         *logger.Logger
	JWTSecret   string
	CORSOrigins []string
}

// NewRouter builds the echo application. Respondent endpoints are
// public; everything that manages the catalog or reads statistics sits
// behind the admin JWT.
func NewRouter(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = NewRequestValidator()

	log := d.Log
	if log == nil {
		log = logger.Nop()
	}
	e.Use(echomw.Recover())
	e.Use(requestLogger(log))
	e.Use(middleware.SecureHeaders())
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: d.CORSOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
		AllowHeaders: []string{echo.HeaderContentType, echo.HeaderAuthorization},
	}))

	authH := NewAuthHandler(d.Auth)
	schoolH := NewSchoolHandler(d.School, d.Resolver)
	surveyH := NewSurveyHandler(d.Surveys, d.School, d.Resolver)
	responseH := NewResponseHandler(d.Responses)
	statsH := NewStatsHandler(d.Stats)
	exportH := NewExportHandler(d.Export)

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]any{"status": "ok"})
	})

	api := e.Group("/api")

	// Register only works while the user table is empty; after the
	// first admin exists it answers 403, so leaving it public is safe.
	api.POST("/auth/register", authH.Register)
	api.POST("/auth/login", authH.Login)

	// Respondent surface: discovering the live survey and submitting
	// one question page needs no credentials.
	api.GET("/encuestas/activa", surveyH.Active)
	api.GET("/encuestas/:id/preguntas", surveyH.Questions)
	api.GET("/preguntas/:id/alternativas", schoolH.QuestionAlternatives)
	api.GET("/grados", schoolH.ListGrades)
	api.GET("/grados/:id/docentes", schoolH.GradeTeachers)
	api.POST("/respuestas", responseH.Submit)

	admin := api.Group("", middleware.RequireAuth(d.JWTSecret), middleware.RequireRole(services.RoleAdmin))

	admin.POST("/grados", schoolH.CreateGrade)
	admin.GET("/grados/:id", schoolH.GetGrade)
	admin.PUT("/grados/:id", schoolH.UpdateGrade)
	admin.DELETE("/grados/:id", schoolH.DeleteGrade)
	admin.PUT("/grados/:id/docentes", schoolH.ReplaceGradeTeachers)

	admin.GET("/docentes", schoolH.ListTeachers)
	admin.POST("/docentes", schoolH.CreateTeacher)
	admin.PUT("/docentes/:id", schoolH.UpdateTeacher)
	admin.DELETE("/docentes/:id", schoolH.DeleteTeacher)

	admin.GET("/preguntas", schoolH.ListQuestions)
	admin.POST("/preguntas", schoolH.CreateQuestion)
	admin.PUT("/preguntas/:id", schoolH.UpdateQuestion)
	admin.DELETE("/preguntas/:id", schoolH.DeleteQuestion)
	admin.PUT("/preguntas/:id/alternativas", schoolH.ReplaceQuestionAlternatives)

	admin.GET("/alternativas", schoolH.ListAlternatives)
	admin.POST("/alternativas", schoolH.CreateAlternative)
	admin.PUT("/alternativas/:id", schoolH.UpdateAlternative)
	admin.DELETE("/alternativas/:id", schoolH.DeleteAlternative)

	admin.GET("/encuestas", surveyH.List)
	admin.POST("/encuestas", surveyH.Create)
	admin.GET("/encuestas/:id", surveyH.Get)
	admin.PUT("/encuestas/:id", surveyH.Update)
	admin.DELETE("/encuestas/:id", surveyH.Delete)
	admin.POST("/encuestas/:id/activar", surveyH.Activate)
	admin.POST("/encuestas/:id/desactivar", surveyH.Deactivate)
	admin.PUT("/encuestas/:id/preguntas", surveyH.ReplaceQuestions)

	admin.GET("/respuestas", responseH.List)

	admin.GET("/estadisticas/general", statsH.General)
	admin.GET("/estadisticas/encuestas", statsH.BySurvey)
	admin.GET("/estadisticas/grados", statsH.ByGrade)
	admin.GET("/estadisticas/preguntas", statsH.ByQuestion)
	admin.GET("/estadisticas/grados/:id", statsH.GradeOverview)

	admin.GET("/exportar/encuestas/:id", exportH.Survey)
	admin.GET("/exportar/grados/:id", exportH.Grade)

	return e
}

func requestLogger(log *logger.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			req := c.Request()
			log.Info("request",
				"method", req.Method,
				"path", req.URL.Path,
				"status", c.Response().Status,
				"duration", time.Since(start).String(),
			)
			return err
		}
	}
}

package api

import (
	"github.com/labstack/echo/v4"

	"github.com/LiamFranKi/sistemas-encuestas-cursor/internal/services"
)

type ExportHandler struct {
	export *services.ExportService
}

func NewExportHandler(export *services.ExportService) *ExportHandler {
	return &ExportHandler{export: export}
}

func (h *ExportHandler) Survey(c echo.Context) error {
	res, err := h.export.ExportSurveyCSV(c.Param("id"))
	if err != nil {
		return respondError(c, err)
	}
	return writeDownload(c, res)
}

func (h *ExportHandler) Grade(c echo.Context) error {
	res, err := h.export.ExportGradeCSV(c.Param("id"), c.QueryParam("encuesta_id"))
	if err != nil {
		return respondError(c, err)
	}
	return writeDownload(c, res)
}

func writeDownload(c echo.Context, res *services.ExportResult) error {
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="`+res.Filename+`"`)
	return c.Blob(200, res.ContentType, res.Data)
}

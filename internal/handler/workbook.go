package handler

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
	"github.com/vikramvicky-1/ttdashboard-sub000/internal/export"
	"github.com/xuri/excelize/v2"
)

// writeWorkbook streams an XLSX workbook as a download
func writeWorkbook(c echo.Context, f *excelize.File, filename string) error {
	defer func() {
		if err := f.Close(); err != nil {
			log.Warn().Err(err).Msg("Failed to close workbook")
		}
	}()

	c.Response().Header().Set(echo.HeaderContentType, export.ContentType)
	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", filename))
	c.Response().WriteHeader(http.StatusOK)

	if err := f.Write(c.Response()); err != nil {
		log.Error().Err(err).Str("file", filename).Msg("Failed to write workbook")
		return err
	}
	return nil
}

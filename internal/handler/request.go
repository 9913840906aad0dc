package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"github.com/vikramvicky-1/ttdashboard-sub000/internal/domain"
	"github.com/vikramvicky-1/ttdashboard-sub000/internal/service"
	"github.com/vikramvicky-1/ttdashboard-sub000/internal/util"
)

// maxMultipartMemory bounds the in-memory part of a parsed multipart form
const maxMultipartMemory = 32 << 20

// fieldSet holds the scalar request fields by wire name. A present key with a
// nil value is an explicit JSON null.
type fieldSet map[string]*string

// readFieldSet reads scalar fields from a JSON, urlencoded or multipart body
func readFieldSet(c echo.Context) (fieldSet, error) {
	req := c.Request()
	ctype := req.Header.Get(echo.HeaderContentType)

	if strings.HasPrefix(ctype, echo.MIMEMultipartForm) || strings.HasPrefix(ctype, echo.MIMEApplicationForm) {
		if strings.HasPrefix(ctype, echo.MIMEMultipartForm) {
			if err := req.ParseMultipartForm(maxMultipartMemory); err != nil {
				return nil, fmt.Errorf("%w: malformed multipart body", domain.ErrInvalidInput)
			}
		}
		form, err := c.FormParams()
		if err != nil {
			return nil, fmt.Errorf("%w: malformed form body", domain.ErrInvalidInput)
		}
		fields := make(fieldSet, len(form))
		for name, values := range form {
			if len(values) > 0 {
				v := values[0]
				fields[name] = &v
			}
		}
		return fields, nil
	}

	body, err := io.ReadAll(req.Body)
	if err != nil {
		return nil, fmt.Errorf("read request body: %w", err)
	}
	fields := fieldSet{}
	if len(bytes.TrimSpace(body)) == 0 {
		return fields, nil
	}

	raw := map[string]interface{}{}
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("%w: invalid JSON body", domain.ErrInvalidInput)
	}
	for name, value := range raw {
		switch v := value.(type) {
		case nil:
			fields[name] = nil
		case string:
			fields[name] = &v
		case json.Number:
			s := v.String()
			fields[name] = &s
		case bool:
			s := fmt.Sprintf("%t", v)
			fields[name] = &s
		}
	}
	return fields, nil
}

func (f fieldSet) has(name string) bool {
	_, ok := f[name]
	return ok
}

// str returns the trimmed value of name, "" when absent or null
func (f fieldSet) str(name string) string {
	if v := f[name]; v != nil {
		return strings.TrimSpace(*v)
	}
	return ""
}

// optString returns a pointer to the trimmed value when name is present
func (f fieldSet) optString(name string) *string {
	if !f.has(name) {
		return nil
	}
	s := f.str(name)
	return &s
}

// optDecimal parses name when present and non-empty
func (f fieldSet) optDecimal(name string) (*decimal.Decimal, error) {
	s := f.str(name)
	if s == "" {
		return nil, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return nil, domain.NewFieldError(name, "Must be a valid number")
	}
	return &d, nil
}

// decimalOrZero parses name, treating an absent value as zero
func (f fieldSet) decimalOrZero(name string) (decimal.Decimal, error) {
	d, err := f.optDecimal(name)
	if err != nil || d == nil {
		return decimal.Zero, err
	}
	return *d, nil
}

// optDate parses name as a calendar date or timestamp when present and non-empty
func (f fieldSet) optDate(name string, loc *time.Location) (*time.Time, error) {
	s := f.str(name)
	if s == "" {
		return nil, nil
	}
	t, err := util.ParseDate(s, loc)
	if err != nil {
		return nil, domain.NewFieldError(name, "Must be a date in YYYY-MM-DD format")
	}
	return &t, nil
}

// readUpload loads the multipart file in field, nil when none was sent
func readUpload(c echo.Context, field string) (*service.FileUpload, error) {
	fh, err := c.FormFile(field)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidFile, err)
	}
	return readFileHeader(fh)
}

func readFileHeader(fh *multipart.FileHeader) (*service.FileUpload, error) {
	if fh.Size > domain.MaxAttachmentSize {
		return nil, service.ErrFileTooLarge
	}
	src, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("open upload: %w", err)
	}
	defer src.Close()

	data, err := io.ReadAll(io.LimitReader(src, domain.MaxAttachmentSize+1))
	if err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}
	return &service.FileUpload{
		Filename:    fh.Filename,
		ContentType: fh.Header.Get(echo.HeaderContentType),
		Data:        data,
	}, nil
}

// windowFromQuery builds a reporting window for mode from the query string
func windowFromQuery(c echo.Context, mode domain.WindowMode, loc *time.Location) (domain.Window, error) {
	switch mode {
	case domain.WindowMonth:
		return domain.ParseMonthWindow(c.QueryParam("month"), c.QueryParam("year"), loc)
	case domain.WindowYear:
		return domain.ParseYearWindow(c.QueryParam("year"), loc)
	case domain.WindowRange:
		return domain.RangeWindow(c.QueryParam("fromDate"), c.QueryParam("toDate"), loc)
	}
	return domain.Window{}, fmt.Errorf("%w: unknown window mode %q", domain.ErrInvalidInput, mode)
}

// detectWindow picks the window mode from whichever query parameters are present:
// fromDate/toDate, then month+year, then year
func detectWindow(c echo.Context, loc *time.Location) (domain.Window, error) {
	switch {
	case c.QueryParam("fromDate") != "" || c.QueryParam("toDate") != "":
		return windowFromQuery(c, domain.WindowRange, loc)
	case c.QueryParam("month") != "":
		return windowFromQuery(c, domain.WindowMonth, loc)
	case c.QueryParam("year") != "":
		return windowFromQuery(c, domain.WindowYear, loc)
	}
	return domain.Window{}, fmt.Errorf("%w: provide month and year, year, or fromDate and toDate", domain.ErrInvalidInput)
}

// pathParam returns a path parameter with URL escapes decoded
func pathParam(c echo.Context, name string) string {
	raw := c.Param(name)
	if decoded, err := url.PathUnescape(raw); err == nil {
		return decoded
	}
	return raw
}

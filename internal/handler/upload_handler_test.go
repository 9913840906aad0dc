package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/vikramvicky-1/ttdashboard-sub000/internal/service"
	"github.com/vikramvicky-1/ttdashboard-sub000/internal/testutil"
)

func TestGetUpload(t *testing.T) {
	e := echo.New()
	h := NewUploadHandler(service.NewAttachmentService(testutil.NewMockFileRepository()))

	tests := []struct {
		name     string
		param    string
		status   int
		location string
	}{
		{"redirects to signed url", "abc.pdf", http.StatusTemporaryRedirect, "https://files.test/abc.pdf?signed=1"},
		{"rejects traversal", "..%2Fsecret", http.StatusNotFound, ""},
		{"rejects nested path", "a%2Fb.pdf", http.StatusNotFound, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/uploads/"+tt.param, nil)
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)
			c.SetPath("/uploads/:name")
			c.SetParamNames("name")
			c.SetParamValues(tt.param)

			err := h.GetUpload(c)
			assert.NoError(t, err)
			assert.Equal(t, tt.status, rec.Code)
			if tt.location != "" {
				assert.Equal(t, tt.location, rec.Header().Get(echo.HeaderLocation))
			}
		})
	}
}

func TestGetUpload_StorageDisabled(t *testing.T) {
	e := echo.New()
	h := NewUploadHandler(service.NewAttachmentService(nil))

	req := httptest.NewRequest(http.MethodGet, "/uploads/abc.pdf", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("name")
	c.SetParamValues("abc.pdf")

	assert.NoError(t, h.GetUpload(c))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

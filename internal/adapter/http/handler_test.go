package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"career-report/internal/domain"
	"career-report/internal/usecase"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeGenerator struct {
	got *domain.ReportRequest
	res *usecase.Result
	err error
}

func (f *fakeGenerator) Generate(ctx context.Context, req *domain.ReportRequest) (*usecase.Result, error) {
	f.got = req
	return f.res, f.err
}

func newTestApp(g Generator) *fiber.App {
	app := fiber.New()
	NewHandler(g, "career-report", nil).Register(app)
	return app
}

func do(t *testing.T, app *fiber.App, method, path, body string) (int, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var out map[string]any
	require.NoError(t, json.Unmarshal(b, &out), string(b))
	return resp.StatusCode, out
}

func TestGeneratePDF_Success(t *testing.T) {
	g := &fakeGenerator{res: &usecase.Result{Link: "https://drive.google.com/uc?id=f&export=download"}}
	app := newTestApp(g)

	code, body := do(t, app, "POST", "/generate-pdf",
		`{"studentID": 42, "studentName": "Asha", "reportData": {"top5_buckets": [{"bucketName": "Design", "topCareers": [{"careerName": "UX"}]}]}}`)
	assert.Equal(t, fiber.StatusOK, code)
	assert.Equal(t, "https://drive.google.com/uc?id=f&export=download", body["reportLink"])

	require.NotNil(t, g.got)
	assert.Equal(t, "42", g.got.ResolvedStudentID())
	require.Len(t, g.got.ReportData.TopBuckets, 1)
}

func TestGeneratePDF_InvalidData(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		details bool
	}{
		{name: "no reportData", body: `{"studentID": "1"}`},
		{name: "null reportData", body: `{"reportData": null}`},
		{name: "malformed json", body: `{"reportData":`},
		{name: "schema violation", body: `{"reportData": {"vibeScores": {"R": 500}}}`, details: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := &fakeGenerator{}
			code, body := do(t, newTestApp(g), "POST", "/generate-pdf", tt.body)
			assert.Equal(t, fiber.StatusBadRequest, code)
			assert.Equal(t, "Invalid data", body["error"])
			_, hasDetails := body["details"]
			assert.Equal(t, tt.details, hasDetails)
			assert.Nil(t, g.got)
		})
	}
}

func TestGeneratePDF_PipelineFailure(t *testing.T) {
	g := &fakeGenerator{err: &usecase.PipelineError{Stage: usecase.StageUpload, Err: errors.New("quota exceeded")}}
	code, body := do(t, newTestApp(g), "POST", "/generate-pdf", `{"reportData": {}}`)
	assert.Equal(t, fiber.StatusInternalServerError, code)
	assert.Equal(t, "Failed to generate PDF", body["error"])
	assert.Equal(t, "upload: quota exceeded", body["details"])
}

func TestHealth(t *testing.T) {
	code, body := do(t, newTestApp(&fakeGenerator{}), "GET", "/health", "")
	assert.Equal(t, fiber.StatusOK, code)
	assert.Equal(t, map[string]any{"status": "ok", "service": "career-report"}, body)
}

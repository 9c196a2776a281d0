package api

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/insightdelivered/statement-ledger/internal/engine"
	"github.com/insightdelivered/statement-ledger/internal/extractor"
	"github.com/insightdelivered/statement-ledger/internal/metrics"
	"github.com/insightdelivered/statement-ledger/internal/models"
)

type stubExtractor struct {
	info *models.Statement
	err  error
	got  []byte
}

func (s *stubExtractor) ExtractStatement(_ context.Context, data []byte) (*models.Statement, error) {
	s.got = data
	return s.info, s.err
}

func sampleStatement() *models.Statement {
	return &models.Statement{
		PageCount: 1,
		LineCount: 3,
		Transactions: []models.Transaction{
			{
				ID:          "2024-01-15-1",
				Date:        "2024-01-15",
				Description: "Direct Deposit Salary",
				Amount:      decimal.RequireFromString("3500.00"),
				Type:        models.Credit,
				Balance:     decimal.NewNullDecimal(decimal.RequireFromString("5200.00")),
			},
			{
				ID:          "2024-01-14-2",
				Date:        "2024-01-14",
				Description: "Grocery Store",
				Amount:      decimal.RequireFromString("-125.50"),
				Type:        models.Debit,
			},
		},
		DebugLines: []models.DebugLine{
			{LineNum: 1, Page: 1, Text: "Page 1 of 1", Result: models.ResultNoise},
		},
	}
}

func setupTestApp(ext Extractor) (*fiber.App, *metrics.Recorder) {
	rec := metrics.New()
	h := &Handler{Extractor: ext, Metrics: rec}
	return NewApp(h, 4), rec
}

func uploadRequest(t *testing.T, filename string, content []byte, fields map[string]string) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	if filename != "" {
		part, err := mw.CreateFormFile("file", filename)
		require.NoError(t, err)
		_, err = part.Write(content)
		require.NoError(t, err)
	}
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest("POST", "/api/convert", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func decode(t *testing.T, resp *http.Response) ConvertResponse {
	t.Helper()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var out ConvertResponse
	require.NoError(t, json.Unmarshal(body, &out), string(body))
	return out
}

func TestHealthEndpoint(t *testing.T) {
	app, _ := setupTestApp(&stubExtractor{})

	resp, err := app.Test(httptest.NewRequest("GET", "/api/health", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	body, _ := io.ReadAll(resp.Body)
	var result map[string]string
	require.NoError(t, json.Unmarshal(body, &result))
	assert.Equal(t, "ok", result["status"])
	assert.Equal(t, "fiber", result["engine"])
	assert.Equal(t, Version, result["version"])
}

func TestConvertEndpointRequiresFile(t *testing.T) {
	app, _ := setupTestApp(&stubExtractor{})

	resp, err := app.Test(uploadRequest(t, "", nil, map[string]string{"format": "csv"}))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, decode(t, resp).Error, "No file uploaded")
}

func TestConvertEndpointRejectsNonPDFName(t *testing.T) {
	app, _ := setupTestApp(&stubExtractor{})

	resp, err := app.Test(uploadRequest(t, "statement.txt", []byte("hello"), nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestConvertEndpointRejectsUnknownFormat(t *testing.T) {
	app, _ := setupTestApp(&stubExtractor{info: sampleStatement()})

	resp, err := app.Test(uploadRequest(t, "statement.pdf", []byte("%PDF"), map[string]string{"format": "ods"}))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestConvertEndpointCSV(t *testing.T) {
	stub := &stubExtractor{info: sampleStatement()}
	app, _ := setupTestApp(stub)

	resp, err := app.Test(uploadRequest(t, "Statement.PDF", []byte("%PDF-1.4 data"), nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	out := decode(t, resp)
	assert.True(t, out.Success)
	assert.NotEmpty(t, out.RunID)
	assert.Equal(t, "csv", out.Format)
	assert.Equal(t, []byte("%PDF-1.4 data"), stub.got)
	require.Len(t, out.Transactions, 2)
	assert.Equal(t, "2024-01-15-1", out.Transactions[0].ID)
	assert.True(t, strings.HasPrefix(out.Output, "ID,Date,Description,Type,Amount,Balance\n"))
	require.NotNil(t, out.Summary)
	assert.Equal(t, 2, out.Summary.Count)
	assert.Equal(t, "3374.50", out.Summary.NetFlow.StringFixed(2))
	assert.Equal(t, 1, out.Pages)
	assert.Len(t, out.DebugLines, 1)
}

func TestConvertEndpointNoHeader(t *testing.T) {
	app, _ := setupTestApp(&stubExtractor{info: sampleStatement()})

	resp, err := app.Test(uploadRequest(t, "s.pdf", []byte("%PDF"), map[string]string{"header": "false"}))
	require.NoError(t, err)
	out := decode(t, resp)
	assert.True(t, strings.HasPrefix(out.Output, "2024-01-15-1,"))
}

func TestConvertEndpointXLSX(t *testing.T) {
	app, _ := setupTestApp(&stubExtractor{info: sampleStatement()})

	resp, err := app.Test(uploadRequest(t, "s.pdf", []byte("%PDF"), map[string]string{"format": "xlsx"}))
	require.NoError(t, err)
	out := decode(t, resp)
	require.True(t, out.Success)

	raw, err := base64.StdEncoding.DecodeString(out.Output)
	require.NoError(t, err)
	f, err := excelize.OpenReader(bytes.NewReader(raw))
	require.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows("Transactions")
	require.NoError(t, err)
	assert.Len(t, rows, 3)
}

func TestConvertEndpointErrorMapping(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		status  int
		outcome string
	}{
		{"format", &extractor.DocumentFormatError{Err: errors.New("missing header")}, fiber.StatusBadRequest, metrics.OutcomeFormatError},
		{"no text", &engine.NoExtractableTextError{Pages: 2}, fiber.StatusUnprocessableEntity, metrics.OutcomeNoText},
		{"no transactions", &engine.NoTransactionsRecognizedError{Lines: 9, Readable: true}, fiber.StatusUnprocessableEntity, metrics.OutcomeNoTransactions},
		{"other", context.DeadlineExceeded, fiber.StatusInternalServerError, metrics.OutcomeError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app, _ := setupTestApp(&stubExtractor{err: tt.err})

			resp, err := app.Test(uploadRequest(t, "s.pdf", []byte("x"), nil))
			require.NoError(t, err)
			assert.Equal(t, tt.status, resp.StatusCode)

			out := decode(t, resp)
			assert.False(t, out.Success)
			assert.Equal(t, tt.err.Error(), out.Error)
			assert.Empty(t, out.Transactions)

			outcome, status := classify(tt.err)
			assert.Equal(t, tt.outcome, outcome)
			assert.Equal(t, tt.status, status)
		})
	}
}

func TestMetricsEndpoint(t *testing.T) {
	app, _ := setupTestApp(&stubExtractor{err: &engine.NoExtractableTextError{Pages: 1}})

	_, err := app.Test(uploadRequest(t, "s.pdf", []byte("x"), nil))
	require.NoError(t, err)

	resp, err := app.Test(httptest.NewRequest("GET", "/metrics", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), `statement_ledger_extractions_total{outcome="no_text"} 1`)
}

func TestStaticFallback(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "index.html"), []byte("<html>app</html>"), 0o600))

	app := NewApp(&Handler{Extractor: &stubExtractor{}, StaticDir: dir}, 0)

	resp, err := app.Test(httptest.NewRequest("GET", "/reports/2024", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.Equal(t, "<html>app</html>", string(body))

	resp, err = app.Test(httptest.NewRequest("GET", "/api/unknown", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

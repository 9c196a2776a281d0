// Package api serves the statement extraction engine over HTTP.
package api

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/google/uuid"

	"github.com/insightdelivered/statement-ledger/internal/engine"
	"github.com/insightdelivered/statement-ledger/internal/extractor"
	"github.com/insightdelivered/statement-ledger/internal/metrics"
	"github.com/insightdelivered/statement-ledger/internal/models"
	"github.com/insightdelivered/statement-ledger/internal/summary"
	"github.com/insightdelivered/statement-ledger/internal/writer"
)

// Version is reported by the health endpoint and the CLI.
const Version = "1.0.0"

// Extractor turns uploaded statement bytes into a ledger.
type Extractor interface {
	ExtractStatement(ctx context.Context, data []byte) (*models.Statement, error)
}

// ConvertResponse is the JSON response from the /api/convert endpoint.
type ConvertResponse struct {
	Success      bool                 `json:"success"`
	Error        string               `json:"error,omitempty"`
	RunID        string               `json:"runId,omitempty"`
	Transactions []models.Transaction `json:"transactions"`
	Summary      *summary.Summary     `json:"summary,omitempty"`
	Format       string               `json:"format,omitempty"`
	Output       string               `json:"output,omitempty"` // base64 for xlsx
	Pages        int                  `json:"pages,omitempty"`
	DebugLines   []models.DebugLine   `json:"debugLines,omitempty"`
}

// Handler holds the HTTP handlers for the API.
type Handler struct {
	Extractor Extractor
	Logger    *slog.Logger
	Metrics   *metrics.Recorder
	StaticDir string
}

// NewApp builds a fiber app with the API routes registered. maxUploadMB
// bounds the request body.
func NewApp(h *Handler, maxUploadMB int) *fiber.App {
	if maxUploadMB <= 0 {
		maxUploadMB = 32
	}
	app := fiber.New(fiber.Config{
		AppName:               "statement-ledger",
		BodyLimit:             maxUploadMB << 20,
		DisableStartupMessage: true,
	})
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "POST, GET, OPTIONS",
		AllowHeaders: "Content-Type",
	}))
	h.RegisterRoutes(app)
	return app
}

// RegisterRoutes sets up the HTTP routes.
func (h *Handler) RegisterRoutes(app *fiber.App) {
	app.Get("/api/health", h.HandleHealth)
	app.Post("/api/convert", h.HandleConvert)
	if h.Metrics != nil {
		app.Get("/metrics", adaptor.HTTPHandler(h.Metrics.Handler()))
	}

	// Serve the SPA build; unknown non-API paths fall back to index.html.
	if h.StaticDir != "" {
		app.Static("/", h.StaticDir)
		app.Get("/*", func(c *fiber.Ctx) error {
			if strings.HasPrefix(c.Path(), "/api/") {
				return fiber.ErrNotFound
			}
			index := filepath.Join(h.StaticDir, "index.html")
			if _, err := os.Stat(index); err != nil {
				return fiber.ErrNotFound
			}
			return c.SendFile(index)
		})
	}
}

// HandleHealth reports liveness.
func (h *Handler) HandleHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "ok",
		"version": Version,
		"engine":  "fiber",
	})
}

// HandleConvert extracts the ledger from an uploaded PDF. Form fields:
// file (required), format (csv, xlsx or json; default csv) and header
// ("false" drops the CSV header row).
func (h *Handler) HandleConvert(c *fiber.Ctx) error {
	header, err := c.FormFile("file")
	if err != nil {
		return writeError(c, fiber.StatusBadRequest, "No file uploaded. Use form field 'file'.")
	}
	if !strings.HasSuffix(strings.ToLower(header.Filename), ".pdf") {
		return writeError(c, fiber.StatusBadRequest, "Only PDF files are supported.")
	}

	format := strings.ToLower(c.FormValue("format", "csv"))
	w, err := writer.New(format, c.FormValue("header") != "false")
	if err != nil {
		return writeError(c, fiber.StatusBadRequest, err.Error())
	}

	file, err := header.Open()
	if err != nil {
		return writeError(c, fiber.StatusBadRequest, "Failed to read uploaded file.")
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return writeError(c, fiber.StatusBadRequest, "Failed to read uploaded file.")
	}

	runID := uuid.NewString()
	logger := h.logger().With("run_id", runID, "file", header.Filename, "bytes", len(data))

	start := time.Now()
	info, err := h.Extractor.ExtractStatement(c.UserContext(), data)
	outcome, status := classify(err)

	var count int
	if info != nil {
		count = len(info.Transactions)
	}
	h.Metrics.Observe(outcome, count, time.Since(start))

	if err != nil {
		logger.Warn("extraction failed", "outcome", outcome, "error", err)
		resp := ConvertResponse{Success: false, Error: err.Error(), RunID: runID}
		return c.Status(status).JSON(resp)
	}
	logger.Info("extraction complete", "transactions", count, "pages", info.PageCount)

	var out bytes.Buffer
	if err := w.Write(&out, info); err != nil {
		logger.Error("rendering failed", "format", format, "error", err)
		return writeError(c, fiber.StatusInternalServerError, err.Error())
	}
	output := out.String()
	if format == "xlsx" {
		output = base64.StdEncoding.EncodeToString(out.Bytes())
	}

	sum := summary.Compute(info.Transactions)
	return c.JSON(ConvertResponse{
		Success:      true,
		RunID:        runID,
		Transactions: info.Transactions,
		Summary:      &sum,
		Format:       format,
		Output:       output,
		Pages:        info.PageCount,
		DebugLines:   info.DebugLines,
	})
}

func (h *Handler) logger() *slog.Logger {
	if h.Logger == nil {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return h.Logger
}

// classify maps an extraction error to its metrics outcome and HTTP status.
func classify(err error) (string, int) {
	var formatErr *extractor.DocumentFormatError
	var noText *engine.NoExtractableTextError
	var noTxns *engine.NoTransactionsRecognizedError

	switch {
	case err == nil:
		return metrics.OutcomeOK, fiber.StatusOK
	case errors.As(err, &formatErr):
		return metrics.OutcomeFormatError, fiber.StatusBadRequest
	case errors.As(err, &noText):
		return metrics.OutcomeNoText, fiber.StatusUnprocessableEntity
	case errors.As(err, &noTxns):
		return metrics.OutcomeNoTransactions, fiber.StatusUnprocessableEntity
	default:
		return metrics.OutcomeError, fiber.StatusInternalServerError
	}
}

func writeError(c *fiber.Ctx, status int, msg string) error {
	return c.Status(status).JSON(ConvertResponse{
		Success: false,
		Error:   msg,
	})
}

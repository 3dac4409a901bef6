package handler

import (
	"context"
	"errors"
	"io"
	"log"
	"time"

	"github.com/fadilmartias/pitch-grader/internal/dto"
	"github.com/fadilmartias/pitch-grader/internal/middleware"
	"github.com/fadilmartias/pitch-grader/internal/model"
	"github.com/fadilmartias/pitch-grader/internal/repository"
	"github.com/fadilmartias/pitch-grader/internal/util"
	"github.com/gofiber/fiber/v2"
	"github.com/valyala/fasthttp"
)

type GradeUsecaseInterface interface {
	Grade(ctx context.Context, doc model.Document) (model.GradingResult, error)
	ListRuns(limit int) []dto.RunSummaryDTO
	GetRun(runID string) (model.GradingResult, bool)
}

type GradeHandler struct {
	uc GradeUsecaseInterface
}

func NewGradeHandler(uc GradeUsecaseInterface) *GradeHandler {
	return &GradeHandler{uc: uc}
}

func (h *GradeHandler) RegisterRoutes(app *fiber.App) {
	api := app.Group("/api")
	api.Post("/grade", middleware.RateLimiter(10, 1*time.Minute), h.Grade)
	api.Get("/runs", h.ListRuns)
	api.Get("/runs/:id", h.GetRun)
}

func (h *GradeHandler) Grade(c *fiber.Ctx) error {
	doc, err := h.readDocument(c, "file")
	if err != nil {
		if errors.Is(err, errNoFile) {
			return util.ErrorResponse(c, util.ErrorResponseFormat{
				Code:    fiber.StatusBadRequest,
				Message: "No file uploaded",
			})
		}
		log.Printf("[grade] upload failed: %v", err)
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code:    fiber.StatusBadRequest,
			Message: util.ErrUploadFailure.Error(),
			Detail:  err.Error(),
		})
	}

	result, err := h.uc.Grade(c.UserContext(), doc)
	if err != nil {
		var cfgErr *util.ConfigurationError
		if errors.As(err, &cfgErr) {
			log.Printf("[grade] configuration error: %v", err)
			return util.ErrorResponse(c, util.ErrorResponseFormat{Message: cfgErr.Error()})
		}
		log.Printf("[grade] unexpected error: %v", err)
		return util.ErrorResponse(c, util.ErrorResponseFormat{})
	}

	return c.Status(fiber.StatusOK).JSON(result)
}

var errNoFile = errors.New("no file uploaded")

func (h *GradeHandler) readDocument(c *fiber.Ctx, fieldName string) (model.Document, error) {
	form, err := c.MultipartForm()
	if err != nil {
		if errors.Is(err, fasthttp.ErrNoMultipartForm) {
			return model.Document{}, errNoFile
		}
		return model.Document{}, err
	}

	files := form.File[fieldName]
	if len(files) == 0 {
		return model.Document{}, errNoFile
	}
	file := files[0]

	f, err := file.Open()
	if err != nil {
		return model.Document{}, err
	}
	defer f.Close()

	content, err := io.ReadAll(f)
	if err != nil {
		return model.Document{}, err
	}

	return model.Document{
		Content:  content,
		Filename: file.Filename,
		Ext:      util.DocumentExt(file.Filename),
	}, nil
}

func (h *GradeHandler) ListRuns(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", repository.DefaultListLimit)
	return c.JSON(h.uc.ListRuns(limit))
}

func (h *GradeHandler) GetRun(c *fiber.Ctx) error {
	run, ok := h.uc.GetRun(c.Params("id"))
	if !ok {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code:    fiber.StatusNotFound,
			Message: "Not found",
		})
	}
	return c.JSON(run)
}

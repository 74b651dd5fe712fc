package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yanqian/faq-chatbot/internal/domain/question"
	"github.com/yanqian/faq-chatbot/internal/domain/resolution"
	"github.com/yanqian/faq-chatbot/internal/domain/schema"
	apperrors "github.com/yanqian/faq-chatbot/pkg/errors"
)

// Handler wires the HTTP transport to domain services.
type Handler struct {
	questionSvc question.Service
	schemaSvc   schema.Service
	logger      *slog.Logger
}

// NewHandler constructs the root HTTP handler.
func NewHandler(questionSvc question.Service, schemaSvc schema.Service, logger *slog.Logger) *Handler {
	return &Handler{
		questionSvc: questionSvc,
		schemaSvc:   schemaSvc,
		logger:      logger.With("component", "http.handler"),
	}
}

type submitRequest struct {
	Question string `json:"question"`
}

// SubmitQuestion creates a question record; the answer arrives through the
// live stream once the pipeline resolves it.
func (h *Handler) SubmitQuestion(c *gin.Context) {
	var req submitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", errMessage(err), err))
		return
	}

	askedBy := "anonymous"
	if claims, ok := getClaims(c); ok {
		askedBy = claims.Subject
	}

	record, err := h.questionSvc.Submit(c.Request.Context(), req.Question, askedBy)
	if err != nil {
		status := http.StatusInternalServerError
		if apperrors.IsCode(err, "invalid_input") {
			status = http.StatusBadRequest
		}
		abortWithError(c, NewHTTPError(status, "submit_failed", errMessage(err), err))
		return
	}

	c.JSON(http.StatusCreated, record)
}

// RecentQuestions returns the latest records, newest first.
func (h *Handler) RecentQuestions(c *gin.Context) {
	records, err := h.questionSvc.Recent(c.Request.Context())
	if err != nil {
		abortWithError(c, NewHTTPError(http.StatusInternalServerError, "list_failed", errMessage(err), err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"questions": records})
}

// StreamQuestions pushes question change events over Server-Sent Events.
func (h *Handler) StreamQuestions(c *gin.Context) {
	events, err := h.questionSvc.Watch(c.Request.Context())
	if err != nil {
		abortWithError(c, NewHTTPError(http.StatusInternalServerError, "stream_failed", errMessage(err), err))
		return
	}

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")

	flusher, ok := c.Writer.(http.Flusher)
	if !ok {
		abortWithError(c, NewHTTPError(http.StatusInternalServerError, "stream_unsupported", "streaming not supported", nil))
		return
	}
	flusher.Flush()

	for event := range events {
		payload, err := json.Marshal(event)
		if err != nil {
			h.logger.Error("marshal event failed", "error", err)
			continue
		}
		c.Writer.Write([]byte("data: "))
		c.Writer.Write(payload)
		c.Writer.Write([]byte("\n\n"))
		flusher.Flush()
	}
}

type rateRequest struct {
	Rating int `json:"rating"`
}

// RateQuestion stores the user's rating for an answer.
func (h *Handler) RateQuestion(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", "invalid question id", err))
		return
	}
	var req rateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", errMessage(err), err))
		return
	}
	if err := h.questionSvc.Rate(c.Request.Context(), id, req.Rating); err != nil {
		status := http.StatusInternalServerError
		code := "rate_failed"
		switch {
		case apperrors.IsCode(err, "invalid_input"):
			status = http.StatusBadRequest
			code = "invalid_request"
		case apperrors.IsCode(err, "not_found"):
			status = http.StatusNotFound
			code = "not_found"
		}
		abortWithError(c, NewHTTPError(status, code, errMessage(err), err))
		return
	}
	c.Status(http.StatusNoContent)
}

type adminRequest struct {
	Model string `json:"model"`
}

// SetupSchema recreates the search classes for a model family. The tagged
// result body always comes back with status 200; a failure is data for the
// admin UI, not a transport error.
func (h *Handler) SetupSchema(c *gin.Context) {
	family, ok := h.bindFamily(c)
	if !ok {
		return
	}
	result := h.schemaSvc.Setup(c.Request.Context(), family)
	c.JSON(http.StatusOK, result)
}

// SeedSchema ingests the hosted FAQ dataset into a family's classes.
func (h *Handler) SeedSchema(c *gin.Context) {
	family, ok := h.bindFamily(c)
	if !ok {
		return
	}
	result := h.schemaSvc.Seed(c.Request.Context(), family)
	c.JSON(http.StatusOK, result)
}

func (h *Handler) bindFamily(c *gin.Context) (resolution.ModelFamily, bool) {
	var req adminRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", errMessage(err), err))
		return "", false
	}
	family, valid := resolution.ParseFamily(req.Model)
	if !valid {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", "model must be HuggingFace or OpenAI", nil))
		return "", false
	}
	return family, true
}

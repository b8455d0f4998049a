package handlers

import (
	"log/slog"
	"net/http"

	"github.com/Africall/sote-minimart/internal/core/domain"
	portssvc "github.com/Africall/sote-minimart/internal/core/ports/services"
	"github.com/Africall/sote-minimart/internal/dto"
	"github.com/Africall/sote-minimart/internal/middleware"
	"github.com/gin-gonic/gin"
)

// journalHandler handles HTTP requests related to journals.
type journalHandler struct {
	journalService portssvc.JournalSvcFacade
}

// newJournalHandler creates a new journalHandler.
func newJournalHandler(journalService portssvc.JournalSvcFacade) *journalHandler {
	return &journalHandler{journalService: journalService}
}

// registerJournalRoutes registers journal specific routes
func registerJournalRoutes(rg *gin.RouterGroup, journalService portssvc.JournalSvcFacade) {
	h := newJournalHandler(journalService)

	journals := rg.Group("/journals")
	{
		journals.GET("", h.listJournals)
		journals.POST("/post-all", h.postAll)
		journals.POST("/sources/:source/:sourceID", h.postSource)
		journals.GET("/:journalID", h.getJournal)
		journals.POST("/:journalID/reverse", h.reverseJournal)
	}
}

// getJournal godoc
// @Summary Get a journal entry and its lines
// @Tags journals
// @Produce json
// @Param journalID path string true "Journal ID"
// @Success 200 {object} dto.JournalResponse
// @Failure 404 {object} ErrorResponse "Journal not found"
// @Failure 500 {object} ErrorResponse "Failed to retrieve journal"
// @Security BearerAuth
// @Router /journals/{journalID} [get]
func (h *journalHandler) getJournal(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	journalID := c.Param("journalID")

	journal, err := h.journalService.GetJournal(c.Request.Context(), journalID)
	if err != nil {
		respondError(c, logger.With(slog.String("journal_id", journalID)), err, "Failed to retrieve journal")
		return
	}

	logger.Debug("Journal retrieved successfully", slog.String("journal_id", journalID))
	c.JSON(http.StatusOK, dto.ToJournalResponse(journal))
}

// listJournals godoc
// @Summary List journal entries
// @Description Newest first, paged with a continuation token.
// @Tags journals
// @Produce json
// @Param limit query int false "Page size" default(20)
// @Param nextToken query string false "Token of the next page"
// @Success 200 {object} dto.ListJournalsResponse
// @Failure 400 {object} ErrorResponse
// @Security BearerAuth
// @Router /journals [get]
func (h *journalHandler) listJournals(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var params dto.ListJournalsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Failed to bind query params for ListJournals", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid query parameters: " + err.Error()})
		return
	}

	resp, err := h.journalService.ListJournals(c.Request.Context(), params)
	if err != nil {
		respondError(c, logger, err, "Failed to list journals")
		return
	}
	c.JSON(http.StatusOK, resp)
}

// postSource godoc
// @Summary Post one business event to the journal
// @Description Idempotent: a second call for the same event reports already_posted.
// @Tags journals
// @Produce json
// @Param source path string true "SALE, EXPENSE, SHIFT or RECON"
// @Param sourceID path string true "ID of the business event"
// @Success 200 {object} domain.PostResult
// @Failure 400 {object} ErrorResponse "Unsupported source or unbalanced entry"
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Shift still open"
// @Security BearerAuth
// @Router /journals/sources/{source}/{sourceID} [post]
func (h *journalHandler) postSource(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	source := domain.JournalSource(c.Param("source"))
	sourceID := c.Param("sourceID")

	result, err := h.journalService.Post(c.Request.Context(), source, sourceID)
	if err != nil {
		respondError(c, logger.With(slog.String("source", string(source)), slog.String("source_id", sourceID)), err, "Failed to post journal")
		return
	}
	c.JSON(http.StatusOK, result)
}

// postAll godoc
// @Summary Post every unposted event of a source
// @Tags journals
// @Accept json
// @Produce json
// @Param request body dto.PostAllRequest true "Source to sweep"
// @Success 200 {object} domain.PostAllResult
// @Failure 400 {object} ErrorResponse
// @Security BearerAuth
// @Router /journals/post-all [post]
func (h *journalHandler) postAll(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.PostAllRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for PostAll", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	result, err := h.journalService.PostAll(c.Request.Context(), req.Source)
	if err != nil {
		respondError(c, logger, err, "Failed to post journals")
		return
	}
	logger.Info("Posted unposted events", slog.String("source", string(req.Source)),
		slog.Int("posted", result.Posted), slog.Int("failed", result.Failed))
	c.JSON(http.StatusOK, result)
}

// reverseJournal godoc
// @Summary Reverse a journal entry
// @Description Posts an ADJUST entry with every line's debit and credit swapped. The original stays untouched.
// @Tags journals
// @Produce json
// @Param journalID path string true "Journal ID"
// @Success 201 {object} dto.JournalResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Already reversed"
// @Security BearerAuth
// @Router /journals/{journalID}/reverse [post]
func (h *journalHandler) reverseJournal(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	journalID := c.Param("journalID")
	actorID, _ := middleware.GetUserIDFromContext(c)

	reversal, err := h.journalService.Reverse(c.Request.Context(), journalID, actorID)
	if err != nil {
		respondError(c, logger.With(slog.String("journal_id", journalID)), err, "Failed to reverse journal")
		return
	}

	logger.Info("Journal reversed", slog.String("journal_id", journalID), slog.String("reversal_id", reversal.JournalID))
	c.JSON(http.StatusCreated, dto.ToJournalResponse(reversal))
}

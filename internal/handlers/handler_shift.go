package handlers

import (
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/Africall/sote-minimart/internal/core/domain"
	portssvc "github.com/Africall/sote-minimart/internal/core/ports/services"
	"github.com/Africall/sote-minimart/internal/dto"
	"github.com/Africall/sote-minimart/internal/events"
	"github.com/Africall/sote-minimart/internal/middleware"
	"github.com/gin-gonic/gin"
)

// sseKeepAlive is how often an idle event stream gets a comment line so proxies keep it open.
const sseKeepAlive = 25 * time.Second

// shiftHandler handles shifts, their cash ledger and reconciliations.
type shiftHandler struct {
	shiftService          portssvc.ShiftSvcFacade
	cashLedgerService     portssvc.CashLedgerSvcFacade
	reconciliationService portssvc.ReconciliationSvcFacade
	events                portssvc.ShiftEventSubscriber
}

// registerShiftRoutes registers routes related to shifts.
func registerShiftRoutes(rg *gin.RouterGroup, services *portssvc.ServiceContainer) {
	h := &shiftHandler{
		shiftService:          services.Shift,
		cashLedgerService:     services.CashLedger,
		reconciliationService: services.Reconciliation,
		events:                services.Events,
	}

	shifts := rg.Group("/shifts")
	{
		shifts.POST("", h.startShift)
		shifts.GET("/active", h.getActiveShift)
		shifts.GET("/:shiftID", h.getShift)
		shifts.POST("/:shiftID/end", h.endShift)
		shifts.GET("/:shiftID/balance", h.getBalance)
		shifts.GET("/:shiftID/events", h.streamEvents)
		shifts.GET("/:shiftID/transactions", h.listTransactions)
		shifts.POST("/:shiftID/transactions", h.recordTransaction)
		shifts.POST("/:shiftID/reconcile", h.reconcile)
		shifts.GET("/:shiftID/reconciliations", h.listReconciliations)
	}
}

// startShift godoc
// @Summary Start a shift
// @Description Opens a shift for the logged-in cashier with the given opening float.
// @Tags shifts
// @Accept json
// @Produce json
// @Param shift body dto.StartShiftRequest true "Opening float"
// @Success 201 {object} domain.Shift
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Cashier already has an active shift"
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /shifts [post]
func (h *shiftHandler) startShift(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.StartShiftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for StartShift", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	cashierID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("Cashier ID not found in context")
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	shift, err := h.shiftService.StartShift(c.Request.Context(), cashierID, *req.FloatAmount)
	if err != nil {
		respondError(c, logger, err, "Failed to start shift")
		return
	}
	c.JSON(http.StatusCreated, shift)
}

// getActiveShift godoc
// @Summary Get the caller's active shift
// @Tags shifts
// @Produce json
// @Success 200 {object} domain.Shift
// @Failure 401 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "No active shift"
// @Security BearerAuth
// @Router /shifts/active [get]
func (h *shiftHandler) getActiveShift(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	cashierID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	shift, err := h.shiftService.GetActiveShift(c.Request.Context(), cashierID)
	if err != nil {
		respondError(c, logger, err, "Failed to get active shift")
		return
	}
	c.JSON(http.StatusOK, shift)
}

// getShift godoc
// @Summary Get a shift by ID
// @Tags shifts
// @Produce json
// @Param shiftID path string true "Shift ID"
// @Success 200 {object} domain.Shift
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /shifts/{shiftID} [get]
func (h *shiftHandler) getShift(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	shift, err := h.shiftService.GetShift(c.Request.Context(), c.Param("shiftID"))
	if err != nil {
		respondError(c, logger, err, "Failed to get shift")
		return
	}
	c.JSON(http.StatusOK, shift)
}

// endShift godoc
// @Summary End a shift
// @Description Closes an active shift. Its ledger accepts no further entries.
// @Tags shifts
// @Produce json
// @Param shiftID path string true "Shift ID"
// @Success 200 {object} domain.Shift
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Shift is not active"
// @Security BearerAuth
// @Router /shifts/{shiftID}/end [post]
func (h *shiftHandler) endShift(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	actorID, _ := middleware.GetUserIDFromContext(c)

	shift, err := h.shiftService.EndShift(c.Request.Context(), c.Param("shiftID"), actorID)
	if err != nil {
		respondError(c, logger, err, "Failed to end shift")
		return
	}
	c.JSON(http.StatusOK, shift)
}

// snapshot reads the shift and its balance as one event.
func (h *shiftHandler) snapshot(c *gin.Context, shiftID string) (domain.ShiftEvent, error) {
	ctx := c.Request.Context()
	shift, err := h.shiftService.GetShift(ctx, shiftID)
	if err != nil {
		return domain.ShiftEvent{}, err
	}
	summary, err := h.cashLedgerService.Balance(ctx, shiftID)
	if err != nil {
		return domain.ShiftEvent{}, err
	}
	return domain.ShiftEvent{
		ShiftID: shiftID,
		Seq:     summary.EntryCount,
		Status:  shift.Status,
		Summary: summary,
		At:      time.Now().UTC(),
	}, nil
}

// getBalance godoc
// @Summary Get a shift's cash balance
// @Description Derives the till position from the shift's ledger. Polling fallback for the event stream.
// @Tags shifts
// @Produce json
// @Param shiftID path string true "Shift ID"
// @Success 200 {object} dto.BalanceResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /shifts/{shiftID}/balance [get]
func (h *shiftHandler) getBalance(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	snap, err := h.snapshot(c, c.Param("shiftID"))
	if err != nil {
		respondError(c, logger, err, "Failed to compute balance")
		return
	}
	c.JSON(http.StatusOK, dto.BalanceResponse{ShiftID: snap.ShiftID, Status: snap.Status, Summary: snap.Summary})
}

// streamEvents godoc
// @Summary Stream shift balance updates
// @Description Server-Sent Events; each "balance" event is a full snapshot with a monotonic seq.
// @Description The stream closes after the shift has ended.
// @Tags shifts
// @Produce text/event-stream
// @Param shiftID path string true "Shift ID"
// @Param access_token query string false "JWT for clients that cannot set headers"
// @Success 200 {object} domain.ShiftEvent
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /shifts/{shiftID}/events [get]
func (h *shiftHandler) streamEvents(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	shiftID := c.Param("shiftID")

	// Subscribe before reading the snapshot so nothing published in between is lost.
	stream, cancel := h.events.Subscribe(shiftID)
	defer cancel()

	first, err := h.snapshot(c, shiftID)
	if err != nil {
		respondError(c, logger, err, "Failed to open event stream")
		return
	}

	var tracker events.Tracker
	tracker.Apply(first)
	c.Header("Cache-Control", "no-cache")
	c.Header("X-Accel-Buffering", "no")
	c.SSEvent("balance", first)
	c.Writer.Flush()
	if first.Status == domain.ShiftEnded {
		return
	}

	keepAlive := time.NewTicker(sseKeepAlive)
	defer keepAlive.Stop()

	c.Stream(func(w io.Writer) bool {
		select {
		case <-c.Request.Context().Done():
			return false
		case <-keepAlive.C:
			_, _ = io.WriteString(w, ": keep-alive\n\n")
			return true
		case ev, ok := <-stream:
			if !ok {
				return false
			}
			if !tracker.Apply(ev) {
				logger.Debug("Dropped stale shift event", slog.String("shift_id", shiftID), slog.Int("seq", ev.Seq))
				return true
			}
			c.SSEvent("balance", ev)
			return ev.Status != domain.ShiftEnded
		}
	})
}

// listTransactions godoc
// @Summary List a shift's cash ledger
// @Tags shifts
// @Produce json
// @Param shiftID path string true "Shift ID"
// @Param limit query int false "Page size" default(50)
// @Param nextToken query string false "Token of the next page"
// @Success 200 {object} dto.ListCashTransactionsResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /shifts/{shiftID}/transactions [get]
func (h *shiftHandler) listTransactions(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var params dto.ListCashTransactionsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Failed to bind query params for ListTransactions", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid query parameters: " + err.Error()})
		return
	}

	resp, err := h.cashLedgerService.ListTransactions(c.Request.Context(), c.Param("shiftID"), params)
	if err != nil {
		respondError(c, logger, err, "Failed to list cash transactions")
		return
	}
	c.JSON(http.StatusOK, resp)
}

// recordTransaction godoc
// @Summary Record a manual cash movement
// @Description Appends a cash_in or cash_out entry to an active shift.
// @Tags shifts
// @Accept json
// @Produce json
// @Param shiftID path string true "Shift ID"
// @Param transaction body dto.RecordCashTransactionRequest true "Cash movement"
// @Success 201 {object} domain.CashTransaction
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Shift is not active"
// @Security BearerAuth
// @Router /shifts/{shiftID}/transactions [post]
func (h *shiftHandler) recordTransaction(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.RecordCashTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for RecordTransaction", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}
	actorID, _ := middleware.GetUserIDFromContext(c)

	txn, err := h.cashLedgerService.Record(c.Request.Context(), c.Param("shiftID"), actorID, req.Type, *req.Amount, req.Description)
	if err != nil {
		respondError(c, logger, err, "Failed to record cash transaction")
		return
	}
	c.JSON(http.StatusCreated, txn)
}

// reconcile godoc
// @Summary Reconcile a shift's cash
// @Description Compares the counted cash with the computed balance and books any difference as an adjustment.
// @Tags shifts
// @Accept json
// @Produce json
// @Param shiftID path string true "Shift ID"
// @Param count body dto.ReconcileRequest true "Counted cash"
// @Success 201 {object} domain.ReconciliationResult
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Shift is not active"
// @Security BearerAuth
// @Router /shifts/{shiftID}/reconcile [post]
func (h *shiftHandler) reconcile(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.ReconcileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for Reconcile", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}
	actorID, _ := middleware.GetUserIDFromContext(c)

	result, err := h.reconciliationService.Reconcile(c.Request.Context(), c.Param("shiftID"), actorID, *req.DeclaredAmount)
	if err != nil {
		respondError(c, logger, err, "Failed to reconcile shift")
		return
	}
	c.JSON(http.StatusCreated, result)
}

// listReconciliations godoc
// @Summary List a shift's reconciliations
// @Tags shifts
// @Produce json
// @Param shiftID path string true "Shift ID"
// @Success 200 {array} domain.CashReconciliation
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /shifts/{shiftID}/reconciliations [get]
func (h *shiftHandler) listReconciliations(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	recs, err := h.reconciliationService.ListReconciliations(c.Request.Context(), c.Param("shiftID"))
	if err != nil {
		respondError(c, logger, err, "Failed to list reconciliations")
		return
	}
	c.JSON(http.StatusOK, recs)
}

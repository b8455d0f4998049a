package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Africall/sote-minimart/internal/apperrors"
	"github.com/Africall/sote-minimart/internal/core/domain"
	"github.com/Africall/sote-minimart/internal/core/services"
	"github.com/Africall/sote-minimart/internal/dto"
	"github.com/Africall/sote-minimart/internal/events"
	"github.com/Africall/sote-minimart/internal/middleware"
	"github.com/Africall/sote-minimart/internal/platform/chart"
	"github.com/Africall/sote-minimart/internal/platform/config"
	"github.com/Africall/sote-minimart/internal/repositories/database/sqlite"
	"github.com/Africall/sote-minimart/internal/utils"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

const testSecret = "handler-test-secret-that-is-long-enough"

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{apperrors.NewValidationError("bad"), http.StatusBadRequest},
		{services.ErrEmptyCart, http.StatusBadRequest},
		{services.ErrInvalidCredentials, http.StatusUnauthorized},
		{fmt.Errorf("wrapped: %w", apperrors.ErrForbidden), http.StatusForbidden},
		{apperrors.NewNotFoundError("shift", "s1"), http.StatusNotFound},
		{services.ErrNoActiveShift, http.StatusConflict},
		{services.ErrInsufficientStock, http.StatusConflict},
		{fmt.Errorf("%w: journal", apperrors.ErrDuplicate), http.StatusConflict},
		{fmt.Errorf("%w: db down", apperrors.ErrUnavailable), http.StatusServiceUnavailable},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			assert.Equal(t, tt.want, statusFor(tt.err))
		})
	}
}

type TillAPITestSuite struct {
	suite.Suite
	router *gin.Engine
	store  *sqlite.Store
	token  string
}

func (s *TillAPITestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	ctx := context.Background()

	store, err := sqlite.New(":memory:")
	s.Require().NoError(err)
	s.store = store

	coa, err := chart.Default()
	s.Require().NoError(err)
	repos := store.Repositories()
	s.Require().NoError(repos.AccountRepo.UpsertAccounts(ctx, coa.Accounts))

	cfg := &config.Config{
		IsProduction:         true,
		JWTSecret:            testSecret,
		JWTExpiryDuration:    time.Hour,
		JWTIssuer:            "till-test",
		VATRate:              decimal.RequireFromString("0.16"),
		StockShortfallPolicy: string(domain.StockBestEffort),
		PostingWorkers:       1,
		PostingQueueSize:     64,
	}
	rt, err := services.NewServiceContainer(cfg, repos, store, coa, events.NewBroker(4, nil), nil)
	s.Require().NoError(err)

	_, err = rt.Services.Auth.RegisterCashier(ctx, "cashier-1", "Wanjiru", "4321")
	s.Require().NoError(err)
	s.Require().NoError(repos.StockRepo.UpsertProduct(ctx, domain.Product{ProductID: "bread", Name: "Bread 400g", Stock: 10}))

	s.router = gin.New()
	s.router.Use(middleware.StructuredLoggingMiddleware(nil))
	s.Require().NoError(RegisterRoutes(s.router, cfg, rt.Services, nil))

	s.token, _, err = utils.IssueTillToken("cashier-1", testSecret, cfg.JWTIssuer, time.Hour, time.Now())
	s.Require().NoError(err)
}

func (s *TillAPITestSuite) TearDownTest() {
	s.store.Close()
}

func (s *TillAPITestSuite) do(method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	if s.token != "" {
		req.Header.Set("Authorization", "Bearer "+s.token)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *TillAPITestSuite) decode(w *httptest.ResponseRecorder, v any) {
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), v), w.Body.String())
}

func (s *TillAPITestSuite) TestHealth() {
	w := s.do(http.MethodGet, "/health", "")
	s.Equal(http.StatusOK, w.Code)
	s.Equal("OK", w.Body.String())
}

func (s *TillAPITestSuite) TestLogin() {
	s.token = ""

	w := s.do(http.MethodPost, "/auth/login", `{"cashierID":"cashier-1","pin":"0000"}`)
	s.Equal(http.StatusUnauthorized, w.Code)

	w = s.do(http.MethodPost, "/auth/login", `{"cashierID":"cashier-1"}`)
	s.Equal(http.StatusBadRequest, w.Code)

	w = s.do(http.MethodPost, "/auth/login", `{"cashierID":"cashier-1","pin":"4321"}`)
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	var resp dto.LoginResponse
	s.decode(w, &resp)

	subject, err := utils.ParseTillToken(resp.Token, testSecret)
	s.Require().NoError(err)
	s.Equal("cashier-1", subject)
}

func (s *TillAPITestSuite) TestAPIRequiresToken() {
	s.token = ""
	w := s.do(http.MethodPost, "/api/v1/shifts", `{"floatAmount":"500"}`)
	s.Equal(http.StatusUnauthorized, w.Code)
}

func (s *TillAPITestSuite) TestShiftLifecycle() {
	w := s.do(http.MethodPost, "/api/v1/shifts", `{"floatAmount":"500"}`)
	s.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	var shift domain.Shift
	s.decode(w, &shift)
	s.Equal("cashier-1", shift.CashierID)
	s.Equal(domain.ShiftActive, shift.Status)

	w = s.do(http.MethodPost, "/api/v1/shifts", `{"floatAmount":"100"}`)
	s.Equal(http.StatusConflict, w.Code)

	w = s.do(http.MethodGet, "/api/v1/shifts/active", "")
	s.Equal(http.StatusOK, w.Code)

	// Two loaves paid with 120 cash: sale 100, change 20.
	w = s.do(http.MethodPost, "/api/v1/checkout",
		`{"items":[{"productID":"bread","quantity":2,"unitPrice":"50"}],"paymentMethod":"cash","cashReceived":"120"}`)
	s.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	var sale domain.CheckoutResult
	s.decode(w, &sale)
	s.True(sale.Change.Equal(decimal.RequireFromString("20")))
	s.Empty(sale.StockWarnings)

	w = s.do(http.MethodPost, "/api/v1/shifts/"+shift.ShiftID+"/transactions", `{"type":"cash_out","amount":"30","description":"Float to safe"}`)
	s.Require().Equal(http.StatusCreated, w.Code, w.Body.String())

	w = s.do(http.MethodPost, "/api/v1/shifts/"+shift.ShiftID+"/transactions", `{"type":"sale","amount":"30"}`)
	s.Equal(http.StatusBadRequest, w.Code)

	w = s.do(http.MethodGet, "/api/v1/shifts/"+shift.ShiftID+"/balance", "")
	s.Require().Equal(http.StatusOK, w.Code)
	var balance dto.BalanceResponse
	s.decode(w, &balance)
	s.True(balance.Summary.Balance.Equal(decimal.RequireFromString("550")), balance.Summary.Balance.String())

	w = s.do(http.MethodGet, "/api/v1/shifts/"+shift.ShiftID+"/transactions?limit=2", "")
	s.Require().Equal(http.StatusOK, w.Code)
	var page dto.ListCashTransactionsResponse
	s.decode(w, &page)
	s.Len(page.Transactions, 2)
	s.NotNil(page.NextToken)

	w = s.do(http.MethodPost, "/api/v1/shifts/"+shift.ShiftID+"/reconcile", `{"declaredAmount":"540"}`)
	s.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	var recon domain.ReconciliationResult
	s.decode(w, &recon)
	s.Equal(domain.ReconciliationShort, recon.Status)
	s.True(recon.BalanceAfter.Equal(decimal.RequireFromString("540")))

	w = s.do(http.MethodGet, "/api/v1/shifts/"+shift.ShiftID+"/reconciliations", "")
	s.Equal(http.StatusOK, w.Code)

	w = s.do(http.MethodPost, "/api/v1/shifts/"+shift.ShiftID+"/end", "")
	s.Require().Equal(http.StatusOK, w.Code)
	w = s.do(http.MethodPost, "/api/v1/shifts/"+shift.ShiftID+"/end", "")
	s.Equal(http.StatusConflict, w.Code)

	w = s.do(http.MethodGet, "/api/v1/shifts/unknown", "")
	s.Equal(http.StatusNotFound, w.Code)

	w = s.do(http.MethodPost, "/api/v1/journals/sources/SALE/"+sale.Sale.SaleID, "")
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	var posted domain.PostResult
	s.decode(w, &posted)
	s.Equal(domain.PostPosted, posted.Status)

	w = s.do(http.MethodPost, "/api/v1/journals/sources/SALE/"+sale.Sale.SaleID, "")
	s.decode(w, &posted)
	s.Equal(domain.PostAlreadyPosted, posted.Status)

	w = s.do(http.MethodGet, "/api/v1/journals/"+posted.JournalID, "")
	s.Require().Equal(http.StatusOK, w.Code)
	var journal dto.JournalResponse
	s.decode(w, &journal)
	s.Equal(domain.SourceSale, journal.Source)
	s.NotEmpty(journal.Lines)

	w = s.do(http.MethodPost, "/api/v1/journals/post-all", `{"source":"SHIFT"}`)
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	var swept domain.PostAllResult
	s.decode(w, &swept)
	s.Equal(1, swept.Posted)

	w = s.do(http.MethodGet, "/api/v1/journals?limit=10", "")
	s.Require().Equal(http.StatusOK, w.Code)
	var list dto.ListJournalsResponse
	s.decode(w, &list)
	s.Len(list.Journals, 2)
}

func (s *TillAPITestSuite) TestCheckoutErrors() {
	w := s.do(http.MethodPost, "/api/v1/checkout", `{"items":[],"paymentMethod":"mpesa"}`)
	s.Equal(http.StatusBadRequest, w.Code)

	w = s.do(http.MethodPost, "/api/v1/checkout", `{"items":[{"productID":"bread","quantity":1,"unitPrice":"50"}],"paymentMethod":"cheque"}`)
	s.Equal(http.StatusBadRequest, w.Code)

	// Cash needs an open shift.
	w = s.do(http.MethodPost, "/api/v1/checkout", `{"items":[{"productID":"bread","quantity":1,"unitPrice":"50"}],"paymentMethod":"cash","cashReceived":"50"}`)
	s.Equal(http.StatusConflict, w.Code)
}

func (s *TillAPITestSuite) TestJournalErrors() {
	w := s.do(http.MethodGet, "/api/v1/journals/missing", "")
	s.Equal(http.StatusNotFound, w.Code)

	w = s.do(http.MethodPost, "/api/v1/journals/sources/ADJUST/x", "")
	s.Equal(http.StatusBadRequest, w.Code)

	w = s.do(http.MethodGet, "/api/v1/journals?nextToken=%25%25", "")
	s.Equal(http.StatusBadRequest, w.Code)

	w = s.do(http.MethodPost, "/api/v1/journals/post-all", `{"source":"ADJUST"}`)
	s.Equal(http.StatusBadRequest, w.Code)
}

func TestTillAPITestSuite(t *testing.T) {
	suite.Run(t, new(TillAPITestSuite))
}

func TestLoginRoute_Throttled(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	require.Error(t, registerAuthRoutes(r, nil, "lots"))

	r = gin.New()
	require.NoError(t, registerAuthRoutes(r, nil, "1-M"))

	login := func() int {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(`{`)))
		return w.Code
	}
	assert.Equal(t, http.StatusBadRequest, login())
	assert.Equal(t, http.StatusTooManyRequests, login())
}

func TestRespondError_HidesInternalDetail(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	respondError(c, middleware.GetLoggerFromCtx(context.Background()), errors.New("pq: connection reset"), "Failed to list journals")

	require.Equal(t, http.StatusInternalServerError, w.Code)
	var body ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "Failed to list journals", body.Error)
}

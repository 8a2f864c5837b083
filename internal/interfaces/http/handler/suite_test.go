package handler

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	appfinance "github.com/Ethics03/shiv-odoo/internal/application/finance"
	domain "github.com/Ethics03/shiv-odoo/internal/domain/finance"
	"github.com/Ethics03/shiv-odoo/internal/infrastructure/cache"
	"github.com/Ethics03/shiv-odoo/internal/infrastructure/persistence"
	"github.com/Ethics03/shiv-odoo/internal/interfaces/http/dto"
	"github.com/Ethics03/shiv-odoo/internal/interfaces/http/middleware"
	"github.com/Ethics03/shiv-odoo/internal/interfaces/http/router"
)

// testEnv wires the full HTTP stack over an in-memory database
type testEnv struct {
	engine  *gin.Engine
	repos   *persistence.RepositorySet
	gateway domain.PaymentGateway
	actorID uuid.UUID
}

func newTestEnv(t *testing.T, gateway domain.PaymentGateway) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=private"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(persistence.AllModels()...))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})

	logger := zap.NewNop()
	repos := persistence.NewRepositorySet(db)
	uow := persistence.NewUnitOfWork(db)

	idem := cache.NewInMemoryIdempotencyStore()
	t.Cleanup(func() { idem.Close() })

	registry := appfinance.NewRegistryService(repos, logger)
	ledger := appfinance.NewLedgerService(uow, logger)
	settlements := appfinance.NewSettlementService(uow, appfinance.SettlementSettings{}, logger)

	env := &testEnv{engine: gin.New(), repos: repos, actorID: uuid.New()}
	env.engine.Use(middleware.RequestID(), middleware.Actor())

	r := router.NewRouter(env.engine)
	r.Register(NewSystemHandler())
	r.Register(NewAccountHandler(registry))
	r.Register(NewLedgerHandler(ledger))
	if gateway != nil {
		env.gateway = gateway
		broker := appfinance.NewOrderBrokerService(gateway, repos, uow, "INR", logger)
		callback := appfinance.NewCallbackService(gateway, repos, settlements, idem, time.Hour, logger)
		r.Register(NewPaymentHandler(broker, callback))
	}
	r.Setup()

	return env
}

// do runs a request through the engine with the test actor header set
func (e *testEnv) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(encoded)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(middleware.ActorIDHeader, e.actorID.String())

	w := httptest.NewRecorder()
	e.engine.ServeHTTP(w, req)
	return w
}

// decode unmarshals the standard envelope
func decode(t *testing.T, w *httptest.ResponseRecorder) dto.Response {
	t.Helper()
	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func errorCode(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	resp := decode(t, w)
	require.NotNil(t, resp.Error)
	return resp.Error.Code
}

// assertDomainCode verifies a response carries the expected error code
func assertDomainCode(t *testing.T, w *httptest.ResponseRecorder, status int, code string) {
	t.Helper()
	require.Equal(t, status, w.Code)
	require.Equal(t, code, errorCode(t, w))
}

func mustAccount(t *testing.T, code, name string, kind domain.AccountKind, parentID *uuid.UUID) *domain.ChartAccount {
	t.Helper()
	account, err := domain.NewChartAccount(code, name, kind, parentID, decimal.Zero, uuid.New())
	require.NoError(t, err)
	return account
}

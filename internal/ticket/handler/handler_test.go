package handler_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"turnero/internal/catalog"
	cataloghandler "turnero/internal/catalog/handler"
	"turnero/internal/platform/logger"
	"turnero/internal/platform/token"
	"turnero/internal/ticket/handler"
	"turnero/internal/ticket/models"
	"turnero/internal/ticket/service"
	"turnero/internal/ticket/store"
	httptransport "turnero/internal/transport/http"
	id "turnero/pkg/domain"
	"turnero/pkg/testutil"
)

type env struct {
	router   http.Handler
	tokens   *token.Manager
	mem      *store.Memory
	creditID id.ServiceID
	branchID id.BranchID
	counter  *models.Counter
}

func newEnv(t *testing.T) *env {
	t.Helper()

	mem := store.NewMemory()
	cat := catalog.NewInMemory()
	log := logger.New()
	tokens := token.NewManager("test-signing-key", time.Hour)

	creditID := id.NewServiceID()
	branchID := id.NewBranchID()
	now := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	cat.PutService(&catalog.Service{ID: creditID, Name: "Solicitud de crédito", CreatedAt: now})
	cat.PutBranch(&catalog.Branch{ID: branchID, Name: "Sucursal Centro", Code: "SC01", CreatedAt: now})

	counter := &models.Counter{
		ID:        id.NewCounterID(),
		Label:     "V1",
		BranchID:  branchID,
		Services:  []id.ServiceID{creditID},
		CreatedAt: now.Add(-time.Hour),
		UpdatedAt: now.Add(-time.Hour),
	}
	require.NoError(t, mem.Counters().Insert(context.Background(), counter))

	svc := service.New(mem, mem.Counters(), cat, mem, service.WithLogger(log))
	router := httptransport.NewRouter(httptransport.Dependencies{
		Logger:         log,
		RequestTimeout: 5 * time.Second,
		Catalog:        cataloghandler.New(cat, log),
		Tickets:        handler.New(svc, tokens, log),
	})

	return &env{
		router:   router,
		tokens:   tokens,
		mem:      mem,
		creditID: creditID,
		branchID: branchID,
		counter:  counter,
	}
}

func (e *env) operatorToken(t *testing.T) string {
	t.Helper()
	signed, err := e.tokens.Issue(e.counter.ID, e.branchID, time.Now())
	require.NoError(t, err)
	return signed
}

func (e *env) createTicket(t *testing.T) models.Ticket {
	t.Helper()
	req := testutil.NewJSONRequest(t, http.MethodPost, "/api/turnos", map[string]string{
		"client_first_name": "Ana",
		"client_last_name":  "García",
		"service_id":        e.creditID.String(),
		"branch_id":         e.branchID.String(),
	})
	rr := testutil.DoRequest(e.router, req)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	var ticket models.Ticket
	testutil.DecodeJSON(t, rr, &ticket)
	return ticket
}

func TestCreateTicket(t *testing.T) {
	e := newEnv(t)

	t.Run("creates and binds the idle counter", func(t *testing.T) {
		ticket := e.createTicket(t)
		assert.Equal(t, "S001", ticket.Number)
		assert.Equal(t, models.StatusWaiting, ticket.Status)
		assert.Equal(t, e.counter.ID, ticket.CounterID)
	})

	t.Run("rejects malformed JSON", func(t *testing.T) {
		req := testutil.NewRequestWithBody(t, http.MethodPost, "/api/turnos", "{not json")
		rr := testutil.DoRequest(e.router, req)
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("rejects blank names with 422", func(t *testing.T) {
		req := testutil.NewJSONRequest(t, http.MethodPost, "/api/turnos", map[string]string{
			"client_first_name": "  ",
			"client_last_name":  "García",
			"service_id":        e.creditID.String(),
			"branch_id":         e.branchID.String(),
		})
		rr := testutil.DoRequest(e.router, req)
		assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
	})

	t.Run("rejects a non-UUID service id with 422", func(t *testing.T) {
		req := testutil.NewJSONRequest(t, http.MethodPost, "/api/turnos", map[string]string{
			"client_first_name": "Ana",
			"client_last_name":  "García",
			"service_id":        "not-a-uuid",
			"branch_id":         e.branchID.String(),
		})
		rr := testutil.DoRequest(e.router, req)
		assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
	})

	t.Run("unknown service yields 404", func(t *testing.T) {
		req := testutil.NewJSONRequest(t, http.MethodPost, "/api/turnos", map[string]string{
			"client_first_name": "Ana",
			"client_last_name":  "García",
			"service_id":        id.NewServiceID().String(),
			"branch_id":         e.branchID.String(),
		})
		rr := testutil.DoRequest(e.router, req)
		assert.Equal(t, http.StatusNotFound, rr.Code)
	})
}

func TestOperatorAuth(t *testing.T) {
	e := newEnv(t)

	t.Run("missing token yields 401", func(t *testing.T) {
		req := testutil.NewRequest(t, http.MethodGet, "/api/monitor/turno")
		rr := testutil.DoRequest(e.router, req)
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("garbage token yields 401", func(t *testing.T) {
		req := testutil.NewRequest(t, http.MethodGet, "/api/monitor/turno")
		req.Header.Set("Authorization", "Bearer not.a.token")
		rr := testutil.DoRequest(e.router, req)
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("expired token yields 401", func(t *testing.T) {
		expired, err := e.tokens.Issue(e.counter.ID, e.branchID, time.Now().Add(-48*time.Hour))
		require.NoError(t, err)
		req := testutil.NewRequest(t, http.MethodGet, "/api/monitor/turno")
		req.Header.Set("Authorization", "Bearer "+expired)
		rr := testutil.DoRequest(e.router, req)
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})
}

func TestMonitorAcceptFinalizeFlow(t *testing.T) {
	e := newEnv(t)
	bearer := "Bearer " + e.operatorToken(t)

	ticket := e.createTicket(t)

	// monitor shows the reserved ticket
	req := testutil.NewRequest(t, http.MethodGet, "/api/monitor/turno")
	req.Header.Set("Authorization", bearer)
	rr := testutil.DoRequest(e.router, req)
	require.Equal(t, http.StatusOK, rr.Code)
	var shown models.Ticket
	testutil.DecodeJSON(t, rr, &shown)
	assert.Equal(t, ticket.ID, shown.ID)

	// accept
	req = testutil.NewJSONRequest(t, http.MethodPost, "/api/turnos/"+ticket.ID.String()+"/aceptar", nil)
	req.Header.Set("Authorization", bearer)
	rr = testutil.DoRequest(e.router, req)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	var accepted models.Ticket
	testutil.DecodeJSON(t, rr, &accepted)
	assert.Equal(t, models.StatusServing, accepted.Status)

	// finalize
	req = testutil.NewJSONRequest(t, http.MethodPost, "/api/turnos/"+ticket.ID.String()+"/finalizar", nil)
	req.Header.Set("Authorization", bearer)
	rr = testutil.DoRequest(e.router, req)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	var completed models.Ticket
	testutil.DecodeJSON(t, rr, &completed)
	assert.Equal(t, models.StatusCompleted, completed.Status)

	// second finalize is not a silent success
	req = testutil.NewJSONRequest(t, http.MethodPost, "/api/turnos/"+ticket.ID.String()+"/finalizar", nil)
	req.Header.Set("Authorization", bearer)
	rr = testutil.DoRequest(e.router, req)
	assert.Equal(t, http.StatusForbidden, rr.Code)

	// monitor is now empty
	req = testutil.NewRequest(t, http.MethodGet, "/api/monitor/turno")
	req.Header.Set("Authorization", bearer)
	rr = testutil.DoRequest(e.router, req)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "null\n", rr.Body.String())
}

func TestAcceptErrors(t *testing.T) {
	e := newEnv(t)
	bearer := "Bearer " + e.operatorToken(t)

	t.Run("foreign counter yields 403", func(t *testing.T) {
		ticket := e.createTicket(t)

		other, err := e.tokens.Issue(id.NewCounterID(), e.branchID, time.Now())
		require.NoError(t, err)
		req := testutil.NewJSONRequest(t, http.MethodPost, "/api/turnos/"+ticket.ID.String()+"/aceptar", nil)
		req.Header.Set("Authorization", "Bearer "+other)
		rr := testutil.DoRequest(e.router, req)
		assert.Equal(t, http.StatusForbidden, rr.Code)
	})

	t.Run("unknown ticket yields 404", func(t *testing.T) {
		req := testutil.NewJSONRequest(t, http.MethodPost, "/api/turnos/"+id.NewTicketID().String()+"/aceptar", nil)
		req.Header.Set("Authorization", bearer)
		rr := testutil.DoRequest(e.router, req)
		assert.Equal(t, http.StatusNotFound, rr.Code)
	})

	t.Run("malformed ticket id yields 404", func(t *testing.T) {
		req := testutil.NewJSONRequest(t, http.MethodPost, "/api/turnos/abc/aceptar", nil)
		req.Header.Set("Authorization", bearer)
		rr := testutil.DoRequest(e.router, req)
		assert.Equal(t, http.StatusNotFound, rr.Code)
	})
}

func TestCatalogEndpoints(t *testing.T) {
	e := newEnv(t)

	req := testutil.NewRequest(t, http.MethodGet, "/api/servicios")
	rr := testutil.DoRequest(e.router, req)
	require.Equal(t, http.StatusOK, rr.Code)
	var services []catalog.Service
	testutil.DecodeJSON(t, rr, &services)
	require.Len(t, services, 1)
	assert.Equal(t, "Solicitud de crédito", services[0].Name)

	req = testutil.NewRequest(t, http.MethodGet, "/api/sucursales")
	rr = testutil.DoRequest(e.router, req)
	require.Equal(t, http.StatusOK, rr.Code)
	var branches []catalog.Branch
	testutil.DecodeJSON(t, rr, &branches)
	require.Len(t, branches, 1)
	assert.Equal(t, "SC01", branches[0].Code)
}

func TestHealthz(t *testing.T) {
	e := newEnv(t)

	req := testutil.NewRequest(t, http.MethodGet, "/healthz")
	rr := testutil.DoRequest(e.router, req)
	assert.Equal(t, http.StatusOK, rr.Code)
}

package http

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"covira/internal/audit"
	"covira/internal/company"
	companyhandler "covira/internal/company/handler"
	"covira/internal/enrollment"
	enrollmenthandler "covira/internal/enrollment/handler"
	"covira/internal/identity"
	"covira/internal/platform/formtoken"
	"covira/internal/quote"
	quotehandler "covira/internal/quote/handler"
	"covira/internal/rating"
	id "covira/pkg/domain"
)

type testServer struct {
	router http.Handler
	jwt    *identity.JWTService
	tokens formtoken.Store
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	logger := slog.New(slog.DiscardHandler)
	jwtService := identity.NewJWTService("router-test-key", "covira")
	formTokens := formtoken.NewMemoryStore(15 * time.Minute)

	table, err := rating.Load("")
	require.NoError(t, err)
	quoteService := quote.NewService(table, quote.DefaultCatalog(), logger, nil)

	recorder := audit.NewRecorder(audit.NewInMemoryStore(), logger, nil)
	companies := company.NewInMemoryStore()
	enrollmentService := enrollment.NewService(enrollment.NewInMemoryStore(), companies, recorder, logger, nil)
	companyService := company.NewService(companies, enrollmentService, logger)

	router := NewRouter(Deps{
		Logger:         logger,
		TokenValidator: jwtService,
		FormTokens:     formTokens,
		Quotes:         quotehandler.New(quoteService, logger),
		Enrollment:     enrollmenthandler.New(enrollmentService, logger),
		Companies:      companyhandler.New(companyService, logger),
	})

	return &testServer{router: router, jwt: jwtService, tokens: formTokens}
}

func (ts *testServer) bearer(t *testing.T, actor id.Actor) string {
	t.Helper()
	token, err := ts.jwt.GenerateAccessToken(actor, time.Hour)
	require.NoError(t, err)
	return "Bearer " + token
}

func (ts *testServer) do(t *testing.T, method, path string, payload any, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, body)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	ts.router.ServeHTTP(rec, req)
	return rec
}

func (ts *testServer) formToken(t *testing.T, auth string) string {
	t.Helper()
	rec := ts.do(t, http.MethodGet, "/form-tokens", nil, map[string]string{"Authorization": auth})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	return resp.Token
}

func TestRouter_Healthz(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodGet, "/healthz", nil, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRouter_Metrics(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodGet, "/metrics", nil, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRouter_RequiresBearerToken(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodPost, "/quotes", map[string]string{}, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = ts.do(t, http.MethodPost, "/quotes", map[string]string{}, map[string]string{
		"Authorization": "Bearer garbage",
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRouter_QuoteFlow(t *testing.T) {
	ts := newTestServer(t)
	auth := ts.bearer(t, id.Actor{ID: id.UserID(uuid.New()), Role: id.RoleEmployer})

	rec := ts.do(t, http.MethodPost, "/quotes", quotehandler.GenerateRequest{
		ZIPCode:       "94102",
		EffectiveDate: "2026-09-01",
		CoverageTypes: []string{"medical"},
	}, map[string]string{"Authorization": auth})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp quotehandler.GenerateResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Len(t, resp.Offers, 9)
}

func TestRouter_EnrollmentFlow(t *testing.T) {
	ts := newTestServer(t)
	owner := id.Actor{ID: id.UserID(uuid.New()), Role: id.RoleEmployer}
	auth := ts.bearer(t, owner)

	// Create a company; its application comes back seeded.
	rec := ts.do(t, http.MethodPost, "/companies", companyhandler.CreateRequest{Name: "Flow Co"},
		map[string]string{
			"Authorization":      auth,
			formtoken.HeaderName: ts.formToken(t, auth),
		})
	require.Equal(t, http.StatusCreated, rec.Code)

	var created companyhandler.CreateResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&created))
	require.NotEmpty(t, created.ApplicationID)

	// Walk a step; each state change spends a fresh form token.
	rec = ts.do(t, http.MethodPost, "/applications/"+created.ApplicationID+"/steps/application-initiator", nil,
		map[string]string{
			"Authorization":      auth,
			formtoken.HeaderName: ts.formToken(t, auth),
		})
	require.Equal(t, http.StatusOK, rec.Code)

	// Submit with a signature.
	rec = ts.do(t, http.MethodPost, "/applications/"+created.ApplicationID+"/submit",
		enrollmenthandler.SubmitRequest{Signature: "Jane Doe"},
		map[string]string{
			"Authorization":      auth,
			formtoken.HeaderName: ts.formToken(t, auth),
		})
	require.Equal(t, http.StatusOK, rec.Code)

	var app enrollmenthandler.ApplicationResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&app))
	assert.Equal(t, "submitted", app.Status)
	assert.Equal(t, "review", app.CurrentStep)

	// Reads need no form token.
	rec = ts.do(t, http.MethodGet, "/applications/"+created.ApplicationID, nil,
		map[string]string{"Authorization": auth})
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRouter_FormTokenGuard(t *testing.T) {
	ts := newTestServer(t)
	auth := ts.bearer(t, id.Actor{ID: id.UserID(uuid.New()), Role: id.RoleEmployer})

	// Missing token.
	rec := ts.do(t, http.MethodPost, "/companies", companyhandler.CreateRequest{Name: "No Token Co"},
		map[string]string{"Authorization": auth})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// A token cannot be spent twice.
	token := ts.formToken(t, auth)
	headers := map[string]string{
		"Authorization":      auth,
		formtoken.HeaderName: token,
	}
	rec = ts.do(t, http.MethodPost, "/companies", companyhandler.CreateRequest{Name: "Once Co"}, headers)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = ts.do(t, http.MethodPost, "/companies", companyhandler.CreateRequest{Name: "Twice Co"}, headers)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRouter_StrangerSeesNotFound(t *testing.T) {
	ts := newTestServer(t)
	owner := id.Actor{ID: id.UserID(uuid.New()), Role: id.RoleEmployer}
	ownerAuth := ts.bearer(t, owner)

	rec := ts.do(t, http.MethodPost, "/companies", companyhandler.CreateRequest{Name: "Private Co"},
		map[string]string{
			"Authorization":      ownerAuth,
			formtoken.HeaderName: ts.formToken(t, ownerAuth),
		})
	require.Equal(t, http.StatusCreated, rec.Code)

	var created companyhandler.CreateResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&created))

	strangerAuth := ts.bearer(t, id.Actor{ID: id.UserID(uuid.New()), Role: id.RoleEmployer})
	rec = ts.do(t, http.MethodGet, "/applications/"+created.ApplicationID, nil,
		map[string]string{"Authorization": strangerAuth})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

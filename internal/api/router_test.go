package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/LiamFranKi/sistemas-encuestas-cursor/internal/middleware"
	"github.com/LiamFranKi/sistemas-encuestas-cursor/internal/platform/logger"
	"github.com/LiamFranKi/sistemas-encuestas-cursor/internal/services"
	"github.com/LiamFranKi/sistemas-encuestas-cursor/internal/store"
)

const testSecret = "secreto-de-prueba"

func newTestApp(t *testing.T) *echo.Echo {
	t.Helper()
	st := store.NewMemoryStore()
	log := logger.Nop()
	signer := middleware.NewSigner(testSecret)

	resolver := services.NewResolverService(st, log)
	stats := services.NewStatsService(st, resolver, log)
	return NewRouter(Deps{
		Auth:        services.NewAuthService(st, signer),
		School:      services.NewSchoolService(st, log),
		Surveys:     services.NewSurveyService(st, log),
		Responses:   services.NewResponseService(st, resolver, log),
		Stats:       stats,
		Export:      services.NewExportService(stats),
		Resolver:    resolver,
		Log:         log,
		JWTSecret:   testSecret,
		CORSOrigins: []string{"*"},
	})
}

func doJSON(t *testing.T, e *echo.Echo, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func decodeJSON(t *testing.T, rec *httptest.ResponseRecorder, out any) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), out); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
}

func adminToken(t *testing.T, e *echo.Echo) string {
	t.Helper()
	rec := doJSON(t, e, http.MethodPost, "/api/auth/register", "", map[string]string{
		"email":    "directora@colegio.edu.pe",
		"password": "clave-segura-123",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("register: status %d body %s", rec.Code, rec.Body.String())
	}
	var out struct {
		Token string `json:"token"`
	}
	decodeJSON(t, rec, &out)
	if out.Token == "" {
		t.Fatal("register returned empty token")
	}
	return out.Token
}

func TestAdminRoutesRequireToken(t *testing.T) {
	e := newTestApp(t)

	rec := doJSON(t, e, http.MethodGet, "/api/estadisticas/general", "", nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("sin token: status %d, want 401", rec.Code)
	}

	rec = doJSON(t, e, http.MethodPost, "/api/grados", "token-falso", map[string]string{"nombre": "X", "nivel": "Primaria"})
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("token inválido: status %d, want 401", rec.Code)
	}
}

func TestHealthAndActiveSurveyArePublic(t *testing.T) {
	e := newTestApp(t)

	rec := doJSON(t, e, http.MethodGet, "/health", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("health: status %d", rec.Code)
	}
	rec = doJSON(t, e, http.MethodGet, "/api/encuestas/activa", "", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("sin encuesta activa: status %d, want 404", rec.Code)
	}
}

func TestRegisterClosedAfterBootstrap(t *testing.T) {
	e := newTestApp(t)
	adminToken(t, e)

	// Once the first admin exists, anonymous registration must not
	// hand out admin-role tokens anymore.
	rec := doJSON(t, e, http.MethodPost, "/api/auth/register", "", map[string]string{
		"email":    "intruso@colegio.edu.pe",
		"password": "clave-intrusa-123",
	})
	if rec.Code != http.StatusForbidden {
		t.Fatalf("segundo registro: status %d, want 403; body %s", rec.Code, rec.Body.String())
	}
	if bytes.Contains(rec.Body.Bytes(), []byte("token")) {
		t.Fatalf("rejected registration leaked a token: %s", rec.Body.String())
	}
}

func TestLoginRejectsBadPassword(t *testing.T) {
	e := newTestApp(t)
	adminToken(t, e)

	rec := doJSON(t, e, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email":    "directora@colegio.edu.pe",
		"password": "clave-equivocada",
	})
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("login con clave mala: status %d, want 401", rec.Code)
	}
}

// TestFullSurveyFlow drives the complete cycle through the HTTP
// surface: build the catalog, link relations, activate the survey,
// submit anonymous answers and read back statistics and the export.
func TestFullSurveyFlow(t *testing.T) {
	e := newTestApp(t)
	token := adminToken(t, e)

	type entity struct {
		ID string `json:"id"`
	}
	create := func(path string, body any) string {
		t.Helper()
		rec := doJSON(t, e, http.MethodPost, path, token, body)
		if rec.Code != http.StatusCreated {
			t.Fatalf("POST %s: status %d body %s", path, rec.Code, rec.Body.String())
		}
		var ent entity
		decodeJSON(t, rec, &ent)
		if ent.ID == "" {
			t.Fatalf("POST %s: empty id in %s", path, rec.Body.String())
		}
		return ent.ID
	}

	gradeID := create("/api/grados", map[string]string{"nombre": "Primero A", "nivel": "Primaria"})
	anaID := create("/api/docentes", map[string]string{"nombre": "Ana", "especialidad": "Matemática"})
	brunoID := create("/api/docentes", map[string]string{"nombre": "Bruno", "especialidad": "Comunicación"})
	questionID := create("/api/preguntas", map[string]string{"texto_pregunta": "¿Cómo enseña el docente?"})
	altExcelID := create("/api/alternativas", map[string]string{"texto": "Excelente"})
	altBuenoID := create("/api/alternativas", map[string]string{"texto": "Bueno"})
	surveyID := create("/api/encuestas", map[string]string{"titulo": "Encuesta 2026"})

	put := func(path string, body any) {
		t.Helper()
		rec := doJSON(t, e, http.MethodPut, path, token, body)
		if rec.Code != http.StatusNoContent {
			t.Fatalf("PUT %s: status %d body %s", path, rec.Code, rec.Body.String())
		}
	}
	put("/api/grados/"+gradeID+"/docentes", map[string]any{"ids": []string{anaID, brunoID}})
	put("/api/encuestas/"+surveyID+"/preguntas", map[string]any{"ids": []string{questionID}})
	put("/api/preguntas/"+questionID+"/alternativas", map[string]any{"ids": []string{altExcelID, altBuenoID}})

	rec := doJSON(t, e, http.MethodPost, "/api/encuestas/"+surveyID+"/activar", token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("activar: status %d body %s", rec.Code, rec.Body.String())
	}

	// The respondent side needs no token.
	rec = doJSON(t, e, http.MethodGet, "/api/encuestas/activa", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("encuesta activa: status %d", rec.Code)
	}
	var active entity
	decodeJSON(t, rec, &active)
	if active.ID != surveyID {
		t.Fatalf("encuesta activa = %q, want %q", active.ID, surveyID)
	}

	rec = doJSON(t, e, http.MethodGet, "/api/grados/"+gradeID+"/docentes", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("docentes del grado: status %d", rec.Code)
	}

	rec = doJSON(t, e, http.MethodPost, "/api/respuestas", "", map[string]any{
		"encuesta_id": surveyID,
		"grado_id":    gradeID,
		"pregunta_id": questionID,
		"respuestas": map[string]string{
			anaID:   altExcelID,
			brunoID: altBuenoID,
		},
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("respuestas: status %d body %s", rec.Code, rec.Body.String())
	}
	var saved struct {
		Guardadas int `json:"guardadas"`
	}
	decodeJSON(t, rec, &saved)
	if saved.Guardadas != 2 {
		t.Fatalf("guardadas = %d, want 2", saved.Guardadas)
	}

	rec = doJSON(t, e, http.MethodGet, "/api/estadisticas/general", token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("estadísticas: status %d body %s", rec.Code, rec.Body.String())
	}
	var general struct {
		TotalRespuestas int `json:"totalRespuestas"`
	}
	decodeJSON(t, rec, &general)
	if general.TotalRespuestas != 2 {
		t.Fatalf("totalRespuestas = %d, want 2", general.TotalRespuestas)
	}

	rec = doJSON(t, e, http.MethodGet, "/api/exportar/encuestas/"+surveyID, token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("exportar: status %d body %s", rec.Code, rec.Body.String())
	}
	if got := rec.Header().Get(echo.HeaderContentType); got != "text/csv; charset=utf-8" {
		t.Fatalf("content type = %q", got)
	}
	if cd := rec.Header().Get(echo.HeaderContentDisposition); cd == "" {
		t.Fatal("missing Content-Disposition header")
	}
	if !bytes.Contains(rec.Body.Bytes(), []byte("Encuesta 2026")) {
		t.Fatalf("export missing survey title:\n%s", rec.Body.String())
	}
}

func TestSubmitRejectsInactiveSurvey(t *testing.T) {
	e := newTestApp(t)
	token := adminToken(t, e)

	rec := doJSON(t, e, http.MethodPost, "/api/grados", token, map[string]string{"nombre": "Primero A", "nivel": "Primaria"})
	var grade struct {
		ID string `json:"id"`
	}
	decodeJSON(t, rec, &grade)

	rec = doJSON(t, e, http.MethodPost, "/api/encuestas", token, map[string]string{"titulo": "Encuesta sin activar"})
	var survey struct {
		ID string `json:"id"`
	}
	decodeJSON(t, rec, &survey)

	rec = doJSON(t, e, http.MethodPost, "/api/respuestas", "", map[string]any{
		"encuesta_id": survey.ID,
		"grado_id":    grade.ID,
		"pregunta_id": "preg-x",
		"respuestas":  map[string]string{"doc-x": "alt-x"},
	})
	// Surveys start inactive; the submission conflicts before any
	// relation check runs.
	if rec.Code != http.StatusConflict {
		t.Fatalf("status %d, want 409; body %s", rec.Code, rec.Body.String())
	}
}

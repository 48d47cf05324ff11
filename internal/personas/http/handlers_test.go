package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
	"unicode/utf16"

	"github.com/gin-gonic/gin"
	"github.com/persona-lab/persona-backend/internal/personas/domain"
	"github.com/persona-lab/persona-backend/internal/personas/export"
	"github.com/persona-lab/persona-backend/internal/personas/generation"
	"github.com/persona-lab/persona-backend/internal/personas/llm"
	"github.com/persona-lab/persona-backend/internal/personas/repository"
	"github.com/persona-lab/persona-backend/internal/personas/service"
	"github.com/persona-lab/persona-backend/internal/platform/idgen"
	projectdomain "github.com/persona-lab/persona-backend/internal/projects/domain"
	projectrepo "github.com/persona-lab/persona-backend/internal/projects/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type env struct {
	router    *gin.Engine
	projects  *projectrepo.MemoryStore
	completer llm.CompleterFunc
}

func setup(t *testing.T, completer llm.CompleterFunc) *env {
	t.Helper()
	gin.SetMode(gin.TestMode)

	projects := projectrepo.NewMemoryStore()
	store := repository.NewMemoryStore()
	svc := service.NewPersonaService(store, idgen.NewSequence("persona"))
	gen := generation.NewGenerator(completer, projects, store, idgen.NewSequence("gen"), generation.Config{
		Pacer: generation.NoDelay,
		Clock: func() time.Time { return time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC) },
	})

	router := gin.New()
	New(svc, gen, projects, export.NewRenderer(false)).Register(router.Group("/api/projects/:projectId/personas"))

	require.NoError(t, projects.Create(context.Background(), &projectdomain.Project{
		ID:          "p1",
		Name:        "Bike Share",
		Description: "Bikes for commuters",
		Status:      projectdomain.StatusNew,
	}))
	require.NoError(t, store.InitCollection(context.Background(), "p1"))

	return &env{router: router, projects: projects, completer: completer}
}

// pdfText encodes s the way page text is written with the embedded fonts.
func pdfText(s string) []byte {
	var out []byte
	for _, u := range utf16.Encode([]rune(s)) {
		out = append(out, byte(u>>8), byte(u))
	}
	return out
}

func twoPersonas(context.Context, llm.Prompt) (string, error) {
	return `{"personas":[{"name":"Gen A","age":30,"goals":["x"],"painPoints":["y"]},{"name":"Gen B","age":"45"}]}`, nil
}

func (e *env) do(method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	switch b := body.(type) {
	case nil:
	case string:
		buf.WriteString(b)
	default:
		_ = json.NewEncoder(&buf).Encode(b)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	e.router.ServeHTTP(rr, req)
	return rr
}

func (e *env) addBase(t *testing.T, name string) domain.Persona {
	t.Helper()
	rr := e.do(http.MethodPost, "/api/projects/p1/personas", map[string]any{
		"name":       name,
		"age":        "31",
		"occupation": "Nurse",
		"location":   "Coimbra",
		"background": "Works night shifts",
		"goals":      "Sleep more\nCommute less",
		"painPoints": []string{"Traffic"},
	})
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	var p domain.Persona
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &p))
	return p
}

func TestCreateAndListPersonas(t *testing.T) {
	e := setup(t, twoPersonas)

	p := e.addBase(t, "Ana")
	assert.Equal(t, "persona-1", p.ID)
	assert.Equal(t, domain.Age(31), p.Age)
	assert.Equal(t, domain.StringList{"Sleep more", "Commute less"}, p.Goals)
	assert.False(t, p.Generated)

	rr := e.do(http.MethodGet, "/api/projects/p1/personas", nil)
	require.Equal(t, http.StatusOK, rr.Code)

	var raw []map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &raw))
	require.Len(t, raw, 1)
	assert.Equal(t, "persona-1", raw[0]["_id"])
	assert.Equal(t, false, raw[0]["generated"])
}

func TestListPersonas_UnknownProjectIsEmpty(t *testing.T) {
	e := setup(t, twoPersonas)

	rr := e.do(http.MethodGet, "/api/projects/nope/personas", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `[]`, rr.Body.String())
}

func TestCreatePersona_InvalidBody(t *testing.T) {
	e := setup(t, twoPersonas)

	rr := e.do(http.MethodPost, "/api/projects/p1/personas", `{"name":"A","age":"old"}`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestUpdatePersona(t *testing.T) {
	e := setup(t, twoPersonas)
	p := e.addBase(t, "Ana")

	rr := e.do(http.MethodPut, "/api/projects/p1/personas/"+p.ID, map[string]any{"age": 40, "location": "Faro"})
	require.Equal(t, http.StatusOK, rr.Code)

	var got domain.Persona
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
	assert.Equal(t, p.ID, got.ID)
	assert.Equal(t, "Ana", got.Name)
	assert.Equal(t, domain.Age(40), got.Age)
	assert.Equal(t, "Faro", got.Location)
	assert.Equal(t, "Nurse", got.Occupation)
}

func TestUpdatePersona_NotFound(t *testing.T) {
	e := setup(t, twoPersonas)

	rr := e.do(http.MethodPut, "/api/projects/p1/personas/ghost", map[string]any{"name": "x"})
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.JSONEq(t, `{"error":"Persona not found"}`, rr.Body.String())

	rr = e.do(http.MethodPut, "/api/projects/nope/personas/ghost", map[string]any{"name": "x"})
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.JSONEq(t, `{"error":"Project not found"}`, rr.Body.String())
}

func TestGeneratePersonas(t *testing.T) {
	e := setup(t, twoPersonas)
	e.addBase(t, "Ana")
	e.addBase(t, "Bruno")

	rr := e.do(http.MethodPost, "/api/projects/p1/personas/generate", nil)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	var generated []domain.Persona
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &generated))
	require.Len(t, generated, 10)
	for _, p := range generated {
		assert.True(t, p.Generated)
	}

	rr = e.do(http.MethodGet, "/api/projects/p1/personas", nil)
	var all []domain.Persona
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &all))
	assert.Len(t, all, 12)
	assert.Equal(t, "Ana", all[0].Name)
	assert.Equal(t, "Bruno", all[1].Name)
}

func TestGeneratePersonas_NotEnoughBase(t *testing.T) {
	e := setup(t, twoPersonas)
	e.addBase(t, "Ana")

	rr := e.do(http.MethodPost, "/api/projects/p1/personas/generate", nil)
	require.Equal(t, http.StatusBadRequest, rr.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Contains(t, body["error"], "at least 2 base personas")
}

func TestGeneratePersonas_UnknownProject(t *testing.T) {
	e := setup(t, twoPersonas)

	rr := e.do(http.MethodPost, "/api/projects/nope/personas/generate", nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.JSONEq(t, `{"error":"Project not found"}`, rr.Body.String())
}

func TestGeneratePersonas_AllBatchesFailStillSucceeds(t *testing.T) {
	e := setup(t, func(context.Context, llm.Prompt) (string, error) {
		return "", errors.New("quota exceeded")
	})
	e.addBase(t, "Ana")
	e.addBase(t, "Bruno")

	rr := e.do(http.MethodPost, "/api/projects/p1/personas/generate", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `[]`, rr.Body.String())
}

func TestExportPersona(t *testing.T) {
	e := setup(t, twoPersonas)
	p := e.addBase(t, "Ana Maria")

	rr := e.do(http.MethodGet, fmt.Sprintf("/api/projects/p1/personas/%s/export", p.ID), nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "application/pdf", rr.Header().Get("Content-Type"))
	assert.Equal(t, "attachment; filename=ana-maria-persona.pdf", rr.Header().Get("Content-Disposition"))
	assert.True(t, bytes.HasPrefix(rr.Body.Bytes(), []byte("%PDF-")))
	assert.True(t, bytes.Contains(rr.Body.Bytes(), pdfText("Works night shifts")))
}

func TestExportPersona_Generated(t *testing.T) {
	e := setup(t, twoPersonas)
	e.addBase(t, "Ana")
	e.addBase(t, "Bruno")
	require.Equal(t, http.StatusOK, e.do(http.MethodPost, "/api/projects/p1/personas/generate", nil).Code)

	rr := e.do(http.MethodGet, "/api/projects/p1/personas/gen-1/export", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "attachment; filename=gen-a-persona.pdf", rr.Header().Get("Content-Disposition"))
}

func TestExportPersona_NotFound(t *testing.T) {
	e := setup(t, twoPersonas)

	rr := e.do(http.MethodGet, "/api/projects/p1/personas/ghost/export", nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.JSONEq(t, `{"error":"Persona not found"}`, rr.Body.String())

	rr = e.do(http.MethodGet, "/api/projects/nope/personas/ghost/export", nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.JSONEq(t, `{"error":"Project not found"}`, rr.Body.String())
}

func TestReport(t *testing.T) {
	e := setup(t, twoPersonas)
	e.addBase(t, "Ana")
	e.addBase(t, "Bruno")

	rr := e.do(http.MethodGet, "/api/projects/p1/personas/report", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{
		"total": 2, "base": 2, "generated": 0, "averageAge": 31,
		"ageGroups": [{"label":"30-39","count":2}],
		"occupations": [{"label":"Nurse","count":2}],
		"locations": [{"label":"Coimbra","count":2}]
	}`, rr.Body.String())

	rr = e.do(http.MethodGet, "/api/projects/p1/personas/report/export", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "attachment; filename=personas-report.pdf", rr.Header().Get("Content-Disposition"))
	assert.True(t, bytes.Contains(rr.Body.Bytes(), pdfText("Project: Bike Share")))
}

func TestReport_UnknownProjectIsEmpty(t *testing.T) {
	e := setup(t, twoPersonas)

	rr := e.do(http.MethodGet, "/api/projects/nope/personas/report", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"total":0`)
}

package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/persona-lab/persona-backend/internal/platform/idgen"
	"github.com/persona-lab/persona-backend/internal/projects/domain"
	"github.com/persona-lab/persona-backend/internal/projects/repository"
	"github.com/persona-lab/persona-backend/internal/projects/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	svc := service.NewProjectService(repository.NewMemoryStore(), nil, idgen.NewSequence("proj"))
	router := gin.New()
	New(svc).Register(router.Group("/api/projects"))
	return router
}

func do(router *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr
}

func TestCreateAndGetProject(t *testing.T) {
	router := setupRouter(t)

	rr := do(router, http.MethodPost, "/api/projects", map[string]string{
		"name":        "Budget app",
		"description": "Helps students budget",
	})
	require.Equal(t, http.StatusCreated, rr.Code)

	var created domain.Project
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &created))
	assert.Equal(t, "proj-1", created.ID)
	assert.Equal(t, domain.StatusNew, created.Status)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &raw))
	assert.Contains(t, raw, "_id")
	assert.Contains(t, raw, "createdAt")

	rr = do(router, http.MethodGet, "/api/projects/proj-1", nil)
	require.Equal(t, http.StatusOK, rr.Code)

	var got domain.Project
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
	assert.Equal(t, "Budget app", got.Name)
}

func TestCreateProject_InvalidBody(t *testing.T) {
	router := setupRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/api/projects", bytes.NewBufferString("{not json"))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestListProjects(t *testing.T) {
	router := setupRouter(t)

	rr := do(router, http.MethodGet, "/api/projects", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `[]`, rr.Body.String())

	do(router, http.MethodPost, "/api/projects", map[string]string{"name": "a"})
	do(router, http.MethodPost, "/api/projects", map[string]string{"name": "b"})

	rr = do(router, http.MethodGet, "/api/projects", nil)
	var items []domain.Project
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &items))
	require.Len(t, items, 2)
	assert.Equal(t, "a", items[0].Name)
	assert.Equal(t, "b", items[1].Name)
}

func TestGetProject_NotFound(t *testing.T) {
	router := setupRouter(t)

	rr := do(router, http.MethodGet, "/api/projects/missing", nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.JSONEq(t, `{"error":"Project not found"}`, rr.Body.String())
}

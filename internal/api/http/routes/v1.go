package routes

import (
	httpapi "github.com/persona-lab/persona-backend/internal/api/http"
	personahttp "github.com/persona-lab/persona-backend/internal/personas/http"
	projecthttp "github.com/persona-lab/persona-backend/internal/projects/http"

	"github.com/gin-gonic/gin"
)

type APIDeps struct {
	Projects *projecthttp.Handler
	Personas *personahttp.Handler
	System   *httpapi.SystemHandler
}

// RegisterAPI mounts the JSON API under /api.
func RegisterAPI(r *gin.Engine, dep APIDeps) *gin.RouterGroup {
	api := r.Group("/api")

	dep.System.Register(api)

	projectsGroup := api.Group("/projects")
	dep.Projects.Register(projectsGroup)
	dep.Personas.Register(projectsGroup.Group("/:projectId/personas"))

	return api
}

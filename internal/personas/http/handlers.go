package http

import (
	"bytes"
	"context"
	"errors"
	"mime"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/persona-lab/persona-backend/internal/logging"
	"github.com/persona-lab/persona-backend/internal/personas/domain"
	"github.com/persona-lab/persona-backend/internal/personas/export"
	"github.com/persona-lab/persona-backend/internal/personas/report"
	"go.uber.org/zap"
)

func (h *Handler) create(c *gin.Context) {
	var in domain.Input
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
		return
	}

	p, err := h.svc.AddBase(c.Request.Context(), c.Param("projectId"), in)
	if err != nil {
		writeError(c, err, "Failed to create persona")
		return
	}
	c.JSON(http.StatusCreated, p)
}

func (h *Handler) list(c *gin.Context) {
	items, err := h.svc.List(c.Request.Context(), c.Param("projectId"))
	if err != nil {
		writeError(c, err, "Failed to list personas")
		return
	}
	c.JSON(http.StatusOK, items)
}

func (h *Handler) update(c *gin.Context) {
	var patch domain.Patch
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
		return
	}

	p, err := h.svc.UpdateBase(c.Request.Context(), c.Param("projectId"), c.Param("personaId"), patch)
	if err != nil {
		writeError(c, err, "Failed to update persona")
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *Handler) generate(c *gin.Context) {
	// Generation keeps going if the client hangs up; the personas are stored
	// either way.
	ctx := context.WithoutCancel(c.Request.Context())

	res, err := h.gen.Generate(ctx, c.Param("projectId"))
	if err != nil {
		writeError(c, err, "Failed to generate personas")
		return
	}
	if failed := res.Failed(); len(failed) > 0 {
		logging.FromContext(ctx).Warn("generation finished with failed batches",
			zap.Int("failed", len(failed)),
			zap.Int("generated", len(res.Personas)))
	}
	c.JSON(http.StatusOK, res.Personas)
}

func (h *Handler) exportPersona(c *gin.Context) {
	p, err := h.svc.Get(c.Request.Context(), c.Param("projectId"), c.Param("personaId"))
	if err != nil {
		writeError(c, err, "Failed to export persona")
		return
	}

	var buf bytes.Buffer
	if err := h.pdf.Persona(&buf, p); err != nil {
		writeError(c, err, "Failed to export persona")
		return
	}
	sendPDF(c, export.Filename(p.Name), buf.Bytes())
}

func (h *Handler) report(c *gin.Context) {
	rep, err := h.buildReport(c.Request.Context(), c.Param("projectId"))
	if err != nil {
		writeError(c, err, "Failed to build report")
		return
	}
	c.JSON(http.StatusOK, rep)
}

func (h *Handler) exportReport(c *gin.Context) {
	ctx := c.Request.Context()
	projectID := c.Param("projectId")

	rep, err := h.buildReport(ctx, projectID)
	if err != nil {
		writeError(c, err, "Failed to export report")
		return
	}

	var name string
	if project, err := h.projects.Get(ctx, projectID); err == nil {
		name = project.Name
	} else if !errors.Is(err, domain.ErrProjectNotFound) {
		writeError(c, err, "Failed to export report")
		return
	}

	var buf bytes.Buffer
	if err := h.pdf.Report(&buf, name, rep); err != nil {
		writeError(c, err, "Failed to export report")
		return
	}
	sendPDF(c, export.ReportFilename, buf.Bytes())
}

// buildReport treats a project without personas like an empty collection,
// matching list.
func (h *Handler) buildReport(ctx context.Context, projectID string) (report.Report, error) {
	col, err := h.svc.Collection(ctx, projectID)
	if err != nil && !errors.Is(err, domain.ErrProjectNotFound) {
		return report.Report{}, err
	}
	return report.Build(col), nil
}

func sendPDF(c *gin.Context, filename string, data []byte) {
	c.Header("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": filename}))
	c.Data(http.StatusOK, export.ContentType, data)
}

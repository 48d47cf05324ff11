package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/persona-lab/persona-backend/internal/logging"
	"github.com/persona-lab/persona-backend/internal/personas/llm"
	"go.uber.org/zap"
)

const probePrompt = "Return a JSON object with a 'message' field that says 'OpenAI API is working!'"

// SystemHandler serves the connectivity routes used by the client during
// setup.
type SystemHandler struct {
	completer     llm.Completer
	apiKeyPresent bool
}

func NewSystemHandler(completer llm.Completer, apiKeyPresent bool) *SystemHandler {
	return &SystemHandler{completer: completer, apiKeyPresent: apiKeyPresent}
}

func (h *SystemHandler) Register(rg *gin.RouterGroup) {
	rg.GET("/hello", h.hello)
	rg.GET("/test-openai", h.testOpenAI)
}

func (h *SystemHandler) hello(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "Hello World!"})
}

func (h *SystemHandler) testOpenAI(c *gin.Context) {
	text, err := h.completer.Complete(c.Request.Context(), llm.Prompt{
		System:      "You are a helpful assistant.",
		User:        probePrompt,
		Temperature: 0.7,
		JSON:        true,
	})
	if err != nil {
		logging.FromContext(c.Request.Context()).Error("openai probe failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{
			"success":       false,
			"error":         err.Error(),
			"apiKeyPresent": h.apiKeyPresent,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":       true,
		"response":      gin.H{"role": "assistant", "content": text},
		"apiKeyPresent": h.apiKeyPresent,
	})
}

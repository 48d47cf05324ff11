package bootstrap

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/persona-lab/persona-backend/config"
)

func SetGinMode(cfg *config.Config) {
	switch {
	case cfg.IsProduction():
		gin.SetMode(gin.ReleaseMode)
	case strings.EqualFold(cfg.App.Environment, "test"):
		gin.SetMode(gin.TestMode)
	}
}

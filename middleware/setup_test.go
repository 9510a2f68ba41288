package middleware

import (
	"testing"

	"github.com/NomadCrew/nomad-crew-planner/logger"
	"github.com/gin-gonic/gin"
)

func TestMain(m *testing.M) {
	logger.IsTest = true
	gin.SetMode(gin.TestMode)
	m.Run()
}

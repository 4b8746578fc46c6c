package routes

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/vendorwatch/risk-backend/internal/api/http/middleware"
	riskhttp "github.com/vendorwatch/risk-backend/internal/risk/http"
	"github.com/vendorwatch/risk-backend/internal/risk/service"
)

type V1Deps struct {
	Service        *service.DetectService
	Runs           riskhttp.RunStore // nil disables the run lookup route
	APIKey         string
	OverallTimeout time.Duration
}

func RegisterV1(r *gin.Engine, dep V1Deps) {
	api := r.Group("/api/v1")
	api.Use(middleware.RequestID())
	api.Use(middleware.APIKey(dep.APIKey))

	handler := riskhttp.New(dep.Service, dep.Runs)
	if dep.OverallTimeout > 0 {
		handler = handler.WithOverallTimeout(dep.OverallTimeout)
	}
	handler.Register(api)
}

package bootstrap

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	httpapi "github.com/vendorwatch/risk-backend/internal/api/http"
	"github.com/vendorwatch/risk-backend/internal/api/http/routes"
	riskhttp "github.com/vendorwatch/risk-backend/internal/risk/http"
)

type RouterDeps struct {
	ServiceName    string
	Version        string
	APIKey         string
	OverallTimeout time.Duration
	Detect         *DetectDeps
}

func BuildRouter(dep RouterDeps) *gin.Engine {
	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:  []string{"*"},
		AllowMethods:  []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:  []string{"Content-Type", "X-API-Key", "X-Request-Id"},
		ExposeHeaders: []string{"X-Request-Id"},
		MaxAge:        12 * time.Hour,
	}))

	healthHandler := httpapi.NewHealthHandler(dep.ServiceName, dep.Version,
		dep.Detect.DB, dep.Detect.Cache, dep.Detect.Index)
	healthHandler.RegisterRoutes(r)

	var runs riskhttp.RunStore
	if dep.Detect.Results != nil {
		runs = dep.Detect.Results
	}

	routes.RegisterV1(r, routes.V1Deps{
		Service:        dep.Detect.Service,
		Runs:           runs,
		APIKey:         dep.APIKey,
		OverallTimeout: dep.OverallTimeout,
	})

	return r
}

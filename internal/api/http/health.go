package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/vendorwatch/risk-backend/internal/risk/retrieval"
)

type HealthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Service   string    `json:"service"`
	Version   string    `json:"version"`
	DB        string    `json:"db,omitempty"`
	Cache     string    `json:"cache,omitempty"`
	Index     string    `json:"index,omitempty"`
}

// HealthHandler reports service liveness plus reachability of the
// optional collaborators. Every probe is latency-bounded so the endpoint
// answers fast even when a dependency hangs.
type HealthHandler struct {
	serviceName string
	version     string
	db          *pgxpool.Pool
	cache       *redis.Client
	index       retrieval.SemanticIndex
}

func NewHealthHandler(serviceName, version string, db *pgxpool.Pool, cache *redis.Client, index retrieval.SemanticIndex) *HealthHandler {
	return &HealthHandler{
		serviceName: serviceName,
		version:     version,
		db:          db,
		cache:       cache,
		index:       index,
	}
}

func (h *HealthHandler) HealthCheck(c *gin.Context) {
	probeCtx, cancel := context.WithTimeout(c.Request.Context(), 1*time.Second)
	defer cancel()

	dbStatus := "disabled"
	if h.db != nil {
		if err := h.db.Ping(probeCtx); err != nil {
			dbStatus = "down"
		} else {
			dbStatus = "up"
		}
	}

	cacheStatus := "disabled"
	if h.cache != nil {
		if err := h.cache.Ping(probeCtx).Err(); err != nil {
			cacheStatus = "down"
		} else {
			cacheStatus = "up"
		}
	}

	indexStatus := "disabled"
	if h.index != nil {
		if _, isNull := h.index.(retrieval.NullIndex); !isNull {
			if h.index.Ready(probeCtx) {
				indexStatus = "up"
			} else {
				indexStatus = "down"
			}
		}
	}

	c.JSON(http.StatusOK, HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().UTC(),
		Service:   h.serviceName,
		Version:   h.version,
		DB:        dbStatus,
		Cache:     cacheStatus,
		Index:     indexStatus,
	})
}

func (h *HealthHandler) RegisterRoutes(r gin.IRouter) {
	r.GET("/health", h.HealthCheck)
	r.GET("/healthz", h.HealthCheck)
}

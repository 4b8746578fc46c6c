package bootstrap

import (
	"context"
	"log"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/vendorwatch/risk-backend/config"
	"github.com/vendorwatch/risk-backend/internal/risk/analyze"
	"github.com/vendorwatch/risk-backend/internal/risk/llm"
	"github.com/vendorwatch/risk-backend/internal/risk/repository"
	"github.com/vendorwatch/risk-backend/internal/risk/retrieval"
	"github.com/vendorwatch/risk-backend/internal/risk/search"
	"github.com/vendorwatch/risk-backend/internal/risk/service"
)

// DetectDeps holds the detection service plus the shared clients it was
// built on, so callers can reuse them (health probes, shutdown).
type DetectDeps struct {
	Service *service.DetectService
	Results *repository.ResultRepository // nil when the DB is disabled
	DB      *pgxpool.Pool                // nil when disabled
	Cache   *redis.Client                // nil when disabled
	Index   retrieval.SemanticIndex
}

// BuildDetect wires the full detection pipeline from config. Optional
// collaborators (DB, redis, weaviate, LLM) degrade to disabled when not
// configured; a misconfigured one fails startup instead of limping.
func BuildDetect(ctx context.Context, cfg *config.Config) (*DetectDeps, error) {
	deps := &DetectDeps{}

	if cfg.Database.DSN != "" {
		pool, err := OpenDB(ctx, DBOptions{DSN: cfg.Database.DSN})
		if err != nil {
			return nil, err
		}
		deps.DB = pool
		deps.Results = repository.NewResultRepository(pool)
	} else {
		log.Println("[bootstrap] DB_DSN not set, run persistence disabled")
	}

	if cfg.Redis.Addr != "" {
		client, err := OpenRedis(ctx, RedisOptions{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			deps.Close()
			return nil, err
		}
		deps.Cache = client
	} else {
		log.Println("[bootstrap] REDIS_ADDR not set, document cache disabled")
	}

	deps.Index = retrieval.NewIndex(cfg.Retrieval.WeaviateHost, cfg.Retrieval.WeaviateScheme)

	var cache search.DocCache
	if deps.Cache != nil {
		cache = repository.NewDocCache(deps.Cache)
	}
	collector := search.NewCollector(
		search.NewGDELTClient(cfg.Search.GDELTBaseURL),
		search.NewFeedClient(),
		cache,
	)

	augmentor := retrieval.NewAugmentor(deps.Index)
	summarizer := analyze.NewSummarizer(llm.NewGenerator(cfg.LLM.OpenAIAPIKey, cfg.LLM.Model))

	var store service.ResultStore
	if deps.Results != nil {
		store = deps.Results
	}

	deps.Service = service.NewDetectService(collector, augmentor, summarizer, store).
		WithVendorTimeout(time.Duration(cfg.Detect.VendorTimeoutSec) * time.Second)

	return deps, nil
}

// Close releases the clients BuildDetect opened.
func (d *DetectDeps) Close() {
	if d.DB != nil {
		d.DB.Close()
	}
	if d.Cache != nil {
		_ = d.Cache.Close()
	}
}

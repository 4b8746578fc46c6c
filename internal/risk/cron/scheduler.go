package cronjob

import (
	"context"
	"log"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/vendorwatch/risk-backend/internal/risk/domain"
	"github.com/vendorwatch/risk-backend/internal/risk/service"
)

// sweepTimeout bounds one full watchlist sweep.
const sweepTimeout = 10 * time.Minute

// Scheduler re-runs detection for a fixed vendor watchlist on a cron
// spec, so persisted runs accumulate a history without manual requests.
type Scheduler struct {
	svc       *service.DetectService
	watchlist []string
	spec      string
}

func NewScheduler(svc *service.DetectService, watchlist []string, spec string) *Scheduler {
	return &Scheduler{svc: svc, watchlist: watchlist, spec: spec}
}

// Start initializes cron tasks
func (s *Scheduler) Start() {
	if len(s.watchlist) == 0 {
		log.Println("[sweep] watchlist is empty, scheduler not started")
		return
	}

	c := cron.New(cron.WithSeconds())

	_, err := c.AddFunc(s.spec, func() {
		s.RunSweep(context.Background())
	})
	if err != nil {
		log.Printf("Failed to create cron job: %v", err)
		return
	}

	log.Printf("[sweep] scheduler started spec=%q vendors=%d", s.spec, len(s.watchlist))
	c.Start()
}

// RunSweep executes one watchlist pass with default detection settings.
func (s *Scheduler) RunSweep(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, sweepTimeout)
	defer cancel()

	vendors := make([]domain.Vendor, 0, len(s.watchlist))
	for _, name := range s.watchlist {
		vendors = append(vendors, domain.Vendor{Name: name})
	}

	started := time.Now()
	batch, err := s.svc.DetectBatch(ctx, service.DetectRequest{
		Vendors:        vendors,
		TimeWindowDays: 90,
		Search:         domain.DefaultSearchConfig(),
		Retrieval:      domain.DefaultRetrievalConfig(),
	})
	if err != nil {
		log.Printf("[sweep] batch failed: %v", err)
		return
	}

	for _, res := range batch.Results {
		log.Printf("[sweep] run_id=%s vendor=%s level=%s score=%.2f docs=%d",
			batch.RunID, res.Vendor.Name, res.RiskLevel, res.TotalScore, res.DocsCount)
	}
	log.Printf("[sweep] completed run_id=%s vendors=%d took=%s",
		batch.RunID, len(batch.Results), time.Since(started))
}

package http

import (
	"github.com/vendorwatch/risk-backend/internal/risk/domain"
	"github.com/vendorwatch/risk-backend/internal/risk/service"
)

// DetectBatchRequest is the batch detect payload: a vendor list plus the
// shared detection configuration. Omitted sections fall back to the
// documented defaults.
type DetectBatchRequest struct {
	Vendors        []domain.Vendor         `json:"vendors" binding:"required"`
	TimeWindowDays int                     `json:"time_window_days"`
	Categories     []domain.Category       `json:"categories"`
	Search         *domain.SearchConfig    `json:"search"`
	Retrieval      *domain.RetrievalConfig `json:"retrieval"`
	Options        *domain.Options         `json:"options"`
}

// ToServiceRequest applies defaults and converts to the service request.
func (r DetectBatchRequest) ToServiceRequest() service.DetectRequest {
	req := service.DetectRequest{
		Vendors:        r.Vendors,
		TimeWindowDays: r.TimeWindowDays,
		Categories:     r.Categories,
		Search:         domain.DefaultSearchConfig(),
		Retrieval:      domain.DefaultRetrievalConfig(),
		Options:        domain.Options{StrictGrounding: true, ReturnEvidenceText: true},
	}
	if req.TimeWindowDays <= 0 {
		req.TimeWindowDays = 90
	}
	if r.Search != nil {
		req.Search = *r.Search
	}
	if r.Retrieval != nil {
		req.Retrieval = *r.Retrieval
	}
	if r.Options != nil {
		req.Options = *r.Options
	}
	return req
}

// PreviewRequest asks for raw collection for a single vendor.
type PreviewRequest struct {
	Vendor         domain.Vendor        `json:"vendor" binding:"required"`
	TimeWindowDays int                  `json:"time_window_days"`
	Search         *domain.SearchConfig `json:"search"`
}

// PreviewResponse returns the collected documents without judgment.
type PreviewResponse struct {
	Vendor    domain.Vendor     `json:"vendor"`
	Used      bool              `json:"used"`
	DocsCount int               `json:"docs_count"`
	Documents []domain.Document `json:"documents"`
}

// ErrorResponse is the uniform error body.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// Package admin serves the back office dashboard and order listing.
package admin

import (
	"context"
	"strings"

	"github.com/google/uuid"
	orderapp "github.com/storefront/backend/internal/application/order"
	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/order"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// Service aggregates catalog and order data for administrators
type Service struct {
	products catalog.ProductRepository
	orders   order.Repository
	logger   *zap.Logger
}

// NewService creates a new admin service
func NewService(products catalog.ProductRepository, orders order.Repository, logger *zap.Logger) *Service {
	return &Service{products: products, orders: orders, logger: logger}
}

// Dashboard collects product counts, order stats and the latest orders
func (s *Service) Dashboard(ctx context.Context) (*DashboardResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "admin", "Dashboard")
	defer span.End()

	counts, err := s.products.Counts(ctx)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, shared.EnsureDomainError(err, shared.CodePersistence, "Failed to count products")
	}
	stats, err := s.orders.Stats(ctx)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, shared.EnsureDomainError(err, shared.CodePersistence, "Failed to load order statistics")
	}
	recent, err := s.orders.Recent(ctx, RecentOrdersLimit)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, shared.EnsureDomainError(err, shared.CodePersistence, "Failed to load recent orders")
	}

	telemetry.SetOK(span)
	return &DashboardResponse{
		TotalProducts:  counts.Total,
		ActiveProducts: counts.Active,
		TotalOrders:    stats.TotalOrders,
		PendingOrders:  stats.PendingOrders,
		Revenue:        stats.Revenue,
		RecentOrders:   orderapp.ToOrderResponses(recent),
	}, nil
}

// Orders lists orders for the back office
func (s *Service) Orders(ctx context.Context, f OrderListFilter) (*OrderListResponse, error) {
	filter := order.ListFilter{
		Filter: shared.Filter{
			Page:     max(f.Page, 1),
			PageSize: f.PageSize,
			OrderBy:  f.OrderBy,
			OrderDir: f.OrderDir,
		},
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}
	if filter.OrderBy == "" {
		filter.OrderBy, filter.OrderDir = "created_at", "desc"
	}
	if f.Status != "" && f.Status != "all" {
		status := order.Status(f.Status)
		if !status.IsValid() {
			return nil, shared.NewValidationError("Unknown order status: %q", f.Status)
		}
		filter.Status = status
	}
	if search := strings.TrimSpace(f.Search); search != "" {
		if id, err := uuid.Parse(search); err == nil {
			filter.UserID = &id
		} else {
			filter.Search = search
		}
	}

	orders, total, err := s.orders.List(ctx, filter)
	if err != nil {
		return nil, shared.EnsureDomainError(err, shared.CodePersistence, "Failed to load orders")
	}
	counts, err := s.orders.CountByStatus(ctx)
	if err != nil {
		return nil, shared.EnsureDomainError(err, shared.CodePersistence, "Failed to count orders")
	}

	resp := &OrderListResponse{
		Orders:       orderapp.ToOrderResponses(orders),
		Total:        total,
		Page:         filter.Page,
		PageSize:     filter.PageSize,
		StatusCounts: map[string]int64{"all": 0},
	}
	for _, st := range order.AllStatuses {
		resp.StatusCounts[st.String()] = counts[st]
		resp.StatusCounts["all"] += counts[st]
	}
	return resp, nil
}

package admin

import (
	"github.com/shopspring/decimal"
	orderapp "github.com/storefront/backend/internal/application/order"
)

// RecentOrdersLimit is how many orders the dashboard shows
const RecentOrdersLimit = 5

// DashboardResponse is the back office landing page data
type DashboardResponse struct {
	TotalProducts  int64                    `json:"total_products"`
	ActiveProducts int64                    `json:"active_products"`
	TotalOrders    int64                    `json:"total_orders"`
	PendingOrders  int64                    `json:"pending_orders"`
	Revenue        decimal.Decimal          `json:"revenue"`
	RecentOrders   []orderapp.OrderResponse `json:"recent_orders"`
}

// OrderListFilter is the admin order search. Search matches the order
// number, or the owning user when it parses as a uuid.
type OrderListFilter struct {
	Search   string `form:"search"`
	Status   string `form:"status" binding:"omitempty,oneof=all pending confirmed processing shipped delivered cancelled refunded"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy  string `form:"order_by"`
	OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// OrderListResponse is a page of orders plus per-status totals
type OrderListResponse struct {
	Orders       []orderapp.OrderResponse `json:"orders"`
	Total        int64                    `json:"total"`
	Page         int                      `json:"page"`
	PageSize     int                      `json:"page_size"`
	StatusCounts map[string]int64         `json:"status_counts"`
}

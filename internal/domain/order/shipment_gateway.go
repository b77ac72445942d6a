package order

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/shared/valueobject"
)

// ShipmentGateway is the port to the courier
type ShipmentGateway interface {
	CreateShipment(ctx context.Context, req CreateShipmentRequest) (*CreateShipmentResult, error)
	Track(ctx context.Context, waybill string) (*TrackResult, error)
	Cancel(ctx context.Context, waybill string) (*CancelShipmentResult, error)
	CheckServiceability(ctx context.Context, pincode string) (*ServiceabilityResult, error)
	CalculateRate(ctx context.Context, req RateRequest) (*RateResult, error)
}

// ShipmentProduct is one entry of the package contents
type ShipmentProduct struct {
	Name     string
	Quantity int
}

// CreateShipmentRequest is the carrier booking for one order
type CreateShipmentRequest struct {
	OrderNumber string
	OrderDate   time.Time
	Consignee   valueobject.ShippingAddress
	Products    []ShipmentProduct
	TotalAmount decimal.Decimal
	CODAmount   decimal.Decimal
	Quantity    int
	WeightKG    decimal.Decimal
	LengthCM    int
	WidthCM     int
	HeightCM    int
}

// NewCreateShipmentRequest builds the carrier booking for an order
func NewCreateShipmentRequest(o *Order) CreateShipmentRequest {
	products := make([]ShipmentProduct, 0, len(o.Items))
	for _, item := range o.Items {
		products = append(products, ShipmentProduct{Name: item.Product.Name, Quantity: item.Quantity})
	}
	return CreateShipmentRequest{
		OrderNumber: o.OrderNumber,
		OrderDate:   o.CreatedAt,
		Consignee:   o.ShippingAddress,
		Products:    products,
		TotalAmount: o.TotalAmount,
		CODAmount:   o.CODAmount(),
		Quantity:    o.TotalQuantity(),
		WeightKG:    o.PackageWeightKG(),
		LengthCM:    PackageLengthCM,
		WidthCM:     PackageWidthCM,
		HeightCM:    PackageHeightCM,
	}
}

// CreateShipmentResult is the carrier's booking confirmation
type CreateShipmentResult struct {
	Waybill           string `json:"waybill"`
	ReferenceNumber   string `json:"refnum"`
	EstimatedDelivery string `json:"expected_delivery_date"`
}

// Scan is one checkpoint in a shipment's journey
type Scan struct {
	Time         time.Time `json:"time"`
	Location     string    `json:"location"`
	Status       string    `json:"status"`
	Instructions string    `json:"instructions"`
}

// TrackResult is the normalised tracking view of a shipment.
// Scans are ordered oldest first.
type TrackResult struct {
	AWB            string    `json:"awb"`
	OrderID        string    `json:"order_id"`
	Status         string    `json:"status"`
	StatusLocation string    `json:"status_location"`
	StatusTime     time.Time `json:"status_time"`
	Instructions   string    `json:"instructions"`
	Scans          []Scan    `json:"scans"`
}

// CancelShipmentResult reports the carrier's answer to a cancellation
type CancelShipmentResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// ServiceabilityResult reports whether the carrier delivers to a pincode
type ServiceabilityResult struct {
	Pincode      string `json:"pincode"`
	Serviceable  bool   `json:"serviceable"`
	CODAvailable bool   `json:"cod_available"`
	City         string `json:"city,omitempty"`
	State        string `json:"state,omitempty"`
}

// RateRequest asks for a delivery charge estimate
type RateRequest struct {
	OriginPincode      string
	DestinationPincode string
	WeightKG           decimal.Decimal
	COD                bool
	CODAmount          decimal.Decimal
}

// RateResult is the carrier's charge estimate
type RateResult struct {
	TotalAmount decimal.Decimal `json:"total_amount"`
}

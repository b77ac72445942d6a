package order

import (
	"context"
	"slices"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/order"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/domain/shared/valueobject"
	"github.com/storefront/backend/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

var errShippingNotConfigured = shared.NewDomainError(shared.CodeGatewayNotConfigured, "Shipping is not configured")

// CreateShipment books the courier for a confirmed or processing order and
// moves it to shipped. A carrier failure leaves the order untouched.
func (s *OrderService) CreateShipment(ctx context.Context, orderID uuid.UUID) (*OrderResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "order", "create_shipment")
	defer span.End()

	if s.shipments == nil {
		return nil, errShippingNotConfigured
	}
	o, err := s.find(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !o.Status.CanShip() {
		return nil, shared.NewInvalidTransitionError(o.Status.String(), order.StatusShipped.String())
	}

	result, err := s.shipments.CreateShipment(ctx, order.NewCreateShipmentRequest(o))
	if err != nil {
		telemetry.RecordError(span, err)
		s.logger.Warn("Shipment creation failed",
			zap.String("order_id", o.ID.String()),
			zap.Error(err))
		return nil, shared.WrapDomainError(shared.CodeShipment,
			order.GatewayReason(err, "Shipment creation failed"), err)
	}
	if result == nil {
		return nil, shared.NewDomainError(shared.CodeShipment, "Shipment creation failed")
	}

	if err := o.MarkShipped(order.Shipment{
		Carrier:           order.DeliveryPartnerDelhivery,
		TrackingID:        result.ReferenceNumber,
		AWBNumber:         result.Waybill,
		EstimatedDelivery: result.EstimatedDelivery,
	}); err != nil {
		return nil, err
	}
	if err := s.save(ctx, o); err != nil {
		return nil, err
	}

	s.logger.Info("Shipment created",
		zap.String("order_id", o.ID.String()),
		zap.String("waybill", result.Waybill))
	telemetry.SetAttributes(span, telemetry.SpanAttrWaybill, result.Waybill)
	telemetry.SetOK(span)
	resp := ToOrderResponse(o)
	return &resp, nil
}

// TrackShipment returns the carrier's tracking view for one of the user's orders
func (s *OrderService) TrackShipment(ctx context.Context, userID, orderID uuid.UUID) (*TrackingResponse, error) {
	o, err := s.findForUser(ctx, userID, orderID)
	if err != nil {
		return nil, err
	}
	return s.track(ctx, o)
}

// TrackShipmentByID is TrackShipment without the ownership check; admin only
func (s *OrderService) TrackShipmentByID(ctx context.Context, orderID uuid.UUID) (*TrackingResponse, error) {
	o, err := s.find(ctx, orderID)
	if err != nil {
		return nil, err
	}
	return s.track(ctx, o)
}

func (s *OrderService) track(ctx context.Context, o *order.Order) (*TrackingResponse, error) {
	if !o.HasTracking() {
		return nil, shared.ErrNoTrackingInfo
	}
	if s.shipments == nil {
		return nil, errShippingNotConfigured
	}

	result, err := s.shipments.Track(ctx, o.TrackingReference())
	if err != nil {
		return nil, shared.WrapDomainError(shared.CodeShipment,
			order.GatewayReason(err, "Tracking is unavailable"), err)
	}
	if result == nil || len(result.Scans) == 0 {
		return nil, shared.NewDomainError(shared.CodeNoTrackingInfo, "The carrier has not scanned this shipment yet")
	}

	tracking := *result
	tracking.Scans = slices.Clone(result.Scans)
	slices.SortStableFunc(tracking.Scans, func(a, b order.Scan) int {
		return a.Time.Compare(b.Time)
	})
	return &TrackingResponse{
		OrderID:     o.ID,
		OrderNumber: o.OrderNumber,
		Carrier:     o.DeliveryPartner,
		Tracking:    tracking,
	}, nil
}

// CancelShipment asks the carrier to cancel the booked shipment.
// The order status is not changed; admins do that separately.
func (s *OrderService) CancelShipment(ctx context.Context, orderID uuid.UUID) (*CancelShipmentResponse, error) {
	if s.shipments == nil {
		return nil, errShippingNotConfigured
	}
	o, err := s.find(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if o.AWBNumber == "" {
		return nil, shared.ErrNoTrackingInfo
	}

	result, err := s.shipments.Cancel(ctx, o.AWBNumber)
	if err != nil {
		return nil, shared.WrapDomainError(shared.CodeShipment,
			order.GatewayReason(err, "Shipment cancellation failed"), err)
	}
	if result == nil {
		return nil, shared.NewDomainError(shared.CodeShipment, "Shipment cancellation failed")
	}

	s.logger.Info("Shipment cancellation requested",
		zap.String("order_id", o.ID.String()),
		zap.String("waybill", o.AWBNumber),
		zap.Bool("success", result.Success))
	return &CancelShipmentResponse{
		OrderID: o.ID,
		Waybill: o.AWBNumber,
		Success: result.Success,
		Message: result.Message,
	}, nil
}

var minQuoteWeight = decimal.RequireFromString("0.5")

// ShippingQuote checks serviceability of a pincode and, when served, estimates the charge
func (s *OrderService) ShippingQuote(ctx context.Context, req ShippingQuoteRequest) (*ShippingQuoteResponse, error) {
	if !valueobject.IsValidPincode(req.Pincode) {
		return nil, shared.NewValidationError("Pincode must be 6 digits")
	}
	if s.shipments == nil {
		return nil, errShippingNotConfigured
	}

	svc, err := s.shipments.CheckServiceability(ctx, req.Pincode)
	if err != nil {
		return nil, shared.WrapDomainError(shared.CodeShipment,
			order.GatewayReason(err, "Serviceability check failed"), err)
	}
	if svc == nil {
		return nil, shared.NewDomainError(shared.CodeShipment, "Serviceability check failed")
	}
	resp := &ShippingQuoteResponse{Serviceability: *svc}
	if !svc.Serviceable || (req.COD && !svc.CODAvailable) {
		return resp, nil
	}

	weight := decimal.NewFromFloat(req.WeightKG)
	if weight.LessThan(minQuoteWeight) {
		weight = minQuoteWeight
	}
	rate, err := s.shipments.CalculateRate(ctx, order.RateRequest{
		OriginPincode:      s.origin,
		DestinationPincode: req.Pincode,
		WeightKG:           weight,
		COD:                req.COD,
		CODAmount:          decimal.NewFromFloat(req.CODAmount),
	})
	if err != nil {
		return nil, shared.WrapDomainError(shared.CodeShipment,
			order.GatewayReason(err, "Rate calculation failed"), err)
	}
	resp.Rate = rate
	return resp, nil
}

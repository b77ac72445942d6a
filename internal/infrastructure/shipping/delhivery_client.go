// Package shipping contains the Delhivery courier adapter.
package shipping

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/order"
	"github.com/storefront/backend/internal/infrastructure/config"
	"github.com/storefront/backend/internal/infrastructure/telemetry"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

const (
	DefaultDelhiveryURL = "https://track.delhivery.com/api"

	gatewayDelhivery        = "delhivery"
	defaultDelhiveryTimeout = 30 * time.Second

	msgShipmentUnavailable = "Shipping service unavailable"
	msgCreateFailed        = "Shipment creation failed"
	msgTrackingNotFound    = "Tracking information not found"
	msgCancelFailed        = "Cancellation failed"
	msgRateFailed          = "Rate calculation failed"
	msgServiceabilityFail  = "Serviceability check failed"
)

// ErrDelhiveryMissingAPIKey is returned when the client is built without credentials
var ErrDelhiveryMissingAPIKey = errors.New("delhivery: missing API key")

// istZone is used for carrier timestamps that carry no offset
var istZone = time.FixedZone("IST", 5*60*60+30*60)

// DelhiveryClient implements order.ShipmentGateway
type DelhiveryClient struct {
	cfg        config.DelhiveryConfig
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

var _ order.ShipmentGateway = (*DelhiveryClient)(nil)

// NewDelhiveryClient builds a client. A nil httpClient gets the configured timeout.
func NewDelhiveryClient(cfg config.DelhiveryConfig, httpClient *http.Client, logger *zap.Logger) (*DelhiveryClient, error) {
	if cfg.APIKey == "" {
		return nil, ErrDelhiveryMissingAPIKey
	}
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = defaultDelhiveryTimeout
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = DefaultDelhiveryURL
	}
	return &DelhiveryClient{
		cfg:        cfg,
		baseURL:    baseURL,
		httpClient: httpClient,
		logger:     logger.Named("delhivery"),
	}, nil
}

// CreateShipment books a pickup for one order and returns the waybill
func (c *DelhiveryClient) CreateShipment(ctx context.Context, req order.CreateShipmentRequest) (*order.CreateShipmentResult, error) {
	ctx, span := c.startSpan(ctx, "create", telemetry.WithAttribute(telemetry.SpanAttrOrderNumber, req.OrderNumber))
	defer span.End()

	body := delhiveryCreateRequest{
		Shipments: []delhiveryShipment{c.buildShipment(req)},
		Pickup:    c.cfg.PickupLocation,
	}
	var resp delhiveryCreateResponse
	if err := c.doJSON(ctx, "create", http.MethodPost, "/cmu/create.json", body, &resp, msgCreateFailed); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	if !resp.Success || len(resp.Packages) == 0 || resp.Packages[0].Waybill == "" {
		reason := resp.Rmk
		if reason == "" && len(resp.Packages) > 0 {
			reason = strings.Join(resp.Packages[0].Remarks, "; ")
		}
		err := c.rejected("create", firstNonEmpty(reason, msgCreateFailed))
		telemetry.RecordError(span, err)
		return nil, err
	}

	pkg := resp.Packages[0]
	telemetry.SetAttributes(span, telemetry.SpanAttrWaybill, pkg.Waybill)
	c.logger.Info("Shipment created",
		zap.String("order_number", req.OrderNumber),
		zap.String("waybill", pkg.Waybill),
	)
	return &order.CreateShipmentResult{
		Waybill:           pkg.Waybill,
		ReferenceNumber:   pkg.RefNum,
		EstimatedDelivery: pkg.ExpectedDeliveryDate,
	}, nil
}

func (c *DelhiveryClient) buildShipment(req order.CreateShipmentRequest) delhiveryShipment {
	paymentMode := "Prepaid"
	if req.CODAmount.IsPositive() {
		paymentMode = "COD"
	}
	descs := make([]string, 0, len(req.Products))
	for _, p := range req.Products {
		descs = append(descs, fmt.Sprintf("%s (%d)", p.Name, p.Quantity))
	}
	addr := req.Consignee
	line := addr.AddressLine1
	if addr.AddressLine2 != "" {
		line += ", " + addr.AddressLine2
	}
	country := firstNonEmpty(addr.Country, "India")

	return delhiveryShipment{
		Name:           addr.FullName,
		Add:            line,
		Pin:            addr.Pincode,
		City:           addr.City,
		State:          addr.State,
		Country:        country,
		Phone:          addr.Phone,
		Order:          req.OrderNumber,
		PaymentMode:    paymentMode,
		ReturnName:     c.cfg.ReturnName,
		ReturnPin:      c.cfg.ReturnPincode,
		ReturnCity:     c.cfg.ReturnCity,
		ReturnPhone:    c.cfg.ReturnPhone,
		ReturnAdd:      c.cfg.ReturnAddress,
		ReturnState:    c.cfg.ReturnState,
		ReturnCountry:  firstNonEmpty(c.cfg.ReturnCountry, "India"),
		ProductsDesc:   strings.Join(descs, ", "),
		HSNCode:        c.cfg.HSNCode,
		CODAmount:      req.CODAmount.StringFixed(2),
		OrderDate:      req.OrderDate.Format(time.DateOnly),
		TotalAmount:    req.TotalAmount.StringFixed(2),
		SellerAdd:      c.cfg.SellerAddress,
		SellerName:     c.cfg.SellerName,
		SellerInv:      req.OrderNumber,
		Quantity:       strconv.Itoa(req.Quantity),
		ShipmentLength: strconv.Itoa(req.LengthCM),
		ShipmentWidth:  strconv.Itoa(req.WidthCM),
		ShipmentHeight: strconv.Itoa(req.HeightCM),
		Weight:         grams(req.WeightKG),
		SellerGSTTIN:   c.cfg.SellerGSTTIN,
		ShippingMode:   "Surface",
		AddressType:    "home",
	}
}

// Track returns the current status and scan history of a waybill
func (c *DelhiveryClient) Track(ctx context.Context, waybill string) (*order.TrackResult, error) {
	ctx, span := c.startSpan(ctx, "track", telemetry.WithAttribute(telemetry.SpanAttrWaybill, waybill))
	defer span.End()

	var resp delhiveryTrackResponse
	path := "/v1/packages/json/?waybill=" + url.QueryEscape(waybill)
	if err := c.doJSON(ctx, "track", http.MethodGet, path, nil, &resp, msgTrackingNotFound); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	if len(resp.ShipmentData) == 0 {
		err := c.rejected("track", msgTrackingNotFound)
		telemetry.RecordError(span, err)
		return nil, err
	}

	s := resp.ShipmentData[0].Shipment
	result := &order.TrackResult{
		AWB:            firstNonEmpty(s.AWB, waybill),
		OrderID:        s.OrderID,
		Status:         s.Status.Status,
		StatusLocation: s.Status.StatusLocation,
		StatusTime:     parseCarrierTime(s.Status.StatusDateTime),
		Instructions:   s.Status.Instructions,
		Scans:          make([]order.Scan, 0, len(s.Scans)),
	}
	for _, scan := range s.Scans {
		d := scan.ScanDetail
		result.Scans = append(result.Scans, order.Scan{
			Time:         parseCarrierTime(d.ScanDateTime),
			Location:     d.ScannedLocation,
			Status:       d.Scan,
			Instructions: d.Instructions,
		})
	}
	sort.SliceStable(result.Scans, func(i, j int) bool {
		return result.Scans[i].Time.Before(result.Scans[j].Time)
	})
	return result, nil
}

// Cancel asks the carrier to cancel a waybill that has not been picked up
func (c *DelhiveryClient) Cancel(ctx context.Context, waybill string) (*order.CancelShipmentResult, error) {
	ctx, span := c.startSpan(ctx, "cancel", telemetry.WithAttribute(telemetry.SpanAttrWaybill, waybill))
	defer span.End()

	var resp delhiveryCancelResponse
	body := delhiveryCancelRequest{Waybill: waybill, Cancellation: true}
	if err := c.doJSON(ctx, "cancel", http.MethodPost, "/p/edit/", body, &resp, msgCancelFailed); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	success := resp.Status == nil || *resp.Status
	if resp.Error != "" {
		success = false
	}
	return &order.CancelShipmentResult{
		Success: success,
		Message: firstNonEmpty(resp.Remark, resp.Error),
	}, nil
}

// CheckServiceability reports whether a pincode is deliverable and whether COD is offered
func (c *DelhiveryClient) CheckServiceability(ctx context.Context, pincode string) (*order.ServiceabilityResult, error) {
	ctx, span := c.startSpan(ctx, "serviceability", telemetry.WithAttribute(telemetry.SpanAttrPincode, pincode))
	defer span.End()

	var resp delhiveryPincodeResponse
	if err := c.doJSON(ctx, "serviceability", http.MethodGet, "/p/edit/?pin="+url.QueryEscape(pincode), nil, &resp, msgServiceabilityFail); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	result := &order.ServiceabilityResult{Pincode: pincode}
	if len(resp.DeliveryCodes) == 0 {
		return result, nil
	}
	pc := resp.DeliveryCodes[0].PostalCode
	result.CODAvailable = strings.EqualFold(pc.COD, "Y")
	result.Serviceable = strings.EqualFold(pc.PrePaid, "Y") || result.CODAvailable
	result.City = firstNonEmpty(pc.City, pc.District)
	result.State = pc.State
	return result, nil
}

// CalculateRate asks for the surface delivery charge between two pincodes
func (c *DelhiveryClient) CalculateRate(ctx context.Context, req order.RateRequest) (*order.RateResult, error) {
	ctx, span := c.startSpan(ctx, "rate", telemetry.WithAttribute(telemetry.SpanAttrPincode, req.DestinationPincode))
	defer span.End()

	paymentType := "Pre-paid"
	codAmount := decimal.Zero
	if req.COD {
		paymentType = "COD"
		codAmount = req.CODAmount
	}
	q := url.Values{}
	q.Set("md", "S")
	q.Set("ss", "Delivered")
	q.Set("d_pin", req.DestinationPincode)
	q.Set("o_pin", req.OriginPincode)
	q.Set("cgm", grams(req.WeightKG))
	q.Set("pt", paymentType)
	q.Set("cod", codAmount.StringFixed(2))

	var charges []delhiveryCharge
	if err := c.doJSON(ctx, "rate", http.MethodGet, "/kinko/v1/invoice/charges/.json?"+q.Encode(), nil, &charges, msgRateFailed); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	if len(charges) == 0 {
		err := c.rejected("rate", msgRateFailed)
		telemetry.RecordError(span, err)
		return nil, err
	}
	return &order.RateResult{TotalAmount: charges[0].TotalAmount}, nil
}

func (c *DelhiveryClient) doJSON(ctx context.Context, op, method, path string, in, out any, failureMsg string) error {
	var body io.Reader
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("delhivery: failed to marshal request: %w", err)
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("delhivery: failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Token "+c.cfg.APIKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("Delhivery request failed", zap.String("op", op), zap.Error(err))
		return &order.GatewayError{Gateway: gatewayDelhivery, Op: op, Reason: msgShipmentUnavailable, Err: fmt.Errorf("%w: %v", order.ErrGatewayUnavailable, err)}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return &order.GatewayError{Gateway: gatewayDelhivery, Op: op, Reason: msgShipmentUnavailable, Err: fmt.Errorf("%w: %v", order.ErrGatewayUnavailable, err)}
	}
	switch {
	case resp.StatusCode >= http.StatusInternalServerError:
		c.logger.Warn("Delhivery server error", zap.String("op", op), zap.Int("status", resp.StatusCode))
		return &order.GatewayError{Gateway: gatewayDelhivery, Op: op, Code: strconv.Itoa(resp.StatusCode), Reason: msgShipmentUnavailable, Err: order.ErrGatewayUnavailable}
	case resp.StatusCode >= http.StatusBadRequest:
		return c.rejected(op, failureMsg)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return c.rejected(op, failureMsg)
	}
	return nil
}

func (c *DelhiveryClient) rejected(op, reason string) error {
	c.logger.Warn("Delhivery rejected request", zap.String("op", op), zap.String("reason", reason))
	return &order.GatewayError{Gateway: gatewayDelhivery, Op: op, Reason: reason, Err: order.ErrGatewayRejected}
}

func (c *DelhiveryClient) startSpan(ctx context.Context, op string, opts ...telemetry.SpanOption) (context.Context, trace.Span) {
	opts = append(opts,
		telemetry.WithSpanKind(trace.SpanKindClient),
		telemetry.WithAttribute(telemetry.SpanAttrGateway, gatewayDelhivery),
	)
	return telemetry.StartSpan(ctx, "delhivery."+op, opts...)
}

// grams converts kilograms to whole grams
func grams(kg decimal.Decimal) string {
	return kg.Mul(decimal.NewFromInt(1000)).Round(0).String()
}

var carrierTimeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

// parseCarrierTime accepts the timestamp shapes the tracking API emits.
// Unparseable values become the zero time.
func parseCarrierTime(s string) time.Time {
	s = strings.TrimSpace(s)
	for _, layout := range carrierTimeLayouts {
		if t, err := time.ParseInLocation(layout, s, istZone); err == nil {
			return t
		}
	}
	return time.Time{}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

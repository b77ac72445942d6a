package shipping

import "github.com/shopspring/decimal"

type delhiveryCreateRequest struct {
	Shipments []delhiveryShipment `json:"shipments"`
	Pickup    string              `json:"pickup"`
}

// delhiveryShipment carries every field as a string, as the CMU API expects
type delhiveryShipment struct {
	Name           string `json:"name"`
	Add            string `json:"add"`
	Pin            string `json:"pin"`
	City           string `json:"city"`
	State          string `json:"state"`
	Country        string `json:"country"`
	Phone          string `json:"phone"`
	Order          string `json:"order"`
	PaymentMode    string `json:"payment_mode"`
	ReturnName     string `json:"return_name,omitempty"`
	ReturnPin      string `json:"return_pin"`
	ReturnCity     string `json:"return_city"`
	ReturnPhone    string `json:"return_phone"`
	ReturnAdd      string `json:"return_add"`
	ReturnState    string `json:"return_state"`
	ReturnCountry  string `json:"return_country"`
	ProductsDesc   string `json:"products_desc"`
	HSNCode        string `json:"hsn_code"`
	CODAmount      string `json:"cod_amount"`
	OrderDate      string `json:"order_date"`
	TotalAmount    string `json:"total_amount"`
	SellerAdd      string `json:"seller_add"`
	SellerName     string `json:"seller_name"`
	SellerInv      string `json:"seller_inv"`
	Quantity       string `json:"quantity"`
	Waybill        string `json:"waybill"`
	ShipmentLength string `json:"shipment_length"`
	ShipmentWidth  string `json:"shipment_width"`
	ShipmentHeight string `json:"shipment_height"`
	Weight         string `json:"weight"`
	SellerGSTTIN   string `json:"seller_gst_tin"`
	ShippingMode   string `json:"shipping_mode"`
	AddressType    string `json:"address_type"`
}

type delhiveryCreateResponse struct {
	Success  bool                     `json:"success"`
	Rmk      string                   `json:"rmk"`
	Packages []delhiveryPackageResult `json:"packages"`
}

type delhiveryPackageResult struct {
	Waybill              string   `json:"waybill"`
	RefNum               string   `json:"refnum"`
	Status               string   `json:"status"`
	Remarks              []string `json:"remarks"`
	ExpectedDeliveryDate string   `json:"expected_delivery_date"`
}

type delhiveryTrackResponse struct {
	ShipmentData []struct {
		Shipment delhiveryTrackedShipment `json:"Shipment"`
	} `json:"ShipmentData"`
}

type delhiveryTrackedShipment struct {
	AWB     string `json:"AWB"`
	OrderID string `json:"ReferenceNo"`
	Status  struct {
		Status         string `json:"Status"`
		StatusLocation string `json:"StatusLocation"`
		StatusDateTime string `json:"StatusDateTime"`
		Instructions   string `json:"Instructions"`
	} `json:"Status"`
	Scans []struct {
		ScanDetail struct {
			ScanDateTime    string `json:"ScanDateTime"`
			Scan            string `json:"Scan"`
			Instructions    string `json:"Instructions"`
			ScannedLocation string `json:"ScannedLocation"`
		} `json:"ScanDetail"`
	} `json:"Scans"`
}

type delhiveryCancelRequest struct {
	Waybill      string `json:"waybill"`
	Cancellation bool   `json:"cancellation"`
}

type delhiveryCancelResponse struct {
	Status *bool  `json:"status"`
	Remark string `json:"remark"`
	Error  string `json:"error"`
}

type delhiveryPincodeResponse struct {
	DeliveryCodes []struct {
		PostalCode struct {
			Pin      any    `json:"pin"`
			City     string `json:"city"`
			District string `json:"district"`
			State    string `json:"state_code"`
			COD      string `json:"cod"`
			PrePaid  string `json:"pre_paid"`
		} `json:"postal_code"`
	} `json:"delivery_codes"`
}

type delhiveryCharge struct {
	TotalAmount decimal.Decimal `json:"total_amount"`
}

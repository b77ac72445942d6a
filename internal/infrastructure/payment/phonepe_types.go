package payment

// phonePePayPayload is base64-encoded into the "request" field of /pg/v1/pay
type phonePePayPayload struct {
	MerchantID            string                   `json:"merchantId"`
	MerchantTransactionID string                   `json:"merchantTransactionId"`
	MerchantUserID        string                   `json:"merchantUserId"`
	Amount                int64                    `json:"amount"`
	RedirectURL           string                   `json:"redirectUrl"`
	RedirectMode          string                   `json:"redirectMode"`
	CallbackURL           string                   `json:"callbackUrl"`
	MobileNumber          string                   `json:"mobileNumber,omitempty"`
	DeviceContext         phonePeDeviceContext     `json:"deviceContext"`
	PaymentInstrument     phonePePaymentInstrument `json:"paymentInstrument"`
}

type phonePeDeviceContext struct {
	DeviceOS string `json:"deviceOS"`
}

type phonePePaymentInstrument struct {
	Type string `json:"type"`
}

type phonePeRefundPayload struct {
	MerchantID            string `json:"merchantId"`
	MerchantUserID        string `json:"merchantUserId,omitempty"`
	OriginalTransactionID string `json:"originalTransactionId"`
	MerchantTransactionID string `json:"merchantTransactionId"`
	Amount                int64  `json:"amount"`
	CallbackURL           string `json:"callbackUrl"`
}

// phonePeEnvelope is the signed request body for POST endpoints
type phonePeEnvelope struct {
	Request string `json:"request"`
}

// phonePeResponse is the common response shape of every endpoint and of
// the decoded server-to-server callback
type phonePeResponse struct {
	Success bool                 `json:"success"`
	Code    string               `json:"code"`
	Message string               `json:"message"`
	Data    *phonePeResponseData `json:"data"`
}

type phonePeResponseData struct {
	MerchantID            string                     `json:"merchantId"`
	MerchantTransactionID string                     `json:"merchantTransactionId"`
	TransactionID         string                     `json:"transactionId"`
	Amount                int64                      `json:"amount"`
	State                 string                     `json:"state"`
	ResponseCode          string                     `json:"responseCode"`
	InstrumentResponse    *phonePeInstrumentResponse `json:"instrumentResponse"`
}

type phonePeInstrumentResponse struct {
	Type         string               `json:"type"`
	RedirectInfo *phonePeRedirectInfo `json:"redirectInfo"`
}

type phonePeRedirectInfo struct {
	URL    string `json:"url"`
	Method string `json:"method"`
}

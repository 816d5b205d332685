package entity

import "fmt"

// PaymentRequest is the transient input of a payment initiation. Amount is in
// rupees; conversion to the gateway's minor unit happens once, in the payload
// encoder.
type PaymentRequest struct {
	Amount    int
	OrderId   string
	UserId    string
	UserEmail string
	UserName  string
}

// PayEnvelope is the gateway's pay request structure. It is serialized to
// JSON, Base64-encoded and signed before transmission; field order matters
// for the checksum, so the struct is marshalled exactly once per request.
type PayEnvelope struct {
	MerchantId            string            `json:"merchantId"`
	MerchantTransactionId string            `json:"merchantTransactionId"`
	MerchantUserId        string            `json:"merchantUserId"`
	Amount                int64             `json:"amount"`
	RedirectUrl           string            `json:"redirectUrl"`
	RedirectMode          string            `json:"redirectMode"`
	CallbackUrl           string            `json:"callbackUrl"`
	PaymentInstrument     PaymentInstrument `json:"paymentInstrument"`
	UserDetail            UserDetail        `json:"userDetail"`
}

type PaymentInstrument struct {
	Type string `json:"type"`
}

type UserDetail struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// SignedEnvelope is the encoded payload together with its X-VERIFY checksum.
// Both are transient and never persisted.
type SignedEnvelope struct {
	Payload  string
	Checksum string
}

// PayResponse is the gateway's pay initiation response.
type PayResponse struct {
	Success bool     `json:"success"`
	Code    string   `json:"code"`
	Message string   `json:"message"`
	Data    *PayData `json:"data"`
}

type PayData struct {
	MerchantId            string              `json:"merchantId"`
	MerchantTransactionId string              `json:"merchantTransactionId"`
	InstrumentResponse    *InstrumentResponse `json:"instrumentResponse"`
}

type InstrumentResponse struct {
	Type         string        `json:"type"`
	RedirectInfo *RedirectInfo `json:"redirectInfo"`
}

type RedirectInfo struct {
	Url    string `json:"url"`
	Method string `json:"method"`
}

// RedirectUrl extracts the hosted payment page URL from the nested response
// structure, failing with a descriptive error when the shape does not match
// instead of panicking on a missing branch.
func (r *PayResponse) RedirectUrl() (string, error) {
	if r.Data == nil || r.Data.InstrumentResponse == nil || r.Data.InstrumentResponse.RedirectInfo == nil {
		return "", fmt.Errorf("gateway response missing redirect info")
	}
	url := r.Data.InstrumentResponse.RedirectInfo.Url
	if url == "" {
		return "", fmt.Errorf("gateway response has empty redirect url")
	}
	return url, nil
}

// StatusResponse is the gateway's transaction status response, used to verify
// a payment outcome server-side before an order is marked completed.
type StatusResponse struct {
	Success bool        `json:"success"`
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Data    *StatusData `json:"data"`
}

type StatusData struct {
	MerchantId            string `json:"merchantId"`
	MerchantTransactionId string `json:"merchantTransactionId"`
	TransactionId         string `json:"transactionId"`
	Amount                int64  `json:"amount"`
	State                 string `json:"state"`
	ResponseCode          string `json:"responseCode"`
}

// Gateway status response codes. PaymentPending means the outcome is not yet
// final and the order must stay pending.
const (
	PaymentSuccess = "PAYMENT_SUCCESS"
	PaymentPending = "PAYMENT_PENDING"
)

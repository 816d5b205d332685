package internal

import (
	"encoding/json"
	"fmt"
	"foodcourt/entity"

	"gitee.com/golang-module/dongle"
)

const (
	redirectPath = "/payment/callback"
	callbackPath = "/api/payment/callback"
)

// NewEnvelope builds the gateway pay envelope from a payment request. The
// amount arrives in rupees and is converted to paise here, and only here;
// callers must never pre-convert. Redirect and callback URLs are derived from
// the origin of the current deployment, passed in by the caller.
func NewEnvelope(request *entity.PaymentRequest, merchantId, origin string) *entity.PayEnvelope {
	return &entity.PayEnvelope{
		MerchantId:            merchantId,
		MerchantTransactionId: request.OrderId,
		MerchantUserId:        request.UserId,
		Amount:                int64(request.Amount) * 100,
		RedirectUrl:           origin + redirectPath,
		RedirectMode:          "POST",
		CallbackUrl:           origin + callbackPath,
		PaymentInstrument:     entity.PaymentInstrument{Type: "PAY_PAGE"},
		UserDetail: entity.UserDetail{
			Name:  request.UserName,
			Email: request.UserEmail,
		},
	}
}

// EncodeEnvelope serializes the envelope to canonical JSON and encodes it as
// Base64. The returned string is exactly what goes on the wire and into the
// checksum.
func EncodeEnvelope(envelope *entity.PayEnvelope) (string, error) {
	payload, err := json.Marshal(envelope)
	if err != nil {
		return "", fmt.Errorf("marshal envelope: %v", err)
	}
	return dongle.Encode.FromBytes(payload).ByBase64().ToString(), nil
}

// DecodeEnvelope reverses EncodeEnvelope.
func DecodeEnvelope(encoded string) (*entity.PayEnvelope, error) {
	payload := dongle.Decode.FromString(encoded).ByBase64().ToBytes()
	if len(payload) == 0 {
		return nil, fmt.Errorf("empty payload")
	}
	var envelope entity.PayEnvelope
	if err := json.Unmarshal(payload, &envelope); err != nil {
		return nil, fmt.Errorf("unmarshal envelope: %v", err)
	}
	return &envelope, nil
}

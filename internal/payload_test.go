package internal

import (
	"encoding/base64"
	"encoding/json"
	"foodcourt/entity"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func paymentRequestFixture() *entity.PaymentRequest {
	return &entity.PaymentRequest{
		Amount:    400, // subtotal 360 + delivery fee 40, in rupees
		OrderId:   entity.MerchantTxnId(time.UnixMilli(1700000000000), "u1"),
		UserId:    "u1",
		UserEmail: "u1@example.com",
		UserName:  "User One",
	}
}

func TestNewEnvelope(t *testing.T) {
	envelope := NewEnvelope(paymentRequestFixture(), "MERCHANT1", "https://shop.example.com")

	require.Equal(t, "ORDER_1700000000000_u1", envelope.MerchantTransactionId)
	require.Equal(t, int64(40000), envelope.Amount, "rupees must convert to paise exactly once")
	require.Equal(t, "MERCHANT1", envelope.MerchantId)
	require.Equal(t, "u1", envelope.MerchantUserId)
	require.Equal(t, "https://shop.example.com/payment/callback", envelope.RedirectUrl)
	require.Equal(t, "https://shop.example.com/api/payment/callback", envelope.CallbackUrl)
	require.Equal(t, "POST", envelope.RedirectMode)
	require.Equal(t, "PAY_PAGE", envelope.PaymentInstrument.Type)
	require.Equal(t, "User One", envelope.UserDetail.Name)
	require.Equal(t, "u1@example.com", envelope.UserDetail.Email)
}

func TestEncodeEnvelopeRoundTrip(t *testing.T) {
	envelope := NewEnvelope(paymentRequestFixture(), "MERCHANT1", "https://shop.example.com")

	encoded, err := EncodeEnvelope(envelope)
	require.NoError(t, err)

	// The encoded payload is the Base64 of the canonical JSON, byte for byte.
	want, err := json.Marshal(envelope)
	require.NoError(t, err)
	raw, err := base64.StdEncoding.DecodeString(encoded)
	require.NoError(t, err)
	require.Equal(t, want, raw)

	decoded, err := DecodeEnvelope(encoded)
	require.NoError(t, err)
	require.Equal(t, envelope, decoded)
}

func TestDecodeEnvelopeRejectsGarbage(t *testing.T) {
	if _, err := DecodeEnvelope(""); err == nil {
		t.Fatal("expected error for empty payload")
	}
	if _, err := DecodeEnvelope("bm90IGpzb24="); err == nil {
		t.Fatal("expected error for non-JSON payload")
	}
}

func TestMerchantTxnIdDerivation(t *testing.T) {
	at := time.UnixMilli(1700000000000)
	require.Equal(t, "ORDER_1700000000000_u1", entity.MerchantTxnId(at, "u1"))
}

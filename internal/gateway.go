package internal

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"foodcourt/config"
	"foodcourt/entity"
	"io"
	"net/http"
	"time"
)

const (
	payPath    = "/pg/v1/pay"
	statusPath = "/pg/v1/status"
)

// Gateway is the HTTP client for the hosted payment gateway. It owns request
// construction, signing and typed response handling; callers only see
// *entity.PaymentError values.
type Gateway struct {
	requestUrl string
	merchantId string
	signer     *Signer
	httpClient *http.Client
}

// NewGateway creates a gateway client with a tuned HTTP client. Calls are
// bounded by the client timeout in addition to any request context deadline.
func NewGateway(conf *config.Config) *Gateway {
	return &Gateway{
		requestUrl: conf.Gateway.RequestUrl,
		merchantId: conf.Gateway.MerchantId,
		signer:     NewSigner(conf.Gateway.SaltKey, conf.Gateway.SaltIndex),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
				DisableKeepAlives:   false,
			},
		},
	}
}

// Pay initiates a payment and returns the URL of the gateway-hosted payment
// page. There is no synchronous confirmation of payment completion; the
// outcome arrives later through the callback.
func (g *Gateway) Pay(ctx context.Context, request *entity.PaymentRequest, origin string) (string, error) {
	envelope := NewEnvelope(request, g.merchantId, origin)
	payload, err := EncodeEnvelope(envelope)
	if err != nil {
		return "", entity.GatewayRejection("", err)
	}
	signed := entity.SignedEnvelope{
		Payload:  payload,
		Checksum: g.signer.SignPayload(payload, payPath),
	}

	body, err := json.Marshal(map[string]string{"request": signed.Payload})
	if err != nil {
		return "", entity.GatewayRejection("", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.requestUrl+payPath, bytes.NewBuffer(body))
	if err != nil {
		return "", entity.GatewayRejection("", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-VERIFY", signed.Checksum)

	response, err := g.httpClient.Do(req)
	if err != nil {
		return "", entity.NetworkError(err)
	}
	defer g.closeBody(response.Body)

	data, err := io.ReadAll(response.Body)
	if err != nil {
		return "", entity.NetworkError(err)
	}
	var payResponse entity.PayResponse
	if err = json.Unmarshal(data, &payResponse); err != nil {
		return "", entity.GatewayRejection("", fmt.Errorf("parse pay response: %v", err))
	}
	if !payResponse.Success {
		return "", entity.GatewayRejection(payResponse.Message, nil)
	}
	url, err := payResponse.RedirectUrl()
	if err != nil {
		return "", entity.GatewayRejection("", err)
	}
	return url, nil
}

// Status queries the authoritative transaction state for a merchant
// transaction id. Callback data is never trusted; this call is the only
// source of truth for completing an order.
func (g *Gateway) Status(ctx context.Context, merchantTxnId string) (*entity.StatusResponse, error) {
	path := fmt.Sprintf("%s/%s/%s", statusPath, g.merchantId, merchantTxnId)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.requestUrl+path, nil)
	if err != nil {
		return nil, entity.GatewayRejection("", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-VERIFY", g.signer.SignPath(path))
	req.Header.Set("X-MERCHANT-ID", g.merchantId)

	response, err := g.httpClient.Do(req)
	if err != nil {
		return nil, entity.NetworkError(err)
	}
	defer g.closeBody(response.Body)

	data, err := io.ReadAll(response.Body)
	if err != nil {
		return nil, entity.NetworkError(err)
	}
	var statusResponse entity.StatusResponse
	if err = json.Unmarshal(data, &statusResponse); err != nil {
		return nil, entity.GatewayRejection("", fmt.Errorf("parse status response: %v", err))
	}
	return &statusResponse, nil
}

func (g *Gateway) closeBody(body io.ReadCloser) {
	_ = body.Close()
}

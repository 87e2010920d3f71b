package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/freshmart/backend/internal/domain/payment"
)

const (
	paypalAPIBaseURL        = "https://api-m.paypal.com"
	paypalSandboxAPIBaseURL = "https://api-m.sandbox.paypal.com"
	paypalTokenPath         = "/v1/oauth2/token"
	paypalCreateOrderPath   = "/v2/checkout/orders"
	paypalCaptureOrderPath  = "/v2/checkout/orders/%s/capture"

	paypalIntentCapture = "CAPTURE"
)

// tokenExpiryMargin is subtracted from a token's lifetime so a token
// never expires mid-request.
const tokenExpiryMargin = 60 * time.Second

// PayPalAdapter implements the Provider interface against the PayPal
// REST checkout API (v2 orders with a CAPTURE intent).
type PayPalAdapter struct {
	config     *PayPalConfig
	httpClient *http.Client

	tokenMu     sync.Mutex
	accessToken string
	tokenExpiry time.Time
}

// NewPayPalAdapter creates a new PayPal adapter
func NewPayPalAdapter(config *PayPalConfig) (*PayPalAdapter, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &PayPalAdapter{
		config: config,
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
	}, nil
}

// ProviderType returns the provider type
func (a *PayPalAdapter) ProviderType() payment.ProviderType {
	return payment.ProviderTypePayPal
}

// CreateOrder registers a checkout order with a CAPTURE intent
func (a *PayPalAdapter) CreateOrder(ctx context.Context, req *payment.CreateOrderRequest) (*payment.CreateOrderResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	body := paypalCreateOrderRequest{
		Intent: paypalIntentCapture,
		PurchaseUnits: []paypalPurchaseUnitInput{
			{
				Amount: paypalAmount{
					CurrencyCode: req.Currency,
					Value:        req.Amount.StringFixed(2),
				},
			},
		},
	}
	bodyBytes, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("paypal: failed to marshal request: %w", err)
	}

	respBody, _, err := a.doRequest(ctx, http.MethodPost, paypalCreateOrderPath, bodyBytes)
	if err != nil {
		return nil, err
	}

	var orderResp paypalOrderResponse
	if err := json.Unmarshal(respBody, &orderResp); err != nil {
		return nil, fmt.Errorf("%w: %v", payment.ErrProviderInvalidResponse, err)
	}
	if orderResp.ID == "" {
		return nil, fmt.Errorf("%w: order ID missing", payment.ErrProviderInvalidResponse)
	}

	response := &payment.CreateOrderResponse{
		ProviderOrderID: orderResp.ID,
		Status:          mapPayPalOrderStatus(orderResp.Status),
		RawResponse:     string(respBody),
	}
	for _, link := range orderResp.Links {
		if link.Rel == "approve" {
			response.ApproveURL = link.Href
			break
		}
	}

	return response, nil
}

// CaptureOrder captures an approved order and reports what actually moved
func (a *PayPalAdapter) CaptureOrder(ctx context.Context, providerOrderID string) (*payment.CaptureResult, error) {
	if providerOrderID == "" {
		return nil, payment.ErrPaymentInvalidOrderID
	}

	path := fmt.Sprintf(paypalCaptureOrderPath, url.PathEscape(providerOrderID))
	respBody, statusCode, err := a.doRequest(ctx, http.MethodPost, path, nil)
	if err != nil {
		if statusCode == http.StatusNotFound {
			return nil, payment.ErrPaymentOrderNotFound
		}
		return nil, err
	}

	var captureResp paypalCaptureResponse
	if err := json.Unmarshal(respBody, &captureResp); err != nil {
		return nil, fmt.Errorf("%w: %v", payment.ErrProviderInvalidResponse, err)
	}

	return parseCaptureResponse(&captureResp, string(respBody))
}

// parseCaptureResponse extracts the capture transaction from the first
// purchase unit. The capture's own status and amount win over the order's
// when both are present.
func parseCaptureResponse(resp *paypalCaptureResponse, raw string) (*payment.CaptureResult, error) {
	result := &payment.CaptureResult{
		ProviderOrderID: resp.ID,
		Status:          mapPayPalOrderStatus(resp.Status),
		RawResponse:     raw,
	}

	var amount *paypalAmount
	if len(resp.PurchaseUnits) > 0 {
		unit := resp.PurchaseUnits[0]
		amount = unit.Amount
		if unit.Payments != nil && len(unit.Payments.Captures) > 0 {
			capture := unit.Payments.Captures[0]
			result.CaptureID = capture.ID
			if capture.Status != "" {
				result.Status = mapPayPalOrderStatus(capture.Status)
			}
			if capture.Amount.Value != "" {
				amount = &capture.Amount
			}
		}
	}

	if amount == nil {
		// A completed capture without an amount cannot be reconciled
		// against the invoice total.
		if result.Status.IsCompleted() {
			return nil, fmt.Errorf("%w: completed capture has no amount", payment.ErrProviderInvalidResponse)
		}
		return result, nil
	}

	value, err := decimal.NewFromString(amount.Value)
	if err != nil {
		return nil, fmt.Errorf("%w: bad capture amount %q", payment.ErrProviderInvalidResponse, amount.Value)
	}
	result.Amount = value.Round(2)
	result.Currency = amount.CurrencyCode

	return result, nil
}

// accessTokenFor returns the cached OAuth2 token, fetching a fresh one
// when none is cached or the cached one is near expiry.
func (a *PayPalAdapter) accessTokenFor(ctx context.Context) (string, error) {
	a.tokenMu.Lock()
	defer a.tokenMu.Unlock()

	if a.accessToken != "" && time.Now().Before(a.tokenExpiry) {
		return a.accessToken, nil
	}

	token, expiresIn, err := a.fetchAccessToken(ctx)
	if err != nil {
		return "", err
	}

	a.accessToken = token
	a.tokenExpiry = time.Now().Add(time.Duration(expiresIn)*time.Second - tokenExpiryMargin)
	return token, nil
}

// fetchAccessToken obtains an OAuth2 token via the client credentials
// grant, returning the token and its lifetime in seconds
func (a *PayPalAdapter) fetchAccessToken(ctx context.Context) (string, int, error) {
	form := url.Values{"grant_type": {"client_credentials"}}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.baseURL()+paypalTokenPath,
		strings.NewReader(form.Encode()))
	if err != nil {
		return "", 0, fmt.Errorf("paypal: failed to create token request: %w", err)
	}
	req.SetBasicAuth(a.config.ClientID, a.config.ClientSecret)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return "", 0, fmt.Errorf("%w: %v", payment.ErrProviderRequestFailed, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", 0, fmt.Errorf("paypal: failed to read token response: %w", err)
	}

	if resp.StatusCode >= 400 {
		return "", 0, fmt.Errorf("%w: %s", payment.ErrProviderAuthFailed, parseErrorMessage(respBody, resp.StatusCode))
	}

	var tokenResp paypalTokenResponse
	if err := json.Unmarshal(respBody, &tokenResp); err != nil {
		return "", 0, fmt.Errorf("%w: %v", payment.ErrProviderInvalidResponse, err)
	}
	if tokenResp.AccessToken == "" {
		return "", 0, fmt.Errorf("%w: access token missing", payment.ErrProviderInvalidResponse)
	}

	return tokenResp.AccessToken, tokenResp.ExpiresIn, nil
}

// doRequest performs an authenticated HTTP request to the PayPal API.
// The returned status code is meaningful even when err is non-nil.
func (a *PayPalAdapter) doRequest(ctx context.Context, method, path string, body []byte) ([]byte, int, error) {
	token, err := a.accessTokenFor(ctx)
	if err != nil {
		return nil, 0, err
	}

	var reqBody io.Reader
	if body != nil {
		reqBody = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, a.baseURL()+path, reqBody)
	if err != nil {
		return nil, 0, fmt.Errorf("paypal: failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %v", payment.ErrProviderRequestFailed, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("paypal: failed to read response: %w", err)
	}

	if resp.StatusCode >= 400 {
		return nil, resp.StatusCode, fmt.Errorf("%w: %s",
			payment.ErrProviderRequestFailed, parseErrorMessage(respBody, resp.StatusCode))
	}

	return respBody, resp.StatusCode, nil
}

// baseURL selects the live or sandbox API host
func (a *PayPalAdapter) baseURL() string {
	if a.config.IsSandbox {
		return paypalSandboxAPIBaseURL
	}
	return paypalAPIBaseURL
}

// parseErrorMessage extracts a readable message from a PayPal error body
func parseErrorMessage(body []byte, statusCode int) string {
	var errResp paypalErrorResponse
	if err := json.Unmarshal(body, &errResp); err == nil {
		if errResp.Message != "" {
			return errResp.Message
		}
		if len(errResp.Details) > 0 && errResp.Details[0].Description != "" {
			return errResp.Details[0].Description
		}
	}
	return fmt.Sprintf("HTTP %d", statusCode)
}

// mapPayPalOrderStatus maps a PayPal order or capture status to our status
func mapPayPalOrderStatus(status string) payment.OrderStatus {
	switch strings.ToUpper(status) {
	case "CREATED", "PAYER_ACTION_REQUIRED":
		return payment.OrderStatusCreated
	case "APPROVED", "SAVED":
		return payment.OrderStatusApproved
	case "COMPLETED":
		return payment.OrderStatusCompleted
	case "VOIDED":
		return payment.OrderStatusVoided
	default:
		return payment.OrderStatusDeclined
	}
}

// Ensure PayPalAdapter implements the Provider interface
var _ payment.Provider = (*PayPalAdapter)(nil)

package payment

// paypalErrorResponse represents an error response from the PayPal API
type paypalErrorResponse struct {
	Name    string `json:"name,omitempty"`
	Message string `json:"message,omitempty"`
	Details []struct {
		Field       string `json:"field,omitempty"`
		Issue       string `json:"issue,omitempty"`
		Description string `json:"description,omitempty"`
	} `json:"details,omitempty"`
}

// paypalTokenResponse represents the OAuth2 client-credentials response
type paypalTokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
}

// paypalAmount represents a money value in requests and responses
type paypalAmount struct {
	CurrencyCode string `json:"currency_code"`
	Value        string `json:"value"`
}

// paypalCreateOrderRequest represents an order creation request
type paypalCreateOrderRequest struct {
	Intent        string                    `json:"intent"`
	PurchaseUnits []paypalPurchaseUnitInput `json:"purchase_units"`
}

// paypalPurchaseUnitInput is a purchase unit in an order creation request
type paypalPurchaseUnitInput struct {
	Amount paypalAmount `json:"amount"`
}

// paypalLink is a HATEOAS link in an order response
type paypalLink struct {
	Href string `json:"href"`
	Rel  string `json:"rel"`
}

// paypalOrderResponse represents the response to order creation
type paypalOrderResponse struct {
	ID     string       `json:"id"`
	Status string       `json:"status"`
	Links  []paypalLink `json:"links,omitempty"`
}

// paypalCapture is a single capture transaction inside a purchase unit
type paypalCapture struct {
	ID     string       `json:"id"`
	Status string       `json:"status"`
	Amount paypalAmount `json:"amount"`
}

// paypalPayments holds the captures of a purchase unit
type paypalPayments struct {
	Captures []paypalCapture `json:"captures,omitempty"`
}

// paypalPurchaseUnit is a purchase unit in a capture response
type paypalPurchaseUnit struct {
	Amount   *paypalAmount   `json:"amount,omitempty"`
	Payments *paypalPayments `json:"payments,omitempty"`
}

// paypalCaptureResponse represents the response to an order capture
type paypalCaptureResponse struct {
	ID            string               `json:"id"`
	Status        string               `json:"status"`
	PurchaseUnits []paypalPurchaseUnit `json:"purchase_units,omitempty"`
}

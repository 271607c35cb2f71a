package dto

type GenerationRequest struct {
	QueryText      string `json:"query_text"`
	MessageContext string `json:"message_context"`
	Mode           string `json:"mode"`
}

type GenerationResponse struct {
	Response string   `json:"response"`
	Sources  []string `json:"sources,omitempty"`
}

type GeocodeResponse struct {
	Results []struct {
		Latitude  float64 `json:"lat"`
		Longitude float64 `json:"lon"`
		Timezone  string  `json:"timezone"`
		City      string  `json:"city"`
		Country   string  `json:"country"`
	} `json:"results"`
}

type GatewayOrderRequest struct {
	Amount   int64             `json:"amount"`
	Currency string            `json:"currency"`
	Receipt  string            `json:"receipt"`
	Notes    map[string]string `json:"notes,omitempty"`
}

type GatewayOrderResponse struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Status   string `json:"status"`
}

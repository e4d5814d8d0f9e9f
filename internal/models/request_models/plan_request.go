package request_models

type CreatePlanRequest struct {
	Destination string `json:"destination"`
	Days        int    `json:"days"`
	Style       string `json:"style"`
	ArrivalDate string `json:"arrival_date"`
}

// Credentials are supplied per request via headers. They are held in memory
// for the duration of the generation only and must never be logged.
type Credentials struct {
	OpenRouterKey string `json:"-"`
	SerperKey     string `json:"-"`
}

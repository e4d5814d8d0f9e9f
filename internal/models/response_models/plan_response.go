package response_models

type ChunkResult struct {
	Index    int    `json:"index"`
	StartDay int    `json:"start_day"`
	EndDay   int    `json:"end_day"`
	Status   string `json:"status"`
}

type PlanResponse struct {
	PlanID        string        `json:"plan_id"`
	Destination   string        `json:"destination"`
	Days          int           `json:"days"`
	Style         string        `json:"style"`
	ArrivalDate   string        `json:"arrival_date"`
	Status        string        `json:"status"`
	Itinerary     string        `json:"itinerary"`
	DaysGenerated int           `json:"days_generated"`
	Chunks        []ChunkResult `json:"chunks"`
	SearchWarning string        `json:"search_warning,omitempty"`
	Error         string        `json:"error,omitempty"`
}

type PlanProgressResponse struct {
	PlanID      string `json:"plan_id"`
	Destination string `json:"destination"`
	Days        int    `json:"days"`
	Status      string `json:"status"`
	ChunksTotal int    `json:"chunks_total"`
	ChunksDone  int    `json:"chunks_done"`
	Itinerary   string `json:"itinerary"`
	Warning     string `json:"warning,omitempty"`
	Error       string `json:"error,omitempty"`
}

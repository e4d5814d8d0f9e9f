package services_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"tripcraft/internal/services"
)

func kyotoTrip() services.TripRequest {
	return services.TripRequest{
		Destination: "Kyoto",
		Days:        6,
		Style:       "Balanced",
		Arrival:     time.Date(2025, 4, 10, 0, 0, 0, 0, time.UTC),
	}
}

func TestPromptService_BuildChunkPrompt_Deterministic(t *testing.T) {
	p := services.NewPromptService()
	snippets := []services.Snippet{{Title: "Kyoto Guide", Snippet: "Temples and tea.", Link: "https://example.com/kyoto"}}

	first := p.BuildChunkPrompt(kyotoTrip(), 1, 3, snippets)
	second := p.BuildChunkPrompt(kyotoTrip(), 1, 3, snippets)

	assert.Equal(t, first, second)
}

func TestPromptService_BuildChunkPrompt_FirstChunk(t *testing.T) {
	p := services.NewPromptService()
	snippets := []services.Snippet{
		{Title: "Kyoto Guide", Snippet: "Temples and tea.", Link: "https://example.com/kyoto"},
		{Title: "Weather", Snippet: "Mild in April.", Link: "https://example.com/weather"},
	}

	prompt := p.BuildChunkPrompt(kyotoTrip(), 1, 3, snippets)

	assert.Contains(t, prompt, "Plan Day 1 to Day 3 of a 6-day Balanced trip to Kyoto starting 2025-04-10.")
	assert.Contains(t, prompt, "Include Essential Info and Weather.")
	assert.Contains(t, prompt, "Use these search results:")
	assert.Contains(t, prompt, "Kyoto Guide\nTemples and tea.\nhttps://example.com/kyoto")
	assert.Contains(t, prompt, "Mild in April.")
}

func TestPromptService_BuildChunkPrompt_FirstChunkNoSnippets(t *testing.T) {
	p := services.NewPromptService()

	prompt := p.BuildChunkPrompt(kyotoTrip(), 1, 3, nil)

	assert.Contains(t, prompt, "Include Essential Info and Weather.")
	assert.NotContains(t, prompt, "search results")
}

func TestPromptService_BuildChunkPrompt_LaterChunk(t *testing.T) {
	p := services.NewPromptService()
	snippets := []services.Snippet{{Title: "Kyoto Guide", Snippet: "Temples.", Link: "https://example.com"}}

	prompt := p.BuildChunkPrompt(kyotoTrip(), 4, 6, snippets)

	assert.Contains(t, prompt, "Plan Day 4 to Day 6 of a 6-day Balanced trip to Kyoto starting 2025-04-10.")
	assert.Contains(t, prompt, "Only include the Day-by-Day Itinerary, skip Essential Info and Weather.")
	// Snippets only ground the first chunk.
	assert.NotContains(t, prompt, "Kyoto Guide")
}

func TestPromptService_SystemPrompt_DayMarkerRule(t *testing.T) {
	p := services.NewPromptService()

	assert.Contains(t, p.SystemPrompt(), "'Day 1:', 'Day 2:'")
}

func TestPromptService_BuildSearchQuery(t *testing.T) {
	p := services.NewPromptService()

	query := p.BuildSearchQuery(kyotoTrip())

	assert.Equal(t, "Weather, visa rules, top attractions for Kyoto in 2025", query)
}

package services

import (
	"fmt"
	"strings"

	"tripcraft/pkg/utils"
)

// plannerSystemPrompt is the fixed instruction block sent with every chunk.
// The "Day N:" marker rule is what the calendar exporter relies on, so the
// template structure must stay identical between calls.
const plannerSystemPrompt = `You are an expert travel agent. Provide a full, detailed itinerary for the requested dates.
Include Essential Info, Weather, and Day-by-Day Itinerary in one continuous document.
For each day, give main activities, attractions, hotels, local tips, and cultural notes.
Do NOT give hour-by-hour breakdowns or micro-schedules.
Do NOT include code snippets, API calls, or function calls.
Keep the itinerary concise but informative - slightly more detail than just titles.
Format URLs as plain text.
Use 'Day 1:', 'Day 2:' etc. for each day.`

type PromptServiceInterface interface {
	SystemPrompt() string
	BuildSearchQuery(trip TripRequest) string
	BuildChunkPrompt(trip TripRequest, startDay, endDay int, snippets []Snippet) string
}

type PromptService struct{}

func NewPromptService() PromptServiceInterface {
	return &PromptService{}
}

func (p *PromptService) SystemPrompt() string {
	return plannerSystemPrompt
}

func (p *PromptService) BuildSearchQuery(trip TripRequest) string {
	return fmt.Sprintf("Weather, visa rules, top attractions for %s in %d", trip.Destination, trip.Arrival.Year())
}

// BuildChunkPrompt assembles the user prompt for one day-range. The first
// chunk carries the Essential Info / Weather sections and the search context;
// later chunks ask for the day-by-day itinerary only.
func (p *PromptService) BuildChunkPrompt(trip TripRequest, startDay, endDay int, snippets []Snippet) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Plan Day %d to Day %d of a %d-day %s trip to %s starting %s.",
		startDay, endDay, trip.Days, trip.Style, trip.Destination, utils.FormatDate(trip.Arrival))

	if startDay == 1 {
		b.WriteString(" Include Essential Info and Weather.")
		if len(snippets) > 0 {
			b.WriteString(" Use these search results:\n")
			b.WriteString(formatSnippets(snippets))
		}
	} else {
		b.WriteString(" Only include the Day-by-Day Itinerary, skip Essential Info and Weather.")
	}

	return b.String()
}

func formatSnippets(snippets []Snippet) string {
	blocks := make([]string, 0, len(snippets))
	for _, s := range snippets {
		blocks = append(blocks, fmt.Sprintf("%s\n%s\n%s", s.Title, s.Snippet, s.Link))
	}
	return strings.Join(blocks, "\n\n")
}

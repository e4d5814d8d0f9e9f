package services

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"tripcraft/internal/models/request_models"
	"tripcraft/internal/models/response_models"
	mem "tripcraft/pkg/memcache"
	"tripcraft/pkg/utils"
)

const (
	MinDays = 1
	MaxDays = 14
)

var validStyles = map[string]bool{
	"Balanced":  true,
	"Luxury":    true,
	"Budget":    true,
	"Adventure": true,
}

// TripRequest is the validated form of a plan request. Immutable for the
// duration of one generation.
type TripRequest struct {
	Destination string
	Days        int
	Style       string
	Arrival     time.Time
}

// CompletionClientFactory builds a completion client for one generation,
// using the per-session key override when present.
type CompletionClientFactory func(apiKeyOverride string) (utils.CompletionClientInterface, error)

type PlannerConfig struct {
	ChunkSize   int
	Attempts    int
	CallTimeout time.Duration
	PlanTTL     time.Duration
}

func DefaultPlannerConfig() PlannerConfig {
	return PlannerConfig{
		ChunkSize:   3,
		Attempts:    2,
		CallTimeout: 90 * time.Second,
		PlanTTL:     time.Hour,
	}
}

type PlannerServiceInterface interface {
	GeneratePlan(ctx context.Context, req request_models.CreatePlanRequest, creds request_models.Credentials) (*response_models.PlanResponse, error)
}

type PlannerService struct {
	search    SearchServiceInterface
	prompts   PromptServiceInterface
	clientFor CompletionClientFactory
	store     mem.PlanStore
	cfg       PlannerConfig
}

func NewPlannerService(
	search SearchServiceInterface,
	prompts PromptServiceInterface,
	clientFor CompletionClientFactory,
	store mem.PlanStore,
	cfg PlannerConfig,
) PlannerServiceInterface {
	if cfg.ChunkSize < 1 {
		cfg.ChunkSize = 3
	}
	if cfg.Attempts < 1 {
		cfg.Attempts = 1
	}
	return &PlannerService{
		search:    search,
		prompts:   prompts,
		clientFor: clientFor,
		store:     store,
		cfg:       cfg,
	}
}

// GeneratePlan runs the whole itinerary pipeline: validate, ground with
// search, then issue one completion call per day-chunk strictly in order.
// Chunk failures abort the remaining chunks but keep everything generated so
// far; the partial result is stored and reported, never discarded.
func (s *PlannerService) GeneratePlan(ctx context.Context, req request_models.CreatePlanRequest, creds request_models.Credentials) (*response_models.PlanResponse, error) {
	trip, err := validateRequest(req)
	if err != nil {
		return nil, err
	}

	client, err := s.clientFor(creds.OpenRouterKey)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", utils.ErrInvalidInput, err)
	}

	planID := uuid.New().String()
	chunksTotal := (trip.Days + s.cfg.ChunkSize - 1) / s.cfg.ChunkSize

	s.store.Set(planID, mem.PlanRecord{
		ID:          planID,
		Destination: trip.Destination,
		Days:        trip.Days,
		Style:       trip.Style,
		ArrivalDate: trip.Arrival,
		ChunksTotal: chunksTotal,
		Status:      mem.StatusGenerating,
		CreatedAt:   time.Now(),
	}, s.cfg.PlanTTL)

	var searchWarning string
	snippets, err := s.search.Search(ctx, s.prompts.BuildSearchQuery(trip), creds.SerperKey)
	if err != nil {
		// Non-fatal: generation proceeds without grounding context.
		log.Printf("search degraded for plan %s: %v", planID, err)
		searchWarning = "live search was unavailable; the itinerary was generated without real-time context"
		snippets = nil
		s.store.Update(planID, func(r *mem.PlanRecord) { r.Warning = searchWarning })
	}

	var (
		itinerary     strings.Builder
		chunks        []response_models.ChunkResult
		daysGenerated int
		genErr        error
	)

	for startDay := 1; startDay <= trip.Days; startDay += s.cfg.ChunkSize {
		endDay := startDay + s.cfg.ChunkSize - 1
		if endDay > trip.Days {
			endDay = trip.Days
		}
		chunk := response_models.ChunkResult{
			Index:    len(chunks) + 1,
			StartDay: startDay,
			EndDay:   endDay,
		}

		if ctx.Err() != nil {
			genErr = fmt.Errorf("%w: cancelled before chunk days %d-%d", utils.ErrGenerationFailed, startDay, endDay)
			chunk.Status = "aborted"
			chunks = append(chunks, chunk)
			break
		}

		prompt := s.prompts.BuildChunkPrompt(trip, startDay, endDay, snippets)
		text, err := s.completeWithRetry(ctx, client, prompt)
		if err != nil {
			genErr = fmt.Errorf("%w: chunk days %d-%d: %v", utils.ErrGenerationFailed, startDay, endDay, err)
			chunk.Status = "failed"
			chunks = append(chunks, chunk)
			break
		}

		itinerary.WriteString(text)
		itinerary.WriteString("\n\n")
		daysGenerated = endDay
		chunk.Status = "complete"
		chunks = append(chunks, chunk)

		s.store.Update(planID, func(r *mem.PlanRecord) {
			r.Itinerary = itinerary.String()
			r.ChunksDone = len(chunks)
		})
	}

	status := mem.StatusComplete
	if genErr != nil {
		status = mem.StatusPartial
		if daysGenerated == 0 {
			status = mem.StatusFailed
		}
	}

	resp := &response_models.PlanResponse{
		PlanID:        planID,
		Destination:   trip.Destination,
		Days:          trip.Days,
		Style:         trip.Style,
		ArrivalDate:   utils.FormatDate(trip.Arrival),
		Status:        status,
		Itinerary:     itinerary.String(),
		DaysGenerated: daysGenerated,
		Chunks:        chunks,
		SearchWarning: searchWarning,
	}
	if genErr != nil {
		resp.Error = genErr.Error()
	}

	s.store.Update(planID, func(r *mem.PlanRecord) {
		r.Itinerary = resp.Itinerary
		r.Status = status
		if genErr != nil {
			r.Error = genErr.Error()
		}
	})

	return resp, nil
}

// completeWithRetry makes up to cfg.Attempts calls for one chunk. Each
// attempt gets its own timeout; a cancelled parent context stops retrying.
func (s *PlannerService) completeWithRetry(ctx context.Context, client utils.CompletionClientInterface, prompt string) (string, error) {
	var lastErr error
	for attempt := 0; attempt < s.cfg.Attempts; attempt++ {
		callCtx := ctx
		cancel := func() {}
		if s.cfg.CallTimeout > 0 {
			callCtx, cancel = context.WithTimeout(ctx, s.cfg.CallTimeout)
		}
		text, err := client.Complete(callCtx, s.prompts.SystemPrompt(), prompt)
		cancel()
		if err == nil {
			return text, nil
		}
		lastErr = err
		if ctx.Err() != nil {
			break
		}
	}
	return "", lastErr
}

func validateRequest(req request_models.CreatePlanRequest) (TripRequest, error) {
	destination := strings.TrimSpace(req.Destination)
	if destination == "" {
		return TripRequest{}, fmt.Errorf("%w: destination is required", utils.ErrInvalidInput)
	}
	if req.Days < MinDays || req.Days > MaxDays {
		return TripRequest{}, fmt.Errorf("%w: days must be between %d and %d", utils.ErrInvalidInput, MinDays, MaxDays)
	}

	style := req.Style
	if style == "" {
		style = "Balanced"
	}
	if !validStyles[style] {
		return TripRequest{}, fmt.Errorf("%w: unknown travel style %q", utils.ErrInvalidInput, req.Style)
	}

	arrival, err := utils.ParseDate(req.ArrivalDate)
	if err != nil {
		return TripRequest{}, fmt.Errorf("%w: arrival_date must be YYYY-MM-DD", utils.ErrInvalidInput)
	}

	return TripRequest{
		Destination: destination,
		Days:        req.Days,
		Style:       style,
		Arrival:     arrival,
	}, nil
}

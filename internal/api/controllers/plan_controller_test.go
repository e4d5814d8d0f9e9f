package controllers_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tripcraft/internal/api/controllers"
	"tripcraft/internal/models/request_models"
	"tripcraft/internal/models/response_models"
	"tripcraft/internal/services"
	mem "tripcraft/pkg/memcache"
	"tripcraft/pkg/middleware"
	"tripcraft/pkg/utils"
)

type fakePlannerService struct {
	generate func(ctx context.Context, req request_models.CreatePlanRequest, creds request_models.Credentials) (*response_models.PlanResponse, error)
}

func (f *fakePlannerService) GeneratePlan(ctx context.Context, req request_models.CreatePlanRequest, creds request_models.Credentials) (*response_models.PlanResponse, error) {
	return f.generate(ctx, req, creds)
}

var _ services.PlannerServiceInterface = (*fakePlannerService)(nil)

func newRouter(planner services.PlannerServiceInterface, store mem.PlanStore) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(middleware.TraceIDMiddleware())

	planController := controllers.NewPlanController(planner, store)
	calendarController := controllers.NewCalendarController(services.NewCalendarService(), store)

	plansGroup := r.Group("/api/plans")
	plansGroup.POST("", planController.CreatePlanHandler)
	plansGroup.GET("/:id", planController.GetPlanHandler)
	plansGroup.GET("/:id/calendar", calendarController.DownloadCalendarHandler)
	return r
}

func doJSON(t *testing.T, r *gin.Engine, method, path, body string, headers map[string]string) (*httptest.ResponseRecorder, utils.APIResponse) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var envelope utils.APIResponse
	if strings.Contains(w.Header().Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	}
	return w, envelope
}

func TestCreatePlanHandler_PassesCredentialHeaders(t *testing.T) {
	var gotCreds request_models.Credentials
	planner := &fakePlannerService{
		generate: func(_ context.Context, req request_models.CreatePlanRequest, creds request_models.Credentials) (*response_models.PlanResponse, error) {
			gotCreds = creds
			return &response_models.PlanResponse{
				PlanID:      "p1",
				Destination: req.Destination,
				Status:      mem.StatusComplete,
				Itinerary:   "Day 1: rest",
			}, nil
		},
	}
	r := newRouter(planner, mem.NewPlanStore())

	w, envelope := doJSON(t, r, http.MethodPost, "/api/plans",
		`{"destination":"Kyoto","days":3,"style":"Balanced","arrival_date":"2025-04-10"}`,
		map[string]string{
			"X-Openrouter-Api-Key": "or-key",
			"X-Serper-Api-Key":     "serp-key",
		})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "success", envelope.Status)
	assert.NotEmpty(t, envelope.TraceID)
	assert.Equal(t, "or-key", gotCreds.OpenRouterKey)
	assert.Equal(t, "serp-key", gotCreds.SerperKey)
}

func TestCreatePlanHandler_MalformedBody(t *testing.T) {
	planner := &fakePlannerService{
		generate: func(context.Context, request_models.CreatePlanRequest, request_models.Credentials) (*response_models.PlanResponse, error) {
			t.Fatal("planner must not be called")
			return nil, nil
		},
	}
	r := newRouter(planner, mem.NewPlanStore())

	w, envelope := doJSON(t, r, http.MethodPost, "/api/plans", `{"days": "three"}`, nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "error", envelope.Status)
}

func TestCreatePlanHandler_InvalidInput(t *testing.T) {
	planner := &fakePlannerService{
		generate: func(context.Context, request_models.CreatePlanRequest, request_models.Credentials) (*response_models.PlanResponse, error) {
			return nil, utils.ErrInvalidInput
		},
	}
	r := newRouter(planner, mem.NewPlanStore())

	w, _ := doJSON(t, r, http.MethodPost, "/api/plans",
		`{"destination":"Kyoto","days":99,"arrival_date":"2025-04-10"}`, nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetPlanHandler_ReturnsProgress(t *testing.T) {
	store := mem.NewPlanStore()
	store.Set("p1", mem.PlanRecord{
		ID:          "p1",
		Destination: "Kyoto",
		Days:        6,
		Status:      mem.StatusGenerating,
		ChunksTotal: 2,
		ChunksDone:  1,
		Itinerary:   "Day 1: arrive\n",
	}, time.Minute)
	r := newRouter(&fakePlannerService{}, store)

	w, envelope := doJSON(t, r, http.MethodGet, "/api/plans/p1", "", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	data, err := json.Marshal(envelope.Data)
	require.NoError(t, err)
	var progress response_models.PlanProgressResponse
	require.NoError(t, json.Unmarshal(data, &progress))
	assert.Equal(t, mem.StatusGenerating, progress.Status)
	assert.Equal(t, 1, progress.ChunksDone)
	assert.Equal(t, 2, progress.ChunksTotal)
}

func TestGetPlanHandler_NotFound(t *testing.T) {
	r := newRouter(&fakePlannerService{}, mem.NewPlanStore())

	w, envelope := doJSON(t, r, http.MethodGet, "/api/plans/ghost", "", nil)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "error", envelope.Status)
}

func TestDownloadCalendarHandler_ServesICS(t *testing.T) {
	store := mem.NewPlanStore()
	store.Set("p1", mem.PlanRecord{
		ID:          "p1",
		Destination: "Kyoto City",
		Days:        2,
		ArrivalDate: time.Date(2025, 4, 10, 0, 0, 0, 0, time.UTC),
		Status:      mem.StatusComplete,
		Itinerary:   "Day 1: arrive\nDay 2: temples\n",
	}, time.Minute)
	r := newRouter(&fakePlannerService{}, store)

	w, _ := doJSON(t, r, http.MethodGet, "/api/plans/p1/calendar", "", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/calendar")
	assert.Contains(t, w.Header().Get("Content-Disposition"), "Kyoto_City_trip.ics")
	body := w.Body.String()
	assert.Contains(t, body, "BEGIN:VCALENDAR")
	assert.Equal(t, 2, strings.Count(body, "BEGIN:VEVENT"))
	assert.Contains(t, body, "DTSTART;VALUE=DATE:20250410")
}

func TestDownloadCalendarHandler_PartialItineraryStillDownloads(t *testing.T) {
	store := mem.NewPlanStore()
	store.Set("p1", mem.PlanRecord{
		ID:          "p1",
		Destination: "Kyoto",
		Days:        6,
		ArrivalDate: time.Date(2025, 4, 10, 0, 0, 0, 0, time.UTC),
		Status:      mem.StatusPartial,
		Itinerary:   "Day 1: arrive\nDay 2: temples\nDay 3: gardens\n",
	}, time.Minute)
	r := newRouter(&fakePlannerService{}, store)

	w, _ := doJSON(t, r, http.MethodGet, "/api/plans/p1/calendar", "", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 3, strings.Count(w.Body.String(), "BEGIN:VEVENT"))
}

func TestDownloadCalendarHandler_UnparseableItinerary(t *testing.T) {
	store := mem.NewPlanStore()
	store.Set("p1", mem.PlanRecord{
		ID:          "p1",
		Destination: "Kyoto",
		Days:        3,
		ArrivalDate: time.Date(2025, 4, 10, 0, 0, 0, 0, time.UTC),
		Status:      mem.StatusComplete,
		Itinerary:   "A prose itinerary with no markers at all.",
	}, time.Minute)
	r := newRouter(&fakePlannerService{}, store)

	w, envelope := doJSON(t, r, http.MethodGet, "/api/plans/p1/calendar", "", nil)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, "error", envelope.Status)
}

func TestDownloadCalendarHandler_NotFound(t *testing.T) {
	r := newRouter(&fakePlannerService{}, mem.NewPlanStore())

	w, _ := doJSON(t, r, http.MethodGet, "/api/plans/ghost/calendar", "", nil)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

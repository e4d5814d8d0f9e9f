package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"tripcraft/internal/models/request_models"
	"tripcraft/internal/models/response_models"
	"tripcraft/internal/services"
	mem "tripcraft/pkg/memcache"
	"tripcraft/pkg/utils"
)

type PlanController struct {
	plannerService services.PlannerServiceInterface
	store          mem.PlanStore
}

func NewPlanController(plannerService services.PlannerServiceInterface, store mem.PlanStore) *PlanController {
	return &PlanController{
		plannerService: plannerService,
		store:          store,
	}
}

// CreatePlanHandler runs a full generation synchronously. Per-session API
// keys ride on headers and are never echoed back or logged.
func (p *PlanController) CreatePlanHandler(c *gin.Context) {
	var req request_models.CreatePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request format")
		return
	}

	creds := request_models.Credentials{
		OpenRouterKey: c.GetHeader("X-Openrouter-Api-Key"),
		SerperKey:     c.GetHeader("X-Serper-Api-Key"),
	}

	plan, err := p.plannerService.GeneratePlan(c.Request.Context(), req, creds)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	message := "Travel plan created successfully"
	if plan.Status != mem.StatusComplete {
		message = "Travel plan generated partially; see error for details"
	}
	utils.RespondSuccess(c, plan, message)
}

// GetPlanHandler returns the stored progress/result snapshot, which the UI
// polls while a generation is in flight.
func (p *PlanController) GetPlanHandler(c *gin.Context) {
	record, ok := p.store.Get(c.Param("id"))
	if !ok {
		utils.HandleServiceError(c, utils.ErrPlanNotFound)
		return
	}

	utils.RespondSuccess(c, response_models.PlanProgressResponse{
		PlanID:      record.ID,
		Destination: record.Destination,
		Days:        record.Days,
		Status:      record.Status,
		ChunksTotal: record.ChunksTotal,
		ChunksDone:  record.ChunksDone,
		Itinerary:   record.Itinerary,
		Warning:     record.Warning,
		Error:       record.Error,
	}, "Plan fetched")
}

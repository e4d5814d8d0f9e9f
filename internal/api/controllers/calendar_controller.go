package controllers

import (
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/gin-gonic/gin"

	"tripcraft/internal/services"
	mem "tripcraft/pkg/memcache"
	"tripcraft/pkg/utils"
)

type CalendarController struct {
	calendarService services.CalendarServiceInterface
	store           mem.PlanStore
}

func NewCalendarController(calendarService services.CalendarServiceInterface, store mem.PlanStore) *CalendarController {
	return &CalendarController{
		calendarService: calendarService,
		store:           store,
	}
}

// DownloadCalendarHandler renders the stored itinerary as an .ics download.
// A partially parseable itinerary still downloads whatever days were found.
func (cc *CalendarController) DownloadCalendarHandler(c *gin.Context) {
	record, ok := cc.store.Get(c.Param("id"))
	if !ok {
		utils.HandleServiceError(c, utils.ErrPlanNotFound)
		return
	}

	data, err := cc.calendarService.Export(record.Itinerary, record.ArrivalDate, record.Destination, record.Days)
	if err != nil {
		if !errors.Is(err, utils.ErrUnparseableItinerary) || len(data) == 0 {
			utils.HandleServiceError(c, err)
			return
		}
		log.Printf("calendar export for plan %s is partial: %v", record.ID, err)
	}

	filename := fmt.Sprintf("%s_trip.ics", strings.ReplaceAll(record.Destination, " ", "_"))
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename=%q`, filename))
	c.Data(200, "text/calendar; charset=utf-8", data)
}

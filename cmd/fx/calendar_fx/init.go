package calendar_fx

import (
	"go.uber.org/fx"

	"tripcraft/internal/services"
)

var Module = fx.Provide(
	ProvideCalendarService)

func ProvideCalendarService() services.CalendarServiceInterface {
	return services.NewCalendarService()
}

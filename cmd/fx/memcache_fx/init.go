package memcache_fx

import (
	"go.uber.org/fx"

	mem "tripcraft/pkg/memcache"
)

var Module = fx.Provide(
	providePlanStore)

func providePlanStore() mem.PlanStore {
	return mem.NewPlanStore()
}

package search_fx

import (
	"os"

	"go.uber.org/fx"

	"tripcraft/internal/services"
)

var Module = fx.Provide(
	services.NewInMemorySearchCache,
	ProvideSearchService)

// ProvideSearchService creates the Serper.dev client. The key may be empty
// here: callers can supply a per-session key on each request instead.
func ProvideSearchService(cache services.SearchCache) services.SearchServiceInterface {
	return services.NewSerperSearchClient(os.Getenv("SERPER_API_KEY"), cache)
}

package api

import (
	"net/http"

	"github.com/JaimeStill/vantage/pkg/routes"
)

func registerRoutes(mux *http.ServeMux, domain *Domain) {
	routes.Register(
		mux,
		domain.Entities.Handler().Routes(),
		domain.Signals.Handler().Routes(),
		domain.Sources.Handler().Routes(),
		domain.Themes.Handler().Routes(),
		domain.Briefs.Handler().Routes(),
		domain.Evaluations.Handler().Routes(),
		domain.Jobs.Handler().Routes(),
	)
}

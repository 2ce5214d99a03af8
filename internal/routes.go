package internal

import (
	"net/http"

	"gtmd/internal/controllers"
	"gtmd/internal/providers"
)

func InitRoutes(apiController *controllers.ApiController) providers.RouterProviderInterface {
	routers := providers.NewRouterProvider()

	routers.Get("/commits", http.HandlerFunc(apiController.GetCommits))
	routers.Get("/projects", http.HandlerFunc(apiController.GetProjects))
	routers.Get("/status", http.HandlerFunc(apiController.GetStatus))
	routers.Post("/events", http.HandlerFunc(apiController.ReceiveEvent))
	return routers
}

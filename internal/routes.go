package internal

import (
	"net/http"

	"abd/internal/controllers"
	"abd/internal/providers"
	"abd/internal/structures"
)

func InitRoutes(commandController *controllers.CommandController, conf *structures.Config) providers.RouterProviderInterface {
	routers := providers.NewRouterProvider()

	routers.Post("/command", http.HandlerFunc(commandController.ReceiveCommand))
	routers.Get("/users/summary", http.HandlerFunc(commandController.GetUserSummary))
	routers.Get("/stats/week", http.HandlerFunc(commandController.GetWeekStats))
	routers.Get("/analytics", http.HandlerFunc(commandController.GetAnalytics))
	return routers
}

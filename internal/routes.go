package internal

import (
	"donwatch/internal/controllers"
	"donwatch/internal/providers"
	"net/http"
)

func InitRoutes(apiController *controllers.ApiController, donationController *controllers.DonationController) providers.RouterProviderInterface {
	routers := providers.NewRouterProvider()

	routers.Post("/watch", http.HandlerFunc(donationController.StartWatch))
	routers.Get("/watch", http.HandlerFunc(donationController.WatchStatus))
	routers.Post("/watch/cancel", http.HandlerFunc(donationController.CancelWatch))
	routers.Post("/donate", http.HandlerFunc(donationController.Donate))

	routers.Get("/leaderboard", http.HandlerFunc(apiController.GetLeaderboard))
	routers.Get("/donations", http.HandlerFunc(apiController.GetDonations))
	routers.Get("/donations/latest", http.HandlerFunc(apiController.GetLatestDonation))
	routers.Get("/prices", http.HandlerFunc(apiController.GetPrices))
	routers.Get("/prices/estimate", http.HandlerFunc(apiController.GetEstimate))
	routers.Get("/chains", http.HandlerFunc(apiController.GetChains))
	return routers
}

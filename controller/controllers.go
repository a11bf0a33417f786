// controller/controllers.go
package controller

import "github.com/phishnheat/backend/service"

type Controllers struct {
	Phishing  *PhishingController
	Analytics *AnalyticsController
}

func InitializeControllers(services *service.Services) *Controllers {
	return &Controllers{
		Phishing:  NewPhishingController(services.Phishing),
		Analytics: NewAnalyticsController(services.Analytics),
	}
}

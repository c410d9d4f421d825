package routes

import (
	"ayurkart/ratelim"

	"github.com/julienschmidt/httprouter"
)

func RoutesWrapper(router *httprouter.Router, rateLimiter *ratelim.RateLimiter) {
	AddAuthRoutes(router, rateLimiter)
	AddProductRoutes(router, rateLimiter)
	AddCatalogRoutes(router, rateLimiter)
	AddContentRoutes(router, rateLimiter)
	AddCouponRoutes(router, rateLimiter)
	AddGiftCardRoutes(router, rateLimiter)
	AddCartRoutes(router, rateLimiter)
	AddCheckoutRoutes(router, rateLimiter)
	AddPayRoutes(router, rateLimiter)
	AddOrderRoutes(router, rateLimiter)
	AddSettingsRoutes(router, rateLimiter)
	AddShippingRoutes(router, rateLimiter)
}

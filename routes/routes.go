package routes

import (
	"ayurkart/auth"
	"ayurkart/cart"
	"ayurkart/catalog"
	"ayurkart/checkout"
	"ayurkart/content"
	"ayurkart/coupons"
	"ayurkart/giftcards"
	"ayurkart/invoice"
	"ayurkart/middleware"
	"ayurkart/orders"
	"ayurkart/pay"
	"ayurkart/products"
	"ayurkart/ratelim"
	"ayurkart/settings"
	"ayurkart/shipping"

	"github.com/julienschmidt/httprouter"
)

func AddAuthRoutes(router *httprouter.Router, rateLimiter *ratelim.RateLimiter) {
	router.POST("/api/auth/register", rateLimiter.LimitAuth(auth.Register))
	router.POST("/api/auth/login", rateLimiter.LimitAuth(auth.Login))
	router.POST("/api/auth/refresh", rateLimiter.LimitAuth(auth.RefreshToken))
	router.GET("/api/auth/me",
		middleware.Chain(rateLimiter.Limit, middleware.Authenticate)(auth.Me))
}

func AddProductRoutes(router *httprouter.Router, rateLimiter *ratelim.RateLimiter) {
	router.GET("/api/products", rateLimiter.Limit(products.ListProducts))
	router.GET("/api/products/:id", rateLimiter.Limit(products.GetProduct))

	admin := middleware.Chain(rateLimiter.Limit, middleware.Authenticate, middleware.RequireRoles("admin"))
	router.POST("/api/admin/products", admin(products.CreateProduct))
	router.PUT("/api/admin/products/:id", admin(products.UpdateProduct))
	router.DELETE("/api/admin/products/:id", admin(products.DeleteProduct))
}

func AddCatalogRoutes(router *httprouter.Router, rateLimiter *ratelim.RateLimiter) {
	router.GET("/api/categories", rateLimiter.Limit(catalog.ListCategories))
	router.GET("/api/collections", rateLimiter.Limit(catalog.ListCollections))

	admin := middleware.Chain(rateLimiter.Limit, middleware.Authenticate, middleware.RequireRoles("admin"))
	router.POST("/api/admin/categories", admin(catalog.CreateCategory))
	router.DELETE("/api/admin/categories/:id", admin(catalog.DeleteCategory))
	router.POST("/api/admin/collections", admin(catalog.CreateCollection))
	router.PUT("/api/admin/collections/:id", admin(catalog.UpdateCollection))
	router.DELETE("/api/admin/collections/:id", admin(catalog.DeleteCollection))
}

func AddContentRoutes(router *httprouter.Router, rateLimiter *ratelim.RateLimiter) {
	router.GET("/api/banners", rateLimiter.Limit(content.ListBanners))
	router.GET("/api/blogs", rateLimiter.Limit(content.ListBlogs))
	router.GET("/api/blogs/:slug", rateLimiter.Limit(content.GetBlog))

	admin := middleware.Chain(rateLimiter.Limit, middleware.Authenticate, middleware.RequireRoles("admin"))
	router.POST("/api/admin/banners", admin(content.CreateBanner))
	router.DELETE("/api/admin/banners/:id", admin(content.DeleteBanner))
	router.POST("/api/admin/blogs", admin(content.CreateBlog))
	router.PUT("/api/admin/blogs/:id", admin(content.UpdateBlog))
	router.DELETE("/api/admin/blogs/:id", admin(content.DeleteBlog))
}

func AddCouponRoutes(router *httprouter.Router, rateLimiter *ratelim.RateLimiter) {
	router.POST("/api/coupons/validate",
		middleware.Chain(rateLimiter.Limit, middleware.Authenticate)(coupons.Validate))

	admin := middleware.Chain(rateLimiter.Limit, middleware.Authenticate, middleware.RequireRoles("admin"))
	router.GET("/api/admin/coupons", admin(coupons.ListCoupons))
	router.POST("/api/admin/coupons", admin(coupons.CreateCoupon))
	router.PUT("/api/admin/coupons/:code", admin(coupons.UpdateCoupon))
	router.DELETE("/api/admin/coupons/:code", admin(coupons.DeleteCoupon))
}

func AddGiftCardRoutes(router *httprouter.Router, rateLimiter *ratelim.RateLimiter) {
	router.GET("/api/giftcards/:code/balance",
		middleware.Chain(rateLimiter.Limit, middleware.Authenticate)(giftcards.CheckBalance))

	admin := middleware.Chain(rateLimiter.Limit, middleware.Authenticate, middleware.RequireRoles("admin"))
	router.GET("/api/admin/giftcards", admin(giftcards.ListGiftCards))
	router.POST("/api/admin/giftcards", admin(giftcards.CreateGiftCard))
	router.DELETE("/api/admin/giftcards/:code", admin(giftcards.DeactivateGiftCard))
}

func AddCartRoutes(router *httprouter.Router, rateLimiter *ratelim.RateLimiter) {
	authed := middleware.Chain(rateLimiter.Limit, middleware.Authenticate)
	router.GET("/api/cart", authed(cart.GetCart))
	router.POST("/api/cart", authed(cart.AddToCart))
	router.PUT("/api/cart", authed(cart.UpdateCart))
	router.DELETE("/api/cart", authed(cart.ClearCart))
}

func AddCheckoutRoutes(router *httprouter.Router, rateLimiter *ratelim.RateLimiter) {
	// Guests can price a cart before signing in; the quote has no side effects.
	router.POST("/api/checkout/quote",
		middleware.Chain(rateLimiter.Limit, middleware.OptionalAuth)(checkout.QuoteHandler))
}

func AddPayRoutes(router *httprouter.Router, rateLimiter *ratelim.RateLimiter) {
	authed := middleware.Chain(rateLimiter.Limit, middleware.Authenticate)
	router.POST("/api/payment/order", authed(pay.CreateProviderOrder))
	router.POST("/api/payment/verify", authed(pay.VerifyPayment))
}

func AddOrderRoutes(router *httprouter.Router, rateLimiter *ratelim.RateLimiter) {
	authed := middleware.Chain(rateLimiter.Limit, middleware.Authenticate)
	router.POST("/api/orders", authed(orders.CreateOrder))
	router.GET("/api/orders", authed(orders.ListOrders))
	router.GET("/api/orders/:id", authed(orders.GetOrder))
	router.POST("/api/orders/:id/cancel", authed(orders.CancelOrder))
	router.GET("/api/orders/:id/track", authed(orders.TrackOrder))
	router.GET("/api/orders/:id/invoice", authed(invoice.PrintInvoice))

	admin := middleware.Chain(rateLimiter.Limit, middleware.Authenticate, middleware.RequireRoles("admin"))
	router.GET("/api/admin/orders", admin(orders.AdminListOrders))
	router.PUT("/api/admin/orders/:id/status", admin(orders.UpdateOrderStatus))
	router.PUT("/api/admin/orders/:id/package", admin(orders.UpdatePackageDims))
	router.POST("/api/admin/orders/:id/retry-shipment", admin(orders.RetryShipment))
}

func AddSettingsRoutes(router *httprouter.Router, rateLimiter *ratelim.RateLimiter) {
	admin := middleware.Chain(rateLimiter.Limit, middleware.Authenticate, middleware.RequireRoles("admin"))
	router.GET("/api/admin/settings", admin(settings.GetSettings))
	router.PUT("/api/admin/settings", admin(settings.UpdateSettings))
}

func AddShippingRoutes(router *httprouter.Router, rateLimiter *ratelim.RateLimiter) {
	router.GET("/api/shipping/serviceability", rateLimiter.Limit(shipping.CheckServiceability))
}

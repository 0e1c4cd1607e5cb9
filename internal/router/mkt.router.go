package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/redis/go-redis/v9"

	"github.com/cakeoats/ZEROWASTEFORK-sub000/internal/domain"
	"github.com/cakeoats/ZEROWASTEFORK-sub000/internal/handler"
	"github.com/cakeoats/ZEROWASTEFORK-sub000/pkg/middleware"
)

type Handlers struct {
	Auth         *handler.AuthHandler
	Product      *handler.ProductHandler
	Payment      *handler.PaymentHandler
	Order        *handler.OrderHandler
	Wishlist     *handler.WishlistHandler
	Notification *handler.NotificationHandler
	Admin        *handler.AdminHandler
}

func New(am *middleware.AuthMiddleware, rdb *redis.Client, h Handlers, corsOrigins []string, uploadDir string) *chi.Mux {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   corsOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Route("/api", func(r chi.Router) {
		// Public routes
		r.Group(func(r chi.Router) {
			r.With(middleware.RateLimiter(rdb, 10, time.Minute, 10*time.Minute, "login")).
				Post("/auth/login", h.Auth.Login)
			r.Post("/auth/register", h.Auth.Register)
			r.Get("/auth/verify/{token}", h.Auth.VerifyEmail)

			r.Get("/products", h.Product.List)
			r.Get("/products/{id}", h.Product.Get)

			r.Get("/payment/config", h.Payment.Config)
			r.Post("/payment/notification", h.Payment.Notification)
		})

		// Authenticated routes
		r.Group(func(r chi.Router) {
			r.Use(am.RequireAuth)

			r.Get("/auth/profile", h.Auth.Profile)
			r.Put("/auth/profile", h.Auth.UpdateProfile)

			r.Post("/products", h.Product.Create)
			r.Put("/products/{id}", h.Product.Update)
			r.Delete("/products/{id}", h.Product.Delete)

			r.Post("/payment/create-transaction", h.Payment.CreateTransaction)
			r.Post("/payment/create-cart-transaction", h.Payment.CreateCartTransaction)

			r.Get("/orders", h.Order.List)
			r.Get("/orders/{orderRef}", h.Order.Get)

			r.Post("/wishlist", h.Wishlist.Add)
			r.Get("/wishlist", h.Wishlist.List)
			r.Delete("/wishlist/{productId}", h.Wishlist.Remove)
			r.Get("/wishlist/check/{productId}", h.Wishlist.Check)

			r.Get("/notifications", h.Notification.List)
			r.Get("/notifications/unread-count", h.Notification.UnreadCount)
			r.Patch("/notifications/{id}/read", h.Notification.MarkRead)
			r.Get("/notifications/ws", h.Notification.Stream)
		})

		// Admin routes
		r.Route("/admin", func(r chi.Router) {
			r.Use(am.RequireWithRoles(domain.RoleAdmin))

			r.Get("/products", h.Admin.ListProducts)
			r.Delete("/products/{id}", h.Admin.DeleteProduct)
			r.Get("/users", h.Admin.ListUsers)
			r.Get("/users/count", h.Admin.CountUsers)
			r.Get("/stats", h.Admin.Stats)
		})
	})

	// Uploaded listing images
	r.Handle("/uploads/*", http.StripPrefix("/uploads/", http.FileServer(http.Dir(uploadDir))))

	return r
}

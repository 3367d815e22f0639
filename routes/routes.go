package routes

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"roomify-client/controllers"
	"roomify-client/middleware"
)

// Options configures the mock API router.
type Options struct {
	CORSOrigins []string
	Logger      *zap.Logger
}

// SetupRouter wires the mock Roomify API over backend.
func SetupRouter(backend *controllers.Backend, tokens *middleware.TokenIssuer, opts Options) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.Logger(opts.Logger))

	origins := opts.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	allowCredentials := true
	for _, origin := range origins {
		if origin == "*" {
			allowCredentials = false
			break
		}
	}

	r.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: allowCredentials,
		MaxAge:           12 * time.Hour,
	}))

	ac := controllers.NewAuthController(backend, tokens, opts.Logger)
	rc := controllers.NewRoomController(backend, opts.Logger)
	bc := controllers.NewBookingController(backend, opts.Logger)
	uc := controllers.NewUserController(backend, opts.Logger)
	adm := controllers.NewAdminController(backend, opts.Logger)

	requireAuth := middleware.RequireAuth(tokens)
	requireAdmin := middleware.RequireAdmin(tokens)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/static/images/:name", uc.ServeImage)

	api := r.Group("/api")
	{
		api.POST("/register", ac.Register)
		api.POST("/login", ac.Login)
		api.GET("/profile", requireAuth, ac.Profile)
		api.PUT("/profile/update", requireAuth, ac.UpdateProfile)
		api.POST("/upload/image", requireAuth, uc.UploadImage)

		api.GET("/rooms", rc.GetRooms)
		api.GET("/rooms/:id", rc.GetRoom)

		api.POST("/bookings", requireAuth, bc.CreateBooking)

		user := api.Group("/user", requireAuth)
		{
			user.GET("/bookings", bc.UserBookings)
			user.GET("/notifications", uc.Notifications)
			user.PUT("/notifications/:id/read", uc.MarkNotificationRead)
		}

		api.POST("/admin/login", ac.AdminLogin)
		admin := api.Group("/admin", requireAdmin)
		{
			admin.GET("/stats", adm.Stats)
			admin.GET("/users", adm.Users)

			admin.GET("/rooms", rc.AdminRooms)
			admin.POST("/rooms", rc.CreateRoom)
			admin.PUT("/rooms/:id", rc.UpdateRoom)
			admin.DELETE("/rooms/:id", rc.DeleteRoom)

			admin.GET("/bookings", bc.AdminBookings)
			admin.PUT("/bookings/:id", bc.UpdateStatus)
		}
	}

	return r
}

package routes

import (
	"net/http"
	"os"
	"path/filepath"

	"parking-api/internal/auth"
	"parking-api/internal/handlers"
	"parking-api/internal/middleware"

	"github.com/gin-gonic/gin"
)

// Deps carries everything the router wires together.
type Deps struct {
	Tokens   *auth.Tokens
	Auth     *handlers.AuthHandler
	Users    *handlers.UserHandler
	Messages *handlers.MessageHandler
	Places   *handlers.PlaceHandler
	Streams  *handlers.StreamHandler
	Build    string
	WebDir   string
}

func SetupRoutes(d Deps) *gin.Engine {
	ginRouter := gin.Default()

	ginRouter.Use(middleware.BuildVersion(d.Build))

	// CORS middleware (for frontend integration)
	ginRouter.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With, token")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")
		c.Writer.Header().Set("Access-Control-Expose-Headers", "token, build")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	// Health check endpoint
	ginRouter.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"message": "Parking API is running",
		})
	})

	// Public routes (no authentication required)
	api := ginRouter.Group("/api/v1")
	{
		api.POST("/auth/login", d.Auth.Login)
	}

	// Protected routes (authentication required)
	protectedRoutes := api.Group("")
	protectedRoutes.Use(middleware.JWTAuth(d.Tokens))
	{
		// Session
		protectedRoutes.GET("/auth/current", d.Auth.Current)

		// User administration
		protectedRoutes.GET("/user/list", d.Users.List)
		protectedRoutes.POST("/user/add", d.Users.Add)
		protectedRoutes.PATCH("/user/lk/:id", d.Users.PrivateUpdate)
		protectedRoutes.GET("/user/:id", d.Users.Get)
		protectedRoutes.PATCH("/user/:id", d.Users.Update)
		protectedRoutes.DELETE("/user/:id", d.Users.Delete)

		// Announcement board
		protectedRoutes.GET("/message/get", d.Messages.Visible)
		protectedRoutes.GET("/message/list", d.Messages.List)
		protectedRoutes.POST("/message/add", d.Messages.Add)
		protectedRoutes.PATCH("/message/:id", d.Messages.Update)
		protectedRoutes.DELETE("/message/:id", d.Messages.Delete)

		// Parking places
		protectedRoutes.GET("/place/getall", d.Places.All)
		protectedRoutes.GET("/place/my", d.Places.My)
		protectedRoutes.POST("/place/my/tofree", d.Places.ToFree)
		protectedRoutes.POST("/place/my/respond", d.Places.Respond)
		protectedRoutes.GET("/place/free", d.Places.Free)
		protectedRoutes.POST("/place/free/take", d.Places.Take)
		protectedRoutes.POST("/place/free/release", d.Places.Release)

		// Live update streams
		protectedRoutes.GET("/place/my/updates", d.Streams.MyPlaces)
		protectedRoutes.GET("/place/free/updates", d.Streams.FreePlaces)
	}

	// Static front-end with SPA fallback
	if d.WebDir != "" {
		ginRouter.NoRoute(spaFallback(d.WebDir))
	}

	return ginRouter
}

// spaFallback serves files from dir and rewrites unknown paths to
// index.html so client-side routing keeps working after a reload.
func spaFallback(dir string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method != http.MethodGet {
			c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
			return
		}
		path := filepath.Join(dir, filepath.Clean("/"+c.Request.URL.Path))
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			c.File(path)
			return
		}
		c.File(filepath.Join(dir, "index.html"))
	}
}

package router

import (
	"log/slog"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"

	"github.com/padudon-bit/IndieBook-project/internal/config"
	"github.com/padudon-bit/IndieBook-project/internal/server/http/handlers"
	"github.com/padudon-bit/IndieBook-project/internal/server/http/middleware"
)

// Setup configures gin router with handlers and middleware.
func Setup(facade handlers.StoreFacade, cfg *config.Config, logger *slog.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.MaxMultipartMemory = 8 << 20

	engine.Use(gin.Recovery())
	engine.Use(middleware.RequestLogger(logger))
	engine.Use(middleware.CORS())
	engine.Use(middleware.DecompressRequest(cfg.MaxUploadBytes))
	engine.Use(gzip.Gzip(gzip.DefaultCompression, gzip.WithExcludedPathsRegexs([]string{`^/api/library/.+/file$`, `^/api/admin/orders/.+/slip$`, `^/api/covers/`})))

	system := handlers.NewSystemHandler(cfg.Environment)
	authHandler := handlers.NewAuthHandler(facade, facade)
	catalogHandler := handlers.NewCatalogHandler(facade, cfg.MaxUploadBytes)
	orderHandler := handlers.NewOrderHandler(facade, cfg.MaxUploadBytes)
	libraryHandler := handlers.NewLibraryHandler(facade)

	engine.GET("/health", system.Health)

	api := engine.Group("/api")
	api.GET("/hello", system.Hello)
	api.POST("/echo", system.Echo)
	api.GET("/books", catalogHandler.List)
	api.GET("/books/:id", catalogHandler.Get)
	api.GET("/covers/*key", catalogHandler.Cover)

	user := api.Group("/user")
	user.POST("/register", authHandler.Register)
	user.POST("/login", authHandler.Login)

	buyer := api.Group("")
	buyer.Use(middleware.BuyerRequired(facade))
	buyer.GET("/user/profile", authHandler.Profile)
	buyer.PUT("/user/profile", authHandler.UpdateProfile)
	buyer.GET("/user/orders", orderHandler.Mine)
	buyer.POST("/orders", orderHandler.Checkout)
	buyer.GET("/library", libraryHandler.List)
	buyer.GET("/library/:bookId/file", libraryHandler.Read)

	api.POST("/admin/login", authHandler.AdminLogin)

	admin := api.Group("")
	admin.Use(middleware.AdminRequired(facade))
	admin.POST("/upload", catalogHandler.Upload)
	admin.POST("/admin/covers", catalogHandler.UploadCover)
	admin.POST("/admin/books", catalogHandler.Create)
	admin.DELETE("/admin/books/:id", catalogHandler.Delete)
	admin.GET("/admin/orders", orderHandler.List)
	admin.GET("/admin/orders/:id", orderHandler.Get)
	admin.GET("/admin/orders/:id/items", orderHandler.Items)
	admin.GET("/admin/orders/:id/slip", orderHandler.Slip)
	admin.POST("/admin/orders/:id/approve", orderHandler.Approve)
	admin.POST("/admin/orders/:id/reject", orderHandler.Reject)

	return engine
}

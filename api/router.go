package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yourusername/streamfetch-go/api/handlers"
	"github.com/yourusername/streamfetch-go/api/middleware"
	"github.com/yourusername/streamfetch-go/internal/app"
	"github.com/yourusername/streamfetch-go/pkg/logger"
)

// Services are the use cases exposed over HTTP
type Services struct {
	Session   *app.Session
	Library   *app.LibraryStore
	Fetcher   *app.MetadataFetcher
	Downloads *app.DownloadSimulator
}

// SetupRouter sets up the HTTP router. Log endpoints are registered only
// when logAdapter writes category files.
func SetupRouter(services Services, logAdapter *logger.LoggerAdapter) *gin.Engine {
	router := gin.New()

	router.Use(middleware.Logger(logAdapter))
	router.Use(middleware.Recovery(logAdapter))
	router.Use(middleware.CORS())

	// Health endpoints
	healthHandler := handlers.NewHealthHandler(services.Library, services.Downloads, services.Fetcher)
	router.GET("/health", healthHandler.Health)
	router.GET("/ready", healthHandler.Ready)

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		lookupHandler := handlers.NewLookupHandler(services.Session, services.Library, logAdapter.Lookup())
		v1.POST("/lookup", lookupHandler.Lookup)
		v1.GET("/formats", lookupHandler.Formats)

		sessionHandler := handlers.NewSessionHandler(services.Session, logAdapter.Server())
		session := v1.Group("/session")
		{
			session.GET("", sessionHandler.State)
			session.POST("/home", sessionHandler.Home)
			session.POST("/library", sessionHandler.Library)
			session.POST("/open/:id", sessionHandler.Open)
		}

		libraryHandler := handlers.NewLibraryHandler(services.Library, logAdapter.Library())
		library := v1.Group("/library")
		{
			library.GET("", libraryHandler.List)
			library.POST("", libraryHandler.Add)
			library.POST("/toggle", libraryHandler.Toggle)
			library.DELETE("/:id", libraryHandler.Remove)
		}

		downloadHandler := handlers.NewDownloadHandler(services.Downloads, logAdapter.Download())
		progressHandler := handlers.NewProgressWebSocketHandler(services.Downloads, logAdapter.Download())
		downloads := v1.Group("/downloads")
		{
			downloads.POST("", downloadHandler.StartDownload)
			downloads.GET("", downloadHandler.ListDownloads)
			downloads.GET("/:id", downloadHandler.GetDownload)
			downloads.GET("/:id/progress", progressHandler.HandleWebSocket)
		}

		if logsDir := logAdapter.LogsDir(); logsDir != "" {
			logHandler := handlers.NewLogHandler(logsDir)
			logs := v1.Group("/logs")
			{
				logs.GET("/categories", logHandler.GetCategories)
				logs.GET("/:category", logHandler.GetLogs)
				logs.GET("/:category/search", logHandler.SearchLogs)
				logs.GET("/:category/export", logHandler.ExportLogs)
			}
		}
	}

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	})

	return router
}

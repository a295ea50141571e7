package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/quickfixlabs/voicedemo/internal/domains/demo"
	"github.com/quickfixlabs/voicedemo/internal/domains/knowledge"
	"github.com/quickfixlabs/voicedemo/internal/handlers"
	"github.com/quickfixlabs/voicedemo/pkg/Logger"
)

// Dependencies carries the wired services the routes need.
type Dependencies struct {
	DemoService demo.Service
	Knowledge   *knowledge.Service
	Logger      *Logger.Logger
}

func NewServerDependencies(demoService demo.Service, knowledge *knowledge.Service, logger *Logger.Logger) Dependencies {
	return Dependencies{
		DemoService: demoService,
		Knowledge:   knowledge,
		Logger:      logger,
	}
}

// InitializeRoutes registers the demo API surface on the router.
func InitializeRoutes(router *gin.Engine, deps Dependencies) {
	router.Use(handlers.CORSMiddleware())

	demoHandler := handlers.NewDemoHandler(deps.DemoService, deps.Knowledge, deps.Logger)

	api := router.Group("/api")
	{
		api.POST("/start-demo", demoHandler.StartDemo)
		api.POST("/book-appointment", demoHandler.BookAppointment)
		api.POST("/ask-company", demoHandler.AskCompany)
		api.POST("/end-demo", demoHandler.EndDemo)
	}

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
}

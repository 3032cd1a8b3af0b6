package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/lexassist/lexassist/internal/api/handlers"
	"github.com/lexassist/lexassist/internal/api/middleware"
)

type Deps struct {
	Session  *handlers.SessionHandler
	Case     *handlers.CaseHandler
	Document *handlers.DocumentHandler
	Template *handlers.TemplateHandler
	WS       *handlers.WSHandler
}

func RegisterRoutes(r *gin.Engine, d Deps) {
	// Health-ish
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})

	// Protected routes (JWT)
	auth := r.Group("/")
	auth.Use(middleware.JWTAuth())

	auth.POST("/session/start", d.Session.Start)
	auth.POST("/session/:session_id/answer", d.Session.Answer)
	auth.POST("/session/:session_id/voice", d.Session.Voice)
	auth.POST("/session/:session_id/evidence", d.Session.Evidence)
	auth.GET("/session/:session_id", d.Session.Get)
	auth.DELETE("/session/:session_id", d.Session.Delete)

	auth.POST("/documents/generate", d.Document.Generate)
	auth.GET("/documents/verify/:session_id", d.Document.Verify)

	auth.POST("/cases", d.Case.Create)
	auth.GET("/cases", d.Case.List)
	auth.GET("/cases/:case_id", d.Case.Get)
	auth.POST("/cases/:case_id/entities/:field/confirm", d.Case.ConfirmEntity)
	auth.DELETE("/cases/:case_id", d.Case.Delete)

	// Admin
	admin := auth.Group("/")
	admin.Use(middleware.RequireAdmin())
	admin.POST("/templates", d.Template.Create)

	// WebSocket
	auth.GET("/ws/session/:session_id", d.WS.SessionWS)
}

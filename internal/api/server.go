// Package api exposes the chatbot service over HTTP.
package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"emailrag/internal/chatbot"
)

// Server wraps the gin router around the chatbot service.
type Server struct {
	service *chatbot.Service
	router  *gin.Engine
}

// New creates the HTTP server and registers all routes.
func New(service *chatbot.Service) *Server {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())

	s := &Server{service: service, router: router}

	router.GET("/healthz", s.health)
	apiGroup := router.Group("/api")
	{
		apiGroup.POST("/documents", s.ingestDocument)
		apiGroup.POST("/answer", s.answer)
		apiGroup.GET("/stats", s.stats)
	}
	return s
}

// Run starts the HTTP listener on addr and blocks.
func (s *Server) Run(addr string) error {
	return s.router.Run(addr)
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler { return s.router }

type ingestRequest struct {
	Text   string `json:"text" binding:"required"`
	Source string `json:"source" binding:"required"`
}

func (s *Server) ingestDocument(c *gin.Context) {
	var req ingestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	ids, err := s.service.Ingest(c.Request.Context(), req.Text, req.Source)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if err := s.service.SaveStore(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"chunk_ids": ids, "count": len(ids)})
}

type answerRequest struct {
	Email string `json:"email" binding:"required"`
}

func (s *Server) answer(c *gin.Context) {
	var req answerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	answer := s.service.Answer(c.Request.Context(), req.Email)
	c.JSON(http.StatusOK, gin.H{"answer": answer})
}

func (s *Server) stats(c *gin.Context) {
	c.JSON(http.StatusOK, s.service.Stats())
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

package server

import (
	"embed"
	"errors"
	"html/template"
	"net/http"

	"github.com/agenthands/evalharness/internal/core"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
)

const (
	invalidIndexMessage = "Invalid index provided."
	resetMessage        = "Testing has been reset."
)

//go:embed templates/*.html
var templates embed.FS

type Server struct {
	State *core.State
	// ArtifactDir is served under /static/images.
	ArtifactDir string
	// Gatherer backs /metrics; the endpoint is not registered when nil.
	Gatherer prometheus.Gatherer
}

func NewServer(state *core.State, artifactDir string, gatherer prometheus.Gatherer) *Server {
	return &Server{
		State:       state,
		ArtifactDir: artifactDir,
		Gatherer:    gatherer,
	}
}

func (s *Server) SetupRouter() *gin.Engine {
	r := gin.New()
	r.Use(RequestID(), Logger(), gin.Recovery())
	r.SetHTMLTemplate(template.Must(template.ParseFS(templates, "templates/*.html")))

	r.GET("/", s.Index)
	r.GET("/status", s.Status)
	r.POST("/predict", s.Predict)
	r.POST("/reset", s.Reset)
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	if s.ArtifactDir != "" {
		r.Static("/static/images", s.ArtifactDir)
	}
	if s.Gatherer != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(s.Gatherer, promhttp.HandlerOpts{})))
	}

	return r
}

func (s *Server) Index(c *gin.Context) {
	snap := s.State.Status()
	c.HTML(http.StatusOK, "index.html", gin.H{
		"correct":   snap.Correct,
		"incorrect": snap.Incorrect,
		"accuracy":  snap.Accuracy() * 100,
	})
}

type StatusResponse struct {
	Correct   int     `json:"correct"`
	Incorrect int     `json:"incorrect"`
	Total     int     `json:"total"`
	Accuracy  float64 `json:"accuracy"`
}

func (s *Server) Status(c *gin.Context) {
	snap := s.State.Status()
	c.JSON(http.StatusOK, StatusResponse{
		Correct:   snap.Correct,
		Incorrect: snap.Incorrect,
		Total:     snap.Correct + snap.Incorrect,
		Accuracy:  snap.Accuracy(),
	})
}

type PredictRequest struct {
	// pointer so a missing index is distinguishable from 0
	Index *int `json:"index"`
}

func (s *Server) Predict(c *gin.Context) {
	var req PredictRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Index == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": invalidIndexMessage})
		return
	}

	res, err := s.State.Evaluate(*req.Index)
	if err != nil {
		if errors.Is(err, core.ErrInvalidIndex) {
			c.JSON(http.StatusBadRequest, gin.H{"error": invalidIndexMessage})
			return
		}
		log.Error().Err(err).Int("index", *req.Index).Msg("failed to evaluate sample")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Prediction failed."})
		return
	}

	c.JSON(http.StatusOK, res)
}

type ResetResponse struct {
	Message   string `json:"message"`
	Correct   int    `json:"correct"`
	Incorrect int    `json:"incorrect"`
}

func (s *Server) Reset(c *gin.Context) {
	snap := s.State.Reset()
	c.JSON(http.StatusOK, ResetResponse{
		Message:   resetMessage,
		Correct:   snap.Correct,
		Incorrect: snap.Incorrect,
	})
}

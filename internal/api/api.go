package api

import (
	"errors"
	"log/slog"
	"mime"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"

	"github.com/joescharf/portfolio/internal/content"
	"github.com/joescharf/portfolio/internal/gallery"
	"github.com/joescharf/portfolio/internal/lab"
	"github.com/joescharf/portfolio/internal/llm"
	"github.com/joescharf/portfolio/internal/models"
	"github.com/joescharf/portfolio/internal/resume"
	"github.com/joescharf/portfolio/internal/store"
)

// Visitor-facing messages.
const (
	MsgContactIncomplete = "Please complete all fields before sending."
	MsgContactBadEmail   = "Please enter a valid email address."
	MsgContactThanks     = "Thanks for reaching out! I will reply within 2 business days."
	MsgContactFailed     = "Unable to save your message right now. Please try again later."
	MsgAskUnavailable    = "Ask is not configured on this server."
)

// Server provides the REST API handlers.
type Server struct {
	gallery *gallery.Service
	content *content.Content
	store   store.Store
	llm     *llm.Client
	logger  *slog.Logger
}

// NewServer creates a new API server.
// The store and llmClient may be nil; the contact form and ask endpoints then
// answer 503.
func NewServer(g *gallery.Service, c *content.Content, s store.Store, llmClient *llm.Client, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		gallery: g,
		content: c,
		store:   s,
		llm:     llmClient,
		logger:  logger,
	}
}

// Router returns an http.Handler for the API routes.
func (s *Server) Router() http.Handler {
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger(s.logger), corsMiddleware())

	r.GET("/healthz", s.healthz)
	r.GET("/resume", s.downloadResume)

	v1 := r.Group("/api/v1")
	v1.GET("/page", s.page)
	v1.GET("/profile", s.profile)
	v1.GET("/projects", s.projects)
	v1.GET("/github/summary", s.githubSummary)
	v1.GET("/resume", s.resumeInfo)
	v1.POST("/contact", s.contact)
	v1.POST("/lab/sentiment", s.sentiment)
	v1.POST("/lab/resume", s.resumeScore)
	v1.POST("/ask", s.ask)

	return r
}

func requestLogger(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Info("request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start),
		)
	}
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

func writeError(c *gin.Context, status int, msg string) {
	c.JSON(status, gin.H{"error": msg})
}

// --- Render pass ---

type galleryQuery struct {
	Feed    string `form:"feed"`
	Live    bool   `form:"live"`
	Refresh bool   `form:"refresh"`
}

func (s *Server) galleryOptions(c *gin.Context) (gallery.GalleryOptions, bool) {
	var q galleryQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		writeError(c, http.StatusBadRequest, err.Error())
		return gallery.GalleryOptions{}, false
	}
	feed, err := gallery.ParseFeed(q.Feed)
	if err != nil {
		writeError(c, http.StatusBadRequest, err.Error())
		return gallery.GalleryOptions{}, false
	}
	if q.Refresh {
		s.gallery.Enricher().Reset()
		s.logger.Info("language cache reset", "path", c.Request.URL.Path)
	}
	return gallery.GalleryOptions{Feed: feed, LiveOnly: q.Live}, true
}

type pageResponse struct {
	Content *content.Content      `json:"content"`
	Gallery gallery.Gallery       `json:"gallery"`
	Summary models.AccountSummary `json:"summary"`
	Notices []string              `json:"notices"`
	Resume  resumeResponse        `json:"resume"`
}

func (s *Server) page(c *gin.Context) {
	opts, ok := s.galleryOptions(c)
	if !ok {
		return
	}
	snap := s.gallery.Snapshot(c.Request.Context(), opts)
	notices := snap.Notices
	if notices == nil {
		notices = []string{}
	}
	c.JSON(http.StatusOK, pageResponse{
		Content: s.content,
		Gallery: snap.Gallery,
		Summary: snap.Summary,
		Notices: notices,
		Resume:  s.resumeMeta(),
	})
}

func (s *Server) profile(c *gin.Context) {
	c.JSON(http.StatusOK, s.content)
}

func (s *Server) projects(c *gin.Context) {
	opts, ok := s.galleryOptions(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, s.gallery.Gallery(c.Request.Context(), opts))
}

func (s *Server) githubSummary(c *gin.Context) {
	ctx := c.Request.Context()
	repos, warnings := s.gallery.FetchRepositories(ctx, s.gallery.Account(), s.gallery.Topic(), s.gallery.MaxItems())
	sum, more := s.gallery.Summary(ctx, s.gallery.Account(), repos)
	c.JSON(http.StatusOK, gin.H{
		"summary": sum,
		"notices": append(append([]string{}, warnings...), more...),
	})
}

// --- Resume ---

type resumeResponse struct {
	content.Resume
	Available   bool   `json:"available"`
	DownloadURL string `json:"download_url,omitempty"`
	Message     string `json:"message,omitempty"`
}

func (s *Server) resumeMeta() resumeResponse {
	meta := resumeResponse{Resume: s.content.Resume}
	if resume.Available(s.content.Resume.Path) {
		meta.Available = true
		meta.DownloadURL = "/resume"
	} else {
		meta.Message = resume.MissingMessage
	}
	return meta
}

func (s *Server) resumeInfo(c *gin.Context) {
	c.JSON(http.StatusOK, s.resumeMeta())
}

func (s *Server) downloadResume(c *gin.Context) {
	data, err := resume.Load(s.content.Resume.Path)
	if errors.Is(err, resume.ErrMissing) {
		writeError(c, http.StatusNotFound, resume.MissingMessage)
		return
	}
	if err != nil {
		s.logger.Error("resume read failed", "path", s.content.Resume.Path, "error", err)
		writeError(c, http.StatusInternalServerError, resume.MissingMessage)
		return
	}

	name := s.content.Resume.FileName
	if name == "" {
		name = "resume.pdf"
	}
	disposition := "attachment"
	if c.Query("inline") == "true" {
		disposition = "inline"
	}
	header := mime.FormatMediaType(disposition, map[string]string{"filename": name})
	if header == "" {
		header = disposition
	}
	c.Header("Content-Disposition", header)
	c.Data(http.StatusOK, "application/pdf", data)
}

// --- Contact ---

type contactForm struct {
	Name    string `form:"name" json:"name" binding:"required,max=255"`
	Email   string `form:"email" json:"email" binding:"required,max=255"`
	Message string `form:"message" json:"message" binding:"required"`
}

type emailAddress struct {
	Address string `binding:"email"`
}

func (s *Server) contact(c *gin.Context) {
	var form contactForm
	if err := c.ShouldBind(&form); err != nil {
		writeError(c, http.StatusBadRequest, MsgContactIncomplete)
		return
	}
	msg := &models.ContactMessage{
		Name:    strings.TrimSpace(form.Name),
		Email:   strings.TrimSpace(form.Email),
		Message: strings.TrimSpace(form.Message),
	}
	if msg.Name == "" || msg.Email == "" || msg.Message == "" {
		writeError(c, http.StatusBadRequest, MsgContactIncomplete)
		return
	}
	if err := binding.Validator.ValidateStruct(emailAddress{Address: msg.Email}); err != nil {
		writeError(c, http.StatusBadRequest, MsgContactBadEmail)
		return
	}

	if s.store == nil {
		s.logger.Error("contact message dropped: no database")
		writeError(c, http.StatusServiceUnavailable, MsgContactFailed)
		return
	}
	if err := s.store.SaveContactMessage(c.Request.Context(), msg); err != nil {
		s.logger.Error("contact message dropped", "error", err)
		writeError(c, http.StatusServiceUnavailable, MsgContactFailed)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"id": msg.ID, "message": MsgContactThanks})
}

// --- Lab ---

type textRequest struct {
	Text string `json:"text" form:"text"`
}

func (s *Server) sentiment(c *gin.Context) {
	var req textRequest
	if err := c.ShouldBind(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	c.JSON(http.StatusOK, lab.Sentiment(req.Text))
}

func (s *Server) resumeScore(c *gin.Context) {
	var req textRequest
	if err := c.ShouldBind(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	c.JSON(http.StatusOK, lab.ScoreResume(req.Text, s.content.ResumeKeywords()))
}

// --- Ask ---

type askRequest struct {
	Question string `json:"question" binding:"required"`
}

func (s *Server) ask(c *gin.Context) {
	if s.llm == nil {
		writeError(c, http.StatusServiceUnavailable, MsgAskUnavailable)
		return
	}
	var req askRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "question is required")
		return
	}

	ctx := c.Request.Context()
	g := s.gallery.Gallery(ctx, gallery.GalleryOptions{})
	ans, err := s.llm.Ask(ctx, req.Question, s.content, g.Projects)
	if errors.Is(err, llm.ErrEmptyQuestion) {
		writeError(c, http.StatusBadRequest, "question is required")
		return
	}
	if err != nil {
		s.logger.Error("ask failed", "error", err)
		writeError(c, http.StatusBadGateway, "could not answer right now")
		return
	}
	c.JSON(http.StatusOK, ans)
}

// --- Health ---

func (s *Server) healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":         "ok",
		"database":       s.store != nil,
		"language_limit": s.gallery.Enricher().Disabled(),
	})
}

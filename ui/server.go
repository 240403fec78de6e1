package ui

import (
	"embed"
	"fmt"
	"html/template"
	"net/http"
	"strings"

	"macrolens/app"
	"macrolens/domain/core"
	"macrolens/internal"
	apperrors "macrolens/internal/errors"

	"github.com/gin-gonic/gin"
)

//go:embed templates/*.html
var embeddedFiles embed.FS

// Server is the HTML shell around the session API
type Server struct {
	router    *gin.Engine
	svc       *app.DashboardService
	templates *template.Template
	logger    *internal.Logger
}

// NewServer creates the UI server. mode is a gin mode (debug, release, test).
func NewServer(svc *app.DashboardService, mode string, logger *internal.Logger) (*Server, error) {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	if mode != "" {
		gin.SetMode(mode)
	}

	funcMap := template.FuncMap{
		"join": strings.Join,
	}
	templates, err := template.New("").Funcs(funcMap).ParseFS(embeddedFiles, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}

	s := &Server{
		router:    gin.New(),
		svc:       svc,
		templates: templates,
		logger:    logger,
	}
	s.router.Use(gin.Recovery())
	s.setupRoutes()
	return s, nil
}

// Handler exposes the gin engine for mounting
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) setupRoutes() {
	s.router.GET("/", s.handleIndex)
	s.router.GET("/sessions/:id/report", s.handleReport)
}

// handleIndex renders the dataset overview and the API entry points
func (s *Server) handleIndex(c *gin.Context) {
	s.renderTemplate(c, "index.html", gin.H{
		"Overview": s.svc.Overview(),
		"Defaults": s.svc.Defaults(),
	})
}

// handleReport renders the markdown cluster report of a session
func (s *Server) handleReport(c *gin.Context) {
	id, err := core.ParseSessionID(c.Param("id"))
	if err != nil {
		s.renderError(c, fmt.Errorf("%w: %v", core.ErrSessionNotFound, err))
		return
	}
	st, err := s.svc.Session(id)
	if err != nil {
		s.renderError(c, err)
		return
	}

	md := BuildReport(st)
	if c.Query("format") == "md" {
		c.Data(http.StatusOK, "text/markdown; charset=utf-8", []byte(md))
		return
	}
	s.renderTemplate(c, "report.html", gin.H{
		"ID":   st.ID,
		"Body": RenderMarkdown(md),
	})
}

func (s *Server) renderError(c *gin.Context, err error) {
	status, code := apperrors.Classify(err)
	c.AbortWithStatusJSON(status, gin.H{"error": err.Error(), "code": code})
}

// Package devserver is an in-memory stand-in for the remote course
// directory, serving the same wire contract the production directory does.
// It exists for local development and integration tests; nothing durable
// lives here.
package devserver

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/quitecodedevelopers/elearn-go/internal/models"
	"github.com/quitecodedevelopers/elearn-go/pkg/config"
	"github.com/quitecodedevelopers/elearn-go/pkg/logger"
	corsmiddleware "github.com/quitecodedevelopers/elearn-go/pkg/middleware/cors"
	reqidmiddleware "github.com/quitecodedevelopers/elearn-go/pkg/middleware/requestid"
)

// Server wires the store, token issuer and HTTP surface together.
type Server struct {
	store    *Store
	issuer   *TokenIssuer
	logger   *zap.Logger
	registry *prometheus.Registry
	requests *prometheus.CounterVec
	origins  []string
}

// New constructs a Server around a store.
func New(cfg config.DevServerConfig, store *Store, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}

	registry := prometheus.NewRegistry()
	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "devserver_http_requests_total",
		Help: "Total number of devserver HTTP requests",
	}, []string{"method", "path", "status"})
	registry.MustRegister(requests)

	return &Server{
		store:    store,
		issuer:   NewTokenIssuer(cfg.JWTSecret, cfg.JWTExpiration),
		logger:   log,
		registry: registry,
		requests: requests,
		origins:  cfg.AllowedOrigins,
	}
}

// Router builds the gin engine with every route the client consumes.
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(s.logger))
	r.Use(corsmiddleware.New(s.origins))
	r.Use(s.countRequests())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{})))

	r.POST("/auth/login", s.login)

	r.GET("/courses", s.listCourses)
	r.GET("/courses/:id", s.getCourse)
	r.GET("/lectures/:id", s.getLecture)

	authed := r.Group("/", RequireAuth(s.issuer, s.store))
	authed.GET("/courses/:id/lectures", s.listLectures)
	authed.GET("/courses/:id/assignments", s.listAssignments)
	authed.GET("/assignments/:id", s.getAssignment)
	authed.POST("/assignments/:id/submit", s.submitAssignment)
	authed.POST("/courses/:id/enroll", s.enroll)
	authed.GET("/users/me", s.me)
	authed.GET("/users/me/enrolled", s.enrolled)
	authed.GET("/users/me/progress", s.progress)
	authed.GET("/users/me/submissions", s.mySubmissions)
	authed.POST("/users/me/courses/:id/progress", s.updateProgress)

	return r
}

func (s *Server) countRequests() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}
		s.requests.WithLabelValues(c.Request.Method, path, strconv.Itoa(c.Writer.Status())).Inc()
	}
}

func (s *Server) login(c *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "email and password are required"})
		return
	}

	user, ok := s.store.Authenticate(req.Email, req.Password)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid email or password"})
		return
	}

	token, err := s.issuer.Issue(user.Email)
	if err != nil {
		s.logger.Error("token issue failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not issue token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token": token,
		"name":  user.Name,
		"email": user.Email,
		"role":  user.Role,
	})
}

func (s *Server) listCourses(c *gin.Context) {
	filter := models.CourseFilter{
		Title:    c.Query("title"),
		Category: c.Query("category"),
	}
	c.JSON(http.StatusOK, s.store.Courses(filter))
}

func (s *Server) getCourse(c *gin.Context) {
	course, ok := s.store.Course(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "course not found"})
		return
	}
	c.JSON(http.StatusOK, course)
}

func (s *Server) listLectures(c *gin.Context) {
	courseID := c.Param("id")
	if _, ok := s.store.Course(courseID); !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "course not found"})
		return
	}
	if !s.store.IsEnrolled(currentEmail(c), courseID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "not enrolled in this course"})
		return
	}
	c.JSON(http.StatusOK, s.store.Lectures(courseID))
}

func (s *Server) getLecture(c *gin.Context) {
	lecture, ok := s.store.Lecture(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "lecture not found"})
		return
	}
	c.JSON(http.StatusOK, lecture)
}

func (s *Server) listAssignments(c *gin.Context) {
	courseID := c.Param("id")
	if _, ok := s.store.Course(courseID); !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "course not found"})
		return
	}
	c.JSON(http.StatusOK, s.store.Assignments(courseID))
}

func (s *Server) getAssignment(c *gin.Context) {
	assignment, ok := s.store.Assignment(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "assignment not found"})
		return
	}
	c.JSON(http.StatusOK, assignment)
}

func (s *Server) submitAssignment(c *gin.Context) {
	var req struct {
		SubmissionURL string `json:"submissionUrl" binding:"required,url"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "submissionUrl must be a valid URL"})
		return
	}

	submission, ok := s.store.Submit(currentEmail(c), c.Param("id"), req.SubmissionURL)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "assignment not found"})
		return
	}
	c.JSON(http.StatusCreated, submission)
}

func (s *Server) enroll(c *gin.Context) {
	if !s.store.Enroll(currentEmail(c), c.Param("id")) {
		c.JSON(http.StatusNotFound, gin.H{"error": "course not found"})
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) me(c *gin.Context) {
	user, ok := s.store.UserByEmail(currentEmail(c))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "account not found"})
		return
	}
	c.JSON(http.StatusOK, user)
}

func (s *Server) enrolled(c *gin.Context) {
	c.JSON(http.StatusOK, s.store.EnrolledIDs(currentEmail(c)))
}

func (s *Server) progress(c *gin.Context) {
	c.JSON(http.StatusOK, s.store.Progress(currentEmail(c)))
}

func (s *Server) mySubmissions(c *gin.Context) {
	c.JSON(http.StatusOK, s.store.SubmissionsFor(currentEmail(c)))
}

func (s *Server) updateProgress(c *gin.Context) {
	var req struct {
		Percent float64 `json:"percent"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "percent is required"})
		return
	}
	if req.Percent < 0 || req.Percent > 100 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "percent must be between 0 and 100"})
		return
	}
	if _, ok := s.store.Course(c.Param("id")); !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "course not found"})
		return
	}

	stored := s.store.SetProgress(currentEmail(c), c.Param("id"), req.Percent)
	c.JSON(http.StatusOK, gin.H{"percent": stored})
}

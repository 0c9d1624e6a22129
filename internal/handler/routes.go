package handler

import (
	"github.com/gin-gonic/gin"

	appErrors "github.com/noah-isme/gestion-etudiants-api/pkg/errors"
	"github.com/noah-isme/gestion-etudiants-api/pkg/response"
)

// Handlers groups every HTTP handler mounted by RegisterRoutes.
type Handlers struct {
	Students    *StudentHandler
	Courses     *CourseHandler
	Enrollments *EnrollmentHandler
	Auth        *AuthHandler
	System      *SystemHandler
}

// RegisterRoutes mounts the API under prefix. When requireAuth is non-nil it
// guards every mutating route.
func RegisterRoutes(r *gin.Engine, prefix string, h Handlers, requireAuth gin.HandlerFunc) {
	write := []gin.HandlerFunc{}
	if requireAuth != nil {
		write = append(write, requireAuth)
	}
	guarded := func(handler gin.HandlerFunc) []gin.HandlerFunc {
		return append(append([]gin.HandlerFunc{}, write...), handler)
	}

	if h.System != nil {
		r.GET("/", h.System.Welcome)
		r.GET("/health", h.System.Health)
		r.GET("/ready", h.System.Ready)
		r.GET("/metrics", h.System.Prometheus)
	}

	api := r.Group(prefix)

	if h.Auth != nil {
		api.POST("/auth/login", h.Auth.Login)
	}

	students := api.Group("/etudiants")
	students.GET("", h.Students.List)
	students.POST("", guarded(h.Students.Create)...)
	students.GET("/:id", h.Students.Get)
	students.PUT("/:id", guarded(h.Students.Update)...)
	students.DELETE("/:id", guarded(h.Students.Delete)...)
	students.GET("/:id/inscriptions", h.Students.Enrollments)
	students.GET("/:id/releve", h.Students.Transcript)

	courses := api.Group("/cours")
	courses.GET("", h.Courses.List)
	courses.POST("", guarded(h.Courses.Create)...)
	courses.GET("/:id", h.Courses.Get)
	courses.PUT("/:id", guarded(h.Courses.Update)...)
	courses.DELETE("/:id", guarded(h.Courses.Delete)...)
	courses.GET("/:id/inscriptions", h.Courses.Enrollments)

	enrollments := api.Group("/inscriptions")
	enrollments.GET("", h.Enrollments.List)
	enrollments.GET("/stats", h.Enrollments.Stats)
	enrollments.GET("/export", h.Enrollments.Export)
	enrollments.POST("", guarded(h.Enrollments.Create)...)
	enrollments.GET("/:id", h.Enrollments.Get)
	enrollments.PUT("/:id", guarded(h.Enrollments.Update)...)
	enrollments.DELETE("/:id", guarded(h.Enrollments.Delete)...)

	r.NoRoute(func(c *gin.Context) {
		response.Error(c, appErrors.ErrRouteNotFound)
	})
}

package http

import (
	"embed"
	"html/template"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/khoahotran/coding-portfolio/pkg/auth"
	"github.com/khoahotran/coding-portfolio/pkg/logger"
)

//go:embed templates/*.tmpl
var templatesFS embed.FS

type Handlers struct {
	Auth    *AuthHandler
	Profile *ProfileHandler
	Project *ProjectHandler
	// Insights is nil when the server runs without a database.
	Insights *InsightsHandler
}

// NewRouter builds the gin engine with every route of the portfolio server. The admin
// routes are mounted only when jwtSvc is non-nil.
func NewRouter(h Handlers, jwtSvc *auth.JWTService, log logger.Logger) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), RequestLogger(log), ErrorMiddleware(log))
	router.SetHTMLTemplate(template.Must(template.ParseFS(templatesFS, "templates/*.tmpl")))

	router.GET("/", h.Profile.Page)
	router.GET("/projects.rss", h.Project.GenerateRSS)

	api := router.Group("/api")
	{
		if jwtSvc != nil {
			admin := api.Group("/admin")

			adminAuth := admin.Group("/auth")
			adminAuth.POST("/login", h.Auth.Login)

			adminPrivate := admin.Group("/")
			adminPrivate.Use(AuthMiddleware(jwtSvc, log))
			{
				adminPrivate.POST("/stats/refresh", h.Profile.RefreshStats)
				if h.Insights != nil {
					adminPrivate.GET("/views", h.Insights.DailyViews)
					adminPrivate.GET("/stats/latest", h.Insights.LatestSnapshot)
				}
			}
		}

		public := api.Group("/")
		{
			public.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "UP"}) })
			public.GET("/stats", h.Profile.GetStats)
			public.GET("/projects", h.Project.ListProjects)
		}
	}

	return router
}

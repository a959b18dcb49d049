// Package router provides project module routes registration.
package router

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/teamlance/engagements/internal/auth"
	"github.com/teamlance/engagements/internal/notify"
	"github.com/teamlance/engagements/internal/project/handler"
	"github.com/teamlance/engagements/internal/project/repository"
	"github.com/teamlance/engagements/internal/project/service"
)

// RegisterRoutes registers project module routes.
func RegisterRoutes(r *gin.Engine, db *gorm.DB, logger *zap.SugaredLogger, d notify.Dispatcher) {
	repo := repository.New(db)
	svc := service.New(repo, db, logger, d)
	h := handler.New(svc, logger)

	g := r.Group("/projects", auth.Resolve())
	g.POST("", h.CreateProject)
	g.GET("", h.ListProjects)
	g.GET("/:id", h.GetProject)
	g.PATCH("/:id", h.UpdateProject)
	g.POST("/:id/complete", h.CloseProject)
	g.DELETE("/:id", h.DeleteProject)
}

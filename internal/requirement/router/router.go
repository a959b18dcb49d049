// Package router provides requirement module routes registration.
package router

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/teamlance/engagements/internal/auth"
	"github.com/teamlance/engagements/internal/notify"
	"github.com/teamlance/engagements/internal/requirement/handler"
	"github.com/teamlance/engagements/internal/requirement/repository"
	"github.com/teamlance/engagements/internal/requirement/service"
)

// RegisterRoutes registers requirement module routes.
func RegisterRoutes(r *gin.Engine, db *gorm.DB, logger *zap.SugaredLogger, d notify.Dispatcher) {
	repo := repository.New(db)
	svc := service.New(repo, db, logger, d)
	h := handler.New(svc, logger)

	g := r.Group("/projects/:id/requirements", auth.Resolve())
	g.POST("", h.AddRequirement)
	g.GET("", h.ListRequirements)
	g.PATCH("/:reqId", h.UpdateRequirement)
	g.DELETE("/:reqId", h.DeleteRequirement)
}

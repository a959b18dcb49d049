// Package router provides roster module routes registration.
package router

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/teamlance/engagements/internal/auth"
	bidRepository "github.com/teamlance/engagements/internal/bid/repository"
	"github.com/teamlance/engagements/internal/notify"
	"github.com/teamlance/engagements/internal/roster/handler"
	"github.com/teamlance/engagements/internal/roster/service"
)

// RegisterRoutes registers roster module routes.
func RegisterRoutes(r *gin.Engine, db *gorm.DB, logger *zap.SugaredLogger, d notify.Dispatcher) {
	svc := service.New(bidRepository.New(db), db, logger, d)
	h := handler.New(svc, logger)

	g := r.Group("/projects/:id", auth.Resolve())
	g.GET("/roster", h.GetRoster)
	g.POST("/finish-work", h.FinishWork)
	g.POST("/remove-participant", h.RemoveParticipant)
}

// Package router provides cancellation module routes registration.
package router

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/teamlance/engagements/internal/auth"
	bidRepository "github.com/teamlance/engagements/internal/bid/repository"
	"github.com/teamlance/engagements/internal/cancellation/handler"
	"github.com/teamlance/engagements/internal/cancellation/repository"
	"github.com/teamlance/engagements/internal/cancellation/service"
	"github.com/teamlance/engagements/internal/notify"
)

// RegisterRoutes registers cancellation module routes.
func RegisterRoutes(r *gin.Engine, db *gorm.DB, logger *zap.SugaredLogger, d notify.Dispatcher) {
	svc := service.New(repository.New(db), bidRepository.New(db), db, logger, d)
	h := handler.New(svc, logger)

	g := r.Group("/projects/:id/cancellation-request", auth.Resolve())
	g.GET("", h.GetRequest)
	g.POST("", h.CreateRequest)
	g.DELETE("", h.Withdraw)
	g.POST("/vote", h.Vote)
	g.POST("/withdraw", h.Withdraw)
}

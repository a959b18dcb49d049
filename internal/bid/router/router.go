// Package router provides bid module routes registration.
package router

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/teamlance/engagements/internal/auth"
	"github.com/teamlance/engagements/internal/bid/handler"
	"github.com/teamlance/engagements/internal/bid/repository"
	"github.com/teamlance/engagements/internal/bid/service"
	"github.com/teamlance/engagements/internal/notify"
)

// RegisterRoutes registers bid module routes.
func RegisterRoutes(r *gin.Engine, db *gorm.DB, logger *zap.SugaredLogger, d notify.Dispatcher) {
	repo := repository.New(db)
	svc := service.New(repo, db, logger, d)
	h := handler.New(svc, logger)

	g := r.Group("/projects/:id", auth.Resolve())
	g.POST("/bids", h.SubmitBid)
	g.GET("/bids", h.ListBids)
	g.PATCH("/bids", h.OwnerBidAction)
	g.POST("/bids/:bidId/respond", h.RespondToBid)
}

package controllers

import (
	"net/http"

	"roomify-client/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type AdminController struct {
	Backend *Backend
	log     *zap.Logger
}

func NewAdminController(b *Backend, log *zap.Logger) *AdminController {
	return &AdminController{Backend: b, log: utils.OrNop(log)}
}

// GET /api/admin/stats
func (ac *AdminController) Stats(c *gin.Context) {
	stats := ac.Backend.Stats()
	c.JSON(http.StatusOK, gin.H{
		"success":        true,
		"stats":          stats.Stats,
		"recentBookings": stats.RecentBookings,
		"roomStats":      stats.RoomStats,
	})
}

// GET /api/admin/users
func (ac *AdminController) Users(c *gin.Context) {
	c.JSON(http.StatusOK, ac.Backend.Users())
}

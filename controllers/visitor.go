package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"conference-api/config"
	"conference-api/models"
	"conference-api/monitor"
)

const visitedCookie = "visited"

// GetVisitorCount returns the current site visit count.
func GetVisitorCount(c *gin.Context) {
	var counter models.VisitorCounter
	if err := config.DB.Where("id = ?", 1).First(&counter).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	monitor.VisitorCount.Set(float64(counter.Count))
	c.JSON(http.StatusOK, gin.H{"count": counter.Count})
}

// IncrementVisitorCount bumps the counter once per client: repeat visits
// carrying the cookie return the current count without counting again. The
// increment is a relative update so concurrent visitors never lose counts.
func IncrementVisitorCount(c *gin.Context) {
	if _, err := c.Cookie(visitedCookie); err == nil {
		GetVisitorCount(c)
		return
	}

	if err := config.DB.Model(&models.VisitorCounter{}).
		Where("id = ?", 1).
		Update("count", gorm.Expr("count + 1")).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	// One year.
	c.SetCookie(visitedCookie, "true", 365*24*3600, "/", "", false, true)
	GetVisitorCount(c)
}

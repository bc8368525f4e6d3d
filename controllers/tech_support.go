package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"conference-api/config"
	"conference-api/models"
)

// GetSupportTickets lists all tickets with reporter and technician resolved.
func GetSupportTickets(c *gin.Context) {
	var tickets []models.SupportTicket
	if err := config.DB.Preload("User").Preload("Technician").
		Order("createdAt DESC").
		Find(&tickets).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	c.JSON(http.StatusOK, tickets)
}

type CreateTicketRequest struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description" binding:"required"`
	Priority    string `json:"priority"`
	Status      string `json:"status"`
	UserID      *int   `json:"userId"`
	AssignedTo  *int   `json:"assignedTo"`
}

// CreateSupportTicket opens a ticket.
func CreateSupportTicket(c *gin.Context) {
	var req CreateTicketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.Priority == "" {
		req.Priority = "medium"
	}
	if req.Status == "" {
		req.Status = models.TicketStatusOpen
	}
	if !models.ValidTicketStatus(req.Status) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid status"})
		return
	}

	now := time.Now()
	ticket := models.SupportTicket{
		Title:       req.Title,
		Description: req.Description,
		Priority:    req.Priority,
		Status:      req.Status,
		UserID:      req.UserID,
		AssignedTo:  req.AssignedTo,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := config.DB.Create(&ticket).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":  "Support ticket created successfully",
		"ticketId": ticket.ID,
	})
}

type AssignTechnicianRequest struct {
	TicketID     int `json:"ticketId" binding:"required"`
	TechnicianID int `json:"technicianId" binding:"required"`
}

// AssignTechnician routes a ticket to a technician account.
func AssignTechnician(c *gin.Context) {
	var req AssignTechnicianRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var technician models.User
	if err := config.DB.Where("id = ? AND role = ?", req.TechnicianID, models.RoleTechnician).
		First(&technician).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Technician not found"})
		return
	}

	result := config.DB.Model(&models.SupportTicket{}).
		Where("id = ?", req.TicketID).
		Updates(map[string]interface{}{
			"assignedTo": req.TechnicianID,
			"updatedAt":  time.Now(),
		})
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Ticket not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Technician assigned successfully"})
}

type UpdateTicketStatusRequest struct {
	TicketID int    `json:"ticketId" binding:"required"`
	Status   string `json:"status" binding:"required"`
}

// UpdateTicketStatus moves a ticket through its lifecycle.
func UpdateTicketStatus(c *gin.Context) {
	var req UpdateTicketStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if !models.ValidTicketStatus(req.Status) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid status"})
		return
	}

	result := config.DB.Model(&models.SupportTicket{}).
		Where("id = ?", req.TicketID).
		Updates(map[string]interface{}{
			"status":    req.Status,
			"updatedAt": time.Now(),
		})
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Ticket not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Ticket status updated successfully"})
}

// DeleteSupportTicket removes a ticket.
func DeleteSupportTicket(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	result := config.DB.Where("id = ?", id).Delete(&models.SupportTicket{})
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Ticket not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Support ticket deleted successfully"})
}

// GetTechnicians lists technician accounts for the assignment dropdown.
func GetTechnicians(c *gin.Context) {
	var technicians []models.User
	if err := config.DB.Select("id", "name", "email").
		Where("role = ?", models.RoleTechnician).
		Find(&technicians).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	c.JSON(http.StatusOK, technicians)
}

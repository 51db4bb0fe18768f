package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/datatypes"

	"github.com/Leganyst/workshop-platform/internal/middleware"
	"github.com/Leganyst/workshop-platform/internal/model"
	"github.com/Leganyst/workshop-platform/internal/service"
)

type OpportunityHandler struct {
	opportunities *service.OpportunityService
	log           *logrus.Logger
}

func NewOpportunityHandler(opportunities *service.OpportunityService, log *logrus.Logger) *OpportunityHandler {
	return &OpportunityHandler{opportunities: opportunities, log: log}
}

type createOpportunityRequest struct {
	ClientID     string  `json:"client_id" binding:"required,uuid"`
	VehicleID    string  `json:"vehicle_id" binding:"required,uuid"`
	ServiceID    *string `json:"service_id" binding:"omitempty,uuid"`
	Type         string  `json:"type" binding:"required"`
	Description  string  `json:"description"`
	FollowUpDate string  `json:"follow_up_date" binding:"required,datetime=2006-01-02"`
	Notes        string  `json:"notes"`
}

type updateOpportunityRequest struct {
	Type         *string `json:"type"`
	Description  *string `json:"description"`
	FollowUpDate *string `json:"follow_up_date" binding:"omitempty,datetime=2006-01-02"`
	Notes        *string `json:"notes"`
}

type changeOpportunityStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=pending contacted interested declined converted"`
}

type convertOpportunityRequest struct {
	ScheduledDate time.Time `json:"scheduled_date" binding:"required"`
	Notes         string    `json:"notes"`
}

// POST /api/opportunities
func (h *OpportunityHandler) Create(c *gin.Context) {
	var req createOpportunityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	clientID, _ := uuid.Parse(req.ClientID)
	vehicleID, _ := uuid.Parse(req.VehicleID)
	followUp, _ := time.Parse("2006-01-02", req.FollowUpDate)

	opp, err := h.opportunities.Create(c.Request.Context(), service.CreateOpportunityInput{
		ClientID:     clientID,
		VehicleID:    vehicleID,
		ServiceID:    parseOptionalUUID(req.ServiceID),
		Type:         req.Type,
		Description:  req.Description,
		FollowUpDate: datatypes.Date(followUp),
		Notes:        req.Notes,
		CreatedBy:    middleware.ActingUserID(c),
	})
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, opp)
}

// GET /api/opportunities/:id
func (h *OpportunityHandler) Get(c *gin.Context) {
	opp, err := h.opportunities.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, opp)
}

// GET /api/opportunities?status=pending&due_before=2024-06-01&page=&page_size=
func (h *OpportunityHandler) List(c *gin.Context) {
	page := intQuery(c, "page", 1)
	pageSize := intQuery(c, "page_size", defaultPageSize)
	limit, offset := PageParams(page, pageSize)

	var dueBefore *time.Time
	if raw := c.Query("due_before"); raw != "" {
		t, err := time.Parse("2006-01-02", raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "due_before must be YYYY-MM-DD"})
			return
		}
		dueBefore = &t
	}

	opps, total, err := h.opportunities.List(
		c.Request.Context(),
		model.OpportunityStatus(c.Query("status")),
		dueBefore,
		limit, offset,
	)
	if err != nil {
		writeError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, NewPage(opps, total, page, pageSize))
}

// PATCH /api/opportunities/:id
func (h *OpportunityHandler) Update(c *gin.Context) {
	var req updateOpportunityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	in := service.UpdateOpportunityInput{
		Type:        req.Type,
		Description: req.Description,
		Notes:       req.Notes,
	}
	if req.FollowUpDate != nil {
		t, _ := time.Parse("2006-01-02", *req.FollowUpDate)
		d := datatypes.Date(t)
		in.FollowUpDate = &d
	}

	opp, err := h.opportunities.Update(c.Request.Context(), c.Param("id"), in)
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, opp)
}

// POST /api/opportunities/:id/status
func (h *OpportunityHandler) ChangeStatus(c *gin.Context) {
	var req changeOpportunityStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	opp, err := h.opportunities.ChangeStatus(c.Request.Context(), c.Param("id"), model.OpportunityStatus(req.Status))
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, opp)
}

// POST /api/opportunities/:id/convert
func (h *OpportunityHandler) Convert(c *gin.Context) {
	var req convertOpportunityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	opp, appt, err := h.opportunities.ConvertToAppointment(
		c.Request.Context(),
		c.Param("id"),
		req.ScheduledDate,
		req.Notes,
		middleware.ActingUserID(c),
	)
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"opportunity": opp, "appointment": appt})
}

// DELETE /api/opportunities/:id
func (h *OpportunityHandler) Delete(c *gin.Context) {
	if err := h.opportunities.Delete(c.Request.Context(), c.Param("id")); err != nil {
		writeError(c, h.log, err)
		return
	}
	c.Status(http.StatusNoContent)
}

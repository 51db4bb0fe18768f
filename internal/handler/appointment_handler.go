package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/Leganyst/workshop-platform/internal/middleware"
	"github.com/Leganyst/workshop-platform/internal/model"
	"github.com/Leganyst/workshop-platform/internal/notify"
	"github.com/Leganyst/workshop-platform/internal/repository"
	"github.com/Leganyst/workshop-platform/internal/service"
)

type AppointmentHandler struct {
	appointments *service.AppointmentService
	clients      repository.ClientRepository
	notifier     notify.Notifier
	log          *logrus.Logger
}

func NewAppointmentHandler(
	appointments *service.AppointmentService,
	clients repository.ClientRepository,
	notifier notify.Notifier,
	log *logrus.Logger,
) *AppointmentHandler {
	return &AppointmentHandler{appointments: appointments, clients: clients, notifier: notifier, log: log}
}

type createAppointmentRequest struct {
	ClientID      string    `json:"client_id" binding:"required,uuid"`
	VehicleID     string    `json:"vehicle_id" binding:"required,uuid"`
	ScheduledDate time.Time `json:"scheduled_date" binding:"required"`
	Notes         string    `json:"notes"`
}

type phoneIntakeRequest struct {
	Name               string    `json:"name" binding:"required"`
	Phone              string    `json:"phone" binding:"required,phone"`
	VehicleDescription string    `json:"vehicle_description"`
	ScheduledDate      time.Time `json:"scheduled_date" binding:"required"`
	Notes              string    `json:"notes"`
}

type rescheduleRequest struct {
	ScheduledDate time.Time `json:"scheduled_date" binding:"required"`
}

type revertCompletionRequest struct {
	Reason string `json:"reason" binding:"required"`
}

// POST /api/appointments
func (h *AppointmentHandler) Create(c *gin.Context) {
	var req createAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	clientID, _ := uuid.Parse(req.ClientID)
	vehicleID, _ := uuid.Parse(req.VehicleID)

	appt, err := h.appointments.Create(c.Request.Context(), service.CreateAppointmentInput{
		ClientID:      clientID,
		VehicleID:     vehicleID,
		ScheduledDate: req.ScheduledDate,
		Notes:         req.Notes,
		CreatedBy:     middleware.ActingUserID(c),
	})
	if err != nil {
		writeError(c, h.log, err)
		return
	}

	h.notifyScheduled(c, appt)
	c.JSON(http.StatusCreated, appt)
}

// POST /api/appointments/phone-intake
func (h *AppointmentHandler) CreateFromPhone(c *gin.Context) {
	var req phoneIntakeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	appt, err := h.appointments.CreateFromPhone(
		c.Request.Context(),
		req.Name, req.Phone, req.VehicleDescription,
		req.ScheduledDate, req.Notes,
		middleware.ActingUserID(c),
	)
	if err != nil {
		writeError(c, h.log, err)
		return
	}

	h.notifyScheduled(c, appt)
	c.JSON(http.StatusCreated, appt)
}

// GET /api/appointments/:id
func (h *AppointmentHandler) Get(c *gin.Context) {
	appt, err := h.appointments.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, appt)
}

// GET /api/appointments?day=2024-06-01&status=scheduled&page=1&page_size=20
func (h *AppointmentHandler) List(c *gin.Context) {
	day, err := time.ParseInLocation("2006-01-02", c.Query("day"), time.Local)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "day must be YYYY-MM-DD"})
		return
	}

	page := intQuery(c, "page", 1)
	pageSize := intQuery(c, "page_size", defaultPageSize)
	limit, offset := PageParams(page, pageSize)

	appts, total, err := h.appointments.ListByDay(
		c.Request.Context(),
		day,
		model.AppointmentStatus(c.Query("status")),
		limit, offset,
	)
	if err != nil {
		writeError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, NewPage(appts, total, page, pageSize))
}

// POST /api/appointments/:id/confirm
func (h *AppointmentHandler) Confirm(c *gin.Context) {
	h.lifecycle(c, h.appointments.Confirm)
}

// POST /api/appointments/:id/receive
func (h *AppointmentHandler) Receive(c *gin.Context) {
	h.lifecycle(c, h.appointments.Receive)
}

// POST /api/appointments/:id/cancel
func (h *AppointmentHandler) Cancel(c *gin.Context) {
	h.lifecycle(c, h.appointments.Cancel)
}

// POST /api/appointments/:id/complete
func (h *AppointmentHandler) Complete(c *gin.Context) {
	h.lifecycle(c, h.appointments.Complete)
}

// POST /api/appointments/:id/reschedule
func (h *AppointmentHandler) Reschedule(c *gin.Context) {
	var req rescheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	appt, err := h.appointments.Reschedule(c.Request.Context(), c.Param("id"), req.ScheduledDate, middleware.ActingUserID(c))
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, appt)
}

// POST /api/appointments/:id/revert-completion
// Операторский откат, только для администратора.
func (h *AppointmentHandler) RevertCompletion(c *gin.Context) {
	var req revertCompletionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	appt, err := h.appointments.RevertCompletion(c.Request.Context(), c.Param("id"), middleware.ActingUserID(c), req.Reason)
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, appt)
}

func (h *AppointmentHandler) lifecycle(
	c *gin.Context,
	op func(ctx context.Context, id string, actingUser *uuid.UUID) (*model.Appointment, error),
) {
	appt, err := op(c.Request.Context(), c.Param("id"), middleware.ActingUserID(c))
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, appt)
}

// Уведомление — только после успешной операции, вне транзакции.
func (h *AppointmentHandler) notifyScheduled(c *gin.Context, appt *model.Appointment) {
	client, err := h.clients.GetByID(c.Request.Context(), appt.ClientID.String())
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			h.log.WithError(err).Warn("notification skipped: client lookup failed")
		}
		return
	}
	h.notifier.AppointmentScheduled(client, appt)
}

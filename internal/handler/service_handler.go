package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/Leganyst/workshop-platform/internal/middleware"
	"github.com/Leganyst/workshop-platform/internal/repository"
	"github.com/Leganyst/workshop-platform/internal/service"
)

type ServiceHandler struct {
	repairs    *service.RepairService
	workStatus repository.WorkStatusRepository
	log        *logrus.Logger
}

func NewServiceHandler(repairs *service.RepairService, workStatus repository.WorkStatusRepository, log *logrus.Logger) *ServiceHandler {
	return &ServiceHandler{repairs: repairs, workStatus: workStatus, log: log}
}

type createServiceRequest struct {
	ClientID      string  `json:"client_id" binding:"required,uuid"`
	VehicleID     string  `json:"vehicle_id" binding:"required,uuid"`
	MechanicID    *string `json:"mechanic_id" binding:"omitempty,uuid"`
	AppointmentID *string `json:"appointment_id" binding:"omitempty,uuid"`
	BranchID      *string `json:"branch_id" binding:"omitempty,uuid"`
	StatusID      *string `json:"status_id" binding:"omitempty,uuid"`

	Problem   string `json:"problem"`
	Diagnosis string `json:"diagnosis"`

	LaborPrice         decimal.Decimal `json:"labor_price"`
	PartsPrice         decimal.Decimal `json:"parts_price"`
	PartsCost          decimal.Decimal `json:"parts_cost"`
	MechanicCommission decimal.Decimal `json:"mechanic_commission"`
}

type updateServiceRequest struct {
	MechanicID *string `json:"mechanic_id" binding:"omitempty,uuid"`
	Problem    *string `json:"problem"`
	Diagnosis  *string `json:"diagnosis"`

	LaborPrice         *decimal.Decimal `json:"labor_price"`
	PartsPrice         *decimal.Decimal `json:"parts_price"`
	PartsCost          *decimal.Decimal `json:"parts_cost"`
	MechanicCommission *decimal.Decimal `json:"mechanic_commission"`
}

type changeStatusRequest struct {
	StatusID string `json:"status_id" binding:"required,uuid"`
	Notes    string `json:"notes"`
}

// POST /api/services
func (h *ServiceHandler) Create(c *gin.Context) {
	var req createServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	clientID, _ := uuid.Parse(req.ClientID)
	vehicleID, _ := uuid.Parse(req.VehicleID)

	svc, err := h.repairs.Create(c.Request.Context(), service.CreateServiceInput{
		ClientID:           clientID,
		VehicleID:          vehicleID,
		MechanicID:         parseOptionalUUID(req.MechanicID),
		AppointmentID:      parseOptionalUUID(req.AppointmentID),
		BranchID:           parseOptionalUUID(req.BranchID),
		StatusID:           parseOptionalUUID(req.StatusID),
		Problem:            req.Problem,
		Diagnosis:          req.Diagnosis,
		LaborPrice:         req.LaborPrice,
		PartsPrice:         req.PartsPrice,
		PartsCost:          req.PartsCost,
		MechanicCommission: req.MechanicCommission,
	})
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, svc)
}

// GET /api/services/:id
func (h *ServiceHandler) Get(c *gin.Context) {
	svc, err := h.repairs.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, svc)
}

// GET /api/services?client_id=&vehicle_id=&branch_id=&status_id=&page=&page_size=
func (h *ServiceHandler) List(c *gin.Context) {
	page := intQuery(c, "page", 1)
	pageSize := intQuery(c, "page_size", defaultPageSize)
	limit, offset := PageParams(page, pageSize)

	services, total, err := h.repairs.List(c.Request.Context(), repository.ServiceFilter{
		ClientID:  c.Query("client_id"),
		VehicleID: c.Query("vehicle_id"),
		BranchID:  c.Query("branch_id"),
		StatusID:  c.Query("status_id"),
	}, limit, offset)
	if err != nil {
		writeError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, NewPage(services, total, page, pageSize))
}

// PATCH /api/services/:id
func (h *ServiceHandler) Update(c *gin.Context) {
	var req updateServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	svc, err := h.repairs.Update(c.Request.Context(), c.Param("id"), service.UpdateServiceInput{
		MechanicID:         parseOptionalUUID(req.MechanicID),
		Problem:            req.Problem,
		Diagnosis:          req.Diagnosis,
		LaborPrice:         req.LaborPrice,
		PartsPrice:         req.PartsPrice,
		PartsCost:          req.PartsCost,
		MechanicCommission: req.MechanicCommission,
	})
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, svc)
}

// POST /api/services/:id/status
func (h *ServiceHandler) ChangeStatus(c *gin.Context) {
	var req changeStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	svc, err := h.repairs.ChangeStatus(c.Request.Context(), c.Param("id"), req.StatusID, req.Notes, middleware.ActingUserID(c))
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, svc)
}

// DELETE /api/services/:id
func (h *ServiceHandler) Delete(c *gin.Context) {
	if err := h.repairs.Delete(c.Request.Context(), c.Param("id")); err != nil {
		writeError(c, h.log, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// GET /api/services/:id/logs
func (h *ServiceHandler) ListStatusLog(c *gin.Context) {
	logs, err := h.repairs.ListStatusLog(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, logs)
}

// GET /api/work-statuses
func (h *ServiceHandler) ListWorkStatuses(c *gin.Context) {
	statuses, err := h.workStatus.List(c.Request.Context())
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, statuses)
}

// Биндинг уже проверил формат uuid; ошибка парсинга здесь невозможна.
func parseOptionalUUID(s *string) *uuid.UUID {
	if s == nil || *s == "" {
		return nil
	}
	id, err := uuid.Parse(*s)
	if err != nil {
		return nil
	}
	return &id
}

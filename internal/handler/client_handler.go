package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/Leganyst/workshop-platform/internal/apperr"
	"github.com/Leganyst/workshop-platform/internal/intake"
	"github.com/Leganyst/workshop-platform/internal/model"
	"github.com/Leganyst/workshop-platform/internal/repository"
)

// ClientHandler — тонкий CRUD по клиентам и автомобилям. Нужен, в
// частности, для сверки на физическом приёме: замена плейсхолдер-номера
// реальным.
type ClientHandler struct {
	clients  repository.ClientRepository
	vehicles repository.VehicleRepository
	log      *logrus.Logger
}

func NewClientHandler(clients repository.ClientRepository, vehicles repository.VehicleRepository, log *logrus.Logger) *ClientHandler {
	return &ClientHandler{clients: clients, vehicles: vehicles, log: log}
}

type createClientRequest struct {
	Name     string `json:"name" binding:"required"`
	Phone    string `json:"phone" binding:"required,phone"`
	WhatsApp string `json:"whatsapp" binding:"omitempty,phone"`
	Email    string `json:"email" binding:"omitempty,email"`
}

type createVehicleRequest struct {
	ClientID string `json:"client_id" binding:"required,uuid"`
	Plate    string `json:"plate" binding:"required"`
	Brand    string `json:"brand" binding:"required"`
	Model    string `json:"model" binding:"required"`
	Year     *int   `json:"year"`
	Color    string `json:"color"`
	Notes    string `json:"notes"`
}

type updateVehicleRequest struct {
	Plate *string `json:"plate"`
	Brand *string `json:"brand"`
	Model *string `json:"model"`
	Year  *int    `json:"year"`
	Color *string `json:"color"`
	Notes *string `json:"notes"`
}

// POST /api/clients
func (h *ClientHandler) Create(c *gin.Context) {
	var req createClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	phone := intake.NormalizePhone(req.Phone)
	if _, err := h.clients.FindByPhone(c.Request.Context(), phone); err == nil {
		writeError(c, h.log, apperr.Conflict("client with phone %s already exists", phone))
		return
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		writeError(c, h.log, err)
		return
	}

	whatsapp := intake.NormalizePhone(req.WhatsApp)
	if whatsapp == "" {
		whatsapp = phone
	}

	client := &model.Client{
		Name:     req.Name,
		Phone:    phone,
		WhatsApp: whatsapp,
		Email:    req.Email,
		IsActive: true,
	}
	if err := h.clients.Create(c.Request.Context(), client); err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, client)
}

// GET /api/clients
func (h *ClientHandler) List(c *gin.Context) {
	page := intQuery(c, "page", 1)
	pageSize := intQuery(c, "page_size", defaultPageSize)
	limit, offset := PageParams(page, pageSize)

	clients, total, err := h.clients.List(c.Request.Context(), limit, offset)
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, NewPage(clients, total, page, pageSize))
}

// GET /api/clients/:id
func (h *ClientHandler) Get(c *gin.Context) {
	client, err := h.clients.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			writeError(c, h.log, apperr.NotFound("client %s not found", c.Param("id")))
			return
		}
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, client)
}

// GET /api/clients/:id/vehicles
func (h *ClientHandler) ListVehicles(c *gin.Context) {
	vehicles, err := h.vehicles.ListByClient(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, vehicles)
}

// POST /api/vehicles
func (h *ClientHandler) CreateVehicle(c *gin.Context) {
	var req createVehicleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	clientID, _ := uuid.Parse(req.ClientID)
	if _, err := h.clients.GetByID(c.Request.Context(), req.ClientID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			writeError(c, h.log, apperr.NotFound("client %s not found", req.ClientID))
			return
		}
		writeError(c, h.log, err)
		return
	}

	if err := h.checkPlateFree(c, req.Plate, ""); err != nil {
		writeError(c, h.log, err)
		return
	}

	vehicle := &model.Vehicle{
		ClientID: clientID,
		Plate:    req.Plate,
		Brand:    req.Brand,
		Model:    req.Model,
		Year:     req.Year,
		Color:    req.Color,
		Notes:    req.Notes,
	}
	if err := h.vehicles.Create(c.Request.Context(), vehicle); err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, vehicle)
}

// PATCH /api/vehicles/:id — в том числе сверка плейсхолдер-номера с
// реальным; дубль номера — Conflict.
func (h *ClientHandler) UpdateVehicle(c *gin.Context) {
	var req updateVehicleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	id := c.Param("id")
	vehicle, err := h.vehicles.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			writeError(c, h.log, apperr.NotFound("vehicle %s not found", id))
			return
		}
		writeError(c, h.log, err)
		return
	}

	fields := map[string]any{}
	if req.Plate != nil && *req.Plate != vehicle.Plate {
		if err := h.checkPlateFree(c, *req.Plate, id); err != nil {
			writeError(c, h.log, err)
			return
		}
		fields["plate"] = *req.Plate
	}
	if req.Brand != nil {
		fields["brand"] = *req.Brand
	}
	if req.Model != nil {
		fields["model"] = *req.Model
	}
	if req.Year != nil {
		fields["year"] = *req.Year
	}
	if req.Color != nil {
		fields["color"] = *req.Color
	}
	if req.Notes != nil {
		fields["notes"] = *req.Notes
	}

	if len(fields) > 0 {
		if err := h.vehicles.Updates(c.Request.Context(), id, fields); err != nil {
			writeError(c, h.log, err)
			return
		}
	}

	updated, err := h.vehicles.GetByID(c.Request.Context(), id)
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (h *ClientHandler) checkPlateFree(c *gin.Context, plate, excludeID string) error {
	existing, err := h.vehicles.FindByPlate(c.Request.Context(), plate)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if existing.ID.String() == excludeID {
		return nil
	}
	return apperr.Conflict("plate %s is already registered", plate)
}

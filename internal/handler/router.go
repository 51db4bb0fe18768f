package handler

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"

	"github.com/Leganyst/workshop-platform/internal/auth"
	"github.com/Leganyst/workshop-platform/internal/intake"
	"github.com/Leganyst/workshop-platform/internal/middleware"
	"github.com/Leganyst/workshop-platform/internal/model"
)

// Handlers — всё, что регистрируется в роутере.
type Handlers struct {
	Auth          *AuthHandler
	Appointments  *AppointmentHandler
	Services      *ServiceHandler
	Opportunities *OpportunityHandler
	Clients       *ClientHandler
}

// NewRouter собирает gin-роутер: CORS, аутентификация, кастомный
// валидатор телефона и маршруты 1:1 с операциями ядра.
func NewRouter(h Handlers, authSvc *auth.Service, log *logrus.Logger) *gin.Engine {
	registerValidators(log)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(cors.Default())

	r.POST("/api/login", h.Auth.Login)

	api := r.Group("/api", middleware.Authenticate(authSvc))
	{
		api.GET("/appointments", h.Appointments.List)
		api.POST("/appointments", h.Appointments.Create)
		api.POST("/appointments/phone-intake", h.Appointments.CreateFromPhone)
		api.GET("/appointments/:id", h.Appointments.Get)
		api.POST("/appointments/:id/confirm", h.Appointments.Confirm)
		api.POST("/appointments/:id/receive", h.Appointments.Receive)
		api.POST("/appointments/:id/cancel", h.Appointments.Cancel)
		api.POST("/appointments/:id/complete", h.Appointments.Complete)
		api.POST("/appointments/:id/reschedule", h.Appointments.Reschedule)
		api.POST("/appointments/:id/revert-completion",
			middleware.RequireRole(model.UserRoleAdmin), h.Appointments.RevertCompletion)

		api.GET("/services", h.Services.List)
		api.POST("/services", h.Services.Create)
		api.GET("/services/:id", h.Services.Get)
		api.PATCH("/services/:id", h.Services.Update)
		api.POST("/services/:id/status", h.Services.ChangeStatus)
		api.DELETE("/services/:id", h.Services.Delete)
		api.GET("/services/:id/logs", h.Services.ListStatusLog)
		api.GET("/work-statuses", h.Services.ListWorkStatuses)

		api.GET("/opportunities", h.Opportunities.List)
		api.POST("/opportunities", h.Opportunities.Create)
		api.GET("/opportunities/:id", h.Opportunities.Get)
		api.PATCH("/opportunities/:id", h.Opportunities.Update)
		api.POST("/opportunities/:id/status", h.Opportunities.ChangeStatus)
		api.POST("/opportunities/:id/convert", h.Opportunities.Convert)
		api.DELETE("/opportunities/:id", h.Opportunities.Delete)

		api.GET("/clients", h.Clients.List)
		api.POST("/clients", h.Clients.Create)
		api.GET("/clients/:id", h.Clients.Get)
		api.GET("/clients/:id/vehicles", h.Clients.ListVehicles)
		api.POST("/vehicles", h.Clients.CreateVehicle)
		api.PATCH("/vehicles/:id", h.Clients.UpdateVehicle)
	}

	return r
}

// Правило "phone": после нормализации остаётся от 7 до 15 цифр.
func registerValidators(log *logrus.Logger) {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		log.Warn("gin binding validator engine unavailable; phone rule not registered")
		return
	}
	_ = v.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
		n := intake.NormalizePhone(fl.Field().String())
		return len(n) >= 7 && len(n) <= 15
	})
}

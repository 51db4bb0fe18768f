package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"gorm.io/gorm"

	"github.com/Leganyst/workshop-platform/internal/auth"
	"github.com/Leganyst/workshop-platform/internal/config"
	"github.com/Leganyst/workshop-platform/internal/db"
	"github.com/Leganyst/workshop-platform/internal/handler"
	"github.com/Leganyst/workshop-platform/internal/model"
	"github.com/Leganyst/workshop-platform/internal/notify"
	"github.com/Leganyst/workshop-platform/internal/repository"
	"github.com/Leganyst/workshop-platform/internal/service"
)

func main() {
	log := config.GetLogger()

	// 1. Конфиг приложения и БД из env.
	appCfg, err := config.LoadAppConfig()
	if err != nil {
		log.WithError(err).Fatal("load app config")
	}
	dbCfg, err := config.LoadDBConfig()
	if err != nil {
		log.WithError(err).Fatal("load db config")
	}

	// 2. Подключаемся к БД через GORM.
	gormDB, err := db.NewGormDB(dbCfg)
	if err != nil {
		log.WithError(err).Fatal("init db")
	}

	// 3. Миграции и сиды: словарь статусов работ, начальный администратор.
	if err := model.AutoMigrate(gormDB); err != nil {
		log.WithError(err).Fatal("auto migrate")
	}
	if err := model.SeedWorkStatuses(gormDB); err != nil {
		log.WithError(err).Fatal("seed work statuses")
	}

	authSvc := auth.NewService(appCfg.JWTSecret, appCfg.TokenExpiry)
	if err := seedBootstrapAdmin(gormDB, authSvc, appCfg); err != nil {
		log.WithError(err).Fatal("seed bootstrap admin")
	}

	sqlDB, err := gormDB.DB()
	if err != nil {
		log.WithError(err).Fatal("sql DB")
	}
	defer sqlDB.Close()

	// 4. Репозитории (реализации на GORM).
	clientRepo := repository.NewGormClientRepository(gormDB)
	vehicleRepo := repository.NewGormVehicleRepository(gormDB)
	userRepo := repository.NewGormUserRepository(gormDB)
	workStatusRepo := repository.NewGormWorkStatusRepository(gormDB)

	// 5. Менеджеры жизненного цикла.
	intakeSvc := service.NewIntakeService(clientRepo, vehicleRepo, log)
	appointmentSvc := service.NewAppointmentService(gormDB, intakeSvc, log, appCfg.TimeZone)
	repairSvc := service.NewRepairService(gormDB, appointmentSvc, log)
	opportunitySvc := service.NewOpportunityService(gormDB, appointmentSvc, log)

	notifier := notify.NewWhatsAppLinkNotifier(log)

	// 6. HTTP-поверхность.
	router := handler.NewRouter(handler.Handlers{
		Auth:          handler.NewAuthHandler(userRepo, authSvc, log),
		Appointments:  handler.NewAppointmentHandler(appointmentSvc, clientRepo, notifier, log),
		Services:      handler.NewServiceHandler(repairSvc, workStatusRepo, log),
		Opportunities: handler.NewOpportunityHandler(opportunitySvc, log),
		Clients:       handler.NewClientHandler(clientRepo, vehicleRepo, log),
	}, authSvc, log)

	srv := &http.Server{
		Addr:    appCfg.HTTPAddr,
		Handler: router,
	}

	// 7. Запускаем сервер в горутине.
	go func() {
		log.WithField("addr", appCfg.HTTPAddr).Info("workshop core listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("http serve")
		}
	}()

	// 8. Грейсфул-шатдаун по сигналу.
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	log.Info("shutting down http server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.WithError(err).Error("shutdown")
	}
}

// seedBootstrapAdmin создаёт администратора, если пользователей ещё нет.
func seedBootstrapAdmin(gormDB *gorm.DB, authSvc *auth.Service, cfg *config.AppConfig) error {
	var count int64
	if err := gormDB.Model(&model.User{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	hash, err := authSvc.HashPassword(cfg.BootstrapAdminPassword)
	if err != nil {
		return err
	}
	return gormDB.Create(&model.User{
		Username:     cfg.BootstrapAdminUser,
		PasswordHash: hash,
		DisplayName:  "Administrador",
		Role:         model.UserRoleAdmin,
		IsActive:     true,
	}).Error
}

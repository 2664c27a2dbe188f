package main

import (
	"context"
	"fmt"
	"log"
	"os"

	_ "mzansicare/docs"
	"mzansicare/internal/auth"
	"mzansicare/internal/facility"
	"mzansicare/internal/handlers"
	"mzansicare/internal/models"
	"mzansicare/internal/notify"
	"mzansicare/internal/queue"
	"mzansicare/internal/storage"
	"mzansicare/internal/tasks"
	"mzansicare/internal/ws"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"
	"github.com/joho/godotenv"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// @Title						MzansiCare API
// @Description				Virtual queue ticketing for South African clinics and hospitals
// @securityDefinitions.apikey	BearerAuth
// @in							header
// @name						Authorization
func main() {
	key := os.Getenv("ENV_CHECK")
	if key == "" {
		fmt.Println("Loading .env")
		if err := godotenv.Load(); err != nil {
			log.Fatal("Failed to load .env")
		}
	}

	storage.ConnectDatabase()

	if err := storage.DB.AutoMigrate(
		&models.Patient{},
		&models.Facility{},
		&models.Ticket{},
		&models.Appointment{},
		&models.Reminder{},
		&models.Supply{},
		&models.Feedback{},
	); err != nil {
		log.Fatal("Migration failed: ", err.Error())
	}
	if err := queue.MigrateIndexes(storage.DB); err != nil {
		log.Fatal("Index migration failed: ", err.Error())
	}

	storage.InitRedis()

	if err := facility.SeedFacilities(storage.DB); err != nil {
		log.Fatal("Facility seeding failed: ", err.Error())
	}

	ctx := context.Background()

	var dispatcher notify.Dispatcher
	if os.Getenv("GOOGLE_APPLICATION_CREDENTIALS") != "" {
		fcm, err := notify.NewFCMDispatcher(ctx, storage.DB)
		if err != nil {
			log.Fatal("Firebase init failed: ", err.Error())
		}
		dispatcher = fcm
	} else {
		log.Println("Firebase credentials not set, logging notifications instead")
		dispatcher = notify.LogDispatcher{}
	}

	redisOpt := asynq.RedisClientOpt{
		Addr:     storage.RedisClient.Options().Addr,
		Password: storage.RedisClient.Options().Password,
	}
	asynqClient := asynq.NewClient(redisOpt)
	defer asynqClient.Close()

	asynqServer := asynq.NewServer(redisOpt, asynq.Config{
		Concurrency: 10,
		Queues:      map[string]int{"critical": 6, "default": 3, "low": 1},
	})
	mux := asynq.NewServeMux()
	mux.HandleFunc(notify.TypeNotifyPatient, notify.NewWorker(dispatcher).HandleNotifyPatient)
	go func() {
		if err := asynqServer.Run(mux); err != nil {
			log.Fatal("Task worker failed: ", err.Error())
		}
	}()

	directory := facility.NewDirectory(storage.DB, storage.RedisClient)
	queueService := queue.NewService(storage.DB,
		queue.WithFacilities(directory),
		queue.WithEvents(ws.HubInstance),
		queue.WithNotifier(notify.NewEnqueuer(asynqClient, dispatcher)),
	)
	handlers.Setup(queueService, directory)

	tasks.InitScheduler(queueService, dispatcher)

	go ws.HubInstance.Run()

	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
	}))

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	authGroup := r.Group("/auth")
	{
		authGroup.POST("/register", handlers.Register)
		authGroup.POST("/login", handlers.Login)
		authGroup.POST("/refresh", handlers.RefreshToken)
	}

	public := r.Group("/facilities")
	{
		public.GET("", handlers.ListFacilitiesHandler)
		public.GET("/:id", handlers.GetFacilityHandler)
		public.GET("/:id/supplies", handlers.ListSuppliesHandler)
		public.GET("/:id/feedback", handlers.FacilityFeedbackHandler)
	}

	api := r.Group("/api", auth.Middleware())
	{
		api.GET("/profile", handlers.GetProfileHandler)
		api.PUT("/profile", handlers.UpdateProfileHandler)
		api.POST("/profile/device", handlers.RegisterDeviceHandler)

		queueGroup := api.Group("/queue")
		{
			queueGroup.POST("/join", handlers.JoinQueueHandler)
			queueGroup.GET("/ticket", handlers.GetTicketHandler)
			queueGroup.GET("/ticket/ws", ws.TicketWebSocketHandler)
			queueGroup.POST("/tickets/:id/cancel", handlers.CancelTicketHandler)
		}

		api.GET("/facilities/:facilityId/queue/ws", ws.QueueWebSocketHandler)

		api.POST("/appointments", handlers.BookAppointmentHandler)
		api.GET("/appointments", handlers.ListAppointmentsHandler)
		api.PUT("/appointments/:id/status", handlers.UpdateAppointmentStatusHandler)

		api.POST("/feedback", handlers.SubmitFeedbackHandler)

		api.POST("/ai/triage", handlers.TriageHandler)
		api.POST("/ai/medcheck", handlers.MedCheckHandler)

		admin := api.Group("", auth.RequireAdmin())
		{
			admin.POST("/facilities/:facilityId/queue/call-next", handlers.CallNextHandler)
			admin.POST("/queue/tickets/:id/call", handlers.CallTicketHandler)
			admin.POST("/queue/tickets/:id/serve", handlers.ServeTicketHandler)
			admin.GET("/facilities/:facilityId/queue/tickets", handlers.ListFacilityTicketsHandler)
			admin.PUT("/admin/facilities", handlers.UpsertFacilityHandler)
			admin.PUT("/admin/supplies", handlers.UpsertSupplyHandler)
		}
	}

	if err := r.Run(":8080"); err != nil {
		log.Fatal("Server failed: ", err.Error())
	}
}

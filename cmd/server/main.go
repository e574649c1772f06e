package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/qualiflow/qualiflow/internal/audit"
	"github.com/qualiflow/qualiflow/internal/auth"
	"github.com/qualiflow/qualiflow/internal/config"
	"github.com/qualiflow/qualiflow/internal/contractor"
	"github.com/qualiflow/qualiflow/internal/database"
	"github.com/qualiflow/qualiflow/internal/equipment"
	"github.com/qualiflow/qualiflow/internal/middleware"
	"github.com/qualiflow/qualiflow/internal/project/model"
	"github.com/qualiflow/qualiflow/internal/project/router"
	"github.com/qualiflow/qualiflow/internal/project/service"
	"github.com/qualiflow/qualiflow/internal/qualification"
	"github.com/qualiflow/qualiflow/internal/uploads"
)

func main() {
	// Load configuration from environment variables
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	slog.Info("configuration loaded successfully",
		"db_host", cfg.Database.Host,
		"db_port", cfg.Database.Port,
		"db_name", cfg.Database.Name,
		"storage_type", cfg.Storage.Type,
	)

	slog.Info("server configuration",
		"port", cfg.Server.Port,
	)

	// Initialize database connection
	db, err := database.New(&cfg.Database)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer func() {
		if err := database.Close(db); err != nil {
			slog.Error("failed to close database", "error", err)
		}
	}()

	// Perform health check
	if err := database.HealthCheck(db); err != nil {
		log.Fatalf("database health check failed: %v", err)
	}

	// Migrate schema
	if err := db.AutoMigrate(
		&auth.User{},
		&contractor.Contractor{},
		&qualification.QualificationObject{},
		&equipment.Equipment{},
		&model.Project{},
		&model.ProjectQualificationObject{},
		&model.StageAssignment{},
		&model.EquipmentAssignment{},
		&model.TestingPeriod{},
		&model.ProjectDocument{},
		&model.DocumentApproval{},
		&model.DocumentComment{},
		&audit.Entry{},
	); err != nil {
		log.Fatalf("failed to migrate database schema: %v", err)
	}

	// Initialize document storage
	ctx := context.Background()
	storageDriver, err := uploads.NewStorageFromConfig(ctx, cfg.Storage)
	if err != nil {
		log.Fatalf("failed to initialize document storage: %v", err)
	}
	documentStore := uploads.NewDocumentStore(storageDriver)

	// Wire services
	auditor := audit.NewWriter(db)
	authService := auth.NewService(db)
	tokenExtractor := auth.NewTokenExtractor()
	contractorService := contractor.NewService(db)
	qualificationService := qualification.NewService(db)
	equipmentService := equipment.NewService(db)
	assignmentService := service.NewAssignmentService(db)
	approvalService := service.NewApprovalService(db, auditor)
	projectService := service.NewProjectService(db, assignmentService)
	transitionService := service.NewTransitionService(db, assignmentService, approvalService, auditor)
	documentService := service.NewDocumentService(db, documentStore)
	placementService := service.NewPlacementService(db, auditor)
	testingPeriodService := service.NewTestingPeriodService(db)

	// Wire handlers
	authHandler := auth.NewHandler(authService)
	contractorHandler := contractor.NewHandler(contractorService)
	qualificationHandler := qualification.NewHandler(qualificationService, documentStore)
	equipmentHandler := equipment.NewHandler(equipmentService)
	projectRouter := router.NewProjectRouter(projectService, transitionService, assignmentService, auditor)
	documentRouter := router.NewDocumentRouter(documentService, approvalService)
	placementRouter := router.NewPlacementRouter(placementService, testingPeriodService)

	// Set up HTTP routes
	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/users", authHandler.HandleCreateUser)
	mux.HandleFunc("GET /api/users", authHandler.HandleListUsers)
	mux.Handle("GET /api/users/me", auth.RequireAuth(http.HandlerFunc(authHandler.HandleGetCurrentUser)))

	mux.HandleFunc("POST /api/contractors", contractorHandler.HandleCreate)
	mux.HandleFunc("GET /api/contractors", contractorHandler.HandleList)
	mux.HandleFunc("GET /api/contractors/{contractorID}", contractorHandler.HandleGet)
	mux.HandleFunc("PUT /api/contractors/{contractorID}", contractorHandler.HandleUpdate)
	mux.HandleFunc("DELETE /api/contractors/{contractorID}", contractorHandler.HandleDelete)

	mux.HandleFunc("POST /api/qualification-objects", qualificationHandler.HandleCreate)
	mux.HandleFunc("GET /api/qualification-objects", qualificationHandler.HandleList)
	mux.HandleFunc("GET /api/qualification-objects/{objectID}", qualificationHandler.HandleGet)
	mux.HandleFunc("PUT /api/qualification-objects/{objectID}", qualificationHandler.HandleUpdate)
	mux.HandleFunc("DELETE /api/qualification-objects/{objectID}", qualificationHandler.HandleDelete)
	mux.HandleFunc("PUT /api/qualification-objects/{objectID}/plan", qualificationHandler.HandleUploadPlan)
	mux.HandleFunc("GET /api/qualification-objects/{objectID}/plan", qualificationHandler.HandleDownloadPlan)
	mux.HandleFunc("DELETE /api/qualification-objects/{objectID}/plan", qualificationHandler.HandleDeletePlan)

	mux.HandleFunc("POST /api/equipment", equipmentHandler.HandleCreate)
	mux.HandleFunc("GET /api/equipment", equipmentHandler.HandleList)
	mux.HandleFunc("GET /api/equipment/{equipmentID}", equipmentHandler.HandleGet)
	mux.HandleFunc("PUT /api/equipment/{equipmentID}", equipmentHandler.HandleUpdate)
	mux.HandleFunc("DELETE /api/equipment/{equipmentID}", equipmentHandler.HandleDelete)

	mux.HandleFunc("POST /api/projects", projectRouter.HandleCreateProject)
	mux.HandleFunc("GET /api/projects", projectRouter.HandleListProjects)
	mux.HandleFunc("GET /api/projects/{projectID}", projectRouter.HandleGetProject)
	mux.HandleFunc("PUT /api/projects/{projectID}", projectRouter.HandleUpdateProject)
	mux.HandleFunc("POST /api/projects/{projectID}/advance", projectRouter.HandleAdvanceProject)
	mux.HandleFunc("GET /api/projects/{projectID}/stages", projectRouter.HandleGetStageReport)
	mux.HandleFunc("PUT /api/projects/{projectID}/assignments", projectRouter.HandleUpsertAssignment)
	mux.HandleFunc("GET /api/projects/{projectID}/assignments", projectRouter.HandleGetAssignments)
	mux.HandleFunc("GET /api/projects/{projectID}/audit", projectRouter.HandleGetAuditTrail)

	mux.HandleFunc("PUT /api/projects/{projectID}/objects/{objectID}/equipment", placementRouter.HandleSetPlacement)
	mux.HandleFunc("GET /api/projects/{projectID}/objects/{objectID}/equipment", placementRouter.HandleGetPlacement)
	mux.HandleFunc("GET /api/projects/{projectID}/equipment", placementRouter.HandleListProjectEquipment)
	mux.HandleFunc("POST /api/equipment-assignments/{assignmentID}/complete", placementRouter.HandleCompleteEquipmentAssignment)

	mux.HandleFunc("POST /api/testing-periods", placementRouter.HandleCreateTestingPeriod)
	mux.HandleFunc("GET /api/testing-periods", placementRouter.HandleListTestingPeriods)
	mux.HandleFunc("GET /api/testing-periods/{periodID}", placementRouter.HandleGetTestingPeriod)
	mux.HandleFunc("PUT /api/testing-periods/{periodID}", placementRouter.HandleUpdateTestingPeriod)
	mux.HandleFunc("DELETE /api/testing-periods/{periodID}", placementRouter.HandleDeleteTestingPeriod)

	mux.HandleFunc("POST /api/projects/{projectID}/documents", documentRouter.HandleUploadDocument)
	mux.HandleFunc("GET /api/projects/{projectID}/documents", documentRouter.HandleListDocuments)
	mux.HandleFunc("GET /api/projects/{projectID}/negotiation-approval", documentRouter.HandleGetNegotiationApproval)
	mux.HandleFunc("GET /api/documents/{documentID}/content", documentRouter.HandleDownloadDocument)
	mux.HandleFunc("DELETE /api/documents/{documentID}", documentRouter.HandleDeleteDocument)
	mux.Handle("POST /api/documents/{documentID}/approve", auth.RequireAuth(http.HandlerFunc(documentRouter.HandleApproveDocument)))
	mux.Handle("POST /api/documents/{documentID}/reject", auth.RequireAuth(http.HandlerFunc(documentRouter.HandleRejectDocument)))
	mux.Handle("POST /api/documents/{documentID}/comments", auth.RequireAuth(http.HandlerFunc(documentRouter.HandleCommentDocument)))
	mux.HandleFunc("GET /api/documents/{documentID}/approval", documentRouter.HandleGetApprovalStatus)

	// Wrap handler with auth and CORS middleware
	handler := auth.Middleware(authService, tokenExtractor)(mux)
	handler = middleware.CORS(cfg.CORS)(handler)

	serverAddr := fmt.Sprintf(":%d", cfg.Server.Port)
	server := &http.Server{
		Addr:    serverAddr,
		Handler: handler,
	}

	// Channel to listen for interrupt signals
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	// Start server in a goroutine
	go func() {
		slog.Info("starting server", "port", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("failed to start server", "error", err)
			quit <- syscall.SIGTERM
		}
	}()

	// Wait for interrupt signal
	<-quit
	slog.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
	} else {
		slog.Info("server gracefully stopped")
	}

	slog.Info("server stopped")
}

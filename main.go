package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"agency-service/internal/auth"
	"agency-service/internal/authz"
	"agency-service/internal/config"
	"agency-service/internal/http"
	"agency-service/internal/links"
	"agency-service/internal/repository/postgres"
	"agency-service/internal/storage/s3"
	"agency-service/internal/submissions"
)

const (
	envFilePath      = ".env"
	serverAddrPrefix = ":"
	signalBufferSize = 1
	logOutputFlags   = log.LstdFlags | log.Lshortfile
)

var shutdownSignals = []os.Signal{
	syscall.SIGINT,
	syscall.SIGTERM,
}

type serviceLogger struct{}

func (serviceLogger) Warnf(format string, args ...any) {
	log.Printf("WARN "+format, args...)
}

func main() {
	if err := godotenv.Load(envFilePath); err != nil {
		log.Println("Warning: .env file not found, using environment variables")
	}

	log.SetOutput(os.Stderr)
	log.SetFlags(logOutputFlags)

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	log.Println("Configuration loaded successfully")

	db, err := postgres.New(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	log.Println("Database connection established")

	accountRepo := postgres.NewAccountRepository(db)
	clientRepo := postgres.NewClientRepository(db)
	projectRepo := postgres.NewProjectRepository(db)
	membershipRepo := postgres.NewMembershipRepository(db)
	candidateRepo := postgres.NewCandidateRepository(db)
	linkRepo := postgres.NewLinkRepository(db)
	submissionRepo := postgres.NewSubmissionRepository(db)
	ticketRepo := postgres.NewTicketRepository(db)
	contactRepo := postgres.NewContactRepository(db)

	s3Client, err := s3.NewClient(&cfg.AWS)
	if err != nil {
		log.Fatalf("Failed to create S3 client: %v", err)
	}

	log.Println("S3 client initialized")

	jwtService := auth.NewJWTService(cfg.JWT.Secret, cfg.JWT.SessionTTL)
	authMiddleware := auth.NewMiddleware(jwtService)
	authorizer := authz.New(membershipRepo)

	linkService := links.NewService(linkRepo, candidateRepo, projectRepo, clientRepo,
		authorizer, cfg.Links.OnboardingTTL, cfg.Links.PaymentTTL)

	submissionService := submissions.NewService(linkService, submissionRepo, s3Client, submissions.Policy{
		AcceptedTypes: cfg.Uploads.AcceptedTypes,
		MaxSizeBytes:  cfg.Uploads.MaxUploadSize,
	}, serviceLogger{})

	serverDeps := &http.ServerDependencies{
		Config:            cfg,
		AccountRepo:       accountRepo,
		ClientRepo:        clientRepo,
		ProjectRepo:       projectRepo,
		MembershipRepo:    membershipRepo,
		CandidateRepo:     candidateRepo,
		SubmissionRepo:    submissionRepo,
		TicketRepo:        ticketRepo,
		ContactRepo:       contactRepo,
		JWTService:        jwtService,
		AuthMiddleware:    authMiddleware,
		Authorizer:        authorizer,
		LinkService:       linkService,
		SubmissionService: submissionService,
	}

	server := http.NewServer(serverDeps)

	go func() {
		log.Printf("Starting HTTP server on port %s", cfg.Server.Port)
		if err := server.Start(serverAddrPrefix + cfg.Server.Port); err != nil {
			log.Fatalf("Server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, signalBufferSize)
	signal.Notify(quit, shutdownSignals...)
	<-quit

	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exited gracefully")
}

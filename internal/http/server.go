package http

import (
	"context"
	stdhttp "net/http"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"

	"agency-service/internal/auth"
	"agency-service/internal/authz"
	"agency-service/internal/config"
	"agency-service/internal/http/handler"
	"agency-service/internal/http/middleware"
	"agency-service/internal/links"
	"agency-service/internal/repository"
	"agency-service/internal/submissions"
)

const (
	jsonKeyStatus    = "status"
	statusOK         = "ok"
	requestBodyLimit = "12M" // multipart uploads plus headroom over the artifact cap
)

type ServerDependencies struct {
	Config            *config.Config
	AccountRepo       repository.AccountRepository
	ClientRepo        repository.ClientRepository
	ProjectRepo       repository.ProjectRepository
	MembershipRepo    repository.MembershipRepository
	CandidateRepo     repository.CandidateRepository
	SubmissionRepo    repository.SubmissionRepository
	TicketRepo        repository.TicketRepository
	ContactRepo       repository.ContactRepository
	JWTService        *auth.JWTService
	AuthMiddleware    *auth.Middleware
	Authorizer        *authz.Authorizer
	LinkService       *links.Service
	SubmissionService *submissions.Service
}

type Server struct {
	echo *echo.Echo
	deps *ServerDependencies
}

func NewServer(deps *ServerDependencies) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.HTTPErrorHandler = CustomHTTPErrorHandler

	e.Server.ReadTimeout = deps.Config.Server.ReadTimeout
	e.Server.WriteTimeout = deps.Config.Server.WriteTimeout

	// Request ID middleware (first, so all logs have request ID)
	e.Use(middleware.RequestID())
	e.Use(middleware.SecurityHeaders())
	e.Use(echomiddleware.Logger())
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.BodyLimit(requestBodyLimit))

	globalRateLimiter := middleware.NewGlobalRateLimiter()
	e.Use(globalRateLimiter.Middleware())

	// Strict rate limiting for login and the sessionless public surface
	strictRateLimiter := middleware.NewStrictRateLimiter()

	authHandler := handler.NewAuthHandler(deps.AccountRepo, deps.JWTService, deps.Config.Server.IsProduction())
	accountHandler := handler.NewAccountHandler(deps.AccountRepo)
	clientHandler := handler.NewClientHandler(deps.ClientRepo)
	projectHandler := handler.NewProjectHandler(deps.ProjectRepo, deps.ClientRepo, deps.Authorizer)
	memberHandler := handler.NewMemberHandler(deps.MembershipRepo, deps.ProjectRepo, deps.AccountRepo)
	candidateHandler := handler.NewCandidateHandler(deps.CandidateRepo, deps.SubmissionRepo)
	linkHandler := handler.NewLinkHandler(deps.LinkService)
	publicHandler := handler.NewPublicHandler(deps.LinkService, deps.SubmissionService, deps.Config.Uploads.MaxUploadSize)
	ticketHandler := handler.NewTicketHandler(deps.TicketRepo, deps.ProjectRepo)
	contactHandler := handler.NewContactHandler(deps.ContactRepo)
	paymentsHandler := handler.NewPaymentsHandler(deps.SubmissionRepo, deps.ProjectRepo, deps.Authorizer)

	e.POST("/auth/login", authHandler.Login, strictRateLimiter.Middleware())
	e.POST("/auth/logout", authHandler.Logout)
	e.GET("/health", healthCheck)

	// The sessionless contract: resolve a token, submit against it,
	// plus the contact form.
	e.GET("/public/links/:token", publicHandler.Resolve, strictRateLimiter.Middleware())
	e.POST("/public/links/:token/submissions", publicHandler.Submit, strictRateLimiter.Middleware())
	e.POST("/public/contact", contactHandler.Submit, strictRateLimiter.Middleware())

	api := e.Group("/api")
	api.Use(deps.AuthMiddleware.RequireSession())

	api.GET("/me", authHandler.Me)

	api.GET("/clients", clientHandler.List)
	api.GET("/clients/:id", clientHandler.Get)

	api.GET("/projects", projectHandler.List)
	api.GET("/projects/:id", projectHandler.Get)
	api.PATCH("/projects/:id", projectHandler.Update) // edit capability checked in handler

	api.POST("/projects/:project_id/payment-links", linkHandler.IssuePayment)
	api.GET("/projects/:project_id/payment-links", linkHandler.ListByProject)
	api.GET("/projects/:project_id/payments", paymentsHandler.List)
	api.GET("/projects/:project_id/payments/export", paymentsHandler.ExportCSV)

	api.PATCH("/links/:id", linkHandler.Toggle)
	api.POST("/links/:id/regenerate", linkHandler.Regenerate)

	api.POST("/tickets", ticketHandler.Create)
	api.GET("/tickets", ticketHandler.List)
	api.GET("/tickets/:id", ticketHandler.Get)
	api.POST("/tickets/:id/comments", ticketHandler.AddComment)
	api.POST("/tickets/:id/close", ticketHandler.Close)

	admin := api.Group("", deps.AuthMiddleware.RequireAdmin())

	admin.POST("/accounts", accountHandler.Create)
	admin.GET("/accounts", accountHandler.List)
	admin.GET("/accounts/:id", accountHandler.Get)
	admin.PATCH("/accounts/:id", accountHandler.Update)

	admin.POST("/clients", clientHandler.Create)
	admin.PATCH("/clients/:id", clientHandler.Update)

	admin.POST("/projects", projectHandler.Create)
	admin.POST("/projects/:project_id/members", memberHandler.Grant)
	admin.GET("/projects/:project_id/members", memberHandler.List)
	admin.DELETE("/projects/:project_id/members/:account_id", memberHandler.Revoke)

	admin.POST("/candidates", candidateHandler.Create)
	admin.GET("/candidates", candidateHandler.List)
	admin.GET("/candidates/:id", candidateHandler.Get)
	admin.PATCH("/candidates/:id", candidateHandler.Update)
	admin.GET("/candidates/:id/submission", candidateHandler.Submission)
	admin.POST("/candidates/:id/onboarding-link", linkHandler.IssueOnboarding)
	admin.GET("/candidates/:id/links", linkHandler.ListByCandidate)

	admin.GET("/contact-messages", contactHandler.List)
	admin.POST("/contact-messages/:id/handled", contactHandler.MarkHandled)

	return &Server{
		echo: e,
		deps: deps,
	}
}

func (s *Server) Start(address string) error {
	return s.echo.Start(address)
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

func healthCheck(c echo.Context) error {
	return c.JSON(stdhttp.StatusOK, map[string]string{
		jsonKeyStatus: statusOK,
	})
}

package server

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberrecover "github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/dmalone/crossprep/internal/config"
	"github.com/dmalone/crossprep/internal/handlers"
	"github.com/dmalone/crossprep/internal/llm"
	"github.com/dmalone/crossprep/internal/logger"
	"github.com/dmalone/crossprep/internal/middleware"
	"github.com/dmalone/crossprep/internal/models"
	"github.com/dmalone/crossprep/internal/services"
	"github.com/dmalone/crossprep/internal/storage"
)

// App bundles the HTTP surface with the services behind it. Tests assemble
// one over a memory store and a mock model client; the serve command wires
// the real backends.
type App struct {
	Fiber    *fiber.App
	Config   *config.Config
	Store    storage.Store
	Sessions *services.SessionService
	Wizard   *services.Wizard
	Ledger   *services.Ledger
	Limits   *services.LimitEvaluator
	Ingest   *services.Ingest
	Analyzer *services.Analyzer
	Identity *models.Identity
}

// New assembles the application over the given store and model client
func New(cfg *config.Config, store storage.Store, client llm.Client) (*App, error) {
	ledger, err := services.NewLedger(store, cfg.Window())
	if err != nil {
		return nil, fmt.Errorf("failed to open usage ledger: %w", err)
	}
	identity, err := services.LoadOrCreateIdentity(store)
	if err != nil {
		return nil, fmt.Errorf("failed to load identity: %w", err)
	}

	sessions := services.NewSessionService(store)
	wizard := services.NewWizard(sessions)
	limits := services.NewLimitEvaluator(cfg, ledger)
	ingest := services.NewIngest(sessions, ledger, limits)
	analyzer := services.NewAnalyzer(client, ledger, limits, cfg)

	app := &App{
		Fiber: fiber.New(fiber.Config{
			AppName:               "crossprep",
			DisableStartupMessage: true,
			BodyLimit:             int(cfg.MaxFileSize) * (cfg.MaxDocuments + 1),
		}),
		Config:   cfg,
		Store:    store,
		Sessions: sessions,
		Wizard:   wizard,
		Ledger:   ledger,
		Limits:   limits,
		Ingest:   ingest,
		Analyzer: analyzer,
		Identity: identity,
	}
	app.registerRoutes()
	return app, nil
}

func (a *App) registerRoutes() {
	a.Fiber.Use(fiberrecover.New())
	a.Fiber.Use(cors.New())

	auth := middleware.NewAuthMiddleware(a.Config.AuthSecret)
	a.Fiber.Use(auth.RequireAuth)

	sessionsH := handlers.NewSessionsHandler(a.Sessions, a.Wizard)
	documentsH := handlers.NewDocumentsHandler(a.Ingest)
	generationH := handlers.NewGenerationHandler(a.Sessions, a.Wizard, a.Analyzer)
	outlineH := handlers.NewOutlineHandler(a.Sessions)
	wizardH := handlers.NewWizardHandler(a.Sessions, a.Wizard)
	usageH := handlers.NewUsageHandler(a.Ledger, a.Limits, a.Identity)

	a.Fiber.Get("/health", usageH.Health)

	v1 := a.Fiber.Group("/v1")
	v1.Post("/sessions", sessionsH.CreateSession)
	v1.Get("/sessions", sessionsH.ListSessions)
	v1.Get("/sessions/:id", sessionsH.GetSession)
	v1.Delete("/sessions/:id", sessionsH.DeleteSession)

	v1.Post("/sessions/:id/documents", documentsH.UploadDocuments)
	v1.Post("/sessions/:id/questions", generationH.GenerateQuestions)
	v1.Post("/sessions/:id/analysis", generationH.GenerateAnalysis)
	v1.Post("/sessions/:id/outline", outlineH.BuildOutline)
	v1.Get("/sessions/:id/outline/export", outlineH.ExportOutline)

	v1.Get("/sessions/:id/wizard", wizardH.GetState)
	v1.Post("/sessions/:id/wizard/advance", wizardH.Advance)
	v1.Post("/sessions/:id/wizard/back", wizardH.Back)
	v1.Post("/sessions/:id/acknowledge", wizardH.Acknowledge)

	v1.Get("/usage", usageH.GetUsage)
	v1.Get("/identity", usageH.GetIdentity)
}

// Listen serves HTTP on the configured port until Shutdown
func (a *App) Listen() error {
	addr := fmt.Sprintf(":%d", a.Config.Port)
	logger.Infof("crossprep listening on %s", addr)
	return a.Fiber.Listen(addr)
}

// Shutdown stops the HTTP server and closes the store
func (a *App) Shutdown() error {
	if err := a.Fiber.Shutdown(); err != nil {
		return err
	}
	return a.Store.Close()
}

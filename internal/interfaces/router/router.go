package router

import (
	"net/http"

	authsvc "barterzone-backend/internal/application/auth"
	healthsvc "barterzone-backend/internal/application/health"
	itemsvc "barterzone-backend/internal/application/items"
	msgsvc "barterzone-backend/internal/application/messages"
	modsvc "barterzone-backend/internal/application/moderation"
	notifsvc "barterzone-backend/internal/application/notifications"
	ratesvc "barterzone-backend/internal/application/ratings"
	reportsvc "barterzone-backend/internal/application/reports"
	tradesvc "barterzone-backend/internal/application/trades"
	uploadsvc "barterzone-backend/internal/application/uploads"
	usersvc "barterzone-backend/internal/application/users"
	"barterzone-backend/internal/config"
	"barterzone-backend/internal/infrastructure/database"
	adminhandler "barterzone-backend/internal/interfaces/handlers/admin"
	authhandler "barterzone-backend/internal/interfaces/handlers/auth"
	healthhandler "barterzone-backend/internal/interfaces/handlers/health"
	itemhandler "barterzone-backend/internal/interfaces/handlers/items"
	msghandler "barterzone-backend/internal/interfaces/handlers/messages"
	ratehandler "barterzone-backend/internal/interfaces/handlers/ratings"
	reporthandler "barterzone-backend/internal/interfaces/handlers/reports"
	tradehandler "barterzone-backend/internal/interfaces/handlers/trades"
	uploadhandler "barterzone-backend/internal/interfaces/handlers/uploads"
	userhandler "barterzone-backend/internal/interfaces/handlers/users"
	"barterzone-backend/internal/middleware"
	"barterzone-backend/internal/pkg/constants"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type gormDBPinger struct {
	db *gorm.DB
}

func (g *gormDBPinger) Ping() error {
	if g == nil || g.db == nil {
		return nil
	}
	sqlDB, err := g.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}

var _ healthsvc.DBPinger = (*gormDBPinger)(nil)

func CreateApp(cfg *config.Config) (*fiber.App, *gorm.DB, *redis.Client, error) {
	app := fiber.New(fiber.Config{
		DisableStartupMessage:   true,
		ErrorHandler:            middleware.ErrorHandler,
		EnableTrustedProxyCheck: true,
	})

	app.Use(middleware.CORS(middleware.CORSConfig{
		AllowedOrigins: cfg.AllowedOrigins,
		Development:    cfg.Env != "production",
	}))

	sessionCfg := middleware.SessionConfig{
		Secret:            cfg.SessionSecret,
		RedisURL:          cfg.RedisURL,
		AllowCrossSiteDev: cfg.AllowCrossSiteDev,
		IsProduction:      cfg.Env == "production",
	}
	sessionHandler, rdb, err := middleware.Session(sessionCfg)
	if err != nil {
		return nil, nil, nil, err
	}
	app.Use(sessionHandler)
	app.Use(middleware.HealthMarker(rdb))
	app.Use(middleware.ResponseFormatter())
	app.Use(middleware.RequestID())
	app.Use(middleware.RouteLogger())

	hh := &healthhandler.Handlers{
		Redis:    rdb,
		DB:       nil,
		AdminKey: cfg.HealthAdminKey,
	}
	app.Get("/", hh.Root)
	app.Get("/health/json", hh.JSON)
	app.Post("/health/reset", hh.Reset)

	var db *gorm.DB
	if cfg.DatabaseURL != "" {
		var errDB error
		db, errDB = database.Open(cfg.DatabaseURL)
		if errDB != nil {
			return nil, nil, nil, errDB
		}
		hh.DB = &gormDBPinger{db: db}
	}

	if db != nil && rdb != nil {
		mods := &modsvc.Service{DB: db}

		as := &authsvc.Service{DB: db}
		ah := &authhandler.Handlers{Service: as, Rdb: rdb, Config: sessionCfg}
		authGroup := app.Group("/api/v1/auth")
		authGroup.Post("/register", ah.Register)
		authGroup.Post("/login", ah.Login)
		authGroup.Get("/me", middleware.RequireAuth(), ah.Me)
		authGroup.Delete("/logout", ah.Logout)

		us := &usersvc.Service{DB: db}
		uh := &userhandler.Handlers{Service: us}
		ug := app.Group("/api/v1/users", middleware.RequireAuth())
		ug.Get("/profile", uh.GetProfile)
		ug.Put("/profile", uh.UpdateProfile)
		ug.Get("/:user_id", uh.ViewUser)

		is := &itemsvc.Service{DB: db}
		ih := &itemhandler.Handlers{Service: is}
		ig := app.Group("/api/v1/items", middleware.RequireAuth())
		ig.Post("/create-item", ih.CreateItem)
		ig.Put("/edit-item/:item_id", ih.EditItem)
		ig.Delete("/delete-item/:item_id", ih.DeleteItem)
		ig.Get("/my-items", ih.GetMyItems)
		ig.Get("/available", ih.GetAvailableItems)
		ig.Get("/search", ih.SearchItems)
		ig.Get("/:item_id", ih.GetItem)

		var notifier tradesvc.Notifier
		if cfg.BrevoAPIKey != "" {
			notifier = &notifsvc.BrevoNotifier{APIKey: cfg.BrevoAPIKey, MailFrom: cfg.MailFrom, DB: db}
		}
		ts := &tradesvc.Service{DB: db, Notifier: notifier}
		th := &tradehandler.Handlers{Service: ts}
		tg := app.Group("/api/v1/trades", middleware.RequireAuth())
		tg.Post("/propose", th.Propose)
		tg.Get("/requests", th.GetRequests)
		tg.Get("/history", th.GetHistory)
		tg.Post("/:trade_id/respond", th.Respond)
		tg.Get("/:trade_id/events", th.GetEvents)
		tg.Get("/:trade_id/arrangement", th.GetArrangement)
		tg.Put("/:trade_id/arrangement", th.UpdateArrangement)
		tg.Post("/:trade_id/confirm-details", th.ConfirmDetails)
		tg.Post("/:trade_id/confirm-receipt", th.ConfirmReceipt)
		tg.Post("/:trade_id/cancel", th.Cancel)
		tg.Post("/:trade_id/negotiation-messages", th.AddNegotiationMessage)
		tg.Get("/:trade_id/negotiation-messages", th.ListNegotiationMessages)
		tg.Get("/:trade_id", th.GetTrade)

		ms := &msgsvc.Service{DB: db}
		mh := &msghandler.Handlers{Service: ms}
		mg := app.Group("/api/v1/messages", middleware.RequireAuth())
		mg.Post("/send", mh.Send)
		mg.Get("/conversations", mh.Conversations)
		mg.Get("/chat/:partner_id", mh.Chat)

		rs := &ratesvc.Service{DB: db}
		rh := &ratehandler.Handlers{Service: rs}
		rg := app.Group("/api/v1/ratings", middleware.RequireAuth())
		rg.Post("/rate-trade", rh.RateTrade)
		rg.Get("/user/:user_id", rh.UserRatings)

		reps := &reportsvc.Service{DB: db}
		reph := &reporthandler.Handlers{Service: reps}
		repg := app.Group("/api/v1/reports", middleware.RequireAuth())
		repg.Post("/create-report", reph.Create)
		repg.Get("/my-reports", reph.MyReports)

		sc := &uploadsvc.HTTPClient{BaseURL: cfg.StorageURL, SecretKey: cfg.StorageSecretKey}
		upsvc := &uploadsvc.Service{Client: sc, StorageURL: cfg.StorageURL}
		uph := &uploadhandler.Handlers{Service: upsvc}
		upg := app.Group("/api/v1/uploads", middleware.RequireAuth())
		upg.Post("/item-image", uph.SignItemImage)

		// Public feeds, no session required
		pubh := &adminhandler.PublicHandlers{Service: mods}
		app.Get("/api/v1/announcements", pubh.ListAnnouncements)
		app.Get("/api/v1/recommendations", pubh.ListRecommendations)

		admh := &adminhandler.Handlers{Service: mods}
		ag := app.Group("/api/v1/admin", middleware.RequireAuth())
		ag.Get("/users", middleware.AuthorizePermission(constants.ViewAdminPanel), admh.ListUsers)
		ag.Post("/ban-user", middleware.AuthorizePermission(constants.ModerateUsers), admh.BanUser)
		ag.Post("/unban-user", middleware.AuthorizePermission(constants.ModerateUsers), admh.UnbanUser)
		ag.Get("/reports", middleware.AuthorizePermission(constants.ResolveReports), admh.ListReports)
		ag.Patch("/resolve-report", middleware.AuthorizePermission(constants.ResolveReports), admh.ResolveReport)
		ag.Post("/announcements", middleware.AuthorizePermission(constants.ManageAnnouncements), admh.CreateAnnouncement)
		ag.Patch("/announcements/:announcement_id/deactivate", middleware.AuthorizePermission(constants.ManageAnnouncements), admh.DeactivateAnnouncement)
		ag.Post("/recommendations", middleware.AuthorizePermission(constants.ManageRecommendations), admh.CreateRecommendation)
		ag.Patch("/recommendations/:recommendation_id/deactivate", middleware.AuthorizePermission(constants.ManageRecommendations), admh.DeactivateRecommendation)
	}

	return app, db, rdb, nil
}

func Handler(app *fiber.App) http.Handler {
	return adaptor.FiberApp(app)
}

package routes

import (
	"context"
	"log"

	"storefront/config"
	"storefront/controllers"
	"storefront/libs"
	"storefront/middleware"
	"storefront/repositories"
	"storefront/services"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
)

// App holds the wired router and the resources that must be released on
// shutdown.
type App struct {
	Router *gin.Engine
	Pool   *pgxpool.Pool
	Store  libs.Store
}

func (a *App) Close() {
	if a.Store != nil {
		if err := a.Store.Close(); err != nil {
			log.Printf("Failed to close store: %v", err)
		}
	}
	if a.Pool != nil {
		a.Pool.Close()
	}
}

func newUploader(cfg *config.Config) services.ImageUploader {
	cld, err := libs.NewCloudinaryService(libs.CloudinaryOptions{
		URL:       cfg.CloudinaryURL,
		CloudName: cfg.CloudinaryCloudName,
		APIKey:    cfg.CloudinaryAPIKey,
		APISecret: cfg.CloudinaryAPISecret,
	})
	if err != nil {
		log.Printf("Image uploads disabled: %v", err)
		return libs.DisabledUploader{}
	}
	return cld
}

func newMailer(cfg *config.Config) services.Mailer {
	mailer, err := libs.NewEmailService(libs.SMTPOptions{
		Host:        cfg.SMTPHost,
		Port:        cfg.SMTPPort,
		User:        cfg.SMTPUser,
		Pass:        cfg.SMTPPass,
		From:        cfg.SMTPFrom,
		FrontendURL: cfg.FrontendURL,
	})
	if err != nil {
		log.Printf("Email delivery disabled, writing mails to the log: %v", err)
		return libs.LogMailer{}
	}
	return mailer
}

// NewApp connects to the database and the optional services and builds the
// router. The caller owns the returned App and must Close it.
func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
	pool, err := config.ConnectDB(ctx, cfg)
	if err != nil {
		return nil, err
	}

	store := libs.NewStore(ctx, libs.RedisOptions{
		URL:      cfg.RedisURL,
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	})
	uploader := newUploader(cfg)
	mailer := newMailer(cfg)
	origins := cfg.AllowedOrigins()
	feed := libs.NewOrderFeed(origins)

	userRepo := repositories.NewUserRepository(pool)
	categoryRepo := repositories.NewCategoryRepository(pool)
	subCategoryRepo := repositories.NewSubCategoryRepository(pool)
	productRepo := repositories.NewProductRepository(pool)
	cartRepo := repositories.NewCartRepository(pool)
	orderRepo := repositories.NewOrderRepository(pool)

	productService := services.NewProductService(productRepo, categoryRepo, subCategoryRepo, store, cfg.CacheTTL)
	categoryService := services.NewCategoryService(categoryRepo, subCategoryRepo, productService)
	cartService := services.NewCartService(cartRepo, productRepo)
	userService := services.NewUserService(userRepo, userRepo, uploader)
	authService := services.NewAuthService(userRepo, cartService, store, mailer, services.TokenConfig{
		AccessSecret:  cfg.JWTAccessSecret,
		RefreshSecret: cfg.JWTRefreshSecret,
		AccessTTL:     cfg.JWTAccessExpiry,
		RefreshTTL:    cfg.JWTRefreshExpiry,
	})
	orderService := services.NewOrderService(orderRepo, services.StatsSources{
		Users:      userRepo,
		Products:   productRepo,
		Categories: categoryRepo,
	}, mailer, feed)
	uploadService := services.NewUploadService(uploader, cfg.CloudinaryFolder, cfg.MaxUploadSize)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery(), middleware.Logger(), middleware.CORSMiddleware(origins))
	router.MaxMultipartMemory = cfg.MaxUploadSize

	SetupRoutes(router, Controllers{
		Auth: controllers.NewAuthController(authService, controllers.CookieConfig{
			Secure:     cfg.CookieSecure,
			AccessTTL:  cfg.JWTAccessExpiry,
			RefreshTTL: cfg.JWTRefreshExpiry,
		}),
		Profile:  controllers.NewProfileController(userService, cfg.MaxUploadSize),
		User:     controllers.NewUserController(userService),
		Category: controllers.NewCategoryController(categoryService),
		Product:  controllers.NewProductController(productService),
		Cart:     controllers.NewCartController(cartService),
		Order:    controllers.NewOrderController(orderService, feed),
		Upload:   controllers.NewUploadController(uploadService),
	}, cfg.JWTAccessSecret)

	return &App{Router: router, Pool: pool, Store: store}, nil
}

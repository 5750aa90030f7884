package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"storefront/config"
	_ "storefront/docs"
	"storefront/libs"
	"storefront/models"
	"storefront/repositories"
	"storefront/routes"
	"storefront/services"

	"github.com/spf13/cobra"
)

// @title Storefront API
// @version 1.0
// @description Storefront API with catalog, carts, checkout and an admin console.
// @BasePath /api
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	root := &cobra.Command{
		Use:           "storefront",
		Short:         "Storefront API server and maintenance commands",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(serveCmd(), migrateCmd(), createAdminCmd())

	if err := root.Execute(); err != nil {
		log.Fatalf("Error: %v", err)
	}
}

func serveCmd() *cobra.Command {
	var port string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Apply migrations and start the HTTP server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.LoadConfig()
			if port != "" {
				cfg.Port = port
			}
			return runServer(cmd.Context(), cfg)
		},
	}
	cmd.Flags().StringVar(&port, "port", "", "Port to listen on (overrides APP_PORT)")
	return cmd
}

func runServer(ctx context.Context, cfg *config.Config) error {
	if err := config.RunMigrations(cfg.DSN(), true, 0); err != nil {
		return err
	}

	app, err := routes.NewApp(ctx, cfg)
	if err != nil {
		return err
	}
	defer app.Close()

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      app.Router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	idleConnsClosed := make(chan struct{})
	go func() {
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
		<-sig

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Printf("HTTP server Shutdown: %v", err)
		}
		close(idleConnsClosed)
	}()

	log.Printf("Server starting on port %s", cfg.Port)
	log.Printf("Swagger UI: http://localhost:%s/swagger/index.html", cfg.Port)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("listen: %w", err)
	}
	<-idleConnsClosed
	log.Println("Server stopped")
	return nil
}

func migrateCmd() *cobra.Command {
	var steps int
	cmd := &cobra.Command{
		Use:       "migrate up|down",
		Short:     "Apply or roll back the embedded database migrations",
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{"up", "down"},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.LoadConfig()
			return config.RunMigrations(cfg.DSN(), args[0] == "up", steps)
		},
	}
	cmd.Flags().IntVar(&steps, "steps", 0, "Number of migrations to apply (0 = all)")
	return cmd
}

func createAdminCmd() *cobra.Command {
	var req models.CreateUserRequest
	cmd := &cobra.Command{
		Use:   "create-admin",
		Short: "Create an active, verified admin account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(req.Password) < 6 {
				return errors.New("password must be at least 6 characters")
			}
			req.Role = models.RoleAdmin

			cfg := config.LoadConfig()
			pool, err := config.ConnectDB(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer pool.Close()

			userRepo := repositories.NewUserRepository(pool)
			users := services.NewUserService(userRepo, userRepo, libs.DisabledUploader{})
			user, err := users.Create(cmd.Context(), req)
			if err != nil {
				return fmt.Errorf("create admin: %w", err)
			}

			log.Printf("Admin %s created with id %s", user.Email, user.ID)
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&req.Email, "email", "", "Admin email")
	f.StringVar(&req.Name, "name", "Administrator", "Display name")
	f.StringVar(&req.Password, "password", "", "Initial password")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

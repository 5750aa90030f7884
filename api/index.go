package api

import (
	"context"
	"log"
	"net/http"
	"sync"

	"storefront/config"
	"storefront/routes"

	"github.com/gin-gonic/gin"
)

var (
	router http.Handler
	once   sync.Once
)

var unavailable = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusServiceUnavailable)
	_, _ = w.Write([]byte(`{"success":false,"message":"Service unavailable"}`))
})

// startApp applies pending migrations on cold start, then wires the app.
func startApp(cfg *config.Config) (*routes.App, error) {
	if err := config.RunMigrations(cfg.DSN(), true, 0); err != nil {
		return nil, err
	}
	return routes.NewApp(context.Background(), cfg)
}

func initApp() {
	once.Do(func() {
		gin.SetMode(gin.ReleaseMode)

		cfg := config.LoadConfig()
		app, err := startApp(cfg)
		if err != nil {
			log.Printf("Failed to initialize app: %v", err)
			router = unavailable
			return
		}
		router = app.Router
	})
}

// Handler is the serverless entry point. The pool stays open for the life of
// the function instance.
func Handler(w http.ResponseWriter, r *http.Request) {
	initApp()
	router.ServeHTTP(w, r)
}

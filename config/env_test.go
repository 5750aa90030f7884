package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAllowedOrigins(t *testing.T) {
	cfg := &Config{FrontendURL: " https://shop.example.com/ , https://admin.example.com,, "}
	assert.Equal(t, []string{
		"http://localhost:5173",
		"http://localhost:3000",
		"https://shop.example.com",
		"https://admin.example.com",
	}, cfg.AllowedOrigins())

	assert.Equal(t, []string{"http://localhost:5173", "http://localhost:3000"}, (&Config{}).AllowedOrigins())
}

func TestLoadConfigReadsFrontendURL(t *testing.T) {
	t.Setenv("VERCEL", "1")
	t.Setenv("FRONTEND_URL", "https://shop.example.com")
	cfg := LoadConfig()
	assert.True(t, cfg.Serverless)
	assert.Contains(t, cfg.AllowedOrigins(), "https://shop.example.com")
}

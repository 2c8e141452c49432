package app

import (
	"context"
	"fmt"
	"time"

	"Tasker/internal/auth"
	"Tasker/internal/config"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

type App struct {
	cfg    config.Config
	router *gin.Engine
}

func New(cfg config.Config) (*App, error) {
	a := &App{cfg: cfg}

	issuer, err := auth.NewTokenIssuer(cfg.JWT.Key, cfg.JWT.Issuer, cfg.JWT.Audience, cfg.JWT.TokenTTL.Duration())
	if err != nil {
		return nil, err
	}

	verifier, err := newVerifier(cfg.Auth)
	if err != nil {
		return nil, err
	}

	a.router = newRouter(cfg, issuer, verifier)
	return a, nil
}

func (a *App) Router() *gin.Engine {
	return a.router
}

func (a *App) Close(ctx context.Context) error {
	// The store is in-process; nothing to release.
	_ = ctx
	return nil
}

func newVerifier(cfg config.AuthConfig) (auth.Verifier, error) {
	if cfg.Username == "" {
		return nil, fmt.Errorf("auth: AUTH_USERNAME is empty")
	}
	if cfg.PasswordHash != "" {
		return auth.NewStaticVerifierHash(cfg.Username, cfg.PasswordHash), nil
	}
	if cfg.Password == "" {
		return nil, fmt.Errorf("auth: AUTH_PASSWORD or AUTH_PASSWORD_HASH is required")
	}
	v, err := auth.NewStaticVerifier(cfg.Username, cfg.Password)
	if err != nil {
		return nil, fmt.Errorf("auth: hash password: %w", err)
	}
	return v, nil
}

func newRouter(cfg config.Config, issuer *auth.TokenIssuer, verifier auth.Verifier) *gin.Engine {
	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:  []string{"*"},
		AllowMethods:  []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS", "HEAD"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "Authorization", "Cookie"},
		ExposeHeaders: []string{"Content-Length", "Content-Type"},
		MaxAge:        12 * time.Hour,
	}))
	r.Use(securityHeaders())

	Setup(r, cfg, issuer, verifier)
	return r
}

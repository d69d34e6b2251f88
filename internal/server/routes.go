package server

import (
	"github.com/nulzo/app-config-api/internal/server/middleware"
	v1 "github.com/nulzo/app-config-api/internal/server/v1"
)

func (s *Server) SetupRoutes() {
	s.router.Use(middleware.ErrorHandler(s.logger))
	s.router.NoRoute(middleware.NoRoute())
	s.router.NoMethod(middleware.NoMethod())

	// Health Check (Public, never rate limited)
	healthHandler := v1.NewHealthHandler(s.config.Version)
	s.router.GET("/health", healthHandler.Health)

	api := s.router.Group(s.config.Server.BasePath)
	if rl := s.config.RateLimit; rl.Enabled {
		api.Use(middleware.NewRateLimiter(rl.RequestsPerSecond, rl.Burst, s.logger).Middleware())
	}

	configHandler := v1.NewConfigHandler(s.settings)
	configHandler.RegisterRoutes(api)
}

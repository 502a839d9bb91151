package main

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/torchlight-safety/warden/internal/config"
	"github.com/torchlight-safety/warden/internal/db"
	"github.com/torchlight-safety/warden/internal/http/api"
	adminapi "github.com/torchlight-safety/warden/internal/http/api/admin/endpoints"
	authapi "github.com/torchlight-safety/warden/internal/http/api/auth/endpoints"
	portalapi "github.com/torchlight-safety/warden/internal/http/api/portal/endpoints"
	"github.com/torchlight-safety/warden/internal/http/middleware"
	"github.com/torchlight-safety/warden/internal/model"
	"github.com/torchlight-safety/warden/internal/storage"
)

// RegisterRoutes sets up all application routes
func RegisterRoutes(r *gin.Engine, cfg *config.Config, store db.Store, storageSystem storage.Storage) {
	// CORS
	r.Use(cors.New(cors.Config{
		AllowOriginFunc: func(origin string) bool { return true },
		AllowMethods: []string{
			"GET",
			"POST",
			"PUT",
			"PATCH",
			"DELETE",
			"OPTIONS",
			"HEAD",
		},
		AllowHeaders: []string{
			"Origin",
			"Content-Type",
			"Authorization",
			"Accept",
		},
		ExposeHeaders: []string{
			"Content-Length",
		},
		AllowCredentials: false,
	}))

	// public auth endpoints
	api.MountGroup(r, api.GroupConfig{
		Prefix: "/api",
		Auth:   false,
	},
		authapi.AuthPublicModule(cfg.JWTSecret, store),
	)

	// worker portal: any authenticated user
	api.MountGroup(r, api.GroupConfig{
		Prefix:    "/api/portal",
		Auth:      true,
		SecretKey: cfg.JWTSecret,
		Store:     store,
	},
		portalapi.CheckInModule(store),
		portalapi.IncidentModule(store, storageSystem),
		portalapi.ScheduleModule(store),
	)

	// session endpoints that require auth
	api.MountGroup(r, api.GroupConfig{
		Prefix:    "/api",
		Auth:      true,
		SecretKey: cfg.JWTSecret,
		Store:     store,
	},
		authapi.AuthSessionModule(cfg.JWTSecret, store),
	)

	// staff surface: supervisors, clinicians, admins
	api.MountGroup(r, api.GroupConfig{
		Prefix:    "/api/admin",
		Auth:      true,
		SecretKey: cfg.JWTSecret,
		Store:     store,
		Middleware: []gin.HandlerFunc{
			middleware.RequireRole(model.RoleSupervisor, model.RoleClinician, model.RoleAdmin),
		},
	},
		adminapi.ScheduleAdminModule(store),
		adminapi.IncidentAdminModule(store),
		adminapi.CaseModule(store),
		adminapi.AppointmentModule(store),
		adminapi.AnalyticsModule(store),
	)

	// locally stored attachments are served for dashboard preview
	if !cfg.UseSpaces {
		r.Static("/attachments", "./attachments")
	}
}

package main

import (
	"disaster-response/internal/metrics"
	"disaster-response/internal/middleware"
)

func (a *AppContext) setupRoutes() {
	r := a.Router

	// ── Global Middleware (outermost → innermost) ──
	r.Use(middleware.Logger())                 // 1. Request logging
	r.Use(middleware.Recovery())               // 2. Panic recovery
	r.Use(middleware.RateLimit(a.RateLimiter)) // 3. Per-IP rate limiting
	r.Use(middleware.Auth(a.JWTService))       // 4. JWT auth (skips /auth/token, /health, /metrics, /sos/ws)

	// ── Health & metrics (no auth, no rate limit) ──
	r.GET("/health", a.healthCheck)
	r.GET("/metrics", metrics.Handler())

	// ── Auth ──
	authGroup := r.Group("/auth")
	{
		authGroup.POST("/token", a.AuthHandler.GenerateToken)
	}

	// ── Realtime alerts (auth handled by the subscription protocol itself) ──
	r.GET("/sos/ws", a.WSHandler.Serve)

	// ── Read endpoints (any authenticated role) ──
	readGroup := r.Group("")
	readGroup.Use(middleware.RoleGuard("citizen", "responder", "admin"))
	{
		readGroup.GET("/resources", a.ResourceHandler.List)
		readGroup.GET("/resources/nearby", a.ResourceHandler.Nearby)
		readGroup.GET("/resources/:id", a.ResourceHandler.Get)
		readGroup.GET("/resources/:id/location", a.ResourceHandler.GetLocation)

		readGroup.GET("/disasters", a.DisasterHandler.List)
		readGroup.GET("/disasters/stats/summary", a.DisasterHandler.Stats)
		readGroup.GET("/disasters/:id", a.DisasterHandler.Get)

		readGroup.GET("/sos/report/:id", a.SOSHandler.Get)
		readGroup.GET("/sos/reports/active", a.SOSHandler.ListActive)
		readGroup.GET("/sos/reports/nearby", a.SOSHandler.Nearby)
		readGroup.GET("/sos/reports/clustered", a.SOSHandler.Clustered)
		readGroup.GET("/sos/reports/type/:emergency_type", a.SOSHandler.ByType)
		readGroup.GET("/sos/analytics", a.SOSHandler.Analytics)
		readGroup.GET("/sos/nearby-resources/:id", a.SOSHandler.NearbyResources)
		readGroup.GET("/sos/alerts/:id", a.SOSHandler.ListAlerts)

		readGroup.GET("/sos/assistance/offers/:id", a.AssistHandler.ListForSOS)

		readGroup.POST("/ai/safety-instructions", a.AIHandler.SafetyInstructions)
	}

	// ── Citizen Reporting (role: citizen and up) ──
	citizenGroup := r.Group("")
	citizenGroup.Use(middleware.RoleGuard("citizen", "responder", "admin"))
	citizenGroup.Use(middleware.Bulkhead(a.Config.Bulkhead.MutationPool))
	citizenGroup.Use(middleware.Idempotency(a.IdempotencyStore))
	{
		citizenGroup.POST("/sos/report", a.SOSHandler.Create)
		citizenGroup.POST("/sos/assistance/offer", a.AssistHandler.Offer)
	}

	// ── Responder Routes (roles: responder, admin) ──
	responderGroup := r.Group("")
	responderGroup.Use(middleware.RoleGuard("responder", "admin"))
	{
		// Location updates get their own bulkhead pool (high frequency)
		location := responderGroup.Group("")
		location.Use(middleware.Bulkhead(a.Config.Bulkhead.LocationPool))
		{
			location.PUT("/resources/:id/location", a.ResourceHandler.UpdateLocation)
		}

		responderGroup.GET("/dispatch/active", a.DispatchHandler.ListActive)
		responderGroup.GET("/dispatch/:id", a.DispatchHandler.Get)

		mutations := responderGroup.Group("")
		mutations.Use(middleware.Bulkhead(a.Config.Bulkhead.MutationPool))
		mutations.Use(middleware.Idempotency(a.IdempotencyStore))
		{
			mutations.POST("/dispatch/auto", a.DispatchHandler.Auto)
			mutations.PUT("/dispatch/:id/status", a.DispatchHandler.UpdateStatus)

			mutations.PUT("/resources/:id/status", a.ResourceHandler.UpdateStatus)

			mutations.POST("/disasters/validate", a.DisasterHandler.Validate)
			mutations.POST("/disasters/create", a.DisasterHandler.Create)
			mutations.PUT("/disasters/:id/status", a.DisasterHandler.UpdateStatus)

			mutations.PATCH("/sos/report/:id", a.SOSHandler.Update)
			mutations.POST("/sos/report/:id/acknowledge", a.SOSHandler.Acknowledge)
			mutations.POST("/sos/report/:id/resolve", a.SOSHandler.Resolve)
			mutations.POST("/sos/alert/broadcast", a.SOSHandler.BroadcastAlert)
			mutations.POST("/sos/assistance/:id/accept", a.AssistHandler.Accept)
		}

		responderGroup.POST("/ai/explain-disaster", a.AIHandler.ExplainDisaster)
		responderGroup.POST("/ai/prioritize-resources", a.AIHandler.PrioritizeResources)
	}

	// ── Admin Routes (role: admin) ──
	adminGroup := r.Group("/admin")
	adminGroup.Use(middleware.RoleGuard("admin"))
	adminGroup.Use(middleware.Bulkhead(a.Config.Bulkhead.AdminPool))
	{
		adminGroup.POST("/resources", a.ResourceHandler.Create)
	}
}

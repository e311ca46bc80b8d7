package router

import (
	"github.com/cloudwego/hertz/pkg/app/server"

	"TripTogether/internal/handler"
	"TripTogether/internal/middleware"
)

// Register вешает middleware и маршруты на сервер
func Register(h *server.Hertz) {
	h.Use(middleware.RecoverMiddleware())
	h.Use(middleware.CORSMiddleware())
	h.Use(middleware.OpenTelemetryMiddleware())

	v1 := h.Group("/v1")

	// публичные маршруты аутентификации
	auth := v1.Group("/auth")
	auth.Use(middleware.AuthRateLimitMiddleware())
	{
		auth.POST("/register", handler.RegisterUser)
		auth.POST("/login", handler.Login)
		auth.POST("/refresh", handler.RefreshToken)
	}

	me := v1.Group("/auth")
	me.Use(middleware.AuthMiddleware())
	{
		me.GET("/me", handler.Me)
	}

	trips := v1.Group("/trips")
	trips.Use(middleware.AuthMiddleware())
	trips.Use(middleware.GeneralRateLimitMiddleware())
	{
		trips.POST("", handler.CreateTrip)
		trips.GET("", handler.ListTrips)
		trips.POST("/join", handler.JoinTrip)
		trips.GET("/:trip_id", handler.GetTrip)
		trips.PATCH("/:trip_id", handler.UpdateTrip)
		trips.DELETE("/:trip_id", handler.DeleteTrip)
		trips.POST("/:trip_id/leave", handler.LeaveTrip)

		trips.GET("/:trip_id/preferences", handler.ListPreferences)
		trips.POST("/:trip_id/preferences", handler.CreatePreference)
		trips.POST("/:trip_id/preferences/check-duplicate", handler.CheckDuplicatePreference)
		trips.PATCH("/:trip_id/preferences/:preference_id", handler.UpdatePreference)
		trips.DELETE("/:trip_id/preferences/:preference_id", handler.DeletePreference)
		trips.PUT("/:trip_id/preferences/:preference_id/reaction", handler.SetReaction)
		trips.DELETE("/:trip_id/preferences/:preference_id/reaction", handler.RemoveReaction)

		trips.GET("/:trip_id/routes", handler.GetRoutes)
		trips.GET("/:trip_id/routes/:route_id/missing-preferences", handler.GetMissingPreferences)
		trips.GET("/:trip_id/routes/:route_id/why-not-included/:preference_id", handler.ExplainWhyNotIncluded)

		trips.POST("/:trip_id/votes", handler.CastVote)
		trips.DELETE("/:trip_id/votes/:route_id", handler.RetractVote)
		trips.GET("/:trip_id/votes/my", handler.GetMyVotes)
		trips.GET("/:trip_id/voting-results", handler.GetVotingResults)

		trips.GET("/:trip_id/checklist", handler.GetChecklist)
	}

	// генерация ходит в LLM, лимит жёстче общего
	generation := v1.Group("/trips", middleware.AuthMiddleware(), middleware.GenerationRateLimitMiddleware())
	{
		generation.POST("/:trip_id/routes/generate", handler.GenerateRoutes)
		generation.POST("/:trip_id/checklist/generate", handler.GenerateChecklist)
	}

	suggestions := v1.Group("/suggestions", middleware.AuthMiddleware(), middleware.SuggestionsRateLimitMiddleware())
	{
		suggestions.POST("/places", handler.SuggestPlaces)
	}
}

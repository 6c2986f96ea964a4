package api

import (
	"github.com/gorilla/mux"

	"github.com/garnizeh/missiondeck/internal/config"
	"github.com/garnizeh/missiondeck/internal/mission"
	"github.com/garnizeh/missiondeck/pkg/repository"
)

func SetupRoutes(cfg *config.Config, version, buildTime string, users repository.UserRepo, svc *mission.Service) *mux.Router {
	r := mux.NewRouter()

	// Middleware chain
	r.Use(LoggingMiddleware)
	r.Use(CORSMiddleware)
	r.Use(RecoveryMiddleware)

	// Create handlers
	systemHandler := &SystemHandler{}
	authHandler := NewAuthHandler(users, cfg.JWTSecret, cfg.TokenDuration)
	missionsHandler := NewMissionsHandler(svc)
	eventsHandler := NewEventsHandler(svc, cfg.Events.TickInterval)

	// Open endpoints
	r.HandleFunc("/version", systemHandler.VersionHandler(version, buildTime)).Methods("GET")
	r.HandleFunc("/health", systemHandler.HealthHandler).Methods("GET")
	r.HandleFunc("/v1/auth/signup", authHandler.Signup).Methods("POST")
	r.HandleFunc("/v1/auth/signin", authHandler.Signin).Methods("POST")

	// API v1 Protected routes
	apiV1 := r.PathPrefix("/v1").Subrouter()
	apiV1.Use(JWTAuthMiddlewareWithSecret(cfg.JWTSecret))

	// Auth endpoints
	authV1 := apiV1.PathPrefix("/auth").Subrouter()
	authV1.HandleFunc("/signout", authHandler.Signout).Methods("POST")

	// Mission endpoints; summary is registered before {id} so it is not
	// captured as an id.
	missions := apiV1.PathPrefix("/missions").Subrouter()
	missions.HandleFunc("", missionsHandler.CreateMission).Methods("POST")
	missions.HandleFunc("", missionsHandler.ListMissions).Methods("GET")
	missions.HandleFunc("/summary", missionsHandler.Summary).Methods("GET")
	missions.HandleFunc("/{id}", missionsHandler.GetMission).Methods("GET")
	missions.HandleFunc("/{id}", missionsHandler.DeleteMission).Methods("DELETE")
	missions.HandleFunc("/{id}/toggle", missionsHandler.ToggleStatus).Methods("POST")
	missions.HandleFunc("/{id}/timer/start", missionsHandler.StartTimer).Methods("POST")
	missions.HandleFunc("/{id}/timer/stop", missionsHandler.StopTimer).Methods("POST")
	missions.HandleFunc("/{id}/errors", missionsHandler.ListErrorLogs).Methods("GET")
	missions.HandleFunc("/{id}/errors", missionsHandler.AddErrorLog).Methods("POST")
	missions.HandleFunc("/{id}/events", eventsHandler.Stream).Methods("GET")

	return r
}

package main

import (
	"context"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"

	"achievify/config"
	"achievify/db"
	"achievify/handlers"
	appmw "achievify/middleware"
	"achievify/store"
	"achievify/token"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, reading configuration from environment")
	}

	cfg := config.Load()
	if cfg.JWTSecret == "" {
		log.Fatal("JWT_SECRET is required")
	}

	database, err := db.Connect(context.Background(), cfg.MongoURI, cfg.DBName)
	if err != nil {
		log.Fatal("DB connection error: ", err)
	}
	log.Println("Connected to MongoDB")

	users := store.NewMongoUserStore(database)
	goals := store.NewMongoGoalStore(database)
	tokens := token.NewService([]byte(cfg.JWTSecret))

	r := newRouter(
		handlers.NewAuthHandler(users, tokens),
		handlers.NewGoalHandler(goals),
		appmw.NewAuth(tokens, users),
	)

	log.Println("Server running on", cfg.Addr)
	if err := http.ListenAndServe(cfg.Addr, r); err != nil {
		log.Fatal(err)
	}
}

func newRouter(auth *handlers.AuthHandler, goals *handlers.GoalHandler, gate *appmw.Auth) chi.Router {
	r := chi.NewRouter()

	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)

	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Access-Control-Allow-Origin", "*")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
			if r.Method == "OPTIONS" {
				w.WriteHeader(http.StatusOK)
				return
			}
			next.ServeHTTP(w, r)
		})
	})

	r.Post("/signup", auth.Signup)
	r.Post("/login", auth.Login)

	r.Group(func(r chi.Router) {
		r.Use(gate.RequireAuth)
		r.Get("/goals", goals.List)
		r.Post("/goals", goals.Create)
		r.Put("/goals/{id}", goals.Update)
		r.Delete("/goals/{id}", goals.Delete)
	})

	return r
}

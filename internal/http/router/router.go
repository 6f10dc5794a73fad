package router

import (
	"net/http"

	"github.com/gorilla/mux"

	"todo-app/internal/account"
	"todo-app/internal/config"
	"todo-app/internal/db"
	"todo-app/internal/http/handlers"
	"todo-app/internal/http/middleware"
	"todo-app/internal/security"
	"todo-app/internal/todo"
)

func Setup(database *db.DB, sessions *security.SessionManager, cookies *security.CookieCodec, cfg *config.Config) http.Handler {
	r := mux.NewRouter()

	// Initialize services
	accounts := account.NewService(database, security.NewHasher(cfg.BcryptCost))
	todos := todo.NewService(database)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(accounts, sessions, cookies)
	listHandler := handlers.NewListHandler(todos)
	itemHandler := handlers.NewItemHandler(todos)

	r.HandleFunc("/health", handlers.Health).Methods("GET")
	r.HandleFunc("/register", authHandler.Register).Methods("POST")
	r.HandleFunc("/login", authHandler.Login).Methods("POST")
	r.HandleFunc("/logout", authHandler.Logout).Methods("POST")

	// Everything below requires a live session
	protected := r.NewRoute().Subrouter()
	protected.Use(middleware.RequireSession(cookies, sessions))

	protected.HandleFunc("/me", authHandler.Me).Methods("GET")

	protected.HandleFunc("/get-list", listHandler.GetLists).Methods("GET")
	protected.HandleFunc("/add-list", listHandler.AddList).Methods("POST")
	protected.HandleFunc("/edit-list/{id}", listHandler.EditList).Methods("PUT")
	protected.HandleFunc("/delete-list/{id}", listHandler.DeleteList).Methods("DELETE")

	protected.HandleFunc("/get-items/{id}", itemHandler.GetItems).Methods("GET")
	protected.HandleFunc("/add-item", itemHandler.AddItem).Methods("POST")
	protected.HandleFunc("/edit-item/{id}", itemHandler.EditItem).Methods("PUT")
	protected.HandleFunc("/delete-item/{id}", itemHandler.DeleteItem).Methods("DELETE")

	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		middleware.ErrorResponse(w, http.StatusNotFound, "Not found")
	})
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		middleware.ErrorResponse(w, http.StatusMethodNotAllowed, "Method not allowed")
	})

	var h http.Handler = r
	h = middleware.Recover(h)
	h = middleware.CORS(cfg.CORSOrigins)(h)
	h = middleware.WithLogging(h)
	return h
}

package main

import (
	"net/http"
)

func composeRoutes(app *application) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthcheck", app.healthCheckHandler)

	// registration and login stay open; everything else needs a token
	mux.HandleFunc("POST /usuarios", app.createUserHandler)
	mux.HandleFunc("POST /usuarios/login", app.loginUserHandler)
	mux.HandleFunc("GET /usuarios", app.requireAuth(app.listUsersHandler))
	mux.HandleFunc("GET /usuarios/{id}", app.requireAuth(app.getUserHandler))
	mux.HandleFunc("PUT /usuarios/{id}", app.requireAuth(app.updateUserHandler))
	mux.HandleFunc("DELETE /usuarios/{id}", app.requireAuth(app.deleteUserHandler))

	mux.HandleFunc("GET /tarefas", app.requireAuth(app.listTasksHandler))
	mux.HandleFunc("POST /tarefas", app.requireAuth(app.createTaskHandler))
	mux.HandleFunc("GET /tarefas/{id}", app.requireAuth(app.getTaskHandler))
	mux.HandleFunc("PUT /tarefas/{id}", app.requireAuth(app.updateTaskHandler))
	mux.HandleFunc("DELETE /tarefas/{id}", app.requireAuth(app.deleteTaskHandler))
	mux.HandleFunc("PUT /tarefas/{id}/concluido", app.requireAuth(app.completeTaskHandler))
	mux.HandleFunc("DELETE /tarefas/{id}/concluido", app.requireAuth(app.uncompleteTaskHandler))

	return app.enableCORS(mux)
}

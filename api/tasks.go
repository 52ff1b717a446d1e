package main

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
)

func (app *application) listTasksHandler(w http.ResponseWriter, r *http.Request) {
	f := taskFilter{
		ownerID: callerID(r),
		title:   r.URL.Query().Get("titulo"),
	}
	if v := r.URL.Query().Get("concluido"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			writeError(w, errors.New("concluido deve ser true ou false"), http.StatusBadRequest)
			return
		}
		f.completed = &b
	}
	tasks, err := app.storage.listTasks(f)
	if err != nil {
		log.Println(err)
		writeError(w, errServerError, http.StatusInternalServerError)
		return
	}
	if tasks == nil {
		tasks = []*task{}
	}
	writeJSON(w, http.StatusOK, tasks)
}

func (app *application) createTaskHandler(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Title       string `json:"titulo"`
		Description string `json:"descricao"`
		IsCompleted bool   `json:"concluido"`
	}
	err := json.NewDecoder(r.Body).Decode(&input)
	if err != nil {
		writeError(w, err, http.StatusBadRequest)
		return
	}
	v := newValidator()
	v.checkTaskTitle(input.Title)
	v.checkTaskDescription(input.Description)
	if v.hasErrors() {
		writeError(w, v.toError(), http.StatusUnprocessableEntity)
		return
	}
	t := &task{
		Title:       input.Title,
		Description: input.Description,
		IsCompleted: input.IsCompleted,
		UserID:      callerID(r),
	}
	err = app.storage.insertTask(t)
	switch {
	case errors.Is(err, errDuplicateTitle):
		writeError(w, errors.New("tarefa já cadastrada com esse titulo"), http.StatusUnprocessableEntity)
		return
	case err != nil:
		log.Println(err)
		writeError(w, errServerError, http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusCreated, t)
}

func (app *application) getTaskHandler(w http.ResponseWriter, r *http.Request) {
	t, ok := app.findOwnedTask(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, t)
}

func (app *application) updateTaskHandler(w http.ResponseWriter, r *http.Request) {
	t, ok := app.findOwnedTask(w, r)
	if !ok {
		return
	}
	// full overwrite: absent fields become their zero values, there are no
	// partial-update semantics
	var input struct {
		Title       string `json:"titulo"`
		Description string `json:"descricao"`
		IsCompleted bool   `json:"concluido"`
	}
	err := json.NewDecoder(r.Body).Decode(&input)
	if err != nil {
		writeError(w, err, http.StatusBadRequest)
		return
	}
	v := newValidator()
	v.checkTaskTitle(input.Title)
	v.checkTaskDescription(input.Description)
	if v.hasErrors() {
		writeError(w, v.toError(), http.StatusUnprocessableEntity)
		return
	}
	t.Title = input.Title
	t.Description = input.Description
	t.IsCompleted = input.IsCompleted
	app.writeUpdatedTask(w, t)
}

func (app *application) completeTaskHandler(w http.ResponseWriter, r *http.Request) {
	app.toggleTaskHandler(w, r, true)
}

func (app *application) uncompleteTaskHandler(w http.ResponseWriter, r *http.Request) {
	app.toggleTaskHandler(w, r, false)
}

func (app *application) toggleTaskHandler(w http.ResponseWriter, r *http.Request, completed bool) {
	t, ok := app.findOwnedTask(w, r)
	if !ok {
		return
	}
	// the request body is ignored
	t.IsCompleted = completed
	app.writeUpdatedTask(w, t)
}

func (app *application) deleteTaskHandler(w http.ResponseWriter, r *http.Request) {
	t, ok := app.findOwnedTask(w, r)
	if !ok {
		return
	}
	deleted, err := app.storage.deleteTask(t.ID)
	if err != nil {
		log.Println(err)
		writeError(w, errServerError, http.StatusInternalServerError)
		return
	}
	// zero rows affected means the task vanished between lookup and delete,
	// a normal race outcome
	if !deleted {
		writeError(w, errors.New("tarefa não existe"), http.StatusNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// findOwnedTask applies the ownership protocol shared by the single-task
// routes. A task owned by someone else reports the same 404 as a missing one
// so existence is not revealed to non-owners.
func (app *application) findOwnedTask(w http.ResponseWriter, r *http.Request) (*task, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeError(w, errors.New("id inválido"), http.StatusBadRequest)
		return nil, false
	}
	t, err := app.storage.getTaskByID(id)
	if err != nil {
		log.Println(err)
		writeError(w, errServerError, http.StatusInternalServerError)
		return nil, false
	}
	if t == nil {
		writeError(w, errors.New("tarefa não existe"), http.StatusNotFound)
		return nil, false
	}
	if t.UserID != callerID(r) {
		writeError(w, errors.New("tarefa não cadastrada para esse usuario"), http.StatusNotFound)
		return nil, false
	}
	return t, true
}

func (app *application) writeUpdatedTask(w http.ResponseWriter, t *task) {
	updated, err := app.storage.updateTask(t)
	switch {
	case errors.Is(err, errDuplicateTitle):
		writeError(w, errors.New("tarefa já cadastrada com esse titulo"), http.StatusUnprocessableEntity)
		return
	case err != nil:
		log.Println(err)
		writeError(w, errServerError, http.StatusInternalServerError)
		return
	}
	if !updated {
		writeError(w, errors.New("tarefa não existe"), http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

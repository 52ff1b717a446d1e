package main

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"golang.org/x/crypto/bcrypt"
)

// bcryptCost matches the cost of the hashes already stored in the database.
const bcryptCost = 10

func (app *application) createUserHandler(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Name      string   `json:"nome"`
		Birthdate dateOnly `json:"nascimento"`
		Email     string   `json:"email"`
		Password  string   `json:"senha"`
	}
	err := json.NewDecoder(r.Body).Decode(&input)
	if err != nil {
		writeError(w, err, http.StatusBadRequest)
		return
	}
	v := newValidator()
	v.checkName(input.Name)
	v.checkEmail(input.Email)
	v.checkPassword(input.Password)
	if v.hasErrors() {
		writeError(w, v.toError(), http.StatusUnprocessableEntity)
		return
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcryptCost)
	if err != nil {
		log.Println(err)
		writeError(w, errServerError, http.StatusInternalServerError)
		return
	}
	u := &user{
		Name:         input.Name,
		Birthdate:    input.Birthdate,
		Email:        input.Email,
		PasswordHash: string(hash),
	}
	err = app.storage.insertUser(u)
	switch {
	case errors.Is(err, errDuplicateEmail):
		writeError(w, errors.New("o email informado já existe no banco de dados"), http.StatusUnprocessableEntity)
		return
	case err != nil:
		log.Println(err)
		writeError(w, errServerError, http.StatusInternalServerError)
		return
	}
	if app.mailer != nil {
		go func(u user) {
			if err := app.mailer.sendWelcome(u.Email, u.Name); err != nil {
				log.Println(err)
			}
		}(*u)
	}
	writeJSON(w, http.StatusCreated, u)
}

func (app *application) loginUserHandler(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Email    string `json:"email"`
		Password string `json:"senha"`
	}
	err := json.NewDecoder(r.Body).Decode(&input)
	if err != nil {
		writeError(w, err, http.StatusBadRequest)
		return
	}
	u, err := app.storage.getUserByEmail(input.Email)
	if err != nil {
		log.Println(err)
		writeError(w, errServerError, http.StatusInternalServerError)
		return
	}
	// unknown email and wrong password are indistinguishable to the caller
	if u == nil {
		writeError(w, errors.New("credenciais inválidas"), http.StatusUnauthorized)
		return
	}
	err = bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(input.Password))
	if err != nil {
		writeError(w, errors.New("credenciais inválidas"), http.StatusUnauthorized)
		return
	}
	token, err := app.issueToken(u.ID)
	if err != nil {
		log.Println(err)
		writeError(w, errServerError, http.StatusInternalServerError)
		return
	}
	response := struct {
		User  *user  `json:"usuario"`
		Token string `json:"token"`
	}{
		User:  u,
		Token: token,
	}
	writeJSON(w, http.StatusOK, response)
}

func (app *application) listUsersHandler(w http.ResponseWriter, r *http.Request) {
	f := userFilter{
		name:  r.URL.Query().Get("nome"),
		email: r.URL.Query().Get("email"),
	}
	users, err := app.storage.listUsers(f)
	if err != nil {
		log.Println(err)
		writeError(w, errServerError, http.StatusInternalServerError)
		return
	}
	if users == nil {
		users = []*user{}
	}
	writeJSON(w, http.StatusOK, users)
}

func (app *application) getUserHandler(w http.ResponseWriter, r *http.Request) {
	u, ok := app.findUser(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, u)
}

func (app *application) updateUserHandler(w http.ResponseWriter, r *http.Request) {
	u, ok := app.findUser(w, r)
	if !ok {
		return
	}
	// full overwrite, like the task update; the password is always re-hashed
	// before storage
	var input struct {
		Name      string   `json:"nome"`
		Birthdate dateOnly `json:"nascimento"`
		Email     string   `json:"email"`
		Password  string   `json:"senha"`
	}
	err := json.NewDecoder(r.Body).Decode(&input)
	if err != nil {
		writeError(w, err, http.StatusBadRequest)
		return
	}
	v := newValidator()
	v.checkName(input.Name)
	v.checkEmail(input.Email)
	v.checkPassword(input.Password)
	if v.hasErrors() {
		writeError(w, v.toError(), http.StatusUnprocessableEntity)
		return
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcryptCost)
	if err != nil {
		log.Println(err)
		writeError(w, errServerError, http.StatusInternalServerError)
		return
	}
	u.Name = input.Name
	u.Birthdate = input.Birthdate
	u.Email = input.Email
	u.PasswordHash = string(hash)
	updated, err := app.storage.updateUser(u)
	switch {
	case errors.Is(err, errDuplicateEmail):
		writeError(w, errors.New("o email informado já existe no banco de dados"), http.StatusUnprocessableEntity)
		return
	case err != nil:
		log.Println(err)
		writeError(w, errServerError, http.StatusInternalServerError)
		return
	}
	if !updated {
		writeError(w, errors.New("usuario não existe"), http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, u)
}

func (app *application) deleteUserHandler(w http.ResponseWriter, r *http.Request) {
	u, ok := app.findUser(w, r)
	if !ok {
		return
	}
	// owned tasks go with the user via ON DELETE CASCADE
	deleted, err := app.storage.deleteUser(u.ID)
	if err != nil {
		log.Println(err)
		writeError(w, errServerError, http.StatusInternalServerError)
		return
	}
	if !deleted {
		writeError(w, errors.New("usuario não existe"), http.StatusNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (app *application) findUser(w http.ResponseWriter, r *http.Request) (*user, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeError(w, errors.New("id inválido"), http.StatusBadRequest)
		return nil, false
	}
	u, err := app.storage.getUserByID(id)
	if err != nil {
		log.Println(err)
		writeError(w, errServerError, http.StatusInternalServerError)
		return nil, false
	}
	if u == nil {
		writeError(w, errors.New("usuario não existe"), http.StatusNotFound)
		return nil, false
	}
	return u, true
}

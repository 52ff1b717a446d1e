package main

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"testing"
)

// stubStore implements store in memory for handler tests, mirroring the
// constraints the postgres schema enforces (unique email, globally unique
// titulo, delete cascade).
type stubStore struct {
	users  map[int64]*user
	tasks  map[int64]*task
	nextID int64
}

func newStubStore() *stubStore {
	return &stubStore{
		users: make(map[int64]*user),
		tasks: make(map[int64]*task),
	}
}

func (s *stubStore) insertUser(u *user) error {
	for _, other := range s.users {
		if other.Email == u.Email {
			return errDuplicateEmail
		}
	}
	s.nextID++
	u.ID = s.nextID
	cp := *u
	s.users[u.ID] = &cp
	return nil
}

func (s *stubStore) getUserByID(id int64) (*user, error) {
	u, ok := s.users[id]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (s *stubStore) getUserByEmail(email string) (*user, error) {
	for _, u := range s.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (s *stubStore) listUsers(f userFilter) ([]*user, error) {
	var users []*user
	for _, u := range s.users {
		if f.name != "" && !strings.Contains(u.Name, f.name) {
			continue
		}
		if f.email != "" && u.Email != f.email {
			continue
		}
		cp := *u
		users = append(users, &cp)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })
	return users, nil
}

func (s *stubStore) updateUser(u *user) (bool, error) {
	if _, ok := s.users[u.ID]; !ok {
		return false, nil
	}
	for _, other := range s.users {
		if other.ID != u.ID && other.Email == u.Email {
			return false, errDuplicateEmail
		}
	}
	cp := *u
	s.users[u.ID] = &cp
	return true, nil
}

func (s *stubStore) deleteUser(id int64) (bool, error) {
	if _, ok := s.users[id]; !ok {
		return false, nil
	}
	delete(s.users, id)
	for taskID, t := range s.tasks {
		if t.UserID == id {
			delete(s.tasks, taskID)
		}
	}
	return true, nil
}

func (s *stubStore) insertTask(t *task) error {
	for _, other := range s.tasks {
		if other.Title == t.Title {
			return errDuplicateTitle
		}
	}
	s.nextID++
	t.ID = s.nextID
	cp := *t
	s.tasks[t.ID] = &cp
	return nil
}

func (s *stubStore) getTaskByID(id int64) (*task, error) {
	t, ok := s.tasks[id]
	if !ok {
		return nil, nil
	}
	cp := *t
	return &cp, nil
}

func (s *stubStore) listTasks(f taskFilter) ([]*task, error) {
	var tasks []*task
	for _, t := range s.tasks {
		if t.UserID != f.ownerID {
			continue
		}
		if f.title != "" && !strings.Contains(t.Title, f.title) {
			continue
		}
		if f.completed != nil && t.IsCompleted != *f.completed {
			continue
		}
		cp := *t
		tasks = append(tasks, &cp)
	}
	sort.Slice(tasks, func(i, j int) bool { return tasks[i].ID < tasks[j].ID })
	return tasks, nil
}

func (s *stubStore) updateTask(t *task) (bool, error) {
	if _, ok := s.tasks[t.ID]; !ok {
		return false, nil
	}
	for _, other := range s.tasks {
		if other.ID != t.ID && other.Title == t.Title {
			return false, errDuplicateTitle
		}
	}
	cp := *t
	s.tasks[t.ID] = &cp
	return true, nil
}

func (s *stubStore) deleteTask(id int64) (bool, error) {
	if _, ok := s.tasks[id]; !ok {
		return false, nil
	}
	delete(s.tasks, id)
	return true, nil
}

func newTestApplication(t *testing.T) (*application, *stubStore) {
	t.Helper()
	s := newStubStore()
	var cfg config
	cfg.env = "test"
	cfg.secret = "test-secret"
	return &application{config: cfg, storage: s}, s
}

func doRequest(t *testing.T, h http.Handler, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal request body: %v", err)
		}
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, reader)
	if token != "" {
		req.Header.Set("Authorization", token)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, dst any) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), dst); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
}

// registerAndLogin drives the public registration and login routes and
// returns the issued token together with the new user's id.
func registerAndLogin(t *testing.T, h http.Handler, name, email string) (string, int64) {
	t.Helper()
	rec := doRequest(t, h, http.MethodPost, "/usuarios", "", map[string]any{
		"nome":  name,
		"email": email,
		"senha": "segredo123",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("register %s: got status %d, want 201: %s", email, rec.Code, rec.Body)
	}
	var created user
	decodeBody(t, rec, &created)

	rec = doRequest(t, h, http.MethodPost, "/usuarios/login", "", map[string]any{
		"email": email,
		"senha": "segredo123",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("login %s: got status %d, want 200: %s", email, rec.Code, rec.Body)
	}
	var out struct {
		Token string `json:"token"`
	}
	decodeBody(t, rec, &out)
	if out.Token == "" {
		t.Fatalf("login %s: empty token", email)
	}
	return out.Token, created.ID
}

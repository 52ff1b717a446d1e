package main

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/lib/pq"
)

var (
	errDuplicateEmail = errors.New("duplicate email")
	errDuplicateTitle = errors.New("duplicate title")
)

// userFilter narrows listUsers: name is a case-sensitive substring match,
// email an exact match. Empty values mean "no filter".
type userFilter struct {
	name  string
	email string
}

// taskFilter narrows listTasks. ownerID is always set by the handlers so a
// caller only ever sees their own tasks. completed is tri-state: nil means
// "no filter", so filtering for incomplete tasks is expressible.
type taskFilter struct {
	ownerID   int64
	title     string
	completed *bool
}

type store interface {
	insertUser(u *user) error
	getUserByID(id int64) (*user, error)
	getUserByEmail(email string) (*user, error)
	listUsers(f userFilter) ([]*user, error)
	updateUser(u *user) (bool, error)
	deleteUser(id int64) (bool, error)

	insertTask(t *task) error
	getTaskByID(id int64) (*task, error)
	listTasks(f taskFilter) ([]*task, error)
	updateTask(t *task) (bool, error)
	deleteTask(id int64) (bool, error)
}

func openDB(cfg config) (*sql.DB, error) {
	db, err := sql.Open("postgres", cfg.db.dsn)
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(cfg.db.maxOpenConnections)
	db.SetMaxIdleConns(cfg.db.maxIdleConnections)
	db.SetConnMaxIdleTime(cfg.db.maxIdleTime)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	err = db.PingContext(ctx)
	if err != nil {
		return nil, err
	}

	return db, nil
}

// ensureSchema creates missing tables on startup. There is no migration
// tooling.
func ensureSchema(db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS usuarios (
			id bigserial PRIMARY KEY,
			nome varchar(200) NOT NULL,
			nascimento date,
			email varchar(200) NOT NULL,
			senha varchar(200) NOT NULL,
			CONSTRAINT usuarios_email_key UNIQUE (email)
		)`,
		`CREATE TABLE IF NOT EXISTS tarefas (
			id bigserial PRIMARY KEY,
			titulo varchar(100) NOT NULL,
			descricao varchar(500) NOT NULL,
			concluido boolean NOT NULL DEFAULT false,
			usuario_id bigint NOT NULL REFERENCES usuarios (id) ON DELETE CASCADE,
			CONSTRAINT tarefas_titulo_key UNIQUE (titulo)
		)`,
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	for _, stmt := range stmts {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

type storage struct {
	db *sql.DB
}

func newStorage(db *sql.DB) *storage {
	return &storage{db: db}
}

// translateUniqueViolation maps postgres unique-constraint rejections onto
// the sentinel errors the handlers report as 422.
func translateUniqueViolation(err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23505" {
		switch pqErr.Constraint {
		case "usuarios_email_key":
			return errDuplicateEmail
		case "tarefas_titulo_key":
			return errDuplicateTitle
		}
	}
	return err
}

func (s *storage) insertUser(u *user) error {
	query := `INSERT INTO usuarios (nome, nascimento, email, senha)
			  VALUES ($1, $2, $3, $4)
			  RETURNING id`
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	row := s.db.QueryRowContext(ctx, query, u.Name, u.Birthdate, u.Email, u.PasswordHash)
	if err := row.Scan(&u.ID); err != nil {
		return translateUniqueViolation(err)
	}
	return nil
}

func (s *storage) getUserByID(id int64) (*user, error) {
	query := `SELECT id, nome, nascimento, email, senha
			  FROM usuarios
			  WHERE id = $1`
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	row := s.db.QueryRowContext(ctx, query, id)
	var u user
	err := row.Scan(&u.ID, &u.Name, &u.Birthdate, &u.Email, &u.PasswordHash)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, nil
		default:
			return nil, err
		}
	}
	return &u, nil
}

func (s *storage) getUserByEmail(email string) (*user, error) {
	query := `SELECT id, nome, nascimento, email, senha
			  FROM usuarios
			  WHERE email = $1`
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	row := s.db.QueryRowContext(ctx, query, email)
	var u user
	err := row.Scan(&u.ID, &u.Name, &u.Birthdate, &u.Email, &u.PasswordHash)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, nil
		default:
			return nil, err
		}
	}
	return &u, nil
}

func (s *storage) listUsers(f userFilter) ([]*user, error) {
	query := `SELECT id, nome, nascimento, email, senha
			  FROM usuarios
			  WHERE ($1 = '' OR nome LIKE '%' || $1 || '%')
			    AND ($2 = '' OR email = $2)
			  ORDER BY id`
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	rows, err := s.db.QueryContext(ctx, query, f.name, f.email)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var users []*user
	for rows.Next() {
		var u user
		err := rows.Scan(&u.ID, &u.Name, &u.Birthdate, &u.Email, &u.PasswordHash)
		if err != nil {
			return nil, err
		}
		users = append(users, &u)
	}
	return users, rows.Err()
}

func (s *storage) updateUser(u *user) (bool, error) {
	query := `UPDATE usuarios SET nome = $1, nascimento = $2, email = $3, senha = $4
			  WHERE id = $5`
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	res, err := s.db.ExecContext(ctx, query, u.Name, u.Birthdate, u.Email, u.PasswordHash, u.ID)
	if err != nil {
		return false, translateUniqueViolation(err)
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

func (s *storage) deleteUser(id int64) (bool, error) {
	query := `DELETE FROM usuarios
			  WHERE id = $1`
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	res, err := s.db.ExecContext(ctx, query, id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

func (s *storage) insertTask(t *task) error {
	query := `INSERT INTO tarefas (titulo, descricao, concluido, usuario_id)
			  VALUES ($1, $2, $3, $4)
			  RETURNING id`
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	row := s.db.QueryRowContext(ctx, query, t.Title, t.Description, t.IsCompleted, t.UserID)
	if err := row.Scan(&t.ID); err != nil {
		return translateUniqueViolation(err)
	}
	return nil
}

func (s *storage) getTaskByID(id int64) (*task, error) {
	query := `SELECT id, titulo, descricao, concluido, usuario_id
			  FROM tarefas
			  WHERE id = $1`
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	row := s.db.QueryRowContext(ctx, query, id)
	var t task
	err := row.Scan(&t.ID, &t.Title, &t.Description, &t.IsCompleted, &t.UserID)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, nil
		default:
			return nil, err
		}
	}
	return &t, nil
}

func (s *storage) listTasks(f taskFilter) ([]*task, error) {
	// LIKE without ILIKE keeps the titulo match case-sensitive
	query := `SELECT id, titulo, descricao, concluido, usuario_id
			  FROM tarefas
			  WHERE usuario_id = $1
			    AND ($2 = '' OR titulo LIKE '%' || $2 || '%')
			    AND ($3::boolean IS NULL OR concluido = $3::boolean)
			  ORDER BY id`
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	rows, err := s.db.QueryContext(ctx, query, f.ownerID, f.title, f.completed)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var tasks []*task
	for rows.Next() {
		var t task
		err := rows.Scan(&t.ID, &t.Title, &t.Description, &t.IsCompleted, &t.UserID)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, &t)
	}
	return tasks, rows.Err()
}

func (s *storage) updateTask(t *task) (bool, error) {
	query := `UPDATE tarefas SET titulo = $1, descricao = $2, concluido = $3
			  WHERE id = $4`
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	res, err := s.db.ExecContext(ctx, query, t.Title, t.Description, t.IsCompleted, t.ID)
	if err != nil {
		return false, translateUniqueViolation(err)
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

func (s *storage) deleteTask(id int64) (bool, error) {
	query := `DELETE FROM tarefas
			  WHERE id = $1`
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	res, err := s.db.ExecContext(ctx, query, id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

package sqlite

import (
	"context"
	"database/sql"

	"github.com/pkg/errors"

	"questionnaire-app/internal/domain/responses"
)

const schema = `
	CREATE TABLE IF NOT EXISTS questionnaire_responses (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT,
		age INT,
		gender TEXT,
		pet_preference TEXT
	)`

type ResponsesRepo struct {
	db *sql.DB
}

func NewResponsesRepo(db *sql.DB) *ResponsesRepo {
	return &ResponsesRepo{db: db}
}

func (r *ResponsesRepo) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, schema); err != nil {
		return responses.Unavailable(errors.Wrap(err, "create questionnaire_responses"))
	}
	return nil
}

func (r *ResponsesRepo) Insert(ctx context.Context, in responses.Response) (responses.Response, error) {
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO questionnaire_responses (name, age, gender, pet_preference)
		VALUES (?, ?, ?, ?)
	`, in.Name, in.Age, string(in.Gender), string(in.PetPreference))
	if err != nil {
		return responses.Response{}, responses.Unavailable(errors.Wrap(err, "insert response"))
	}

	id, err := res.LastInsertId()
	if err != nil {
		return responses.Response{}, responses.Unavailable(errors.Wrap(err, "read inserted id"))
	}
	in.ID = id
	return in, nil
}

func (r *ResponsesRepo) GetByID(ctx context.Context, id int64) (responses.Response, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, name, age, gender, pet_preference
		FROM questionnaire_responses
		WHERE id = ?
	`, id)

	v, err := scanResponse(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return responses.Response{}, responses.ErrNotFound
		}
		return responses.Response{}, responses.Unavailable(errors.Wrapf(err, "get response %d", id))
	}
	return v, nil
}

func (r *ResponsesRepo) DeleteByID(ctx context.Context, id int64) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM questionnaire_responses WHERE id = ?`, id)
	if err != nil {
		return false, responses.Unavailable(errors.Wrapf(err, "delete response %d", id))
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

func (r *ResponsesRepo) DeleteAll(ctx context.Context) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM questionnaire_responses`)
	if err != nil {
		return 0, responses.Unavailable(errors.Wrap(err, "delete all responses"))
	}
	n, _ := res.RowsAffected()
	return n, nil
}

func (r *ResponsesRepo) ListAll(ctx context.Context) ([]responses.Response, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, age, gender, pet_preference
		FROM questionnaire_responses
		ORDER BY id ASC
	`)
	if err != nil {
		return nil, responses.Unavailable(errors.Wrap(err, "list responses"))
	}
	return collect(rows)
}

// ListByGender usa un parámetro ligado; el valor nunca se concatena al SQL.
func (r *ResponsesRepo) ListByGender(ctx context.Context, g responses.Gender) ([]responses.Response, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, age, gender, pet_preference
		FROM questionnaire_responses
		WHERE gender = ?
		ORDER BY id ASC
	`, string(g))
	if err != nil {
		return nil, responses.Unavailable(errors.Wrapf(err, "list responses by gender %s", g))
	}
	return collect(rows)
}

type scanner interface {
	Scan(dest ...any) error
}

func scanResponse(s scanner) (responses.Response, error) {
	var (
		v      responses.Response
		name   sql.NullString
		age    sql.NullInt64
		gender sql.NullString
		pet    sql.NullString
	)
	if err := s.Scan(&v.ID, &name, &age, &gender, &pet); err != nil {
		return responses.Response{}, err
	}
	// Las columnas no son NOT NULL; un NULL se lee como valor cero.
	v.Name = name.String
	v.Age = int(age.Int64)
	v.Gender = responses.Gender(gender.String)
	v.PetPreference = responses.Pet(pet.String)
	return v, nil
}

func collect(rows *sql.Rows) ([]responses.Response, error) {
	defer rows.Close()

	out := make([]responses.Response, 0)
	for rows.Next() {
		v, err := scanResponse(rows)
		if err != nil {
			return nil, responses.Unavailable(errors.Wrap(err, "scan response"))
		}
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, responses.Unavailable(errors.Wrap(err, "iterate responses"))
	}
	return out, nil
}

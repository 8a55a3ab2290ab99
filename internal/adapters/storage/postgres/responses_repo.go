package postgres

import (
	"context"
	"database/sql"

	"github.com/pkg/errors"

	"questionnaire-app/internal/domain/responses"
)

type ResponsesRepo struct {
	db *sql.DB
}

func NewResponsesRepo(db *sql.DB) *ResponsesRepo {
	return &ResponsesRepo{db: db}
}

func (r *ResponsesRepo) EnsureSchema(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS questionnaire_responses (
			id BIGSERIAL PRIMARY KEY,
			name TEXT,
			age INT,
			gender TEXT,
			pet_preference TEXT
		)
	`)
	if err != nil {
		return responses.Unavailable(errors.Wrap(err, "create questionnaire_responses"))
	}
	return nil
}

func (r *ResponsesRepo) Insert(ctx context.Context, in responses.Response) (responses.Response, error) {
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO questionnaire_responses (name, age, gender, pet_preference)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`, in.Name, in.Age, string(in.Gender), string(in.PetPreference)).Scan(&in.ID)
	if err != nil {
		return responses.Response{}, responses.Unavailable(errors.Wrap(err, "insert response"))
	}
	return in, nil
}

func (r *ResponsesRepo) GetByID(ctx context.Context, id int64) (responses.Response, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, name, age, gender, pet_preference
		FROM questionnaire_responses
		WHERE id = $1
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
	res, err := r.db.ExecContext(ctx, `DELETE FROM questionnaire_responses WHERE id = $1`, id)
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

func (r *ResponsesRepo) ListByGender(ctx context.Context, g responses.Gender) ([]responses.Response, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, age, gender, pet_preference
		FROM questionnaire_responses
		WHERE gender = $1
		ORDER BY id ASC
	`, string(g))
	if err != nil {
		return nil, responses.Unavailable(errors.Wrapf(err, "list responses by gender %s", g))
	}
	return collect(rows)
}

func scanResponse(row interface{ Scan(...any) error }) (responses.Response, error) {
	var (
		v      responses.Response
		name   sql.NullString
		age    sql.NullInt32
		gender sql.NullString
		pet    sql.NullString
	)
	if err := row.Scan(&v.ID, &name, &age, &gender, &pet); err != nil {
		return responses.Response{}, err
	}
	v.Name = name.String
	v.Age = int(age.Int32)
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

package responses

import "context"

// Repository es el acceso a la tabla questionnaire_responses.
// Cada operación se confirma por separado; no hay transacciones entre operaciones.
type Repository interface {
	EnsureSchema(ctx context.Context) error
	Insert(ctx context.Context, r Response) (Response, error)
	GetByID(ctx context.Context, id int64) (Response, error)
	DeleteByID(ctx context.Context, id int64) (bool, error)
	DeleteAll(ctx context.Context) (int64, error)
	ListAll(ctx context.Context) ([]Response, error)
	ListByGender(ctx context.Context, g Gender) ([]Response, error)
}

package responses

import (
	"context"
	"errors"

	"questionnaire-app/internal/platform/metrics"
)

// DeleteOutcome es el resultado informativo de un borrado por ID.
type DeleteOutcome string

const (
	OutcomeDeleted  DeleteOutcome = "deleted"
	OutcomeNotFound DeleteOutcome = "not_found"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

type SubmitInput struct {
	Name          string
	Age           int
	Gender        Gender
	PetPreference Pet
}

// Submit asegura el esquema e inserta la respuesta.
// No valida ni normaliza contenido: el nombre se guarda tal cual llega.
func (s *Service) Submit(ctx context.Context, in SubmitInput) (Response, error) {
	if err := s.repo.EnsureSchema(ctx); err != nil {
		return Response{}, s.storageFailure("ensure_schema", err)
	}

	created, err := s.repo.Insert(ctx, Response{
		Name:          in.Name,
		Age:           in.Age,
		Gender:        in.Gender,
		PetPreference: in.PetPreference,
	})
	if err != nil {
		return Response{}, s.storageFailure("insert", err)
	}

	metrics.SubmissionsTotal.Inc()
	return created, nil
}

// DeleteByID busca primero la fila; si no existe no muta nada y devuelve OutcomeNotFound.
func (s *Service) DeleteByID(ctx context.Context, id int64) (DeleteOutcome, error) {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		if errors.Is(err, ErrNotFound) {
			metrics.DeletionsTotal.WithLabelValues(string(OutcomeNotFound)).Inc()
			return OutcomeNotFound, nil
		}
		return "", s.storageFailure("get", err)
	}

	deleted, err := s.repo.DeleteByID(ctx, id)
	if err != nil {
		return "", s.storageFailure("delete", err)
	}
	// Otro proceso pudo borrarla entre el lookup y el delete.
	if !deleted {
		metrics.DeletionsTotal.WithLabelValues(string(OutcomeNotFound)).Inc()
		return OutcomeNotFound, nil
	}

	metrics.DeletionsTotal.WithLabelValues(string(OutcomeDeleted)).Inc()
	return OutcomeDeleted, nil
}

// DeleteAll borra todas las filas. Sobre una tabla vacía devuelve 0 sin error.
func (s *Service) DeleteAll(ctx context.Context) (int64, error) {
	n, err := s.repo.DeleteAll(ctx)
	if err != nil {
		return 0, s.storageFailure("delete_all", err)
	}
	metrics.PurgesTotal.Inc()
	return n, nil
}

func (s *Service) ListAll(ctx context.Context) ([]Response, error) {
	items, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, s.storageFailure("list", err)
	}
	return items, nil
}

// FilterByGender valida el valor contra el conjunto cerrado antes de consultar.
func (s *Service) FilterByGender(ctx context.Context, raw string) (Gender, []Response, error) {
	g, ok := ParseGender(raw)
	if !ok {
		return "", nil, ErrInvalidGender
	}

	items, err := s.repo.ListByGender(ctx, g)
	if err != nil {
		return g, nil, s.storageFailure("list_by_gender", err)
	}
	return g, items, nil
}

// AgeHistogram devuelve ok=false si no hay respuestas.
func (s *Service) AgeHistogram(ctx context.Context) (AgeHistogram, bool, error) {
	items, err := s.ListAll(ctx)
	if err != nil || len(items) == 0 {
		return AgeHistogram{}, false, err
	}

	ages := make([]int, 0, len(items))
	for _, r := range items {
		ages = append(ages, r.Age)
	}
	return NewAgeHistogram(ages, HistogramBins), true, nil
}

func (s *Service) PetShares(ctx context.Context) ([]PetShare, bool, error) {
	items, err := s.ListAll(ctx)
	if err != nil || len(items) == 0 {
		return nil, false, err
	}
	return NewPetShares(items), true, nil
}

func (s *Service) GeneralStats(ctx context.Context) (GeneralStats, bool, error) {
	items, err := s.ListAll(ctx)
	if err != nil || len(items) == 0 {
		return GeneralStats{}, false, err
	}
	return NewGeneralStats(items), true, nil
}

func (s *Service) storageFailure(op string, err error) error {
	metrics.StorageErrorsTotal.WithLabelValues(op).Inc()
	return Unavailable(err)
}

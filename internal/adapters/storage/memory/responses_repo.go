package memory

import (
	"context"
	"sort"
	"sync"

	"questionnaire-app/internal/domain/responses"
)

type responsesRepo struct {
	mu     sync.RWMutex
	byID   map[int64]responses.Response
	nextID int64
}

func NewResponsesRepo() responses.Repository {
	return &responsesRepo{
		byID: make(map[int64]responses.Response),
	}
}

func (r *responsesRepo) EnsureSchema(ctx context.Context) error {
	return nil
}

func (r *responsesRepo) Insert(ctx context.Context, in responses.Response) (responses.Response, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	// Igual que AUTOINCREMENT: los IDs nunca se reutilizan, ni tras un DeleteAll.
	r.nextID++
	in.ID = r.nextID
	r.byID[in.ID] = in
	return in, nil
}

func (r *responsesRepo) GetByID(ctx context.Context, id int64) (responses.Response, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	v, ok := r.byID[id]
	if !ok {
		return responses.Response{}, responses.ErrNotFound
	}
	return v, nil
}

func (r *responsesRepo) DeleteByID(ctx context.Context, id int64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[id]; !ok {
		return false, nil
	}
	delete(r.byID, id)
	return true, nil
}

func (r *responsesRepo) DeleteAll(ctx context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	n := int64(len(r.byID))
	r.byID = make(map[int64]responses.Response)
	return n, nil
}

func (r *responsesRepo) ListAll(ctx context.Context) ([]responses.Response, error) {
	return r.list(func(responses.Response) bool { return true }), nil
}

func (r *responsesRepo) ListByGender(ctx context.Context, g responses.Gender) ([]responses.Response, error) {
	return r.list(func(v responses.Response) bool { return v.Gender == g }), nil
}

func (r *responsesRepo) list(keep func(responses.Response) bool) []responses.Response {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]responses.Response, 0, len(r.byID))
	for _, v := range r.byID {
		if keep(v) {
			out = append(out, v)
		}
	}

	// Orden por id asc, igual que los stores SQL
	sort.Slice(out, func(i, j int) bool {
		return out[i].ID < out[j].ID
	})
	return out
}

package responses

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
)

// RegisterRoutes monta la API JSON (la usa questionnairectl).
func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/api/responses", func(rr chi.Router) {
		rr.Post("/", createResponseHandler(svc))
		rr.Get("/", listResponsesHandler(svc))
		rr.Delete("/", deleteAllResponsesHandler(svc))
		rr.Delete("/{responseID}", deleteResponseHandler(svc))
	})

	r.Get("/api/stats", statsHandler(svc))
}

type createResponseRequest struct {
	Name          string `json:"name"`
	Age           int    `json:"age"`
	Gender        string `json:"gender"`
	PetPreference string `json:"pet_preference"`
}

type responseResponse struct {
	ID            int64  `json:"id"`
	Name          string `json:"name"`
	Age           int    `json:"age"`
	Gender        Gender `json:"gender"`
	PetPreference Pet    `json:"pet_preference"`
}

type deleteResponse struct {
	Outcome DeleteOutcome `json:"outcome"`
}

type deleteAllResponse struct {
	Deleted int64 `json:"deleted"`
}

type categoryCountResponse struct {
	Key   string `json:"key"`
	Label string `json:"label"`
	Count int    `json:"count"`
}

type petShareResponse struct {
	categoryCountResponse
	Percent float64 `json:"percent"`
}

type statsResponse struct {
	Count        int                     `json:"count"`
	MeanAge      float64                 `json:"mean_age"`
	GenderCounts []categoryCountResponse `json:"gender_counts"`
	PetShares    []petShareResponse      `json:"pet_shares"`
}

func createResponseHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createResponseRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		// Sin widgets: se aplican aquí las mismas restricciones del formulario.
		gender, ok := ParseGender(req.Gender)
		if !ok {
			http.Error(w, ErrInvalidGender.Error(), http.StatusBadRequest)
			return
		}
		pet, ok := ParsePet(req.PetPreference)
		if !ok {
			http.Error(w, "pet_preference must be one of Dog, Cat, Fish, Other", http.StatusBadRequest)
			return
		}
		if req.Age < MinAge || req.Age > MaxAge {
			http.Error(w, "age must be between 1 and 100", http.StatusBadRequest)
			return
		}

		created, err := svc.Submit(r.Context(), SubmitInput{
			Name:          req.Name,
			Age:           req.Age,
			Gender:        gender,
			PetPreference: pet,
		})
		if err != nil {
			writeError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, toResponseResponse(created))
	}
}

func listResponsesHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var (
			items []Response
			err   error
		)
		if q := r.URL.Query(); q.Has("gender") {
			_, items, err = svc.FilterByGender(r.Context(), q.Get("gender"))
		} else {
			items, err = svc.ListAll(r.Context())
		}
		if err != nil {
			writeError(w, err)
			return
		}

		out := make([]responseResponse, 0, len(items))
		for _, v := range items {
			out = append(out, toResponseResponse(v))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func deleteResponseHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.ParseInt(chi.URLParam(r, "responseID"), 10, 64)
		if err != nil || id < 1 {
			http.Error(w, "id must be a positive integer", http.StatusBadRequest)
			return
		}

		outcome, err := svc.DeleteByID(r.Context(), id)
		if err != nil {
			writeError(w, err)
			return
		}

		status := http.StatusOK
		if outcome == OutcomeNotFound {
			status = http.StatusNotFound
		}
		writeJSON(w, status, deleteResponse{Outcome: outcome})
	}
}

func deleteAllResponsesHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		n, err := svc.DeleteAll(r.Context())
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, deleteAllResponse{Deleted: n})
	}
}

func statsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := svc.ListAll(r.Context())
		if err != nil {
			writeError(w, err)
			return
		}

		out := statsResponse{
			GenderCounts: []categoryCountResponse{},
			PetShares:    []petShareResponse{},
		}
		if len(items) > 0 {
			general := NewGeneralStats(items)
			out.Count = general.Count
			out.MeanAge = general.MeanAge
			for _, c := range general.GenderCounts {
				out.GenderCounts = append(out.GenderCounts, toCategoryCountResponse(c))
			}
			for _, s := range NewPetShares(items) {
				out.PetShares = append(out.PetShares, petShareResponse{
					categoryCountResponse: toCategoryCountResponse(s.CategoryCount),
					Percent:               s.Percent,
				})
			}
		}

		writeJSON(w, http.StatusOK, out)
	}
}

func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrInvalidInput):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, ErrStorageUnavailable):
		http.Error(w, "storage unavailable", http.StatusServiceUnavailable)
	default:
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func toResponseResponse(v Response) responseResponse {
	return responseResponse{
		ID:            v.ID,
		Name:          v.Name,
		Age:           v.Age,
		Gender:        v.Gender,
		PetPreference: v.PetPreference,
	}
}

func toCategoryCountResponse(c CategoryCount) categoryCountResponse {
	return categoryCountResponse{Key: c.Key, Label: c.Label, Count: c.Count}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

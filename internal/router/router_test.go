package router_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"regexp"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"questionnaire-app/internal/adapters/storage/sqlite"
	"questionnaire-app/internal/router"
)

func TestHTTP_API_Scenario(t *testing.T) {
	ts := httptest.NewServer(router.NewRouter(router.Options{}))
	defer ts.Close()

	aliceID := createResponse(t, ts.URL, map[string]any{"name": "Alice", "age": 30, "gender": "Female", "pet_preference": "Dog"})
	bobID := createResponse(t, ts.URL, map[string]any{"name": "Bob", "age": 45, "gender": "Male", "pet_preference": "Cat"})
	assert.Greater(t, bobID, aliceID)

	// select_all
	{
		st, body := doReq(t, ts.URL, "GET", "/api/responses", nil)
		require.Equal(t, http.StatusOK, st, string(body))
		var items []map[string]any
		require.NoError(t, json.Unmarshal(body, &items))
		assert.Len(t, items, 2)
	}

	// select_by_gender: coincidencia exacta
	{
		st, body := doReq(t, ts.URL, "GET", "/api/responses?gender=Female", nil)
		require.Equal(t, http.StatusOK, st, string(body))
		var items []struct {
			ID   int64  `json:"id"`
			Name string `json:"name"`
		}
		require.NoError(t, json.Unmarshal(body, &items))
		require.Len(t, items, 1)
		assert.Equal(t, aliceID, items[0].ID)
		assert.Equal(t, "Alice", items[0].Name)
	}
	{
		st, _ := doReq(t, ts.URL, "GET", "/api/responses?gender=female", nil)
		assert.Equal(t, http.StatusBadRequest, st)
	}
	// parámetro repetido: cuenta el primer valor
	{
		st, body := doReq(t, ts.URL, "GET", "/api/responses?gender=Female&gender=Female", nil)
		require.Equal(t, http.StatusOK, st, string(body))
		var items []struct {
			ID int64 `json:"id"`
		}
		require.NoError(t, json.Unmarshal(body, &items))
		require.Len(t, items, 1)
		assert.Equal(t, aliceID, items[0].ID)
	}

	// stats
	{
		st, body := doReq(t, ts.URL, "GET", "/api/stats", nil)
		require.Equal(t, http.StatusOK, st, string(body))
		var stats struct {
			Count        int     `json:"count"`
			MeanAge      float64 `json:"mean_age"`
			GenderCounts []struct {
				Key   string `json:"key"`
				Count int    `json:"count"`
			} `json:"gender_counts"`
		}
		require.NoError(t, json.Unmarshal(body, &stats))
		assert.Equal(t, 2, stats.Count)
		assert.InDelta(t, 37.5, stats.MeanAge, 1e-9)
		counts := map[string]int{}
		for _, c := range stats.GenderCounts {
			counts[c.Key] = c.Count
		}
		assert.Equal(t, map[string]int{"Female": 1, "Male": 1}, counts)
	}

	// delete_by_id
	{
		st, body := doReq(t, ts.URL, "DELETE", "/api/responses/999", nil)
		assert.Equal(t, http.StatusNotFound, st)
		assert.JSONEq(t, `{"outcome":"not_found"}`, string(body))

		st, body = doReq(t, ts.URL, "DELETE", "/api/responses/"+strconv.FormatInt(aliceID, 10), nil)
		assert.Equal(t, http.StatusOK, st)
		assert.JSONEq(t, `{"outcome":"deleted"}`, string(body))

		st, body = doReq(t, ts.URL, "GET", "/api/responses", nil)
		require.Equal(t, http.StatusOK, st)
		var items []struct {
			ID int64 `json:"id"`
		}
		require.NoError(t, json.Unmarshal(body, &items))
		require.Len(t, items, 1)
		assert.Equal(t, bobID, items[0].ID)
	}

	// delete_all, idempotente
	{
		st, body := doReq(t, ts.URL, "DELETE", "/api/responses", nil)
		assert.Equal(t, http.StatusOK, st)
		assert.JSONEq(t, `{"deleted":1}`, string(body))

		st, body = doReq(t, ts.URL, "DELETE", "/api/responses", nil)
		assert.Equal(t, http.StatusOK, st)
		assert.JSONEq(t, `{"deleted":0}`, string(body))

		_, body = doReq(t, ts.URL, "GET", "/api/responses", nil)
		assert.JSONEq(t, `[]`, string(body))
	}
}

func TestHTTP_API_RejectsValuesOutsideClosedSets(t *testing.T) {
	ts := httptest.NewServer(router.NewRouter(router.Options{}))
	defer ts.Close()

	cases := []map[string]any{
		{"name": "x", "age": 30, "gender": "Homme", "pet_preference": "Dog"},
		{"name": "x", "age": 30, "gender": "Male", "pet_preference": "Hamster"},
		{"name": "x", "age": 0, "gender": "Male", "pet_preference": "Dog"},
		{"name": "x", "age": 101, "gender": "Male", "pet_preference": "Dog"},
	}
	for _, c := range cases {
		st, _ := doReq(t, ts.URL, "POST", "/api/responses", c)
		assert.Equal(t, http.StatusBadRequest, st, c)
	}
}

func TestHTTP_Page_SubmitDeleteAndStats(t *testing.T) {
	ts := httptest.NewServer(router.NewRouter(router.Options{}))
	defer ts.Close()

	// página vacía
	{
		st, body := get(t, ts.URL+"/")
		require.Equal(t, http.StatusOK, st)
		assert.Contains(t, body, "Aucune réponse enregistrée pour le moment.")
		assert.Contains(t, body, "Documentation Streamlit")
	}

	// estadísticas sin filas: se omiten los gráficos
	{
		st, body := get(t, ts.URL+"/stats/ages")
		require.Equal(t, http.StatusOK, st)
		assert.NotContains(t, body, "<svg width=")
	}

	// submit
	{
		st, body := postForm(t, ts.URL+"/responses", url.Values{
			"name": {"Alice"}, "age": {"30"}, "gender": {"Female"}, "pet_preference": {"Dog"},
		})
		require.Equal(t, http.StatusOK, st)
		assert.Contains(t, body, "Réponses soumises avec succès!")
		assert.Contains(t, body, "<td>Alice</td>")

		st, _ = postForm(t, ts.URL+"/responses", url.Values{
			"name": {"Bob"}, "age": {"45"}, "gender": {"Male"}, "pet_preference": {"Cat"},
		})
		require.Equal(t, http.StatusOK, st)
	}

	// valores fuera del widget
	{
		st, body := postForm(t, ts.URL+"/responses", url.Values{
			"name": {"Eve"}, "age": {"150"}, "gender": {"Female"}, "pet_preference": {"Dog"},
		})
		assert.Equal(t, http.StatusBadRequest, st)
		assert.Contains(t, body, "Valeurs du formulaire invalides.")
	}

	// estadísticas
	{
		_, body := get(t, ts.URL+"/stats/general")
		assert.Contains(t, body, "37.50 ans")
		assert.Contains(t, body, "<svg width=")

		_, body = get(t, ts.URL+"/stats/pets")
		assert.Contains(t, body, ">50.0%<")
		assert.Contains(t, body, ">Chien<")
		assert.Contains(t, body, ">Chat<")

		_, body = get(t, ts.URL+"/stats/ages")
		assert.Contains(t, body, "<svg width=")
		assert.Contains(t, body, "Histogramme de la Répartition des Âges")
	}

	// filtro
	{
		_, body := get(t, ts.URL+"/?gender=Other")
		assert.Contains(t, body, "Aucune réponse trouvée pour le genre Autre.")

		st, body := get(t, ts.URL+"/?gender=Unknown")
		assert.Equal(t, http.StatusOK, st)
		assert.Contains(t, body, "Genre inconnu.")
	}

	// delete by id
	{
		_, body := postForm(t, ts.URL+"/responses/delete", url.Values{"id": {"99"}})
		assert.Contains(t, body, "ID 99!")
		assert.Contains(t, body, "Aucune réponse trouvée avec")

		_, body = postForm(t, ts.URL+"/responses/delete", url.Values{"id": {"1"}})
		assert.Contains(t, body, "ID 1 a été supprimée!")
		assert.NotContains(t, body, "<td>Alice</td>")
	}
}

func TestHTTP_Page_DeleteAllRequiresConfirmation(t *testing.T) {
	ts := httptest.NewServer(router.NewRouter(router.Options{}))
	defer ts.Close()

	st, _ := postForm(t, ts.URL+"/responses", url.Values{
		"name": {"Alice"}, "age": {"30"}, "gender": {"Female"}, "pet_preference": {"Dog"},
	})
	require.Equal(t, http.StatusOK, st)

	// sin token no borra nada
	st, body := postForm(t, ts.URL+"/responses/delete-all", url.Values{"token": {"nope"}})
	assert.Equal(t, http.StatusBadRequest, st)
	assert.Contains(t, body, "Confirmation expirée")

	_, body = get(t, ts.URL+"/")
	assert.Contains(t, body, "<td>Alice</td>")

	// flujo completo
	st, body = get(t, ts.URL+"/responses/delete-all")
	require.Equal(t, http.StatusOK, st)
	token := extractToken(t, body)

	st, body = postForm(t, ts.URL+"/responses/delete-all", url.Values{"token": {token}})
	require.Equal(t, http.StatusOK, st)
	assert.Contains(t, body, "Toutes les réponses ont été supprimées!")
	assert.Contains(t, body, "Aucune réponse enregistrée pour le moment.")

	// token de un solo uso
	st, _ = postForm(t, ts.URL+"/responses/delete-all", url.Values{"token": {token}})
	assert.Equal(t, http.StatusBadRequest, st)
}

func TestHTTP_SQLite_StorageUnavailable(t *testing.T) {
	db, err := sqlite.Open(filepath.Join(t.TempDir(), "questionnaire.db"))
	require.NoError(t, err)
	repo := sqlite.NewResponsesRepo(db)

	ts := httptest.NewServer(router.NewRouter(router.Options{Repo: repo}))
	defer ts.Close()

	st, body := postForm(t, ts.URL+"/responses", url.Values{
		"name": {"Alice"}, "age": {"30"}, "gender": {"Female"}, "pet_preference": {"Dog"},
	})
	require.Equal(t, http.StatusOK, st, body)
	assert.Contains(t, body, "<td>Alice</td>")

	require.NoError(t, db.Close())

	st, body = postForm(t, ts.URL+"/responses", url.Values{
		"name": {"Bob"}, "age": {"45"}, "gender": {"Male"}, "pet_preference": {"Cat"},
	})
	assert.Equal(t, http.StatusServiceUnavailable, st)
	assert.Contains(t, body, "indisponible")

	st, _ = doReq(t, ts.URL, "GET", "/api/responses", nil)
	assert.Equal(t, http.StatusServiceUnavailable, st)
}

func TestHTTP_HealthAndMetrics(t *testing.T) {
	ts := httptest.NewServer(router.NewRouter(router.Options{}))
	defer ts.Close()

	st, body := get(t, ts.URL+"/health")
	assert.Equal(t, http.StatusOK, st)
	assert.Equal(t, "ok", body)

	st, body = get(t, ts.URL+"/metrics")
	assert.Equal(t, http.StatusOK, st)
	assert.Contains(t, body, "questionnaire_http_requests_total")
}

// ---------------------------
// helpers
// ---------------------------

var tokenRe = regexp.MustCompile(`name="token" value="([^"]+)"`)

func extractToken(t *testing.T, body string) string {
	t.Helper()

	m := tokenRe.FindStringSubmatch(body)
	if len(m) != 2 {
		t.Fatalf("confirmation token not found in body=%s", body)
	}
	return m[1]
}

func createResponse(t *testing.T, baseURL string, payload map[string]any) int64 {
	t.Helper()

	st, body := doReq(t, baseURL, "POST", "/api/responses", payload)
	if st != http.StatusCreated {
		t.Fatalf("expected 201 create response, got %d body=%s", st, string(body))
	}

	var resp struct {
		ID int64 `json:"id"`
	}
	_ = json.Unmarshal(body, &resp)
	if resp.ID == 0 {
		t.Fatalf("create response: missing id body=%s", string(body))
	}
	return resp.ID
}

func doReq(t *testing.T, baseURL, method, path string, body any) (int, []byte) {
	t.Helper()

	var rdr io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("json marshal: %v", err)
		}
		rdr = bytes.NewReader(b)
	}

	req, err := http.NewRequest(method, baseURL+path, rdr)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	res, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	defer res.Body.Close()

	respBody, _ := io.ReadAll(res.Body)
	return res.StatusCode, respBody
}

func get(t *testing.T, u string) (int, string) {
	t.Helper()

	res, err := http.Get(u)
	if err != nil {
		t.Fatalf("get %s: %v", u, err)
	}
	defer res.Body.Close()

	b, _ := io.ReadAll(res.Body)
	return res.StatusCode, string(b)
}

// postForm sigue el redirect 303 y devuelve la página final.
func postForm(t *testing.T, u string, form url.Values) (int, string) {
	t.Helper()

	res, err := http.PostForm(u, form)
	if err != nil {
		t.Fatalf("post %s: %v", u, err)
	}
	defer res.Body.Close()

	b, _ := io.ReadAll(res.Body)
	return res.StatusCode, string(b)
}

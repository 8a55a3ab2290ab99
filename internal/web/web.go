// Package web sirve la página del cuestionario.
//
// Cada acción tiene su propio handler; las escrituras terminan en un redirect
// (POST/redirect/GET) y el aviso viaja en la query (?notice=...).
package web

import (
	"bytes"
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"questionnaire-app/internal/domain/responses"
	"questionnaire-app/internal/platform/logger"
)

//go:embed templates/*.html
var templatesFS embed.FS

var (
	pageTmpl    = template.Must(template.ParseFS(templatesFS, "templates/page.html", "templates/layout.html"))
	confirmTmpl = template.Must(template.ParseFS(templatesFS, "templates/confirm.html", "templates/layout.html"))
)

const (
	msgStorageUnavailable = "❌ La base de données est indisponible. Réessayez plus tard."
	msgInvalidForm        = "❌ Valeurs du formulaire invalides."
	msgConfirmExpired     = "❌ Confirmation expirée ou invalide. Veuillez confirmer à nouveau."
	msgInternal           = "❌ Erreur interne."
)

type Handler struct {
	svc     *responses.Service
	log     logger.Logger
	confirm *confirmations
}

func NewHandler(svc *responses.Service, log logger.Logger) *Handler {
	if log == nil {
		log = logger.Nop()
	}
	return &Handler{
		svc:     svc,
		log:     log,
		confirm: newConfirmations(confirmTTL),
	}
}

func RegisterRoutes(r chi.Router, h *Handler) {
	r.Get("/", h.index)

	r.Post("/responses", h.submit)
	r.Post("/responses/delete", h.deleteOne)
	r.Get("/responses/delete-all", h.confirmDeleteAll)
	r.Post("/responses/delete-all", h.deleteAll)

	r.Get("/stats/ages", h.statsAges)
	r.Get("/stats/pets", h.statsPets)
	r.Get("/stats/general", h.statsGeneral)
}

type option struct {
	Value    string
	Label    string
	Selected bool
}

type notice struct {
	Kind string
	Text string
}

type rowView struct {
	ID     int64
	Name   string
	Age    int
	Gender string
	Pet    string
}

type formValues struct {
	Name   string
	Age    int
	Gender responses.Gender
	Pet    responses.Pet
}

type filterView struct {
	Options []option
	Label   string
	Rows    []rowView
	Err     string
}

type generalView struct {
	MeanAgeText string
	Bars        template.HTML
}

type pageData struct {
	Notice *notice
	Error  string

	MinAge  int
	MaxAge  int
	Form    formValues
	Genders []option
	Pets    []option

	Responses    []rowView
	ResponsesErr string

	Stat      string
	Histogram template.HTML
	Pie       template.HTML
	General   *generalView
	StatErr   string

	Filter filterView
}

type confirmData struct {
	Token string
	Count int
	Error string
}

// ---------------------------
// Handlers
// ---------------------------

func (h *Handler) index(w http.ResponseWriter, r *http.Request) {
	h.renderPage(w, r, http.StatusOK, h.basePage(r))
}

func (h *Handler) submit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.renderPage(w, r, http.StatusBadRequest, h.withError(r, msgInvalidForm))
		return
	}

	in, ok := parseSubmitForm(r)
	if !ok {
		h.renderPage(w, r, http.StatusBadRequest, h.withError(r, msgInvalidForm))
		return
	}

	created, err := h.svc.Submit(r.Context(), in)
	if err != nil {
		h.actionFailed(w, r, "submit response", err)
		return
	}

	h.log.Info("response submitted", map[string]any{"id": created.ID})
	http.Redirect(w, r, "/?notice=submitted", http.StatusSeeOther)
}

func (h *Handler) deleteOne(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.renderPage(w, r, http.StatusBadRequest, h.withError(r, msgInvalidForm))
		return
	}

	id, err := strconv.ParseInt(strings.TrimSpace(r.PostFormValue("id")), 10, 64)
	if err != nil || id < 1 {
		h.renderPage(w, r, http.StatusBadRequest, h.withError(r, msgInvalidForm))
		return
	}

	outcome, err := h.svc.DeleteByID(r.Context(), id)
	if err != nil {
		h.actionFailed(w, r, "delete response", err)
		return
	}

	h.log.Info("delete by id", map[string]any{"id": id, "outcome": string(outcome)})
	http.Redirect(w, r, fmt.Sprintf("/?notice=%s&id=%d", outcome, id), http.StatusSeeOther)
}

func (h *Handler) confirmDeleteAll(w http.ResponseWriter, r *http.Request) {
	h.renderConfirm(w, r, http.StatusOK, "")
}

func (h *Handler) deleteAll(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.renderConfirm(w, r, http.StatusBadRequest, msgConfirmExpired)
		return
	}
	if !h.confirm.Consume(r.PostFormValue("token")) {
		h.renderConfirm(w, r, http.StatusBadRequest, msgConfirmExpired)
		return
	}

	n, err := h.svc.DeleteAll(r.Context())
	if err != nil {
		h.actionFailed(w, r, "delete all responses", err)
		return
	}

	h.log.Warn("all responses deleted", map[string]any{"count": n})
	http.Redirect(w, r, "/?notice=deleted_all", http.StatusSeeOther)
}

func (h *Handler) statsAges(w http.ResponseWriter, r *http.Request) {
	data := h.basePage(r)
	data.Stat = "ages"

	hist, ok, err := h.svc.AgeHistogram(r.Context())
	if err != nil {
		h.statFailed(w, r, data, err)
		return
	}
	if ok {
		if data.Histogram, err = histogramSVG(hist); err != nil {
			h.chartFailed(w, r, data, err)
			return
		}
	}
	h.renderPage(w, r, http.StatusOK, data)
}

func (h *Handler) statsPets(w http.ResponseWriter, r *http.Request) {
	data := h.basePage(r)
	data.Stat = "pets"

	shares, ok, err := h.svc.PetShares(r.Context())
	if err != nil {
		h.statFailed(w, r, data, err)
		return
	}
	if ok {
		if data.Pie, err = pieSVG(shares); err != nil {
			h.chartFailed(w, r, data, err)
			return
		}
	}
	h.renderPage(w, r, http.StatusOK, data)
}

func (h *Handler) statsGeneral(w http.ResponseWriter, r *http.Request) {
	data := h.basePage(r)
	data.Stat = "general"

	stats, ok, err := h.svc.GeneralStats(r.Context())
	if err != nil {
		h.statFailed(w, r, data, err)
		return
	}
	if ok {
		bars, err := barSVG(stats.GenderCounts)
		if err != nil {
			h.chartFailed(w, r, data, err)
			return
		}
		data.General = &generalView{MeanAgeText: stats.MeanAgeText(), Bars: bars}
	}
	h.renderPage(w, r, http.StatusOK, data)
}

// ---------------------------
// Page assembly
// ---------------------------

// basePage arma las secciones que siempre se muestran: formulario, tabla y filtro.
func (h *Handler) basePage(r *http.Request) pageData {
	ctx := r.Context()
	q := r.URL.Query()

	data := pageData{
		Notice: noticeFromQuery(q.Get("notice"), q.Get("id")),
		MinAge: responses.MinAge,
		MaxAge: responses.MaxAge,
		Form: formValues{
			Age:    responses.MinAge,
			Gender: responses.GenderMale,
			Pet:    responses.PetDog,
		},
	}
	data.Genders = genderOptions(data.Form.Gender)
	data.Pets = petOptions(data.Form.Pet)

	items, err := h.svc.ListAll(ctx)
	if err != nil {
		h.logStorage("list responses", err)
		data.ResponsesErr = msgStorageUnavailable
	} else {
		data.Responses = toRows(items)
	}

	data.Filter = h.filter(ctx, q.Get("gender"))
	return data
}

func (h *Handler) filter(ctx context.Context, raw string) filterView {
	if strings.TrimSpace(raw) == "" {
		raw = string(responses.Genders[0])
	}

	g, items, err := h.svc.FilterByGender(ctx, raw)
	view := filterView{Options: genderOptions(g), Label: g.Label()}
	switch {
	case errors.Is(err, responses.ErrInvalidInput):
		view.Options = genderOptions(responses.Genders[0])
		view.Err = "❌ Genre inconnu."
	case err != nil:
		h.logStorage("filter responses", err)
		view.Err = msgStorageUnavailable
	default:
		view.Rows = toRows(items)
	}
	return view
}

func (h *Handler) withError(r *http.Request, msg string) pageData {
	data := h.basePage(r)
	data.Notice = nil
	data.Error = msg
	return data
}

// actionFailed: solo la acción falla; la página se vuelve a mostrar con el error.
func (h *Handler) actionFailed(w http.ResponseWriter, r *http.Request, op string, err error) {
	status := http.StatusInternalServerError
	msg := msgInternal
	if errors.Is(err, responses.ErrStorageUnavailable) {
		status = http.StatusServiceUnavailable
		msg = msgStorageUnavailable
	}
	h.log.Error(op+" failed", map[string]any{"err": err.Error()})
	h.renderPage(w, r, status, h.withError(r, msg))
}

func (h *Handler) statFailed(w http.ResponseWriter, r *http.Request, data pageData, err error) {
	h.logStorage("statistics", err)
	data.StatErr = msgStorageUnavailable
	h.renderPage(w, r, http.StatusServiceUnavailable, data)
}

func (h *Handler) chartFailed(w http.ResponseWriter, r *http.Request, data pageData, err error) {
	h.log.Error("render chart failed", map[string]any{"stat": data.Stat, "err": err.Error()})
	data.StatErr = msgInternal
	h.renderPage(w, r, http.StatusInternalServerError, data)
}

func (h *Handler) logStorage(op string, err error) {
	h.log.Error(op+" failed", map[string]any{"err": err.Error()})
}

func (h *Handler) renderPage(w http.ResponseWriter, r *http.Request, status int, data pageData) {
	render(w, h.log, pageTmpl, status, data)
}

func (h *Handler) renderConfirm(w http.ResponseWriter, r *http.Request, status int, errMsg string) {
	data := confirmData{Token: h.confirm.Issue(), Error: errMsg}

	items, err := h.svc.ListAll(r.Context())
	if err != nil {
		h.actionFailed(w, r, "count responses", err)
		return
	}
	data.Count = len(items)
	render(w, h.log, confirmTmpl, status, data)
}

// render ejecuta en un buffer para no mandar una página a medias si el template falla.
func render(w http.ResponseWriter, log logger.Logger, t *template.Template, status int, data any) {
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		log.Error("render template", map[string]any{"template": t.Name(), "err": err.Error()})
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

// ---------------------------
// Helpers
// ---------------------------

func parseSubmitForm(r *http.Request) (responses.SubmitInput, bool) {
	age, err := strconv.Atoi(strings.TrimSpace(r.PostFormValue("age")))
	if err != nil || age < responses.MinAge || age > responses.MaxAge {
		return responses.SubmitInput{}, false
	}
	gender, ok := responses.ParseGender(r.PostFormValue("gender"))
	if !ok {
		return responses.SubmitInput{}, false
	}
	pet, ok := responses.ParsePet(r.PostFormValue("pet_preference"))
	if !ok {
		return responses.SubmitInput{}, false
	}

	return responses.SubmitInput{
		Name:          r.PostFormValue("name"),
		Age:           age,
		Gender:        gender,
		PetPreference: pet,
	}, true
}

func noticeFromQuery(code, rawID string) *notice {
	switch code {
	case "submitted":
		return &notice{Kind: "success", Text: "✅ Réponses soumises avec succès!"}
	case "deleted_all":
		return &notice{Kind: "warning", Text: "🗑️ Toutes les réponses ont été supprimées!"}
	case string(responses.OutcomeDeleted), string(responses.OutcomeNotFound):
		id, err := strconv.ParseInt(rawID, 10, 64)
		if err != nil {
			return nil
		}
		if code == string(responses.OutcomeDeleted) {
			return &notice{Kind: "warning", Text: fmt.Sprintf("🗑️ Réponse avec l'ID %d a été supprimée!", id)}
		}
		return &notice{Kind: "warning", Text: fmt.Sprintf("❌ Aucune réponse trouvée avec l'ID %d!", id)}
	default:
		return nil
	}
}

func genderOptions(selected responses.Gender) []option {
	out := make([]option, 0, len(responses.Genders))
	for _, g := range responses.Genders {
		out = append(out, option{Value: string(g), Label: g.Label(), Selected: g == selected})
	}
	return out
}

func petOptions(selected responses.Pet) []option {
	out := make([]option, 0, len(responses.Pets))
	for _, p := range responses.Pets {
		out = append(out, option{Value: string(p), Label: p.Label(), Selected: p == selected})
	}
	return out
}

func toRows(items []responses.Response) []rowView {
	out := make([]rowView, 0, len(items))
	for _, v := range items {
		out = append(out, rowView{
			ID:     v.ID,
			Name:   v.Name,
			Age:    v.Age,
			Gender: v.Gender.Label(),
			Pet:    v.PetPreference.Label(),
		})
	}
	return out
}

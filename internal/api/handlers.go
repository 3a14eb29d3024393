// Package api exposes HTTP handlers for the coaching service.
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/tiagocanilhas/WaveCoach-sub000/internal/auth"
	"github.com/tiagocanilhas/WaveCoach-sub000/internal/domain"
	"github.com/tiagocanilhas/WaveCoach-sub000/internal/observability"
)

// Handler coordinates HTTP requests with the reconciliation services.
type Handler struct {
	athletes     *domain.AthleteService
	cycles       *domain.CycleService
	gym          *domain.GymService
	water        *domain.WaterService
	competitions *domain.CompetitionService
	catalog      *domain.CatalogService
}

// NewHandler builds a Handler.
func NewHandler(store domain.Store) *Handler {
	return &Handler{
		athletes:     domain.NewAthleteService(store),
		cycles:       domain.NewCycleService(store),
		gym:          domain.NewGymService(store),
		water:        domain.NewWaterService(store),
		competitions: domain.NewCompetitionService(store),
		catalog:      domain.NewCatalogService(store),
	}
}

// RegisterRoutes wires endpoints to the mux.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/v1/athletes", h.athletesRoot)
	mux.HandleFunc("/v1/athletes/", h.athleteSub)
	mux.HandleFunc("/v1/mesocycles/", h.mesocycleSub)
	mux.HandleFunc("/v1/microcycles/", h.microcycleByID)
	mux.HandleFunc("/v1/gym-activities/", h.gymActivityByID)
	mux.HandleFunc("/v1/water-activities/", h.waterActivityByID)
	mux.HandleFunc("/v1/competitions/", h.competitionByID)
	mux.HandleFunc("/v1/gym-exercises", h.listGymExercises)
	mux.HandleFunc("/v1/water-maneuvers", h.listWaterManeuvers)
	mux.HandleFunc("/healthz", healthz)
}

// healthz reports a simple OK status for container health checks.
func healthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (h *Handler) athletesRoot(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		h.createAthlete(w, r)
	case http.MethodGet:
		h.listAthletes(w, r)
	default:
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "unsupported method")
	}
}

// athleteSub dispatches /v1/athletes/{id} and its nested collections.
func (h *Handler) athleteSub(w http.ResponseWriter, r *http.Request) {
	id, rest := splitPath(r.URL.Path, "/v1/athletes/")
	if id == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "missing athlete id")
		return
	}

	switch rest {
	case "":
		if r.Method != http.MethodGet {
			writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "unsupported method")
			return
		}
		h.getAthlete(w, r, id)
	case "calendar":
		if r.Method != http.MethodGet {
			writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "unsupported method")
			return
		}
		h.getCalendar(w, r, id)
	case "mesocycles":
		if r.Method != http.MethodPost {
			writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "unsupported method")
			return
		}
		h.createMesocycle(w, r, id)
	case "gym-activities":
		if r.Method != http.MethodPost {
			writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "unsupported method")
			return
		}
		h.createGymActivity(w, r, id)
	case "water-activities":
		if r.Method != http.MethodPost {
			writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "unsupported method")
			return
		}
		h.createWaterActivity(w, r, id)
	case "competitions":
		if r.Method != http.MethodPost {
			writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "unsupported method")
			return
		}
		h.createCompetition(w, r, id)
	default:
		writeError(w, http.StatusNotFound, "not_found", "unknown resource")
	}
}

func (h *Handler) mesocycleSub(w http.ResponseWriter, r *http.Request) {
	id, rest := splitPath(r.URL.Path, "/v1/mesocycles/")
	if id == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "missing mesocycle id")
		return
	}

	switch rest {
	case "":
		switch r.Method {
		case http.MethodPut:
			h.updateMesocycle(w, r, id)
		case http.MethodDelete:
			h.removeMesocycle(w, r, id)
		default:
			writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "unsupported method")
		}
	case "microcycles":
		if r.Method != http.MethodPost {
			writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "unsupported method")
			return
		}
		h.createMicrocycle(w, r, id)
	default:
		writeError(w, http.StatusNotFound, "not_found", "unknown resource")
	}
}

func (h *Handler) microcycleByID(w http.ResponseWriter, r *http.Request) {
	id, rest := splitPath(r.URL.Path, "/v1/microcycles/")
	if id == "" || rest != "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "missing microcycle id")
		return
	}

	switch r.Method {
	case http.MethodPut:
		h.updateMicrocycle(w, r, id)
	case http.MethodDelete:
		h.removeMicrocycle(w, r, id)
	default:
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "unsupported method")
	}
}

func (h *Handler) createAthlete(w http.ResponseWriter, r *http.Request) {
	caller, ok := h.writeCaller(w, r, auth.ScopeAthletesWrite)
	if !ok {
		return
	}

	var req CreateAthleteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "unable to parse body")
		return
	}

	id, err := h.athletes.CreateAthlete(r.Context(), caller, req.Name, req.BirthDate)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, CreatedResponse{ID: id})
}

func (h *Handler) getAthlete(w http.ResponseWriter, r *http.Request, id string) {
	caller, ok := h.readCaller(w, r)
	if !ok {
		return
	}

	athlete, err := h.athletes.GetAthlete(r.Context(), caller, id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toAthleteView(*athlete))
}

func (h *Handler) listAthletes(w http.ResponseWriter, r *http.Request) {
	caller, ok := h.readCaller(w, r)
	if !ok {
		return
	}

	athletes, err := h.athletes.ListAthletes(r.Context(), caller)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	items := make([]AthleteView, 0, len(athletes))
	for _, a := range athletes {
		items = append(items, toAthleteView(a))
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"items": items})
}

func (h *Handler) getCalendar(w http.ResponseWriter, r *http.Request, athleteID string) {
	caller, ok := h.readCaller(w, r)
	if !ok {
		return
	}

	mesos, err := h.cycles.GetCalendar(r.Context(), caller, athleteID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toCalendarView(athleteID, mesos))
}

func (h *Handler) createMesocycle(w http.ResponseWriter, r *http.Request, athleteID string) {
	caller, ok := h.writeCaller(w, r, auth.ScopeActivitiesWrite)
	if !ok {
		return
	}

	var req CycleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "unable to parse body")
		return
	}

	id, err := h.cycles.CreateMesocycle(r.Context(), caller, athleteID, req.StartTime, req.EndTime)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, CreatedResponse{ID: id})
}

func (h *Handler) updateMesocycle(w http.ResponseWriter, r *http.Request, id string) {
	caller, ok := h.writeCaller(w, r, auth.ScopeActivitiesWrite)
	if !ok {
		return
	}

	var req CycleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "unable to parse body")
		return
	}

	if err := h.cycles.UpdateMesocycle(r.Context(), caller, id, req.StartTime, req.EndTime); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) removeMesocycle(w http.ResponseWriter, r *http.Request, id string) {
	caller, ok := h.writeCaller(w, r, auth.ScopeActivitiesWrite)
	if !ok {
		return
	}

	if err := h.cycles.RemoveMesocycle(r.Context(), caller, id); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) createMicrocycle(w http.ResponseWriter, r *http.Request, mesocycleID string) {
	caller, ok := h.writeCaller(w, r, auth.ScopeActivitiesWrite)
	if !ok {
		return
	}

	var req CycleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "unable to parse body")
		return
	}

	id, err := h.cycles.CreateMicrocycle(r.Context(), caller, mesocycleID, req.StartTime, req.EndTime)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, CreatedResponse{ID: id})
}

func (h *Handler) updateMicrocycle(w http.ResponseWriter, r *http.Request, id string) {
	caller, ok := h.writeCaller(w, r, auth.ScopeActivitiesWrite)
	if !ok {
		return
	}

	var req CycleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "unable to parse body")
		return
	}

	if err := h.cycles.UpdateMicrocycle(r.Context(), caller, id, req.StartTime, req.EndTime); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) removeMicrocycle(w http.ResponseWriter, r *http.Request, id string) {
	caller, ok := h.writeCaller(w, r, auth.ScopeActivitiesWrite)
	if !ok {
		return
	}

	if err := h.cycles.RemoveMicrocycle(r.Context(), caller, id); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) listGymExercises(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "unsupported method")
		return
	}
	caller, ok := h.readCaller(w, r)
	if !ok {
		return
	}

	category := r.URL.Query().Get("category")
	exercises, err := h.catalog.ListGymExercises(r.Context(), caller, category)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	items := make([]GymExerciseView, 0, len(exercises))
	for _, ex := range exercises {
		items = append(items, GymExerciseView{ID: ex.ID, Name: ex.Name, Category: ex.Category, URL: ex.URL})
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"items": items})
}

func (h *Handler) listWaterManeuvers(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "unsupported method")
		return
	}
	caller, ok := h.readCaller(w, r)
	if !ok {
		return
	}

	maneuvers, err := h.catalog.ListWaterManeuvers(r.Context(), caller)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	items := make([]WaterManeuverView, 0, len(maneuvers))
	for _, m := range maneuvers {
		items = append(items, WaterManeuverView{ID: m.ID, Name: m.Name, URL: m.URL})
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"items": items})
}

// readCaller resolves claims and enforces a read scope.
func (h *Handler) readCaller(w http.ResponseWriter, r *http.Request) (domain.Caller, bool) {
	claims, ok := auth.FromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "missing bearer token")
		return domain.Caller{}, false
	}
	if !claims.HasScope(auth.ScopeActivitiesRead) && !claims.HasScope(auth.ScopeActivitiesWrite) {
		writeError(w, http.StatusForbidden, "forbidden", "scope activities:read required")
		return domain.Caller{}, false
	}
	return domain.Caller{ID: claims.Subject, Coach: claims.Coach}, true
}

// writeCaller resolves claims and enforces the given write scope.
func (h *Handler) writeCaller(w http.ResponseWriter, r *http.Request, scope string) (domain.Caller, bool) {
	claims, ok := auth.FromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "missing bearer token")
		return domain.Caller{}, false
	}
	if !claims.HasScope(scope) {
		writeError(w, http.StatusForbidden, "forbidden", "scope "+scope+" required")
		return domain.Caller{}, false
	}
	return domain.Caller{ID: claims.Subject, Coach: claims.Coach}, true
}

// splitPath peels "{id}" and the remaining subpath off an URL after prefix.
func splitPath(path, prefix string) (id, rest string) {
	trimmed := strings.TrimPrefix(path, prefix)
	trimmed = strings.TrimSuffix(trimmed, "/")
	if trimmed == "" {
		return "", ""
	}
	parts := strings.SplitN(trimmed, "/", 2)
	if len(parts) == 1 {
		return parts[0], ""
	}
	return parts[0], parts[1]
}

func writeDomainError(w http.ResponseWriter, err error) {
	status, code := errorStatus(err)
	writeError(w, status, code, err.Error())
}

// errorStatus maps domain sentinels to HTTP statuses. Unknown errors are
// treated as internal.
func errorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrUserIsNotACoach),
		errors.Is(err, domain.ErrNotAthletesCoach):
		return http.StatusForbidden, "forbidden"
	case errors.Is(err, domain.ErrAthleteNotFound),
		errors.Is(err, domain.ErrActivityNotFound),
		errors.Is(err, domain.ErrExerciseNotFound),
		errors.Is(err, domain.ErrSetNotFound),
		errors.Is(err, domain.ErrWaveNotFound),
		errors.Is(err, domain.ErrManeuverNotFound),
		errors.Is(err, domain.ErrCompetitionNotFound),
		errors.Is(err, domain.ErrHeatNotFound),
		errors.Is(err, domain.ErrCycleNotFound):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, domain.ErrNameAlreadyExists),
		errors.Is(err, domain.ErrCycleOverlap),
		errors.Is(err, domain.ErrCycleNotContained),
		errors.Is(err, domain.ErrCycleLocked),
		errors.Is(err, domain.ErrHeatOwnedActivity):
		return http.StatusConflict, "conflict"
	case errors.Is(err, domain.ErrNotGymActivity),
		errors.Is(err, domain.ErrNotWaterActivity),
		errors.Is(err, domain.ErrNotActivityExercise),
		errors.Is(err, domain.ErrNotExerciseSet),
		errors.Is(err, domain.ErrNotActivityWave),
		errors.Is(err, domain.ErrNotWaveManeuver),
		errors.Is(err, domain.ErrNotCompetitionHeat),
		errors.Is(err, domain.ErrActivityWithoutMicrocycle),
		errors.Is(err, domain.ErrInvalidDate),
		errors.Is(err, domain.ErrInvalidName),
		errors.Is(err, domain.ErrInvalidCategory),
		errors.Is(err, domain.ErrInvalidSet),
		errors.Is(err, domain.ErrInvalidOrder),
		errors.Is(err, domain.ErrInvalidRPE),
		errors.Is(err, domain.ErrInvalidTRIMP),
		errors.Is(err, domain.ErrInvalidDuration),
		errors.Is(err, domain.ErrInvalidQuestionnaire),
		errors.Is(err, domain.ErrInvalidScore),
		errors.Is(err, domain.ErrInvalidPlace),
		errors.Is(err, domain.ErrInvalidPoints),
		errors.Is(err, domain.ErrInvalidGymExercise),
		errors.Is(err, domain.ErrInvalidWaterManeuver):
		return http.StatusBadRequest, "validation_failed"
	default:
		return http.StatusInternalServerError, "server_error"
	}
}

// recordOutcome counts a reconciliation attempt for the metric family.
func recordOutcome(aggregate string, err error) {
	outcome := "ok"
	if err != nil {
		if status, _ := errorStatus(err); status == http.StatusInternalServerError {
			outcome = "failed"
		} else {
			outcome = "rejected"
		}
	}
	observability.RecordReconcile(aggregate, outcome)
}

func writeError(w http.ResponseWriter, status int, code, detail string) {
	payload := map[string]string{
		"type":   code,
		"detail": detail,
	}
	writeJSON(w, status, payload)
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

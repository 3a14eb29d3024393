package api

import (
	"encoding/json"
	"net/http"

	"github.com/tiagocanilhas/WaveCoach-sub000/internal/auth"
	"github.com/tiagocanilhas/WaveCoach-sub000/internal/domain"
)

func (h *Handler) createGymActivity(w http.ResponseWriter, r *http.Request, athleteID string) {
	caller, ok := h.writeCaller(w, r, auth.ScopeActivitiesWrite)
	if !ok {
		return
	}

	var req CreateGymActivityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "unable to parse body")
		return
	}

	id, err := h.gym.CreateGymActivity(r.Context(), caller, athleteID, req.Date, exerciseInputs(req.Exercises))
	recordOutcome("gym_activity", err)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, CreatedResponse{ID: id})
}

func (h *Handler) gymActivityByID(w http.ResponseWriter, r *http.Request) {
	id, rest := splitPath(r.URL.Path, "/v1/gym-activities/")
	if id == "" || rest != "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "missing activity id")
		return
	}

	switch r.Method {
	case http.MethodGet:
		h.getGymActivity(w, r, id)
	case http.MethodPatch:
		h.updateGymActivity(w, r, id)
	case http.MethodDelete:
		h.removeGymActivity(w, r, id)
	default:
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "unsupported method")
	}
}

func (h *Handler) getGymActivity(w http.ResponseWriter, r *http.Request, id string) {
	caller, ok := h.readCaller(w, r)
	if !ok {
		return
	}

	activity, err := h.gym.GetGymActivity(r.Context(), caller, id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toGymActivityView(*activity))
}

func (h *Handler) updateGymActivity(w http.ResponseWriter, r *http.Request, id string) {
	caller, ok := h.writeCaller(w, r, auth.ScopeActivitiesWrite)
	if !ok {
		return
	}

	var req UpdateGymActivityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "unable to parse body")
		return
	}

	patch := domain.GymActivityPatch{Date: req.Date, Exercises: exercisePatches(req.Exercises)}
	err := h.gym.UpdateGymActivity(r.Context(), caller, id, patch)
	recordOutcome("gym_activity", err)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) removeGymActivity(w http.ResponseWriter, r *http.Request, id string) {
	caller, ok := h.writeCaller(w, r, auth.ScopeActivitiesWrite)
	if !ok {
		return
	}

	err := h.gym.RemoveGymActivity(r.Context(), caller, id)
	recordOutcome("gym_activity", err)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) createWaterActivity(w http.ResponseWriter, r *http.Request, athleteID string) {
	caller, ok := h.writeCaller(w, r, auth.ScopeActivitiesWrite)
	if !ok {
		return
	}

	var req CreateWaterActivityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "unable to parse body")
		return
	}

	in := domain.CreateWaterActivityInput{
		Date:         req.Date,
		RPE:          req.RPE,
		Condition:    req.Condition,
		TRIMP:        req.TRIMP,
		Duration:     req.Duration,
		SleepQuality: req.SleepQuality,
		Fatigue:      req.Fatigue,
		Stress:       req.Stress,
		MusclePain:   req.MusclePain,
		Waves:        waveInputs(req.Waves),
	}
	id, err := h.water.CreateWaterActivity(r.Context(), caller, athleteID, in)
	recordOutcome("water_activity", err)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, CreatedResponse{ID: id})
}

func (h *Handler) waterActivityByID(w http.ResponseWriter, r *http.Request) {
	id, rest := splitPath(r.URL.Path, "/v1/water-activities/")
	if id == "" || rest != "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "missing activity id")
		return
	}

	switch r.Method {
	case http.MethodGet:
		h.getWaterActivity(w, r, id)
	case http.MethodPatch:
		h.updateWaterActivity(w, r, id)
	case http.MethodDelete:
		h.removeWaterActivity(w, r, id)
	default:
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "unsupported method")
	}
}

func (h *Handler) getWaterActivity(w http.ResponseWriter, r *http.Request, id string) {
	caller, ok := h.readCaller(w, r)
	if !ok {
		return
	}

	activity, err := h.water.GetWaterActivity(r.Context(), caller, id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toWaterActivityView(*activity))
}

func (h *Handler) updateWaterActivity(w http.ResponseWriter, r *http.Request, id string) {
	caller, ok := h.writeCaller(w, r, auth.ScopeActivitiesWrite)
	if !ok {
		return
	}

	var req UpdateWaterActivityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "unable to parse body")
		return
	}

	err := h.water.UpdateWaterActivity(r.Context(), caller, id, waterPatch(req))
	recordOutcome("water_activity", err)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) removeWaterActivity(w http.ResponseWriter, r *http.Request, id string) {
	caller, ok := h.writeCaller(w, r, auth.ScopeActivitiesWrite)
	if !ok {
		return
	}

	err := h.water.RemoveWaterActivity(r.Context(), caller, id)
	recordOutcome("water_activity", err)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) createCompetition(w http.ResponseWriter, r *http.Request, athleteID string) {
	caller, ok := h.writeCaller(w, r, auth.ScopeActivitiesWrite)
	if !ok {
		return
	}

	var req CreateCompetitionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "unable to parse body")
		return
	}

	in := domain.CreateCompetitionInput{
		Date:     req.Date,
		Location: req.Location,
		Place:    req.Place,
		Name:     req.Name,
		Heats:    heatInputs(req.Heats),
	}
	id, err := h.competitions.CreateCompetition(r.Context(), caller, athleteID, in)
	recordOutcome("competition", err)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, CreatedResponse{ID: id})
}

func (h *Handler) competitionByID(w http.ResponseWriter, r *http.Request) {
	id, rest := splitPath(r.URL.Path, "/v1/competitions/")
	if id == "" || rest != "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "missing competition id")
		return
	}

	switch r.Method {
	case http.MethodGet:
		h.getCompetition(w, r, id)
	case http.MethodPatch:
		h.updateCompetition(w, r, id)
	case http.MethodDelete:
		h.removeCompetition(w, r, id)
	default:
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "unsupported method")
	}
}

func (h *Handler) getCompetition(w http.ResponseWriter, r *http.Request, id string) {
	caller, ok := h.readCaller(w, r)
	if !ok {
		return
	}

	competition, err := h.competitions.GetCompetition(r.Context(), caller, id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toCompetitionView(*competition))
}

func (h *Handler) updateCompetition(w http.ResponseWriter, r *http.Request, id string) {
	caller, ok := h.writeCaller(w, r, auth.ScopeActivitiesWrite)
	if !ok {
		return
	}

	var req UpdateCompetitionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "unable to parse body")
		return
	}

	patch := domain.CompetitionPatch{
		Date:     req.Date,
		Location: req.Location,
		Place:    req.Place,
		Name:     req.Name,
		Heats:    heatPatches(req.Heats),
	}
	err := h.competitions.UpdateCompetition(r.Context(), caller, id, patch)
	recordOutcome("competition", err)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) removeCompetition(w http.ResponseWriter, r *http.Request, id string) {
	caller, ok := h.writeCaller(w, r, auth.ScopeActivitiesWrite)
	if !ok {
		return
	}

	err := h.competitions.RemoveCompetition(r.Context(), caller, id)
	recordOutcome("competition", err)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tiagocanilhas/WaveCoach-sub000/internal/auth"
	"github.com/tiagocanilhas/WaveCoach-sub000/internal/domain"
	"github.com/tiagocanilhas/WaveCoach-sub000/internal/persistence/memory"
)

func newTestMux(t *testing.T) (*memory.Store, *http.ServeMux) {
	t.Helper()
	store := memory.NewStore()
	store.SeedGymExercise(domain.GymExercise{ID: 1, Name: "back squat", Category: "legs"})
	store.SeedWaterManeuver(domain.WaterManeuver{ID: 1, Name: "cutback"})

	mux := http.NewServeMux()
	NewHandler(store).RegisterRoutes(mux)
	return store, mux
}

func coachClaims() *auth.Claims {
	return &auth.Claims{
		Subject: "coach-1",
		Coach:   true,
		Scopes: map[string]struct{}{
			auth.ScopeAthletesWrite:   {},
			auth.ScopeActivitiesWrite: {},
			auth.ScopeActivitiesRead:  {},
		},
	}
}

func do(t *testing.T, mux *http.ServeMux, claims *auth.Claims, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if claims != nil {
		req = req.WithContext(auth.WithClaims(req.Context(), claims))
	}
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

func createdID(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var resp CreatedResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.ID)
	return resp.ID
}

// seedAthleteWithCycles drives the seeding through the HTTP surface.
func seedAthleteWithCycles(t *testing.T, mux *http.ServeMux) (athleteID, mesoID, microID string) {
	t.Helper()
	claims := coachClaims()

	athleteID = createdID(t, do(t, mux, claims, http.MethodPost, "/v1/athletes", CreateAthleteRequest{
		Name:      "Kai",
		BirthDate: "10-03-2001",
	}))
	mesoID = createdID(t, do(t, mux, claims, http.MethodPost, "/v1/athletes/"+athleteID+"/mesocycles", CycleRequest{
		StartTime: "01-06-2025",
		EndTime:   "01-07-2025",
	}))
	microID = createdID(t, do(t, mux, claims, http.MethodPost, "/v1/mesocycles/"+mesoID+"/microcycles", CycleRequest{
		StartTime: "01-06-2025",
		EndTime:   "15-06-2025",
	}))
	return athleteID, mesoID, microID
}

func TestCreateAndGetAthlete(t *testing.T) {
	_, mux := newTestMux(t)
	claims := coachClaims()

	id := createdID(t, do(t, mux, claims, http.MethodPost, "/v1/athletes", CreateAthleteRequest{
		Name:      "Kai",
		BirthDate: "10-03-2001",
	}))

	rec := do(t, mux, claims, http.MethodGet, "/v1/athletes/"+id, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var view AthleteView
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &view))
	require.Equal(t, "Kai", view.Name)
	require.Equal(t, "10-03-2001", view.BirthDate)
	require.Equal(t, "coach-1", view.CoachID)

	rec = do(t, mux, claims, http.MethodGet, "/v1/athletes", nil)
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestAuthBoundaries(t *testing.T) {
	_, mux := newTestMux(t)

	body := CreateAthleteRequest{Name: "Kai", BirthDate: "10-03-2001"}

	// No claims in context at all.
	rec := do(t, mux, nil, http.MethodPost, "/v1/athletes", body)
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	// Authenticated but missing the write scope.
	readonly := &auth.Claims{
		Subject: "coach-1",
		Coach:   true,
		Scopes:  map[string]struct{}{auth.ScopeActivitiesRead: {}},
	}
	rec = do(t, mux, readonly, http.MethodPost, "/v1/athletes", body)
	require.Equal(t, http.StatusForbidden, rec.Code)

	// Scoped but not a coach: the domain rejects it.
	athlete := coachClaims()
	athlete.Coach = false
	rec = do(t, mux, athlete, http.MethodPost, "/v1/athletes", body)
	require.Equal(t, http.StatusForbidden, rec.Code)
}

func TestCalendarEndpoint(t *testing.T) {
	_, mux := newTestMux(t)
	claims := coachClaims()
	athleteID, mesoID, microID := seedAthleteWithCycles(t, mux)

	rec := do(t, mux, claims, http.MethodGet, "/v1/athletes/"+athleteID+"/calendar", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var calendar CalendarView
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &calendar))
	require.Equal(t, athleteID, calendar.AthleteID)
	require.Len(t, calendar.Mesocycles, 1)
	require.Equal(t, mesoID, calendar.Mesocycles[0].ID)
	require.Len(t, calendar.Mesocycles[0].Microcycles, 1)
	require.Equal(t, microID, calendar.Mesocycles[0].Microcycles[0].ID)
}

func TestGymActivityFlow(t *testing.T) {
	_, mux := newTestMux(t)
	claims := coachClaims()
	athleteID, _, microID := seedAthleteWithCycles(t, mux)

	id := createdID(t, do(t, mux, claims, http.MethodPost, "/v1/athletes/"+athleteID+"/gym-activities", CreateGymActivityRequest{
		Date: "05-06-2025",
		Exercises: []ExerciseBody{
			{GymExerciseID: ptrInt64(1), Sets: []SetBody{
				{Reps: ptrInt(10), Weight: ptrFloat(60), RestTime: ptrInt(90)},
			}},
		},
	}))

	rec := do(t, mux, claims, http.MethodGet, "/v1/gym-activities/"+id, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var view GymActivityView
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &view))
	require.Equal(t, microID, view.MicrocycleID)
	require.Equal(t, "05-06-2025", view.Date)
	require.Len(t, view.Exercises, 1)
	require.Len(t, view.Exercises[0].Sets, 1)

	// Partial update: bump the only set.
	setID := view.Exercises[0].Sets[0].ID
	exID := view.Exercises[0].ID
	rec = do(t, mux, claims, http.MethodPatch, "/v1/gym-activities/"+id, UpdateGymActivityRequest{
		Exercises: []ExerciseBody{
			{ID: &exID, Sets: []SetBody{{ID: &setID, Reps: ptrInt(12)}}},
		},
	})
	require.Equal(t, http.StatusNoContent, rec.Code, rec.Body.String())

	rec = do(t, mux, claims, http.MethodGet, "/v1/gym-activities/"+id, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &view))
	require.Equal(t, 12, view.Exercises[0].Sets[0].Reps)

	rec = do(t, mux, claims, http.MethodDelete, "/v1/gym-activities/"+id, nil)
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = do(t, mux, claims, http.MethodGet, "/v1/gym-activities/"+id, nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestWaterActivityFlow(t *testing.T) {
	_, mux := newTestMux(t)
	claims := coachClaims()
	athleteID, _, _ := seedAthleteWithCycles(t, mux)

	id := createdID(t, do(t, mux, claims, http.MethodPost, "/v1/athletes/"+athleteID+"/water-activities", CreateWaterActivityRequest{
		Date:         "05-06-2025",
		RPE:          6,
		Condition:    "clean 3ft",
		TRIMP:        80,
		Duration:     60,
		SleepQuality: 4,
		Fatigue:      2,
		Stress:       1,
		MusclePain:   2,
		Waves: []WaveBody{
			{RightSide: ptrBool(true), Maneuvers: []ManeuverBody{
				{WaterManeuverID: ptrInt64(1), Success: ptrBool(true)},
			}},
		},
	}))

	rec := do(t, mux, claims, http.MethodGet, "/v1/water-activities/"+id, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var view WaterActivityView
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &view))
	require.Equal(t, 6, view.RPE)
	require.Len(t, view.Waves, 1)
	require.Len(t, view.Waves[0].Maneuvers, 1)

	rec = do(t, mux, claims, http.MethodPatch, "/v1/water-activities/"+id, UpdateWaterActivityRequest{
		RPE: ptrInt(9),
	})
	require.Equal(t, http.StatusNoContent, rec.Code, rec.Body.String())
}

func TestErrorMapping(t *testing.T) {
	_, mux := newTestMux(t)
	claims := coachClaims()
	athleteID, mesoID, _ := seedAthleteWithCycles(t, mux)

	// Unknown activity id.
	rec := do(t, mux, claims, http.MethodGet, "/v1/gym-activities/nope", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)

	// Duplicate athlete name for the same coach.
	rec = do(t, mux, claims, http.MethodPost, "/v1/athletes", CreateAthleteRequest{
		Name:      "Kai",
		BirthDate: "10-03-2001",
	})
	require.Equal(t, http.StatusConflict, rec.Code)

	// Overlapping mesocycle.
	rec = do(t, mux, claims, http.MethodPost, "/v1/athletes/"+athleteID+"/mesocycles", CycleRequest{
		StartTime: "15-06-2025",
		EndTime:   "15-07-2025",
	})
	require.Equal(t, http.StatusConflict, rec.Code)

	// Activity date outside every microcycle.
	rec = do(t, mux, claims, http.MethodPost, "/v1/athletes/"+athleteID+"/gym-activities", CreateGymActivityRequest{
		Date: "20-06-2025",
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, "validation_failed", body["type"])

	// Garbage date format.
	rec = do(t, mux, claims, http.MethodPost, "/v1/athletes/"+athleteID+"/mesocycles", CycleRequest{
		StartTime: "2025-06-01",
		EndTime:   "2025-07-01",
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)

	// Deleting a locked microcycle.
	_ = createdID(t, do(t, mux, claims, http.MethodPost, "/v1/athletes/"+athleteID+"/gym-activities", CreateGymActivityRequest{
		Date: "05-06-2025",
	}))
	rec = do(t, mux, claims, http.MethodDelete, "/v1/mesocycles/"+mesoID, nil)
	require.Equal(t, http.StatusConflict, rec.Code)
}

func TestCompetitionFlow(t *testing.T) {
	_, mux := newTestMux(t)
	claims := coachClaims()
	athleteID, _, _ := seedAthleteWithCycles(t, mux)

	id := createdID(t, do(t, mux, claims, http.MethodPost, "/v1/athletes/"+athleteID+"/competitions", CreateCompetitionRequest{
		Date:     "05-06-2025",
		Location: "Supertubos",
		Place:    2,
		Name:     "Regional Open",
		Heats: []HeatBody{
			{Score: 12.5, Water: WaterSessionBody{
				RPE: 7, Condition: "offshore 4ft", TRIMP: 95, Duration: 25,
				SleepQuality: 3, Fatigue: 3, Stress: 2, MusclePain: 2,
			}},
		},
	}))

	rec := do(t, mux, claims, http.MethodGet, "/v1/competitions/"+id, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var view CompetitionView
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &view))
	require.Equal(t, "Regional Open", view.Name)
	require.Len(t, view.Heats, 1)
	require.Equal(t, 12.5, view.Heats[0].Score)

	rec = do(t, mux, claims, http.MethodPatch, "/v1/competitions/"+id, UpdateCompetitionRequest{
		Place: ptrInt(1),
	})
	require.Equal(t, http.StatusNoContent, rec.Code, rec.Body.String())

	rec = do(t, mux, claims, http.MethodDelete, "/v1/competitions/"+id, nil)
	require.Equal(t, http.StatusNoContent, rec.Code)
}

func TestCatalogEndpoints(t *testing.T) {
	_, mux := newTestMux(t)
	claims := coachClaims()

	rec := do(t, mux, claims, http.MethodGet, "/v1/gym-exercises?category=legs", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, mux, claims, http.MethodGet, "/v1/water-maneuvers", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, mux, claims, http.MethodGet, "/v1/gym-exercises?category=swimming", nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func ptrInt(v int) *int { return &v }

func ptrInt64(v int64) *int64 { return &v }

func ptrFloat(v float64) *float64 { return &v }

func ptrBool(v bool) *bool { return &v }

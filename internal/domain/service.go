package domain

import (
	"context"
	"encoding/json"
	"fmt"
)

// authorizeAthlete runs the shared authorization step: the caller must be
// a coach and must own the athlete.
func authorizeAthlete(ctx context.Context, store Store, caller Caller, athleteID string) (*Athlete, error) {
	if !caller.Coach {
		return nil, ErrUserIsNotACoach
	}
	athlete, err := store.AthleteByID(ctx, athleteID)
	if err != nil {
		return nil, err
	}
	if athlete == nil {
		return nil, ErrAthleteNotFound
	}
	if athlete.CoachID != caller.ID {
		return nil, ErrNotAthletesCoach
	}
	return athlete, nil
}

// newEvent builds an outbox row for a committed reconciliation.
func newEvent(aggregateType, aggregateID, eventType string, payload any) (Event, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return Event{}, fmt.Errorf("encode %s event: %w", eventType, err)
	}
	return Event{
		AggregateType: aggregateType,
		AggregateID:   aggregateID,
		EventType:     eventType,
		Payload:       body,
	}, nil
}

// reconciledEvent is the payload shared by activity and competition events.
type reconciledEvent struct {
	AthleteID string `json:"athlete_id"`
	Created   int    `json:"created"`
	Updated   int    `json:"updated"`
	Deleted   int    `json:"deleted"`
}

package main

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"campushub/internal/models"
	"campushub/internal/session"
	"campushub/internal/transport"
)

type schoolAdmin struct{}

func (schoolAdmin) CurrentUser() (session.User, bool) {
	return session.User{ID: 1, Role: models.RoleSchoolAdmin, SchoolID: 42}, true
}

type cannedAPI map[string]any

func (a cannedAPI) Do(_ context.Context, _, path string, _ any) (*transport.Envelope, error) {
	for prefix, data := range a {
		if strings.HasPrefix(path, prefix+"/") {
			raw, err := json.Marshal(data)
			if err != nil {
				return nil, err
			}
			return &transport.Envelope{Success: true, Data: raw}, nil
		}
	}
	return &transport.Envelope{Success: true, Data: json.RawMessage("[]")}, nil
}

func TestWriteReport(t *testing.T) {
	route := models.Route{Model: models.Model{ID: 1}, Name: "North Loop", Fare: 2, EstimateTimeMinute: 30}
	vehicle := models.Vehicle{Model: models.Model{ID: 7}, PlateNumber: "KBX 123A", Type: models.VehicleTypeBus}
	vid := vehicle.ID

	api := cannedAPI{
		transport.ResourceRoute:   []models.Route{route},
		transport.ResourceVehicle: []models.Vehicle{vehicle},
		transport.ResourceEHailing: []models.EHailing{
			{Model: models.Model{ID: 1}, RouteID: 1, Route: &route, VehicleID: &vid, Vehicle: &vehicle, Status: models.EHailingCompleted},
			{Model: models.Model{ID: 2}, RouteID: 1, Route: &route, Status: models.EHailingWaiting},
		},
		transport.ResourceBusSchedule: []map[string]any{{
			"id":           3,
			"vehicle_id":   7,
			"day_of_week":  1,
			"route_timing": []map[string]any{{"route_id": 1, "start_time": "08:00", "end_time": "08:30"}},
		}},
	}

	store := transport.NewStore(api, schoolAdmin{})
	if msg := store.Refresh(context.Background()); msg != "" {
		t.Fatalf("Refresh: %s", msg)
	}

	var buf bytes.Buffer
	if err := writeReport(&buf, store); err != nil {
		t.Fatalf("writeReport: %v", err)
	}
	out := buf.String()

	for _, want := range []string{
		"Requests",
		"4.00",
		"50.0%",
		"North Loop",
		"KBX 123A",
		"Completed",
		"Waiting",
		"Monday",
		"KBX 123A (Bus)",
		"8:00 AM",
		"8:30 AM",
		"30 min",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("report missing %q:\n%s", want, out)
		}
	}
}

// Package transport is the client-side cache and CRUD gateway for the
// transportation resources of the CampusHub API.
package transport

import (
	"context"

	"campushub/internal/labels"
	"campushub/internal/models"
	"campushub/internal/session"
)

const (
	ResourceStop        = "/api/stop"
	ResourceRoute       = "/api/route"
	ResourceVehicle     = "/api/vehicle"
	ResourceBusSchedule = "/api/bus-schedule"
	ResourceEHailing    = "/api/e-hailing"
)

// Store holds one collection per transportation resource. Build it once per
// signed-in client and share it.
type Store struct {
	Stops        *Collection[models.Stop]
	Routes       *Collection[models.Route]
	Vehicles     *Collection[models.Vehicle]
	BusSchedules *Collection[models.BusSchedule]
	EHailings    *Collection[models.EHailing]

	Labels *labels.Labeler
}

func NewStore(api APIClient, sess session.Provider) *Store {
	return &Store{
		Stops:        NewCollection[models.Stop](ResourceStop, api, sess),
		Routes:       NewCollection[models.Route](ResourceRoute, api, sess),
		Vehicles:     NewCollection[models.Vehicle](ResourceVehicle, api, sess),
		BusSchedules: NewCollection[models.BusSchedule](ResourceBusSchedule, api, sess),
		EHailings:    NewCollection[models.EHailing](ResourceEHailing, api, sess),
		Labels:       labels.New(),
	}
}

// Refresh fetches every collection in turn and returns the first failure
// message, or "" when all succeeded.
func (s *Store) Refresh(ctx context.Context) string {
	var first string
	note := func(ok bool, msg string) {
		if !ok && first == "" {
			first = msg
		}
	}
	r1 := s.Stops.Fetch(ctx, nil)
	note(r1.Success, r1.Message)
	r2 := s.Routes.Fetch(ctx, nil)
	note(r2.Success, r2.Message)
	r3 := s.Vehicles.Fetch(ctx, nil)
	note(r3.Success, r3.Message)
	r4 := s.BusSchedules.Fetch(ctx, nil)
	note(r4.Success, r4.Message)
	r5 := s.EHailings.Fetch(ctx, nil)
	note(r5.Success, r5.Message)
	return first
}

// Reset drops all cached data and labels, for logout or a tenant switch.
func (s *Store) Reset() {
	s.Stops.Reset()
	s.Routes.Reset()
	s.Vehicles.Reset()
	s.BusSchedules.Reset()
	s.EHailings.Reset()
	s.Labels.Clear()
}

// RouteByID satisfies schedule.RouteLookup from the local routes.
func (s *Store) RouteByID(id uint) (models.Route, bool) {
	return s.Routes.Get(id)
}

package transport

import (
	"context"
	"encoding/json"
	"sync"
	"testing"

	"campushub/internal/models"
	"campushub/internal/session"
)

type request struct {
	method string
	path   string
	body   any
}

type fakeAPI struct {
	mu     sync.Mutex
	calls  []request
	DoFunc func(ctx context.Context, method, path string, body any) (*Envelope, error)
}

func (f *fakeAPI) Do(ctx context.Context, method, path string, body any) (*Envelope, error) {
	f.mu.Lock()
	f.calls = append(f.calls, request{method: method, path: path, body: body})
	f.mu.Unlock()
	if f.DoFunc != nil {
		return f.DoFunc(ctx, method, path, body)
	}
	return &Envelope{Success: true}, nil
}

func (f *fakeAPI) requests() []request {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]request(nil), f.calls...)
}

type fakeSession struct {
	user session.User
	ok   bool
}

func (f fakeSession) CurrentUser() (session.User, bool) { return f.user, f.ok }

var (
	schoolAdmin  = fakeSession{user: session.User{ID: 1, Role: models.RoleSchoolAdmin, SchoolID: 42}, ok: true}
	student      = fakeSession{user: session.User{ID: 2, Role: models.RoleStudent, SchoolID: 42}, ok: true}
	companyAdmin = fakeSession{user: session.User{ID: 3, Role: models.RoleCompanyAdmin}, ok: true}
	globalAdmin  = fakeSession{user: session.User{ID: 4, Role: models.RoleAdmin}, ok: true}
	signedOut    = fakeSession{}
)

func okEnvelope(t *testing.T, data any) *Envelope {
	t.Helper()
	raw, err := json.Marshal(data)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	return &Envelope{Success: true, Data: raw}
}

func route(id uint, name string) models.Route {
	r := models.Route{Name: name, EstimateTimeMinute: 30, Fare: 1.5}
	r.ID = id
	return r
}

func vehicle(id uint, plate string) models.Vehicle {
	v := models.Vehicle{PlateNumber: plate, Type: models.VehicleTypeBus, Capacity: 40}
	v.ID = id
	return v
}

package transport

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"sync/atomic"
	"testing"

	"campushub/internal/models"
)

func TestCollection_Fetch(t *testing.T) {
	api := &fakeAPI{}
	api.DoFunc = func(ctx context.Context, method, path string, body any) (*Envelope, error) {
		return okEnvelope(t, []models.Route{route(1, "Loop A"), route(2, "Loop B")}), nil
	}
	c := NewCollection[models.Route](ResourceRoute, api, schoolAdmin)

	res := c.Fetch(context.Background(), nil)
	if !res.Success || len(res.Data) != 2 {
		t.Fatalf("Fetch = %+v", res)
	}
	if got := api.requests()[0]; got.method != http.MethodGet || got.path != "/api/route/school/42" {
		t.Errorf("request = %+v", got)
	}
	if len(c.Items()) != 2 || c.Err() != "" || c.Loading() {
		t.Errorf("state after fetch: items=%d err=%q loading=%v", len(c.Items()), c.Err(), c.Loading())
	}
}

func TestCollection_FetchFailureKeepsItems(t *testing.T) {
	calls := 0
	api := &fakeAPI{}
	api.DoFunc = func(ctx context.Context, method, path string, body any) (*Envelope, error) {
		calls++
		if calls == 1 {
			return okEnvelope(t, []models.Route{route(1, "Loop A")}), nil
		}
		return nil, errors.New("connection refused")
	}
	c := NewCollection[models.Route](ResourceRoute, api, companyAdmin)

	c.Fetch(context.Background(), nil)
	res := c.Fetch(context.Background(), nil)
	if res.Success || res.Message != "connection refused" {
		t.Fatalf("Fetch = %+v", res)
	}
	if len(c.Items()) != 1 {
		t.Errorf("items changed on failure: %d", len(c.Items()))
	}
	if c.Err() != "connection refused" {
		t.Errorf("Err() = %q", c.Err())
	}
}

func TestCollection_Create(t *testing.T) {
	t.Run("appends exactly one entity on success", func(t *testing.T) {
		api := &fakeAPI{}
		api.DoFunc = func(ctx context.Context, method, path string, body any) (*Envelope, error) {
			if method == http.MethodGet {
				return okEnvelope(t, []models.Route{route(1, "Loop A")}), nil
			}
			return okEnvelope(t, route(9, "Express")), nil
		}
		c := NewCollection[models.Route](ResourceRoute, api, schoolAdmin)
		c.Fetch(context.Background(), nil)

		res := c.Create(context.Background(), map[string]any{"name": "Express", "estimate_time_minute": 20})
		if !res.Success || res.Data.ID != 9 {
			t.Fatalf("Create = %+v", res)
		}
		items := c.Items()
		if len(items) != 2 || items[1].ID != 9 {
			t.Fatalf("items = %+v", items)
		}

		post := api.requests()[1]
		if post.method != http.MethodPost || post.path != ResourceRoute {
			t.Errorf("request = %s %s", post.method, post.path)
		}
		body := post.body.(map[string]any)
		if body["school_id"] != uint(42) {
			t.Errorf("school_id = %#v, want 42", body["school_id"])
		}
		if body["name"] != "Express" {
			t.Errorf("name = %#v", body["name"])
		}
	})

	t.Run("server rejection leaves collection unchanged", func(t *testing.T) {
		api := &fakeAPI{}
		api.DoFunc = func(ctx context.Context, method, path string, body any) (*Envelope, error) {
			if method == http.MethodGet {
				return okEnvelope(t, []models.Route{route(1, "Loop A")}), nil
			}
			return &Envelope{Success: false, Message: "estimate_time_minute must be positive"}, nil
		}
		c := NewCollection[models.Route](ResourceRoute, api, schoolAdmin)
		c.Fetch(context.Background(), nil)

		res := c.Create(context.Background(), route(0, "Broken"))
		if res.Success || res.Message != "estimate_time_minute must be positive" {
			t.Fatalf("Create = %+v", res)
		}
		if len(c.Items()) != 1 {
			t.Errorf("items = %d, want 1", len(c.Items()))
		}
	})

	t.Run("admins send the payload untouched", func(t *testing.T) {
		api := &fakeAPI{}
		api.DoFunc = func(ctx context.Context, method, path string, body any) (*Envelope, error) {
			return okEnvelope(t, route(3, "Shuttle")), nil
		}
		c := NewCollection[models.Route](ResourceRoute, api, companyAdmin)
		payload := route(0, "Shuttle")
		c.Create(context.Background(), payload)

		if _, ok := api.requests()[0].body.(models.Route); !ok {
			t.Errorf("body type = %T, want models.Route", api.requests()[0].body)
		}
	})

	t.Run("non-object payload is rejected before sending", func(t *testing.T) {
		api := &fakeAPI{}
		c := NewCollection[models.Route](ResourceRoute, api, student)
		res := c.Create(context.Background(), []int{1, 2})
		if res.Success {
			t.Fatal("expected failure")
		}
		if len(api.requests()) != 0 {
			t.Errorf("request sent for invalid payload")
		}
	})
}

func TestCollection_Update(t *testing.T) {
	api := &fakeAPI{}
	api.DoFunc = func(ctx context.Context, method, path string, body any) (*Envelope, error) {
		if method == http.MethodGet {
			return okEnvelope(t, []models.Vehicle{vehicle(1, "B 100"), vehicle(2, "B 200")}), nil
		}
		v := vehicle(2, "B 200")
		v.Status = models.VehicleUnderMaintenance
		v.Capacity = 35
		return okEnvelope(t, v), nil
	}
	c := NewCollection[models.Vehicle](ResourceVehicle, api, companyAdmin)
	c.Fetch(context.Background(), nil)

	res := c.Update(context.Background(), 2, map[string]any{"status": "under_maintenance"})
	if !res.Success {
		t.Fatalf("Update = %+v", res)
	}
	if got := api.requests()[1]; got.method != http.MethodPut || got.path != "/api/vehicle/2" {
		t.Errorf("request = %s %s", got.method, got.path)
	}

	v2, _ := c.Get(2)
	if v2.Status != models.VehicleUnderMaintenance || v2.Capacity != 35 {
		t.Errorf("vehicle 2 not replaced with server copy: %+v", v2)
	}
	v1, _ := c.Get(1)
	if v1.PlateNumber != "B 100" || v1.Status != "" || v1.Capacity != 40 {
		t.Errorf("vehicle 1 touched: %+v", v1)
	}
}

func TestCollection_WriteWithoutDataIsAFailure(t *testing.T) {
	for _, data := range []string{"", "null"} {
		t.Run("data="+data, func(t *testing.T) {
			api := &fakeAPI{}
			api.DoFunc = func(ctx context.Context, method, path string, body any) (*Envelope, error) {
				if method == http.MethodGet {
					return okEnvelope(t, []models.Vehicle{vehicle(1, "B 100")}), nil
				}
				return &Envelope{Success: true, Data: json.RawMessage(data)}, nil
			}
			c := NewCollection[models.Vehicle](ResourceVehicle, api, companyAdmin)
			c.Fetch(context.Background(), nil)

			if res := c.Update(context.Background(), 1, map[string]any{"capacity": 30}); res.Success {
				t.Errorf("Update = %+v, want failure", res)
			}
			if v, ok := c.Get(1); !ok || v.PlateNumber != "B 100" {
				t.Errorf("Get(1) = %+v, %v after empty update", v, ok)
			}

			if res := c.Create(context.Background(), vehicle(0, "B 200")); res.Success {
				t.Errorf("Create = %+v, want failure", res)
			}
			if n := len(c.Items()); n != 1 {
				t.Errorf("items = %d, want 1", n)
			}
			if c.Err() == "" {
				t.Error("error slot not set")
			}
		})
	}
}

func TestCollection_Delete(t *testing.T) {
	failDelete := false
	api := &fakeAPI{}
	api.DoFunc = func(ctx context.Context, method, path string, body any) (*Envelope, error) {
		if method == http.MethodGet {
			return okEnvelope(t, []models.Vehicle{vehicle(1, "B 100"), vehicle(2, "B 200")}), nil
		}
		if failDelete {
			return &Envelope{Success: false, Message: "vehicle is assigned to a schedule"}, nil
		}
		return &Envelope{Success: true}, nil
	}
	c := NewCollection[models.Vehicle](ResourceVehicle, api, companyAdmin)
	c.Fetch(context.Background(), nil)

	failDelete = true
	if res := c.Delete(context.Background(), 1); res.Success {
		t.Fatal("expected failure")
	}
	if len(c.Items()) != 2 {
		t.Fatalf("items removed on failed delete")
	}

	failDelete = false
	if res := c.Delete(context.Background(), 1); !res.Success {
		t.Fatalf("Delete = %+v", res)
	}
	items := c.Items()
	if len(items) != 1 || items[0].ID != 2 {
		t.Errorf("items = %+v", items)
	}
	if got := api.requests()[2]; got.method != http.MethodDelete || got.path != "/api/vehicle/1" {
		t.Errorf("request = %s %s", got.method, got.path)
	}
}

func TestCollection_EmptyMessageGetsDefault(t *testing.T) {
	api := &fakeAPI{}
	api.DoFunc = func(ctx context.Context, method, path string, body any) (*Envelope, error) {
		return &Envelope{Success: false}, nil
	}
	c := NewCollection[models.Stop](ResourceStop, api, companyAdmin)
	res := c.Update(context.Background(), 5, map[string]any{"name": "x"})
	if res.Message != "failed to update /api/stop" {
		t.Errorf("Message = %q", res.Message)
	}
}

func TestCollection_MalformedDataIsAFailure(t *testing.T) {
	api := &fakeAPI{}
	api.DoFunc = func(ctx context.Context, method, path string, body any) (*Envelope, error) {
		return &Envelope{Success: true, Data: json.RawMessage(`{"not":"a list"}`)}, nil
	}
	c := NewCollection[models.Stop](ResourceStop, api, companyAdmin)
	if res := c.Fetch(context.Background(), nil); res.Success {
		t.Fatal("expected failure for object where list expected")
	}
	if c.Err() == "" {
		t.Error("Err() not recorded")
	}
}

// Overlapping fetches are not sequenced: the response that resolves last
// wins even when it belongs to the older request.
func TestCollection_OverlappingFetchesLastResponseWins(t *testing.T) {
	gates := []chan struct{}{make(chan struct{}), make(chan struct{})}
	started := make(chan int, 2)
	responses := [][]models.Route{
		{route(1, "stale")},
		{route(1, "fresh"), route(2, "new")},
	}
	var n int32

	api := &fakeAPI{}
	api.DoFunc = func(ctx context.Context, method, path string, body any) (*Envelope, error) {
		i := int(atomic.AddInt32(&n, 1) - 1)
		started <- i
		<-gates[i]
		return okEnvelope(t, responses[i]), nil
	}
	c := NewCollection[models.Route](ResourceRoute, api, companyAdmin)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() { defer wg.Done(); c.Fetch(context.Background(), nil) }()
	<-started

	second := make(chan struct{})
	go func() { defer close(second); c.Fetch(context.Background(), nil) }()
	<-started

	if !c.Loading() {
		t.Error("Loading() = false with two fetches in flight")
	}

	close(gates[1])
	<-second
	if items := c.Items(); len(items) != 2 {
		t.Fatalf("after newer response: %+v", items)
	}

	close(gates[0])
	wg.Wait()
	items := c.Items()
	if len(items) != 1 || items[0].Name != "stale" {
		t.Errorf("after older response: %+v", items)
	}
	if c.Loading() {
		t.Error("Loading() = true after both fetches finished")
	}
}

package analytics

import (
	"math"
	"testing"

	"campushub/internal/models"
)

func req(status models.EHailingStatus, r *models.Route, v *models.Vehicle) models.EHailing {
	e := models.EHailing{Status: status, Route: r, Vehicle: v}
	if r != nil {
		e.RouteID = r.ID
	}
	return e
}

func fixtures() []models.EHailing {
	loop := &models.Route{Name: "Loop", Fare: 2, EstimateTimeMinute: 20}
	loop.ID = 1
	express := &models.Route{Name: "Express", Fare: 5, EstimateTimeMinute: 40}
	express.ID = 2
	bus := &models.Vehicle{PlateNumber: "B 100"}
	bus.ID = 7

	return []models.EHailing{
		req(models.EHailingCompleted, loop, bus),
		req(models.EHailingCompleted, loop, bus),
		req(models.EHailingWaiting, loop, nil),
		req(models.EHailingCancelled, express, bus),
		req(models.EHailingCompleted, nil, nil),
	}
}

func near(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func TestRouteUsage(t *testing.T) {
	got := RouteUsage(fixtures())
	if len(got) != 3 {
		t.Fatalf("buckets = %+v", got)
	}
	if got[0].Name != "Loop" || got[0].Count != 3 || !near(got[0].AvgFare, 2) || !near(got[0].AvgEstimateMins, 20) {
		t.Errorf("top bucket = %+v", got[0])
	}

	var unknown *RouteStat
	for i := range got {
		if got[i].Name == Unknown {
			unknown = &got[i]
		}
	}
	if unknown == nil || unknown.Count != 1 || unknown.AvgFare != 0 || unknown.AvgEstimateMins != 0 {
		t.Errorf("unknown bucket = %+v", unknown)
	}
}

func TestVehicleUsage(t *testing.T) {
	got := VehicleUsage(fixtures())
	if len(got) != 2 {
		t.Fatalf("buckets = %+v", got)
	}
	if got[0].PlateNumber != "B 100" || got[0].Count != 3 || !near(got[0].AvgFare, 3) {
		t.Errorf("bus bucket = %+v", got[0])
	}
	if got[1].PlateNumber != Unknown || got[1].Count != 2 || !near(got[1].AvgFare, 1) {
		t.Errorf("unknown bucket = %+v", got[1])
	}
}

func TestStatusDistribution(t *testing.T) {
	tests := []struct {
		name string
		reqs []models.EHailing
	}{
		{"mixed", fixtures()},
		{"thirds", []models.EHailing{
			{Status: models.EHailingWaiting},
			{Status: models.EHailingDelayed},
			{Status: models.EHailingInProgress},
		}},
		{"single", []models.EHailing{{Status: models.EHailingCancelled}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := StatusDistribution(tt.reqs)
			var sum float64
			count := 0
			for i, s := range got {
				sum += s.Percentage
				count += s.Count
				if i > 0 && got[i-1].Count < s.Count {
					t.Errorf("not sorted by count: %+v", got)
				}
			}
			if math.Abs(sum-100) > 0.01 {
				t.Errorf("percentages sum to %v", sum)
			}
			if count != len(tt.reqs) {
				t.Errorf("counts sum to %d, want %d", count, len(tt.reqs))
			}
		})
	}

	if got := StatusDistribution(nil); len(got) != 0 {
		t.Errorf("empty input = %+v", got)
	}
}

func TestSummarize(t *testing.T) {
	got := Summarize(fixtures())
	want := Summary{Total: 5, TotalFare: 11, AvgFare: 2.2, AvgEstimateMins: 20, CompletionRate: 60}
	if got.Total != want.Total || !near(got.TotalFare, want.TotalFare) || !near(got.AvgFare, want.AvgFare) ||
		!near(got.AvgEstimateMins, want.AvgEstimateMins) || !near(got.CompletionRate, want.CompletionRate) {
		t.Errorf("Summarize = %+v, want %+v", got, want)
	}

	if got := Summarize(nil); got != (Summary{}) {
		t.Errorf("Summarize(nil) = %+v", got)
	}
}

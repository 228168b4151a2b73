// Package analytics aggregates e-hailing requests into usage reports.
// Every function is pure and recomputes from the slice it is given.
package analytics

import (
	"sort"

	"campushub/internal/models"
)

// Unknown names the bucket for requests whose route or vehicle is missing.
const Unknown = "Unknown"

type RouteStat struct {
	RouteID         uint    `json:"route_id"`
	Name            string  `json:"name"`
	Count           int     `json:"count"`
	AvgFare         float64 `json:"avg_fare"`
	AvgEstimateMins float64 `json:"avg_estimate_minutes"`
}

type VehicleStat struct {
	VehicleID   uint    `json:"vehicle_id"`
	PlateNumber string  `json:"plate_number"`
	Count       int     `json:"count"`
	AvgFare     float64 `json:"avg_fare"`
}

type StatusStat struct {
	Status     models.EHailingStatus `json:"status"`
	Count      int                   `json:"count"`
	Percentage float64               `json:"percentage"`
}

type Summary struct {
	Total           int     `json:"total"`
	TotalFare       float64 `json:"total_fare"`
	AvgFare         float64 `json:"avg_fare"`
	AvgEstimateMins float64 `json:"avg_estimate_minutes"`
	CompletionRate  float64 `json:"completion_rate"`
}

func fareOf(r models.EHailing) float64 {
	if r.Route == nil {
		return 0
	}
	return r.Route.Fare
}

func minutesOf(r models.EHailing) float64 {
	if r.Route == nil {
		return 0
	}
	return float64(r.Route.EstimateTimeMinute)
}

// RouteUsage groups requests by route, busiest first.
func RouteUsage(reqs []models.EHailing) []RouteStat {
	type acc struct {
		stat       RouteStat
		fare, mins float64
	}
	byKey := map[uint]*acc{}
	var order []uint

	for _, r := range reqs {
		// id 0 collects every request without a resolved route
		var key uint
		name := Unknown
		if r.Route != nil {
			key, name = r.RouteID, r.Route.Name
		}
		a, ok := byKey[key]
		if !ok {
			a = &acc{stat: RouteStat{RouteID: key, Name: name}}
			byKey[key] = a
			order = append(order, key)
		}
		a.stat.Count++
		a.fare += fareOf(r)
		a.mins += minutesOf(r)
	}

	out := make([]RouteStat, 0, len(order))
	for _, k := range order {
		a := byKey[k]
		a.stat.AvgFare = a.fare / float64(a.stat.Count)
		a.stat.AvgEstimateMins = a.mins / float64(a.stat.Count)
		out = append(out, a.stat)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Count > out[j].Count })
	return out
}

// VehicleUsage groups requests by assigned vehicle, busiest first.
// Unassigned requests land in the Unknown bucket.
func VehicleUsage(reqs []models.EHailing) []VehicleStat {
	type acc struct {
		stat VehicleStat
		fare float64
	}
	byKey := map[uint]*acc{}
	var order []uint

	for _, r := range reqs {
		var key uint
		plate := Unknown
		if r.Vehicle != nil {
			key, plate = r.Vehicle.ID, r.Vehicle.PlateNumber
		}
		a, ok := byKey[key]
		if !ok {
			a = &acc{stat: VehicleStat{VehicleID: key, PlateNumber: plate}}
			byKey[key] = a
			order = append(order, key)
		}
		a.stat.Count++
		a.fare += fareOf(r)
	}

	out := make([]VehicleStat, 0, len(order))
	for _, k := range order {
		a := byKey[k]
		a.stat.AvgFare = a.fare / float64(a.stat.Count)
		out = append(out, a.stat)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Count > out[j].Count })
	return out
}

// StatusDistribution counts requests per status. Percentages sum to 100 for
// non-empty input.
func StatusDistribution(reqs []models.EHailing) []StatusStat {
	counts := map[models.EHailingStatus]int{}
	var order []models.EHailingStatus
	for _, r := range reqs {
		if _, ok := counts[r.Status]; !ok {
			order = append(order, r.Status)
		}
		counts[r.Status]++
	}

	out := make([]StatusStat, 0, len(order))
	for _, s := range order {
		out = append(out, StatusStat{
			Status:     s,
			Count:      counts[s],
			Percentage: float64(counts[s]) * 100 / float64(len(reqs)),
		})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Count > out[j].Count })
	return out
}

// Summarize computes the global totals. An empty slice yields all zeros.
func Summarize(reqs []models.EHailing) Summary {
	var s Summary
	if len(reqs) == 0 {
		return s
	}
	var mins float64
	completed := 0
	for _, r := range reqs {
		s.TotalFare += fareOf(r)
		mins += minutesOf(r)
		if r.Status == models.EHailingCompleted {
			completed++
		}
	}
	s.Total = len(reqs)
	n := float64(s.Total)
	s.AvgFare = s.TotalFare / n
	s.AvgEstimateMins = mins / n
	s.CompletionRate = float64(completed) * 100 / n
	return s
}

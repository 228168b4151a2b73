// Package schedule assembles bus schedules from user edits and checks them
// before they are sent to the store.
package schedule

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"

	"campushub/internal/models"
	"campushub/internal/timeutil"
	"campushub/internal/transport"
)

// RouteLookup resolves a route id to the route the user picked.
// *transport.Store satisfies it.
type RouteLookup interface {
	RouteByID(id uint) (models.Route, bool)
}

// Creator accepts a validated schedule payload.
// *transport.Collection[models.BusSchedule] satisfies it.
type Creator interface {
	Create(ctx context.Context, data any) transport.Result[models.BusSchedule]
}

// Timing is one (route, departure) pair. EndTime is for display only; the
// server stores its own.
type Timing struct {
	RouteID   uint   `json:"route_id" validate:"required"`
	StartTime string `json:"start_time" validate:"required"`
	EndTime   string `json:"end_time,omitempty"`
}

// Form is the editable state of a schedule before submission.
type Form struct {
	RouteTiming []Timing `json:"route_timing" validate:"min=1,dive"`
	VehicleID   uint     `json:"vehicle_id"`
	DayOfWeek   int      `json:"day_of_week" validate:"min=1,max=7"`
	StartDate   string   `json:"start_date" validate:"required,datetime=2006-01-02"`
	EndDate     string   `json:"end_date" validate:"required,datetime=2006-01-02"`

	routes RouteLookup
}

// ValidationError is a rejection meant to be shown to the user as-is.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

var validate = validator.New()

// NewForm starts a form with one blank timing row.
func NewForm(routes RouteLookup) *Form {
	return &Form{
		RouteTiming: []Timing{{}},
		DayOfWeek:   1,
		routes:      routes,
	}
}

// EditForm loads an existing schedule for editing.
func EditForm(routes RouteLookup, bs models.BusSchedule) *Form {
	f := &Form{
		VehicleID: bs.VehicleID,
		DayOfWeek: bs.DayOfWeek,
		StartDate: bs.StartDate,
		EndDate:   bs.EndDate,
		routes:    routes,
	}
	for _, rt := range bs.RouteTiming {
		f.RouteTiming = append(f.RouteTiming, Timing{
			RouteID:   rt.RouteID,
			StartTime: rt.StartTime,
			EndTime:   rt.EndTime,
		})
	}
	return f
}

// AddTiming appends a blank pair and returns its index.
func (f *Form) AddTiming() int {
	f.RouteTiming = append(f.RouteTiming, Timing{})
	return len(f.RouteTiming) - 1
}

// RemoveTiming drops pair i. It reports false for an out-of-range index.
func (f *Form) RemoveTiming(i int) bool {
	if i < 0 || i >= len(f.RouteTiming) {
		return false
	}
	f.RouteTiming = append(f.RouteTiming[:i], f.RouteTiming[i+1:]...)
	return true
}

// SetRoute changes pair i's route and refreshes its end time.
func (f *Form) SetRoute(i int, routeID uint) bool {
	if i < 0 || i >= len(f.RouteTiming) {
		return false
	}
	f.RouteTiming[i].RouteID = routeID
	f.refreshEnd(i)
	return true
}

// SetStartTime changes pair i's departure ("HH:mm") and refreshes its end time.
func (f *Form) SetStartTime(i int, start string) bool {
	if i < 0 || i >= len(f.RouteTiming) {
		return false
	}
	f.RouteTiming[i].StartTime = start
	f.refreshEnd(i)
	return true
}

func (f *Form) refreshEnd(i int) {
	t := &f.RouteTiming[i]
	t.EndTime = ""
	if f.routes == nil || t.RouteID == 0 {
		return
	}
	r, ok := f.routes.RouteByID(t.RouteID)
	if !ok {
		return
	}
	if end, ok := timeutil.DeriveEndTime(t.StartTime, r.EstimateTimeMinute); ok {
		t.EndTime = end
	}
}

// Validate returns a *ValidationError describing the first problem, in the
// order dates, timings, then individual pairs.
func (f *Form) Validate() error {
	err := validate.Struct(f)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return &ValidationError{Message: err.Error()}
	}

	var dates, format, empty, day string
	pair := -1
	for _, fe := range verrs {
		switch fe.StructField() {
		case "StartDate", "EndDate":
			if fe.Tag() == "required" {
				dates = "Please select both a start date and an end date"
			} else {
				format = "Dates must be in YYYY-MM-DD format"
			}
		case "RouteTiming":
			empty = "Please add at least one route timing"
		case "DayOfWeek":
			day = "Please select a valid day of the week"
		case "RouteID", "StartTime":
			if pair < 0 {
				pair = f.firstIncomplete()
			}
		}
	}

	switch {
	case dates != "":
		return &ValidationError{Message: dates}
	case format != "":
		return &ValidationError{Message: format}
	case empty != "":
		return &ValidationError{Message: empty}
	case pair >= 0:
		return &ValidationError{Message: fmt.Sprintf("Route timing #%d needs both a route and a start time", pair+1)}
	case day != "":
		return &ValidationError{Message: day}
	}
	return &ValidationError{Message: "Invalid schedule"}
}

func (f *Form) firstIncomplete() int {
	for i, t := range f.RouteTiming {
		if t.RouteID == 0 || t.StartTime == "" {
			return i
		}
	}
	return 0
}

// Submit validates and, only if the form is valid, hands it to the creator.
func (f *Form) Submit(ctx context.Context, creator Creator) transport.Result[models.BusSchedule] {
	if err := f.Validate(); err != nil {
		return transport.Result[models.BusSchedule]{Message: err.Error()}
	}
	return creator.Create(ctx, f)
}

package controllers

import (
	"testing"

	"github.com/gin-gonic/gin/binding"
)

func TestInputBinding(t *testing.T) {
	zero, one, eight := 0, 1, 8
	empty, name := "", "Main Gate"

	tests := []struct {
		name  string
		input any
		ok    bool
	}{
		{"vehicle capacity zero", &vehicleInput{PlateNumber: "B1", Type: "bus", Capacity: 0}, false},
		{"vehicle capacity one", &vehicleInput{PlateNumber: "B1", Type: "bus", Capacity: 1}, true},
		{"vehicle update capacity zero", &vehicleUpdate{Capacity: &zero}, false},
		{"vehicle update capacity absent", &vehicleUpdate{}, true},
		{"route estimate zero", &routeInput{Name: "Loop", EstimateTimeMinute: 0}, false},
		{"route estimate positive", &routeInput{Name: "Loop", EstimateTimeMinute: 15}, true},
		{"route update estimate zero", &routeUpdate{EstimateTimeMinute: &zero}, false},
		{"route update blank name", &routeUpdate{Name: &empty}, false},
		{"vehicle update blank plate", &vehicleUpdate{PlateNumber: &empty}, false},
		{"schedule update day zero", &busScheduleUpdate{DayOfWeek: &zero}, false},
		{"schedule update day eight", &busScheduleUpdate{DayOfWeek: &eight}, false},
		{"schedule update day one", &busScheduleUpdate{DayOfWeek: &one}, true},
		{"stop update blank name", &stopUpdate{Name: &empty}, false},
		{"stop update name", &stopUpdate{Name: &name}, true},
		{"stop update name absent", &stopUpdate{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := binding.Validator.ValidateStruct(tt.input)
			if (err == nil) != tt.ok {
				t.Errorf("ValidateStruct() error = %v, want ok = %v", err, tt.ok)
			}
		})
	}
}

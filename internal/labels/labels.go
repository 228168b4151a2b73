// Package labels maps coded transportation values to display strings.
package labels

import (
	"strconv"

	"github.com/patrickmn/go-cache"

	"campushub/internal/models"
)

var dayLabels = map[string]string{
	"1": "Monday",
	"2": "Tuesday",
	"3": "Wednesday",
	"4": "Thursday",
	"5": "Friday",
	"6": "Saturday",
	"7": "Sunday",
}

var vehicleTypeLabels = map[string]string{
	string(models.VehicleTypeBus): "Bus",
	string(models.VehicleTypeCar): "Car",
}

var vehicleStatusLabels = map[string]string{
	string(models.VehicleAvailable):        "Available",
	string(models.VehicleInService):        "In Service",
	string(models.VehicleUnderMaintenance): "Under Maintenance",
	string(models.VehicleInactive):         "Inactive",
}

var stopTypeLabels = map[string]string{
	string(models.StopTypeDorm):       "Dormitory",
	string(models.StopTypeCampus):     "Campus",
	string(models.StopTypeBusStation): "Bus Station",
}

var eHailingStatusLabels = map[string]string{
	string(models.EHailingWaiting):    "Waiting",
	string(models.EHailingInProgress): "In Progress",
	string(models.EHailingCompleted):  "Completed",
	string(models.EHailingCancelled):  "Cancelled",
	string(models.EHailingDelayed):    "Delayed",
}

// Labeler resolves codes through the static tables and memoizes the result.
// Call Clear when the signed-in tenant changes.
type Labeler struct {
	memo *cache.Cache
}

// New returns a Labeler with an empty memo.
func New() *Labeler {
	return &Labeler{memo: cache.New(cache.NoExpiration, 0)}
}

// DayLabel names a day of week, 1 = Monday through 7 = Sunday.
func (l *Labeler) DayLabel(day int) string {
	return l.lookup("day", strconv.Itoa(day), dayLabels)
}

func (l *Labeler) VehicleTypeLabel(code models.VehicleType) string {
	return l.lookup("vehicleType", string(code), vehicleTypeLabels)
}

func (l *Labeler) VehicleStatusLabel(code models.VehicleStatus) string {
	return l.lookup("vehicleStatus", string(code), vehicleStatusLabels)
}

func (l *Labeler) StopTypeLabel(code models.StopType) string {
	return l.lookup("stopType", string(code), stopTypeLabels)
}

func (l *Labeler) EHailingStatusLabel(code models.EHailingStatus) string {
	return l.lookup("eHailingStatus", string(code), eHailingStatusLabels)
}

// Clear drops every memoized label.
func (l *Labeler) Clear() {
	l.memo.Flush()
}

// Len is the number of memoized labels.
func (l *Labeler) Len() int {
	return l.memo.ItemCount()
}

// lookup falls back to the raw code when the table has no entry.
func (l *Labeler) lookup(kind, code string, table map[string]string) string {
	key := kind + ":" + code
	if v, ok := l.memo.Get(key); ok {
		return v.(string)
	}
	label, ok := table[code]
	if !ok {
		label = code
	}
	l.memo.Set(key, label, cache.NoExpiration)
	return label
}

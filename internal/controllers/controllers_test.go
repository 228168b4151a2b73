package controllers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/lib/pq"

	"campushub/internal/models"
	"campushub/internal/session"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestGeometryRoundTrip(t *testing.T) {
	line := `{"type":"LineString","coordinates":[[36.8,-1.28],[36.81,-1.29]]}`
	wkbBytes, err := parseAndConvertGeometry(line)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	back, err := convertWKBToGeoJSON(wkbBytes)
	if err != nil {
		t.Fatalf("convert: %v", err)
	}
	if !strings.Contains(back, `"LineString"`) || !strings.Contains(back, "36.81") {
		t.Errorf("GeoJSON = %s", back)
	}

	if b, err := parseAndConvertGeometry(""); err != nil || b != nil {
		t.Errorf("empty geometry = %v, %v", b, err)
	}
	if _, err := parseAndConvertGeometry(`{"type":"Nope"}`); err == nil {
		t.Error("expected error for unknown geometry type")
	}
}

func TestOrderedStops(t *testing.T) {
	stop := func(id uint, name string) models.Stop {
		s := models.Stop{Name: name}
		s.ID = id
		return s
	}
	byID := map[uint]models.Stop{1: stop(1, "Gate"), 2: stop(2, "Library"), 3: stop(3, "Dorm")}

	got := orderedStops(pq.Int64Array{3, 1, 9, 2}, byID)
	var names []string
	for _, s := range got {
		names = append(names, s.Name)
	}
	if strings.Join(names, ",") != "Dorm,Gate,Library" {
		t.Errorf("order = %v", names)
	}
}

func TestBuildTimings(t *testing.T) {
	routes := map[uint]models.Route{
		1: {EstimateTimeMinute: 45},
		2: {EstimateTimeMinute: 0},
	}

	got, err := buildTimings(routes, []timingInput{
		{RouteID: 1, StartTime: "07:30"},
		{RouteID: 1, StartTime: "23:30"},
		{RouteID: 2, StartTime: "12:00"},
	})
	if err != nil {
		t.Fatalf("buildTimings: %v", err)
	}
	want := []string{"08:15", "00:15", ""}
	for i, w := range want {
		if got[i].EndTime != w {
			t.Errorf("pair %d end = %q, want %q", i, got[i].EndTime, w)
		}
	}

	if _, err := buildTimings(routes, []timingInput{{RouteID: 7, StartTime: "07:00"}}); err == nil {
		t.Error("unknown route accepted")
	}
	if _, err := buildTimings(routes, []timingInput{{RouteID: 1, StartTime: "7am"}}); err == nil {
		t.Error("malformed start accepted")
	}
}

func TestCheckWindow(t *testing.T) {
	if err := checkWindow("2026-01-05", "2026-01-05"); err != nil {
		t.Errorf("same-day window: %v", err)
	}
	if err := checkWindow("2026-02-01", "2026-01-31"); err == nil {
		t.Error("reversed window accepted")
	}
}

func TestValidateAndNormalizeRole(t *testing.T) {
	tests := []struct {
		in      string
		want    models.Role
		wantErr bool
	}{
		{"", models.RoleStudent, false},
		{" School_Admin ", models.RoleSchoolAdmin, false},
		{"company_admin", models.RoleCompanyAdmin, false},
		{"driver", "", true},
	}
	for _, tt := range tests {
		got, err := validateAndNormalizeRole(tt.in)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("validateAndNormalizeRole(%q) = %q, %v", tt.in, got, err)
		}
	}
}

func TestApplyRouteUpdates(t *testing.T) {
	r := models.Route{Name: "Loop", Fare: 1, EstimateTimeMinute: 20, StopIDs: pq.Int64Array{1, 2}}
	name, fare, stops := "Express", 2.5, []int64{2, 1}
	if err := applyRouteUpdates(&r, routeUpdate{Name: &name, Fare: &fare, StopIDs: &stops}); err != nil {
		t.Fatal(err)
	}
	if r.Name != "Express" || r.Fare != 2.5 || r.EstimateTimeMinute != 20 || r.StopIDs[0] != 2 {
		t.Errorf("route = %+v", r)
	}

	bad := "{"
	if err := applyRouteUpdates(&r, routeUpdate{Geometry: &bad}); err == nil {
		t.Error("bad geometry accepted")
	}
}

func TestApplyStopUpdates(t *testing.T) {
	s := models.Stop{Name: "Gate", Type: models.StopTypeCampus, Lat: 1}
	typ := models.StopTypeDorm
	applyStopUpdates(&s, stopUpdate{Type: &typ})
	if s.Name != "Gate" || s.Type != models.StopTypeDorm || s.Lat != 1 {
		t.Errorf("stop = %+v", s)
	}
}

func testContext(claims *session.Claims, params gin.Params) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	c.Params = params
	if claims != nil {
		c.Set("claims", claims)
	}
	return c, w
}

func TestTenantHelpers(t *testing.T) {
	schoolAdmin := &session.Claims{Role: models.RoleSchoolAdmin, SchoolID: 4}
	orphanStudent := &session.Claims{Role: models.RoleStudent}
	admin := &session.Claims{Role: models.RoleAdmin}

	t.Run("writeSchool forces tenant school", func(t *testing.T) {
		c, _ := testContext(schoolAdmin, nil)
		if id, ok := writeSchool(c, 99); !ok || id != 4 {
			t.Errorf("writeSchool = %d, %v", id, ok)
		}
	})
	t.Run("writeSchool requires admins to choose", func(t *testing.T) {
		c, w := testContext(admin, nil)
		if _, ok := writeSchool(c, 0); ok || w.Code != http.StatusBadRequest {
			t.Errorf("ok = %v, status = %d", ok, w.Code)
		}
		c, _ = testContext(admin, nil)
		if id, ok := writeSchool(c, 7); !ok || id != 7 {
			t.Errorf("writeSchool = %d, %v", id, ok)
		}
	})
	t.Run("writeSchool refuses tenant without school", func(t *testing.T) {
		c, w := testContext(orphanStudent, nil)
		if _, ok := writeSchool(c, 3); ok || w.Code != http.StatusForbidden {
			t.Errorf("ok = %v, status = %d", ok, w.Code)
		}
	})
	t.Run("canTouch", func(t *testing.T) {
		c, w := testContext(schoolAdmin, nil)
		if canTouch(c, 5) || w.Code != http.StatusForbidden {
			t.Errorf("foreign record allowed (status %d)", w.Code)
		}
		c, _ = testContext(admin, nil)
		if !canTouch(c, 5) {
			t.Error("admin refused")
		}
	})
	t.Run("pathSchool", func(t *testing.T) {
		c, _ := testContext(schoolAdmin, gin.Params{{Key: "schoolId", Value: "4"}})
		if id, ok := pathSchool(c); !ok || id != 4 {
			t.Errorf("pathSchool = %d, %v", id, ok)
		}
		c, w := testContext(schoolAdmin, gin.Params{{Key: "schoolId", Value: "0"}})
		if _, ok := pathSchool(c); ok || w.Code != http.StatusBadRequest {
			t.Errorf("zero school id accepted (status %d)", w.Code)
		}
	})
}

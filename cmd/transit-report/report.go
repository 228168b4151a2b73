package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"campushub/internal/analytics"
	"campushub/internal/labels"
	"campushub/internal/models"
	"campushub/internal/timeutil"
	"campushub/internal/transport"
)

func writeReport(w io.Writer, s *transport.Store) error {
	reqs := s.EHailings.Items()
	sum := analytics.Summarize(reqs)

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "E-HAILING SUMMARY\n")
	fmt.Fprintf(tw, "Requests\t%d\n", sum.Total)
	fmt.Fprintf(tw, "Total fare\t%.2f\n", sum.TotalFare)
	fmt.Fprintf(tw, "Average fare\t%.2f\n", sum.AvgFare)
	fmt.Fprintf(tw, "Average trip\t%.0f min\n", sum.AvgEstimateMins)
	fmt.Fprintf(tw, "Completion rate\t%.1f%%\n", sum.CompletionRate)

	fmt.Fprintf(tw, "\nROUTE\tREQUESTS\tAVG FARE\tAVG MIN\n")
	for _, rs := range analytics.RouteUsage(reqs) {
		fmt.Fprintf(tw, "%s\t%d\t%.2f\t%.0f\n", rs.Name, rs.Count, rs.AvgFare, rs.AvgEstimateMins)
	}

	fmt.Fprintf(tw, "\nVEHICLE\tREQUESTS\tAVG FARE\n")
	for _, vs := range analytics.VehicleUsage(reqs) {
		fmt.Fprintf(tw, "%s\t%d\t%.2f\n", vs.PlateNumber, vs.Count, vs.AvgFare)
	}

	fmt.Fprintf(tw, "\nSTATUS\tREQUESTS\tSHARE\n")
	for _, st := range analytics.StatusDistribution(reqs) {
		fmt.Fprintf(tw, "%s\t%d\t%.1f%%\n", s.Labels.EHailingStatusLabel(st.Status), st.Count, st.Percentage)
	}

	if schedules := s.BusSchedules.Items(); len(schedules) > 0 {
		fmt.Fprintf(tw, "\nDAY\tVEHICLE\tROUTE\tDEPARTS\tARRIVES\tDURATION\n")
		for _, bs := range schedules {
			writeSchedule(tw, s, s.Labels, bs)
		}
	}
	return tw.Flush()
}

func writeSchedule(w io.Writer, s *transport.Store, l *labels.Labeler, bs models.BusSchedule) {
	vehicle := fmt.Sprintf("#%d", bs.VehicleID)
	if v, ok := s.Vehicles.Get(bs.VehicleID); ok {
		vehicle = fmt.Sprintf("%s (%s)", v.PlateNumber, l.VehicleTypeLabel(v.Type))
	}
	for _, rt := range bs.RouteTiming {
		route := fmt.Sprintf("#%d", rt.RouteID)
		if r, ok := s.RouteByID(rt.RouteID); ok {
			route = r.Name
		}
		start, end := timeutil.HHMM(rt.StartTime), timeutil.HHMM(rt.EndTime)
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			l.DayLabel(bs.DayOfWeek), vehicle, route,
			timeutil.FormatTime(start), timeutil.FormatTime(end),
			timeutil.CalculateDuration(start, end))
	}
}

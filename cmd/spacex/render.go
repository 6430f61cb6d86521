package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/saviobatista/launch-tracker/internal/types"
)

const displayTime = "2006-01-02 15:04:05 MST"

func newTable(w io.Writer, headers ...string) *tabwriter.Writer {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(headers, "\t"))
	return tw
}

func row(tw *tabwriter.Writer, cells ...string) {
	// Cells must stay on one line for the columns to align
	for i, cell := range cells {
		cells[i] = strings.Join(strings.Fields(cell), " ")
	}
	fmt.Fprintln(tw, strings.Join(cells, "\t"))
}

func launchRow(tw *tabwriter.Writer, l *types.Launch) {
	row(tw, l.ID, l.Date.Format(displayTime), l.Rocket.Name, l.Launchpad.Name, l.Outcome(), l.DetailsText())
}

func renderLaunches(w io.Writer, launches []types.Launch) error {
	tw := newTable(w, "ID", "Date", "Rocket", "Launchpad", "Outcome", "Details")
	for i := range launches {
		launchRow(tw, &launches[i])
	}
	return tw.Flush()
}

func renderLaunch(w io.Writer, l *types.Launch) error {
	tw := tabwriter.NewWriter(w, 0, 0, 1, ' ', 0)
	fmt.Fprintf(tw, "ID:\t%s\n", l.ID)
	fmt.Fprintf(tw, "Date:\t%s\n", l.Date.Format(displayTime))
	fmt.Fprintf(tw, "Rocket:\t%s\n", l.Rocket.Name)
	fmt.Fprintf(tw, "Launchpad:\t%s\n", l.Launchpad.Name)
	fmt.Fprintf(tw, "Outcome:\t%s\n", l.Outcome())
	fmt.Fprintf(tw, "Details:\t%s\n", l.DetailsText())
	return tw.Flush()
}

func renderRockets(w io.Writer, rockets []types.Rocket) error {
	tw := newTable(w, "ID", "Name", "Type", "Description", "Status")
	for _, r := range rockets {
		status := "Inactive"
		if r.Active {
			status = "Active"
		}
		row(tw, r.ID, r.Name, r.Type, r.Description, status)
	}
	return tw.Flush()
}

func renderLaunchpads(w io.Writer, pads []types.Launchpad) error {
	tw := newTable(w, "ID", "Name", "Region", "Timezone", "Longitude", "Latitude", "Status")
	for _, p := range pads {
		row(tw, p.ID, p.Name, p.Region, p.Timezone,
			strconv.FormatFloat(p.Longitude, 'f', -1, 64),
			strconv.FormatFloat(p.Latitude, 'f', -1, 64),
			p.Status,
		)
	}
	return tw.Flush()
}

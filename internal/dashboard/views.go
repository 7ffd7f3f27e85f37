package dashboard

import (
	"fmt"
	"time"

	"bbdash/internal/model"
	"bbdash/internal/render"
	"bbdash/internal/state"
)

type columnView struct {
	Key    string
	Label  string
	NoSort bool
}

type actionView struct {
	Label string
	URL   string
}

type rowView struct {
	Cells   []string
	Link    string
	Actions []actionView
}

type tableView struct {
	ID      string
	Title   string
	Columns []columnView
	Rows    []rowView
	Empty   string
}

type pageView struct {
	Title      string
	Master     string
	Project    string
	Builder    string
	Global     model.GlobalStatus
	Tables     []tableView
	ForceForm  bool
	RefreshSec int
}

func columns(t render.Table) []columnView {
	cols := make([]columnView, len(t.Columns))
	for i, c := range t.Columns {
		cols[i] = columnView{Key: c.Key, Label: c.Label, NoSort: c.NoSort}
	}

	return cols
}

func (s *Server) currentBuildsTable(builds []model.Build, now time.Time) tableView {
	t := render.CurrentBuilds(render.SourceKeyStamps)

	rows := make([]rowView, len(builds))
	for i, b := range builds {
		rows[i] = rowView{
			Cells: t.Cells(b, now),
			Link:  render.BuildURL(s.cfg.MasterURL, b.BuilderName, b.Number),
			Actions: []actionView{{
				Label: "cancel",
				URL:   fmt.Sprintf("/builders/%s/builds/%d/cancel", b.BuilderName, b.Number),
			}},
		}
	}

	return tableView{
		ID:      "current-builds",
		Title:   "Current Builds",
		Columns: columns(t),
		Rows:    rows,
		Empty:   t.Empty,
	}
}

func (s *Server) recentBuildsTable(builds []model.Build, now time.Time) tableView {
	t := render.RecentBuilds(render.SourceKeyStamps)

	rows := make([]rowView, len(builds))
	for i, b := range builds {
		rows[i] = rowView{
			Cells: t.Cells(b, now),
			Link:  render.BuildURL(s.cfg.MasterURL, b.BuilderName, b.Number),
		}
	}

	return tableView{
		ID:      "recent-builds",
		Title:   "Recent Builds",
		Columns: columns(t),
		Rows:    rows,
		Empty:   t.Empty,
	}
}

func (s *Server) pendingTable(pending []model.PendingBuild, now time.Time) tableView {
	t := render.PendingBuilds()

	rows := make([]rowView, len(pending))
	for i, p := range pending {
		rows[i] = rowView{Cells: t.Cells(p, now)}
	}

	return tableView{
		ID:      "pending-builds",
		Title:   "Pending Builds",
		Columns: columns(t),
		Rows:    rows,
		Empty:   t.Empty,
	}
}

// queueTable shows unclaimed build requests across all builders; the queue
// shares the pending-builds row shape.
func (s *Server) queueTable(queue []model.PendingBuild, now time.Time) tableView {
	t := render.PendingBuilds()

	rows := make([]rowView, len(queue))
	for i, q := range queue {
		rows[i] = rowView{Cells: t.Cells(q, now)}
	}

	return tableView{
		ID:      "buildqueue",
		Title:   "Build Queue",
		Columns: columns(t),
		Rows:    rows,
		Empty:   "build queue is empty",
	}
}

func (s *Server) slavesTable(slaves []model.Slave, now time.Time) tableView {
	t := render.Slaves()

	rows := make([]rowView, len(slaves))
	for i, sl := range slaves {
		rows[i] = rowView{Cells: t.Cells(sl, now)}
	}

	return tableView{
		ID:      "slaves",
		Title:   "Slaves",
		Columns: columns(t),
		Rows:    rows,
		Empty:   t.Empty,
	}
}

func (s *Server) buildersTable(builders []model.Builder, now time.Time) tableView {
	t := render.Builders()

	rows := make([]rowView, len(builders))
	for i, b := range builders {
		rows[i] = rowView{
			Cells: t.Cells(b, now),
			Link:  "/builder",
		}
	}

	return tableView{
		ID:      "builders",
		Title:   "Builders",
		Columns: columns(t),
		Rows:    rows,
		Empty:   t.Empty,
	}
}

func (s *Server) projectPage(snap state.Snapshot, now time.Time) pageView {
	return pageView{
		Title:   "Project " + s.cfg.Project,
		Master:  s.cfg.MasterURL,
		Project: s.cfg.Project,
		Builder: s.cfg.Builder,
		Global:  snap.Global,
		Tables: []tableView{
			s.buildersTable(snap.Builders, now),
			s.pendingTable(snap.PendingBuilds, now),
			s.queueTable(snap.Queue, now),
			s.slavesTable(snap.Slaves, now),
		},
		RefreshSec: int(s.cfg.PollInterval.Seconds()),
	}
}

func (s *Server) builderPage(snap state.Snapshot, now time.Time) pageView {
	return pageView{
		Title:   "Builder " + s.cfg.Builder,
		Master:  s.cfg.MasterURL,
		Project: s.cfg.Project,
		Builder: s.cfg.Builder,
		Global:  snap.Global,
		Tables: []tableView{
			s.currentBuildsTable(snap.CurrentBuilds, now),
			s.recentBuildsTable(snap.RecentBuilds, now),
			s.pendingTable(snap.PendingBuilds, now),
			s.slavesTable(snap.Slaves, now),
		},
		ForceForm:  true,
		RefreshSec: int(s.cfg.PollInterval.Seconds()),
	}
}

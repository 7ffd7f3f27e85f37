package render

import (
	"strconv"
	"time"

	"bbdash/internal/model"
)

// Column describes one table column: a key for sorting, a header label, a
// relative width, and the cell renderer. Descriptors are not validated at
// construction; a nil renderer fails the first time the table is drawn.
type Column struct {
	Key    string
	Label  string
	Width  int
	NoSort bool
	Cell   func(row any, now time.Time) string
}

// Table pairs a column set with the message shown when the row set is empty.
type Table struct {
	Columns []Column
	Empty   string
}

func (t Table) Cells(row any, now time.Time) []string {
	cells := make([]string, len(t.Columns))
	for i, col := range t.Columns {
		cells[i] = col.Cell(row, now)
	}

	return cells
}

// CurrentBuilds is the column set for the running-builds table. sourceKey
// selects where the revision comes from, which differs between the builder
// page and the project page.
func CurrentBuilds(sourceKey string) Table {
	return Table{
		Empty: "no current builds",
		Columns: []Column{
			{Key: "number", Label: "Build", Width: 8, Cell: func(row any, _ time.Time) string {
				return "#" + strconv.Itoa(row.(model.Build).Number)
			}},
			{Key: "revision", Label: "Revision", Width: 14, Cell: func(row any, _ time.Time) string {
				return Revision(row.(model.Build), sourceKey)
			}},
			{Key: "progress", Label: "Progress", Width: 10, NoSort: true, Cell: func(row any, now time.Time) string {
				return Progress(row.(model.Build).Progress(now))
			}},
			{Key: "elapsed", Label: "Elapsed", Width: 10, Cell: func(row any, now time.Time) string {
				return Elapsed(row.(model.Build), now)
			}},
			{Key: "owner", Label: "Owner", Width: 16, Cell: func(row any, _ time.Time) string {
				return Owner(row.(model.Build))
			}},
			{Key: "status", Label: "Status", Width: 24, NoSort: true, Cell: func(row any, _ time.Time) string {
				return Result(row.(model.Build))
			}},
		},
	}
}

func RecentBuilds(sourceKey string) Table {
	return Table{
		Empty: "no recent builds",
		Columns: []Column{
			{Key: "number", Label: "Build", Width: 8, Cell: func(row any, _ time.Time) string {
				return "#" + strconv.Itoa(row.(model.Build).Number)
			}},
			{Key: "revision", Label: "Revision", Width: 14, Cell: func(row any, _ time.Time) string {
				return Revision(row.(model.Build), sourceKey)
			}},
			{Key: "result", Label: "Result", Width: 12, Cell: func(row any, _ time.Time) string {
				return Result(row.(model.Build))
			}},
			{Key: "elapsed", Label: "Took", Width: 10, Cell: func(row any, now time.Time) string {
				return Elapsed(row.(model.Build), now)
			}},
			{Key: "owner", Label: "Owner", Width: 16, Cell: func(row any, _ time.Time) string {
				return Owner(row.(model.Build))
			}},
		},
	}
}

func PendingBuilds() Table {
	return Table{
		Empty: "no pending builds",
		Columns: []Column{
			{Key: "builder", Label: "Builder", Width: 20, Cell: func(row any, _ time.Time) string {
				return row.(model.PendingBuild).BuilderName
			}},
			{Key: "reason", Label: "Reason", Width: 28, NoSort: true, Cell: func(row any, _ time.Time) string {
				return row.(model.PendingBuild).Reason
			}},
			{Key: "waiting", Label: "Waiting", Width: 10, Cell: func(row any, now time.Time) string {
				return Waiting(row.(model.PendingBuild), now)
			}},
		},
	}
}

func Slaves() Table {
	return Table{
		Empty: "no slaves attached",
		Columns: []Column{
			{Key: "name", Label: "Name", Width: 20, Cell: func(row any, _ time.Time) string {
				return row.(model.Slave).Name
			}},
			{Key: "host", Label: "Host", Width: 20, Cell: func(row any, _ time.Time) string {
				return row.(model.Slave).Host
			}},
			{Key: "status", Label: "Status", Width: 12, Cell: func(row any, _ time.Time) string {
				return SlaveStatus(row.(model.Slave))
			}},
			{Key: "admin", Label: "Admin", Width: 16, Cell: func(row any, _ time.Time) string {
				return row.(model.Slave).Admin
			}},
		},
	}
}

func Builders() Table {
	return Table{
		Empty: "no builders configured",
		Columns: []Column{
			{Key: "name", Label: "Builder", Width: 24, Cell: func(row any, _ time.Time) string {
				return row.(model.Builder).Name
			}},
			{Key: "state", Label: "State", Width: 12, Cell: func(row any, _ time.Time) string {
				return row.(model.Builder).State
			}},
			{Key: "pending", Label: "Pending", Width: 8, Cell: func(row any, _ time.Time) string {
				b := row.(model.Builder)
				if b.PendingBuilds == 0 {
					return "-"
				}
				return strconv.Itoa(b.PendingBuilds)
			}},
			{Key: "latest", Label: "Latest Build", Width: 24, Cell: func(row any, _ time.Time) string {
				b := row.(model.Builder)
				if b.LatestBuild == nil {
					return "-"
				}
				return "#" + strconv.Itoa(b.LatestBuild.Number) + " " + Result(*b.LatestBuild)
			}},
			// The project payload delivers source stamps under "sources",
			// unlike the builder page.
			{Key: "revision", Label: "Revision", Width: 14, Cell: func(row any, _ time.Time) string {
				b := row.(model.Builder)
				if b.LatestBuild == nil {
					return "-"
				}
				return Revision(*b.LatestBuild, SourceKeySources)
			}},
		},
	}
}

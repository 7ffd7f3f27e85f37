package model

// Builder is one row of the project overview table.
type Builder struct {
	Name          string `json:"name"`
	FriendlyName  string `json:"friendly_name"`
	State         string `json:"state"`
	URL           string `json:"url"`
	PendingBuilds int    `json:"pendingBuilds"`
	LatestBuild   *Build `json:"latestBuild"`
}

type Project struct {
	ComparisonURL string    `json:"comparisonURL"`
	Builders      []Builder `json:"builders"`
}

// GlobalStatus mirrors the master's /json/globalstatus payload.
type GlobalStatus struct {
	SlavesCount   int     `json:"slaves_count"`
	SlavesBusy    int     `json:"slaves_busy"`
	RunningBuilds int     `json:"running_builds"`
	BuildLoad     int     `json:"build_load"`
	UTC           float64 `json:"utc"`
}

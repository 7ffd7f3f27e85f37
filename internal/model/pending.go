package model

import "time"

// PendingBuild is a build request that is still waiting in the master's
// queue.
type PendingBuild struct {
	BuilderName string       `json:"builderName"`
	BrID        int64        `json:"brid"`
	Reason      string       `json:"reason"`
	SubmittedAt *float64     `json:"submittedAt"`
	Source      *SourceStamp `json:"source"`
	Properties  PropertyList `json:"properties"`
}

func (p PendingBuild) SubmitTime() (time.Time, bool) {
	if p.SubmittedAt == nil {
		return time.Time{}, false
	}

	return unixFloat(*p.SubmittedAt), true
}

package model

import (
	"encoding/json"
	"fmt"
	"time"
)

// Result codes as reported by the master.
const (
	ResultSuccess   = 0
	ResultWarnings  = 1
	ResultFailure   = 2
	ResultSkipped   = 3
	ResultException = 4
	ResultRetry     = 5
)

// Property is one entry of a build's property bag. The master serialises
// properties as [name, value, source] triples, not as an object.
type Property struct {
	Name   string
	Value  any
	Source string
}

func (p *Property) UnmarshalJSON(data []byte) error {
	var triple []any
	if err := json.Unmarshal(data, &triple); err != nil {
		return err
	}
	if len(triple) < 2 {
		return fmt.Errorf("property triple too short: %d elements", len(triple))
	}

	name, ok := triple[0].(string)
	if !ok {
		return fmt.Errorf("property name is not a string")
	}

	p.Name = name
	p.Value = triple[1]
	if len(triple) > 2 {
		if src, ok := triple[2].(string); ok {
			p.Source = src
		}
	}

	return nil
}

func (p Property) MarshalJSON() ([]byte, error) {
	return json.Marshal([]any{p.Name, p.Value, p.Source})
}

type PropertyList []Property

// Lookup scans the list for a property by name. The bag is small and
// unordered, so a linear scan is fine.
func (l PropertyList) Lookup(name string) (any, bool) {
	for _, p := range l {
		if p.Name == name {
			return p.Value, true
		}
	}

	return nil, false
}

type SourceStamp struct {
	Codebase   string `json:"codebase"`
	Branch     string `json:"branch"`
	Revision   string `json:"revision"`
	Repository string `json:"repository"`
	Project    string `json:"project"`
}

type Build struct {
	Number       int           `json:"number"`
	BuilderName  string        `json:"builderName"`
	Results      *int          `json:"results"`
	Text         []string      `json:"text"`
	Reason       string        `json:"reason"`
	Slave        string        `json:"slave"`
	Eta          *float64      `json:"eta"`
	CurrentStep  *Step         `json:"currentStep"`
	Times        []*float64    `json:"times"`
	SubmittedAt  *float64      `json:"submittedAt"`
	SourceStamps []SourceStamp `json:"sourceStamps"`
	Sources      []SourceStamp `json:"sources"`
	Properties   PropertyList  `json:"properties"`
}

type Step struct {
	Name      string     `json:"name"`
	Text      []string   `json:"text"`
	IsStarted bool       `json:"isStarted"`
	Times     []*float64 `json:"times"`
}

// StartTime reports the build's start time, if the master has one.
func (b Build) StartTime() (time.Time, bool) {
	if len(b.Times) == 0 || b.Times[0] == nil {
		return time.Time{}, false
	}

	return unixFloat(*b.Times[0]), true
}

// EndTime reports the build's end time. Running builds have a null end time.
func (b Build) EndTime() (time.Time, bool) {
	if len(b.Times) < 2 || b.Times[1] == nil {
		return time.Time{}, false
	}

	return unixFloat(*b.Times[1]), true
}

func (b Build) Finished() bool {
	_, ok := b.EndTime()
	return ok && b.Results != nil
}

// Progress estimates the completion fraction of a running build from its
// elapsed time and the master's remaining-time estimate. Finished builds
// report 1, builds without timing data report 0.
func (b Build) Progress(now time.Time) float64 {
	if b.Finished() {
		return 1
	}

	start, ok := b.StartTime()
	if !ok {
		return 0
	}

	elapsed := now.Sub(start).Seconds()
	if elapsed <= 0 {
		return 0
	}

	if b.Eta == nil || *b.Eta <= 0 {
		return 0
	}

	frac := elapsed / (elapsed + *b.Eta)
	if frac > 1 {
		frac = 1
	}

	return frac
}

func unixFloat(ts float64) time.Time {
	sec := int64(ts)
	nsec := int64((ts - float64(sec)) * float64(time.Second))
	return time.Unix(sec, nsec)
}

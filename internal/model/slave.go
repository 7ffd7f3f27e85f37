package model

import (
	"encoding/json"
	"sort"
)

type Slave struct {
	Name          string   `json:"name"`
	FriendlyName  string   `json:"friendly_name"`
	Host          string   `json:"host"`
	Admin         string   `json:"admin"`
	Version       string   `json:"version"`
	Connected     bool     `json:"connected"`
	AccessURI     string   `json:"access_uri"`
	RunningBuilds []Build  `json:"runningBuilds"`
	Builders      []string `json:"-"`
}

// FlattenSlaves converts the master's object-of-objects slave payload into a
// slice sorted by name. The map key wins over any name field inside the
// record.
func FlattenSlaves(raw json.RawMessage) ([]Slave, error) {
	var byName map[string]Slave
	if err := json.Unmarshal(raw, &byName); err != nil {
		return nil, err
	}

	slaves := make([]Slave, 0, len(byName))
	for name, s := range byName {
		s.Name = name
		slaves = append(slaves, s)
	}

	sort.Slice(slaves, func(i, j int) bool {
		return slaves[i].Name < slaves[j].Name
	})

	return slaves, nil
}

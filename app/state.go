package app

import (
	"encoding/json"

	bosherr "github.com/cloudfoundry/bosh-utils/errors"
	boshsys "github.com/cloudfoundry/bosh-utils/system"
)

// State records the changes that completed, so that running the same job
// again never moves a partition's data a second time.
type State struct {
	Completed []string `json:"completed"`
}

func (s State) IsCompleted(key string) bool {
	for _, completed := range s.Completed {
		if completed == key {
			return true
		}
	}
	return false
}

func SaveState(fs boshsys.FileSystem, path string, newState State) error {
	jsonState, _ := json.Marshal(newState)

	err := fs.WriteFile(path, jsonState)
	if err != nil {
		return bosherr.WrapError(err, "Writing file")
	}

	return nil
}

func LoadState(fs boshsys.FileSystem, path string) (State, error) {
	var state State

	if !fs.FileExists(path) {
		return state, nil
	}

	bytes, err := fs.ReadFile(path)
	if err != nil {
		return state, bosherr.WrapError(err, "Reading file")
	}

	err = json.Unmarshal(bytes, &state)
	if err != nil {
		return state, bosherr.WrapError(err, "Loading file")
	}

	return state, nil
}

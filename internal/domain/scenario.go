package domain

import "time"

// Scenario identifies one integration scenario
type Scenario string

const (
	ScenarioWrite        Scenario = "write"
	ScenarioRead         Scenario = "read"
	ScenarioTrigger      Scenario = "trigger"
	ScenarioUpload       Scenario = "upload"
	ScenarioScheduler    Scenario = "scheduler"
	ScenarioInsufficient Scenario = "insufficient"
	ScenarioRevert       Scenario = "revert"
	ScenarioDeploy       Scenario = "deploy"
)

// ScenarioOrder is the fixed execution order of scenarios
var ScenarioOrder = []Scenario{
	ScenarioWrite,
	ScenarioRead,
	ScenarioTrigger,
	ScenarioUpload,
	ScenarioScheduler,
	ScenarioInsufficient,
	ScenarioRevert,
	ScenarioDeploy,
}

// ScenarioFlags is the set of scenarios requested on the command line
type ScenarioFlags struct {
	Write        bool
	Read         bool
	Trigger      bool
	Upload       bool
	Scheduler    bool
	Insufficient bool
	Revert       bool
	Deploy       bool
	All          bool
}

// Enabled reports whether a scenario was requested, either directly or through All
func (f ScenarioFlags) Enabled(s Scenario) bool {
	if f.All {
		return true
	}
	switch s {
	case ScenarioWrite:
		return f.Write
	case ScenarioRead:
		return f.Read
	case ScenarioTrigger:
		return f.Trigger
	case ScenarioUpload:
		return f.Upload
	case ScenarioScheduler:
		return f.Scheduler
	case ScenarioInsufficient:
		return f.Insufficient
	case ScenarioRevert:
		return f.Revert
	case ScenarioDeploy:
		return f.Deploy
	}
	return false
}

// Selected returns the requested scenarios in execution order
func (f ScenarioFlags) Selected() []Scenario {
	var out []Scenario
	for _, s := range ScenarioOrder {
		if f.Enabled(s) {
			out = append(out, s)
		}
	}
	return out
}

// Empty reports whether no scenario was requested
func (f ScenarioFlags) Empty() bool {
	return len(f.Selected()) == 0
}

// ScenarioResult is the outcome of one scenario run
type ScenarioResult struct {
	Scenario Scenario          `yaml:"scenario"`
	Gateway  string            `yaml:"gateway,omitempty"`
	Chains   []uint64          `yaml:"chains,omitempty"`
	Pairs    []ForwarderPair   `yaml:"pairs,omitempty"`
	Duration time.Duration     `yaml:"duration"`
	Err      error             `yaml:"-"`
	Error    string            `yaml:"error,omitempty"`
	Extra    map[string]string `yaml:"extra,omitempty"`
}

// Passed reports whether the scenario finished without error
func (r ScenarioResult) Passed() bool {
	return r.Err == nil
}

// RunReport is the persisted summary of a harness run
type RunReport struct {
	StartedAt time.Time        `yaml:"startedAt"`
	Duration  time.Duration    `yaml:"duration"`
	Operator  string           `yaml:"operator"`
	Chains    []ChainInfo      `yaml:"chains"`
	Results   []ScenarioResult `yaml:"results"`
	Passed    bool             `yaml:"passed"`
}

package pipeline

import "time"

// Issue is one recorded problem, tied to the path that produced it.
type Issue struct {
	Path    string `json:"path"`
	Message string `json:"message"`
}

// Report is the outcome of one sync run. Errors cover failed units and bad
// localized files; any error disables the reaper for the run. Warnings are
// recoverable problems (a failed geocode, a failed thumbnail) that never
// affect reaping. Asset errors are bucketed per scope so a broken private
// upload can't block public asset reaping.
type Report struct {
	RunID      string    `json:"run_id"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`

	UnitsProcessed int `json:"units_processed"`
	UnitsFailed    int `json:"units_failed"`

	Errors             []Issue `json:"errors"`
	Warnings           []Issue `json:"warnings"`
	PublicAssetErrors  []Issue `json:"public_asset_errors"`
	PrivateAssetErrors []Issue `json:"private_asset_errors"`

	Reaped        bool `json:"reaped"`
	ReapedRows    int  `json:"reaped_rows"`
	SearchRebuilt bool `json:"search_rebuilt"`
}

func (r *Report) addError(path string, err error) {
	r.Errors = append(r.Errors, Issue{Path: path, Message: err.Error()})
}

func (r *Report) addWarning(path string, err error) {
	r.Warnings = append(r.Warnings, Issue{Path: path, Message: err.Error()})
}

// Success reports whether the run completed without import errors. Warnings
// and asset errors do not fail a run.
func (r *Report) Success() bool {
	return len(r.Errors) == 0
}

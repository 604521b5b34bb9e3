package types

import "time"

// SliceStatus is the outcome of exporting one slice.
type SliceStatus string

const (
	SliceStatusWritten      SliceStatus = "written"
	SliceStatusSkippedEmpty SliceStatus = "skipped_empty"
	SliceStatusUnsupported  SliceStatus = "unsupported"
)

// SliceResult describes what happened to one requested slice.
type SliceResult struct {
	Slice  string      `yaml:"slice" json:"slice"`
	Status SliceStatus `yaml:"status" json:"status"`
	Path   string      `yaml:"path,omitempty" json:"path,omitempty"`
	Rows   int         `yaml:"rows" json:"rows"`
}

// ExportReport summarizes one export run for a ticker.
type ExportReport struct {
	RunID       string        `yaml:"run_id" json:"runId"`
	ToolVersion string        `yaml:"tool_version" json:"toolVersion"`
	Ticker      string        `yaml:"ticker" json:"ticker"`
	Provider    string        `yaml:"provider" json:"provider"`
	Period      string        `yaml:"period" json:"period"`
	Interval    string        `yaml:"interval" json:"interval"`
	OutputDir   string        `yaml:"output_dir" json:"outputDir"`
	GeneratedAt time.Time     `yaml:"generated_at" json:"generatedAt"`
	Slices      []SliceResult `yaml:"slices" json:"slices"`
}

// Written returns the results that produced a file.
func (r ExportReport) Written() []SliceResult {
	var out []SliceResult

	for _, s := range r.Slices {
		if s.Status == SliceStatusWritten {
			out = append(out, s)
		}
	}

	return out
}

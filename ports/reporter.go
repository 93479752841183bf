package ports

import "randlab/domain/stats"

// Reporter prints human-readable summaries of lab results
type Reporter interface {
	// Section starts a new block of output
	Section(title string)
	ReportParameters(params map[string]float64)
	ReportUniform(label string, sample stats.Sample)
	ReportVerdicts(label string, verdicts []stats.Verdict)
	ReportMoments(label string, sample stats.IntSample, estimated, expected stats.MomentSummary)
}

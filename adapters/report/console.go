// Package report prints lab results to a console-like writer.
package report

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/montanaflynn/stats"
	"github.com/olekukonko/tablewriter"

	domainStats "randlab/domain/stats"
	"randlab/ports"
)

const separator = "---------------------------"

// Console writes plain-text summaries and tables to an io.Writer
type Console struct {
	out io.Writer
}

// NewConsole creates a console reporter writing to out
func NewConsole(out io.Writer) *Console {
	return &Console{out: out}
}

var _ ports.Reporter = (*Console)(nil)

func (c *Console) Section(title string) {
	fmt.Fprintf(c.out, "\n%s\n\n%s:\n", separator, title)
}

// ReportParameters prints parameters sorted by name
func (c *Console) ReportParameters(params map[string]float64) {
	names := make([]string, 0, len(params))
	for name := range params {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(c.out, "%s: %s\n", name, strconv.FormatFloat(params[name], 'f', -1, 64))
	}
}

// ReportUniform prints the size, every tenth of the first fifty elements,
// the mean and the sample standard deviation.
func (c *Console) ReportUniform(label string, sample domainStats.Sample) {
	fmt.Fprintf(c.out, "%s\n", label)
	fmt.Fprintf(c.out, "size: %d\n", len(sample))
	if len(sample) == 0 {
		return
	}

	some := make([]string, 0, 5)
	for i := 0; i < 5 && i*10 < len(sample); i++ {
		some = append(some, strconv.FormatFloat(sample[i*10], 'f', 6, 64))
	}
	fmt.Fprintf(c.out, "some elements: %s\n", strings.Join(some, " "))

	data := stats.Float64Data(sample)
	mean, _ := data.Mean()
	fmt.Fprintf(c.out, "mean: %.6f\n", mean)
	if len(sample) > 1 {
		std, _ := stats.StandardDeviationSample(data)
		fmt.Fprintf(c.out, "std: %.6f\n", std)
	}
}

// ReportVerdicts prints one table row per goodness-of-fit test
func (c *Console) ReportVerdicts(label string, verdicts []domainStats.Verdict) {
	fmt.Fprintf(c.out, "\ngoodness of fit for %s:\n", label)
	table := tablewriter.NewWriter(c.out)
	table.SetHeader([]string{"test", "statistic", "compared", "critical", "p-value", "passed"})
	for _, v := range verdicts {
		table.Append([]string{
			string(v.Test),
			fmt.Sprintf("%.4f", v.Statistic),
			fmt.Sprintf("%.4f", v.Scaled),
			fmt.Sprintf("%.2f", v.Critical),
			fmt.Sprintf("%.4f", v.PValue),
			strconv.FormatBool(v.Passed),
		})
	}
	table.Render()
}

// ReportMoments prints estimated against theoretical moments with 3 decimals
func (c *Console) ReportMoments(label string, sample domainStats.IntSample, estimated, expected domainStats.MomentSummary) {
	fmt.Fprintf(c.out, "%s (size %d)\n", label, len(sample))
	table := tablewriter.NewWriter(c.out)
	table.SetHeader([]string{"moment", "sample", "theoretical"})
	rows := []struct {
		name       string
		got, want float64
	}{
		{"mean", estimated.Mean, expected.Mean},
		{"variance", estimated.Variance, expected.Variance},
		{"skewness", estimated.Skewness, expected.Skewness},
		{"kurtosis", estimated.Kurtosis, expected.Kurtosis},
	}
	for _, r := range rows {
		table.Append([]string{r.name, fmt.Sprintf("%.3f", r.got), fmt.Sprintf("%.3f", r.want)})
	}
	table.Render()
}

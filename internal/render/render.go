package render

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"bbdash/internal/model"
)

// Source keys for the revision renderer. The builder-detail page gets builds
// with a sourceStamps list, the project overview delivers the same data under
// sources.
const (
	SourceKeyStamps  = "sourceStamps"
	SourceKeySources = "sources"
)

// Owner digs the owner out of a build's property bag. Builds without an
// owner property render as "N/A".
func Owner(b model.Build) string {
	v, ok := b.Properties.Lookup("owner")
	if !ok {
		return "N/A"
	}

	owner, ok := v.(string)
	if !ok || owner == "" {
		return "N/A"
	}

	return owner
}

// Revision renders the first source stamp's revision, reading from the list
// named by sourceKey.
func Revision(b model.Build, sourceKey string) string {
	var stamps []model.SourceStamp
	switch sourceKey {
	case SourceKeySources:
		stamps = b.Sources
	default:
		stamps = b.SourceStamps
	}

	if len(stamps) == 0 || stamps[0].Revision == "" {
		return "unknown"
	}

	rev := stamps[0].Revision
	if len(rev) > 12 {
		rev = rev[:12]
	}

	return rev
}

func Progress(frac float64) string {
	if frac < 0 {
		frac = 0
	}
	if frac > 1 {
		frac = 1
	}

	return fmt.Sprintf("%d%%", int(frac*100))
}

// Elapsed renders the time a build has been running, or "-" when the build
// has no start time yet.
func Elapsed(b model.Build, now time.Time) string {
	start, ok := b.StartTime()
	if !ok {
		return "-"
	}

	end, finished := b.EndTime()
	if !finished {
		end = now
	}

	d := end.Sub(start)
	if d < 0 {
		d = 0
	}

	return d.Round(time.Second).String()
}

// Waiting renders how long a pending build has been queued.
func Waiting(p model.PendingBuild, now time.Time) string {
	submitted, ok := p.SubmitTime()
	if !ok {
		return "-"
	}

	d := now.Sub(submitted)
	if d < 0 {
		d = 0
	}

	return d.Round(time.Second).String()
}

var resultText = map[int]string{
	model.ResultSuccess:   "success",
	model.ResultWarnings:  "warnings",
	model.ResultFailure:   "failure",
	model.ResultSkipped:   "skipped",
	model.ResultException: "exception",
	model.ResultRetry:     "retry",
}

// Result renders a build's outcome; running builds show their current step.
func Result(b model.Build) string {
	if b.Results == nil {
		if b.CurrentStep != nil && b.CurrentStep.Name != "" {
			return "running: " + b.CurrentStep.Name
		}
		return "running"
	}

	if text, ok := resultText[*b.Results]; ok {
		return text
	}

	return fmt.Sprintf("result %d", *b.Results)
}

func ResultText(code int) string {
	if text, ok := resultText[code]; ok {
		return text
	}

	return fmt.Sprintf("result %d", code)
}

// BuildURL links a row back to the master's build page.
func BuildURL(masterURL, builder string, number int) string {
	return fmt.Sprintf("%s/builders/%s/builds/%d",
		strings.TrimRight(masterURL, "/"), url.PathEscape(builder), number)
}

func SlaveStatus(s model.Slave) string {
	if !s.Connected {
		return "offline"
	}

	if len(s.RunningBuilds) > 0 {
		return fmt.Sprintf("building (%d)", len(s.RunningBuilds))
	}

	return "idle"
}

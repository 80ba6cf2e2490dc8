package domain

import (
	"errors"
	"hash/fnv"
	"time"
)

// A/B test status values. The transition active -> stopped is one-way.
const (
	TestStatusActive  = "active"
	TestStatusStopped = "stopped"
)

// Variant labels.
const (
	VariantA = "A"
	VariantB = "B"
)

// ErrAmbiguousTest is returned when more than one active test targets the
// same issue type. Silently picking one would break the determinism the
// assignment promises.
var ErrAmbiguousTest = errors.New("ambiguous active test: multiple active tests target this issue type")

// ABTest is a prompt A/B experiment. Created by the operator, stopped once,
// never reactivated.
type ABTest struct {
	TestName    string     `json:"test_name"`
	Description string     `json:"description"`
	Status      string     `json:"status"`
	Variants    Variants   `json:"variants"`
	Config      TestConfig `json:"config"`
	Results     Results    `json:"results"`
	CreatedAt   time.Time  `json:"created_at"`
	StoppedAt   *time.Time `json:"stopped_at,omitempty"`
}

type Variants struct {
	A Variant `json:"a"`
	B Variant `json:"b"`
}

// Variant is one of the two competing prompt templates in a test.
type Variant struct {
	Name     string         `json:"name"`
	Template string         `json:"template"`
	Metrics  VariantMetrics `json:"metrics"`
}

// VariantMetrics mirrors the bucket-stats shape, recomputed from session
// records on each analysis run; any stored copy is a cache, not source of
// truth.
type VariantMetrics struct {
	TotalSessions      int64   `json:"total_sessions"`
	SuccessfulSessions int64   `json:"successful_sessions"`
	AvgSuccessRate     float64 `json:"avg_success_rate"`
	AvgSatisfaction    float64 `json:"avg_satisfaction"`
}

type TestConfig struct {
	TargetIssueTypes      []string `json:"target_issue_types"`
	MinSampleSize         int      `json:"min_sample_size"`
	TrafficSplit          float64  `json:"traffic_split"`
	SuccessThreshold      float64  `json:"success_threshold"`
	SatisfactionThreshold float64  `json:"satisfaction_threshold"`
}

// Results of the dominance comparison. Method names the rule that decided;
// there is no significance testing.
type Results struct {
	WinningVariant *string `json:"winning_variant,omitempty"`
	Method         string  `json:"method"`
	SampleSizeMet  bool    `json:"sample_size_met"`
}

// ResultsMethodDominance identifies the strict-dominance winner rule.
const ResultsMethodDominance = "dominance"

// IsActive reports whether the test is accepting assignments.
func (t *ABTest) IsActive() bool {
	return t.Status == TestStatusActive
}

// Targets reports whether the test applies to the given issue type.
func (t *ABTest) Targets(issueType string) bool {
	for _, it := range t.Config.TargetIssueTypes {
		if it == issueType {
			return true
		}
	}
	return false
}

// Assignment is the outcome of variant assignment.
type Assignment struct {
	TestName string
	Variant  string
	Template string
}

// AssignVariant deterministically maps (callerKey, issueType) to a variant
// of the single active test targeting issueType. Returns (nil, nil) when no
// active test targets the issue type, and ErrAmbiguousTest when more than
// one does.
//
// The hash is FNV-1a over callerKey + "_" + issueType reduced to even/odd:
// even selects variant A, odd selects variant B. Determinism is the
// contract; the split is only roughly 50/50.
func AssignVariant(tests []*ABTest, callerKey, issueType string) (*Assignment, error) {
	var match *ABTest
	for _, t := range tests {
		if !t.IsActive() || !t.Targets(issueType) {
			continue
		}
		if match != nil {
			return nil, ErrAmbiguousTest
		}
		match = t
	}
	if match == nil {
		return nil, nil
	}

	h := fnv.New32a()
	h.Write([]byte(callerKey + "_" + issueType))

	assignment := &Assignment{TestName: match.TestName}
	if h.Sum32()%2 == 0 {
		assignment.Variant = VariantA
		assignment.Template = match.Variants.A.Template
	} else {
		assignment.Variant = VariantB
		assignment.Template = match.Variants.B.Template
	}
	return assignment, nil
}

// ComputeVariantMetrics recomputes a variant's metrics from the sessions
// assigned to it. Unset ratings coerce to 0, same policy as the aggregator.
func ComputeVariantMetrics(sessions []*SessionRecord) VariantMetrics {
	var m VariantMetrics
	var successSum, satisfactionSum float64

	for _, s := range sessions {
		m.TotalSessions++
		if s.ResponseQuality.SuccessRate != nil {
			successSum += *s.ResponseQuality.SuccessRate
			if *s.ResponseQuality.SuccessRate > SuccessThreshold {
				m.SuccessfulSessions++
			}
		}
		if s.ResponseQuality.UserSatisfaction != nil {
			satisfactionSum += *s.ResponseQuality.UserSatisfaction
		}
	}

	if m.TotalSessions > 0 {
		m.AvgSuccessRate = successSum / float64(m.TotalSessions)
		m.AvgSatisfaction = satisfactionSum / float64(m.TotalSessions)
	}
	return m
}

// AnalyzeResults applies the dominance rule: B wins only if strictly better
// than A on both average success rate and average satisfaction; A wins only
// in the symmetric case. Any mixed comparison produces no winner. This is a
// heuristic, not a significance test.
func AnalyzeResults(t *ABTest) Results {
	a := t.Variants.A.Metrics
	b := t.Variants.B.Metrics

	results := Results{
		Method:        ResultsMethodDominance,
		SampleSizeMet: a.TotalSessions >= int64(t.Config.MinSampleSize) && b.TotalSessions >= int64(t.Config.MinSampleSize),
	}

	switch {
	case b.AvgSuccessRate > a.AvgSuccessRate && b.AvgSatisfaction > a.AvgSatisfaction:
		winner := VariantB
		results.WinningVariant = &winner
	case a.AvgSuccessRate > b.AvgSuccessRate && a.AvgSatisfaction > b.AvgSatisfaction:
		winner := VariantA
		results.WinningVariant = &winner
	}
	return results
}

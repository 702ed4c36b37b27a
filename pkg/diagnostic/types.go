// pkg/diagnostic/types.go
package diagnostic

// Stage is the visitor's self-reported business maturity.
type Stage string

const (
	StageLaunch Stage = "Launch"
	StageGrowth Stage = "Growth"
	StageScale  Stage = "Scale"
)

// Bottleneck is the constraint category that scored highest.
type Bottleneck string

const (
	BottleneckClarity           Bottleneck = "Clarity"
	BottleneckPositioning       Bottleneck = "Positioning"
	BottleneckRevenue           Bottleneck = "Revenue"
	BottleneckSystems           Bottleneck = "Systems"
	BottleneckFounderDependency Bottleneck = "FounderDependency"
)

// EngagementReadiness estimates how execution-ready the visitor is.
// It is computed and emitted but does not take part in recommendation lookup.
type EngagementReadiness string

const (
	ReadinessSelfGuided     EngagementReadiness = "SelfGuided"
	ReadinessGuided         EngagementReadiness = "Guided"
	ReadinessExecutionReady EngagementReadiness = "ExecutionReady"
)

// Canonical orders. Stage order doubles as tie-break priority.
var (
	stageOrder      = [...]Stage{StageLaunch, StageGrowth, StageScale}
	bottleneckOrder = [...]Bottleneck{
		BottleneckClarity,
		BottleneckPositioning,
		BottleneckRevenue,
		BottleneckSystems,
		BottleneckFounderDependency,
	}
	readinessOrder = [...]EngagementReadiness{
		ReadinessSelfGuided,
		ReadinessGuided,
		ReadinessExecutionReady,
	}
)

// Stages returns every Stage in priority order.
func Stages() []Stage { return append([]Stage(nil), stageOrder[:]...) }

// Bottlenecks returns every Bottleneck in canonical order.
func Bottlenecks() []Bottleneck { return append([]Bottleneck(nil), bottleneckOrder[:]...) }

// Readinesses returns every EngagementReadiness in canonical order.
func Readinesses() []EngagementReadiness {
	return append([]EngagementReadiness(nil), readinessOrder[:]...)
}

func (s Stage) Valid() bool {
	for _, v := range stageOrder {
		if v == s {
			return true
		}
	}
	return false
}

func (b Bottleneck) Valid() bool {
	for _, v := range bottleneckOrder {
		if v == b {
			return true
		}
	}
	return false
}

// Label is the human-readable form used in emails and CRM fields.
func (b Bottleneck) Label() string {
	if b == BottleneckFounderDependency {
		return "Founder Dependency"
	}
	return string(b)
}

func (r EngagementReadiness) Valid() bool {
	for _, v := range readinessOrder {
		if v == r {
			return true
		}
	}
	return false
}

// AnswerSet maps a question ID to the selected option value token.
type AnswerSet map[string]string

// Recommendation is the offer shown for a resolved (Stage, Bottleneck) pair.
type Recommendation struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Route       string `json:"route"`
}

// Result is the classification returned for a completed quiz.
type Result struct {
	Stage                 Stage               `json:"stage"`
	Bottleneck            Bottleneck          `json:"bottleneck"`
	EngagementReadiness   EngagementReadiness `json:"engagementReadiness,omitempty"`
	RecommendedSystem     Recommendation      `json:"recommendedSystem"`
	StageDescription      string              `json:"stageDescription"`
	BottleneckDescription string              `json:"bottleneckDescription"`
	WhatToAvoid           string              `json:"whatToAvoid"`
}

// Complete reports whether every display field is populated and every axis
// value is a known enum member. Remote classifier payloads are checked with it.
func (r Result) Complete() bool {
	if !r.Stage.Valid() || !r.Bottleneck.Valid() {
		return false
	}
	if r.EngagementReadiness != "" && !r.EngagementReadiness.Valid() {
		return false
	}
	return r.RecommendedSystem.Name != "" &&
		r.RecommendedSystem.Route != "" &&
		r.StageDescription != "" &&
		r.BottleneckDescription != "" &&
		r.WhatToAvoid != ""
}

// pkg/diagnostic/scoring.go
package diagnostic

// weights is one row of a scoring table: the points an option adds per axis member.
type weights struct {
	stage      map[Stage]int
	bottleneck map[Bottleneck]int
	readiness  map[EngagementReadiness]int
}

// scoringTable holds, per question, the increments for each option token.
// Tokens missing from a row score nothing on any axis.
var scoringTable = map[string]map[string]weights{
	QuestionBusinessStage: {
		"idea": {
			stage:      map[Stage]int{StageLaunch: 3},
			bottleneck: map[Bottleneck]int{BottleneckClarity: 1},
			readiness:  map[EngagementReadiness]int{ReadinessSelfGuided: 1},
		},
		"early-revenue": {
			stage:      map[Stage]int{StageLaunch: 2, StageGrowth: 1},
			bottleneck: map[Bottleneck]int{BottleneckRevenue: 1},
		},
		"consistent-revenue": {
			stage:      map[Stage]int{StageGrowth: 3},
			bottleneck: map[Bottleneck]int{BottleneckPositioning: 1},
			readiness:  map[EngagementReadiness]int{ReadinessGuided: 1},
		},
		"scaling": {
			stage:      map[Stage]int{StageScale: 3},
			bottleneck: map[Bottleneck]int{BottleneckSystems: 1},
		},
		"established": {
			stage:      map[Stage]int{StageScale: 2, StageGrowth: 1},
			bottleneck: map[Bottleneck]int{BottleneckFounderDependency: 1},
			readiness:  map[EngagementReadiness]int{ReadinessExecutionReady: 1},
		},
	},
	QuestionTimeSpent: {
		"focus": {
			stage:      map[Stage]int{StageLaunch: 1},
			bottleneck: map[Bottleneck]int{BottleneckClarity: 2},
		},
		"marketing": {
			bottleneck: map[Bottleneck]int{BottleneckPositioning: 2},
		},
		"sales": {
			stage:      map[Stage]int{StageGrowth: 1},
			bottleneck: map[Bottleneck]int{BottleneckRevenue: 2},
		},
		"operations": {
			stage:      map[Stage]int{StageScale: 1},
			bottleneck: map[Bottleneck]int{BottleneckSystems: 2},
		},
		"everything": {
			bottleneck: map[Bottleneck]int{BottleneckFounderDependency: 2},
		},
	},
	QuestionOfferClarity: {
		"unclear": {
			stage:      map[Stage]int{StageLaunch: 1},
			bottleneck: map[Bottleneck]int{BottleneckClarity: 2},
		},
		"somewhat": {
			bottleneck: map[Bottleneck]int{BottleneckPositioning: 2},
		},
		"clear-not-converting": {
			stage:      map[Stage]int{StageGrowth: 1},
			bottleneck: map[Bottleneck]int{BottleneckRevenue: 2},
		},
		"clear-and-converting": {
			stage:      map[Stage]int{StageScale: 1},
			bottleneck: map[Bottleneck]int{BottleneckSystems: 1},
			readiness:  map[EngagementReadiness]int{ReadinessExecutionReady: 1},
		},
	},
	QuestionDependence: {
		"fully-dependent": {
			stage:      map[Stage]int{StageLaunch: 1},
			bottleneck: map[Bottleneck]int{BottleneckFounderDependency: 1},
		},
		"mostly-dependent": {
			stage:      map[Stage]int{StageGrowth: 1},
			bottleneck: map[Bottleneck]int{BottleneckFounderDependency: 2},
		},
		"some-delegation": {
			stage:      map[Stage]int{StageGrowth: 1},
			bottleneck: map[Bottleneck]int{BottleneckSystems: 1},
		},
		"team-runs-it": {
			stage:      map[Stage]int{StageScale: 2},
			bottleneck: map[Bottleneck]int{BottleneckSystems: 1},
		},
	},
	QuestionRevenue: {
		"struggle": {
			stage:      map[Stage]int{StageLaunch: 1},
			bottleneck: map[Bottleneck]int{BottleneckRevenue: 1, BottleneckClarity: 1},
		},
		"inconsistent": {
			stage:      map[Stage]int{StageGrowth: 1},
			bottleneck: map[Bottleneck]int{BottleneckRevenue: 2},
		},
		"predictable": {
			stage:      map[Stage]int{StageGrowth: 1, StageScale: 1},
			bottleneck: map[Bottleneck]int{BottleneckSystems: 1},
		},
		"recurring": {
			stage:      map[Stage]int{StageScale: 2},
			bottleneck: map[Bottleneck]int{BottleneckSystems: 1},
		},
	},
	QuestionBiggestIssue: {
		"what-to-build": {
			stage:      map[Stage]int{StageLaunch: 1},
			bottleneck: map[Bottleneck]int{BottleneckClarity: 3},
			readiness:  map[EngagementReadiness]int{ReadinessSelfGuided: 1},
		},
		"how-to-stand-out": {
			bottleneck: map[Bottleneck]int{BottleneckPositioning: 3},
		},
		"how-to-sell-more": {
			stage:      map[Stage]int{StageGrowth: 1},
			bottleneck: map[Bottleneck]int{BottleneckRevenue: 3},
		},
		"how-to-scale-ops": {
			stage:      map[Stage]int{StageScale: 1},
			bottleneck: map[Bottleneck]int{BottleneckSystems: 3},
		},
		"how-to-step-back": {
			stage:      map[Stage]int{StageScale: 1},
			bottleneck: map[Bottleneck]int{BottleneckFounderDependency: 3},
		},
	},
	QuestionSupport: {
		"validate-idea": {
			stage:      map[Stage]int{StageLaunch: 1},
			bottleneck: map[Bottleneck]int{BottleneckClarity: 1},
			readiness:  map[EngagementReadiness]int{ReadinessSelfGuided: 2},
		},
		"learn-myself": {
			readiness: map[EngagementReadiness]int{ReadinessSelfGuided: 2},
		},
		"guidance": {
			readiness: map[EngagementReadiness]int{ReadinessGuided: 2},
		},
		"done-with-you": {
			readiness: map[EngagementReadiness]int{ReadinessGuided: 1, ReadinessExecutionReady: 1},
		},
		"done-for-you": {
			stage:     map[Stage]int{StageScale: 1},
			readiness: map[EngagementReadiness]int{ReadinessExecutionReady: 2},
		},
	},
}

// ScoreCard accumulates points per axis member for a single classification.
type ScoreCard struct {
	StageScores      map[Stage]int               `json:"stage"`
	BottleneckScores map[Bottleneck]int          `json:"bottleneck"`
	ReadinessScores  map[EngagementReadiness]int `json:"engagementReadiness"`
}

// NewScoreCard returns a card with every axis member present at zero.
func NewScoreCard() ScoreCard {
	sc := ScoreCard{
		StageScores:      make(map[Stage]int, len(stageOrder)),
		BottleneckScores: make(map[Bottleneck]int, len(bottleneckOrder)),
		ReadinessScores:  make(map[EngagementReadiness]int, len(readinessOrder)),
	}
	for _, s := range stageOrder {
		sc.StageScores[s] = 0
	}
	for _, b := range bottleneckOrder {
		sc.BottleneckScores[b] = 0
	}
	for _, r := range readinessOrder {
		sc.ReadinessScores[r] = 0
	}
	return sc
}

func (sc ScoreCard) add(w weights) {
	for k, v := range w.stage {
		sc.StageScores[k] += v
	}
	for k, v := range w.bottleneck {
		sc.BottleneckScores[k] += v
	}
	for k, v := range w.readiness {
		sc.ReadinessScores[k] += v
	}
}

// Score sums the table increments for every answer. Unknown question IDs and
// unknown option tokens add nothing.
func Score(answers AnswerSet) ScoreCard {
	sc := NewScoreCard()
	for questionID, token := range answers {
		rows, ok := scoringTable[questionID]
		if !ok {
			continue
		}
		if w, ok := rows[token]; ok {
			sc.add(w)
		}
	}
	return sc
}

// Stage resolves the stage axis. Ties go to the earlier stage.
func (sc ScoreCard) Stage() Stage {
	winner := stageOrder[0]
	best := sc.StageScores[winner]
	for _, s := range stageOrder[1:] {
		if sc.StageScores[s] > best {
			winner, best = s, sc.StageScores[s]
		}
	}
	return winner
}

// Bottleneck resolves the bottleneck axis: first maximum in canonical order,
// Clarity when nothing scored.
func (sc ScoreCard) Bottleneck() Bottleneck {
	winner, best := BottleneckClarity, 0
	for _, b := range bottleneckOrder {
		if sc.BottleneckScores[b] > best {
			winner, best = b, sc.BottleneckScores[b]
		}
	}
	return winner
}

// EngagementReadiness resolves the readiness axis: first maximum in canonical
// order, Guided when nothing scored.
func (sc ScoreCard) EngagementReadiness() EngagementReadiness {
	winner, best := ReadinessGuided, 0
	for _, r := range readinessOrder {
		if sc.ReadinessScores[r] > best {
			winner, best = r, sc.ReadinessScores[r]
		}
	}
	return winner
}

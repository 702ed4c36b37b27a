package diagnostic

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScore_StartsAtZeroForEveryMember(t *testing.T) {
	sc := Score(nil)

	assert.Len(t, sc.StageScores, len(Stages()))
	assert.Len(t, sc.BottleneckScores, len(Bottlenecks()))
	assert.Len(t, sc.ReadinessScores, len(Readinesses()))

	for _, s := range Stages() {
		assert.Zero(t, sc.StageScores[s])
	}
	for _, b := range Bottlenecks() {
		assert.Zero(t, sc.BottleneckScores[b])
	}
	for _, r := range Readinesses() {
		assert.Zero(t, sc.ReadinessScores[r])
	}
}

func TestScore_Accumulates(t *testing.T) {
	sc := Score(launchClarityAnswers())

	assert.Equal(t, 9, sc.StageScores[StageLaunch])
	assert.Equal(t, 0, sc.StageScores[StageGrowth])
	assert.Equal(t, 0, sc.StageScores[StageScale])
	assert.Equal(t, 10, sc.BottleneckScores[BottleneckClarity])
	assert.Equal(t, 1, sc.BottleneckScores[BottleneckRevenue])
	assert.Equal(t, 1, sc.BottleneckScores[BottleneckFounderDependency])
	assert.Equal(t, 4, sc.ReadinessScores[ReadinessSelfGuided])
}

func TestScore_UnknownTokenIsNoOp(t *testing.T) {
	base := AnswerSet{QuestionBusinessStage: "idea"}
	withJunk := AnswerSet{QuestionBusinessStage: "idea", QuestionTimeSpent: "knitting", "q42": "focus"}

	assert.Equal(t, Score(base), Score(withJunk))
}

func TestScoreCard_StageTieBreak(t *testing.T) {
	tests := []struct {
		name     string
		answers  AnswerSet
		scores   map[Stage]int
		expected Stage
	}{
		{
			name: "launch and growth tie resolves to launch",
			// early-revenue: Launch 2, Growth 1; sales: Growth 1
			answers:  AnswerSet{QuestionBusinessStage: "early-revenue", QuestionTimeSpent: "sales"},
			scores:   map[Stage]int{StageLaunch: 2, StageGrowth: 2, StageScale: 0},
			expected: StageLaunch,
		},
		{
			name:     "growth and scale tie resolves to growth",
			answers:  AnswerSet{QuestionRevenue: "predictable"},
			scores:   map[Stage]int{StageLaunch: 0, StageGrowth: 1, StageScale: 1},
			expected: StageGrowth,
		},
		{
			name: "three way tie resolves to launch",
			// early-revenue: L2 G1; mostly-dependent: G1; recurring: S2
			answers: AnswerSet{
				QuestionBusinessStage: "early-revenue",
				QuestionDependence:    "mostly-dependent",
				QuestionRevenue:       "recurring",
			},
			scores:   map[Stage]int{StageLaunch: 2, StageGrowth: 2, StageScale: 2},
			expected: StageLaunch,
		},
		{
			name:     "no stage points resolves to launch",
			answers:  AnswerSet{QuestionSupport: "guidance"},
			scores:   map[Stage]int{StageLaunch: 0, StageGrowth: 0, StageScale: 0},
			expected: StageLaunch,
		},
		{
			name:     "clear scale winner",
			answers:  AnswerSet{QuestionBusinessStage: "scaling"},
			scores:   map[Stage]int{StageLaunch: 0, StageGrowth: 0, StageScale: 3},
			expected: StageScale,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sc := Score(tt.answers)
			assert.Equal(t, tt.scores, sc.StageScores)
			assert.Equal(t, tt.expected, sc.Stage())
		})
	}
}

func TestScoreCard_BottleneckTieBreak(t *testing.T) {
	tests := []struct {
		name     string
		scores   map[Bottleneck]int
		expected Bottleneck
	}{
		{
			name:     "all zero defaults to clarity",
			scores:   map[Bottleneck]int{},
			expected: BottleneckClarity,
		},
		{
			name:     "positioning and revenue tie takes positioning",
			scores:   map[Bottleneck]int{BottleneckPositioning: 2, BottleneckRevenue: 2},
			expected: BottleneckPositioning,
		},
		{
			name:     "systems and founder dependency tie takes systems",
			scores:   map[Bottleneck]int{BottleneckSystems: 4, BottleneckFounderDependency: 4, BottleneckClarity: 1},
			expected: BottleneckSystems,
		},
		{
			name:     "clarity ties with everything",
			scores:   map[Bottleneck]int{BottleneckClarity: 3, BottleneckPositioning: 3, BottleneckRevenue: 3, BottleneckSystems: 3, BottleneckFounderDependency: 3},
			expected: BottleneckClarity,
		},
		{
			name:     "single winner last in order",
			scores:   map[Bottleneck]int{BottleneckClarity: 1, BottleneckFounderDependency: 2},
			expected: BottleneckFounderDependency,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sc := NewScoreCard()
			for k, v := range tt.scores {
				sc.BottleneckScores[k] = v
			}
			assert.Equal(t, tt.expected, sc.Bottleneck())
		})
	}
}

func TestScoreCard_BottleneckTieFromAnswers(t *testing.T) {
	// somewhat: Positioning 2; sales: Revenue 2
	sc := Score(AnswerSet{QuestionOfferClarity: "somewhat", QuestionTimeSpent: "sales"})

	require.Equal(t, sc.BottleneckScores[BottleneckPositioning], sc.BottleneckScores[BottleneckRevenue])
	assert.Equal(t, BottleneckPositioning, sc.Bottleneck())
}

func TestScoreCard_ReadinessTieBreak(t *testing.T) {
	tests := []struct {
		name     string
		scores   map[EngagementReadiness]int
		expected EngagementReadiness
	}{
		{name: "all zero defaults to guided", scores: map[EngagementReadiness]int{}, expected: ReadinessGuided},
		{
			name:     "self guided and guided tie takes self guided",
			scores:   map[EngagementReadiness]int{ReadinessSelfGuided: 2, ReadinessGuided: 2},
			expected: ReadinessSelfGuided,
		},
		{
			name:     "guided and execution ready tie takes guided",
			scores:   map[EngagementReadiness]int{ReadinessGuided: 1, ReadinessExecutionReady: 1},
			expected: ReadinessGuided,
		},
		{
			name:     "execution ready wins outright",
			scores:   map[EngagementReadiness]int{ReadinessExecutionReady: 3, ReadinessSelfGuided: 1},
			expected: ReadinessExecutionReady,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sc := NewScoreCard()
			for k, v := range tt.scores {
				sc.ReadinessScores[k] = v
			}
			assert.Equal(t, tt.expected, sc.EngagementReadiness())
		})
	}
}

func TestScoringTable_CoversQuestionBank(t *testing.T) {
	questions := Questions()
	require.Len(t, questions, 7)
	assert.Len(t, scoringTable, len(questions))

	for _, q := range questions {
		rows, ok := scoringTable[q.ID]
		require.True(t, ok, "question %s has no scoring rows", q.ID)

		assert.GreaterOrEqual(t, len(q.Options), 4, q.ID)
		assert.LessOrEqual(t, len(q.Options), 5, q.ID)
		assert.Len(t, rows, len(q.Options), q.ID)

		for _, opt := range q.Options {
			w, ok := rows[opt.Value]
			require.True(t, ok, "%s/%s has no scoring row", q.ID, opt.Value)

			for _, v := range w.stage {
				assert.Positive(t, v)
			}
			for _, v := range w.bottleneck {
				assert.Positive(t, v)
			}
			for _, v := range w.readiness {
				assert.Positive(t, v)
			}
		}
	}
}

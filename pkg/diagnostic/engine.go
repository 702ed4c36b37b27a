// Package diagnostic classifies a completed growth-diagnostic quiz into a
// business stage, a primary bottleneck and an engagement-readiness estimate,
// and looks up the matching offer and display copy.
//
// Classification is a pure function of the answers: a fixed additive point
// table per question, resolved per axis with fixed tie-break rules.
package diagnostic

// Classify scores the answers and resolves them into a Result. It never
// fails: missing questions and unknown tokens simply score nothing.
func Classify(answers AnswerSet) Result {
	sc := Score(answers)
	return Resolve(sc)
}

// Resolve turns a populated ScoreCard into a Result.
func Resolve(sc ScoreCard) Result {
	stage := sc.Stage()
	bottleneck := sc.Bottleneck()

	return Result{
		Stage:                 stage,
		Bottleneck:            bottleneck,
		EngagementReadiness:   sc.EngagementReadiness(),
		RecommendedSystem:     RecommendationFor(stage, bottleneck),
		StageDescription:      StageDescription(stage),
		BottleneckDescription: BottleneckDescription(bottleneck),
		WhatToAvoid:           WhatToAvoid(stage),
	}
}

// Missing returns the IDs of bank questions that have no answer, in display order.
func Missing(answers AnswerSet) []string {
	var missing []string
	for _, id := range QuestionIDs() {
		if _, ok := answers[id]; !ok {
			missing = append(missing, id)
		}
	}
	return missing
}

// IsComplete reports whether every bank question has a known option selected.
func IsComplete(answers AnswerSet) bool {
	for _, id := range QuestionIDs() {
		token, ok := answers[id]
		if !ok {
			return false
		}
		if _, known := scoringTable[id][token]; !known {
			return false
		}
	}
	return true
}

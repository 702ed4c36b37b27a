// pkg/diagnostic/recommendations.go
package diagnostic

// defaultRecommendationKey is served for every pair missing from recommendations.
const defaultRecommendationKey = "Launch-Clarity"

// recommendations covers five of the fifteen (Stage, Bottleneck) pairs.
// The remaining ten resolve to the default entry; do not add guesses here.
var recommendations = map[string]Recommendation{
	"Launch-Clarity": {
		Name:        "BoltGuider",
		Description: "A guided sprint that turns a loose idea into one validated offer, a first customer profile and a 30-day plan you can act on without second-guessing.",
		Route:       "/systems/boltguider#hero",
	},
	"Launch-Positioning": {
		Name:        "BoltPositioner",
		Description: "Sharpen who you serve and why they should choose you. We rebuild your message, your offer page and your first outreach scripts around a single clear promise.",
		Route:       "/systems/boltpositioner#hero",
	},
	"Growth-Positioning": {
		Name:        "BoltAmplifier",
		Description: "Your offer works, but the market does not see it yet. We reposition the brand, tighten the proof and put a content engine behind it so demand stops depending on referrals.",
		Route:       "/systems/boltamplifier#hero",
	},
	"Growth-Revenue": {
		Name:        "BoltEngine",
		Description: "A repeatable sales system: pipeline stages, follow-up cadences and pricing that lift close rates and smooth out the feast-or-famine months.",
		Route:       "/systems/boltengine#hero",
	},
	"Scale-FounderDependency": {
		Name:        "BoltOperator",
		Description: "Get the business out of your head. We document the critical workflows, hand ownership to your team and set up the dashboards that let you step back with confidence.",
		Route:       "/systems/boltoperator#hero",
	},
}

var stageDescriptions = map[Stage]string{
	StageLaunch: "You are in the Launch stage. The business is still taking shape: the offer, the audience and the first sales are all being proven at the same time.",
	StageGrowth: "You are in the Growth stage. Customers are buying and revenue is real, and the work now is making that growth consistent instead of hard-won.",
	StageScale:  "You are in the Scale stage. The model works; what limits you now is how well the business runs without constant hands-on effort.",
}

var bottleneckDescriptions = map[Bottleneck]string{
	BottleneckClarity:           "Your main bottleneck is clarity. Too many options are competing for attention, so effort gets spread thin and nothing compounds.",
	BottleneckPositioning:       "Your main bottleneck is positioning. Buyers cannot quickly tell why you are the right choice, so you compete on price or get overlooked.",
	BottleneckRevenue:           "Your main bottleneck is revenue. Interest does not reliably turn into sales, which keeps cash flow unpredictable.",
	BottleneckSystems:           "Your main bottleneck is systems. Delivery and operations rely on workarounds that break as volume grows.",
	BottleneckFounderDependency: "Your main bottleneck is founder dependency. Decisions and delivery route through you, which caps growth at your available hours.",
}

var whatToAvoid = map[Stage]string{
	StageLaunch: "Avoid building out tools, branding and automation before a handful of customers have paid for the core offer.",
	StageGrowth: "Avoid adding new offers or channels to fix inconsistency; double down on the one that already works and make it repeatable.",
	StageScale:  "Avoid hiring your way out of chaos before the key processes are written down and owned by someone other than you.",
}

// RecommendationFor returns the offer for a pair, falling back to the
// default offer for pairs the table does not cover.
func RecommendationFor(stage Stage, bottleneck Bottleneck) Recommendation {
	if rec, ok := recommendations[recommendationKey(stage, bottleneck)]; ok {
		return rec
	}
	return recommendations[defaultRecommendationKey]
}

// HasRecommendation reports whether the pair has its own entry rather than
// the fallback.
func HasRecommendation(stage Stage, bottleneck Bottleneck) bool {
	_, ok := recommendations[recommendationKey(stage, bottleneck)]
	return ok
}

// DefaultRecommendation returns the fallback offer.
func DefaultRecommendation() Recommendation {
	return recommendations[defaultRecommendationKey]
}

func recommendationKey(stage Stage, bottleneck Bottleneck) string {
	return string(stage) + "-" + string(bottleneck)
}

func StageDescription(stage Stage) string { return stageDescriptions[stage] }

func BottleneckDescription(bottleneck Bottleneck) string {
	return bottleneckDescriptions[bottleneck]
}

func WhatToAvoid(stage Stage) string { return whatToAvoid[stage] }

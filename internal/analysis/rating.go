package analysis

import (
	"math"
	"sort"
	"strings"
	"time"

	"github.com/sumedhk0/GitHubAnalyzer/internal/profile"
)

// Weights holds the relative importance of each rating sub-score.
type Weights struct {
	Frequency   float64
	Recency     float64
	Complexity  float64
	Quality     float64
	Consistency float64
	Proficiency float64
}

// DefaultWeights sum to 1.0.
func DefaultWeights() Weights {
	return Weights{
		Frequency:   0.15,
		Recency:     0.15,
		Complexity:  0.20,
		Quality:     0.20,
		Consistency: 0.10,
		Proficiency: 0.20,
	}
}

// Engine turns aggregated skill evidence into stable 1-100 ratings.
type Engine struct {
	weights Weights

	// now is a seam for deterministic tests.
	now func() time.Time
}

func NewEngine() *Engine {
	return &Engine{weights: DefaultWeights(), now: time.Now}
}

// CalculateRatings rates every aggregated skill, sorted descending by
// final score.
func (e *Engine) CalculateRatings(skills map[string]*profile.AggregatedSkill) []profile.SkillRating {
	ratings := make([]profile.SkillRating, 0, len(skills))
	for _, agg := range skills {
		ratings = append(ratings, e.rate(agg))
	}

	sort.SliceStable(ratings, func(i, j int) bool {
		return ratings[i].ProficiencyScore > ratings[j].ProficiencyScore
	})

	return ratings
}

func (e *Engine) rate(agg *profile.AggregatedSkill) profile.SkillRating {
	now := e.now()

	// Frequency: log scale, saturating around e^4 occurrences.
	frequency := math.Min(math.Log(float64(len(agg.Occurrences)))+1, 5) / 5 * 100

	mostRecent := now
	firstSeen := now
	if len(agg.Occurrences) > 0 {
		mostRecent = agg.Occurrences[0].Timestamp
		firstSeen = agg.Occurrences[0].Timestamp
		for _, occ := range agg.Occurrences[1:] {
			if occ.Timestamp.After(mostRecent) {
				mostRecent = occ.Timestamp
			}
			if occ.Timestamp.Before(firstSeen) {
				firstSeen = occ.Timestamp
			}
		}
	}

	daysSince := math.Max(now.Sub(mostRecent).Hours()/24, 0)
	recency := (1 - math.Min(daysSince/365, 1)) * 100

	complexity := scoreMeanOrDefault(agg.ComplexityScores)
	quality := scoreMeanOrDefault(agg.QualityScores)
	consistency := e.consistency(agg.Occurrences)
	proficiency := proficiencyFromSignals(agg.Occurrences)

	final := math.Round(frequency*e.weights.Frequency +
		recency*e.weights.Recency +
		complexity*e.weights.Complexity +
		quality*e.weights.Quality +
		consistency*e.weights.Consistency +
		proficiency*e.weights.Proficiency)

	score := int(final)
	if score < 1 {
		score = 1
	}
	if score > 100 {
		score = 100
	}

	confidence := math.Min(float64(len(agg.Occurrences))/20, 1)

	return profile.SkillRating{
		Skill:            agg.Skill,
		ProficiencyScore: score,
		Confidence:       confidence,
		Trend:            e.trend(agg.Occurrences),
		Evidence: profile.SkillEvidence{
			CommitCount:       len(agg.Occurrences),
			TotalLinesChanged: agg.TotalLines,
			FirstSeen:         firstSeen,
			LastSeen:          mostRecent,
			Repositories:      agg.Repositories(),
		},
	}
}

// scoreMeanOrDefault scales a 1-10 assessment mean to 100; absent evidence
// defaults to the neutral 50.
func scoreMeanOrDefault(scores []float64) float64 {
	if len(scores) == 0 {
		return 50
	}
	sum := 0.0
	for _, s := range scores {
		sum += s
	}
	return sum / float64(len(scores)) * 10
}

// consistency measures how regularly a skill shows up: mean gap between
// sorted occurrence timestamps, 90+ day gaps bottoming out at zero.
func (e *Engine) consistency(occurrences []profile.SkillOccurrence) float64 {
	if len(occurrences) < 2 {
		return 50
	}

	timestamps := make([]time.Time, len(occurrences))
	for i, occ := range occurrences {
		timestamps[i] = occ.Timestamp
	}
	sort.Slice(timestamps, func(i, j int) bool { return timestamps[i].Before(timestamps[j]) })

	totalGapDays := 0.0
	for i := 1; i < len(timestamps); i++ {
		totalGapDays += timestamps[i].Sub(timestamps[i-1]).Hours() / 24
	}
	avgGap := totalGapDays / float64(len(timestamps)-1)

	return math.Max((1-math.Min(avgGap/90, 1))*100, 0)
}

// proficiencyFromSignals is a confidence-weighted mean over the categorical
// labels reported by the generation collaborator.
func proficiencyFromSignals(occurrences []profile.SkillOccurrence) float64 {
	if len(occurrences) == 0 {
		return 50
	}

	weightedSum := 0.0
	totalWeight := 0.0
	for _, occ := range occurrences {
		var score float64
		switch strings.ToLower(occ.ProficiencySignal) {
		case "expert":
			score = 95
		case "advanced":
			score = 80
		case "intermediate":
			score = 60
		case "beginner":
			score = 35
		default:
			score = 50
		}
		weightedSum += score * occ.Confidence
		totalWeight += occ.Confidence
	}

	if totalWeight == 0 {
		return 50
	}
	return weightedSum / totalWeight
}

// trend classifies usage over the last year. New iff the skill has at most
// two occurrences.
func (e *Engine) trend(occurrences []profile.SkillOccurrence) profile.SkillTrend {
	if len(occurrences) <= 2 {
		return profile.TrendNew
	}

	now := e.now()
	sixMonthsAgo := now.AddDate(0, 0, -180)
	oneYearAgo := now.AddDate(0, 0, -365)

	recent, older := 0, 0
	for _, occ := range occurrences {
		switch {
		case occ.Timestamp.After(sixMonthsAgo):
			recent++
		case occ.Timestamp.After(oneYearAgo):
			older++
		}
	}

	if recent == 0 && older > 0 {
		return profile.TrendDormant
	}

	var ratio float64
	switch {
	case older > 0:
		ratio = float64(recent) / float64(older)
	case recent > 0:
		ratio = 2.0
	default:
		ratio = 1.0
	}

	switch {
	case ratio > 1.5:
		return profile.TrendImproving
	case ratio < 0.5:
		return profile.TrendDeclining
	default:
		return profile.TrendStable
	}
}

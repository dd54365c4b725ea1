// Package analysis reduces a session's evaluation results into the derived
// AnalysisSummary. Competency names are matched by exact string equality;
// different phrasings for the same skill stay separate entries.
package analysis

import (
	"fmt"
	"sort"

	"interview-orchestrator/internal/models"
)

type competencyTally struct {
	sum   float64
	count int
}

// Aggregate computes the session-level view of results. It is a pure,
// idempotent function: the same inputs always yield a byte-identical
// summary. Output is sorted since no ordering is part of the contract.
func Aggregate(sessionID string, results []models.EvaluationResult) models.AnalysisSummary {
	strengths := make(map[string]struct{})
	weaknesses := make(map[string]struct{})
	tallies := make(map[string]*competencyTally)

	for _, result := range results {
		for _, s := range result.Strengths {
			strengths[s] = struct{}{}
		}
		for _, w := range result.Weaknesses {
			weaknesses[w] = struct{}{}
		}
		for competency, score := range result.Scores {
			tally, ok := tallies[competency]
			if !ok {
				tally = &competencyTally{}
				tallies[competency] = tally
			}
			tally.sum += score
			tally.count++
		}
	}

	scores := make([]models.CompetencyScore, 0, len(tallies))
	for competency, tally := range tallies {
		// count is always > 0 here; a competency never scored has no tally.
		scores = append(scores, models.CompetencyScore{
			Competency: competency,
			Score:      tally.sum / float64(tally.count),
		})
	}
	sort.Slice(scores, func(i, j int) bool {
		return scores[i].Competency < scores[j].Competency
	})

	return models.AnalysisSummary{
		SessionID:        sessionID,
		OverallNotes:     fmt.Sprintf("Aggregated results from %d evaluated answers.", len(results)),
		Strengths:        sortedKeys(strengths),
		Weaknesses:       sortedKeys(weaknesses),
		CompetencyScores: scores,
	}
}

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for key := range set {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

package models

// Scorecard is the rubric attached to one generated question. It is created
// together with its question and never edited afterwards.
type Scorecard struct {
	Competencies []string `json:"competencies"`
	Signals      []string `json:"signals"`
	FailureModes []string `json:"failure_modes"`
}

// Question is one generated interview question with its scorecard.
type Question struct {
	ID           string    `json:"id"`
	QuestionText string    `json:"question"`
	Scorecard    Scorecard `json:"scorecard"`
}

// EvaluationResult is the structured scoring output for one answered
// question. Scores map free-form competency names to values in [1,5].
type EvaluationResult struct {
	Scores          map[string]float64 `json:"scores"`
	Strengths       []string           `json:"strengths"`
	Weaknesses      []string           `json:"weaknesses"`
	CoachingNotes   string             `json:"coaching_notes"`
	ImprovementPlan []string           `json:"improvement_plan"`
}

// ToneMetrics are low-level delivery measurements for one answer. Nil
// pointers mean the measurement is unknown.
type ToneMetrics struct {
	SpeedWPM      *float64 `json:"speed_wpm"`
	PitchVariance *float64 `json:"pitch_variance"` // 0..1 approximate
	VolumeAvg     *float64 `json:"volume_avg"`
	FillerCount   int      `json:"filler_count"`
	PausesRatio   *float64 `json:"pauses_ratio"`
}

// ToneResult is the delivery-style assessment for one answer. It does not
// participate in competency aggregation.
type ToneResult struct {
	Metrics     ToneMetrics `json:"metrics"`
	Summary     string      `json:"summary"`
	Suggestions []string    `json:"suggestions"`
}

// CompetencyScore is the session-level average for one competency name.
type CompetencyScore struct {
	Competency string  `json:"competency"`
	Score      float64 `json:"score"`
}

// AnalysisSummary is the derived, recomputed-on-demand aggregate view of a
// session. It is never persisted; the EvaluationResults are the source of
// truth.
type AnalysisSummary struct {
	SessionID        string            `json:"sessionId"`
	OverallNotes     string            `json:"overallNotes"`
	Strengths        []string          `json:"strengths"`
	Weaknesses       []string          `json:"weaknesses"`
	CompetencyScores []CompetencyScore `json:"competencyScores"`
}

package domain

// Metric names one answer-quality score.
type Metric string

// Scored metrics, in the order they are reported.
const (
	// MetricGroundedness is how much of the answer the retrieved chunks support.
	MetricGroundedness Metric = "groundedness"

	// MetricAnswerRelevance is how well the answer addresses the question.
	MetricAnswerRelevance Metric = "answer_relevance"

	// MetricContextRelevance is the mean relevance of each retrieved chunk
	// to the question.
	MetricContextRelevance Metric = "context_relevance"
)

// MaxJudgeScore is the top of the scale the judge model rates on.
// Scores are normalised to [0, 1] by dividing by it.
const MaxJudgeScore = 3

// MetricScore is one normalised score with the judge's reasoning.
type MetricScore struct {
	Metric  Metric  `json:"metric" yaml:"metric"`
	Score   float64 `json:"score" yaml:"score"`
	Reasons string  `json:"reasons,omitempty" yaml:"reasons,omitempty"`
}

// Evaluation is an answer together with its quality scores.
type Evaluation struct {
	Question string
	Answer   *Answer
	Scores   []MetricScore
}

// Score returns the score for m.
func (e *Evaluation) Score(m Metric) (MetricScore, bool) {
	for _, s := range e.Scores {
		if s.Metric == m {
			return s, true
		}
	}
	return MetricScore{}, false
}

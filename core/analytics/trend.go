package analytics

type TrendLabel string

const (
	TrendStrongImprovement TrendLabel = "Strong Improvement"
	TrendSteadyImprovement TrendLabel = "Steady Improvement"
	TrendNeedsAttention    TrendLabel = "Needs Attention"
	TrendSlightDecline     TrendLabel = "Slight Decline"
	TrendMaintainingLevel  TrendLabel = "Maintaining Level"
)

// Icon returns the chart glyph displayed next to the label.
func (l TrendLabel) Icon() string {
	switch l {
	case TrendStrongImprovement, TrendSteadyImprovement:
		return "📈"
	case TrendNeedsAttention, TrendSlightDecline:
		return "📉"
	default:
		return "📊"
	}
}

// PerformanceTrend classifies short-term (test3 - test2) against long-term (test3 - test1) movement.
func PerformanceTrend(s Scores) (TrendLabel, error) {
	if err := s.Validate(); err != nil {
		return "", err
	}
	return performanceTrend(s), nil
}

// first matching rule wins; rules 1 & 2 and 3 & 4 overlap.
func performanceTrend(s Scores) TrendLabel {
	recent := s.Test3 - s.Test2
	overall := s.Test3 - s.Test1

	switch {
	case recent > 5 && overall > 10:
		return TrendStrongImprovement
	case recent > 0 && overall > 0:
		return TrendSteadyImprovement
	case recent < -5 && overall < -10:
		return TrendNeedsAttention
	case recent < 0 && overall < 0:
		return TrendSlightDecline
	default:
		return TrendMaintainingLevel
	}
}

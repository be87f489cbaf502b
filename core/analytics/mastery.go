package analytics

type MasteryLevel string

const (
	MasteryExcellent        MasteryLevel = "Excellent"
	MasteryGood             MasteryLevel = "Good"
	MasteryAverage          MasteryLevel = "Average"
	MasteryNeedsImprovement MasteryLevel = "Needs Improvement"
)

// SubjectMastery buckets the mean of the scores. Lower bounds are inclusive.
func SubjectMastery(scores []float64) (MasteryLevel, error) {
	if err := validateScoreSeq(scores); err != nil {
		return "", err
	}
	return subjectMastery(scores), nil
}

func subjectMastery(scores []float64) MasteryLevel {
	avg := mean(scores)
	switch {
	case avg >= 90:
		return MasteryExcellent
	case avg >= 80:
		return MasteryGood
	case avg >= 70:
		return MasteryAverage
	default:
		return MasteryNeedsImprovement
	}
}

package analytics

// GPA weights per test; the most recent test counts most.
var gpaWeights = [3]float64{0.3, 0.3, 0.4}

const GPAScale = 4.0

// WeightedGPA returns the 4.0 scale GPA of the weighted average of the three test scores.
func WeightedGPA(s Scores) (float64, error) {
	if err := s.Validate(); err != nil {
		return 0, err
	}
	return weightedGPA(s), nil
}

func weightedGPA(s Scores) float64 {
	weighted := s.Test1*gpaWeights[0] + s.Test2*gpaWeights[1] + s.Test3*gpaWeights[2]
	return (weighted / 100) * GPAScale
}

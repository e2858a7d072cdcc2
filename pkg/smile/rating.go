package smile

const DefaultCaptureThreshold = 50

type Rating struct {
	Stars int    `json:"stars"`
	Label string `json:"label"`
}

// RateScore maps a score onto the five-step rating shown next to the camera.
func RateScore(score int) Rating {
	switch {
	case score >= 80:
		return Rating{Stars: 5, Label: "😄 5/5"}
	case score >= 70:
		return Rating{Stars: 4, Label: "😊 4/5"}
	case score >= 60:
		return Rating{Stars: 3, Label: "🙂 3/5"}
	case score >= 50:
		return Rating{Stars: 2, Label: "😐 2/5"}
	default:
		return Rating{Stars: 1, Label: "😕 1/5"}
	}
}

func CanCapture(score, threshold int) bool {
	return score >= threshold
}

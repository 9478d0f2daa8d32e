package progress

import (
	"math"
	"time"
)

// ScoreAttempt одна строка листа прогресса
type ScoreAttempt struct {
	Timestamp    time.Time `json:"timestamp"`
	StudentEmail string    `json:"studentEmail"`
	StudentName  string    `json:"studentName"`
	Unit         string    `json:"unit"`
	Score        float64   `json:"score"`
	Total        float64   `json:"total"`
	Percentage   int       `json:"percentage"`
}

// Percentage вычисляет round(score/total*100) с округлением половины вверх.
// При total <= 0 возвращает 0.
func Percentage(score, total float64) int {
	if total <= 0 {
		return 0
	}
	return int(math.Floor(score/total*100 + 0.5))
}

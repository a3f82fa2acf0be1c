package model_test

import (
	"math"
	"testing"

	"cyberquiz_backend/internals/features/progress/performance/model"
)

func TestRecordRunningMean(t *testing.T) {
	var p model.UserQuestionTypePerformanceModel

	p.Record(true, 10)
	p.Record(false, 20)
	p.Record(true, 30)

	if p.PerformanceTotalAttempts != 3 || p.PerformanceCorrectAttempts != 2 {
		t.Fatalf("counters = %d/%d, want 2/3", p.PerformanceCorrectAttempts, p.PerformanceTotalAttempts)
	}
	if math.Abs(p.PerformanceAvgTimeTaken-20) > 1e-9 {
		t.Errorf("avg time = %v, want 20", p.PerformanceAvgTimeTaken)
	}
	if math.Abs(p.PerformanceSuccessRate-200.0/3) > 1e-9 {
		t.Errorf("success rate = %v, want %v", p.PerformanceSuccessRate, 200.0/3)
	}
}

func TestSuccessRate(t *testing.T) {
	tests := []struct {
		name           string
		correct, total int
		want           float64
	}{
		{"no attempts", 0, 0, 0},
		{"all wrong", 0, 4, 0},
		{"half", 2, 4, 50},
		{"all right", 3, 3, 100},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := model.SuccessRate(tt.correct, tt.total); got != tt.want {
				t.Errorf("SuccessRate(%d, %d) = %v, want %v", tt.correct, tt.total, got, tt.want)
			}
		})
	}
}

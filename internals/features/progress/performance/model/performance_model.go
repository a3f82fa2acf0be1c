package model

import "time"

// UserQuestionTypePerformanceModel is the per-(user, question type) aggregate.
// SuccessRate and AvgTimeTaken are always derived from the counters.
type UserQuestionTypePerformanceModel struct {
	PerformanceID              uint      `gorm:"column:performance_id;primaryKey" json:"id"`
	PerformanceUserID          uint      `gorm:"column:performance_user_id;not null;uniqueIndex:uq_performance_user_type,priority:1" json:"userId"`
	PerformanceQuestionTypeID  uint      `gorm:"column:performance_question_type_id;not null;uniqueIndex:uq_performance_user_type,priority:2" json:"questionTypeId"`
	PerformanceTotalAttempts   int       `gorm:"column:performance_total_attempts;not null;default:0" json:"totalAttempts"`
	PerformanceCorrectAttempts int       `gorm:"column:performance_correct_attempts;not null;default:0" json:"correctAttempts"`
	PerformanceSuccessRate     float64   `gorm:"column:performance_success_rate;not null;default:0" json:"successRate"`
	PerformanceAvgTimeTaken    float64   `gorm:"column:performance_avg_time_taken;not null;default:0" json:"avgTimeTaken"`
	LastUpdated                time.Time `gorm:"column:last_updated;autoUpdateTime" json:"lastUpdated"`
}

func (UserQuestionTypePerformanceModel) TableName() string {
	return "user_question_type_performances"
}

// Record folds one attempt into the running statistics.
func (p *UserQuestionTypePerformanceModel) Record(isCorrect bool, timeTaken int) {
	oldTotal := p.PerformanceTotalAttempts
	p.PerformanceTotalAttempts++
	if isCorrect {
		p.PerformanceCorrectAttempts++
	}
	p.PerformanceAvgTimeTaken = (p.PerformanceAvgTimeTaken*float64(oldTotal) + float64(timeTaken)) /
		float64(p.PerformanceTotalAttempts)
	p.PerformanceSuccessRate = SuccessRate(p.PerformanceCorrectAttempts, p.PerformanceTotalAttempts)
}

func SuccessRate(correct, total int) float64 {
	if total <= 0 {
		return 0
	}
	return float64(correct) / float64(total) * 100
}

package models

import "time"

// Run statuses.
const (
	RunSuccess = "success"
	RunFailed  = "failed"
)

// PredictionRun records one fetch against the prediction source. The
// predictions themselves are never stored.
type PredictionRun struct {
	ID              uint      `json:"id" gorm:"primaryKey;autoIncrement;column:id"`
	ExecutionID     string    `json:"execution_id" gorm:"column:execution_id;size:36;uniqueIndex;not null"`
	Source          string    `json:"source" gorm:"column:source;size:20;not null"`
	ModelVersion    string    `json:"model_version" gorm:"column:model_version;size:50"`
	StartDate       string    `json:"start_date" gorm:"column:start_date;size:10;not null"`
	EndDate         string    `json:"end_date" gorm:"column:end_date;size:10;not null"`
	Status          string    `json:"status" gorm:"column:status;size:20;index"`
	RecordsProduced int       `json:"records_produced" gorm:"column:records_produced"`
	ErrorMessage    *string   `json:"error_message" gorm:"column:error_message;type:text"`
	StartedAt       time.Time `json:"started_at" gorm:"column:started_at;not null;index"`
	DurationMillis  int64     `json:"duration_ms" gorm:"column:duration_ms"`
	CreatedAt       time.Time `json:"created_at" gorm:"autoCreateTime"`
}

func (PredictionRun) TableName() string {
	return "prediction_runs"
}

package model

import "time"

// Prediction outcomes reported by the classifier.
const (
	PredictionReal = "real"
	PredictionFake = "fake"
)

// NewsAnalysis is one classification result. Rows are write-once: there is
// no update or delete path, only inserts and reads.
// idx_analysis_user_created = (user_id, created_at) backs the history scan.
type NewsAnalysis struct {
	ID             string    `gorm:"primaryKey;type:varchar(36)" json:"id"`
	UserID         string    `gorm:"type:varchar(128);index:idx_analysis_user_created;not null" json:"userId"`
	Content        string    `gorm:"type:text;not null" json:"content,omitempty"`
	Prediction     string    `gorm:"type:varchar(8);not null" json:"prediction"`
	Confidence     float64   `gorm:"not null" json:"confidence"`
	ModelUsed      string    `gorm:"type:varchar(64);not null" json:"modelUsed"`
	ProcessingTime float64   `gorm:"not null" json:"processingTime"`
	CreatedAt      time.Time `gorm:"index:idx_analysis_user_created" json:"createdAt"`
}

func (NewsAnalysis) TableName() string { return "news_analyses" }

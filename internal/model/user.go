package model

import "time"

// User mirrors an identity from the external auth provider. FirebaseUID is
// the correlation key; rows are written through upserts keyed on it.
type User struct {
	ID          string `gorm:"primaryKey;type:varchar(36)"`
	FirebaseUID string `gorm:"type:varchar(128);uniqueIndex:ux_user_firebase_uid;not null"`
	Email       string `gorm:"type:varchar(255);uniqueIndex:ux_user_email;not null"`
	DisplayName string `gorm:"type:varchar(255)"`
	PhotoURL    string `gorm:"type:text"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (User) TableName() string { return "users" }

package domain

import "time"

type Notification struct {
	ID           NotificationID `gorm:"primaryKey;autoIncrement" db:"id" json:"id"`
	UserID       UserID         `gorm:"not null;index:ix_notifications_user" db:"user_id" json:"userId"`
	ReportID     *ReportID      `gorm:"index:ix_notifications_report" db:"report_id" json:"reportId,omitempty"`
	Title        string         `gorm:"type:text;not null" db:"title" json:"title"`
	Note         string         `gorm:"type:text;not null" db:"note" json:"note"`
	SentDatetime time.Time      `gorm:"not null" db:"sent_datetime" json:"sentDatetime"`
	ReadDatetime *time.Time     `db:"read_datetime" json:"readDatetime,omitempty"`
}

func (Notification) TableName() string { return "notifications" }

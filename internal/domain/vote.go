package domain

import "time"

// Vote is unique per (user, report); the constraint lives in the database,
// not just in application checks.
type Vote struct {
	ID              VoteID    `gorm:"primaryKey;autoIncrement" db:"id" json:"id"`
	UserID          UserID    `gorm:"not null;uniqueIndex:ux_votes_user_report" db:"user_id" json:"userId"`
	ReportID        ReportID  `gorm:"not null;uniqueIndex:ux_votes_user_report" db:"report_id" json:"reportId"`
	IsPositive      bool      `gorm:"not null" db:"is_positive" json:"isPositive"`
	CreatedDatetime time.Time `gorm:"not null" db:"created_datetime" json:"createdDatetime"`
}

func (Vote) TableName() string { return "votes" }

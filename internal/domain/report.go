package domain

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

type ReportStatus string

const (
	StatusReported   ReportStatus = "reported"
	StatusPublished  ReportStatus = "published"
	StatusInProgress ReportStatus = "in_progress"
	StatusResolved   ReportStatus = "resolved"
	StatusCancelled  ReportStatus = "cancelled"
)

func (s ReportStatus) Valid() bool {
	switch s {
	case StatusReported, StatusPublished, StatusInProgress, StatusResolved, StatusCancelled:
		return true
	}
	return false
}

// Report is the central aggregate: one address, zero or more photos, zero or
// more votes. VotesPos/VotesNeg are denormalized counters that must always
// equal the count of matching vote rows; they move inside the same
// transaction as any vote mutation.
type Report struct {
	ID                ReportID     `gorm:"primaryKey;autoIncrement" db:"id" json:"id"`
	UserID            UserID       `gorm:"not null;index:ix_reports_user" db:"user_id" json:"userId"`
	Status            ReportStatus `gorm:"type:text;not null;default:'reported'" db:"status" json:"status"`
	Note              string       `gorm:"type:text;not null" db:"note" json:"note"`
	AdminNote         *string      `gorm:"type:text" db:"admin_note" json:"adminNote,omitempty"`
	VotesPos          int          `gorm:"not null;default:0" db:"votes_pos" json:"votesPos"`
	VotesNeg          int          `gorm:"not null;default:0" db:"votes_neg" json:"votesNeg"`
	ReportDatetime    time.Time    `gorm:"not null" db:"report_datetime" json:"reportDatetime"`
	PublishedDatetime *time.Time   `db:"published_datetime" json:"publishedDatetime,omitempty"`

	User    *User          `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"user,omitempty"`
	Address *ReportAddress `gorm:"foreignKey:ReportID;constraint:OnDelete:CASCADE" json:"address,omitempty"`
	Photos  []ReportPhoto  `gorm:"foreignKey:ReportID;constraint:OnDelete:CASCADE" json:"photos,omitempty"`
	Votes   []Vote         `gorm:"foreignKey:ReportID;constraint:OnDelete:CASCADE" json:"-"`
}

func (Report) TableName() string { return "reports" }

// ReportAddress stores coordinates as fixed-point decimals so a stored
// location round-trips without float drift.
type ReportAddress struct {
	ID         int64           `gorm:"primaryKey;autoIncrement" db:"id" json:"id"`
	ReportID   ReportID        `gorm:"uniqueIndex:ux_report_addresses_report;not null" db:"report_id" json:"reportId"`
	Building   *string         `gorm:"type:text" db:"building" json:"building,omitempty"`
	Street     *string         `gorm:"type:text" db:"street" json:"street,omitempty"`
	City       *string         `gorm:"type:text" db:"city" json:"city,omitempty"`
	State      *string         `gorm:"type:text" db:"state" json:"state,omitempty"`
	PostalCode *string         `gorm:"type:text" db:"postal_code" json:"postalCode,omitempty"`
	Country    *string         `gorm:"type:text" db:"country" json:"country,omitempty"`
	Latitude   decimal.Decimal `gorm:"type:decimal(8,6);not null" db:"latitude" json:"latitude"`
	Longitude  decimal.Decimal `gorm:"type:decimal(9,6);not null" db:"longitude" json:"longitude"`
}

func (ReportAddress) TableName() string { return "report_addresses" }

// ReportPhoto references its blob by an opaque storage token, never a
// filesystem path, so the storage root can move between deployments without
// invalidating rows. AiScore/AiLabels arrive asynchronously from the
// classification task.
type ReportPhoto struct {
	ID           PhotoID        `gorm:"primaryKey;autoIncrement" db:"id" json:"id"`
	ReportID     ReportID       `gorm:"not null;index:ix_report_photos_report" db:"report_id" json:"reportId"`
	FilenamePath string         `gorm:"type:text;not null" db:"filename_path" json:"filenamePath"`
	AiScore      *int           `db:"ai_score" json:"aiScore,omitempty"`
	AiLabels     datatypes.JSON `gorm:"type:jsonb" db:"ai_labels" json:"aiLabels,omitempty"`
}

func (ReportPhoto) TableName() string { return "report_photos" }

package dto

type VoteCreate struct {
	UserID     int64 `json:"userId"`
	ReportID   int64 `json:"reportId"`
	IsPositive bool  `json:"isPositive"`
}

type VoteUpdate struct {
	UserID     int64 `json:"userId"`
	ReportID   int64 `json:"reportId"`
	IsPositive bool  `json:"isPositive"`
}

package domain

type UserID = int64
type ReportID = int64
type VoteID = int64
type PhotoID = int64
type NotificationID = int64

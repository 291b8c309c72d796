package service

import (
	"context"

	"activeresident/internal/domain"
	"activeresident/internal/live"
)

type AssessService interface {
	// AssessReport classifies every photo of the report, persists
	// scores/labels, and cancels the report when any photo is flagged.
	AssessReport(ctx context.Context, reportID domain.ReportID) error
}

// Broadcaster announces report changes to live subscribers; satisfied by
// live.Hub.
type Broadcaster interface {
	Publish(ev live.Event)
}

package impl

import (
	"context"
	"errors"
	"testing"

	"activeresident/internal/auth"
	"activeresident/internal/domain"
	"activeresident/internal/dto"
)

func newVoteService(t *testing.T) (*VoteServiceImpl, *eventSink, *syncQueue) {
	t.Helper()
	st := newTestStore(t)
	events := &eventSink{}
	queue := &syncQueue{}
	svc := NewVoteServiceImpl(st, events, queue)
	svc.Notifier = NewNotificationServiceImpl(st)
	return svc, events, queue
}

func TestVoteLifecycleKeepsCountersConsistent(t *testing.T) {
	svc, _, _ := newVoteService(t)
	ctx := context.Background()

	owner := makeUser(t, svc.Store, "owner@example.com", false)
	voter := makeUser(t, svc.Store, "voter@example.com", false)
	rep := makeReport(t, svc.Store, owner.ID, domain.StatusPublished)

	ident := auth.Identity{ID: voter.ID}

	vote, err := svc.Create(ctx, ident, dto.VoteCreate{ReportID: rep.ID, IsPositive: true})
	if err != nil {
		t.Fatalf("create vote: %v", err)
	}
	if !vote.IsPositive {
		t.Fatalf("expected positive vote")
	}
	assertCounters(t, svc, rep.ID, 1, 0)

	// Same user, same report: the unique constraint must reject it and the
	// counters must not move.
	if _, err := svc.Create(ctx, ident, dto.VoteCreate{ReportID: rep.ID, IsPositive: false}); !errors.Is(err, domain.ErrDuplicateVote) {
		t.Fatalf("expected ErrDuplicateVote, got %v", err)
	}
	assertCounters(t, svc, rep.ID, 1, 0)

	// Flip moves one unit across, never changing the total.
	if _, err := svc.Update(ctx, ident, dto.VoteUpdate{ReportID: rep.ID, IsPositive: false}); err != nil {
		t.Fatalf("flip vote: %v", err)
	}
	assertCounters(t, svc, rep.ID, 0, 1)

	// Flip to the same polarity is a no-op.
	if _, err := svc.Update(ctx, ident, dto.VoteUpdate{ReportID: rep.ID, IsPositive: false}); err != nil {
		t.Fatalf("idempotent flip: %v", err)
	}
	assertCounters(t, svc, rep.ID, 0, 1)

	if err := svc.Delete(ctx, ident, 0, rep.ID); err != nil {
		t.Fatalf("delete vote: %v", err)
	}
	assertCounters(t, svc, rep.ID, 0, 0)

	if _, err := svc.Get(ctx, ident, 0, rep.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestVoteOnMissingReport(t *testing.T) {
	svc, _, _ := newVoteService(t)
	voter := makeUser(t, svc.Store, "voter@example.com", false)

	_, err := svc.Create(context.Background(), auth.Identity{ID: voter.ID}, dto.VoteCreate{ReportID: 9999, IsPositive: true})
	if !errors.Is(err, domain.ErrReportNotFound) {
		t.Fatalf("expected ErrReportNotFound, got %v", err)
	}
}

func TestVoteForAnotherUserNeedsAdmin(t *testing.T) {
	svc, _, _ := newVoteService(t)
	ctx := context.Background()

	owner := makeUser(t, svc.Store, "owner@example.com", false)
	voter := makeUser(t, svc.Store, "voter@example.com", false)
	other := makeUser(t, svc.Store, "other@example.com", false)
	admin := makeUser(t, svc.Store, "admin@example.com", true)
	rep := makeReport(t, svc.Store, owner.ID, domain.StatusPublished)

	_, err := svc.Create(ctx, auth.Identity{ID: voter.ID}, dto.VoteCreate{UserID: other.ID, ReportID: rep.ID, IsPositive: true})
	if !errors.Is(err, domain.ErrPermissionDenied) {
		t.Fatalf("expected ErrPermissionDenied, got %v", err)
	}

	if _, err := svc.Create(ctx, auth.Identity{ID: admin.ID, IsAdmin: true}, dto.VoteCreate{UserID: other.ID, ReportID: rep.ID, IsPositive: true}); err != nil {
		t.Fatalf("admin voting on behalf of other: %v", err)
	}
	vote, err := svc.Store.Votes().GetFor(ctx, other.ID, rep.ID)
	if err != nil {
		t.Fatalf("load vote: %v", err)
	}
	if vote.UserID != other.ID {
		t.Fatalf("vote recorded for wrong user: %d", vote.UserID)
	}
}

func TestVoteCreatePublishesLiveEvent(t *testing.T) {
	svc, events, queue := newVoteService(t)
	ctx := context.Background()

	owner := makeUser(t, svc.Store, "owner@example.com", false)
	voter := makeUser(t, svc.Store, "voter@example.com", false)
	rep := makeReport(t, svc.Store, owner.ID, domain.StatusPublished)

	if _, err := svc.Create(ctx, auth.Identity{ID: voter.ID}, dto.VoteCreate{ReportID: rep.ID, IsPositive: true}); err != nil {
		t.Fatalf("create vote: %v", err)
	}
	if len(events.events) != 1 || events.events[0].ReportID != rep.ID {
		t.Fatalf("expected one live event for report %d, got %+v", rep.ID, events.events)
	}
	if len(queue.names) != 1 || queue.names[0] != "notify_vote" {
		t.Fatalf("expected notify_vote job, got %v", queue.names)
	}

	notes, err := svc.Store.Notifications().ListForUser(ctx, owner.ID)
	if err != nil {
		t.Fatalf("list notifications: %v", err)
	}
	if len(notes) != 1 {
		t.Fatalf("expected owner notification, got %d", len(notes))
	}
}

func assertCounters(t *testing.T, svc *VoteServiceImpl, reportID domain.ReportID, wantPos, wantNeg int) {
	t.Helper()
	ctx := context.Background()

	rep, err := svc.Store.Reports().GetByID(ctx, reportID, false)
	if err != nil {
		t.Fatalf("load report: %v", err)
	}
	if rep.VotesPos != wantPos || rep.VotesNeg != wantNeg {
		t.Fatalf("counters = %d/%d, want %d/%d", rep.VotesPos, rep.VotesNeg, wantPos, wantNeg)
	}

	// The counters must always agree with the vote rows.
	pos, err := svc.Store.Votes().CountFor(ctx, reportID, true)
	if err != nil {
		t.Fatalf("count positive: %v", err)
	}
	neg, err := svc.Store.Votes().CountFor(ctx, reportID, false)
	if err != nil {
		t.Fatalf("count negative: %v", err)
	}
	if int(pos) != wantPos || int(neg) != wantNeg {
		t.Fatalf("vote rows = %d/%d, want %d/%d", pos, neg, wantPos, wantNeg)
	}
}

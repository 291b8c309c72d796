package impl

import (
	"context"
	"errors"
	"testing"
	"unicode/utf8"

	"activeresident/internal/auth"
	"activeresident/internal/domain"
)

func TestNotifyNewReportFanOut(t *testing.T) {
	st := newTestStore(t)
	svc := NewNotificationServiceImpl(st)
	ctx := context.Background()

	reporter := makeUser(t, st, "reporter@example.com", false)
	listener := makeUser(t, st, "listener@example.com", false)
	muted := makeUser(t, st, "muted@example.com", false)
	inactive := makeUser(t, st, "inactive@example.com", false)

	if err := st.Users().UpdateSettingsFields(ctx, muted.ID, map[string]any{"is_notification_allowed": false}); err != nil {
		t.Fatalf("mute user: %v", err)
	}
	if err := st.Users().Deactivate(ctx, inactive.ID, nowUTC()); err != nil {
		t.Fatalf("deactivate user: %v", err)
	}

	rep := makeReport(t, st, reporter.ID, domain.StatusPublished)
	if err := svc.NotifyNewReport(ctx, rep.ID); err != nil {
		t.Fatalf("fan-out: %v", err)
	}

	// The muted user and the deactivated user stay silent; the listener
	// and the reporter each get a row, the reporter's serving as a
	// submission receipt.
	for _, tc := range []struct {
		userID domain.UserID
		want   int
	}{
		{listener.ID, 1},
		{reporter.ID, 1},
		{muted.ID, 0},
		{inactive.ID, 0},
	} {
		notes, err := st.Notifications().ListForUser(ctx, tc.userID)
		if err != nil {
			t.Fatalf("list for %d: %v", tc.userID, err)
		}
		if len(notes) != tc.want {
			t.Fatalf("user %d: got %d notifications, want %d", tc.userID, len(notes), tc.want)
		}
	}

	notes, _ := st.Notifications().ListForUser(ctx, listener.ID)
	if notes[0].ReportID == nil || *notes[0].ReportID != rep.ID {
		t.Fatalf("notification not linked to report: %+v", notes[0])
	}
}

func TestTruncateKeepsRunesWhole(t *testing.T) {
	// Report notes carry accented characters; cutting mid-rune would
	// leave a mangled byte sequence in the notification text.
	note := "Rozbitá lavička pri škôlke na Štúrovej ulici"

	got := truncate(note, 10)
	want := "Rozbitá la..."
	if got != want {
		t.Fatalf("truncate = %q, want %q", got, want)
	}
	if !utf8.ValidString(got) {
		t.Fatalf("truncate produced invalid UTF-8: %q", got)
	}

	if got := truncate("short", 10); got != "short" {
		t.Fatalf("short string altered: %q", got)
	}
}

func TestNotifyVoteHonorsToggles(t *testing.T) {
	st := newTestStore(t)
	svc := NewNotificationServiceImpl(st)
	ctx := context.Background()

	owner := makeUser(t, st, "owner@example.com", false)
	rep := makeReport(t, st, owner.ID, domain.StatusPublished)

	if err := svc.NotifyVote(ctx, rep.ID); err != nil {
		t.Fatalf("notify vote: %v", err)
	}
	notes, err := st.Notifications().ListForUser(ctx, owner.ID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(notes) != 1 {
		t.Fatalf("expected 1 notification, got %d", len(notes))
	}

	// Switching the reaction toggle off silences further ones.
	if err := st.Users().UpdateSettingsFields(ctx, owner.ID, map[string]any{"is_onreact_notification": false}); err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if err := svc.NotifyVote(ctx, rep.ID); err != nil {
		t.Fatalf("second notify: %v", err)
	}
	notes, _ = st.Notifications().ListForUser(ctx, owner.ID)
	if len(notes) != 1 {
		t.Fatalf("toggle ignored, got %d notifications", len(notes))
	}
}

func TestMarkReadIsScopedToOwner(t *testing.T) {
	st := newTestStore(t)
	svc := NewNotificationServiceImpl(st)
	ctx := context.Background()

	owner := makeUser(t, st, "owner@example.com", false)
	other := makeUser(t, st, "other@example.com", false)

	note := &domain.Notification{UserID: owner.ID, Title: "t", Note: "n", SentDatetime: nowUTC()}
	if err := st.Notifications().Create(ctx, note); err != nil {
		t.Fatalf("create: %v", err)
	}

	if _, err := svc.MarkRead(ctx, auth.Identity{ID: other.ID}, note.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for foreign notification, got %v", err)
	}

	got, err := svc.MarkRead(ctx, auth.Identity{ID: owner.ID}, note.ID)
	if err != nil {
		t.Fatalf("mark read: %v", err)
	}
	if got.ReadDatetime == nil {
		t.Fatalf("read datetime not set")
	}
}

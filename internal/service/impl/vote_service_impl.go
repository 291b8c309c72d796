package impl

import (
	"context"
	"log/slog"
	"time"

	"activeresident/internal/auth"
	"activeresident/internal/domain"
	"activeresident/internal/dto"
	"activeresident/internal/live"
	"activeresident/internal/observability/metrics"
	"activeresident/internal/service"
	"activeresident/internal/store"
	"activeresident/internal/tasks"
)

type VoteServiceImpl struct {
	Store    *store.Store
	Events   service.Broadcaster
	Tasks    tasks.Queue
	Notifier service.NotificationService

	now func() time.Time
}

func NewVoteServiceImpl(st *store.Store, events service.Broadcaster, queue tasks.Queue) *VoteServiceImpl {
	return &VoteServiceImpl{
		Store:  st,
		Events: events,
		Tasks:  queue,
		now:    time.Now,
	}
}

// subject resolves whose vote an operation targets. A zero userID means the
// caller's own; acting for somebody else needs the admin flag.
func subject(ident auth.Identity, userID domain.UserID) (domain.UserID, error) {
	if userID == 0 || userID == ident.ID {
		return ident.ID, nil
	}
	if !ident.IsAdmin {
		return 0, domain.ErrPermissionDenied
	}
	return userID, nil
}

func (s *VoteServiceImpl) Create(ctx context.Context, ident auth.Identity, in dto.VoteCreate) (*domain.Vote, error) {
	userID, err := subject(ident, in.UserID)
	if err != nil {
		return nil, err
	}

	vote := &domain.Vote{
		UserID:          userID,
		ReportID:        in.ReportID,
		IsPositive:      in.IsPositive,
		CreatedDatetime: s.now().UTC(),
	}

	err = s.Store.WithTx(ctx, func(tx *store.Store) error {
		ok, err := tx.Reports().Exists(ctx, in.ReportID)
		if err != nil {
			return err
		}
		if !ok {
			return domain.ErrReportNotFound
		}
		if err := tx.Votes().Create(ctx, vote); err != nil {
			return err
		}
		if vote.IsPositive {
			return tx.Reports().AddVoteDelta(ctx, in.ReportID, 1, 0)
		}
		return tx.Reports().AddVoteDelta(ctx, in.ReportID, 0, 1)
	})
	if err != nil {
		metrics.VotesTotal.WithLabelValues("create", "failure").Inc()
		return nil, err
	}
	metrics.VotesTotal.WithLabelValues("create", "success").Inc()

	s.afterVoteChange(vote.ReportID, true)
	return vote, nil
}

func (s *VoteServiceImpl) Update(ctx context.Context, ident auth.Identity, in dto.VoteUpdate) (*domain.Vote, error) {
	userID, err := subject(ident, in.UserID)
	if err != nil {
		return nil, err
	}

	var vote *domain.Vote
	err = s.Store.WithTx(ctx, func(tx *store.Store) error {
		var err error
		vote, err = tx.Votes().GetFor(ctx, userID, in.ReportID)
		if err != nil {
			return err
		}
		if vote.IsPositive == in.IsPositive {
			return nil
		}
		if err := tx.Votes().SetPolarity(ctx, vote.ID, in.IsPositive); err != nil {
			return err
		}
		vote.IsPositive = in.IsPositive
		// A flip moves one unit from one counter to the other.
		if in.IsPositive {
			return tx.Reports().AddVoteDelta(ctx, in.ReportID, 1, -1)
		}
		return tx.Reports().AddVoteDelta(ctx, in.ReportID, -1, 1)
	})
	if err != nil {
		metrics.VotesTotal.WithLabelValues("update", "failure").Inc()
		return nil, err
	}
	metrics.VotesTotal.WithLabelValues("update", "success").Inc()

	s.afterVoteChange(in.ReportID, false)
	return vote, nil
}

func (s *VoteServiceImpl) Delete(ctx context.Context, ident auth.Identity, userID domain.UserID, reportID domain.ReportID) error {
	uid, err := subject(ident, userID)
	if err != nil {
		return err
	}

	err = s.Store.WithTx(ctx, func(tx *store.Store) error {
		vote, err := tx.Votes().GetFor(ctx, uid, reportID)
		if err != nil {
			return err
		}
		if err := tx.Votes().Delete(ctx, vote.ID); err != nil {
			return err
		}
		if vote.IsPositive {
			return tx.Reports().AddVoteDelta(ctx, reportID, -1, 0)
		}
		return tx.Reports().AddVoteDelta(ctx, reportID, 0, -1)
	})
	if err != nil {
		metrics.VotesTotal.WithLabelValues("delete", "failure").Inc()
		return err
	}
	metrics.VotesTotal.WithLabelValues("delete", "success").Inc()

	s.afterVoteChange(reportID, false)
	return nil
}

func (s *VoteServiceImpl) Get(ctx context.Context, ident auth.Identity, userID domain.UserID, reportID domain.ReportID) (*domain.Vote, error) {
	uid, err := subject(ident, userID)
	if err != nil {
		return nil, err
	}
	return s.Store.Votes().GetFor(ctx, uid, reportID)
}

func (s *VoteServiceImpl) afterVoteChange(reportID domain.ReportID, notify bool) {
	s.Events.Publish(live.Event{ReportID: reportID})
	if notify && s.Notifier != nil {
		s.Tasks.Enqueue("notify_vote", func(ctx context.Context) {
			if err := s.Notifier.NotifyVote(ctx, reportID); err != nil {
				slog.Error("vote notification failed", "report_id", reportID, "error", err)
			}
		})
	}
}

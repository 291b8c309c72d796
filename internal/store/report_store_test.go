package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"activeresident/internal/domain"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newStoreDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := New(db).AutoMigrate(context.Background()); err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	return db
}

func seedReport(t *testing.T, db *gorm.DB) *domain.Report {
	t.Helper()

	user := &domain.User{
		FirstName:       "Ana",
		Email:           fmt.Sprintf("%s@example.com", strings.ToLower(strings.ReplaceAll(t.Name(), "/", "_"))),
		HashedPassword:  "x",
		IsActive:        true,
		CreatedDatetime: time.Now().UTC(),
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}
	rep := &domain.Report{
		UserID:         user.ID,
		Status:         domain.StatusPublished,
		Note:           "broken bench",
		ReportDatetime: time.Now().UTC(),
	}
	if err := db.Create(rep).Error; err != nil {
		t.Fatalf("seed report: %v", err)
	}
	return rep
}

// sqlRecorder keeps every statement gorm executes so a test can assert on
// the generated SQL.
type sqlRecorder struct {
	stmts []string
}

func (r *sqlRecorder) LogMode(logger.LogLevel) logger.Interface { return r }
func (r *sqlRecorder) Info(context.Context, string, ...any)     {}
func (r *sqlRecorder) Warn(context.Context, string, ...any)     {}
func (r *sqlRecorder) Error(context.Context, string, ...any)    {}

func (r *sqlRecorder) Trace(_ context.Context, _ time.Time, fc func() (string, int64), _ error) {
	sql, _ := fc()
	r.stmts = append(r.stmts, sql)
}

// The counter move must be a single in-database increment. A
// read-modify-write through application memory would lose updates under
// concurrent voting, so the emitted UPDATE has to reference the column in
// its own SET expression.
func TestAddVoteDeltaEmitsAtomicIncrement(t *testing.T) {
	db := newStoreDB(t)
	rep := seedReport(t, db)
	ctx := context.Background()

	rec := &sqlRecorder{}
	st := New(db.Session(&gorm.Session{Logger: rec}))

	if err := st.Reports().AddVoteDelta(ctx, rep.ID, 1, 0); err != nil {
		t.Fatalf("add delta: %v", err)
	}

	var update string
	for _, s := range rec.stmts {
		if strings.HasPrefix(s, "UPDATE") {
			update = s
		}
	}
	if update == "" {
		t.Fatalf("no UPDATE captured, statements: %q", rec.stmts)
	}
	if !strings.Contains(update, "votes_pos + 1") {
		t.Fatalf("update does not increment in place: %q", update)
	}
	if strings.Contains(update, "votes_neg") {
		t.Fatalf("zero delta touched votes_neg: %q", update)
	}
}

func TestAddVoteDeltaIgnoresStaleReads(t *testing.T) {
	db := newStoreDB(t)
	rep := seedReport(t, db)
	ctx := context.Background()
	st := New(db)

	// Both callers loaded the report when the counter was zero. Their
	// increments still stack because nothing writes a stale value back.
	for i := 0; i < 2; i++ {
		if err := st.Reports().AddVoteDelta(ctx, rep.ID, 1, 0); err != nil {
			t.Fatalf("add delta %d: %v", i, err)
		}
	}

	var got domain.Report
	if err := db.First(&got, rep.ID).Error; err != nil {
		t.Fatalf("reload: %v", err)
	}
	if got.VotesPos != 2 || got.VotesNeg != 0 {
		t.Fatalf("counters = (%d, %d), want (2, 0)", got.VotesPos, got.VotesNeg)
	}

	if err := st.Reports().AddVoteDelta(ctx, rep.ID+999, 1, 0); !errors.Is(err, domain.ErrReportNotFound) {
		t.Fatalf("missing report: got %v, want ErrReportNotFound", err)
	}
}

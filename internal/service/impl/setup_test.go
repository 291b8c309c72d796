package impl

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"activeresident/internal/domain"
	"activeresident/internal/dto"
	"activeresident/internal/live"
	"activeresident/internal/storage"
	"activeresident/internal/store"
	"activeresident/internal/tasks"

	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func nowUTC() time.Time { return time.Now().UTC() }

func newTestStore(t *testing.T) *store.Store {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	st := store.New(db)
	if err := st.AutoMigrate(context.Background()); err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	return st
}

// syncQueue runs every job inline so tests observe side effects immediately.
type syncQueue struct {
	names []string
}

func (q *syncQueue) Enqueue(name string, job tasks.Job) bool {
	q.names = append(q.names, name)
	job(context.Background())
	return true
}

// eventSink records hub publishes.
type eventSink struct {
	events []live.Event
}

func (s *eventSink) Publish(ev live.Event) { s.events = append(s.events, ev) }

func makeUser(t *testing.T, st *store.Store, email string, admin bool) *domain.User {
	t.Helper()

	usr := &domain.User{
		FirstName:       "Test",
		Email:           email,
		HashedPassword:  "not-a-real-hash",
		IsActive:        true,
		IsAdmin:         admin,
		CreatedDatetime: time.Now().UTC(),
	}
	ctx := context.Background()
	if err := st.Users().Create(ctx, usr); err != nil {
		t.Fatalf("create user: %v", err)
	}
	if err := st.Users().CreateAddress(ctx, &domain.UserAddress{UserID: usr.ID}); err != nil {
		t.Fatalf("create user address: %v", err)
	}
	if err := st.Users().CreateSettings(ctx, domain.DefaultSettings(usr.ID)); err != nil {
		t.Fatalf("create user settings: %v", err)
	}
	return usr
}

func makeReport(t *testing.T, st *store.Store, userID domain.UserID, status domain.ReportStatus) *domain.Report {
	t.Helper()

	ctx := context.Background()
	rep := &domain.Report{
		UserID:         userID,
		Status:         status,
		Note:           "broken streetlight",
		ReportDatetime: time.Now().UTC(),
	}
	if err := st.Reports().Create(ctx, rep); err != nil {
		t.Fatalf("create report: %v", err)
	}
	lat := decimal.RequireFromString("44.786568")
	long := decimal.RequireFromString("20.448922")
	addr := &domain.ReportAddress{ReportID: rep.ID, Latitude: lat, Longitude: long}
	if err := st.Reports().CreateAddress(ctx, addr); err != nil {
		t.Fatalf("create report address: %v", err)
	}
	return rep
}

func testCreateInput() (dto.ReportCreate, []dto.PhotoUpload) {
	lat := decimal.RequireFromString("44.786568")
	long := decimal.RequireFromString("20.448922")
	in := dto.ReportCreate{
		Note: "pothole on the corner",
		Address: dto.ReportAddressCreate{
			Latitude:  &lat,
			Longitude: &long,
		},
	}
	photos := []dto.PhotoUpload{
		{Data: []byte("fake-jpeg-1"), Extension: ".jpg"},
		{Data: []byte("fake-jpeg-2"), Extension: ".jpg"},
	}
	return in, photos
}

func newLocalStorage(t *testing.T) storage.Storage {
	t.Helper()
	local, err := storage.NewLocal(t.TempDir())
	if err != nil {
		t.Fatalf("local storage: %v", err)
	}
	return local
}

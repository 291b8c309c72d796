package impl

import (
	"context"
	"encoding/json"
	"testing"

	"activeresident/internal/auth"
	"activeresident/internal/domain"
	"activeresident/internal/vision"
)

type stubClassifier struct {
	results map[string]vision.Result
	err     error
}

func (s *stubClassifier) Classify(_ context.Context, image []byte) (vision.Result, error) {
	if s.err != nil {
		return vision.Result{}, s.err
	}
	return s.results[string(image)], nil
}

func TestAssessReportPersistsScores(t *testing.T) {
	st := newTestStore(t)
	blobs := newLocalStorage(t)
	events := &eventSink{}
	classifier := &stubClassifier{results: map[string]vision.Result{
		"fake-jpeg-1": {Labels: []string{"pothole", "road"}, Score: 3},
		"fake-jpeg-2": {Labels: []string{"street"}, Score: 1},
	}}
	svc := NewAssessServiceImpl(st, blobs, classifier, events)
	reports := NewReportServiceImpl(st, blobs, events, &syncQueue{})
	ctx := context.Background()

	usr := makeUser(t, st, "resident@example.com", false)
	in, photos := testCreateInput()
	rep, err := reports.Create(ctx, auth.Identity{ID: usr.ID}, in, photos)
	if err != nil {
		t.Fatalf("create report: %v", err)
	}

	if err := svc.AssessReport(ctx, rep.ID); err != nil {
		t.Fatalf("assess: %v", err)
	}

	got, err := st.Reports().GetByID(ctx, rep.ID, true)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if got.Status != domain.StatusReported {
		t.Fatalf("clean report should keep its status, got %q", got.Status)
	}
	total := 0
	for _, p := range got.Photos {
		if p.AiScore == nil {
			t.Fatalf("photo %d not scored", p.ID)
		}
		total += *p.AiScore
		var labels []string
		if err := json.Unmarshal(p.AiLabels, &labels); err != nil {
			t.Fatalf("labels unmarshal: %v", err)
		}
		if len(labels) == 0 {
			t.Fatalf("photo %d has no labels", p.ID)
		}
	}
	if total != 4 {
		t.Fatalf("summed score = %d, want 4", total)
	}
}

func TestAssessReportCancelsInappropriate(t *testing.T) {
	st := newTestStore(t)
	blobs := newLocalStorage(t)
	classifier := &stubClassifier{results: map[string]vision.Result{
		"fake-jpeg-1": {Labels: []string{"road"}, Score: 1},
		"fake-jpeg-2": {Inappropriate: true},
	}}
	svc := NewAssessServiceImpl(st, blobs, classifier, &eventSink{})
	reports := NewReportServiceImpl(st, blobs, &eventSink{}, &syncQueue{})
	ctx := context.Background()

	usr := makeUser(t, st, "resident@example.com", false)
	in, photos := testCreateInput()
	rep, err := reports.Create(ctx, auth.Identity{ID: usr.ID}, in, photos)
	if err != nil {
		t.Fatalf("create report: %v", err)
	}

	if err := svc.AssessReport(ctx, rep.ID); err != nil {
		t.Fatalf("assess: %v", err)
	}

	got, err := st.Reports().GetByID(ctx, rep.ID, false)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if got.Status != domain.StatusCancelled {
		t.Fatalf("status = %q, want cancelled", got.Status)
	}
	if got.AdminNote == nil || *got.AdminNote == "" {
		t.Fatalf("cancellation reason missing")
	}
}

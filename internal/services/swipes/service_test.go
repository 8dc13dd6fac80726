package swipes

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/ivankudzin/matchdeck/internal/domain/enums"
	"github.com/ivankudzin/matchdeck/internal/domain/model"
	"github.com/ivankudzin/matchdeck/internal/repo/memory"
	authsvc "github.com/ivankudzin/matchdeck/internal/services/auth"
)

type ledgerStub struct {
	err   error
	calls int
}

func (s *ledgerStub) Upsert(_ context.Context, swiperID, targetID string, action enums.SwipeAction) (model.SwipeRecord, error) {
	s.calls++
	if s.err != nil {
		return model.SwipeRecord{}, s.err
	}
	return model.SwipeRecord{SwiperID: swiperID, TargetID: targetID, Action: action}, nil
}

type metricsStub struct {
	recorded map[string]int
	failures int
}

func (s *metricsStub) SwipeRecorded(action string) {
	if s.recorded == nil {
		s.recorded = map[string]int{}
	}
	s.recorded[action]++
}

func (s *metricsStub) SwipeRecordFailed() {
	s.failures++
}

type eventSinkStub struct {
	committed  []model.SwipeRecord
	errorKinds []string
}

func (s *eventSinkStub) SwipeCommitted(_ context.Context, record model.SwipeRecord) {
	s.committed = append(s.committed, record)
}

func (s *eventSinkStub) Error(_ context.Context, _ string, kind string, _ error) {
	s.errorKinds = append(s.errorKinds, kind)
}

func swiperFilter(id string) model.SwipeFilter {
	return model.SwipeFilter{SwiperID: &id}
}

func TestRecordIsIdempotent(t *testing.T) {
	ledger := memory.NewSwipeLedger()
	svc := NewService(Dependencies{Ledger: ledger})
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if _, err := svc.Record(ctx, "u1", "u2", "like"); err != nil {
			t.Fatalf("record #%d: %v", i+1, err)
		}
	}

	if ledger.Len() != 1 {
		t.Fatalf("expected one ledger record, got %d", ledger.Len())
	}
	records, err := ledger.Query(ctx, swiperFilter("u1"))
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(records) != 1 || records[0].Action != enums.SwipeActionLike {
		t.Fatalf("unexpected records: %+v", records)
	}
}

func TestRecordLastWriteWins(t *testing.T) {
	clock := time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC)
	ledger := memory.NewSwipeLedger().WithClock(func() time.Time {
		clock = clock.Add(time.Second)
		return clock
	})
	svc := NewService(Dependencies{Ledger: ledger})
	ctx := context.Background()

	first, err := svc.Record(ctx, "u1", "u2", "like")
	if err != nil {
		t.Fatalf("record like: %v", err)
	}
	second, err := svc.Record(ctx, "u1", "u2", "PASS")
	if err != nil {
		t.Fatalf("record pass: %v", err)
	}

	if second.Action != enums.SwipeActionPass || !second.CreatedAt.After(first.CreatedAt) {
		t.Fatalf("expected newer pass record, got first=%+v second=%+v", first, second)
	}

	records, err := ledger.Query(ctx, swiperFilter("u1"))
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(records) != 1 || records[0].Action != enums.SwipeActionPass {
		t.Fatalf("expected single pass record, got %+v", records)
	}
}

func TestRecordValidation(t *testing.T) {
	stub := &ledgerStub{}
	svc := NewService(Dependencies{Ledger: stub})
	ctx := context.Background()

	cases := []struct {
		name    string
		swiper  string
		target  string
		action  string
		wantErr error
	}{
		{name: "blank swiper", swiper: " ", target: "u2", action: "like", wantErr: authsvc.ErrNotAuthenticated},
		{name: "blank swiper and target", swiper: "", target: "", action: "like", wantErr: authsvc.ErrNotAuthenticated},
		{name: "blank target", swiper: "u1", target: "", action: "like", wantErr: ErrValidation},
		{name: "self swipe", swiper: "u1", target: "u1", action: "like", wantErr: ErrValidation},
		{name: "unknown action", swiper: "u1", target: "u2", action: "superlike", wantErr: ErrUnsupportedAction},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := svc.Record(ctx, tc.swiper, tc.target, tc.action); !errors.Is(err, tc.wantErr) {
				t.Fatalf("expected %v, got %v", tc.wantErr, err)
			}
		})
	}

	if stub.calls != 0 {
		t.Fatalf("ledger must not be called for invalid swipes, got %d calls", stub.calls)
	}
}

func TestRecordWrapsLedgerFailure(t *testing.T) {
	cause := errors.New("write timeout")
	metrics := &metricsStub{}
	sink := &eventSinkStub{}
	core, logs := observer.New(zapcore.WarnLevel)
	svc := NewService(Dependencies{Ledger: &ledgerStub{err: cause}, Metrics: metrics, Events: sink, Logger: zap.New(core)})

	_, err := svc.Record(context.Background(), "u1", "u2", "like")
	recErr, ok := IsRecordError(err)
	if !ok {
		t.Fatalf("expected RecordError, got %v", err)
	}
	if !errors.Is(err, cause) {
		t.Fatalf("RecordError must wrap the cause")
	}
	if recErr.SwiperID != "u1" || recErr.TargetID != "u2" || recErr.Action != enums.SwipeActionLike {
		t.Fatalf("unexpected error fields: %+v", recErr)
	}
	if metrics.failures != 1 || len(metrics.recorded) != 0 {
		t.Fatalf("unexpected metrics: %+v", metrics)
	}
	if len(sink.committed) != 0 || len(sink.errorKinds) != 1 || sink.errorKinds[0] != model.ErrorKindSwipeRecord {
		t.Fatalf("unexpected events: %+v", sink)
	}

	entries := logs.FilterMessage("swipe record failed").All()
	if len(entries) != 1 {
		t.Fatalf("expected one warning, got %d", logs.Len())
	}
	fields := entries[0].ContextMap()
	if fields["swiper_id"] != "u1" || fields["target_id"] != "u2" || fields["action"] != "like" || fields["error"] != "write timeout" {
		t.Fatalf("unexpected log fields: %+v", fields)
	}
}

func TestRecordEmitsCommittedEvent(t *testing.T) {
	metrics := &metricsStub{}
	sink := &eventSinkStub{}
	svc := NewService(Dependencies{Ledger: memory.NewSwipeLedger(), Metrics: metrics, Events: sink})

	if _, err := svc.Record(context.Background(), "u1", "u2", " Like "); err != nil {
		t.Fatalf("record: %v", err)
	}

	if metrics.recorded["like"] != 1 {
		t.Fatalf("expected like counter increment, got %+v", metrics.recorded)
	}
	if len(sink.committed) != 1 || sink.committed[0].TargetID != "u2" {
		t.Fatalf("unexpected committed events: %+v", sink.committed)
	}
}

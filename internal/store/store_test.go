package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"
)

func TestRecordAndRecent(t *testing.T) {
	s, err := Open(filepath.Join(t.TempDir(), "audit.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer s.Close()

	ctx := context.Background()
	if err := s.Ping(ctx); err != nil {
		t.Fatalf("ping: %v", err)
	}

	for i, tool := range []string{"getArpConfig", "getCpuUsage", "getDiskList"} {
		err := s.RecordInvocation(ctx, Invocation{
			Tool:       tool,
			Code:       0,
			Message:    "success",
			Records:    i + 1,
			DurationMS: int64(10 * (i + 1)),
		})
		if err != nil {
			t.Fatalf("record %s: %v", tool, err)
		}
	}

	got, err := s.Recent(ctx, 2)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("rows %d", len(got))
	}
	if got[0].Tool != "getDiskList" || got[1].Tool != "getCpuUsage" {
		t.Fatalf("order: %s, %s", got[0].Tool, got[1].Tool)
	}
	if got[0].Records != 3 || got[0].DurationMS != 30 {
		t.Fatalf("fields: %+v", got[0])
	}
	if got[0].CreatedAt.IsZero() {
		t.Fatalf("created_at not round-tripped")
	}
	if time.Since(got[0].CreatedAt) > time.Minute {
		t.Fatalf("created_at stale: %v", got[0].CreatedAt)
	}
}

func TestRecentDefaultLimit(t *testing.T) {
	s, err := Open(filepath.Join(t.TempDir(), "audit.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer s.Close()

	got, err := s.Recent(context.Background(), 0)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("empty store returned %d rows", len(got))
	}
}

package service

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"checkers/internal/server/board"
	"checkers/internal/server/core"
	"checkers/internal/server/engine"
	"checkers/internal/server/storage"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	store, err := storage.NewStore(filepath.Join(t.TempDir(), "svc.db"), true)
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	if err := store.InitDB(); err != nil {
		t.Fatalf("InitDB: %v", err)
	}
	svc := New(store, []byte("test-secret-with-enough-length-32b"))
	t.Cleanup(func() { svc.Shutdown(time.Second) })
	return svc
}

func TestAnalysisLifecycle(t *testing.T) {
	svc := New(nil, nil)

	a, err := svc.CreateAnalysis(board.StartingLayout, core.ColorBlack, 3)
	if err != nil {
		t.Fatalf("CreateAnalysis: %v", err)
	}
	if a.State != core.StatePending || svc.PendingCount() != 1 {
		t.Fatalf("new analysis state %s, pending %d", a.State, svc.PendingCount())
	}

	if err := svc.DeleteAnalysis(a.ID); !errors.Is(err, ErrAnalysisPending) {
		t.Fatalf("deleting a pending analysis: %v", err)
	}

	res := engine.Result{Move: board.Move{{Row: 2, Col: 1}, {Row: 3, Col: 0}}, Score: 0, Depth: 3}
	if err := svc.CompleteAnalysis(a.ID, res, false); err != nil {
		t.Fatalf("CompleteAnalysis: %v", err)
	}
	if err := svc.FailAnalysis(a.ID, errors.New("late")); !errors.Is(err, ErrAnalysisFinalized) {
		t.Fatalf("second finish: %v", err)
	}

	got, err := svc.GetAnalysis(a.ID)
	if err != nil || got.State != core.StateDone || got.Result.Move.String() != "9-13" {
		t.Fatalf("GetAnalysis = %+v, %v", got, err)
	}

	if err := svc.DeleteAnalysis(a.ID); err != nil {
		t.Fatalf("DeleteAnalysis: %v", err)
	}
	if _, err := svc.GetAnalysis(a.ID); !errors.Is(err, ErrAnalysisNotFound) {
		t.Fatalf("deleted analysis still present: %v", err)
	}
}

func TestPendingLimit(t *testing.T) {
	svc := New(nil, nil)
	for i := 0; i < MaxPendingAnalyses; i++ {
		if _, err := svc.CreateAnalysis("x", core.ColorWhite, 1); err != nil {
			t.Fatalf("analysis %d: %v", i, err)
		}
	}
	if _, err := svc.CreateAnalysis("x", core.ColorWhite, 1); !errors.Is(err, ErrTooManyAnalyses) {
		t.Fatalf("limit not enforced: %v", err)
	}
}

func TestCleanupRemovesOldJobs(t *testing.T) {
	svc := New(nil, nil)
	clock := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return clock }

	old, _ := svc.CreateAnalysis("x", core.ColorBlack, 1)
	svc.FailAnalysis(old.ID, errors.New("boom"))
	pending, _ := svc.CreateAnalysis("y", core.ColorBlack, 1)

	clock = clock.Add(2 * JobTTL)
	recent, _ := svc.CreateAnalysis("z", core.ColorBlack, 1)
	svc.CompleteAnalysis(recent.ID, engine.Result{Depth: 1}, false)

	svc.cleanupExpired()

	if _, err := svc.GetAnalysis(old.ID); err == nil {
		t.Error("expired job kept")
	}
	for _, id := range []string{pending.ID, recent.ID} {
		if _, err := svc.GetAnalysis(id); err != nil {
			t.Errorf("job %s removed: %v", id, err)
		}
	}
}

func TestWaitNotifiedOnCompletion(t *testing.T) {
	svc := New(nil, nil)
	a, _ := svc.CreateAnalysis("x", core.ColorBlack, 1)

	notify := svc.RegisterWait(a.ID, core.StatePending, context.Background())
	go svc.CompleteAnalysis(a.ID, engine.Result{Depth: 1}, false)

	select {
	case <-notify:
	case <-time.After(2 * time.Second):
		t.Fatal("waiter not notified")
	}

	got, _ := svc.GetAnalysis(a.ID)
	if got.State != core.StateDone {
		t.Errorf("state after notify = %s", got.State)
	}
}

func TestWaitTimeoutAndRemoval(t *testing.T) {
	w := NewWaitRegistry()
	w.timeout = 50 * time.Millisecond

	start := time.Now()
	select {
	case <-w.RegisterWait("a", core.StatePending, context.Background()):
	case <-time.After(2 * time.Second):
		t.Fatal("wait did not time out")
	}
	if time.Since(start) < 40*time.Millisecond {
		t.Error("wait returned before its timeout")
	}

	w.timeout = time.Minute
	notify := w.RegisterWait("b", core.StatePending, context.Background())
	w.NotifyAnalysis("b", core.StatePending)
	select {
	case <-notify:
		t.Fatal("woken without a state change")
	case <-time.After(20 * time.Millisecond):
	}

	w.RemoveAnalysis("b")
	select {
	case <-notify:
	case <-time.After(2 * time.Second):
		t.Fatal("removal did not wake the waiter")
	}

	if err := w.Shutdown(time.Second); err != nil {
		t.Fatalf("Shutdown: %v", err)
	}
	if w.Waiting("a")+w.Waiting("b") != 0 {
		t.Error("waiters left registered")
	}
}

func TestWaitContextCancel(t *testing.T) {
	w := NewWaitRegistry()
	ctx, cancel := context.WithCancel(context.Background())
	w.RegisterWait("a", core.StatePending, ctx)
	cancel()

	deadline := time.Now().Add(2 * time.Second)
	for w.Waiting("a") != 0 {
		if time.Now().After(deadline) {
			t.Fatal("cancelled waiter not removed")
		}
		time.Sleep(5 * time.Millisecond)
	}
	w.Shutdown(time.Second)
}

func TestSearchCache(t *testing.T) {
	svc := newTestService(t)

	if _, ok := svc.LookupSearch(board.StartingLayout, core.ColorBlack, 2); ok {
		t.Fatal("empty cache reported a hit")
	}

	res := engine.Search(board.Starting(), core.ColorBlack, 2)
	svc.StoreSearch(board.StartingLayout, core.ColorBlack, res)
	if err := svc.store.Flush(time.Second); err != nil {
		t.Fatalf("Flush: %v", err)
	}

	cached, ok := svc.LookupSearch(board.StartingLayout, core.ColorBlack, 2)
	if !ok {
		t.Fatal("stored result not found")
	}
	if !cached.Move.Equal(res.Move) || cached.Score != res.Score || cached.Nodes != res.Nodes {
		t.Errorf("cached %+v, searched %+v", cached, res)
	}
	if _, ok := svc.LookupSearch(board.StartingLayout, core.ColorWhite, 2); ok {
		t.Error("hit for the other side to move")
	}

	if n, err := svc.PurgeCache(); err != nil || n != 1 {
		t.Errorf("PurgeCache = %d, %v", n, err)
	}
}

func TestNoMoveResultIsCached(t *testing.T) {
	svc := newTestService(t)
	layout := ".w....../......../......../......../......../......../......../b......."

	svc.StoreSearch(layout, core.ColorBlack, engine.Result{Score: -engine.WinScore, Depth: 3})
	svc.store.Flush(time.Second)

	cached, ok := svc.LookupSearch(layout, core.ColorBlack, 3)
	if !ok || cached.Move != nil || cached.Score != -engine.WinScore {
		t.Fatalf("cached = %+v, %v", cached, ok)
	}
}

func TestOperatorSessions(t *testing.T) {
	svc := newTestService(t)

	user, err := svc.CreateUser("Referee", "s3cret-pass")
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	if user.Username != "referee" {
		t.Errorf("username not normalized: %s", user.Username)
	}

	if _, err := svc.AuthenticateUser("referee", "wrong"); err == nil {
		t.Fatal("wrong password accepted")
	}
	if _, err := svc.AuthenticateUser("nobody", "s3cret-pass"); err == nil {
		t.Fatal("unknown user accepted")
	}
	authed, err := svc.AuthenticateUser("referee", "s3cret-pass")
	if err != nil || authed.UserID != user.UserID {
		t.Fatalf("AuthenticateUser = %+v, %v", authed, err)
	}

	first, err := svc.GenerateUserToken(user.UserID)
	if err != nil {
		t.Fatalf("GenerateUserToken: %v", err)
	}
	userID, claims, err := svc.ValidateToken(first)
	if err != nil || userID != user.UserID || claims["username"] != "referee" {
		t.Fatalf("ValidateToken = %s, %v, %v", userID, claims, err)
	}

	second, err := svc.GenerateUserToken(user.UserID)
	if err != nil {
		t.Fatal(err)
	}
	if _, _, err := svc.ValidateToken(first); err == nil {
		t.Error("token of a replaced session still valid")
	}

	if err := svc.Logout(user.UserID); err != nil {
		t.Fatal(err)
	}
	if _, _, err := svc.ValidateToken(second); err == nil {
		t.Error("token valid after logout")
	}
	if _, _, err := svc.ValidateToken("not-a-jwt"); err == nil {
		t.Error("garbage token accepted")
	}
}

func TestStorageHealth(t *testing.T) {
	if got := New(nil, nil).GetStorageHealth(); got != "disabled" {
		t.Errorf("health without store = %s", got)
	}
	if got := newTestService(t).GetStorageHealth(); got != "ok" {
		t.Errorf("health = %s", got)
	}
}

package flow

import (
	"context"
	"math/rand/v2"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/m3rciful/kycbot/app/broadcast"
	"github.com/m3rciful/kycbot/app/gate"
	"github.com/m3rciful/kycbot/app/models"
	"github.com/m3rciful/kycbot/app/transport/transporttest"
	"github.com/m3rciful/kycbot/core/telegram/state"

	tele "gopkg.in/telebot.v4"
)

const testChannel = "@kyc_news"

type fakeUsers struct {
	mu    sync.Mutex
	users map[int64]models.User
	order []int64
}

func newFakeUsers(ids ...int64) *fakeUsers {
	f := &fakeUsers{users: make(map[int64]models.User)}
	for _, id := range ids {
		_ = f.Ensure(context.Background(), models.User{UserID: id})
	}
	return f
}

func (f *fakeUsers) Ensure(_ context.Context, u models.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.users[u.UserID]; ok {
		return nil
	}
	u.JoinedAt = time.Now()
	f.users[u.UserID] = u
	f.order = append(f.order, u.UserID)
	return nil
}

func (f *fakeUsers) Touch(ctx context.Context, u models.User) error {
	return f.Ensure(ctx, u)
}

func (f *fakeUsers) AllIDs(context.Context) ([]int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]int64(nil), f.order...), nil
}

func (f *fakeUsers) Count(context.Context) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.users), nil
}

func (f *fakeUsers) CountSince(_ context.Context, since time.Time) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, u := range f.users {
		if !u.JoinedAt.Before(since) {
			n++
		}
	}
	return n, nil
}

type fakeLeaderboard struct {
	mu      sync.Mutex
	entries map[int64]models.LeaderboardEntry
	writes  int
}

func newFakeLeaderboard() *fakeLeaderboard {
	return &fakeLeaderboard{entries: make(map[int64]models.LeaderboardEntry)}
}

func (f *fakeLeaderboard) RecordActivation(_ context.Context, userID int64, name, phone string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.writes++
	f.entries[userID] = models.LeaderboardEntry{UserID: userID, Username: name, Phone: phone, ActivatedAt: time.Now()}
	return nil
}

func (f *fakeLeaderboard) TopN(_ context.Context, n int) ([]models.LeaderboardEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]models.LeaderboardEntry, 0, len(f.entries))
	for _, e := range f.entries {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ActivatedAt.After(out[j].ActivatedAt) })
	if len(out) > n {
		out = out[:n]
	}
	return out, nil
}

func (f *fakeLeaderboard) Reset(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.entries = make(map[int64]models.LeaderboardEntry)
	return nil
}

func (f *fakeLeaderboard) Count(context.Context) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.entries), nil
}

func (f *fakeLeaderboard) CountSince(_ context.Context, since time.Time) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, e := range f.entries {
		if !e.ActivatedAt.Before(since) {
			n++
		}
	}
	return n, nil
}

type fakeAdmins struct {
	mu  sync.Mutex
	ids map[int64]bool
}

func newFakeAdmins(ids ...int64) *fakeAdmins {
	f := &fakeAdmins{ids: make(map[int64]bool)}
	for _, id := range ids {
		f.ids[id] = true
	}
	return f
}

func (f *fakeAdmins) IsAdmin(_ context.Context, id int64) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.ids[id]
}

func (f *fakeAdmins) revoke(id int64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.ids, id)
}

type harness struct {
	bot      *transporttest.Bot
	sessions state.Manager
	users    *fakeUsers
	board    *fakeLeaderboard
	admins   *fakeAdmins
	ctrl     *Controller
}

func newHarness(t *testing.T, admins ...int64) *harness {
	t.Helper()
	h := &harness{
		bot:      transporttest.NewBot(),
		sessions: state.NewMemoryManager(),
		users:    newFakeUsers(),
		board:    newFakeLeaderboard(),
		admins:   newFakeAdmins(admins...),
	}
	h.ctrl = New(Deps{
		Messenger:   h.bot,
		Sessions:    h.sessions,
		Gate:        gate.New(h.bot, gate.FromConfig([]string{testChannel}, nil)),
		Admins:      h.admins,
		Users:       h.users,
		Leaderboard: h.board,
		Broadcaster: broadcast.NewEngine(h.bot, broadcast.Options{Workers: 1}),
	}, Options{
		FrameDelay: -1,
		Rand:       rand.New(rand.NewPCG(1, 2)),
	})
	return h
}

func (h *harness) join(ids ...int64) {
	for _, id := range ids {
		h.bot.SetMember(testChannel, id, tele.Member)
	}
}

func (h *harness) state(t *testing.T, id int64) state.State {
	t.Helper()
	st, err := h.sessions.Get(context.Background(), id)
	if err != nil {
		t.Fatalf("get state: %v", err)
	}
	return st
}

func textEvent(id int64, text string) Event {
	return Event{
		UserID:    id,
		ChatID:    id,
		Username:  "tester",
		FirstName: "Test",
		Message:   &tele.Message{Text: text, Chat: &tele.Chat{ID: id}, Sender: &tele.User{ID: id}},
	}
}

func callbackEvent(id int64) Event {
	msg := &tele.Message{ID: 99, Chat: &tele.Chat{ID: id}}
	return Event{
		UserID:   id,
		ChatID:   id,
		Callback: &tele.Callback{ID: "cb", Message: msg, Sender: &tele.User{ID: id}},
	}
}

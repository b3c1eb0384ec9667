package service

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"skillstreak_backend/internal/model"
	"skillstreak_backend/pkg/kv"

	"gorm.io/datatypes"
)

var errStoreDown = errors.New("connection refused")

type fakeAssessments struct {
	latest *model.SkillAssessment
	err    error
	saved  []*model.SkillAssessment
}

func (f *fakeAssessments) Create(_ context.Context, a *model.SkillAssessment) error {
	if f.err != nil {
		return f.err
	}
	f.saved = append(f.saved, a)
	f.latest = a
	return nil
}

func (f *fakeAssessments) FindLatestByUser(_ context.Context, _ string) (*model.SkillAssessment, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.latest, nil
}

type recordKey struct{ user, date string }

// fakeChallenges 与仓库实现相同的条件更新语义
type fakeChallenges struct {
	mu      sync.Mutex
	records map[recordKey]model.DailyChallenge
	err     error
	listErr error
	// beforeSkip 在条件更新前执行，用于模拟并发修改
	beforeSkip func()
}

func newFakeChallenges() *fakeChallenges {
	return &fakeChallenges{records: make(map[recordKey]model.DailyChallenge)}
}

func (f *fakeChallenges) FindByUserAndDate(_ context.Context, userID, date string) (*model.DailyChallenge, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	rec, ok := f.records[recordKey{userID, date}]
	if !ok {
		return nil, nil
	}
	return &rec, nil
}

func (f *fakeChallenges) CreateIfAbsent(_ context.Context, rec *model.DailyChallenge) (*model.DailyChallenge, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, false, f.err
	}
	if err := rec.Validate(); err != nil {
		return nil, false, err
	}
	k := recordKey{rec.UserID, rec.Date}
	if existing, ok := f.records[k]; ok {
		return &existing, false, nil
	}
	f.records[k] = *rec
	stored := *rec
	return &stored, true, nil
}

func (f *fakeChallenges) UpdateSkip(_ context.Context, userID, date string, prevSkips int, ch model.Challenge) (bool, error) {
	if f.beforeSkip != nil {
		f.beforeSkip()
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return false, f.err
	}
	k := recordKey{userID, date}
	rec, ok := f.records[k]
	if !ok || rec.Completed || rec.SkipsUsed != prevSkips {
		return false, nil
	}
	rec.Challenge = newJSONChallenge(ch)
	rec.SkipsUsed++
	f.records[k] = rec
	return true, nil
}

func (f *fakeChallenges) MarkCompleted(_ context.Context, userID, date string, at time.Time) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return false, f.err
	}
	k := recordKey{userID, date}
	rec, ok := f.records[k]
	if !ok || rec.Completed {
		return false, nil
	}
	rec.Completed = true
	rec.CompletedAt = &at
	f.records[k] = rec
	return true, nil
}

func (f *fakeChallenges) ListCompletedByUser(_ context.Context, userID string) ([]model.DailyChallenge, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	if f.listErr != nil {
		return nil, f.listErr
	}
	var out []model.DailyChallenge
	for k, rec := range f.records {
		if k.user == userID && rec.Completed {
			out = append(out, rec)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out, nil
}

func (f *fakeChallenges) put(rec model.DailyChallenge) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.records[recordKey{rec.UserID, rec.Date}] = rec
}

func (f *fakeChallenges) get(userID, date string) (model.DailyChallenge, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	rec, ok := f.records[recordKey{userID, date}]
	return rec, ok
}

// fixedClock 可手动推进的时钟
type fixedClock struct {
	t time.Time
}

func (c *fixedClock) Now() time.Time { return c.t }

func (c *fixedClock) advance(d time.Duration) { c.t = c.t.Add(d) }

// sequenceRand 依次返回预设值（对 n 取模），用完后重复最后一个
type sequenceRand struct {
	values []int
	i      int
}

func (r *sequenceRand) IntN(n int) int {
	if len(r.values) == 0 {
		return 0
	}
	v := r.values[r.i]
	if r.i < len(r.values)-1 {
		r.i++
	}
	return v % n
}

func newJSONChallenge(ch model.Challenge) datatypes.JSONType[model.Challenge] {
	return datatypes.NewJSONType(ch)
}

// failingKV 包装真实存储，按需注入错误
type failingKV struct {
	kv.Store
	getErr error
	setErr error
}

func (f *failingKV) Get(ctx context.Context, key string) ([]byte, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.Store.Get(ctx, key)
}

func (f *failingKV) Set(ctx context.Context, key string, value []byte) error {
	if f.setErr != nil {
		return f.setErr
	}
	return f.Store.Set(ctx, key, value)
}

package usecase

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"time-tracking-bot/internal/model"
	"time-tracking-bot/internal/task/repository"
	"time-tracking-bot/pkg/datemath"
	"time-tracking-bot/pkg/gcalendar"
)

type mockLogger struct{}

func (m *mockLogger) Debug(ctx context.Context, args ...any)                  {}
func (m *mockLogger) Debugf(ctx context.Context, format string, args ...any)  {}
func (m *mockLogger) Info(ctx context.Context, args ...any)                   {}
func (m *mockLogger) Infof(ctx context.Context, format string, args ...any)   {}
func (m *mockLogger) Warn(ctx context.Context, args ...any)                   {}
func (m *mockLogger) Warnf(ctx context.Context, format string, args ...any)   {}
func (m *mockLogger) Error(ctx context.Context, args ...any)                  {}
func (m *mockLogger) Errorf(ctx context.Context, format string, args ...any)  {}
func (m *mockLogger) DPanic(ctx context.Context, args ...any)                 {}
func (m *mockLogger) DPanicf(ctx context.Context, format string, args ...any) {}
func (m *mockLogger) Panic(ctx context.Context, args ...any)                  {}
func (m *mockLogger) Panicf(ctx context.Context, format string, args ...any)  {}
func (m *mockLogger) Fatal(ctx context.Context, args ...any)                  {}
func (m *mockLogger) Fatalf(ctx context.Context, format string, args ...any)  {}

var errDB = errors.New("db error")

// memRepo is an in-memory repository.Repository.
type memRepo struct {
	mu     sync.Mutex
	users  map[int64]model.User
	tasks  []model.Task
	nextID int64
	failOn map[string]bool
}

func newMemRepo() *memRepo {
	return &memRepo{users: make(map[int64]model.User), failOn: make(map[string]bool)}
}

func (r *memRepo) fail(op string) bool {
	return r.failOn[op]
}

func (r *memRepo) Ping(ctx context.Context) error { return nil }

func (r *memRepo) GetUser(ctx context.Context, userID int64) (model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fail("GetUser") {
		return model.User{}, errDB
	}
	return r.users[userID], nil
}

func (r *memRepo) CreateUser(ctx context.Context, opt repository.CreateUserOptions) (model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fail("CreateUser") {
		return model.User{}, errDB
	}
	if u, ok := r.users[opt.UserID]; ok {
		return u, nil
	}
	u := model.User{ID: opt.UserID, Timezone: opt.Timezone, WorkdayStart: opt.WorkdayStart, WorkdayEnd: opt.WorkdayEnd}
	r.users[opt.UserID] = u
	return u, nil
}

func (r *memRepo) UpdateUserTimezone(ctx context.Context, userID int64, timezone string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fail("UpdateUserTimezone") {
		return errDB
	}
	u := r.users[userID]
	u.Timezone = timezone
	r.users[userID] = u
	return nil
}

func (r *memRepo) UpdateUserWorkday(ctx context.Context, opt repository.UpdateWorkdayOptions) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fail("UpdateUserWorkday") {
		return errDB
	}
	u := r.users[opt.UserID]
	u.WorkdayStart, u.WorkdayEnd = opt.Start, opt.End
	r.users[opt.UserID] = u
	return nil
}

func (r *memRepo) ListUsersWithActiveTask(ctx context.Context) ([]model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fail("ListUsersWithActiveTask") {
		return nil, errDB
	}
	seen := make(map[int64]bool)
	var out []model.User
	for _, t := range r.tasks {
		if t.EndTime == nil && !seen[t.UserID] {
			seen[t.UserID] = true
			out = append(out, r.users[t.UserID])
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *memRepo) GetActiveTask(ctx context.Context, userID int64) (model.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fail("GetActiveTask") {
		return model.Task{}, errDB
	}
	var found model.Task
	for _, t := range r.tasks {
		if t.UserID == userID && t.EndTime == nil && !t.StartTime.Before(found.StartTime) {
			found = t
		}
	}
	return found, nil
}

func (r *memRepo) CreateTask(ctx context.Context, opt repository.CreateTaskOptions) (model.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fail("CreateTask") {
		return model.Task{}, errDB
	}
	r.nextID++
	t := model.Task{
		ID:              r.nextID,
		UserID:          opt.UserID,
		Label:           opt.Label,
		Comment:         opt.Comment,
		OriginalMessage: opt.OriginalMessage,
		StartTime:       opt.StartTime.UTC(),
		IsRest:          opt.IsRest,
	}
	r.tasks = append(r.tasks, t)
	return t, nil
}

func (r *memRepo) CloseTask(ctx context.Context, opt repository.CloseTaskOptions) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fail("CloseTask") {
		return false, errDB
	}
	for i := range r.tasks {
		if r.tasks[i].ID == opt.TaskID && r.tasks[i].EndTime == nil {
			end := opt.EndTime.UTC()
			r.tasks[i].EndTime = &end
			return true, nil
		}
	}
	return false, nil
}

func (r *memRepo) UpdateTaskFields(ctx context.Context, opt repository.UpdateTaskFieldsOptions) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fail("UpdateTaskFields") {
		return false, errDB
	}
	for i := range r.tasks {
		if r.tasks[i].ID == opt.TaskID && r.tasks[i].EndTime == nil {
			r.tasks[i].Label = opt.Label
			r.tasks[i].Comment = opt.Comment
			r.tasks[i].OriginalMessage = opt.OriginalMessage
			return true, nil
		}
	}
	return false, nil
}

func (r *memRepo) ListTasksInRange(ctx context.Context, opt repository.ListTasksInRangeOptions) ([]model.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fail("ListTasksInRange") {
		return nil, errDB
	}
	var out []model.Task
	for _, t := range r.tasks {
		if t.UserID == opt.UserID && !t.StartTime.Before(opt.From) && !t.StartTime.After(opt.To) {
			out = append(out, t)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].StartTime.Before(out[j].StartTime) })
	return out, nil
}

func (r *memRepo) userTasks(userID int64) []model.Task {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.Task
	for _, t := range r.tasks {
		if t.UserID == userID {
			out = append(out, t)
		}
	}
	return out
}

func (r *memRepo) activeCount(userID int64) int {
	n := 0
	for _, t := range r.userTasks(userID) {
		if t.EndTime == nil {
			n++
		}
	}
	return n
}

type mockCalendar struct {
	mu     sync.Mutex
	events []gcalendar.CreateEventRequest
	err    error
}

func (m *mockCalendar) CreateEvent(ctx context.Context, req gcalendar.CreateEventRequest) (*gcalendar.Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	m.events = append(m.events, req)
	return &gcalendar.Event{ID: "evt"}, nil
}

type fixture struct {
	uc   *implUseCase
	repo *memRepo
	cal  *mockCalendar
	now  time.Time
}

// newFixture builds a use case whose clock is controlled by f.now.
func newFixture(tz string) *fixture {
	f := &fixture{repo: newMemRepo(), cal: &mockCalendar{}}
	f.uc = New(&mockLogger{}, f.repo, f.cal, Config{
		DefaultTimezone:     tz,
		DefaultWorkdayStart: datemath.MustTimeOfDay(9, 0),
		DefaultWorkdayEnd:   datemath.MustTimeOfDay(18, 0),
	}).(*implUseCase)
	f.uc.now = func() time.Time { return f.now }
	return f
}

func mustLoad(name string) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		panic(err)
	}
	return loc
}

package session

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shiftlog/timekeeper-go/internal/domain/attendance"
	"github.com/shiftlog/timekeeper-go/internal/domain/audit"
	"github.com/shiftlog/timekeeper-go/internal/domain/session"
	"github.com/shiftlog/timekeeper-go/internal/domain/user"
)

// fakeSessionRepo is an in-memory session.SessionRepository that mirrors the
// store's guarantees: one active session per user, one open break per
// session, guarded completion.
type fakeSessionRepo struct {
	mu       sync.Mutex
	sessions map[string]*session.Session
	seq      int

	// hideActive makes GetActiveByUser report no session, simulating the
	// window where a concurrent writer's insert is not yet visible to the
	// pre-check.
	hideActive bool

	// sweepCloseAt, when set, closes the session at this instant right
	// before the caller's guarded completion runs, so the caller sees zero
	// rows updated and loses the race.
	sweepCloseAt *time.Time
}

func newFakeSessionRepo() *fakeSessionRepo {
	return &fakeSessionRepo{sessions: make(map[string]*session.Session)}
}

func uniqueViolation(constraint string) error {
	return &pgconn.PgError{Code: "23505", ConstraintName: constraint}
}

func (f *fakeSessionRepo) nextID(prefix string) string {
	f.seq++
	return fmt.Sprintf("%s-%d", prefix, f.seq)
}

func (f *fakeSessionRepo) Create(_ context.Context, s session.Session) (session.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if s.Status == session.StatusActive {
		for _, existing := range f.sessions {
			if existing.UserID == s.UserID && existing.Status == session.StatusActive {
				return session.Session{}, uniqueViolation("time_sessions_one_active_per_user")
			}
		}
	}

	s.ID = f.nextID("sess")
	stored := s
	f.sessions[s.ID] = &stored
	return s, nil
}

func (f *fakeSessionRepo) GetByID(_ context.Context, id string) (session.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	s, ok := f.sessions[id]
	if !ok {
		return session.Session{}, session.ErrSessionNotFound
	}
	return cloneSession(s), nil
}

func (f *fakeSessionRepo) GetActiveByUser(_ context.Context, userID string) (*session.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.hideActive {
		return nil, nil
	}

	for _, s := range f.sessions {
		if s.UserID == userID && s.Status == session.StatusActive {
			c := cloneSession(s)
			return &c, nil
		}
	}
	return nil, nil
}

func (f *fakeSessionRepo) HasSessionForDate(_ context.Context, userID string, date time.Time) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, s := range f.sessions {
		if s.UserID == userID && s.Date.Equal(date) {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeSessionRepo) ListCompletedByUserAndDate(_ context.Context, userID string, date time.Time) ([]session.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []session.Session
	for _, s := range f.sessions {
		if s.UserID == userID && s.Date.Equal(date) && s.Status == session.StatusCompleted {
			out = append(out, cloneSession(s))
		}
	}
	return out, nil
}

func (f *fakeSessionRepo) ListStaleActive(_ context.Context, maxDate time.Time) ([]session.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []session.Session
	for _, s := range f.sessions {
		if s.Status == session.StatusActive && !s.Date.After(maxDate) {
			out = append(out, cloneSession(s))
		}
	}
	return out, nil
}

func (f *fakeSessionRepo) Complete(_ context.Context, id string, clockOut time.Time, workMinutes, breakMinutes int, note *string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	s, ok := f.sessions[id]
	if !ok {
		return false, nil
	}
	if s.Status != session.StatusActive {
		return false, nil
	}

	if f.sweepCloseAt != nil {
		at := *f.sweepCloseAt
		f.sweepCloseAt = nil
		work, brk := session.ComputeTotals(s.ClockIn, at, s.Breaks)
		s.Status = session.StatusCompleted
		s.ClockOut = &at
		s.TotalWorkMinutes = &work
		s.TotalBreakMinutes = &brk
		return false, nil
	}

	s.Status = session.StatusCompleted
	s.ClockOut = &clockOut
	s.TotalWorkMinutes = &workMinutes
	s.TotalBreakMinutes = &breakMinutes
	if note != nil {
		if s.Notes != nil {
			joined := strings.Join([]string{*s.Notes, *note}, "\n")
			s.Notes = &joined
		} else {
			s.Notes = note
		}
	}
	return true, nil
}

func (f *fakeSessionRepo) Update(_ context.Context, updated session.Session) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	s, ok := f.sessions[updated.ID]
	if !ok {
		return session.ErrSessionNotFound
	}
	breaks := s.Breaks
	stored := updated
	stored.Breaks = breaks
	f.sessions[updated.ID] = &stored
	return nil
}

func (f *fakeSessionRepo) Delete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.sessions[id]; !ok {
		return session.ErrSessionNotFound
	}
	delete(f.sessions, id)
	return nil
}

func (f *fakeSessionRepo) AddBreak(_ context.Context, b session.Break) (session.Break, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	s, ok := f.sessions[b.SessionID]
	if !ok {
		return session.Break{}, session.ErrSessionNotFound
	}
	for _, existing := range s.Breaks {
		if existing.EndedAt == nil {
			return session.Break{}, uniqueViolation("session_breaks_one_open_per_session")
		}
	}

	b.ID = f.nextID("break")
	s.Breaks = append(s.Breaks, b)
	return b, nil
}

func (f *fakeSessionRepo) CloseBreak(_ context.Context, breakID string, endedAt time.Time, autoClosed bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, s := range f.sessions {
		for i := range s.Breaks {
			if s.Breaks[i].ID == breakID && s.Breaks[i].EndedAt == nil {
				s.Breaks[i].EndedAt = &endedAt
				s.Breaks[i].AutoClosed = autoClosed
				return nil
			}
		}
	}
	return session.ErrNoOpenBreak
}

func cloneSession(s *session.Session) session.Session {
	c := *s
	c.Breaks = append([]session.Break(nil), s.Breaks...)
	return c
}

// fakeUserRepo is an in-memory user.UserRepository.
type fakeUserRepo struct {
	users map[string]user.User
}

func newFakeUserRepo(users ...user.User) *fakeUserRepo {
	m := make(map[string]user.User, len(users))
	for _, u := range users {
		m[u.ID] = u
	}
	return &fakeUserRepo{users: m}
}

func (f *fakeUserRepo) GetByID(_ context.Context, id string) (user.User, error) {
	u, ok := f.users[id]
	if !ok {
		return user.User{}, user.ErrUserNotFound
	}
	return u, nil
}

func (f *fakeUserRepo) ListActive(context.Context) ([]user.User, error) {
	var out []user.User
	for _, u := range f.users {
		if u.IsEmployable() {
			out = append(out, u)
		}
	}
	return out, nil
}

// fakeAggregator records the aggregations the services request.
type fakeAggregator struct {
	attendance.AttendanceService
	mu    sync.Mutex
	calls []string
	err   error
}

func (f *fakeAggregator) Aggregate(_ context.Context, userID string, date time.Time) (attendance.DailyRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, userID+"|"+date.Format("2006-01-02"))
	return attendance.DailyRecord{UserID: userID, Date: date}, f.err
}

func (f *fakeAggregator) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

// fakeAuditRepo is an in-memory append-only audit.AuditRepository.
type fakeAuditRepo struct {
	mu      sync.Mutex
	seq     int
	entries []audit.Entry
}

func (f *fakeAuditRepo) Create(_ context.Context, entry audit.Entry) (audit.Entry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seq++
	entry.ID = fmt.Sprintf("audit-%d", f.seq)
	f.entries = append(f.entries, entry)
	return entry, nil
}

func (f *fakeAuditRepo) ListByTargetUser(_ context.Context, userID string, limit int) ([]audit.Entry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []audit.Entry
	for i := len(f.entries) - 1; i >= 0 && len(out) < limit; i-- {
		if f.entries[i].TargetUserID == userID {
			out = append(out, f.entries[i])
		}
	}
	return out, nil
}

// passthroughTx stands in for postgresql.WithTransaction in unit tests.
func passthroughTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

package scheduler

import (
	"testing"
	"time"

	"github.com/ambonmud/ambonmud/internal/clock"
	"github.com/stretchr/testify/require"
)

func TestRunDueExecutesInNondecreasingOrder(t *testing.T) {
	c := clock.NewMutable(time.Unix(0, 0))
	s := New(c)

	var order []int
	s.ScheduleIn(30, func() error { order = append(order, 3); return nil })
	s.ScheduleIn(10, func() error { order = append(order, 1); return nil })
	s.ScheduleIn(20, func() error { order = append(order, 2); return nil })

	c.Advance(40 * time.Millisecond)
	ran, dropped := s.RunDue(10)
	require.Equal(t, 3, ran)
	require.Equal(t, 0, dropped)
	require.Equal(t, []int{1, 2, 3}, order)
}

func TestRunDueCapsAndReportsOverdue(t *testing.T) {
	c := clock.NewMutable(time.Unix(0, 0))
	s := New(c)

	for i := 0; i < 5; i++ {
		s.ScheduleIn(1, func() error { return nil })
	}
	c.Advance(5 * time.Millisecond)

	ran, dropped := s.RunDue(2)
	require.Equal(t, 2, ran)
	require.Equal(t, 3, dropped)

	ran, dropped = s.RunDue(10)
	require.Equal(t, 3, ran)
	require.Equal(t, 0, dropped)
}

func TestScheduleAtNotYetDueStaysPending(t *testing.T) {
	c := clock.NewMutable(time.Unix(0, 0))
	s := New(c)
	ran := false
	s.ScheduleAt(c.NowMs()+1000, func() error { ran = true; return nil })

	_, dropped := s.RunDue(10)
	require.Equal(t, 0, dropped)
	require.False(t, ran)
	require.Equal(t, 1, s.Pending())
}

func TestActionErrorIsReportedAndDoesNotAbortRun(t *testing.T) {
	c := clock.NewMutable(time.Unix(0, 0))
	s := New(c)
	var reported error
	s.OnActionError = func(err error) { reported = err }

	ranSecond := false
	s.ScheduleIn(0, func() error { return errBoom })
	s.ScheduleIn(0, func() error { ranSecond = true; return nil })

	ran, _ := s.RunDue(10)
	require.Equal(t, 2, ran)
	require.True(t, ranSecond)
	require.ErrorIs(t, reported, errBoom)
}

var errBoom = &testErr{"boom"}

type testErr struct{ msg string }

func (e *testErr) Error() string { return e.msg }

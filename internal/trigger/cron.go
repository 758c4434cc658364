package trigger

import (
	"errors"
	"fmt"
	"time"

	robfigcron "github.com/robfig/cron/v3"
)

// ErrBadSchedule marks a trigger definition whose cron expression does not
// parse.
var ErrBadSchedule = errors.New("invalid cron expression")

// Schedule is a parsed standard 5-field cron expression
// (minute hour day-of-month month day-of-week). Day-of-month and
// day-of-week combine with OR semantics when both are restricted,
// per standard cron.
type Schedule struct {
	Expr  string
	sched robfigcron.Schedule
}

// ParseSchedule validates and parses expr. Wrong field counts, malformed
// tokens, and out-of-range values are all rejected.
func ParseSchedule(expr string) (*Schedule, error) {
	s, err := robfigcron.ParseStandard(expr)
	if err != nil {
		return nil, fmt.Errorf("%w %q: %v", ErrBadSchedule, expr, err)
	}
	return &Schedule{Expr: expr, sched: s}, nil
}

// Next returns the earliest instant strictly after from whose calendar
// fields satisfy the expression. The schedule keeps no state between
// calls, so Next may be re-invoked with any reference.
func (s *Schedule) Next(from time.Time) time.Time {
	return s.sched.Next(from)
}

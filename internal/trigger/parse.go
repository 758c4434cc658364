package trigger

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
)

// fieldSep separates the structural fields of a raw trigger definition.
// Only the first four separators are structural; everything after them is
// the prompt.
const fieldSep = "::"

// ErrBadFormat marks a raw trigger definition with too few fields.
var ErrBadFormat = errors.New("trigger definition needs at least 5 \"::\"-separated fields")

// ParseDefinition parses one raw definition of the form
//
//	platform::target_id::provider::cron_expr::prompt
//
// into a Definition. The cron expression is validated here; the provider
// name is not resolved (providers may register later).
func ParseDefinition(raw string, cat Category) (Definition, *Schedule, error) {
	parts := strings.Split(raw, fieldSep)
	if len(parts) < 5 {
		return Definition{}, nil, fmt.Errorf("%w: %q", ErrBadFormat, raw)
	}

	def := Definition{
		Category: cat,
		Platform: parts[0],
		TargetID: parts[1],
		Provider: parts[2],
		CronExpr: parts[3],
		Prompt:   strings.Join(parts[4:], fieldSep),
	}

	sched, err := ParseSchedule(def.CronExpr)
	if err != nil {
		return Definition{}, nil, err
	}
	return def, sched, nil
}

// Load parses both configuration lists into live trigger states, with each
// initial NextRun computed from now. Malformed entries are logged and
// skipped; one bad entry never prevents the rest from loading.
func Load(groupRaw, friendRaw []string, now time.Time) []*State {
	states := loadList(groupRaw, CategoryGroup, now, nil)
	states = loadList(friendRaw, CategoryPrivate, now, states)
	return states
}

func loadList(raws []string, cat Category, now time.Time, states []*State) []*State {
	for _, raw := range raws {
		def, sched, err := ParseDefinition(raw, cat)
		if err != nil {
			slog.Error("skipping malformed trigger definition", "category", cat, "raw", raw, "error", err)
			continue
		}
		st := &State{
			Def:      def,
			Schedule: sched,
			NextRun:  sched.Next(now),
		}
		states = append(states, st)
		slog.Info("added trigger",
			"category", cat,
			"origin", def.Origin(),
			"cron", def.CronExpr,
			"nextRun", st.NextRun)
	}
	return states
}

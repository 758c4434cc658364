package trigger

import (
	"fmt"
	"time"

	"github.com/AAlexDing/astrbot-plugin-LLMTrigger/internal/bus"
)

// Category says whether a trigger targets a group chat or a single
// recipient. It is determined by which configuration list a definition
// came from, never by the definition's content.
type Category string

const (
	CategoryGroup   Category = "group"
	CategoryPrivate Category = "private"
)

// MessageKind maps the category onto the outbound message kind used in
// composite destination addresses.
func (c Category) MessageKind() string {
	if c == CategoryPrivate {
		return bus.KindPrivate
	}
	return bus.KindGroup
}

// Definition is one parsed trigger: on CronExpr, ask Provider with Prompt
// and deliver the reply to TargetID on Platform. Immutable after parse.
type Definition struct {
	Category Category
	Platform string // delivery channel name
	TargetID string // group or recipient id within the platform
	Provider string // provider name, resolved at execution time
	CronExpr string // raw 5-field cron expression
	Prompt   string // free text; may itself contain the field separator
}

// Origin returns the unified destination address of the trigger.
func (d Definition) Origin() string {
	return fmt.Sprintf("%s:%s:%s", d.Platform, d.Category.MessageKind(), d.TargetID)
}

// State is a Definition plus its live scheduling state. NextRun is always
// strictly after the instant it was last computed from; LastRun is zero
// until the first completed execution attempt. Both fields are mutated
// only by the scheduler's scan, under the service mutex.
type State struct {
	Def      Definition
	Schedule *Schedule
	NextRun  time.Time
	LastRun  time.Time
}

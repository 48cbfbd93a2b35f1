/*
quickaction.go - One-shot actions triggered by URL parameters

The PWA registers shortcut URLs like ?dec=20 ("log 20 now") and
?add=2&exercise=pushups ("add 2x the daily target to pushups"). The
API layer parses the query and hands it here; nothing about the
trigger is ever retained, so a replayed URL is just a new action -
the original client's history.replaceState guard translated to a
stateless surface.

Resolution order for the exercise name: exact case-insensitive match,
then slug match ("Morning Pushups" == "morning-pushups"), then the
first exercise in the collection.
*/
package tracker

import (
	"context"
	"errors"
	"strings"

	"github.com/warp/quota-engine/exercise"
)

// ErrNoAction is returned when a quick action carries neither a
// decrement nor an addition.
var ErrNoAction = errors.New("quick action has no dec or add parameter")

// QuickAction is a parsed quick-action trigger. Dec logs that many
// repetitions; AddTimes adds that many daily targets. Dec wins when
// both are set, matching the original parameter precedence.
type QuickAction struct {
	Dec      int
	AddTimes int
	Exercise string // optional name; empty targets the first exercise
}

// QuickResult reports what was applied.
type QuickResult struct {
	Exercise *exercise.Exercise
	Action   string // "logged" or "added"
	Amount   int    // reps logged, or targets added
}

// QuickAction resolves and applies a one-shot action through the same
// logging surface as the buttons.
func (t *Tracker) QuickAction(ctx context.Context, qa QuickAction) (QuickResult, error) {
	if qa.Dec <= 0 && qa.AddTimes <= 0 {
		return QuickResult{}, ErrNoAction
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	e := t.resolve(qa.Exercise)
	if e == nil {
		return QuickResult{}, exercise.ErrNotFound
	}

	if qa.Dec > 0 {
		t.logDoneLocked(ctx, e, qa.Dec)
		return QuickResult{Exercise: e.Clone(), Action: "logged", Amount: qa.Dec}, nil
	}

	t.addTargetLocked(ctx, e, qa.AddTimes)
	return QuickResult{Exercise: e.Clone(), Action: "added", Amount: qa.AddTimes}, nil
}

// resolve picks the target exercise by name, slug, or position.
func (t *Tracker) resolve(name string) *exercise.Exercise {
	if len(t.list) == 0 {
		return nil
	}
	needle := strings.TrimSpace(name)
	if needle != "" {
		for _, e := range t.list {
			if strings.EqualFold(strings.TrimSpace(e.Name), needle) {
				return e
			}
		}
		slug := toSlug(needle)
		for _, e := range t.list {
			if toSlug(e.Name) == slug {
				return e
			}
		}
	}
	return t.list[0]
}

func toSlug(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(strings.TrimSpace(s))), "-")
}

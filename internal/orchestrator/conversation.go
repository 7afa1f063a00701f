package orchestrator

import (
	"sync"
	"time"

	"github.com/danielpatrickdp/neurosym-core/internal/seed"
)

const maxRecentInputs = 10

// Conversation is the per-user state carried across turns. It is passed into
// every Process call explicitly; a nil Conversation means a one-shot turn.
type Conversation struct {
	mu sync.Mutex

	recent        []string
	lastLabel     seed.Label
	dislikedLabel seed.Label
	lastTurn      *TurnClassification
	day           string
	dailyCount    int
}

// NewConversation creates empty conversation state.
func NewConversation() *Conversation {
	return &Conversation{}
}

// turnView is the conversation as seen by one request.
type turnView struct {
	disliked seed.Label
	pushback bool
	prev     *TurnClassification
}

// begin records the incoming text and resolves pushback against the label of
// the previous reply.
func (c *Conversation) begin(text string, now time.Time) turnView {
	if c == nil {
		return turnView{}
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	day := now.Format("2006-01-02")
	if day != c.day {
		c.day = day
		c.dailyCount = 0
	}
	c.dailyCount++

	c.recent = append(c.recent, text)
	if len(c.recent) > maxRecentInputs {
		c.recent = c.recent[len(c.recent)-maxRecentInputs:]
	}

	v := turnView{prev: c.lastTurn}
	if IsPushback(text) && c.lastLabel != "" {
		c.dislikedLabel = c.lastLabel
		v.pushback = true
	}
	v.disliked = c.dislikedLabel
	return v
}

// finish stores what was sent this turn.
func (c *Conversation) finish(turn TurnClassification, label seed.Label, fallback bool) {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	t := turn
	c.lastTurn = &t
	if fallback {
		c.lastLabel = ""
		return
	}
	c.lastLabel = label
	// A reply that avoided the disliked label settles the pushback.
	if label != c.dislikedLabel {
		c.dislikedLabel = ""
	}
}

// Recent returns a copy of the latest inputs, oldest first.
func (c *Conversation) Recent() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.recent...)
}

// DailyCount is the number of turns on the current day.
func (c *Conversation) DailyCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.dailyCount
}

// DislikedLabel is the label the user last pushed back on, if unresolved.
func (c *Conversation) DislikedLabel() seed.Label {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.dislikedLabel
}

package engine

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// resumeFunc completes a two-phase operation once the player answers. It runs
// under the engine mutex; accept is true for "yes"/"confirm".
type resumeFunc func(accept bool) (string, error)

// pendingChoice is an operation waiting on a player answer. The engine never
// blocks a goroutine on the answer; the choice sits in the table until the
// player responds or it expires.
type pendingChoice struct {
	token    string
	playerID string
	prompt   string
	expires  time.Time
	resume   resumeFunc
}

// pendingTable holds at most one open choice per player. Opening a new choice
// silently abandons the previous one.
type pendingTable struct {
	mu       sync.Mutex
	byPlayer map[string]*pendingChoice
}

func newPendingTable() *pendingTable {
	return &pendingTable{byPlayer: make(map[string]*pendingChoice)}
}

func (t *pendingTable) open(playerID, prompt string, expires time.Time, resume resumeFunc) *pendingChoice {
	t.mu.Lock()
	defer t.mu.Unlock()
	c := &pendingChoice{
		token:    uuid.NewString(),
		playerID: playerID,
		prompt:   prompt,
		expires:  expires,
		resume:   resume,
	}
	t.byPlayer[playerID] = c
	return c
}

// put restores a choice, used when an answer could not be parsed.
func (t *pendingTable) put(c *pendingChoice) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.byPlayer[c.playerID] = c
}

// take removes and returns the player's open choice, nil if none or expired.
func (t *pendingTable) take(playerID string, now time.Time) *pendingChoice {
	t.mu.Lock()
	defer t.mu.Unlock()
	c, ok := t.byPlayer[playerID]
	if !ok {
		return nil
	}
	delete(t.byPlayer, playerID)
	if now.After(c.expires) {
		return nil
	}
	return c
}

// sweep drops every expired choice. Called from the movement tick so stale
// prompts do not pin memory between answers.
func (t *pendingTable) sweep(now time.Time) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for id, c := range t.byPlayer {
		if now.After(c.expires) {
			delete(t.byPlayer, id)
		}
	}
}

// askPlayer opens a pending choice and sends the prompt. Returns the prompt
// text for the command reply.
func (e *Engine) askPlayer(playerID, prompt string, resume resumeFunc) string {
	e.pending.open(playerID, prompt, e.now().Add(e.cfg.ChoiceTimeout), resume)
	return prompt
}

// Respond resolves the player's open pending choice. answer is matched
// case-insensitively against yes/no forms.
func (e *Engine) Respond(playerID, answer string) (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	c := e.pending.take(playerID, e.now())
	if c == nil {
		return "", Validationf("nothing is waiting on your answer")
	}
	accept, err := parseAnswer(answer)
	if err != nil {
		// Unrecognized answers leave the question open until it expires.
		e.pending.put(c)
		return "", err
	}
	return c.resume(accept)
}

func parseAnswer(answer string) (bool, error) {
	switch answer {
	case "yes", "y", "confirm", "accept":
		return true, nil
	case "no", "n", "cancel", "decline":
		return false, nil
	}
	return false, Validationf("answer yes or no")
}

package daemon

import "strings"

// State is a step of the detachment sequence.
type State int

const (
	StateStart State = iota
	StateForkedOnce
	StateSessionLeader
	StateForkedTwice
	StateDone
	StateFailed
	StateExited
)

var stateNames = [...]string{
	StateStart:         "start",
	StateForkedOnce:    "forked-once",
	StateSessionLeader: "session-leader",
	StateForkedTwice:   "forked-twice",
	StateDone:          "done",
	StateFailed:        "failed",
	StateExited:        "exited",
}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return "unknown"
	}
	return stateNames[s]
}

// parseState decodes a stage marker. Only the states a re-executed process
// can resume in are accepted.
func parseState(v string) (State, bool) {
	switch v {
	case StateForkedOnce.String():
		return StateForkedOnce, true
	case StateForkedTwice.String():
		return StateForkedTwice, true
	}
	return StateStart, false
}

// withStage returns env with any previous marker for key replaced by next.
func withStage(env []string, key string, next State) []string {
	prefix := key + "="
	out := make([]string, 0, len(env)+1)
	for _, kv := range env {
		if strings.HasPrefix(kv, prefix) {
			continue
		}
		out = append(out, kv)
	}
	return append(out, prefix+next.String())
}

package research

import "time"

type Role string

const (
	RoleHuman Role = "human"
	RoleAI    Role = "ai"
)

// Turn is one immutable entry of a conversation.
type Turn struct {
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

type Stage int

const (
	StageStart Stage = iota
	StageDecide
	StageResearch
	StageRefine
	StageDone
)

func (s Stage) String() string {
	switch s {
	case StageStart:
		return "start"
	case StageDecide:
		return "decide"
	case StageResearch:
		return "research"
	case StageRefine:
		return "refine"
	case StageDone:
		return "done"
	default:
		return "unknown"
	}
}

// State is threaded through one pipeline run. Every stage receives it by
// value and returns a new value; History is never shared with the caller.
type State struct {
	SessionID       string
	Question        string
	History         []Turn
	ShouldResearch  bool
	SearchQuery     string
	ResearchResults string
	DraftAnswer     string
	FinalAnswer     string

	Decision Decision
	Research ResearchOutcome
	Refined  bool
}

func NewState(sessionID, question string, prior []Turn) State {
	return State{
		SessionID: sessionID,
		Question:  question,
		History:   cloneTurns(prior),
	}
}

func cloneTurns(turns []Turn) []Turn {
	out := make([]Turn, len(turns))
	copy(out, turns)
	return out
}

func appendTurns(history []Turn, turns ...Turn) []Turn {
	out := make([]Turn, 0, len(history)+len(turns))
	out = append(out, history...)
	return append(out, turns...)
}

// Package session holds the local participant's view of one game:
// which session it belongs to, which role it plays, and where the
// synchronization loop stands. The server owns everything else.
package session

// Phase is the synchronization state of the client. The poll loop runs
// only in PhasePolling; PhaseTerminated is left only through a full
// restart, never by resuming.
type Phase int

const (
	PhaseUnjoined Phase = iota
	PhasePolling
	PhaseTerminated
)

func (p Phase) String() string {
	switch p {
	case PhaseUnjoined:
		return "unjoined"
	case PhasePolling:
		return "polling"
	case PhaseTerminated:
		return "terminated"
	default:
		return "unknown"
	}
}

// Session is the explicit, locally owned game state. Exactly one
// exists per client process, created at startup and threaded through
// the components that need it.
type Session struct {
	GameID     string
	Role       string
	AIOpponent bool

	phase Phase
}

func New(gameID string) *Session {
	return &Session{GameID: gameID, phase: PhaseUnjoined}
}

func (s *Session) Phase() Phase {
	return s.phase
}

// Joined reports whether a role has been granted.
func (s *Session) Joined() bool {
	return s.Role != ""
}

// BeginPolling records a granted role and enters the polling phase.
// Legal only from PhaseUnjoined; returns false otherwise, so a double
// join cannot start a second loop.
func (s *Session) BeginPolling(role string, aiOpponent bool) bool {
	if s.phase != PhaseUnjoined {
		return false
	}
	s.Role = role
	s.AIOpponent = aiOpponent
	s.phase = PhasePolling
	return true
}

// Terminate enters the terminal phase. Legal only from PhasePolling;
// a second terminal snapshot or a late poll response is a no-op.
func (s *Session) Terminate() bool {
	if s.phase != PhasePolling {
		return false
	}
	s.phase = PhaseTerminated
	return true
}

// Reset clears the role and opponent flag and returns to the pre-join
// phase. Legal only from PhaseTerminated, and only once the server has
// confirmed the restart; callers must not reset on a failed restart.
func (s *Session) Reset() bool {
	if s.phase != PhaseTerminated {
		return false
	}
	s.Role = ""
	s.AIOpponent = false
	s.phase = PhaseUnjoined
	return true
}

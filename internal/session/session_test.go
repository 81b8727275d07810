package session

import "testing"

func TestLifecycle(t *testing.T) {
	s := New("default")

	if s.Phase() != PhaseUnjoined {
		t.Fatalf("new session phase = %v, want unjoined", s.Phase())
	}
	if s.Joined() {
		t.Fatal("new session should not be joined")
	}

	if !s.BeginPolling("H", true) {
		t.Fatal("BeginPolling from unjoined should succeed")
	}
	if s.Role != "H" || !s.AIOpponent {
		t.Fatalf("got role=%q ai=%v, want H/true", s.Role, s.AIOpponent)
	}
	if s.Phase() != PhasePolling {
		t.Fatalf("phase = %v, want polling", s.Phase())
	}

	if !s.Terminate() {
		t.Fatal("Terminate from polling should succeed")
	}
	if !s.Reset() {
		t.Fatal("Reset from terminated should succeed")
	}
	if s.Role != "" || s.AIOpponent {
		t.Fatalf("reset should clear role and ai flag, got role=%q ai=%v", s.Role, s.AIOpponent)
	}
	if s.Phase() != PhaseUnjoined {
		t.Fatalf("phase after reset = %v, want unjoined", s.Phase())
	}
	if s.GameID != "default" {
		t.Fatalf("reset should keep the game id, got %q", s.GameID)
	}
}

func TestIllegalTransitionsAreNoOps(t *testing.T) {
	s := New("default")

	if s.Terminate() {
		t.Fatal("Terminate before joining should be rejected")
	}
	if s.Reset() {
		t.Fatal("Reset before joining should be rejected")
	}

	s.BeginPolling("Z", false)
	if s.BeginPolling("H", false) {
		t.Fatal("second BeginPolling should be rejected")
	}
	if s.Role != "Z" {
		t.Fatalf("rejected join must not change the role, got %q", s.Role)
	}
	if s.Reset() {
		t.Fatal("Reset while polling should be rejected")
	}

	s.Terminate()
	if s.Terminate() {
		t.Fatal("double Terminate should be rejected")
	}
	if s.Phase() != PhaseTerminated {
		t.Fatalf("phase = %v, want terminated", s.Phase())
	}
}

package roulette

import (
	"math/rand/v2"
	"testing"

	"github.com/evanschultz/roulette/internal/domain"
)

func TestParseMode(t *testing.T) {
	for raw, want := range map[string]Mode{"": ModeWheel, "wheel": ModeWheel, " Shuffle ": ModeShuffle} {
		got, err := ParseMode(raw)
		if err != nil {
			t.Fatalf("ParseMode(%q) error = %v", raw, err)
		}
		if got != want {
			t.Fatalf("ParseMode(%q) = %q, want %q", raw, got, want)
		}
	}
	if _, err := ParseMode("dice"); err == nil {
		t.Fatal("expected error for unknown mode")
	}
}

func TestShuffleDealsEveryMemberOnce(t *testing.T) {
	members := entities(domain.KindMember, "a", "b", "c", "d", "e")
	tasks := entities(domain.KindTask, "x", "y")
	got, err := Shuffle{Rand: rand.New(rand.NewPCG(7, 7))}.Assign(members, tasks, 0)
	if err != nil {
		t.Fatalf("Assign() error = %v", err)
	}
	if len(got) != len(members) {
		t.Fatalf("expected %d assignments, got %d", len(members), len(got))
	}
	seen := map[string]int{}
	perTask := map[string]int{}
	for _, a := range got {
		seen[a.Member]++
		perTask[a.Task]++
	}
	for _, m := range members {
		if seen[m.Name] != 1 {
			t.Fatalf("member %q assigned %d times", m.Name, seen[m.Name])
		}
	}
	// Round-robin dealing over 5 members and 2 tasks yields a 3/2 split.
	if perTask["x"]+perTask["y"] != 5 || perTask["x"] < 2 || perTask["y"] < 2 {
		t.Fatalf("unexpected task distribution %#v", perTask)
	}
	if _, err := (Shuffle{}).Assign(nil, tasks, 0); err != ErrNoMembers {
		t.Fatalf("expected ErrNoMembers, got %v", err)
	}
}

func TestStrategyFor(t *testing.T) {
	if _, ok := StrategyFor(ModeWheel, nil).(Wheel); !ok {
		t.Fatal("expected wheel strategy")
	}
	if _, ok := StrategyFor(ModeShuffle, nil).(Shuffle); !ok {
		t.Fatal("expected shuffle strategy")
	}
}

func TestTargetAngle(t *testing.T) {
	if got := TargetAngle(0, DefaultMinTurns); got != 720 {
		t.Fatalf("TargetAngle(0) = %v, want 720", got)
	}
	if got := TargetAngle(0.5, DefaultMinTurns); got != 900 {
		t.Fatalf("TargetAngle(0.5) = %v, want 900", got)
	}
	if got := TargetAngle(1, DefaultMinTurns); got >= 1080 {
		t.Fatalf("TargetAngle(1) = %v, want < 1080", got)
	}
	if got := TargetAngle(-3, -1); got != 0 {
		t.Fatalf("TargetAngle(-3,-1) = %v, want 0", got)
	}
}

func TestEaseOut(t *testing.T) {
	if EaseOut(-1) != 0 || EaseOut(0) != 0 || EaseOut(1) != 1 || EaseOut(2) != 1 {
		t.Fatal("unexpected ease-out endpoints")
	}
	if mid := EaseOut(0.5); mid <= 0.5 || mid >= 1 {
		t.Fatalf("expected decelerating curve, got %v", mid)
	}
}

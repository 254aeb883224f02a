package pool

import (
	"math"
	"testing"
)

func sumActiveShares(players []Player) float64 {
	sum := 0.0
	for _, p := range players {
		if p.Status == StatusActive {
			sum += p.CurrentShare
		}
	}
	return sum
}

func TestComputeSharesEqualAtZero(t *testing.T) {
	players := []Player{
		{ID: "a", Status: StatusActive},
		{ID: "b", Status: StatusActive},
		{ID: "c", Status: StatusActive},
		{ID: "d", Status: StatusWithdrawn, TotalScore: 40, CurrentShare: 0.5},
	}
	out := ComputeShares(players)
	for _, p := range out[:3] {
		if p.CurrentShare != 1.0/3 {
			t.Fatalf("expected share 1/3 for %s, got %v", p.ID, p.CurrentShare)
		}
	}
	if out[3].CurrentShare != 0 {
		t.Fatalf("expected withdrawn share 0, got %v", out[3].CurrentShare)
	}
	if players[3].CurrentShare != 0.5 {
		t.Fatal("input slice must not be modified")
	}
}

func TestComputeSharesInverseWeights(t *testing.T) {
	players := []Player{
		{ID: "p1", Status: StatusActive, TotalScore: 0},
		{ID: "p2", Status: StatusActive, TotalScore: 10},
		{ID: "p3", Status: StatusActive, TotalScore: 20},
		{ID: "p4", Status: StatusActive, TotalScore: 30},
	}
	out := ComputeShares(players)
	want := []float64{31.0 / 64, 21.0 / 64, 11.0 / 64, 1.0 / 64}
	for i, p := range out {
		if math.Abs(p.CurrentShare-want[i]) > 1e-12 {
			t.Fatalf("expected share %v for %s, got %v", want[i], p.ID, p.CurrentShare)
		}
	}
	if math.Abs(sumActiveShares(out)-1) > 1e-9 {
		t.Fatalf("expected shares to sum to 1, got %v", sumActiveShares(out))
	}
}

func TestComputeSharesConservationAndMonotonic(t *testing.T) {
	cases := [][]int{
		{5},
		{0, 1},
		{3, 3, 3, 4},
		{99, 0, 57, 12, 100, 7},
		{1, 2, 3, 4, 5, 6, 7, 8, 9},
	}
	for _, scores := range cases {
		players := make([]Player, 0, len(scores)+1)
		for i, s := range scores {
			players = append(players, Player{ID: string(rune('a' + i)), Status: StatusActive, TotalScore: s})
		}
		players = append(players, Player{ID: "z", Status: StatusEliminated, TotalScore: 120})
		out := ComputeShares(players)
		if math.Abs(sumActiveShares(out)-1) > 1e-9 {
			t.Fatalf("scores %v: expected sum 1, got %v", scores, sumActiveShares(out))
		}
		for i := range out {
			for j := range out {
				if out[i].Status != StatusActive || out[j].Status != StatusActive {
					continue
				}
				if out[i].TotalScore < out[j].TotalScore && out[i].CurrentShare < out[j].CurrentShare {
					t.Fatalf("scores %v: lower total %s got smaller share than %s", scores, out[i].ID, out[j].ID)
				}
			}
		}
		if out[len(out)-1].CurrentShare != 0 {
			t.Fatalf("eliminated player should hold no share")
		}
	}
}

func TestComputeSharesNoActive(t *testing.T) {
	players := []Player{
		{ID: "a", Status: StatusEliminated, TotalScore: 101, CurrentShare: 0.2},
		{ID: "b", Status: StatusWithdrawn, CurrentShare: 0.8},
	}
	out := ComputeShares(players)
	for _, p := range out {
		if p.CurrentShare != 0 {
			t.Fatalf("expected share 0 for %s, got %v", p.ID, p.CurrentShare)
		}
	}
}

func TestLeadingPlayers(t *testing.T) {
	players := []Player{
		{ID: "a", Status: StatusActive, TotalScore: 12},
		{ID: "b", Status: StatusEliminated, TotalScore: 0},
		{ID: "c", Status: StatusActive, TotalScore: 12},
		{ID: "d", Status: StatusActive, TotalScore: 30},
	}
	got := LeadingPlayers(players)
	if len(got) != 2 || got[0] != "a" || got[1] != "c" {
		t.Fatalf("expected [a c], got %v", got)
	}
	if len(LeadingPlayers(nil)) != 0 {
		t.Fatal("expected no leaders without players")
	}
}

package scoring

import (
	"math/rand"
	"testing"

	"trivia-room-service/internal/domain"
)

func TestAwardPointsDecaysToFloor(t *testing.T) {
	want := map[int]int{0: 8, 1: 7, 2: 6, 3: 5, 4: 5, 10: 5}
	for idx, points := range want {
		if got := AwardPoints(idx); got != points {
			t.Fatalf("AwardPoints(%d): expected %d, got %d", idx, points, got)
		}
	}
	prev := AwardPoints(0)
	for i := 1; i < 50; i++ {
		cur := AwardPoints(i)
		if cur > prev {
			t.Fatalf("AwardPoints increased at %d: %d > %d", i, cur, prev)
		}
		if cur < DefaultMinPoints {
			t.Fatalf("AwardPoints(%d)=%d below floor", i, cur)
		}
		prev = cur
	}
}

func TestRecomputeRanksCompetitionStyle(t *testing.T) {
	a := &domain.Player{Name: "a", TotalPoints: 8}
	b := &domain.Player{Name: "b", TotalPoints: 10}
	c := &domain.Player{Name: "c", TotalPoints: 10}

	ranked := RecomputeRanks([]*domain.Player{a, b, c})

	gotNames := []string{ranked[0].Name, ranked[1].Name, ranked[2].Name}
	if gotNames[0] != "b" || gotNames[1] != "c" || gotNames[2] != "a" {
		t.Fatalf("unexpected order %v", gotNames)
	}
	gotRanks := []int{ranked[0].Rank, ranked[1].Rank, ranked[2].Rank}
	if gotRanks[0] != 1 || gotRanks[1] != 1 || gotRanks[2] != 3 {
		t.Fatalf("expected ranks [1 1 3], got %v", gotRanks)
	}
}

func TestRecomputeRanksSnapshotsPreviousRank(t *testing.T) {
	a := &domain.Player{Name: "a"}
	b := &domain.Player{Name: "b"}
	RecomputeRanks([]*domain.Player{a, b})

	b.TotalPoints = 8
	RecomputeRanks([]*domain.Player{a, b})

	if b.Rank != 1 || b.PreviousRank != 1 {
		t.Fatalf("expected b rank 1 (prev 1), got %d (prev %d)", b.Rank, b.PreviousRank)
	}
	if a.Rank != 2 || a.PreviousRank != 1 {
		t.Fatalf("expected a rank 2 (prev 1), got %d (prev %d)", a.Rank, a.PreviousRank)
	}
}

func TestRecomputeRanksTieLaw(t *testing.T) {
	rnd := rand.New(rand.NewSource(42))
	for round := 0; round < 200; round++ {
		players := make([]*domain.Player, rnd.Intn(12)+1)
		for i := range players {
			players[i] = &domain.Player{TotalPoints: rnd.Intn(5) * 5}
		}
		ranked := RecomputeRanks(players)
		for i := 1; i < len(ranked); i++ {
			prev, cur := ranked[i-1], ranked[i]
			if cur.TotalPoints > prev.TotalPoints {
				t.Fatalf("round %d: not sorted by points", round)
			}
			if cur.Rank < prev.Rank {
				t.Fatalf("round %d: rank decreased down the board", round)
			}
			if cur.TotalPoints == prev.TotalPoints && cur.Rank != prev.Rank {
				t.Fatalf("round %d: tied players got ranks %d and %d", round, prev.Rank, cur.Rank)
			}
			if cur.TotalPoints < prev.TotalPoints && cur.Rank != i+1 {
				t.Fatalf("round %d: expected rank %d after a gap, got %d", round, i+1, cur.Rank)
			}
		}
	}
}

func TestRecomputeRanksKeepsInputOrder(t *testing.T) {
	a := &domain.Player{Name: "a", TotalPoints: 1}
	b := &domain.Player{Name: "b", TotalPoints: 9}
	in := []*domain.Player{a, b}
	RecomputeRanks(in)
	if in[0] != a || in[1] != b {
		t.Fatalf("input slice was reordered")
	}
}

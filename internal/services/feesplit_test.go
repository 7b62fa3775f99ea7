package services

import (
	"testing"
)

func TestSplitPoolConservation(t *testing.T) {
	pools := []int64{0, 1, 7, 99, 100, 101, 999, 1000, 12345, 999999, 1000000, 987654321}
	feePairs := [][2]int{
		{0, 0},
		{300, 200},
		{1, 1},
		{9999, 0},
		{5000, 4999},
		{250, 750},
	}

	for _, pool := range pools {
		for _, bps := range feePairs {
			split := SplitPool(pool, bps[0], bps[1])
			sum := split.PlatformFee + split.CreatorReward + split.ParticipantPool
			if sum != pool {
				t.Errorf("pool %d with bps %d/%d: split leaks, %d + %d + %d = %d",
					pool, bps[0], bps[1],
					split.PlatformFee, split.CreatorReward, split.ParticipantPool, sum)
			}
			if split.PlatformFee < 0 || split.CreatorReward < 0 || split.ParticipantPool < 0 {
				t.Errorf("pool %d with bps %d/%d: negative component %+v", pool, bps[0], bps[1], split)
			}
		}
	}
}

func TestSplitPoolMillionUnits(t *testing.T) {
	// 1,000,000 minor units at 3% platform / 2% creator
	split := SplitPool(1000000, 300, 200)

	if split.PlatformFee != 30000 {
		t.Errorf("expected platform fee 30000, got %d", split.PlatformFee)
	}
	if split.CreatorReward != 20000 {
		t.Errorf("expected creator reward 20000, got %d", split.CreatorReward)
	}
	if split.ParticipantPool != 950000 {
		t.Errorf("expected participant pool 950000, got %d", split.ParticipantPool)
	}

	perWinner := WinningsPerWinner(split.ParticipantPool, 2)
	if perWinner != 475000 {
		t.Errorf("expected 475000 per winner, got %d", perWinner)
	}

	total := split.PlatformFee + split.CreatorReward + perWinner*2
	if total != 1000000 {
		t.Errorf("payouts plus fees should reconstruct the pool, got %d", total)
	}
}

func TestWinningsPerWinner(t *testing.T) {
	if got := WinningsPerWinner(950000, 0); got != 0 {
		t.Errorf("zero winners should pay zero, got %d", got)
	}
	if got := WinningsPerWinner(1000, 3); got != 333 {
		t.Errorf("expected floor division 333, got %d", got)
	}
	if got := WinningsPerWinner(0, 5); got != 0 {
		t.Errorf("empty pool should pay zero, got %d", got)
	}
}

func TestEstimatePotentialWinnings(t *testing.T) {
	// first joiner keeps the whole 95% estimate
	if got := EstimatePotentialWinnings(1000, 0); got != 950 {
		t.Errorf("expected 950 for first joiner, got %d", got)
	}
	// second same-outcome joiner splits it two ways
	if got := EstimatePotentialWinnings(2000, 1); got != 950 {
		t.Errorf("expected 950 for second joiner, got %d", got)
	}
	if got := EstimatePotentialWinnings(3000, 0); got != 2850 {
		t.Errorf("expected 2850, got %d", got)
	}
}

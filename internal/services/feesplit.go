package services

// Fee math runs in int64 minor units with percentages as basis points, so
// the three-way split always reconstructs the pool exactly.

const bpsDenominator = 10000

// estimateFeeBps is the assumed total fee used for the join-time
// potential-winnings estimate. It deliberately ignores the market's stored
// percentages: the estimate is display data, the real split at resolution
// uses the market's own basis points.
const estimateFeeBps = 500

// FeeSplit is the three-way division of a market's pool at resolution
type FeeSplit struct {
	PlatformFee     int64
	CreatorReward   int64
	ParticipantPool int64
}

// SplitPool divides totalPool by the given basis points. Division truncates
// toward zero; the participant pool absorbs all rounding remainder, so
// PlatformFee + CreatorReward + ParticipantPool == totalPool always holds.
func SplitPool(totalPool int64, platformFeeBps, creatorRewardBps int) FeeSplit {
	platformFee := totalPool * int64(platformFeeBps) / bpsDenominator
	creatorReward := totalPool * int64(creatorRewardBps) / bpsDenominator
	return FeeSplit{
		PlatformFee:     platformFee,
		CreatorReward:   creatorReward,
		ParticipantPool: totalPool - platformFee - creatorReward,
	}
}

// WinningsPerWinner divides the participant pool evenly among winners.
// Floor division: a remainder of at most winnerCount-1 minor units stays
// undistributed. Zero winners means zero payout, the fees still apply.
func WinningsPerWinner(participantPool int64, winnerCount int) int64 {
	if winnerCount <= 0 {
		return 0
	}
	return participantPool / int64(winnerCount)
}

// EstimatePotentialWinnings computes the advisory payout shown at join
// time: 95% of the pool after this entry, split across everyone already
// holding the same prediction plus the joiner.
func EstimatePotentialWinnings(newPool int64, sameOutcomeCount int64) int64 {
	pool := newPool * (bpsDenominator - estimateFeeBps) / bpsDenominator
	return pool / (sameOutcomeCount + 1)
}

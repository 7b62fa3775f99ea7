package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"matchmarket/internal/models"
	"matchmarket/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ResolutionSummary reports what a single resolution distributed
type ResolutionSummary struct {
	MarketID          uint           `json:"market_id"`
	Outcome           models.Outcome `json:"outcome"`
	TotalPool         int64          `json:"total_pool"`
	PlatformFee       int64          `json:"platform_fee"`
	CreatorReward     int64          `json:"creator_reward"`
	ParticipantPool   int64          `json:"participant_pool"`
	WinnerCount       int            `json:"winner_count"`
	WinningsPerWinner int64          `json:"winnings_per_winner"`
}

// ResolveMarket assigns the market's final outcome and distributes winnings
// and fees. The whole write sequence runs in one database transaction with
// the market row locked, and a market that already has an outcome is
// rejected, so resolution is idempotent and safe against concurrent
// automation cycles.
//
// Ledger entries are created in a fixed order: one winnings entry per
// winner in join order, then creator_reward, then platform_fee.
func (s *MarketService) ResolveMarket(
	ctx context.Context,
	marketID uint,
	outcome models.Outcome,
) (*ResolutionSummary, error) {
	if !outcome.Valid() {
		return nil, stateViolation("invalid resolution outcome: %s", outcome)
	}

	var summary *ResolutionSummary

	err := s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		market, err := tx.GetMarketByIDForUpdate(ctx, marketID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrMarketNotFound
			}
			return fmt.Errorf("failed to get market: %w", err)
		}

		if market.ResolutionOutcome != nil {
			return stateViolation("market %d is already resolved with outcome %s", market.ID, *market.ResolutionOutcome)
		}
		if market.Status != models.MarketStatusFinished {
			return stateViolation("market is not eligible for resolution, current status: %s", market.Status)
		}

		participants, err := tx.ListParticipantsByMarket(ctx, marketID)
		if err != nil {
			return fmt.Errorf("failed to list participants: %w", err)
		}

		split := SplitPool(market.TotalPool, market.PlatformFeeBps, market.CreatorRewardBps)

		winnerCount := 0
		for _, p := range participants {
			if p.Prediction == outcome {
				winnerCount++
			}
		}
		perWinner := WinningsPerWinner(split.ParticipantPool, winnerCount)

		// every participant gets a non-null result: perWinner for winners,
		// zero for everyone else
		for _, p := range participants {
			winnings := int64(0)
			if p.Prediction == outcome {
				winnings = perWinner
			}
			if err := tx.UpdateParticipant(ctx, p.ID, map[string]interface{}{
				"actual_winnings": winnings,
			}); err != nil {
				return fmt.Errorf("failed to update participant %d: %w", p.ID, err)
			}

			if winnings > 0 {
				winTx := &models.Transaction{
					ID:          uuid.New(),
					UserID:      p.UserID,
					MarketID:    marketID,
					Type:        models.TransactionTypeWinnings,
					Amount:      winnings,
					Description: fmt.Sprintf("Winnings for %s on market %d", outcome, marketID),
					Status:      models.TransactionStatusCompleted,
					CreatedAt:   time.Now(),
				}
				if err := tx.CreateTransaction(ctx, winTx); err != nil {
					return fmt.Errorf("failed to record winnings: %w", err)
				}
			}
		}

		if split.CreatorReward > 0 {
			rewardTx := &models.Transaction{
				ID:          uuid.New(),
				UserID:      market.CreatorID,
				MarketID:    marketID,
				Type:        models.TransactionTypeCreatorReward,
				Amount:      split.CreatorReward,
				Description: fmt.Sprintf("Creator reward for market %d", marketID),
				Status:      models.TransactionStatusCompleted,
				CreatedAt:   time.Now(),
			}
			if err := tx.CreateTransaction(ctx, rewardTx); err != nil {
				return fmt.Errorf("failed to record creator reward: %w", err)
			}
		}

		if split.PlatformFee > 0 {
			// attributed to the creator as the fee payer of record
			feeTx := &models.Transaction{
				ID:          uuid.New(),
				UserID:      market.CreatorID,
				MarketID:    marketID,
				Type:        models.TransactionTypePlatformFee,
				Amount:      split.PlatformFee,
				Description: fmt.Sprintf("Platform fee for market %d", marketID),
				Status:      models.TransactionStatusCompleted,
				CreatedAt:   time.Now(),
			}
			if err := tx.CreateTransaction(ctx, feeTx); err != nil {
				return fmt.Errorf("failed to record platform fee: %w", err)
			}
		}

		now := time.Now()
		if err := tx.UpdateMarket(ctx, marketID, map[string]interface{}{
			"status":             models.MarketStatusResolved,
			"resolution_outcome": outcome,
			"resolved_at":        now,
		}); err != nil {
			return fmt.Errorf("failed to update market: %w", err)
		}

		summary = &ResolutionSummary{
			MarketID:          marketID,
			Outcome:           outcome,
			TotalPool:         market.TotalPool,
			PlatformFee:       split.PlatformFee,
			CreatorReward:     split.CreatorReward,
			ParticipantPool:   split.ParticipantPool,
			WinnerCount:       winnerCount,
			WinningsPerWinner: perWinner,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Printf("[MarketService] Resolved market %d: outcome=%s, pool=%d, winners=%d, per-winner=%d",
		summary.MarketID, summary.Outcome, summary.TotalPool, summary.WinnerCount, summary.WinningsPerWinner)

	return summary, nil
}

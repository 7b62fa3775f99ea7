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
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// MarketService owns market creation, participation and resolution
type MarketService struct {
	repo *repository.Repository
}

func NewMarketService(repo *repository.Repository) *MarketService {
	return &MarketService{repo: repo}
}

// CreateMarket creates a market for a football match. Fee percentages come
// from platform_config, falling back to the fixed defaults.
func (s *MarketService) CreateMarket(
	ctx context.Context,
	creatorID uint,
	req *models.CreateMarketRequest,
) (*models.Market, error) {
	entryFee, err := models.ParseAmount(req.EntryFee)
	if err != nil {
		return nil, stateViolation("invalid entry fee: %v", err)
	}
	if entryFee <= 0 {
		return nil, stateViolation("entry fee must be positive")
	}
	if !req.EndTime.After(time.Now()) {
		return nil, stateViolation("end time must be in the future")
	}

	if _, err := s.repo.GetUserByID(ctx, creatorID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get creator: %w", err)
	}

	platformFeeBps := s.repo.GetPlatformConfigInt(ctx, models.ConfigKeyPlatformFeeBps, models.DefaultPlatformFeeBps)
	creatorRewardBps := s.repo.GetPlatformConfigInt(ctx, models.ConfigKeyCreatorRewardBps, models.DefaultCreatorRewardBps)

	market := &models.Market{
		CreatorID:        creatorID,
		Title:            req.Title,
		Description:      req.Description,
		EntryFee:         entryFee,
		EndTime:          req.EndTime,
		Status:           models.MarketStatusScheduled,
		TotalPool:        0,
		PlatformFeeBps:   platformFeeBps,
		CreatorRewardBps: creatorRewardBps,
		MatchID:          req.MatchID,
		HomeTeam:         req.HomeTeam,
		AwayTeam:         req.AwayTeam,
	}

	err = s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		if err := tx.CreateMarket(ctx, market); err != nil {
			return fmt.Errorf("failed to create market: %w", err)
		}
		// zero-amount entry opens the market's audit trail
		audit := &models.Transaction{
			ID:          uuid.New(),
			UserID:      creatorID,
			MarketID:    market.ID,
			Type:        models.TransactionTypeMarketEntry,
			Amount:      0,
			Description: fmt.Sprintf("Market created: %s", market.Title),
			Status:      models.TransactionStatusCompleted,
			CreatedAt:   time.Now(),
		}
		if err := tx.CreateTransaction(ctx, audit); err != nil {
			return fmt.Errorf("failed to record market creation: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Printf("[MarketService] Created market %d (%s vs %s, match %d)",
		market.ID, market.HomeTeam, market.AwayTeam, market.MatchID)

	return market, nil
}

// JoinMarket places a prediction with an entry stake. The participant
// insert, pool update and ledger entry commit atomically.
func (s *MarketService) JoinMarket(
	ctx context.Context,
	marketID uint,
	userID uint,
	prediction models.Outcome,
	entryAmount int64,
) (*models.Participant, error) {
	if !prediction.Valid() {
		return nil, stateViolation("invalid prediction: %s", prediction)
	}
	if entryAmount <= 0 {
		return nil, stateViolation("entry amount must be positive")
	}

	market, err := s.repo.GetMarketByID(ctx, marketID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMarketNotFound
		}
		return nil, fmt.Errorf("failed to get market: %w", err)
	}

	if market.Status != models.MarketStatusScheduled {
		return nil, stateViolation("market is not open for entry, current status: %s", market.Status)
	}
	if !time.Now().Before(market.EndTime) {
		return nil, stateViolation("market has ended")
	}

	exists, err := s.repo.HasPrediction(ctx, marketID, userID, prediction)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing prediction: %w", err)
	}
	if exists {
		return nil, stateViolation("user has already placed this prediction on the market")
	}

	count, err := s.repo.CountUserPredictions(ctx, marketID, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to count predictions: %w", err)
	}
	if count >= models.MaxPredictionsPerMarket {
		return nil, stateViolation("user has reached the limit of %d predictions for this market", models.MaxPredictionsPerMarket)
	}

	sameOutcome, err := s.repo.CountPredictionsForOutcome(ctx, marketID, prediction)
	if err != nil {
		return nil, fmt.Errorf("failed to count same-outcome predictions: %w", err)
	}

	participant := &models.Participant{
		MarketID:          marketID,
		UserID:            userID,
		Prediction:        prediction,
		EntryAmount:       entryAmount,
		PotentialWinnings: EstimatePotentialWinnings(market.TotalPool+entryAmount, sameOutcome),
	}

	err = s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		if err := tx.CreateParticipant(ctx, participant); err != nil {
			return fmt.Errorf("failed to create participant: %w", err)
		}
		if err := tx.IncrementMarketPool(ctx, marketID, entryAmount); err != nil {
			return fmt.Errorf("failed to update market pool: %w", err)
		}
		entry := &models.Transaction{
			ID:          uuid.New(),
			UserID:      userID,
			MarketID:    marketID,
			Type:        models.TransactionTypeMarketEntry,
			Amount:      entryAmount,
			Description: fmt.Sprintf("Entry for prediction %s on market %d", prediction, marketID),
			Status:      models.TransactionStatusCompleted,
			CreatedAt:   time.Now(),
		}
		if err := tx.CreateTransaction(ctx, entry); err != nil {
			return fmt.Errorf("failed to record entry transaction: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Printf("[MarketService] User %d joined market %d with %s for %d",
		userID, marketID, prediction, entryAmount)

	return participant, nil
}

// GetMarket retrieves a single market
func (s *MarketService) GetMarket(ctx context.Context, marketID uint) (*models.Market, error) {
	market, err := s.repo.GetMarketByID(ctx, marketID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMarketNotFound
		}
		return nil, err
	}
	return market, nil
}

// ListMarkets retrieves markets filtered by status with pagination
func (s *MarketService) ListMarkets(ctx context.Context, status models.MarketStatus, limit, offset int) ([]*models.Market, error) {
	return s.repo.ListMarkets(ctx, status, limit, offset)
}

// GetMarketStats aggregates participation data for a market
func (s *MarketService) GetMarketStats(ctx context.Context, marketID uint) (*models.MarketStats, error) {
	market, err := s.GetMarket(ctx, marketID)
	if err != nil {
		return nil, err
	}

	participants, err := s.repo.ListParticipantsByMarket(ctx, marketID)
	if err != nil {
		return nil, fmt.Errorf("failed to list participants: %w", err)
	}

	stats := &models.MarketStats{
		MarketID:         market.ID,
		Status:           market.Status,
		TotalPool:        market.TotalPool,
		ParticipantCount: int64(len(participants)),
		PredictionCounts: make(map[models.Outcome]int64, len(models.Outcomes)),
	}
	for _, outcome := range models.Outcomes {
		stats.PredictionCounts[outcome] = 0
	}
	for _, p := range participants {
		stats.PredictionCounts[p.Prediction]++
	}

	return stats, nil
}

// PortfolioEntry pairs one of the user's predictions with its market
type PortfolioEntry struct {
	Participant *models.Participant `json:"participant"`
	Market      *models.Market      `json:"market"`
}

// Portfolio aggregates a user's positions across all markets
type Portfolio struct {
	Entries     []PortfolioEntry `json:"entries"`
	TotalStaked decimal.Decimal  `json:"total_staked"`
	TotalWon    decimal.Decimal  `json:"total_won"`
}

// GetUserPortfolio returns all of a user's predictions with totals in
// currency units
func (s *MarketService) GetUserPortfolio(ctx context.Context, userID uint) (*Portfolio, error) {
	if _, err := s.repo.GetUserByID(ctx, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	participants, err := s.repo.ListParticipantsByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list participants: %w", err)
	}

	portfolio := &Portfolio{
		Entries:     make([]PortfolioEntry, 0, len(participants)),
		TotalStaked: decimal.Zero,
		TotalWon:    decimal.Zero,
	}
	for _, p := range participants {
		portfolio.Entries = append(portfolio.Entries, PortfolioEntry{
			Participant: p,
			Market:      p.Market,
		})
		portfolio.TotalStaked = portfolio.TotalStaked.Add(models.FormatAmount(p.EntryAmount))
		if p.ActualWinnings != nil {
			portfolio.TotalWon = portfolio.TotalWon.Add(models.FormatAmount(*p.ActualWinnings))
		}
	}

	return portfolio, nil
}

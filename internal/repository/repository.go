package repository

import (
	"context"
	"strconv"

	"matchmarket/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Transaction runs fn inside a single database transaction. The repository
// passed to fn is bound to that transaction.
func (r *Repository) Transaction(ctx context.Context, fn func(*Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&Repository{db: tx})
	})
}

// --- users ---

// CreateUser creates a new user
func (r *Repository) CreateUser(ctx context.Context, user *models.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

// GetUserByID retrieves a user by ID
func (r *Repository) GetUserByID(ctx context.Context, userID uint) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).First(&user, userID).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetUserByWallet retrieves a user by wallet address
func (r *Repository) GetUserByWallet(ctx context.Context, walletAddress string) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).Where("wallet_address = ?", walletAddress).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// --- markets ---

// CreateMarket creates a new market
func (r *Repository) CreateMarket(ctx context.Context, market *models.Market) error {
	return r.db.WithContext(ctx).Create(market).Error
}

// GetMarketByID retrieves a market by ID
func (r *Repository) GetMarketByID(ctx context.Context, marketID uint) (*models.Market, error) {
	var market models.Market
	err := r.db.WithContext(ctx).First(&market, marketID).Error
	if err != nil {
		return nil, err
	}
	return &market, nil
}

// GetMarketByIDForUpdate retrieves a market with a row-level lock so two
// concurrent resolution attempts serialize on the same row.
func (r *Repository) GetMarketByIDForUpdate(ctx context.Context, marketID uint) (*models.Market, error) {
	q := r.db.WithContext(ctx)
	// sqlite has no FOR UPDATE; its writes are serialized by the engine
	if r.db.Dialector.Name() == "postgres" {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var market models.Market
	if err := q.First(&market, marketID).Error; err != nil {
		return nil, err
	}
	return &market, nil
}

// ListMarketsByStatus retrieves markets in any of the given statuses
func (r *Repository) ListMarketsByStatus(ctx context.Context, statuses ...models.MarketStatus) ([]*models.Market, error) {
	var markets []*models.Market
	err := r.db.WithContext(ctx).
		Where("status IN ?", statuses).
		Order("created_at ASC").
		Find(&markets).Error
	if err != nil {
		return nil, err
	}
	return markets, nil
}

// ListMarkets retrieves markets filtered by status with pagination
func (r *Repository) ListMarkets(ctx context.Context, status models.MarketStatus, limit, offset int) ([]*models.Market, error) {
	query := r.db.WithContext(ctx)
	if status != "" {
		query = query.Where("status = ?", status)
	}
	var markets []*models.Market
	err := query.Order("created_at DESC").Limit(limit).Offset(offset).Find(&markets).Error
	if err != nil {
		return nil, err
	}
	return markets, nil
}

// ListMarketsByCreator retrieves all markets created by a user
func (r *Repository) ListMarketsByCreator(ctx context.Context, creatorID uint) ([]*models.Market, error) {
	var markets []*models.Market
	err := r.db.WithContext(ctx).
		Where("creator_id = ?", creatorID).
		Order("created_at DESC").
		Find(&markets).Error
	if err != nil {
		return nil, err
	}
	return markets, nil
}

// ListUnresolvedFinishedMarkets retrieves markets whose match has concluded
// but whose outcome has not been assigned yet
func (r *Repository) ListUnresolvedFinishedMarkets(ctx context.Context) ([]*models.Market, error) {
	var markets []*models.Market
	err := r.db.WithContext(ctx).
		Where("status = ? AND resolution_outcome IS NULL", models.MarketStatusFinished).
		Order("created_at ASC").
		Find(&markets).Error
	if err != nil {
		return nil, err
	}
	return markets, nil
}

// UpdateMarket applies a partial update to a market
func (r *Repository) UpdateMarket(ctx context.Context, marketID uint, updates map[string]interface{}) error {
	return r.db.WithContext(ctx).
		Model(&models.Market{}).
		Where("id = ?", marketID).
		Updates(updates).Error
}

// IncrementMarketPool adds amount to the market's total pool
func (r *Repository) IncrementMarketPool(ctx context.Context, marketID uint, amount int64) error {
	return r.db.WithContext(ctx).
		Model(&models.Market{}).
		Where("id = ?", marketID).
		Update("total_pool", gorm.Expr("total_pool + ?", amount)).Error
}

// --- participants ---

// CreateParticipant creates a new participant
func (r *Repository) CreateParticipant(ctx context.Context, participant *models.Participant) error {
	return r.db.WithContext(ctx).Create(participant).Error
}

// ListParticipantsByMarket retrieves all participants for a market in join order
func (r *Repository) ListParticipantsByMarket(ctx context.Context, marketID uint) ([]*models.Participant, error) {
	var participants []*models.Participant
	err := r.db.WithContext(ctx).
		Where("market_id = ?", marketID).
		Order("created_at ASC").
		Find(&participants).Error
	if err != nil {
		return nil, err
	}
	return participants, nil
}

// ListParticipantsByUser retrieves all participants for a user with their markets
func (r *Repository) ListParticipantsByUser(ctx context.Context, userID uint) ([]*models.Participant, error) {
	var participants []*models.Participant
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Preload("Market").
		Order("created_at DESC").
		Find(&participants).Error
	if err != nil {
		return nil, err
	}
	return participants, nil
}

// CountUserPredictions counts how many predictions a user holds in a market
func (r *Repository) CountUserPredictions(ctx context.Context, marketID, userID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Participant{}).
		Where("market_id = ? AND user_id = ?", marketID, userID).
		Count(&count).Error
	return count, err
}

// CountPredictionsForOutcome counts participants in a market holding the given prediction
func (r *Repository) CountPredictionsForOutcome(ctx context.Context, marketID uint, prediction models.Outcome) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Participant{}).
		Where("market_id = ? AND prediction = ?", marketID, prediction).
		Count(&count).Error
	return count, err
}

// HasPrediction reports whether the user already holds this prediction in the market
func (r *Repository) HasPrediction(ctx context.Context, marketID, userID uint, prediction models.Outcome) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Participant{}).
		Where("market_id = ? AND user_id = ? AND prediction = ?", marketID, userID, prediction).
		Count(&count).Error
	return count > 0, err
}

// UpdateParticipant applies a partial update to a participant
func (r *Repository) UpdateParticipant(ctx context.Context, participantID uint, updates map[string]interface{}) error {
	return r.db.WithContext(ctx).
		Model(&models.Participant{}).
		Where("id = ?", participantID).
		Updates(updates).Error
}

// --- transactions ---

// CreateTransaction creates a new ledger entry
func (r *Repository) CreateTransaction(ctx context.Context, tx *models.Transaction) error {
	return r.db.WithContext(ctx).Create(tx).Error
}

// ListTransactionsByMarket retrieves a market's ledger entries in creation order
func (r *Repository) ListTransactionsByMarket(ctx context.Context, marketID uint) ([]*models.Transaction, error) {
	var transactions []*models.Transaction
	err := r.db.WithContext(ctx).
		Where("market_id = ?", marketID).
		Order("created_at ASC").
		Find(&transactions).Error
	if err != nil {
		return nil, err
	}
	return transactions, nil
}

// ListTransactionsByUser retrieves a user's ledger entries, newest first
func (r *Repository) ListTransactionsByUser(ctx context.Context, userID uint, limit, offset int) ([]*models.Transaction, error) {
	var transactions []*models.Transaction
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&transactions).Error
	if err != nil {
		return nil, err
	}
	return transactions, nil
}

// --- platform config ---

// GetPlatformConfig retrieves a config value, or "" when the key is absent
func (r *Repository) GetPlatformConfig(ctx context.Context, key string) (string, error) {
	var cfg models.PlatformConfig
	err := r.db.WithContext(ctx).Where("key = ?", key).First(&cfg).Error
	if err == gorm.ErrRecordNotFound {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return cfg.Value, nil
}

// GetPlatformConfigInt retrieves an integer config value with a fallback default
func (r *Repository) GetPlatformConfigInt(ctx context.Context, key string, fallback int) int {
	value, err := r.GetPlatformConfig(ctx, key)
	if err != nil || value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

// SetPlatformConfig upserts a config value
func (r *Repository) SetPlatformConfig(ctx context.Context, key, value string) error {
	cfg := models.PlatformConfig{Key: key, Value: value}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
		}).
		Create(&cfg).Error
}

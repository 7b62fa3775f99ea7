package services

import (
	"context"
	"fmt"
	"testing"
	"time"

	"matchmarket/internal/models"
	"matchmarket/internal/repository"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	// unique shared-cache name per test so parallel connections see one DB
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Discard,
	})
	if err != nil {
		t.Fatalf("failed to connect database: %v", err)
	}

	err = db.AutoMigrate(
		&models.User{},
		&models.Market{},
		&models.Participant{},
		&models.Transaction{},
		&models.PlatformConfig{},
	)
	if err != nil {
		t.Fatalf("failed to migrate database: %v", err)
	}

	return db
}

func createTestUser(t *testing.T, db *gorm.DB, wallet string) *models.User {
	user := &models.User{WalletAddress: wallet, DisplayName: wallet}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create user: %v", err)
	}
	return user
}

func createTestMarket(t *testing.T, service *MarketService, creatorID uint) *models.Market {
	market, err := service.CreateMarket(context.Background(), creatorID, &models.CreateMarketRequest{
		Title:    "Arsenal vs Chelsea",
		EntryFee: "10.00",
		EndTime:  time.Now().Add(24 * time.Hour),
		MatchID:  4001,
		HomeTeam: "Arsenal",
		AwayTeam: "Chelsea",
	})
	if err != nil {
		t.Fatalf("failed to create market: %v", err)
	}
	return market
}

func TestCreateMarketDefaults(t *testing.T) {
	db := setupTestDB(t)
	service := NewMarketService(repository.NewRepository(db))
	creator := createTestUser(t, db, "wallet-creator")

	market := createTestMarket(t, service, creator.ID)

	if market.Status != models.MarketStatusScheduled {
		t.Errorf("expected status SCHEDULED, got %s", market.Status)
	}
	if market.TotalPool != 0 {
		t.Errorf("expected empty pool, got %d", market.TotalPool)
	}
	if market.EntryFee != 1000 {
		t.Errorf("expected entry fee 1000 minor units, got %d", market.EntryFee)
	}
	if market.PlatformFeeBps != models.DefaultPlatformFeeBps {
		t.Errorf("expected default platform fee bps, got %d", market.PlatformFeeBps)
	}
	if market.CreatorRewardBps != models.DefaultCreatorRewardBps {
		t.Errorf("expected default creator reward bps, got %d", market.CreatorRewardBps)
	}

	// creation opens the audit trail with a zero-amount entry
	var transactions []models.Transaction
	db.Where("market_id = ?", market.ID).Find(&transactions)
	if len(transactions) != 1 {
		t.Fatalf("expected 1 audit transaction, got %d", len(transactions))
	}
	if transactions[0].Type != models.TransactionTypeMarketEntry || transactions[0].Amount != 0 {
		t.Errorf("expected zero-amount market_entry, got %s/%d", transactions[0].Type, transactions[0].Amount)
	}
}

func TestCreateMarketReadsPlatformConfig(t *testing.T) {
	db := setupTestDB(t)
	repo := repository.NewRepository(db)
	service := NewMarketService(repo)
	creator := createTestUser(t, db, "wallet-creator")

	ctx := context.Background()
	if err := repo.SetPlatformConfig(ctx, models.ConfigKeyPlatformFeeBps, "400"); err != nil {
		t.Fatalf("failed to seed config: %v", err)
	}
	if err := repo.SetPlatformConfig(ctx, models.ConfigKeyCreatorRewardBps, "100"); err != nil {
		t.Fatalf("failed to seed config: %v", err)
	}

	market := createTestMarket(t, service, creator.ID)

	if market.PlatformFeeBps != 400 {
		t.Errorf("expected platform fee bps 400 from config, got %d", market.PlatformFeeBps)
	}
	if market.CreatorRewardBps != 100 {
		t.Errorf("expected creator reward bps 100 from config, got %d", market.CreatorRewardBps)
	}
}

func TestCreateMarketValidation(t *testing.T) {
	db := setupTestDB(t)
	service := NewMarketService(repository.NewRepository(db))
	creator := createTestUser(t, db, "wallet-creator")
	ctx := context.Background()

	_, err := service.CreateMarket(ctx, creator.ID, &models.CreateMarketRequest{
		Title:    "Bad fee",
		EntryFee: "0",
		EndTime:  time.Now().Add(time.Hour),
		MatchID:  1,
		HomeTeam: "A",
		AwayTeam: "B",
	})
	if !IsStateViolation(err) {
		t.Errorf("expected state violation for zero entry fee, got %v", err)
	}

	_, err = service.CreateMarket(ctx, creator.ID, &models.CreateMarketRequest{
		Title:    "Past end",
		EntryFee: "1.00",
		EndTime:  time.Now().Add(-time.Hour),
		MatchID:  1,
		HomeTeam: "A",
		AwayTeam: "B",
	})
	if !IsStateViolation(err) {
		t.Errorf("expected state violation for past end time, got %v", err)
	}

	_, err = service.CreateMarket(ctx, 9999, &models.CreateMarketRequest{
		Title:    "No creator",
		EntryFee: "1.00",
		EndTime:  time.Now().Add(time.Hour),
		MatchID:  1,
		HomeTeam: "A",
		AwayTeam: "B",
	})
	if !IsNotFound(err) {
		t.Errorf("expected not-found for missing creator, got %v", err)
	}
}

func TestJoinMarketPoolInvariant(t *testing.T) {
	db := setupTestDB(t)
	service := NewMarketService(repository.NewRepository(db))
	creator := createTestUser(t, db, "wallet-creator")
	market := createTestMarket(t, service, creator.ID)
	ctx := context.Background()

	u1 := createTestUser(t, db, "wallet-1")
	u2 := createTestUser(t, db, "wallet-2")
	u3 := createTestUser(t, db, "wallet-3")

	joins := []struct {
		userID     uint
		prediction models.Outcome
		amount     int64
	}{
		{u1.ID, models.OutcomeHome, 1000},
		{u2.ID, models.OutcomeHome, 1000},
		{u3.ID, models.OutcomeAway, 1000},
	}

	for _, j := range joins {
		if _, err := service.JoinMarket(ctx, market.ID, j.userID, j.prediction, j.amount); err != nil {
			t.Fatalf("join failed for user %d: %v", j.userID, err)
		}
	}

	var updated models.Market
	db.First(&updated, market.ID)
	if updated.TotalPool != 3000 {
		t.Errorf("expected pool 3000 after three joins, got %d", updated.TotalPool)
	}

	var sum int64
	db.Model(&models.Participant{}).
		Where("market_id = ?", market.ID).
		Select("COALESCE(SUM(entry_amount), 0)").
		Scan(&sum)
	if sum != updated.TotalPool {
		t.Errorf("pool %d does not match participant sum %d", updated.TotalPool, sum)
	}

	// one entry transaction per join plus the creation audit row
	var count int64
	db.Model(&models.Transaction{}).
		Where("market_id = ? AND type = ?", market.ID, models.TransactionTypeMarketEntry).
		Count(&count)
	if count != 4 {
		t.Errorf("expected 4 market_entry transactions, got %d", count)
	}
}

func TestJoinMarketPotentialWinnings(t *testing.T) {
	db := setupTestDB(t)
	service := NewMarketService(repository.NewRepository(db))
	creator := createTestUser(t, db, "wallet-creator")
	market := createTestMarket(t, service, creator.ID)
	ctx := context.Background()

	u1 := createTestUser(t, db, "wallet-1")
	u2 := createTestUser(t, db, "wallet-2")
	u3 := createTestUser(t, db, "wallet-3")

	// first Home joiner sees 95% of the pool after their entry
	p1, err := service.JoinMarket(ctx, market.ID, u1.ID, models.OutcomeHome, 1000)
	if err != nil {
		t.Fatalf("join failed: %v", err)
	}
	if p1.PotentialWinnings != 950 {
		t.Errorf("expected potential winnings 950, got %d", p1.PotentialWinnings)
	}

	// second Home joiner splits the estimate two ways
	p2, err := service.JoinMarket(ctx, market.ID, u2.ID, models.OutcomeHome, 1000)
	if err != nil {
		t.Fatalf("join failed: %v", err)
	}
	if p2.PotentialWinnings != 950 {
		t.Errorf("expected potential winnings 950, got %d", p2.PotentialWinnings)
	}

	// first Away joiner keeps the whole estimate over the bigger pool
	p3, err := service.JoinMarket(ctx, market.ID, u3.ID, models.OutcomeAway, 1000)
	if err != nil {
		t.Fatalf("join failed: %v", err)
	}
	if p3.PotentialWinnings != 2850 {
		t.Errorf("expected potential winnings 2850, got %d", p3.PotentialWinnings)
	}
}

func TestJoinMarketPreconditions(t *testing.T) {
	db := setupTestDB(t)
	service := NewMarketService(repository.NewRepository(db))
	creator := createTestUser(t, db, "wallet-creator")
	user := createTestUser(t, db, "wallet-1")
	ctx := context.Background()

	// missing market
	_, err := service.JoinMarket(ctx, 9999, user.ID, models.OutcomeHome, 1000)
	if !IsNotFound(err) {
		t.Errorf("expected not-found, got %v", err)
	}

	// market no longer open for entry
	live := createTestMarket(t, service, creator.ID)
	db.Model(&models.Market{}).Where("id = ?", live.ID).Update("status", models.MarketStatusLive)
	_, err = service.JoinMarket(ctx, live.ID, user.ID, models.OutcomeHome, 1000)
	if !IsStateViolation(err) {
		t.Errorf("expected state violation for non-open market, got %v", err)
	}

	// market past its end time
	ended := createTestMarket(t, service, creator.ID)
	db.Model(&models.Market{}).Where("id = ?", ended.ID).Update("end_time", time.Now().Add(-time.Minute))
	_, err = service.JoinMarket(ctx, ended.ID, user.ID, models.OutcomeHome, 1000)
	if !IsStateViolation(err) {
		t.Errorf("expected state violation for ended market, got %v", err)
	}

	// invalid prediction value
	open := createTestMarket(t, service, creator.ID)
	_, err = service.JoinMarket(ctx, open.ID, user.ID, models.Outcome("Maybe"), 1000)
	if !IsStateViolation(err) {
		t.Errorf("expected state violation for invalid prediction, got %v", err)
	}
}

func TestJoinMarketPredictionCap(t *testing.T) {
	db := setupTestDB(t)
	service := NewMarketService(repository.NewRepository(db))
	creator := createTestUser(t, db, "wallet-creator")
	market := createTestMarket(t, service, creator.ID)
	user := createTestUser(t, db, "wallet-1")
	ctx := context.Background()

	// one prediction per outcome is allowed
	for _, outcome := range models.Outcomes {
		if _, err := service.JoinMarket(ctx, market.ID, user.ID, outcome, 500); err != nil {
			t.Fatalf("join with %s failed: %v", outcome, err)
		}
	}

	// a duplicate outcome is always rejected
	_, err := service.JoinMarket(ctx, market.ID, user.ID, models.OutcomeHome, 500)
	if !IsStateViolation(err) {
		t.Errorf("expected state violation for duplicate prediction, got %v", err)
	}

	var count int64
	db.Model(&models.Participant{}).
		Where("market_id = ? AND user_id = ?", market.ID, user.ID).
		Count(&count)
	if count != models.MaxPredictionsPerMarket {
		t.Errorf("expected %d participant rows, got %d", models.MaxPredictionsPerMarket, count)
	}
}

func TestGetMarketStats(t *testing.T) {
	db := setupTestDB(t)
	service := NewMarketService(repository.NewRepository(db))
	creator := createTestUser(t, db, "wallet-creator")
	market := createTestMarket(t, service, creator.ID)
	ctx := context.Background()

	u1 := createTestUser(t, db, "wallet-1")
	u2 := createTestUser(t, db, "wallet-2")

	service.JoinMarket(ctx, market.ID, u1.ID, models.OutcomeHome, 1000)
	service.JoinMarket(ctx, market.ID, u2.ID, models.OutcomeDraw, 2000)

	stats, err := service.GetMarketStats(ctx, market.ID)
	if err != nil {
		t.Fatalf("stats failed: %v", err)
	}

	if stats.ParticipantCount != 2 {
		t.Errorf("expected 2 participants, got %d", stats.ParticipantCount)
	}
	if stats.TotalPool != 3000 {
		t.Errorf("expected pool 3000, got %d", stats.TotalPool)
	}
	if stats.PredictionCounts[models.OutcomeHome] != 1 ||
		stats.PredictionCounts[models.OutcomeDraw] != 1 ||
		stats.PredictionCounts[models.OutcomeAway] != 0 {
		t.Errorf("unexpected prediction counts: %v", stats.PredictionCounts)
	}
}

func TestGetUserPortfolio(t *testing.T) {
	db := setupTestDB(t)
	service := NewMarketService(repository.NewRepository(db))
	creator := createTestUser(t, db, "wallet-creator")
	market := createTestMarket(t, service, creator.ID)
	user := createTestUser(t, db, "wallet-1")
	ctx := context.Background()

	if _, err := service.JoinMarket(ctx, market.ID, user.ID, models.OutcomeHome, 1500); err != nil {
		t.Fatalf("join failed: %v", err)
	}

	portfolio, err := service.GetUserPortfolio(ctx, user.ID)
	if err != nil {
		t.Fatalf("portfolio failed: %v", err)
	}

	if len(portfolio.Entries) != 1 {
		t.Fatalf("expected 1 portfolio entry, got %d", len(portfolio.Entries))
	}
	if portfolio.Entries[0].Market == nil || portfolio.Entries[0].Market.ID != market.ID {
		t.Error("portfolio entry should carry its market")
	}
	if !portfolio.TotalStaked.Equal(models.FormatAmount(1500)) {
		t.Errorf("expected total staked 15.00, got %s", portfolio.TotalStaked)
	}
	if !portfolio.TotalWon.IsZero() {
		t.Errorf("expected zero winnings before resolution, got %s", portfolio.TotalWon)
	}

	_, err = service.GetUserPortfolio(ctx, 9999)
	if !IsNotFound(err) {
		t.Errorf("expected not-found for missing user, got %v", err)
	}
}

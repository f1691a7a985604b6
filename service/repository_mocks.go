package service

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"rosethorn/events"
	"rosethorn/models"
)

// MockMemberRepository is a mock implementation of MemberRepository
type MockMemberRepository struct {
	mock.Mock
}

func (m *MockMemberRepository) GetByUser(ctx context.Context, guildID, userID int64) (*models.Member, error) {
	args := m.Called(ctx, guildID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Member), args.Error(1)
}

func (m *MockMemberRepository) Create(ctx context.Context, guildID, userID int64, username string, startingBalance int64) (*models.Member, error) {
	args := m.Called(ctx, guildID, userID, username, startingBalance)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Member), args.Error(1)
}

func (m *MockMemberRepository) AddBalance(ctx context.Context, guildID, userID int64, amount int64) error {
	args := m.Called(ctx, guildID, userID, amount)
	return args.Error(0)
}

func (m *MockMemberRepository) DeductBalance(ctx context.Context, guildID, userID int64, amount int64) error {
	args := m.Called(ctx, guildID, userID, amount)
	return args.Error(0)
}

func (m *MockMemberRepository) SetCheckInState(ctx context.Context, guildID, userID int64, streak int, day time.Time) error {
	args := m.Called(ctx, guildID, userID, streak, day)
	return args.Error(0)
}

func (m *MockMemberRepository) SetProgress(ctx context.Context, guildID, userID int64, xp int64, level int) error {
	args := m.Called(ctx, guildID, userID, xp, level)
	return args.Error(0)
}

func (m *MockMemberRepository) IncrementWarningCount(ctx context.Context, guildID, userID int64) (int, error) {
	args := m.Called(ctx, guildID, userID)
	return args.Int(0), args.Error(1)
}

func (m *MockMemberRepository) GetTopByBalance(ctx context.Context, guildID int64, limit int) ([]*models.Member, error) {
	args := m.Called(ctx, guildID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Member), args.Error(1)
}

func (m *MockMemberRepository) GetTopByStreak(ctx context.Context, guildID int64, limit int) ([]*models.Member, error) {
	args := m.Called(ctx, guildID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Member), args.Error(1)
}

func (m *MockMemberRepository) CountByGuild(ctx context.Context, guildID int64) (int64, error) {
	args := m.Called(ctx, guildID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockMemberRepository) SumBalances(ctx context.Context, guildID int64) (int64, error) {
	args := m.Called(ctx, guildID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockMemberRepository) CountActiveStreaks(ctx context.Context, guildID int64, day time.Time) (int64, error) {
	args := m.Called(ctx, guildID, day)
	return args.Get(0).(int64), args.Error(1)
}

// MockCheckInRepository is a mock implementation of CheckInRepository
type MockCheckInRepository struct {
	mock.Mock
}

func (m *MockCheckInRepository) Create(ctx context.Context, checkIn *models.CheckIn) error {
	args := m.Called(ctx, checkIn)
	return args.Error(0)
}

func (m *MockCheckInRepository) GetByDay(ctx context.Context, guildID, userID int64, day time.Time) (*models.CheckIn, error) {
	args := m.Called(ctx, guildID, userID, day)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.CheckIn), args.Error(1)
}

func (m *MockCheckInRepository) GetLatest(ctx context.Context, guildID, userID int64) (*models.CheckIn, error) {
	args := m.Called(ctx, guildID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.CheckIn), args.Error(1)
}

func (m *MockCheckInRepository) CountByUser(ctx context.Context, guildID, userID int64) (int64, error) {
	args := m.Called(ctx, guildID, userID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockCheckInRepository) CountByDay(ctx context.Context, guildID int64, day time.Time) (int64, error) {
	args := m.Called(ctx, guildID, day)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockCheckInRepository) TopTotals(ctx context.Context, guildID int64, limit int) ([]*models.LeaderboardEntry, error) {
	args := m.Called(ctx, guildID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.LeaderboardEntry), args.Error(1)
}

func (m *MockCheckInRepository) SumRewardsByDay(ctx context.Context, guildID int64, day time.Time) (int64, error) {
	args := m.Called(ctx, guildID, day)
	return args.Get(0).(int64), args.Error(1)
}

// MockWarningRepository is a mock implementation of WarningRepository
type MockWarningRepository struct {
	mock.Mock
}

func (m *MockWarningRepository) Create(ctx context.Context, warning *models.Warning) error {
	args := m.Called(ctx, warning)
	return args.Error(0)
}

func (m *MockWarningRepository) CountActive(ctx context.Context, guildID, userID int64) (int, error) {
	args := m.Called(ctx, guildID, userID)
	return args.Int(0), args.Error(1)
}

func (m *MockWarningRepository) GetActiveByUser(ctx context.Context, guildID, userID int64) ([]*models.Warning, error) {
	args := m.Called(ctx, guildID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Warning), args.Error(1)
}

// MockMuteRepository is a mock implementation of MuteRepository
type MockMuteRepository struct {
	mock.Mock
}

func (m *MockMuteRepository) Create(ctx context.Context, mute *models.Mute) error {
	args := m.Called(ctx, mute)
	return args.Error(0)
}

func (m *MockMuteRepository) GetActiveByUser(ctx context.Context, guildID, userID int64) (*models.Mute, error) {
	args := m.Called(ctx, guildID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Mute), args.Error(1)
}

func (m *MockMuteRepository) GetExpired(ctx context.Context, now time.Time) ([]*models.Mute, error) {
	args := m.Called(ctx, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Mute), args.Error(1)
}

func (m *MockMuteRepository) MarkLifted(ctx context.Context, muteID int64, at time.Time) error {
	args := m.Called(ctx, muteID, at)
	return args.Error(0)
}

// MockShopItemRepository is a mock implementation of ShopItemRepository
type MockShopItemRepository struct {
	mock.Mock
}

func (m *MockShopItemRepository) Create(ctx context.Context, item *models.ShopItem) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

func (m *MockShopItemRepository) GetByID(ctx context.Context, guildID, itemID int64) (*models.ShopItem, error) {
	args := m.Called(ctx, guildID, itemID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ShopItem), args.Error(1)
}

func (m *MockShopItemRepository) GetByName(ctx context.Context, guildID int64, name string) (*models.ShopItem, error) {
	args := m.Called(ctx, guildID, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ShopItem), args.Error(1)
}

func (m *MockShopItemRepository) ListPurchasable(ctx context.Context, guildID int64) ([]*models.ShopItem, error) {
	args := m.Called(ctx, guildID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.ShopItem), args.Error(1)
}

func (m *MockShopItemRepository) DecrementStock(ctx context.Context, itemID int64, quantity int) error {
	args := m.Called(ctx, itemID, quantity)
	return args.Error(0)
}

func (m *MockShopItemRepository) SetPurchasable(ctx context.Context, guildID, itemID int64, purchasable bool) error {
	args := m.Called(ctx, guildID, itemID, purchasable)
	return args.Error(0)
}

// MockPurchaseRepository is a mock implementation of PurchaseRepository
type MockPurchaseRepository struct {
	mock.Mock
}

func (m *MockPurchaseRepository) Create(ctx context.Context, purchase *models.Purchase) error {
	args := m.Called(ctx, purchase)
	return args.Error(0)
}

func (m *MockPurchaseRepository) GetInventory(ctx context.Context, guildID, userID int64) ([]*models.InventoryEntry, error) {
	args := m.Called(ctx, guildID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.InventoryEntry), args.Error(1)
}

// MockBalanceHistoryRepository is a mock implementation of BalanceHistoryRepository
type MockBalanceHistoryRepository struct {
	mock.Mock
}

func (m *MockBalanceHistoryRepository) Record(ctx context.Context, history *models.BalanceHistory) error {
	args := m.Called(ctx, history)
	return args.Error(0)
}

func (m *MockBalanceHistoryRepository) GetByUser(ctx context.Context, guildID, userID int64, limit int) ([]*models.BalanceHistory, error) {
	args := m.Called(ctx, guildID, userID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.BalanceHistory), args.Error(1)
}

// MockModLogRepository is a mock implementation of ModLogRepository
type MockModLogRepository struct {
	mock.Mock
}

func (m *MockModLogRepository) Create(ctx context.Context, entry *models.ModLog) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockModLogRepository) GetByUser(ctx context.Context, guildID, userID int64, limit int) ([]*models.ModLog, error) {
	args := m.Called(ctx, guildID, userID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.ModLog), args.Error(1)
}

// MockGuildSettingsRepository is a mock implementation of GuildSettingsRepository
type MockGuildSettingsRepository struct {
	mock.Mock
}

func (m *MockGuildSettingsRepository) GetOrCreate(ctx context.Context, guildID int64) (*models.GuildSettings, error) {
	args := m.Called(ctx, guildID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.GuildSettings), args.Error(1)
}

func (m *MockGuildSettingsRepository) Update(ctx context.Context, settings *models.GuildSettings) error {
	args := m.Called(ctx, settings)
	return args.Error(0)
}

// MockEventPublisher is a mock implementation of EventPublisher
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(event events.Event) {
	m.Called(event)
}

// noopPublisher swallows events for tests that don't assert on them
type noopPublisher struct{}

func (noopPublisher) Publish(event events.Event) {}

// MockUnitOfWork is a mock implementation of UnitOfWork that hands out
// the repositories configured via SetRepositories
type MockUnitOfWork struct {
	mock.Mock

	memberRepo         MemberRepository
	checkInRepo        CheckInRepository
	warningRepo        WarningRepository
	muteRepo           MuteRepository
	shopItemRepo       ShopItemRepository
	purchaseRepo       PurchaseRepository
	balanceHistoryRepo BalanceHistoryRepository
	modLogRepo         ModLogRepository
	guildSettingsRepo  GuildSettingsRepository
	eventBus           EventPublisher
}

// SetRepositories wires mock repositories into the unit of work. Nil
// entries are fine for repositories a test never touches.
func (m *MockUnitOfWork) SetRepositories(
	memberRepo MemberRepository,
	checkInRepo CheckInRepository,
	warningRepo WarningRepository,
	muteRepo MuteRepository,
	shopItemRepo ShopItemRepository,
	purchaseRepo PurchaseRepository,
	balanceHistoryRepo BalanceHistoryRepository,
	modLogRepo ModLogRepository,
	guildSettingsRepo GuildSettingsRepository,
) {
	m.memberRepo = memberRepo
	m.checkInRepo = checkInRepo
	m.warningRepo = warningRepo
	m.muteRepo = muteRepo
	m.shopItemRepo = shopItemRepo
	m.purchaseRepo = purchaseRepo
	m.balanceHistoryRepo = balanceHistoryRepo
	m.modLogRepo = modLogRepo
	m.guildSettingsRepo = guildSettingsRepo
	m.eventBus = noopPublisher{}
}

// SetEventBus overrides the default no-op publisher
func (m *MockUnitOfWork) SetEventBus(bus EventPublisher) {
	m.eventBus = bus
}

func (m *MockUnitOfWork) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUnitOfWork) Commit() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockUnitOfWork) Rollback() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockUnitOfWork) MemberRepository() MemberRepository { return m.memberRepo }

func (m *MockUnitOfWork) CheckInRepository() CheckInRepository { return m.checkInRepo }

func (m *MockUnitOfWork) WarningRepository() WarningRepository { return m.warningRepo }

func (m *MockUnitOfWork) MuteRepository() MuteRepository { return m.muteRepo }

func (m *MockUnitOfWork) ShopItemRepository() ShopItemRepository { return m.shopItemRepo }

func (m *MockUnitOfWork) PurchaseRepository() PurchaseRepository { return m.purchaseRepo }

func (m *MockUnitOfWork) BalanceHistoryRepository() BalanceHistoryRepository {
	return m.balanceHistoryRepo
}

func (m *MockUnitOfWork) ModLogRepository() ModLogRepository { return m.modLogRepo }

func (m *MockUnitOfWork) GuildSettingsRepository() GuildSettingsRepository {
	return m.guildSettingsRepo
}

func (m *MockUnitOfWork) EventBus() EventPublisher { return m.eventBus }

// MockUnitOfWorkFactory is a mock implementation of UnitOfWorkFactory
type MockUnitOfWorkFactory struct {
	mock.Mock
}

func (m *MockUnitOfWorkFactory) Create() UnitOfWork {
	args := m.Called()
	return args.Get(0).(UnitOfWork)
}

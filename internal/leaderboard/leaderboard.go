package leaderboard

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// MaxPageSize bounds one ranked-read request.
const MaxPageSize = 100

// ErrInvalidPage reports an out-of-range records request.
var ErrInvalidPage = errors.New("invalid records page")

// record is the stored row for one retired player. Play time is kept
// in milliseconds so the ranking order is exact.
type record struct {
	ID         string `gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	Name       string `gorm:"type:varchar(255);not null"`
	Score      int    `gorm:"not null"`
	PlayTimeMS int64  `gorm:"column:play_time_ms;not null"`
}

func (record) TableName() string { return "retired_players" }

// RetiredPlayer is one leaderboard entry as served to clients.
type RetiredPlayer struct {
	Name       string `json:"name"`
	Score      int    `json:"score"`
	PlayTimeMS int64  `json:"playTimeMs"`
}

// Store persists retired players in Postgres. The connection pool
// underneath is bounded: acquisition blocks until a connection frees
// up, and connections go back to the pool on every path.
type Store struct {
	db *gorm.DB
}

// Open connects to Postgres and fixes the pool at the given capacity.
func Open(dsn string, poolSize int) (*Store, error) {
	if poolSize <= 0 {
		poolSize = 1
	}
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open leaderboard database: %w", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("access leaderboard pool: %w", err)
	}
	sqlDB.SetMaxOpenConns(poolSize)
	sqlDB.SetMaxIdleConns(poolSize)
	return &Store{db: db}, nil
}

// NewStore wraps an existing database handle.
func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// Initialize bootstraps the schema and the ranking index. Safe to call
// on every startup.
func (s *Store) Initialize() error {
	if err := s.db.AutoMigrate(&record{}); err != nil {
		return fmt.Errorf("migrate retired_players: %w", err)
	}
	err := s.db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_retired_players_score_time_name
		ON retired_players (score DESC, play_time_ms, name)
	`).Error
	if err != nil {
		return fmt.Errorf("create ranking index: %w", err)
	}
	return nil
}

// AddRetiredPlayer durably appends one retirement record.
func (s *Store) AddRetiredPlayer(name string, score int, playTime time.Duration) error {
	row := record{
		Name:       name,
		Score:      score,
		PlayTimeMS: playTime.Milliseconds(),
	}
	if err := s.db.Create(&row).Error; err != nil {
		return fmt.Errorf("insert retired player: %w", err)
	}
	return nil
}

// Records returns leaderboard entries ordered by score descending,
// then play time ascending, then name ascending. The ordering is part
// of the public contract.
func (s *Store) Records(start, maxItems int) ([]RetiredPlayer, error) {
	if start < 0 || maxItems <= 0 || maxItems > MaxPageSize {
		return nil, fmt.Errorf("%w: start=%d maxItems=%d", ErrInvalidPage, start, maxItems)
	}

	var rows []record
	err := s.db.
		Order("score DESC, play_time_ms ASC, name ASC").
		Offset(start).
		Limit(maxItems).
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("read leaderboard: %w", err)
	}

	players := make([]RetiredPlayer, 0, len(rows))
	for _, row := range rows {
		players = append(players, RetiredPlayer{
			Name:       row.Name,
			Score:      row.Score,
			PlayTimeMS: row.PlayTimeMS,
		})
	}
	return players, nil
}

package session

import (
	"mago-agent/internal/models"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// identityRow is the persisted shape of one remembered account. The active
// pointer is the single row with Active set.
type identityRow struct {
	Email   string `gorm:"primaryKey;size:255"`
	Name    string
	Picture string
	Active  bool
}

func (identityRow) TableName() string { return "remembered_identities" }

// GormStore is the durable Store implementation, the non-browser stand-in
// for the original's localStorage keys.
type GormStore struct {
	db *gorm.DB
}

// OpenSQLiteStore opens (or creates) the session database at path.
func OpenSQLiteStore(path string) (*GormStore, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}
	if err := db.AutoMigrate(&identityRow{}); err != nil {
		return nil, err
	}
	return &GormStore{db: db}, nil
}

func (s *GormStore) Read() (State, error) {
	var rows []identityRow
	if err := s.db.Order("email").Find(&rows).Error; err != nil {
		return State{}, err
	}

	state := State{Users: make([]models.UserIdentity, 0, len(rows))}
	for _, row := range rows {
		state.Users = append(state.Users, models.UserIdentity{
			Email:   row.Email,
			Name:    row.Name,
			Picture: row.Picture,
		})
		if row.Active {
			state.Active = row.Email
		}
	}
	return state, nil
}

func (s *GormStore) Write(state State) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&identityRow{}).Error; err != nil {
			return err
		}
		for _, user := range state.Users {
			row := identityRow{
				Email:   user.Email,
				Name:    user.Name,
				Picture: user.Picture,
				Active:  user.Email == state.Active,
			}
			if err := tx.Create(&row).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *GormStore) Clear() error {
	return s.db.Where("1 = 1").Delete(&identityRow{}).Error
}

// MemoryStore keeps the state in memory only; used in tests and usable as
// an ephemeral fallback when no database path is configured.
type MemoryStore struct {
	state State
}

func NewMemoryStore() *MemoryStore { return &MemoryStore{} }

func (s *MemoryStore) Read() (State, error) { return s.state, nil }

func (s *MemoryStore) Write(state State) error {
	s.state = state
	return nil
}

func (s *MemoryStore) Clear() error {
	s.state = State{}
	return nil
}

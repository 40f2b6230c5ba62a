// Package store persists exported room documents in SQLite.
//
// Each save replaces the whole room set of the database in one transaction
// and records the run that produced it.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/philipparndt/roomgeo/pkg/export"
)

// ErrEmptyRun is returned when asked to replace the stored rooms with
// nothing; the previous set is kept.
var ErrEmptyRun = errors.New("refusing to replace stored rooms with an empty set")

// ErrNoRun is returned by LatestRun on a database that was never written
var ErrNoRun = errors.New("no extraction run stored")

// RoomModel is one stored room document
type RoomModel struct {
	Seq          uint   `gorm:"primaryKey"`
	RoomID       string `gorm:"index"`
	RunID        string `gorm:"index"`
	Name         string
	Storey       string
	StoreyNumber int `gorm:"index:idx_storey"`
	Area         float64
	Volume       float64
	Document     []byte // export.Room as JSON
	CreatedAt    time.Time
}

// Run describes one persisted extraction run
type Run struct {
	ID           string `gorm:"primaryKey"`
	Building     string
	Rooms        int
	Approximated int
	TotalVolume  float64
	CreatedAt    time.Time
}

// Store wraps the room database
type Store struct {
	db  *gorm.DB
	log *zap.Logger
}

// Open opens (or creates) the database at path and runs migrations
func Open(path string, log *zap.Logger) (*Store, error) {
	if log == nil {
		log = zap.NewNop()
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, err
		}
	}

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("opening room store %s: %w", path, err)
	}
	if err := db.AutoMigrate(&RoomModel{}, &Run{}); err != nil {
		return nil, fmt.Errorf("migrating room store: %w", err)
	}

	log.Debug("room store opened", zap.String("path", path))
	return &Store{db: db, log: log}, nil
}

// Close releases the underlying connection
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// ReplaceAll deletes every stored room and inserts rooms in their place,
// atomically. The run record is stored alongside.
func (s *Store) ReplaceAll(run Run, rooms []export.Room) error {
	if len(rooms) == 0 {
		return ErrEmptyRun
	}

	models := make([]RoomModel, 0, len(rooms))
	for _, r := range rooms {
		doc, err := json.Marshal(r)
		if err != nil {
			return fmt.Errorf("encoding room %s: %w", r.ID, err)
		}
		models = append(models, RoomModel{
			RoomID:       r.ID,
			RunID:        run.ID,
			Name:         r.Name,
			Storey:       r.Storey,
			StoreyNumber: r.StoreyNumber,
			Area:         r.Dimensions.Area,
			Volume:       r.Dimensions.Volume,
			Document:     doc,
		})
	}
	run.Rooms = len(rooms)

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&RoomModel{}).Error; err != nil {
			return err
		}
		if err := tx.CreateInBatches(models, 100).Error; err != nil {
			return err
		}
		return tx.Save(&run).Error
	})
	if err != nil {
		return fmt.Errorf("replacing rooms: %w", err)
	}

	s.log.Info("rooms stored", zap.String("run", run.ID), zap.Int("rooms", len(models)))
	return nil
}

// Storeys returns the distinct stored storey numbers in ascending order
func (s *Store) Storeys() ([]int, error) {
	var numbers []int
	err := s.db.Model(&RoomModel{}).
		Distinct().
		Order("storey_number").
		Pluck("storey_number", &numbers).Error
	return numbers, err
}

// Rooms returns all stored rooms in insertion order
func (s *Store) Rooms() ([]export.Room, error) {
	var models []RoomModel
	if err := s.db.Order("seq").Find(&models).Error; err != nil {
		return nil, err
	}
	return decode(models)
}

// RoomsByStorey returns the stored rooms of one storey in insertion order
func (s *Store) RoomsByStorey(number int) ([]export.Room, error) {
	var models []RoomModel
	if err := s.db.Where("storey_number = ?", number).Order("seq").Find(&models).Error; err != nil {
		return nil, err
	}
	return decode(models)
}

// LatestRun returns the most recently stored run
func (s *Store) LatestRun() (*Run, error) {
	var run Run
	err := s.db.Order("created_at desc").First(&run).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNoRun
	}
	if err != nil {
		return nil, err
	}
	return &run, nil
}

func decode(models []RoomModel) ([]export.Room, error) {
	rooms := make([]export.Room, 0, len(models))
	for _, m := range models {
		var r export.Room
		if err := json.Unmarshal(m.Document, &r); err != nil {
			return nil, fmt.Errorf("decoding stored room %s: %w", m.RoomID, err)
		}
		rooms = append(rooms, r)
	}
	return rooms, nil
}

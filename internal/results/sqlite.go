package results

import (
	"fmt"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// PlateRecord is the stored form of a Record.
type PlateRecord struct {
	ID         int64 `gorm:"primaryKey"`
	FrameIndex int   `gorm:"index"`
	PlateText  string
	Confidence float64
	CreatedAt  time.Time
}

// SQLiteSink stores records in an SQLite database.
type SQLiteSink struct {
	DB *gorm.DB
}

// OpenSQLite opens or creates the database at path and empties its plate
// table, so each run starts from nothing the way CreateCSV truncates.
func OpenSQLite(path string) (*SQLiteSink, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open results database '%v': %w", path, err)
	}
	sink := &SQLiteSink{DB: db}
	if err := db.AutoMigrate(&PlateRecord{}); err != nil {
		sink.Close()
		return nil, fmt.Errorf("failed to migrate results database: %w", err)
	}
	if err := db.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&PlateRecord{}).Error; err != nil {
		sink.Close()
		return nil, fmt.Errorf("failed to clear results database: %w", err)
	}
	return sink, nil
}

// Write inserts r.
func (s *SQLiteSink) Write(r Record) error {
	row := &PlateRecord{
		FrameIndex: r.FrameIndex,
		PlateText:  r.PlateText,
		Confidence: r.Confidence,
	}
	return s.DB.Create(row).Error
}

// Close closes the database connection.
func (s *SQLiteSink) Close() error {
	sqlDB, err := s.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

package data

import (
	"context"
	"time"

	"github.com/gofrs/uuid"
	"gorm.io/gorm"

	"github.com/gowvp/moviemaker/internal/core/recorder"
)

// SourceClip is the gorm row backing a committed recorder.SourceClip: a
// durable provenance record of a single recording pass.
type SourceClip struct {
	ID        string    `gorm:"primaryKey"`
	Origin    string    `gorm:"column:origin"`
	StartedAt time.Time `gorm:"column:started_at"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (*SourceClip) TableName() string {
	return "source_clips"
}

// sourceClipStore is the gorm-backed recorder.SourceClipStorer.
type sourceClipStore struct {
	db *gorm.DB
}

func (s *sourceClipStore) Add(ctx context.Context, sc *recorder.SourceClip) error {
	row := SourceClip{ID: normalizeClipID(sc.ID), Origin: sc.Origin, StartedAt: sc.StartedAt}
	return s.db.WithContext(ctx).Create(&row).Error
}

// normalizeClipID re-renders id through gofrs/uuid's canonical string form
// when it parses as a UUID, so IDs minted by different recorder.Core
// instances (and clock/host combinations) persist in one consistent format.
// A non-UUID id (e.g. a caller-supplied origin label) passes through as-is.
func normalizeClipID(id string) string {
	parsed, err := uuid.FromString(id)
	if err != nil {
		return id
	}
	return parsed.String()
}

// Store is the gorm-backed recorder.Storer the Session's recorder.Core
// writes provenance through, plus the read-side queries the editor shell's
// takes panel and capture-session browser use.
type Store struct {
	db        *gorm.DB
	clipStore *sourceClipStore
}

// NewSourceClipStore builds the Store used to persist committed recording
// passes and to query them back out.
func NewSourceClipStore(db *gorm.DB) *Store {
	return &Store{db: db, clipStore: &sourceClipStore{db: db}}
}

func (s *Store) SourceClip() recorder.SourceClipStorer {
	return s.clipStore
}

// FindInRange returns every SourceClip whose StartedAt falls within
// [start, end), ordered oldest first, mirroring the teacher's timeline
// queries over recordings.
func (s *Store) FindInRange(ctx context.Context, start, end time.Time) ([]SourceClip, error) {
	var rows []SourceClip
	err := s.db.WithContext(ctx).
		Where("started_at >= ? AND started_at < ?", start, end).
		Order("started_at ASC").
		Find(&rows).Error
	return rows, err
}

// MonthlyStats reports, for each day of the given year/month, whether at
// least one SourceClip was started that day, a bitmap for a capture
// browser's activity calendar, mirroring the teacher's GetMonthlyStats.
func (s *Store) MonthlyStats(ctx context.Context, year int, month time.Month) ([]bool, error) {
	loc := time.UTC
	first := time.Date(year, month, 1, 0, 0, 0, 0, loc)
	last := first.AddDate(0, 1, 0)

	rows, err := s.FindInRange(ctx, first, last)
	if err != nil {
		return nil, err
	}

	days := last.AddDate(0, 0, -1).Day()
	bitmap := make([]bool, days)
	for _, r := range rows {
		bitmap[r.StartedAt.In(loc).Day()-1] = true
	}
	return bitmap, nil
}

package data

import (
	"context"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"

	"github.com/gowvp/moviemaker/internal/core/recorder"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatal(err)
	}
	if err := db.AutoMigrate(&SourceClip{}); err != nil {
		t.Fatal(err)
	}
	return db
}

func TestSourceClipStoreAdd(t *testing.T) {
	db := newTestDB(t)
	store := NewSourceClipStore(db)

	sc := &recorder.SourceClip{ID: "clip-1", Origin: "track:arm", StartedAt: time.Now()}
	if err := store.SourceClip().Add(context.Background(), sc); err != nil {
		t.Fatal(err)
	}

	var row SourceClip
	if err := db.First(&row, "id = ?", "clip-1").Error; err != nil {
		t.Fatal(err)
	}
	if row.Origin != "track:arm" {
		t.Fatalf("got origin %q", row.Origin)
	}
}

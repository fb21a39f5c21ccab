package data

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestStoreFindInRange(t *testing.T) {
	db, mock, err := generateMockDB()
	if err != nil {
		t.Fatal(err)
	}
	store := NewSourceClipStore(db)

	start := time.Unix(1700000000, 0)
	end := time.Unix(1700100000, 0)

	rows := sqlmock.NewRows([]string{"id", "origin", "started_at", "created_at"}).
		AddRow("clip-1", "track:arm", start.Add(time.Minute), start.Add(time.Minute))

	mock.ExpectQuery(`SELECT \* FROM "source_clips" WHERE started_at >= \$1 AND started_at < \$2 ORDER BY started_at ASC`).
		WithArgs(start, end).
		WillReturnRows(rows)

	out, err := store.FindInRange(context.Background(), start, end)
	if err != nil {
		t.Fatal(err)
	}
	if len(out) != 1 || out[0].ID != "clip-1" {
		t.Fatalf("got %+v", out)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal("ExpectationsWereMet err:", err)
	}
}

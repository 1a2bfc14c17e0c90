package utils

import (
	"fmt"
	"path/filepath"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type row struct {
	ID   uint `gorm:"primaryKey"`
	Name string
}

func newPaginationDB(t *testing.T, rows int) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.AutoMigrate(&row{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	for i := 0; i < rows; i++ {
		if err := db.Create(&row{Name: fmt.Sprintf("row-%02d", i)}).Error; err != nil {
			t.Fatalf("seed: %v", err)
		}
	}
	return db
}

func TestParsePage(t *testing.T) {
	cases := map[string]int{
		"":    1,
		"abc": 1,
		"-3":  1,
		"0":   1,
		"1":   1,
		"17":  17,
	}
	for raw, want := range cases {
		if got := ParsePage(raw); got != want {
			t.Errorf("ParsePage(%q) = %d, want %d", raw, got, want)
		}
	}
}

func TestPaginatePageSizes(t *testing.T) {
	db := newPaginationDB(t, 25)

	var rows []row
	p, err := Paginate(db.Model(&row{}).Order("id ASC"), 1, 10, &rows)
	if err != nil {
		t.Fatalf("paginate: %v", err)
	}
	if len(rows) != 10 || p.Total != 25 || p.TotalPages != 3 || p.Page != 1 {
		t.Errorf("page 1: got %d rows, pagination %+v", len(rows), p)
	}

	p, err = Paginate(db.Model(&row{}).Order("id ASC"), 3, 10, &rows)
	if err != nil {
		t.Fatalf("paginate: %v", err)
	}
	if len(rows) != 5 || p.Page != 3 {
		t.Errorf("page 3: got %d rows, pagination %+v", len(rows), p)
	}
}

func TestPaginateClampsOutOfRange(t *testing.T) {
	db := newPaginationDB(t, 25)

	var rows []row
	p, err := Paginate(db.Model(&row{}).Order("id ASC"), 99, 10, &rows)
	if err != nil {
		t.Fatalf("paginate: %v", err)
	}
	if p.Page != 3 || len(rows) != 5 {
		t.Errorf("overflow page should clamp to last: got page %d with %d rows", p.Page, len(rows))
	}
	if rows[0].Name != "row-20" {
		t.Errorf("last page starts at %q, want row-20", rows[0].Name)
	}

	p, err = Paginate(db.Model(&row{}).Order("id ASC"), -5, 10, &rows)
	if err != nil {
		t.Fatalf("paginate: %v", err)
	}
	if p.Page != 1 {
		t.Errorf("negative page should clamp to 1, got %d", p.Page)
	}
}

func TestPaginateEmptySet(t *testing.T) {
	db := newPaginationDB(t, 0)

	var rows []row
	p, err := Paginate(db.Model(&row{}).Order("id ASC"), 5, 10, &rows)
	if err != nil {
		t.Fatalf("paginate: %v", err)
	}
	if p.Page != 1 || p.TotalPages != 1 || len(rows) != 0 {
		t.Errorf("empty set: pagination %+v with %d rows", p, len(rows))
	}
}

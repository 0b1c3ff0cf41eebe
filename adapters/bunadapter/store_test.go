package bunadapter

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"

	"github.com/goliatone/go-langtheme/resource"
	"github.com/goliatone/go-langtheme/store"
)

func newTestDB(t *testing.T) *bun.DB {
	t.Helper()
	sqldb, err := sql.Open(sqliteshim.ShimName, "file::memory:")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqldb.SetMaxOpenConns(1)
	db := bun.NewDB(sqldb, sqlitedialect.New())
	t.Cleanup(func() { _ = db.Close() })
	if _, err := db.NewCreateTable().Model((*ThemeRecord)(nil)).Exec(context.Background()); err != nil {
		t.Fatalf("create table: %v", err)
	}
	return db
}

func TestStoreSetAndRows(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	fixed := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	s := NewStore(db, WithNowFunc(func() time.Time { return fixed }))
	actor := resource.ActorRef{ID: "admin-1"}

	rows := []store.Row{
		{ThemeID: 1, MemberID: 0, Variable: "theme_dir", Value: "/themes/default"},
		{ThemeID: 2, MemberID: 0, Variable: "theme_dir", Value: "/themes/custom"},
		{ThemeID: 2, MemberID: 7, Variable: "show_stats", Value: "1"},
		{ThemeID: 3, MemberID: 0, Variable: "theme_dir", Value: "/themes/other"},
	}
	for _, row := range rows {
		if err := s.Set(ctx, row, actor); err != nil {
			t.Fatalf("set %+v: %v", row, err)
		}
	}
	if err := s.Set(ctx, store.Row{ThemeID: 2, MemberID: 7, Variable: "show_stats", Value: "0"}, actor); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	got, err := s.Rows(ctx, []int{2, 1}, []int{0, 7})
	if err != nil {
		t.Fatalf("rows: %v", err)
	}
	want := []store.Row{
		{ThemeID: 1, MemberID: 0, Variable: "theme_dir", Value: "/themes/default"},
		{ThemeID: 2, MemberID: 0, Variable: "theme_dir", Value: "/themes/custom"},
		{ThemeID: 2, MemberID: 7, Variable: "show_stats", Value: "0"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("unexpected rows (-want +got):\n%s", diff)
	}

	record := ThemeRecord{}
	if err := db.NewSelect().Model(&record).Where("id_theme = ? AND id_member = ?", 2, 7).Scan(ctx); err != nil {
		t.Fatalf("select record: %v", err)
	}
	if record.UpdatedBy != "admin-1" || !record.UpdatedAt.Equal(fixed) {
		t.Fatalf("unexpected audit columns %+v", record)
	}
}

func TestStoreUnsetDeletesRow(t *testing.T) {
	ctx := context.Background()
	s := NewStore(newTestDB(t))
	if err := s.Set(ctx, store.Row{ThemeID: 1, MemberID: 3, Variable: "show_avatars", Value: "1"}, resource.ActorRef{}); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := s.Unset(ctx, 1, 3, "show_avatars", resource.ActorRef{}); err != nil {
		t.Fatalf("unset: %v", err)
	}
	got, err := s.Rows(ctx, []int{1}, []int{3})
	if err != nil {
		t.Fatalf("rows: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected no rows, got %+v", got)
	}
}

func TestStoreValidation(t *testing.T) {
	var nilStore *Store
	if _, err := nilStore.Rows(context.Background(), []int{1}, []int{0}); !errors.Is(err, ErrDBRequired) {
		t.Fatalf("expected ErrDBRequired, got %v", err)
	}
	s := NewStore(newTestDB(t))
	if err := s.Set(context.Background(), store.Row{ThemeID: 1, Variable: " "}, resource.ActorRef{}); !errors.Is(err, ErrInvalidVariable) {
		t.Fatalf("expected ErrInvalidVariable, got %v", err)
	}
	rows, err := s.Rows(context.Background(), nil, []int{0})
	if err != nil || rows != nil {
		t.Fatalf("expected empty result, got %v %v", rows, err)
	}
}

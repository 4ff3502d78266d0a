package repository_test

import (
	"errors"
	"testing"
	"time"

	"github.com/libao/libao-backend/internal/apperrors"
	"github.com/libao/libao-backend/internal/model"
	"github.com/libao/libao-backend/internal/repository"
	"github.com/libao/libao-backend/internal/testutil"
)

// TestPortfolioRepository covers the snapshot persistence cycle.
//
// WHY: the whole system stores exactly one JSON document per user; if the
// round-trip loses fields or timestamps, every higher layer silently
// corrupts.
func TestPortfolioRepository(t *testing.T) {
	t.Run("save and load round-trip", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		repo := repository.NewPortfolioRepository(db)

		state := testutil.NewState().
			WithCapital(500_000).
			WithCategory("G倉", "TW", 50).
			WithMartingaleCategory("馬丁倉", "TW", 100).
			Build()

		saved, err := repo.Save("alice", state)
		if err != nil {
			t.Fatalf("Save() error = %v", err)
		}
		if saved.LastModified.IsZero() {
			t.Error("Expected Save to stamp LastModified")
		}

		loaded, err := repo.Load("alice")
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}
		if loaded.TotalCapital != 500_000 {
			t.Errorf("Expected capital 500000, got %v", loaded.TotalCapital)
		}
		if len(loaded.Categories) != 1 || loaded.Categories[0].Name != "G倉" {
			t.Errorf("Unexpected categories: %+v", loaded.Categories)
		}
		if len(loaded.Martingale) != 1 {
			t.Errorf("Expected 1 martingale category, got %d", len(loaded.Martingale))
		}
	})

	t.Run("load unknown user returns not found", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		repo := repository.NewPortfolioRepository(db)

		_, err := repo.Load("nobody")
		if !errors.Is(err, apperrors.ErrPortfolioNotFound) {
			t.Errorf("Expected ErrPortfolioNotFound, got %v", err)
		}
	})

	t.Run("save replaces the previous snapshot", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		repo := repository.NewPortfolioRepository(db)

		first := testutil.NewState().WithCapital(100).Build()
		if _, err := repo.Save("alice", first); err != nil {
			t.Fatalf("Save() error = %v", err)
		}

		second := testutil.NewState().WithCapital(200).Build()
		if _, err := repo.Save("alice", second); err != nil {
			t.Fatalf("Save() error = %v", err)
		}

		loaded, err := repo.Load("alice")
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}
		if loaded.TotalCapital != 200 {
			t.Errorf("Expected capital 200 after overwrite, got %v", loaded.TotalCapital)
		}
	})

	t.Run("list users", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		repo := repository.NewPortfolioRepository(db)

		for _, user := range []string{"alice", "bob"} {
			if _, err := repo.Save(user, testutil.NewState().Build()); err != nil {
				t.Fatalf("Save(%s) error = %v", user, err)
			}
		}

		users, err := repo.ListUsers()
		if err != nil {
			t.Fatalf("ListUsers() error = %v", err)
		}
		if len(users) != 2 {
			t.Errorf("Expected 2 users, got %d: %v", len(users), users)
		}
	})

	t.Run("last modified for unknown user is zero", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		repo := repository.NewPortfolioRepository(db)

		ts, err := repo.LastModified("nobody")
		if err != nil {
			t.Fatalf("LastModified() error = %v", err)
		}
		if !ts.IsZero() {
			t.Errorf("Expected zero time, got %v", ts)
		}
	})
}

func TestRoleRepository(t *testing.T) {
	t.Run("unassigned user defaults to viewer", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		repo := repository.NewRoleRepository(db)

		role, err := repo.GetRole("nobody")
		if err != nil {
			t.Fatalf("GetRole() error = %v", err)
		}
		if role != model.RoleViewer {
			t.Errorf("Expected viewer, got %v", role)
		}
	})

	t.Run("set and get role", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		repo := repository.NewRoleRepository(db)

		if err := repo.SetRole("alice", model.RoleAdmin); err != nil {
			t.Fatalf("SetRole() error = %v", err)
		}

		role, err := repo.GetRole("alice")
		if err != nil {
			t.Fatalf("GetRole() error = %v", err)
		}
		if role != model.RoleAdmin {
			t.Errorf("Expected admin, got %v", role)
		}
	})

	t.Run("corrupt stored role falls back to viewer", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		repo := repository.NewRoleRepository(db)

		if _, err := db.Exec(`INSERT INTO user_role (user_id, role) VALUES ('alice', 'emperor')`); err != nil {
			t.Fatalf("seed: %v", err)
		}

		role, err := repo.GetRole("alice")
		if err != nil {
			t.Fatalf("GetRole() error = %v", err)
		}
		if role != model.RoleViewer {
			t.Errorf("Expected viewer fallback, got %v", role)
		}
	})
}

func TestSymbolRepository(t *testing.T) {
	t.Run("upsert and get", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		repo := repository.NewSymbolRepository(db)

		info := model.SymbolInfo{
			Symbol:      "2330",
			Name:        "台積電",
			Market:      model.MarketTW,
			Industry:    "半導體",
			LastUpdated: time.Now().UTC(),
		}
		if err := repo.UpsertSymbol(info); err != nil {
			t.Fatalf("UpsertSymbol() error = %v", err)
		}

		got, err := repo.GetSymbol("2330")
		if err != nil {
			t.Fatalf("GetSymbol() error = %v", err)
		}
		if got.Name != "台積電" || got.Industry != "半導體" {
			t.Errorf("Unexpected symbol info: %+v", got)
		}
	})

	t.Run("get unknown symbol returns not found", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		repo := repository.NewSymbolRepository(db)

		_, err := repo.GetSymbol("0000")
		if !errors.Is(err, apperrors.ErrSymbolNotFound) {
			t.Errorf("Expected ErrSymbolNotFound, got %v", err)
		}
	})

	t.Run("industry map skips blank industries", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		repo := repository.NewSymbolRepository(db)

		testutil.SeedSymbol(t, db, "2330", "台積電", "TW", "半導體")
		testutil.SeedSymbol(t, db, "2317", "鴻海", "TW", "")

		industries, err := repo.IndustryMap()
		if err != nil {
			t.Fatalf("IndustryMap() error = %v", err)
		}
		if industries["2330"] != "半導體" {
			t.Errorf("Expected 2330 mapped, got %v", industries)
		}
		if _, ok := industries["2317"]; ok {
			t.Error("Expected blank industry to be omitted")
		}
	})
}

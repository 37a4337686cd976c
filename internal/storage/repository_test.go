package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"budget/internal/core"
)

func newTestRepo(t *testing.T) *SQLiteRepository {
	t.Helper()
	repo, err := NewSQLiteRepository(filepath.Join(t.TempDir(), "budget.db"))
	if err != nil {
		t.Fatalf("open repository: %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	return repo
}

func mustUser(t *testing.T, repo *SQLiteRepository, email, name string) core.User {
	t.Helper()
	u, err := repo.CreateUser(context.Background(), core.User{Email: email, Fullname: name, PasswordHash: "h"})
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	return u
}

func mustSave(t *testing.T, repo *SQLiteRepository, owner int64, amount string, date core.Date) core.Transaction {
	t.Helper()
	tx, err := repo.SaveTransaction(context.Background(), core.Transaction{
		OwnerID:  owner,
		Amount:   core.MustMoney(amount),
		Date:     date,
		Category: "Food",
		Type:     core.Expense,
	})
	if err != nil {
		t.Fatalf("save transaction: %v", err)
	}
	return tx
}

func TestRepositoryUsers(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	u := mustUser(t, repo, "a@x.com", "Alice")
	if u.ID == 0 || u.CreatedAt.IsZero() {
		t.Fatalf("unexpected user: %+v", u)
	}

	got, ok, err := repo.FindUserByEmail(ctx, "a@x.com")
	if err != nil || !ok || got.ID != u.ID || got.PasswordHash != "h" {
		t.Fatalf("find by email: %+v %v %v", got, ok, err)
	}
	if _, ok, err := repo.FindUserByFullname(ctx, "Alice"); err != nil || !ok {
		t.Fatalf("find by name: %v %v", ok, err)
	}
	if _, ok, err := repo.FindUserByEmail(ctx, "missing@x.com"); err != nil || ok {
		t.Fatalf("expected absent user, got ok=%v err=%v", ok, err)
	}

	if _, err := repo.CreateUser(ctx, core.User{Email: "a@x.com", Fullname: "Other", PasswordHash: "h"}); !errors.Is(err, core.ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
	if _, err := repo.CreateUser(ctx, core.User{Email: "b@x.com", Fullname: "Alice", PasswordHash: "h"}); !errors.Is(err, core.ErrFullnameTaken) {
		t.Fatalf("expected ErrFullnameTaken, got %v", err)
	}
}

func TestRepositoryTransactions(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)
	alice := mustUser(t, repo, "a@x.com", "Alice")
	bob := mustUser(t, repo, "b@x.com", "Bob")

	t1 := mustSave(t, repo, alice.ID, "10.25", core.NewDate(2024, 1, 2))
	t2 := mustSave(t, repo, alice.ID, "0.1", core.NewDate(2024, 1, 5))
	mustSave(t, repo, bob.ID, "99", core.NewDate(2024, 1, 3))
	t4 := mustSave(t, repo, alice.ID, "3", core.NewDate(2024, 1, 2))

	found, ok, err := repo.FindTransaction(ctx, t1.ID)
	if err != nil || !ok {
		t.Fatalf("find: %v %v", ok, err)
	}
	if !found.Amount.Equal(core.MustMoney("10.25")) || found.Date.String() != "2024-01-02" || found.Type != core.Expense {
		t.Fatalf("round trip mismatch: %+v", found)
	}

	all, err := repo.ListTransactionsByOwner(ctx, alice.ID)
	if err != nil || len(all) != 3 || all[0].ID != t1.ID {
		t.Fatalf("insertion order: %+v %v", all, err)
	}

	desc, err := repo.ListTransactionsByOwnerDateDesc(ctx, alice.ID)
	if err != nil {
		t.Fatalf("date desc: %v", err)
	}
	want := []int64{t2.ID, t4.ID, t1.ID}
	for i, id := range want {
		if desc[i].ID != id {
			t.Fatalf("date desc order: got %d at %d, want %d", desc[i].ID, i, id)
		}
	}

	inRange, err := repo.ListTransactionsByOwnerInRange(ctx, alice.ID, core.NewDate(2024, 1, 2), core.NewDate(2024, 1, 4))
	if err != nil || len(inRange) != 2 {
		t.Fatalf("range: %+v %v", inRange, err)
	}

	if err := repo.DeleteTransaction(ctx, t1.ID, bob.ID); !errors.Is(err, core.ErrTransactionNotFound) {
		t.Fatalf("foreign delete: expected not found, got %v", err)
	}
	if err := repo.DeleteTransaction(ctx, t1.ID, alice.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, ok, _ := repo.FindTransaction(ctx, t1.ID); ok {
		t.Fatalf("transaction still present")
	}
	if err := repo.DeleteTransaction(ctx, t1.ID, alice.ID); !errors.Is(err, core.ErrTransactionNotFound) {
		t.Fatalf("second delete: expected not found, got %v", err)
	}
}

func TestRepositoryActivity(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)
	at := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	record := func(id string, owner int64) {
		t.Helper()
		err := repo.RecordActivity(ctx, core.Activity{
			EventID:       id,
			Kind:          core.EventTransactionCreated,
			OwnerID:       owner,
			TransactionID: 7,
			Amount:        core.MustMoney("12.5"),
			Type:          core.Income,
			Category:      "Salary",
			Date:          core.NewDate(2024, 3, 1),
			OccurredAt:    at,
		})
		if err != nil {
			t.Fatalf("record %s: %v", id, err)
		}
	}
	record("e1", 1)
	record("e1", 1)
	record("e2", 1)
	record("e3", 2)

	got, err := repo.ListActivity(ctx, 1, 0)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 2 || got[0].EventID != "e2" || got[1].EventID != "e1" {
		t.Fatalf("unexpected activity: %+v", got)
	}
	if !got[0].Amount.Equal(core.MustMoney("12.5")) || !got[0].OccurredAt.Equal(at) {
		t.Fatalf("round trip mismatch: %+v", got[0])
	}

	limited, err := repo.ListActivity(ctx, 1, 1)
	if err != nil || len(limited) != 1 {
		t.Fatalf("limit: %+v %v", limited, err)
	}
}

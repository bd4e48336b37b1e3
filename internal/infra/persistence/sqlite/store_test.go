package sqlite

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"

	"petcore/pkg/domain"
)

func TestReopenRestoresState(t *testing.T) {
	path := filepath.Join(t.TempDir(), "petcore.db")
	ctx := context.Background()

	store, err := NewStore(path, nil)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	_, err = store.RunInTransaction(ctx, func(tx domain.Transaction) error {
		tx.SetContractOwner("admin")
		id := tx.AllocateTokenID()
		if _, err := tx.CreatePet(domain.Pet{
			TokenID:   id,
			Name:      "Rex",
			Stage:     domain.StageBaby,
			Happiness: 80,
			Hunger:    20,
			Health:    90,
		}); err != nil {
			return err
		}
		tx.SetTokenOwner(id, "alice")
		tx.AppendHolderToken("alice", id)
		tx.SetTokenURI(id, "ipfs://QmBabyMetadata")
		tx.SetBadge(domain.BadgeKey{Holder: "alice", Achievement: domain.AchievementFirstSteps})
		tx.AddBadgeBalance(domain.BadgeKey{Holder: "alice", Achievement: domain.AchievementFirstSteps}, 1)
		tx.AddBadgeSupply(domain.AchievementFirstSteps, 1)
		tx.IncrementFeedCount("alice")
		tx.IncrementFeedCount("alice")
		return nil
	})
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	reopened, err := NewStore(path, nil)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer func() { _ = reopened.Close() }()

	pet, ok := reopened.GetPet(1)
	if !ok {
		t.Fatal("expected pet after reopen")
	}
	if pet.Name != "Rex" || pet.Stage != domain.StageBaby || pet.Hunger != 20 {
		t.Fatalf("unexpected restored pet: %+v", pet)
	}

	err = reopened.View(ctx, func(v domain.TransactionView) error {
		if owner, ok := v.ContractOwner(); !ok || owner != "admin" {
			t.Fatalf("expected owner admin, got %q (ok=%v)", owner, ok)
		}
		if holder, ok := v.TokenOwner(1); !ok || holder != "alice" {
			t.Fatalf("expected token owner alice, got %q (ok=%v)", holder, ok)
		}
		if uri, _ := v.TokenURI(1); uri != "ipfs://QmBabyMetadata" {
			t.Fatalf("unexpected restored URI %q", uri)
		}
		if !v.HasBadge(domain.BadgeKey{Holder: "alice", Achievement: domain.AchievementFirstSteps}) {
			t.Fatal("expected restored badge")
		}
		if got := v.FeedCount("alice"); got != 2 {
			t.Fatalf("expected restored feed count 2, got %d", got)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("view: %v", err)
	}

	// The id counter survives restarts.
	_, err = reopened.RunInTransaction(ctx, func(tx domain.Transaction) error {
		if id := tx.AllocateTokenID(); id != 2 {
			t.Fatalf("expected next id 2 after reopen, got %d", id)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("allocate after reopen: %v", err)
	}
}

func TestFailedTransactionNotPersisted(t *testing.T) {
	path := filepath.Join(t.TempDir(), "petcore.db")
	ctx := context.Background()

	store, err := NewStore(path, nil)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	_, err = store.RunInTransaction(ctx, func(tx domain.Transaction) error {
		if _, err := tx.CreatePet(domain.Pet{TokenID: 1, Name: "Ghost", Stage: domain.StageEgg, Happiness: 100, Health: 100}); err != nil {
			return err
		}
		return fmt.Errorf("abort")
	})
	if err == nil {
		t.Fatal("expected abort error")
	}
	if err := store.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	reopened, err := NewStore(path, nil)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer func() { _ = reopened.Close() }()
	if _, ok := reopened.GetPet(1); ok {
		t.Fatal("aborted transaction must not reach disk")
	}
}

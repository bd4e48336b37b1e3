package core

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"petcore/internal/ledger"
	"petcore/pkg/domain"
)

func newTestService(t *testing.T) (*Service, *ManualTicks) {
	t.Helper()
	ticks := NewManualTicks(0, time.Unix(1_700_000_000, 0))
	svc := NewInMemoryService(
		WithTickSource(ticks),
		WithNotifier(ledger.New()),
	)
	if err := svc.Initialize(context.Background(), "admin"); err != nil {
		t.Fatalf("initialize: %v", err)
	}
	return svc, ticks
}

func TestInitializeSeedsCatalogOnce(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	if err := svc.Initialize(ctx, "someone-else"); !errors.Is(err, domain.ErrAlreadyInitialized) {
		t.Fatalf("expected ErrAlreadyInitialized, got %v", err)
	}
	owner, err := svc.Owner(ctx)
	if err != nil {
		t.Fatalf("owner: %v", err)
	}
	if owner != "admin" {
		t.Fatalf("expected owner admin, got %q", owner)
	}
	catalog, err := svc.AllAchievements(ctx)
	if err != nil {
		t.Fatalf("all achievements: %v", err)
	}
	if len(catalog) != domain.TotalAchievements {
		t.Fatalf("expected %d achievements, got %d", domain.TotalAchievements, len(catalog))
	}
	if catalog[0].Name != "First Steps" || catalog[7].Name != "Legend" {
		t.Fatalf("unexpected catalog endpoints: %q, %q", catalog[0].Name, catalog[7].Name)
	}
}

func TestOperationsRequireInitialization(t *testing.T) {
	svc := NewInMemoryService()
	ctx := context.Background()

	if _, err := svc.Mint(ctx, "alice", "Rex"); !errors.Is(err, domain.ErrNotInitialized) {
		t.Fatalf("expected ErrNotInitialized from mint, got %v", err)
	}
	if err := svc.UpdateState(ctx, 1); !errors.Is(err, domain.ErrNotInitialized) {
		t.Fatalf("expected ErrNotInitialized from update, got %v", err)
	}
}

func TestMint(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	tokenID, err := svc.Mint(ctx, "alice", "Rex")
	if err != nil {
		t.Fatalf("mint: %v", err)
	}
	if tokenID != 1 {
		t.Fatalf("expected first token id 1, got %d", tokenID)
	}

	info, err := svc.PetInfo(ctx, tokenID)
	if err != nil {
		t.Fatalf("pet info: %v", err)
	}
	if info.Name != "Rex" || info.Stage != domain.StageEgg {
		t.Fatalf("unexpected pet: %+v", info)
	}
	if info.Happiness != 100 || info.Hunger != 0 || info.Health != 100 {
		t.Fatalf("unexpected starting stats: %+v", info)
	}

	owner, err := svc.OwnerOf(ctx, tokenID)
	if err != nil || owner != "alice" {
		t.Fatalf("expected owner alice, got %q (%v)", owner, err)
	}
	uri, err := svc.TokenURI(ctx, tokenID)
	if err != nil || uri != "ipfs://QmEggMetadata" {
		t.Fatalf("expected egg URI, got %q (%v)", uri, err)
	}

	earned, err := svc.HasEarned(ctx, "alice", domain.AchievementFirstSteps)
	if err != nil || !earned {
		t.Fatalf("expected first-steps achievement, earned=%v err=%v", earned, err)
	}
	supply, err := svc.AchievementSupply(ctx, domain.AchievementFirstSteps)
	if err != nil || supply != 1 {
		t.Fatalf("expected supply 1, got %d (%v)", supply, err)
	}

	// Second mint allocates the next id and awards nothing new.
	second, err := svc.Mint(ctx, "alice", "Fido")
	if err != nil {
		t.Fatalf("second mint: %v", err)
	}
	if second != 2 {
		t.Fatalf("expected token id 2, got %d", second)
	}
	supply, _ = svc.AchievementSupply(ctx, domain.AchievementFirstSteps)
	if supply != 1 {
		t.Fatalf("expected supply still 1 after second mint, got %d", supply)
	}
}

func TestMintNameValidation(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	if _, err := svc.Mint(ctx, "alice", ""); !errors.Is(err, domain.ErrInvalidNameLength) {
		t.Fatalf("expected ErrInvalidNameLength for empty name, got %v", err)
	}
	if _, err := svc.Mint(ctx, "alice", "abcdefghijklmnopqrstu"); !errors.Is(err, domain.ErrInvalidNameLength) {
		t.Fatalf("expected ErrInvalidNameLength for 21 runes, got %v", err)
	}
	if _, err := svc.Mint(ctx, "alice", "Röntgenröntgenröntge"); err != nil {
		t.Fatalf("20-rune name should be valid, got %v", err)
	}
}

func TestFeedAppliesEffects(t *testing.T) {
	svc, ticks := newTestService(t)
	ctx := context.Background()

	tokenID, err := svc.Mint(ctx, "alice", "Rex")
	if err != nil {
		t.Fatalf("mint: %v", err)
	}
	ticks.Advance(90) // hunger +3, happiness -1

	if err := svc.Feed(ctx, "alice", tokenID); err != nil {
		t.Fatalf("feed: %v", err)
	}
	info, err := svc.PetInfo(ctx, tokenID)
	if err != nil {
		t.Fatalf("pet info: %v", err)
	}
	if info.Hunger != 0 {
		t.Fatalf("expected hunger clamped to 0, got %d", info.Hunger)
	}
	if info.Happiness != 100 {
		t.Fatalf("expected happiness clamped to 100, got %d", info.Happiness)
	}

	// Feeding back to 100/0/100 unlocks Perfectionist.
	earned, err := svc.HasEarned(ctx, "alice", domain.AchievementPerfectionist)
	if err != nil || !earned {
		t.Fatalf("expected perfectionist achievement, earned=%v err=%v", earned, err)
	}
}

func TestFeedAuthorization(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	tokenID, err := svc.Mint(ctx, "alice", "Rex")
	if err != nil {
		t.Fatalf("mint: %v", err)
	}
	if err := svc.Feed(ctx, "bob", tokenID); !errors.Is(err, domain.ErrNotOwner) {
		t.Fatalf("expected ErrNotOwner, got %v", err)
	}
	if err := svc.Feed(ctx, "alice", 99); !domain.IsNotFound(err) {
		t.Fatalf("expected not-found, got %v", err)
	}
}

func TestDeathAndRevival(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	tokenID, err := svc.Mint(ctx, "alice", "Rex")
	if err != nil {
		t.Fatalf("mint: %v", err)
	}
	if err := svc.ApplyEventEffects(ctx, "alice", tokenID, 0, 0, -100); err != nil {
		t.Fatalf("event effects: %v", err)
	}

	info, err := svc.PetInfo(ctx, tokenID)
	if err != nil {
		t.Fatalf("pet info: %v", err)
	}
	if !info.IsDead || info.Health != 0 {
		t.Fatalf("expected dead pet with zero health, got %+v", info)
	}
	if info.DeathTimestamp == 0 {
		t.Fatal("expected death timestamp to be stamped")
	}

	if err := svc.Feed(ctx, "alice", tokenID); !errors.Is(err, domain.ErrPetDead) {
		t.Fatalf("expected ErrPetDead, got %v", err)
	}
	if err := svc.Play(ctx, "alice", tokenID); !errors.Is(err, domain.ErrPetDead) {
		t.Fatalf("expected ErrPetDead from play, got %v", err)
	}

	if err := svc.Revive(ctx, "alice", tokenID); err != nil {
		t.Fatalf("revive: %v", err)
	}
	info, _ = svc.PetInfo(ctx, tokenID)
	if info.IsDead || info.Health != 50 || info.Happiness != 30 || info.Hunger != 50 {
		t.Fatalf("unexpected revived stats: %+v", info)
	}
	if info.DeathTimestamp != 0 {
		t.Fatalf("expected cleared death timestamp, got %d", info.DeathTimestamp)
	}
	earned, err := svc.HasEarned(ctx, "alice", domain.AchievementDeathSurvivor)
	if err != nil || !earned {
		t.Fatalf("expected death-survivor achievement, earned=%v err=%v", earned, err)
	}

	if err := svc.Revive(ctx, "alice", tokenID); !errors.Is(err, domain.ErrPetNotDead) {
		t.Fatalf("expected ErrPetNotDead, got %v", err)
	}
	supply, _ := svc.AchievementSupply(ctx, domain.AchievementDeathSurvivor)
	if supply != 1 {
		t.Fatalf("expected death-survivor supply 1, got %d", supply)
	}
}

func TestEvolutionLifecycle(t *testing.T) {
	svc, ticks := newTestService(t)
	ctx := context.Background()

	tokenID, err := svc.Mint(ctx, "alice", "Rex")
	if err != nil {
		t.Fatalf("mint: %v", err)
	}

	steps := []struct {
		tick        uint64
		stage       domain.EvolutionStage
		uri         string
		achievement int
	}{
		{36, domain.StageBaby, "ipfs://QmBabyMetadata", domain.AchievementMetamorphosis},
		{84, domain.StageTeen, "ipfs://QmTeenMetadata", domain.AchievementTripleEvolution},
		{144, domain.StageAdult, "ipfs://QmAdultMetadata", domain.AchievementLegend},
	}
	for _, step := range steps {
		ticks.Advance(step.tick - ticks.CurrentTick())
		if err := svc.UpdateState(ctx, tokenID); err != nil {
			t.Fatalf("update at tick %d: %v", step.tick, err)
		}
		info, err := svc.PetInfo(ctx, tokenID)
		if err != nil {
			t.Fatalf("pet info: %v", err)
		}
		if info.Stage != step.stage {
			t.Fatalf("expected stage %q at tick %d, got %q", step.stage, step.tick, info.Stage)
		}
		uri, _ := svc.TokenURI(ctx, tokenID)
		if uri != step.uri {
			t.Fatalf("expected URI %q at tick %d, got %q", step.uri, step.tick, uri)
		}
		earned, err := svc.HasEarned(ctx, "alice", step.achievement)
		if err != nil || !earned {
			t.Fatalf("expected achievement %d at tick %d, earned=%v err=%v", step.achievement, step.tick, earned, err)
		}
	}
}

func TestDeadPetDoesNotEvolveViaUpdateState(t *testing.T) {
	svc, ticks := newTestService(t)
	ctx := context.Background()

	tokenID, err := svc.Mint(ctx, "alice", "Rex")
	if err != nil {
		t.Fatalf("mint: %v", err)
	}
	if err := svc.ApplyEventEffects(ctx, "alice", tokenID, 0, 0, -100); err != nil {
		t.Fatalf("event effects: %v", err)
	}
	ticks.Advance(40)

	// A pet that was already dead at entry skips decay and evolution.
	if err := svc.UpdateState(ctx, tokenID); err != nil {
		t.Fatalf("update: %v", err)
	}
	if err := svc.BatchUpdateState(ctx, []uint64{tokenID}); err != nil {
		t.Fatalf("batch update: %v", err)
	}
	info, err := svc.PetInfo(ctx, tokenID)
	if err != nil {
		t.Fatalf("pet info: %v", err)
	}
	if info.Stage != domain.StageEgg {
		t.Fatalf("dead egg must stay an egg, got %q", info.Stage)
	}
	if !info.IsDead {
		t.Fatal("expected pet to remain dead")
	}
	earned, err := svc.HasEarned(ctx, "alice", domain.AchievementMetamorphosis)
	if err != nil || earned {
		t.Fatalf("dead pet must not earn metamorphosis, earned=%v err=%v", earned, err)
	}
}

func TestDyingEggStillHatchesInSameAction(t *testing.T) {
	svc, ticks := newTestService(t)
	ctx := context.Background()

	tokenID, err := svc.Mint(ctx, "alice", "Rex")
	if err != nil {
		t.Fatalf("mint: %v", err)
	}
	ticks.Advance(36)

	// The action that kills the pet still runs one evolution check, and
	// Egg to Baby has no stat gate, so the dying egg hatches.
	if err := svc.ApplyEventEffects(ctx, "alice", tokenID, 0, 0, -100); err != nil {
		t.Fatalf("event effects: %v", err)
	}
	info, err := svc.PetInfo(ctx, tokenID)
	if err != nil {
		t.Fatalf("pet info: %v", err)
	}
	if info.Stage != domain.StageBaby {
		t.Fatalf("expected hatched stage, got %q", info.Stage)
	}
	if !info.IsDead {
		t.Fatal("hatching must not resurrect the pet")
	}
	earned, err := svc.HasEarned(ctx, "alice", domain.AchievementMetamorphosis)
	if err != nil || !earned {
		t.Fatalf("expected metamorphosis for the in-action hatch, earned=%v err=%v", earned, err)
	}
}

func TestFeedStreakMilestone(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	tokenID, err := svc.Mint(ctx, "alice", "Rex")
	if err != nil {
		t.Fatalf("mint: %v", err)
	}
	for i := 0; i < 9; i++ {
		if err := svc.Feed(ctx, "alice", tokenID); err != nil {
			t.Fatalf("feed %d: %v", i+1, err)
		}
	}
	earned, _ := svc.HasEarned(ctx, "alice", domain.AchievementStreakMaster)
	if earned {
		t.Fatal("streak master must not unlock before the tenth feed")
	}
	if err := svc.Feed(ctx, "alice", tokenID); err != nil {
		t.Fatalf("tenth feed: %v", err)
	}
	earned, _ = svc.HasEarned(ctx, "alice", domain.AchievementStreakMaster)
	if !earned {
		t.Fatal("expected streak master after ten feeds")
	}
	supply, _ := svc.AchievementSupply(ctx, domain.AchievementStreakMaster)
	if supply != 1 {
		t.Fatalf("expected supply 1, got %d", supply)
	}
}

func TestPlayMilestone(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	tokenID, err := svc.Mint(ctx, "alice", "Rex")
	if err != nil {
		t.Fatalf("mint: %v", err)
	}
	for i := 0; i < 10; i++ {
		if err := svc.Play(ctx, "alice", tokenID); err != nil {
			t.Fatalf("play %d: %v", i+1, err)
		}
	}
	earned, _ := svc.HasEarned(ctx, "alice", domain.AchievementActivePlayer)
	if !earned {
		t.Fatal("expected active player after ten plays")
	}
	count, err := svc.UserAchievementCount(ctx, "alice")
	if err != nil {
		t.Fatalf("achievement count: %v", err)
	}
	// First Steps, Perfectionist (play keeps stats perfect), Active Player.
	if count != 3 {
		t.Fatalf("expected 3 achievements, got %d", count)
	}
}

func TestTransfer(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	first, err := svc.Mint(ctx, "alice", "Rex")
	if err != nil {
		t.Fatalf("mint: %v", err)
	}
	second, err := svc.Mint(ctx, "alice", "Fido")
	if err != nil {
		t.Fatalf("mint: %v", err)
	}

	if err := svc.Transfer(ctx, "bob", "carol", first); !errors.Is(err, domain.ErrNotOwner) {
		t.Fatalf("expected ErrNotOwner, got %v", err)
	}
	if err := svc.Transfer(ctx, "alice", "alice", first); err != nil {
		t.Fatalf("self transfer should be a no-op, got %v", err)
	}
	if err := svc.Transfer(ctx, "alice", "bob", first); err != nil {
		t.Fatalf("transfer: %v", err)
	}

	owner, _ := svc.OwnerOf(ctx, first)
	if owner != "bob" {
		t.Fatalf("expected owner bob, got %q", owner)
	}
	alicePets, _ := svc.PetsOf(ctx, "alice")
	if len(alicePets) != 1 || alicePets[0] != second {
		t.Fatalf("unexpected alice pets: %v", alicePets)
	}
	bobPets, _ := svc.PetsOf(ctx, "bob")
	if len(bobPets) != 1 || bobPets[0] != first {
		t.Fatalf("unexpected bob pets: %v", bobPets)
	}
	aliceBalance, _ := svc.BalanceOf(ctx, "alice")
	bobBalance, _ := svc.BalanceOf(ctx, "bob")
	if aliceBalance != 1 || bobBalance != 1 {
		t.Fatalf("unexpected balances: alice=%d bob=%d", aliceBalance, bobBalance)
	}
}

func TestSetTokenURI(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	tokenID, err := svc.Mint(ctx, "alice", "Rex")
	if err != nil {
		t.Fatalf("mint: %v", err)
	}
	if err := svc.SetTokenURI(ctx, "bob", tokenID, "ipfs://QmCustom"); !errors.Is(err, domain.ErrNotOwner) {
		t.Fatalf("expected ErrNotOwner, got %v", err)
	}
	if err := svc.SetTokenURI(ctx, "alice", tokenID, "ipfs://QmCustom"); err != nil {
		t.Fatalf("set token uri: %v", err)
	}
	uri, _ := svc.TokenURI(ctx, tokenID)
	if uri != "ipfs://QmCustom" {
		t.Fatalf("expected custom URI, got %q", uri)
	}
	if _, err := svc.TokenURI(ctx, 99); !domain.IsNotFound(err) {
		t.Fatalf("expected not-found for missing token, got %v", err)
	}
}

func TestBatchUpdateStateSkipsMissing(t *testing.T) {
	svc, ticks := newTestService(t)
	ctx := context.Background()

	tokenID, err := svc.Mint(ctx, "alice", "Rex")
	if err != nil {
		t.Fatalf("mint: %v", err)
	}
	ticks.Advance(60)

	if err := svc.BatchUpdateState(ctx, []uint64{tokenID, 42, 99}); err != nil {
		t.Fatalf("batch update: %v", err)
	}
	info, _ := svc.PetInfo(ctx, tokenID)
	if info.Hunger != 2 || info.Happiness != 99 {
		t.Fatalf("expected decayed stats 2/99, got %d/%d", info.Hunger, info.Happiness)
	}

	if err := svc.UpdateState(ctx, 42); !domain.IsNotFound(err) {
		t.Fatalf("expected not-found from single update, got %v", err)
	}
}

// failingNotifier rejects feed milestones so tests can observe rollback.
type failingNotifier struct{}

func (failingNotifier) FirstPetMinted(context.Context, domain.Transaction, string, uint64) error {
	return nil
}

func (failingNotifier) PetFed(context.Context, domain.Transaction, string, uint64) error {
	return fmt.Errorf("ledger offline")
}

func (failingNotifier) PetPlayed(context.Context, domain.Transaction, string, uint64) error {
	return nil
}

func (failingNotifier) PetEvolved(context.Context, domain.Transaction, string, uint64, domain.EvolutionStage) error {
	return nil
}

func (failingNotifier) PetRevived(context.Context, domain.Transaction, string, uint64) error {
	return nil
}

func (failingNotifier) PerfectStats(context.Context, domain.Transaction, string, uint64) error {
	return nil
}

func TestNotifierFailureRollsBackAction(t *testing.T) {
	ticks := NewManualTicks(0, time.Unix(1_700_000_000, 0))
	svc := NewInMemoryService(
		WithTickSource(ticks),
		WithNotifier(failingNotifier{}),
	)
	ctx := context.Background()
	if err := svc.Initialize(ctx, "admin"); err != nil {
		t.Fatalf("initialize: %v", err)
	}
	tokenID, err := svc.Mint(ctx, "alice", "Rex")
	if err != nil {
		t.Fatalf("mint: %v", err)
	}
	ticks.Advance(90)

	if err := svc.Feed(ctx, "alice", tokenID); err == nil {
		t.Fatal("expected feed to fail when the notifier rejects it")
	}
	// Neither the feed effect nor the decay catch-up may persist.
	info, err := svc.PetInfo(ctx, tokenID)
	if err != nil {
		t.Fatalf("pet info: %v", err)
	}
	if info.Hunger != 0 || info.Happiness != 100 {
		t.Fatalf("expected untouched stats after rollback, got %d/%d", info.Hunger, info.Happiness)
	}
	if info.TicksSinceUpdate != 90 {
		t.Fatalf("expected 90 stale ticks after rollback, got %d", info.TicksSinceUpdate)
	}
}

func TestNilNotifierSkipsMilestones(t *testing.T) {
	ticks := NewManualTicks(0, time.Unix(1_700_000_000, 0))
	svc := NewInMemoryService(WithTickSource(ticks))
	ctx := context.Background()
	if err := svc.Initialize(ctx, "admin"); err != nil {
		t.Fatalf("initialize: %v", err)
	}
	tokenID, err := svc.Mint(ctx, "alice", "Rex")
	if err != nil {
		t.Fatalf("mint: %v", err)
	}
	if err := svc.Feed(ctx, "alice", tokenID); err != nil {
		t.Fatalf("feed: %v", err)
	}
	earned, err := svc.UserAchievements(ctx, "alice")
	if err != nil {
		t.Fatalf("user achievements: %v", err)
	}
	if len(earned) != 0 {
		t.Fatalf("expected no achievements without a notifier, got %v", earned)
	}
}

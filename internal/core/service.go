// Package core implements the pet lifecycle service: stat decay, the
// evolution state machine, invariant rules, and the transactional
// orchestration that ties pet mutations and achievement milestones into a
// single unit of work.
package core

import (
	"context"
	"fmt"
	"unicode/utf8"

	"petcore/internal/infra/persistence/memory"
	"petcore/internal/metadata"
	"petcore/pkg/domain"
)

// Feed and play effect sizes.
const (
	feedHungerDrop    = 40
	feedHappinessGain = 15
	playHappinessGain = 25
)

// Revival resets stats to these values.
const (
	revivalHealth    = 50
	revivalHappiness = 30
	revivalHunger    = 50
)

// StageURIProvider resolves the token URI pets carry at each stage.
type StageURIProvider interface {
	StageURI(stage domain.EvolutionStage) string
}

// CatalogInitializer is implemented by notifiers that seed durable state at
// initialization. The achievement ledger seeds its catalog through it.
type CatalogInitializer interface {
	Initialize(tx domain.Transaction) error
}

// Service exposes the transactional pet lifecycle operations. Every public
// mutation runs in exactly one store transaction; milestone notifications
// happen inside that transaction, so a notifier failure rolls the whole
// action back.
type Service struct {
	store    domain.PersistentStore
	ticks    TickSource
	logger   Logger
	notifier MilestoneNotifier
	metrics  *Metrics
	uris     StageURIProvider
	cfg      domain.Config
}

// Option customizes a Service.
type Option func(*Service)

// WithTickSource overrides the tick source. The default derives ticks from
// the wall clock.
func WithTickSource(ts TickSource) Option {
	return func(s *Service) { s.ticks = ts }
}

// WithLogger attaches a logger. The default discards everything.
func WithLogger(l Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithMetrics attaches prometheus instrumentation.
func WithMetrics(m *Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// WithNotifier attaches the milestone notifier. A nil notifier (the
// default) skips milestone recording entirely.
func WithNotifier(n MilestoneNotifier) Option {
	return func(s *Service) { s.notifier = n }
}

// WithConfig overrides the configuration seeded at initialization.
func WithConfig(cfg domain.Config) Option {
	return func(s *Service) { s.cfg = cfg }
}

// WithStageURIs overrides the stage URI provider. The default serves the
// static metadata URIs.
func WithStageURIs(p StageURIProvider) Option {
	return func(s *Service) {
		if p != nil {
			s.uris = p
		}
	}
}

// NewService constructs a service backed by the supplied store.
func NewService(store domain.PersistentStore, opts ...Option) *Service {
	s := &Service{
		store:  store,
		ticks:  NewWallClockTicks(),
		logger: noopLogger{},
		uris:   metadata.NewManager(),
		cfg:    domain.DefaultConfig(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NewInMemoryService creates a service over a fresh in-memory store with
// the default rules engine.
func NewInMemoryService(opts ...Option) *Service {
	return NewService(memory.NewStore(NewDefaultRulesEngine()), opts...)
}

// Store returns the underlying persistence implementation.
func (s *Service) Store() domain.PersistentStore { return s.store }

// run executes fn transactionally and logs warn-severity rule violations
// of committed transactions.
func (s *Service) run(ctx context.Context, fn func(domain.Transaction) error) error {
	res, err := s.store.RunInTransaction(ctx, fn)
	if err != nil {
		return err
	}
	for _, v := range res.Violations {
		if v.Severity != domain.SeverityBlock {
			s.logger.Warn("rule violation", "rule", v.Rule, "severity", string(v.Severity), "message", v.Message)
		}
	}
	return nil
}

func (s *Service) config(tx domain.Transaction) domain.Config {
	if cfg, ok := tx.Config(); ok {
		return cfg
	}
	return s.cfg
}

func requireInitialized(tx domain.Transaction) error {
	if !tx.Initialized() {
		return domain.ErrNotInitialized
	}
	return nil
}

// requireOwner resolves the pet's holder and checks it matches caller.
func requireOwner(tx domain.Transaction, caller string, tokenID uint64) error {
	holder, ok := tx.TokenOwner(tokenID)
	if !ok {
		return domain.ErrNotFound{Entity: domain.EntityPet, ID: fmt.Sprintf("%d", tokenID)}
	}
	if holder != caller {
		return domain.ErrNotOwner
	}
	return nil
}

// Initialize seeds the contract owner, the configuration, and (when the
// notifier maintains one) the achievement catalog.
func (s *Service) Initialize(ctx context.Context, owner string) error {
	return s.run(ctx, func(tx domain.Transaction) error {
		if tx.Initialized() {
			return domain.ErrAlreadyInitialized
		}
		tx.SetContractOwner(owner)
		tx.SetConfig(s.cfg)
		if seeder, ok := s.notifier.(CatalogInitializer); ok {
			if err := seeder.Initialize(tx); err != nil {
				return err
			}
		}
		s.logger.Info("initialized", "owner", owner)
		return nil
	})
}

// Mint creates a new pet for caller and returns its token id. The pet
// starts as a healthy egg; minting the holder's first pet unlocks the
// first-steps milestone.
func (s *Service) Mint(ctx context.Context, caller, name string) (uint64, error) {
	if n := utf8.RuneCountInString(name); n < 1 || n > 20 {
		return 0, domain.ErrInvalidNameLength
	}
	var tokenID uint64
	err := s.run(ctx, func(tx domain.Transaction) error {
		if err := requireInitialized(tx); err != nil {
			return err
		}
		tick := s.ticks.CurrentTick()
		id := tx.AllocateTokenID()
		pet := domain.Pet{
			TokenID:         id,
			Name:            name,
			BirthTick:       tick,
			LastUpdatedTick: tick,
			Stage:           domain.StageEgg,
			Happiness:       domain.StatMax,
			Hunger:          domain.StatMin,
			Health:          domain.StatMax,
		}
		if _, err := tx.CreatePet(pet); err != nil {
			return err
		}
		tx.SetTokenOwner(id, caller)
		tx.AppendHolderToken(caller, id)
		tx.SetTokenURI(id, s.uris.StageURI(domain.StageEgg))
		if s.notifier != nil {
			if err := s.notifier.FirstPetMinted(ctx, tx, caller, id); err != nil {
				return err
			}
		}
		tokenID = id
		s.logger.Info("pet minted", "token_id", id, "name", name, "owner", caller)
		return nil
	})
	if err != nil {
		return 0, err
	}
	s.metrics.observeAction("mint")
	return tokenID, nil
}

// Feed catches the pet up to the current tick and applies the feed effect.
// Dead pets cannot be fed, including pets that died during catch-up; in
// that case nothing persists.
func (s *Service) Feed(ctx context.Context, caller string, tokenID uint64) error {
	err := s.run(ctx, func(tx domain.Transaction) error {
		if err := requireInitialized(tx); err != nil {
			return err
		}
		if err := requireOwner(tx, caller, tokenID); err != nil {
			return err
		}
		cfg := s.config(tx)
		tick := s.ticks.CurrentTick()
		pet, err := tx.UpdatePet(tokenID, func(p *domain.Pet) error {
			*p = advanceStats(*p, tick, cfg, s.ticks.Now())
			if p.IsDead {
				return domain.ErrPetDead
			}
			p.Hunger = domain.ClampStat(p.Hunger - feedHungerDrop)
			p.Happiness = domain.ClampStat(p.Happiness + feedHappinessGain)
			return nil
		})
		if err != nil {
			return err
		}
		s.logger.Info("pet fed", "token_id", tokenID, "hunger", pet.Hunger, "happiness", pet.Happiness)
		if s.notifier != nil {
			if err := s.notifier.PetFed(ctx, tx, caller, tokenID); err != nil {
				return err
			}
			if perfectStats(pet) {
				if err := s.notifier.PerfectStats(ctx, tx, caller, tokenID); err != nil {
					return err
				}
			}
		}
		return s.evolve(ctx, tx, pet, tick, cfg)
	})
	if err != nil {
		return err
	}
	s.metrics.observeAction("feed")
	return nil
}

// Play catches the pet up to the current tick and applies the play effect.
func (s *Service) Play(ctx context.Context, caller string, tokenID uint64) error {
	err := s.run(ctx, func(tx domain.Transaction) error {
		if err := requireInitialized(tx); err != nil {
			return err
		}
		if err := requireOwner(tx, caller, tokenID); err != nil {
			return err
		}
		cfg := s.config(tx)
		tick := s.ticks.CurrentTick()
		pet, err := tx.UpdatePet(tokenID, func(p *domain.Pet) error {
			*p = advanceStats(*p, tick, cfg, s.ticks.Now())
			if p.IsDead {
				return domain.ErrPetDead
			}
			p.Happiness = domain.ClampStat(p.Happiness + playHappinessGain)
			return nil
		})
		if err != nil {
			return err
		}
		s.logger.Info("pet played", "token_id", tokenID, "happiness", pet.Happiness)
		if s.notifier != nil {
			if err := s.notifier.PetPlayed(ctx, tx, caller, tokenID); err != nil {
				return err
			}
			if perfectStats(pet) {
				if err := s.notifier.PerfectStats(ctx, tx, caller, tokenID); err != nil {
					return err
				}
			}
		}
		return s.evolve(ctx, tx, pet, tick, cfg)
	})
	if err != nil {
		return err
	}
	s.metrics.observeAction("play")
	return nil
}

// Revive brings a dead pet back with partial stats and re-bases its decay
// clock so time spent dead does not count against it.
func (s *Service) Revive(ctx context.Context, caller string, tokenID uint64) error {
	err := s.run(ctx, func(tx domain.Transaction) error {
		if err := requireInitialized(tx); err != nil {
			return err
		}
		if err := requireOwner(tx, caller, tokenID); err != nil {
			return err
		}
		tick := s.ticks.CurrentTick()
		_, err := tx.UpdatePet(tokenID, func(p *domain.Pet) error {
			if !p.IsDead {
				return domain.ErrPetNotDead
			}
			p.IsDead = false
			p.Health = revivalHealth
			p.Happiness = revivalHappiness
			p.Hunger = revivalHunger
			p.DeathTimestamp = 0
			p.LastUpdatedTick = tick
			return nil
		})
		if err != nil {
			return err
		}
		s.logger.Info("pet revived", "token_id", tokenID)
		if s.notifier != nil {
			if err := s.notifier.PetRevived(ctx, tx, caller, tokenID); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	s.metrics.observeAction("revive")
	return nil
}

// ApplyEventEffects applies caller-supplied stat deltas after decay
// catch-up. Each delta clamps independently; a pet driven to zero health
// dies in the same transaction.
func (s *Service) ApplyEventEffects(ctx context.Context, caller string, tokenID uint64, happinessDelta, hungerDelta, healthDelta int) error {
	err := s.run(ctx, func(tx domain.Transaction) error {
		if err := requireInitialized(tx); err != nil {
			return err
		}
		if err := requireOwner(tx, caller, tokenID); err != nil {
			return err
		}
		cfg := s.config(tx)
		tick := s.ticks.CurrentTick()
		now := s.ticks.Now()
		died := false
		pet, err := tx.UpdatePet(tokenID, func(p *domain.Pet) error {
			*p = advanceStats(*p, tick, cfg, now)
			if p.IsDead {
				return domain.ErrPetDead
			}
			p.Happiness = domain.ClampStat(p.Happiness + happinessDelta)
			p.Hunger = domain.ClampStat(p.Hunger + hungerDelta)
			p.Health = domain.ClampStat(p.Health + healthDelta)
			if p.Health == 0 {
				p.IsDead = true
				p.DeathTimestamp = now.Unix()
				died = true
			}
			return nil
		})
		if err != nil {
			return err
		}
		if died {
			s.metrics.observeDeath()
			s.logger.Info("pet died", "token_id", tokenID)
		}
		if s.notifier != nil && perfectStats(pet) {
			if err := s.notifier.PerfectStats(ctx, tx, caller, tokenID); err != nil {
				return err
			}
		}
		return s.evolve(ctx, tx, pet, tick, cfg)
	})
	if err != nil {
		return err
	}
	s.metrics.observeAction("apply_event_effects")
	return nil
}

// UpdateState pulls the pet forward to the current tick, persisting any
// decay and death it produces, then re-evaluates evolution. Dead pets are
// a silent no-op.
func (s *Service) UpdateState(ctx context.Context, tokenID uint64) error {
	return s.run(ctx, func(tx domain.Transaction) error {
		if err := requireInitialized(tx); err != nil {
			return err
		}
		return s.updateState(ctx, tx, tokenID)
	})
}

func (s *Service) updateState(ctx context.Context, tx domain.Transaction, tokenID uint64) error {
	cfg := s.config(tx)
	tick := s.ticks.CurrentTick()
	wasDead := false
	pet, err := tx.UpdatePet(tokenID, func(p *domain.Pet) error {
		wasDead = p.IsDead
		*p = advanceStats(*p, tick, cfg, s.ticks.Now())
		return nil
	})
	if err != nil {
		return err
	}
	if wasDead {
		return nil
	}
	if pet.IsDead {
		s.metrics.observeDeath()
		s.logger.Info("pet died", "token_id", tokenID, "death_timestamp", pet.DeathTimestamp)
	}
	return s.evolve(ctx, tx, pet, tick, cfg)
}

// BatchUpdateState runs the lazy state pull for each token id in one
// transaction, skipping ids that do not exist.
func (s *Service) BatchUpdateState(ctx context.Context, tokenIDs []uint64) error {
	return s.run(ctx, func(tx domain.Transaction) error {
		if err := requireInitialized(tx); err != nil {
			return err
		}
		for _, id := range tokenIDs {
			if _, ok := tx.Snapshot().FindPet(id); !ok {
				continue
			}
			if err := s.updateState(ctx, tx, id); err != nil {
				return err
			}
		}
		return nil
	})
}

// Transfer moves a pet between holders, keeping both enumeration lists
// consistent. Transferring to oneself is a no-op.
func (s *Service) Transfer(ctx context.Context, from, to string, tokenID uint64) error {
	err := s.run(ctx, func(tx domain.Transaction) error {
		if err := requireInitialized(tx); err != nil {
			return err
		}
		if err := requireOwner(tx, from, tokenID); err != nil {
			return err
		}
		if from == to {
			return nil
		}
		tx.SetTokenOwner(tokenID, to)
		tx.RemoveHolderToken(from, tokenID)
		tx.AppendHolderToken(to, tokenID)
		s.logger.Info("pet transferred", "token_id", tokenID, "from", from, "to", to)
		return nil
	})
	if err != nil {
		return err
	}
	s.metrics.observeAction("transfer")
	return nil
}

// SetTokenURI overrides the pet's metadata URI. Owner only.
func (s *Service) SetTokenURI(ctx context.Context, caller string, tokenID uint64, uri string) error {
	return s.run(ctx, func(tx domain.Transaction) error {
		if err := requireInitialized(tx); err != nil {
			return err
		}
		if err := requireOwner(tx, caller, tokenID); err != nil {
			return err
		}
		tx.SetTokenURI(tokenID, uri)
		return nil
	})
}

// evolve advances the pet by at most one stage, repoints its token URI,
// and reports the stage milestone.
func (s *Service) evolve(ctx context.Context, tx domain.Transaction, pet domain.Pet, tick uint64, cfg domain.Config) error {
	_, stage, advanced := evaluateEvolution(pet, pet.Age(tick), cfg)
	if !advanced {
		return nil
	}
	if _, err := tx.UpdatePet(pet.TokenID, func(p *domain.Pet) error {
		p.Stage = stage
		return nil
	}); err != nil {
		return err
	}
	tx.SetTokenURI(pet.TokenID, s.uris.StageURI(stage))
	s.metrics.observeEvolution(string(stage))
	s.logger.Info("pet evolved", "token_id", pet.TokenID, "stage", string(stage))
	if s.notifier != nil {
		if holder, ok := tx.TokenOwner(pet.TokenID); ok {
			if err := s.notifier.PetEvolved(ctx, tx, holder, pet.TokenID, stage); err != nil {
				return err
			}
		}
	}
	return nil
}

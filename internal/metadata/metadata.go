// Package metadata produces the per-stage token metadata documents and the
// URIs that pets point at. Without a blob store the canonical static IPFS
// URIs are used; with one, documents are published once and their URLs take
// precedence.
package metadata

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"petcore/internal/blob"
	"petcore/pkg/domain"
)

// defaultStageURIs are the canonical static token URIs per stage.
var defaultStageURIs = map[domain.EvolutionStage]string{
	domain.StageEgg:   "ipfs://QmEggMetadata",
	domain.StageBaby:  "ipfs://QmBabyMetadata",
	domain.StageTeen:  "ipfs://QmTeenMetadata",
	domain.StageAdult: "ipfs://QmAdultMetadata",
}

// DefaultStageURI returns the static URI for a stage.
func DefaultStageURI(stage domain.EvolutionStage) string {
	return defaultStageURIs[stage]
}

// Attribute is one trait entry of a metadata document.
type Attribute struct {
	TraitType string `json:"trait_type"`
	Value     string `json:"value"`
}

// Document is the token metadata payload for one evolution stage.
type Document struct {
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Image       string      `json:"image"`
	Attributes  []Attribute `json:"attributes"`
}

// StageDocument returns the metadata document for a stage.
func StageDocument(stage domain.EvolutionStage) Document {
	level, _ := stage.Level()
	return Document{
		Name:        fmt.Sprintf("PetWorld %s", titles[stage]),
		Description: descriptions[stage],
		Image:       fmt.Sprintf("petworld/stages/%s.png", stage),
		Attributes: []Attribute{
			{TraitType: "Stage", Value: titles[stage]},
			{TraitType: "Level", Value: fmt.Sprintf("%d", level+1)},
		},
	}
}

var titles = map[domain.EvolutionStage]string{
	domain.StageEgg:   "Egg",
	domain.StageBaby:  "Baby",
	domain.StageTeen:  "Teen",
	domain.StageAdult: "Adult",
}

var descriptions = map[domain.EvolutionStage]string{
	domain.StageEgg:   "A freshly minted pet, still in its shell.",
	domain.StageBaby:  "A newly hatched pet taking its first steps.",
	domain.StageTeen:  "A growing pet with a mind of its own.",
	domain.StageAdult: "A fully grown pet at the end of its evolution.",
}

// Manager resolves stage URIs, optionally backed by a blob store.
type Manager struct {
	store  blob.Store
	prefix string

	mu        sync.RWMutex
	published map[domain.EvolutionStage]string
}

// Option customizes a Manager.
type Option func(*Manager)

// WithBlobStore attaches a blob store; Publish writes stage documents
// there and StageURI serves their URLs afterward.
func WithBlobStore(store blob.Store) Option {
	return func(m *Manager) { m.store = store }
}

// WithKeyPrefix sets the key prefix for published documents. Default
// "petworld/metadata/".
func WithKeyPrefix(prefix string) Option {
	return func(m *Manager) { m.prefix = prefix }
}

// NewManager constructs a Manager.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		prefix:    "petworld/metadata/",
		published: make(map[domain.EvolutionStage]string),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// StageURI returns the URI a pet at the given stage should carry.
func (m *Manager) StageURI(stage domain.EvolutionStage) string {
	m.mu.RLock()
	uri, ok := m.published[stage]
	m.mu.RUnlock()
	if ok {
		return uri
	}
	return DefaultStageURI(stage)
}

// Publish writes one metadata document per stage to the blob store,
// reusing documents that already exist. Without a store it is a no-op.
func (m *Manager) Publish(ctx context.Context) error {
	if m.store == nil {
		return nil
	}
	for stage := range defaultStageURIs {
		key := fmt.Sprintf("%s%s.json", m.prefix, stage)
		if info, err := m.store.Head(ctx, key); err == nil {
			m.record(stage, info)
			continue
		}
		raw, err := json.MarshalIndent(StageDocument(stage), "", "  ")
		if err != nil {
			return fmt.Errorf("encode stage %s document: %w", stage, err)
		}
		info, err := m.store.Put(ctx, key, bytes.NewReader(raw), blob.PutOptions{
			ContentType: "application/json",
			Metadata:    map[string]string{"stage": string(stage)},
		})
		if err != nil {
			return fmt.Errorf("publish stage %s document: %w", stage, err)
		}
		m.record(stage, info)
	}
	return nil
}

func (m *Manager) record(stage domain.EvolutionStage, info blob.Info) {
	uri := info.URL
	if uri == "" {
		uri = info.Key
	}
	m.mu.Lock()
	m.published[stage] = uri
	m.mu.Unlock()
}

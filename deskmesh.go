// Package deskmesh provides a high-level façade over the triage workflow and
// its service abstractions (conversation store, knowledge index, account
// backend, escalation publisher & logging). Most applications interact with
// this package by:
//  1. Creating a DeskMesh via New() (optionally overriding default in-memory services)
//  2. Optionally registering extra tools on the registry
//  3. Running turns with Turn()
//
// The façade delegates orchestration to workflow.Orchestrator while keeping
// setup ergonomics concise. All defaults are safe for local development and
// testing; production deployments typically supply Redis, Postgres and Kafka
// backed implementations and a structured logger.
package deskmesh

import (
	"context"

	"github.com/deskmesh/deskmesh/backend"
	"github.com/deskmesh/deskmesh/classify"
	"github.com/deskmesh/deskmesh/core"
	"github.com/deskmesh/deskmesh/knowledge"
	"github.com/deskmesh/deskmesh/logging"
	"github.com/deskmesh/deskmesh/notify"
	"github.com/deskmesh/deskmesh/sentiment"
	"github.com/deskmesh/deskmesh/session"
	"github.com/deskmesh/deskmesh/tool"
	"github.com/deskmesh/deskmesh/workflow"
)

// Options configures the DeskMesh instance.
type Options struct {
	// ConversationStore persists message history across turns. Defaults to
	// an in-memory store.
	ConversationStore core.ConversationStore

	// AccountStore resolves accounts for the backend tools. Defaults to an
	// empty in-memory backend.
	AccountStore backend.AccountStore

	// TicketLog records and summarizes per-ticket notes. Defaults to the
	// in-memory backend.
	TicketLog backend.TicketLog

	// Publisher receives escalation packets. Defaults to the no-op
	// publisher.
	Publisher notify.EscalationPublisher

	// Corpus locates the knowledge article dump; empty leaves the index
	// empty until the caller loads it.
	CorpusPath    string
	CorpusAccount string
	ReloadPerTurn bool

	// TopK bounds knowledge search results per turn.
	TopK int

	// Logger (defaults to NoOp logger if nil)
	Logger logging.Logger
}

// DeskMesh is the high-level façade aggregating the orchestrator and its
// services.
type DeskMesh struct {
	opts         Options
	index        *knowledge.Index
	registry     *tool.Registry
	orchestrator *workflow.Orchestrator
}

// New creates a new DeskMesh instance with optional overrides. Any unset
// service is initialized with an in-memory implementation, and the default
// backend tools are registered.
func New(optFns ...func(o *Options)) (*DeskMesh, error) {
	mem := backend.NewMemoryBackend()
	opts := Options{
		ConversationStore: session.NewInMemoryStore(),
		AccountStore:      mem,
		TicketLog:         mem,
		Publisher:         notify.NoopPublisher{},
		TopK:              workflow.DefaultTopK,
		Logger:            logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	logger := logging.OrNoOp(opts.Logger)

	index := knowledge.NewIndex()
	if opts.CorpusPath != "" && !opts.ReloadPerTurn {
		entries, err := knowledge.LoadJSONL(opts.CorpusPath, opts.CorpusAccount)
		if err != nil {
			return nil, err
		}
		index.Load(entries)
	}

	summarizer := backend.NewSummarizer(opts.TicketLog)

	registry := tool.NewRegistry(logger)
	backend.RegisterDefaults(registry, opts.AccountStore, opts.TicketLog, summarizer)

	classifier := classify.New(sentiment.NewScorer())

	orchestrator := workflow.New(classifier, index, registry, func(o *workflow.Options) {
		o.Store = opts.ConversationStore
		o.Summarizer = summarizer
		o.Publisher = opts.Publisher
		o.Logger = logger
		o.TopK = opts.TopK
		o.CorpusPath = opts.CorpusPath
		o.CorpusAccount = opts.CorpusAccount
		o.ReloadPerTurn = opts.ReloadPerTurn
	})

	return &DeskMesh{
		opts:         opts,
		index:        index,
		registry:     registry,
		orchestrator: orchestrator,
	}, nil
}

// Turn runs one triage turn for the given conversation and returns the
// workflow outcome.
func (m *DeskMesh) Turn(ctx context.Context, conversationID string, ticket core.TicketContext, userMessage string) (*workflow.TurnResult, error) {
	return m.orchestrator.Run(ctx, conversationID, ticket, userMessage)
}

// RegisterTool adds a custom tool alongside the default backend tools.
func (m *DeskMesh) RegisterTool(t tool.Tool) { m.registry.Register(t) }

// Tools lists the registered tool names and descriptions.
func (m *DeskMesh) Tools() map[string]string { return m.registry.ListTools() }

// Index exposes the knowledge index, e.g. for loading a corpus built in
// code.
func (m *DeskMesh) Index() *knowledge.Index { return m.index }

package workflow

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/deskmesh/deskmesh/backend"
	"github.com/deskmesh/deskmesh/classify"
	"github.com/deskmesh/deskmesh/core"
	"github.com/deskmesh/deskmesh/knowledge"
	"github.com/deskmesh/deskmesh/logging"
	"github.com/deskmesh/deskmesh/notify"
	"github.com/deskmesh/deskmesh/session"
	"github.com/deskmesh/deskmesh/tool"
)

// Options holds dependency and configuration overrides passed to New().
type Options struct {
	// Store persists conversation history across turns. Defaults to the
	// in-memory store.
	Store core.ConversationStore

	// Summarizer condenses prior ticket history for retrieval augmentation.
	// Nil disables the augmentation.
	Summarizer core.HistorySummarizer

	// Publisher receives escalation packets after finalize. Defaults to the
	// no-op publisher.
	Publisher notify.EscalationPublisher

	// Logger receives structured diagnostics. Defaults to the no-op logger.
	Logger logging.Logger

	// TopK bounds knowledge search results per turn.
	TopK int

	// CorpusPath / CorpusAccount locate the JSONL article corpus when
	// ReloadPerTurn is set. With ReloadPerTurn false (the default) the
	// index is loaded once at wiring time and shared across turns.
	CorpusPath    string
	CorpusAccount string
	ReloadPerTurn bool
}

// Orchestrator drives the fixed decision graph: one path per turn, nodes
// executed strictly sequentially against an exclusively-owned
// WorkflowState, trace entries and replies strictly ordered by node
// execution. Public methods are safe for concurrent use; turns of the same
// conversation id are serialized so turn N+1 never starts before turn N's
// state is saved.
type Orchestrator struct {
	classifier *classify.Classifier
	index      *knowledge.Index
	registry   *tool.Registry

	graph Graph
	nodes map[NodeID]NodeFunc

	store      core.ConversationStore
	summarizer core.HistorySummarizer
	publisher  notify.EscalationPublisher
	logger     logging.Logger

	topK          int
	corpusPath    string
	corpusAccount string
	reloadPerTurn bool

	locksMu sync.Mutex
	locks   map[string]*turnLock
}

// turnLock serializes turns of one conversation. The refcount lets the
// orchestrator drop the entry once the last waiter releases, so the lock
// table stays bounded by in-flight conversations rather than every id ever
// seen.
type turnLock struct {
	mu   sync.Mutex
	refs int
}

// DefaultTopK is the knowledge search bound when none is configured.
const DefaultTopK = 4

// New constructs an Orchestrator over the default graph with optional
// overrides. Any unset service is initialized with a safe default. The
// graph is validated at construction; an invalid topology is a programming
// error and panics here rather than failing turns later.
func New(classifier *classify.Classifier, index *knowledge.Index, registry *tool.Registry, optFns ...func(o *Options)) *Orchestrator {
	opts := Options{
		Store:     session.NewInMemoryStore(),
		Publisher: notify.NoopPublisher{},
		Logger:    logging.NoOpLogger{},
		TopK:      DefaultTopK,
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.TopK <= 0 {
		opts.TopK = DefaultTopK
	}

	o := &Orchestrator{
		classifier:    classifier,
		index:         index,
		registry:      registry,
		graph:         DefaultGraph(),
		store:         opts.Store,
		summarizer:    opts.Summarizer,
		publisher:     opts.Publisher,
		logger:        logging.OrNoOp(opts.Logger),
		topK:          opts.TopK,
		corpusPath:    opts.CorpusPath,
		corpusAccount: opts.CorpusAccount,
		reloadPerTurn: opts.ReloadPerTurn,
		locks:         make(map[string]*turnLock),
	}
	o.nodes = map[NodeID]NodeFunc{
		NodeInit:      o.initNode,
		NodeClassify:  o.classifyNode,
		NodeKnowledge: o.knowledgeNode,
		NodeTools:     o.toolsNode,
		NodeEscalate:  o.escalateNode,
		NodeFinalize:  o.finalizeNode,
	}
	if err := o.graph.Validate(o.nodes); err != nil {
		panic(fmt.Sprintf("workflow: invalid graph: %v", err))
	}
	return o
}

// TurnResult is the outcome of one orchestrator invocation. Callers needing
// a single "the reply" value take Reply, which is the content of the last
// message.
type TurnResult struct {
	ConversationID string
	InvocationID   string
	Messages       []core.Message
	Trace          []string
	Reply          string
	State          *core.WorkflowState
}

// Run executes one turn: load history, thread the state through the graph
// from init to finalize, persist, and hand off any escalation. A returned
// error means the turn did not complete and must be retried by the caller
// from the top; partial state is never persisted.
func (o *Orchestrator) Run(ctx context.Context, conversationID string, ticket core.TicketContext, userMessage string) (*TurnResult, error) {
	unlock := o.lockConversation(conversationID)
	defer unlock()

	invocationID := core.NewID()
	log := o.logger

	history, err := o.loadHistory(ctx, conversationID)
	if err != nil {
		return nil, fmt.Errorf("load conversation %s: %w", conversationID, err)
	}

	messages := history
	if userMessage != "" {
		messages = append(messages, core.NewUserMessage(userMessage))
	}
	state := core.NewWorkflowState(ticket, messages)

	cur := o.graph.Start
	for steps := 0; ; steps++ {
		if steps > len(o.nodes)+1 {
			return nil, fmt.Errorf("graph walk exceeded %d steps at node %q", steps, cur)
		}
		log.Debug("workflow.node.start", "node", string(cur), "conversation_id", conversationID, "invocation_id", invocationID)
		if err := o.nodes[cur](ctx, state); err != nil {
			return nil, fmt.Errorf("node %s: %w", cur, err)
		}
		log.Debug("workflow.node.done", "node", string(cur), "conversation_id", conversationID, "invocation_id", invocationID)
		if cur == o.graph.Terminal {
			break
		}
		if cur, err = o.graph.Next(cur, state); err != nil {
			return nil, err
		}
	}

	conv := &core.Conversation{ID: conversationID, Messages: state.Messages, Trace: state.Trace}
	if err := o.store.Save(ctx, conv); err != nil {
		return nil, fmt.Errorf("save conversation %s: %w", conversationID, err)
	}

	o.afterTurn(ctx, conversationID, state)

	reply := ""
	if last, ok := state.LastMessage(); ok {
		reply = last.Content
	}
	return &TurnResult{
		ConversationID: conversationID,
		InvocationID:   invocationID,
		Messages:       state.Messages,
		Trace:          state.Trace,
		Reply:          reply,
		State:          state,
	}, nil
}

// afterTurn performs post-finalize side effects whose failures must never
// surface to the user: escalation hand-off and ticket note logging.
func (o *Orchestrator) afterTurn(ctx context.Context, conversationID string, state *core.WorkflowState) {
	if state.Escalating() {
		esc := notify.Escalation{
			ConversationID: conversationID,
			TicketID:       state.Ticket.TicketID,
			Packet:         *state.Escalation,
		}
		if err := o.publisher.PublishEscalation(ctx, esc); err != nil {
			o.logger.Warn("workflow.escalation.publish_failed", "conversation_id", conversationID, "error", err.Error())
		}
	}

	if state.Ticket.TicketID == "" {
		return
	}
	reply, ok := state.LastMessage()
	if !ok {
		return
	}
	res := o.registry.Call(ctx, backend.ToolLogTicketNote, map[string]any{
		"ticket_id": state.Ticket.TicketID,
		"content":   reply.Content,
	})
	if !res.OK() {
		o.logger.Debug("workflow.ticket_note.skipped", "ticket_id", state.Ticket.TicketID, "error", res.Err)
	}
}

func (o *Orchestrator) loadHistory(ctx context.Context, conversationID string) ([]core.Message, error) {
	conv, err := o.store.Get(ctx, conversationID)
	if errors.Is(err, core.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return conv.Messages, nil
}

// lockConversation acquires the turn lock for one conversation and returns
// its release func. Different conversation ids run fully concurrently; the
// entry is removed when the last holder releases.
func (o *Orchestrator) lockConversation(conversationID string) func() {
	o.locksMu.Lock()
	l, ok := o.locks[conversationID]
	if !ok {
		l = &turnLock{}
		o.locks[conversationID] = l
	}
	l.refs++
	o.locksMu.Unlock()

	l.mu.Lock()
	return func() {
		l.mu.Unlock()
		o.locksMu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(o.locks, conversationID)
		}
		o.locksMu.Unlock()
	}
}

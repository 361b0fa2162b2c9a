package session

import (
	"fmt"
	"strings"
	"sync"

	"github.com/scherbius/enigma/internal/enigma"
	"github.com/scherbius/enigma/internal/model"
	"github.com/scherbius/enigma/internal/store"
)

// Message is the outcome of one Encode call: the logical sequence
// number, the text in and out, the window movement, and the per-symbol
// traces.
type Message struct {
	Seq          int64
	Input        string
	Output       string
	WindowBefore string
	WindowAfter  string
	Traces       []*enigma.SignalTrace
}

// Session binds one machine to one caller-visible token and serializes
// access to it. One Session = one mutable Machine; concurrent Encode
// calls from multiple goroutines are safe but processed one at a time.
type Session struct {
	mu      sync.Mutex
	token   string
	spec    *model.MachineSpec
	machine *enigma.Machine
	clock   *Clock
}

// New validates the request against the machine definition, builds the
// configuration, and opens a session around it. On validation failure
// nothing is constructed.
func New(spec *model.MachineSpec, req enigma.Request, gen TokenGenerator) (*Session, error) {
	code, err := enigma.NewCode(spec, req)
	if err != nil {
		return nil, err
	}

	machine := enigma.NewMachine()
	machine.Configure(code)

	return &Session{
		token:   gen.Generate(),
		spec:    spec,
		machine: machine,
		clock:   NewClock(),
	}, nil
}

// Token returns the session token.
func (s *Session) Token() string {
	return s.token
}

// Machine returns the machine definition name this session runs on.
func (s *Session) Machine() string {
	return s.spec.Name
}

// Alphabet returns the machine definition's alphabet.
func (s *Session) Alphabet() *model.Alphabet {
	return s.spec.Alphabet
}

// Encode processes a whole message and stamps it with the next logical
// sequence number. Symbols outside the alphabet are rejected; use
// Normalize first for free-form text.
func (s *Session) Encode(text string) (Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	windowBefore := s.machine.Code().Window()
	output, traces, err := s.machine.ProcessText(text)
	if err != nil {
		return Message{}, fmt.Errorf("encode: %w", err)
	}

	return Message{
		Seq:          s.clock.Next(),
		Input:        text,
		Output:       output,
		WindowBefore: windowBefore,
		WindowAfter:  s.machine.Code().Window(),
		Traces:       traces,
	}, nil
}

// Resume advances a freshly configured session past messages already
// recorded under its token: every stored input is re-processed so the
// rotors end where the last run left them, and the clock continues
// from the last stored seq instead of restarting at 1. Stored outputs
// are checked along the way; a mismatch means the machine definition
// or the history changed, and the session must not continue.
//
// The messages must be in seq order, as returned by ReadMessages.
func (s *Session) Resume(messages []store.MessageRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, m := range messages {
		output, _, err := s.machine.ProcessText(m.Input)
		if err != nil {
			return fmt.Errorf("resume seq %d: %w", m.Seq, err)
		}
		if output != m.Output {
			return fmt.Errorf("resume seq %d: stored output %s does not replay (got %s)", m.Seq, m.Output, output)
		}
	}
	if n := len(messages); n > 0 {
		s.clock = NewClockAt(messages[n-1].Seq)
	}
	return nil
}

// Reset restores the machine to its as-configured rotor positions.
// The logical clock keeps counting; reset does not rewrite history.
func (s *Session) Reset() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.machine.Reset()
}

// Window returns the current window string.
func (s *Session) Window() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.machine.Code().Window()
}

// Record converts the session's configuration into its persistent form.
func (s *Session) Record() (store.SessionRecord, error) {
	specHash, err := model.SpecHash(s.spec)
	if err != nil {
		return store.SessionRecord{}, fmt.Errorf("session record: %w", err)
	}
	req := s.machine.Code().Request()
	return store.SessionRecord{
		Token:         s.token,
		Machine:       s.spec.Name,
		SpecHash:      specHash,
		RotorIDs:      req.RotorIDs,
		Positions:     req.Positions,
		ReflectorID:   req.ReflectorID,
		Plugboard:     req.Plugboard,
		EngineVersion: model.EngineVersion,
	}, nil
}

// MessageRecord converts one encoded message into its persistent form,
// with a content-addressed id and versioned canonical trace JSON.
func (s *Session) MessageRecord(msg Message) (store.MessageRecord, error) {
	id, err := model.MessageID(s.token, msg.Seq, msg.Input, msg.Output)
	if err != nil {
		return store.MessageRecord{}, fmt.Errorf("message record: %w", err)
	}

	traces := make([]any, len(msg.Traces))
	for i, t := range msg.Traces {
		traces[i] = t.ToCanonical()
	}
	traceJSON, err := model.MarshalCanonical(map[string]any{
		"version": model.TraceVersion,
		"events":  traces,
	})
	if err != nil {
		return store.MessageRecord{}, fmt.Errorf("message record: %w", err)
	}

	return store.MessageRecord{
		ID:           id,
		SessionToken: s.token,
		Seq:          msg.Seq,
		Input:        msg.Input,
		Output:       msg.Output,
		WindowBefore: msg.WindowBefore,
		WindowAfter:  msg.WindowAfter,
		TraceJSON:    string(traceJSON),
	}, nil
}

// Normalize uppercases free-form text and drops every symbol that is
// not in the machine's alphabet. What to do with unencodable symbols is
// a policy decision, and this is the policy: silently dropping them
// matches how operators handled spaces and punctuation.
func Normalize(alphabet *model.Alphabet, text string) string {
	upper := strings.ToUpper(text)
	var b strings.Builder
	for _, r := range upper {
		if alphabet.Contains(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Manager is a registry of live sessions keyed by token.
//
// The Manager only guards its own map; each Session guards its machine.
type Manager struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	gen      TokenGenerator
}

// NewManager creates an empty registry using the given token generator.
func NewManager(gen TokenGenerator) *Manager {
	return &Manager{
		sessions: make(map[string]*Session),
		gen:      gen,
	}
}

// Create opens a new session for the request and registers it.
func (m *Manager) Create(spec *model.MachineSpec, req enigma.Request) (*Session, error) {
	s, err := New(spec, req, m.gen)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[s.Token()] = s
	return s, nil
}

// Get returns the session for a token, or false if unknown.
func (m *Manager) Get(token string) (*Session, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[token]
	return s, ok
}

// Remove drops a session from the registry.
func (m *Manager) Remove(token string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, token)
}

// Len returns the number of live sessions.
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

package chi

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/kailas-cloud/ocrdesk/internal/domain"
	domdoc "github.com/kailas-cloud/ocrdesk/internal/domain/document"
	"github.com/kailas-cloud/ocrdesk/internal/metrics"
)

var (
	errUserExists         = errors.New("user already exists")
	errInvalidCredentials = errors.New("invalid credentials")
)

type user struct {
	id       string
	username string
	email    string
	hash     []byte
}

// record is a stored document plus the text its OCR job will produce.
type record struct {
	id            string
	ownerID       string
	title         string
	originalName  string
	fileType      string
	fileSize      int64
	status        domdoc.Status
	extractedText string
	pendingText   string
	pages         int
	content       []byte
	createdAt     time.Time
}

// Store is the in-memory state of the stub service.
type Store struct {
	mu         sync.RWMutex
	users      map[string]*user // by lower-cased email
	tokens     map[string]string
	docs       map[string]*record
	now        func() time.Time
	bcryptCost int
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		users:      make(map[string]*user),
		tokens:     make(map[string]string),
		docs:       make(map[string]*record),
		now:        time.Now,
		bcryptCost: bcrypt.DefaultCost,
	}
}

// WithBcryptCost overrides the password hashing cost.
func (s *Store) WithBcryptCost(cost int) *Store {
	s.bcryptCost = cost
	return s
}

// Register creates a user and issues a token.
func (s *Store) Register(username, email, password string) (string, user, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return "", user{}, fmt.Errorf("hash password: %w", err)
	}
	key := strings.ToLower(email)

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[key]; ok {
		return "", user{}, errUserExists
	}
	for _, u := range s.users {
		if u.username == username {
			return "", user{}, errUserExists
		}
	}
	u := &user{id: uuid.NewString(), username: username, email: email, hash: hash}
	s.users[key] = u
	token := s.issueLocked(u.id)
	return token, *u, nil
}

// Login checks credentials and issues a token.
func (s *Store) Login(email, password string) (string, user, error) {
	s.mu.RLock()
	u, ok := s.users[strings.ToLower(email)]
	s.mu.RUnlock()
	if !ok {
		return "", user{}, errInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword(u.hash, []byte(password)); err != nil {
		return "", user{}, errInvalidCredentials
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.issueLocked(u.id), *u, nil
}

func (s *Store) issueLocked(userID string) string {
	token := strings.ReplaceAll(uuid.NewString(), "-", "") + strings.ReplaceAll(uuid.NewString(), "-", "")
	s.tokens[token] = userID
	return token
}

// UserByToken resolves a bearer token to a user ID.
func (s *Store) UserByToken(token string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.tokens[token]
	return id, ok
}

// User returns a user by ID.
func (s *Store) User(id string) (user, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if u.id == id {
			return *u, true
		}
	}
	return user{}, false
}

// Add stores a new document and returns it.
func (s *Store) Add(rec record) record {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec.id = uuid.NewString()
	rec.createdAt = s.now()
	if rec.status == "" {
		rec.status = domdoc.StatusPending
	}
	s.docs[rec.id] = &rec
	if rec.status == domdoc.StatusFailed {
		metrics.OCRJobsTotal.WithLabelValues(string(domdoc.StatusFailed)).Inc()
	}
	return rec
}

// Get returns a document owned by ownerID.
func (s *Store) Get(ownerID, id string) (record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.docs[id]
	if !ok || rec.ownerID != ownerID {
		return record{}, fmt.Errorf("document %s: %w", id, domain.ErrNotFound)
	}
	return *rec, nil
}

// Delete removes a document owned by ownerID.
func (s *Store) Delete(ownerID, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.docs[id]
	if !ok || rec.ownerID != ownerID {
		return fmt.Errorf("document %s: %w", id, domain.ErrNotFound)
	}
	delete(s.docs, id)
	return nil
}

// List returns the owner's documents matching search, newest first.
// An empty search matches everything; matching is case-insensitive on
// title, original name and extracted text.
func (s *Store) List(ownerID, search string) []record {
	needle := strings.ToLower(strings.TrimSpace(search))

	s.mu.RLock()
	out := make([]record, 0, len(s.docs))
	for _, rec := range s.docs {
		if rec.ownerID != ownerID || !rec.matches(needle) {
			continue
		}
		out = append(out, *rec)
	}
	s.mu.RUnlock()

	slices.SortFunc(out, func(a, b record) int {
		if c := b.createdAt.Compare(a.createdAt); c != 0 {
			return c
		}
		return strings.Compare(a.id, b.id)
	})
	return out
}

func (r *record) matches(needle string) bool {
	if needle == "" {
		return true
	}
	return strings.Contains(strings.ToLower(r.title), needle) ||
		strings.Contains(strings.ToLower(r.originalName), needle) ||
		strings.Contains(strings.ToLower(r.extractedText), needle)
}

// Advance moves every unfinished OCR job one step:
// pending becomes processing, processing becomes completed.
// Returns the number of documents changed.
func (s *Store) Advance() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	changed := 0
	for _, rec := range s.docs {
		switch rec.status {
		case domdoc.StatusPending:
			rec.status = domdoc.StatusProcessing
		case domdoc.StatusProcessing:
			rec.status = domdoc.StatusCompleted
			rec.extractedText = rec.pendingText
			metrics.OCRJobsTotal.WithLabelValues(string(domdoc.StatusCompleted)).Inc()
		default:
			continue
		}
		changed++
	}
	return changed
}

// Content returns the stored file bytes of a document.
func (s *Store) Content(ownerID, id string) ([]byte, string, error) {
	rec, err := s.Get(ownerID, id)
	if err != nil {
		return nil, "", err
	}
	return rec.content, rec.fileType, nil
}

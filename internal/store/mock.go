package store

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"time"

	"github.com/DCParty/senior-scheduler/internal/kv"
	"github.com/DCParty/senior-scheduler/internal/model"
)

// MockSignInDelay simulates provider latency on the mocked sign-in.
const MockSignInDelay = 600 * time.Millisecond

// Mock is the local store plus a mocked identity. Appointments behave
// exactly like Local; sign-in resolves a canned identity after a fixed
// delay and persists it in its own slot across restarts.
type Mock struct {
	*Local
	db *kv.DB

	mu       sync.Mutex
	identity *model.Identity
	signing  bool
}

func NewMock(db *kv.DB) (*Mock, error) {
	local, err := NewLocal(db)
	if err != nil {
		return nil, err
	}
	m := &Mock{Local: local, db: db}
	raw, ok, err := db.Get(slotIdentity)
	if err != nil {
		return nil, err
	}
	if ok {
		var id model.Identity
		if jerr := json.Unmarshal([]byte(raw), &id); jerr == nil && id.Email != "" {
			m.identity = &id
		}
	}
	return m, nil
}

func (m *Mock) SignIn(ctx context.Context, email, password string) (model.Identity, error) {
	if email == "" {
		return model.Identity{}, &AuthError{Reason: "email required"}
	}

	m.mu.Lock()
	if m.signing {
		m.mu.Unlock()
		return model.Identity{}, &AuthError{Reason: "sign-in already in progress"}
	}
	m.signing = true
	m.mu.Unlock()
	defer func() {
		m.mu.Lock()
		m.signing = false
		m.mu.Unlock()
	}()

	select {
	case <-time.After(MockSignInDelay):
	case <-ctx.Done():
		return model.Identity{}, &AuthError{Reason: ctx.Err().Error()}
	}

	name := email
	if i := strings.IndexByte(email, '@'); i > 0 {
		name = email[:i]
	}
	id := model.Identity{
		DisplayName: name,
		Email:       email,
		AvatarRef:   "mock://avatar/" + name,
	}

	raw, err := json.Marshal(id)
	if err != nil {
		return model.Identity{}, err
	}
	if err := m.db.Put(slotIdentity, string(raw)); err != nil {
		return model.Identity{}, err
	}

	m.mu.Lock()
	m.identity = &id
	m.mu.Unlock()
	return id, nil
}

func (m *Mock) SignOut(ctx context.Context) error {
	if err := m.db.Delete(slotIdentity); err != nil {
		return err
	}
	m.mu.Lock()
	m.identity = nil
	m.mu.Unlock()
	return nil
}

func (m *Mock) Identity() (model.Identity, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.identity == nil {
		return model.Identity{}, false
	}
	return *m.identity, true
}

package session

import (
	"context"
	"errors"
	"log"
	"sync"

	"mago-agent/internal/gateway"
	"mago-agent/internal/models"
)

var ErrUnknownAccount = errors.New("conta não encontrada")

// State is everything that must survive a restart: the remembered
// accounts and which of them is active. Active is either empty or the
// email of a member of Users - never anything else.
type State struct {
	Users  []models.UserIdentity
	Active string
}

// Store is the persistence port behind the manager. The original system
// kept this state in browser localStorage; any durable key-value store
// satisfies the same contract.
type Store interface {
	Read() (State, error)
	Write(State) error
	Clear() error
}

// Manager tracks the remembered accounts and the active one, enforcing the
// membership invariant at every transition.
type Manager struct {
	gw    *gateway.Client
	store Store

	mu    sync.Mutex
	state State
}

// NewManager loads the persisted state. An active pointer that no longer
// references a remembered account is cleared on the way in.
func NewManager(gw *gateway.Client, store Store) (*Manager, error) {
	state, err := store.Read()
	if err != nil {
		return nil, err
	}
	if state.Active != "" && findIdentity(state.Users, state.Active) == nil {
		state.Active = ""
	}
	return &Manager{gw: gw, store: store, state: state}, nil
}

type loginRequest struct {
	Token    string `json:"token"`
	Email    string `json:"email,omitempty"`
	Password string `json:"password,omitempty"`
}

type loginResponse struct {
	User models.UserIdentity `json:"user"`
}

// Login exchanges the OAuth token (plus the optional credential pair the
// login form collects) with the backend and remembers the identity it
// returns, making it active.
func (m *Manager) Login(ctx context.Context, token, email, password string) (models.UserIdentity, error) {
	var resp loginResponse
	err := m.gw.Send(ctx, "POST", "/auth/google", loginRequest{Token: token, Email: email, Password: password}, &resp)
	if err != nil {
		return models.UserIdentity{}, err
	}
	if resp.User.Email == "" {
		return models.UserIdentity{}, &gateway.Error{Kind: gateway.KindDecode, Message: "Resposta inesperada da API."}
	}

	m.Adopt(resp.User)
	return resp.User, nil
}

// Adopt upserts the identity into the remembered set (replacing any prior
// entry with the same email) and makes it active.
func (m *Manager) Adopt(user models.UserIdentity) {
	m.mu.Lock()
	defer m.mu.Unlock()

	kept := m.state.Users[:0]
	for _, u := range m.state.Users {
		if u.Email != user.Email {
			kept = append(kept, u)
		}
	}
	m.state.Users = append(kept, user)
	m.state.Active = user.Email
	m.persist()
}

// Switch makes an already remembered account the active one.
func (m *Manager) Switch(email string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if findIdentity(m.state.Users, email) == nil {
		return ErrUnknownAccount
	}
	m.state.Active = email
	m.persist()
	return nil
}

// Logout forgets the given account. If other accounts remain, one of them
// is promoted to active; otherwise the active pointer is cleared.
func (m *Manager) Logout(email string) (models.UserIdentity, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	kept := m.state.Users[:0]
	for _, u := range m.state.Users {
		if u.Email != email {
			kept = append(kept, u)
		}
	}
	m.state.Users = kept

	if m.state.Active == email {
		m.state.Active = ""
		if len(m.state.Users) > 0 {
			m.state.Active = m.state.Users[0].Email
		}
	}
	m.persist()

	if m.state.Active == "" {
		return models.UserIdentity{}, false
	}
	return *findIdentity(m.state.Users, m.state.Active), true
}

// Active returns the current session owner, if any.
func (m *Manager) Active() (models.UserIdentity, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state.Active == "" {
		return models.UserIdentity{}, false
	}
	return *findIdentity(m.state.Users, m.state.Active), true
}

// Accounts returns a copy of the remembered set.
func (m *Manager) Accounts() []models.UserIdentity {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]models.UserIdentity, len(m.state.Users))
	copy(out, m.state.Users)
	return out
}

// persist writes the state through the store. The in-memory state stays
// authoritative for this process even if the write fails.
func (m *Manager) persist() {
	if len(m.state.Users) == 0 && m.state.Active == "" {
		if err := m.store.Clear(); err != nil {
			log.Printf("session: clear failed: %v", err)
		}
		return
	}
	if err := m.store.Write(m.state); err != nil {
		log.Printf("session: persist failed: %v", err)
	}
}

func findIdentity(users []models.UserIdentity, email string) *models.UserIdentity {
	for i := range users {
		if users[i].Email == email {
			return &users[i]
		}
	}
	return nil
}

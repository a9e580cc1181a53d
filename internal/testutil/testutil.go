// Package testutil holds the in-memory database and collaborator fakes shared by tests.
package testutil

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"

	"github.com/core-coin/ostiarius/internal/models"
	"github.com/core-coin/ostiarius/internal/repository"
	"github.com/core-coin/ostiarius/pkg/logger"
)

var dbSeq atomic.Int64

// NewRepository returns a migrated repository backed by a private in-memory SQLite database.
func NewRepository(t *testing.T) *repository.GormDB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", name, dbSeq.Add(1))
	db, err := repository.NewFromDialector(sqlite.Open(dsn), logger.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

// Membership is a scripted models.Membership.
type Membership struct {
	mu sync.Mutex

	States     map[int64]models.MemberState
	StatusErr  map[int64]error
	RemoveErr  map[int64]error
	RestoreErr map[int64]error

	Removed  []int64
	Restored []int64
}

func NewMembership() *Membership {
	return &Membership{
		States:     map[int64]models.MemberState{},
		StatusErr:  map[int64]error{},
		RemoveErr:  map[int64]error{},
		RestoreErr: map[int64]error{},
	}
}

func (m *Membership) Status(_ context.Context, userID int64) (models.MemberState, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.StatusErr[userID]; err != nil {
		return 0, err
	}
	return m.States[userID], nil
}

func (m *Membership) Remove(_ context.Context, userID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Removed = append(m.Removed, userID)
	if err := m.RemoveErr[userID]; err != nil {
		return err
	}
	m.States[userID] = models.MemberKicked
	return nil
}

func (m *Membership) Restore(_ context.Context, userID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Restored = append(m.Restored, userID)
	if err := m.RestoreErr[userID]; err != nil {
		return err
	}
	if m.States[userID] == models.MemberKicked {
		m.States[userID] = models.MemberLeft
	}
	return nil
}

// Message is one recorded outbound message.
type Message struct {
	ChatID   int64
	Text     string
	PhotoRef string
	Actions  [][]models.Action
}

// Messenger is a recording models.Messenger with per-recipient failures.
type Messenger struct {
	mu sync.Mutex

	Fail map[int64]error
	Sent []Message
	// Attempts counts every call, including failed ones.
	Attempts int
}

func NewMessenger() *Messenger {
	return &Messenger{Fail: map[int64]error{}}
}

func (m *Messenger) SendMessage(_ context.Context, chatID int64, text string) error {
	return m.record(Message{ChatID: chatID, Text: text})
}

func (m *Messenger) SendPhotoWithActions(_ context.Context, chatID int64, photoRef, caption string, actions [][]models.Action) error {
	return m.record(Message{ChatID: chatID, Text: caption, PhotoRef: photoRef, Actions: actions})
}

func (m *Messenger) record(msg Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Attempts++
	if err := m.Fail[msg.ChatID]; err != nil {
		return err
	}
	m.Sent = append(m.Sent, msg)
	return nil
}

// To returns the messages delivered to chatID.
func (m *Messenger) To(chatID int64) []Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []Message
	for _, msg := range m.Sent {
		if msg.ChatID == chatID {
			out = append(out, msg)
		}
	}
	return out
}

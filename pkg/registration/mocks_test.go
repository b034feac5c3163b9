package registration

import (
	"context"

	"github.com/sharktamer/gtsnotifier/pkg/gts"
	"github.com/sharktamer/gtsnotifier/pkg/watch"
)

// MockStore is a mock implementation of Store
type MockStore struct {
	EntryExistsFunc func(ctx context.Context, profileID string) (bool, error)
	CreateEntryFunc func(ctx context.Context, entry *watch.Entry) error
	GetEntryFunc    func(ctx context.Context, profileID string) (*watch.Entry, error)
	DeleteEntryFunc func(ctx context.Context, profileID string) error

	Created []*watch.Entry
	Deleted []string
}

func (m *MockStore) EntryExists(ctx context.Context, profileID string) (bool, error) {
	if m.EntryExistsFunc != nil {
		return m.EntryExistsFunc(ctx, profileID)
	}
	return false, nil
}

func (m *MockStore) CreateEntry(ctx context.Context, entry *watch.Entry) error {
	if m.CreateEntryFunc != nil {
		if err := m.CreateEntryFunc(ctx, entry); err != nil {
			return err
		}
	}
	m.Created = append(m.Created, entry)
	return nil
}

func (m *MockStore) GetEntry(ctx context.Context, profileID string) (*watch.Entry, error) {
	if m.GetEntryFunc != nil {
		return m.GetEntryFunc(ctx, profileID)
	}
	return nil, nil
}

func (m *MockStore) DeleteEntry(ctx context.Context, profileID string) error {
	if m.DeleteEntryFunc != nil {
		if err := m.DeleteEntryFunc(ctx, profileID); err != nil {
			return err
		}
	}
	m.Deleted = append(m.Deleted, profileID)
	return nil
}

// MockProfileFetcher is a mock implementation of ProfileFetcher
type MockProfileFetcher struct {
	FetchProfilePageFunc func(ctx context.Context, profileID string) (*gts.ProfilePage, error)
}

func (m *MockProfileFetcher) FetchProfilePage(ctx context.Context, profileID string) (*gts.ProfilePage, error) {
	if m.FetchProfilePageFunc != nil {
		return m.FetchProfilePageFunc(ctx, profileID)
	}
	return nil, nil
}

// MockDispatcher is a mock implementation of notify.Dispatcher
type MockDispatcher struct {
	ChannelKind  watch.Channel
	SendFunc     func(ctx context.Context, destination, message string) error
	ValidateFunc func(ctx context.Context, destination string) error

	Sent map[string][]string
}

func (m *MockDispatcher) Channel() watch.Channel {
	return m.ChannelKind
}

func (m *MockDispatcher) Send(ctx context.Context, destination, message string) error {
	if m.SendFunc != nil {
		if err := m.SendFunc(ctx, destination, message); err != nil {
			return err
		}
	}
	if m.Sent == nil {
		m.Sent = make(map[string][]string)
	}
	m.Sent[destination] = append(m.Sent[destination], message)
	return nil
}

func (m *MockDispatcher) Validate(ctx context.Context, destination string) error {
	if m.ValidateFunc != nil {
		return m.ValidateFunc(ctx, destination)
	}
	return nil
}

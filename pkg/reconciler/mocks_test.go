package reconciler

import (
	"context"
	"sync"

	"github.com/sharktamer/gtsnotifier/pkg/gts"
	"github.com/sharktamer/gtsnotifier/pkg/watch"
)

// MockStore is a mock implementation of Store
type MockStore struct {
	mu sync.Mutex

	ListEntriesFunc     func(ctx context.Context) ([]*watch.Entry, error)
	UpdateWatermarkFunc func(ctx context.Context, profileID, watermark string) error

	// Updates records every UpdateWatermark call as profileID -> watermark.
	Updates map[string]string
}

func (m *MockStore) ListEntries(ctx context.Context) ([]*watch.Entry, error) {
	if m.ListEntriesFunc != nil {
		return m.ListEntriesFunc(ctx)
	}
	return nil, nil
}

func (m *MockStore) UpdateWatermark(ctx context.Context, profileID, watermark string) error {
	m.mu.Lock()
	if m.Updates == nil {
		m.Updates = make(map[string]string)
	}
	m.Updates[profileID] = watermark
	m.mu.Unlock()

	if m.UpdateWatermarkFunc != nil {
		return m.UpdateWatermarkFunc(ctx, profileID, watermark)
	}
	return nil
}

// MockFetcher is a mock implementation of TradeFetcher
type MockFetcher struct {
	FetchTradeStateFunc func(ctx context.Context, query gts.TradeQuery) (*gts.TradeResult, error)
}

func (m *MockFetcher) FetchTradeState(ctx context.Context, query gts.TradeQuery) (*gts.TradeResult, error) {
	if m.FetchTradeStateFunc != nil {
		return m.FetchTradeStateFunc(ctx, query)
	}
	return nil, nil
}

// MockDispatcher is a mock implementation of notify.Dispatcher
type MockDispatcher struct {
	mu sync.Mutex

	ChannelKind  watch.Channel
	SendFunc     func(ctx context.Context, destination, message string) error
	ValidateFunc func(ctx context.Context, destination string) error

	// Sent records every successful Send call as destination -> messages.
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
	m.mu.Lock()
	if m.Sent == nil {
		m.Sent = make(map[string][]string)
	}
	m.Sent[destination] = append(m.Sent[destination], message)
	m.mu.Unlock()
	return nil
}

func (m *MockDispatcher) Validate(ctx context.Context, destination string) error {
	if m.ValidateFunc != nil {
		return m.ValidateFunc(ctx, destination)
	}
	return nil
}

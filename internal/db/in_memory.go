package db

import (
	"context"
	"sync"

	"github.com/signspeak/rt-glove-wrapper/internal/domain"
)

// MemoryStore keeps device settings in process memory. Used when no redis
// URL is configured, settings then live as long as the service does.
type MemoryStore struct {
	settings map[string]*domain.DeviceSettings

	lock sync.RWMutex
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{settings: make(map[string]*domain.DeviceSettings)}
}

// GetSettings implements SettingsStore. Unknown devices get empty settings.
func (m *MemoryStore) GetSettings(ctx context.Context, device string) (*domain.DeviceSettings, error) {
	m.lock.RLock()
	defer m.lock.RUnlock()
	data, ok := m.settings[device]
	if !ok {
		return &domain.DeviceSettings{ID: device}, nil
	}
	cp := *data
	return &cp, nil
}

// SaveSettings implements SettingsStore.
func (m *MemoryStore) SaveSettings(ctx context.Context, settings *domain.DeviceSettings) error {
	m.lock.Lock()
	defer m.lock.Unlock()
	cp := *settings
	m.settings[settings.ID] = &cp
	return nil
}

func (m *MemoryStore) Close() error {
	return nil
}

package tui

import (
	"fmt"

	"github.com/1broseidon/snapzone/internal/ipc"
	"github.com/1broseidon/snapzone/internal/zones"
)

// Source is where the browser reads and edits zone layouts.
type Source interface {
	ListZoneLayouts() (*ipc.ZoneLayoutsData, error)
	SaveZoneLayout(l zones.Layout) error
	DeleteZoneLayout(id string) error
	SetActiveLayout(id string) error
}

// storeSource edits the layout file directly when no daemon is running.
type storeSource struct {
	store *zones.Store
}

func (s storeSource) ListZoneLayouts() (*ipc.ZoneLayoutsData, error) {
	layouts, err := s.store.List()
	if err != nil {
		return nil, err
	}
	data := &ipc.ZoneLayoutsData{Layouts: layouts}
	if id, ok, err := s.store.ActiveLayoutID(); err == nil && ok {
		data.ActiveLayoutID = id
	}
	return data, nil
}

func (s storeSource) SaveZoneLayout(l zones.Layout) error { return s.store.Save(l) }
func (s storeSource) DeleteZoneLayout(id string) error    { return s.store.Delete(id) }

func (s storeSource) SetActiveLayout(id string) error {
	if id == "" {
		return s.store.ClearActive()
	}
	return s.store.SetActive(id)
}

// OpenSource picks the running daemon when client answers, otherwise the
// layout file at storePath. connected reports which one was chosen.
func OpenSource(client *ipc.Client, storePath string) (src Source, connected bool, err error) {
	if client != nil && client.Ping() == nil {
		return client, true, nil
	}
	if storePath == "" {
		return nil, false, fmt.Errorf("daemon not running and no zone layout file configured")
	}
	return storeSource{store: zones.NewStore(storePath)}, false, nil
}

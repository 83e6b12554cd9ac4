// internal/state/catalog.go
package state

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/user/weft/internal/types"
)

// Catalog is a JSON-file-backed session index. It stores catalog entries in
// sessions/sessions.json and creates per-session directories at
// sessions/<sessionID>/.
type Catalog struct {
	root string
	mu   sync.RWMutex
}

// NewCatalog creates a file-backed Catalog rooted at the given directory.
func NewCatalog(root string) *Catalog {
	return &Catalog{root: root}
}

func (c *Catalog) indexPath() string {
	return filepath.Join(c.root, "sessions", "sessions.json")
}

func (c *Catalog) sessionDir(id types.SessionID) string {
	return filepath.Join(c.root, "sessions", string(id))
}

func (c *Catalog) loadIndex() (map[types.SessionKey]*types.SessionInfo, error) {
	data, err := os.ReadFile(c.indexPath())
	if err != nil {
		if os.IsNotExist(err) {
			return make(map[types.SessionKey]*types.SessionInfo), nil
		}
		return nil, fmt.Errorf("read session index: %w", err)
	}

	var sessions []*types.SessionInfo
	if err := json.Unmarshal(data, &sessions); err != nil {
		return nil, fmt.Errorf("unmarshal session index: %w", err)
	}

	index := make(map[types.SessionKey]*types.SessionInfo, len(sessions))
	for _, info := range sessions {
		index[info.SessionKey] = info
	}
	return index, nil
}

// saveIndex marshals the index with indentation and writes atomically.
func (c *Catalog) saveIndex(index map[types.SessionKey]*types.SessionInfo) error {
	sessions := make([]*types.SessionInfo, 0, len(index))
	for _, info := range index {
		sessions = append(sessions, info)
	}

	data, err := json.MarshalIndent(sessions, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal session index: %w", err)
	}

	if err := os.MkdirAll(filepath.Join(c.root, "sessions"), 0o755); err != nil {
		return fmt.Errorf("create sessions dir: %w", err)
	}

	tmp := c.indexPath() + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write temp index: %w", err)
	}
	if err := os.Rename(tmp, c.indexPath()); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("rename temp index: %w", err)
	}
	return nil
}

// ResolveOrCreate returns the SessionID for the given key, creating a new
// catalog entry if needed.
func (c *Catalog) ResolveOrCreate(_ context.Context, key types.SessionKey, agent string) (types.SessionID, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	index, err := c.loadIndex()
	if err != nil {
		return "", err
	}

	if existing, ok := index[key]; ok {
		return existing.SessionID, nil
	}

	now := time.Now()
	id := types.NewSessionID()
	index[key] = &types.SessionInfo{
		SessionID:  id,
		SessionKey: key,
		Agent:      agent,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := c.saveIndex(index); err != nil {
		return "", err
	}
	if err := os.MkdirAll(c.sessionDir(id), 0o755); err != nil {
		return "", fmt.Errorf("create session dir: %w", err)
	}
	return id, nil
}

// Get returns the catalog entry with the given session id.
func (c *Catalog) Get(_ context.Context, id types.SessionID) (*types.SessionInfo, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	index, err := c.loadIndex()
	if err != nil {
		return nil, err
	}
	for _, info := range index {
		if info.SessionID == id {
			return info, nil
		}
	}
	return nil, fmt.Errorf("session not found: %s", id)
}

// List returns all catalog entries.
func (c *Catalog) List(_ context.Context) ([]*types.SessionInfo, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	index, err := c.loadIndex()
	if err != nil {
		return nil, err
	}
	sessions := make([]*types.SessionInfo, 0, len(index))
	for _, info := range index {
		sessions = append(sessions, info)
	}
	return sessions, nil
}

// Touch updates a session's preview and bumps its UpdatedAt.
func (c *Catalog) Touch(_ context.Context, id types.SessionID, preview string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	index, err := c.loadIndex()
	if err != nil {
		return err
	}
	for _, info := range index {
		if info.SessionID == id {
			if preview != "" {
				info.Preview = preview
			}
			info.UpdatedAt = time.Now()
			return c.saveIndex(index)
		}
	}
	return fmt.Errorf("session not found: %s", id)
}

// internal/state/transcript.go
package state

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/user/weft/internal/types"
)

// TranscriptStore is a JSONL-backed append-only event store. Events are
// stored per-session in sessions/<sessionID>/events.jsonl.
type TranscriptStore struct {
	root  string
	mu    sync.Mutex
	locks map[types.SessionID]*sync.Mutex
}

// NewTranscriptStore creates a file-backed TranscriptStore rooted at the
// given directory.
func NewTranscriptStore(root string) *TranscriptStore {
	return &TranscriptStore{
		root:  root,
		locks: make(map[types.SessionID]*sync.Mutex),
	}
}

func (t *TranscriptStore) getLock(id types.SessionID) *sync.Mutex {
	t.mu.Lock()
	defer t.mu.Unlock()

	if lock, ok := t.locks[id]; ok {
		return lock
	}
	lock := &sync.Mutex{}
	t.locks[id] = lock
	return lock
}

func (t *TranscriptStore) eventsPath(id types.SessionID) string {
	return filepath.Join(t.root, "sessions", string(id), "events.jsonl")
}

// Append adds an event to the session's transcript.
func (t *TranscriptStore) Append(_ context.Context, id types.SessionID, event *types.Event) error {
	lock := t.getLock(id)
	lock.Lock()
	defer lock.Unlock()

	dir := filepath.Dir(t.eventsPath(id))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create session dir: %w", err)
	}

	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	f, err := os.OpenFile(t.eventsPath(id), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open events file: %w", err)
	}
	defer f.Close()

	data = append(data, '\n')
	if _, err := f.Write(data); err != nil {
		return fmt.Errorf("write event: %w", err)
	}
	return nil
}

// Snapshot returns the full ordered event list for the session. Lines that
// fail to decode are skipped rather than failing the read: a displayable
// partial transcript beats a hard error.
func (t *TranscriptStore) Snapshot(_ context.Context, id types.SessionID) ([]*types.Event, error) {
	lock := t.getLock(id)
	lock.Lock()
	defer lock.Unlock()

	f, err := os.Open(t.eventsPath(id))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("open events file: %w", err)
	}
	defer f.Close()

	var events []*types.Event
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for scanner.Scan() {
		var event types.Event
		if err := json.Unmarshal(scanner.Bytes(), &event); err != nil {
			continue
		}
		events = append(events, &event)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan events file: %w", err)
	}
	return events, nil
}

// Count returns the number of transcript lines for the session.
func (t *TranscriptStore) Count(_ context.Context, id types.SessionID) (int64, error) {
	lock := t.getLock(id)
	lock.Lock()
	defer lock.Unlock()

	f, err := os.Open(t.eventsPath(id))
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, fmt.Errorf("open events file: %w", err)
	}
	defer f.Close()

	var count int64
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for scanner.Scan() {
		count++
	}
	if err := scanner.Err(); err != nil {
		return 0, fmt.Errorf("scan events file: %w", err)
	}
	return count, nil
}

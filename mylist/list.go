// Package mylist keeps the user's personal list of saved movies and series.
//
// The list is read once when opened and written back whole after every
// change. Entries are unique by id and display name together, since a movie
// and a series can share a numeric id.
package mylist

import (
	"encoding/json"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/s0up4200/boolflix/tmdb"
)

// Entry is a saved item and the time it was added
type Entry struct {
	tmdb.Item
	AddedAt time.Time `json:"added_at"`
}

// List is the in-memory personal list backed by Storage
type List struct {
	mu      sync.RWMutex
	entries []Entry
	storage Storage
	logger  zerolog.Logger
	now     func() time.Time
}

// Open reads the stored list. Unreadable or corrupt data is logged and the
// list starts empty.
func Open(storage Storage, logger zerolog.Logger) *List {
	l := &List{
		entries: []Entry{},
		storage: storage,
		logger:  logger,
		now:     time.Now,
	}

	data, err := storage.Load()
	if err != nil {
		l.logStorageError(&StorageError{Op: "read", Err: err})
		return l
	}
	if len(data) == 0 {
		return l
	}

	var entries []Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		l.logStorageError(&StorageError{Op: "decode", Err: err})
		return l
	}
	if entries != nil {
		l.entries = entries
	}

	logger.Debug().Int("entries", len(l.entries)).Msg("Loaded my list")
	return l
}

// Add saves item. It returns false when an item with the same identity is
// already on the list.
func (l *List) Add(item tmdb.Item) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.indexOf(item.Identity()) >= 0 {
		return false
	}

	l.entries = append(l.entries, Entry{Item: item, AddedAt: l.now().UTC()})
	l.persist()
	return true
}

// Remove deletes item and reports whether it was on the list
func (l *List) Remove(item tmdb.Item) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	idx := l.indexOf(item.Identity())
	if idx < 0 {
		return false
	}

	l.entries = slices.Delete(l.entries, idx, idx+1)
	l.persist()
	return true
}

// Contains reports whether an item with the same identity is saved
func (l *List) Contains(item tmdb.Item) bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.indexOf(item.Identity()) >= 0
}

// Entries returns the saved entries in insertion order
func (l *List) Entries() []Entry {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return slices.Clone(l.entries)
}

// Items returns the saved items without their timestamps
func (l *List) Items() []tmdb.Item {
	l.mu.RLock()
	defer l.mu.RUnlock()

	items := make([]tmdb.Item, len(l.entries))
	for i, e := range l.entries {
		items[i] = e.Item
	}
	return items
}

// Len returns the number of saved entries
func (l *List) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.entries)
}

// Find returns entries whose display name contains query, ignoring case.
// A blank query matches everything.
func (l *List) Find(query string) []Entry {
	query = strings.ToLower(strings.TrimSpace(query))

	l.mu.RLock()
	defer l.mu.RUnlock()

	found := []Entry{}
	for _, e := range l.entries {
		if strings.Contains(strings.ToLower(e.DisplayName()), query) {
			found = append(found, e)
		}
	}
	return found
}

// Lookup returns the saved entry with the given kind and id
func (l *List) Lookup(kind tmdb.Kind, id int64) (Entry, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	for _, e := range l.entries {
		if e.ID == id && e.Kind == kind {
			return e, true
		}
	}
	return Entry{}, false
}

// Close releases the underlying storage
func (l *List) Close() error {
	return l.storage.Close()
}

func (l *List) indexOf(id tmdb.Identity) int {
	return slices.IndexFunc(l.entries, func(e Entry) bool {
		return e.Identity() == id
	})
}

// persist writes the whole list; the caller holds the write lock
func (l *List) persist() {
	data, err := json.Marshal(l.entries)
	if err != nil {
		l.logStorageError(&StorageError{Op: "encode", Err: err})
		return
	}
	if err := l.storage.Save(data); err != nil {
		l.logStorageError(&StorageError{Op: "write", Err: err})
	}
}

func (l *List) logStorageError(err *StorageError) {
	l.logger.Error().Err(err).Str("op", err.Op).Msg("My list storage error")
}

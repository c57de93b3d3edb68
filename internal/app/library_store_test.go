package app

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/yourusername/streamfetch-go/internal/domain"
)

func sampleRecord(id string) domain.MetadataRecord {
	link := domain.Link{URL: "https://youtu.be/" + id, VideoID: id}
	record := domain.UnavailableRecord(link)
	record.Title = "Title " + id
	return record
}

func samplePlaylist(id string, items int) domain.MetadataRecord {
	record := domain.UnavailableRecord(domain.Link{URL: "https://youtube.com/playlist?list=" + id, PlaylistID: id})
	record.ItemCount = &items
	return record
}

func TestLibrary_ListEmpty(t *testing.T) {
	store := NewLibraryStore(newMockSlots(), "", nil)

	list := store.List()
	assert.NotNil(t, list)
	assert.Empty(t, list)
}

func TestLibrary_AddThenList(t *testing.T) {
	store := NewLibraryStore(newMockSlots(), "lib", nil)

	require.True(t, store.Add(sampleRecord("aaaaaaaaaaa")))
	require.True(t, store.Add(sampleRecord("bbbbbbbbbbb")))

	list := store.List()
	require.Len(t, list, 2)
	assert.Equal(t, "bbbbbbbbbbb", list[0].ID, "newest first")
	assert.Equal(t, "aaaaaaaaaaa", list[1].ID)
	assert.True(t, store.Contains("aaaaaaaaaaa"))
}

func TestLibrary_AddDuplicate(t *testing.T) {
	slots := newMockSlots()
	store := NewLibraryStore(slots, "lib", nil)
	record := sampleRecord("dQw4w9WgXcQ")

	require.True(t, store.Add(record))
	before := store.List()
	puts := slots.puts

	record.Title = "changed"
	assert.False(t, store.Add(record))
	assert.Equal(t, before, store.List())
	assert.Len(t, store.List(), 1)
	assert.Equal(t, puts, slots.puts, "duplicate add must not write")
}

func TestLibrary_AddWriteFailure(t *testing.T) {
	slots := newMockSlots()
	slots.failPut = true
	store := NewLibraryStore(slots, "lib", nil)

	assert.False(t, store.Add(sampleRecord("dQw4w9WgXcQ")))
	slots.failPut = false
	assert.Empty(t, store.List())
}

func TestLibrary_Remove(t *testing.T) {
	store := NewLibraryStore(newMockSlots(), "lib", nil)
	store.Add(sampleRecord("aaaaaaaaaaa"))
	store.Add(sampleRecord("bbbbbbbbbbb"))

	remaining := store.Remove("aaaaaaaaaaa")
	require.Len(t, remaining, 1)
	assert.Equal(t, "bbbbbbbbbbb", remaining[0].ID)
	assert.Equal(t, remaining, store.List())
	assert.False(t, store.Contains("aaaaaaaaaaa"))
}

func TestLibrary_RemoveAbsentIsIdempotent(t *testing.T) {
	slots := newMockSlots()
	store := NewLibraryStore(slots, "lib", nil)
	store.Add(sampleRecord("aaaaaaaaaaa"))
	before := store.List()
	puts := slots.puts

	assert.Equal(t, before, store.Remove("zzzzzzzzzzz"))
	assert.Equal(t, before, store.Remove("zzzzzzzzzzz"))
	assert.Equal(t, puts+2, slots.puts, "remove always rewrites")
}

func TestLibrary_RemoveOnEmptySlotCreatesIt(t *testing.T) {
	slots := newMockSlots()
	store := NewLibraryStore(slots, "lib", nil)

	assert.Empty(t, store.Remove("x"))
	assert.Equal(t, "[]", slots.values["lib"])
}

func TestLibrary_RemoveWriteFailure(t *testing.T) {
	slots := newMockSlots()
	store := NewLibraryStore(slots, "lib", nil)
	store.Add(sampleRecord("aaaaaaaaaaa"))

	slots.failPut = true
	assert.Empty(t, store.Remove("aaaaaaaaaaa"))

	slots.failPut = false
	assert.Len(t, store.List(), 1, "failed write leaves the slot untouched")
}

func TestLibrary_MalformedSlotIsEmpty(t *testing.T) {
	core, logs := observer.New(zap.ErrorLevel)
	slots := newMockSlots()
	slots.values["lib"] = `{"not":"an array"}`
	store := NewLibraryStore(slots, "lib", zap.New(core))

	assert.Empty(t, store.List())
	assert.Equal(t, 1, logs.FilterMessage("Failed to decode library").Len())

	slots.values["lib"] = `not json`
	assert.Empty(t, store.List())

	slots.values["lib"] = `null`
	assert.NotNil(t, store.List())
}

func TestLibrary_ReadFailureIsEmpty(t *testing.T) {
	core, logs := observer.New(zap.ErrorLevel)
	slots := newMockSlots()
	slots.failGet = true
	store := NewLibraryStore(slots, "lib", zap.New(core))

	assert.Empty(t, store.List())
	assert.Equal(t, 1, logs.FilterMessage("Failed to read library").Len())
	assert.Error(t, store.Ping())
}

func TestLibrary_MissingSlotIsNotReported(t *testing.T) {
	core, logs := observer.New(zap.ErrorLevel)
	store := NewLibraryStore(newMockSlots(), "lib", zap.New(core))

	store.List()
	assert.Zero(t, logs.Len())
}

func TestLibrary_RoundTrip(t *testing.T) {
	slots := newMockSlots()
	records := []domain.MetadataRecord{
		samplePlaylist("PL123ABC", 25),
		sampleRecord("dQw4w9WgXcQ"),
	}
	data, err := json.Marshal(records)
	require.NoError(t, err)
	slots.values["lib"] = string(data)

	store := NewLibraryStore(slots, "lib", nil)
	assert.Equal(t, records, store.List())

	// and through the store's own writes
	other := NewLibraryStore(newMockSlots(), "lib", nil)
	for i := len(records) - 1; i >= 0; i-- {
		require.True(t, other.Add(records[i]))
	}
	assert.Equal(t, records, other.List())
}

func TestLibrary_Find(t *testing.T) {
	store := NewLibraryStore(newMockSlots(), "lib", nil)
	store.Add(sampleRecord("aaaaaaaaaaa"))

	found, err := store.Find("aaaaaaaaaaa")
	require.NoError(t, err)
	assert.Equal(t, "Title aaaaaaaaaaa", found.Title)

	_, err = store.Find("nope")
	assert.ErrorIs(t, err, domain.ErrNotInLibrary)
}

func TestLibrary_Toggle(t *testing.T) {
	store := NewLibraryStore(newMockSlots(), "lib", nil)
	record := sampleRecord("aaaaaaaaaaa")

	saved, list := store.Toggle(record)
	assert.True(t, saved)
	assert.Len(t, list, 1)

	saved, list = store.Toggle(record)
	assert.False(t, saved)
	assert.Empty(t, list)
}

func TestLibrary_KeysAreIsolated(t *testing.T) {
	slots := newMockSlots()
	a := NewLibraryStore(slots, "a", nil)
	b := NewLibraryStore(slots, "b", nil)

	a.Add(sampleRecord("aaaaaaaaaaa"))
	assert.Empty(t, b.List())
}

package store

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/mmcdole/termnavi/internal/domain"
	bolt "go.etcd.io/bbolt"
)

// Bucket names
var (
	bucketState   = []byte("state")
	bucketArtists = []byte("artists")
	bucketAlbums  = []byte("albums")
	bucketSongs   = []byte("songs")
)

var allBuckets = [][]byte{bucketState, bucketArtists, bucketAlbums, bucketSongs}

const sessionKey = "session"

var _ domain.Store = (*BoltStore)(nil)

// BoltStore implements domain.Store using BoltDB.
type BoltStore struct {
	db *bolt.DB
	mu sync.RWMutex // Protects memory cache

	// In-memory cache for hot-path reads (promoted on access)
	cache map[string][]byte
}

// NewBoltStore opens (or creates) the database for serverURL under baseDir.
// An empty baseDir yields a memory-only store.
func NewBoltStore(baseDir, serverURL string) (*BoltStore, error) {
	if baseDir == "" {
		// Memory-only mode (no persistence)
		return &BoltStore{cache: make(map[string][]byte)}, nil
	}

	dir := baseDir
	if serverURL != "" {
		dir = filepath.Join(baseDir, hashServerURL(serverURL))
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}

	dbPath := filepath.Join(dir, "termnavi.db")
	db, err := bolt.Open(dbPath, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open bolt db: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		for _, bucket := range allBuckets {
			if _, err := tx.CreateBucketIfNotExists(bucket); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	return &BoltStore{db: db, cache: make(map[string][]byte)}, nil
}

func hashServerURL(serverURL string) string {
	normalized := strings.TrimRight(strings.ToLower(serverURL), "/")
	hash := sha256.Sum256([]byte(normalized))
	return hex.EncodeToString(hash[:6])
}

func (s *BoltStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// === Generic helpers ===

func (s *BoltStore) getRaw(bucket []byte, key string) ([]byte, bool) {
	cacheKey := string(bucket) + ":" + key

	// Check memory cache first
	s.mu.RLock()
	if data, ok := s.cache[cacheKey]; ok {
		s.mu.RUnlock()
		return data, true
	}
	s.mu.RUnlock()

	if s.db == nil {
		return nil, false
	}

	var data []byte
	s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucket)
		if b == nil {
			return nil
		}
		if v := b.Get([]byte(key)); v != nil {
			data = make([]byte, len(v))
			copy(data, v)
		}
		return nil
	})

	if data == nil {
		return nil, false
	}

	// Promote to memory cache
	s.mu.Lock()
	s.cache[cacheKey] = data
	s.mu.Unlock()

	return data, true
}

func (s *BoltStore) get(bucket []byte, key string, dest interface{}) bool {
	data, ok := s.getRaw(bucket, key)
	if !ok {
		return false
	}
	return json.Unmarshal(data, dest) == nil
}

func (s *BoltStore) setRaw(bucket []byte, key string, data []byte) error {
	cacheKey := string(bucket) + ":" + key

	s.mu.Lock()
	s.cache[cacheKey] = data
	s.mu.Unlock()

	if s.db == nil {
		return nil // Memory-only mode
	}

	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucket)
		return b.Put([]byte(key), data)
	})
}

func (s *BoltStore) set(bucket []byte, key string, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return s.setRaw(bucket, key, data)
}

func (s *BoltStore) delete(bucket []byte, key string) {
	s.mu.Lock()
	delete(s.cache, string(bucket)+":"+key)
	s.mu.Unlock()

	if s.db == nil {
		return
	}

	s.db.Update(func(tx *bolt.Tx) error {
		if b := tx.Bucket(bucket); b != nil {
			b.Delete([]byte(key))
		}
		return nil
	})
}

func (s *BoltStore) deletePrefix(bucket []byte, prefix string) {
	s.mu.Lock()
	cachePrefix := string(bucket) + ":" + prefix
	for k := range s.cache {
		if strings.HasPrefix(k, cachePrefix) {
			delete(s.cache, k)
		}
	}
	s.mu.Unlock()

	if s.db == nil {
		return
	}

	s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucket)
		if b == nil {
			return nil
		}
		// Collect first: deleting under an open cursor skips keys
		var keys [][]byte
		c := b.Cursor()
		for k, _ := c.Seek([]byte(prefix)); k != nil && strings.HasPrefix(string(k), prefix); k, _ = c.Next() {
			keys = append(keys, append([]byte(nil), k...))
		}
		for _, k := range keys {
			if err := b.Delete(k); err != nil {
				return err
			}
		}
		return nil
	})
}

// === Session snapshot ===

// LoadSession returns the raw persisted session document
func (s *BoltStore) LoadSession() ([]byte, bool) {
	return s.getRaw(bucketState, sessionKey)
}

// SaveSession replaces the persisted session document
func (s *BoltStore) SaveSession(doc []byte) error {
	return s.setRaw(bucketState, sessionKey, doc)
}

// === Artists ===

func (s *BoltStore) GetArtists() ([]domain.Artist, bool) {
	var artists []domain.Artist
	ok := s.get(bucketArtists, "list", &artists)
	return artists, ok
}

func (s *BoltStore) SaveArtists(artists []domain.Artist) error {
	return s.set(bucketArtists, "list", artists)
}

// === Albums (hierarchical key: artist:{artistID}) ===

func (s *BoltStore) GetAlbums(artistID string) ([]domain.Album, bool) {
	var albums []domain.Album
	ok := s.get(bucketAlbums, "artist:"+artistID, &albums)
	return albums, ok
}

func (s *BoltStore) SaveAlbums(artistID string, albums []domain.Album) error {
	return s.set(bucketAlbums, "artist:"+artistID, albums)
}

// === Songs (hierarchical key: artist:{artistID}:album:{albumID}) ===

func (s *BoltStore) GetSongs(artistID, albumID string) ([]domain.Song, bool) {
	var songs []domain.Song
	ok := s.get(bucketSongs, songsKey(artistID, albumID), &songs)
	return songs, ok
}

func (s *BoltStore) SaveSongs(artistID, albumID string, songs []domain.Song) error {
	return s.set(bucketSongs, songsKey(artistID, albumID), songs)
}

func songsKey(artistID, albumID string) string {
	return fmt.Sprintf("artist:%s:album:%s", artistID, albumID)
}

// AllSongs returns every cached song, deduplicated by ID
func (s *BoltStore) AllSongs() []domain.Song {
	seen := make(map[string]bool)
	var all []domain.Song

	collect := func(data []byte) {
		var songs []domain.Song
		if json.Unmarshal(data, &songs) != nil {
			return
		}
		for _, song := range songs {
			if seen[song.ID] {
				continue
			}
			seen[song.ID] = true
			all = append(all, song)
		}
	}

	if s.db == nil {
		s.mu.RLock()
		prefix := string(bucketSongs) + ":"
		for k, v := range s.cache {
			if strings.HasPrefix(k, prefix) {
				collect(v)
			}
		}
		s.mu.RUnlock()
		return all
	}

	s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketSongs)
		if b == nil {
			return nil
		}
		return b.ForEach(func(_, v []byte) error {
			collect(v)
			return nil
		})
	})
	return all
}

// === Cascade Invalidation (hierarchical prefix deletion) ===

// InvalidateArtist wipes an artist's albums and ALL songs of those albums
func (s *BoltStore) InvalidateArtist(artistID string) {
	key := "artist:" + artistID
	s.delete(bucketAlbums, key)
	s.deletePrefix(bucketSongs, key+":album:")
}

// InvalidateAll wipes the catalog cache. The session snapshot is kept.
func (s *BoltStore) InvalidateAll() {
	s.mu.Lock()
	for k := range s.cache {
		if !strings.HasPrefix(k, string(bucketState)+":") {
			delete(s.cache, k)
		}
	}
	s.mu.Unlock()

	if s.db == nil {
		return
	}

	s.db.Update(func(tx *bolt.Tx) error {
		for _, bucket := range [][]byte{bucketArtists, bucketAlbums, bucketSongs} {
			b := tx.Bucket(bucket)
			if b == nil {
				continue
			}
			var keys [][]byte
			c := b.Cursor()
			for k, _ := c.First(); k != nil; k, _ = c.Next() {
				keys = append(keys, append([]byte(nil), k...))
			}
			for _, k := range keys {
				if err := b.Delete(k); err != nil {
					return err
				}
			}
		}
		return nil
	})
}

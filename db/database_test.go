package db

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"visionaryiq/config"
	"visionaryiq/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// createTestConfig returns a config whose data directory lives under a fresh temp dir.
// The data directory itself is not created, so lazy creation is exercised.
func createTestConfig(t *testing.T) *config.Config {
	cfg := config.Default()
	cfg.DataDir = filepath.Join(t.TempDir(), "private_data")
	cfg.ExportDir = filepath.Join(t.TempDir(), "exports")
	return cfg
}

func setupTestDB(t *testing.T) (*Database, *config.Config) {
	cfg := createTestConfig(t)
	return NewDatabase(cfg), cfg
}

// newTestRecord builds a valid record; n makes ids and names distinct.
func newTestRecord(n int, ts time.Time) models.ContactRecord {
	return models.ContactRecord{
		ID:        fmt.Sprintf("contact_%d_test%05d", ts.UnixMilli(), n),
		FirstName: fmt.Sprintf("First%d", n),
		LastName:  "Tester",
		Email:     fmt.Sprintf("user%d@example.com", n),
		Company:   models.CompanyNotProvided,
		Subject:   "analytics",
		Message:   "Hello there",
		Timestamp: ts.UTC(),
		Status:    models.StatusNew,
		IPAddress: models.UnknownClientValue,
		UserAgent: models.UnknownClientValue,
	}
}

func readContactsFile(t *testing.T, cfg *config.Config) []models.ContactRecord {
	data, err := os.ReadFile(cfg.ContactsPath())
	require.NoError(t, err, "Failed to read contacts file")
	var contacts []models.ContactRecord
	require.NoError(t, json.Unmarshal(data, &contacts))
	return contacts
}

func writeRawFile(t *testing.T, path, content string) {
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o700))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

// --- Record store ---

func TestAppendContact_EmptyStore(t *testing.T) {
	db, cfg := setupTestDB(t)
	rec := newTestRecord(1, time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))

	require.NoError(t, db.AppendContact(rec))

	info, err := os.Stat(cfg.DataDir)
	require.NoError(t, err, "data directory should be created lazily")
	assert.True(t, info.IsDir())

	contacts := readContactsFile(t, cfg)
	require.Len(t, contacts, 1)
	assert.Equal(t, rec, contacts[0])
	assert.Equal(t, models.StatusNew, contacts[0].Status)
}

func TestAppendContact_NewestFirst(t *testing.T) {
	db, cfg := setupTestDB(t)
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	for i := 1; i <= 3; i++ {
		require.NoError(t, db.AppendContact(newTestRecord(i, base.Add(time.Duration(i)*time.Minute))))
	}

	contacts := readContactsFile(t, cfg)
	require.Len(t, contacts, 3)
	assert.Equal(t, "First3", contacts[0].FirstName)
	assert.Equal(t, "First2", contacts[1].FirstName)
	assert.Equal(t, "First1", contacts[2].FirstName)
}

func TestAppendContact_CapEvictsOldest(t *testing.T) {
	db, cfg := setupTestDB(t)
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	// Seed a full store directly: index 0 is newest, index 499 oldest.
	existing := make([]models.ContactRecord, 500)
	for i := range existing {
		existing[i] = newTestRecord(500-i, base.Add(time.Duration(500-i)*time.Second))
	}
	data, err := json.Marshal(existing)
	require.NoError(t, err)
	writeRawFile(t, cfg.ContactsPath(), string(data))
	oldest := existing[499]

	newest := newTestRecord(501, base.Add(time.Hour))
	require.NoError(t, db.AppendContact(newest))

	contacts := readContactsFile(t, cfg)
	require.Len(t, contacts, 500)
	assert.Equal(t, newest.ID, contacts[0].ID)
	assert.Equal(t, existing[0].ID, contacts[1].ID)
	assert.Equal(t, existing[498].ID, contacts[499].ID)
	for _, c := range contacts {
		assert.NotEqual(t, oldest.ID, c.ID, "previously oldest record should be evicted")
	}
}

func TestAppendContact_ConfiguredCap(t *testing.T) {
	db, cfg := setupTestDB(t)
	cfg.MaxContacts = 2
	base := time.Now().UTC()

	for i := 1; i <= 5; i++ {
		require.NoError(t, db.AppendContact(newTestRecord(i, base)))
	}

	contacts := readContactsFile(t, cfg)
	require.Len(t, contacts, 2)
	assert.Equal(t, "First5", contacts[0].FirstName)
	assert.Equal(t, "First4", contacts[1].FirstName)
}

func TestAppendContact_CorruptFileTreatedAsEmpty(t *testing.T) {
	db, cfg := setupTestDB(t)
	writeRawFile(t, cfg.ContactsPath(), "{not json")

	rec := newTestRecord(1, time.Now())
	require.NoError(t, db.AppendContact(rec))

	contacts := readContactsFile(t, cfg)
	require.Len(t, contacts, 1)
	assert.Equal(t, rec.ID, contacts[0].ID)
}

func TestAppendContact_Backup(t *testing.T) {
	db, cfg := setupTestDB(t)
	cfg.EnableBackup = true

	require.NoError(t, db.AppendContact(newTestRecord(1, time.Now())))
	_, err := os.Stat(cfg.ContactsPath() + ".bak")
	assert.True(t, errors.Is(err, os.ErrNotExist), "no backup before a previous version exists")

	require.NoError(t, db.AppendContact(newTestRecord(2, time.Now())))

	data, err := os.ReadFile(cfg.ContactsPath() + ".bak")
	require.NoError(t, err)
	var backup []models.ContactRecord
	require.NoError(t, json.Unmarshal(data, &backup))
	require.Len(t, backup, 1)
	assert.Equal(t, "First1", backup[0].FirstName)

	_, err = os.Stat(cfg.ContactsPath() + ".tmp")
	assert.True(t, errors.Is(err, os.ErrNotExist), "temporary file should not remain")
}

func TestAppendContact_WriteFailurePropagates(t *testing.T) {
	db, cfg := setupTestDB(t)
	// A regular file where the data directory should be makes MkdirAll fail.
	writeRawFile(t, cfg.DataDir, "blocker")

	err := db.AppendContact(newTestRecord(1, time.Now()))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to create data directory")
}

func TestLoadContacts(t *testing.T) {
	db, _ := setupTestDB(t)

	_, err := db.LoadContacts()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNoData))
	assert.True(t, errors.Is(err, os.ErrNotExist))

	require.NoError(t, db.AppendContact(newTestRecord(1, time.Now())))
	require.NoError(t, db.AppendContact(newTestRecord(2, time.Now())))

	contacts, err := db.LoadContacts()
	require.NoError(t, err)
	require.Len(t, contacts, 2)
	assert.Equal(t, "First2", contacts[0].FirstName)
}

func TestLoadContacts_CorruptFileIsError(t *testing.T) {
	db, cfg := setupTestDB(t)
	writeRawFile(t, cfg.ContactsPath(), "[{")

	_, err := db.LoadContacts()
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrNoData))
}

func TestPrependCapped(t *testing.T) {
	recs := func(names ...string) []models.ContactRecord {
		out := make([]models.ContactRecord, len(names))
		for i, n := range names {
			out[i] = models.ContactRecord{ID: n}
		}
		return out
	}
	ids := func(in []models.ContactRecord) []string {
		out := make([]string, len(in))
		for i, r := range in {
			out[i] = r.ID
		}
		return out
	}

	assert.Equal(t, []string{"new"}, ids(prependCapped(nil, models.ContactRecord{ID: "new"}, 3)))
	assert.Equal(t, []string{"new", "a", "b"}, ids(prependCapped(recs("a", "b"), models.ContactRecord{ID: "new"}, 3)))
	assert.Equal(t, []string{"new", "a", "b"}, ids(prependCapped(recs("a", "b", "c"), models.ContactRecord{ID: "new"}, 3)))
	assert.Equal(t, []string{"new"}, ids(prependCapped(recs("a"), models.ContactRecord{ID: "new"}, 1)))

	// The input slice is left untouched.
	in := recs("a", "b")
	_ = prependCapped(in, models.ContactRecord{ID: "new"}, 3)
	assert.Equal(t, []string{"a", "b"}, ids(in))
}

// --- Stats aggregator ---

func TestUpdateStats_FromNothing(t *testing.T) {
	db, _ := setupTestDB(t)
	rec := newTestRecord(1, time.Date(2025, 6, 15, 8, 30, 0, 0, time.UTC))

	before := time.Now().UTC()
	require.NoError(t, db.UpdateStats(rec))

	stats, err := db.LoadStats()
	require.NoError(t, err)
	assert.Equal(t, 1, stats.TotalContacts)
	assert.Equal(t, map[string]int{"2025-06": 1}, stats.ContactsByMonth)
	assert.Equal(t, map[string]int{"analytics": 1}, stats.ContactsByType)
	assert.False(t, stats.LastUpdated.Before(before.Truncate(time.Second)))
}

func TestUpdateStats_IncrementsExistingCounters(t *testing.T) {
	db, cfg := setupTestDB(t)
	writeRawFile(t, cfg.StatsPath(), `{
  "totalContacts": 7,
  "contactsByMonth": {"2025-05": 4, "2025-06": 3},
  "contactsByType": {"analytics": 2, "automation": 5},
  "lastUpdated": "2025-06-01T00:00:00Z"
}`)

	rec := newTestRecord(1, time.Date(2025, 6, 20, 0, 0, 0, 0, time.UTC))
	require.NoError(t, db.UpdateStats(rec))

	stats, err := db.LoadStats()
	require.NoError(t, err)
	assert.Equal(t, 8, stats.TotalContacts)
	assert.Equal(t, 4, stats.ContactsByMonth["2025-05"])
	assert.Equal(t, 4, stats.ContactsByMonth["2025-06"])
	assert.Equal(t, 3, stats.ContactsByType["analytics"])
	assert.Equal(t, 5, stats.ContactsByType["automation"])
	assert.True(t, stats.LastUpdated.After(time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)))
}

func TestUpdateStats_MonthUsesUTC(t *testing.T) {
	db, _ := setupTestDB(t)
	// 23:30 on May 31st in UTC-5 is already June in UTC.
	loc := time.FixedZone("UTC-5", -5*60*60)
	rec := newTestRecord(1, time.Date(2025, 5, 31, 23, 30, 0, 0, loc))
	rec.Timestamp = time.Date(2025, 5, 31, 23, 30, 0, 0, loc)

	require.NoError(t, db.UpdateStats(rec))
	stats, err := db.LoadStats()
	require.NoError(t, err)
	assert.Equal(t, 1, stats.ContactsByMonth["2025-06"])
}

func TestUpdateStats_CorruptFileRestartsFromZero(t *testing.T) {
	db, cfg := setupTestDB(t)
	writeRawFile(t, cfg.StatsPath(), "totally not json")

	require.NoError(t, db.UpdateStats(newTestRecord(1, time.Now())))

	stats, err := db.LoadStats()
	require.NoError(t, err)
	assert.Equal(t, 1, stats.TotalContacts)
}

func TestUpdateStats_NullMaps(t *testing.T) {
	db, cfg := setupTestDB(t)
	writeRawFile(t, cfg.StatsPath(), `{"totalContacts": 2, "contactsByMonth": null, "contactsByType": null}`)

	rec := newTestRecord(1, time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC))
	rec.Subject = "consulting"
	require.NoError(t, db.UpdateStats(rec))

	stats, err := db.LoadStats()
	require.NoError(t, err)
	assert.Equal(t, 3, stats.TotalContacts)
	assert.Equal(t, 1, stats.ContactsByMonth["2025-01"])
	assert.Equal(t, 1, stats.ContactsByType["consulting"])
}

func TestUpdateStats_CounterIndependentOfStore(t *testing.T) {
	db, cfg := setupTestDB(t)
	cfg.MaxContacts = 2

	for i := 1; i <= 4; i++ {
		rec := newTestRecord(i, time.Now())
		require.NoError(t, db.AppendContact(rec))
		require.NoError(t, db.UpdateStats(rec))
	}

	contacts, err := db.LoadContacts()
	require.NoError(t, err)
	stats, err := db.LoadStats()
	require.NoError(t, err)
	assert.Len(t, contacts, 2)
	assert.Equal(t, 4, stats.TotalContacts)
}

func TestLoadStats_NoData(t *testing.T) {
	db, _ := setupTestDB(t)
	_, err := db.LoadStats()
	assert.True(t, errors.Is(err, ErrNoData))
}

func TestConcurrentWritesDoNotLoseUpdates(t *testing.T) {
	db, _ := setupTestDB(t)
	const writers = 20

	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			rec := newTestRecord(n, time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC))
			assert.NoError(t, db.AppendContact(rec))
			assert.NoError(t, db.UpdateStats(rec))
		}(i)
	}
	wg.Wait()

	contacts, err := db.LoadContacts()
	require.NoError(t, err)
	stats, err := db.LoadStats()
	require.NoError(t, err)
	assert.Len(t, contacts, writers)
	assert.Equal(t, writers, stats.TotalContacts)
	assert.Equal(t, writers, stats.ContactsByMonth["2025-06"])
}

func TestReadStatsJSON(t *testing.T) {
	db, cfg := setupTestDB(t)

	_, err := db.ReadStatsJSON()
	assert.True(t, errors.Is(err, ErrNoData))

	raw := `{"totalContacts": 1, "contactsByMonth": {"2025-06": 1}, "contactsByType": {"other": 1}}`
	writeRawFile(t, cfg.StatsPath(), raw)

	data, err := db.ReadStatsJSON()
	require.NoError(t, err)
	assert.Equal(t, raw, string(data))
}

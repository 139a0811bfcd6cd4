package ledger

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	json "github.com/goccy/go-json"

	"abd/internal/ledger/interfaces"
	"abd/internal/models"
	"abd/internal/providers"
	"abd/internal/services"
	"abd/internal/structures"
)

const backupTimeLayout = "20060102_150405"

// BackupManager writes zstd-compressed snapshots of the ledger and prunes
// old ones. File names embed the timestamp, so lexicographic order is
// chronological order and pruning needs no stat calls.
type BackupManager struct {
	config     *structures.Config
	logger     providers.Logger
	compressor interfaces.CompressorInterface
	now        func() time.Time
}

func NewBackupManager(
	config *structures.Config,
	logger providers.Logger,
	compressor interfaces.CompressorInterface,
) services.SnapshotWriter {
	return &BackupManager{
		config:     config,
		logger:     logger,
		compressor: compressor,
		now:        time.Now,
	}
}

// Snapshot writes one compressed copy of doc and returns its path.
func (b *BackupManager) Snapshot(doc *models.Document) (string, error) {
	jsonData, err := json.Marshal(doc)
	if err != nil {
		return "", err
	}
	data, err := b.compressor.Compress(jsonData)
	if err != nil {
		return "", err
	}

	dir := b.config.Persistence.BackupDir
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}

	path := filepath.Join(dir, fmt.Sprintf("backup_%s.json.zst", b.now().Format(backupTimeLayout)))
	tmpFile := path + ".tmp"
	if err := os.WriteFile(tmpFile, data, 0644); err != nil {
		return "", err
	}
	if err := os.Rename(tmpFile, path); err != nil {
		os.Remove(tmpFile)
		return "", err
	}

	b.logger.Infof(providers.TypeStore, "Backup written to %s", path)
	return path, nil
}

// Prune deletes the oldest backups until only the configured retention
// count remains. Returns how many files were removed.
func (b *BackupManager) Prune() (int, error) {
	files, err := filepath.Glob(filepath.Join(b.config.Persistence.BackupDir, "backup_*.json.zst"))
	if err != nil {
		return 0, err
	}

	retention := b.config.Persistence.BackupRetention
	if retention < 1 || len(files) <= retention {
		return 0, nil
	}

	sort.Strings(files)
	removed := 0
	for _, file := range files[:len(files)-retention] {
		if err := os.Remove(file); err != nil {
			b.logger.Errorf(providers.TypeStore, "Cannot remove old backup %s: %s", file, err)
			continue
		}
		removed++
	}
	return removed, nil
}

// Restore decompresses one backup file into a document. Used by operators
// through tooling, not wired to a command.
func (b *BackupManager) Restore(path string) (*models.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	jsonData, err := b.compressor.Decompress(data)
	if err != nil {
		return nil, err
	}
	doc := models.NewDocument()
	if err := json.Unmarshal(jsonData, doc); err != nil {
		return nil, err
	}
	doc.Backfill()
	return doc, nil
}

// Close releases the compressor.
func (b *BackupManager) Close() {
	b.compressor.Close()
}

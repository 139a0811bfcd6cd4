package ledger

import (
	"os"
	"path/filepath"
	"time"

	json "github.com/goccy/go-json"

	"abd/internal/models"
	"abd/internal/providers"
	"abd/internal/services"
	"abd/internal/structures"
)

// Store owns the primary ledger file: plain pretty-printed JSON, replaced
// atomically on every save. Backups are the compressed copies; the primary
// stays readable with any text editor.
type Store struct {
	config  *structures.Config
	logger  providers.Logger
	metrics providers.MetricsProviderInterface
}

func NewStore(
	config *structures.Config,
	logger providers.Logger,
	metrics providers.MetricsProviderInterface,
) services.DocumentStore {
	return &Store{
		config:  config,
		logger:  logger,
		metrics: metrics,
	}
}

// Load reads and migrates the ledger document. A missing file yields a
// fresh empty document; an unparsable one is logged and also yields a
// fresh document, so a corrupt file never takes the bot down.
func (s *Store) Load() (*models.Document, error) {
	path := s.config.Persistence.FilePath

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			s.logger.Infof(providers.TypeStore, "No ledger at %s, starting empty", path)
			return models.NewDocument(), nil
		}
		return nil, err
	}

	doc := models.NewDocument()
	if err := json.Unmarshal(data, doc); err != nil {
		s.logger.Errorf(providers.TypeStore, "Ledger at %s is unreadable, starting empty: %s", path, err)
		return models.NewDocument(), nil
	}

	if doc.SchemaVersion < models.SchemaVersion {
		s.logger.Warnf(providers.TypeStore, "Migrating ledger from schema %d to %d", doc.SchemaVersion, models.SchemaVersion)
	}
	doc.Backfill()
	return doc, nil
}

// Save writes the document atomically: temp file in the same directory,
// fsync, then rename over the live file. A failed write never clobbers the
// previous good copy.
func (s *Store) Save(doc *models.Document) error {
	started := time.Now()
	path := s.config.Persistence.FilePath

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	tmpFile := path + ".tmp"
	file, err := os.Create(tmpFile)
	if err != nil {
		return err
	}

	if _, err = file.Write(data); err != nil {
		file.Close()
		os.Remove(tmpFile)
		return err
	}

	if err = file.Sync(); err != nil {
		file.Close()
		os.Remove(tmpFile)
		return err
	}

	if err = file.Close(); err != nil {
		os.Remove(tmpFile)
		return err
	}

	if err = os.Rename(tmpFile, path); err != nil {
		os.Remove(tmpFile)
		return err
	}

	s.metrics.ObservePersistenceDuration(time.Since(started))
	return nil
}

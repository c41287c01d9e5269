package credentials

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/dmitrijs2005/localauth/internal/common"
	"github.com/dmitrijs2005/localauth/internal/filex"
	"github.com/dmitrijs2005/localauth/internal/logging"
	"github.com/dmitrijs2005/localauth/internal/models"
)

// MinLoadAttempts covers the longest normal path: corrupt file moved aside,
// empty store created, empty store read back. Fewer attempts cannot load a
// store that is missing or corrupt.
const (
	MinLoadAttempts        = 3
	DefaultMaxLoadAttempts = MinLoadAttempts
)

const filePerm = 0o600

// FileRepository stores all records as one JSON object keyed by username.
type FileRepository struct {
	path        string
	backupPath  string
	maxAttempts int
	log         logging.Logger
}

func NewFileRepository(path, backupPath string, maxAttempts int, log logging.Logger) *FileRepository {
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxLoadAttempts
	}
	if log == nil {
		log = logging.Nop()
	}
	return &FileRepository{path: path, backupPath: backupPath, maxAttempts: maxAttempts, log: log.With("path", path)}
}

// Load reads the store file.
//
// A missing file is replaced by an empty store. Content that does not parse is
// copied to the backup path, the original is removed and loading starts over.
// Any other I/O error, or running out of attempts, returns
// common.ErrStorageUnavailable.
func (r *FileRepository) Load(ctx context.Context) (map[string]models.Record, error) {
	r.log.Debug(ctx, "loading store")

	for attempt := 1; attempt <= r.maxAttempts; attempt++ {
		data, err := os.ReadFile(r.path)
		if errors.Is(err, fs.ErrNotExist) {
			r.log.Info(ctx, "no store found, creating a new one")
			if err := r.Save(ctx, map[string]models.Record{}); err != nil {
				return nil, err
			}
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("%w: read %s: %w", common.ErrStorageUnavailable, r.path, err)
		}

		records, err := decodeRecords(data)
		if err != nil {
			r.log.Warn(ctx, "store is corrupt, moving it aside", "backup", r.backupPath, "error", err)
			if err := filex.MoveAside(r.path, r.backupPath, data); err != nil {
				return nil, fmt.Errorf("%w: %w", common.ErrStorageUnavailable, err)
			}
			continue
		}

		r.log.Debug(ctx, "store loaded", "users", len(records), "attempt", attempt)
		return records, nil
	}

	return nil, fmt.Errorf("%w: no valid store after %d attempts", common.ErrStorageUnavailable, r.maxAttempts)
}

// Save overwrites the store file with records.
func (r *FileRepository) Save(ctx context.Context, records map[string]models.Record) error {
	r.log.Debug(ctx, "saving store", "users", len(records))

	if records == nil {
		records = map[string]models.Record{}
	}
	b, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("%w: encode: %w", common.ErrStorageUnavailable, err)
	}
	if err := filex.WriteFileAtomic(r.path, b, filePerm); err != nil {
		return fmt.Errorf("%w: %w", common.ErrStorageUnavailable, err)
	}

	r.log.Debug(ctx, "store saved")
	return nil
}

func (r *FileRepository) Close() error {
	return nil
}

func decodeRecords(data []byte) (map[string]models.Record, error) {
	var records map[string]models.Record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrStorageCorrupt, err)
	}
	if records == nil {
		return nil, fmt.Errorf("%w: top-level value is null", common.ErrStorageCorrupt)
	}
	return records, nil
}

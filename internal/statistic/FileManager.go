package statistic

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"time"

	json "github.com/goccy/go-json"
	"gtmd/internal/models"
	"gtmd/internal/providers"
	"gtmd/internal/services"
	"gtmd/internal/statistic/interfaces"
)

const (
	snapshotPerm      = 0o600
	unsupportedSuffix = ".unsupported"
)

// FileManager persists the commit and status snapshot of the time service
// as zstd compressed JSON.
type FileManager struct {
	service    services.TimeServiceInterface
	compressor interfaces.CompressorInterface
	logger     providers.Logger
	metrics    providers.MetricsProviderInterface
}

func NewFileManager(compressor interfaces.CompressorInterface, service services.TimeServiceInterface, logger providers.Logger, metrics providers.MetricsProviderInterface) *FileManager {
	return &FileManager{
		compressor: compressor,
		service:    service,
		logger:     logger,
		metrics:    metrics,
	}
}

func (f *FileManager) SaveToFile(fileName string) error {
	start := time.Now()
	defer func() {
		f.metrics.ObservePersistenceDuration(time.Since(start))
	}()

	data, err := f.encode(f.service.GetSnapshot())
	if err != nil {
		return err
	}
	if err := writeFileAtomic(fileName, data, snapshotPerm); err != nil {
		return fmt.Errorf("writing snapshot %s: %w", fileName, err)
	}
	f.logger.Debugf(providers.TypeApp, "Snapshot %s written, %d bytes", fileName, len(data))
	return nil
}

func (f *FileManager) Close() {
	f.compressor.Close()
}

// LoadFromFile restores a snapshot. A missing file is not an error. A
// snapshot of another version is moved aside to <file>.unsupported so the
// next save does not overwrite it.
func (f *FileManager) LoadFromFile(fileName string) error {
	data, err := os.ReadFile(fileName)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	snapshot, err := f.decode(data)
	if err != nil {
		return fmt.Errorf("reading snapshot %s: %w", fileName, err)
	}

	err = f.service.PutSnapshot(snapshot)
	if errors.Is(err, services.ErrUnsupportedVersion) {
		f.logger.Warnf(providers.TypeApp, "Snapshot %s ignored: %s", fileName, err)
		if err := os.Rename(fileName, fileName+unsupportedSuffix); err != nil {
			f.logger.Errorf(providers.TypeApp, "Unable to move snapshot %s aside: %s", fileName, err)
		}
		return nil
	}
	if err != nil {
		f.logger.Warnf(providers.TypeApp, "Snapshot %s partially restored: %s", fileName, err)
	}
	return nil
}

func (f *FileManager) encode(snapshot *models.Snapshot) ([]byte, error) {
	jsonData, err := json.Marshal(snapshot)
	if err != nil {
		return nil, err
	}
	return f.compressor.Compress(jsonData)
}

// decode accepts compressed snapshots and plain JSON ones, such as a
// snapshot decompressed by hand for inspection.
func (f *FileManager) decode(data []byte) (*models.Snapshot, error) {
	if !isPlainSnapshot(data) {
		var err error
		if data, err = f.compressor.Decompress(data); err != nil {
			return nil, err
		}
	}

	var snapshot models.Snapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil, err
	}
	if snapshot.Projects == nil {
		snapshot.Projects = make(map[string]*models.ProjectSnapshot)
	}
	return &snapshot, nil
}

func isPlainSnapshot(data []byte) bool {
	trimmed := bytes.TrimLeft(data, " \t\r\n")
	return len(trimmed) > 0 && trimmed[0] == '{'
}

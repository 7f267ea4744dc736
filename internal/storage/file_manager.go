package storage

import (
	"donwatch/internal/providers"
	"os"
	"path/filepath"
	"time"

	json "github.com/goccy/go-json"
)

// FileManager persists JSON snapshots through a compressor. Writes go to a
// temp file first and are renamed into place.
type FileManager struct {
	compressor CompressorInterface
	logger     providers.Logger
	metrics    providers.MetricsProviderInterface
}

func NewFileManager(compressor CompressorInterface, logger providers.Logger, metrics providers.MetricsProviderInterface) *FileManager {
	return &FileManager{
		compressor: compressor,
		logger:     logger,
		metrics:    metrics,
	}
}

func (f *FileManager) Save(fileName string, v interface{}) error {
	start := time.Now()
	defer func() { f.metrics.ObservePersistenceDuration(time.Since(start)) }()

	jsonData, err := json.Marshal(v)
	if err != nil {
		return err
	}
	data, err := f.compressor.Compress(jsonData)
	if err != nil {
		return err
	}

	if dir := filepath.Dir(fileName); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}

	tmpFile := fileName + ".tmp"
	file, err := os.Create(tmpFile)
	if err != nil {
		return err
	}

	_, err = file.Write(data)
	if err != nil {
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

	return os.Rename(tmpFile, fileName)
}

// Load decodes fileName into v. A missing file reports false with no error.
// Files that are not compressed are read as plain JSON.
func (f *FileManager) Load(fileName string, v interface{}) (bool, error) {
	data, err := os.ReadFile(fileName)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}

	decompressed, err := f.compressor.Decompress(data)
	if err != nil {
		f.logger.Warnf(providers.TypeApp, "File %s is not compressed, reading as plain JSON", fileName)
		decompressed = data
	}

	if err := json.Unmarshal(decompressed, v); err != nil {
		return false, err
	}
	return true, nil
}

func (f *FileManager) Close() {
	f.compressor.Close()
}

// Store is the persistence contract the ledger and price oracle depend on.
type Store interface {
	Save(fileName string, v interface{}) error
	Load(fileName string, v interface{}) (bool, error)
}

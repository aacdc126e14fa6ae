package storage

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"

	"github.com/ilya-burinskiy/repairguides/internal/app/models"
)

// File storage keeping one JSON record per line
type FileStorage struct {
	filePath string
}

// New file storage
func NewFileStorage(filePath string) *FileStorage {
	return &FileStorage{filePath: filePath}
}

// Get records from file
func (fs *FileStorage) Snapshot() ([]models.RepairRecord, error) {
	file, err := os.OpenFile(fs.filePath, os.O_RDONLY|os.O_CREATE, 0666)
	if err != nil {
		return nil, fmt.Errorf("could not load data from file: %w", err)
	}

	scanner := bufio.NewScanner(file)
	result := make([]models.RepairRecord, 0)
	for scanner.Scan() {
		var r models.RepairRecord
		if err = json.Unmarshal(scanner.Bytes(), &r); err != nil {
			continue
		}
		result = append(result, r)
	}

	if err = file.Close(); err != nil {
		return nil, fmt.Errorf("could not restore data: %w", err)
	}

	return result, scanner.Err()
}

// Save records to file
func (fs *FileStorage) Dump(records []models.RepairRecord) error {
	tmpPath := fs.filePath + ".tmp"
	file, err := os.OpenFile(tmpPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0666)
	if err != nil {
		return fmt.Errorf("could not dump storage: %w", err)
	}

	writer := bufio.NewWriter(file)
	encoder := json.NewEncoder(writer)
	for _, r := range records {
		if err = encoder.Encode(r); err != nil {
			_ = file.Close()
			return fmt.Errorf("could not dump storage: %w", err)
		}
	}
	if err = writer.Flush(); err != nil {
		_ = file.Close()
		return fmt.Errorf("could not dump storage: %w", err)
	}
	if err = file.Close(); err != nil {
		return fmt.Errorf("could not dump storage: %w", err)
	}

	if err = os.Rename(tmpPath, fs.filePath); err != nil {
		return fmt.Errorf("could not dump storage: %w", err)
	}

	return nil
}

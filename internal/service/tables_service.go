package service

import (
	"context"

	"rentalAPI/internal/repository"
	"rentalAPI/internal/storage"
)

type HealthStatus struct {
	Status   string `json:"status"`
	Database string `json:"database"`
	Tables   int    `json:"tables"`
	Storage  string `json:"storage"`
}

func (h HealthStatus) Healthy() bool {
	return h.Status == statusOK
}

const (
	statusOK          = "ok"
	statusUnavailable = "unavailable"
)

type TablesService interface {
	Health(ctx context.Context) HealthStatus
}

type tablesService struct {
	tablesRepo repository.TablesRepository
	storage    storage.Storage
}

func NewTablesService(tablesRepo repository.TablesRepository, storage storage.Storage) TablesService {
	return &tablesService{tablesRepo: tablesRepo, storage: storage}
}

// Health probes the database and the blob store.
func (t *tablesService) Health(ctx context.Context) HealthStatus {
	status := HealthStatus{Status: statusOK, Database: statusOK, Storage: statusOK}

	if err := t.tablesRepo.Ping(ctx); err != nil {
		status.Database = statusUnavailable
	} else if count, err := t.tablesRepo.CountTablesDB(ctx); err == nil {
		status.Tables = count
	}

	if err := t.storage.Ping(ctx); err != nil {
		status.Storage = statusUnavailable
	}

	if status.Database != statusOK || status.Storage != statusOK {
		status.Status = statusUnavailable
	}

	return status
}

package worker

import (
	"context"
	"errors"
	"testing"
	"time"

	"app/internal/domain/model"
	repo "app/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type StockJobRepoMock struct{ mock.Mock }

func (m *StockJobRepoMock) Enqueue(ctx context.Context, job model.StockJob) error {
	args := m.Called(ctx, job)
	return args.Error(0)
}

func (m *StockJobRepoMock) ListPending(ctx context.Context, limit int) ([]model.StockJob, error) {
	args := m.Called(ctx, limit)
	jobs, _ := args.Get(0).([]model.StockJob)
	return jobs, args.Error(1)
}

func (m *StockJobRepoMock) MarkDone(ctx context.Context, jobID int64) error {
	args := m.Called(ctx, jobID)
	return args.Error(0)
}

func (m *StockJobRepoMock) MarkRetry(ctx context.Context, jobID int64, lastError string, maxAttempts int) error {
	args := m.Called(ctx, jobID, lastError, maxAttempts)
	return args.Error(0)
}

type InventoryRepoMock struct{ mock.Mock }

func (m *InventoryRepoMock) SetStock(ctx context.Context, productID int64, newStock int64) error {
	panic("not used in StockWorker tests")
}

func (m *InventoryRepoMock) DecreaseStockIfEnough(ctx context.Context, productID int64, qty int64) (bool, error) {
	panic("not used in StockWorker tests")
}

func (m *InventoryRepoMock) IncreaseStock(ctx context.Context, productID int64, qty int64) error {
	panic("not used in StockWorker tests")
}

func (m *InventoryRepoMock) AdjustStock(ctx context.Context, productID int64, delta int64) error {
	args := m.Called(ctx, productID, delta)
	return args.Error(0)
}

func (m *InventoryRepoMock) CreateAdjustment(ctx context.Context, adjustment model.StockAdjustment) error {
	panic("not used in StockWorker tests")
}

var _ repo.StockJobRepository = (*StockJobRepoMock)(nil)
var _ repo.InventoryRepository = (*InventoryRepoMock)(nil)

func TestStockWorker_AppliesPendingJobs(t *testing.T) {
	jobs := new(StockJobRepoMock)
	inv := new(InventoryRepoMock)

	jobs.On("ListPending", mock.Anything, 100).Return([]model.StockJob{
		{ID: 1, ProductID: 10, Delta: -3},
		{ID: 2, ProductID: 11, Delta: 5},
	}, nil)
	inv.On("AdjustStock", mock.Anything, int64(10), int64(-3)).Return(nil)
	inv.On("AdjustStock", mock.Anything, int64(11), int64(5)).Return(nil)
	jobs.On("MarkDone", mock.Anything, int64(1)).Return(nil)
	jobs.On("MarkDone", mock.Anything, int64(2)).Return(nil)

	w := NewStockWorker(jobs, inv, time.Second, 5)
	err := w.RunOnce(context.Background())
	assert.NoError(t, err)

	jobs.AssertExpectations(t)
	inv.AssertExpectations(t)
}

func TestStockWorker_RetriesOnFailure(t *testing.T) {
	jobs := new(StockJobRepoMock)
	inv := new(InventoryRepoMock)

	jobs.On("ListPending", mock.Anything, 100).Return([]model.StockJob{
		{ID: 1, ProductID: 10, Delta: -3},
	}, nil)
	inv.On("AdjustStock", mock.Anything, int64(10), int64(-3)).Return(errors.New("db down"))
	jobs.On("MarkRetry", mock.Anything, int64(1), "db down", 5).Return(nil)

	w := NewStockWorker(jobs, inv, time.Second, 5)
	err := w.RunOnce(context.Background())
	assert.NoError(t, err)

	//失敗したjobはMarkDoneされない
	jobs.AssertNotCalled(t, "MarkDone", mock.Anything, int64(1))
	jobs.AssertExpectations(t)
}

func TestStockWorker_ListError(t *testing.T) {
	jobs := new(StockJobRepoMock)
	inv := new(InventoryRepoMock)

	jobs.On("ListPending", mock.Anything, 100).Return(nil, errors.New("db down"))

	w := NewStockWorker(jobs, inv, time.Second, 5)
	err := w.RunOnce(context.Background())
	assert.Error(t, err)
}

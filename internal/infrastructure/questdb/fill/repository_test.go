package fill

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	orderbookv1 "github.com/yunhanbi/finm250-quant-2025/internal/domain/orderbook/v1"
	questdbMock "github.com/yunhanbi/finm250-quant-2025/pkg/questdb/mock"
)

func testFill(now time.Time) *Fill {
	fill := &Fill{}
	fill.FromReport(orderbookv1.ExecutionReport{
		OrderID:   "o1",
		Symbol:    "AAPL",
		Side:      orderbookv1.SideBuy,
		FilledQty: 10,
		Price:     100.5,
		Timestamp: now,
		Status:    orderbookv1.StatusFilled,
	})
	return fill
}

func TestFill_Store(t *testing.T) {
	now := time.Now()
	testCases := []struct {
		name     string
		mockFn   func(testData *Fill, mock *questdbMock.MockQuestDBClient)
		assertFn func(t *testing.T, err error)
	}{
		{
			name: "success",
			mockFn: func(testData *Fill, mock *questdbMock.MockQuestDBClient) {
				mock.EXPECT().Exec(
					gomock.Any(),
					gomock.Any(),
					testData.Timestamp,
					testData.OrderID,
					testData.Symbol,
					testData.Side,
					testData.Quantity,
					testData.Price,
					testData.Status,
				).Return(nil)
			},
			assertFn: func(t *testing.T, err error) {
				assert.NoError(t, err)
			},
		},
		{
			name: "error - exec fails",
			mockFn: func(testData *Fill, mock *questdbMock.MockQuestDBClient) {
				mock.EXPECT().Exec(
					gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(),
					gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(),
				).Return(errors.New("exec failed"))
			},
			assertFn: func(t *testing.T, err error) {
				assert.Error(t, err)
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			mockClient := questdbMock.NewMockQuestDBClient(ctrl)
			testData := testFill(now)

			tc.mockFn(testData, mockClient)

			repo := NewRepository(mockClient)
			err := repo.Store(context.Background(), testData)
			tc.assertFn(t, err)
		})
	}
}

func TestFill_StoreBatch(t *testing.T) {
	now := time.Now()

	t.Run("success", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockClient := questdbMock.NewMockQuestDBClient(ctrl)
		mockClient.EXPECT().CopyFrom(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(int64(2), nil)

		repo := NewRepository(mockClient)
		err := repo.StoreBatch(context.Background(), []*Fill{testFill(now), testFill(now)})

		assert.NoError(t, err)
	})

	t.Run("empty batch is a no-op", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockClient := questdbMock.NewMockQuestDBClient(ctrl)

		repo := NewRepository(mockClient)
		err := repo.StoreBatch(context.Background(), nil)

		assert.NoError(t, err)
	})

	t.Run("error - copy fails", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockClient := questdbMock.NewMockQuestDBClient(ctrl)
		mockClient.EXPECT().CopyFrom(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(int64(0), errors.New("copy failed"))

		repo := NewRepository(mockClient)
		err := repo.StoreBatch(context.Background(), []*Fill{testFill(now)})

		assert.Error(t, err)
	})
}

func TestFill_GetByFilter(t *testing.T) {
	now := time.Now()

	t.Run("success", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockClient := questdbMock.NewMockQuestDBClient(ctrl)
		mockRows := questdbMock.NewMockRowsInterface(ctrl)

		mockClient.EXPECT().Query(gomock.Any(), gomock.Any(), "AAPL").Return(mockRows, nil)
		mockRows.EXPECT().Next().Return(true)
		mockRows.EXPECT().Scan(gomock.Any()).DoAndReturn(func(dest ...any) error {
			*dest[0].(*time.Time) = now
			*dest[1].(*string) = "o1"
			*dest[2].(*string) = "AAPL"
			*dest[3].(*string) = "buy"
			*dest[4].(*int64) = 10
			*dest[5].(*float64) = 100.5
			*dest[6].(*string) = "filled"
			return nil
		})
		mockRows.EXPECT().Next().Return(false)
		mockRows.EXPECT().Err().Return(nil)
		mockRows.EXPECT().Close()

		repo := NewRepository(mockClient)
		fills, err := repo.GetByFilter(context.Background(), Filter{Symbol: "AAPL"})

		assert.NoError(t, err)
		assert.Len(t, fills, 1)
		assert.Equal(t, "o1", fills[0].OrderID)
	})
}

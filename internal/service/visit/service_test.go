package visit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// MockRepository is a mock of the visit Repository.
type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) Insert(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockRepository) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockRepository) ListSince(ctx context.Context, since time.Time) ([]time.Time, error) {
	args := m.Called(ctx, since)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]time.Time), args.Error(1)
}

func newTestService(r *MockRepository) *Service {
	return NewService(Params{Repository: r, Logger: zap.NewNop()})
}

func TestDaily(t *testing.T) {
	t.Run("window clamping", func(t *testing.T) {
		cases := []struct {
			name string
			days int
			want int
		}{
			{"zero falls back to default", 0, defaultWindowDays},
			{"negative falls back to default", -3, defaultWindowDays},
			{"in range passes through", 7, 7},
			{"above maximum is capped", 365, maxWindowDays},
		}
		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				mockRepo := new(MockRepository)
				svc := newTestService(mockRepo)
				mockRepo.On("ListSince", mock.Anything, mock.AnythingOfType("time.Time")).Return([]time.Time{}, nil)

				counts, err := svc.Daily(context.Background(), tc.days)

				require.NoError(t, err)
				assert.Len(t, counts, tc.want)
			})
		}
	})

	t.Run("buckets visits by Seoul calendar day and zero-fills the rest", func(t *testing.T) {
		mockRepo := new(MockRepository)
		svc := newTestService(mockRepo)

		now := time.Now().In(svc.loc)
		today := now.Format("2006-01-02")
		yesterday := now.AddDate(0, 0, -1).Format("2006-01-02")

		mockRepo.On("ListSince", mock.Anything, mock.AnythingOfType("time.Time")).Return([]time.Time{
			now.UTC(),
			now.UTC(),
			now.AddDate(0, 0, -1).UTC(),
		}, nil)

		counts, err := svc.Daily(context.Background(), 3)

		require.NoError(t, err)
		require.Len(t, counts, 3)

		byDate := make(map[string]int64, len(counts))
		for _, c := range counts {
			byDate[c.Date] = c.Count
		}
		assert.Equal(t, int64(2), byDate[today])
		assert.Equal(t, int64(1), byDate[yesterday])
		assert.Equal(t, today, counts[len(counts)-1].Date)
	})

	t.Run("every day appears even with no visits", func(t *testing.T) {
		mockRepo := new(MockRepository)
		svc := newTestService(mockRepo)
		mockRepo.On("ListSince", mock.Anything, mock.AnythingOfType("time.Time")).Return([]time.Time{}, nil)

		counts, err := svc.Daily(context.Background(), 5)

		require.NoError(t, err)
		require.Len(t, counts, 5)
		for _, c := range counts {
			assert.Zero(t, c.Count)
		}
	})
}

func TestCount(t *testing.T) {
	mockRepo := new(MockRepository)
	svc := newTestService(mockRepo)
	mockRepo.On("Count", mock.Anything).Return(int64(42), nil)

	count, err := svc.Count(context.Background())

	require.NoError(t, err)
	assert.Equal(t, int64(42), count)
}

package review

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/bookmint/inkwell/internal/dto"
	"github.com/bookmint/inkwell/internal/entity"
	"github.com/bookmint/inkwell/internal/mailer"
	repo "github.com/bookmint/inkwell/internal/repository/review"
	"github.com/bookmint/inkwell/pkg/errorbank"
)

// MockRepository is a mock of the review Repository.
type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) Create(ctx context.Context, review *entity.Review) error {
	args := m.Called(ctx, review)
	return args.Error(0)
}

func (m *MockRepository) GetByID(ctx context.Context, id string) (*entity.Review, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Review), args.Error(1)
}

func (m *MockRepository) List(ctx context.Context) ([]entity.Review, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Review), args.Error(1)
}

func (m *MockRepository) Update(ctx context.Context, id string, rating float64, content string) error {
	args := m.Called(ctx, id, rating, content)
	return args.Error(0)
}

func (m *MockRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockOrders is a mock of CompletedOrderLister.
type MockOrders struct {
	mock.Mock
}

func (m *MockOrders) ListCompleted(ctx context.Context) ([]entity.Order, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Order), args.Error(1)
}

// MockMailer is a mock of the mailer Client.
type MockMailer struct {
	mock.Mock
}

func (m *MockMailer) SendDownloadEmail(ctx context.Context, email mailer.DownloadEmail) error {
	args := m.Called(ctx, email)
	return args.Error(0)
}

func (m *MockMailer) SendReviewThankYou(ctx context.Context, email mailer.ReviewThankYou) error {
	args := m.Called(ctx, email)
	return args.Error(0)
}

func newTestService(r *MockRepository, o *MockOrders, m *MockMailer) *Service {
	return NewService(Params{
		Repository: r,
		Orders:     o,
		Mail:       m,
		Logger:     zap.NewNop(),
	})
}

func completedOrders() []entity.Order {
	completed := time.Now().UTC()
	return []entity.Order{
		{
			ID:            "order-1",
			BuyerName:     "Kim Minsu",
			BuyerEmail:    "minsu@example.com",
			DepositorName: "김민수",
			Status:        entity.OrderStatusCompleted,
			CompletedAt:   &completed,
		},
		{
			ID:            "order-2",
			BuyerName:     "이서연",
			BuyerEmail:    "seoyeon@example.com",
			DepositorName: "LEE SEO YEON",
			Status:        entity.OrderStatusCompleted,
			CompletedAt:   &completed,
		},
	}
}

func TestAuthorize(t *testing.T) {
	t.Run("matches on depositor name ignoring spacing and case", func(t *testing.T) {
		mockOrders := new(MockOrders)
		svc := newTestService(new(MockRepository), mockOrders, new(MockMailer))
		mockOrders.On("ListCompleted", mock.Anything).Return(completedOrders(), nil)

		order, err := svc.Authorize(context.Background(), " 김 민 수 ")

		require.NoError(t, err)
		assert.Equal(t, "order-1", order.ID)
	})

	t.Run("matches on buyer name as fallback field", func(t *testing.T) {
		mockOrders := new(MockOrders)
		svc := newTestService(new(MockRepository), mockOrders, new(MockMailer))
		mockOrders.On("ListCompleted", mock.Anything).Return(completedOrders(), nil)

		order, err := svc.Authorize(context.Background(), "kimminsu")

		require.NoError(t, err)
		assert.Equal(t, "order-1", order.ID)
	})

	t.Run("first completed order wins on duplicate names", func(t *testing.T) {
		orders := completedOrders()
		orders[1].DepositorName = "김민수"
		mockOrders := new(MockOrders)
		svc := newTestService(new(MockRepository), mockOrders, new(MockMailer))
		mockOrders.On("ListCompleted", mock.Anything).Return(orders, nil)

		order, err := svc.Authorize(context.Background(), "김민수")

		require.NoError(t, err)
		assert.Equal(t, "order-1", order.ID)
	})

	t.Run("unknown name is forbidden", func(t *testing.T) {
		mockOrders := new(MockOrders)
		svc := newTestService(new(MockRepository), mockOrders, new(MockMailer))
		mockOrders.On("ListCompleted", mock.Anything).Return(completedOrders(), nil)

		_, err := svc.Authorize(context.Background(), "박지훈")

		require.Error(t, err)
		assert.Equal(t, errorbank.KindForbidden, errorbank.From(err).Kind())
		assert.Equal(t, forbiddenMessage, errorbank.From(err).Message())
	})

	t.Run("claim with no name characters never matches", func(t *testing.T) {
		mockOrders := new(MockOrders)
		svc := newTestService(new(MockRepository), mockOrders, new(MockMailer))

		_, err := svc.Authorize(context.Background(), " !!! ")

		require.Error(t, err)
		assert.Equal(t, errorbank.KindForbidden, errorbank.From(err).Kind())
		mockOrders.AssertNotCalled(t, "ListCompleted", mock.Anything)
	})
}

func validReviewRequest() dto.CreateReviewRequest {
	return dto.CreateReviewRequest{
		DepositorName: "김민수",
		Rating:        4.5,
		Content:       "정말 유익한 책이었습니다.",
	}
}

func TestCreateReview(t *testing.T) {
	t.Run("authorized review links the vouching order", func(t *testing.T) {
		mockRepo := new(MockRepository)
		mockOrders := new(MockOrders)
		mockMail := new(MockMailer)
		svc := newTestService(mockRepo, mockOrders, mockMail)

		mockOrders.On("ListCompleted", mock.Anything).Return(completedOrders(), nil)
		mockRepo.On("Create", mock.Anything, mock.AnythingOfType("*entity.Review")).Return(nil)
		mockMail.On("SendReviewThankYou", mock.Anything, mock.MatchedBy(func(e mailer.ReviewThankYou) bool {
			return e.To == "minsu@example.com" && e.Rating == 4.5
		})).Return(nil)

		review, err := svc.Create(context.Background(), validReviewRequest())

		require.NoError(t, err)
		assert.Equal(t, "order-1", review.OrderID)
		assert.Equal(t, "Kim Minsu", review.AuthorName)
		assert.Equal(t, "김민수", review.DepositorName)
		mockMail.AssertExpectations(t)
	})

	t.Run("no completed orders means forbidden", func(t *testing.T) {
		mockRepo := new(MockRepository)
		mockOrders := new(MockOrders)
		svc := newTestService(mockRepo, mockOrders, new(MockMailer))

		mockOrders.On("ListCompleted", mock.Anything).Return([]entity.Order{}, nil)

		_, err := svc.Create(context.Background(), validReviewRequest())

		require.Error(t, err)
		assert.Equal(t, errorbank.KindForbidden, errorbank.From(err).Kind())
		mockRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("rating validation", func(t *testing.T) {
		cases := []struct {
			name   string
			rating float64
			valid  bool
		}{
			{"half step", 4.5, true},
			{"whole step", 5, true},
			{"minimum", 0.5, true},
			{"off step", 4.3, false},
			{"zero", 0, false},
			{"above maximum", 5.5, false},
			{"negative", -1, false},
			{"nan", math.NaN(), false},
		}
		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				mockRepo := new(MockRepository)
				mockOrders := new(MockOrders)
				mockMail := new(MockMailer)
				svc := newTestService(mockRepo, mockOrders, mockMail)

				if tc.valid {
					mockOrders.On("ListCompleted", mock.Anything).Return(completedOrders(), nil)
					mockRepo.On("Create", mock.Anything, mock.Anything).Return(nil)
					mockMail.On("SendReviewThankYou", mock.Anything, mock.Anything).Return(nil)
				}

				req := validReviewRequest()
				req.Rating = tc.rating
				_, err := svc.Create(context.Background(), req)

				if tc.valid {
					assert.NoError(t, err)
				} else {
					require.Error(t, err)
					assert.Equal(t, errorbank.KindBadRequest, errorbank.From(err).Kind())
				}
			})
		}
	})

	t.Run("thank-you email failure does not fail the review", func(t *testing.T) {
		mockRepo := new(MockRepository)
		mockOrders := new(MockOrders)
		mockMail := new(MockMailer)
		svc := newTestService(mockRepo, mockOrders, mockMail)

		mockOrders.On("ListCompleted", mock.Anything).Return(completedOrders(), nil)
		mockRepo.On("Create", mock.Anything, mock.Anything).Return(nil)
		mockMail.On("SendReviewThankYou", mock.Anything, mock.Anything).Return(errors.New("smtp down"))

		review, err := svc.Create(context.Background(), validReviewRequest())

		require.NoError(t, err)
		assert.NotEmpty(t, review.ID)
	})

	t.Run("skips email when vouching order has no address", func(t *testing.T) {
		orders := completedOrders()
		orders[0].BuyerEmail = ""
		mockRepo := new(MockRepository)
		mockOrders := new(MockOrders)
		mockMail := new(MockMailer)
		svc := newTestService(mockRepo, mockOrders, mockMail)

		mockOrders.On("ListCompleted", mock.Anything).Return(orders, nil)
		mockRepo.On("Create", mock.Anything, mock.Anything).Return(nil)

		_, err := svc.Create(context.Background(), validReviewRequest())

		require.NoError(t, err)
		mockMail.AssertNotCalled(t, "SendReviewThankYou", mock.Anything, mock.Anything)
	})
}

func TestUpdateReview(t *testing.T) {
	t.Run("missing review surfaces not found", func(t *testing.T) {
		mockRepo := new(MockRepository)
		svc := newTestService(mockRepo, new(MockOrders), new(MockMailer))

		mockRepo.On("Update", mock.Anything, "gone", 4.0, "edited").Return(repo.ErrNotFound)

		err := svc.Update(context.Background(), dto.UpdateReviewRequest{ID: "gone", Rating: 4.0, Content: "edited"})

		require.Error(t, err)
		assert.Equal(t, errorbank.KindNotFound, errorbank.From(err).Kind())
	})

	t.Run("off-step rating is rejected before the store", func(t *testing.T) {
		mockRepo := new(MockRepository)
		svc := newTestService(mockRepo, new(MockOrders), new(MockMailer))

		err := svc.Update(context.Background(), dto.UpdateReviewRequest{ID: "r1", Rating: 4.3, Content: "edited"})

		require.Error(t, err)
		assert.Equal(t, errorbank.KindBadRequest, errorbank.From(err).Kind())
		mockRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestDeleteReview(t *testing.T) {
	t.Run("missing review surfaces not found", func(t *testing.T) {
		mockRepo := new(MockRepository)
		svc := newTestService(mockRepo, new(MockOrders), new(MockMailer))

		mockRepo.On("Delete", mock.Anything, "gone").Return(repo.ErrNotFound)

		err := svc.Delete(context.Background(), "gone")

		require.Error(t, err)
		assert.Equal(t, errorbank.KindNotFound, errorbank.From(err).Kind())
	})
}

func TestNormalizeRating(t *testing.T) {
	got, ok := normalizeRating(4.4999999)
	require.True(t, ok)
	assert.Equal(t, 4.5, got)

	_, ok = normalizeRating(math.Inf(1))
	assert.False(t, ok)
}

package order

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/bookmint/inkwell/internal/config"
	"github.com/bookmint/inkwell/internal/dto"
	"github.com/bookmint/inkwell/internal/entity"
	"github.com/bookmint/inkwell/internal/mailer"
	repo "github.com/bookmint/inkwell/internal/repository/order"
	"github.com/bookmint/inkwell/pkg/errorbank"
)

// MockRepository is a mock of the order Repository.
type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) Create(ctx context.Context, order *entity.Order) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}

func (m *MockRepository) GetByID(ctx context.Context, id string) (*entity.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Order), args.Error(1)
}

func (m *MockRepository) List(ctx context.Context) ([]entity.Order, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Order), args.Error(1)
}

func (m *MockRepository) Complete(ctx context.Context, id string, completedAt time.Time) error {
	args := m.Called(ctx, id, completedAt)
	return args.Error(0)
}

func (m *MockRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
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

// MockSettings is a mock of SettingsSource.
type MockSettings struct {
	mock.Mock
}

func (m *MockSettings) DownloadEmailSettings(ctx context.Context) (mailer.DownloadSettings, error) {
	args := m.Called(ctx)
	return args.Get(0).(mailer.DownloadSettings), args.Error(1)
}

func newTestService(r *MockRepository, s *MockSettings, m *MockMailer) *Service {
	return NewService(Params{
		Repository: r,
		Settings:   s,
		Mail:       m,
		Config:     config.Config{},
		Logger:     zap.NewNop(),
	})
}

func validRequest() dto.CreateOrderRequest {
	return dto.CreateOrderRequest{
		BuyerName:     "Kim Minsu",
		BuyerEmail:    "minsu@example.com",
		DepositorName: "김민수",
		SocialHandle:  "@minsu.reads",
		Amount:        13000,
	}
}

func TestCreate(t *testing.T) {
	t.Run("valid input yields pending order", func(t *testing.T) {
		mockRepo := new(MockRepository)
		svc := newTestService(mockRepo, new(MockSettings), new(MockMailer))

		mockRepo.On("Create", mock.Anything, mock.AnythingOfType("*entity.Order")).Return(nil)

		order, err := svc.Create(context.Background(), validRequest())

		require.NoError(t, err)
		assert.NotEmpty(t, order.ID)
		assert.Equal(t, entity.OrderStatusPending, order.Status)
		assert.Nil(t, order.CompletedAt)
		assert.False(t, order.CreatedAt.IsZero())
		mockRepo.AssertExpectations(t)
	})

	t.Run("validation failures", func(t *testing.T) {
		cases := []struct {
			name   string
			mutate func(*dto.CreateOrderRequest)
		}{
			{"missing buyer name", func(r *dto.CreateOrderRequest) { r.BuyerName = "" }},
			{"missing email", func(r *dto.CreateOrderRequest) { r.BuyerEmail = "" }},
			{"missing depositor", func(r *dto.CreateOrderRequest) { r.DepositorName = "" }},
			{"zero amount", func(r *dto.CreateOrderRequest) { r.Amount = 0 }},
			{"negative amount", func(r *dto.CreateOrderRequest) { r.Amount = -100 }},
			{"malformed email", func(r *dto.CreateOrderRequest) { r.BuyerEmail = "not-an-email" }},
			{"email missing tld", func(r *dto.CreateOrderRequest) { r.BuyerEmail = "a@b" }},
			{"email with space", func(r *dto.CreateOrderRequest) { r.BuyerEmail = "a b@c.com" }},
		}
		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				svc := newTestService(new(MockRepository), new(MockSettings), new(MockMailer))
				req := validRequest()
				tc.mutate(&req)

				_, err := svc.Create(context.Background(), req)

				require.Error(t, err)
				assert.Equal(t, errorbank.KindBadRequest, errorbank.From(err).Kind())
			})
		}
	})
}

func completedOrder(id string) *entity.Order {
	created := time.Now().UTC().Add(-time.Hour)
	completed := time.Now().UTC()
	return &entity.Order{
		ID:            id,
		BuyerName:     "Kim Minsu",
		BuyerEmail:    "minsu@example.com",
		DepositorName: "김민수",
		Amount:        13000,
		Status:        entity.OrderStatusCompleted,
		CreatedAt:     created,
		CompletedAt:   &completed,
	}
}

func TestComplete(t *testing.T) {
	const orderID = "abcdef12-3456-7890-abcd-ef1234567890"

	t.Run("transitions and sends download email", func(t *testing.T) {
		mockRepo := new(MockRepository)
		mockSettings := new(MockSettings)
		mockMail := new(MockMailer)
		svc := newTestService(mockRepo, mockSettings, mockMail)

		order := completedOrder(orderID)
		var completedAt time.Time
		mockRepo.On("Complete", mock.Anything, orderID, mock.AnythingOfType("time.Time")).
			Run(func(args mock.Arguments) { completedAt = args.Get(2).(time.Time) }).
			Return(nil)
		mockRepo.On("GetByID", mock.Anything, orderID).Return(order, nil)
		mockSettings.On("DownloadEmailSettings", mock.Anything).Return(mailer.DownloadSettings{Subject: "Your book"}, nil)
		mockMail.On("SendDownloadEmail", mock.Anything, mock.MatchedBy(func(e mailer.DownloadEmail) bool {
			return e.To == "minsu@example.com" && e.OrderID == orderID && e.Settings.Subject == "Your book"
		})).Return(nil)

		err := svc.Complete(context.Background(), orderID)

		require.NoError(t, err)
		assert.False(t, completedAt.IsZero())
		assert.False(t, completedAt.Before(order.CreatedAt), "completion must not predate creation")
		mockRepo.AssertExpectations(t)
		mockMail.AssertExpectations(t)
	})

	t.Run("already completed surfaces bad request and skips email", func(t *testing.T) {
		mockRepo := new(MockRepository)
		mockMail := new(MockMailer)
		svc := newTestService(mockRepo, new(MockSettings), mockMail)

		mockRepo.On("Complete", mock.Anything, orderID, mock.AnythingOfType("time.Time")).Return(repo.ErrAlreadyCompleted)

		err := svc.Complete(context.Background(), orderID)

		require.Error(t, err)
		assert.Equal(t, errorbank.KindBadRequest, errorbank.From(err).Kind())
		mockMail.AssertNotCalled(t, "SendDownloadEmail", mock.Anything, mock.Anything)
	})

	t.Run("missing order surfaces not found", func(t *testing.T) {
		mockRepo := new(MockRepository)
		svc := newTestService(mockRepo, new(MockSettings), new(MockMailer))

		mockRepo.On("Complete", mock.Anything, orderID, mock.AnythingOfType("time.Time")).Return(repo.ErrNotFound)

		err := svc.Complete(context.Background(), orderID)

		require.Error(t, err)
		assert.Equal(t, errorbank.KindNotFound, errorbank.From(err).Kind())
	})

	t.Run("email transport failure does not undo completion", func(t *testing.T) {
		mockRepo := new(MockRepository)
		mockSettings := new(MockSettings)
		mockMail := new(MockMailer)
		svc := newTestService(mockRepo, mockSettings, mockMail)

		mockRepo.On("Complete", mock.Anything, orderID, mock.AnythingOfType("time.Time")).Return(nil)
		mockRepo.On("GetByID", mock.Anything, orderID).Return(completedOrder(orderID), nil)
		mockSettings.On("DownloadEmailSettings", mock.Anything).Return(mailer.DownloadSettings{}, nil)
		mockMail.On("SendDownloadEmail", mock.Anything, mock.Anything).Return(errors.New("smtp down"))

		err := svc.Complete(context.Background(), orderID)

		assert.NoError(t, err)
	})

	t.Run("settings fetch failure still sends with defaults", func(t *testing.T) {
		mockRepo := new(MockRepository)
		mockSettings := new(MockSettings)
		mockMail := new(MockMailer)
		svc := newTestService(mockRepo, mockSettings, mockMail)

		mockRepo.On("Complete", mock.Anything, orderID, mock.AnythingOfType("time.Time")).Return(nil)
		mockRepo.On("GetByID", mock.Anything, orderID).Return(completedOrder(orderID), nil)
		mockSettings.On("DownloadEmailSettings", mock.Anything).Return(mailer.DownloadSettings{}, errors.New("db down"))
		mockMail.On("SendDownloadEmail", mock.Anything, mock.MatchedBy(func(e mailer.DownloadEmail) bool {
			return reflect.DeepEqual(e.Settings, mailer.DownloadSettings{})
		})).Return(nil)

		err := svc.Complete(context.Background(), orderID)

		require.NoError(t, err)
		mockMail.AssertExpectations(t)
	})
}

func TestResendDownloadEmail(t *testing.T) {
	const orderID = "abcdef12-3456-7890-abcd-ef1234567890"

	t.Run("rejects pending order", func(t *testing.T) {
		mockRepo := new(MockRepository)
		svc := newTestService(mockRepo, new(MockSettings), new(MockMailer))

		pending := completedOrder(orderID)
		pending.Status = entity.OrderStatusPending
		pending.CompletedAt = nil
		mockRepo.On("GetByID", mock.Anything, orderID).Return(pending, nil)

		err := svc.ResendDownloadEmail(context.Background(), orderID)

		require.Error(t, err)
		assert.Equal(t, errorbank.KindBadRequest, errorbank.From(err).Kind())
	})

	t.Run("surfaces transport failure", func(t *testing.T) {
		mockRepo := new(MockRepository)
		mockSettings := new(MockSettings)
		mockMail := new(MockMailer)
		svc := newTestService(mockRepo, mockSettings, mockMail)

		mockRepo.On("GetByID", mock.Anything, orderID).Return(completedOrder(orderID), nil)
		mockSettings.On("DownloadEmailSettings", mock.Anything).Return(mailer.DownloadSettings{}, nil)
		mockMail.On("SendDownloadEmail", mock.Anything, mock.Anything).Return(errors.New("smtp down"))

		err := svc.ResendDownloadEmail(context.Background(), orderID)

		require.Error(t, err)
		assert.Equal(t, errorbank.KindInternal, errorbank.From(err).Kind())
	})
}

func TestDelete(t *testing.T) {
	t.Run("missing order is not an error", func(t *testing.T) {
		mockRepo := new(MockRepository)
		svc := newTestService(mockRepo, new(MockSettings), new(MockMailer))

		mockRepo.On("Delete", mock.Anything, "gone").Return(repo.ErrNotFound)

		assert.NoError(t, svc.Delete(context.Background(), "gone"))
	})

	t.Run("store failure surfaces internal", func(t *testing.T) {
		mockRepo := new(MockRepository)
		svc := newTestService(mockRepo, new(MockSettings), new(MockMailer))

		mockRepo.On("Delete", mock.Anything, "x").Return(errors.New("db down"))

		err := svc.Delete(context.Background(), "x")
		require.Error(t, err)
		assert.Equal(t, errorbank.KindInternal, errorbank.From(err).Kind())
	})
}

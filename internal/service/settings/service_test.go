package settings

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/bookmint/inkwell/internal/config"
	"github.com/bookmint/inkwell/internal/dto"
	"github.com/bookmint/inkwell/internal/entity"
	repo "github.com/bookmint/inkwell/internal/repository/settings"
)

// MockRepository is a mock of the settings Repository.
type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) Get(ctx context.Context) (*entity.SiteSettings, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.SiteSettings), args.Error(1)
}

func (m *MockRepository) Upsert(ctx context.Context, settings *entity.SiteSettings) error {
	args := m.Called(ctx, settings)
	return args.Error(0)
}

func newTestService(r *MockRepository) *Service {
	return NewService(Params{
		Repository: r,
		Config:     config.Config{},
		Logger:     zap.NewNop(),
	})
}

func TestGet(t *testing.T) {
	t.Run("unwritten row falls back to defaults", func(t *testing.T) {
		mockRepo := new(MockRepository)
		svc := newTestService(mockRepo)

		mockRepo.On("Get", mock.Anything).Return(nil, repo.ErrNotFound)

		settings, err := svc.Get(context.Background())

		require.NoError(t, err)
		assert.Equal(t, defaultBankName, settings.BankName)
		assert.Equal(t, defaultAccountNumber, settings.AccountNumber)
		assert.Equal(t, int64(defaultPrice), settings.Price)
		assert.Equal(t, int64(defaultOriginalPrice), settings.OriginalPrice)
	})

	t.Run("stored row wins over defaults", func(t *testing.T) {
		mockRepo := new(MockRepository)
		svc := newTestService(mockRepo)

		mockRepo.On("Get", mock.Anything).Return(&entity.SiteSettings{BankName: "국민은행", Price: 9900}, nil)

		settings, err := svc.Get(context.Background())

		require.NoError(t, err)
		assert.Equal(t, "국민은행", settings.BankName)
		assert.Equal(t, int64(9900), settings.Price)
	})
}

func TestNormalizePayload(t *testing.T) {
	t.Run("drops blank urls and trims link fields", func(t *testing.T) {
		settings := normalizePayload(dto.SettingsPayload{
			DownloadURLs: []string{"  https://a.example/book.pdf  ", "", "   "},
			DownloadLinks: []entity.DownloadLink{
				{Name: " PDF ", URL: " https://b.example/book.pdf "},
				{Name: "EPUB", URL: "   "},
			},
		})

		assert.Equal(t, []string{"https://a.example/book.pdf"}, settings.DownloadURLs)
		require.Len(t, settings.DownloadLinks, 1)
		assert.Equal(t, entity.DownloadLink{Name: "PDF", URL: "https://b.example/book.pdf"}, settings.DownloadLinks[0])
	})

	t.Run("restores defaults for blank template fields", func(t *testing.T) {
		settings := normalizePayload(dto.SettingsPayload{})

		assert.Equal(t, defaultEmailSubject, settings.DownloadEmailSubject)
		assert.Equal(t, defaultEmailHeading, settings.DownloadEmailHeading)
		assert.Equal(t, defaultSaleLabel, settings.SaleLabel)
		assert.False(t, settings.UpdatedAt.IsZero())
	})

	t.Run("caps stored urls", func(t *testing.T) {
		urls := make([]string, maxStoredDownloadURLs+5)
		for i := range urls {
			urls[i] = "https://example.com/file"
		}

		settings := normalizePayload(dto.SettingsPayload{DownloadURLs: urls})

		assert.Len(t, settings.DownloadURLs, maxStoredDownloadURLs)
	})
}

func TestDownloadEmailSettings(t *testing.T) {
	t.Run("maps the stored template", func(t *testing.T) {
		mockRepo := new(MockRepository)
		svc := newTestService(mockRepo)

		mockRepo.On("Get", mock.Anything).Return(&entity.SiteSettings{
			DownloadEmailSubject: "전자책 도착",
			DownloadEmailHeading: "다운로드",
			DownloadEmailText:    "{name}님 감사합니다.\n{links}",
			DownloadLinks:        []entity.DownloadLink{{Name: "PDF", URL: "https://a.example/book.pdf"}},
			DownloadURLs:         []string{"https://b.example/book.epub"},
		}, nil)

		snapshot, err := svc.DownloadEmailSettings(context.Background())

		require.NoError(t, err)
		assert.Equal(t, "전자책 도착", snapshot.Subject)
		assert.Equal(t, "다운로드", snapshot.Heading)
		require.Len(t, snapshot.Links, 1)
		assert.Equal(t, "https://a.example/book.pdf", snapshot.Links[0].URL)
		assert.Equal(t, []string{"https://b.example/book.epub"}, snapshot.URLs)
	})

	t.Run("unwritten row still yields the default template", func(t *testing.T) {
		mockRepo := new(MockRepository)
		svc := newTestService(mockRepo)

		mockRepo.On("Get", mock.Anything).Return(nil, repo.ErrNotFound)

		snapshot, err := svc.DownloadEmailSettings(context.Background())

		require.NoError(t, err)
		assert.Equal(t, defaultEmailSubject, snapshot.Subject)
	})
}

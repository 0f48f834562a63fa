package dto

import (
	"time"

	"github.com/bookmint/inkwell/internal/entity"
)

// SettingsPayload carries the full site settings document for both the admin
// upsert request and the read response.
type SettingsPayload struct {
	BankName             string                `json:"bank_name"`
	AccountNumber        string                `json:"account_number"`
	AccountHolder        string                `json:"account_holder"`
	Price                int64                 `json:"price"`
	OriginalPrice        int64                 `json:"original_price"`
	BookCoverURL         string                `json:"book_cover_url"`
	DownloadURLs         []string              `json:"ebook_download_urls"`
	DownloadLinks        []entity.DownloadLink `json:"ebook_download_links"`
	DownloadEmailText    string                `json:"download_email_text"`
	DownloadEmailSubject string                `json:"download_email_subject"`
	DownloadEmailHeading string                `json:"download_email_heading"`
	SaleEnabled          bool                  `json:"sale_enabled"`
	SaleLabel            string                `json:"sale_label"`
	SaleEndAt            *time.Time            `json:"sale_end_at"`
}

// SettingsResponse wraps the settings document.
type SettingsResponse struct {
	Settings SettingsPayload `json:"settings"`
}

package entity

import (
	"time"

	"github.com/uptrace/bun"
)

// DownloadLink is a named download URL shown as a button in the delivery email.
type DownloadLink struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// SiteSettings is the single-row storefront configuration: bank transfer
// display info, pricing, the sale window, and the download email template.
type SiteSettings struct {
	bun.BaseModel `bun:"table:site_settings"`

	ID                   int64          `bun:",pk,autoincrement"`
	BankName             string         `bun:"bank_name"`
	AccountNumber        string         `bun:"account_number"`
	AccountHolder        string         `bun:"account_holder"`
	Price                int64          `bun:"price"`
	OriginalPrice        int64          `bun:"original_price"`
	BookCoverURL         string         `bun:"book_cover_url"`
	DownloadURLs         []string       `bun:"ebook_download_urls,type:jsonb,nullzero"`
	DownloadLinks        []DownloadLink `bun:"ebook_download_links,type:jsonb,nullzero"`
	DownloadEmailText    string         `bun:"download_email_text"`
	DownloadEmailSubject string         `bun:"download_email_subject"`
	DownloadEmailHeading string         `bun:"download_email_heading"`
	SaleEnabled          bool           `bun:"sale_enabled"`
	SaleLabel            string         `bun:"sale_label"`
	SaleEndAt            *time.Time     `bun:"sale_end_at,nullzero"`
	UpdatedAt            time.Time      `bun:"updated_at,nullzero"`
}

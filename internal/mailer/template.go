package mailer

import (
	"fmt"
	"html"
	"regexp"
	"strings"

	"github.com/bookmint/inkwell/internal/entity"
)

// At most two links ever appear in a delivery email, regardless of how many
// the settings provide.
const maxDownloadLinks = 2

const defaultDownloadSubject = "Download links"

const defaultDownloadBody = "Hello {name}\n" +
	"Your payment is confirmed.\n" +
	"Please use the links below to download your ebook."

// The {links} token renders as an instruction, never as raw URLs; the actual
// clickable links are buttons below the body.
const linksInstruction = "아래 링크를 확인해주세요.\n모바일은 받은메일 표시를 눌러주세요."

var urlPattern = regexp.MustCompile(`https?://\S+`)

// ShortOrderID is the buyer-facing order reference: the first 8 characters of
// the id, uppercased.
func ShortOrderID(id string) string {
	if len(id) > 8 {
		id = id[:8]
	}
	return strings.ToUpper(id)
}

// resolveDownloadLinks picks the links for a delivery email. Precedence:
// explicit named links, then the raw URL list, then URLs extracted from the
// body template, then the single configured fallback URL. The result is
// capped at maxDownloadLinks.
func resolveDownloadLinks(s DownloadSettings, fallbackURL string) []entity.DownloadLink {
	links := make([]entity.DownloadLink, 0, maxDownloadLinks)
	for _, link := range s.Links {
		if strings.TrimSpace(link.URL) == "" {
			continue
		}
		links = append(links, entity.DownloadLink{Name: strings.TrimSpace(link.Name), URL: strings.TrimSpace(link.URL)})
	}

	if len(links) == 0 {
		for _, url := range s.URLs {
			if strings.TrimSpace(url) == "" {
				continue
			}
			links = append(links, entity.DownloadLink{URL: strings.TrimSpace(url)})
		}
	}

	if len(links) == 0 {
		for _, url := range extractURLs(s.Body) {
			links = append(links, entity.DownloadLink{URL: url})
		}
	}

	if len(links) == 0 && fallbackURL != "" {
		links = append(links, entity.DownloadLink{URL: fallbackURL})
	}

	if len(links) > maxDownloadLinks {
		links = links[:maxDownloadLinks]
	}
	return links
}

// extractURLs pulls HTTP(S) URLs out of free text, trimming trailing
// punctuation that commonly clings to pasted links.
func extractURLs(text string) []string {
	matches := urlPattern.FindAllString(text, -1)
	urls := make([]string, 0, len(matches))
	for _, m := range matches {
		urls = append(urls, strings.TrimRight(m, "),."))
	}
	return urls
}

// applyTokens substitutes every occurrence of {name}, {orderId}, and {links}
// literally, before escaping.
func applyTokens(template, buyerName, orderID string) string {
	replacer := strings.NewReplacer(
		"{name}", buyerName,
		"{orderId}", ShortOrderID(orderID),
		"{links}", linksInstruction,
	)
	return replacer.Replace(template)
}

// renderDownloadBody produces the escaped HTML body text of a delivery email.
func renderDownloadBody(email DownloadEmail) string {
	template := email.Settings.Body
	if strings.TrimSpace(template) == "" {
		template = defaultDownloadBody
	}
	substituted := applyTokens(template, email.BuyerName, email.OrderID)
	return strings.ReplaceAll(html.EscapeString(substituted), "\n", "<br/>")
}

func renderLinkButtons(links []entity.DownloadLink) string {
	var b strings.Builder
	for i, link := range links {
		label := strings.Join(strings.Fields(strings.ReplaceAll(link.Name, `\n`, " ")), " ")
		if label == "" {
			label = fmt.Sprintf("Download link %d", i+1)
		}
		fmt.Fprintf(&b, `<table role="presentation" cellpadding="0" cellspacing="0" style="display:inline-block; margin-right:10px; margin-bottom:10px;"><tr><td bgcolor="#2563eb" style="border-radius:10px;"><a href="%s" style="display:inline-block; padding:12px 20px; color:#ffffff; text-decoration:none; font-weight:600; font-size:14px; border-radius:10px;">%s</a></td></tr></table>`,
			html.EscapeString(link.URL), html.EscapeString(label))
	}
	return b.String()
}

// composeDownloadEmail renders the delivery email subject and full HTML
// document from a settings snapshot.
func composeDownloadEmail(email DownloadEmail, fallbackURL string) (subject, body string) {
	subject = email.Settings.Subject
	if strings.TrimSpace(subject) == "" {
		subject = defaultDownloadSubject
	}
	heading := email.Settings.Heading
	if strings.TrimSpace(heading) == "" {
		heading = defaultDownloadSubject
	}

	links := resolveDownloadLinks(email.Settings, fallbackURL)

	body = fmt.Sprintf(`<!DOCTYPE html>
<html>
  <head><meta charset="utf-8"><meta name="viewport" content="width=device-width, initial-scale=1.0"></head>
  <body style="font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif; line-height: 1.6; color: #111827; background: #f3f4f6; padding: 24px;">
    <div style="max-width: 640px; margin: 0 auto;">
      <div style="text-align: center; margin-bottom: 18px;">
        <p style="margin: 0; font-size: 12px; color: #9ca3af; letter-spacing: 0.08em;">EBOOK DELIVERY</p>
        <h1 style="color: #111827; margin: 6px 0 2px; font-size: 22px;">%s</h1>
        <p style="color: #6b7280; font-size: 13px; margin: 0;">Order ID: <strong style="color: #111827;">%s</strong></p>
      </div>
      <div style="background: #ffffff; border-radius: 16px; padding: 22px;">
        <div style="background: #f9fafb; border-radius: 12px; padding: 16px; margin-bottom: 16px;">
          <p style="margin: 0; color: #374151; font-size: 14px; white-space: pre-wrap;">%s</p>
        </div>
        <div style="text-align: left; margin-bottom: 6px;">%s</div>
        <div style="text-align: center; color: #9ca3af; font-size: 12px; border-top: 1px solid #e5e7eb; padding-top: 14px;">
          <p style="margin: 0;">Reply to this email if you need help.</p>
        </div>
      </div>
    </div>
  </body>
</html>`,
		html.EscapeString(heading),
		ShortOrderID(email.OrderID),
		renderDownloadBody(email),
		renderLinkButtons(links),
	)
	return subject, body
}

// composeReviewThankYou renders the fixed-template review confirmation.
func composeReviewThankYou(email ReviewThankYou) (subject, body string) {
	subject = "Thanks for your review"
	body = fmt.Sprintf(`<!DOCTYPE html>
<html>
  <head><meta charset="utf-8"><meta name="viewport" content="width=device-width, initial-scale=1.0"></head>
  <body style="font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif; line-height: 1.6; color: #333; max-width: 600px; margin: 0 auto; padding: 20px;">
    <div style="text-align: center; margin-bottom: 30px;">
      <h1 style="color: #1a1a1a; margin-bottom: 10px;">Thanks, %s</h1>
      <p style="color: #666; font-size: 16px;">We appreciate your feedback.</p>
    </div>
    <div style="background: #f8f9fa; border-radius: 12px; padding: 20px; margin-bottom: 24px;">
      <p style="margin: 0 0 8px 0; color: #666; font-size: 14px;">Rating: <strong style="color: #333;">%g / 5</strong></p>
      <div style="padding: 12px; background: #fff; border-radius: 10px; border: 1px solid #eee;">
        <p style="margin: 0; color: #333; font-size: 14px; white-space: pre-wrap;">%s</p>
      </div>
    </div>
    <div style="text-align: center; color: #999; font-size: 13px; border-top: 1px solid #eee; padding-top: 20px;">
      <p>We will keep improving the product.</p>
    </div>
  </body>
</html>`,
		html.EscapeString(email.BuyerName),
		email.Rating,
		strings.ReplaceAll(html.EscapeString(email.Content), "\n", "<br/>"),
	)
	return subject, body
}

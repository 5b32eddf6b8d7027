// ABOUTME: Template rendering for the low-stock alert email.
// ABOUTME: Templates parsed once at init from embedded FS; subject is computed in code for exact pluralization.
package notify

import (
	"bytes"
	"embed"
	"fmt"
	htmltpl "html/template"
	"strings"
	texttpl "text/template"

	"github.com/Rudrakshi123/smartstock/internal/alert"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

// Template function maps shared by both HTML and text templates.
var funcMap = map[string]any{
	// sevLabel returns the severity badge text for a days-until-stockout value.
	"sevLabel": func(days int) string {
		return alert.Classify(days).Label()
	},
	// sevColor returns the severity presentation color for a days-until-stockout value.
	"sevColor": func(days int) string {
		return alert.Classify(days).Color()
	},
	// stockColor flags the current-stock cell red when below the minimum.
	"stockColor": func(current, minimum int) string {
		if current < minimum {
			return "#ef4444"
		}
		return "#111827"
	},
}

// Parsed templates — one pair for the low-stock alert email.
var (
	lowStockHTML *htmltpl.Template
	lowStockText *texttpl.Template
)

func init() {
	lowStockHTML = htmltpl.Must(htmltpl.New("").Funcs(htmltpl.FuncMap(funcMap)).ParseFS(templateFS, "templates/low_stock.html.tmpl"))
	lowStockText = texttpl.Must(texttpl.New("").Funcs(texttpl.FuncMap(funcMap)).ParseFS(templateFS, "templates/low_stock.txt.tmpl"))
}

// lowStockTemplateData is the context passed to the low-stock email templates.
// RecipientName must already be defaulted by the caller; the renderer applies
// no hidden defaulting.
type lowStockTemplateData struct {
	RecipientName string
	Alerts        []alert.LowStockItem
	Summary       alert.Summary
}

// RenderLowStock renders the low-stock alert email for the given recipient.
// Returns subject, HTML body, and plaintext body. Pure given its inputs:
// no clock, no randomness, table rows in input order.
func RenderLowStock(recipientName string, alerts []alert.LowStockItem) (string, string, string, error) {
	data := lowStockTemplateData{
		RecipientName: recipientName,
		Alerts:        alerts,
		Summary:       alert.Aggregate(alerts),
	}

	subject := sanitizeSubject(subjectLine(data.Summary))

	var htmlBuf bytes.Buffer
	if err := lowStockHTML.ExecuteTemplate(&htmlBuf, "body", data); err != nil {
		return "", "", "", fmt.Errorf("render html: %w", err)
	}

	var textBuf bytes.Buffer
	if err := lowStockText.ExecuteTemplate(&textBuf, "body", data); err != nil {
		return "", "", "", fmt.Errorf("render text: %w", err)
	}

	return subject, htmlBuf.String(), textBuf.String(), nil
}

// subjectLine picks the subject: urgent tone when any alert is critical,
// milder tone otherwise. Counts pluralize with a bare "s" above one.
func subjectLine(sum alert.Summary) string {
	if sum.Critical > 0 {
		return fmt.Sprintf("🚨 URGENT: %d Critical Low Stock Alert%s", sum.Critical, plural(sum.Critical))
	}
	return fmt.Sprintf("⚠️ Low Stock Alert: %d product%s need attention", sum.Total, plural(sum.Total))
}

func plural(n int) string {
	if n > 1 {
		return "s"
	}
	return ""
}

// sanitizeSubject strips CR/LF to prevent email header injection.
func sanitizeSubject(s string) string {
	s = strings.TrimSpace(s)
	return strings.NewReplacer("\r", "", "\n", "").Replace(s)
}

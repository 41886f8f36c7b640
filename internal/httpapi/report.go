package httpapi

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"html/template"
	"net/http"
	"strconv"
	"strings"

	"cafepos/backend/internal/domain"
)

func (a *API) handleDailyReport(w http.ResponseWriter, r *http.Request) {
	summary := a.orders.TodaysSalesSummary()
	if raw := r.URL.Query().Get("date"); raw != "" {
		day, err := a.parseDay(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		summary = a.orders.DailySalesSummary(day)
	}

	switch strings.ToLower(strings.TrimSpace(r.URL.Query().Get("format"))) {
	case "csv":
		body, err := dailySummaryToCSV(summary)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err)
			return
		}
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=\"daily-summary-%s.csv\"", summary.Date))
		_, _ = w.Write(body)
	case "html":
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(dailySummaryToPrintableHTML(summary)))
	default:
		writeJSON(w, http.StatusOK, summary)
	}
}

// handleResetDailyReport deletes today's orders and returns the now empty
// summary.
func (a *API) handleResetDailyReport(w http.ResponseWriter, r *http.Request) {
	a.orders.ResetDailySummary()
	writeJSON(w, http.StatusOK, a.orders.TodaysSalesSummary())
}

func dailySummaryToCSV(summary domain.DailySalesSummary) ([]byte, error) {
	var buf bytes.Buffer
	out := csv.NewWriter(&buf)

	records := [][]string{
		{"section", "key", "value"},
		{"summary", "date", summary.Date},
		{"summary", "total_orders", strconv.Itoa(summary.TotalOrders)},
		{"summary", "total_revenue", summary.TotalRevenue.StringFixed(2)},
	}
	for _, sale := range summary.Lines() {
		records = append(records,
			[]string{"product", sale.Name + "_quantity", strconv.Itoa(sale.Quantity)},
			[]string{"product", sale.Name + "_revenue", sale.Revenue.StringFixed(2)},
		)
	}
	if err := out.WriteAll(records); err != nil {
		return nil, fmt.Errorf("write csv: %w", err)
	}
	return buf.Bytes(), nil
}

// dailySummaryHTMLTmpl renders the printable end-of-day sheet. html/template
// escapes product names.
var dailySummaryHTMLTmpl = template.Must(template.New("daily-summary").Funcs(template.FuncMap{
	"price": domain.FormatPrice,
}).Parse(`<!doctype html>
<html>
<head>
  <meta charset="utf-8" />
  <title>Daily Summary {{.Date}}</title>
  <style>
    body { font-family: sans-serif; margin: 24px; }
    table { width: 100%; border-collapse: collapse; margin-top: 8px; }
    th, td { border: 1px solid #ddd; padding: 6px; font-size: 13px; }
    h2, h3 { margin-bottom: 4px; }
  </style>
</head>
<body>
  <h2>Daily Summary {{.Date}}</h2>
  <p>Orders: {{.TotalOrders}}</p>
  <p>Revenue: {{price .TotalRevenue}}</p>

  <h3>By Product</h3>
  <table>
    <thead><tr><th>Product</th><th>Quantity</th><th>Avg Price</th><th>Revenue</th></tr></thead>
    <tbody>{{range .Lines}}<tr><td>{{.Name}}</td><td style="text-align:right;">{{.Quantity}}</td><td style="text-align:right;">{{price .AveragePrice}}</td><td style="text-align:right;">{{price .Revenue}}</td></tr>{{end}}</tbody>
  </table>
</body>
</html>
`))

func dailySummaryToPrintableHTML(summary domain.DailySalesSummary) string {
	var buf bytes.Buffer
	if err := dailySummaryHTMLTmpl.Execute(&buf, summary); err != nil {
		return "<!doctype html><html><body><p>Report rendering error.</p></body></html>"
	}
	return buf.String()
}

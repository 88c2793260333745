// internal/domain/revenue/query.go
package revenue

import (
	"errors"
	"fmt"
)

// Period is the aggregation granularity for revenue reports
type Period string

const (
	PeriodDaily   Period = "daily"
	PeriodMonthly Period = "monthly"
	PeriodYearly  Period = "yearly"
)

// ErrInvalidPeriod is returned for an unknown granularity label
var ErrInvalidPeriod = errors.New("invalid revenue period")

// ParsePeriod validates a caller-supplied granularity label
func ParsePeriod(s string) (Period, error) {
	switch Period(s) {
	case PeriodDaily, PeriodMonthly, PeriodYearly:
		return Period(s), nil
	case "":
		return PeriodDaily, nil
	default:
		return "", ErrInvalidPeriod
	}
}

// Summary is one row of a revenue report. Period holds the bucket label
// ("2025-08-28", "2025-08" or "2025" depending on granularity). Headline
// revenue is always the delivered figure; pending and cancelled totals are
// reported alongside but never included in it.
type Summary struct {
	Period            string `json:"period"`
	OrdersCount       int64  `json:"orders_count"`
	DeliveredRevenue  int64  `json:"delivered_revenue"`
	PendingRevenue    int64  `json:"pending_revenue"`
	CancelledRevenue  int64  `json:"cancelled_revenue"`
	CheckedOutRevenue int64  `json:"checkedout_revenue"`
}

// ReportRequest holds optional filters for a revenue report
type ReportRequest struct {
	Period Period
	Year   int // Optional; 0 means no filter
	Month  int // Optional; only meaningful with Year for daily reports
}

// Report aggregates the stored buckets at the requested granularity
func (l *Ledger) Report(req ReportRequest) ([]Summary, error) {
	var label string
	switch req.Period {
	case PeriodMonthly:
		label = "to_char(bucket_date, 'YYYY-MM')"
	case PeriodYearly:
		label = "to_char(bucket_date, 'YYYY')"
	default:
		label = "to_char(bucket_date, 'YYYY-MM-DD')"
	}

	query := fmt.Sprintf(`
		SELECT
			%s AS period,
			COALESCE(SUM(orders_count), 0) AS orders_count,
			COALESCE(SUM(delivered_revenue), 0) AS delivered_revenue,
			COALESCE(SUM(pending_revenue), 0) AS pending_revenue,
			COALESCE(SUM(cancelled_revenue), 0) AS cancelled_revenue,
			COALESCE(SUM(checkedout_revenue), 0) AS checkedout_revenue
		FROM revenue_buckets
		WHERE 1 = 1`, label)

	args := []interface{}{}
	if req.Year > 0 {
		query += " AND EXTRACT(YEAR FROM bucket_date) = ?"
		args = append(args, req.Year)
	}
	if req.Month >= 1 && req.Month <= 12 {
		query += " AND EXTRACT(MONTH FROM bucket_date) = ?"
		args = append(args, req.Month)
	}
	query += fmt.Sprintf(" GROUP BY %s ORDER BY period", label)

	rows, err := l.db.Raw(query, args...).Rows()
	if err != nil {
		return nil, fmt.Errorf("failed to query revenue buckets: %w", err)
	}
	defer rows.Close()

	var summaries []Summary
	for rows.Next() {
		var s Summary
		if err := rows.Scan(&s.Period, &s.OrdersCount, &s.DeliveredRevenue, &s.PendingRevenue, &s.CancelledRevenue, &s.CheckedOutRevenue); err != nil {
			continue
		}
		summaries = append(summaries, s)
	}

	return summaries, nil
}

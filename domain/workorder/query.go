package workorder

import (
	"context"
	"math"
	"printdesk/account"
	"printdesk/bizerror"
	"printdesk/common"
	"printdesk/persistence"
	"printdesk/session"
	"strconv"
	"strings"
)

const (
	PageSize = 10
	// MaxPage keeps the row offset within 32 bits.
	MaxPage = math.MaxInt32 / PageSize

	// applied when the caller does not ask for an order
	InitialColumn    = "order_deadline"
	InitialDirection = "asc"

	// applied when the caller asks for an order which is not allowed
	DefaultColumn    = "created_at"
	DefaultDirection = "desc"
)

var (
	QueryWorkOrdersFunc   = QueryWorkOrders
	ComputeDailyStatsFunc = ComputeDailyStats

	SortableColumns = []string{"order_title", "customer_name", "created_at", "order_deadline", "order_status"}

	likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
)

// NormalizeQuery turns raw listing parameters into safe filters. Nothing here fails:
// unknown statuses are dropped, unknown columns and directions fall back to defaults.
func NormalizeQuery(raw *WorkOrderQuery, s *session.Session) *WorkOrderFilters {
	filters := &WorkOrderFilters{
		Search:    strings.TrimSpace(raw.Search),
		Status:    []Status{},
		Column:    DefaultColumn,
		Direction: DefaultDirection,
		Page:      1,
	}

	seen := map[Status]bool{}
	for _, v := range raw.Status {
		status, err := ParseStatus(v)
		if err != nil || seen[status] {
			continue
		}
		seen[status] = true
		filters.Status = append(filters.Status, status)
	}

	column := strings.TrimSpace(raw.Column)
	if column == "" {
		filters.Column = InitialColumn
	} else {
		for _, c := range SortableColumns {
			if c == column {
				filters.Column = c
				break
			}
		}
	}

	direction := strings.ToLower(strings.TrimSpace(raw.Direction))
	if direction == "" {
		filters.Direction = InitialDirection
	} else if direction == "asc" {
		filters.Direction = "asc"
	}

	if page, err := strconv.Atoi(strings.TrimSpace(raw.Page)); err == nil && page > 1 {
		filters.Page = clampPage(page)
	}

	if s.IsAdmin() {
		filters.User = strings.TrimSpace(raw.User)
	}
	return filters
}

// EscapeLike makes s match literally inside a LIKE pattern whose escape character is backslash.
func EscapeLike(s string) string {
	return likeEscaper.Replace(s)
}

func likeEscapeClause() string {
	if persistence.ActiveDataSourceManager.Dialect() == persistence.DriverSqlite {
		return ` ESCAPE '\'`
	}
	// mysql and postgres escape with backslash by default
	return ""
}

// QueryWorkOrders returns one page of orders visible to s: ordinary users see their own orders,
// administrators see every order or those of filters.User.
func QueryWorkOrders(filters *WorkOrderFilters, s *session.Session) (*WorkOrderPage, error) {
	db := persistence.ActiveDataSourceManager.GormDB(s.Context)
	q := db.Model(&WorkOrder{})

	switch {
	case s.IsUser():
		q = q.Where("user_id = ?", s.Identity.ID)
	case s.IsAdmin():
		if filters.User != "" {
			q = q.Where("user_id = ?", filters.User)
		}
	default:
		return nil, bizerror.ErrForbidden
	}

	if filters.Search != "" {
		like := "%" + strings.ToLower(EscapeLike(filters.Search)) + "%"
		esc := likeEscapeClause()
		q = q.Where("(LOWER(order_title) LIKE ?"+esc+" OR LOWER(customer_name) LIKE ?"+esc+" OR LOWER(whatsapp_number) LIKE ?"+esc+")",
			like, like, like)
	}
	if len(filters.Status) > 0 {
		statuses := make([]string, 0, len(filters.Status))
		for _, status := range filters.Status {
			statuses = append(statuses, string(status))
		}
		q = q.Where("order_status IN (?)", statuses)
	}

	total := 0
	if err := q.Count(&total).Error; err != nil {
		return nil, err
	}

	page := clampPage(filters.Page)
	offset := (page - 1) * PageSize
	var records []WorkOrder
	// column and direction come from the allow-lists of NormalizeQuery
	if err := q.Order(filters.Column + " " + filters.Direction).Order("id ASC").
		Offset(offset).Limit(PageSize).Find(&records).Error; err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(records))
	for _, r := range records {
		ids = append(ids, r.UserID)
	}
	names, err := account.QueryAccountNames(s.Context, ids)
	if err != nil {
		return nil, err
	}

	result := &WorkOrderPage{
		Data:        make([]WorkOrderView, 0, len(records)),
		CurrentPage: page,
		LastPage:    lastPage(total),
		PerPage:     PageSize,
		Total:       total,
	}
	for i := range records {
		name, found := names[records[i].UserID]
		result.Data = append(result.Data, records[i].View(name, found))
	}
	if len(records) > 0 {
		from, to := offset+1, offset+len(records)
		result.From, result.To = &from, &to
	}
	return result, nil
}

func clampPage(page int) int {
	if page < 1 {
		return 1
	}
	if page > MaxPage {
		return MaxPage
	}
	return page
}

func lastPage(total int) int {
	if total <= 0 {
		return 1
	}
	return (total + PageSize - 1) / PageSize
}

// ComputeDailyStats counts and sums the orders finished or picked up during day,
// judged by their last update. An empty userID covers the whole shop.
func ComputeDailyStats(ctx context.Context, day common.Date, userID string) (*DailyStats, error) {
	start, end := common.DayRange(day)
	q := persistence.ActiveDataSourceManager.GormDB(ctx).Model(&WorkOrder{}).
		Where("order_status IN (?)", []string{string(StatusFinished), string(StatusPickedUp)}).
		Where("updated_at >= ? AND updated_at < ?", start, end)
	if userID != "" {
		q = q.Where("user_id = ?", userID)
	}

	row := struct {
		QueueCount   int64
		DailyRevenue int64
	}{}
	if err := q.Select("COUNT(*) AS queue_count, COALESCE(SUM(order_cost), 0) AS daily_revenue").Scan(&row).Error; err != nil {
		return nil, err
	}
	return &DailyStats{
		QueueCount:       row.QueueCount,
		DailyRevenue:     row.DailyRevenue,
		DailyRevenueText: common.FormatRupiah(row.DailyRevenue),
	}, nil
}

// CountWorkOrdersByStatus counts the live orders of every status, statuses without orders are reported as zero.
func CountWorkOrdersByStatus(ctx context.Context) (map[Status]int64, error) {
	var rows []struct {
		OrderStatus Status
		Total       int64
	}
	if err := persistence.ActiveDataSourceManager.GormDB(ctx).Model(&WorkOrder{}).
		Select("order_status, COUNT(*) AS total").Group("order_status").Scan(&rows).Error; err != nil {
		return nil, err
	}
	counts := make(map[Status]int64, len(AllStatuses))
	for _, s := range AllStatuses {
		counts[s] = 0
	}
	for _, r := range rows {
		counts[r.OrderStatus] = r.Total
	}
	return counts, nil
}

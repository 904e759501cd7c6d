package notification

import (
	"context"
	"errors"
	"fmt"
	"printdesk/bizerror"
	"printdesk/common"
	"printdesk/domain/workorder"
	"printdesk/persistence"
	"printdesk/session"
	"time"

	"github.com/google/uuid"
	"github.com/jinzhu/gorm"
)

const ListLimit = 100

var (
	QueryNotificationsFunc = QueryNotifications
	MarkAsReadFunc         = MarkAsRead
	MarkAllAsReadFunc      = MarkAllAsRead
)

// readColumn is the read flag operated by the role of s.
func readColumn(s *session.Session) (string, error) {
	switch {
	case s.IsUser():
		return "read_status", nil
	case s.IsAdmin():
		return "admin_read_status", nil
	default:
		return "", bizerror.ErrForbidden
	}
}

func scoped(db *gorm.DB, s *session.Session) *gorm.DB {
	if s.IsUser() {
		return db.Where("user_id = ?", s.Identity.ID)
	}
	return db
}

// QueryNotifications lists the newest notifications visible to s, ordinary users see only their own.
func QueryNotifications(s *session.Session) (*NotificationList, error) {
	column, err := readColumn(s)
	if err != nil {
		return nil, err
	}
	db := persistence.ActiveDataSourceManager.GormDB(s.Context)

	var records []Notification
	if err := scoped(db, s).Order("created_at DESC").Order("id ASC").Limit(ListLimit).Find(&records).Error; err != nil {
		return nil, err
	}
	unread := 0
	if err := scoped(db.Model(&Notification{}), s).Where(column+" = ?", false).Count(&unread).Error; err != nil {
		return nil, err
	}

	result := &NotificationList{Data: make([]NotificationView, 0, len(records)), UnreadCount: unread}
	for _, r := range records {
		read := r.ReadStatus
		if s.IsAdmin() {
			read = r.AdminReadStatus
		}
		result.Data = append(result.Data, NotificationView{Notification: r, Read: read})
	}
	return result, nil
}

// MarkAsRead flips the role's read flag of one notification. Ordinary users can not reach notifications of others.
func MarkAsRead(id string, s *session.Session) error {
	column, err := readColumn(s)
	if err != nil {
		return err
	}
	return persistence.ActiveDataSourceManager.GormDB(s.Context).Transaction(func(tx *gorm.DB) error {
		record := Notification{}
		if err := scoped(tx, s).Where("id = ?", id).First(&record).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return bizerror.ErrNotFound
			}
			return err
		}
		return tx.Model(&Notification{}).Where("id = ?", record.ID).Update(column, true).Error
	})
}

// MarkAllAsRead flips the role's read flag of every unread notification in one statement.
func MarkAllAsRead(s *session.Session) (int64, error) {
	column, err := readColumn(s)
	if err != nil {
		return 0, err
	}
	db := persistence.ActiveDataSourceManager.GormDB(s.Context)
	ret := scoped(db.Model(&Notification{}), s).Where(column+" = ?", false).Update(column, true)
	return ret.RowsAffected, ret.Error
}

func DeadlineMessage(order *workorder.WorkOrder, today common.Date) string {
	days := today.DaysSince(order.OrderDeadline)
	if days <= 0 {
		return fmt.Sprintf("Pekerjaan %s memiliki deadline hari ini.", order.OrderTitle)
	}
	return fmt.Sprintf("Pekerjaan %s terlambat %d hari dari deadline.", order.OrderTitle, days)
}

// GenerateDeadlineNotifications creates one notification for each unfinished order due today or earlier.
// Notifications created by earlier runs are not looked at, every run adds a new one.
func GenerateDeadlineNotifications(ctx context.Context, today common.Date) (int, error) {
	orders, err := workorder.QueryOverdueWorkOrders(ctx, today)
	if err != nil {
		return 0, err
	}
	if len(orders) == 0 {
		return 0, nil
	}

	err = persistence.ActiveDataSourceManager.GormDB(ctx).Transaction(func(tx *gorm.DB) error {
		for i := range orders {
			record := Notification{
				ID:          uuid.New().String(),
				UserID:      orders[i].UserID,
				WorkOrderID: orders[i].ID,
				Message:     DeadlineMessage(&orders[i], today),
			}
			if err := tx.Create(&record).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return len(orders), nil
}

func PurgeNotificationsCreatedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	ret := persistence.ActiveDataSourceManager.GormDB(ctx).Where("created_at < ?", cutoff.UTC()).Delete(&Notification{})
	return ret.RowsAffected, ret.Error
}

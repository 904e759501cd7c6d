package migration

import (
	"context"
	"printdesk/account"
	"printdesk/domain/notification"
	"printdesk/domain/workorder"
	"printdesk/persistence"
	"strings"

	"github.com/sirupsen/logrus"
)

type Index struct {
	Name  string
	Table string
	// Columns are plain column names, Expressions (if any) replace them where functional indexes are supported.
	Columns     []string
	Expressions []string
}

var Indexes = []Index{
	{Name: "idx_work_orders_customer_name", Table: "work_orders",
		Columns: []string{"customer_name"}, Expressions: []string{"LOWER(customer_name)"}},
	{Name: "idx_work_orders_order_title", Table: "work_orders",
		Columns: []string{"order_title"}, Expressions: []string{"LOWER(order_title)"}},
	{Name: "idx_work_orders_whatsapp_number", Table: "work_orders", Columns: []string{"whatsapp_number"}},
	{Name: "idx_work_orders_user_status", Table: "work_orders", Columns: []string{"user_id", "order_status"}},
	{Name: "idx_work_orders_order_deadline", Table: "work_orders", Columns: []string{"order_deadline"}},
	{Name: "idx_work_orders_finished_at", Table: "work_orders", Columns: []string{"finished_at"}},
	{Name: "idx_work_orders_created_at", Table: "work_orders", Columns: []string{"created_at"}},
	{Name: "idx_notifications_created_at", Table: "notifications", Columns: []string{"created_at"}},
}

// Definition renders the index list for the dialect, mysql only gets plain column indexes.
func (idx Index) Definition(dialect string) string {
	parts := idx.Columns
	if len(idx.Expressions) > 0 && dialect != persistence.DriverMysql {
		parts = idx.Expressions
	}
	return strings.Join(parts, ", ")
}

func (idx Index) CreateStatement(dialect string) string {
	return "CREATE INDEX " + idx.Name + " ON " + idx.Table + " (" + idx.Definition(dialect) + ")"
}

// Migrate creates or alters the tables, then creates the missing search indexes.
// Running it again is harmless.
func Migrate(ds *persistence.DataSourceManager) error {
	db := ds.GormDB(context.Background())
	if err := db.AutoMigrate(&account.User{}, &workorder.WorkOrder{}, &notification.Notification{}).Error; err != nil {
		return err
	}

	dialect := ds.Dialect()
	for _, idx := range Indexes {
		if db.Dialect().HasIndex(idx.Table, idx.Name) {
			continue
		}
		if err := db.Exec(idx.CreateStatement(dialect)).Error; err != nil {
			return err
		}
		logrus.WithField("index", idx.Name).Info("index created")
	}
	return nil
}

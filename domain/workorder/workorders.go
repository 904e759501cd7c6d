package workorder

import (
	"context"
	"errors"
	"printdesk/bizerror"
	"printdesk/common"
	"printdesk/domain/state"
	"printdesk/persistence"
	"printdesk/session"
	"time"

	"github.com/google/uuid"
	"github.com/jinzhu/gorm"
)

var (
	CreateWorkOrderFunc     = CreateWorkOrder
	DetailWorkOrderFunc     = DetailWorkOrder
	UpdateWorkOrderFunc     = UpdateWorkOrder
	AdvanceWorkOrderFunc    = AdvanceWorkOrder
	SoftDeleteWorkOrderFunc = SoftDeleteWorkOrder
)

type Advancement struct {
	WorkOrder  *WorkOrder       `json:"workOrder"`
	Transition state.Transition `json:"transition"`
}

func CreateWorkOrder(c *WorkOrderCreation, s *session.Session) (*WorkOrder, error) {
	if !s.IsUser() {
		return nil, bizerror.ErrForbidden
	}
	deadline, err := ValidateCreation(c, common.Today())
	if err != nil {
		return nil, err
	}

	order := &WorkOrder{
		ID:               uuid.New().String(),
		UserID:           s.Identity.ID,
		CustomerName:     c.CustomerName,
		WhatsappNumber:   c.WhatsappNumber,
		OrderTitle:       c.OrderTitle,
		OrderDescription: c.OrderDescription,
		PrintingSize:     c.PrintingSize,
		PrintingMaterial: c.PrintingMaterial,
		OrderDeadline:    deadline,
		OrderStatus:      StatusPending,
	}
	if err := persistence.ActiveDataSourceManager.GormDB(s.Context).Create(order).Error; err != nil {
		return nil, err
	}
	return order, nil
}

// DetailWorkOrder returns any order to an administrator, and only owned orders to an ordinary user.
func DetailWorkOrder(id string, s *session.Session) (*WorkOrder, error) {
	if !s.IsUser() && !s.IsAdmin() {
		return nil, bizerror.ErrForbidden
	}
	order, err := findWorkOrder(persistence.ActiveDataSourceManager.GormDB(s.Context), id)
	if err != nil {
		return nil, err
	}
	if s.IsUser() && order.UserID != s.Identity.ID {
		return nil, bizerror.ErrForbidden
	}
	return order, nil
}

// UpdateWorkOrder replaces every editable field. Any enumerated status may be assigned here,
// only the pairing of cost and status is enforced.
func UpdateWorkOrder(id string, u *WorkOrderUpdating, s *session.Session) (*WorkOrder, error) {
	if !s.IsUser() {
		return nil, bizerror.ErrForbidden
	}
	deadline, err := ValidateUpdating(u, common.Today())
	if err != nil {
		return nil, err
	}

	var updated *WorkOrder
	err = persistence.ActiveDataSourceManager.GormDB(s.Context).Transaction(func(tx *gorm.DB) error {
		order, err := findOwnedWorkOrder(tx, id, s)
		if err != nil {
			return err
		}

		cost := u.OrderCost
		if !u.OrderStatus.CostAllowed() {
			cost = nil
		}
		finishedAt := order.FinishedAt
		if IsDone(u.OrderStatus) {
			if finishedAt == nil {
				now := common.CurrentTime()
				finishedAt = &now
			}
		} else {
			finishedAt = nil
		}

		changes := map[string]interface{}{
			"customer_name":     u.CustomerName,
			"whatsapp_number":   u.WhatsappNumber,
			"order_title":       u.OrderTitle,
			"order_description": u.OrderDescription,
			"printing_size":     u.PrintingSize,
			"printing_material": u.PrintingMaterial,
			"order_deadline":    deadline,
			"order_status":      string(u.OrderStatus),
			"order_cost":        cost,
			"finished_at":       finishedAt,
		}
		if err := tx.Model(&WorkOrder{}).Where("id = ?", order.ID).Updates(changes).Error; err != nil {
			return err
		}
		updated, err = findWorkOrder(tx, order.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// AdvanceWorkOrder moves the order one step along Lifecycle. The cost is only read when finishing.
func AdvanceWorkOrder(id string, cost *int64, s *session.Session) (*Advancement, error) {
	if !s.IsUser() {
		return nil, bizerror.ErrForbidden
	}

	var result *Advancement
	err := persistence.ActiveDataSourceManager.GormDB(s.Context).Transaction(func(tx *gorm.DB) error {
		order, err := findOwnedWorkOrder(tx, id, s)
		if err != nil {
			return err
		}
		transition, ok := Lifecycle.Next(string(order.OrderStatus))
		if !ok {
			return bizerror.ErrInvalidTransition
		}

		changes := map[string]interface{}{"order_status": transition.To.Name}
		if transition.Name == TransitionFinish {
			if err := validateAdvanceCost(cost); err != nil {
				return err
			}
			changes["order_cost"] = *cost
			changes["finished_at"] = common.CurrentTime()
		}

		// conditional on the observed status, a concurrent advance makes this one a no-op
		ret := tx.Model(&WorkOrder{}).Where("id = ? AND order_status = ?", order.ID, string(order.OrderStatus)).Updates(changes)
		if ret.Error != nil {
			return ret.Error
		}
		if ret.RowsAffected == 0 {
			return bizerror.ErrInvalidTransition
		}

		updated, err := findWorkOrder(tx, order.ID)
		if err != nil {
			return err
		}
		result = &Advancement{WorkOrder: updated, Transition: transition}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func SoftDeleteWorkOrder(id string, s *session.Session) (*WorkOrder, error) {
	if !s.IsUser() {
		return nil, bizerror.ErrForbidden
	}
	var deleted *WorkOrder
	err := persistence.ActiveDataSourceManager.GormDB(s.Context).Transaction(func(tx *gorm.DB) error {
		order, err := findOwnedWorkOrder(tx, id, s)
		if err != nil {
			return err
		}
		if err := tx.Where("id = ?", order.ID).Delete(&WorkOrder{}).Error; err != nil {
			return err
		}
		deleted = order
		return nil
	})
	if err != nil {
		return nil, err
	}
	return deleted, nil
}

// PurgeWorkOrdersCreatedBefore permanently removes orders created before cutoff, soft deleted ones included.
func PurgeWorkOrdersCreatedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	ret := persistence.ActiveDataSourceManager.GormDB(ctx).Unscoped().
		Where("created_at < ?", cutoff.UTC()).Delete(&WorkOrder{})
	return ret.RowsAffected, ret.Error
}

// QueryOverdueWorkOrders lists unfinished orders whose deadline is on or before day, latest deadline first.
func QueryOverdueWorkOrders(ctx context.Context, day common.Date) ([]WorkOrder, error) {
	var orders []WorkOrder
	if err := persistence.ActiveDataSourceManager.GormDB(ctx).
		Where("order_status IN (?)", []string{string(StatusPending), string(StatusInProcess)}).
		Where("order_deadline <= ?", day).
		Order("order_deadline DESC").Order("id ASC").
		Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

func findWorkOrder(db *gorm.DB, id string) (*WorkOrder, error) {
	order := WorkOrder{}
	if err := db.Where("id = ?", id).First(&order).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, bizerror.ErrNotFound
		}
		return nil, err
	}
	return &order, nil
}

func findOwnedWorkOrder(db *gorm.DB, id string, s *session.Session) (*WorkOrder, error) {
	order, err := findWorkOrder(db, id)
	if err != nil {
		return nil, err
	}
	if order.UserID != s.Identity.ID {
		return nil, bizerror.ErrForbidden
	}
	return order, nil
}

package workorder

import (
	"errors"
	"printdesk/common"
	"time"
)

type Status string

const (
	StatusPending   Status = "PENDING"
	StatusInProcess Status = "IN_PROCESS"
	StatusFinished  Status = "FINISHED"
	StatusPickedUp  Status = "PICKED_UP"
)

var (
	AllStatuses = []Status{StatusPending, StatusInProcess, StatusFinished, StatusPickedUp}

	ErrUnknownStatus = errors.New("unknown order status")
)

func ParseStatus(s string) (Status, error) {
	for _, status := range AllStatuses {
		if string(status) == s {
			return status, nil
		}
	}
	return "", ErrUnknownStatus
}

func (s Status) Valid() bool {
	_, err := ParseStatus(string(s))
	return err == nil
}

// CostAllowed reports whether an order in this status may carry a cost.
func (s Status) CostAllowed() bool {
	return IsDone(s)
}

type WorkOrder struct {
	ID     string `json:"id" gorm:"primary_key;type:varchar(36)"`
	UserID string `json:"userId" gorm:"type:varchar(36);not null"`

	CustomerName     string      `json:"customerName" gorm:"type:varchar(255);not null"`
	WhatsappNumber   string      `json:"whatsappNumber" gorm:"type:varchar(20);not null"`
	OrderTitle       string      `json:"orderTitle" gorm:"type:varchar(255);not null"`
	OrderDescription *string     `json:"orderDescription" gorm:"type:text"`
	PrintingSize     string      `json:"printingSize" gorm:"type:varchar(10);not null"`
	PrintingMaterial string      `json:"printingMaterial" gorm:"type:varchar(255);not null"`
	OrderDeadline    common.Date `json:"orderDeadline" gorm:"type:date;not null"`
	OrderCost        *int64      `json:"orderCost" gorm:"type:bigint"`
	OrderStatus      Status      `json:"orderStatus" gorm:"type:varchar(16);not null"`

	CreatedAt  time.Time  `json:"createdAt"`
	UpdatedAt  time.Time  `json:"updatedAt"`
	FinishedAt *time.Time `json:"finishedAt"`
	DeletedAt  *time.Time `json:"-"`
}

func (WorkOrder) TableName() string {
	return "work_orders"
}

type WorkOrderCreation struct {
	CustomerName     string  `json:"customerName" validate:"required,min=2,max=255"`
	WhatsappNumber   string  `json:"whatsappNumber" validate:"required,phone"`
	OrderTitle       string  `json:"orderTitle" validate:"required,min=2,max=255"`
	OrderDescription *string `json:"orderDescription" validate:"omitempty,min=2"`
	PrintingSize     string  `json:"printingSize" validate:"required,max=10"`
	PrintingMaterial string  `json:"printingMaterial" validate:"required,min=2,max=255"`
	// OrderDeadline is kept raw so that a malformed date is reported as a field error.
	OrderDeadline string `json:"orderDeadline"`
}

type WorkOrderUpdating struct {
	WorkOrderCreation
	OrderStatus Status `json:"orderStatus" validate:"required,orderstatus"`
	OrderCost   *int64 `json:"orderCost" validate:"omitempty,min=0"`
}

type WorkOrderAdvancing struct {
	OrderCost *int64 `json:"orderCost"`
}

type UserRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// WorkOrderView is the listing projection of a work order.
type WorkOrderView struct {
	ID               string      `json:"id"`
	CustomerName     string      `json:"customerName"`
	WhatsappNumber   string      `json:"whatsappNumber"`
	OrderTitle       string      `json:"orderTitle"`
	OrderDescription *string     `json:"orderDescription"`
	PrintingSize     string      `json:"printingSize"`
	PrintingMaterial string      `json:"printingMaterial"`
	OrderDeadline    common.Date `json:"orderDeadline"`
	OrderStatus      Status      `json:"orderStatus"`
	OrderCost        *int64      `json:"orderCost"`
	CreatedAt        time.Time   `json:"createdAt"`
	UpdatedAt        time.Time   `json:"updatedAt"`
	User             *UserRef    `json:"user"`
}

func (o *WorkOrder) View(userName string, found bool) WorkOrderView {
	v := WorkOrderView{
		ID: o.ID, CustomerName: o.CustomerName, WhatsappNumber: o.WhatsappNumber,
		OrderTitle: o.OrderTitle, OrderDescription: o.OrderDescription,
		PrintingSize: o.PrintingSize, PrintingMaterial: o.PrintingMaterial,
		OrderDeadline: o.OrderDeadline, OrderStatus: o.OrderStatus, OrderCost: o.OrderCost,
		CreatedAt: o.CreatedAt, UpdatedAt: o.UpdatedAt,
	}
	if found {
		v.User = &UserRef{ID: o.UserID, Name: userName}
	}
	return v
}

// WorkOrderQuery holds the listing parameters as they come from the request.
type WorkOrderQuery struct {
	Search    string   `form:"search"`
	Status    []string `form:"status"`
	Column    string   `form:"column"`
	Direction string   `form:"direction"`
	Page      string   `form:"page"`
	User      string   `form:"user"`
}

// WorkOrderFilters is the normalized form of WorkOrderQuery, it is echoed back to the caller.
type WorkOrderFilters struct {
	Search    string   `json:"search"`
	Status    []Status `json:"status"`
	Column    string   `json:"column"`
	Direction string   `json:"direction"`
	User      string   `json:"user,omitempty"`

	Page int `json:"-"`
}

type WorkOrderPage struct {
	Data        []WorkOrderView `json:"data"`
	CurrentPage int             `json:"currentPage"`
	LastPage    int             `json:"lastPage"`
	PerPage     int             `json:"perPage"`
	Total       int             `json:"total"`
	From        *int            `json:"from"`
	To          *int            `json:"to"`
}

type DailyStats struct {
	QueueCount       int64  `json:"queueCount"`
	DailyRevenue     int64  `json:"dailyRevenue"`
	DailyRevenueText string `json:"dailyRevenueText"`
}

type WorkOrderListing struct {
	WorkOrders *WorkOrderPage    `json:"workOrders"`
	Stats      *DailyStats       `json:"stats"`
	Filters    *WorkOrderFilters `json:"filters"`
}

package workorder

import (
	"errors"
	"printdesk/bizerror"
	"printdesk/common"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

const (
	FieldOrderDeadline = "orderDeadline"
	FieldOrderCost     = "orderCost"
)

var (
	phonePattern = regexp.MustCompile(`^[0-9]{8,20}$`)

	validate = newValidator()

	fieldMessages = map[string]string{
		"customerName.required":     "Nama pelanggan harus diisi.",
		"customerName.min":          "Nama pelanggan minimal 2 karakter.",
		"customerName.max":          "Nama pelanggan maksimal 255 karakter.",
		"whatsappNumber.required":   "Nomor WhatsApp harus diisi.",
		"whatsappNumber.phone":      "Format nomor WhatsApp tidak valid.",
		"orderTitle.required":       "Judul pesanan harus diisi.",
		"orderTitle.min":            "Judul pesanan minimal 2 karakter.",
		"orderTitle.max":            "Judul pesanan maksimal 255 karakter.",
		"orderDescription.min":      "Deskripsi minimal 2 karakter.",
		"printingSize.required":     "Ukuran cetak harus diisi.",
		"printingSize.max":          "Ukuran cetak maksimal 10 karakter.",
		"printingMaterial.required": "Bahan cetak harus diisi.",
		"printingMaterial.min":      "Bahan cetak minimal 2 karakter.",
		"printingMaterial.max":      "Bahan cetak maksimal 255 karakter.",
		"orderStatus.required":      "Status pesanan harus dipilih.",
		"orderStatus.orderstatus":   "Status pesanan tidak valid.",
		"orderCost.min":             "Biaya tidak boleh negatif.",
	}

	MessageCostNotNumber    = "Biaya harus berupa angka."
	MessageCostRequired     = "Biaya pesanan harus diisi."
	MessageDeadlineRequired = "Deadline pekerjaan harus diisi."
	MessageDeadlineInvalid  = "Deadline pekerjaan harus berupa tanggal yang valid."
	MessageDeadlineFromNow  = "Deadline harus diatur hari ini atau selanjutnya."
	MessageDeadlineAfterNow = "Deadline pekerjaan harus setelah hari ini."
)

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		return strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
	})
	if err := v.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
		return phonePattern.MatchString(fl.Field().String())
	}); err != nil {
		panic(err)
	}
	if err := v.RegisterValidation("orderstatus", func(fl validator.FieldLevel) bool {
		return Status(fl.Field().String()).Valid()
	}); err != nil {
		panic(err)
	}
	return v
}

func normalizeCreation(c *WorkOrderCreation) {
	c.CustomerName = strings.TrimSpace(c.CustomerName)
	c.WhatsappNumber = strings.TrimSpace(c.WhatsappNumber)
	c.OrderTitle = strings.TrimSpace(c.OrderTitle)
	c.PrintingSize = strings.TrimSpace(c.PrintingSize)
	c.PrintingMaterial = strings.TrimSpace(c.PrintingMaterial)
	c.OrderDeadline = strings.TrimSpace(c.OrderDeadline)
	if c.OrderDescription != nil {
		d := strings.TrimSpace(*c.OrderDescription)
		if d == "" {
			c.OrderDescription = nil
		} else {
			c.OrderDescription = &d
		}
	}
}

// ValidateCreation checks a creation against today, the deadline may be today.
func ValidateCreation(c *WorkOrderCreation, today common.Date) (common.Date, error) {
	normalizeCreation(c)
	fields := map[string]string{}
	if err := collectFieldErrors(c, fields); err != nil {
		return common.Date{}, err
	}
	deadline := checkDeadline(c.OrderDeadline, today, true, fields)
	if len(fields) > 0 {
		return common.Date{}, &bizerror.ErrValidation{Fields: fields}
	}
	return deadline, nil
}

// ValidateUpdating checks an updating against today, the deadline must be later than today.
func ValidateUpdating(u *WorkOrderUpdating, today common.Date) (common.Date, error) {
	normalizeCreation(&u.WorkOrderCreation)
	u.OrderStatus = Status(strings.TrimSpace(string(u.OrderStatus)))
	fields := map[string]string{}
	if err := collectFieldErrors(u, fields); err != nil {
		return common.Date{}, err
	}
	deadline := checkDeadline(u.OrderDeadline, today, false, fields)
	if len(fields) > 0 {
		return common.Date{}, &bizerror.ErrValidation{Fields: fields}
	}
	return deadline, nil
}

func validateAdvanceCost(cost *int64) error {
	if cost == nil {
		return &bizerror.ErrValidation{Fields: map[string]string{FieldOrderCost: MessageCostRequired}}
	}
	if *cost < 0 {
		return &bizerror.ErrValidation{Fields: map[string]string{FieldOrderCost: fieldMessages["orderCost.min"]}}
	}
	return nil
}

func collectFieldErrors(obj interface{}, fields map[string]string) error {
	err := validate.Struct(obj)
	if err == nil {
		return nil
	}
	var fieldErrors validator.ValidationErrors
	if !errors.As(err, &fieldErrors) {
		return err
	}
	for _, fe := range fieldErrors {
		if _, exists := fields[fe.Field()]; exists {
			continue
		}
		message, found := fieldMessages[fe.Field()+"."+fe.Tag()]
		if !found {
			message = fe.Error()
		}
		fields[fe.Field()] = message
	}
	return nil
}

func checkDeadline(raw string, today common.Date, allowToday bool, fields map[string]string) common.Date {
	if raw == "" {
		fields[FieldOrderDeadline] = MessageDeadlineRequired
		return common.Date{}
	}
	deadline, err := common.ParseDate(raw)
	if err != nil {
		fields[FieldOrderDeadline] = MessageDeadlineInvalid
		return common.Date{}
	}
	if allowToday && deadline.Before(today) {
		fields[FieldOrderDeadline] = MessageDeadlineFromNow
	}
	if !allowToday && !deadline.After(today) {
		fields[FieldOrderDeadline] = MessageDeadlineAfterNow
	}
	return deadline
}

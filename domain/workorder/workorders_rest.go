package workorder

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"printdesk/bizerror"
	"printdesk/common"
	"printdesk/session"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/google/uuid"
)

var (
	PathWorkOrders = "/v1/work-orders"
)

func RegisterWorkOrdersRestAPI(r *gin.Engine, middleWares ...gin.HandlerFunc) {
	g := r.Group(PathWorkOrders, middleWares...)
	g.GET("", handleQuery)
	g.GET(":id", handleDetail)

	onlyUser := session.RequireRole(session.RoleUser)
	g.POST("", onlyUser, handleCreate)
	g.PUT(":id", onlyUser, handleUpdate)
	g.PATCH(":id", onlyUser, handleAdvance)
	g.DELETE(":id", onlyUser, handleDelete)
}

func handleQuery(c *gin.Context) {
	query := WorkOrderQuery{}
	if err := c.ShouldBindWith(&query, binding.Query); err != nil {
		panic(&bizerror.ErrBadParam{Cause: err})
	}
	// status[]=A&status[]=B is accepted as well as status=A&status=B
	query.Status = append(query.Status, c.QueryArray("status[]")...)

	s := session.ExtractSessionFromGinContext(c)
	filters := NormalizeQuery(&query, s)
	page, err := QueryWorkOrdersFunc(filters, s)
	if err != nil {
		panic(err)
	}
	stats, err := ComputeDailyStatsFunc(s.Context, common.Today(), filters.User)
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusOK, &WorkOrderListing{WorkOrders: page, Stats: stats, Filters: filters})
}

func handleDetail(c *gin.Context) {
	detail, err := DetailWorkOrderFunc(parseID(c), session.ExtractSessionFromGinContext(c))
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusOK, detail)
}

func handleCreate(c *gin.Context) {
	creation := WorkOrderCreation{}
	bindBody(c, &creation)

	order, err := CreateWorkOrderFunc(&creation, session.ExtractSessionFromGinContext(c))
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusCreated, &common.MessageBody{
		Message: fmt.Sprintf("Pekerjaan %s berhasil ditambahkan", order.OrderTitle), Data: order})
}

func handleUpdate(c *gin.Context) {
	id := parseID(c)
	updating := WorkOrderUpdating{}
	bindBody(c, &updating)

	order, err := UpdateWorkOrderFunc(id, &updating, session.ExtractSessionFromGinContext(c))
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusOK, &common.MessageBody{
		Message: fmt.Sprintf("Pekerjaan %s berhasil diperbarui", order.OrderTitle), Data: order})
}

func handleAdvance(c *gin.Context) {
	id := parseID(c)
	advancing := WorkOrderAdvancing{}
	// the body is optional, a missing one advances without cost
	if err := c.ShouldBindBodyWith(&advancing, binding.JSON); err != nil && !errors.Is(err, io.EOF) {
		raiseBindError(err)
	}

	ret, err := AdvanceWorkOrderFunc(id, advancing.OrderCost, session.ExtractSessionFromGinContext(c))
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusOK, &common.MessageBody{
		Message: fmt.Sprintf("Pekerjaan %s berhasil %s", ret.WorkOrder.OrderTitle, ProgressVerb(ret.Transition.Name)),
		Data:    ret.WorkOrder})
}

func handleDelete(c *gin.Context) {
	order, err := SoftDeleteWorkOrderFunc(parseID(c), session.ExtractSessionFromGinContext(c))
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusOK, &common.MessageBody{Message: fmt.Sprintf("Pekerjaan %s berhasil dihapus", order.OrderTitle)})
}

func parseID(c *gin.Context) string {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		panic(&bizerror.ErrBadParam{Cause: errors.New("invalid id '" + id + "'")})
	}
	return id
}

func bindBody(c *gin.Context, obj interface{}) {
	if err := c.ShouldBindBodyWith(obj, binding.JSON); err != nil {
		raiseBindError(err)
	}
}

func raiseBindError(err error) {
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field == FieldOrderCost {
		panic(&bizerror.ErrValidation{Fields: map[string]string{FieldOrderCost: MessageCostNotNumber}})
	}
	if errors.Is(err, io.EOF) {
		panic(err)
	}
	panic(&bizerror.ErrBadParam{Cause: err})
}

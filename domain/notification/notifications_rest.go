package notification

import (
	"net/http"
	"printdesk/common"
	"printdesk/session"

	"github.com/gin-gonic/gin"
)

func RegisterNotificationsRestAPI(r *gin.Engine, middleWares ...gin.HandlerFunc) {
	g := r.Group("/v1/notifications", middleWares...)
	g.GET("", handleQuery)
	g.PATCH("", handleMarkAll)
	g.PATCH(":id", handleMarkOne)
}

func handleQuery(c *gin.Context) {
	list, err := QueryNotificationsFunc(session.ExtractSessionFromGinContext(c))
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusOK, list)
}

func handleMarkAll(c *gin.Context) {
	affected, err := MarkAllAsReadFunc(session.ExtractSessionFromGinContext(c))
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusOK, &common.MessageBody{Message: "Semua notifikasi ditandai sudah dibaca", Data: gin.H{"affected": affected}})
}

func handleMarkOne(c *gin.Context) {
	if err := MarkAsReadFunc(c.Param("id"), session.ExtractSessionFromGinContext(c)); err != nil {
		panic(err)
	}
	c.JSON(http.StatusOK, &common.MessageBody{Message: "Notifikasi ditandai sudah dibaca"})
}

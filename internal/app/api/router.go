package api

import (
	nethttp "net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	notificationshttp "github.com/shopsphere/commerce-api/internal/domains/notifications/adapters/http"
	ordershttp "github.com/shopsphere/commerce-api/internal/domains/orders/adapters/http"
)

// Handlers groups the HTTP adapters the router exposes.
type Handlers struct {
	Orders        ordershttp.OrderAPI
	OrderItems    ordershttp.OrderItemAPI
	Notifications notificationshttp.NotificationAPI
}

// NewRouter builds the gin engine with all routes and the given middleware.
func NewRouter(h Handlers, middleware ...gin.HandlerFunc) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	for _, m := range middleware {
		router.Use(m)
	}

	router.GET("/health", func(c *gin.Context) {
		c.JSON(nethttp.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	order := router.Group("/order")
	order.POST("", h.Orders.CreateOrder)
	order.GET("", h.Orders.GetAllOrders)
	order.GET("/:orderId", h.Orders.GetOrderByID)
	order.GET("/getByCustomerId/:customerId", h.Orders.GetOrdersByCustomerID)
	order.GET("/getByRole/:userId", h.Orders.GetOrdersByRole)
	order.PUT("/:orderId", h.Orders.UpdateOrder)
	order.PATCH("/updateStatus/:orderId", h.Orders.UpdateOrderStatus)

	item := router.Group("/orderItem")
	item.GET("", h.OrderItems.GetAllOrderItems)
	item.GET("/:id", h.OrderItems.GetOrderItemByID)
	item.GET("/getItemByOrderProductIds/:orderId/:productId", h.OrderItems.GetOrderItemByOrderAndProduct)
	item.PATCH("/updateStatus/:id", h.OrderItems.UpdateOrderItemStatus)
	item.DELETE("/:id", h.OrderItems.DeleteOrderItem)

	router.POST("/fcmToken", h.Notifications.RegisterToken)

	return router
}

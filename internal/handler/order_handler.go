package handler

import (
	"fmt"
	"net/http"
	"strconv"

	"projectbazaar/internal/config"
	"projectbazaar/internal/domain/model"
	"projectbazaar/internal/invoice"
	"projectbazaar/internal/middleware"
	"projectbazaar/internal/usecase"

	"github.com/labstack/echo/v4"
)

type ErrorResponse struct {
	Error string `json:"error"`
}

func writeError(c echo.Context, err error) error {
	if err == nil {
		return nil
	}
	if he, ok := usecase.AsHTTPError(err); ok {
		return c.JSON(he.Status, ErrorResponse{Error: he.Message})
	}

	//500
	return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
}

// /orders のHTTP。チェックアウトはカート1行につき1回これを叩く。
type OrderHandler struct {
	orders   *usecase.OrderUsecase
	receipts *usecase.ReceiptUsecase
	invoices *invoice.Renderer

	//チェックアウト画面に出す振込先
	upiID string
}

func NewOrderHandler(orders *usecase.OrderUsecase, receipts *usecase.ReceiptUsecase, invoices *invoice.Renderer, upiID string) *OrderHandler {
	return &OrderHandler{
		orders:   orders,
		receipts: receipts,
		invoices: invoices,
		upiID:    upiID,
	}
}

func (h *OrderHandler) RegisterRoutes(e *echo.Echo, cfg config.Config) {
	g := e.Group("/orders")
	g.Use(middleware.AuthJWT(cfg))

	g.POST("", h.create)
	g.GET("/mine", h.listMine)
	g.GET("/payment-info", h.paymentInfo)
	g.GET("/:id", h.detail)
	g.POST("/:id/cancel", h.cancel)
	g.GET("/:id/invoice", h.invoice)
}

// multipartで住所・プロジェクトID・レシートファイルを一度に受ける。
// レシート保存が成功しない限り注文は作らない。
func (h *OrderHandler) create(c echo.Context) error {
	buyerID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	projectID, err := strconv.ParseInt(c.FormValue("project_id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid project_id"})
	}

	address := model.DeliveryAddress{
		Name:       c.FormValue("name"),
		Email:      c.FormValue("email"),
		Phone:      c.FormValue("phone"),
		Street:     c.FormValue("street"),
		City:       c.FormValue("city"),
		District:   c.FormValue("district"),
		State:      c.FormValue("state"),
		PostalCode: c.FormValue("postal_code"),
	}

	fh, err := c.FormFile("receipt")
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "missing receipt"})
	}
	f, err := fh.Open()
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "missing receipt"})
	}
	defer f.Close()

	receipt, err := h.receipts.StoreReceipt(
		c.Request().Context(),
		fh.Filename,
		fh.Size,
		fh.Header.Get("Content-Type"),
		f,
	)
	if err != nil {
		return writeError(c, err)
	}

	out, err := h.orders.PlaceOrder(c.Request().Context(), buyerID, usecase.PlaceOrderInput{
		ProjectID: projectID,
		Address:   address,
		Receipt:   receipt,
	})
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusCreated, out)
}

func (h *OrderHandler) listMine(c echo.Context) error {
	buyerID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	page := 1
	if v := c.QueryParam("page"); v != "" {
		p, err := strconv.Atoi(v)
		if err != nil {
			return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid page"})
		}
		page = p
	}

	limit := 50
	if v := c.QueryParam("limit"); v != "" {
		l, err := strconv.Atoi(v)
		if err != nil {
			return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid limit"})
		}
		limit = l
	}

	out, err := h.orders.ListMyOrders(c.Request().Context(), buyerID, page, limit)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *OrderHandler) detail(c echo.Context) error {
	buyerID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	out, err := h.orders.GetMyOrderDetail(c.Request().Context(), buyerID, id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

// 買い手によるキャンセル（pendingのみ）
func (h *OrderHandler) cancel(c echo.Context) error {
	buyerID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	out, err := h.orders.CancelMyOrder(c.Request().Context(), buyerID, id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *OrderHandler) invoice(c echo.Context) error {
	buyerID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	order, err := h.orders.GetOrderForInvoice(c.Request().Context(), buyerID, id)
	if err != nil {
		return writeError(c, err)
	}

	doc, err := h.invoices.Render(order)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
	}

	c.Response().Header().Set(echo.HeaderContentDisposition,
		fmt.Sprintf(`attachment; filename="invoice-%d.html"`, order.ID))
	return c.Blob(http.StatusOK, "text/html; charset=utf-8", doc)
}

// チェックアウト画面用の振込先情報
func (h *OrderHandler) paymentInfo(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"upi_id": h.upiID})
}

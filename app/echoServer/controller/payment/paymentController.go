package payment

import (
	"log/slog"
	"net/http"
	"strconv"

	ps "github.com/JunaidUthman/Rentale-Agreement-Microservice/service/payment"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type Controller struct {
	Svc ps.Service
	V   *validator.Validate
	Log *slog.Logger
}

// POST /v1/payments
func (h *Controller) Record(c echo.Context) error {
	var req RecordPaymentReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid JSON"})
	}
	if err := h.V.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"message": "validation error",
			"errors":  err.Error(),
		})
	}

	out, err := h.Svc.Record(c.Request().Context(), req.ContractID, req.TxHash, req.Amount)
	if err != nil {
		h.Log.Error("payment record", "err", err)
		switch ps.Code(err) {
		case ps.ErrNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"message": "rental contract not found"})
		case ps.ErrConflict:
			return c.JSON(http.StatusConflict, echo.Map{"message": "payment already recorded"})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
		}
	}
	return c.JSON(http.StatusCreated, out)
}

// GET /v1/payments/:id
func (h *Controller) Detail(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}
	uid, _ := c.Get("user_id").(int64)

	out, err := h.Svc.ByID(c.Request().Context(), id, uid)
	if err != nil {
		switch ps.Code(err) {
		case ps.ErrNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"message": "payment not found"})
		case ps.ErrForbidden:
			return c.JSON(http.StatusForbidden, echo.Map{"message": "forbidden"})
		default:
			h.Log.Error("payment detail", "err", err, "payment_id", id)
			return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
		}
	}
	return c.JSON(http.StatusOK, out)
}

// GET /v1/payments/contract/:contractId
func (h *Controller) HistoryForContract(c echo.Context) error {
	cid, err := strconv.ParseInt(c.Param("contractId"), 10, 64)
	if err != nil || cid <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid contract id"})
	}
	uid, _ := c.Get("user_id").(int64)

	rows, err := h.Svc.HistoryForContract(c.Request().Context(), cid, uid)
	if err != nil {
		switch ps.Code(err) {
		case ps.ErrNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"message": "rental contract not found"})
		case ps.ErrForbidden:
			return c.JSON(http.StatusForbidden, echo.Map{"message": "forbidden"})
		default:
			h.Log.Error("payment history", "err", err, "contract_id", cid)
			return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
		}
	}
	return c.JSON(http.StatusOK, echo.Map{"data": rows})
}

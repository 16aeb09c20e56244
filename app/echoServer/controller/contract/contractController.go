package contract

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	cs "github.com/JunaidUthman/Rentale-Agreement-Microservice/service/contract"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type Controller struct {
	Svc cs.Service
	V   *validator.Validate
	Log *slog.Logger
}

// POST /v1/contracts
func (h *Controller) Create(c echo.Context) error {
	var req CreateContractReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid JSON"})
	}
	if err := h.V.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"message": "validation error",
			"errors":  err.Error(),
		})
	}

	start, err := time.Parse("2006-01-02", req.StartDate)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid start_date"})
	}
	end, err := time.Parse("2006-01-02", req.EndDate)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid end_date"})
	}
	uid, _ := c.Get("user_id").(int64)

	out, err := h.Svc.Create(c.Request().Context(), uid, cs.Terms{
		AgreementID:     req.AgreementID,
		OwnerID:         req.OwnerID,
		PropertyID:      req.PropertyID,
		SecurityDeposit: req.SecurityDeposit,
		RentPerMonth:    req.RentPerMonth,
		StartDate:       start,
		EndDate:         end,
	})
	if err != nil {
		h.Log.Error("contract create", "err", err)
		switch cs.Code(err) {
		case cs.ErrInvalidState:
			return c.JSON(http.StatusBadRequest, echo.Map{"message": err.Error()})
		case cs.ErrConflict:
			return c.JSON(http.StatusConflict, echo.Map{"message": "agreement id already registered"})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
		}
	}
	return c.JSON(http.StatusCreated, out)
}

// PATCH /v1/contracts/:id/key-delivery
func (h *Controller) ConfirmKeyDelivery(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}

	var req KeyDeliveryReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid JSON"})
	}
	if err := h.V.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"message": "validation error",
			"errors":  err.Error(),
		})
	}
	uid, _ := c.Get("user_id").(int64)

	out, err := h.Svc.ConfirmKeyDelivery(c.Request().Context(), id, *req.IsKeyDelivered, uid)
	if err != nil {
		h.Log.Error("key delivery", "err", err, "contract_id", id)
		switch cs.Code(err) {
		case cs.ErrNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"message": "rental contract not found"})
		case cs.ErrForbidden:
			return c.JSON(http.StatusForbidden, echo.Map{"message": "only the tenant is authorized to confirm key delivery"})
		case cs.ErrInvalidState:
			return c.JSON(http.StatusBadRequest, echo.Map{"message": "contract is not in PENDING_RESERVATION status"})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
		}
	}
	return c.JSON(http.StatusOK, out)
}

// GET /v1/contracts/:id
func (h *Controller) Detail(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}

	out, err := h.Svc.ByID(c.Request().Context(), id)
	if err != nil {
		if cs.Code(err) == cs.ErrNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"message": "rental contract not found"})
		}
		h.Log.Error("contract detail", "err", err, "contract_id", id)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusOK, out)
}

// GET /v1/contracts/my
func (h *Controller) MyContracts(c echo.Context) error {
	uid, _ := c.Get("user_id").(int64)
	rows, err := h.Svc.ForUser(c.Request().Context(), uid)
	if err != nil {
		h.Log.Error("my contracts", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"data": rows})
}

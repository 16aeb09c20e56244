package echoServer

import (
	"net/http"

	contractctrl "github.com/JunaidUthman/Rentale-Agreement-Microservice/app/echoServer/controller/contract"
	paymentctrl "github.com/JunaidUthman/Rentale-Agreement-Microservice/app/echoServer/controller/payment"
	requestctrl "github.com/JunaidUthman/Rentale-Agreement-Microservice/app/echoServer/controller/request"

	"github.com/golang-jwt/jwt/v5"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
)

type C struct {
	Request   *requestctrl.Controller
	Contract  *contractctrl.Controller
	Payment   *paymentctrl.Controller
	JWTSecret string
}

func Register(e *echo.Echo, c C) {
	// Everything under /v1 requires an authenticated user; identity is issued
	// by the auth microservice and only verified here.
	auth := e.Group("/v1")
	auth.Use(echojwt.WithConfig(echojwt.Config{
		SigningKey: []byte(c.JWTSecret),

		NewClaimsFunc: func(c echo.Context) jwt.Claims { return jwt.MapClaims{} },
		TokenLookup:   "header:Authorization",
	}))
	// user_id extraction from verified claims
	auth.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			tokenObj := ctx.Get("user")
			if tokenObj == nil {
				return ctx.JSON(http.StatusUnauthorized, echo.Map{"message": "unauthorized"})
			}

			claims, ok := tokenObj.(jwt.MapClaims)
			if !ok {
				return ctx.JSON(http.StatusUnauthorized, echo.Map{"message": "unauthorized"})
			}

			sub, ok := claims["sub"].(float64)
			if !ok {
				return ctx.JSON(http.StatusUnauthorized, echo.Map{"message": "unauthorized"})
			}

			ctx.Set("user_id", int64(sub))
			return next(ctx)
		}
	})

	// Rental requests
	auth.POST("/requests", c.Request.Create)
	auth.GET("/requests", c.Request.List)
	auth.GET("/requests/my", c.Request.MyRequests)
	auth.GET("/requests/:id", c.Request.Detail)
	auth.PATCH("/requests/:id/status", c.Request.UpdateStatus)
	auth.DELETE("/requests/:id", c.Request.Delete)
	auth.GET("/properties/:propertyId/requests", c.Request.ForProperty)

	// Rental contracts
	auth.POST("/contracts", c.Contract.Create)
	auth.GET("/contracts/my", c.Contract.MyContracts)
	auth.GET("/contracts/:id", c.Contract.Detail)
	auth.PATCH("/contracts/:id/key-delivery", c.Contract.ConfirmKeyDelivery)

	// Payments (recorded by the blockchain listener)
	auth.POST("/payments", c.Payment.Record)
	auth.GET("/payments/:id", c.Payment.Detail)
	auth.GET("/payments/contract/:contractId", c.Payment.HistoryForContract)
}

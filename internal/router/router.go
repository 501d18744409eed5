package router

import (
	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.uber.org/zap"

	"cardpolicy/docs"
	"cardpolicy/internal/auth"
	"cardpolicy/internal/config"
	"cardpolicy/internal/handler"
)

// Handlers groups the HTTP handlers the router mounts.
type Handlers struct {
	Webhook *handler.WebhookHandler
	Card    *handler.CardHandler
	Rule    *handler.RuleHandler
	Health  *handler.HealthHandler
}

// Register wires routes and middleware.
func Register(e *echo.Echo, cfg *config.Config, logger *zap.Logger, h Handlers) {
	e.Use(middleware.RequestID())
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:       true,
		LogMethod:    true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			fields := []zap.Field{
				zap.String("method", v.Method),
				zap.String("uri", v.URI),
				zap.Int("status", v.Status),
				zap.Duration("latency", v.Latency),
				zap.String("request_id", v.RequestID),
			}
			if v.Error != nil {
				logger.Error("request", append(fields, zap.Error(v.Error))...)
				return nil
			}
			logger.Info("request", fields...)
			return nil
		},
	}))
	e.Use(middleware.Recover())

	e.Validator = &CustomValidator{validator: validator.New()}

	if cfg.SwaggerHost != "" {
		docs.SwaggerInfo.Host = cfg.SwaggerHost
	}

	e.GET("/healthz", h.Health.Liveness)
	e.GET("/readyz", h.Health.Readiness)
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	e.POST("/webhooks/stripe", h.Webhook.HandleStripe)

	// Secured routes (require JWT authentication)
	secured := e.Group("/api", echojwt.WithConfig(echojwt.Config{
		SigningKey:  []byte(cfg.JWTSecret),
		TokenLookup: "header:" + echo.HeaderAuthorization + ":Bearer ",
		ContextKey:  handler.ContextKeyUser,
		NewClaimsFunc: func(c echo.Context) jwt.Claims {
			return new(auth.Claims)
		},
	}))

	// Card routes
	secured.GET("/cards", h.Card.ListCards)
	secured.GET("/cards/:id", h.Card.GetCard)
	secured.GET("/cards/:id/spend", h.Card.GetSpend)
	secured.PATCH("/cards/:id/freeze", h.Card.Freeze)
	secured.GET("/transactions", h.Card.ListTransactions)

	// Rule routes
	secured.POST("/rules", h.Rule.CreateRule)
	secured.DELETE("/rules/:id", h.Rule.DeleteRule)
}

// CustomValidator wraps validator for Echo.
type CustomValidator struct {
	validator *validator.Validate
}

// Validate implements echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}

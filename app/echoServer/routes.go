package echoServer

import (
	"net/http"

	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"

	"librarydesk/app/echoServer/controller/auth"
	"librarydesk/app/echoServer/controller/borrowing"
	"librarydesk/app/echoServer/controller/cover"
	"librarydesk/app/echoServer/controller/item"
	"librarydesk/app/echoServer/controller/shelf"
	"librarydesk/app/echoServer/controller/stats"
	"librarydesk/app/echoServer/jwtx"
)

type C struct {
	Auth      *auth.Controller
	Item      *item.Controller
	Shelf     *shelf.Controller
	Borrowing *borrowing.Controller
	Cover     *cover.Controller
	Stats     *stats.Controller
	JWTSecret string
}

func Register(e *echo.Echo, c C) {
	// Public
	pub := e.Group("/v1")
	pub.POST("/users/register", c.Auth.Register)
	pub.POST("/users/login", c.Auth.Login)

	// Auth
	authed := e.Group("/v1")
	authed.Use(echojwt.WithConfig(echojwt.Config{
		SigningKey:  []byte(c.JWTSecret),
		TokenLookup: "header:Authorization",
	}))
	// user_id / role extraction from verified claims
	authed.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			uid, err := jwtx.UserIDFromContext(ctx)
			if err != nil {
				return ctx.JSON(http.StatusUnauthorized, echo.Map{"message": "unauthorized"})
			}
			ctx.Set("user_id", uid)
			if role, err := jwtx.RoleFromContext(ctx); err == nil {
				ctx.Set("role", role)
			}
			return next(ctx)
		}
	})

	// Items
	authed.GET("/items", c.Item.List)
	authed.GET("/items/:id", c.Item.Detail)
	// Admin endpoints
	authed.POST("/items", c.Item.Create)
	authed.DELETE("/items/:id", c.Item.Delete)
	authed.POST("/items/:id/availability", c.Item.Adjust)

	// Covers
	authed.GET("/items/:id/cover", c.Cover.Get)
	authed.POST("/items/:id/cover", c.Cover.Upload)

	// Shelves
	authed.GET("/shelves", c.Shelf.List)
	authed.GET("/shelves/:id/occupancy", c.Shelf.Occupancy)
	authed.POST("/shelves", c.Shelf.Create)
	authed.POST("/shelves/:id/items", c.Shelf.Place)
	authed.DELETE("/items/:id/placement", c.Shelf.Remove)
	authed.PUT("/items/:id/placement", c.Shelf.Relocate)

	// Borrowings
	authed.POST("/borrowings", c.Borrowing.Borrow)
	authed.POST("/borrowings/:id/return", c.Borrowing.Return)
	authed.GET("/borrowings/my", c.Borrowing.MyHistory)
	authed.POST("/borrowings/sweep", c.Borrowing.Sweep)

	// Users & dashboard
	authed.GET("/users", c.Auth.List)
	authed.GET("/stats", c.Stats.Get)
}

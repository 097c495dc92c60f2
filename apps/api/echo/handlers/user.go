package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/trezcool/kazi/apps/api/echo/helpers"
	"github.com/trezcool/kazi/core"
	"github.com/trezcool/kazi/core/user"
)

type (
	LoginRequest struct {
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password" validate:"required"`
	}

	LoginResponse struct {
		Token string `json:"token"`
	}
)

func (r *LoginRequest) Validate() error {
	r.Email = core.CleanString(r.Email, true /* lower */)
	return core.Validate.Struct(r)
}

type userApi struct {
	service *user.Service
	conf    *core.Config
}

func RegisterUserAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc *user.Service, conf *core.Config) {
	api := userApi{service: svc, conf: conf}

	ug := g.Group("/users")

	// un-authed endpoints
	ug.POST("/register", api.userCreate)
	ug.POST("/login", api.userLogin)

	// authed endpoints
	ag := ug.Group("", jwt)
	ag.GET("/me", api.userRetrieveSelf)
}

// Handlers

func (api *userApi) userCreate(ctx echo.Context) error {
	data := new(user.NewUser)
	if err := ctx.Bind(data); err != nil {
		return err
	}
	if err := data.Validate(api.service); err != nil {
		return err
	}

	usr, err := api.service.Create(*data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, usr)
}

func (api *userApi) userLogin(ctx echo.Context) error {
	data := new(LoginRequest)
	if err := ctx.Bind(data); err != nil {
		return err
	}
	if err := data.Validate(); err != nil {
		return err
	}

	claims, err := helpers.Authenticate(api.conf, data.Email, data.Password, api.service)
	if err != nil {
		return err
	}
	token, err := helpers.GenerateToken(api.conf, claims)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, LoginResponse{Token: token})
}

func (api *userApi) userRetrieveSelf(ctx echo.Context) error {
	usr, err := helpers.GetContextUser(ctx, api.service)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, usr)
}

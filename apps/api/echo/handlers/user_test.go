package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/trezcool/kazi/apps/api/echo/helpers"
	"github.com/trezcool/kazi/core"
	"github.com/trezcool/kazi/core/user"
	inmemdb "github.com/trezcool/kazi/storage/database/inmem"
	testutil "github.com/trezcool/kazi/tests"
)

func testConfig() *core.Config {
	return &core.Config{
		Env:       "TEST",
		TestMode:  true,
		AppName:   "Kazi",
		SecretKey: []byte("secret"),
		FromEmail: "noreply@localhost",
		WorkDir:   core.Getwd(),
	}
}

func userSetup(t *testing.T) (*user.Service, user.Repository, *core.Config) {
	db, err := inmemdb.Open()
	if err != nil {
		t.Fatalf("userSetup() failed: %v", err)
	}
	repo := inmemdb.NewUserRepository(db)
	return user.NewService(repo), repo, testConfig()
}

func newRequest(e *echo.Echo, method, path string, data ...[]byte) (echo.Context, *httptest.ResponseRecorder) {
	var body bytes.Buffer
	if len(data) > 0 {
		body.Write(data[0])
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	ctx := e.NewContext(req, rec)
	return ctx, rec
}

func marshallObj(t *testing.T, obj interface{}) []byte {
	data, err := json.Marshal(obj)
	if err != nil {
		t.Fatalf("marshallObj() failed: %v", err)
	}
	return data
}

func Test_userApi_userCreate(t *testing.T) {
	svc, _, conf := userSetup(t)
	api := &userApi{service: svc, conf: conf}
	e := echo.New()

	body := marshallObj(t, user.NewUser{
		Name:            "Ada Lovelace",
		Email:           "ada@test.cd",
		Password:        "=53cure_Pwd",
		PasswordConfirm: "=53cure_Pwd",
	})
	ctx, rec := newRequest(e, http.MethodPost, "/v1/users/register", body)
	if err := api.userCreate(ctx); err != nil {
		t.Fatalf("userCreate() failed: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Errorf("code = %d, want %d", rec.Code, http.StatusCreated)
	}

	var created user.User
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatalf("unmarshalling response: %v", err)
	}
	if created.ID == "" || created.Email != "ada@test.cd" || !created.IsActive {
		t.Errorf("unexpected user: %+v", created)
	}

	// duplicate email rejected
	ctx, _ = newRequest(e, http.MethodPost, "/v1/users/register", body)
	if err := api.userCreate(ctx); err == nil {
		t.Error("userCreate() with duplicate email should fail")
	}

	// password confirmation must match
	bad := marshallObj(t, user.NewUser{
		Name:            "Eve",
		Email:           "eve@test.cd",
		Password:        "=53cure_Pwd",
		PasswordConfirm: "other",
	})
	ctx, _ = newRequest(e, http.MethodPost, "/v1/users/register", bad)
	if err := api.userCreate(ctx); err == nil {
		t.Error("userCreate() with mismatched passwords should fail")
	}
}

func Test_userApi_userLogin(t *testing.T) {
	svc, repo, conf := userSetup(t)
	api := &userApi{service: svc, conf: conf}
	e := echo.New()

	testutil.CreateUser(t, repo, "Ada", "ada@test.cd", "=53cure_Pwd", true)
	testutil.CreateUser(t, repo, "Off", "off@test.cd", "=53cure_Pwd", false)

	tests := []struct {
		name    string
		body    interface{}
		wantErr bool
	}{
		{name: "valid credentials", body: LoginRequest{Email: "ada@test.cd", Password: "=53cure_Pwd"}},
		{name: "email case insensitive", body: LoginRequest{Email: "ADA@test.cd", Password: "=53cure_Pwd"}},
		{name: "wrong password", body: LoginRequest{Email: "ada@test.cd", Password: "nope"}, wantErr: true},
		{name: "unknown email", body: LoginRequest{Email: "ghost@test.cd", Password: "=53cure_Pwd"}, wantErr: true},
		{name: "deactivated account", body: LoginRequest{Email: "off@test.cd", Password: "=53cure_Pwd"}, wantErr: true},
		{name: "missing fields", body: LoginRequest{}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, rec := newRequest(e, http.MethodPost, "/v1/users/login", marshallObj(t, tt.body))
			err := api.userLogin(ctx)
			if tt.wantErr {
				if err == nil {
					t.Error("userLogin() should fail")
				}
				return
			}
			if err != nil {
				t.Fatalf("userLogin() failed: %v", err)
			}
			var res LoginResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
				t.Fatalf("unmarshalling response: %v", err)
			}
			if res.Token == "" {
				t.Error("empty token")
			}
		})
	}
}

func Test_userApi_userRetrieveSelf(t *testing.T) {
	svc, repo, conf := userSetup(t)
	api := &userApi{service: svc, conf: conf}
	e := echo.New()

	usr := testutil.CreateUser(t, repo, "Ada", "ada@test.cd", "=53cure_Pwd", true)

	ctx, rec := newRequest(e, http.MethodGet, "/v1/users/me")
	helpers.SetContextUser(ctx, usr)
	if err := api.userRetrieveSelf(ctx); err != nil {
		t.Fatalf("userRetrieveSelf() failed: %v", err)
	}

	var got user.User
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("unmarshalling response: %v", err)
	}
	if got.ID != usr.ID || got.Email != usr.Email {
		t.Errorf("got %+v, want %+v", got, usr)
	}

	// no claims, no user
	ctx, _ = newRequest(e, http.MethodGet, "/v1/users/me")
	if err := api.userRetrieveSelf(ctx); err == nil {
		t.Error("userRetrieveSelf() without auth should fail")
	}
}

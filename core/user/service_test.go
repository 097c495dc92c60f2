package user_test

import (
	"testing"

	"github.com/trezcool/kazi/core/user"
	inmemdb "github.com/trezcool/kazi/storage/database/inmem"
)

func setup(t *testing.T) (*user.Service, user.Repository) {
	db, err := inmemdb.Open()
	if err != nil {
		t.Fatalf("setup() failed: %v", err)
	}
	repo := inmemdb.NewUserRepository(db)
	return user.NewService(repo), repo
}

func validNewUser() user.NewUser {
	return user.NewUser{
		Name:            "Ada Lovelace",
		Email:           "ada@test.cd",
		Password:        "=53cure_Pwd",
		PasswordConfirm: "=53cure_Pwd",
	}
}

func TestNewUser_Validate(t *testing.T) {
	svc, _ := setup(t)

	tests := []struct {
		name    string
		mutate  func(nu *user.NewUser)
		wantErr bool
	}{
		{name: "valid", mutate: func(nu *user.NewUser) {}},
		{name: "missing name", mutate: func(nu *user.NewUser) { nu.Name = "" }, wantErr: true},
		{name: "bad email", mutate: func(nu *user.NewUser) { nu.Email = "not-an-email" }, wantErr: true},
		{name: "short password", mutate: func(nu *user.NewUser) { nu.Password, nu.PasswordConfirm = "short", "short" }, wantErr: true},
		{name: "mismatched confirm", mutate: func(nu *user.NewUser) { nu.PasswordConfirm = "other" }, wantErr: true},
		{name: "whitespace in password", mutate: func(nu *user.NewUser) { nu.Password, nu.PasswordConfirm = "=53cure Pwd", "=53cure Pwd" }, wantErr: true},
		{name: "all numeric password", mutate: func(nu *user.NewUser) { nu.Password, nu.PasswordConfirm = "1234567890", "1234567890" }, wantErr: true},
		{name: "password similar to email", mutate: func(nu *user.NewUser) { nu.Password, nu.PasswordConfirm = "ada@test.cd", "ada@test.cd" }, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			nu := validNewUser()
			tt.mutate(&nu)
			if err := nu.Validate(svc); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestNewUser_Validate_uniqueEmail(t *testing.T) {
	svc, _ := setup(t)

	nu := validNewUser()
	if _, err := svc.Create(nu); err != nil {
		t.Fatalf("Create() failed: %v", err)
	}
	if err := nu.Validate(svc); err == nil {
		t.Error("Validate() with taken email should fail")
	}
}

func TestService_Create(t *testing.T) {
	svc, repo := setup(t)

	usr, err := svc.Create(validNewUser())
	if err != nil {
		t.Fatalf("Create() failed: %v", err)
	}
	if usr.ID == "" {
		t.Error("no ID assigned")
	}
	if !usr.IsActive {
		t.Error("new account not active")
	}
	if err := usr.CheckPassword("=53cure_Pwd"); err != nil {
		t.Errorf("CheckPassword() failed: %v", err)
	}
	if err := usr.CheckPassword("wrong"); err == nil {
		t.Error("CheckPassword() accepted a wrong password")
	}

	if _, err := repo.GetUserByID(usr.ID); err != nil {
		t.Errorf("GetUserByID() failed: %v", err)
	}
	if _, err := svc.GetByEmail("ADA@test.cd"); err != nil {
		t.Errorf("GetByEmail() should be case insensitive: %v", err)
	}
	if _, err := svc.GetByID("ghost"); err != user.ErrNotFound {
		t.Errorf("GetByID(ghost) error = %v, want ErrNotFound", err)
	}
}

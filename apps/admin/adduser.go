package main

import (
	"github.com/trezcool/kazi/core"
	"github.com/trezcool/kazi/core/user"
)

// addUser creates a user.User account
func (cli *commandLine) addUser(name, email, pwd string) error {
	nu := user.NewUser{
		Name:            core.CleanString(name),
		Email:           core.CleanString(email, true /* lower */),
		Password:        pwd,
		PasswordConfirm: pwd,
	}
	if err := nu.Validate(cli.usrSvc); err != nil {
		return err
	}
	if _, err := cli.usrSvc.Create(nu); err != nil {
		return err
	}
	return nil
}

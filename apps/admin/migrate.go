package main

import (
	"github.com/trezcool/kazi/storage/database"
)

var migrateFunc = database.Migrate // mockable

func (cli *commandLine) migrate() error {
	if err := database.CreateIfNotExist(cli.conf); err != nil {
		return err
	}
	return migrateFunc(cli.db, cli.conf)
}

package main

import (
	"log"
	"os"

	"github.com/jmoiron/sqlx"

	"github.com/trezcool/kazi/core"
	"github.com/trezcool/kazi/core/track"
	"github.com/trezcool/kazi/core/user"
	emailsvc "github.com/trezcool/kazi/services/email"
	logsvc "github.com/trezcool/kazi/services/logger"
	"github.com/trezcool/kazi/storage/database"
	sqlxrepos "github.com/trezcool/kazi/storage/database/sqlx"
)

var logger *log.Logger

func main() {
	defer os.Exit(0)

	logger = log.New(os.Stdout, "ADMIN : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)

	conf := core.NewConfig()

	svcLogger := logsvc.NewRollbarLogger(logger, conf)
	svcLogger.Enable(!conf.Debug)

	// set up DB
	sqlDB, err := database.Open(conf)
	errAndDie(err)
	defer sqlDB.Close()
	db := sqlx.NewDb(sqlDB, "postgres")

	// set up services
	var mailSvc core.EmailService
	if conf.Debug {
		mailSvc = emailsvc.NewConsoleService(conf)
	} else {
		mailSvc = emailsvc.NewSendgridService(svcLogger, conf)
	}
	usrSvc := user.NewService(sqlxrepos.NewUserRepository(db))
	trackSvc := track.NewService(sqlxrepos.NewTrackRepository(db), mailSvc, svcLogger, conf)

	// start CLI
	cli := commandLine{
		conf:     conf,
		db:       sqlDB,
		usrSvc:   usrSvc,
		trackSvc: trackSvc,
	}
	if err := cli.run(os.Args); err != nil {
		if err != errHelp {
			logger.Printf("\nerror: %s\n", err)
		}
		os.Exit(1)
	}
}

func errAndDie(err error) {
	if err != nil {
		logger.Fatal(err)
	}
}

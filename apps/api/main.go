package main

import (
	"fmt"
	"log"
	"os"

	"github.com/jmoiron/sqlx"

	echoapi "github.com/trezcool/kazi/apps/api/echo"
	"github.com/trezcool/kazi/core"
	"github.com/trezcool/kazi/core/track"
	"github.com/trezcool/kazi/core/user"
	emailsvc "github.com/trezcool/kazi/services/email"
	logsvc "github.com/trezcool/kazi/services/logger"
	"github.com/trezcool/kazi/storage/database"
	sqlxrepos "github.com/trezcool/kazi/storage/database/sqlx"
)

func main() {
	conf := core.NewConfig()

	logger := logsvc.NewRollbarLogger(
		log.New(os.Stdout, "API : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile),
		conf,
	)
	logger.Enable(!conf.Debug)

	// set up DB
	sqlDB, err := database.Open(conf)
	errAndDie(err)
	defer sqlDB.Close()
	if err = database.Ping(sqlDB); err != nil {
		logger.Fatal(fmt.Sprintf("pinging database: %v", err), err)
	}
	db := sqlx.NewDb(sqlDB, "postgres")

	// set up services
	var mailSvc core.EmailService
	if conf.Debug {
		mailSvc = emailsvc.NewConsoleService(conf)
	} else {
		mailSvc = emailsvc.NewSendgridService(logger, conf)
	}
	usrSvc := user.NewService(sqlxrepos.NewUserRepository(db))
	trackSvc := track.NewService(sqlxrepos.NewTrackRepository(db), mailSvc, logger, conf)

	logger.Info(fmt.Sprintf("%s API starting on %s", conf.AppName, conf.Server.Address()))

	// start API server
	app := echoapi.NewServer(
		&echoapi.Options{
			Address:  conf.Server.Address(),
			Conf:     conf,
			Logger:   logger,
			UserSvc:  usrSvc,
			TrackSvc: trackSvc,
		},
	)
	app.Start()
}

func errAndDie(err error) {
	if err != nil {
		log.Fatal(err)
	}
}

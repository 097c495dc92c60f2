package main

import (
	"fmt"

	"github.com/trezcool/kazi/core/track"
)

// remind sweeps all accounts and sends due date reminders. Meant to be run
// periodically from cron.
func (cli *commandLine) remind() error {
	users, err := cli.usrSvc.QueryAll()
	if err != nil {
		return err
	}

	for _, usr := range users {
		if !usr.IsActive {
			continue
		}

		_, tasks, err := cli.trackSvc.Refresh(usr.ID)
		if err != nil {
			if _, partial := err.(*track.PartialError); !partial {
				logger.Printf("refreshing data for %s: %v", usr.Email, err)
				continue
			}
			logger.Printf("partial refresh for %s: %v", usr.Email, err)
		}

		dash := track.NewDashboard(track.NowFunc())
		dash.SetData(nil, tasks)
		if err := cli.trackSvc.RunReminderScan(usr, dash.WeeklyTasks()); err != nil {
			logger.Printf("reminder scan for %s: %v", usr.Email, err)
		}
	}

	fmt.Printf("reminder sweep completed for %d account(s)\n", len(users))
	return nil
}

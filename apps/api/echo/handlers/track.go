package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/trezcool/kazi/apps/api/echo/helpers"
	"github.com/trezcool/kazi/core"
	"github.com/trezcool/kazi/core/rings"
	"github.com/trezcool/kazi/core/track"
	"github.com/trezcool/kazi/core/user"
)

// Default viewport used for ring geometry when the client does not say.
const (
	defaultViewportWidth  = 1080.0
	defaultViewportHeight = 1920.0
)

type (
	weekResponse struct {
		Label string    `json:"label"`
		Start time.Time `json:"start"`
		End   time.Time `json:"end"`
	}

	taskResponse struct {
		track.Task
		DueLabel string `json:"due_label"`
	}

	refreshResponse struct {
		Courses []track.Course    `json:"courses"`
		Failed  map[string]string `json:"failed,omitempty"`
	}
)

// dashSession serializes access to one user's dashboard. The engine assumes
// a single thread of control, so every handler holds mu for the whole span
// of its engine calls.
type dashSession struct {
	mu     sync.Mutex
	dash   *track.Dashboard
	loaded bool
}

type trackApi struct {
	service *track.Service
	usrSvc  *user.Service
	logger  core.Logger

	mu       sync.Mutex // guards sessions
	sessions map[string]*dashSession
}

func RegisterTrackAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc *track.Service, usrSvc *user.Service, logger core.Logger) {
	api := &trackApi{
		service:  svc,
		usrSvc:   usrSvc,
		logger:   logger,
		sessions: make(map[string]*dashSession),
	}

	dg := g.Group("/dashboard", jwt)
	dg.GET("/week", api.weekRetrieve)
	dg.POST("/week/next", api.weekNext)
	dg.POST("/week/previous", api.weekPrevious)
	dg.POST("/refresh", api.refresh)
	dg.GET("/tasks", api.taskList)
	dg.GET("/progress", api.progress)
	dg.GET("/rings", api.ringLayout)
	dg.POST("/reminders", api.reminderScan)

	cg := g.Group("/courses", jwt)
	cg.POST("", api.courseCreate)
	cg.DELETE("/:course", api.courseDestroy)
	cg.POST("/:course/tasks", api.taskCreate)
	cg.PUT("/:course/tasks/:task/complete", api.taskComplete)
	cg.DELETE("/:course/tasks/:task", api.taskDestroy)
}

func (api *trackApi) session(usr user.User) *dashSession {
	api.mu.Lock()
	defer api.mu.Unlock()

	s, ok := api.sessions[usr.ID]
	if !ok {
		s = &dashSession{dash: track.NewDashboard(track.NowFunc())}
		api.sessions[usr.ID] = s
	}
	return s
}

// withDashboard runs fn with the user's session locked, loading their data
// on first use. Concurrent requests from the same account serialize here.
func (api *trackApi) withDashboard(usr user.User, fn func(dash *track.Dashboard) error) error {
	s := api.session(usr)
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.loaded {
		if err := api.reload(s.dash, usr); err != nil {
			if _, partial := err.(*track.PartialError); !partial {
				return err
			}
		}
		s.loaded = true
	}
	return fn(s.dash)
}

// reload re-pulls the user's course/task set into the dashboard. A partial
// failure still installs the data that loaded and is returned for reporting.
func (api *trackApi) reload(dash *track.Dashboard, usr user.User) error {
	courses, tasks, err := api.service.Refresh(usr.ID)
	if err != nil {
		if _, partial := err.(*track.PartialError); !partial {
			return err
		}
	}
	dash.SetData(courses, tasks)
	return err
}

// refreshSession re-pulls after a mutation so views stay current. The
// mutation itself already succeeded, so failures are logged, not returned.
func (api *trackApi) refreshSession(usr user.User) {
	err := api.withDashboard(usr, func(dash *track.Dashboard) error {
		return api.reload(dash, usr)
	})
	if err != nil {
		if _, partial := err.(*track.PartialError); !partial {
			api.logger.Error(fmt.Sprintf("refreshing dashboard for %s: %v", usr.Email, err), err)
		}
	}
}

// Handlers

func (api *trackApi) weekRetrieve(ctx echo.Context) error {
	usr, err := helpers.GetContextUser(ctx, api.usrSvc)
	if err != nil {
		return err
	}

	var res weekResponse
	if err := api.withDashboard(usr, func(dash *track.Dashboard) error {
		res = newWeekResponse(dash.Week())
		return nil
	}); err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, res)
}

func (api *trackApi) weekNext(ctx echo.Context) error {
	return api.pageWeek(ctx, true)
}

func (api *trackApi) weekPrevious(ctx echo.Context) error {
	return api.pageWeek(ctx, false)
}

func (api *trackApi) pageWeek(ctx echo.Context, forward bool) error {
	usr, err := helpers.GetContextUser(ctx, api.usrSvc)
	if err != nil {
		return err
	}

	var res weekResponse
	if err := api.withDashboard(usr, func(dash *track.Dashboard) error {
		if forward {
			dash.NextWeek()
		} else {
			dash.PreviousWeek()
		}
		res = newWeekResponse(dash.Week())
		return nil
	}); err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, res)
}

func (api *trackApi) refresh(ctx echo.Context) error {
	usr, err := helpers.GetContextUser(ctx, api.usrSvc)
	if err != nil {
		return err
	}

	var res refreshResponse
	if err := api.withDashboard(usr, func(dash *track.Dashboard) error {
		if err := api.reload(dash, usr); err != nil {
			partial, ok := err.(*track.PartialError)
			if !ok {
				return err
			}
			res.Failed = make(map[string]string, len(partial.Failed))
			for name, ferr := range partial.Failed {
				res.Failed[name] = ferr.Error()
			}
		}
		res.Courses = dash.Courses()
		return nil
	}); err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, res)
}

func (api *trackApi) taskList(ctx echo.Context) error {
	usr, err := helpers.GetContextUser(ctx, api.usrSvc)
	if err != nil {
		return err
	}

	var res []taskResponse
	if err := api.withDashboard(usr, func(dash *track.Dashboard) error {
		tasks := dash.DisplayTasks(ctx.QueryParam("course"), track.NowFunc())
		res = make([]taskResponse, 0, len(tasks))
		for _, t := range tasks {
			res = append(res, taskResponse{Task: t, DueLabel: t.DueLabel()})
		}
		return nil
	}); err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, res)
}

func (api *trackApi) progress(ctx echo.Context) error {
	usr, err := helpers.GetContextUser(ctx, api.usrSvc)
	if err != nil {
		return err
	}

	var res track.Progress
	if err := api.withDashboard(usr, func(dash *track.Dashboard) error {
		res = dash.Progress(ctx.QueryParam("course"))
		return nil
	}); err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, res)
}

func (api *trackApi) ringLayout(ctx echo.Context) error {
	usr, err := helpers.GetContextUser(ctx, api.usrSvc)
	if err != nil {
		return err
	}

	width := queryFloat(ctx, "width", defaultViewportWidth)
	height := queryFloat(ctx, "height", defaultViewportHeight)

	var layout []rings.Ring
	if err := api.withDashboard(usr, func(dash *track.Dashboard) error {
		progress := dash.Progress("")
		colors := track.NewColorMap(dash.Courses())
		layout = rings.Layout(progress.PerCourse, width, height, colors, ctx.QueryParam("course"))
		return nil
	}); err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, layout)
}

func (api *trackApi) reminderScan(ctx echo.Context) error {
	usr, err := helpers.GetContextUser(ctx, api.usrSvc)
	if err != nil {
		return err
	}

	var weekly []track.Task
	if err := api.withDashboard(usr, func(dash *track.Dashboard) error {
		weekly = dash.WeeklyTasks()
		return nil
	}); err != nil {
		return err
	}
	if err := api.service.RunReminderScan(usr, weekly); err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, echo.Map{"detail": "reminder scan completed"})
}

func (api *trackApi) courseCreate(ctx echo.Context) error {
	usr, err := helpers.GetContextUser(ctx, api.usrSvc)
	if err != nil {
		return err
	}
	data := new(track.NewCourse)
	if err := ctx.Bind(data); err != nil {
		return err
	}

	course, err := api.service.CreateCourse(usr.ID, *data)
	if err != nil {
		return err
	}
	api.refreshSession(usr)
	return ctx.JSON(http.StatusCreated, course)
}

func (api *trackApi) courseDestroy(ctx echo.Context) error {
	usr, err := helpers.GetContextUser(ctx, api.usrSvc)
	if err != nil {
		return err
	}
	if err := api.service.DeleteCourse(usr.ID, ctx.Param("course")); err != nil {
		return trackError(err)
	}
	api.refreshSession(usr)
	return ctx.NoContent(http.StatusNoContent)
}

func (api *trackApi) taskCreate(ctx echo.Context) error {
	usr, err := helpers.GetContextUser(ctx, api.usrSvc)
	if err != nil {
		return err
	}
	data := new(track.NewTask)
	if err := ctx.Bind(data); err != nil {
		return err
	}
	data.Course = ctx.Param("course")

	task, err := api.service.CreateTask(usr.ID, *data)
	if err != nil {
		return trackError(err)
	}
	api.refreshSession(usr)
	return ctx.JSON(http.StatusCreated, taskResponse{Task: task, DueLabel: task.DueLabel()})
}

func (api *trackApi) taskComplete(ctx echo.Context) error {
	usr, err := helpers.GetContextUser(ctx, api.usrSvc)
	if err != nil {
		return err
	}
	if err := api.service.CompleteTask(usr.ID, ctx.Param("course"), ctx.Param("task")); err != nil {
		return trackError(err)
	}
	api.refreshSession(usr)
	return ctx.NoContent(http.StatusNoContent)
}

func (api *trackApi) taskDestroy(ctx echo.Context) error {
	usr, err := helpers.GetContextUser(ctx, api.usrSvc)
	if err != nil {
		return err
	}
	if err := api.service.DeleteTask(usr.ID, ctx.Param("course"), ctx.Param("task")); err != nil {
		return trackError(err)
	}
	api.refreshSession(usr)
	return ctx.NoContent(http.StatusNoContent)
}

// helpers

func newWeekResponse(w track.Week) weekResponse {
	start, end := w.Range()
	return weekResponse{Label: w.Label(), Start: start, End: end}
}

func trackError(err error) error {
	switch err {
	case track.ErrCourseNotFound, track.ErrTaskNotFound:
		return helpers.ErrHttpNotFound
	default:
		return err
	}
}

func queryFloat(ctx echo.Context, name string, fallback float64) float64 {
	if raw := ctx.QueryParam(name); raw != "" {
		if v, err := strconv.ParseFloat(raw, 64); err == nil && v > 0 {
			return v
		}
	}
	return fallback
}

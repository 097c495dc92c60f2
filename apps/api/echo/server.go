package echoapi

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"

	"github.com/trezcool/kazi/apps/api/echo/handlers"
	"github.com/trezcool/kazi/apps/api/echo/helpers"
	"github.com/trezcool/kazi/core"
	"github.com/trezcool/kazi/core/track"
	"github.com/trezcool/kazi/core/user"
)

const shutdownTimeout = 20 * time.Second

type (
	Options struct {
		Address        string
		DisableReqLogs bool
		Conf           *core.Config
		Logger         core.Logger
		UserSvc        *user.Service
		TrackSvc       *track.Service
	}

	Server interface {
		http.Handler
		Start()
		Stop(context.Context) error
	}

	server struct {
		opts     *Options
		app      *echo.Echo
		shutdown chan os.Signal
	}
)

var _ Server = (*server)(nil)

func NewServer(opts *Options) Server {
	s := &server{
		opts:     opts,
		app:      echo.New(),
		shutdown: make(chan os.Signal, 1),
	}
	s.setup()
	return s
}

func (s *server) setup() {
	conf := s.opts.Conf

	s.app.Pre(middleware.RemoveTrailingSlash())
	if !s.opts.DisableReqLogs {
		s.app.Use(middleware.Logger())
	}
	// do not recover in DEV|TEST mode
	if !(conf.Debug || conf.TestMode) {
		s.app.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{LogLevel: log.ERROR}))
	}

	s.app.HTTPErrorHandler = helpers.AppHTTPErrorHandler(s.opts.Logger, s.signalShutdown)
	s.app.Debug = conf.Debug

	s.app.GET("/", s.home)

	v1 := s.app.Group("/v1")
	jwt := middleware.JWTWithConfig(helpers.NewJWTConfig(conf))

	handlers.RegisterUserAPI(v1, jwt, s.opts.UserSvc, conf)
	handlers.RegisterTrackAPI(v1, jwt, s.opts.TrackSvc, s.opts.UserSvc, s.opts.Logger)
}

// signalShutdown requests a graceful stop. It is called by the error handler
// when an unrecoverable error is caught.
func (s *server) signalShutdown() {
	s.shutdown <- syscall.SIGTERM
}

// Start serves until an interrupt or a shutdown signal arrives, then drains
// outstanding requests within shutdownTimeout before closing.
func (s *server) Start() {
	signal.Notify(s.shutdown, os.Interrupt, syscall.SIGTERM)

	go func() {
		if err := s.app.Start(s.opts.Address); err != nil && err != http.ErrServerClosed {
			s.opts.Logger.Error(fmt.Sprintf("server error: %v", err), err)
			s.signalShutdown()
		}
	}()

	sig := <-s.shutdown
	s.opts.Logger.Info(fmt.Sprintf("%v: starting shutdown...", sig))

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := s.Stop(ctx); err != nil {
		s.opts.Logger.Error(fmt.Sprintf("could not stop server gracefully: %v", err), err)

		if err = s.app.Close(); err != nil {
			s.opts.Logger.Fatal(fmt.Sprintf("could not force stop server: %v", err), err)
		}
	}
}

func (s *server) Stop(ctx context.Context) error {
	return s.app.Shutdown(ctx)
}

func (s *server) ServeHTTP(w http.ResponseWriter, r *http.Request) { // for tests
	s.app.ServeHTTP(w, r)
}

func (s *server) home(ctx echo.Context) error {
	return ctx.String(http.StatusOK, "Welcome to "+s.opts.Conf.AppName+" API!")
}

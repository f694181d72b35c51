// Package api serves the entry store over HTTP.
package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/alexanderramin/tutorlog/internal/auth"
	"github.com/alexanderramin/tutorlog/internal/service"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

type (
	// PasscodeExchanger trades the admin passcode for a capability token.
	PasscodeExchanger interface {
		Exchange(passcode string) (string, time.Time, error)
	}

	Options struct {
		Address        string
		DisableReqLogs bool
		Logger         *slog.Logger
		Entries        service.EntryService
		Profiles       service.ProfileDirectory
		Authorizer     auth.Authorizer
		Exchanger      PasscodeExchanger
		// Now is the clock used for activity reports. Defaults to time.Now.
		Now func() time.Time
	}

	Server interface {
		http.Handler
		Start() error
		Stop(context.Context) error
	}

	server struct {
		opts *Options
		app  *echo.Echo
	}
)

var _ Server = (*server)(nil)

func NewServer(opts *Options) Server {
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.DiscardHandler)
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	s := &server{
		opts: opts,
		app:  echo.New(),
	}
	s.setup()
	return s
}

func (s *server) setup() {
	s.app.HideBanner = true
	s.app.HidePort = true

	s.app.Pre(middleware.RemoveTrailingSlash())
	if !s.opts.DisableReqLogs {
		s.app.Use(requestLogger(s.opts.Logger))
	}
	s.app.Use(middleware.Recover())

	s.app.HTTPErrorHandler = newHTTPErrorHandler(s.opts.Logger)

	s.app.GET("/", home)

	v1 := s.app.Group("/v1")
	admin := requireCapability(s.opts.Authorizer, auth.CapEntriesAdmin)

	registerAuthAPI(v1, s.opts.Exchanger)
	registerEntryAPI(v1, admin, s.opts.Entries)
	registerReportAPI(v1, s.opts.Entries, s.opts.Now)
	registerProfileAPI(v1, s.opts.Profiles)
}

func (s *server) Start() error {
	s.opts.Logger.Info("http server listening", "addr", s.opts.Address)
	if err := s.app.Start(s.opts.Address); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *server) Stop(ctx context.Context) error {
	return s.app.Shutdown(ctx)
}

func (s *server) ServeHTTP(w http.ResponseWriter, r *http.Request) { // for tests
	s.app.ServeHTTP(w, r)
}

func home(ctx echo.Context) error {
	return ctx.String(http.StatusOK, "tutorlog api")
}

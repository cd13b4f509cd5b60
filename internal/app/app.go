// Package app builds the client side of Tasker once and hands the pieces to
// whichever front end needs them.
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/benbjohnson/clock"
	"github.com/rs/zerolog"

	"github.com/Joseda-hg/tasker/internal/api"
	"github.com/Joseda-hg/tasker/internal/board"
	"github.com/Joseda-hg/tasker/internal/config"
	"github.com/Joseda-hg/tasker/internal/notify"
	"github.com/Joseda-hg/tasker/internal/prefs"
	"github.com/Joseda-hg/tasker/internal/state"
)

type App struct {
	Config   config.Config
	Log      zerolog.Logger
	Notifier *notify.Service
	Client   *api.Client
	Tasks    *state.TaskStore
	Subtasks *state.SubtaskStore
	Tags     *state.TagStore
	Channels *state.ChannelStore
	Prefs    *prefs.Store
	Board    *board.Board
}

type options struct {
	log        zerolog.Logger
	httpClient *http.Client
	clock      clock.Clock
	prefs      *prefs.Store
	boardOpts  []board.Option
}

type Option func(*options)

func WithLogger(log zerolog.Logger) Option {
	return func(o *options) { o.log = log }
}

func WithHTTPClient(hc *http.Client) Option {
	return func(o *options) { o.httpClient = hc }
}

func WithClock(c clock.Clock) Option {
	return func(o *options) { o.clock = c }
}

// WithPrefs skips opening the preferences file.
func WithPrefs(store *prefs.Store) Option {
	return func(o *options) { o.prefs = store }
}

func WithBoardOptions(opts ...board.Option) Option {
	return func(o *options) { o.boardOpts = append(o.boardOpts, opts...) }
}

func New(cfg config.Config, opts ...Option) (*App, error) {
	o := options{log: zerolog.Nop(), clock: clock.New()}
	for _, opt := range opts {
		opt(&o)
	}
	if cfg.APIBaseURL == "" {
		return nil, errors.New("app: api base url is required")
	}

	store := o.prefs
	if store == nil {
		path := cfg.PrefsPath
		if path == "" {
			var err error
			if path, err = config.DefaultDataPath("prefs.json"); err != nil {
				return nil, fmt.Errorf("app: resolve preferences path: %w", err)
			}
		}
		var err error
		if store, err = prefs.Open(path); err != nil {
			return nil, fmt.Errorf("app: %w", err)
		}
	}

	clientOpts := []api.Option{api.WithLogger(o.log)}
	if o.httpClient != nil {
		clientOpts = append(clientOpts, api.WithHTTPClient(o.httpClient))
	}
	client := api.NewClient(cfg.APIBaseURL, cfg.APIKey, clientOpts...)
	notifier := notify.New(notify.WithClock(o.clock))

	a := &App{
		Config:   cfg,
		Log:      o.log,
		Notifier: notifier,
		Client:   client,
		Tasks:    state.NewTaskStore(api.NewTaskClient(client), notifier, o.log),
		Subtasks: state.NewSubtaskStore(api.NewSubtaskClient(client), notifier, o.log),
		Tags:     state.NewTagStore(api.NewTagClient(client), notifier, o.log),
		Channels: state.NewChannelStore(api.NewChannelClient(client), notifier, o.log),
		Prefs:    store,
	}
	a.Board = board.New(a.Tasks, store, o.boardOpts...)
	return a, nil
}

// Load fills every store from the server. All loads run even if one fails.
func (a *App) Load(ctx context.Context) error {
	return errors.Join(
		a.Tasks.LoadTasks(ctx, nil),
		a.Tags.LoadTags(ctx),
		a.Channels.LoadChannels(ctx),
	)
}

func (a *App) Close() error {
	a.Notifier.Close()
	return nil
}

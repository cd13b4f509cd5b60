package state

import (
	"context"
	"slices"

	"github.com/rs/zerolog"

	"github.com/Joseda-hg/tasker/internal/logging"
	"github.com/Joseda-hg/tasker/internal/model"
)

type TagAPI interface {
	List(ctx context.Context) ([]model.Tag, error)
	Create(ctx context.Context, input model.CreateTagInput) (model.Tag, error)
	Update(ctx context.Context, id int64, input model.UpdateTagInput) (model.Tag, error)
	Delete(ctx context.Context, id int64) error
	AssignToTask(ctx context.Context, taskID, tagID int64) error
	RemoveFromTask(ctx context.Context, taskID, tagID int64) error
}

type TagStore struct {
	api      TagAPI
	notifier Notifier
	log      zerolog.Logger

	tags    *Signal[[]model.Tag]
	loading *Signal[bool]
	err     *Signal[string]
}

func NewTagStore(client TagAPI, notifier Notifier, log zerolog.Logger) *TagStore {
	return &TagStore{
		api:      client,
		notifier: notifier,
		log:      logging.Component(log, "TagStore"),
		tags:     NewSignal[[]model.Tag](nil),
		loading:  NewSignal(false),
		err:      NewSignal(""),
	}
}

func (s *TagStore) LoadTags(ctx context.Context) error {
	return run(s.ops(), "Failed to load tags", "", false, func() error {
		tags, err := s.api.List(ctx)
		if err == nil {
			s.tags.Set(slices.Clone(tags))
		}
		return err
	})
}

func (s *TagStore) AddTag(ctx context.Context, input model.CreateTagInput) (model.Tag, error) {
	var tag model.Tag
	err := run(s.ops(), "Failed to create tag", "Tag created", true, func() error {
		created, err := s.api.Create(ctx, input)
		if err == nil {
			tag = created
			s.tags.Update(func(tags []model.Tag) []model.Tag { return append(slices.Clone(tags), created) })
		}
		return err
	})
	return tag, err
}

func (s *TagStore) UpdateTag(ctx context.Context, id int64, input model.UpdateTagInput) (model.Tag, error) {
	var tag model.Tag
	err := run(s.ops(), "Failed to update tag", "Tag updated", true, func() error {
		updated, err := s.api.Update(ctx, id, input)
		if err == nil {
			tag = updated
			s.tags.Update(func(tags []model.Tag) []model.Tag {
				return replaceByID(tags, updated, func(t model.Tag) int64 { return t.ID })
			})
		}
		return err
	})
	return tag, err
}

func (s *TagStore) RemoveTag(ctx context.Context, id int64) error {
	return run(s.ops(), "Failed to delete tag", "Tag deleted", true, func() error {
		err := s.api.Delete(ctx, id)
		if err == nil {
			s.tags.Update(func(tags []model.Tag) []model.Tag {
				return slices.DeleteFunc(slices.Clone(tags), func(t model.Tag) bool { return t.ID == id })
			})
		}
		return err
	})
}

func (s *TagStore) AssignToTask(ctx context.Context, taskID, tagID int64) error {
	return run(s.ops(), "Failed to assign tag", "Tag assigned", true, func() error {
		return s.api.AssignToTask(ctx, taskID, tagID)
	})
}

func (s *TagStore) RemoveFromTask(ctx context.Context, taskID, tagID int64) error {
	return run(s.ops(), "Failed to remove tag", "Tag removed", true, func() error {
		return s.api.RemoveFromTask(ctx, taskID, tagID)
	})
}

func (s *TagStore) Tags() []model.Tag {
	return slices.Clone(s.tags.Get())
}

// TagsForWorkspace returns the tags whose workspace set contains ws.
func (s *TagStore) TagsForWorkspace(ws model.Workspace) []model.Tag {
	var out []model.Tag
	for _, tag := range s.tags.Get() {
		if tag.AppliesTo(ws) {
			out = append(out, tag)
		}
	}
	return out
}

func (s *TagStore) Loading() bool { return s.loading.Get() }
func (s *TagStore) Error() string { return s.err.Get() }

func (s *TagStore) Subscribe(fn func()) func() {
	return subscribeAll(fn, s.tags, s.loading, s.err)
}

func (s *TagStore) ops() storeOps {
	return storeOps{log: s.log, loading: s.loading, err: s.err, notifier: s.notifier}
}

type ChannelAPI interface {
	List(ctx context.Context, workspace model.Workspace) ([]model.Channel, error)
	Create(ctx context.Context, input model.CreateChannelInput) (model.Channel, error)
	Update(ctx context.Context, id int64, input model.UpdateChannelInput) (model.Channel, error)
	Delete(ctx context.Context, id int64) error
}

// ChannelStore follows the same confirmed-only policy as the task store.
type ChannelStore struct {
	api      ChannelAPI
	notifier Notifier
	log      zerolog.Logger

	channels *Signal[[]model.Channel]
	loading  *Signal[bool]
	err      *Signal[string]
}

func NewChannelStore(client ChannelAPI, notifier Notifier, log zerolog.Logger) *ChannelStore {
	return &ChannelStore{
		api:      client,
		notifier: notifier,
		log:      logging.Component(log, "ChannelStore"),
		channels: NewSignal[[]model.Channel](nil),
		loading:  NewSignal(false),
		err:      NewSignal(""),
	}
}

// LoadChannels replaces the cache with every channel of both workspaces.
func (s *ChannelStore) LoadChannels(ctx context.Context) error {
	return run(s.ops(), "Failed to load channels", "", false, func() error {
		channels, err := s.api.List(ctx, "")
		if err == nil {
			s.channels.Set(slices.Clone(channels))
		}
		return err
	})
}

func (s *ChannelStore) AddChannel(ctx context.Context, input model.CreateChannelInput) (model.Channel, error) {
	var channel model.Channel
	err := run(s.ops(), "Failed to create channel", "Channel created", true, func() error {
		created, err := s.api.Create(ctx, input)
		if err == nil {
			channel = created
			s.channels.Update(func(cs []model.Channel) []model.Channel { return append(slices.Clone(cs), created) })
		}
		return err
	})
	return channel, err
}

func (s *ChannelStore) UpdateChannel(ctx context.Context, id int64, input model.UpdateChannelInput) (model.Channel, error) {
	var channel model.Channel
	err := run(s.ops(), "Failed to update channel", "Channel updated", true, func() error {
		updated, err := s.api.Update(ctx, id, input)
		if err == nil {
			channel = updated
			s.channels.Update(func(cs []model.Channel) []model.Channel {
				return replaceByID(cs, updated, func(c model.Channel) int64 { return c.ID })
			})
		}
		return err
	})
	return channel, err
}

func (s *ChannelStore) RemoveChannel(ctx context.Context, id int64) error {
	return run(s.ops(), "Failed to delete channel", "Channel deleted", true, func() error {
		err := s.api.Delete(ctx, id)
		if err == nil {
			s.channels.Update(func(cs []model.Channel) []model.Channel {
				return slices.DeleteFunc(slices.Clone(cs), func(c model.Channel) bool { return c.ID == id })
			})
		}
		return err
	})
}

func (s *ChannelStore) Channels() []model.Channel {
	return slices.Clone(s.channels.Get())
}

func (s *ChannelStore) ChannelsForWorkspace(ws model.Workspace) []model.Channel {
	var out []model.Channel
	for _, channel := range s.channels.Get() {
		if channel.Workspace == ws {
			out = append(out, channel)
		}
	}
	return out
}

func (s *ChannelStore) Channel(id int64) (model.Channel, bool) {
	for _, channel := range s.channels.Get() {
		if channel.ID == id {
			return channel, true
		}
	}
	return model.Channel{}, false
}

func (s *ChannelStore) Loading() bool { return s.loading.Get() }
func (s *ChannelStore) Error() string { return s.err.Get() }

func (s *ChannelStore) Subscribe(fn func()) func() {
	return subscribeAll(fn, s.channels, s.loading, s.err)
}

func (s *ChannelStore) ops() storeOps {
	return storeOps{log: s.log, loading: s.loading, err: s.err, notifier: s.notifier}
}

// storeOps bundles the flags shared by the smaller stores.
type storeOps struct {
	log      zerolog.Logger
	loading  *Signal[bool]
	err      *Signal[string]
	notifier Notifier
}

// run wraps one remote call with the loading/error/notification cycle. An
// empty success message stays silent.
func run(o storeOps, fallback, success string, notifyFailure bool, call func() error) error {
	o.loading.Set(true)
	o.err.Set("")
	defer o.loading.Set(false)

	if err := call(); err != nil {
		msg := errorMessage(err, fallback)
		o.log.Error().Err(err).Msg(msg)
		o.err.Set(msg)
		if notifyFailure {
			o.notifier.Error(msg)
		}
		return err
	}
	if success != "" {
		o.notifier.Success(success)
	}
	return nil
}

func replaceByID[T any](items []T, item T, id func(T) int64) []T {
	idx := slices.IndexFunc(items, func(existing T) bool { return id(existing) == id(item) })
	if idx < 0 {
		return items
	}
	out := slices.Clone(items)
	out[idx] = item
	return out
}

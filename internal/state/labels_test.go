package state_test

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Joseda-hg/tasker/internal/model"
	"github.com/Joseda-hg/tasker/internal/state"
)

type fakeTagAPI struct {
	tags     []model.Tag
	assigned map[[2]int64]bool
	failNext error
}

func (f *fakeTagAPI) takeFailure() error {
	err := f.failNext
	f.failNext = nil
	return err
}

func (f *fakeTagAPI) List(context.Context) ([]model.Tag, error) {
	return append([]model.Tag(nil), f.tags...), f.takeFailure()
}

func (f *fakeTagAPI) Create(_ context.Context, input model.CreateTagInput) (model.Tag, error) {
	if err := f.takeFailure(); err != nil {
		return model.Tag{}, err
	}
	tag := model.Tag{ID: int64(len(f.tags) + 1), Name: input.Name, Color: input.Color, Workspaces: input.Workspaces}
	f.tags = append(f.tags, tag)
	return tag, nil
}

func (f *fakeTagAPI) Update(_ context.Context, id int64, input model.UpdateTagInput) (model.Tag, error) {
	if err := f.takeFailure(); err != nil {
		return model.Tag{}, err
	}
	tag := f.tags[id-1]
	if input.Name != nil {
		tag.Name = *input.Name
	}
	f.tags[id-1] = tag
	return tag, nil
}

func (f *fakeTagAPI) Delete(context.Context, int64) error {
	return f.takeFailure()
}

func (f *fakeTagAPI) AssignToTask(_ context.Context, taskID, tagID int64) error {
	if err := f.takeFailure(); err != nil {
		return err
	}
	f.assigned[[2]int64{taskID, tagID}] = true
	return nil
}

func (f *fakeTagAPI) RemoveFromTask(_ context.Context, taskID, tagID int64) error {
	if err := f.takeFailure(); err != nil {
		return err
	}
	delete(f.assigned, [2]int64{taskID, tagID})
	return nil
}

func TestTagStore(t *testing.T) {
	ctx := context.Background()
	fake := &fakeTagAPI{assigned: map[[2]int64]bool{}}
	notifier := &recordingNotifier{}
	s := state.NewTagStore(fake, notifier, zerolog.Nop())

	_, err := s.AddTag(ctx, model.CreateTagInput{Name: "work", Workspaces: []model.Workspace{model.WorkspaceWork}})
	require.NoError(t, err)
	_, err = s.AddTag(ctx, model.CreateTagInput{Name: "both", Workspaces: model.Workspaces})
	require.NoError(t, err)

	assert.Len(t, s.TagsForWorkspace(model.WorkspaceWork), 2)
	personal := s.TagsForWorkspace(model.WorkspacePersonal)
	require.Len(t, personal, 1)
	assert.Equal(t, "both", personal[0].Name)

	renamed, err := s.UpdateTag(ctx, 1, model.UpdateTagInput{Name: model.Ptr("office")})
	require.NoError(t, err)
	assert.Equal(t, "office", renamed.Name)
	assert.Equal(t, "office", s.Tags()[0].Name)

	require.NoError(t, s.AssignToTask(ctx, 3, 1))
	assert.True(t, fake.assigned[[2]int64{3, 1}])
	require.NoError(t, s.RemoveFromTask(ctx, 3, 1))
	assert.False(t, fake.assigned[[2]int64{3, 1}])

	fake.failNext = errBoom
	require.Error(t, s.RemoveTag(ctx, 2))
	assert.Len(t, s.Tags(), 2)
	assert.Equal(t, "boom", s.Error())

	require.NoError(t, s.RemoveTag(ctx, 2))
	assert.Len(t, s.Tags(), 1)

	require.NoError(t, s.LoadTags(ctx))
	assert.Len(t, s.Tags(), 2)
}

type fakeChannelAPI struct {
	channels []model.Channel
	failNext error
}

func (f *fakeChannelAPI) List(_ context.Context, ws model.Workspace) ([]model.Channel, error) {
	var out []model.Channel
	for _, c := range f.channels {
		if ws == "" || c.Workspace == ws {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *fakeChannelAPI) Create(_ context.Context, input model.CreateChannelInput) (model.Channel, error) {
	if f.failNext != nil {
		err := f.failNext
		f.failNext = nil
		return model.Channel{}, err
	}
	c := model.Channel{ID: int64(len(f.channels) + 1), Name: input.Name, Workspace: input.Workspace, Color: input.Color}
	f.channels = append(f.channels, c)
	return c, nil
}

func (f *fakeChannelAPI) Update(_ context.Context, id int64, input model.UpdateChannelInput) (model.Channel, error) {
	c := f.channels[id-1]
	if input.Color != nil {
		c.Color = *input.Color
	}
	f.channels[id-1] = c
	return c, nil
}

func (f *fakeChannelAPI) Delete(context.Context, int64) error {
	return nil
}

func TestChannelStoreAppliesOnlyConfirmedChanges(t *testing.T) {
	ctx := context.Background()
	fake := &fakeChannelAPI{}
	notifier := &recordingNotifier{}
	s := state.NewChannelStore(fake, notifier, zerolog.Nop())

	fake.failNext = errBoom
	_, err := s.AddChannel(ctx, model.CreateChannelInput{Name: "Ops", Workspace: model.WorkspaceWork})
	require.Error(t, err)
	assert.Empty(t, s.Channels())
	_, lastErr := notifier.last()
	assert.Equal(t, "boom", lastErr)

	_, err = s.AddChannel(ctx, model.CreateChannelInput{Name: "Ops", Workspace: model.WorkspaceWork})
	require.NoError(t, err)
	_, err = s.AddChannel(ctx, model.CreateChannelInput{Name: "Home", Workspace: model.WorkspacePersonal})
	require.NoError(t, err)
	assert.Len(t, s.ChannelsForWorkspace(model.WorkspacePersonal), 1)

	_, err = s.UpdateChannel(ctx, 2, model.UpdateChannelInput{Color: model.Ptr("#123")})
	require.NoError(t, err)
	home, ok := s.Channel(2)
	require.True(t, ok)
	assert.Equal(t, "#123", home.Color)

	require.NoError(t, s.RemoveChannel(ctx, 1))
	assert.Len(t, s.Channels(), 1)

	require.NoError(t, s.LoadChannels(ctx))
	assert.Len(t, s.Channels(), 2)
}

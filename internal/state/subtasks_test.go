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

func newSubtaskStore(t *testing.T) (*state.SubtaskStore, *fakeSubtaskAPI, *recordingNotifier) {
	t.Helper()
	fake := newFakeSubtaskAPI()
	notifier := &recordingNotifier{}
	return state.NewSubtaskStore(fake, notifier, zerolog.Nop()), fake, notifier
}

func positions(subtasks []model.Subtask) []int {
	out := make([]int, 0, len(subtasks))
	for _, st := range subtasks {
		out = append(out, st.Position)
	}
	return out
}

func TestSubtasksStayOrderedByPosition(t *testing.T) {
	ctx := context.Background()
	s, _, notifier := newSubtaskStore(t)

	for _, pos := range []int{4, 1, 3} {
		_, err := s.AddSubtask(ctx, 10, model.CreateSubtaskInput{Title: "st", Position: model.Ptr(pos)})
		require.NoError(t, err)
	}
	assert.Equal(t, []int{1, 3, 4}, positions(s.SubtasksForTask(10)))

	_, err := s.ReorderSubtasks(ctx, 10, 2, 9)
	require.NoError(t, err)
	assert.Equal(t, []int{3, 4, 9}, positions(s.SubtasksForTask(10)))
	success, _ := notifier.last()
	assert.Equal(t, "Subtask reordered", success)

	_, err = s.UpdateSubtask(ctx, 10, 1, model.UpdateSubtaskInput{Position: model.Ptr(0)})
	require.NoError(t, err)
	assert.Equal(t, []int{0, 3, 9}, positions(s.SubtasksForTask(10)))
}

func TestSubtaskProgressAndStatusView(t *testing.T) {
	ctx := context.Background()
	s, _, _ := newSubtaskStore(t)
	for range 3 {
		_, err := s.AddSubtask(ctx, 1, model.CreateSubtaskInput{Title: "st"})
		require.NoError(t, err)
	}
	assert.Equal(t, 0, s.Progress(1))

	_, err := s.UpdateSubtaskStatus(ctx, 1, 1, model.SubtaskDone)
	require.NoError(t, err)
	assert.Equal(t, 33, s.Progress(1))

	_, err = s.UpdateSubtaskStatus(ctx, 1, 3, model.SubtaskDone)
	require.NoError(t, err)
	assert.Equal(t, 67, s.Progress(1))

	done := s.SubtasksByStatus(1, model.SubtaskDone)
	require.Len(t, done, 2)
	assert.Equal(t, int64(1), done[0].ID)
	assert.Equal(t, int64(3), done[1].ID)
	assert.Len(t, s.SubtasksByStatus(1, model.SubtaskTodo), 1)
}

func TestClearRemovesBucketEntirely(t *testing.T) {
	ctx := context.Background()
	s, _, _ := newSubtaskStore(t)

	assert.False(t, s.HasSubtasks(5))
	require.NoError(t, s.LoadSubtasks(ctx, 5))
	assert.True(t, s.HasSubtasks(5))
	assert.Empty(t, s.SubtasksForTask(5))

	s.ClearSubtasksForTask(5)
	assert.False(t, s.HasSubtasks(5))
}

func TestSubtaskFailuresNotifyAndKeepBucket(t *testing.T) {
	ctx := context.Background()
	s, fake, notifier := newSubtaskStore(t)
	_, err := s.AddSubtask(ctx, 1, model.CreateSubtaskInput{Title: "keep"})
	require.NoError(t, err)

	fake.failNext = errBoom
	require.Error(t, s.RemoveSubtask(ctx, 1, 1))
	assert.Len(t, s.SubtasksForTask(1), 1)
	_, lastErr := notifier.last()
	assert.Equal(t, "boom", lastErr)
	assert.Equal(t, "boom", s.Error())
	assert.False(t, s.Loading())

	require.NoError(t, s.RemoveSubtask(ctx, 1, 1))
	assert.Empty(t, s.SubtasksForTask(1))
	assert.True(t, s.HasSubtasks(1))
	assert.Empty(t, s.Error())
}

func TestMutationsDoNotCreateUnloadedBuckets(t *testing.T) {
	ctx := context.Background()
	s, _, _ := newSubtaskStore(t)
	for range 2 {
		_, err := s.AddSubtask(ctx, 7, model.CreateSubtaskInput{Title: "st"})
		require.NoError(t, err)
	}
	s.ClearSubtasksForTask(7)

	_, err := s.UpdateSubtaskStatus(ctx, 7, 1, model.SubtaskDone)
	require.NoError(t, err)
	_, err = s.ReorderSubtasks(ctx, 7, 1, 5)
	require.NoError(t, err)
	require.NoError(t, s.RemoveSubtask(ctx, 7, 2))
	assert.False(t, s.HasSubtasks(7))

	require.NoError(t, s.LoadSubtasks(ctx, 7))
	require.True(t, s.HasSubtasks(7))
	loaded := s.SubtasksForTask(7)
	require.Len(t, loaded, 1)
	assert.Equal(t, model.SubtaskDone, loaded[0].Status)
}

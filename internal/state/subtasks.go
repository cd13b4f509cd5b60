package state

import (
	"context"
	"maps"
	"slices"

	"github.com/rs/zerolog"

	"github.com/Joseda-hg/tasker/internal/board"
	"github.com/Joseda-hg/tasker/internal/logging"
	"github.com/Joseda-hg/tasker/internal/model"
)

type SubtaskAPI interface {
	List(ctx context.Context, taskID int64) ([]model.Subtask, error)
	Create(ctx context.Context, taskID int64, input model.CreateSubtaskInput) (model.Subtask, error)
	Update(ctx context.Context, id int64, input model.UpdateSubtaskInput) (model.Subtask, error)
	Delete(ctx context.Context, id int64) error
	Reorder(ctx context.Context, id int64, position int) (model.Subtask, error)
}

// SubtaskStore keeps one bucket of subtasks per parent task. Every write
// replaces the map and the touched bucket, so a bucket read by a caller is
// never modified afterwards.
type SubtaskStore struct {
	api      SubtaskAPI
	notifier Notifier
	log      zerolog.Logger

	buckets *Signal[map[int64][]model.Subtask]
	loading *Signal[bool]
	err     *Signal[string]
}

func NewSubtaskStore(client SubtaskAPI, notifier Notifier, log zerolog.Logger) *SubtaskStore {
	return &SubtaskStore{
		api:      client,
		notifier: notifier,
		log:      logging.Component(log, "SubtaskStore"),
		buckets:  NewSignal(map[int64][]model.Subtask{}),
		loading:  NewSignal(false),
		err:      NewSignal(""),
	}
}

func (s *SubtaskStore) LoadSubtasks(ctx context.Context, taskID int64) error {
	s.begin()
	defer s.loading.Set(false)

	subtasks, err := s.api.List(ctx, taskID)
	if err != nil {
		s.fail(err, "Failed to load subtasks", true)
		return err
	}
	s.setBucket(taskID, func([]model.Subtask) []model.Subtask {
		return slices.Clone(subtasks)
	})
	return nil
}

func (s *SubtaskStore) AddSubtask(ctx context.Context, taskID int64, input model.CreateSubtaskInput) (model.Subtask, error) {
	s.begin()
	defer s.loading.Set(false)

	subtask, err := s.api.Create(ctx, taskID, input)
	if err != nil {
		s.fail(err, "Failed to create subtask", true)
		return model.Subtask{}, err
	}
	s.setBucket(taskID, func(bucket []model.Subtask) []model.Subtask {
		return append(slices.Clone(bucket), subtask)
	})
	s.notifier.Success("Subtask created")
	return subtask, nil
}

func (s *SubtaskStore) UpdateSubtask(ctx context.Context, taskID, subtaskID int64, input model.UpdateSubtaskInput) (model.Subtask, error) {
	s.begin()
	defer s.loading.Set(false)

	subtask, err := s.api.Update(ctx, subtaskID, input)
	if err != nil {
		s.fail(err, "Failed to update subtask", true)
		return model.Subtask{}, err
	}
	s.updateBucket(taskID, func(bucket []model.Subtask) []model.Subtask {
		return replaceSubtask(bucket, subtask)
	})
	s.notifier.Success("Subtask updated")
	return subtask, nil
}

func (s *SubtaskStore) UpdateSubtaskStatus(ctx context.Context, taskID, subtaskID int64, status model.SubtaskStatus) (model.Subtask, error) {
	return s.UpdateSubtask(ctx, taskID, subtaskID, model.UpdateSubtaskInput{Status: &status})
}

func (s *SubtaskStore) RemoveSubtask(ctx context.Context, taskID, subtaskID int64) error {
	s.begin()
	defer s.loading.Set(false)

	if err := s.api.Delete(ctx, subtaskID); err != nil {
		s.fail(err, "Failed to delete subtask", true)
		return err
	}
	s.updateBucket(taskID, func(bucket []model.Subtask) []model.Subtask {
		return slices.DeleteFunc(slices.Clone(bucket), func(st model.Subtask) bool { return st.ID == subtaskID })
	})
	s.notifier.Success("Subtask deleted")
	return nil
}

func (s *SubtaskStore) ReorderSubtasks(ctx context.Context, taskID, subtaskID int64, position int) (model.Subtask, error) {
	s.begin()
	defer s.loading.Set(false)

	subtask, err := s.api.Reorder(ctx, subtaskID, position)
	if err != nil {
		s.fail(err, "Failed to reorder subtask", true)
		return model.Subtask{}, err
	}
	s.updateBucket(taskID, func(bucket []model.Subtask) []model.Subtask {
		return replaceSubtask(bucket, subtask)
	})
	s.notifier.Success("Subtask reordered")
	return subtask, nil
}

func replaceSubtask(bucket []model.Subtask, subtask model.Subtask) []model.Subtask {
	idx := slices.IndexFunc(bucket, func(st model.Subtask) bool { return st.ID == subtask.ID })
	if idx < 0 {
		return bucket
	}
	out := slices.Clone(bucket)
	out[idx] = subtask
	return out
}

// SubtasksForTask returns the bucket ordered by position; ties keep insertion order.
func (s *SubtaskStore) SubtasksForTask(taskID int64) []model.Subtask {
	out := slices.Clone(s.buckets.Get()[taskID])
	slices.SortStableFunc(out, func(a, b model.Subtask) int {
		return a.Position - b.Position
	})
	return out
}

func (s *SubtaskStore) SubtasksByStatus(taskID int64, status model.SubtaskStatus) []model.Subtask {
	return slices.DeleteFunc(s.SubtasksForTask(taskID), func(st model.Subtask) bool {
		return st.Status != status
	})
}

// ClearSubtasksForTask drops the bucket entirely, unlike an empty load.
func (s *SubtaskStore) ClearSubtasksForTask(taskID int64) {
	s.buckets.Update(func(buckets map[int64][]model.Subtask) map[int64][]model.Subtask {
		next := maps.Clone(buckets)
		delete(next, taskID)
		return next
	})
}

// HasSubtasks reports whether a bucket exists for taskID, even an empty one.
func (s *SubtaskStore) HasSubtasks(taskID int64) bool {
	_, ok := s.buckets.Get()[taskID]
	return ok
}

// Progress is the share of DONE subtasks as a whole percentage.
func (s *SubtaskStore) Progress(taskID int64) int {
	bucket := s.buckets.Get()[taskID]
	done := 0
	for _, st := range bucket {
		if st.Status == model.SubtaskDone {
			done++
		}
	}
	return board.CompletionPercent(done, len(bucket))
}

func (s *SubtaskStore) Loading() bool {
	return s.loading.Get()
}

func (s *SubtaskStore) Error() string {
	return s.err.Get()
}

func (s *SubtaskStore) Subscribe(fn func()) func() {
	return subscribeAll(fn, s.buckets, s.loading, s.err)
}

func (s *SubtaskStore) setBucket(taskID int64, fn func([]model.Subtask) []model.Subtask) {
	s.buckets.Update(func(buckets map[int64][]model.Subtask) map[int64][]model.Subtask {
		next := maps.Clone(buckets)
		bucket := fn(next[taskID])
		if bucket == nil {
			bucket = []model.Subtask{}
		}
		next[taskID] = bucket
		return next
	})
}

// updateBucket is setBucket for tasks whose subtasks are already loaded; it
// never creates an entry.
func (s *SubtaskStore) updateBucket(taskID int64, fn func([]model.Subtask) []model.Subtask) {
	s.buckets.Update(func(buckets map[int64][]model.Subtask) map[int64][]model.Subtask {
		bucket, ok := buckets[taskID]
		if !ok {
			return buckets
		}
		next := maps.Clone(buckets)
		next[taskID] = fn(bucket)
		return next
	})
}

func (s *SubtaskStore) begin() {
	s.loading.Set(true)
	s.err.Set("")
}

func (s *SubtaskStore) fail(err error, fallback string, notify bool) {
	msg := errorMessage(err, fallback)
	s.log.Error().Err(err).Msg(msg)
	s.err.Set(msg)
	if notify {
		s.notifier.Error(msg)
	}
}

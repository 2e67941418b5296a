// Package scheduler owns the three stage collections of the task lifecycle
// and the transitions between them. A task moves strictly forward:
//
//	staged --StartTask--> active --FinishTask--> finished
//
// Every task id lives in exactly one collection at any instant, and the
// scheduler is the only writer of task state. All operations are synchronous
// and single-threaded; a caller introducing concurrency must serialize access
// to the scheduler as a whole.
package scheduler

import (
	"errors"
	"fmt"

	"github.com/emirpasic/gods/maps/linkedhashmap"

	"github.com/taskdeck/taskdeck/models"
	"github.com/taskdeck/taskdeck/store"
)

var (
	// ErrTaskNotFound reports an id absent from the expected source
	// collection. The operation is a no-op; no state changes.
	ErrTaskNotFound = errors.New("task not found")

	// ErrLogAppend reports a failed completion-log write. The in-memory
	// transition has already committed when this is returned; callers should
	// surface it as a warning, not roll anything back.
	ErrLogAppend = errors.New("completion log append failed")
)

// Scheduler owns the three insertion-ordered stage collections, the id
// counter, and the durable completion log.
type Scheduler struct {
	staged   *linkedhashmap.Map // task id -> models.Task
	active   *linkedhashmap.Map
	finished *linkedhashmap.Map
	nextID   int
	log      store.CompletionLog
}

// New creates an empty scheduler. The completion log may be nil, in which
// case finished tasks are only kept in memory.
func New(log store.CompletionLog) *Scheduler {
	return &Scheduler{
		staged:   linkedhashmap.New(),
		active:   linkedhashmap.New(),
		finished: linkedhashmap.New(),
		nextID:   1,
		log:      log,
	}
}

// AddTask assigns the next sequential id, creates a staged task and appends
// it to the staged collection. It always succeeds; the id counter increments
// only here.
func (s *Scheduler) AddTask(description string, estimateSeconds int) models.Task {
	task := models.NewTask(s.nextID, description, estimateSeconds)
	s.nextID++
	s.staged.Put(task.ID, task)
	return task
}

// StartTask moves a staged task to the active collection, stamping its start
// time. An id absent from staged — including one already active or finished —
// reports ErrTaskNotFound and changes nothing.
func (s *Scheduler) StartTask(id int) (models.Task, error) {
	task, ok := s.find(id, s.staged)
	if !ok {
		return models.Task{}, fmt.Errorf("task #%d not in staged tasks: %w", id, ErrTaskNotFound)
	}

	// The updated copy lands in active before the staged entry is removed,
	// so a failure partway never leaves the task in two lists or in neither.
	task.MarkActive()
	s.active.Put(id, task)
	s.staged.Remove(id)
	return task, nil
}

// FinishTask moves an active task to the finished collection, stamping its
// finish time, and appends one row to the durable completion log. The
// in-memory move commits regardless of the log outcome; a failed append is
// reported via ErrLogAppend with the transition left in place.
func (s *Scheduler) FinishTask(id int) (models.Task, error) {
	task, ok := s.find(id, s.active)
	if !ok {
		return models.Task{}, fmt.Errorf("task #%d not in active tasks: %w", id, ErrTaskNotFound)
	}

	task.MarkFinished()
	s.finished.Put(id, task)
	s.active.Remove(id)

	if s.log != nil {
		if err := s.log.Append(task); err != nil {
			return task, fmt.Errorf("task #%d: %w: %v", id, ErrLogAppend, err)
		}
	}
	return task, nil
}

// Staged returns a read-only ordered snapshot of the staged collection.
func (s *Scheduler) Staged() []models.Task { return snapshot(s.staged) }

// Active returns a read-only ordered snapshot of the active collection.
func (s *Scheduler) Active() []models.Task { return snapshot(s.active) }

// Finished returns a read-only ordered snapshot of the finished collection.
func (s *Scheduler) Finished() []models.Task { return snapshot(s.finished) }

// Counts reports the size of each stage collection.
func (s *Scheduler) Counts() (staged, active, finished int) {
	return s.staged.Size(), s.active.Size(), s.finished.Size()
}

// Find looks up an id in the collection for the given stage and returns a
// copy. The copy reflects the task at call time only; it is not a live
// handle.
func (s *Scheduler) Find(id int, status models.TaskStatus) (models.Task, bool) {
	switch status {
	case models.StatusStaged:
		return s.find(id, s.staged)
	case models.StatusActive:
		return s.find(id, s.active)
	case models.StatusFinished:
		return s.find(id, s.finished)
	default:
		return models.Task{}, false
	}
}

// CompletedReport renders one line per finished task: its fields plus the
// actual elapsed duration in whole seconds and derived minutes+seconds.
func (s *Scheduler) CompletedReport() []string {
	lines := make([]string, 0, s.finished.Size())
	for _, task := range s.Finished() {
		line := task.Describe()
		if d, ok := task.ActualDuration(); ok {
			seconds := int64(d.Seconds())
			line += fmt.Sprintf(" | Actual: %d s (%d m %d s)", seconds, seconds/60, seconds%60)
		}
		lines = append(lines, line)
	}
	return lines
}

func (s *Scheduler) find(id int, collection *linkedhashmap.Map) (models.Task, bool) {
	v, ok := collection.Get(id)
	if !ok {
		return models.Task{}, false
	}
	return v.(models.Task), true
}

func snapshot(collection *linkedhashmap.Map) []models.Task {
	tasks := make([]models.Task, 0, collection.Size())
	for _, v := range collection.Values() {
		tasks = append(tasks, v.(models.Task))
	}
	return tasks
}

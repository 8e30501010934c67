// ABOUTME: Session controller that walks a workout plan one exercise at a time.
// ABOUTME: Buffers free-text set edits and commits them as a single completed workout.
package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/harperreed/lifts/internal/models"
)

// State is the lifecycle position of a session.
type State int

const (
	NotStarted State = iota
	InProgress
	Finished
)

func (s State) String() string {
	switch s {
	case NotStarted:
		return "not started"
	case InProgress:
		return "in progress"
	case Finished:
		return "finished"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

var (
	// ErrWorkoutNotFound is returned by Start when the plan does not exist.
	ErrWorkoutNotFound = errors.New("workout not found")
	// ErrEmptyPlan is returned by Start when the plan has no exercises.
	ErrEmptyPlan = errors.New("workout has no exercises")
	// ErrInvalidState is returned when an operation does not fit the session's state.
	ErrInvalidState = errors.New("invalid session state")
	// ErrLastExercise is returned by Advance on the final exercise.
	ErrLastExercise = errors.New("already on the last exercise")
	// ErrInvalidSet is returned when a set number is below one.
	ErrInvalidSet = errors.New("set number must be positive")
)

// Store is the slice of the repository a session needs.
type Store interface {
	GetWorkoutDetails(ctx context.Context, id uuid.UUID) (*models.Workout, error)
	GetWorkoutHistory(ctx context.Context, workoutID uuid.UUID) ([]*models.CompletedWorkout, error)
	SaveCompletedWorkout(ctx context.Context, data models.CompletedWorkoutData) (*models.CompletedWorkout, error)
}

// Entry is the raw, unparsed input for one set of the current exercise.
type Entry struct {
	SetNumber   int
	Repetitions string
	Weight      string
	Observation string
}

// Suggestion is the prefill shown for a set before the user types anything.
type Suggestion struct {
	Repetitions int
	Weight      *float64
	FromHistory bool
}

// Option configures a Controller.
type Option func(*Controller)

// WithClock overrides the time source used to stamp the completed workout.
func WithClock(now func() time.Time) Option {
	return func(c *Controller) { c.now = now }
}

// WithLogger attaches a logger. A nil logger discards output.
func WithLogger(logger *log.Logger) Option {
	return func(c *Controller) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// Controller drives one workout session. It is not safe for concurrent use.
type Controller struct {
	store  Store
	logger *log.Logger
	now    func() time.Time

	state    State
	plan     *models.Workout
	previous *models.CompletedWorkout
	index    int
	done     []models.CompletedExerciseData
	buffer   []Entry
	result   *models.CompletedWorkout
}

// New creates an idle controller backed by store.
func New(store Store, opts ...Option) *Controller {
	c := &Controller{
		store:  store,
		logger: log.New(io.Discard),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Start loads the plan and its most recent completion and positions the
// session on the first exercise.
func (c *Controller) Start(ctx context.Context, workoutID uuid.UUID) error {
	if c.state != NotStarted {
		return fmt.Errorf("start: %w: session is %s", ErrInvalidState, c.state)
	}

	plan, err := c.store.GetWorkoutDetails(ctx, workoutID)
	if err != nil {
		return fmt.Errorf("load workout: %w", err)
	}
	if plan == nil {
		return fmt.Errorf("%w: %s", ErrWorkoutNotFound, workoutID)
	}
	if len(plan.Exercises) == 0 {
		return fmt.Errorf("%w: %s", ErrEmptyPlan, plan.Name)
	}

	// History only seeds suggestions, so a failed lookup does not block the session.
	history, err := c.store.GetWorkoutHistory(ctx, workoutID)
	if err != nil {
		c.logger.Warn("could not load previous session", "workout", plan.Name, "err", err)
	} else if len(history) > 0 {
		c.previous = history[0]
	}

	c.plan = plan
	c.index = 0
	c.done = nil
	c.buffer = nil
	c.state = InProgress
	c.logger.Info("session started", "workout", plan.Name, "exercises", len(plan.Exercises))
	return nil
}

// RecordSet replaces the entry for setNumber in the current exercise.
func (c *Controller) RecordSet(setNumber int, repetitions, weight string) error {
	return c.upsert(setNumber, func(e *Entry) {
		e.Repetitions = repetitions
		e.Weight = weight
	})
}

// RecordReps updates only the repetitions of a set. A new entry starts with
// an empty weight.
func (c *Controller) RecordReps(setNumber int, repetitions string) error {
	return c.upsert(setNumber, func(e *Entry) {
		e.Repetitions = repetitions
	})
}

// RecordWeight updates only the weight of a set. A new entry starts with the
// planned repetitions.
func (c *Controller) RecordWeight(setNumber int, weight string) error {
	return c.upsert(setNumber, func(e *Entry) {
		e.Weight = weight
	})
}

// RecordObservation attaches a free-text note to a set.
func (c *Controller) RecordObservation(setNumber int, note string) error {
	return c.upsert(setNumber, func(e *Entry) {
		e.Observation = note
	})
}

func (c *Controller) upsert(setNumber int, apply func(*Entry)) error {
	if c.state != InProgress {
		return fmt.Errorf("record set: %w: session is %s", ErrInvalidState, c.state)
	}
	if setNumber < 1 {
		return fmt.Errorf("%w: %d", ErrInvalidSet, setNumber)
	}

	for i := range c.buffer {
		if c.buffer[i].SetNumber == setNumber {
			apply(&c.buffer[i])
			return nil
		}
	}

	e := Entry{SetNumber: setNumber}
	if planned := c.plannedSet(setNumber); planned != nil {
		e.Repetitions = fmt.Sprint(planned.Repetitions)
	}
	apply(&e)
	c.buffer = append(c.buffer, e)
	return nil
}

// Advance finalizes the current exercise and moves to the next one.
func (c *Controller) Advance() error {
	if c.state != InProgress {
		return fmt.Errorf("advance: %w: session is %s", ErrInvalidState, c.state)
	}
	if c.IsLast() {
		return ErrLastExercise
	}

	c.done = append(c.done, c.snapshot())
	c.buffer = nil
	c.index++
	return nil
}

// Finish commits every finalized exercise plus the current one. It may be
// called before the last exercise. When the save fails the session stays in
// progress with its edits intact so the caller can retry.
func (c *Controller) Finish(ctx context.Context) (*models.CompletedWorkout, error) {
	if c.state != InProgress {
		return nil, fmt.Errorf("finish: %w: session is %s", ErrInvalidState, c.state)
	}

	exercises := make([]models.CompletedExerciseData, 0, len(c.done)+1)
	exercises = append(exercises, c.done...)
	exercises = append(exercises, c.snapshot())

	data := models.CompletedWorkoutData{
		WorkoutID:          c.plan.ID,
		WorkoutName:        c.plan.Name,
		Date:               c.now(),
		CompletedExercises: exercises,
	}

	saved, err := c.store.SaveCompletedWorkout(ctx, data)
	if err != nil {
		c.logger.Error("failed to save session", "workout", c.plan.Name, "err", err)
		return nil, fmt.Errorf("save session: %w", err)
	}

	c.done = exercises
	c.buffer = nil
	c.result = saved
	c.state = Finished
	c.logger.Info("session finished", "workout", c.plan.Name, "exercises", len(exercises), "id", saved.ID)
	return saved, nil
}

// snapshot converts the buffer for the current exercise into commit form.
func (c *Controller) snapshot() models.CompletedExerciseData {
	ex := c.CurrentExercise()
	entries := make([]Entry, len(c.buffer))
	copy(entries, c.buffer)
	sort.Slice(entries, func(i, j int) bool { return entries[i].SetNumber < entries[j].SetNumber })

	sets := make([]models.CompletedSetData, 0, len(entries))
	for _, e := range entries {
		sets = append(sets, models.CompletedSetData{
			SetNumber:   e.SetNumber,
			Repetitions: parseReps(e.Repetitions),
			Weight:      parseWeight(e.Weight),
			Observation: e.Observation,
		})
	}
	return models.CompletedExerciseData{
		ExerciseID:    ex.ID,
		ExerciseName:  ex.Name,
		CompletedSets: sets,
	}
}

func (c *Controller) plannedSet(setNumber int) *models.Set {
	ex := c.CurrentExercise()
	if ex == nil {
		return nil
	}
	for i := range ex.Sets {
		if ex.Sets[i].SetNumber == setNumber {
			return &ex.Sets[i]
		}
	}
	return nil
}

// Suggestion returns the prefill for a set of the current exercise: the same
// set from the previous session when there is one, otherwise the plan target.
func (c *Controller) Suggestion(setNumber int) Suggestion {
	ex := c.CurrentExercise()
	if ex == nil {
		return Suggestion{}
	}

	if c.previous != nil {
		for _, ce := range c.previous.Exercises {
			if ce.ExerciseName != ex.Name {
				continue
			}
			for _, s := range ce.Sets {
				if s.SetNumber == setNumber {
					w := s.Weight
					return Suggestion{Repetitions: s.Repetitions, Weight: &w, FromHistory: true}
				}
			}
		}
	}

	if planned := c.plannedSet(setNumber); planned != nil {
		return Suggestion{Repetitions: planned.Repetitions, Weight: planned.Weight}
	}
	return Suggestion{}
}

// State reports where the session is in its lifecycle.
func (c *Controller) State() State { return c.state }

// Index is the zero-based position of the current exercise.
func (c *Controller) Index() int { return c.index }

// Plan is the workout loaded by Start, or nil before it.
func (c *Controller) Plan() *models.Workout { return c.plan }

// Previous is the most recent completion of the plan, or nil.
func (c *Controller) Previous() *models.CompletedWorkout { return c.previous }

// Result is the saved workout once the session has finished.
func (c *Controller) Result() *models.CompletedWorkout { return c.result }

// CurrentExercise returns the exercise being performed, or nil before Start.
func (c *Controller) CurrentExercise() *models.Exercise {
	if c.plan == nil || c.index >= len(c.plan.Exercises) {
		return nil
	}
	return &c.plan.Exercises[c.index]
}

// IsLast reports whether the current exercise is the final one in the plan.
func (c *Controller) IsLast() bool {
	return c.plan != nil && c.index == len(c.plan.Exercises)-1
}

// Entries returns a copy of the current exercise's edits, ordered by set number.
func (c *Controller) Entries() []Entry {
	out := make([]Entry, len(c.buffer))
	copy(out, c.buffer)
	sort.Slice(out, func(i, j int) bool { return out[i].SetNumber < out[j].SetNumber })
	return out
}

// Completed returns a copy of the exercises finalized so far.
func (c *Controller) Completed() []models.CompletedExerciseData {
	out := make([]models.CompletedExerciseData, len(c.done))
	copy(out, c.done)
	return out
}

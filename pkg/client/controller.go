package client

import (
	"context"
	"sync"

	"github.com/command-deck/command-deck-backend/app/models"
	"github.com/command-deck/command-deck-backend/pkg/utils"
	"github.com/google/uuid"
)

type MutationState int

const (
	MutationPending MutationState = iota
	MutationConfirmed
	MutationFailed
)

func (s MutationState) String() string {
	switch s {
	case MutationPending:
		return "pending"
	case MutationConfirmed:
		return "confirmed"
	case MutationFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Mutation tracks one in-flight optimistic operation. Failed mutations are
// always resolved by a full refetch, never by a hand-rolled inverse.
type Mutation struct {
	ID     uuid.UUID
	Action string
	State  MutationState
	Err    error
}

// Controller maintains the client's view of mission pages and applies
// optimistic task mutations, reconciling with server truth afterwards.
type Controller struct {
	api   *Client
	cache *Cache

	// Prefetch eagerly loads the next page after a successful page load.
	Prefetch bool

	mu        sync.Mutex
	mutations map[uuid.UUID]*Mutation
	nextTemp  int64
}

func NewController(api *Client) *Controller {
	return &Controller{
		api:       api,
		cache:     NewCache(),
		Prefetch:  true,
		mutations: make(map[uuid.UUID]*Mutation),
		nextTemp:  -1,
	}
}

func (ctl *Controller) Cache() *Cache {
	return ctl.cache
}

// Mutation returns a snapshot of a tracked mutation.
func (ctl *Controller) Mutation(id uuid.UUID) (Mutation, bool) {
	ctl.mu.Lock()
	defer ctl.mu.Unlock()
	m, ok := ctl.mutations[id]
	if !ok {
		return Mutation{}, false
	}
	return *m, true
}

// LoadPage fetches one page into the cache. When prefetching is on and more
// pages exist, the next page is fetched in the background on a best-effort
// basis.
func (ctl *Controller) LoadPage(ctx context.Context, key PageKey) (models.MissionPage, error) {
	gen := ctl.cache.begin(key)
	page, err := ctl.api.ListMissions(ctx, key.Page, key.Size, key.SortBy, key.Direction)
	if err != nil {
		return models.MissionPage{}, err
	}
	ctl.cache.commit(key, gen, page)

	if ctl.Prefetch && key.Page+1 < page.TotalPages {
		next := key
		next.Page++
		go func() {
			gen := ctl.cache.begin(next)
			p, err := ctl.api.ListMissions(context.Background(), next.Page, next.Size, next.SortBy, next.Direction)
			if err != nil {
				return
			}
			ctl.cache.commit(next, gen, p)
		}()
	}
	return page, nil
}

// AddTask inserts a temporary task into the cached mission immediately, then
// issues the create. Server truth replaces the temp id on success and
// discards the speculative task on failure; both paths go through a refetch.
func (ctl *Controller) AddTask(ctx context.Context, key PageKey, missionID string, req models.CreateTaskRequest) (Mutation, error) {
	if !ctl.cache.Ready() {
		return Mutation{}, ErrCacheNotReady
	}
	mid, err := utils.ParseID(missionID)
	if err != nil {
		return Mutation{}, &ValidationError{Message: "invalid id"}
	}
	if req.Difficulty != nil && !models.ValidDifficulty(*req.Difficulty) {
		return Mutation{}, &ValidationError{Message: "difficulty must be between 1 and 5"}
	}

	difficulty := 3
	if req.Difficulty != nil {
		difficulty = *req.Difficulty
	}
	temp := models.Task{
		ID:         ctl.tempID(),
		MissionID:  mid,
		Title:      req.Title,
		Difficulty: difficulty,
		Completed:  req.Completed,
	}

	if !ctl.cache.mutateMission(key, mid, func(m *models.Mission) {
		m.Tasks = append(m.Tasks, temp)
		m.Completed = utils.IsCompleted(m.Tasks)
	}) {
		return Mutation{}, ErrNotCached
	}

	mut := ctl.track("addTask")
	_, err = ctl.api.CreateTask(ctx, missionID, req)
	ctl.resolve(mut, err)
	ctl.refetch(ctx, key)
	return ctl.snapshot(mut), err
}

// ToggleTask flips a task's completed flag in the cache, then confirms with
// the server. A failure rolls back via refetch.
func (ctl *Controller) ToggleTask(ctx context.Context, key PageKey, missionID, taskID string) (Mutation, error) {
	if !ctl.cache.Ready() {
		return Mutation{}, ErrCacheNotReady
	}
	mid, err := utils.ParseID(missionID)
	if err != nil {
		return Mutation{}, &ValidationError{Message: "invalid id"}
	}
	tid, err := utils.ParseID(taskID)
	if err != nil {
		return Mutation{}, &ValidationError{Message: "invalid id"}
	}

	var newValue bool
	found := false
	ctl.cache.mutateMission(key, mid, func(m *models.Mission) {
		for i := range m.Tasks {
			if m.Tasks[i].ID == tid {
				m.Tasks[i].Completed = !m.Tasks[i].Completed
				newValue = m.Tasks[i].Completed
				found = true
			}
		}
		m.Completed = utils.IsCompleted(m.Tasks)
	})
	if !found {
		return Mutation{}, ErrNotCached
	}

	mut := ctl.track("toggleTask")
	_, err = ctl.api.UpdateTask(ctx, missionID, taskID, models.UpdateTaskRequest{Completed: &newValue})
	ctl.resolve(mut, err)
	if err != nil {
		ctl.refetch(ctx, key)
	}
	return ctl.snapshot(mut), err
}

// SetDifficulty changes a task's weight in the cache, then confirms with the
// server.
func (ctl *Controller) SetDifficulty(ctx context.Context, key PageKey, missionID, taskID string, difficulty int) (Mutation, error) {
	if !ctl.cache.Ready() {
		return Mutation{}, ErrCacheNotReady
	}
	mid, err := utils.ParseID(missionID)
	if err != nil {
		return Mutation{}, &ValidationError{Message: "invalid id"}
	}
	tid, err := utils.ParseID(taskID)
	if err != nil {
		return Mutation{}, &ValidationError{Message: "invalid id"}
	}
	if !models.ValidDifficulty(difficulty) {
		return Mutation{}, &ValidationError{Message: "difficulty must be between 1 and 5"}
	}

	found := false
	ctl.cache.mutateMission(key, mid, func(m *models.Mission) {
		for i := range m.Tasks {
			if m.Tasks[i].ID == tid {
				m.Tasks[i].Difficulty = difficulty
				found = true
			}
		}
		m.Completed = utils.IsCompleted(m.Tasks)
	})
	if !found {
		return Mutation{}, ErrNotCached
	}

	mut := ctl.track("setDifficulty")
	_, err = ctl.api.UpdateTask(ctx, missionID, taskID, models.UpdateTaskRequest{Difficulty: &difficulty})
	ctl.resolve(mut, err)
	if err != nil {
		ctl.refetch(ctx, key)
	}
	return ctl.snapshot(mut), err
}

// DeleteTask removes the task from the cache, then confirms with the server.
// A failure restores it via refetch.
func (ctl *Controller) DeleteTask(ctx context.Context, key PageKey, missionID, taskID string) (Mutation, error) {
	if !ctl.cache.Ready() {
		return Mutation{}, ErrCacheNotReady
	}
	mid, err := utils.ParseID(missionID)
	if err != nil {
		return Mutation{}, &ValidationError{Message: "invalid id"}
	}
	tid, err := utils.ParseID(taskID)
	if err != nil {
		return Mutation{}, &ValidationError{Message: "invalid id"}
	}

	found := false
	ctl.cache.mutateMission(key, mid, func(m *models.Mission) {
		kept := m.Tasks[:0]
		for _, t := range m.Tasks {
			if t.ID == tid {
				found = true
				continue
			}
			kept = append(kept, t)
		}
		m.Tasks = kept
		m.Completed = utils.IsCompleted(m.Tasks)
	})
	if !found {
		return Mutation{}, ErrNotCached
	}

	mut := ctl.track("deleteTask")
	err = ctl.api.DeleteTask(ctx, missionID, taskID)
	ctl.resolve(mut, err)
	if err != nil {
		ctl.refetch(ctx, key)
	}
	return ctl.snapshot(mut), err
}

// refetch pulls server truth back into the cache for one key. Errors are
// dropped: the stale entry stays and the next user action retries.
func (ctl *Controller) refetch(ctx context.Context, key PageKey) {
	ctl.cache.Invalidate(key)
	gen := ctl.cache.begin(key)
	page, err := ctl.api.ListMissions(ctx, key.Page, key.Size, key.SortBy, key.Direction)
	if err != nil {
		return
	}
	ctl.cache.commit(key, gen, page)
}

func (ctl *Controller) tempID() int64 {
	ctl.mu.Lock()
	defer ctl.mu.Unlock()
	id := ctl.nextTemp
	ctl.nextTemp--
	return id
}

func (ctl *Controller) track(action string) uuid.UUID {
	ctl.mu.Lock()
	defer ctl.mu.Unlock()
	id := uuid.New()
	ctl.mutations[id] = &Mutation{ID: id, Action: action, State: MutationPending}
	return id
}

func (ctl *Controller) resolve(id uuid.UUID, err error) {
	ctl.mu.Lock()
	defer ctl.mu.Unlock()
	m, ok := ctl.mutations[id]
	if !ok {
		return
	}
	if err != nil {
		m.State = MutationFailed
		m.Err = err
		return
	}
	m.State = MutationConfirmed
}

func (ctl *Controller) snapshot(id uuid.UUID) Mutation {
	ctl.mu.Lock()
	defer ctl.mu.Unlock()
	if m, ok := ctl.mutations[id]; ok {
		return *m
	}
	return Mutation{}
}

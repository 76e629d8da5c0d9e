package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sort"
	"strconv"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/command-deck/command-deck-backend/app/models"
	"github.com/command-deck/command-deck-backend/pkg/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubServer is an in-memory mission store behind the real wire contract.
type stubServer struct {
	mu         sync.Mutex
	missions   []models.Mission
	nextTaskID int64

	blockCreateTask chan struct{} // when set, POST task waits on it
	failDeleteTask  bool
	taskRequests    int32

	srv *httptest.Server
}

func newStubServer(t *testing.T) *stubServer {
	s := &stubServer{nextTaskID: 1}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/missions", s.handleList)
	mux.HandleFunc("GET /api/missions/{id}", s.handleGet)
	mux.HandleFunc("POST /api/missions/{missionId}/tasks", s.handleCreateTask)
	mux.HandleFunc("PUT /api/missions/{missionId}/tasks/{taskId}", s.handleUpdateTask)
	mux.HandleFunc("DELETE /api/missions/{missionId}/tasks/{taskId}", s.handleDeleteTask)

	s.srv = httptest.NewServer(mux)
	t.Cleanup(s.srv.Close)
	return s
}

func (s *stubServer) seed(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < n; i++ {
		s.missions = append(s.missions, models.Mission{
			ID:        int64(i + 1),
			Title:     "Mission " + strconv.Itoa(i+1),
			CreatedAt: base.Add(time.Duration(i) * time.Hour),
			Tasks:     []models.Task{},
		})
	}
}

func (s *stubServer) seedTask(missionID int64, task models.Task) models.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	task.ID = s.nextTaskID
	task.MissionID = missionID
	s.nextTaskID++
	for i := range s.missions {
		if s.missions[i].ID == missionID {
			s.missions[i].Tasks = append(s.missions[i].Tasks, task)
		}
	}
	return task
}

func (s *stubServer) handleList(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	size, _ := strconv.Atoi(r.URL.Query().Get("size"))
	if size < 1 {
		size = 10
	}

	s.mu.Lock()
	all := make([]models.Mission, len(s.missions))
	copy(all, s.missions)
	s.mu.Unlock()

	// default order: creation time descending, id as tiebreak
	sort.Slice(all, func(i, j int) bool {
		if !all[i].CreatedAt.Equal(all[j].CreatedAt) {
			return all[i].CreatedAt.After(all[j].CreatedAt)
		}
		return all[i].ID > all[j].ID
	})
	for i := range all {
		all[i].Completed = utils.IsCompleted(all[i].Tasks)
	}

	start := page * size
	end := start + size
	if start > len(all) {
		start, end = len(all), len(all)
	} else if end > len(all) {
		end = len(all)
	}
	writeJSON(w, http.StatusOK, models.NewMissionPage(all[start:end], int64(len(all)), page, size))
}

func (s *stubServer) handleGet(w http.ResponseWriter, r *http.Request) {
	id, err := utils.ParseID(r.PathValue("id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid mission id"})
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, m := range s.missions {
		if m.ID == id {
			m.Completed = utils.IsCompleted(m.Tasks)
			writeJSON(w, http.StatusOK, m)
			return
		}
	}
	writeJSON(w, http.StatusNotFound, map[string]string{"error": "Mission not found"})
}

func (s *stubServer) handleCreateTask(w http.ResponseWriter, r *http.Request) {
	atomic.AddInt32(&s.taskRequests, 1)
	if s.blockCreateTask != nil {
		<-s.blockCreateTask
	}
	missionID, err := utils.ParseID(r.PathValue("missionId"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid mission id"})
		return
	}
	var req models.CreateTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
		return
	}
	difficulty := 3
	if req.Difficulty != nil {
		difficulty = *req.Difficulty
	}
	task := s.seedTask(missionID, models.Task{Title: req.Title, Difficulty: difficulty, Completed: req.Completed})
	writeJSON(w, http.StatusCreated, task)
}

func (s *stubServer) handleUpdateTask(w http.ResponseWriter, r *http.Request) {
	atomic.AddInt32(&s.taskRequests, 1)
	missionID, _ := utils.ParseID(r.PathValue("missionId"))
	taskID, _ := utils.ParseID(r.PathValue("taskId"))
	var req models.UpdateTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.missions {
		if s.missions[i].ID != missionID {
			continue
		}
		for j := range s.missions[i].Tasks {
			if s.missions[i].Tasks[j].ID == taskID {
				req.Apply(&s.missions[i].Tasks[j])
				writeJSON(w, http.StatusOK, s.missions[i].Tasks[j])
				return
			}
		}
	}
	writeJSON(w, http.StatusNotFound, map[string]string{"error": "Task not found"})
}

func (s *stubServer) handleDeleteTask(w http.ResponseWriter, r *http.Request) {
	atomic.AddInt32(&s.taskRequests, 1)
	if s.failDeleteTask {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to delete task"})
		return
	}
	missionID, _ := utils.ParseID(r.PathValue("missionId"))
	taskID, _ := utils.ParseID(r.PathValue("taskId"))
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.missions {
		if s.missions[i].ID != missionID {
			continue
		}
		for j := range s.missions[i].Tasks {
			if s.missions[i].Tasks[j].ID == taskID {
				s.missions[i].Tasks = append(s.missions[i].Tasks[:j], s.missions[i].Tasks[j+1:]...)
				w.WriteHeader(http.StatusNoContent)
				return
			}
		}
	}
	writeJSON(w, http.StatusNotFound, map[string]string{"error": "Task not found"})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func TestLoadPagePagination(t *testing.T) {
	s := newStubServer(t)
	s.seed(25)
	ctl := NewController(New(s.srv.URL))
	ctl.Prefetch = false
	ctx := context.Background()

	first, err := ctl.LoadPage(ctx, DefaultPageKey(0, 9))
	require.NoError(t, err)
	assert.Equal(t, 3, first.TotalPages)
	assert.Equal(t, int64(25), first.TotalElements)
	assert.Len(t, first.Content, 9)
	assert.True(t, first.First)
	assert.False(t, first.Last)
	// newest first
	assert.Equal(t, int64(25), first.Content[0].ID)

	last, err := ctl.LoadPage(ctx, DefaultPageKey(2, 9))
	require.NoError(t, err)
	assert.Len(t, last.Content, 7)
	assert.True(t, last.Last)

	past, err := ctl.LoadPage(ctx, DefaultPageKey(5, 9))
	require.NoError(t, err)
	assert.Empty(t, past.Content)
	assert.True(t, past.Last)
	assert.True(t, past.Empty)
}

func TestGetMissionIdempotent(t *testing.T) {
	s := newStubServer(t)
	s.seed(3)
	s.seedTask(2, models.Task{Title: "Secure perimeter", Difficulty: 4})
	api := New(s.srv.URL)
	ctx := context.Background()

	a, err := api.GetMission(ctx, "2")
	require.NoError(t, err)
	b, err := api.GetMission(ctx, "2")
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestMutationRequiresInitializedCache(t *testing.T) {
	s := newStubServer(t)
	s.seed(1)
	ctl := NewController(New(s.srv.URL))

	_, err := ctl.AddTask(context.Background(), DefaultPageKey(0, 10), "1", models.CreateTaskRequest{Title: "x"})
	assert.ErrorIs(t, err, ErrCacheNotReady)
}

func TestInvalidIDFailsBeforeNetwork(t *testing.T) {
	s := newStubServer(t)
	s.seed(1)
	ctl := NewController(New(s.srv.URL))
	ctl.Prefetch = false
	ctx := context.Background()
	key := DefaultPageKey(0, 10)

	_, err := ctl.LoadPage(ctx, key)
	require.NoError(t, err)

	_, err = ctl.AddTask(ctx, key, "not-a-number", models.CreateTaskRequest{Title: "x"})
	var verr *ValidationError
	assert.ErrorAs(t, err, &verr)
	assert.Zero(t, atomic.LoadInt32(&s.taskRequests), "no request may be issued for a malformed id")
}

func TestOptimisticAddTask(t *testing.T) {
	s := newStubServer(t)
	s.seed(1)
	release := make(chan struct{})
	s.blockCreateTask = release

	ctl := NewController(New(s.srv.URL))
	ctl.Prefetch = false
	ctx := context.Background()
	key := DefaultPageKey(0, 10)

	_, err := ctl.LoadPage(ctx, key)
	require.NoError(t, err)

	done := make(chan Mutation, 1)
	go func() {
		mut, _ := ctl.AddTask(ctx, key, "1", models.CreateTaskRequest{Title: "New objective", Difficulty: intPtr(2)})
		done <- mut
	}()

	// the speculative task is visible before the server responds
	assert.Eventually(t, func() bool {
		page, ok := ctl.Cache().Get(key)
		return ok && len(page.Content) == 1 && len(page.Content[0].Tasks) == 1 && page.Content[0].Tasks[0].ID < 0
	}, time.Second, 5*time.Millisecond)

	close(release)
	mut := <-done
	assert.Equal(t, MutationConfirmed, mut.State)

	// reconciliation replaced the temp id with the server id, no duplicates
	page, ok := ctl.Cache().Get(key)
	require.True(t, ok)
	require.Len(t, page.Content[0].Tasks, 1)
	assert.Positive(t, page.Content[0].Tasks[0].ID)
	assert.Equal(t, "New objective", page.Content[0].Tasks[0].Title)
}

func TestDeleteTaskRollbackOnFailure(t *testing.T) {
	s := newStubServer(t)
	s.seed(1)
	task := s.seedTask(1, models.Task{Title: "Secure perimeter", Difficulty: 3})
	s.failDeleteTask = true

	ctl := NewController(New(s.srv.URL))
	ctl.Prefetch = false
	ctx := context.Background()
	key := DefaultPageKey(0, 10)

	_, err := ctl.LoadPage(ctx, key)
	require.NoError(t, err)

	mut, err := ctl.DeleteTask(ctx, key, "1", strconv.FormatInt(task.ID, 10))
	var serr *ServerError
	assert.ErrorAs(t, err, &serr)
	assert.Equal(t, MutationFailed, mut.State)

	// the refetch restored the task the optimistic removal dropped
	page, ok := ctl.Cache().Get(key)
	require.True(t, ok)
	require.Len(t, page.Content[0].Tasks, 1)
	assert.Equal(t, task.ID, page.Content[0].Tasks[0].ID)
}

func TestToggleTask(t *testing.T) {
	s := newStubServer(t)
	s.seed(1)
	task := s.seedTask(1, models.Task{Title: "Secure perimeter", Difficulty: 3})

	ctl := NewController(New(s.srv.URL))
	ctl.Prefetch = false
	ctx := context.Background()
	key := DefaultPageKey(0, 10)

	_, err := ctl.LoadPage(ctx, key)
	require.NoError(t, err)

	mut, err := ctl.ToggleTask(ctx, key, "1", strconv.FormatInt(task.ID, 10))
	require.NoError(t, err)
	assert.Equal(t, MutationConfirmed, mut.State)

	// the cached mission reflects the flip, including the derived flag
	page, _ := ctl.Cache().Get(key)
	assert.True(t, page.Content[0].Tasks[0].Completed)
	assert.True(t, page.Content[0].Completed)

	// server truth agrees
	fresh, err := New(s.srv.URL).GetMission(ctx, "1")
	require.NoError(t, err)
	assert.True(t, fresh.Tasks[0].Completed)
	assert.True(t, fresh.Completed)
}

func TestSetDifficultyOutOfRange(t *testing.T) {
	s := newStubServer(t)
	s.seed(1)
	task := s.seedTask(1, models.Task{Title: "Secure perimeter", Difficulty: 3})

	ctl := NewController(New(s.srv.URL))
	ctl.Prefetch = false
	ctx := context.Background()
	key := DefaultPageKey(0, 10)

	_, err := ctl.LoadPage(ctx, key)
	require.NoError(t, err)
	before := atomic.LoadInt32(&s.taskRequests)

	_, err = ctl.SetDifficulty(ctx, key, "1", strconv.FormatInt(task.ID, 10), 7)
	var verr *ValidationError
	assert.ErrorAs(t, err, &verr)
	assert.Equal(t, before, atomic.LoadInt32(&s.taskRequests))
}

func TestPrefetchNextPage(t *testing.T) {
	s := newStubServer(t)
	s.seed(25)
	ctl := NewController(New(s.srv.URL))
	ctx := context.Background()

	_, err := ctl.LoadPage(ctx, DefaultPageKey(0, 9))
	require.NoError(t, err)

	assert.Eventually(t, func() bool {
		_, ok := ctl.Cache().Get(DefaultPageKey(1, 9))
		return ok
	}, time.Second, 5*time.Millisecond)
}

func TestMutationOutsideCachedPage(t *testing.T) {
	s := newStubServer(t)
	s.seed(2)
	ctl := NewController(New(s.srv.URL))
	ctl.Prefetch = false
	ctx := context.Background()
	key := DefaultPageKey(0, 1) // only the newest mission is cached

	_, err := ctl.LoadPage(ctx, key)
	require.NoError(t, err)

	_, err = ctl.AddTask(ctx, key, "1", models.CreateTaskRequest{Title: "x"})
	assert.ErrorIs(t, err, ErrNotCached)

	// the cached page is untouched
	page, _ := ctl.Cache().Get(key)
	require.Len(t, page.Content, 1)
	assert.Empty(t, page.Content[0].Tasks)
}

func intPtr(i int) *int { return &i }

package queries

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/command-deck/command-deck-backend/app/models"
	"github.com/command-deck/command-deck-backend/pkg/utils"
)

var (
	ErrMissionNotFound = errors.New("mission not found")
	ErrTaskNotFound    = errors.New("task not found")
)

// sortColumns whitelists the sortable mission fields. Queries always break
// ties by id so repeated reads are stable.
var sortColumns = map[string]string{
	"createdAt": "created_at",
	"title":     "title",
	"id":        "id",
}

func SortableColumn(sortBy string) (string, bool) {
	col, ok := sortColumns[sortBy]
	return col, ok
}

type MissionQueries struct {
	DB *sql.DB
}

func (q *MissionQueries) CountMissions() (int64, error) {
	var total int64
	if err := q.DB.QueryRow(`SELECT count(*) FROM missions`).Scan(&total); err != nil {
		return 0, errors.New("unable to count missions")
	}
	return total, nil
}

// ListMissions returns one page of missions with their tasks loaded and the
// completed flag recomputed.
func (q *MissionQueries) ListMissions(page, size int, sortBy, direction string) ([]models.Mission, error) {
	col, ok := sortColumns[sortBy]
	if !ok {
		col = "created_at"
	}
	dir := "DESC"
	if direction == "asc" {
		dir = "ASC"
	}

	query := fmt.Sprintf(
		`SELECT id, operation_id, title, description, created_at FROM missions ORDER BY %s %s, id %s LIMIT $1 OFFSET $2`,
		col, dir, dir)
	rows, err := q.DB.Query(query, size, page*size)
	if err != nil {
		return nil, errors.New("unable to query missions")
	}
	defer rows.Close()

	missions := []models.Mission{}
	for rows.Next() {
		var m models.Mission
		if err := rows.Scan(&m.ID, &m.OperationID, &m.Title, &m.Description, &m.CreatedAt); err != nil {
			return nil, err
		}
		missions = append(missions, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range missions {
		tasks, err := q.GetTasksByMission(missions[i].ID)
		if err != nil {
			return nil, err
		}
		missions[i].Tasks = tasks
		missions[i].Completed = utils.IsCompleted(tasks)
	}
	return missions, nil
}

// ListAllMissions loads the whole collection, used for the summary endpoint.
func (q *MissionQueries) ListAllMissions() ([]models.Mission, error) {
	rows, err := q.DB.Query(`SELECT id, operation_id, title, description, created_at FROM missions ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, errors.New("unable to query missions")
	}
	defer rows.Close()

	missions := []models.Mission{}
	for rows.Next() {
		var m models.Mission
		if err := rows.Scan(&m.ID, &m.OperationID, &m.Title, &m.Description, &m.CreatedAt); err != nil {
			return nil, err
		}
		missions = append(missions, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range missions {
		tasks, err := q.GetTasksByMission(missions[i].ID)
		if err != nil {
			return nil, err
		}
		missions[i].Tasks = tasks
		missions[i].Completed = utils.IsCompleted(tasks)
	}
	return missions, nil
}

func (q *MissionQueries) GetMissionsByOperation(operationID int64) ([]models.Mission, error) {
	rows, err := q.DB.Query(
		`SELECT id, operation_id, title, description, created_at FROM missions WHERE operation_id = $1 ORDER BY created_at DESC, id DESC`,
		operationID)
	if err != nil {
		return nil, errors.New("unable to query missions")
	}
	defer rows.Close()

	missions := []models.Mission{}
	for rows.Next() {
		var m models.Mission
		if err := rows.Scan(&m.ID, &m.OperationID, &m.Title, &m.Description, &m.CreatedAt); err != nil {
			return nil, err
		}
		missions = append(missions, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range missions {
		tasks, err := q.GetTasksByMission(missions[i].ID)
		if err != nil {
			return nil, err
		}
		missions[i].Tasks = tasks
		missions[i].Completed = utils.IsCompleted(tasks)
	}
	return missions, nil
}

func (q *MissionQueries) GetMissionByID(id int64) (models.Mission, error) {
	m := models.Mission{}
	err := q.DB.QueryRow(
		`SELECT id, operation_id, title, description, created_at FROM missions WHERE id = $1`, id).
		Scan(&m.ID, &m.OperationID, &m.Title, &m.Description, &m.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return m, ErrMissionNotFound
		}
		return m, errors.New("unable to get mission")
	}

	tasks, err := q.GetTasksByMission(m.ID)
	if err != nil {
		return m, err
	}
	m.Tasks = tasks
	m.Completed = utils.IsCompleted(tasks)
	return m, nil
}

func (q *MissionQueries) InsertMission(m *models.Mission) error {
	err := q.DB.QueryRow(
		`INSERT INTO missions (operation_id, title, description, created_at) VALUES ($1, $2, $3, $4) RETURNING id`,
		m.OperationID, m.Title, m.Description, m.CreatedAt).Scan(&m.ID)
	if err != nil {
		return errors.New("unable to create mission, DB error")
	}
	return nil
}

func (q *MissionQueries) UpdateMission(m *models.Mission) error {
	res, err := q.DB.Exec(
		`UPDATE missions SET title = $1, description = $2 WHERE id = $3`,
		m.Title, m.Description, m.ID)
	if err != nil {
		return errors.New("unable to update mission, DB error")
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrMissionNotFound
	}
	return nil
}

// DeleteMission removes a mission; its tasks go with it via the FK cascade.
func (q *MissionQueries) DeleteMission(id int64) error {
	res, err := q.DB.Exec(`DELETE FROM missions WHERE id = $1`, id)
	if err != nil {
		return errors.New("unable to delete mission, DB error")
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrMissionNotFound
	}
	return nil
}

func (q *MissionQueries) MissionExists(id int64) (bool, error) {
	var exists bool
	err := q.DB.QueryRow(`SELECT EXISTS(SELECT 1 FROM missions WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		return false, errors.New("unable to check mission existence")
	}
	return exists, nil
}

func (q *MissionQueries) GetTasksByMission(missionID int64) ([]models.Task, error) {
	tasks := []models.Task{}
	rows, err := q.DB.Query(
		`SELECT id, mission_id, title, difficulty, completed FROM tasks WHERE mission_id = $1 ORDER BY id`,
		missionID)
	if err != nil {
		return tasks, errors.New("unable to query tasks")
	}
	defer rows.Close()
	for rows.Next() {
		var t models.Task
		if err := rows.Scan(&t.ID, &t.MissionID, &t.Title, &t.Difficulty, &t.Completed); err != nil {
			return tasks, err
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

func (q *MissionQueries) GetTaskByID(missionID, taskID int64) (models.Task, error) {
	t := models.Task{}
	err := q.DB.QueryRow(
		`SELECT id, mission_id, title, difficulty, completed FROM tasks WHERE id = $1 AND mission_id = $2`,
		taskID, missionID).Scan(&t.ID, &t.MissionID, &t.Title, &t.Difficulty, &t.Completed)
	if err != nil {
		if err == sql.ErrNoRows {
			return t, ErrTaskNotFound
		}
		return t, errors.New("unable to get task")
	}
	return t, nil
}

func (q *MissionQueries) InsertTask(t *models.Task) error {
	err := q.DB.QueryRow(
		`INSERT INTO tasks (mission_id, title, difficulty, completed) VALUES ($1, $2, $3, $4) RETURNING id`,
		t.MissionID, t.Title, t.Difficulty, t.Completed).Scan(&t.ID)
	if err != nil {
		return errors.New("unable to create task, DB error")
	}
	return nil
}

func (q *MissionQueries) UpdateTask(t *models.Task) error {
	res, err := q.DB.Exec(
		`UPDATE tasks SET title = $1, difficulty = $2, completed = $3 WHERE id = $4 AND mission_id = $5`,
		t.Title, t.Difficulty, t.Completed, t.ID, t.MissionID)
	if err != nil {
		return errors.New("unable to update task, DB error")
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrTaskNotFound
	}
	return nil
}

func (q *MissionQueries) DeleteTask(missionID, taskID int64) error {
	res, err := q.DB.Exec(`DELETE FROM tasks WHERE id = $1 AND mission_id = $2`, taskID, missionID)
	if err != nil {
		return errors.New("unable to delete task, DB error")
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrTaskNotFound
	}
	return nil
}

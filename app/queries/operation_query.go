package queries

import (
	"database/sql"
	"errors"

	"github.com/command-deck/command-deck-backend/app/models"
)

var ErrOperationNotFound = errors.New("operation not found")

type OperationQueries struct {
	DB *sql.DB
}

func (q *OperationQueries) ListOperations() ([]models.Operation, error) {
	rows, err := q.DB.Query(
		`SELECT id, name, description, start_date, end_date, status FROM operations ORDER BY start_date DESC, id DESC`)
	if err != nil {
		return nil, errors.New("unable to query operations")
	}
	defer rows.Close()

	ops := []models.Operation{}
	for rows.Next() {
		var o models.Operation
		if err := rows.Scan(&o.ID, &o.Name, &o.Description, &o.StartDate, &o.EndDate, &o.Status); err != nil {
			return nil, err
		}
		ops = append(ops, o)
	}
	return ops, rows.Err()
}

func (q *OperationQueries) GetOperationByID(id int64) (models.Operation, error) {
	o := models.Operation{}
	err := q.DB.QueryRow(
		`SELECT id, name, description, start_date, end_date, status FROM operations WHERE id = $1`, id).
		Scan(&o.ID, &o.Name, &o.Description, &o.StartDate, &o.EndDate, &o.Status)
	if err != nil {
		if err == sql.ErrNoRows {
			return o, ErrOperationNotFound
		}
		return o, errors.New("unable to get operation")
	}
	return o, nil
}

func (q *OperationQueries) InsertOperation(o *models.Operation) error {
	err := q.DB.QueryRow(
		`INSERT INTO operations (name, description, start_date, status) VALUES ($1, $2, $3, $4) RETURNING id`,
		o.Name, o.Description, o.StartDate, o.Status).Scan(&o.ID)
	if err != nil {
		return errors.New("unable to create operation, DB error")
	}
	return nil
}

func (q *OperationQueries) UpdateOperation(o *models.Operation) error {
	res, err := q.DB.Exec(
		`UPDATE operations SET name = $1, description = $2, status = $3, end_date = $4 WHERE id = $5`,
		o.Name, o.Description, o.Status, o.EndDate, o.ID)
	if err != nil {
		return errors.New("unable to update operation, DB error")
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrOperationNotFound
	}
	return nil
}

// DeleteOperation removes an operation; missions and their tasks follow via
// the FK cascade chain.
func (q *OperationQueries) DeleteOperation(id int64) error {
	res, err := q.DB.Exec(`DELETE FROM operations WHERE id = $1`, id)
	if err != nil {
		return errors.New("unable to delete operation, DB error")
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrOperationNotFound
	}
	return nil
}

func (q *OperationQueries) OperationExists(id int64) (bool, error) {
	var exists bool
	err := q.DB.QueryRow(`SELECT EXISTS(SELECT 1 FROM operations WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		return false, errors.New("unable to check operation existence")
	}
	return exists, nil
}

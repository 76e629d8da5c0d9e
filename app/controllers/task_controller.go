package controllers

import (
	"errors"

	"github.com/command-deck/command-deck-backend/app/models"
	"github.com/command-deck/command-deck-backend/app/queries"
	"github.com/command-deck/command-deck-backend/pkg/database"
	"github.com/command-deck/command-deck-backend/pkg/utils"
	"github.com/gofiber/fiber/v2"
)

// defaultDifficulty matches the create-dialog default used when the field
// is omitted.
const defaultDifficulty = 3

func GetTasks(c *fiber.Ctx) error {
	missionID, err := utils.ParseID(c.Params("missionId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid mission id"})
	}

	mq := queries.MissionQueries{DB: database.DB}
	exists, err := mq.MissionExists(missionID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to check mission"})
	}
	if !exists {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Mission not found"})
	}

	tasks, err := mq.GetTasksByMission(missionID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to list tasks"})
	}
	return c.Status(fiber.StatusOK).JSON(tasks)
}

func CreateTask(c *fiber.Ctx) error {
	missionID, err := utils.ParseID(c.Params("missionId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid mission id"})
	}

	req := &models.CreateTaskRequest{}
	if err := c.BodyParser(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	if models.IsBlank(req.Title) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Task title must not be blank"})
	}
	if req.Difficulty != nil && !models.ValidDifficulty(*req.Difficulty) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Task difficulty must be between 1 and 5"})
	}

	mq := queries.MissionQueries{DB: database.DB}
	exists, err := mq.MissionExists(missionID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to check mission"})
	}
	if !exists {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Mission not found"})
	}

	difficulty := defaultDifficulty
	if req.Difficulty != nil {
		difficulty = *req.Difficulty
	}

	t := &models.Task{
		MissionID:  missionID,
		Title:      req.Title,
		Difficulty: difficulty,
		Completed:  req.Completed,
	}
	if err := mq.InsertTask(t); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create task"})
	}
	return c.Status(fiber.StatusCreated).JSON(t)
}

func UpdateTask(c *fiber.Ctx) error {
	missionID, err := utils.ParseID(c.Params("missionId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid mission id"})
	}
	taskID, err := utils.ParseID(c.Params("taskId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid task id"})
	}

	req := &models.UpdateTaskRequest{}
	if err := c.BodyParser(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if !req.HasFields() {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Patch contains no recognized fields"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	if req.Title != nil && models.IsBlank(*req.Title) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Task title must not be blank"})
	}
	if req.Difficulty != nil && !models.ValidDifficulty(*req.Difficulty) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Task difficulty must be between 1 and 5"})
	}

	mq := queries.MissionQueries{DB: database.DB}
	task, err := mq.GetTaskByID(missionID, taskID)
	if err != nil {
		if errors.Is(err, queries.ErrTaskNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Task not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to get task"})
	}

	req.Apply(&task)
	if err := mq.UpdateTask(&task); err != nil {
		if errors.Is(err, queries.ErrTaskNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Task not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update task"})
	}
	return c.Status(fiber.StatusOK).JSON(task)
}

func DeleteTask(c *fiber.Ctx) error {
	missionID, err := utils.ParseID(c.Params("missionId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid mission id"})
	}
	taskID, err := utils.ParseID(c.Params("taskId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid task id"})
	}

	mq := queries.MissionQueries{DB: database.DB}
	if err := mq.DeleteTask(missionID, taskID); err != nil {
		if errors.Is(err, queries.ErrTaskNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Task not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to delete task"})
	}
	return c.SendStatus(fiber.StatusNoContent)
}

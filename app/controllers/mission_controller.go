package controllers

import (
	"errors"
	"strings"
	"time"

	"github.com/command-deck/command-deck-backend/app/models"
	"github.com/command-deck/command-deck-backend/app/queries"
	"github.com/command-deck/command-deck-backend/pkg/database"
	"github.com/command-deck/command-deck-backend/pkg/utils"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var validate = validator.New()

// GetMissions serves one page of the mission collection. Defaults: page 0,
// size 10, newest first.
func GetMissions(c *fiber.Ctx) error {
	page := c.QueryInt("page", 0)
	if page < 0 {
		page = 0
	}
	size := c.QueryInt("size", 10)
	if size < 1 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "size must be at least 1"})
	}
	sortBy := c.Query("sortBy", "createdAt")
	if _, ok := queries.SortableColumn(sortBy); !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "unsupported sortBy field"})
	}
	direction := strings.ToLower(c.Query("direction", "desc"))
	if direction != "asc" && direction != "desc" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "direction must be asc or desc"})
	}

	mq := queries.MissionQueries{DB: database.DB}
	total, err := mq.CountMissions()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to count missions"})
	}
	missions, err := mq.ListMissions(page, size, sortBy, direction)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to list missions"})
	}

	return c.Status(fiber.StatusOK).JSON(models.NewMissionPage(missions, total, page, size))
}

func GetMissionSummary(c *fiber.Ctx) error {
	mq := queries.MissionQueries{DB: database.DB}
	missions, err := mq.ListAllMissions()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to list missions"})
	}
	return c.Status(fiber.StatusOK).JSON(utils.Aggregate(missions))
}

func GetMission(c *fiber.Ctx) error {
	id, err := utils.ParseID(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid mission id"})
	}

	mq := queries.MissionQueries{DB: database.DB}
	mission, err := mq.GetMissionByID(id)
	if err != nil {
		if errors.Is(err, queries.ErrMissionNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Mission not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to get mission"})
	}
	return c.Status(fiber.StatusOK).JSON(mission)
}

func CreateMission(c *fiber.Ctx) error {
	return createMission(c, nil)
}

// CreateMissionForOperation attaches the new mission to an existing
// operation, mirroring the /missions/operation/:operationId route variant.
func CreateMissionForOperation(c *fiber.Ctx) error {
	operationID, err := utils.ParseID(c.Params("operationId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid operation id"})
	}

	oq := queries.OperationQueries{DB: database.DB}
	exists, err := oq.OperationExists(operationID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to check operation"})
	}
	if !exists {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Operation not found"})
	}
	return createMission(c, &operationID)
}

func createMission(c *fiber.Ctx, operationID *int64) error {
	req := &models.CreateMissionRequest{}
	if err := c.BodyParser(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	if models.IsBlank(req.Title) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Mission title must not be blank"})
	}

	m := &models.Mission{
		Title:       req.Title,
		Description: req.Description,
		CreatedAt:   time.Now().UTC(),
		Tasks:       []models.Task{},
		OperationID: operationID,
	}

	mq := queries.MissionQueries{DB: database.DB}
	if err := mq.InsertMission(m); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create mission"})
	}
	return c.Status(fiber.StatusCreated).JSON(m)
}

func UpdateMission(c *fiber.Ctx) error {
	id, err := utils.ParseID(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid mission id"})
	}

	req := &models.UpdateMissionRequest{}
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
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Mission title must not be blank"})
	}

	mq := queries.MissionQueries{DB: database.DB}
	mission, err := mq.GetMissionByID(id)
	if err != nil {
		if errors.Is(err, queries.ErrMissionNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Mission not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to get mission"})
	}

	req.Apply(&mission)
	if err := mq.UpdateMission(&mission); err != nil {
		if errors.Is(err, queries.ErrMissionNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Mission not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update mission"})
	}
	return c.Status(fiber.StatusOK).JSON(mission)
}

func DeleteMission(c *fiber.Ctx) error {
	id, err := utils.ParseID(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid mission id"})
	}

	mq := queries.MissionQueries{DB: database.DB}
	if err := mq.DeleteMission(id); err != nil {
		if errors.Is(err, queries.ErrMissionNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Mission not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to delete mission"})
	}
	return c.SendStatus(fiber.StatusNoContent)
}

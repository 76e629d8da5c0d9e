package controllers

import (
	"errors"
	"time"

	"github.com/command-deck/command-deck-backend/app/models"
	"github.com/command-deck/command-deck-backend/app/queries"
	"github.com/command-deck/command-deck-backend/pkg/database"
	"github.com/command-deck/command-deck-backend/pkg/utils"
	"github.com/gofiber/fiber/v2"
)

func GetOperations(c *fiber.Ctx) error {
	oq := queries.OperationQueries{DB: database.DB}
	ops, err := oq.ListOperations()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to list operations"})
	}

	mq := queries.MissionQueries{DB: database.DB}
	for i := range ops {
		missions, err := mq.GetMissionsByOperation(ops[i].ID)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to list missions"})
		}
		ops[i].Missions = missions
	}
	return c.Status(fiber.StatusOK).JSON(ops)
}

func GetOperation(c *fiber.Ctx) error {
	id, err := utils.ParseID(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid operation id"})
	}

	oq := queries.OperationQueries{DB: database.DB}
	op, err := oq.GetOperationByID(id)
	if err != nil {
		if errors.Is(err, queries.ErrOperationNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Operation not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to get operation"})
	}

	mq := queries.MissionQueries{DB: database.DB}
	missions, err := mq.GetMissionsByOperation(op.ID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to list missions"})
	}
	op.Missions = missions
	return c.Status(fiber.StatusOK).JSON(op)
}

func CreateOperation(c *fiber.Ctx) error {
	req := &models.CreateOperationRequest{}
	if err := c.BodyParser(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	if models.IsBlank(req.Name) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Operation name must not be blank"})
	}

	o := &models.Operation{
		Name:        req.Name,
		Description: req.Description,
		StartDate:   time.Now().UTC(),
		Status:      models.OperationStatusActive,
		Missions:    []models.Mission{},
	}

	oq := queries.OperationQueries{DB: database.DB}
	if err := oq.InsertOperation(o); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create operation"})
	}
	return c.Status(fiber.StatusCreated).JSON(o)
}

func UpdateOperation(c *fiber.Ctx) error {
	id, err := utils.ParseID(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid operation id"})
	}

	req := &models.UpdateOperationRequest{}
	if err := c.BodyParser(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if !req.HasFields() {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Patch contains no recognized fields"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	if req.Name != nil && models.IsBlank(*req.Name) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Operation name must not be blank"})
	}

	oq := queries.OperationQueries{DB: database.DB}
	op, err := oq.GetOperationByID(id)
	if err != nil {
		if errors.Is(err, queries.ErrOperationNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Operation not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to get operation"})
	}

	req.Apply(&op)
	if err := oq.UpdateOperation(&op); err != nil {
		if errors.Is(err, queries.ErrOperationNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Operation not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update operation"})
	}
	return c.Status(fiber.StatusOK).JSON(op)
}

func DeleteOperation(c *fiber.Ctx) error {
	id, err := utils.ParseID(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid operation id"})
	}

	oq := queries.OperationQueries{DB: database.DB}
	if err := oq.DeleteOperation(id); err != nil {
		if errors.Is(err, queries.ErrOperationNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Operation not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to delete operation"})
	}
	return c.SendStatus(fiber.StatusNoContent)
}

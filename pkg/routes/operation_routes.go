package routes

import (
	"github.com/command-deck/command-deck-backend/app/controllers"
	"github.com/gofiber/fiber/v2"
)

func RegisterOperationRoutes(app *fiber.App) {
	ops := app.Group("/api/operations")

	ops.Get("/", controllers.GetOperations)
	ops.Post("/", controllers.CreateOperation)
	ops.Get("/:id", controllers.GetOperation)
	ops.Put("/:id", controllers.UpdateOperation)
	ops.Delete("/:id", controllers.DeleteOperation)
}

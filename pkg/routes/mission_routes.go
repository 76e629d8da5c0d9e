package routes

import (
	"github.com/command-deck/command-deck-backend/app/controllers"
	"github.com/gofiber/fiber/v2"
)

func RegisterMissionRoutes(app *fiber.App) {
	missions := app.Group("/api/missions")

	// /summary must be registered before /:id.
	missions.Get("/summary", controllers.GetMissionSummary)
	missions.Get("/", controllers.GetMissions)
	missions.Post("/", controllers.CreateMission)
	missions.Post("/operation/:operationId", controllers.CreateMissionForOperation)
	missions.Get("/:id", controllers.GetMission)
	missions.Put("/:id", controllers.UpdateMission)
	missions.Delete("/:id", controllers.DeleteMission)

	missions.Get("/:missionId/tasks", controllers.GetTasks)
	missions.Post("/:missionId/tasks", controllers.CreateTask)
	missions.Put("/:missionId/tasks/:taskId", controllers.UpdateTask)
	missions.Delete("/:missionId/tasks/:taskId", controllers.DeleteTask)
}

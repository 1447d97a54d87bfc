package handler

import "github.com/gin-gonic/gin"

// Handlers groups every endpoint handler for route registration.
type Handlers struct {
	Schedules    *ScheduleHandler
	Availability *AvailabilityHandler
	Calendars    *CalendarHandler
	Courses      *CourseHandler
	Units        *CurricularUnitHandler
	Rooms        *RoomHandler
	Shifts       *ShiftHandler
	Instructors  *InstructorHandler
	Reports      *ReportHandler
}

// Register mounts all API routes on the given group.
func (h *Handlers) Register(api *gin.RouterGroup) {
	schedules := api.Group("/schedules")
	{
		schedules.GET("", h.Schedules.List)
		schedules.POST("", h.Schedules.Create)
		schedules.GET("/next-id", h.Schedules.NextOfferID)
		schedules.POST("/compute-end-date", h.Schedules.ComputeEndDate)
		schedules.GET("/:id", h.Schedules.Get)
		schedules.PUT("/:id", h.Schedules.Update)
		schedules.PUT("/:id/chronogram", h.Schedules.UpdateChronogram)
		schedules.DELETE("/:id", h.Schedules.Delete)
	}

	availability := api.Group("/availability")
	{
		availability.GET("", h.Availability.Get)
		availability.PUT("", h.Availability.Upsert)
		availability.POST("/share", h.Availability.Share)
		availability.GET("/shared/:token", h.Availability.SharedGet)
		availability.PUT("/shared/:token", h.Availability.SharedSave)
	}

	calendars := api.Group("/calendars")
	{
		calendars.GET("", h.Calendars.List)
		calendars.POST("", h.Calendars.Create)
		calendars.GET("/:id", h.Calendars.Get)
		calendars.PUT("/:id", h.Calendars.Update)
		calendars.DELETE("/:id", h.Calendars.Delete)
	}

	courses := api.Group("/courses")
	{
		courses.GET("", h.Courses.List)
		courses.POST("", h.Courses.Create)
		courses.GET("/:id", h.Courses.Get)
		courses.PUT("/:id", h.Courses.Update)
		courses.DELETE("/:id", h.Courses.Delete)
	}

	units := api.Group("/curricular-units")
	{
		units.GET("", h.Units.List)
		units.POST("", h.Units.Create)
		units.GET("/:id", h.Units.Get)
		units.PUT("/:id", h.Units.Update)
		units.DELETE("/:id", h.Units.Delete)
	}

	rooms := api.Group("/rooms")
	{
		rooms.GET("", h.Rooms.List)
		rooms.POST("", h.Rooms.Create)
		rooms.GET("/:id", h.Rooms.Get)
		rooms.PUT("/:id", h.Rooms.Update)
		rooms.DELETE("/:id", h.Rooms.Delete)
	}

	shifts := api.Group("/shifts")
	{
		shifts.GET("", h.Shifts.List)
		shifts.POST("", h.Shifts.Create)
		shifts.GET("/:id", h.Shifts.Get)
		shifts.PUT("/:id", h.Shifts.Update)
		shifts.DELETE("/:id", h.Shifts.Delete)
	}

	instructors := api.Group("/instructors")
	{
		instructors.GET("", h.Instructors.List)
		instructors.POST("", h.Instructors.Create)
		instructors.GET("/:id", h.Instructors.Get)
		instructors.PUT("/:id", h.Instructors.Update)
		instructors.DELETE("/:id", h.Instructors.Delete)
	}

	if h.Reports != nil {
		reports := api.Group("/reports")
		reports.GET("/programming", h.Reports.Programming)
		reports.GET("/room-occupancy", h.Reports.RoomOccupancy)
	}
}

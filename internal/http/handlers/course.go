package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/fitforge/fitforge-backend/internal/http/response"
	"github.com/fitforge/fitforge-backend/internal/pricing"
	"github.com/fitforge/fitforge-backend/internal/services"
)

type CourseHandler struct {
	courses services.CourseService
}

func NewCourseHandler(courses services.CourseService) *CourseHandler {
	return &CourseHandler{courses: courses}
}

// POST /courses/generate
func (ch *CourseHandler) Generate(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	var opts pricing.GeneratorOptions
	if err := c.ShouldBindJSON(&opts); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	course, err := ch.courses.GenerateCourse(c.Request.Context(), userID, opts)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"course": course})
}

// GET /courses
func (ch *CourseHandler) List(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	courses, err := ch.courses.GetUserCourses(c.Request.Context(), nil, userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"courses": courses})
}

// GET /courses/:id
func (ch *CourseHandler) Get(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	courseID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	course, err := ch.courses.GetCourse(c.Request.Context(), nil, userID, courseID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"course": course})
}

// POST /courses/:id/regenerate-day
func (ch *CourseHandler) RegenerateDay(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	courseID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	var req struct {
		Week int `json:"week"`
		Day  int `json:"day"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	course, err := ch.courses.RegenerateDay(c.Request.Context(), userID, courseID, req.Week, req.Day)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"course": course})
}

// POST /courses/:id/regenerate-week
func (ch *CourseHandler) RegenerateWeek(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	courseID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	var req struct {
		Week int `json:"week"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	course, err := ch.courses.RegenerateWeek(c.Request.Context(), userID, courseID, req.Week)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"course": course})
}

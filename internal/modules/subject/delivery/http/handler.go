package handler

import (
	"net/http"

	subject "gator.dev/studygator/internal/modules/subject/service"
	"gator.dev/studygator/pkg/response"
	"github.com/gin-gonic/gin"
)

type SubjectHandler struct {
	service subject.SubjectService
}

func NewSubjectHandler(service subject.SubjectService) *SubjectHandler {
	return &SubjectHandler{service: service}
}

func (h *SubjectHandler) GetAllSubjects(c *gin.Context) {
	subjects, err := h.service.GetAllSubjects(c.Request.Context())
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, subjects)
}

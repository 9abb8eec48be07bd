package handlers

import (
	"net/http"

	serviceRepo "sudzy/database/repository/service"
	"sudzy/utils"

	"github.com/gin-gonic/gin"
)

// ServiceHandler exposes the wash catalog.
type ServiceHandler struct {
	Repo serviceRepo.ServiceRepository
}

func NewServiceHandler(repo serviceRepo.ServiceRepository) *ServiceHandler {
	return &ServiceHandler{Repo: repo}
}

// ListServices returns the active catalog in display order.
func (h *ServiceHandler) ListServices(c *gin.Context) {
	services, err := h.Repo.ListActive()
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "failed to fetch services", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"services": services})
}

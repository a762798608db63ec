package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nexla-ia/plataforma-conversa-sub000/internal/directory"
	"github.com/nexla-ia/plataforma-conversa-sub000/internal/session"
)

type departmentRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type sectorRequest struct {
	Name         string  `json:"name"`
	DepartmentID *string `json:"department_id"`
}

type tagRequest struct {
	Name  string `json:"name"`
	Color string `json:"color"`
}

func (h *Handler) bind(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": h.text(c, "error.invalid_request")})
		return false
	}
	return true
}

func (h *Handler) CreateDepartment(c *gin.Context) {
	actor, _ := session.ActorFrom(c)
	var req departmentRequest
	if !h.bind(c, &req) {
		return
	}
	dep, err := h.Directory.CreateDepartment(c.Request.Context(), actor, req.Name, req.Description)
	if err != nil {
		h.fail(c, err, "error.internal")
		return
	}
	c.JSON(http.StatusCreated, dep)
}

func (h *Handler) DeleteDepartment(c *gin.Context) {
	actor, _ := session.ActorFrom(c)
	if err := h.Directory.DeleteDepartment(c.Request.Context(), actor, c.Param("id")); err != nil {
		h.fail(c, err, "error.internal")
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) CreateSector(c *gin.Context) {
	actor, _ := session.ActorFrom(c)
	var req sectorRequest
	if !h.bind(c, &req) {
		return
	}
	sec, err := h.Directory.CreateSector(c.Request.Context(), actor, req.Name, req.DepartmentID)
	if err != nil {
		h.fail(c, err, "error.internal")
		return
	}
	c.JSON(http.StatusCreated, sec)
}

func (h *Handler) DeleteSector(c *gin.Context) {
	actor, _ := session.ActorFrom(c)
	if err := h.Directory.DeleteSector(c.Request.Context(), actor, c.Param("id")); err != nil {
		h.fail(c, err, "error.internal")
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) CreateTag(c *gin.Context) {
	actor, _ := session.ActorFrom(c)
	var req tagRequest
	if !h.bind(c, &req) {
		return
	}
	tag, err := h.Directory.CreateTag(c.Request.Context(), actor, req.Name, req.Color)
	if err != nil {
		h.fail(c, err, "error.internal")
		return
	}
	c.JSON(http.StatusCreated, tag)
}

func (h *Handler) DeleteTag(c *gin.Context) {
	actor, _ := session.ActorFrom(c)
	if err := h.Directory.DeleteTag(c.Request.Context(), actor, c.Param("id")); err != nil {
		h.fail(c, err, "error.internal")
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) ListCompanies(c *gin.Context) {
	actor, _ := session.ActorFrom(c)
	companies, err := h.Directory.ListCompanies(c.Request.Context(), actor)
	if err != nil {
		h.fail(c, err, "error.internal")
		return
	}
	c.JSON(http.StatusOK, companies)
}

func (h *Handler) CreateCompany(c *gin.Context) {
	actor, _ := session.ActorFrom(c)
	var req directory.CompanyInput
	if !h.bind(c, &req) {
		return
	}
	company, err := h.Directory.CreateCompany(c.Request.Context(), actor, req)
	if err != nil {
		h.fail(c, err, "error.internal")
		return
	}
	c.JSON(http.StatusCreated, company)
}

func (h *Handler) UpdateCompany(c *gin.Context) {
	actor, _ := session.ActorFrom(c)
	var req directory.CompanyUpdate
	if !h.bind(c, &req) {
		return
	}
	company, err := h.Directory.UpdateCompany(c.Request.Context(), actor, c.Param("id"), req)
	if err != nil {
		h.fail(c, err, "error.internal")
		return
	}
	c.JSON(http.StatusOK, company)
}

func (h *Handler) CreateAttendant(c *gin.Context) {
	actor, _ := session.ActorFrom(c)
	var req directory.AttendantInput
	if !h.bind(c, &req) {
		return
	}
	attendant, err := h.Directory.CreateAttendant(c.Request.Context(), actor, c.Param("id"), req)
	if err != nil {
		h.fail(c, err, "error.internal")
		return
	}
	c.JSON(http.StatusCreated, attendant)
}

package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	projectdomain "github.com/tracera/tracera/internal/project/domain"
)

type createProjectRequest struct {
	ShortName   string `json:"short_name"`
	FullName    string `json:"full_name"`
	Description string `json:"description"`
}

type updateProjectRequest struct {
	ShortName   string `json:"short_name"`
	FullName    string `json:"full_name"`
	Description string `json:"description"`
	Active      *bool  `json:"active"`
}

func (s *Server) CreateProject(c *gin.Context) {
	var req createProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.projectSvc.Create(c.Request.Context(), projectdomain.CreateProjectRequest{
		ActorID:     actorID(c),
		ShortName:   strings.TrimSpace(req.ShortName),
		FullName:    strings.TrimSpace(req.FullName),
		Description: req.Description,
	})
	s.recordWrite("project", err)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": resp})
}

func (s *Server) GetProjectByID(c *gin.Context) {
	id, err := parsePathID(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	asOf, err := parseAsOf(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	resp, err := s.projectSvc.GetByID(c.Request.Context(), projectdomain.GetProjectRequest{ID: id, AsOf: asOf})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) FindProject(c *gin.Context) {
	req, err := projectFindRequest(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	resp, err := s.projectSvc.GetByUniqueAttribute(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListProjects(c *gin.Context) {
	selection, err := parseSelection(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	asOf, err := parseAsOf(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	if strings.TrimSpace(c.Query("attribute")) != "" {
		req, err := projectFindRequest(c)
		if err != nil {
			AbortWithError(c, err)
			return
		}
		resp, err := s.projectSvc.ListByAttribute(c.Request.Context(), req)
		if err != nil {
			AbortWithError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"data": resp})
		return
	}

	ids, err := s.projectSvc.ListIDs(c.Request.Context(), projectdomain.ListProjectIDsRequest{
		Selection: selection,
		AsOf:      asOf,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": ids})
}

func (s *Server) UpdateProject(c *gin.Context) {
	id, err := parsePathID(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	var req updateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	active := true
	if req.Active != nil {
		active = *req.Active
	}

	resp, err := s.projectSvc.Update(c.Request.Context(), projectdomain.UpdateProjectRequest{
		ActorID:     actorID(c),
		ID:          id,
		ShortName:   strings.TrimSpace(req.ShortName),
		FullName:    strings.TrimSpace(req.FullName),
		Description: req.Description,
		Active:      active,
	})
	s.recordWrite("project", err)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ActivateProject(c *gin.Context) {
	id, err := parsePathID(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	resp, err := s.projectSvc.Activate(c.Request.Context(), actorID(c), id)
	s.recordWrite("project", err)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) DeactivateProject(c *gin.Context) {
	id, err := parsePathID(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	resp, err := s.projectSvc.Deactivate(c.Request.Context(), actorID(c), id)
	s.recordWrite("project", err)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func projectFindRequest(c *gin.Context) (projectdomain.FindProjectRequest, error) {
	selection, err := parseSelection(c)
	if err != nil {
		return projectdomain.FindProjectRequest{}, err
	}
	asOf, err := parseAsOf(c)
	if err != nil {
		return projectdomain.FindProjectRequest{}, err
	}
	attribute := strings.TrimSpace(c.Query("attribute"))
	if attribute == "" {
		return projectdomain.FindProjectRequest{}, newValidationError("attribute", "missing_attribute", "attribute is required")
	}

	return projectdomain.FindProjectRequest{
		Attribute: attribute,
		Value:     c.Query("value"),
		Selection: selection,
		AsOf:      asOf,
	}, nil
}

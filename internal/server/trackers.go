package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	trackerdomain "github.com/tracera/tracera/internal/tracker/domain"
)

type createTrackerRequest struct {
	ProjectID   int64  `json:"project_id"`
	ShortName   string `json:"short_name"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

type updateTrackerRequest struct {
	ShortName   string `json:"short_name"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Active      *bool  `json:"active"`
}

func (s *Server) CreateTracker(c *gin.Context) {
	var req createTrackerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.trackerSvc.Create(c.Request.Context(), trackerdomain.CreateTrackerRequest{
		ActorID:     actorID(c),
		ProjectID:   req.ProjectID,
		ShortName:   strings.TrimSpace(req.ShortName),
		Name:        strings.TrimSpace(req.Name),
		Description: req.Description,
	})
	s.recordWrite("tracker", err)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": resp})
}

func (s *Server) GetTrackerByID(c *gin.Context) {
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

	resp, err := s.trackerSvc.GetByID(c.Request.Context(), trackerdomain.GetTrackerRequest{ID: id, AsOf: asOf})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) FindTracker(c *gin.Context) {
	req, err := trackerFindRequest(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	resp, err := s.trackerSvc.GetByUniqueAttribute(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListTrackers(c *gin.Context) {
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
	projectID, err := parseScopeID(c, "project_id")
	if err != nil {
		AbortWithError(c, err)
		return
	}

	if strings.TrimSpace(c.Query("attribute")) != "" {
		req, err := trackerFindRequest(c)
		if err != nil {
			AbortWithError(c, err)
			return
		}
		resp, err := s.trackerSvc.ListByAttribute(c.Request.Context(), req)
		if err != nil {
			AbortWithError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"data": resp})
		return
	}

	ids, err := s.trackerSvc.ListIDs(c.Request.Context(), trackerdomain.ListTrackerIDsRequest{
		ProjectID: projectID,
		Selection: selection,
		AsOf:      asOf,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": ids})
}

func (s *Server) UpdateTracker(c *gin.Context) {
	id, err := parsePathID(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	var req updateTrackerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	active := true
	if req.Active != nil {
		active = *req.Active
	}

	resp, err := s.trackerSvc.Update(c.Request.Context(), trackerdomain.UpdateTrackerRequest{
		ActorID:     actorID(c),
		ID:          id,
		ShortName:   strings.TrimSpace(req.ShortName),
		Name:        strings.TrimSpace(req.Name),
		Description: req.Description,
		Active:      active,
	})
	s.recordWrite("tracker", err)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ActivateTracker(c *gin.Context) {
	id, err := parsePathID(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	resp, err := s.trackerSvc.Activate(c.Request.Context(), actorID(c), id)
	s.recordWrite("tracker", err)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) DeactivateTracker(c *gin.Context) {
	id, err := parsePathID(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	resp, err := s.trackerSvc.Deactivate(c.Request.Context(), actorID(c), id)
	s.recordWrite("tracker", err)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func trackerFindRequest(c *gin.Context) (trackerdomain.FindTrackerRequest, error) {
	selection, err := parseSelection(c)
	if err != nil {
		return trackerdomain.FindTrackerRequest{}, err
	}
	asOf, err := parseAsOf(c)
	if err != nil {
		return trackerdomain.FindTrackerRequest{}, err
	}
	projectID, err := parseScopeID(c, "project_id")
	if err != nil {
		return trackerdomain.FindTrackerRequest{}, err
	}
	attribute := strings.TrimSpace(c.Query("attribute"))
	if attribute == "" {
		return trackerdomain.FindTrackerRequest{}, newValidationError("attribute", "missing_attribute", "attribute is required")
	}

	return trackerdomain.FindTrackerRequest{
		Attribute: attribute,
		Value:     c.Query("value"),
		ProjectID: projectID,
		Selection: selection,
		AsOf:      asOf,
	}, nil
}

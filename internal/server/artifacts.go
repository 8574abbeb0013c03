package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	artifactdomain "github.com/tracera/tracera/internal/artifact/domain"
)

type createArtifactRequest struct {
	TrackerID   int64  `json:"tracker_id"`
	Summary     string `json:"summary"`
	Description string `json:"description"`
}

type updateArtifactRequest struct {
	Summary     string `json:"summary"`
	Description string `json:"description"`
	Active      *bool  `json:"active"`
}

func (s *Server) CreateArtifact(c *gin.Context) {
	var req createArtifactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.artifactSvc.Create(c.Request.Context(), artifactdomain.CreateArtifactRequest{
		ActorID:     actorID(c),
		TrackerID:   req.TrackerID,
		Summary:     strings.TrimSpace(req.Summary),
		Description: req.Description,
	})
	s.recordWrite("artifact", err)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": resp})
}

func (s *Server) GetArtifactByID(c *gin.Context) {
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

	resp, err := s.artifactSvc.GetByID(c.Request.Context(), artifactdomain.GetArtifactRequest{ID: id, AsOf: asOf})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListArtifacts(c *gin.Context) {
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
	trackerID, err := parseScopeID(c, "tracker_id")
	if err != nil {
		AbortWithError(c, err)
		return
	}

	if attribute := strings.TrimSpace(c.Query("attribute")); attribute != "" {
		resp, err := s.artifactSvc.ListByAttribute(c.Request.Context(), artifactdomain.FindArtifactRequest{
			Attribute: attribute,
			Value:     c.Query("value"),
			TrackerID: trackerID,
			Selection: selection,
			AsOf:      asOf,
		})
		if err != nil {
			AbortWithError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"data": resp})
		return
	}

	ids, err := s.artifactSvc.ListIDs(c.Request.Context(), artifactdomain.ListArtifactIDsRequest{
		TrackerID: trackerID,
		Selection: selection,
		AsOf:      asOf,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": ids})
}

func (s *Server) UpdateArtifact(c *gin.Context) {
	id, err := parsePathID(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	var req updateArtifactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	active := true
	if req.Active != nil {
		active = *req.Active
	}

	resp, err := s.artifactSvc.Update(c.Request.Context(), artifactdomain.UpdateArtifactRequest{
		ActorID:     actorID(c),
		ID:          id,
		Summary:     strings.TrimSpace(req.Summary),
		Description: req.Description,
		Active:      active,
	})
	s.recordWrite("artifact", err)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ActivateArtifact(c *gin.Context) {
	id, err := parsePathID(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	resp, err := s.artifactSvc.Activate(c.Request.Context(), actorID(c), id)
	s.recordWrite("artifact", err)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) DeactivateArtifact(c *gin.Context) {
	id, err := parsePathID(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	resp, err := s.artifactSvc.Deactivate(c.Request.Context(), actorID(c), id)
	s.recordWrite("artifact", err)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	trackerfielddomain "github.com/tracera/tracera/internal/trackerfield/domain"
	"gorm.io/datatypes"
)

type createTrackerFieldRequest struct {
	TrackerID int64             `json:"tracker_id"`
	ShortName string            `json:"short_name"`
	Label     string            `json:"label"`
	FieldType string            `json:"field_type"`
	Settings  datatypes.JSONMap `json:"settings"`
	Active    *bool             `json:"active"`
}

type updateTrackerFieldRequest struct {
	ShortName string            `json:"short_name"`
	Label     string            `json:"label"`
	FieldType string            `json:"field_type"`
	Settings  datatypes.JSONMap `json:"settings"`
	Active    *bool             `json:"active"`
}

func (s *Server) CreateTrackerField(c *gin.Context) {
	var req createTrackerFieldRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	active := true
	if req.Active != nil {
		active = *req.Active
	}

	resp, err := s.trackerFieldSvc.Create(c.Request.Context(), trackerfielddomain.CreateTrackerFieldRequest{
		ActorID:   actorID(c),
		TrackerID: req.TrackerID,
		ShortName: strings.TrimSpace(req.ShortName),
		Label:     strings.TrimSpace(req.Label),
		FieldType: trackerfielddomain.FieldType(strings.TrimSpace(req.FieldType)),
		Settings:  req.Settings,
		Active:    active,
	})
	s.recordWrite("tracker_field", err)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": resp})
}

func (s *Server) GetTrackerFieldByID(c *gin.Context) {
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

	resp, err := s.trackerFieldSvc.GetByID(c.Request.Context(), trackerfielddomain.GetTrackerFieldRequest{ID: id, AsOf: asOf})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) FindTrackerField(c *gin.Context) {
	req, err := trackerFieldFindRequest(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	resp, err := s.trackerFieldSvc.GetByUniqueAttribute(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListTrackerFields(c *gin.Context) {
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

	if strings.TrimSpace(c.Query("attribute")) != "" {
		req, err := trackerFieldFindRequest(c)
		if err != nil {
			AbortWithError(c, err)
			return
		}
		resp, err := s.trackerFieldSvc.ListByAttribute(c.Request.Context(), req)
		if err != nil {
			AbortWithError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"data": resp})
		return
	}

	ids, err := s.trackerFieldSvc.ListIDs(c.Request.Context(), trackerfielddomain.ListTrackerFieldIDsRequest{
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

func (s *Server) UpdateTrackerField(c *gin.Context) {
	id, err := parsePathID(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	var req updateTrackerFieldRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	active := true
	if req.Active != nil {
		active = *req.Active
	}

	resp, err := s.trackerFieldSvc.Update(c.Request.Context(), trackerfielddomain.UpdateTrackerFieldRequest{
		ActorID:   actorID(c),
		ID:        id,
		ShortName: strings.TrimSpace(req.ShortName),
		Label:     strings.TrimSpace(req.Label),
		FieldType: trackerfielddomain.FieldType(strings.TrimSpace(req.FieldType)),
		Settings:  req.Settings,
		Active:    active,
	})
	s.recordWrite("tracker_field", err)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ActivateTrackerField(c *gin.Context) {
	id, err := parsePathID(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	resp, err := s.trackerFieldSvc.Activate(c.Request.Context(), actorID(c), id)
	s.recordWrite("tracker_field", err)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) DeactivateTrackerField(c *gin.Context) {
	id, err := parsePathID(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	resp, err := s.trackerFieldSvc.Deactivate(c.Request.Context(), actorID(c), id)
	s.recordWrite("tracker_field", err)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func trackerFieldFindRequest(c *gin.Context) (trackerfielddomain.FindTrackerFieldRequest, error) {
	selection, err := parseSelection(c)
	if err != nil {
		return trackerfielddomain.FindTrackerFieldRequest{}, err
	}
	asOf, err := parseAsOf(c)
	if err != nil {
		return trackerfielddomain.FindTrackerFieldRequest{}, err
	}
	trackerID, err := parseScopeID(c, "tracker_id")
	if err != nil {
		return trackerfielddomain.FindTrackerFieldRequest{}, err
	}
	attribute := strings.TrimSpace(c.Query("attribute"))
	if attribute == "" {
		return trackerfielddomain.FindTrackerFieldRequest{}, newValidationError("attribute", "missing_attribute", "attribute is required")
	}

	return trackerfielddomain.FindTrackerFieldRequest{
		Attribute: attribute,
		Value:     c.Query("value"),
		TrackerID: trackerID,
		Selection: selection,
		AsOf:      asOf,
	}, nil
}

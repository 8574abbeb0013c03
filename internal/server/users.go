package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	userdomain "github.com/tracera/tracera/internal/user/domain"
)

type createUserRequest struct {
	UserName string `json:"user_name"`
	RealName string `json:"real_name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type updateUserRequest struct {
	UserName string `json:"user_name"`
	RealName string `json:"real_name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Active   *bool  `json:"active"`
}

func (s *Server) CreateUser(c *gin.Context) {
	var req createUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.userSvc.Create(c.Request.Context(), userdomain.CreateUserRequest{
		ActorID:  actorID(c),
		UserName: strings.TrimSpace(req.UserName),
		RealName: strings.TrimSpace(req.RealName),
		Email:    strings.TrimSpace(req.Email),
		Password: req.Password,
	})
	s.recordWrite("user", err)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": resp})
}

func (s *Server) GetUserByID(c *gin.Context) {
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

	resp, err := s.userSvc.GetByID(c.Request.Context(), userdomain.GetUserRequest{ID: id, AsOf: asOf})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) FindUser(c *gin.Context) {
	req, err := userFindRequest(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	resp, err := s.userSvc.GetByUniqueAttribute(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListUsers(c *gin.Context) {
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
		req, err := userFindRequest(c)
		if err != nil {
			AbortWithError(c, err)
			return
		}
		resp, err := s.userSvc.ListByAttribute(c.Request.Context(), req)
		if err != nil {
			AbortWithError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"data": resp})
		return
	}

	ids, err := s.userSvc.ListIDs(c.Request.Context(), userdomain.ListUserIDsRequest{
		Selection: selection,
		AsOf:      asOf,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": ids})
}

func (s *Server) UpdateUser(c *gin.Context) {
	id, err := parsePathID(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	var req updateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	active := true
	if req.Active != nil {
		active = *req.Active
	}

	resp, err := s.userSvc.Update(c.Request.Context(), userdomain.UpdateUserRequest{
		ActorID:  actorID(c),
		ID:       id,
		UserName: strings.TrimSpace(req.UserName),
		RealName: strings.TrimSpace(req.RealName),
		Email:    strings.TrimSpace(req.Email),
		Password: req.Password,
		Active:   active,
	})
	s.recordWrite("user", err)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ActivateUser(c *gin.Context) {
	id, err := parsePathID(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	resp, err := s.userSvc.Activate(c.Request.Context(), actorID(c), id)
	s.recordWrite("user", err)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) DeactivateUser(c *gin.Context) {
	id, err := parsePathID(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	resp, err := s.userSvc.Deactivate(c.Request.Context(), actorID(c), id)
	s.recordWrite("user", err)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func userFindRequest(c *gin.Context) (userdomain.FindUserRequest, error) {
	selection, err := parseSelection(c)
	if err != nil {
		return userdomain.FindUserRequest{}, err
	}
	asOf, err := parseAsOf(c)
	if err != nil {
		return userdomain.FindUserRequest{}, err
	}
	attribute := strings.TrimSpace(c.Query("attribute"))
	if attribute == "" {
		return userdomain.FindUserRequest{}, newValidationError("attribute", "missing_attribute", "attribute is required")
	}

	return userdomain.FindUserRequest{
		Attribute: attribute,
		Value:     c.Query("value"),
		Selection: selection,
		AsOf:      asOf,
	}, nil
}

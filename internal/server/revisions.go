package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (s *Server) GetCurrentRevision(c *gin.Context) {
	current, err := s.revisionSvc.Current(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{"revision_id": current}})
}

func (s *Server) GetRevisionByID(c *gin.Context) {
	id, err := parsePathID(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	resp, err := s.revisionSvc.GetByID(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

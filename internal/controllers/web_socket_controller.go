package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"campushub/internal/models"
	"campushub/internal/session"
)

// upgrader configures the WebSocket connection.
var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Any origin is accepted: the feed authenticates with the query token,
	// never cookies, so a foreign page has no session to ride on.
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

var errWSRole = errors.New("role may not watch the e-hailing feed")

// wsSchool decides which school's feed the caller may watch. Browsers cannot
// set headers on websocket requests, so the token comes in the query.
func (ctl *Controller) wsSchool(c *gin.Context) (*session.Claims, uint, error) {
	tokenString := c.Query("token")
	if tokenString == "" {
		return nil, 0, errors.New("missing authentication token")
	}
	claims, err := ctl.Auth.ValidateToken(tokenString)
	if err != nil {
		return nil, 0, fmt.Errorf("invalid token: %w", err)
	}

	switch claims.Role {
	case models.RoleSchoolAdmin:
		if claims.SchoolID == 0 {
			return claims, 0, errors.New("account is not attached to a school")
		}
		return claims, claims.SchoolID, nil
	case models.RoleAdmin, models.RoleCompanyAdmin:
		id, err := strconv.ParseUint(c.Query("school_id"), 10, 64)
		if err != nil || id == 0 {
			return claims, 0, errors.New("missing or invalid 'school_id' query parameter")
		}
		return claims, uint(id), nil
	}
	return claims, 0, errWSRole
}

// HandleEHailingWebSocket streams e-hailing changes of one school until the
// client disconnects. Anything the client sends is ignored.
func (ctl *Controller) HandleEHailingWebSocket(c *gin.Context) {
	claims, schoolID, err := ctl.wsSchool(c)
	if err != nil {
		status := http.StatusUnauthorized
		if claims != nil {
			status = http.StatusForbidden
			if !errors.Is(err, errWSRole) {
				status = http.StatusBadRequest
			}
		}
		logrus.WithError(err).Warn("websocket connection attempt refused")
		fail(c, status, err.Error())
		return
	}
	if ctl.Hub == nil {
		fail(c, http.StatusServiceUnavailable, "live feed is disabled")
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logrus.WithError(err).Error("failed to upgrade websocket connection")
		return
	}
	defer conn.Close()

	ctl.Hub.Register(schoolID, conn)
	defer ctl.Hub.Unregister(schoolID, conn)

	log := logrus.WithFields(logrus.Fields{
		"school_id": schoolID,
		"user_id":   claims.UserID,
		"conn_ptr":  fmt.Sprintf("%p", conn),
	})
	log.Info("e-hailing feed connected")

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Info("e-hailing feed closed")
			} else {
				log.WithError(err).Debug("e-hailing feed read ended")
			}
			return
		}
	}
}

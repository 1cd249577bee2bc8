package middleware

import (
	"crypto/subtle"
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"github.com/thirdweb-dev/blob-indexer/api"
	config "github.com/thirdweb-dev/blob-indexer/configs"
)

var ErrUnauthorized = fmt.Errorf("invalid username or password")

// Authorization enforces api.basicAuth when it is configured and lets every request
// through otherwise.
func Authorization(c *gin.Context) {
	auth := config.Cfg.API.BasicAuth
	if auth == nil || auth.Username == "" {
		c.Next()
		return
	}

	username, password, ok := c.Request.BasicAuth()
	if !ok || !validateCredentials(auth, username, password) {
		log.Warn().Str("path", c.Request.URL.Path).Str("ip", c.ClientIP()).Msg(ErrUnauthorized.Error())
		api.UnauthorizedErrorHandler(c, ErrUnauthorized)
		return
	}
	c.Next()
}

func validateCredentials(auth *config.BasicAuthConfig, username, password string) bool {
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(auth.Username)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(password), []byte(auth.Password)) == 1
	return userOK && passOK
}

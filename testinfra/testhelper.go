package testinfra

import (
	"context"
	"io/ioutil"
	"net/http"
	"net/http/httptest"
	"printdesk/session"

	"github.com/gin-gonic/gin"
)

func ExecuteRequest(req *http.Request, engine *gin.Engine) (int, string, *http.Response) {
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	resp := w.Result()
	defer resp.Body.Close()
	body, _ := ioutil.ReadAll(resp.Body)
	return resp.StatusCode, string(body), resp
}

// BuildSession builds a signed-in session of the given role.
func BuildSession(uid string, role session.Role) *session.Session {
	return &session.Session{
		Token:    "token-" + uid,
		Identity: session.Identity{ID: uid, Name: "user " + uid, Role: role},
		Context:  context.Background(),
	}
}

// InjectSession returns a middleware which puts s into the request as the signed-in session.
func InjectSession(s *session.Session) gin.HandlerFunc {
	return func(c *gin.Context) {
		session.InjectSessionIntoGinContext(c, s)
		c.Next()
	}
}

package courses

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/devtrailhq/devtrail/internal/features/auth"
)

type stubBootcampSource struct {
	parent *ParentBootcamp
}

func (s *stubBootcampSource) GetParent(ctx context.Context, id string) (*ParentBootcamp, error) {
	return s.parent, nil
}

func (s *stubBootcampSource) GetParents(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]*ParentBootcamp, error) {
	return nil, nil
}

// newCreateRouter wires CreateCourse behind a principal-injecting
// middleware. The repository is nil: any path that reaches it panics, so a
// passing test proves nothing was written.
func newCreateRouter(user *auth.User, source BootcampSource) *gin.Engine {
	gin.SetMode(gin.TestMode)
	handler := NewHandler(nil, source)

	r := gin.New()
	r.POST("/api/v1/bootcamps/:id/courses", func(c *gin.Context) {
		auth.SetCurrentUser(c, user)
	}, handler.CreateCourse)
	return r
}

func postCourse(r *gin.Engine, bootcampID string) *httptest.ResponseRecorder {
	body := `{"title":"Front End Web Development","description":"HTML, CSS and JavaScript","weeks":"8","tuition":8000,"minimumSkill":"beginner"}`
	req := httptest.NewRequest("POST", "/api/v1/bootcamps/"+bootcampID+"/courses", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestCreateCourseRejectsNonOwner(t *testing.T) {
	owner := primitive.NewObjectID()
	intruder := &auth.User{ID: primitive.NewObjectID(), Role: auth.RolePublisher, Active: true}
	parent := &ParentBootcamp{ID: primitive.NewObjectID(), Name: "Devworks", User: owner}

	r := newCreateRouter(intruder, &stubBootcampSource{parent: parent})
	w := postCourse(r, parent.ID.Hex())

	require.Equal(t, 403, w.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Equal(t, false, body["success"])
	require.Contains(t, body["error"], "is not authorized to add a course to bootcamp")
}

func TestCreateCourseAdmitsOwner(t *testing.T) {
	owner := &auth.User{ID: primitive.NewObjectID(), Role: auth.RolePublisher, Active: true}
	parent := &ParentBootcamp{ID: primitive.NewObjectID(), Name: "Devworks", User: owner.ID}

	r := newCreateRouter(owner, &stubBootcampSource{parent: parent})

	// The owner clears the authorization gate, so the handler reaches the
	// nil repository and panics instead of returning 403.
	require.Panics(t, func() { postCourse(r, parent.ID.Hex()) })
}

func TestCreateCourseUnknownBootcamp(t *testing.T) {
	user := &auth.User{ID: primitive.NewObjectID(), Role: auth.RolePublisher, Active: true}

	r := newCreateRouter(user, &stubBootcampSource{parent: nil})
	missing := primitive.NewObjectID().Hex()
	w := postCourse(r, missing)

	require.Equal(t, 404, w.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Equal(t, "No bootcamp with the id of "+missing, body["error"])
}

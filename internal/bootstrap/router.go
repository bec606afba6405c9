package bootstrap

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	apihttp "github.com/guahanweb/photography-challenges-backend/internal/api/http"
	"github.com/guahanweb/photography-challenges-backend/internal/api/http/middleware"
	"github.com/guahanweb/photography-challenges-backend/internal/auth"
	authhttp "github.com/guahanweb/photography-challenges-backend/internal/auth/http"
	challengeshttp "github.com/guahanweb/photography-challenges-backend/internal/challenges/http"
	challengesrepo "github.com/guahanweb/photography-challenges-backend/internal/challenges/repository"
	invitationshttp "github.com/guahanweb/photography-challenges-backend/internal/invitations/http"
	invitationsrepo "github.com/guahanweb/photography-challenges-backend/internal/invitations/repository"
	projectshttp "github.com/guahanweb/photography-challenges-backend/internal/projects/http"
	projectsrepo "github.com/guahanweb/photography-challenges-backend/internal/projects/repository"
	usersrepo "github.com/guahanweb/photography-challenges-backend/internal/users/repository"
)

type RouterDeps struct {
	ServiceName string
	Version     string
	Tokens      *auth.TokenService
	Projects    *projectsrepo.ProjectRepository
	Instances   *challengesrepo.InstanceRepository
	Invitations *invitationsrepo.InvitationRepository
	Users       *usersrepo.UserRepository
}

func BuildRouter(dep RouterDeps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(cors.Default())

	healthHandler := apihttp.NewHealthHandler(dep.ServiceName, dep.Version)
	healthHandler.RegisterRoutes(r)

	api := r.Group("/api")

	authGroup := api.Group("/auth")
	authGroup.Use(middleware.RateLimit(rate.Limit(5), 10))
	authhttp.NewHandler(dep.Users, dep.Tokens).Register(authGroup)

	invHandler := invitationshttp.NewHandler(dep.Invitations)
	// Code lookup and claim happen before the recipient has an account.
	invHandler.RegisterPublic(api.Group("/invitations"))

	authed := api.Group("")
	authed.Use(auth.RequireAuth(dep.Tokens))

	projectshttp.NewHandler(dep.Projects).Register(authed.Group("/projects"))
	challengeshttp.NewHandler(dep.Instances).Register(authed.Group("/challenges"))
	invHandler.Register(authed.Group("/invitations"))

	return r
}

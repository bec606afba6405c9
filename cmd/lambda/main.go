// Command lambda serves the same router as cmd/api behind API Gateway. Proxy
// events are translated to plain HTTP requests so the two deployments cannot
// drift apart.
package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/gin-gonic/gin"

	"github.com/guahanweb/photography-challenges-backend/config"
	"github.com/guahanweb/photography-challenges-backend/internal/api/httpx"
	"github.com/guahanweb/photography-challenges-backend/internal/auth"
	"github.com/guahanweb/photography-challenges-backend/internal/bootstrap"
	challengesrepo "github.com/guahanweb/photography-challenges-backend/internal/challenges/repository"
	invitationsrepo "github.com/guahanweb/photography-challenges-backend/internal/invitations/repository"
	projectsrepo "github.com/guahanweb/photography-challenges-backend/internal/projects/repository"
	"github.com/guahanweb/photography-challenges-backend/internal/storage"
	usersrepo "github.com/guahanweb/photography-challenges-backend/internal/users/repository"
)

const serviceName = "photography-challenges-api"

type App struct {
	router *gin.Engine
}

func (a *App) handle(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	r, err := toHTTPRequest(ctx, req)
	if err != nil {
		slog.Error("failed to translate proxy event", "error", err)
		return httpx.Error(http.StatusBadRequest, "malformed request")
	}

	w := newProxyWriter()
	a.router.ServeHTTP(w, r)
	return w.response(), nil
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	bootstrap.SetGinMode(cfg.App.Environment)

	db, err := storage.NewClient(context.Background(), cfg.AWS)
	if err != nil {
		slog.Error("failed to create dynamodb client", "error", err)
		os.Exit(1)
	}

	router := bootstrap.BuildRouter(bootstrap.RouterDeps{
		ServiceName: serviceName,
		Version:     cfg.App.Version,
		Tokens:      auth.NewTokenService(cfg.JWT.Secret, cfg.JWT.ExpiresIn),
		Projects:    projectsrepo.NewProjectRepository(db, cfg.Tables.Projects),
		Instances:   challengesrepo.NewInstanceRepository(db, cfg.Tables.ProjectInstances),
		Invitations: invitationsrepo.NewInvitationRepository(db, cfg.Tables.Invitations),
		Users:       usersrepo.NewUserRepository(db, cfg.Tables.Users),
	})

	lambda.Start((&App{router: router}).handle)
}

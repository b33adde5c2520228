package petsetuserver

import (
	"github.com/gin-gonic/gin"

	apierrors "github.com/petsetu/petsetu-web/internal/shared/errors"
)

// respondProblem maps a ProblemDetail through the shared responder.
func respondProblem(c *gin.Context, problem apierrors.ProblemDetail) {
	apierrors.Respond(c, problem)
}

// respondBadRequest reports an unreadable request body or parameter.
func respondBadRequest(c *gin.Context, err error) {
	if err == nil {
		return
	}
	respondProblem(c, apierrors.ErrBadRequest.WithDetail(err.Error()))
}

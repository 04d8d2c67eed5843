package driven

import (
	"context"

	"github.com/custodia-labs/querychat/internal/core/domain"
)

// QueryBackend is the network collaborator of the chat controller.
type QueryBackend interface {
	// Query posts req to endpoint and returns the raw JSON body.
	// A body that is not JSON yields domain.ErrInvalidResponse.
	// Failures to obtain any response yield domain.ErrTransport.
	Query(ctx context.Context, endpoint string, req domain.QueryRequest) ([]byte, error)

	// ToggleAgent asks the backend to enable or disable agent mode.
	// Any non-2xx response is an error.
	ToggleAgent(ctx context.Context, enable bool) error
}

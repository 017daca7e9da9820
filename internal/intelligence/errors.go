package intelligence

import (
	"fmt"

	"github.com/alexanderramin/stageplan/internal/domain"
)

// externalCallError marks err as a failed collaborator call.
func externalCallError(action string, err error) error {
	return fmt.Errorf("%w: %s: %w", domain.ErrExternalCall, action, err)
}

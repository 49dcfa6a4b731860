package domain

import (
	"fmt"

	"github.com/google/uuid"
)

// DeleteMethod names a deletion strategy. The order of DeleteMethods is the
// order in which they are attempted.
type DeleteMethod string

const (
	DeleteAdminDirect   DeleteMethod = "admin_direct"
	DeleteRegularClient DeleteMethod = "regular_client"
	DeleteRPCFunction   DeleteMethod = "rpc_function"
	DeleteSoft          DeleteMethod = "soft_delete"
)

// DeleteMethods lists every strategy in escalation order.
var DeleteMethods = []DeleteMethod{
	DeleteAdminDirect,
	DeleteRegularClient,
	DeleteRPCFunction,
	DeleteSoft,
}

// Tombstone values written by a soft delete.
const (
	TombstonePrefix  = "[DELETED]"
	TombstoneMessage = "This lead was deleted by an administrator."
	tombstoneDomain  = "deleted.invalid"
)

// Tombstone replaces the identifying fields of a soft-deleted lead.
type Tombstone struct {
	Name    string
	Email   string
	Message string
}

// NewTombstone builds the replacement values for lead id. The placeholder
// address is unique per call.
func NewTombstone(id uuid.UUID) Tombstone {
	short := id.String()[:8]
	return Tombstone{
		Name:    fmt.Sprintf("%s %s", TombstonePrefix, short),
		Email:   fmt.Sprintf("deleted-%s@%s", uuid.NewString(), tombstoneDomain),
		Message: TombstoneMessage,
	}
}

// Caller is the authenticated dashboard user on whose behalf a
// caller-credential operation runs.
type Caller struct {
	UserID uuid.UUID
	Claims map[string]interface{}
}

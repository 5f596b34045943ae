package calo

import "github.com/xraph/calo/id"

// ID is the primary identifier type for all calo entities.
type ID = id.ID

// Prefix identifies the entity type encoded in a TypeID.
type Prefix = id.Prefix

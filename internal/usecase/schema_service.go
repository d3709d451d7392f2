package usecase

import (
	"fmt"
	"sort"
	"strings"

	"github.com/riskibarqy/fpl-data-service/internal/domain/fixture"
	"github.com/riskibarqy/fpl-data-service/internal/domain/gameweek"
	"github.com/riskibarqy/fpl-data-service/internal/domain/player"
	"github.com/riskibarqy/fpl-data-service/internal/domain/team"
)

// schemaRegistry is the explicit field:type table per entity, used by
// callers to discover valid filter and sort fields before querying.
var schemaRegistry = map[string]func() map[string]string{
	"player":   player.Schema,
	"team":     team.Schema,
	"fixture":  fixture.Schema,
	"gameweek": gameweek.Schema,
}

// EntitySchema returns the field-to-type mapping for one entity name.
func EntitySchema(entity string) (map[string]string, error) {
	schema, ok := schemaRegistry[strings.ToLower(strings.TrimSpace(entity))]
	if !ok {
		return nil, fmt.Errorf("%w: unknown entity %q, expected one of %s", ErrInvalidInput, entity, strings.Join(SchemaEntities(), ", "))
	}
	return schema(), nil
}

// SchemaEntities lists the entity names the registry knows, sorted.
func SchemaEntities() []string {
	out := make([]string, 0, len(schemaRegistry))
	for name := range schemaRegistry {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

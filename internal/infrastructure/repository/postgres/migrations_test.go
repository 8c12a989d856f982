package postgres

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/fitclash/league-engine/internal/domain/game"
)

// The CHECK constraints in the schema must enumerate exactly the values
// the repositories write, or every insert fails at the database.
func TestMigrations_EnumConstraintsMatchDomainValues(t *testing.T) {
	schema := readMigrations(t)

	for _, side := range []game.Side{game.SideHome, game.SideAway} {
		require.Contains(t, schema, fmt.Sprintf("'%s'", side),
			"score_events side constraint must accept %q", side)
	}
	require.NotContains(t, schema, "'HOME'")
	require.NotContains(t, schema, "'AWAY'")

	statuses := []game.Status{
		game.StatusScheduled,
		game.StatusInProgress,
		game.StatusFinished,
		game.StatusEvaluated,
	}
	for _, status := range statuses {
		require.Contains(t, schema, fmt.Sprintf("'%s'", status),
			"games status constraint must accept %q", status)
	}
}

func TestMigrations_IdempotencyIndexes(t *testing.T) {
	schema := readMigrations(t)

	require.Contains(t, schema, "ON score_events (workout_ref)",
		"duplicate workout detection relies on this unique index")
	require.Contains(t, schema, "game_summaries_game_public_id_key",
		"summary conflict detection matches this constraint name")
}

func readMigrations(t *testing.T) string {
	t.Helper()

	paths, err := filepath.Glob(filepath.Join("..", "..", "..", "..", "db", "migrations", "*.up.sql"))
	require.NoError(t, err)
	require.NotEmpty(t, paths, "no migration files found")

	var schema string
	for _, path := range paths {
		raw, err := os.ReadFile(path)
		require.NoError(t, err)
		schema += string(raw)
	}
	return schema
}

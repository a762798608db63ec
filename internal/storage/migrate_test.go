package storage_test

import (
	"strings"
	"testing"

	"github.com/nexla-ia/plataforma-conversa-sub000/internal/config"
	"github.com/nexla-ia/plataforma-conversa-sub000/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTriggerSQL(t *testing.T) {
	stmts := storage.TriggerSQL()

	require.Len(t, stmts, 1+2*len(config.ScopeColumns))
	assert.Contains(t, stmts[0], "pg_notify('"+config.NotifyChannel+"'")

	joined := strings.Join(stmts, "\n")
	for table, column := range config.ScopeColumns {
		assert.Contains(t, joined, "ON "+table+" FOR EACH ROW EXECUTE FUNCTION notify_table_change('"+column+"')")
	}
	assert.NotContains(t, joined, "ON contact_tags")
	assert.Equal(t, stmts, storage.TriggerSQL())
}

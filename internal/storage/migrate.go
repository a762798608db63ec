package storage

import (
	"fmt"
	"sort"

	"github.com/nexla-ia/plataforma-conversa-sub000/internal/config"
	"github.com/nexla-ia/plataforma-conversa-sub000/internal/models"
	"gorm.io/gorm"
)

const notifyFunctionSQL = `
CREATE OR REPLACE FUNCTION notify_table_change() RETURNS trigger AS $$
DECLARE
    rec record;
BEGIN
    IF TG_OP = 'DELETE' THEN
        rec := OLD;
    ELSE
        rec := NEW;
    END IF;
    PERFORM pg_notify('` + config.NotifyChannel + `', json_build_object(
        'table', TG_TABLE_NAME,
        'op', TG_OP,
        'column', TG_ARGV[0],
        'value', row_to_json(rec)->>TG_ARGV[0]
    )::text);
    RETURN rec;
END;
$$ LANGUAGE plpgsql;`

// TriggerSQL returns the statements that install change notifications on
// every realtime table, in a stable order.
func TriggerSQL() []string {
	tables := make([]string, 0, len(config.ScopeColumns))
	for t := range config.ScopeColumns {
		tables = append(tables, t)
	}
	sort.Strings(tables)

	stmts := []string{notifyFunctionSQL}
	for _, t := range tables {
		trigger := t + "_notify_change"
		stmts = append(stmts,
			fmt.Sprintf(`DROP TRIGGER IF EXISTS %s ON %s`, trigger, t),
			fmt.Sprintf(`CREATE TRIGGER %s AFTER INSERT OR UPDATE OR DELETE ON %s FOR EACH ROW EXECUTE FUNCTION notify_table_change('%s')`,
				trigger, t, config.ScopeColumns[t]),
		)
	}
	return stmts
}

// AutoMigrate creates or updates every table and installs the notify triggers.
func AutoMigrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.Company{},
		&models.Attendant{},
		&models.SuperAdmin{},
		&models.Department{},
		&models.Sector{},
		&models.Tag{},
		&models.Contact{},
		&models.ContactTag{},
		&models.Message{},
	)
	if err != nil {
		return fmt.Errorf("automigrate: %w", err)
	}
	if err := db.Table(config.TableSentMessages).AutoMigrate(&models.Message{}); err != nil {
		return fmt.Errorf("automigrate %s: %w", config.TableSentMessages, err)
	}

	for _, stmt := range TriggerSQL() {
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("install notify trigger: %w", err)
		}
	}
	return nil
}

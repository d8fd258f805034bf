package extract

import (
	"context"
	"fmt"

	"github.com/alfredjeanlab/pgconfig/internal/model"
)

// settingsQuery reads the default-relevant parameters. Preset options are
// read-only build facts, not configuration, and frequently overridden
// parameters (application_name and friends) make no sense to compare
// against defaults; both are excluded at the source.
const settingsQuery = `
	SELECT name, default_config_line, unit, context, category,
		boot_val, short_desc, frequent_override,
		vartype, min_val, max_val, enumvals,
		boot_val || COALESCE(' ' || unit, '') AS boot_val_display
	FROM pgconfig.settings
	WHERE category != 'Preset Options'
		AND NOT frequent_override
	ORDER BY name`

const serverVersionQuery = `SELECT current_setting('server_version_num')::BIGINT`

// ServerVersion returns the server's major version plus the full
// server_version_num. Servers older than PostgreSQL 10 are rejected; the
// two-part versioning scheme before it does not map onto a single major.
func (e *Extractor) ServerVersion(ctx context.Context) (model.Version, int, error) {
	var num int
	if err := e.db.QueryRowContext(ctx, serverVersionQuery).Scan(&num); err != nil {
		return 0, 0, fmt.Errorf("query server version: %w", err)
	}
	major := model.Version(num / 10000)
	if major < 10 {
		return 0, 0, fmt.Errorf("postgres 10 or newer required, server reports %d", num)
	}
	return major, num, nil
}

// Settings returns the server's default-relevant parameters in name order.
func (e *Extractor) Settings(ctx context.Context) ([]model.Parameter, error) {
	rows, err := e.db.QueryContext(ctx, settingsQuery)
	if err != nil {
		return nil, fmt.Errorf("query settings: %w", err)
	}
	defer rows.Close()

	var params []model.Parameter
	for rows.Next() {
		p, err := scanParameter(rows)
		if err != nil {
			return nil, fmt.Errorf("scan setting: %w", err)
		}
		params = append(params, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read settings: %w", err)
	}
	return params, nil
}

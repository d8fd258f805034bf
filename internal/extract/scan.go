package extract

import (
	"database/sql"

	"github.com/lib/pq"

	"github.com/alfredjeanlab/pgconfig/internal/model"
)

// scannable is the interface satisfied by both *sql.Row and *sql.Rows.
type scannable interface {
	Scan(dest ...any) error
}

// scanParameter scans a single row into a model.Parameter. The row must
// contain the columns in the order produced by settingsQuery.
func scanParameter(row scannable) (*model.Parameter, error) {
	var p model.Parameter
	var (
		configLine sql.NullString
		unit       sql.NullString
		bootVal    sql.NullString
		minVal     sql.NullString
		maxVal     sql.NullString
		enumVals   pq.StringArray
		display    sql.NullString
	)

	err := row.Scan(
		&p.Name,
		&configLine,
		&unit,
		&p.Context,
		&p.Category,
		&bootVal,
		&p.ShortDesc,
		&p.FrequentOverride,
		&p.VarType,
		&minVal,
		&maxVal,
		&enumVals,
		&display,
	)
	if err != nil {
		return nil, err
	}

	p.DefaultConfigLine = configLine.String
	p.Unit = unit.String
	p.BootVal = bootVal.String
	p.MinVal = minVal.String
	p.MaxVal = maxVal.String
	p.BootValDisplay = display.String
	if len(enumVals) > 0 {
		p.EnumVals = []string(enumVals)
	}
	return &p, nil
}

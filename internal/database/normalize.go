package database

import (
	"database/sql"
	"fmt"
	"math"
	"math/big"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgtype"
)

// Row is one normalized result row keyed by column name
type Row map[string]any

// Normalizer converts driver values into values encoding/json and msgpack
// can represent faithfully. Precision maps a column name to the number of
// decimal places it is rounded to.
type Normalizer struct {
	Precision map[string]int
}

// ScanRows drains rows into normalized Row values and closes rows. An empty
// result is an empty, non-nil slice so it encodes as [] rather than null.
func (n Normalizer) ScanRows(rows *sql.Rows) ([]Row, error) {
	defer rows.Close()

	cols, err := rows.ColumnTypes()
	if err != nil {
		return nil, fmt.Errorf("error reading column types: %w", err)
	}

	result := make([]Row, 0)
	for rows.Next() {
		values := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range values {
			ptrs[i] = &values[i]
		}

		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("error scanning row: %w", err)
		}

		row := make(Row, len(cols))
		for i, col := range cols {
			row[col.Name()] = n.Value(col.Name(), col.DatabaseTypeName(), values[i])
		}
		result = append(result, row)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return result, nil
}

// Value normalizes a single column value. dbType is the driver's type name
// for the column (e.g. NUMERIC, INT8); it decides how text values are read.
func (n Normalizer) Value(column, dbType string, v any) any {
	out := normalizeValue(dbType, v)

	places, ok := n.Precision[column]
	if !ok {
		return out
	}
	switch f := out.(type) {
	case float64:
		return Round(f, places)
	case int64:
		return f
	}
	return out
}

func normalizeValue(dbType string, v any) any {
	switch val := v.(type) {
	case nil:
		return nil
	case int64:
		return val
	case int32:
		return int64(val)
	case int16:
		return int64(val)
	case int:
		return int64(val)
	case float64:
		return finite(val)
	case float32:
		return finite(float64(val))
	case bool:
		return val
	case []byte:
		return normalizeText(dbType, string(val))
	case string:
		return normalizeText(dbType, val)
	case time.Time:
		return val.UTC().Format(time.RFC3339)
	default:
		return val
	}
}

// normalizeText handles values the driver hands back as text. PostgreSQL
// NUMERIC arrives this way, and some drivers stringify INT8 to avoid
// precision loss.
func normalizeText(dbType, s string) any {
	switch strings.ToUpper(dbType) {
	case "NUMERIC", "DECIMAL":
		return decodeNumeric(s)
	case "INT8", "BIGINT", "INT4", "INTEGER", "INT2", "SMALLINT":
		if i, err := strconv.ParseInt(s, 10, 64); err == nil {
			return i
		}
	case "FLOAT8", "FLOAT4", "DOUBLE PRECISION", "REAL":
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return finite(f)
		}
	}
	return s
}

// decodeNumeric reads NUMERIC text. Integral values that fit an int64 stay
// integers; NaN and infinities, which JSON cannot carry, become null.
func decodeNumeric(s string) any {
	var num pgtype.Numeric
	if err := num.DecodeText(nil, []byte(s)); err != nil {
		return s
	}
	if num.Status != pgtype.Present || num.NaN || num.InfinityModifier != pgtype.None {
		return nil
	}

	if num.Exp >= 0 {
		whole := new(big.Int).Mul(num.Int, pow10(int(num.Exp)))
		if whole.IsInt64() {
			return whole.Int64()
		}
	}

	var f float64
	if err := num.AssignTo(&f); err != nil {
		return s
	}
	return finite(f)
}

func finite(f float64) any {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	return f
}

// Round rounds f to places decimal digits, half away from zero, working on
// the shortest decimal representation of f the way ROUND(x::numeric, n) does.
// Plain float arithmetic would turn 1.005 into 1.00.
func Round(f float64, places int) float64 {
	if math.IsNaN(f) || math.IsInf(f, 0) || places < 0 {
		return f
	}

	var num pgtype.Numeric
	if err := num.DecodeText(nil, []byte(strconv.FormatFloat(f, 'f', -1, 64))); err != nil {
		return f
	}

	drop := int(-num.Exp) - places
	if drop <= 0 {
		return f
	}

	divisor := pow10(drop)
	q, r := new(big.Int).QuoRem(num.Int, divisor, new(big.Int))
	r.Abs(r).Lsh(r, 1)
	if r.Cmp(divisor) >= 0 {
		q.Add(q, big.NewInt(int64(num.Int.Sign())))
	}

	rounded := pgtype.Numeric{Int: q, Exp: int32(-places), Status: pgtype.Present}
	var out float64
	if err := rounded.AssignTo(&out); err != nil {
		return f
	}
	return out
}

func pow10(n int) *big.Int {
	return new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(n)), nil)
}

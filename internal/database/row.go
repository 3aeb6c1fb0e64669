package database

import "github.com/koustreak/tierline/internal/errs"

// ScanAll reads every row from the result set with scan and returns the
// collected values in result-set order.
//
// The returned slice is always non-nil (empty slice on zero rows).
// ScanAll always closes the Rows; callers do not need to call Close().
func ScanAll[T any](rows Rows, scan func(Rows) (T, error)) ([]T, error) {
	defer rows.Close()

	result := make([]T, 0)
	for rows.Next() {
		v, err := scan(rows)
		if err != nil {
			return nil, classify(err, "failed to scan row")
		}
		result = append(result, v)
	}

	if err := rows.Err(); err != nil {
		return nil, classify(err, "error during row iteration")
	}

	return result, nil
}

// classify keeps a kind already assigned by the driver and marks anything
// else as a query failure.
func classify(err error, msg string) error {
	if errs.KindOf(err) != errs.ErrKindUnknown {
		return err
	}
	return errs.Wrap(errs.ErrKindQueryFailed, msg, err)
}
